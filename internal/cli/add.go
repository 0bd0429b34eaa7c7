package cli

import (
	"github.com/spf13/cobra"

	"github.com/deepprep/bidsify/internal/planner"
)

var addCommit bool

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Rename XX/YY directories to sub-XX/ses-YY",
	Long: `Add BIDS prefixes to a dataset laid out as <subject>/<session>.

Numeric subject directories under the root become sub-XX and numeric session
directories inside them become ses-YY. Ids are zero-padded to two digits.
Existing destinations are never overwritten; those renames are skipped.

Without --commit the plan is printed and nothing is changed.`,
	Example: `  bidsify add --root ./dataset
  BIDSIFY_ROOT=/data/study bidsify add --commit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRename(cmd, planner.AddPrefix, addCommit)
	},
}

func init() {
	addCmd.Flags().String("root", "", "Dataset root containing subject folders (default ./dataset, env BIDSIFY_ROOT)")
	addCmd.Flags().BoolVar(&addCommit, "commit", false, "Apply the renames (default: dry run)")
}
