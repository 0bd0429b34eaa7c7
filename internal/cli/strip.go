package cli

import (
	"github.com/spf13/cobra"

	"github.com/deepprep/bidsify/internal/planner"
)

var stripCommit bool

var stripCmd = &cobra.Command{
	Use:   "strip",
	Short: "Rename sub-XX/ses-YY directories to XX/YY",
	Long: `Remove BIDS prefixes from a dataset, turning sub-XX into XX and ses-YY
into YY. Ids are zero-padded to two digits. Existing destinations are never
overwritten; those renames are skipped.

Without --commit the plan is printed and nothing is changed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRename(cmd, planner.StripPrefix, stripCommit)
	},
}

func init() {
	stripCmd.Flags().String("root", "", "Dataset root containing subject folders (default ./dataset, env BIDSIFY_ROOT)")
	stripCmd.Flags().BoolVar(&stripCommit, "commit", false, "Apply the renames (default: dry run)")
}
