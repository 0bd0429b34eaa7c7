package cli

import (
	"context"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/deepprep/bidsify/internal/engine"
)

var (
	classifySeqInfo  string
	classifyDicomDir string
	classifySubject  string
	classifySession  string
	classifyOut      string
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Map imaging series to BIDS output keys",
	Long: `Classify imaging series by protocol name and volume count.

Series come from a heudiconv dicominfo.tsv (or a JSON/YAML list of the same
records) given with --seqinfo, or are read from DICOM headers under --dicom-dir.
Rules are evaluated in order and the first match wins. The built-in rules can
be replaced with a YAML file (--rules or BIDSIFY_RULES).

With --subject and --session the concrete output paths are printed. With --out
the heuristic is written as JSON for the converter.`,
	Example: `  bidsify classify --seqinfo .heudiconv/01/info/dicominfo.tsv
  bidsify classify --dicom-dir /raw/01/01 --subject 01 --session 01 --out heuristic.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		result, err := newEngine().Classify(context.Background(), &engine.ClassifyRequest{
			SeqInfoPath: classifySeqInfo,
			DicomDir:    classifyDicomDir,
			RulesPath:   settings.RulesFile,
			Subject:     classifySubject,
			Session:     classifySession,
			OutPath:     classifyOut,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		printClassification(result)
		return nil
	},
}

func printClassification(result *engine.ClassifyResult) {
	PrintSection("Series")
	if len(result.Info.Decisions) == 0 {
		PrintEmptyState("No series found in " + result.Source)
	}

	rows := make([][]string, 0, len(result.Info.Decisions))
	for _, d := range result.Info.Decisions {
		key := d.Key
		if key == "" {
			key = "-"
		}
		rows = append(rows, []string{
			d.Record.SeriesID,
			d.Record.ProtocolName,
			strconv.Itoa(d.Record.Dim3),
			strconv.Itoa(d.Record.Dim4),
			key,
		})
	}
	PrintTable([]string{"SERIES", "PROTOCOL", "DIM3", "DIM4", "KEY"}, rows)
	_, _ = stdout.Write([]byte("\n"))

	for _, d := range result.Info.Decisions {
		if d.Classified() {
			PrintInfo(d.Message())
		} else {
			PrintSkip(d.Message())
		}
	}
	if len(result.Skipped) > 0 {
		PrintInfo(PrintCount(len(result.Skipped), "non-DICOM file skipped", "non-DICOM files skipped"))
		names := make([]string, 0, len(result.Skipped))
		for _, p := range result.Skipped {
			if rel, err := filepath.Rel(result.Source, p); err == nil {
				p = rel
			}
			names = append(names, p)
		}
		PrintList(names, 1)
	}

	if len(result.Rendered) > 0 {
		PrintSection("Output Paths")
		for _, r := range result.Rendered {
			PrintLabelValue(r.SeriesID, r.Path)
		}
	}

	if result.Written != "" {
		_, _ = stdout.Write([]byte("\n"))
		PrintDone("heuristic written to " + result.Written)
	}
}

func init() {
	classifyCmd.Flags().StringVar(&classifySeqInfo, "seqinfo", "", "Series info file (.tsv, .json, .yaml)")
	classifyCmd.Flags().StringVar(&classifyDicomDir, "dicom-dir", "", "Directory of DICOM files to read series from")
	classifyCmd.Flags().String("rules", "", "YAML rule file (default: built-in rules, env BIDSIFY_RULES)")
	classifyCmd.Flags().StringVar(&classifySubject, "subject", "", "Subject label for rendered paths")
	classifyCmd.Flags().StringVar(&classifySession, "session", "", "Session label for rendered paths")
	classifyCmd.Flags().StringVarP(&classifyOut, "out", "o", "", "Write the heuristic as JSON to this file")

	classifyCmd.MarkFlagsMutuallyExclusive("seqinfo", "dicom-dir")
	classifyCmd.MarkFlagsOneRequired("seqinfo", "dicom-dir")
	classifyCmd.MarkFlagsRequiredTogether("subject", "session")
}
