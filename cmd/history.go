package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/maastricht-university/emotiai/journal"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent results from the journal",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", journal.DefaultLimit, "number of results")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if conf.Paths.Journal == "" {
		return fmt.Errorf("no journal configured, set --journal or paths.journal")
	}
	j, err := journal.Open(cmd.Context(), conf.Paths.Journal)
	if err != nil {
		return err
	}
	defer j.Close()

	entries, err := j.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No results recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tMODALITY\tEMOTION\tCONFIDENCE\tFACES\tTRANSCRIPT")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d%%\t%d\t%s\n",
			humanize.Time(e.Timestamp), e.Modality, e.Emotion, e.Confidence, e.Faces, e.Transcript)
	}
	return w.Flush()
}
