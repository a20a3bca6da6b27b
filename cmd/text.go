package cmd

import (
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var textCmd = &cobra.Command{
	Use:   "text [words...]",
	Short: "Analyze the emotion of a piece of text",
	Long: `Analyze the emotion of a piece of text.

The words are joined with spaces. Use "-" to read the text from stdin.`,
	RunE: runText,
}

func init() {
	rootCmd.AddCommand(textCmd)
}

func runText(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if text == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return err
		}
		text = string(b)
	}
	return withApp(cmd.Context(), func(a *app) error {
		return a.analyzer(a.terminal()).AnalyzeText(cmd.Context(), text)
	})
}
