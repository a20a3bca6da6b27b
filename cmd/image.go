package cmd

import (
	"errors"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/maastricht-university/emotiai/orchestrator"
)

var imageCmd = &cobra.Command{
	Use:   "image <path>",
	Short: "Analyze the faces in a picture",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runImage,
}

func init() {
	rootCmd.AddCommand(imageCmd)
}

func runImage(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	return withApp(ctx, func(a *app) error {
		var up orchestrator.Upload
		if len(args) == 1 {
			var err error
			up, err = orchestrator.LoadUpload(args[0])
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
		}
		return a.analyzer(a.terminal()).AnalyzeImage(ctx, up)
	})
}
