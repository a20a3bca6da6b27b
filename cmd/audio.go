package cmd

import (
	"bufio"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/maastricht-university/emotiai/capture/mic"
	"github.com/maastricht-university/emotiai/orchestrator"
)

var (
	audioFile     string
	audioRecord   bool
	audioDuration time.Duration
)

var audioCmd = &cobra.Command{
	Use:   "audio",
	Short: "Analyze speech from a file or the microphone",
	Long: `Analyze speech from a file or the microphone.

With --record the default input device is recorded until Enter is pressed
or --duration elapses. Silence at both ends is trimmed before upload.`,
	RunE: runAudio,
}

func init() {
	audioCmd.Flags().StringVarP(&audioFile, "file", "f", "", "audio file to analyze")
	audioCmd.Flags().BoolVarP(&audioRecord, "record", "r", false, "record from the microphone")
	audioCmd.Flags().DurationVarP(&audioDuration, "duration", "d", 0, "stop recording after this long")
	audioCmd.MarkFlagsMutuallyExclusive("file", "record")
	rootCmd.AddCommand(audioCmd)
}

func runAudio(cmd *cobra.Command, _ []string) error {
	if audioFile == "" && !audioRecord {
		return fmt.Errorf("either --file or --record is required")
	}
	ctx := cmd.Context()
	return withApp(ctx, func(a *app) error {
		an := a.analyzer(a.terminal())
		if audioFile != "" {
			up, err := orchestrator.LoadUpload(audioFile)
			if err != nil {
				return err
			}
			return an.AnalyzeAudio(ctx, up)
		}

		m := mic.New(mic.Config{
			SampleRate: a.conf.Audio.SampleRate,
			Channels:   a.conf.Audio.Channels,
			MaxSeconds: a.conf.Audio.MaxSeconds,
			VADMode:    a.conf.Audio.VADMode,
		})
		stop := make(chan struct{})
		go func() {
			if audioDuration > 0 {
				time.Sleep(audioDuration)
			} else {
				fmt.Fprintln(cmd.ErrOrStderr(), "Recording... press Enter to stop.")
				bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			}
			close(stop)
		}()
		return an.RecordAudio(ctx, m, stop)
	})
}
