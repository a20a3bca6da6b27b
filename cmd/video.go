package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/maastricht-university/emotiai/capture"
	"github.com/maastricht-university/emotiai/orchestrator"
	"github.com/maastricht-university/emotiai/render"
)

var (
	videoFrames   string
	videoTUI      bool
	videoServe    string
	videoDuration time.Duration
)

var videoCmd = &cobra.Command{
	Use:   "video",
	Short: "Analyze a live camera feed",
	Long: `Analyze a live camera feed.

Frames are taken from --frames, a directory of images replayed in a loop,
and sent to the service every video.poll_interval_ms. Results are smoothed
over the last few frames before they are shown.

--tui shows a full-screen dashboard, --serve pushes results to browsers
over WebSocket at ws://<addr>/ws.`,
	RunE: runVideo,
}

func init() {
	f := videoCmd.Flags()
	f.StringVar(&videoFrames, "frames", "", "directory of frames standing in for the camera")
	f.BoolVar(&videoTUI, "tui", false, "show a live dashboard")
	f.StringVar(&videoServe, "serve", "", "serve results over WebSocket on this address")
	f.DurationVar(&videoDuration, "duration", 0, "stop after this long")
	videoCmd.MarkFlagRequired("frames")
	rootCmd.AddCommand(videoCmd)
}

func runVideo(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if videoDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, videoDuration)
		defer cancel()
	}

	return withApp(ctx, func(a *app) error {
		vc := a.conf.Video
		cam := capture.NewDirCamera(videoFrames, capture.FrameOptions{
			Width:   vc.Width,
			Height:  vc.Height,
			Quality: vc.JPEGQuality,
		})

		var outs render.Multi
		var prog *tea.Program
		if videoTUI {
			prog = tea.NewProgram(render.NewDashboard("emotiai - live video"), tea.WithContext(ctx), tea.WithAltScreen())
			tui := render.NewTUI(prog, a.theme)
			defer tui.Close()
			outs = append(outs, tui)
		} else {
			outs = append(outs, a.terminal())
		}

		if videoServe != "" {
			hub := render.NewHub(a.theme, a.log)
			hub.AllowOrigins(vc.AllowedOrigins...)
			defer hub.Close()
			mux := http.NewServeMux()
			mux.Handle("/ws", hub)
			srv := &http.Server{Addr: videoServe, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					a.log.WithError(err).Error("websocket server")
				}
			}()
			defer srv.Shutdown(context.Background())
			a.log.WithField("addr", videoServe).Info("serving results on /ws")
			outs = append(outs, hub)
		}

		session := orchestrator.NewVideoSession(a.api, cam, a.output(outs), orchestrator.VideoOptions{
			Interval:            vc.Interval(),
			Alpha:               vc.Alpha,
			HistorySize:         vc.HistorySize,
			MinConfidence:       vc.MinConfidence,
			SkipWhileBusy:       vc.SkipWhileBusy,
			ResetHistoryOnStart: vc.ResetHistoryOnStart,
			Outputs:             a.conf.Paths.Outputs,
			Alert:               orchestrator.WriterAlert(cmd.ErrOrStderr()),
			Log:                 a.log,
		})
		if err := session.Start(ctx); err != nil {
			return err
		}

		if prog != nil {
			_, err := prog.Run()
			if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				session.Stop()
				return fmt.Errorf("dashboard: %w", err)
			}
		} else {
			<-ctx.Done()
		}

		return session.Stop()
	})
}
