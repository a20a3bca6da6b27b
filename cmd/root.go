// Package cmd is the emotiai command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/maastricht-university/emotiai/config"
	"github.com/maastricht-university/emotiai/orchestrator"
)

var (
	cfgFile string
	v       = viper.New()
	conf    *config.Root
	log     = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "emotiai",
	Short: "Emotion recognition client",
	Long: `emotiai sends text, audio, images or a live camera feed to an
emotion recognition service and shows the predicted emotions.

Commands:
  text     - analyze a sentence
  audio    - analyze a recording or a file
  image    - analyze a picture
  video    - poll a camera and show smoothed results
  history  - list recorded results`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command; SIGINT and SIGTERM cancel its context.
// Analysis failures have already been alerted and are not printed again.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err := rootCmd.ExecuteContext(ctx)
	var alerted *orchestrator.Error
	if err != nil && !errors.As(err, &alerted) && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&cfgFile, "config", "", "config file (default: config/$CONFIG_ENV/config.yaml)")
	f.String("url", "", "inference service base URL")
	f.String("log-level", "", "log level: debug, info, warn, error")
	f.String("journal", "", "SQLite file recording every result")

	v.BindPFlag("service.url", f.Lookup("url"))
	v.BindPFlag("app.log_level", f.Lookup("log-level"))
	v.BindPFlag("paths.journal", f.Lookup("journal"))
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.LoadWith(v, cfgFile)
	if err != nil {
		return err
	}
	conf = c
	return setupLogger(log, c)
}

func setupLogger(l *logrus.Logger, c *config.Root) error {
	lvl, err := logrus.ParseLevel(c.App.LogLvl)
	if err != nil {
		return fmt.Errorf("config: app.log_level: %w", err)
	}
	l.SetLevel(lvl)
	l.SetOutput(os.Stderr)
	if c.App.LogFormat == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
