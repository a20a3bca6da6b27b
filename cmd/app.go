package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/maastricht-university/emotiai/clients"
	"github.com/maastricht-university/emotiai/config"
	"github.com/maastricht-university/emotiai/journal"
	"github.com/maastricht-university/emotiai/orchestrator"
	"github.com/maastricht-university/emotiai/render"
	"github.com/maastricht-university/emotiai/theme"
)

// app wires the components shared by every analysis command.
type app struct {
	conf    *config.Root
	log     logrus.FieldLogger
	run     string
	api     *clients.HTTP
	theme   *theme.Applier
	journal *journal.Journal
}

func newApp(ctx context.Context, c *config.Root) (*app, error) {
	run := uuid.NewString()
	a := &app{conf: c, run: run, log: log.WithField("run", run[:8])}

	set := theme.Default()
	if c.Display.Themes != "" {
		s, err := theme.LoadFile(c.Display.Themes)
		if err != nil {
			return nil, err
		}
		set = s
	}
	a.theme = theme.NewApplier(set)
	a.api = clients.NewHTTP(c.Service.URL, c.Timeout(), a.log)

	if c.Paths.Journal != "" {
		j, err := journal.Open(ctx, c.Paths.Journal)
		if err != nil {
			return nil, err
		}
		a.journal = j
	}
	a.log.WithField("service", a.api.BaseURL()).Debug("client ready")
	return a, nil
}

// output adds the journal sink, when enabled, behind the visible renderer.
func (a *app) output(primary render.Renderer) render.Renderer {
	if a.journal == nil {
		return primary
	}
	return render.Multi{primary, journal.NewSink(a.journal, a.run, a.log)}
}

func (a *app) analyzer(out render.Renderer) *orchestrator.Analyzer {
	return orchestrator.NewAnalyzer(a.api, a.output(out), orchestrator.Options{
		MaxImageBytes: a.conf.Limits.MaxImageBytes,
		MinConfidence: a.conf.Display.MinConfidence,
		Alert:         orchestrator.WriterAlert(os.Stderr),
		Log:           a.log,
	})
}

func (a *app) terminal() *render.Terminal { return render.NewTerminal(os.Stdout, a.theme) }

func (a *app) Close() {
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			a.log.WithError(err).Warn("journal close")
		}
	}
}

func withApp(ctx context.Context, f func(*app) error) error {
	a, err := newApp(ctx, conf)
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	defer a.Close()
	return f(a)
}
