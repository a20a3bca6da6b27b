package orchestrator

import (
	"context"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/maastricht-university/emotiai/emotion"
	"github.com/maastricht-university/emotiai/render"
)

const DefaultMaxImageBytes = 10 * 1024 * 1024

type Options struct {
	MaxImageBytes int64
	// MinConfidence marks weaker results as low confidence. They are still
	// rendered. Zero selects emotion.DefaultMinConfidence.
	MinConfidence float64
	Alert         Alerter
	Log           logrus.FieldLogger
}

// Analyzer runs the single-shot text, audio and image flows: validate, one
// request, render. Failures are alerted and returned; nothing is retried.
type Analyzer struct {
	api      Predictor
	out      render.Renderer
	alert    Alerter
	log      logrus.FieldLogger
	maxImage int64
	minConf  float64
}

func NewAnalyzer(api Predictor, out render.Renderer, opts Options) *Analyzer {
	if opts.MaxImageBytes <= 0 {
		opts.MaxImageBytes = DefaultMaxImageBytes
	}
	if opts.MinConfidence <= 0 {
		opts.MinConfidence = emotion.DefaultMinConfidence
	}
	if opts.Alert == nil {
		opts.Alert = WriterAlert(nil)
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	return &Analyzer{
		api:      api,
		out:      out,
		alert:    opts.Alert,
		log:      opts.Log,
		maxImage: opts.MaxImageBytes,
		minConf:  opts.MinConfidence,
	}
}

func (a *Analyzer) fail(e *Error) error {
	a.log.WithError(e).Warn("analysis aborted")
	a.alert.Alert(e.Error())
	return e
}

func (a *Analyzer) AnalyzeText(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return a.fail(invalid("Please enter some text to analyze"))
	}
	res, err := a.api.PredictText(ctx, text)
	if err != nil {
		return a.fail(requestFailed("Failed to analyze text", err))
	}
	a.show(*res, emotion.Text)
	return nil
}

func (a *Analyzer) AnalyzeAudio(ctx context.Context, up Upload) error {
	if len(up.Data) == 0 {
		return a.fail(invalid("No audio was recorded"))
	}
	name := up.Name
	if name == "" {
		name = "recording.wav"
	}
	res, err := a.api.PredictAudio(ctx, name, up.Data)
	if err != nil {
		return a.fail(requestFailed("Failed to analyze audio", err))
	}
	if res.Error != "" {
		a.log.WithField("backend_error", res.Error).Warn("audio analysis degraded")
		render.Annotate(a.out, emotion.Audio, res.Error)
	}
	if res.Text != "" {
		render.Annotate(a.out, emotion.Audio, "Transcription: "+res.Text)
	}
	a.show(*res, emotion.Audio)
	return nil
}

// RecordAudio records from mic until stop is closed, then analyzes the clip.
func (a *Analyzer) RecordAudio(ctx context.Context, mic Microphone, stop <-chan struct{}) error {
	if err := mic.Start(ctx); err != nil {
		return a.fail(deviceFailed("Failed to access microphone", err))
	}
	a.log.Info("recording, stop to analyze")

	select {
	case <-stop:
	case <-ctx.Done():
		mic.Stop()
		return ctx.Err()
	}

	data, err := mic.Stop()
	if err != nil {
		return a.fail(deviceFailed("Failed to access microphone", err))
	}
	a.log.WithField("size", humanize.Bytes(uint64(len(data)))).Debug("recording finished")
	return a.AnalyzeAudio(ctx, Upload{Name: "recording.wav", ContentType: "audio/wav", Data: data})
}

func (a *Analyzer) AnalyzeImage(ctx context.Context, up Upload) error {
	if len(up.Data) == 0 {
		return a.fail(invalid("Please select an image first"))
	}
	ct := up.ContentType
	if ct == "" {
		ct = DetectContentType(up.Name, up.Data)
	}
	if !strings.HasPrefix(ct, "image/") {
		return a.fail(invalid("Please select a valid image file"))
	}
	if int64(len(up.Data)) > a.maxImage {
		a.log.WithField("size", humanize.Bytes(uint64(len(up.Data)))).Debug("image rejected")
		return a.fail(invalid("Image file too large. Please select a file under " + strings.ReplaceAll(humanize.Bytes(uint64(a.maxImage)), " ", "")))
	}

	name := up.Name
	if name == "" {
		name = "upload"
	}
	res, err := a.api.PredictImage(ctx, name, ct, up.Data)
	if err != nil {
		return a.fail(requestFailed("Failed to analyze image", err))
	}
	a.show(*res, emotion.Image)
	return nil
}

func (a *Analyzer) show(res emotion.Result, m emotion.Modality) {
	a.out.Render(res, m)
	if !emotion.ShouldDisplay(res, a.minConf) {
		a.log.WithField("modality", m).Debug("result below display threshold")
		render.Annotate(a.out, m, "Low confidence result")
	}
}

// DetectContentType trusts the file extension first and falls back to
// sniffing the bytes.
func DetectContentType(name string, data []byte) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}

// LoadUpload reads a file from disk as an Upload.
func LoadUpload(path string) (Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Upload{}, err
	}
	name := filepath.Base(path)
	return Upload{Name: name, ContentType: DetectContentType(name, data), Data: data}, nil
}
