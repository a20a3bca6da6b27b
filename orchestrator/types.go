package orchestrator

import (
	"context"
	"time"

	"github.com/maastricht-university/emotiai/emotion"
)

// Predictor is the inference backend, implemented by *clients.HTTP.
type Predictor interface {
	PredictText(ctx context.Context, text string) (*emotion.Result, error)
	PredictAudio(ctx context.Context, filename string, data []byte) (*emotion.Result, error)
	PredictImage(ctx context.Context, filename, contentType string, data []byte) (*emotion.Result, error)
}

// Microphone records one clip between Start and Stop.
type Microphone interface {
	Start(ctx context.Context) error
	Stop() ([]byte, error)
}

// Upload is a file picked or recorded by the user.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// FrameStats counts what happened to the ticks of one video session.
type FrameStats struct {
	Ticks         int `json:"ticks"`
	Skipped       int `json:"skipped"`
	CaptureErrors int `json:"capture_errors"`
	Sent          int `json:"sent"`
	Failed        int `json:"failed"`
	Discarded     int `json:"discarded"`
	Rendered      int `json:"rendered"`
	Suppressed    int `json:"suppressed"`
}

// Summary aggregates the smoothed distributions shown during a session.
type Summary struct {
	Frames   int                   `json:"frames"`
	Mean     emotion.Probabilities `json:"mean,omitempty"`
	Dominant string                `json:"dominant,omitempty"`
}

type SessionBundle struct {
	SessionID string                  `json:"session_id"`
	StartedAt time.Time               `json:"started_at"`
	StoppedAt time.Time               `json:"stopped_at"`
	Stats     FrameStats              `json:"stats"`
	Summary   Summary                 `json:"summary"`
	History   []emotion.Probabilities `json:"history,omitempty"`
}
