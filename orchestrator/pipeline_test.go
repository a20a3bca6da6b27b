package orchestrator

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/maastricht-university/emotiai/clients"
	"github.com/maastricht-university/emotiai/emotion"
	"github.com/maastricht-university/emotiai/render"
)

type fakeAPI struct {
	mu    sync.Mutex
	calls []string
	text  func(string) (*emotion.Result, error)
	audio func(string, []byte) (*emotion.Result, error)
	image func(string, string, []byte) (*emotion.Result, error)
}

func (f *fakeAPI) record(s string) {
	f.mu.Lock()
	f.calls = append(f.calls, s)
	f.mu.Unlock()
}

func (f *fakeAPI) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeAPI) PredictText(_ context.Context, text string) (*emotion.Result, error) {
	f.record("text")
	return f.text(text)
}

func (f *fakeAPI) PredictAudio(_ context.Context, name string, data []byte) (*emotion.Result, error) {
	f.record("audio")
	return f.audio(name, data)
}

func (f *fakeAPI) PredictImage(_ context.Context, name, ct string, data []byte) (*emotion.Result, error) {
	f.record("image")
	return f.image(name, ct, data)
}

type alerts struct {
	mu   sync.Mutex
	msgs []string
}

func (a *alerts) Alert(msg string) {
	a.mu.Lock()
	a.msgs = append(a.msgs, msg)
	a.mu.Unlock()
}

func (a *alerts) All() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.msgs...)
}

func newAnalyzer(api Predictor) (*Analyzer, *render.Recorder, *alerts) {
	rec := render.NewRecorder(nil)
	al := &alerts{}
	log, _ := test.NewNullLogger()
	return NewAnalyzer(api, rec, Options{Alert: al, Log: log}), rec, al
}

func TestAnalyzeText_EmptyMakesNoRequest(t *testing.T) {
	api := &fakeAPI{}
	a, rec, al := newAnalyzer(api)

	for _, in := range []string{"", "   ", "\n\t"} {
		err := a.AnalyzeText(context.Background(), in)
		if !errors.Is(err, ErrValidation) {
			t.Errorf("AnalyzeText(%q) error = %v, want validation", in, err)
		}
	}
	if api.Calls() != 0 {
		t.Errorf("requests = %d, want 0", api.Calls())
	}
	if len(rec.Calls()) != 0 {
		t.Errorf("rendered %d results", len(rec.Calls()))
	}
	got := al.All()
	if len(got) != 3 || got[0] != "Please enter some text to analyze" {
		t.Errorf("alerts = %q", got)
	}
}

func TestAnalyzeText_RendersResult(t *testing.T) {
	api := &fakeAPI{text: func(s string) (*emotion.Result, error) {
		if s != "great day" {
			t.Errorf("text = %q, want trimmed", s)
		}
		return &emotion.Result{Label: "joy", Probabilities: emotion.Probabilities{"joy": 0.82, "sad": 0.1}}, nil
	}}
	a, rec, _ := newAnalyzer(api)

	if err := a.AnalyzeText(context.Background(), "  great day "); err != nil {
		t.Fatalf("AnalyzeText() error = %v", err)
	}
	c, ok := rec.Last()
	if !ok {
		t.Fatal("nothing rendered")
	}
	if c.Modality != emotion.Text || c.View.Confidence != 82 || c.Palette.Emotion != "joy" {
		t.Errorf("call = %+v", c)
	}
}

func TestAnalyzeText_RequestFailureAlerts(t *testing.T) {
	api := &fakeAPI{text: func(string) (*emotion.Result, error) {
		return nil, errors.New("connection refused")
	}}
	a, rec, al := newAnalyzer(api)

	err := a.AnalyzeText(context.Background(), "hello")
	if !errors.Is(err, ErrRequest) {
		t.Fatalf("error = %v, want request kind", err)
	}
	var e *Error
	if !errors.As(err, &e) || e.Msg != "Failed to analyze text" {
		t.Errorf("error = %#v", err)
	}
	if got := al.All(); len(got) != 1 || got[0] != "Failed to analyze text: connection refused" {
		t.Errorf("alerts = %q", got)
	}
	if len(rec.Calls()) != 0 {
		t.Error("failure must not render")
	}
	if api.Calls() != 1 {
		t.Errorf("requests = %d, want exactly 1 (no retry)", api.Calls())
	}
}

func TestAnalyzeAudio_TranscriptAndBackendError(t *testing.T) {
	api := &fakeAPI{audio: func(name string, data []byte) (*emotion.Result, error) {
		if name != "recording.wav" {
			t.Errorf("filename = %q", name)
		}
		return &emotion.Result{
			Label:         "sad",
			Probabilities: emotion.Probabilities{"sad": 0.6},
			Text:          "I miss you",
			Error:         "transcription degraded",
		}, nil
	}}
	a, rec, _ := newAnalyzer(api)

	if err := a.AnalyzeAudio(context.Background(), Upload{Data: []byte("RIFF")}); err != nil {
		t.Fatalf("AnalyzeAudio() error = %v", err)
	}
	if len(rec.Calls()) != 1 {
		t.Fatalf("rendered %d, want 1", len(rec.Calls()))
	}
	notes := rec.Notes()
	var sawTranscript bool
	for _, n := range notes {
		if n.Text == "Transcription: I miss you" {
			sawTranscript = true
		}
	}
	if !sawTranscript {
		t.Errorf("notes = %+v", notes)
	}
}

func TestAnalyzeAudio_Empty(t *testing.T) {
	api := &fakeAPI{}
	a, _, _ := newAnalyzer(api)
	if err := a.AnalyzeAudio(context.Background(), Upload{}); !errors.Is(err, ErrValidation) {
		t.Errorf("error = %v", err)
	}
	if api.Calls() != 0 {
		t.Error("empty recording must not be sent")
	}
}

func TestAnalyzeImage_Validation(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000")
	tests := []struct {
		name string
		up   Upload
		want string
	}{
		{"none", Upload{}, "Please select an image first"},
		{"not image", Upload{Name: "notes.txt", Data: []byte("plain text")}, "Please select a valid image file"},
		{"too large", Upload{Name: "big.png", Data: make([]byte, DefaultMaxImageBytes+1)}, "Image file too large. Please select a file under 10MB"},
		{"declared type wins", Upload{Name: "x.png", ContentType: "application/pdf", Data: png}, "Please select a valid image file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			a, _, al := newAnalyzer(api)
			err := a.AnalyzeImage(context.Background(), tt.up)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("error = %v", err)
			}
			if got := al.All(); len(got) != 1 || got[0] != tt.want {
				t.Errorf("alerts = %q, want %q", got, tt.want)
			}
			if api.Calls() != 0 {
				t.Error("invalid image must not be sent")
			}
		})
	}
}

func TestAnalyzeImage_SniffsAndSends(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000")
	api := &fakeAPI{image: func(name, ct string, data []byte) (*emotion.Result, error) {
		if name != "face" || ct != "image/png" {
			t.Errorf("upload = %q %q", name, ct)
		}
		faces := 2
		return &emotion.Result{Label: "surprise", Probabilities: emotion.Probabilities{"surprise": 0.7}, Faces: &faces}, nil
	}}
	a, rec, _ := newAnalyzer(api)

	if err := a.AnalyzeImage(context.Background(), Upload{Name: "face", Data: png}); err != nil {
		t.Fatalf("AnalyzeImage() error = %v", err)
	}
	c, _ := rec.Last()
	if c.Modality != emotion.Image || c.View.Faces == nil || *c.View.Faces != 2 {
		t.Errorf("view = %+v", c.View)
	}
}

type fakeMic struct {
	startErr error
	data     []byte
	stopped  bool
}

func (m *fakeMic) Start(context.Context) error { return m.startErr }

func (m *fakeMic) Stop() ([]byte, error) {
	m.stopped = true
	return m.data, nil
}

func TestRecordAudio(t *testing.T) {
	api := &fakeAPI{audio: func(name string, data []byte) (*emotion.Result, error) {
		if string(data) != "RIFFclip" {
			t.Errorf("data = %q", data)
		}
		return &emotion.Result{Label: "joy", Probabilities: emotion.Probabilities{"joy": 0.9}}, nil
	}}
	a, rec, _ := newAnalyzer(api)
	mic := &fakeMic{data: []byte("RIFFclip")}
	stop := make(chan struct{})
	close(stop)

	if err := a.RecordAudio(context.Background(), mic, stop); err != nil {
		t.Fatalf("RecordAudio() error = %v", err)
	}
	if !mic.stopped || len(rec.Calls()) != 1 {
		t.Errorf("stopped=%v rendered=%d", mic.stopped, len(rec.Calls()))
	}
}

func TestRecordAudio_DeviceFailure(t *testing.T) {
	a, _, al := newAnalyzer(&fakeAPI{})
	err := a.RecordAudio(context.Background(), &fakeMic{startErr: errors.New("no input device")}, nil)
	if !errors.Is(err, ErrDevice) {
		t.Fatalf("error = %v", err)
	}
	if got := al.All(); len(got) != 1 || got[0] != "Failed to access microphone: no input device" {
		t.Errorf("alerts = %q", got)
	}
}

func TestAnalyzer_AgainstHTTPClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict_text" {
			t.Errorf("path = %s", r.URL.Path)
		}
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	log, _ := test.NewNullLogger()
	api := clients.NewHTTP(srv.URL, 2*time.Second, log)
	a, _, al := newAnalyzer(api)

	err := a.AnalyzeText(context.Background(), "hi")
	var se *clients.StatusError
	if !errors.As(err, &se) || se.Code != http.StatusServiceUnavailable {
		t.Fatalf("error = %v, want StatusError 503", err)
	}
	if got := al.All(); len(got) != 1 || !strings.HasPrefix(got[0], "Failed to analyze text: ") {
		t.Errorf("alerts = %q", got)
	}
}

func TestWriterAlert(t *testing.T) {
	var b strings.Builder
	WriterAlert(&b).Alert("Please select an image first")
	if got := b.String(); got != "Error: Please select an image first\n" {
		t.Errorf("output = %q", got)
	}
}

func TestAnalyzer_LowConfidenceStillRendered(t *testing.T) {
	api := &fakeAPI{text: func(string) (*emotion.Result, error) {
		return &emotion.Result{Label: "fear", Probabilities: emotion.Probabilities{"fear": 0.31, "sad": 0.3}}, nil
	}}
	a, rec, _ := newAnalyzer(api)

	if err := a.AnalyzeText(context.Background(), "hmm"); err != nil {
		t.Fatal(err)
	}
	if len(rec.Calls()) != 1 {
		t.Fatalf("rendered %d", len(rec.Calls()))
	}
	notes := rec.Notes()
	if len(notes) != 1 || notes[0].Text != "Low confidence result" {
		t.Errorf("notes = %+v", notes)
	}
}
