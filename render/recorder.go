package render

import (
	"sync"

	"github.com/maastricht-university/emotiai/emotion"
	"github.com/maastricht-university/emotiai/theme"
)

type Call struct {
	Result   emotion.Result
	Modality emotion.Modality
	View     View
	Palette  theme.Palette
}

type Note struct {
	Modality emotion.Modality
	Text     string
}

// Recorder is a headless renderer that keeps every call.
type Recorder struct {
	mu    sync.Mutex
	theme *theme.Applier
	calls []Call
	notes []Note
}

func NewRecorder(a *theme.Applier) *Recorder {
	if a == nil {
		a = theme.NewApplier(nil)
	}
	return &Recorder{theme: a}
}

func (r *Recorder) Render(res emotion.Result, m emotion.Modality) {
	v, p := Present(r.theme, res, m)
	r.mu.Lock()
	r.calls = append(r.calls, Call{Result: res, Modality: m, View: v, Palette: p})
	r.mu.Unlock()
}

func (r *Recorder) Annotate(m emotion.Modality, text string) {
	r.mu.Lock()
	r.notes = append(r.notes, Note{Modality: m, Text: text})
	r.mu.Unlock()
}

func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

func (r *Recorder) Notes() []Note {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Note(nil), r.notes...)
}

// Last returns the most recent call; ok is false when nothing was rendered.
func (r *Recorder) Last() (c Call, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return Call{}, false
	}
	return r.calls[len(r.calls)-1], true
}

func (r *Recorder) Theme() *theme.Applier { return r.theme }
