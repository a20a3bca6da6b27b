// Package render turns emotion results into presentable views. A Renderer is
// the only thing capture code talks to, so any presentation layer (terminal,
// browser push, TUI, a test harness) can be swapped in.
package render

import (
	"fmt"
	"math"
	"unicode"
	"unicode/utf8"

	"github.com/maastricht-university/emotiai/emotion"
	"github.com/maastricht-university/emotiai/theme"
)

type Renderer interface {
	Render(r emotion.Result, m emotion.Modality)
}

// Annotator is implemented by renderers that can show free-form status
// lines, such as the live video insights or an audio transcript.
type Annotator interface {
	Annotate(m emotion.Modality, text string)
}

// Func adapts a plain function to Renderer.
type Func func(r emotion.Result, m emotion.Modality)

func (f Func) Render(r emotion.Result, m emotion.Modality) { f(r, m) }

// Annotate forwards text to r if it supports annotations.
func Annotate(r Renderer, m emotion.Modality, text string) {
	if a, ok := r.(Annotator); ok {
		a.Annotate(m, text)
	}
}

// Multi fans out to every renderer in order.
type Multi []Renderer

func (ms Multi) Render(r emotion.Result, m emotion.Modality) {
	for _, x := range ms {
		x.Render(r, m)
	}
}

func (ms Multi) Annotate(m emotion.Modality, text string) {
	for _, x := range ms {
		Annotate(x, m, text)
	}
}

type Bar struct {
	Emotion string  `json:"emotion"`
	Percent float64 `json:"percent"`
}

func (b Bar) Rounded() int { return int(math.Round(b.Percent)) }

// View is the presentational state derived from one result.
type View struct {
	Modality   emotion.Modality `json:"modality"`
	Label      string           `json:"label,omitempty"`
	Emotion    string           `json:"emotion"`
	Confidence int              `json:"confidence"`
	Bars       []Bar            `json:"bars,omitempty"`
	Faces      *int             `json:"faces,omitempty"`
	Transcript string           `json:"transcript,omitempty"`
}

func (v View) ConfidenceText() string { return fmt.Sprintf("Confidence: %d%%", v.Confidence) }

// BuildView derives the display state for a result. The bar vocabulary and
// the face count depend on the modality.
func BuildView(r emotion.Result, m emotion.Modality) View {
	v := View{
		Modality: m,
		Emotion:  emotion.Normalize(r.Label),
		Label:    capitalize(r.Label),
	}

	if top, ok := r.Probabilities.Max(); ok {
		v.Confidence = int(math.Round(top * 100))
	}

	if r.HasProbabilities() {
		vocab := emotion.VocabularyFor(m)
		v.Bars = make([]Bar, 0, len(vocab))
		for _, e := range vocab {
			v.Bars = append(v.Bars, Bar{Emotion: e, Percent: r.Probabilities[e] * 100})
		}
	}

	if m.IsVisual() {
		n := 0
		switch {
		case r.Faces != nil:
			n = *r.Faces
		case r.HasProbabilities():
			n = 1
		}
		v.Faces = &n
	}

	if m == emotion.Audio {
		v.Transcript = r.Text
	}
	return v
}

// Present builds the view and applies its palette.
func Present(a *theme.Applier, r emotion.Result, m emotion.Modality) (View, theme.Palette) {
	v := BuildView(r, m)
	return v, a.Apply(v.Emotion)
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[n:]
}
