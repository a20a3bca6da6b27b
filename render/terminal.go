package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/maastricht-university/emotiai/emotion"
	"github.com/maastricht-university/emotiai/theme"
)

const barWidth = 24

// Terminal prints each result as a themed block of progress bars.
type Terminal struct {
	mu    sync.Mutex
	w     io.Writer
	r     *lipgloss.Renderer
	theme *theme.Applier
}

func NewTerminal(w io.Writer, a *theme.Applier) *Terminal {
	if a == nil {
		a = theme.NewApplier(nil)
	}
	return &Terminal{w: w, r: lipgloss.NewRenderer(w), theme: a}
}

func (t *Terminal) Render(res emotion.Result, m emotion.Modality) {
	v, p := Present(t.theme, res, m)
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.w, t.format(v, p))
}

func (t *Terminal) Annotate(m emotion.Modality, text string) {
	p := t.theme.Current()
	style := t.r.NewStyle().Foreground(color(p.Var("--muted-text"))).Italic(true)
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.w, style.Render(fmt.Sprintf("[%s] %s", m, text)))
}

func (t *Terminal) format(v View, p theme.Palette) string {
	header := t.r.NewStyle().
		Bold(true).
		Padding(0, 1).
		Foreground(color(p.Var("--dominant-text"))).
		Background(color(p.Var("--dominant-bg")))
	label := t.r.NewStyle().Foreground(color(p.Var("--label-color")))
	fill := t.r.NewStyle().Foreground(color(p.Var("--progress-fill")))
	track := t.r.NewStyle().Foreground(color(p.Var("--muted-text"))).Faint(true)

	var b strings.Builder
	title := v.Label
	if title == "" {
		title = "-"
	}
	b.WriteString(header.Render(title))
	b.WriteString("  ")
	b.WriteString(label.Render(v.ConfidenceText()))

	for _, bar := range v.Bars {
		n := int(bar.Percent / 100 * barWidth)
		if n < 0 {
			n = 0
		}
		if n > barWidth {
			n = barWidth
		}
		b.WriteString("\n")
		b.WriteString(label.Render(fmt.Sprintf("  %-9s", bar.Emotion)))
		b.WriteString(fill.Render(strings.Repeat("█", n)))
		b.WriteString(track.Render(strings.Repeat("░", barWidth-n)))
		b.WriteString(fmt.Sprintf(" %3d%%", bar.Rounded()))
	}
	if v.Faces != nil {
		b.WriteString("\n")
		b.WriteString(label.Render(fmt.Sprintf("  Faces detected: %d", *v.Faces)))
	}
	if v.Transcript != "" {
		b.WriteString("\n")
		b.WriteString(label.Render("  Transcript: " + v.Transcript))
	}
	return b.String()
}

// color accepts hex values only; rgba() and named CSS colours have no
// terminal equivalent.
func color(v string) lipgloss.TerminalColor {
	if strings.HasPrefix(v, "#") {
		return lipgloss.Color(v)
	}
	return lipgloss.NoColor{}
}
