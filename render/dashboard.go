package render

import (
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maastricht-university/emotiai/emotion"
	"github.com/maastricht-university/emotiai/theme"
)

const maxNotes = 5

type viewMsg struct {
	view    View
	palette theme.Palette
}

type noteMsg string

// Dashboard is a bubbletea model for the live video session.
type Dashboard struct {
	title   string
	view    *View
	palette theme.Palette
	notes   []string
	width   int
	frames  int
}

func NewDashboard(title string) Dashboard {
	return Dashboard{title: title, palette: theme.Default().Lookup(theme.Neutral)}
}

func (d Dashboard) Init() tea.Cmd { return nil }

func (d Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return d, tea.Quit
		}
	case tea.WindowSizeMsg:
		d.width = msg.Width
	case viewMsg:
		v := msg.view
		d.view = &v
		d.palette = msg.palette
		d.frames++
	case noteMsg:
		d.notes = append(d.notes, string(msg))
		if len(d.notes) > maxNotes {
			d.notes = d.notes[len(d.notes)-maxNotes:]
		}
	}
	return d, nil
}

func (d Dashboard) View() string {
	p := d.palette
	titleStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1).
		Foreground(color(p.Var("--footer-link-color"))).
		Background(color(p.Var("--primary-accent")))
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
		BorderForeground(color(p.Var("--secondary-accent"))).Padding(0, 1)
	muted := lipgloss.NewStyle().Foreground(color(p.Var("--muted-text")))
	fill := lipgloss.NewStyle().Foreground(color(p.Var("--progress-fill")))

	var b strings.Builder
	b.WriteString(titleStyle.Render(d.title))
	b.WriteString("\n\n")

	if d.view == nil {
		b.WriteString(box.Render("Waiting for the first frame..."))
	} else {
		v := d.view
		var body strings.Builder
		label := v.Label
		if label == "" {
			label = "-"
		}
		fmt.Fprintf(&body, "Dominant: %s   %s", lipgloss.NewStyle().Bold(true).Render(label), v.ConfidenceText())
		if v.Faces != nil {
			fmt.Fprintf(&body, "   Faces: %d", *v.Faces)
		}
		for _, bar := range v.Bars {
			n := int(bar.Percent / 100 * barWidth)
			n = max(0, min(barWidth, n))
			fmt.Fprintf(&body, "\n%-9s %s%s %3d%%", bar.Emotion,
				fill.Render(strings.Repeat("█", n)), muted.Render(strings.Repeat("░", barWidth-n)), bar.Rounded())
		}
		b.WriteString(box.Render(body.String()))
	}

	b.WriteString("\n")
	for _, n := range d.notes {
		b.WriteString(muted.Render(n))
		b.WriteString("\n")
	}
	b.WriteString(muted.Render(fmt.Sprintf("%d results shown • q to stop", d.frames)))
	return b.String()
}

const tuiQueue = 64

// TUI feeds a tea.Program with results. Messages are queued in order and
// delivered by one goroutine, so rendering never waits for the program to
// start reading; when the queue is full new messages are dropped.
type TUI struct {
	theme *theme.Applier

	mu     sync.Mutex
	queue  chan tea.Msg
	closed bool
}

func NewTUI(p *tea.Program, a *theme.Applier) *TUI { return newTUI(p.Send, a) }

func newTUI(send func(tea.Msg), a *theme.Applier) *TUI {
	if a == nil {
		a = theme.NewApplier(nil)
	}
	t := &TUI{theme: a, queue: make(chan tea.Msg, tuiQueue)}
	go func() {
		for msg := range t.queue {
			send(msg)
		}
	}()
	return t
}

func (t *TUI) Render(res emotion.Result, m emotion.Modality) {
	v, p := Present(t.theme, res, m)
	t.push(viewMsg{view: v, palette: p})
}

func (t *TUI) Annotate(_ emotion.Modality, text string) { t.push(noteMsg(text)) }

func (t *TUI) push(msg tea.Msg) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	select {
	case t.queue <- msg:
	default:
	}
}

// Close stops delivery; later results are ignored.
func (t *TUI) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.closed {
		t.closed = true
		close(t.queue)
	}
}
