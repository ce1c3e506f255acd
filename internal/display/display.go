// Package display renders recipes in the terminal: lipgloss themes built
// from the user's settings, glamour for recipe details, a Bubble Tea cook
// mode and a huh form for entering recipes.
package display

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/recipeplus/internal/cook"
	"github.com/hammamikhairi/recipeplus/internal/domain"
	"github.com/hammamikhairi/recipeplus/internal/idle"
)

// HintGlyph is drawn when the cook has been idle past the threshold.
const HintGlyph = "→"

const hintText = HintGlyph + " next step"

// ── Key bindings ────────────────────────────────────────────────

type keyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Timers key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Next, k.Prev}, {k.Timers, k.Help, k.Quit}}
}

var keys = keyMap{
	Next: key.NewBinding(
		key.WithKeys("right", "l", "n", "enter", " "),
		key.WithHelp("→/n", "next step"),
	),
	Prev: key.NewBinding(
		key.WithKeys("left", "h", "b"),
		key.WithHelp("←/b", "previous step"),
	),
	Timers: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "timers"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more keys"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ── Cook mode ───────────────────────────────────────────────────

// CookUI is the full-screen cook mode: one step at a time, arrow keys to
// move, and the idle hint after the threshold passes without a key press.
type CookUI struct {
	session *cook.Session
	render  *Renderer
	monitor *idle.Monitor
	now     func() time.Time
}

// NewCookUI wires a session to a renderer and an idle monitor. The monitor
// is driven from the UI's own tick, so it must not be Started.
func NewCookUI(s *cook.Session, r *Renderer, m *idle.Monitor, now func() time.Time) *CookUI {
	if now == nil {
		now = time.Now
	}
	return &CookUI{session: s, render: r, monitor: m, now: now}
}

// Run blocks until the cook quits or ctx is cancelled.
func (u *CookUI) Run(ctx context.Context) error {
	p := tea.NewProgram(u.model(), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (u *CookUI) model() model {
	u.monitor.Touch(u.now())
	return model{
		session: u.session,
		render:  u.render,
		monitor: u.monitor,
		now:     u.now,
		keys:    keys,
		help:    help.New(),
	}
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	session    *cook.Session
	render     *Renderer
	monitor    *idle.Monitor
	now        func() time.Time
	keys       keyMap
	help       help.Model
	showTimers bool
	status     string
	width      int
}

// Messages.
type tickMsg time.Time

func (m model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Any key counts as an interaction and clears the hint.
		m.monitor.Touch(m.now())
		m.status = ""

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			if _, err := m.session.Next(); errors.Is(err, domain.ErrNoMoreSteps) {
				m.status = "That was the last step. Enjoy!"
			}
		case key.Matches(msg, m.keys.Prev):
			if _, err := m.session.Prev(); errors.Is(err, domain.ErrOutOfRange) {
				m.status = "Already at the first step."
			}
		case key.Matches(msg, m.keys.Timers):
			m.showTimers = !m.showTimers
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		m.monitor.Tick(time.Time(msg))
		return m, tickCmd()
	}
	return m, nil
}

func (m model) View() string {
	t := m.render.Theme()
	n, total := m.session.Position()

	var b strings.Builder
	b.WriteString(t.Title.Render(m.session.Recipe().Name))
	b.WriteString(t.Muted.Render(fmt.Sprintf("  step %d of %d", n, total)))
	b.WriteString("\n\n  ")
	b.WriteString(m.render.Step(m.session.Current().Text))
	b.WriteString("\n")

	if m.showTimers {
		b.WriteString("\n")
		tags := m.session.Timers()
		if len(tags) == 0 {
			b.WriteString("  " + t.Muted.Render("No timers in this step.") + "\n")
		}
		for _, tag := range tags {
			label := tag.Label
			if label == "" {
				label = "Timer"
			}
			b.WriteString("  " + t.Timer.Render(label) + t.Muted.Render(" "+FormatDuration(tag.Duration())) + "\n")
		}
	}

	if m.status != "" {
		b.WriteString("\n  " + t.Hint.Render(m.status) + "\n")
	}
	if m.session.Done() {
		b.WriteString("\n  " + t.Title.Render("Done!") + "\n")
	} else if m.monitor.ShowHint() {
		b.WriteString("\n  " + t.Hint.Render(hintText) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

// ── Helpers ──────────────────────────────────────────────────────

// FormatDuration renders a timer length as 15m, 2h or 1h45m.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Minute)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}
