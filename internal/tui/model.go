// Package tui is a terminal keypad for a single calculator session.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-chi-calculator/internal/calculator"
)

// columns is the keypad width, matching the layouts' six-per-row order.
const columns = 6

// Model is the bubbletea model wrapping one calculator session.
type Model struct {
	session *calculator.Session
	keys    keyMap
	help    help.Model

	cursor int
	status string
	width  int
}

// New creates a TUI model with a fresh session on engine.
func New(engine *calculator.Engine) Model {
	return Model{
		session: calculator.NewSession(engine),
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
}

// Session exposes the underlying session, mostly for inspection after the
// program exits.
func (m Model) Session() *calculator.Session {
	return m.session
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Generic):
		m.setMode(calculator.Generic)
	case key.Matches(msg, m.keys.Physics):
		m.setMode(calculator.Physics)
	case key.Matches(msg, m.keys.Programming):
		m.setMode(calculator.Programming)
	case key.Matches(msg, m.keys.Economics):
		m.setMode(calculator.Economics)

	case key.Matches(msg, m.keys.Angle):
		next := calculator.Degrees
		if m.session.Angle() == calculator.Degrees {
			next = calculator.Radians
		}
		m.session.SetAngle(next)

	case key.Matches(msg, m.keys.Base):
		if err := m.session.SetBase(m.session.Base().Next()); err != nil {
			m.status = err.Error()
		}

	case key.Matches(msg, m.keys.Up):
		m.move(-columns)
	case key.Matches(msg, m.keys.Down):
		m.move(columns)
	case key.Matches(msg, m.keys.Left):
		m.move(-1)
	case key.Matches(msg, m.keys.Right):
		m.move(1)

	case key.Matches(msg, m.keys.Press):
		m.pressCursor()

	default:
		ev, ok := keyEvent(msg)
		if !ok {
			return m, nil
		}
		handled, err := m.session.Key(ev)
		switch {
		case err != nil:
			m.status = err.Error()
		case !handled:
			m.status = fmt.Sprintf("no enabled button for %q", ev.Key)
		}
	}
	return m, nil
}

func (m *Model) setMode(mode calculator.Mode) {
	m.session.SetMode(mode)
	if n := len(m.session.Layout()); m.cursor >= n {
		m.cursor = n - 1
	}
}

func (m *Model) move(delta int) {
	c := m.cursor + delta
	if c < 0 || c >= len(m.session.Layout()) {
		return
	}
	m.cursor = c
}

func (m *Model) pressCursor() {
	layout := m.session.Layout()
	if m.cursor >= len(layout) {
		return
	}
	b := layout[m.cursor]
	if err := m.session.Activate(b.Value, b.Kind); err != nil {
		m.status = err.Error()
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderDisplay())
	b.WriteString("\n")
	b.WriteString(m.renderKeypad())
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(StatusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m Model) renderHeader() string {
	tabs := make([]string, 0, len(calculator.Modes)+1)
	tabs = append(tabs, TitleStyle.Render("calc "))
	for _, mode := range calculator.Modes {
		style := TabStyle
		if mode == m.session.Mode() {
			style = ActiveTabStyle
		}
		tabs = append(tabs, style.Render(string(mode)))
	}

	var selectors []string
	for _, s := range calculator.Selectors(m.session.Mode()) {
		active := s.Value == string(m.session.Angle())
		if s.Kind == calculator.KindBaseMode {
			active = s.Value == string(m.session.Base())
		}
		style := TabStyle
		if active {
			style = ActiveTabStyle
		}
		selectors = append(selectors, style.Render(s.Display))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Center, tabs...),
		lipgloss.JoinHorizontal(lipgloss.Center, selectors...),
	)
}

func (m Model) renderDisplay() string {
	state := m.session.State()
	previous, main := state.Lines()

	mainStyle := MainLineStyle
	switch {
	case state.HasError():
		mainStyle = ErrorLineStyle
	case state.Advisory != "":
		mainStyle = InfoLineStyle
	}

	width := columns * cellWidth
	return DisplayStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Right,
		PreviousLineStyle.Render(previous),
		mainStyle.Render(main),
	))
}

func (m Model) renderKeypad() string {
	layout := m.session.Layout()
	rows := make([]string, 0, len(layout)/columns+1)

	for start := 0; start < len(layout); start += columns {
		end := min(start+columns, len(layout))
		cells := make([]string, 0, columns)
		for i := start; i < end; i++ {
			cells = append(cells, m.renderButton(i, layout[i]))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderButton(i int, b calculator.Button) string {
	style := ButtonStyle
	switch {
	case i == m.cursor:
		style = CursorButtonStyle
	case !m.session.Enabled(b):
		style = DisabledButtonStyle
	case b.Kind == calculator.KindEquals:
		style = EqualsButtonStyle
	case b.Kind == calculator.KindOperator:
		style = OperatorButtonStyle
	}
	if i == m.cursor && !m.session.Enabled(b) {
		style = style.Foreground(ColorDimmed)
	}
	return style.Render(b.Display)
}
