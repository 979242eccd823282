package tui

import (
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"go-chi-calculator/internal/calculator"
)

// keyMap holds the bindings handled by the TUI itself. Every other key is
// offered to the calculator's key resolver.
type keyMap struct {
	Generic     key.Binding
	Physics     key.Binding
	Programming key.Binding
	Economics   key.Binding
	Angle       key.Binding
	Base        key.Binding
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Press       key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Generic:     key.NewBinding(key.WithKeys("f1"), key.WithHelp("F1", "generic")),
		Physics:     key.NewBinding(key.WithKeys("f2"), key.WithHelp("F2", "physics")),
		Programming: key.NewBinding(key.WithKeys("f3"), key.WithHelp("F3", "programming")),
		Economics:   key.NewBinding(key.WithKeys("f4"), key.WithHelp("F4", "economics")),
		Angle:       key.NewBinding(key.WithKeys("f5"), key.WithHelp("F5", "rad/deg")),
		Base:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next base")),
		Up:          key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:        key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Left:        key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left")),
		Right:       key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "right")),
		Press:       key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "press button")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:        key.NewBinding(key.WithKeys("ctrl+c", "ctrl+q"), key.WithHelp("ctrl+q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Generic, k.Physics, k.Programming, k.Economics, k.Angle, k.Base, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Generic, k.Physics, k.Programming, k.Economics},
		{k.Angle, k.Base, k.Press},
		{k.Up, k.Down, k.Left, k.Right},
		{k.Help, k.Quit},
	}
}

// keyEvent translates a terminal key into the host-neutral event understood
// by calculator.ResolveKey.
func keyEvent(msg tea.KeyMsg) (calculator.KeyEvent, bool) {
	switch msg.Type {
	case tea.KeyEnter:
		return calculator.KeyEvent{Key: "Enter"}, true
	case tea.KeyBackspace, tea.KeyDelete:
		return calculator.KeyEvent{Key: "Backspace"}, true
	case tea.KeyEsc:
		return calculator.KeyEvent{Key: "Escape"}, true
	case tea.KeyCtrlP:
		return calculator.KeyEvent{Key: "p", Ctrl: true}, true
	case tea.KeyCtrlE:
		return calculator.KeyEvent{Key: "e", Ctrl: true}, true
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return calculator.KeyEvent{}, false
		}
		r := msg.Runes[0]
		return calculator.KeyEvent{Key: string(r), Meta: msg.Alt, Shift: unicode.IsUpper(r)}, true
	}
	return calculator.KeyEvent{}, false
}
