package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/units"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	reg, err := units.NewRegistry()
	if err != nil {
		t.Fatalf("building registry: %v", err)
	}
	engine, err := calculator.NewEngine(reg, calculator.WithLogger(zap.NewNop()))
	if err != nil {
		t.Fatalf("building engine: %v", err)
	}
	return New(engine)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send feeds msgs through Update and returns the final model.
func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestTypingEvaluates(t *testing.T) {
	m := send(t, newTestModel(t),
		runes("1"), runes("+"), runes("2"), tea.KeyMsg{Type: tea.KeyEnter},
	)

	state := m.Session().State()
	if state.CurrentText != "3" || !state.ResultPinned {
		t.Fatalf("expected pinned 3, got %+v", state)
	}
	if view := m.View(); !strings.Contains(view, "1+2 =") {
		t.Fatalf("expected previous expression in view, got:\n%s", view)
	}
}

func TestUnmappedKeySetsStatus(t *testing.T) {
	m := send(t, newTestModel(t), runes("q"))

	if !strings.Contains(m.status, `"q"`) {
		t.Fatalf("expected status for unmapped key, got %q", m.status)
	}

	m = send(t, m, runes("1"))
	if m.status != "" {
		t.Fatalf("expected status to clear, got %q", m.status)
	}
}

func TestModeAndBaseKeys(t *testing.T) {
	m := send(t, newTestModel(t), tea.KeyMsg{Type: tea.KeyTab})
	if !strings.Contains(m.status, "PROGRAMMING") {
		t.Fatalf("expected base change to be refused outside programming, got %q", m.status)
	}

	m = send(t, m,
		runes("2"), runes("5"), runes("5"),
		tea.KeyMsg{Type: tea.KeyF3},
		tea.KeyMsg{Type: tea.KeyTab},
	)

	s := m.Session()
	if s.Mode() != calculator.Programming || s.Base() != calculator.Hex {
		t.Fatalf("expected PROGRAMMING/HEX, got %s/%s", s.Mode(), s.Base())
	}
	if got := s.State().CurrentText; got != "FF" {
		t.Fatalf("expected FF, got %q", got)
	}

	// The converted value stays pinned, so a new digit starts over.
	m = send(t, m, runes("a"))
	if got := m.Session().State().CurrentText; got != "A" {
		t.Fatalf("expected hex digit to replace the result, got %q", got)
	}

	send(t, m, tea.KeyMsg{Type: tea.KeyF1})
	if s.Mode() != calculator.Generic || s.Base() != calculator.Dec {
		t.Fatalf("expected GENERIC/DEC after F1, got %s/%s", s.Mode(), s.Base())
	}
}

func TestAngleToggle(t *testing.T) {
	m := send(t, newTestModel(t), tea.KeyMsg{Type: tea.KeyF5})
	if got := m.Session().Angle(); got != calculator.Degrees {
		t.Fatalf("expected %s, got %s", calculator.Degrees, got)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyF5})
	if got := m.Session().Angle(); got != calculator.Radians {
		t.Fatalf("expected %s, got %s", calculator.Radians, got)
	}
}

func TestCursorPress(t *testing.T) {
	m := newTestModel(t)
	space := tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

	// Generic row two is sin cos tan 7 8 9.
	m = send(t, m,
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight},
		space,
	)
	if got := m.Session().State().CurrentText; got != "7" {
		t.Fatalf("expected 7, got %q", got)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 3 {
		t.Fatalf("expected cursor to stop at the top row, got %d", m.cursor)
	}
}

func TestCursorPressDisabledButton(t *testing.T) {
	m := send(t, newTestModel(t), tea.KeyMsg{Type: tea.KeyF3})

	// Programming row two starts with the hex digit A, disabled in DEC.
	m = send(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !strings.Contains(m.status, "disabled") {
		t.Fatalf("expected disabled status, got %q", m.status)
	}
	if got := m.Session().State().CurrentText; got != "" {
		t.Fatalf("expected no input, got %q", got)
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg, got %T", cmd())
	}
}

func TestViewShowsModeAndSelectors(t *testing.T) {
	m := send(t, newTestModel(t), tea.WindowSizeMsg{Width: 80, Height: 24}, tea.KeyMsg{Type: tea.KeyF3})

	view := m.View()
	for _, want := range []string{"PROGRAMMING", "HEX", "AND", "0"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view, got:\n%s", want, view)
		}
	}
}

func TestKeyEvent(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want calculator.KeyEvent
		ok   bool
	}{
		{name: "digit", msg: runes("7"), want: calculator.KeyEvent{Key: "7"}, ok: true},
		{name: "upper", msg: runes("L"), want: calculator.KeyEvent{Key: "L", Shift: true}, ok: true},
		{name: "alt", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e"), Alt: true}, want: calculator.KeyEvent{Key: "e", Meta: true}, ok: true},
		{name: "enter", msg: tea.KeyMsg{Type: tea.KeyEnter}, want: calculator.KeyEvent{Key: "Enter"}, ok: true},
		{name: "backspace", msg: tea.KeyMsg{Type: tea.KeyBackspace}, want: calculator.KeyEvent{Key: "Backspace"}, ok: true},
		{name: "escape", msg: tea.KeyMsg{Type: tea.KeyEsc}, want: calculator.KeyEvent{Key: "Escape"}, ok: true},
		{name: "ctrl p", msg: tea.KeyMsg{Type: tea.KeyCtrlP}, want: calculator.KeyEvent{Key: "p", Ctrl: true}, ok: true},
		{name: "paste", msg: runes("12"), ok: false},
		{name: "home", msg: tea.KeyMsg{Type: tea.KeyHome}, ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := keyEvent(tc.msg)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("expected %+v (%t), got %+v (%t)", tc.want, tc.ok, got, ok)
			}
		})
	}
}
