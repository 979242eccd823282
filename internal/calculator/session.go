package calculator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"go-chi-calculator/internal/evaluator"
)

const (
	advisoryPrefix = "Info:"
	errorPrefix    = "Error:"
)

// DisplayState is what the two display lines are rendered from.
type DisplayState struct {
	PreviousExpression string `json:"previous"`
	CurrentText        string `json:"current"`
	Advisory           string `json:"advisory,omitempty"`
	ResultPinned       bool   `json:"pinned"`
}

// HasError reports whether the advisory is an evaluation error rather than
// an informational note.
func (d DisplayState) HasError() bool {
	return strings.HasPrefix(d.Advisory, errorPrefix)
}

// Lines returns the upper and main display lines.
func (d DisplayState) Lines() (previous, main string) {
	switch {
	case d.Advisory != "" && strings.HasSuffix(d.PreviousExpression, "="):
		previous = d.PreviousExpression
	case d.Advisory != "" && !strings.HasPrefix(d.Advisory, advisoryPrefix):
		previous = ""
	default:
		previous = d.PreviousExpression
	}

	switch {
	case d.Advisory != "":
		main = d.Advisory
	case d.CurrentText != "":
		main = d.CurrentText
	default:
		main = "0"
	}
	return previous, main
}

// Session is one calculator: the expression being built plus the mode, base
// and angle selectors. A Session is not safe for concurrent use.
type Session struct {
	engine *Engine
	mode   Mode
	base   Base
	angle  AngleUnit
	state  DisplayState
}

// NewSession starts an empty session in GENERIC mode, base DEC, radians.
func NewSession(engine *Engine) *Session {
	return &Session{engine: engine, mode: Generic, base: Dec, angle: Radians}
}

func (s *Session) Mode() Mode            { return s.mode }
func (s *Session) Base() Base            { return s.base }
func (s *Session) Angle() AngleUnit      { return s.angle }
func (s *Session) State() DisplayState   { return s.state }
func (s *Session) Layout() []Button      { return s.engine.Layout(s.mode) }
func (s *Session) Enabled(b Button) bool { return Enabled(b, s.mode, s.base) }

// Press applies a button. Evaluation failures are reported through the
// display state; the returned error is for buttons the session cannot apply.
func (s *Session) Press(b Button) error {
	pinned := s.state.ResultPinned
	s.state.Advisory = ""

	switch b.Kind {
	case KindEquals, KindMode, KindBaseMode:
	default:
		if pinned && b.Kind.startsValue() {
			s.state.CurrentText = ""
		}
		s.state.ResultPinned = false
	}

	switch {
	case b.Kind.appends():
		s.Append(b.Value)
	case b.Kind == KindEquals:
		_ = s.Calculate()
	case b.Kind == KindClear:
		s.Clear()
	case b.Kind == KindDelete:
		s.Backspace()
	case b.Kind == KindMode:
		angle, err := ParseAngle(b.Value)
		if err != nil {
			return err
		}
		s.SetAngle(angle)
	case b.Kind == KindBaseMode:
		base, err := ParseBase(b.Value)
		if err != nil {
			return err
		}
		return s.SetBase(base)
	case b.Kind == KindToggleSign:
		s.toggleSign(pinned)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, b.Kind)
	}
	return nil
}

// Activate presses the button of the current layout with the given value and
// kind, refusing buttons that are missing or disabled. Selector and command
// kinds are always available.
func (s *Session) Activate(value string, kind Kind) error {
	switch kind {
	case KindEquals, KindClear, KindDelete, KindMode, KindBaseMode:
		return s.Press(Button{Display: value, Value: value, Kind: kind})
	}
	b, ok := findButton(s.Layout(), value, kind)
	if !ok {
		return fmt.Errorf("%w: %s %q in %s", ErrButtonNotInMode, kind, value, s.mode)
	}
	if !s.Enabled(b) {
		return fmt.Errorf("%w: %q in %s/%s", ErrButtonDisabled, b.Display, s.mode, s.base)
	}
	return s.Press(b)
}

// Key resolves a key press against the current layout and presses the
// matching button. It reports whether the key was handled.
func (s *Session) Key(ev KeyEvent) (bool, error) {
	b, ok := s.engine.ResolveKey(s.mode, s.base, ev)
	if !ok {
		return false, nil
	}
	return true, s.Press(b)
}

// Append adds token to the expression, enforcing one decimal point per
// numeric run. It reports whether the token was accepted.
func (s *Session) Append(token string) bool {
	if token == "." {
		if nonDecimal(s.mode, s.base) || strings.Contains(currentRun(s.state.CurrentText), ".") {
			return false
		}
	}
	s.state.CurrentText += token
	return true
}

// runDelimiters end a numeric run when scanning backwards.
const runDelimiters = "+-*/(^%e ~&|<>o"

func currentRun(text string) string {
	return text[strings.LastIndexAny(text, runDelimiters)+1:]
}

// Backspace removes the last character.
func (s *Session) Backspace() {
	_, size := utf8.DecodeLastRuneInString(s.state.CurrentText)
	s.state.CurrentText = s.state.CurrentText[:len(s.state.CurrentText)-size]
	s.state.ResultPinned = false
}

// Clear resets the display. Mode, base and angle are kept.
func (s *Session) Clear() {
	s.state = DisplayState{}
}

// ToggleSign negates the pinned result or the trailing literal of the text.
func (s *Session) ToggleSign() {
	pinned := s.state.ResultPinned
	s.state.Advisory = ""
	s.toggleSign(pinned)
}

func (s *Session) toggleSign(pinned bool) {
	defer func() { s.state.ResultPinned = false }()

	text := s.state.CurrentText
	if pinned && text != "" {
		out, err := s.engine.NegateValue(text, s.mode, s.base, s.angle)
		if err != nil {
			s.engine.logger.Debug("toggle sign of result failed", zap.String("input", text), zap.Error(err))
			s.state.Advisory = "Error: Could not toggle sign of result."
			return
		}
		s.state.CurrentText = out
		return
	}
	s.state.CurrentText = NegateTrailingLiteral(text, s.mode, s.base)
}

// Calculate evaluates the expression and pins the rendered result. An empty
// expression is left alone. On failure the text is kept and the error shown.
func (s *Session) Calculate() error {
	text := s.state.CurrentText
	if text == "" {
		return nil
	}
	s.state.PreviousExpression = strings.TrimSpace(text) + " ="

	res, err := s.engine.Calculate(text, s.mode, s.base, s.angle)
	if err != nil {
		s.state.Advisory = errorPrefix + " " + err.Error()
		s.state.ResultPinned = false
		return err
	}
	s.state.CurrentText = res.Text
	s.state.Advisory = res.Advisory
	s.state.ResultPinned = true
	return nil
}

// SetMode switches the calculator type and re-renders the current text for
// it. The switch itself always succeeds.
func (s *Session) SetMode(mode Mode) {
	oldMode, oldBase := s.mode, s.base
	s.mode = mode
	s.state.Advisory = ""
	if mode != Programming {
		s.base = Dec
	}

	text := s.state.CurrentText
	if strings.TrimSpace(text) == "" {
		s.state.CurrentText = ""
		s.state.PreviousExpression = ""
		s.state.ResultPinned = false
		return
	}

	if oldMode != Programming {
		oldBase = Dec
	}
	v, err := s.engine.Evaluate(text, oldMode, oldBase, s.angle)
	if err != nil {
		s.engine.logger.Warn("could not reconcile input with new calculator type",
			zap.String("input", text),
			zap.String("from", string(oldMode)),
			zap.String("to", string(mode)),
			zap.Error(err),
		)
		s.state.Advisory = fmt.Sprintf("Info: Input %q could not be auto-converted for new type %s. It remains as is.", text, mode)
		s.state.ResultPinned = false
		return
	}

	s.state.CurrentText, s.state.Advisory = Format(v, s.base, s.engine.precision, mode)
	switch v.(type) {
	case evaluator.BigNumber, evaluator.Number, evaluator.Quantity:
		s.state.ResultPinned = true
	default:
		s.state.ResultPinned = false
	}
}

// SetBase changes the number base in PROGRAMMING mode, converting a numeric
// text to the new base. The base changes even when the text cannot be
// converted.
func (s *Session) SetBase(base Base) error {
	if s.mode != Programming {
		return fmt.Errorf("%w (mode %s)", ErrBaseUnavailable, s.mode)
	}
	oldBase := s.base
	defer func() { s.base = base }()

	text := s.state.CurrentText
	if strings.TrimSpace(text) == "" || oldBase == base {
		return nil
	}

	v, err := s.engine.Evaluate(text, s.mode, oldBase, s.angle)
	if err != nil {
		s.engine.logger.Warn("could not convert input to new base",
			zap.String("input", text),
			zap.String("from", string(oldBase)),
			zap.String("to", string(base)),
			zap.Error(err),
		)
		s.state.Advisory = fmt.Sprintf("Info: Could not convert %q from %s. Base changed to %s. Error: %s", text, oldBase, base, err)
		return nil
	}

	switch v.(type) {
	case evaluator.BigNumber, evaluator.Number:
		text, advisory := Format(v, base, s.engine.precision, s.mode)
		s.state.CurrentText = text
		if advisory != "" {
			s.state.Advisory = advisory
		}
	default:
		s.state.Advisory = fmt.Sprintf("Info: Input %q not a simple number, base changed to %s.", text, base)
	}
	return nil
}

// SetAngle switches between radians and degrees for trigonometry.
func (s *Session) SetAngle(angle AngleUnit) {
	s.angle = angle
}

// Restore reinstates a saved state and selectors, e.g. when a host reloads a
// session.
func (s *Session) Restore(mode Mode, base Base, angle AngleUnit, state DisplayState) {
	s.mode, s.base, s.angle, s.state = mode, base, angle, state
	if mode != Programming {
		s.base = Dec
	}
}
