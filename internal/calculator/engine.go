package calculator

import (
	"fmt"

	"go.uber.org/zap"

	"go-chi-calculator/internal/evaluator"
	"go-chi-calculator/internal/units"
)

// DefaultPrecision is the number of significant digits results are shown with.
const DefaultPrecision = evaluator.Precision

// Engine ties the preprocessor, the evaluator and the formatter together. It
// holds no per-user state and is safe for concurrent use.
type Engine struct {
	eval      *evaluator.Evaluator
	reg       *units.Registry
	degrees   evaluator.Scope
	precision int
	logger    *zap.Logger
}

type Option func(*Engine)

// WithLogger sets the logger used for reconciliation warnings.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithPrecision sets the significant digits used to render BigNumber results.
func WithPrecision(p int) Option {
	return func(e *Engine) {
		if p > 0 {
			e.precision = p
		}
	}
}

func NewEngine(reg *units.Registry, opts ...Option) (*Engine, error) {
	ev, err := evaluator.New(reg)
	if err != nil {
		return nil, fmt.Errorf("creating evaluator: %w", err)
	}
	e := &Engine{
		eval:      ev,
		reg:       reg,
		degrees:   evaluator.DegreeScope(),
		precision: DefaultPrecision,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) Registry() *units.Registry { return e.reg }

func (e *Engine) Precision() int { return e.precision }

// Layout returns the buttons of mode, with the economics keypad built from the
// engine's currency registry.
func (e *Engine) Layout(mode Mode) []Button {
	return layoutFor(mode, e.reg.Currencies())
}

func (e *Engine) ResolveKey(mode Mode, base Base, ev KeyEvent) (Button, bool) {
	return resolveKey(e.Layout(mode), mode, base, ev)
}

func (e *Engine) scope(mode Mode, angle AngleUnit) evaluator.Scope {
	if angle == Degrees && mode != Programming {
		return e.degrees
	}
	return nil
}

// Evaluate preprocesses text and evaluates it in the given context.
func (e *Engine) Evaluate(text string, mode Mode, base Base, angle AngleUnit) (evaluator.Value, error) {
	return e.eval.Evaluate(Preprocess(text, base, mode), e.scope(mode, angle))
}

// Result is a formatted evaluation.
type Result struct {
	Expression   string
	Preprocessed string
	Value        evaluator.Value
	Text         string
	Advisory     string
}

// Calculate evaluates text and formats the value for mode and base.
func (e *Engine) Calculate(text string, mode Mode, base Base, angle AngleUnit) (Result, error) {
	res := Result{Expression: text, Preprocessed: Preprocess(text, base, mode)}
	v, err := e.eval.Evaluate(res.Preprocessed, e.scope(mode, angle))
	if err != nil {
		return res, err
	}
	res.Value = v
	res.Text, res.Advisory = Format(v, base, e.precision, mode)
	return res, nil
}
