package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"go-chi-calculator/internal/evaluator"
	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// maxBodyBytes bounds request bodies; expressions are short.
const maxBodyBytes = 64 << 10

// Handler serves the calculator API on top of a session store.
type Handler struct {
	store  *Store
	engine *Engine
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store, engine: store.Engine()}
}

// ---------------------------------------------------------------------------
// Handlers: stateless evaluation
// ---------------------------------------------------------------------------

// Evaluate handles POST /calculator/evaluate
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	const opName = "evaluate"
	ctx, span, logger, requestID := begin(r, opName)
	defer span.End()

	var req EvaluateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	mode, base, angle, err := parseContext(req.Mode, req.Base, req.Angle)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(
		attribute.String("calculator.expression", req.Expression),
		attribute.String("calculator.mode", string(mode)),
		attribute.String("calculator.base", string(base)),
		attribute.String("calculator.angle", string(angle)),
	)

	start := time.Now()
	res, err := h.engine.Calculate(req.Expression, mode, base, angle)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err != nil {
		span.SetAttributes(attribute.String("calculator.preprocessed", res.Preprocessed))
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, http.StatusUnprocessableEntity, w)
		return
	}

	kind := evaluator.KindOf(res.Value)
	recordResult(ctx, opName, mode, elapsed, res.Value, res.Advisory)

	span.AddEvent("evaluation.complete", trace.WithAttributes(
		attribute.String("result", res.Text),
		attribute.String("kind", kind),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetAttributes(attribute.String("calculator.result", res.Text))
	span.SetStatus(codes.Ok, "")

	logger.Info("expression evaluated",
		zap.String("expression", req.Expression),
		zap.String("preprocessed", res.Preprocessed),
		zap.String("mode", string(mode)),
		zap.String("base", string(base)),
		zap.String("result", res.Text),
		zap.String("kind", kind),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, EvaluateResponse{
		Expression:   req.Expression,
		Preprocessed: res.Preprocessed,
		Result:       res.Text,
		Advisory:     res.Advisory,
		Kind:         kind,
	})
}

// Preprocess handles POST /calculator/preprocess
func (h *Handler) Preprocess(w http.ResponseWriter, r *http.Request) {
	const opName = "preprocess"
	ctx, span, logger, _ := begin(r, opName)
	defer span.End()

	var req PreprocessRequest
	if err := decodeJSON(w, r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err, http.StatusBadRequest, w)
		return
	}
	mode, base, _, err := parseContext(req.Mode, req.Base, "")
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, http.StatusBadRequest, w)
		return
	}

	out := Preprocess(req.Expression, base, mode)
	opsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", opName)))
	span.SetStatus(codes.Ok, "")

	handlers.WriteJSON(w, http.StatusOK, PreprocessResponse{Preprocessed: out})
}

// Layout handles GET /calculator/layouts/{mode}?base=
func (h *Handler) Layout(w http.ResponseWriter, r *http.Request) {
	const opName = "layout"
	ctx, span, logger, _ := begin(r, opName)
	defer span.End()

	mode, base, _, err := parseContext(chi.URLParam(r, "mode"), r.URL.Query().Get("base"), "")
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, http.StatusBadRequest, w)
		return
	}
	if mode != Programming {
		base = Dec
	}

	layout := h.engine.Layout(mode)
	buttons := make([]LayoutButton, 0, len(layout))
	for _, b := range layout {
		buttons = append(buttons, LayoutButton{Button: b, Enabled: Enabled(b, mode, base)})
	}

	span.SetAttributes(attribute.Int("calculator.buttons", len(buttons)))
	span.SetStatus(codes.Ok, "")

	handlers.WriteJSON(w, http.StatusOK, LayoutResponse{
		Mode:      mode,
		Base:      base,
		Buttons:   buttons,
		Selectors: Selectors(mode),
	})
}

// Currencies handles GET /calculator/currencies
func (h *Handler) Currencies(w http.ResponseWriter, r *http.Request) {
	_, span, _, _ := begin(r, "currencies")
	defer span.End()

	currencies := h.engine.Registry().Currencies()
	out := make([]CurrencyResponse, 0, len(currencies))
	for _, c := range currencies {
		out = append(out, CurrencyResponse{
			Code:      c.Name,
			Title:     c.Title,
			Rate:      c.Rate().String(),
			Precision: c.Precision,
		})
	}
	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, out)
}

// ---------------------------------------------------------------------------
// Handlers: sessions
// ---------------------------------------------------------------------------

// CreateSession handles POST /calculator/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	const opName = "session.create"
	ctx, span, logger, requestID := begin(r, opName)
	defer span.End()

	snap, err := h.store.Create()
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, statusFor(err), w)
		return
	}

	span.SetAttributes(attribute.String("session.id", snap.SessionID))
	span.SetStatus(codes.Ok, "")
	logger.Info("session created",
		zap.String("session_id", snap.SessionID),
		zap.Int("active_sessions", h.store.Len()),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusCreated, snap)
}

// GetSession handles GET /calculator/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.sessionOp(w, r, "get", nil, nil)
}

// DeleteSession handles DELETE /calculator/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	const opName = "session.delete"
	ctx, span, logger, _ := begin(r, opName)
	defer span.End()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("session.id", id))
	if !h.store.Delete(id) {
		observability.RecordError(ctx, span, logger, errorCounter, opName, ErrSessionNotFound.Error(), ErrSessionNotFound, http.StatusNotFound, w)
		return
	}
	span.SetStatus(codes.Ok, "")
	w.WriteHeader(http.StatusNoContent)
}

// Press handles POST /calculator/sessions/{id}/press
func (h *Handler) Press(w http.ResponseWriter, r *http.Request) {
	var req PressRequest
	h.sessionOp(w, r, "press", &req, func(s *Session) error {
		return s.Activate(req.Value, req.Kind)
	})
}

// Key handles POST /calculator/sessions/{id}/key
func (h *Handler) Key(w http.ResponseWriter, r *http.Request) {
	var req KeyEvent
	h.sessionOp(w, r, "key", &req, func(s *Session) error {
		handled, err := s.Key(req)
		if err == nil && !handled {
			return fmt.Errorf("%w: key %q", ErrButtonNotInMode, req.Key)
		}
		return err
	})
}

// SetMode handles PUT /calculator/sessions/{id}/mode
func (h *Handler) SetMode(w http.ResponseWriter, r *http.Request) {
	var req ModeRequest
	h.sessionOp(w, r, "mode", &req, func(s *Session) error {
		mode, err := ParseMode(req.Mode)
		if err != nil {
			return err
		}
		s.SetMode(mode)
		return nil
	})
}

// SetBase handles PUT /calculator/sessions/{id}/base
func (h *Handler) SetBase(w http.ResponseWriter, r *http.Request) {
	var req BaseRequest
	h.sessionOp(w, r, "base", &req, func(s *Session) error {
		base, err := ParseBase(req.Base)
		if err != nil {
			return err
		}
		return s.SetBase(base)
	})
}

// SetAngle handles PUT /calculator/sessions/{id}/angle
func (h *Handler) SetAngle(w http.ResponseWriter, r *http.Request) {
	var req AngleRequest
	h.sessionOp(w, r, "angle", &req, func(s *Session) error {
		angle, err := ParseAngle(req.Angle)
		if err != nil {
			return err
		}
		s.SetAngle(angle)
		return nil
	})
}

// sessionOp is the shared implementation of the session endpoints: it decodes
// body (when non-nil), applies fn under the session lock and writes the
// resulting snapshot.
func (h *Handler) sessionOp(w http.ResponseWriter, r *http.Request, opName string, body any, fn func(*Session) error) {
	ctx, span, logger, requestID := begin(r, "session."+opName)
	defer span.End()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("session.id", id))

	if body != nil {
		if err := decodeJSON(w, r, body); err != nil {
			observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err, http.StatusBadRequest, w)
			return
		}
	}

	start := time.Now()
	snap, err := h.store.With(id, fn)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, statusFor(err), w)
		return
	}

	recordSnapshot(ctx, opName, elapsed, snap)

	span.AddEvent("session.updated", trace.WithAttributes(
		attribute.String("mode", string(snap.Mode)),
		attribute.String("base", string(snap.Base)),
		attribute.Bool("pinned", snap.State.ResultPinned),
	))
	span.SetStatus(codes.Ok, "")

	logger.Debug("session updated",
		zap.String("operation", opName),
		zap.String("session_id", id),
		zap.String("current", snap.State.CurrentText),
		zap.String("advisory", snap.State.Advisory),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, snap)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// begin starts the operation span and returns the trace-correlated logger.
func begin(r *http.Request, opName string) (context.Context, trace.Span, *zap.Logger, string) {
	ctx := r.Context()
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator."+opName,
		trace.WithAttributes(
			attribute.String("calculator.operation", opName),
			attribute.String("request.id", requestID),
		),
	)
	return ctx, span, observability.LoggerWithTrace(ctx), requestID
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// parseContext parses the mode, base and angle of a request, defaulting
// empty values to GENERIC, DEC and RAD.
func parseContext(mode, base, angle string) (Mode, Base, AngleUnit, error) {
	m, b, a := Generic, Dec, Radians
	var err error
	if strings.TrimSpace(mode) != "" {
		if m, err = ParseMode(mode); err != nil {
			return "", "", "", err
		}
	}
	if strings.TrimSpace(base) != "" {
		if b, err = ParseBase(base); err != nil {
			return "", "", "", err
		}
	}
	if strings.TrimSpace(angle) != "" {
		if a, err = ParseAngle(angle); err != nil {
			return "", "", "", err
		}
	}
	return m, b, a, nil
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnknownMode), errors.Is(err, ErrUnknownBase),
		errors.Is(err, ErrUnknownAngle), errors.Is(err, ErrUnknownKind),
		errors.Is(err, ErrButtonNotInMode), errors.Is(err, errUnknownMessage):
		return http.StatusBadRequest
	case errors.Is(err, ErrButtonDisabled), errors.Is(err, ErrBaseUnavailable):
		return http.StatusConflict
	case errors.Is(err, ErrTooManySessions):
		return http.StatusServiceUnavailable
	case errors.Is(err, evaluator.ErrSyntax), errors.Is(err, evaluator.ErrUndefined),
		errors.Is(err, evaluator.ErrDomain), errors.Is(err, evaluator.ErrUnits),
		errors.Is(err, evaluator.ErrType):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func recordResult(ctx context.Context, opName string, mode Mode, elapsed float64, v evaluator.Value, advisory string) {
	attrs := metric.WithAttributes(
		attribute.String("operation", opName),
		attribute.String("mode", string(mode)),
	)
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)
	if advisory != "" {
		advisoryCounter.Add(ctx, 1, attrs)
	}
	if f, ok := resultFloat(v); ok {
		resultGauge.Record(ctx, f, attrs)
	}
}

func recordSnapshot(ctx context.Context, opName string, elapsed float64, snap SessionResponse) {
	attrs := metric.WithAttributes(
		attribute.String("operation", opName),
		attribute.String("mode", string(snap.Mode)),
	)
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)
	switch {
	case snap.State.HasError():
		errorCounter.Add(ctx, 1, attrs)
	case snap.State.Advisory != "":
		advisoryCounter.Add(ctx, 1, attrs)
	}
}

// resultFloat converts numeric results for the last-result gauge.
func resultFloat(v evaluator.Value) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case evaluator.BigNumber:
		f = x.InexactFloat64()
	case evaluator.Number:
		f = float64(x)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
