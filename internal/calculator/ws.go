package calculator

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"go-chi-calculator/internal/observability"
)

const (
	wsReadTimeout  = 5 * time.Minute
	wsWriteTimeout = 10 * time.Second
	wsMaxMessage   = 4 << 10
)

var errUnknownMessage = errors.New("unknown message type")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// SessionSocket handles GET /calculator/sessions/{id}/ws. Every client frame
// is applied to the session and answered with the resulting snapshot.
func (h *Handler) SessionSocket(w http.ResponseWriter, r *http.Request) {
	const opName = "session.ws"
	ctx, span, logger, requestID := begin(r, opName)
	defer span.End()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("session.id", id))

	snap, err := h.store.Get(id)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, statusFor(err), w)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logger.Warn("websocket upgrade failed", zap.Error(err), zap.String("request_id", requestID))
		return
	}
	defer conn.Close()

	logger = logger.With(zap.String("session_id", id), zap.String("remote", conn.RemoteAddr().String()))
	logger.Info("websocket connection established")

	conn.SetReadLimit(wsMaxMessage)
	conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	})

	if err := send(conn, WSResponse{Type: "state", Session: &snap}); err != nil {
		return
	}

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read error", zap.Error(err))
			} else {
				logger.Info("websocket connection closed")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		if msg.Type == "ping" {
			if err := send(conn, WSResponse{Type: "pong"}); err != nil {
				return
			}
			continue
		}

		start := time.Now()
		snap, err := h.store.With(id, func(s *Session) error { return applyMessage(s, msg) })
		elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

		resp := WSResponse{Type: "state", Session: &snap}
		switch {
		case errors.Is(err, ErrSessionNotFound):
			_ = send(conn, WSResponse{Type: "error", Error: err.Error()})
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "session expired"),
				time.Now().Add(wsWriteTimeout))
			return
		case err != nil:
			errorCounter.Add(ctx, 1)
			logger.Debug("websocket event rejected", zap.String("type", msg.Type), zap.Error(err))
			resp = WSResponse{Type: "error", Error: err.Error()}
		default:
			recordSnapshot(ctx, "ws."+msg.Type, elapsed, snap)
		}

		if err := send(conn, resp); err != nil {
			logger.Warn("websocket write failed", zap.Error(err))
			return
		}
	}
}

func applyMessage(s *Session, msg WSMessage) error {
	switch msg.Type {
	case "state":
		return nil
	case "press":
		return s.Activate(msg.Value, msg.Kind)
	case "key":
		_, err := s.Key(msg.Key)
		return err
	case "mode":
		mode, err := ParseMode(msg.Value)
		if err != nil {
			return err
		}
		s.SetMode(mode)
		return nil
	case "base":
		base, err := ParseBase(msg.Value)
		if err != nil {
			return err
		}
		return s.SetBase(base)
	case "angle":
		angle, err := ParseAngle(msg.Value)
		if err != nil {
			return err
		}
		s.SetAngle(angle)
		return nil
	}
	return fmt.Errorf("%w: %q", errUnknownMessage, msg.Type)
}

func send(conn *websocket.Conn, resp WSResponse) error {
	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteJSON(resp)
}
