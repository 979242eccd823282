package observability

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const RequestIDKey contextKey = "request_id"

func NewRequestID() string {
	return uuid.New().String()
}

// RequestIDFromHeader returns the header value when it is a UUID, so ids
// set by a proxy or the browser client carry through, and a new id otherwise.
func RequestIDFromHeader(value string) string {
	id, err := uuid.Parse(value)
	if err != nil {
		return NewRequestID()
	}
	return id.String()
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, ok := ctx.Value(RequestIDKey).(string)
	if !ok {
		return ""
	}
	return id
}
