package context

import (
	stdcontext "context"
	"strings"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	actorIDKey   ctxKey = "actor_id"
	actorRoleKey ctxKey = "actor_role"
)

func WithRequestID(ctx stdcontext.Context, requestID string) stdcontext.Context {
	return stdcontext.WithValue(ctx, requestIDKey, strings.TrimSpace(requestID))
}

func RequestIDFromContext(ctx stdcontext.Context) string {
	return stringValue(ctx, requestIDKey)
}

// WithActor records who is calling and under which role.
func WithActor(ctx stdcontext.Context, actorID, role string) stdcontext.Context {
	ctx = stdcontext.WithValue(ctx, actorIDKey, strings.TrimSpace(actorID))
	return stdcontext.WithValue(ctx, actorRoleKey, strings.ToLower(strings.TrimSpace(role)))
}

// ActorFromContext returns the actor id and role, empty when unset.
func ActorFromContext(ctx stdcontext.Context) (string, string) {
	return stringValue(ctx, actorIDKey), stringValue(ctx, actorRoleKey)
}

func stringValue(ctx stdcontext.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(key).(string)
	return value
}
