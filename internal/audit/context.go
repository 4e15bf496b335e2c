package audit

import "context"

type contextKey string

const (
	requestIDKey contextKey = "audit_request_id"
	actorKey     contextKey = "audit_actor"
)

// DefaultActor is recorded when the context carries no actor.
const DefaultActor = "sistema"

func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	value, _ := ctx.Value(requestIDKey).(string)
	return value
}

func WithActor(ctx context.Context, actor string) context.Context {
	if actor == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the actor, or DefaultActor when none is set.
func ActorFromContext(ctx context.Context) string {
	if value, _ := ctx.Value(actorKey).(string); value != "" {
		return value
	}
	return DefaultActor
}
