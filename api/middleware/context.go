package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/busline-io/busline-backend/pkg/auth"
	"github.com/busline-io/busline-backend/pkg/enums"
)

type contextKey string

const (
	ctxUserID contextKey = "user_id"
	ctxRole   contextKey = "actor_role"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

// WithIdentity injects the verified caller identity into the context.
func WithIdentity(ctx context.Context, userID string, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, userID)
	return context.WithValue(ctx, ctxRole, role)
}

// ActorFromContext rebuilds the Actor services consume. A request without
// identity yields the zero Actor (anonymous).
func ActorFromContext(ctx context.Context) auth.Actor {
	raw := UserIDFromContext(ctx)
	if raw == "" {
		return auth.Actor{}
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return auth.Actor{}
	}
	return auth.Actor{
		UserID: id,
		Role:   enums.UserRole(RoleFromContext(ctx)),
	}
}
