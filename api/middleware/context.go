package middleware

import (
	"context"

	"github.com/scyware/assettrack-backend/pkg/enums"
)

type contextKey string

const (
	ctxUserID        contextKey = "user_id"
	ctxUserName      contextKey = "user_name"
	ctxUserEmail     contextKey = "user_email"
	ctxRole          contextKey = "actor_role"
	ctxAssignedStore contextKey = "assigned_store_id"
	ctxStoreID       contextKey = "store_id"
)

func UserIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxUserID)
}

func UserNameFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxUserName)
}

func UserEmailFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxUserEmail)
}

func RoleFromContext(ctx context.Context) enums.UserRole {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(enums.UserRole); ok {
		return v
	}
	return ""
}

func AssignedStoreFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxAssignedStore)
}

// StoreIDFromContext returns the resolved active store. Empty means the caller
// resolved to the wildcard scope and queries run unscoped.
func StoreIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxStoreID)
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithRole injects the actor role into the context.
func WithRole(ctx context.Context, role enums.UserRole) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRole, role)
}

// WithStoreID injects the resolved store identifier for downstream handlers.
func WithStoreID(ctx context.Context, storeID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxStoreID, storeID)
}

func stringFromContext(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
