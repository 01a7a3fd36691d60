package graph

import (
	"context"

	"artistconnection/internal/domain"
)

type contextKey string

const (
	ctxAuthenticated contextKey = "isAuthenticated"
	ctxUserID        contextKey = "userId"
	ctxUserRole      contextKey = "userRole"
)

// WithAuth attaches the verified token identity to the request context.
func WithAuth(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, ctxAuthenticated, true)
	ctx = context.WithValue(ctx, ctxUserID, userID)
	return context.WithValue(ctx, ctxUserRole, role)
}

func isAuthenticated(ctx context.Context) bool {
	v, _ := ctx.Value(ctxAuthenticated).(bool)
	return v
}

func userID(ctx context.Context) string {
	v, _ := ctx.Value(ctxUserID).(string)
	return v
}

func userRole(ctx context.Context) string {
	v, _ := ctx.Value(ctxUserRole).(string)
	return v
}

func requireAuth(ctx context.Context) error {
	if !isAuthenticated(ctx) {
		return domain.ErrNotAuthenticated
	}
	return nil
}

func requireAdmin(ctx context.Context) error {
	if err := requireAuth(ctx); err != nil {
		return err
	}
	if userRole(ctx) != domain.RoleAdmin {
		return domain.ErrNotAuthorized
	}
	return nil
}
