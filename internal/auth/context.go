package auth

import (
	"context"

	"github.com/spendwise/spendwise/internal/model"
)

type callerKey struct{}

// WithCaller returns a copy of ctx carrying the authenticated caller.
func WithCaller(ctx context.Context, caller *model.AuthContext) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFrom returns the caller attached by the auth middleware.
func CallerFrom(ctx context.Context) (*model.AuthContext, bool) {
	caller, ok := ctx.Value(callerKey{}).(*model.AuthContext)
	return caller, ok && caller != nil
}

// UserID returns the caller's user id, or "" on an unauthenticated request.
func UserID(ctx context.Context) string {
	if caller, ok := CallerFrom(ctx); ok {
		return caller.UserID
	}
	return ""
}
