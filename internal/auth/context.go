package auth

import "context"

type contextKey struct{}

// Roles relative to the active inventory.
const (
	RoleOwner  = "owner"
	RoleHelper = "helper"
)

// AuthContext carries the authenticated viewer and whose inventory their
// requests operate on. OwnerID equals UserID unless the viewer is a
// connected helper.
type AuthContext struct {
	UserID    int64
	OwnerID   int64
	Role      string
	SessionID int64
	Anonymous bool
}

func WithAuth(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(contextKey{}).(AuthContext)
	return ac, ok
}

// OwnerID returns the active inventory owner for the request, or 0 when
// unauthenticated.
func OwnerID(ctx context.Context) int64 {
	ac, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return ac.OwnerID
}

func UserID(ctx context.Context) int64 {
	ac, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return ac.UserID
}

func IsHelper(ctx context.Context) bool {
	ac, ok := FromContext(ctx)
	if !ok {
		return false
	}
	return ac.Role == RoleHelper
}
