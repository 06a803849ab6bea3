package context

import (
	"context"

	"github.com/dtroode/blog-server/internal/model"
)

type identityKey struct{}

// Manager stores the authenticated identity in request contexts.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// SetIdentityToContext returns a child of ctx carrying identity.
func (m *Manager) SetIdentityToContext(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// GetIdentityFromContext returns the identity set by the authentication
// middleware. ok is false on unauthenticated requests.
func (m *Manager) GetIdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(model.Identity)
	return identity, ok
}
