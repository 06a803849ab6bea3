package model

import (
	"context"
)

// ContextManager threads the authenticated identity through request contexts.
type ContextManager interface {
	SetIdentityToContext(ctx context.Context, identity Identity) context.Context
	GetIdentityFromContext(ctx context.Context) (Identity, bool)
}
