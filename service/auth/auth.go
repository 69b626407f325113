// Package auth carries the authenticated identity of a request through its
// context.
package auth

import (
	"context"
)

type UserID string

const AnonymousUserID UserID = "user_000000000000000000000000001"

type Identity struct {
	UserID UserID
}

type identityKey struct{}

func IdentityFromContext(ctx context.Context) Identity {
	ident, ok := ctx.Value(identityKey{}).(Identity)
	if !ok {
		return Identity{UserID: AnonymousUserID}
	}
	return ident
}

func ContextWithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, ident)
}
