package auth

import (
	"context"
)

var sessionCtxKey = &contextKey{"session"}

type contextKey struct {
	name string
}

// WithSessionContext sets the Session in the given context.
func WithSessionContext(r context.Context, session *Session) context.Context {
	return context.WithValue(r, sessionCtxKey, session)
}

// SessionFromContext finds the session from the context.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	raw, ok := ctx.Value(sessionCtxKey).(*Session)
	return raw, ok
}

// ActingIdentityKey returns the primary key of the identity the request acts
// as, honoring impersonation.
func ActingIdentityKey(ctx context.Context) (string, bool) {
	session, ok := SessionFromContext(ctx)
	if !ok || session == nil {
		return "", false
	}
	return session.AuthenticatableID, true
}

// TrueIdentityKey returns the primary key of the real identity behind the
// request: the original one while shapeshifted, the acting one otherwise.
func TrueIdentityKey(ctx context.Context) (string, bool) {
	session, ok := SessionFromContext(ctx)
	if !ok || session == nil {
		return "", false
	}
	if session.Shapeshifted() {
		return *session.OriginalAuthenticatableID, true
	}
	return session.AuthenticatableID, true
}
