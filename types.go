package auth

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Authenticatable is the identity capability the engine needs from the host
// application. The host owns the identity records; the engine only reads the
// primary key and the locked flag.
type Authenticatable interface {
	PrimaryKey() string
	Locked() bool
}

// CredentialHolder is implemented by identities that carry a password digest.
type CredentialHolder interface {
	Authenticatable
	CredentialHash() string
}

// IdentityStore is the persistence capability over the host's identity records.
// Lookup failures for unknown keys should be reported with a not found error
// so callers can treat them as "no identity" instead of a hard failure.
type IdentityStore interface {
	GetByPrimaryKey(ctx context.Context, key string) (Authenticatable, error)
	UpdateCredential(ctx context.Context, key, credentialHash string) error
	SetLocked(ctx context.Context, key string, locked bool) error
}

// TenantEntity is implemented by host models that scope sessions.
// TenantKey returns the persisted primary key; an empty key means the entity
// has not been saved yet and cannot scope a session.
type TenantEntity interface {
	TenantType() string
	TenantKey() string
}

// TenantRegistry resolves tenant type names back to something real.
// ResolveType returns a tenant not found error when the name no longer maps
// to a known type; the prune sweep treats that as the orphan signal.
type TenantRegistry interface {
	ResolveType(ctx context.Context, tenantType string) error
}

// RequestContext exposes the request metadata the engine records on a session.
type RequestContext interface {
	IP() string
	UserAgent() string
	// NavigableGet reports whether the request is a browser-navigable GET,
	// used by the HTTP glue to decide if a return path should be remembered.
	NavigableGet() bool
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
