package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// tokenBytes is the entropy of the login secret handed to the client.
const tokenBytes = 32

// Engine owns the session lifecycle: establishment, liveness evaluation,
// activity refresh, termination, impersonation, and bulk pruning. It performs
// no internal locking and spawns no goroutines; every operation is a
// synchronous call against the persistence collaborator.
type Engine struct {
	sessions     Sessions
	config       *Config
	tenants      TenantRegistry
	activitySink ActivitySink
	logger       Logger
}

// NewEngine returns an Engine over the given session store and configuration.
func NewEngine(sessions Sessions, config *Config) *Engine {
	if config == nil {
		config = NewConfig()
	}

	return &Engine{
		sessions:     sessions,
		config:       config,
		tenants:      noopTenantRegistry{},
		activitySink: noopActivitySink{},
		logger:       defLogger{},
	}
}

func (e *Engine) WithLogger(logger Logger) *Engine {
	if logger != nil {
		e.logger = logger
	}
	return e
}

// WithTenantRegistry installs the capability used to detect orphaned tenant
// types during Prune and CheckTenantConsistency.
func (e *Engine) WithTenantRegistry(registry TenantRegistry) *Engine {
	e.tenants = normalizeTenantRegistry(registry)
	return e
}

// WithActivitySink configures an ActivitySink for emitting session events.
func (e *Engine) WithActivitySink(sink ActivitySink) *Engine {
	e.activitySink = normalizeActivitySink(sink)
	return e
}

// Config exposes the configuration the engine reads.
func (e *Engine) Config() *Config {
	return e.config
}

// HashToken maps a raw token to the stored lookup key.
func HashToken(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}

// Establish creates a session for identity and returns the raw secret.
// This is the only time the secret is available: only its hash is persisted.
// The request info is folded into the insert, so establishment is a single
// atomic write.
func (e *Engine) Establish(ctx context.Context, identity Authenticatable, req RequestContext, tenantRef any) (string, *Session, error) {
	if _, err := ProcessAuthenticatable(identity); err != nil {
		return "", nil, err
	}

	if _, err := ProcessRequestContext(req); err != nil {
		return "", nil, err
	}

	tenant, err := ResolveTenant(tenantRef)
	if err != nil {
		return "", nil, err
	}

	rawToken, err := generateToken()
	if err != nil {
		return "", nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate session token")
	}

	now := time.Now()
	session := &Session{
		ID:                  uuid.New(),
		HashedToken:         HashToken(rawToken),
		ExpiresAt:           now.Add(e.config.TotalSessionLifetime()),
		LastSeenAt:          &now,
		IPAddress:           req.IP(),
		UserAgent:           req.UserAgent(),
		AuthenticatableType: e.config.IdentityKind(),
		AuthenticatableID:   identity.PrimaryKey(),
	}
	session.setTenant(tenant)

	session, err = e.sessions.Create(ctx, session)
	if err != nil {
		return "", nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist session")
	}

	e.emit(ctx, ActivityEvent{
		EventType:  ActivityEventSessionEstablished,
		SessionID:  session.ID.String(),
		IdentityID: session.AuthenticatableID,
		Tenant:     tenant,
	})

	return rawToken, session, nil
}

// Lookup finds the session behind a raw token. A missing row means
// "no session", not an error: a concurrent prune or logout may have deleted
// it between requests.
func (e *Engine) Lookup(ctx context.Context, rawToken string) (*Session, error) {
	if rawToken == "" {
		return nil, nil
	}

	session, err := e.sessions.GetByHashedToken(ctx, HashToken(rawToken))
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up session")
	}

	return session, nil
}

// UpdateInfo refreshes last_seen_at and the request metadata on the session.
func (e *Engine) UpdateInfo(ctx context.Context, session *Session, req RequestContext) error {
	if _, err := ProcessRequestContext(req); err != nil {
		return err
	}

	now := time.Now()
	session.LastSeenAt = &now
	session.IPAddress = req.IP()
	session.UserAgent = req.UserAgent()

	if _, err := e.sessions.Update(ctx, session, repository.UpdateByID(session.ID.String())); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update session info")
	}

	return nil
}

// Active reports whether session is neither expired nor inactive under the
// current configuration.
func (e *Engine) Active(session *Session) bool {
	return session.Active(time.Now(), e.config.InactiveSessionLifetime())
}

// Expired reports whether the absolute lifetime has elapsed.
func (e *Engine) Expired(session *Session) bool {
	return session.Expired(time.Now())
}

// Inactive reports whether the configured inactivity window has been exceeded.
// Always false when no window is configured.
func (e *Engine) Inactive(session *Session) bool {
	return session.Inactive(time.Now(), e.config.InactiveSessionLifetime())
}

// Terminate hard-deletes the session row. Terminating an already-deleted
// session is a no-op: the common logout/prune race must not error.
func (e *Engine) Terminate(ctx context.Context, session *Session) error {
	if err := e.sessions.DeleteOne(ctx, session); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to terminate session")
	}

	e.emit(ctx, ActivityEvent{
		EventType:  ActivityEventSessionTerminated,
		SessionID:  session.ID.String(),
		IdentityID: session.AuthenticatableID,
		Tenant:     session.Tenant(),
	})

	return nil
}

// Shapeshift swaps the acting identity of the session, capturing the current
// identity and tenant for later reversal. When tenantRef is omitted the
// tenant is left unchanged.
//
// Calling Shapeshift on an already-shapeshifted session overwrites the
// recorded original: impersonation is single-level, and the true original is
// unrecoverable past one level of nesting.
func (e *Engine) Shapeshift(ctx context.Context, session *Session, newIdentity Authenticatable, tenantRef ...any) error {
	if _, err := ProcessAuthenticatable(newIdentity); err != nil {
		return err
	}

	tenant := session.Tenant()
	if len(tenantRef) > 0 {
		resolved, err := ResolveTenant(tenantRef[0])
		if err != nil {
			return err
		}
		tenant = resolved
	}

	now := time.Now()

	originalType := session.AuthenticatableType
	originalID := session.AuthenticatableID
	session.OriginalAuthenticatableType = &originalType
	session.OriginalAuthenticatableID = &originalID
	session.setOriginalTenant(session.Tenant())
	session.ShapeshiftedAt = &now

	session.AuthenticatableID = newIdentity.PrimaryKey()
	session.setTenant(tenant)

	if _, err := e.sessions.Update(ctx, session, repository.UpdateByID(session.ID.String())); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist shapeshift")
	}

	e.emit(ctx, ActivityEvent{
		EventType:  ActivityEventSessionShapeshift,
		SessionID:  session.ID.String(),
		IdentityID: session.AuthenticatableID,
		Tenant:     tenant,
		Metadata: map[string]any{
			"original_authenticatable_id": originalID,
		},
	})

	return nil
}

// Revert restores the identity and tenant captured at shapeshift time and
// clears the impersonation markers. Reverting a session that is not
// shapeshifted is a no-op.
func (e *Engine) Revert(ctx context.Context, session *Session) error {
	if !session.Shapeshifted() {
		return nil
	}

	restoredID := *session.OriginalAuthenticatableID
	restoredTenant := session.OriginalTenant()

	if err := e.sessions.ClearShapeshift(ctx, session.ID, restoredID, restoredTenant); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to revert shapeshift")
	}

	if session.OriginalAuthenticatableType != nil {
		session.AuthenticatableType = *session.OriginalAuthenticatableType
	}
	session.AuthenticatableID = restoredID
	session.setTenant(restoredTenant)
	session.OriginalAuthenticatableType = nil
	session.OriginalAuthenticatableID = nil
	session.setOriginalTenant(Tenant{})
	session.ShapeshiftedAt = nil

	e.emit(ctx, ActivityEvent{
		EventType:  ActivityEventSessionReverted,
		SessionID:  session.ID.String(),
		IdentityID: restoredID,
		Tenant:     restoredTenant,
	})

	return nil
}

// Shapeshifted reports whether session is currently impersonating.
func (e *Engine) Shapeshifted(session *Session) bool {
	return session.Shapeshifted()
}

// Prune deletes, in one sweep, every expired or inactive session, plus every
// session bound to a tenant type that no longer resolves. A tenant type that
// was renamed or removed must not crash the sweep for other tenants: each
// resolution failure is converted into deletions for that type only.
func (e *Engine) Prune(ctx context.Context) (int64, error) {
	deleted, err := e.sessions.DeleteStale(ctx, time.Now(), e.config.InactiveSessionLifetime())
	if err != nil {
		return 0, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to prune stale sessions")
	}

	tenantTypes, err := e.sessions.DistinctTenantTypes(ctx)
	if err != nil {
		return deleted, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list tenant types for orphan sweep")
	}

	for _, tenantType := range tenantTypes {
		if err := e.tenants.ResolveType(ctx, tenantType); err == nil {
			continue
		}

		e.logger.Info("pruning sessions of unresolvable tenant type %q", tenantType)

		n, err := e.sessions.DeleteByTenantType(ctx, tenantType)
		if err != nil {
			return deleted, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to prune orphaned tenant sessions")
		}
		deleted += n
	}

	e.emit(ctx, ActivityEvent{
		EventType: ActivityEventSessionsPruned,
		Metadata: map[string]any{
			"deleted": deleted,
		},
	})

	return deleted, nil
}

// TerminateAll deletes every session currently owned by identity. Only the
// acting authenticatable counts: sessions impersonating the identity keep
// running under their own owner.
func (e *Engine) TerminateAll(ctx context.Context, identity Authenticatable) (int64, error) {
	if _, err := ProcessAuthenticatable(identity); err != nil {
		return 0, err
	}

	deleted, err := e.sessions.DeleteByAuthenticatable(ctx, e.config.IdentityKind(), identity.PrimaryKey())
	if err != nil {
		return 0, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to terminate sessions")
	}

	return deleted, nil
}

// CheckTenantConsistency verifies that every tenant type referenced by a
// session still resolves. Unlike Prune it surfaces the failure: hosts may run
// it at startup and treat a stale tenant binding as fatal.
func (e *Engine) CheckTenantConsistency(ctx context.Context) error {
	tenantTypes, err := e.sessions.DistinctTenantTypes(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list tenant types")
	}

	for _, tenantType := range tenantTypes {
		if err := e.tenants.ResolveType(ctx, tenantType); err != nil {
			return NewTenantNotFoundError(tenantType)
		}
	}

	return nil
}

func (e *Engine) emit(ctx context.Context, event ActivityEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	if err := e.activitySink.Record(ctx, event); err != nil {
		e.logger.Warn("activity sink record error: %v", err)
	}
}

func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
