package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Sessions is the persistence collaborator for session rows. Lookup by hashed
// token rides the unique index; every bulk mutation is a single statement.
type Sessions interface {
	repository.Repository[*Session]

	GetByHashedToken(ctx context.Context, hashedToken string) (*Session, error)
	GetByHashedTokenTx(ctx context.Context, tx bun.IDB, hashedToken string) (*Session, error)

	DeleteOne(ctx context.Context, session *Session) error
	DeleteOneTx(ctx context.Context, tx bun.IDB, session *Session) error

	DeleteByAuthenticatable(ctx context.Context, kind, id string) (int64, error)
	DeleteByAuthenticatableTx(ctx context.Context, tx bun.IDB, kind, id string) (int64, error)

	DeleteStale(ctx context.Context, now time.Time, window *time.Duration) (int64, error)
	DeleteStaleTx(ctx context.Context, tx bun.IDB, now time.Time, window *time.Duration) (int64, error)

	ClearShapeshift(ctx context.Context, id uuid.UUID, authenticatableID string, tenant Tenant) error
	ClearShapeshiftTx(ctx context.Context, tx bun.IDB, id uuid.UUID, authenticatableID string, tenant Tenant) error

	DeleteByTenantType(ctx context.Context, tenantType string) (int64, error)
	DeleteByTenantTypeTx(ctx context.Context, tx bun.IDB, tenantType string) (int64, error)

	DistinctTenantTypes(ctx context.Context) ([]string, error)
	DistinctTenantTypesTx(ctx context.Context, tx bun.IDB) ([]string, error)
}

type sessions struct {
	repository.Repository[*Session]
	db *bun.DB
}

var (
	_ Sessions                        = (*sessions)(nil)
	_ repository.Repository[*Session] = (*sessions)(nil)
)

func NewSessionsRepository(db *bun.DB) Sessions {
	repo := repository.NewRepository[*Session](db, repository.ModelHandlers[*Session]{
		NewRecord: func() *Session { return &Session{} },
		GetID: func(s *Session) uuid.UUID {
			if s == nil {
				return uuid.Nil
			}
			return s.ID
		},
		SetID: func(s *Session, id uuid.UUID) {
			if s != nil {
				s.ID = id
			}
		},
		GetIdentifier: func() string {
			return "hashed_token"
		},
	})

	return &sessions{
		Repository: repo,
		db:         db,
	}
}

func (r *sessions) GetByHashedToken(ctx context.Context, hashedToken string) (*Session, error) {
	return r.GetByHashedTokenTx(ctx, r.db, hashedToken)
}

func (r *sessions) GetByHashedTokenTx(ctx context.Context, tx bun.IDB, hashedToken string) (*Session, error) {
	record := &Session{}

	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.hashed_token = ?", hashedToken).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"hashed_token": hashedToken,
				})
		}
		return nil, err
	}

	return record, nil
}

func (r *sessions) DeleteOne(ctx context.Context, session *Session) error {
	return r.DeleteOneTx(ctx, r.db, session)
}

// DeleteOneTx removes a single row. Deleting an already-gone row is a no-op:
// a concurrent prune or logout may have raced us.
func (r *sessions) DeleteOneTx(ctx context.Context, tx bun.IDB, session *Session) error {
	_, err := tx.NewDelete().
		Model((*Session)(nil)).
		Where("id = ?", session.ID).
		Exec(ctx)

	return err
}

func (r *sessions) DeleteByAuthenticatable(ctx context.Context, kind, id string) (int64, error) {
	return r.DeleteByAuthenticatableTx(ctx, r.db, kind, id)
}

func (r *sessions) DeleteByAuthenticatableTx(ctx context.Context, tx bun.IDB, kind, id string) (int64, error) {
	res, err := tx.NewDelete().
		Model((*Session)(nil)).
		Where("authenticatable_type = ?", kind).
		Where("authenticatable_id = ?", id).
		Exec(ctx)

	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func (r *sessions) DeleteStale(ctx context.Context, now time.Time, window *time.Duration) (int64, error) {
	return r.DeleteStaleTx(ctx, r.db, now, window)
}

// DeleteStaleTx removes every expired session and, when an inactivity window
// is configured, every session unused for longer than the window. One
// statement, safe to run concurrently with login/logout traffic.
func (r *sessions) DeleteStaleTx(ctx context.Context, tx bun.IDB, now time.Time, window *time.Duration) (int64, error) {
	q := tx.NewDelete().
		Model((*Session)(nil))

	if window == nil {
		q = q.Where("expires_at <= ?", now)
	} else {
		cutoff := now.Add(-*window)
		q = q.Where("expires_at <= ? OR COALESCE(last_seen_at, created_at) <= ?", now, cutoff)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func (r *sessions) ClearShapeshift(ctx context.Context, id uuid.UUID, authenticatableID string, tenant Tenant) error {
	return r.ClearShapeshiftTx(ctx, r.db, id, authenticatableID, tenant)
}

// ClearShapeshiftTx restores the pre-shapeshift identity and tenant and nulls
// the impersonation markers in one statement. The ORM update path skips
// columns reset to their zero value, so the NULLs are set explicitly.
func (r *sessions) ClearShapeshiftTx(ctx context.Context, tx bun.IDB, id uuid.UUID, authenticatableID string, tenant Tenant) error {
	tenantType, tenantID := tenantColumns(tenant)

	_, err := tx.NewUpdate().
		Model((*Session)(nil)).
		Set("authenticatable_type = original_authenticatable_type").
		Set("authenticatable_id = ?", authenticatableID).
		Set("tenant_type = ?", tenantType).
		Set("tenant_id = ?", tenantID).
		Set("original_authenticatable_type = NULL").
		Set("original_authenticatable_id = NULL").
		Set("original_tenant_type = NULL").
		Set("original_tenant_id = NULL").
		Set("shapeshifted_at = NULL").
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)

	return err
}

func (r *sessions) DeleteByTenantType(ctx context.Context, tenantType string) (int64, error) {
	return r.DeleteByTenantTypeTx(ctx, r.db, tenantType)
}

func (r *sessions) DeleteByTenantTypeTx(ctx context.Context, tx bun.IDB, tenantType string) (int64, error) {
	res, err := tx.NewDelete().
		Model((*Session)(nil)).
		Where("tenant_type = ?", tenantType).
		Exec(ctx)

	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func (r *sessions) DistinctTenantTypes(ctx context.Context) ([]string, error) {
	return r.DistinctTenantTypesTx(ctx, r.db)
}

func (r *sessions) DistinctTenantTypesTx(ctx context.Context, tx bun.IDB) ([]string, error) {
	var types []string

	err := tx.NewSelect().
		Model((*Session)(nil)).
		Column("tenant_type").
		Where("tenant_type IS NOT NULL").
		Distinct().
		Scan(ctx, &types)

	if err != nil {
		return nil, err
	}

	return types, nil
}
