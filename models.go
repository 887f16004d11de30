package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Session is one active or historical login. The raw token is never stored:
// rows are keyed by the one-way hash of the secret handed to the client.
type Session struct {
	bun.BaseModel `bun:"table:auth_sessions,alias:ses"`

	ID          uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	HashedToken string    `bun:"hashed_token,notnull,unique" json:"-"`
	// ExpiresAt is fixed at creation; liveness is always computed from it.
	ExpiresAt  time.Time  `bun:"expires_at,notnull" json:"expires_at"`
	LastSeenAt *time.Time `bun:"last_seen_at,nullzero" json:"last_seen_at,omitempty"`
	IPAddress  string     `bun:"ip_address" json:"ip_address,omitempty"`
	UserAgent  string     `bun:"user_agent" json:"user_agent,omitempty"`

	// The currently acting identity. Differs from the original while shapeshifted.
	AuthenticatableType string `bun:"authenticatable_type,notnull" json:"authenticatable_type"`
	AuthenticatableID   string `bun:"authenticatable_id,notnull" json:"authenticatable_id"`

	// Set only while impersonating; both fields move together.
	OriginalAuthenticatableType *string    `bun:"original_authenticatable_type,nullzero" json:"original_authenticatable_type,omitempty"`
	OriginalAuthenticatableID   *string    `bun:"original_authenticatable_id,nullzero" json:"original_authenticatable_id,omitempty"`
	ShapeshiftedAt              *time.Time `bun:"shapeshifted_at,nullzero" json:"shapeshifted_at,omitempty"`

	TenantType *string `bun:"tenant_type,nullzero" json:"tenant_type,omitempty"`
	TenantID   *string `bun:"tenant_id,nullzero" json:"tenant_id,omitempty"`

	OriginalTenantType *string `bun:"original_tenant_type,nullzero" json:"original_tenant_type,omitempty"`
	OriginalTenantID   *string `bun:"original_tenant_id,nullzero" json:"original_tenant_id,omitempty"`

	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Expired reports whether the absolute lifetime has elapsed. Absorbing: an
// expired session must be terminated, never revived.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Inactive reports whether the inactivity window has been exceeded.
// A nil window disables inactivity tracking. A session that was never seen
// counts from its creation time.
func (s *Session) Inactive(now time.Time, window *time.Duration) bool {
	if window == nil {
		return false
	}

	lastSeen := s.LastSeenAt
	if lastSeen == nil {
		lastSeen = s.CreatedAt
	}
	if lastSeen == nil {
		return false
	}

	return now.Sub(*lastSeen) >= *window
}

// Active reports whether the session is still usable.
func (s *Session) Active(now time.Time, window *time.Duration) bool {
	return !s.Expired(now) && !s.Inactive(now, window)
}

// Shapeshifted reports whether the session is currently impersonating.
func (s *Session) Shapeshifted() bool {
	return s.OriginalAuthenticatableID != nil
}

// Tenant returns the canonical tenant pair the session is scoped to.
func (s *Session) Tenant() Tenant {
	return tenantFromColumns(s.TenantType, s.TenantID)
}

// OriginalTenant returns the tenant captured at shapeshift time.
func (s *Session) OriginalTenant() Tenant {
	return tenantFromColumns(s.OriginalTenantType, s.OriginalTenantID)
}

func (s *Session) setTenant(t Tenant) {
	s.TenantType, s.TenantID = tenantColumns(t)
}

func (s *Session) setOriginalTenant(t Tenant) {
	s.OriginalTenantType, s.OriginalTenantID = tenantColumns(t)
}

func tenantFromColumns(tenantType, tenantID *string) Tenant {
	t := Tenant{}
	if tenantType != nil {
		t.Type = *tenantType
	}
	if tenantID != nil {
		t.ID = *tenantID
	}
	return t
}

func tenantColumns(t Tenant) (*string, *string) {
	var tenantType, tenantID *string
	if t.Type != "" {
		v := t.Type
		tenantType = &v
	}
	if t.ID != "" {
		v := t.ID
		tenantID = &v
	}
	return tenantType, tenantID
}
