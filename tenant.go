package auth

import (
	"context"
	"fmt"
)

// Tenant is the canonical (type, id) pair a session is scoped to.
// Valid shapes: both empty (single-tenant mode), type set with an empty id
// (label tenant), or both set (entity tenant).
type Tenant struct {
	Type string
	ID   string
}

// IsZero reports single-tenant mode.
func (t Tenant) IsZero() bool {
	return t.Type == "" && t.ID == ""
}

// Label reports a label-only tenant.
func (t Tenant) Label() bool {
	return t.Type != "" && t.ID == ""
}

func (t Tenant) String() string {
	switch {
	case t.IsZero():
		return "<none>"
	case t.Label():
		return t.Type
	default:
		return t.Type + "/" + t.ID
	}
}

// ResolveTenant normalizes a heterogeneous tenant reference into a canonical
// Tenant. It accepts nil, a non-empty string label, a persisted TenantEntity,
// or an already-normalized Tenant (idempotent). It is pure: entity persistence
// state is inspected through the capability interface, never queried.
func ResolveTenant(raw any) (Tenant, error) {
	switch ref := raw.(type) {
	case nil:
		return Tenant{}, nil
	case Tenant:
		if ref.ID != "" && ref.Type == "" {
			return Tenant{}, NewInvalidTenantError("tenant pair has an id without a type")
		}
		return ref, nil
	case *Tenant:
		if ref == nil {
			return Tenant{}, nil
		}
		return ResolveTenant(*ref)
	case string:
		if ref == "" {
			return Tenant{}, NewInvalidTenantError("tenant label must be a non-empty string")
		}
		return Tenant{Type: ref}, nil
	case TenantEntity:
		if ref == nil {
			return Tenant{}, nil
		}
		if ref.TenantKey() == "" {
			return Tenant{}, NewInvalidTenantError("tenant entity is not persisted")
		}
		return Tenant{Type: ref.TenantType(), ID: ref.TenantKey()}, nil
	default:
		return Tenant{}, NewInvalidTenantError(fmt.Sprintf("unsupported tenant reference %T", raw))
	}
}

// noopTenantRegistry resolves every tenant type. Engines without a registry
// never report orphans.
type noopTenantRegistry struct{}

func (noopTenantRegistry) ResolveType(context.Context, string) error {
	return nil
}

// TenantRegistryFunc adapts a function to the TenantRegistry interface.
type TenantRegistryFunc func(ctx context.Context, tenantType string) error

func (f TenantRegistryFunc) ResolveType(ctx context.Context, tenantType string) error {
	if f == nil {
		return nil
	}
	return f(ctx, tenantType)
}

func normalizeTenantRegistry(r TenantRegistry) TenantRegistry {
	if r == nil {
		return noopTenantRegistry{}
	}
	return r
}
