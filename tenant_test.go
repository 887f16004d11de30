package auth_test

import (
	"testing"

	"github.com/goliatone/go-session-auth"
	"github.com/stretchr/testify/assert"
)

func TestResolveTenant(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		want    auth.Tenant
		wantErr bool
	}{
		{
			name: "Nil means single-tenant mode",
			raw:  nil,
			want: auth.Tenant{},
		},
		{
			name: "String label",
			raw:  "acme",
			want: auth.Tenant{Type: "acme"},
		},
		{
			name:    "Empty string label",
			raw:     "",
			wantErr: true,
		},
		{
			name: "Persisted entity",
			raw:  tenantOrg{kind: "Organization", key: "org_42"},
			want: auth.Tenant{Type: "Organization", ID: "org_42"},
		},
		{
			name:    "Unpersisted entity",
			raw:     tenantOrg{kind: "Organization"},
			wantErr: true,
		},
		{
			name: "Already normalized",
			raw:  auth.Tenant{Type: "Organization", ID: "org_42"},
			want: auth.Tenant{Type: "Organization", ID: "org_42"},
		},
		{
			name: "Normalized pointer",
			raw:  &auth.Tenant{Type: "acme"},
			want: auth.Tenant{Type: "acme"},
		},
		{
			name: "Nil pointer",
			raw:  (*auth.Tenant)(nil),
			want: auth.Tenant{},
		},
		{
			name:    "Id without type",
			raw:     auth.Tenant{ID: "org_42"},
			wantErr: true,
		},
		{
			name:    "Unsupported reference",
			raw:     42,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := auth.ResolveTenant(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, auth.IsInvalidTenant(err))
				assert.True(t, auth.IsInvalidArgument(err))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveTenantIdempotent(t *testing.T) {
	first, err := auth.ResolveTenant(tenantOrg{kind: "Organization", key: "org_42"})
	assert.NoError(t, err)

	second, err := auth.ResolveTenant(first)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTenantShape(t *testing.T) {
	assert.True(t, auth.Tenant{}.IsZero())
	assert.False(t, auth.Tenant{Type: "acme"}.IsZero())

	assert.True(t, auth.Tenant{Type: "acme"}.Label())
	assert.False(t, auth.Tenant{Type: "Organization", ID: "org_42"}.Label())
	assert.False(t, auth.Tenant{}.Label())

	assert.Equal(t, "<none>", auth.Tenant{}.String())
	assert.Equal(t, "acme", auth.Tenant{Type: "acme"}.String())
	assert.Equal(t, "Organization/org_42", auth.Tenant{Type: "Organization", ID: "org_42"}.String())
}
