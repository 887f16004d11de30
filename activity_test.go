package auth_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-session-auth"
	"github.com/stretchr/testify/assert"
)

func TestActivitySinkFunc(t *testing.T) {
	var recorded []auth.ActivityEvent
	sink := auth.ActivitySinkFunc(func(_ context.Context, event auth.ActivityEvent) error {
		recorded = append(recorded, event)
		return nil
	})

	err := sink.Record(context.Background(), auth.ActivityEvent{
		EventType:  auth.ActivityEventSessionEstablished,
		IdentityID: "usr_1",
	})
	assert.NoError(t, err)
	assert.Len(t, recorded, 1)

	var nilSink auth.ActivitySinkFunc
	assert.NoError(t, nilSink.Record(context.Background(), auth.ActivityEvent{}))
}

func TestTenantRegistryFuncNil(t *testing.T) {
	var registry auth.TenantRegistryFunc
	assert.NoError(t, registry.ResolveType(context.Background(), "Organization"))
}
