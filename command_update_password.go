package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

type UpdatePasswordMessage struct {
	IdentityKey string `json:"identity_key"`
	Password    string `json:"password"`
}

func (e UpdatePasswordMessage) Type() string { return "account.update_password" }

// UpdatePasswordHandler hashes the new password with the configured strategy
// and writes the digest through the host's identity store.
type UpdatePasswordHandler struct {
	identities IdentityStore
	config     *Config
	sink       ActivitySink
}

func NewUpdatePasswordHandler(identities IdentityStore, config *Config) *UpdatePasswordHandler {
	return &UpdatePasswordHandler{
		identities: identities,
		config:     config,
		sink:       noopActivitySink{},
	}
}

func (h *UpdatePasswordHandler) WithActivitySink(sink ActivitySink) *UpdatePasswordHandler {
	h.sink = normalizeActivitySink(sink)
	return h
}

func (h *UpdatePasswordHandler) Execute(ctx context.Context, event UpdatePasswordMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password update",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *UpdatePasswordHandler) execute(ctx context.Context, event UpdatePasswordMessage) error {
	key, err := ProcessNonEmptyString(event.IdentityKey,
		WithValidationMessage("expected a non-empty identity key"),
	)
	if err != nil {
		return err
	}

	if _, err := ProcessNonEmptyString(event.Password,
		WithValidationMessage("expected a non-empty password"),
	); err != nil {
		return err
	}

	hash, err := HashPassword(h.config, event.Password)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	if err := h.identities.UpdateCredential(ctx, key, hash); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update credential")
	}

	// best effort, sinks never block the credential write
	_ = h.sink.Record(ctx, ActivityEvent{
		EventType:  ActivityEventPasswordUpdated,
		IdentityID: key,
	})

	return nil
}
