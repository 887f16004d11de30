package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

type LockAccountMessage struct {
	IdentityKey string `json:"identity_key"`
}

func (e LockAccountMessage) Type() string { return "account.lock" }

type UnlockAccountMessage struct {
	IdentityKey string `json:"identity_key"`
}

func (e UnlockAccountMessage) Type() string { return "account.unlock" }

// LockAccountHandler flips the locked flag and terminates every live session
// of the account, so a locked identity cannot keep riding an existing login.
type LockAccountHandler struct {
	identities IdentityStore
	engine     *Engine
	sink       ActivitySink
}

func NewLockAccountHandler(identities IdentityStore, engine *Engine) *LockAccountHandler {
	return &LockAccountHandler{
		identities: identities,
		engine:     engine,
		sink:       noopActivitySink{},
	}
}

func (h *LockAccountHandler) WithActivitySink(sink ActivitySink) *LockAccountHandler {
	h.sink = normalizeActivitySink(sink)
	return h
}

func (h *LockAccountHandler) Execute(ctx context.Context, event LockAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account lock",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *LockAccountHandler) execute(ctx context.Context, event LockAccountMessage) error {
	key, err := ProcessNonEmptyString(event.IdentityKey,
		WithValidationMessage("expected a non-empty identity key"),
	)
	if err != nil {
		return err
	}

	if err := h.identities.SetLocked(ctx, key, true); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to lock account")
	}

	identity, err := h.identities.GetByPrimaryKey(ctx, key)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load locked account")
	}

	if _, err := h.engine.TerminateAll(ctx, identity); err != nil {
		return err
	}

	_ = h.sink.Record(ctx, ActivityEvent{
		EventType:  ActivityEventAccountLocked,
		IdentityID: key,
	})

	return nil
}

// UnlockAccountHandler clears the locked flag. Existing sessions are gone by
// then; the account simply becomes able to log in again.
type UnlockAccountHandler struct {
	identities IdentityStore
	sink       ActivitySink
}

func NewUnlockAccountHandler(identities IdentityStore) *UnlockAccountHandler {
	return &UnlockAccountHandler{
		identities: identities,
		sink:       noopActivitySink{},
	}
}

func (h *UnlockAccountHandler) WithActivitySink(sink ActivitySink) *UnlockAccountHandler {
	h.sink = normalizeActivitySink(sink)
	return h
}

func (h *UnlockAccountHandler) Execute(ctx context.Context, event UnlockAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account unlock",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *UnlockAccountHandler) execute(ctx context.Context, event UnlockAccountMessage) error {
	key, err := ProcessNonEmptyString(event.IdentityKey,
		WithValidationMessage("expected a non-empty identity key"),
	)
	if err != nil {
		return err
	}

	if err := h.identities.SetLocked(ctx, key, false); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to unlock account")
	}

	_ = h.sink.Record(ctx, ActivityEvent{
		EventType:  ActivityEventAccountUnlocked,
		IdentityID: key,
	})

	return nil
}
