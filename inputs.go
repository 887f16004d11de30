package auth

import (
	"fmt"
	"reflect"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
)

// Input validation gates every public mutation in the engine and the
// configuration store. Each ProcessX entry point coerces or rejects one
// semantic type; failures are typed errors raised before any write happens.

type inputOptions struct {
	message string
	newErr  func(string) *errors.Error
}

// InputOption customizes the error an input check raises.
type InputOption func(*inputOptions)

// WithValidationMessage overrides the generated failure message.
func WithValidationMessage(message string) InputOption {
	return func(o *inputOptions) {
		o.message = message
	}
}

// WithValidationError routes the failure through a different error
// constructor, e.g. NewConfigurationError for configuration setters.
func WithValidationError(newErr func(string) *errors.Error) InputOption {
	return func(o *inputOptions) {
		o.newErr = newErr
	}
}

func resolveInputOptions(opts []InputOption) inputOptions {
	resolved := inputOptions{newErr: NewInvalidArgumentError}
	for _, opt := range opts {
		if opt != nil {
			opt(&resolved)
		}
	}
	return resolved
}

func (o inputOptions) fail(defaultMessage string) error {
	message := o.message
	if message == "" {
		message = defaultMessage
	}
	return o.newErr(message)
}

// ProcessNonEmptyString rejects empty strings.
func ProcessNonEmptyString(value string, opts ...InputOption) (string, error) {
	o := resolveInputOptions(opts)

	if err := validation.Validate(value, validation.Required); err != nil {
		return "", o.fail("expected a non-empty string")
	}

	return value, nil
}

// ProcessDuration rejects zero and negative time spans.
func ProcessDuration(value time.Duration, opts ...InputOption) (time.Duration, error) {
	o := resolveInputOptions(opts)

	if value <= 0 {
		return 0, o.fail(fmt.Sprintf("expected a positive duration, got %s", value))
	}

	return value, nil
}

// ProcessOptionalDuration passes nil through unchanged and otherwise applies
// the same rule as ProcessDuration.
func ProcessOptionalDuration(value *time.Duration, opts ...InputOption) (*time.Duration, error) {
	if value == nil {
		return nil, nil
	}

	if _, err := ProcessDuration(*value, opts...); err != nil {
		return nil, err
	}

	return value, nil
}

// ProcessAlgorithm rejects anything outside the closed strategy set.
func ProcessAlgorithm(value HashingAlgorithm, opts ...InputOption) (HashingAlgorithm, error) {
	o := resolveInputOptions(opts)

	err := validation.Validate(value,
		validation.Required,
		validation.In(HashingArgon2, HashingBcrypt, HashingScrypt, HashingPBKDF2),
	)
	if err != nil {
		return "", o.fail(fmt.Sprintf("invalid hashing algorithm %q, supported algorithms are: %v", value, HashingAlgorithms()))
	}

	return value, nil
}

// ProcessAuthenticatable rejects nil and zero-value identities.
func ProcessAuthenticatable(value Authenticatable, opts ...InputOption) (Authenticatable, error) {
	o := resolveInputOptions(opts)

	if value == nil || reflect.ValueOf(value).IsZero() {
		return nil, o.fail("expected an authenticatable identity")
	}

	if _, err := ProcessNonEmptyString(value.PrimaryKey(), opts...); err != nil {
		return nil, o.fail("expected a persisted identity with a primary key")
	}

	return value, nil
}

// ProcessRequestContext rejects nil request metadata.
func ProcessRequestContext(value RequestContext, opts ...InputOption) (RequestContext, error) {
	o := resolveInputOptions(opts)

	if value == nil || reflect.ValueOf(value).IsZero() {
		return nil, o.fail("expected a request context")
	}

	return value, nil
}
