package auth

import (
	"fmt"
	"time"
)

// DefaultTotalSessionLifetime is the absolute lifetime applied to new sessions
// unless configured otherwise.
const DefaultTotalSessionLifetime = 14 * 24 * time.Hour

// DefaultIdentityKind is the denormalized type name recorded on session rows.
const DefaultIdentityKind = "User"

// Config holds the process-wide settings read by the session engine and the
// hasher selection. It is an explicit, injectable object: thread it through
// constructors instead of sharing mutable globals. Setters validate at
// assignment time, so a stored value is always usable.
type Config struct {
	hashingAlgorithm        HashingAlgorithm
	inactiveSessionLifetime *time.Duration
	totalSessionLifetime    time.Duration
	identityKind            string
}

// NewConfig returns a Config populated with defaults: argon2 hashing,
// no inactivity window, a 14 day absolute lifetime, and the "User" kind.
func NewConfig() *Config {
	c := &Config{}
	c.Reset()
	return c
}

// Reset restores every setting to its default. Intended for test isolation.
func (c *Config) Reset() {
	c.hashingAlgorithm = HashingArgon2
	c.inactiveSessionLifetime = nil
	c.totalSessionLifetime = DefaultTotalSessionLifetime
	c.identityKind = DefaultIdentityKind
}

// SetHashingAlgorithm selects one of the four hashing strategies.
func (c *Config) SetHashingAlgorithm(algorithm HashingAlgorithm) error {
	value, err := ProcessAlgorithm(algorithm,
		WithValidationError(NewConfigurationError),
		WithValidationMessage(fmt.Sprintf("invalid hashing algorithm %q, supported algorithms are: %v", algorithm, HashingAlgorithms())),
	)
	if err != nil {
		return err
	}

	c.hashingAlgorithm = value
	return nil
}

// SetInactiveSessionLifetime configures the optional inactivity window.
// Passing nil disables inactivity tracking.
func (c *Config) SetInactiveSessionLifetime(window *time.Duration) error {
	value, err := ProcessOptionalDuration(window,
		WithValidationError(NewConfigurationError),
		WithValidationMessage("invalid inactive session lifetime, expected a positive duration or nil"),
	)
	if err != nil {
		return err
	}

	c.inactiveSessionLifetime = value
	return nil
}

// SetTotalSessionLifetime configures the absolute session lifetime.
func (c *Config) SetTotalSessionLifetime(lifetime time.Duration) error {
	value, err := ProcessDuration(lifetime,
		WithValidationError(NewConfigurationError),
		WithValidationMessage("invalid total session lifetime, expected a positive duration"),
	)
	if err != nil {
		return err
	}

	c.totalSessionLifetime = value
	return nil
}

// SetIdentityKind configures the type name stored in the session's
// authenticatable_type column. Identity behavior itself is supplied through
// the Authenticatable capability, not resolved from this name.
func (c *Config) SetIdentityKind(kind string) error {
	value, err := ProcessNonEmptyString(kind,
		WithValidationError(NewConfigurationError),
		WithValidationMessage("invalid identity kind, expected a non-empty type name"),
	)
	if err != nil {
		return err
	}

	c.identityKind = value
	return nil
}

func (c *Config) HashingAlgorithm() HashingAlgorithm {
	return c.hashingAlgorithm
}

func (c *Config) InactiveSessionLifetime() *time.Duration {
	return c.inactiveSessionLifetime
}

func (c *Config) TotalSessionLifetime() time.Duration {
	return c.totalSessionLifetime
}

func (c *Config) IdentityKind() string {
	return c.identityKind
}

// Hasher maps the configured algorithm to its strategy. An unknown value is
// unreachable through the validated setter and fails fast with an internal error.
func (c *Config) Hasher() (PasswordHasher, error) {
	return HasherFor(c.hashingAlgorithm)
}
