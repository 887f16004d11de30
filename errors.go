package auth

import (
	"github.com/goliatone/go-errors"
)

const (
	// TextCodeConfiguration marks invalid configuration values, rejected at assignment time.
	TextCodeConfiguration = "auth_invalid_configuration"
	// TextCodeInvalidArgument marks bad call-site input.
	TextCodeInvalidArgument = "auth_invalid_argument"
	// TextCodeInvalidTenant marks a tenant reference with an unsupported shape.
	TextCodeInvalidTenant = "auth_invalid_tenant"
	// TextCodeTenantNotFound marks a tenant type that no longer resolves.
	TextCodeTenantNotFound = "auth_tenant_not_found"
	// TextCodeUnknownHasher marks an unmapped hashing algorithm. Should be
	// unreachable: setters validate the enum before it is stored.
	TextCodeUnknownHasher = "auth_unknown_hasher"
)

// ErrUnknownHasher is returned when the configured algorithm has no registered strategy.
var ErrUnknownHasher = errors.New("unknown hashing algorithm", errors.CategoryInternal).
	WithTextCode(TextCodeUnknownHasher).
	WithCode(errors.CodeInternal)

// NewConfigurationError builds the error raised by configuration setters.
func NewConfigurationError(message string) *errors.Error {
	return errors.New(message, errors.CategoryValidation).
		WithTextCode(TextCodeConfiguration).
		WithCode(errors.CodeBadRequest)
}

// NewInvalidArgumentError builds the error raised by input validation at call sites.
func NewInvalidArgumentError(message string) *errors.Error {
	return errors.New(message, errors.CategoryBadInput).
		WithTextCode(TextCodeInvalidArgument).
		WithCode(errors.CodeBadRequest)
}

// NewInvalidTenantError builds the error raised for malformed tenant references.
// It is a refinement of the invalid argument error, distinguishable by text code.
func NewInvalidTenantError(message string) *errors.Error {
	return errors.New(message, errors.CategoryBadInput).
		WithTextCode(TextCodeInvalidTenant).
		WithCode(errors.CodeBadRequest)
}

// NewTenantNotFoundError builds the error surfaced when a tenant type no
// longer resolves. Reserved for the strict startup consistency check; the
// prune sweep converts these into deletions instead.
func NewTenantNotFoundError(tenantType string) *errors.Error {
	return errors.New("tenant type does not resolve", errors.CategoryNotFound).
		WithTextCode(TextCodeTenantNotFound).
		WithCode(errors.CodeNotFound).
		WithMetadata(map[string]any{
			"tenant_type": tenantType,
		})
}

// IsConfigurationError reports whether err is a configuration error.
func IsConfigurationError(err error) bool {
	return hasTextCode(err, TextCodeConfiguration)
}

// IsInvalidArgument reports whether err is a call-site input validation
// failure. Tenant errors count: they are a subtype of invalid argument.
func IsInvalidArgument(err error) bool {
	return hasTextCode(err, TextCodeInvalidArgument) || hasTextCode(err, TextCodeInvalidTenant)
}

// IsInvalidTenant reports whether err is a malformed tenant reference.
func IsInvalidTenant(err error) bool {
	return hasTextCode(err, TextCodeInvalidTenant)
}

// IsTenantNotFound reports whether err marks an unresolvable tenant type.
func IsTenantNotFound(err error) bool {
	return hasTextCode(err, TextCodeTenantNotFound)
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == code
}
