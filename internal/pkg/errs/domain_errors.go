package errs

import "errors"

// Domain-specific sentinel errors for CQRS usecase layers
var (
	// Pricing rule errors
	ErrRuleNotFound      = errors.New("pricing rule not found")
	ErrDuplicateRuleName = errors.New("pricing rule name already exists")
	ErrInvalidRule       = errors.New("invalid pricing rule")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
