// Package businessflow contains the core business logic and use cases for CRM workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// User-related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrIncorrectPassword  = errors.New("incorrect password")
	ErrEmailAlreadyExists = errors.New("email already exists")

	// Session-related errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
	ErrSessionInvalid  = errors.New("session is no longer valid")

	// Campaign-related errors
	ErrCampaignNotFound     = errors.New("campaign not found")
	ErrCampaignNameRequired = errors.New("campaign name is required")

	// Property-related errors
	ErrPropertyNotFound = errors.New("property not found")

	// Lead-related errors
	ErrLeadNotFound = errors.New("lead not found")

	// Deal-related errors
	ErrDealNotFound      = errors.New("deal not found")
	ErrMilestoneNotFound = errors.New("milestone not found")

	// Role-related errors
	ErrRoleNotFound       = errors.New("role not found")
	ErrRoleNameTaken      = errors.New("role name already exists")
	ErrSystemRoleReadOnly = errors.New("system roles cannot be modified")
	ErrRoleInUse          = errors.New("role is assigned to users")

	// Coercion errors
	ErrInvalidNumericValue = errors.New("invalid numeric value")
	ErrInvalidTimestamp    = errors.New("invalid timestamp value")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")

	ErrCacheNotAvailable = errors.New("cache not available")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsEmailAlreadyExists(err error) bool {
	return errors.Is(err, ErrEmailAlreadyExists)
}

func IsSessionNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound)
}

func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}

func IsSessionInvalid(err error) bool {
	return errors.Is(err, ErrSessionInvalid)
}

func IsCampaignNotFound(err error) bool {
	return errors.Is(err, ErrCampaignNotFound)
}

func IsCampaignNameRequired(err error) bool {
	return errors.Is(err, ErrCampaignNameRequired)
}

func IsPropertyNotFound(err error) bool {
	return errors.Is(err, ErrPropertyNotFound)
}

func IsLeadNotFound(err error) bool {
	return errors.Is(err, ErrLeadNotFound)
}

func IsDealNotFound(err error) bool {
	return errors.Is(err, ErrDealNotFound)
}

func IsMilestoneNotFound(err error) bool {
	return errors.Is(err, ErrMilestoneNotFound)
}

func IsRoleNotFound(err error) bool {
	return errors.Is(err, ErrRoleNotFound)
}

func IsRoleNameTaken(err error) bool {
	return errors.Is(err, ErrRoleNameTaken)
}

func IsSystemRoleReadOnly(err error) bool {
	return errors.Is(err, ErrSystemRoleReadOnly)
}

func IsRoleInUse(err error) bool {
	return errors.Is(err, ErrRoleInUse)
}

func IsInvalidNumericValue(err error) bool {
	return errors.Is(err, ErrInvalidNumericValue)
}

func IsInvalidTimestamp(err error) bool {
	return errors.Is(err, ErrInvalidTimestamp)
}

func IsCacheNotAvailable(err error) bool {
	return errors.Is(err, ErrCacheNotAvailable)
}
