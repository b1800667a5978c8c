package utils

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already used")
	ErrRecordNotFound     = errors.New("record not found")
	ErrDatabaseError      = errors.New("database error")
)

// EntitlementError is an access-gate failure carrying the stable
// machine-readable code that clients switch on.
type EntitlementError struct {
	Code    string
	Message string
}

func (e *EntitlementError) Error() string {
	return e.Message
}

var (
	ErrSubscriptionRequired = &EntitlementError{Code: "SUBSCRIPTION_REQUIRED", Message: "Subscription required"}
	ErrPlanRequired         = &EntitlementError{Code: "PLAN_REQUIRED", Message: "Plan selection required"}
	ErrSubscriptionInvalid  = &EntitlementError{Code: "SUBSCRIPTION_INVALID", Message: "Subscription expired or invalid"}
	ErrModulesRequired      = &EntitlementError{Code: "MODULES_REQUIRED", Message: "Modules selection required"}
	ErrSubModulesRequired   = &EntitlementError{Code: "SUBMODULES_REQUIRED", Message: "Sub-modules selection required"}
	ErrModuleNotEnabled     = &EntitlementError{Code: "MODULE_NOT_ENABLED", Message: "Module not enabled"}
	ErrSubModuleNotEnabled  = &EntitlementError{Code: "SUBMODULE_NOT_ENABLED", Message: "SubModule not enabled"}
	ErrSubModuleNotAllowed  = &EntitlementError{Code: "SUBMODULE_NOT_ALLOWED", Message: "SubModule not available"}
	ErrSubModuleRequired    = &EntitlementError{Code: "SUBMODULE_REQUIRED", Message: "A sub-module selection is required for this module"}
	ErrModuleRequiredForSub = &EntitlementError{Code: "MODULE_REQUIRED_FOR_SUBMODULE", Message: "Parent module must be selected too"}
)

// NewModuleNotFoundError lists the module keys that did not resolve to an
// active catalog row.
func NewModuleNotFoundError(keys []string) *EntitlementError {
	return &EntitlementError{
		Code:    "MODULE_NOT_FOUND",
		Message: fmt.Sprintf("Unknown module(s): %s", strings.Join(keys, ", ")),
	}
}
