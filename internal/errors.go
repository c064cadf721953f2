package internal

import (
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation      ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound        ErrorType = "NOT_FOUND"
	ErrorTypeConflict        ErrorType = "CONFLICT"
	ErrorTypeUnauthenticated ErrorType = "UNAUTHENTICATED"
	ErrorTypeForbidden       ErrorType = "FORBIDDEN"
	ErrorTypePersistence     ErrorType = "PERSISTENCE_FAILURE"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeUserNotFound      ErrorCode = "USER_NOT_FOUND"
	ErrCodeUsernameTaken     ErrorCode = "USERNAME_TAKEN"
	ErrCodeEmailTaken        ErrorCode = "EMAIL_TAKEN"
	ErrCodeCannotDeleteSelf  ErrorCode = "CANNOT_DELETE_SELF"
	ErrCodeWrongOldPassword  ErrorCode = "WRONG_OLD_PASSWORD"
	ErrCodeInvalidCredential ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive      ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken      ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired      ErrorCode = "TOKEN_EXPIRED"
	ErrCodeAuthFailure       ErrorCode = "AUTH_FAILURE"
	ErrCodeNoPermission      ErrorCode = "INSUFFICIENT_PERMISSION"

	ErrCodeRoleNotFound ErrorCode = "ROLE_NOT_FOUND"
	ErrCodeRoleNameUsed ErrorCode = "ROLE_NAME_TAKEN"
	ErrCodeRoleInUse    ErrorCode = "ROLE_IN_USE"

	ErrCodeMenuNotFound   ErrorCode = "MENU_NOT_FOUND"
	ErrCodeParentNotFound ErrorCode = "PARENT_NOT_FOUND"
	ErrCodeCyclicParent   ErrorCode = "CYCLIC_PARENT"
	ErrCodeHasChildren    ErrorCode = "HAS_CHILDREN"

	ErrCodeDeptNotFound ErrorCode = "DEPARTMENT_NOT_FOUND"
	ErrCodeDeptInUse    ErrorCode = "DEPARTMENT_IN_USE"

	ErrCodeConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"

	ErrCodeEmployeeNotFound  ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodeEmployeeNumberDup ErrorCode = "EMPLOYEE_NUMBER_TAKEN"
	ErrCodeRecordNotFound    ErrorCode = "RECORD_NOT_FOUND"
	ErrCodeDuplicateRecord   ErrorCode = "DUPLICATE_RECORD"
	ErrCodeInvalidTransition ErrorCode = "INVALID_STATUS_TRANSITION"
)

// AppError is the single error shape crossing service boundaries. Handlers
// map it onto the wire envelope via its StatusCode.
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewConflictError reports uniqueness and state-precondition violations.
// These surface as 400 on the wire; the admin front-end treats anything in
// the 4xx-conflict family as a user-correctable business rule violation.
func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewUnauthenticatedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthenticated,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewPersistenceError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypePersistence,
		Code:       "PERSISTENCE_FAILURE",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrInvalidCredentials = NewUnauthenticatedError("invalid username or password", ErrCodeInvalidCredential)
	ErrUserInactive       = NewUnauthenticatedError("user does not exist or is disabled", ErrCodeUserInactive)
	ErrInvalidToken       = NewUnauthenticatedError("invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthenticatedError("token has expired", ErrCodeTokenExpired)
	ErrMissingToken       = NewUnauthenticatedError("authentication token required", ErrCodeInvalidToken)
	ErrNoPermission       = NewForbiddenError("insufficient permission", ErrCodeNoPermission)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}
