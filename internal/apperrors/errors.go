package apperrors

import "net/http"

// AppError is the application's failure vocabulary: an HTTP status, a stable
// machine-readable code, and an operational flag. Operational errors are
// expected user-facing conditions (bad input, missing auth, missing resource);
// non-operational ones indicate a defect or an infrastructure fault.
//
// The (Status, Code, Operational) triple is fixed per kind and never mutated
// per instance; only Message varies. Raise the narrowest applicable kind
// instead of a generic failure.
type AppError struct {
	Message     string
	Status      int
	Code        string
	Operational bool
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// WithMessage returns a copy of the AppError with a custom message.
// The receiver is never modified, so the package-level base values stay
// pristine no matter how call sites decorate them.
func (e *AppError) WithMessage(message string) *AppError {
	cp := *e
	cp.Message = message
	return &cp
}

// The closed set of error kinds. Construct occurrences with WithMessage, or
// return the base value directly to use the default message.
var (
	ErrValidation = &AppError{
		Message:     MsgValidation,
		Status:      http.StatusBadRequest,
		Code:        CodeValidation,
		Operational: true,
	}
	ErrUnauthorized = &AppError{
		Message:     MsgUnauthorized,
		Status:      http.StatusUnauthorized,
		Code:        CodeUnauthorized,
		Operational: true,
	}
	ErrForbidden = &AppError{
		Message:     MsgForbidden,
		Status:      http.StatusForbidden,
		Code:        CodeForbidden,
		Operational: true,
	}
	ErrNotFound = &AppError{
		Message:     MsgNotFound,
		Status:      http.StatusNotFound,
		Code:        CodeNotFound,
		Operational: true,
	}
	ErrConflict = &AppError{
		Message:     MsgConflict,
		Status:      http.StatusConflict,
		Code:        CodeConflict,
		Operational: true,
	}
	ErrInternal = &AppError{
		Message:     MsgInternal,
		Status:      http.StatusInternalServerError,
		Code:        CodeInternal,
		Operational: false,
	}
	ErrDatabase = &AppError{
		Message:     MsgDatabase,
		Status:      http.StatusInternalServerError,
		Code:        CodeDatabase,
		Operational: false,
	}
	ErrStorage = &AppError{
		Message:     MsgStorage,
		Status:      http.StatusInternalServerError,
		Code:        CodeStorage,
		Operational: false,
	}
)

// HTTPError is the legacy error shape: a bare status and message with no code
// and no operational flag. Still produced by a few older call sites; the error
// handler translates it without a "code" field and always logs it at warn.
type HTTPError struct {
	Status  int
	Message string
}

// NewHTTPError creates a legacy HTTP error.
func NewHTTPError(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Message: message}
}

// Error implements the error interface.
func (e *HTTPError) Error() string { return e.Message }
