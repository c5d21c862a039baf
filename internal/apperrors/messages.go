package apperrors

// Default messages for each error kind. Call sites usually replace these with
// something more specific via WithMessage; the defaults are what a client sees
// when nobody bothered.
const (
	MsgValidation   = "Validation failed"
	MsgUnauthorized = "Unauthorized"
	MsgForbidden    = "Forbidden"
	MsgNotFound     = "Resource not found"
	MsgConflict     = "Resource conflict"
	MsgInternal     = "Internal server error"
	MsgDatabase     = "Database operation failed"
	MsgStorage      = "Storage operation failed"
)
