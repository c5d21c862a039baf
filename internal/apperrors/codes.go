package apperrors

// Error codes used in API responses.
// These are the machine-readable codes returned in the "code" field of the
// error envelope. Clients branch on these, so they are stable.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_SERVER_ERROR"
	CodeDatabase     = "DATABASE_ERROR"
	CodeStorage      = "STORAGE_ERROR"
)
