package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/taskvault/go/internal/apperrors"
	"github.com/taskvault/go/internal/httputil"
	"github.com/taskvault/go/internal/logger"
)

// fallbackBody is written when even envelope serialization fails. The error
// handler is terminal and must produce a well-formed body no matter what.
const fallbackBody = `{"error":{"message":"Internal Server Error","code":"INTERNAL_SERVER_ERROR"}}`

// ErrorHandler is the single place that converts a failure into an HTTP
// response. Dispatch is three-way: typed AppError, legacy HTTPError, unknown.
// Operational failures log at warn, everything else at error with a stack.
type ErrorHandler struct {
	log         *logger.Logger
	development bool
}

// NewErrorHandler creates the terminal error handler. In development mode the
// messages of unrecognized errors are disclosed to the client; in production
// they are replaced with a generic message.
func NewErrorHandler(log *logger.Logger, env string) *ErrorHandler {
	return &ErrorHandler{
		log:         log,
		development: env == "development",
	}
}

// Handle translates err into the uniform error envelope and logs the
// occurrence. It consumes the error: nothing is retried or re-raised.
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	// The handler itself must never take the request down.
	defer func() {
		if rec := recover(); rec != nil {
			h.log.Error("error handler panicked", map[string]any{"panic": fmt.Sprint(rec)})
			h.writeRaw(w, http.StatusInternalServerError, []byte(fallbackBody))
		}
	}()

	var appErr *apperrors.AppError
	var httpErr *apperrors.HTTPError

	switch {
	case errors.As(err, &appErr):
		h.write(w, r, appErr.Status, appErr.Message, appErr.Code)

		metadata := map[string]any{
			"code":       appErr.Code,
			"status":     appErr.Status,
			"path":       r.URL.Path,
			"method":     r.Method,
			"request_id": RequestIDFromContext(r.Context()),
			"stack":      string(debug.Stack()),
		}
		if appErr.Operational {
			h.log.Warn(appErr.Message, metadata)
		} else {
			h.log.Error(appErr.Message, metadata)
		}

	case errors.As(err, &httpErr):
		h.write(w, r, httpErr.Status, httpErr.Message, "")

		h.log.Warn(httpErr.Message, map[string]any{
			"status":     httpErr.Status,
			"path":       r.URL.Path,
			"method":     r.Method,
			"request_id": RequestIDFromContext(r.Context()),
		})

	default:
		message := "Internal Server Error"
		if h.development {
			message = err.Error()
		}
		h.write(w, r, http.StatusInternalServerError, message, apperrors.CodeInternal)

		h.log.Error("unhandled error", map[string]any{
			"error":      err.Error(),
			"path":       r.URL.Path,
			"method":     r.Method,
			"request_id": RequestIDFromContext(r.Context()),
			"stack":      string(debug.Stack()),
		})
	}
}

func (h *ErrorHandler) write(w http.ResponseWriter, r *http.Request, status int, message, code string) {
	body := httputil.ErrorEnvelope{
		Error: httputil.ErrorDetail{
			Message:   message,
			Code:      code,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Path:      r.URL.Path,
			Method:    r.Method,
		},
	}

	buf, err := json.Marshal(body)
	if err != nil {
		h.writeRaw(w, http.StatusInternalServerError, []byte(fallbackBody))
		return
	}
	h.writeRaw(w, status, buf)
}

func (h *ErrorHandler) writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
