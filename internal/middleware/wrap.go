package middleware

import (
	"fmt"
	"net/http"
)

// HandlerFunc is a route handler that reports failure by returning an error
// instead of writing an error response itself. Success paths write their own
// response and return nil.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// Wrap adapts a HandlerFunc into an http.Handler whose failures are guaranteed
// to reach the error handler: a returned error is forwarded, and a panic is
// recovered and forwarded instead of killing the connection. Every route
// handler must be registered through Wrap; an unwrapped handler is a latent
// crash on its first failure.
func (h *ErrorHandler) Wrap(fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("panic: %v", rec)
				}
				h.Handle(w, r, err)
			}
		}()

		if err := fn(w, r); err != nil {
			h.Handle(w, r, err)
		}
	})
}
