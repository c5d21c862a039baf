package middleware

import (
	"net/http"
	"strings"

	"github.com/taskvault/go/internal/apperrors"
	"github.com/taskvault/go/internal/auth"
)

// Auth extracts the bearer credential from the Authorization header, verifies
// it with the identity provider, and attaches the resulting claims to the
// request context. Absence or invalidity short-circuits through the error
// handler with an Unauthorized error; provider error detail is logged, never
// returned to the caller. There is no retry and no cross-request caching.
func (m *Manager) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authorization := r.Header.Get("Authorization")
		if authorization == "" {
			m.errors.Handle(w, r, apperrors.ErrUnauthorized.WithMessage("Authorization header is required"))
			return
		}

		credential := strings.TrimPrefix(authorization, "Bearer ")

		claims, err := m.verifier.Verify(r.Context(), credential)
		if err != nil || claims == nil {
			metadata := map[string]any{
				"path":       r.URL.Path,
				"request_id": RequestIDFromContext(r.Context()),
			}
			if err != nil {
				metadata["error"] = err.Error()
			}
			m.log.Warn("token verification failed", metadata)

			m.errors.Handle(w, r, apperrors.ErrUnauthorized.WithMessage("Invalid or expired token"))
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
	})
}
