package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/taskvault/go/internal/apperrors"
	"github.com/taskvault/go/internal/auth"
)

// IdempotencyKeyHeader lets clients retry todo creation without duplicating
// state: the first request's response is stored and replayed for repeats.
const IdempotencyKeyHeader = "X-Idempotency-Key"

const idempotencyKeyPrefix = "idempotency:"

// processingMarker claims a key before the response is known.
const processingMarker = "processing"

// storedResponse is the JSON payload persisted in Redis per idempotency key.
type storedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// responseRecorder captures the response for idempotency storage
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func newResponseRecorder(w http.ResponseWriter) *responseRecorder {
	return &responseRecorder{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
		body:           &bytes.Buffer{},
	}
}

func (rr *responseRecorder) WriteHeader(code int) {
	rr.statusCode = code
	rr.ResponseWriter.WriteHeader(code)
}

func (rr *responseRecorder) Write(b []byte) (int, error) {
	rr.body.Write(b)
	return rr.ResponseWriter.Write(b)
}

// Idempotency handles idempotent requests. The key is claimed atomically in
// Redis so concurrent retries cannot both execute; a retry arriving after
// completion gets the stored response, one arriving mid-flight gets a
// Conflict. Redis being down degrades to normal (non-idempotent) processing.
func (m *Manager) Idempotency(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		idempotencyKey := r.Header.Get(IdempotencyKeyHeader)

		if m.redisClient == nil || idempotencyKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()

		// Scope the record to the caller: two users reusing the same header
		// value must never see each other's stored response.
		scope := ""
		if claims, ok := auth.ClaimsFromContext(ctx); ok {
			scope = claims.Subject + ":"
		}
		redisKey := idempotencyKeyPrefix + scope + idempotencyKey

		claimed, err := m.redisClient.SetNX(ctx, redisKey, processingMarker, m.idempotencyTTL).Result()
		if err != nil {
			m.log.Debug("idempotency claim failed", map[string]any{"error": err.Error()})
			next.ServeHTTP(w, r)
			return
		}

		if !claimed {
			data, err := m.redisClient.Get(ctx, redisKey).Bytes()
			if err == nil {
				var stored storedResponse
				if json.Unmarshal(data, &stored) == nil && stored.Status != 0 {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(stored.Status)
					_, _ = w.Write(stored.Body)
					return
				}
			}
			// Claimed but not yet stored: the first request is still running.
			m.errors.Handle(w, r, apperrors.ErrConflict.WithMessage("Request with this idempotency key is still being processed"))
			return
		}

		recorder := newResponseRecorder(w)
		next.ServeHTTP(recorder, r)

		// Store only well-formed JSON responses; anything else just loses
		// replay, it never fails the primary request.
		var probe any
		if json.Unmarshal(recorder.body.Bytes(), &probe) == nil {
			payload, err := json.Marshal(storedResponse{
				Status: recorder.statusCode,
				Body:   recorder.body.Bytes(),
			})
			if err == nil {
				m.redisClient.Set(context.Background(), redisKey, payload, m.idempotencyTTL)
			}
		}
	})
}
