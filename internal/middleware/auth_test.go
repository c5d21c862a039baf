package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/taskvault/go/internal/auth"
	"github.com/taskvault/go/internal/logger"
)

type stubVerifier struct {
	claims *auth.Claims
	err    error
}

func (s *stubVerifier) Verify(ctx context.Context, credential string) (*auth.Claims, error) {
	return s.claims, s.err
}

func newAuthTestManager(t *testing.T, verifier auth.TokenVerifier) *Manager {
	t.Helper()
	log := logger.New("production", t.TempDir())
	return NewManager(verifier, NewErrorHandler(log, "production"), log, nil, 0)
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	m := newAuthTestManager(t, &stubVerifier{})

	nextCalled := false
	handler := m.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, r)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
	if nextCalled {
		t.Error("next handler invoked without credentials")
	}
	envelope := decodeEnvelope(t, rr)
	if envelope.Error.Code != "UNAUTHORIZED" {
		t.Errorf("code = %q, want UNAUTHORIZED", envelope.Error.Code)
	}
	if envelope.Error.Message != "Authorization header is required" {
		t.Errorf("message = %q", envelope.Error.Message)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	m := newAuthTestManager(t, &stubVerifier{err: errors.New("signature is invalid")})

	nextCalled := false
	handler := m.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	r.Header.Set("Authorization", "Bearer bad-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, r)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
	if nextCalled {
		t.Error("next handler invoked with an invalid token")
	}
	envelope := decodeEnvelope(t, rr)
	if envelope.Error.Message != "Invalid or expired token" {
		t.Errorf("message = %q", envelope.Error.Message)
	}
	// Provider detail stays in the logs.
	if envelope.Error.Message == "signature is invalid" {
		t.Error("provider error leaked to the client")
	}
}

func TestAuthAttachesClaimsToContext(t *testing.T) {
	want := &auth.Claims{Email: "user@example.com"}
	want.Subject = "user-123"
	m := newAuthTestManager(t, &stubVerifier{claims: want})

	var got *auth.Claims
	handler := m.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	r.Header.Set("Authorization", "Bearer good-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, r)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if got == nil || got.Subject != "user-123" {
		t.Errorf("claims in context = %+v, want subject user-123", got)
	}
}
