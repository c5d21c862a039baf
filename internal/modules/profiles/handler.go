package profiles

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/taskvault/go/internal/apperrors"
	"github.com/taskvault/go/internal/auth"
	"github.com/taskvault/go/internal/httputil"
	"github.com/taskvault/go/internal/models"
	"github.com/taskvault/go/internal/validation"
)

// maxAvatarBytes caps avatar uploads at 5 MiB.
const maxAvatarBytes = 5 << 20

// ProfileStore is the persistence port for profiles.
type ProfileStore interface {
	GetOrCreate(ctx context.Context, userID string) (*models.Profile, error)
	Update(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.Profile, error)
}

// BlobStore is the avatar blob port. Failures come back as typed Storage
// errors; an absent blob comes back as a nil result.
type BlobStore interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
	Get(ctx context.Context, id string) ([]byte, error)
	Remove(ctx context.Context, id string) error
}

// avatarURLPrefix prefixes every served avatar URL; the blob id follows it.
const avatarURLPrefix = "/api/profile/avatar/"

// Handler handles profile-related HTTP requests
type Handler struct {
	profiles ProfileStore
	avatars  BlobStore
}

// NewHandler creates a new profiles handler
func NewHandler(profiles ProfileStore, avatars BlobStore) *Handler {
	return &Handler{profiles: profiles, avatars: avatars}
}

// Get returns the caller's profile, creating an empty one on first access.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) error {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		return apperrors.ErrUnauthorized
	}

	profile, err := h.profiles.GetOrCreate(r.Context(), claims.Subject)
	if err != nil {
		return err
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
	return nil
}

// Update modifies the caller's display name or avatar URL.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) error {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		return apperrors.ErrUnauthorized
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperrors.ErrValidation.WithMessage("Invalid request body")
	}
	if err := validation.Validate(&req); err != nil {
		return apperrors.ErrValidation.WithMessage(err.Error())
	}

	profile, err := h.profiles.Update(r.Context(), claims.Subject, &req)
	if err != nil {
		return err
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
	return nil
}

// UploadAvatar stores the raw request body as the caller's avatar, points the
// profile at it, and removes the superseded blob if there was one.
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) error {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		return apperrors.ErrUnauthorized
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxAvatarBytes))
	if err != nil {
		return apperrors.ErrValidation.WithMessage("Avatar payload too large or unreadable")
	}
	if len(data) == 0 {
		return apperrors.ErrValidation.WithMessage("Avatar payload is required")
	}

	existing, err := h.profiles.GetOrCreate(r.Context(), claims.Subject)
	if err != nil {
		return err
	}

	id, err := h.avatars.Put(r.Context(), claims.Subject, data)
	if err != nil {
		return err
	}

	avatarURL := avatarURLPrefix + id
	if _, err := h.profiles.Update(r.Context(), claims.Subject, &models.UpdateProfileRequest{AvatarURL: &avatarURL}); err != nil {
		return err
	}

	// The profile no longer references the old blob; a failed removal only
	// leaks storage, so it does not fail the upload.
	if oldID, found := strings.CutPrefix(existing.AvatarURL, avatarURLPrefix); found && oldID != "" {
		_ = h.avatars.Remove(r.Context(), oldID)
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"avatarUrl": avatarURL})
	return nil
}

// GetAvatar streams a stored avatar blob.
func (h *Handler) GetAvatar(w http.ResponseWriter, r *http.Request) error {
	id := r.PathValue("id")
	if id == "" {
		return apperrors.ErrValidation.WithMessage("Avatar id is required")
	}

	data, err := h.avatars.Get(r.Context(), id)
	if err != nil {
		return err
	}
	if data == nil {
		return apperrors.ErrNotFound.WithMessage("Avatar not found")
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(data)
	return nil
}
