package todos

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/taskvault/go/internal/apperrors"
	"github.com/taskvault/go/internal/auth"
	"github.com/taskvault/go/internal/httputil"
	"github.com/taskvault/go/internal/models"
	"github.com/taskvault/go/internal/validation"
)

// TodoStore is the persistence port for todos. Infrastructure failures come
// back as typed Database errors; an absent todo comes back as a nil result.
type TodoStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.Todo, error)
	Create(ctx context.Context, userID, task string) (*models.Todo, error)
	FindByID(ctx context.Context, id string) (*models.Todo, error)
	Update(ctx context.Context, id string, req *models.UpdateTodoRequest) (*models.Todo, error)
	Delete(ctx context.Context, id, userID string) (bool, error)
}

// Handler handles todo-related HTTP requests. Handlers return errors rather
// than writing error responses; the error handler owns the failure path.
type Handler struct {
	store TodoStore
}

// NewHandler creates a new todos handler
func NewHandler(store TodoStore) *Handler {
	return &Handler{store: store}
}

// List returns the caller's todos, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) error {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		return apperrors.ErrUnauthorized
	}

	todos, err := h.store.ListByUser(r.Context(), claims.Subject)
	if err != nil {
		return err
	}

	responses := make([]models.TodoResponse, 0, len(todos))
	for i := range todos {
		responses = append(responses, todos[i].ToResponse())
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"todos": responses})
	return nil
}

// Create adds a todo for the caller.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) error {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		return apperrors.ErrUnauthorized
	}

	var req models.CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperrors.ErrValidation.WithMessage("Invalid request body")
	}
	if err := validation.Validate(&req); err != nil {
		return apperrors.ErrValidation.WithMessage(err.Error())
	}

	todo, err := h.store.Create(r.Context(), claims.Subject, req.Task)
	if err != nil {
		return err
	}

	httputil.WriteJSON(w, http.StatusCreated, todo.ToResponse())
	return nil
}

// Update modifies a todo's task text or completion state. A todo owned by
// another user is reported as Forbidden, not silently absent, because the id
// was evidently known to the caller.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) error {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		return apperrors.ErrUnauthorized
	}

	id := r.PathValue("id")
	if id == "" {
		return apperrors.ErrValidation.WithMessage("Todo id is required")
	}

	var req models.UpdateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperrors.ErrValidation.WithMessage("Invalid request body")
	}
	if err := validation.Validate(&req); err != nil {
		return apperrors.ErrValidation.WithMessage(err.Error())
	}
	if req.Task == nil && req.Completed == nil {
		return apperrors.ErrValidation.WithMessage("Nothing to update")
	}

	existing, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperrors.ErrNotFound.WithMessage("Todo not found")
	}
	if existing.UserID != claims.Subject {
		return apperrors.ErrForbidden.WithMessage("Todo belongs to another user")
	}

	updated, err := h.store.Update(r.Context(), id, &req)
	if err != nil {
		return err
	}
	if updated == nil {
		return apperrors.ErrNotFound.WithMessage("Todo not found")
	}

	httputil.WriteJSON(w, http.StatusOK, updated.ToResponse())
	return nil
}

// Delete removes a todo. Absence and foreign ownership are deliberately
// indistinguishable in the response.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) error {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		return apperrors.ErrUnauthorized
	}

	id := r.PathValue("id")
	if id == "" {
		return apperrors.ErrValidation.WithMessage("Todo id is required")
	}

	deleted, err := h.store.Delete(r.Context(), id, claims.Subject)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.ErrNotFound.WithMessage("Todo not found or not owned by user")
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Todo deleted"})
	return nil
}
