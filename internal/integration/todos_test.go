package integration

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskvault/go/internal/models"
)

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	t.Parallel()

	client := NewTestClient(t)

	resp := client.RequestNoAuth(http.MethodGet, "/api/todos")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	envelope := ParseResponse[errorEnvelope](t, resp)
	assert.Equal(t, "UNAUTHORIZED", envelope.Error.Code)
	assert.Equal(t, "Authorization header is required", envelope.Error.Message)
	assert.Equal(t, "/api/todos", envelope.Error.Path)
	assert.Equal(t, http.MethodGet, envelope.Error.Method)
	_, err := time.Parse(time.RFC3339, envelope.Error.Timestamp)
	assert.NoError(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	t.Parallel()

	client := NewTestClient(t)
	client.authToken = "not-a-real-token"

	resp := client.GET("/api/todos")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	envelope := ParseResponse[errorEnvelope](t, resp)
	assert.Equal(t, "Invalid or expired token", envelope.Error.Message)
}

func TestCreateAndListTodos(t *testing.T) {
	t.Parallel()

	client := NewTestClient(t)

	resp := client.POST("/api/todos", map[string]string{"task": "buy milk"})
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := ParseResponse[models.TodoResponse](t, resp)
	assert.Equal(t, "buy milk", created.Task)
	assert.False(t, created.Completed)
	assert.NotEmpty(t, created.ID)
	assert.WithinDuration(t, time.Now(), created.CreatedAt, time.Minute)

	// Ensure a distinct createdAt for the ordering assertion below.
	time.Sleep(5 * time.Millisecond)
	client.CreateTodo("walk dog")

	listResp := client.GET("/api/todos")
	defer listResp.Body.Close()

	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var list struct {
		Todos []models.TodoResponse `json:"todos"`
	}
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&list))
	require.Len(t, list.Todos, 2)
	// Newest first
	assert.Equal(t, "walk dog", list.Todos[0].Task)
	assert.Equal(t, "buy milk", list.Todos[1].Task)
}

func TestCreateTodo_Validation(t *testing.T) {
	t.Parallel()

	client := NewTestClient(t)

	resp := client.POST("/api/todos", map[string]string{"task": ""})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	envelope := ParseResponse[errorEnvelope](t, resp)
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
}

func TestUpdateTodo(t *testing.T) {
	t.Parallel()

	client := NewTestClient(t)
	id := client.CreateTodo("buy milk")

	resp := client.PUT("/api/todos/"+id, map[string]any{"completed": true})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	updated := ParseResponse[models.TodoResponse](t, resp)
	assert.True(t, updated.Completed)
	assert.Equal(t, "buy milk", updated.Task)
}

func TestUpdateTodo_OtherUsersTodoForbidden(t *testing.T) {
	t.Parallel()

	owner := NewTestClient(t)
	id := owner.CreateTodo("private task")

	intruder := owner.AsUser("user-intruder")
	resp := intruder.PUT("/api/todos/"+id, map[string]any{"completed": true})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	envelope := ParseResponse[errorEnvelope](t, resp)
	assert.Equal(t, "FORBIDDEN", envelope.Error.Code)
	assert.Equal(t, "Todo belongs to another user", envelope.Error.Message)
}

func TestDeleteTodo(t *testing.T) {
	t.Parallel()

	client := NewTestClient(t)
	id := client.CreateTodo("buy milk")

	resp := client.DELETE("/api/todos/" + id)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Todo deleted", body.Message)

	// Deleting again reports absence
	resp2 := client.DELETE("/api/todos/" + id)
	defer resp2.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)

	envelope := ParseResponse[errorEnvelope](t, resp2)
	assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
	assert.Equal(t, "Todo not found or not owned by user", envelope.Error.Message)
}

func TestDeleteTodo_OtherUsersTodoLooksAbsent(t *testing.T) {
	t.Parallel()

	owner := NewTestClient(t)
	id := owner.CreateTodo("private task")

	intruder := owner.AsUser("user-intruder")
	resp := intruder.DELETE("/api/todos/" + id)
	defer resp.Body.Close()

	// Indistinguishable from a missing todo
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// The todo survives
	listResp := owner.GET("/api/todos")
	defer listResp.Body.Close()

	var list struct {
		Todos []models.TodoResponse `json:"todos"`
	}
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&list))
	assert.Len(t, list.Todos, 1)
}

func TestListIsScopedToCaller(t *testing.T) {
	t.Parallel()

	alice := NewTestClient(t)
	alice.CreateTodo("alice task")

	bob := alice.AsUser("user-bob")
	bob.CreateTodo("bob task")

	resp := bob.GET("/api/todos")
	defer resp.Body.Close()

	var list struct {
		Todos []models.TodoResponse `json:"todos"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list.Todos, 1)
	assert.Equal(t, "bob task", list.Todos[0].Task)
}

// =============================================================================
// Idempotency Tests
// =============================================================================

func TestIdempotency_SameKeyReturnsCachedResponse(t *testing.T) {
	t.Parallel()

	client := NewTestClient(t)

	idempotencyKey := uuid.New().String()
	headers := map[string]string{"X-Idempotency-Key": idempotencyKey}
	req := map[string]string{"task": "buy milk"}

	// First request
	resp1 := client.POSTWithHeaders("/api/todos", req, headers)
	body1, _ := json.Marshal(ParseResponse[any](t, resp1))
	resp1.Body.Close()

	require.Equal(t, http.StatusCreated, resp1.StatusCode)

	// Second request with same idempotency key - should return cached
	resp2 := client.POSTWithHeaders("/api/todos", req, headers)
	body2, _ := json.Marshal(ParseResponse[any](t, resp2))
	resp2.Body.Close()

	assert.Equal(t, http.StatusCreated, resp2.StatusCode)
	assert.JSONEq(t, string(body1), string(body2))

	// Only one todo was actually created
	listResp := client.GET("/api/todos")
	defer listResp.Body.Close()

	var list struct {
		Todos []models.TodoResponse `json:"todos"`
	}
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&list))
	assert.Len(t, list.Todos, 1)
}

func TestIdempotency_DifferentKeysCreateSeparateTodos(t *testing.T) {
	t.Parallel()

	client := NewTestClient(t)
	req := map[string]string{"task": "buy milk"}

	for i := 0; i < 2; i++ {
		resp := client.POSTWithHeaders("/api/todos", req, map[string]string{
			"X-Idempotency-Key": uuid.New().String(),
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	listResp := client.GET("/api/todos")
	defer listResp.Body.Close()

	var list struct {
		Todos []models.TodoResponse `json:"todos"`
	}
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&list))
	assert.Len(t, list.Todos, 2)
}

func TestIdempotency_KeysAreScopedPerUser(t *testing.T) {
	t.Parallel()

	alice := NewTestClient(t)
	bob := alice.AsUser("user-bob")

	// Same header value from two different users must not share a record.
	headers := map[string]string{"X-Idempotency-Key": uuid.New().String()}

	respA := alice.POSTWithHeaders("/api/todos", map[string]string{"task": "alice task"}, headers)
	require.Equal(t, http.StatusCreated, respA.StatusCode)
	createdA := ParseResponse[models.TodoResponse](t, respA)
	respA.Body.Close()

	respB := bob.POSTWithHeaders("/api/todos", map[string]string{"task": "bob task"}, headers)
	require.Equal(t, http.StatusCreated, respB.StatusCode)
	createdB := ParseResponse[models.TodoResponse](t, respB)
	respB.Body.Close()

	// Bob got his own todo, not a replay of Alice's.
	assert.Equal(t, "bob task", createdB.Task)
	assert.NotEqual(t, createdA.ID, createdB.ID)

	for _, c := range []*TestClient{alice, bob} {
		listResp := c.GET("/api/todos")
		var list struct {
			Todos []models.TodoResponse `json:"todos"`
		}
		require.NoError(t, json.NewDecoder(listResp.Body).Decode(&list))
		listResp.Body.Close()
		assert.Len(t, list.Todos, 1)
	}
}

func TestHealthEndpointNeedsNoAuth(t *testing.T) {
	t.Parallel()

	client := NewTestClient(t)

	resp := client.RequestNoAuth(http.MethodGet, "/health")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
