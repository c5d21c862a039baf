package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskvault/go/internal/apperrors"
	"github.com/taskvault/go/internal/db"
)

// Todo is a single todo item owned by one user.
type Todo struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID    string             `bson:"userId" json:"userId"`
	Task      string             `bson:"task" json:"task"`
	Completed bool               `bson:"completed" json:"completed"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// TodoResponse is the wire shape of a todo.
type TodoResponse struct {
	ID        string    `json:"id"`
	Task      string    `json:"task"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToResponse converts a Todo to its wire shape.
func (t *Todo) ToResponse() TodoResponse {
	return TodoResponse{
		ID:        t.ID.Hex(),
		Task:      t.Task,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// CreateTodoRequest is the create-todo request body.
type CreateTodoRequest struct {
	Task string `json:"task" validate:"required,min=1,max=500"`
}

// UpdateTodoRequest is the update-todo request body. Nil fields are left
// untouched.
type UpdateTodoRequest struct {
	Task      *string `json:"task" validate:"omitempty,min=1,max=500"`
	Completed *bool   `json:"completed"`
}

// TodoRepository persists todos in MongoDB. Infrastructure failures surface
// as typed Database errors; "no such document" surfaces as a nil result.
type TodoRepository struct {
	collection *mongo.Collection
}

// NewTodoRepository creates a todo repository
func NewTodoRepository(m *db.Mongo) *TodoRepository {
	return &TodoRepository{collection: m.Collection("todos")}
}

// EnsureIndexes creates necessary indexes for the todos collection
func (r *TodoRepository) EnsureIndexes(ctx context.Context) error {
	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	}
	_, err := r.collection.Indexes().CreateOne(ctx, indexModel)
	return err
}

// ListByUser returns the user's todos, newest first.
func (r *TodoRepository) ListByUser(ctx context.Context, userID string) ([]Todo, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, apperrors.ErrDatabase.WithMessage("Failed to list todos")
	}
	defer cursor.Close(ctx)

	todos := []Todo{}
	if err := cursor.All(ctx, &todos); err != nil {
		return nil, apperrors.ErrDatabase.WithMessage("Failed to decode todos")
	}
	return todos, nil
}

// Create inserts a new todo for the user.
func (r *TodoRepository) Create(ctx context.Context, userID, task string) (*Todo, error) {
	now := time.Now().UTC()
	todo := &Todo{
		UserID:    userID,
		Task:      task,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := r.collection.InsertOne(ctx, todo)
	if err != nil {
		return nil, apperrors.ErrDatabase.WithMessage("Failed to create todo")
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, apperrors.ErrDatabase.WithMessage("Failed to read inserted todo id")
	}
	todo.ID = oid
	return todo, nil
}

// FindByID returns the todo with the given hex id, or nil when it does not
// exist. A malformed id is treated as absent, not as a failure.
func (r *TodoRepository) FindByID(ctx context.Context, id string) (*Todo, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var todo Todo
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&todo)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, apperrors.ErrDatabase.WithMessage("Failed to find todo")
	}
	return &todo, nil
}

// Update applies the non-nil fields of req and returns the updated todo, or
// nil when the todo does not exist.
func (r *TodoRepository) Update(ctx context.Context, id string, req *UpdateTodoRequest) (*Todo, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if req.Task != nil {
		set["task"] = *req.Task
	}
	if req.Completed != nil {
		set["completed"] = *req.Completed
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var todo Todo
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&todo)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, apperrors.ErrDatabase.WithMessage("Failed to update todo")
	}
	return &todo, nil
}

// Delete removes the todo if it exists and belongs to the user. Returns false
// when nothing matched; the caller cannot tell absence and foreign ownership
// apart, which keeps ids unguessable.
func (r *TodoRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid, "userId": userID})
	if err != nil {
		return false, apperrors.ErrDatabase.WithMessage("Failed to delete todo")
	}
	return result.DeletedCount > 0, nil
}
