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

// Profile holds a user's display settings. One profile per subject.
type Profile struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID      string             `bson:"userId" json:"userId"`
	DisplayName string             `bson:"displayName" json:"displayName"`
	AvatarURL   string             `bson:"avatarUrl" json:"avatarUrl"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UpdateProfileRequest is the update-profile request body.
type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName" validate:"omitempty,max=100"`
	AvatarURL   *string `json:"avatarUrl" validate:"omitempty,max=500"`
}

// ProfileRepository persists profiles in MongoDB.
type ProfileRepository struct {
	collection *mongo.Collection
}

// NewProfileRepository creates a profile repository
func NewProfileRepository(m *db.Mongo) *ProfileRepository {
	return &ProfileRepository{collection: m.Collection("profiles")}
}

// EnsureIndexes creates necessary indexes for the profiles collection
func (r *ProfileRepository) EnsureIndexes(ctx context.Context) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, err := r.collection.Indexes().CreateOne(ctx, indexModel)
	return err
}

// GetOrCreate returns the user's profile, creating an empty one on first read.
func (r *ProfileRepository) GetOrCreate(ctx context.Context, userID string) (*Profile, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$setOnInsert": bson.M{
			"userId":      userID,
			"displayName": "",
			"avatarUrl":   "",
			"createdAt":   now,
			"updatedAt":   now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var profile Profile
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"userId": userID}, update, opts).Decode(&profile)
	if err != nil {
		return nil, apperrors.ErrDatabase.WithMessage("Failed to load profile")
	}
	return &profile, nil
}

// Update applies the non-nil fields of req and returns the updated profile.
func (r *ProfileRepository) Update(ctx context.Context, userID string, req *UpdateProfileRequest) (*Profile, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if req.DisplayName != nil {
		set["displayName"] = *req.DisplayName
	}
	if req.AvatarURL != nil {
		set["avatarUrl"] = *req.AvatarURL
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"createdAt": time.Now().UTC()},
	}
	var profile Profile
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"userId": userID}, update, opts).Decode(&profile)
	if err != nil {
		return nil, apperrors.ErrDatabase.WithMessage("Failed to update profile")
	}
	return &profile, nil
}
