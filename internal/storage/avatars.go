// Package storage holds the blob store for user avatars, backed by MongoDB
// GridFS. Failures surface as typed Storage errors so the error handler logs
// them as infrastructure faults, not user mistakes.
package storage

import (
	"bytes"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskvault/go/internal/apperrors"
	"github.com/taskvault/go/internal/db"
)

// AvatarStore stores avatar images in a dedicated GridFS bucket. The v1
// gridfs API takes no context, so the context parameters below exist for
// interface symmetry only.
type AvatarStore struct {
	bucket *gridfs.Bucket
}

// NewAvatarStore creates the avatars bucket on the given database.
func NewAvatarStore(m *db.Mongo) (*AvatarStore, error) {
	bucket, err := gridfs.NewBucket(m.Database, options.GridFSBucket().SetName("avatars"))
	if err != nil {
		return nil, err
	}
	return &AvatarStore{bucket: bucket}, nil
}

// Put stores the avatar bytes under the given filename and returns the blob's
// hex id.
func (s *AvatarStore) Put(ctx context.Context, name string, data []byte) (string, error) {
	id, err := s.bucket.UploadFromStream(name, bytes.NewReader(data))
	if err != nil {
		return "", apperrors.ErrStorage.WithMessage("Failed to store avatar")
	}
	return id.Hex(), nil
}

// Get returns the avatar bytes for the given hex id, or nil when no such blob
// exists. A malformed id is treated as absent.
func (s *AvatarStore) Get(ctx context.Context, id string) ([]byte, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var buf bytes.Buffer
	if _, err := s.bucket.DownloadToStream(oid, &buf); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, nil
		}
		return nil, apperrors.ErrStorage.WithMessage("Failed to read avatar")
	}
	return buf.Bytes(), nil
}

// Remove deletes the avatar blob with the given hex id. Deleting an absent
// blob is not a failure.
func (s *AvatarStore) Remove(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	if err := s.bucket.Delete(oid); err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
		return apperrors.ErrStorage.WithMessage("Failed to delete avatar")
	}
	return nil
}
