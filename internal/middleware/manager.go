package middleware

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taskvault/go/internal/auth"
	"github.com/taskvault/go/internal/logger"
)

// Manager bundles the middlewares that need shared collaborators: the token
// verifier, the error handler, the logger, and the Redis client backing
// idempotent request replay. One instance serves all requests; none of its
// fields are mutated after construction.
type Manager struct {
	verifier       auth.TokenVerifier
	errors         *ErrorHandler
	log            *logger.Logger
	redisClient    *redis.Client
	idempotencyTTL time.Duration
}

// NewManager creates a middleware manager. A nil redisClient disables
// idempotent replay; everything else still works.
func NewManager(verifier auth.TokenVerifier, errors *ErrorHandler, log *logger.Logger, redisClient *redis.Client, idempotencyTTL time.Duration) *Manager {
	return &Manager{
		verifier:       verifier,
		errors:         errors,
		log:            log,
		redisClient:    redisClient,
		idempotencyTTL: idempotencyTTL,
	}
}
