// taskvault API
//
// A todo-list backend for the taskvault mobile/web client. Exposes
// bearer-token-authenticated CRUD for todos and profiles, with a uniform JSON
// error envelope on every failure path.
package main

import (
	"context"
	"net/http"
	"time"

	"github.com/taskvault/go/internal/auth"
	"github.com/taskvault/go/internal/config"
	"github.com/taskvault/go/internal/db"
	"github.com/taskvault/go/internal/logger"
	"github.com/taskvault/go/internal/middleware"
	"github.com/taskvault/go/internal/models"
	"github.com/taskvault/go/internal/modules/profiles"
	"github.com/taskvault/go/internal/modules/todos"
	"github.com/taskvault/go/internal/router"
	"github.com/taskvault/go/internal/server"
	"github.com/taskvault/go/internal/storage"
	"github.com/taskvault/go/internal/telemetry"
)

// databases holds database connections
type databases struct {
	mongo *db.Mongo
	redis *db.Redis
}

// repositories holds all repository instances
type repositories struct {
	todo    *models.TodoRepository
	profile *models.ProfileRepository
	avatars *storage.AvatarStore
}

func main() {
	cfg := config.Load()

	log := logger.New(cfg.Environment, cfg.LogDir)
	defer log.Sync()

	shutdownTracing, err := telemetry.InitTracer(cfg.OTELExporterEndpoint)
	if err != nil {
		log.Fatal("Failed to initialize tracer", map[string]any{"error": err.Error()})
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	dbs := setupDatabases(cfg, log)
	defer dbs.mongo.Disconnect()
	defer dbs.redis.Disconnect()

	repos := setupRepositories(dbs.mongo, log)

	handler := setupApp(cfg, log, repos, dbs.redis)

	srv := server.New(handler, cfg.Port, log)
	srv.ListenAndServeWithGracefulShutdown()
}

// setupDatabases establishes connections to MongoDB and Redis.
// Fatals on connection failure.
func setupDatabases(cfg *config.Config, log *logger.Logger) *databases {
	mongoDB, err := db.ConnectMongo(cfg.MongoDBURI, log)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", map[string]any{"error": err.Error()})
	}

	redisDB, err := db.ConnectRedis(cfg.RedisURI, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", map[string]any{"error": err.Error()})
	}

	return &databases{
		mongo: mongoDB,
		redis: redisDB,
	}
}

// setupRepositories creates all repository instances and ensures database
// indexes. Fatals on index creation failure.
func setupRepositories(mongoDB *db.Mongo, log *logger.Logger) *repositories {
	todoRepo := models.NewTodoRepository(mongoDB)
	profileRepo := models.NewProfileRepository(mongoDB)

	avatarStore, err := storage.NewAvatarStore(mongoDB)
	if err != nil {
		log.Fatal("Failed to create avatar store", map[string]any{"error": err.Error()})
	}

	ctx := context.Background()

	if err := todoRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal("Failed to ensure todo indexes", map[string]any{"error": err.Error()})
	}
	if err := profileRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal("Failed to ensure profile indexes", map[string]any{"error": err.Error()})
	}

	return &repositories{
		todo:    todoRepo,
		profile: profileRepo,
		avatars: avatarStore,
	}
}

// setupApp initializes handlers, middleware, and the HTTP router.
// Returns the fully configured HTTP handler ready to serve requests.
func setupApp(cfg *config.Config, log *logger.Logger, repos *repositories, redisDB *db.Redis) http.Handler {
	errorHandler := middleware.NewErrorHandler(log, cfg.Environment)
	verifier := auth.NewJWTVerifier(cfg.JWTSecret, cfg.JWTAudience)

	idempotencyTTL := time.Duration(cfg.IdempotencyTTLHours) * time.Hour
	mwManager := middleware.NewManager(verifier, errorHandler, log, redisDB.Client, idempotencyTTL)

	todosHandler := todos.NewHandler(repos.todo)
	profilesHandler := profiles.NewHandler(repos.profile, repos.avatars)

	return router.Setup(errorHandler, mwManager, todosHandler, profilesHandler)
}
