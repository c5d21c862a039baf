package db

import (
	"context"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/taskvault/go/internal/logger"
)

type Redis struct {
	Client *redis.Client
}

func ConnectRedis(uri string, log *logger.Logger) (*Redis, error) {
	opts, err := redis.ParseURL(uri)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	// Add OpenTelemetry tracing instrumentation
	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	log.Info("Redis connected", map[string]any{"uri": uri})
	return &Redis{Client: client}, nil
}

func (r *Redis) Disconnect() error {
	if r.Client == nil {
		return nil
	}
	return r.Client.Close()
}
