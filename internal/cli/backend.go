package cli

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"quizzie/internal/activity"
	"quizzie/internal/auth"
	"quizzie/internal/config"
	"quizzie/internal/storage/mongostore"
	"quizzie/internal/storage/pgstore"
	"quizzie/internal/storage/redisstore"
	"quizzie/pkg/database"
)

// backend is the storage selected by database.driver. Every store serves
// both activities and users.
type backend struct {
	activities activity.Repository
	users      auth.Repository
	migrate    func(ctx context.Context) error
	close      func()
}

func openBackend(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (*backend, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := database.NewPostgresDB(&cfg.Postgres, log)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		store := pgstore.New(db)
		return &backend{
			activities: store,
			users:      store,
			migrate:    store.Migrate,
			close: func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			},
		}, nil

	case config.DriverMongo:
		client, err := database.NewMongoClient(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		store := mongostore.New(client.Database(cfg.Mongo.Database))
		return &backend{
			activities: store,
			users:      store,
			migrate:    store.EnsureIndexes,
			close:      func() { _ = client.Disconnect(context.Background()) },
		}, nil

	case config.DriverRedis:
		client, err := database.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		store := redisstore.New(client)
		return &backend{
			activities: store,
			users:      store,
			migrate:    func(context.Context) error { return nil },
			close:      func() { _ = client.Close() },
		}, nil
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
}
