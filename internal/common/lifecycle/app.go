package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	commonmongo "go.player.tech/internal/common/mongo"
	"go.player.tech/internal/common/secrets"
	"go.player.tech/internal/config"
)

// App holds initialized infrastructure that is guaranteed to be connected.
// If you have an *App, every connection it was asked for is up.
//
// Application logic does not belong here. The event bus is wired by the
// binary because its shape (embedded, external, none) varies by deployment.
type App struct {
	Config *config.Config

	// Database
	MongoClient *mongo.Client
	DB          *mongo.Database

	// Redis is nil unless requested and configured
	Redis *redis.Client

	// Secrets provider
	Secrets secrets.Provider

	cleanupFuncs []func() error
}

// AppOptions configures which infrastructure to initialize.
type AppOptions struct {
	// Config overrides loading from file and environment
	Config *config.Config

	// NeedsMongoDB indicates MongoDB connection is required
	NeedsMongoDB bool

	// NeedsRedis connects Redis when an address is configured
	NeedsRedis bool
}

// Initialize creates an App with connected infrastructure.
// Returns an error if any required connection fails.
//
// Usage:
//
//	app, cleanup, err := lifecycle.Initialize(ctx, lifecycle.AppOptions{
//	    NeedsMongoDB: true,
//	    NeedsRedis:   true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cleanup()
func Initialize(ctx context.Context, opts AppOptions) (*App, func(), error) {
	app := &App{Config: opts.Config}

	if app.Config == nil {
		cfg, err := config.LoadWithFile()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load config: %w", err)
		}
		app.Config = cfg
	}

	provider, err := secrets.NewProvider(ctx, secretsConfig(app.Config.Secrets))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize secrets provider: %w", err)
	}
	app.Secrets = provider

	if opts.NeedsMongoDB {
		if err := app.initMongoDB(ctx); err != nil {
			app.Cleanup()
			return nil, nil, err
		}
	}

	if opts.NeedsRedis && app.Config.Redis.Addr != "" {
		if err := app.initRedis(ctx); err != nil {
			app.Cleanup()
			return nil, nil, err
		}
	}

	return app, app.Cleanup, nil
}

func secretsConfig(c config.SecretsConfig) secrets.Config {
	return secrets.Config{
		Provider:       secrets.ProviderType(c.Provider),
		EncryptionKey:  c.EncryptionKey,
		DataDir:        c.DataDir,
		AWSRegion:      c.AWSRegion,
		AWSPrefix:      c.AWSPrefix,
		AWSEndpoint:    c.AWSEndpoint,
		VaultAddr:      c.VaultAddr,
		VaultPath:      c.VaultPath,
		VaultNamespace: c.VaultNamespace,
		GCPProject:     c.GCPProject,
		GCPPrefix:      c.GCPPrefix,
	}
}

// AddCleanup registers a cleanup function to be called on shutdown.
// Functions are called in reverse order of registration.
func (app *App) AddCleanup(fn func() error) {
	app.cleanupFuncs = append(app.cleanupFuncs, fn)
}

// initMongoDB connects to MongoDB and verifies the connection.
func (app *App) initMongoDB(ctx context.Context) error {
	cfg := app.Config

	slog.Info("Connecting to MongoDB", "database", cfg.MongoDB.Database)

	client, err := commonmongo.Connect(ctx, cfg.MongoDB)
	if err != nil {
		return err
	}

	app.MongoClient = client
	app.DB = client.Database(cfg.MongoDB.Database)

	app.AddCleanup(func() error {
		slog.Info("Disconnecting from MongoDB")
		return client.Disconnect(context.Background())
	})

	slog.Info("Connected to MongoDB", "database", cfg.MongoDB.Database)
	return nil
}

// initRedis connects to Redis and verifies the connection.
func (app *App) initRedis(ctx context.Context) error {
	cfg := app.Config.Redis

	slog.Info("Connecting to Redis", "addr", cfg.Addr, "db", cfg.DB)

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("failed to ping Redis: %w", err)
	}

	app.Redis = client
	app.AddCleanup(func() error {
		slog.Info("Closing Redis connection")
		return client.Close()
	})

	slog.Info("Connected to Redis", "addr", cfg.Addr)
	return nil
}

// Cleanup runs all cleanup functions in reverse order.
func (app *App) Cleanup() {
	for i := len(app.cleanupFuncs) - 1; i >= 0; i-- {
		if err := app.cleanupFuncs[i](); err != nil {
			slog.Error("Cleanup error", "error", err)
		}
	}
	app.cleanupFuncs = nil
}
