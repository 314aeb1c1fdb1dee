// Player authorization service
//
// Serves permission checks, materialized claims and the administration API
// for roles, team roles, teams and views.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go.player.tech/internal/common/health"
	"go.player.tech/internal/common/leader"
	"go.player.tech/internal/common/lifecycle"
	commonmongo "go.player.tech/internal/common/mongo"
	"go.player.tech/internal/common/secrets"
	"go.player.tech/internal/config"
	"go.player.tech/internal/platform/api"
	"go.player.tech/internal/platform/application"
	"go.player.tech/internal/platform/audit"
	"go.player.tech/internal/platform/auth/jwt"
	"go.player.tech/internal/platform/authorization"
	"go.player.tech/internal/platform/catalog"
	"go.player.tech/internal/platform/claimscache"
	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/eventbus"
	"go.player.tech/internal/platform/invalidation"
	"go.player.tech/internal/platform/membership"
	"go.player.tech/internal/platform/permission"
	"go.player.tech/internal/platform/role"
	"go.player.tech/internal/platform/team"
	"go.player.tech/internal/platform/teampermission"
	"go.player.tech/internal/platform/teamrole"
	"go.player.tech/internal/platform/user"
	"go.player.tech/internal/platform/view"
	"go.player.tech/internal/queue"
	natsqueue "go.player.tech/internal/queue/nats"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "init-config":
			path := "config.toml"
			if len(os.Args) > 2 {
				path = os.Args[2]
			}
			if err := config.WriteExampleConfig(path); err != nil {
				fmt.Fprintf(os.Stderr, "failed to write config: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Wrote example configuration to %s\n", path)
			return

		case "gen-secrets-key":
			// Key for the encrypted secrets provider (secrets.encryption_key)
			key, err := secrets.GenerateKey()
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to generate key: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(key)
			return

		case "issue-token":
			if err := issueToken(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "failed to issue token: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	if err := run(); err != nil {
		slog.Error("Player exited with error", "error", err)
		os.Exit(1)
	}
}

func setupLogging(devMode bool) {
	level := slog.LevelInfo
	if devMode || os.Getenv("PLAYER_DEV") == "true" {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if devMode {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, opts)))
		return
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, opts)))
}

func run() error {
	cfg, err := config.LoadWithFile()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	setupLogging(cfg.DevMode)

	slog.Info("Starting Player", "version", version, "build_time", buildTime)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, cleanup, err := lifecycle.Initialize(ctx, lifecycle.AppOptions{
		Config:       cfg,
		NeedsMongoDB: true,
		NeedsRedis:   true,
	})
	if err != nil {
		return err
	}
	defer cleanup()

	checker := health.NewChecker()
	checker.AddReadinessCheck(health.MongoDBCheck(commonmongo.Pinger(app.MongoClient)))
	if app.Redis != nil {
		checker.AddReadinessCheck(health.RedisCheck(func(ctx context.Context) error {
			return app.Redis.Ping(ctx).Err()
		}))
	}

	if err := commonmongo.NewIndexInitializer(app.DB, slog.Default()).Initialize(ctx); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	repos := authorization.Repositories{
		Permissions:     permission.NewRepository(app.DB),
		TeamPermissions: teampermission.NewRepository(app.DB),
		Roles:           role.NewRepository(app.DB),
		TeamRoles:       teamrole.NewRepository(app.DB),
		Views:           view.NewRepository(app.DB),
		Teams:           team.NewRepository(app.DB),
		Users:           user.NewRepository(app.DB),
		Memberships:     membership.NewRepository(app.DB),
		Applications:    application.NewRepository(app.DB),
	}

	store, err := claimscache.New(claimscache.Config{
		Backend:    claimscache.Backend(cfg.Cache.Backend),
		MaxEntries: cfg.Cache.MaxEntries,
		TTL:        cfg.Cache.TTL,
		KeyPrefix:  cfg.Cache.KeyPrefix,
	}, app.Redis)
	if err != nil {
		return err
	}
	provider := authorization.NewClaimsProvider(store, authorization.NewMaterializer(repos, nil), nil)
	authz := authorization.NewService(provider, authorization.NewEngine(repos.Resolver(), nil))

	listener := invalidation.NewListener(&invalidation.RepositoryLookup{
		Users:       repos.Users,
		Roles:       repos.Roles,
		TeamRoles:   repos.TeamRoles,
		Teams:       repos.Teams,
		Memberships: repos.Memberships,
	}, authz, nil)
	local := eventbus.NewDispatcher(nil, listener)

	instanceID := cfg.Leader.InstanceID
	if instanceID == "" {
		instanceID = leader.DefaultConfig().InstanceID
	}

	bus, err := startEventBus(ctx, cfg, instanceID, local, checker)
	if err != nil {
		return err
	}
	// Closed by the supervisor after the subscriber stops, or here when
	// startup fails before the supervisor runs.
	closeBus := sync.OnceValue(func() error {
		if bus.close == nil {
			return nil
		}
		return bus.close()
	})
	defer func() {
		if err := closeBus(); err != nil {
			slog.Error("Error closing event bus", "error", err)
		}
	}()

	var dispatcher common.EventDispatcher = local
	if bus.publisher != nil {
		dispatcher = eventbus.Multi{local, bus.publisher}
	}
	uow := common.NewMongoUnitOfWork(app.MongoClient, app.DB, dispatcher)

	keys, err := initKeys(ctx, cfg, app.Secrets)
	if err != nil {
		return err
	}
	tokens := newTokenService(keys, cfg)

	defaults := teamrole.Defaults{Team: cfg.Roles.DefaultTeamRole, ViewCreator: cfg.Roles.ViewCreatorTeamRole}

	services := []lifecycle.Service{
		lifecycle.NewServiceFunc("event-transport",
			func(ctx context.Context) error { <-ctx.Done(); return nil },
			func(context.Context) error { return closeBus() }),
	}

	seed := func(ctx context.Context) error {
		_, err := catalog.NewSeeder(repos, defaults, uow, nil).Seed(ctx)
		return err
	}
	var gate func(ctx context.Context) error
	if cfg.Leader.Enabled {
		elector := leader.NewElector(leaderLock(app), leader.Config{
			InstanceID:      instanceID,
			TTL:             cfg.Leader.TTL,
			RefreshInterval: cfg.Leader.RefreshInterval,
		}, nil)
		gate = elector.AwaitLeadership
		services = append(services, elector)
	}
	seeder := lifecycle.NewJobService("catalog-seeder", seed, gate)
	services = append(services, seeder)
	checker.AddReadinessCheck(health.ServiceCheck("catalog-seeder", seeder.Health))

	if bus.subscriber != nil {
		services = append(services, bus.subscriber)
		checker.AddLivenessCheck(health.ServiceCheck("event-subscriber", bus.subscriber.Health))
	}

	var limiter *api.RateLimiter
	if cfg.HTTP.RequestsPerSecond > 0 {
		limiter = api.NewRateLimiter(cfg.HTTP.RequestsPerSecond, cfg.HTTP.Burst)
	}

	handlers := api.NewHandlers(api.Deps{
		Repositories:  repos,
		UnitOfWork:    uow,
		Authorizer:    authz,
		Tokens:        tokens,
		Keys:          keys,
		Defaults:      defaults,
		ResourceKinds: repos.Resolver().Kinds(),
		Audit:         audit.NewRepository(app.DB),
		Limiter:       limiter,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(api.MetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.HTTP.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Correlation-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/q/health", checker.HandleHealth)
	r.Get("/q/health/live", checker.HandleLive)
	r.Get("/q/health/ready", checker.HandleReady)
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/q/metrics", promhttp.Handler())

	handlers.Mount(r)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	services = append(services, lifecycle.NewHTTPService("http", server))

	slog.Info("Player ready",
		"port", cfg.HTTP.Port,
		"events", cfg.Events.Type,
		"cache", cfg.Cache.Backend,
		"instanceId", instanceID)

	return lifecycle.Run(ctx, services...)
}

// leaderLock prefers Redis when it is configured.
func leaderLock(app *lifecycle.App) leader.Lock {
	if app.Redis != nil {
		return leader.NewRedisLock(app.Redis, "player:leader:catalog")
	}
	return leader.NewMongoLock(app.DB, "catalog")
}

func initKeys(ctx context.Context, cfg *config.Config, provider secrets.Provider) (*jwt.KeyManager, error) {
	pem, err := secrets.Lookup(ctx, provider, cfg.Auth.SigningKeySecret)
	if err != nil {
		return nil, fmt.Errorf("failed to read signing key secret: %w", err)
	}

	src := jwt.KeySource{
		PrivateKeyPEM:  pem,
		PrivateKeyPath: cfg.Auth.PrivateKeyPath,
		PublicKeyPath:  cfg.Auth.PublicKeyPath,
	}
	if cfg.DevMode {
		src.DevKeyDir = filepath.Join(cfg.DataDir, "keys")
	}

	keys := jwt.NewKeyManager(nil)
	if err := keys.Initialize(src); err != nil {
		return nil, fmt.Errorf("failed to initialize signing keys: %w", err)
	}
	return keys, nil
}

type eventBus struct {
	publisher  *eventbus.Publisher
	subscriber *eventbus.Subscriber
	close      func() error
}

// startEventBus connects the configured transport. Every instance gets its
// own durable consumer so each one evicts its local cache.
func startEventBus(ctx context.Context, cfg *config.Config, instanceID string, local *eventbus.Dispatcher, checker *health.Checker) (*eventBus, error) {
	filter := cfg.Events.SubjectRoot + ".>"
	factory := queue.NewFactory(&queue.Config{
		Type:    cfg.Events.Type,
		DataDir: cfg.Events.DataDir,
		NATS: queue.NATSConfig{
			URL:        cfg.Events.NATSURL,
			StreamName: cfg.Events.StreamName,
			Subjects:   []string{filter},
		},
	})
	qcfg := factory.Config()

	var (
		transport *natsqueue.Transport
		closer    func() error
	)
	switch {
	case factory.IsMemory():
		slog.Info("Event bus disabled, dispatching locally only")
		return &eventBus{}, nil

	case factory.IsEmbedded():
		srv, err := natsqueue.StartEmbedded(natsqueue.EmbeddedConfig{DataDir: qcfg.DataDir, Stream: qcfg.NATS}, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to start embedded NATS server: %w", err)
		}
		transport, closer = srv.Transport, srv.Close

	case factory.IsNATS():
		t, err := natsqueue.Dial(qcfg.NATS, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		transport, closer = t, t.Close
		slog.Info("Connected to NATS", "url", qcfg.NATS.URL)

	default:
		return nil, errors.New("unknown events type " + cfg.Events.Type)
	}

	consumerName := cfg.Events.ConsumerName
	if consumerName == "" {
		consumerName = "player-" + instanceID
	}
	consumer, err := transport.Consumer(ctx, consumerName, filter)
	if err != nil {
		closer()
		return nil, fmt.Errorf("failed to create NATS consumer: %w", err)
	}
	checker.AddReadinessCheck(health.NATSCheck(transport.Connected))

	return &eventBus{
		publisher:  eventbus.NewPublisher(transport, cfg.Events.SubjectRoot, nil),
		subscriber: eventbus.NewSubscriber(consumer, local, nil),
		close:      closer,
	}, nil
}
