package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/adminboard/apiserver/config"
	"github.com/adminboard/apiserver/internal/db"
	"github.com/adminboard/apiserver/internal/mq"
	"github.com/adminboard/apiserver/internal/services"
	"github.com/adminboard/apiserver/internal/storage"
	"github.com/adminboard/apiserver/internal/store"
	"github.com/adminboard/apiserver/internal/telemetry"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	logger     *zap.Logger
	db         *sql.DB
	mq         *mq.MQ
	shutdownFn telemetry.ShutdownFunc
}

// New constructs a Server from cfg: it opens the configured store, connects
// the optional broker and object storage, and registers every route.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Server, error) {
	s := &Server{logger: logger}

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.Tracing, logger)
	if err != nil {
		return nil, err
	}
	s.shutdownFn = shutdownTracing

	repo, err := s.openStore(ctx, cfg)
	if err != nil {
		s.closeResources(ctx)
		return nil, err
	}

	publisher, err := s.openPublisher(ctx, cfg.MQ)
	if err != nil {
		s.closeResources(ctx)
		return nil, err
	}

	avatars, err := openAvatars(ctx, cfg.ObjectStorage, logger)
	if err != nil {
		s.closeResources(ctx)
		return nil, err
	}

	opts := []services.Option{
		services.WithPublisher(publisher),
		services.WithLogger(logger),
	}
	router := NewRouter(Services{
		Orders:  services.NewOrderService(repo, opts...),
		Tasks:   services.NewTaskService(repo, opts...),
		Events:  services.NewEventService(repo, opts...),
		Metrics: services.NewMetricsService(repo, opts...),
		Users:   services.NewUserService(repo, opts...),
		Avatars: avatars,
	}, logger)

	port := cfg.ServerPort
	if port == 0 {
		port = 5000
	}

	s.router = router
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server. It returns nil after a graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones until ctx is
// done, then releases the store, broker and tracer.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	s.closeResources(ctx)
	return err
}

func (s *Server) closeResources(ctx context.Context) {
	if s.mq != nil {
		if err := s.mq.Close(); err != nil {
			s.logger.Warn("close mq", zap.Error(err))
		}
		s.mq = nil
	}
	if s.db != nil {
		_ = s.db.Close()
		s.db = nil
	}
	if s.shutdownFn != nil {
		if err := s.shutdownFn(ctx); err != nil {
			s.logger.Warn("shutdown tracing", zap.Error(err))
		}
		s.shutdownFn = nil
	}
}

func (s *Server) openStore(ctx context.Context, cfg config.Config) (store.Storage, error) {
	seed, err := LoadSeed(cfg.Store)
	if err != nil {
		return nil, err
	}

	switch cfg.Store.Backend {
	case "", config.StoreBackendMemory:
		repo, err := store.NewMemStorage(store.WithSeed(seed))
		if err != nil {
			return nil, fmt.Errorf("seed memory store: %w", err)
		}
		s.logger.Info("using in-memory store", zap.Bool("seeded", !seed.Empty()))
		return repo, nil

	case config.StoreBackendPostgres:
		if cfg.Store.AutoMigrate {
			if err := db.MigrateUp(db.DefaultMigrationsURL, db.PostgresURL(cfg)); err != nil {
				return nil, err
			}
		}
		conn, err := db.Open(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		s.db = conn

		repo := store.NewPGStorage(conn)
		seeded, err := repo.SeedIfEmpty(ctx, seed)
		if err != nil {
			return nil, fmt.Errorf("seed database: %w", err)
		}
		s.logger.Info("using postgres store",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.DBName),
			zap.Bool("seeded", seeded),
		)
		return repo, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func (s *Server) openPublisher(ctx context.Context, cfg config.MQConfig) (mq.Publisher, error) {
	broker, err := mq.NewFromConfig(ctx, cfg)
	if errors.Is(err, mq.ErrNoBackend) {
		return mq.Discard, nil
	}
	if err != nil {
		return nil, err
	}
	s.mq = broker
	s.logger.Info("publishing change events", zap.String("backend", cfg.Backend), zap.String("channel", cfg.Channel))
	return mq.NewNotifier(broker, cfg.Channel), nil
}

func openAvatars(ctx context.Context, cfg config.ObjectStorageConfig, logger *zap.Logger) (*services.AvatarService, error) {
	objects, err := storage.NewFromConfig(ctx, cfg)
	if errors.Is(err, storage.ErrNoBackend) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	logger.Info("avatar storage enabled", zap.String("backend", cfg.Backend), zap.String("bucket", objects.Bucket()))
	return services.NewAvatarService(objects), nil
}

// LoadSeed resolves the seed the store starts with: empty when seeding is
// off, the file named by SeedFile when set, otherwise the built-in data.
func LoadSeed(cfg config.StoreConfig) (store.Seed, error) {
	if !cfg.Seed {
		return store.Seed{}, nil
	}
	if cfg.SeedFile != "" {
		seed, err := store.LoadSeedFile(cfg.SeedFile)
		if err != nil {
			return store.Seed{}, err
		}
		return seed, nil
	}
	return store.DefaultSeed()
}
