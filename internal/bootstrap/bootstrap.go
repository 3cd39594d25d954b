package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ghelioth/les-bons-artisants-test/internal/domain/auth"
	authstore "github.com/ghelioth/les-bons-artisants-test/internal/domain/auth/store"
	"github.com/ghelioth/les-bons-artisants-test/internal/domain/catalog"
	"github.com/ghelioth/les-bons-artisants-test/internal/domain/eventbus"
	"github.com/ghelioth/les-bons-artisants-test/internal/platform/config"
	"github.com/ghelioth/les-bons-artisants-test/internal/platform/errors"
	"github.com/ghelioth/les-bons-artisants-test/internal/platform/logging"
	"github.com/ghelioth/les-bons-artisants-test/internal/platform/observability"
	"github.com/ghelioth/les-bons-artisants-test/internal/platform/storage"
	httptransport "github.com/ghelioth/les-bons-artisants-test/internal/transport/http"
	"github.com/ghelioth/les-bons-artisants-test/internal/transport/http/webapi"
	"github.com/ghelioth/les-bons-artisants-test/internal/transport/ws"
)

// Options tunes the boot sequence.
type Options struct {
	ConfigPath string
}

// App holds every long-lived component so Run can wire them once and
// shut them down in order.
type App struct {
	cfg      *config.Config
	logger   *logging.Logger
	sessions authstore.Store
	push     *ws.Server
	api      *http.Server
}

// Run boots the catalog server and blocks until the context is cancelled
// or a termination signal arrives.
func Run(ctx context.Context, opts Options) error {
	const op = "bootstrap.Run"

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := config.NewLoader().WithPath(opts.ConfigPath).Load()
	if err != nil {
		return err
	}
	cfg := result.Config

	logger, err := logging.New(logging.Config{
		Level:    cfg.Log.Level,
		Dir:      cfg.Log.Dir,
		Filename: cfg.Log.File,
	})
	if err != nil {
		return errors.Wrap(errors.KindBootstrap, op, "init logging", err)
	}
	defer logger.Close()

	if result.Path != "" {
		logger.Info("configuration loaded from %s", result.Path)
	} else {
		logger.Info("configuration from defaults and environment")
	}

	obsShutdown, err := observability.Setup(ctx, observability.Config{Enabled: true}, logger.Slog())
	if err != nil {
		return errors.Wrap(errors.KindBootstrap, op, "init observability", err)
	}
	defer func() {
		_ = obsShutdown(context.Background())
	}()

	app, err := build(cfg, logger)
	if err != nil {
		return err
	}
	defer app.close(logger)

	return app.serve(ctx, logger)
}

// build assembles storage, domain services and both transports.
func build(cfg *config.Config, logger *logging.Logger) (*App, error) {
	const op = "bootstrap.build"

	db, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	if err := storage.Migrate(db, &catalog.Product{}, &auth.User{}); err != nil {
		return nil, err
	}
	logger.Info("database ready at %s", cfg.Database.Path)

	sessions, err := authstore.New(authstore.Config{
		Driver: cfg.Server.Auth.Store.Type,
		TTL:    cfg.Server.Auth.TTL,
		Redis: &authstore.RedisConfig{
			Addr:     cfg.Server.Auth.Store.Redis.Addr,
			Username: cfg.Server.Auth.Store.Redis.Username,
			Password: cfg.Server.Auth.Store.Redis.Password,
			DB:       cfg.Server.Auth.Store.Redis.DB,
			Prefix:   cfg.Server.Auth.Store.Redis.Prefix,
		},
		Memory: &authstore.MemoryConfig{
			GCInterval: cfg.Server.Auth.Store.Memory.Cleanup,
		},
	})
	if err != nil {
		return nil, err
	}

	tokens := auth.NewTokenManager(cfg.Server.Auth.Secret).WithTTL(cfg.Server.Auth.TTL)
	authService := auth.NewService(db, tokens, sessions, logger)

	bus := eventbus.New()
	catalogService := catalog.NewService(catalog.NewRepository(db), bus, logger)

	push := ws.NewServer(ws.ServerConfig{
		Addr: fmt.Sprintf("%s:%d", cfg.Transport.WebSocket.IP, cfg.Transport.WebSocket.Port),
		Path: cfg.Transport.WebSocket.Path,
	}, bus, func(ctx context.Context, token string) (uint, error) {
		claims, err := authService.Validate(ctx, token)
		if err != nil {
			return 0, err
		}
		return claims.UserID, nil
	}, logger)

	router, err := httptransport.Build(httptransport.Options{
		Config:         cfg,
		Logger:         logger,
		AuthMiddleware: webapi.AuthMiddleware(authService),
	})
	if err != nil {
		return nil, errors.Wrap(errors.KindBootstrap, op, "build http router", err)
	}
	webapi.NewProductService(catalogService, logger).Register(router.API, router.Secured)
	webapi.NewAuthService(authService, logger).Register(router.API, router.Secured)
	webapi.NewSystemService(catalogService, push.Count, logger).Register(router.API, router.Secured)

	api := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.IP, cfg.Server.Port),
		Handler: router.Engine,
	}

	return &App{
		cfg:      cfg,
		logger:   logger,
		sessions: sessions,
		push:     push,
		api:      api,
	}, nil
}

// serve runs the REST server and the push channel until the context ends,
// then shuts both down gracefully.
func (a *App) serve(ctx context.Context, logger *logging.Logger) error {
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("http api listening on %s", a.api.Addr)
		if err := a.api.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	group.Go(func() error {
		return a.push.Start(groupCtx)
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.api.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown: %v", err)
		}
		return nil
	})

	err := group.Wait()
	logger.Info("server stopped")
	return err
}

func (a *App) close(logger *logging.Logger) {
	if err := a.push.Stop(); err != nil {
		logger.Warn("push channel stop: %v", err)
	}
	if err := a.sessions.Close(context.Background()); err != nil {
		logger.Warn("session store close: %v", err)
	}
}
