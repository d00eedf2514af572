// Package server wires storage, authentication and the gRPC and HTTP
// transports together and runs them until shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/signkeeper/internal/logging"
	"github.com/dmitrijs2005/signkeeper/internal/server/auth"
	"github.com/dmitrijs2005/signkeeper/internal/server/config"
	"github.com/dmitrijs2005/signkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/signkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/signkeeper/internal/server/repositories/users"
	"github.com/dmitrijs2005/signkeeper/internal/server/services"
	"github.com/dmitrijs2005/signkeeper/internal/server/social"

	gs "github.com/dmitrijs2005/signkeeper/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	tokens      *auth.JWTProvider
	authService *services.AuthService
	userService *services.UserService
}

// NewApp opens the database, applies migrations and builds the services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(c.LogLevel, os.Stdout)

	db, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	app, err := newApp(c, rm.Users(db), logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	app.db = db
	return app, nil
}

func newApp(c *config.Config, repo users.Repository, logger logging.Logger) (*App, error) {
	hasher, err := auth.NewPasswordHasher(c.PasswordHashAlgorithm, c.BcryptCost)
	if err != nil {
		return nil, err
	}

	tokens := auth.NewJWTProvider([]byte(c.SecretKey), c.AccessTokenValidityDuration)

	registry := social.NewRegistry()
	registry.Register(social.KakaoProvider, social.NewKakaoClient(c.KakaoProfileURL, c.SocialTimeout, nil))

	return &App{
		config:      c,
		logger:      logger,
		tokens:      tokens,
		authService: services.NewAuthService(repo, hasher, tokens, registry, logger),
		userService: services.NewUserService(repo, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

type runner interface {
	Run(ctx context.Context) error
}

// Run serves gRPC and HTTP until ctx is cancelled, a signal arrives or one
// of the transports fails. The first transport error is returned.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...",
		"grpc", app.config.EndpointAddrGRPC, "http", app.config.EndpointAddrHTTP)

	app.initSignalHandler(cancelFunc)

	servers := map[string]runner{
		"grpc": gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.authService, app.userService, app.tokens),
		"http": httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.authService, app.userService, app.tokens),
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for name, s := range servers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Run(ctx); err != nil {
				app.logger.Error(ctx, "server stopped", "server", name, "error", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
				cancelFunc()
			}
		}()
	}

	wg.Wait()
	app.logger.Info(context.Background(), "App stopped")
	return errors.Join(errs...)
}

// Close releases the database handle.
func (app *App) Close() error {
	if app.db == nil {
		return nil
	}
	return app.db.Close()
}
