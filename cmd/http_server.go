package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/frahmantamala/hr-admin/api"
	"github.com/frahmantamala/hr-admin/internal"
	"github.com/frahmantamala/hr-admin/internal/auth"
	authPostgres "github.com/frahmantamala/hr-admin/internal/auth/postgres"
	"github.com/frahmantamala/hr-admin/internal/competence"
	competencePostgres "github.com/frahmantamala/hr-admin/internal/competence/postgres"
	"github.com/frahmantamala/hr-admin/internal/core/events"
	"github.com/frahmantamala/hr-admin/internal/journal"
	journalPostgres "github.com/frahmantamala/hr-admin/internal/journal/postgres"
	journalRedis "github.com/frahmantamala/hr-admin/internal/journal/redis"
	"github.com/frahmantamala/hr-admin/internal/metrics"
	"github.com/frahmantamala/hr-admin/internal/transport"
	"github.com/frahmantamala/hr-admin/internal/transport/rest"
	"github.com/frahmantamala/hr-admin/internal/transport/swagger"
	"github.com/frahmantamala/hr-admin/internal/user"
	userPostgres "github.com/frahmantamala/hr-admin/internal/user/postgres"
	"github.com/frahmantamala/hr-admin/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startHTTPServer(cmd.Context())
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Gorm   *gorm.DB
	Redis  *goredis.Client
	Router *chi.Mux
	Logger *slog.Logger
}

func (d *Dependencies) Close() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Error("redis close error", "error", err)
		}
	}
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			d.Logger.Error("database close error", "error", err)
		}
	}
}

func startHTTPServer(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	deps, err := initializeDependencies(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.Close()

	if err := setupRoutes(ctx, deps); err != nil {
		return err
	}

	cfg := deps.Config.Server
	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	serverErrChan := make(chan error, 1)
	go func() {
		deps.Logger.Info("starting HTTP server", "address", addr, "env", deps.Config.Env)
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	deps.Logger.Info("server stopped")
	return nil
}

func setupRoutes(ctx context.Context, deps *Dependencies) error {
	cfg := deps.Config
	lg := deps.Logger

	if _, err := swagger.Load(ctx, api.Spec); err != nil {
		return fmt.Errorf("invalid embedded api document: %w", err)
	}

	bus := events.NewEventBus(lg)
	if cfg.Observability.Metrics.Enabled {
		metrics.SubscribeJournal(bus)
	}

	userRepo := userPostgres.NewUserRepository(deps.Gorm)
	journalRepo := journalPostgres.NewJournalRepository(deps.Gorm)

	journalService := journal.NewService(journalRepo, userRepo, lg,
		journal.WithThrottle(newThrottle(deps, journalRepo)),
		journal.WithPublisher(bus),
	)

	userService := user.NewService(
		userRepo,
		userPostgres.NewTxRunner(deps.Gorm),
		journalService,
		user.NewBcryptCredentialService(cfg.Security.ResetPasswordLength, cfg.Security.BCryptCost),
		lg,
		user.WithRevealResetPassword(cfg.Security.RevealResetPassword),
	)

	tokenGenerator := auth.NewJWTTokenGenerator(
		cfg.Security.JWTAccessSecret,
		cfg.Security.JWTRefreshSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(deps.Gorm), tokenGenerator, lg)
	competenceService := competence.NewService(competencePostgres.NewCompetenceRepository(deps.Gorm), lg)

	checks := map[string]rest.Check{"postgres": rest.DatabaseCheck(deps.DB)}
	if deps.Redis != nil {
		checks["redis"] = rest.RedisCheck(deps.Redis)
	}

	base := transport.NewBaseHandler(lg)
	handlers := rest.Handlers{
		Auth:        auth.NewHandler(base, authService),
		Users:       user.NewHandler(base, userService),
		Journal:     journal.NewHandler(base, journalService),
		Competences: competence.NewHandler(base, competenceService),
		Health:      rest.NewHealthHandler(checks),
	}

	opts := rest.Options{
		Gate:           auth.NewGate(cfg.Authorization.Endpoints, lg),
		AllowedOrigins: splitOrigins(cfg.Server.AllowedOrigins),
		OpenAPISpec:    api.Spec,
		Logger:         lg,
	}
	if cfg.Observability.Metrics.Enabled {
		opts.MetricsHandler = metrics.Handler()
		opts.MetricsPath = cfg.Observability.Metrics.Path
	}

	rest.RegisterAllRoutes(deps.Router, handlers, opts)
	return nil
}

// newThrottle prefers the shared Redis window and falls back to the journal table.
func newThrottle(deps *Dependencies, repo journal.RepositoryAPI) journal.Throttle {
	window := deps.Config.Journal.ConsultationWindow
	if deps.Redis != nil {
		deps.Logger.Info("journal dedup backed by redis", "window", window.String())
		return journalRedis.NewThrottle(deps.Redis, window)
	}
	deps.Logger.Info("journal dedup backed by the journal table", "window", window.String())
	return journal.NewStoreThrottle(repo, window, nil)
}

func splitOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lg := logger.Init(logger.Options{
		Level:  config.Observability.Logging.Level,
		Format: config.Observability.Logging.Format,
	})

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	deps := &Dependencies{
		Config: config,
		DB:     db,
		Gorm:   gormDB,
		Router: chi.NewRouter(),
		Logger: lg,
	}

	if config.Redis.Enabled {
		client, err := journalRedis.Connect(ctx, journalRedis.Config{
			Addr:    config.Redis.Addr,
			DB:      config.Redis.DB,
			Timeout: config.Redis.Timeout,
		})
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("failed to connect redis: %w", err)
		}
		deps.Redis = client
	}

	return deps, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm shares the sqlx pool; unique violations surface as gorm.ErrDuplicatedKey.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
		TranslateError: true,
	})
}
