package commands

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/timesheet/core/internal/adapters/repository"
	"github.com/timesheet/core/internal/application/services"
	"github.com/timesheet/core/internal/domain/entities"
	"github.com/timesheet/core/internal/infrastructure/cache"
	"github.com/timesheet/core/internal/infrastructure/config"
	"github.com/timesheet/core/internal/infrastructure/database"
	"github.com/timesheet/core/internal/infrastructure/logger"
	"github.com/timesheet/core/internal/ports"
)

var configFile string

// NewRootCommand assembles the timesheet command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "timesheet",
		Short:         "Timesheet server and record tools",
		Long:          "Timesheet records time spent on project tasks. Run the API server or manage records from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (yaml, json or toml)")

	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewMigrateCommand())
	rootCmd.AddCommand(NewUserCommand())
	rootCmd.AddCommand(NewRecordCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// app holds the services a command works with
type app struct {
	cfg        *config.Config
	logger     *logger.Logger
	db         *database.DB
	cache      *redis.Client
	auth       *services.AuthService
	users      *services.UserService
	records    *services.RecordService
	references *services.ReferenceService
}

func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, appLogger, nil
}

// openCache connects to Redis when it is enabled and returns nil otherwise
func openCache(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}
	return cache.NewClient(ctx, cfg.Redis)
}

func openApp(ctx context.Context) (*app, error) {
	cfg, appLogger, err := loadConfig()
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	redisClient, err := openCache(ctx, cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	var sessions ports.SessionStore
	if redisClient != nil {
		sessions = repository.NewRedisSessionStore(redisClient)
	} else {
		sessions = repository.NewPostgresSessionStore(db.DB)
	}

	userRepo := repository.NewUserRepository(db.DB)
	references := services.NewReferenceService(
		repository.NewProjectRepository(db.DB),
		repository.NewTaskRepository(db.DB),
	)

	return &app{
		cfg:        cfg,
		logger:     appLogger,
		db:         db,
		cache:      redisClient,
		auth:       services.NewAuthService(userRepo, repository.NewAuthRepository(db.DB), sessions, cfg.JWT, appLogger.WithComponent("auth")),
		users:      services.NewUserService(userRepo, appLogger.WithComponent("users")),
		records:    services.NewRecordService(repository.NewTimeRecordRepository(db.DB), references, services.NewRecordMetrics(prometheus.NewRegistry()), appLogger.WithComponent("records")),
		references: references,
	}, nil
}

// signIn checks the credentials the same way the API does and returns the
// signed-in user
func (a *app) signIn(ctx context.Context, email, password string) (*entities.User, error) {
	if email == "" || password == "" {
		return nil, entities.ErrNotAuthenticated
	}

	resp, err := a.auth.Login(ctx, ports.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (a *app) Close() {
	if a.cache != nil {
		a.cache.Close()
	}
	a.db.Close()
	a.logger.Close()
}
