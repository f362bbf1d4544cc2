package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bpohub/workforce/internal"
	"github.com/bpohub/workforce/internal/auth"
	authpg "github.com/bpohub/workforce/internal/auth/postgres"
	"github.com/bpohub/workforce/internal/core/events"
	"github.com/bpohub/workforce/internal/dtr"
	dtrpg "github.com/bpohub/workforce/internal/dtr/postgres"
	"github.com/bpohub/workforce/internal/employee"
	employeepg "github.com/bpohub/workforce/internal/employee/postgres"
	"github.com/bpohub/workforce/internal/paydispute"
	paydisputepg "github.com/bpohub/workforce/internal/paydispute/postgres"
	"github.com/bpohub/workforce/internal/rbac"
	rbacpg "github.com/bpohub/workforce/internal/rbac/postgres"
	"github.com/bpohub/workforce/internal/schedule"
	schedulepg "github.com/bpohub/workforce/internal/schedule/postgres"
	"github.com/bpohub/workforce/internal/transport/rest"
	"github.com/bpohub/workforce/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *gorm.DB
	Router   *chi.Mux
	Handlers rest.Handlers
	Gate     *rbac.Gate
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	sqlDB, err := deps.DB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to access database handle: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, sqlDB, deps.Handlers, deps.Gate, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := sqlDB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	log := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	eventBus := events.NewEventBus(log)

	rbacRepo := rbacpg.NewRBACRepository(db)
	rbacService := rbac.NewService(rbacRepo, log)
	gate := rbac.NewGate(rbacService.Resolver(), log)

	authRepo := authpg.NewRepository(db)
	authService := auth.NewService(authRepo, auth.NewJWTTokenGenerator(config.Security), config.Security.BCryptCost)

	employeeRepo := employeepg.NewEmployeeRepository(db)
	employeeService := employee.NewService(employeeRepo, rbacRepo, authService, config.Attendance, log)

	scheduleRepo := schedulepg.NewScheduleRepository(db)
	scheduleService := schedule.NewService(scheduleRepo, config.Attendance, eventBus, log)

	dtrRepo := dtrpg.NewDTRRepository(db)
	dtrService := dtr.NewService(dtrRepo, config.Attendance, eventBus, log)

	disputeRepo := paydisputepg.NewDisputeRepository(db)
	disputeService := paydispute.NewService(disputeRepo, config.Attendance, eventBus, log)
	paydispute.NewEventHandler(disputeRepo, log).RegisterEventHandlers(eventBus)

	handlers := rest.Handlers{
		Auth:     auth.NewHandler(authService, rbacService),
		Employee: employee.NewHandler(employeeService),
		Schedule: schedule.NewHandler(scheduleService),
		DTR:      dtr.NewHandler(dtrService),
		Dispute:  paydispute.NewHandler(disputeService),
		RBAC:     rbac.NewHandler(rbacService),
	}

	return &Dependencies{
		Config:   config,
		Logger:   log,
		DB:       db,
		Router:   chi.NewRouter(),
		Handlers: handlers,
		Gate:     gate,
	}, nil
}

// initDB opens the connection through sqlx on the pgx driver, applies pool
// limits from config, then hands the verified handle to gorm.
func initDB(cfg internal.DatabaseConfig) (*gorm.DB, error) {
	const driver = "pgx"

	conn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	conn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: conn.DB}), &gorm.Config{})
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	return db, nil
}
