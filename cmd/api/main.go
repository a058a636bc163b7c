package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/config"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/reconciliation"
	appHTTP "github.com/cmlabs-hris/payroll-engine/internal/handler/http"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/cache"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/storage"
	"github.com/cmlabs-hris/payroll-engine/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/payroll-engine/internal/service/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/service/file"
	leaveService "github.com/cmlabs-hris/payroll-engine/internal/service/leave"
	paymentService "github.com/cmlabs-hris/payroll-engine/internal/service/payment"
	payrollService "github.com/cmlabs-hris/payroll-engine/internal/service/payroll"
	reconciliationService "github.com/cmlabs-hris/payroll-engine/internal/service/reconciliation"
	sessionService "github.com/cmlabs-hris/payroll-engine/internal/service/session"
	"github.com/cmlabs-hris/payroll-engine/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	logger := newLogger(cfg.App)
	slog.SetDefault(logger)

	policy, err := config.LoadPolicy(cfg.App.PayrollPolicyFile)
	if err != nil {
		log.Fatal("Error loading payroll policy: ", err)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.Options{
		MaxConns:    cfg.Database.MaxConns,
		LockTimeout: cfg.Database.LockTimeout,
	})
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	if cfg.App.Env == "development" {
		applied, err := migrations.Up(context.Background(), db)
		if err != nil {
			log.Fatal("Failed to apply migrations: ", err)
		}
		if len(applied) > 0 {
			logger.Info("migrations applied", "files", applied)
		}
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	sessionRepo := postgresql.NewSessionRepository(db)
	aggregateRepo := postgresql.NewAggregateRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	paymentRepo := postgresql.NewPaymentRepository(db)

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			log.Fatal("Failed to initialize local storage: ", err)
		}
	case "s3":
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.Storage.Bucket, cfg.Storage.Region, cfg.Storage.Prefix)
		if err != nil {
			log.Fatal("Failed to initialize s3 storage: ", err)
		}
	default:
		log.Fatal("Unsupported storage type: ", cfg.Storage.Type)
	}

	var (
		aggregateCache cache.Cache[reconciliation.MonthlyAggregate] = cache.Disabled[reconciliation.MonthlyAggregate]{}
		payrollCache   cache.Cache[payroll.PayrollResponse]         = cache.Disabled[payroll.PayrollResponse]{}
	)
	if cfg.Cache.Enabled {
		logger.Warn("in-process cache enabled; run a single API process and no cmd/reconcile against this database",
			"ttl", cfg.Cache.TTL.String())
		aggregateCache = cache.NewMemory[reconciliation.MonthlyAggregate](cfg.Cache.TTL)
		payrollCache = cache.NewMemory[payroll.PayrollResponse](cfg.Cache.TTL)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	fileService := file.NewFileService(fileStorage, cfg.App.ProofMaxUploadSize)

	attendanceSvc := attendanceService.NewAttendanceService(db, attendanceRepo, employeeRepo)
	leaveSvc := leaveService.NewLeaveService(db, leaveRequestRepo, attendanceRepo, employeeRepo)
	sessionSvc := sessionService.NewSessionService(db, sessionRepo, employeeRepo)
	reconciliationSvc := reconciliationService.NewReconciliationService(
		db,
		employeeRepo,
		aggregateRepo,
		reconciliationService.Ledgers{
			Attendance: attendanceService.NewLedger(attendanceRepo),
			Leave:      leaveService.NewLedger(leaveRequestRepo),
			Session:    sessionService.NewLedger(sessionRepo),
		},
		aggregateCache,
		cfg.Reconcile.Workers,
		logger,
	)
	payrollSvc := payrollService.NewPayrollService(
		db,
		payrollRepo,
		employeeRepo,
		aggregateRepo,
		paymentRepo,
		policy.Payroll(),
		payrollCache,
	)
	paymentSvc := paymentService.NewPaymentService(db, paymentRepo, payrollRepo, fileService, payrollCache)

	router := appHTTP.NewRouter(
		JWTService,
		appHTTP.Handlers{
			Reconciliation: appHTTP.NewReconciliationHandler(reconciliationSvc),
			Payroll:        appHTTP.NewPayrollHandler(payrollSvc),
			Payment:        appHTTP.NewPaymentHandler(paymentSvc, cfg.App.ProofMaxUploadSize),
			Attendance:     appHTTP.NewAttendanceHandler(attendanceSvc),
			Leave:          appHTTP.NewLeaveHandler(leaveSvc),
			Session:        appHTTP.NewSessionHandler(sessionSvc),
		},
		appHTTP.RouterOptions{
			Logger:         logger,
			AllowedOrigins: cfg.App.AllowedOrigins,
		},
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func newLogger(app config.AppConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(app.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With("service", "payroll-engine", "env", app.Env)
}
