package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cmlabs-hris/payroll-engine/internal/config"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/reconciliation"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
	"github.com/cmlabs-hris/payroll-engine/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/payroll-engine/internal/service/attendance"
	leaveService "github.com/cmlabs-hris/payroll-engine/internal/service/leave"
	reconciliationService "github.com/cmlabs-hris/payroll-engine/internal/service/reconciliation"
	sessionService "github.com/cmlabs-hris/payroll-engine/internal/service/session"
)

func main() {
	periodFlag := flag.String("period", "", "period to reconcile, YYYY-MM")
	employeesFlag := flag.String("employees", "", "comma separated employee ids; empty reconciles every active employee")
	workers := flag.Int("workers", 0, "worker count; defaults to RECONCILE_WORKERS")
	flag.Parse()

	p, err := period.Parse(*periodFlag)
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}
	if *workers < 1 {
		*workers = cfg.Reconcile.Workers
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.Options{
		MaxConns:    int32(*workers) + 2,
		LockTimeout: cfg.Database.LockTimeout,
	})
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	sessionRepo := postgresql.NewSessionRepository(db)

	svc := reconciliationService.NewReconciliationService(
		db,
		postgresql.NewEmployeeRepository(db),
		postgresql.NewAggregateRepository(db),
		reconciliationService.Ledgers{
			Attendance: attendanceService.NewLedger(attendanceRepo),
			Leave:      leaveService.NewLedger(leaveRequestRepo),
			Session:    sessionService.NewLedger(sessionRepo),
		},
		nil,
		*workers,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := svc.Reconcile(ctx, p, splitIDs(*employeesFlag))
	if err != nil {
		logger.Error("reconciliation failed", "period", p.String(), "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(reconciliation.NewBatchResponse(result)); err != nil {
		log.Fatal(err)
	}
	if len(result.Failed) > 0 {
		os.Exit(2)
	}
}

func splitIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
