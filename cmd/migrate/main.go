package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/payroll-engine/internal/config"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.Options{MaxConns: 2})
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	applied, err := migrations.Up(context.Background(), db)
	if err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	if len(applied) == 0 {
		logger.Info("schema up to date")
		return
	}
	logger.Info("migrations applied", "files", applied)
}
