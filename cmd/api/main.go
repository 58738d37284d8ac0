package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/ledger-api/internal/config"
	"github.com/jwalitptl/ledger-api/internal/handler"
	patientHandler "github.com/jwalitptl/ledger-api/internal/handler/patient"
	reportHandler "github.com/jwalitptl/ledger-api/internal/handler/report"
	"github.com/jwalitptl/ledger-api/internal/repository/sqlite"
	"github.com/jwalitptl/ledger-api/internal/router"
	backupService "github.com/jwalitptl/ledger-api/internal/service/backup"
	ledgerService "github.com/jwalitptl/ledger-api/internal/service/ledger"
	reportService "github.com/jwalitptl/ledger-api/internal/service/report"
	"github.com/jwalitptl/ledger-api/pkg/logger"
)

func main() {
	lg := logger.NewLogger(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		lg.Fatal(err, "failed to load configuration")
	}

	// The request-logging middleware writes through zerolog's global
	// logger, so the configured level applies there too.
	zerolog.SetGlobalLevel(logger.Parse(cfg.Log.Level))
	lg = logger.NewLogger(&logger.Config{
		Level:      logger.Parse(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	})

	db, err := sqlite.NewDB(cfg.Database.Path)
	if err != nil {
		lg.Fatal(err, "failed to open database")
	}

	patientRepo := sqlite.NewPatientRepository(db)
	defer patientRepo.Close()

	ledgerSvc := ledgerService.NewService(patientRepo)
	if err := ledgerSvc.Load(context.Background()); err != nil {
		lg.Fatal(err, "failed to load ledger")
	}
	lg.WithFields(map[string]interface{}{
		"patients": ledgerSvc.Count(),
		"db":       cfg.Database.Path,
	}).Info("ledger loaded")

	reportSvc := reportService.NewService(ledgerSvc, cfg.Report.CacheTTL())
	backupSvc := backupService.NewService(ledgerSvc)

	r := router.NewRouter(
		patientHandler.NewHandler(ledgerSvc),
		reportHandler.NewHandler(reportSvc, backupSvc),
		handler.NewHandler(),
		router.Config{
			RateLimitRPS:   cfg.Server.RateLimitRPS,
			RateLimitBurst: cfg.Server.RateLimitBurst,
			RequestTimeout: cfg.Server.Timeout(),
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Fatal(err, "failed to start server")
		}
	}()
	lg.WithFields(map[string]interface{}{"port": cfg.Server.Port}).Info("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	lg.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Fatal(err, "server forced to shutdown")
	}

	lg.Info("server exited properly")
}
