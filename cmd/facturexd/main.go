package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nmezrioui/facturex/internal/common"
	"github.com/nmezrioui/facturex/internal/convert"
	"github.com/nmezrioui/facturex/internal/extract"
	"github.com/nmezrioui/facturex/internal/llm"
	"github.com/nmezrioui/facturex/internal/llm/groq"
	"github.com/nmezrioui/facturex/internal/pipeline"
	"github.com/nmezrioui/facturex/internal/repository"
	"github.com/nmezrioui/facturex/internal/server"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(ctx, repository.Config{
		Driver:           cfg.Database.Driver,
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := repository.Migrate(db, logger); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.HealthCheck(ctx, db, 3*time.Second); err != nil {
		logger.Error("database health check failed", "error", err)
		os.Exit(1)
	}

	repos := repository.NewRepositorySet(db, logger)

	completer := groq.NewClient(groq.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	extractor := llm.NewExtractor(completer, logger)

	fallback := extract.NewFallbackExtractor(extract.FallbackConfig{
		DefaultSupplierName: cfg.Extract.DefaultSupplierName,
		DefaultCurrency:     cfg.Extract.DefaultCurrency,
		DateLayouts:         cfg.Extract.DateLayouts,
	}, logger)
	reconciler := extract.NewReconciler(fallback, cfg.Extract.DateLayouts, logger)

	pipe := pipeline.New(extractor, reconciler, repos.Invoices, pipeline.Config{
		DefaultCurrency: cfg.Extract.DefaultCurrency,
	}, logger)

	converter := convert.NewConverter(convert.Config{}, logger)

	srv := &http.Server{
		Addr:         cfg.Server.HTTPAddr,
		Handler:      server.New(converter, pipe, repos, logger).Router(),
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 5 * time.Minute,
	}

	go func() {
		logger.Info("http server listening", "addr", cfg.Server.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("stopped")
}
