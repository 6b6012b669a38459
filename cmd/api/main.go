package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/rentbook/internal/app"
	"github.com/MrJamesThe3rd/rentbook/internal/config"
	rentbookHttp "github.com/MrJamesThe3rd/rentbook/internal/http"
	dashboardHandler "github.com/MrJamesThe3rd/rentbook/internal/http/dashboard"
	exportHandler "github.com/MrJamesThe3rd/rentbook/internal/http/export"
	statementHandler "github.com/MrJamesThe3rd/rentbook/internal/http/statement"
	taxprepHandler "github.com/MrJamesThe3rd/rentbook/internal/http/taxprep"
	txHandler "github.com/MrJamesThe3rd/rentbook/internal/http/transaction"
	"github.com/MrJamesThe3rd/rentbook/internal/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, logger.Format(cfg.Log.Format))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = logger.WithContext(ctx, log)

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start")
	}
	defer a.Close()

	handlers := rentbookHttp.Handlers{
		Transactions: txHandler.NewHandler(a.Transactions),
		Statements:   statementHandler.NewHandler(a.Statements, a.Ingest, cfg.Source.FolderID),
		Dashboard:    dashboardHandler.NewHandler(a.Dashboard),
		TaxPrep:      taxprepHandler.NewHandler(a.TaxPrep, a.Advisor),
		Export:       exportHandler.NewHandler(a.TaxPrep),
	}

	router := rentbookHttp.New(log, rentbookHttp.Options{
		CORSOrigins: cfg.App.CORSOrigins,
		Timeout:     cfg.Server.Timeout,
	}, handlers)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	log.Info().Str("addr", srv.Addr).Str("app", cfg.App.Name).Msg("starting server")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("server failed")
		os.Exit(1)
	}
}
