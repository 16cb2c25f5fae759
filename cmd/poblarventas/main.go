// Package main arranca el servicio de volcado de ventas.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/edicionesgcc/poblar-ventas/internal/config"
	"github.com/edicionesgcc/poblar-ventas/internal/handler"
	"github.com/edicionesgcc/poblar-ventas/internal/mail"
	"github.com/edicionesgcc/poblar-ventas/internal/middleware"
	"github.com/edicionesgcc/poblar-ventas/internal/rate"
	"github.com/edicionesgcc/poblar-ventas/internal/repository"
	"github.com/edicionesgcc/poblar-ventas/internal/service"
	"github.com/edicionesgcc/poblar-ventas/internal/sheets"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mailbox, err := mail.NewClient(ctx, cfg.CredentialsFile)
	if err != nil {
		sugar.Fatalw("gmail initialization error", "error", err.Error())
	}

	var (
		ledger   service.Ledger
		registry service.Registry
	)
	if cfg.DatabaseURI != "" {
		repo, err := repository.NewPostgresRepository(cfg.DatabaseURI)
		if err != nil {
			sugar.Fatalw("database initialization error", "error", err.Error())
		}
		defer repo.Close()

		ledger = repo
		registry = repo
		sugar.Infow("using postgres backend")
	} else {
		sheet, err := sheets.NewClient(ctx, cfg.CredentialsFile, cfg.SpreadsheetID)
		if err != nil {
			sugar.Fatalw("sheets initialization error", "error", err.Error())
		}

		ledger = sheet.Ledger()
		registry = sheet.Registry()
		sugar.Infow("using spreadsheet backend", "spreadsheet", cfg.SpreadsheetID)
	}

	var rateSource service.RateSource
	if cfg.RateAPIAddress != "" {
		rateSource = rate.NewClient(cfg.RateAPIAddress)
	}

	svc := service.NewService(mailbox, ledger, registry, rateSource, cfg.Watermark, logger)

	authMiddleware := middleware.NewAuthMiddleware(cfg.AuthToken)
	h := handler.NewHandler(svc, logger, authMiddleware)

	r := h.SetupRouter()

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: r,
	}

	g, ctx := errgroup.WithContext(ctx)

	// Corridas periódicas contra la casilla
	g.Go(func() error {
		svc.StartPolling(ctx, cfg.PollInterval)
		return nil
	})

	// Servidor HTTP de administración
	g.Go(func() error {
		sugar.Infow("starting sales server", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown al cancelarse el contexto (señal o error en otra gorutina)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
