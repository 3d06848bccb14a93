package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fitpay/fitpay-admin/internal/auth"
	"github.com/fitpay/fitpay-admin/internal/config"
	"github.com/fitpay/fitpay-admin/internal/console"
	"github.com/fitpay/fitpay-admin/internal/dashboard"
	"github.com/fitpay/fitpay-admin/internal/pkg/logger"
	"github.com/fitpay/fitpay-admin/internal/pkg/metrics"
	"github.com/fitpay/fitpay-admin/internal/worker"
	"github.com/fitpay/fitpay-admin/pkg/cep"
	"github.com/fitpay/fitpay-admin/pkg/client"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Service: "fitpay-console"})

	if err := run(cfg, log); err != nil {
		log.ErrorWithErr(err, "console stopped")
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := client.NewClient(client.Config{
		BaseURL:   cfg.Backend.BaseURL,
		UserAgent: "fitpay-console",
		HTTPClient: &http.Client{
			Timeout:   cfg.Backend.Timeout,
			Transport: metrics.InstrumentTransport(http.DefaultTransport),
		},
	})
	lookup := cep.NewClient(cep.Config{BaseURL: cfg.CEP.BaseURL, Timeout: cfg.CEP.Timeout})

	authn := auth.NewAuthenticator(cfg.Console.AdminEmail, cfg.Console.AdminPasswordHash, cfg.Console.SessionSecret, cfg.Console.SessionExpiry)
	if !authn.Enabled() {
		log.Warn("CONSOLE_ADMIN_PASSWORD_HASH not set, login is disabled")
	}

	board := dashboard.NewService(api, log)
	refresher := worker.NewDashboardRefresher(board, cfg.Dashboard.RefreshSchedule, log)
	if err := refresher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start dashboard refresher: %w", err)
	}
	defer refresher.Stop()

	srv, err := console.New(console.Deps{
		Client:    api,
		CEP:       lookup,
		Auth:      authn,
		Dashboard: board,
		Logger:    log,
		Config:    cfg.Console,
		PageSize:  cfg.Screen.PageSize,
	})
	if err != nil {
		return err
	}
	defer srv.Close()

	httpServer := &http.Server{
		Addr:         cfg.Console.Addr(),
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Console.ReadTimeout,
		WriteTimeout: cfg.Console.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(map[string]interface{}{
			"addr":    httpServer.Addr,
			"backend": cfg.Backend.BaseURL,
			"login":   authn.Enabled(),
		}).Info("Starting FitPay console")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down console")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Console.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
