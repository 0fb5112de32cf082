package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/perses-gateway/internal/config"
	"github.com/donaldgifford/perses-gateway/internal/telemetry"
	"github.com/donaldgifford/perses-gateway/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gateway API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:       cfg.Telemetry.OTLPEndpoint,
		Insecure:       cfg.Telemetry.Insecure,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: Version,
	}, logger.Component(log, "telemetry"))
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}

	srv, err := newServer(cfg, log)
	if err != nil {
		return err
	}

	if srv.scheduler != nil {
		srv.scheduler.Start()
		go srv.scheduler.RunNow(ctx) //nolint:errcheck // failures are logged by the scheduler
	}

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	log.Info("starting server",
		"addr", addr,
		"perses", cfg.Perses.URL,
		"kubernetes", cfg.Kubernetes.Enabled,
		"admin_check", cfg.AdminCheckEnabled(),
	)

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			log.Error("server error", "error", err)
		}
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if srv.scheduler != nil {
		<-srv.scheduler.Stop().Done()
	}
	if err := srv.echo.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("shutting down server: %w", err))
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("shutting down telemetry: %w", err))
	}

	log.Info("server stopped")
	return errors.Join(errs...)
}
