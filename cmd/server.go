package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/appclacks/slo-dashboard/config"
	"github.com/appclacks/slo-dashboard/internal/database"
	"github.com/appclacks/slo-dashboard/internal/http"
	"github.com/appclacks/slo-dashboard/internal/http/handlers"
	"github.com/appclacks/slo-dashboard/internal/localstore"
	"github.com/appclacks/slo-dashboard/internal/memory"
	"github.com/appclacks/slo-dashboard/internal/tracing"
	"github.com/appclacks/slo-dashboard/internal/validator"
	"github.com/appclacks/slo-dashboard/pkg/dashboard"
	"github.com/appclacks/slo-dashboard/pkg/slo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const defaultDashboardInterval = 30 * time.Second

type sloStore interface {
	slo.Store
	slo.DraftStore
}

func buildServerCmd(loggerFn func() *slog.Logger) *cobra.Command {
	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Runs the HTTP server",
		Run: func(cmd *cobra.Command, args []string) {
			logger := loggerFn()
			err := runServer(logger)
			if err != nil {
				logger.Error(err.Error())
				os.Exit(2)
			}

		},
	}
	return serverCmd
}

func buildStore(logger *slog.Logger, cfg config.Configuration) (sloStore, io.Closer, error) {
	switch cfg.Store.Backend {
	case "", config.BackendMemory:
		store, err := memory.New(logger, cfg.Memory)
		return store, nil, err
	case config.BackendPostgres:
		if err := validator.Validator.Struct(cfg.Database); err != nil {
			return nil, nil, fmt.Errorf("invalid database configuration: %w", err)
		}
		store, err := database.New(logger, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %s", cfg.Store.Backend)
}

func buildDraftStore(logger *slog.Logger, cfg config.Configuration, store sloStore) (slo.DraftStore, io.Closer, error) {
	if cfg.Drafts.Backend != config.BackendSQLite {
		return store, nil, nil
	}
	if err := validator.Validator.Struct(cfg.Drafts.SQLite); err != nil {
		return nil, nil, fmt.Errorf("invalid sqlite draft configuration: %w", err)
	}
	local, err := localstore.New(logger, cfg.Drafts.SQLite)
	if err != nil {
		return nil, nil, err
	}
	return local, local, nil
}

func runServer(logger *slog.Logger) error {
	file, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("fail to read configuration file: %w", err)
	}
	var cfg config.Configuration
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return fmt.Errorf("fail to parse yaml configuration file: %w", err)
	}
	if err := validator.Validator.Struct(cfg.Store); err != nil {
		return fmt.Errorf("invalid store configuration: %w", err)
	}
	if err := validator.Validator.Var(cfg.Drafts.Backend, "omitempty,oneof=store sqlite"); err != nil {
		return fmt.Errorf("invalid drafts configuration: %w", err)
	}
	interval := defaultDashboardInterval
	if cfg.Dashboard.Interval != "" {
		interval, err = time.ParseDuration(cfg.Dashboard.Interval)
		if err != nil {
			return fmt.Errorf("invalid dashboard interval %s: %w", cfg.Dashboard.Interval, err)
		}
	}

	shutdownTracing, err := tracing.Setup(context.Background(), logger, cfg.Tracing)
	if err != nil {
		return err
	}
	closers := []io.Closer{}
	defer func() {
		for _, closer := range closers {
			if err := closer.Close(); err != nil {
				logger.Error(fmt.Sprintf("fail to close store: %s", err.Error()))
			}
		}
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error(fmt.Sprintf("fail to shutdown tracing: %s", err.Error()))
		}
	}()

	store, closer, err := buildStore(logger, cfg)
	if err != nil {
		return err
	}
	if closer != nil {
		closers = append(closers, closer)
	}
	draftStore, closer, err := buildDraftStore(logger, cfg, store)
	if err != nil {
		return err
	}
	if closer != nil {
		closers = append(closers, closer)
	}
	drafts, err := slo.NewDrafts(logger, draftStore, cfg.Drafts.Key)
	if err != nil {
		return err
	}
	sloService := slo.New(logger, store, drafts)

	registry := prometheus.DefaultRegisterer.(*prometheus.Registry)
	dashboardService, err := dashboard.New(logger, store, registry, interval)
	if err != nil {
		return err
	}
	handlersBuilder := handlers.NewBuilder(sloService, dashboardService)
	server, err := http.NewServer(logger, cfg.HTTP, registry, handlersBuilder)
	if err != nil {
		return err
	}
	signals := make(chan os.Signal, 1)
	errChan := make(chan error, 1)

	signal.Notify(
		signals,
		syscall.SIGINT,
		syscall.SIGTERM)

	if err := server.Start(); err != nil {
		return err
	}
	dashboardService.Start()
	go func() {
		for sig := range signals {
			switch sig {
			case syscall.SIGINT, syscall.SIGTERM:
				logger.Info(fmt.Sprintf("received signal %s, starting shutdown", sig))
				signal.Stop(signals)
				dashboardService.Stop()
				errChan <- server.Stop()
				return
			}

		}
	}()
	exitErr := <-errChan
	return exitErr
}
