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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gleydsonsoares/openbsd-ldapd/internal/backend"
	"github.com/gleydsonsoares/openbsd-ldapd/internal/config"
	"github.com/gleydsonsoares/openbsd-ldapd/internal/logging"
	"github.com/gleydsonsoares/openbsd-ldapd/internal/metrics"
	"github.com/gleydsonsoares/openbsd-ldapd/internal/namespace"
	"github.com/gleydsonsoares/openbsd-ldapd/internal/rest"
	"github.com/gleydsonsoares/openbsd-ldapd/internal/storage"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the directory server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if errs := config.Validate(cfg); len(errs) > 0 {
				for _, err := range errs {
					fmt.Fprintf(cmd.ErrOrStderr(), "config: %v\n", err)
				}
				return fmt.Errorf("invalid configuration")
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "/etc/ldapd.yaml", "Path to the configuration file")
	return cmd
}

// serve assembles the server from its configuration and runs it until the
// context is cancelled or a termination signal arrives.
func serve(parent context.Context, cfg *config.Config) error {
	output := os.Stderr
	if cfg.Logging.Output == "stdout" {
		output = os.Stdout
	}
	log := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		JSON:   cfg.Logging.Format == "json",
		Output: output,
	})

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	manager := namespace.NewManager()
	var containers []storage.Container
	for _, nc := range cfg.Namespaces {
		container := storage.NewMemContainer()
		containers = append(containers, container)
		ns := namespace.New(namespace.Config{
			Suffix:     nc.Suffix,
			Relax:      nc.Relax,
			QueueDepth: nc.QueueDepth,
		}, container, log, m)
		manager.Add(ns)
		log.Info("namespace open", "suffix", ns.Suffix(), "relax", nc.Relax)
	}
	manager.SetReferrals(cfg.BuildReferrals())

	b := backend.New(backend.Config{
		Schema:     cfg.BuildSchema(),
		ACL:        cfg.BuildACL(),
		Namespaces: manager,
		Logger:     log,
		Metrics:    m,
	})

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Server.APIAddress != "" {
		apiCfg := rest.DefaultServerConfig()
		apiCfg.Address = cfg.Server.APIAddress
		api := rest.NewServer(apiCfg, b, log)

		g.Go(func() error {
			if err := api.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return api.Shutdown(shutdownCtx)
		})
	}

	if cfg.Server.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: cfg.Server.MetricsAddress, Handler: mux}

		g.Go(func() error {
			log.Info("metrics listening", "address", cfg.Server.MetricsAddress)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		return nil
	})

	err := g.Wait()

	for _, container := range containers {
		if cerr := container.Close(); cerr != nil {
			log.Warn("container close failed", "error", cerr)
		}
	}
	log.Info("shutdown complete")
	return err
}
