package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"recolecta/internal/config"
	"recolecta/internal/logger"
	"recolecta/internal/metrics"
	"recolecta/internal/storage"
	"recolecta/internal/stores"
)

var rootCmd = &cobra.Command{
	Use:   "recolecta",
	Short: "Waste collection scheduling server",
	Long: `recolecta schedules household waste pickups, lets collection companies
assign collectors, and reports collected weight and points.

Running without a subcommand starts the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is everything a subcommand needs once configuration is loaded.
type app struct {
	cfg       config.Config
	kv        storage.KV
	metrics   *metrics.Manager
	users     *stores.UserStore
	requests  *stores.RequestStore
	logWriter io.Writer
}

func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logWriter, err := logger.Setup(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}

	kv, err := config.OpenKV(ctx, cfg)
	if err != nil {
		return nil, err
	}

	m := metrics.NewManager()
	users, err := stores.NewUserStore(ctx, kv, stores.WithObserver(m))
	if err != nil {
		kv.Close()
		return nil, err
	}
	requests, err := stores.NewRequestStore(ctx, kv, stores.WithObserver(m))
	if err != nil {
		kv.Close()
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"storage":  cfg.StorageDriver,
		"users":    len(users.Users()),
		"requests": len(requests.Requests()),
	}).Info("Stores ready")

	return &app{
		cfg:       cfg,
		kv:        kv,
		metrics:   m,
		users:     users,
		requests:  requests,
		logWriter: logWriter,
	}, nil
}

func (a *app) Close() {
	if err := a.kv.Close(); err != nil {
		logrus.WithError(err).Warn("Closing storage failed")
	}
}
