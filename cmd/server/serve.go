package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"recolecta/internal/controllers"
	"recolecta/internal/latency"
	"recolecta/internal/middleware"
	"recolecta/internal/routes"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	hub := controllers.NewRequestHub(a.requests)
	tokens := middleware.NewTokenIssuer(a.cfg.JWTSecret, a.cfg.JWTTTL).WithRoleLookup(a.users.RoleOf)
	sim := latency.New(a.cfg.EffectiveLatencyScale())
	handler := controllers.NewHandler(a.users, a.requests, tokens, sim, hub)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           routes.SetupRouter(handler, a.metrics, a.logWriter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logrus.WithField("addr", srv.Addr).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logrus.Info("Shutting down")
		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
