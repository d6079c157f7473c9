// SPDX-License-Identifier: AGPL-3.0-only
package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/fluffyriot/hubsync/internal/api/handlers"
	"github.com/fluffyriot/hubsync/internal/config"
	"github.com/fluffyriot/hubsync/internal/database"
	"github.com/fluffyriot/hubsync/internal/middleware"
	"github.com/fluffyriot/hubsync/internal/syncer"
	"github.com/fluffyriot/hubsync/internal/worker"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

type ServeOptions struct {
	*RootOptions
	Addr string
}

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the periodic sync scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", ":8080", "listen address (overrides HTTP_ADDR)")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.HTTPAddr = opts.Addr
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	db, err := config.LoadDatabase(ctx, cfg)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load database", err)
	}
	defer db.Close()

	store := database.NewStore(db)
	client := newHubClient(cfg)
	w := worker.NewWorker(ctx, syncer.New(store, client), client, cfg)
	w.Start(cfg.Sync.Interval)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.SecurityHeadersMiddleware(), middleware.AuthMiddleware(cfg.APIToken))
	handlers.RegisterRoutes(r, handlers.NewHandler(store, db, w, cfg))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Listening on %s", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			w.Stop()
			return WrapExitError(ExitCommandError, "http server failed", err)
		}
	case <-ctx.Done():
		log.Println("Shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	w.Stop()

	return nil
}
