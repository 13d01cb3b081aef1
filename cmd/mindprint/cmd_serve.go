package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mindprint/internal/api"
	"mindprint/internal/catalog"
	"mindprint/internal/config"
	"mindprint/internal/engine"
	"mindprint/internal/logging"
	"mindprint/internal/profile"
	"mindprint/internal/session"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
			log := logging.Component("serve")

			cat, err := catalog.Load(cfg.Catalog.Path)
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}
			candidates, err := profile.Load(cfg.Profiles.Path)
			if err != nil {
				return fmt.Errorf("load profiles: %w", err)
			}

			store, err := session.NewSQLiteStore(cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("open session store: %w", err)
			}
			defer store.Close()

			auditor, err := logging.NewAuditor(store.DB())
			if err != nil {
				return fmt.Errorf("open auditor: %w", err)
			}

			eng, err := engine.New(engine.Options{
				Catalog:    cat,
				Candidates: candidates,
				Store:      store,
				Auditor:    auditor,
				Selector:   cfg.Selector,
				Retrieval:  cfg.Retrieval,
				Weights:    cfg.Weights,
			})
			if err != nil {
				return fmt.Errorf("build engine: %w", err)
			}

			srv := &http.Server{
				Addr:         cfg.Server.Addr,
				Handler:      api.NewServer(eng).Router(),
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info().
					Str("addr", cfg.Server.Addr).
					Int("questions", cat.Len()).
					Int("candidates", len(candidates)).
					Msg("listening")
				errCh <- srv.ListenAndServe()
			}()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			case sig := <-stop:
				log.Info().Str("signal", sig.String()).Msg("shutting down")
				ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(ctx); err != nil {
					return fmt.Errorf("shutdown: %w", err)
				}
			}
			return nil
		},
	}
}
