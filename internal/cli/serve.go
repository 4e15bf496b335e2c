package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/tinoosan/fluxo/internal/app"
	"github.com/tinoosan/fluxo/internal/httpapi"
)

func newServeCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API on HTTP_ADDR. The taxonomy is seeded into an empty
catalog on startup. SIGINT or SIGTERM shuts the server down gracefully.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withApp(cmd.Context(), func(a *app.App) error { return serve(cmd.Context(), a) })
		},
	}
}

func serve(ctx context.Context, a *app.App) error {
	if n := a.Catalog.Bootstrap(ctx); n > 0 {
		a.Log.Info("catalog bootstrapped", "categories", n)
	}
	if a.Config.DevSeed {
		if _, err := a.SeedDemo(ctx); err != nil {
			a.Log.Warn("dev seed failed", "err", err)
		}
	}
	srv := &http.Server{
		Addr:              a.Config.HTTPAddr,
		Handler:           httpapi.New(a.Services(), a.Config.JWT, a.Log).Handler(),
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("fluxo listening", "addr", srv.Addr, "auth", a.Config.JWT.Enabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctxShutdown); err != nil {
			a.Log.Error("server shutdown error", "err", err)
			return err
		}
		a.Log.Info("server stopped")
		return nil
	case err := <-errCh:
		a.Log.Error("server error", "err", err)
		return err
	}
}
