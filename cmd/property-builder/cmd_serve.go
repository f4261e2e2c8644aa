package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"property-builder/internal/server"
)

const shutdownTimeout = 5 * time.Second

func (c *cli) newServeCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the builder over HTTP",
		Long: `Starts an HTTP server with:

  GET  /healthz
  POST /v1/build   body in JSON, YAML or TOML; ?format= and ?set=key=value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen == "" {
				listen = c.cfg.Server.Listen
			}

			return c.runServe(cmd, listen)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "Listen address (default from config)")

	return cmd
}

func (c *cli) runServe(cmd *cobra.Command, listen string) error {
	if !c.cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	router := server.NewRouter(server.Options{
		MaxBodyBytes: c.cfg.Server.MaxBodyBytes,
		Builder:      c.cfg.BuilderConfig(),
	}, c.logger.Named("http"))

	srv := &http.Server{
		Addr:              listen,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)

	go func() {
		c.logger.Info("listening", zap.String("addr", listen))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	c.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
