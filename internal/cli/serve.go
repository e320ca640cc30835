package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cargoplan/pkg/cache"
	"github.com/matzehuels/cargoplan/pkg/server"
	"github.com/matzehuels/cargoplan/pkg/store"
)

// newServeCmd creates the serve command for running the HTTP API.
func newServeCmd() *cobra.Command {
	var (
		addr      string
		redisAddr string
		mongoURI  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the HTTP API server.

Exposes descriptor checking and feature resolution over HTTP. By default
plans are cached and persisted locally; point --redis-addr and --mongo-uri
at shared backends for multi-instance deployments.

Endpoints:
  POST /api/v1/check        validate a descriptor
  POST /api/v1/resolve      resolve a build plan
  GET  /api/v1/plans/{id}   fetch a resolved plan
  GET  /healthz             liveness probe

Examples:
  cargoplan serve
  cargoplan serve --addr :9090 --redis-addr localhost:6379 --mongo-uri mongodb://localhost:27017`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			var c cache.Cache
			if redisAddr != "" {
				rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redisAddr})
				if err != nil {
					return err
				}
				c = rc
				logger.Info("Using Redis cache", "addr", redisAddr)
			} else {
				c = newCache(false)
			}
			defer c.Close()

			var st store.Store
			if mongoURI != "" {
				ms, err := store.NewMongoStore(ctx, store.MongoConfig{URI: mongoURI})
				if err != nil {
					return err
				}
				st = ms
				logger.Info("Using MongoDB plan store")
			} else {
				fs, err := store.NewFileStore("")
				if err != nil {
					return err
				}
				st = fs
				logger.Info("Using file plan store", "dir", fs.Path())
			}
			defer st.Close()

			srv, err := server.New(server.Config{Cache: c, Store: st, Logger: logger})
			if err != nil {
				return err
			}

			httpSrv := &http.Server{
				Addr:              addr,
				Handler:           srv,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Listening", "addr", addr)
				errCh <- httpSrv.ListenAndServe()
			}()

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := httpSrv.Shutdown(shutdownCtx); err != nil {
					return err
				}
				logger.Info("Server stopped")
				return nil
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "", "Redis address for the plan cache (host:port)")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB URI for the plan store")

	return cmd
}
