package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mindw/pipshow/internal/server"
	"github.com/mindw/pipshow/pkg/cache"
	"github.com/mindw/pipshow/pkg/dist"
	"github.com/mindw/pipshow/pkg/errors"
	"github.com/mindw/pipshow/pkg/inspect"
	"github.com/mindw/pipshow/pkg/pypi"
)

// serveCommand creates the serve command exposing reports over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		listen    string
		redisAddr string
		index     string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve package reports over HTTP",
		Long: `Serve the package inspector as a JSON API.

Every request re-reads the environment, so the answers stay accurate
while packages are installed or removed underneath the server. With
--redis, index lookups share one cache across instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), listen, redisAddr, index, noCache)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", ":8745", "address to listen on")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address for a shared index-response cache")
	cmd.Flags().StringVarP(&index, "index", "i", pypi.DefaultBaseURL, "base URL of the package index")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the index response cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, listen, redisAddr, index string, noCache bool) error {
	if err := errors.ValidateURL(index); err != nil {
		return err
	}
	roots, err := c.roots()
	if err != nil {
		return err
	}
	c.Logger.Info("serving environment", "roots", strings.Join(roots, ", "))

	backend, err := c.serveCache(ctx, redisAddr, noCache)
	if err != nil {
		return err
	}
	defer backend.Close()

	srv := server.New(server.Config{
		Snapshot: func() (*inspect.Index, inspect.MetadataSource, error) {
			return dist.Env{Roots: roots, Logf: c.Logger.Debugf}.Snapshot()
		},
		Latest: pypi.NewClient(backend, pypi.Options{BaseURL: index}),
		Logger: c.Logger,
	})
	return srv.Run(ctx, listen)
}

// serveCache picks the cache backend for serve mode: redis when an
// address is given, otherwise the file cache.
func (c *CLI) serveCache(ctx context.Context, redisAddr string, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, redisAddr)
		if err != nil {
			return nil, err
		}
		c.Logger.Info("using redis cache", "addr", redisAddr)
		return rc, nil
	}
	return newCache(false)
}
