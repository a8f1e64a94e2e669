package cli

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/containerpak/cpakstore/internal/server"
	"github.com/containerpak/cpakstore/pkg/observability"
)

// serveCommand creates the command running the JSON API.
func (c *CLI) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the store as a JSON API",
		Long: `Serve the store as a JSON API.

Endpoints:
  GET /v1/categories                              store overview
  GET /v1/categories/{category}                   packages of a category
  GET /v1/categories/{category}/packages/{origin} one package in full
  GET /healthz                                    liveness and build info
  GET /metrics                                    Prometheus metrics

With the default --cache none every request resolves against the live
store. --cache memory or --cache redis keeps upstream documents between
requests for up to cache_ttl.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd)
		},
	}

	cmd.Flags().String("listen", server.DefaultListen, "bind address")
	c.bindFlags(cmd, map[string]string{keyListen: "listen"})

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command) error {
	ctx := cmd.Context()
	s, err := c.newSession(ctx)
	if err != nil {
		return fmt.Errorf("initialize session: %w", err)
	}
	defer s.Close()

	reg := newRegistry()
	defer observability.Reset()

	srv := server.New(s.resolver, server.Config{
		Listen:   c.config().Listen,
		Logger:   c.Logger,
		Gatherer: reg,
	})

	printInfo("Serving %s on %s", StyleHighlight.Render(c.config().IndexURL), StyleLink.Render("http://"+srv.Addr()))
	printCacheMode(c.config().Cache)
	return srv.Run(ctx)
}

// newRegistry creates a registry with the runtime collectors and registers
// the Prometheus hooks with it.
func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	p := observability.NewPrometheus(reg)
	observability.SetResolveHooks(p)
	observability.SetCacheHooks(p)
	observability.SetHTTPHooks(p)
	return reg
}
