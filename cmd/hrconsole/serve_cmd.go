package main

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/iota-uz/hr-console/modules/hrm/presentation/controllers"
	"github.com/iota-uz/hr-console/pkg/metrics"
	"github.com/iota-uz/hr-console/pkg/middleware"
	"github.com/iota-uz/hr-console/pkg/server"
)

func newServeCmd(c *cli) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the console pages as JSON over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			if addr == "" {
				addr = a.conf.ServeAddr
			}
			opts := middleware.DefaultLoggerOptions()
			opts.RequestIDHeader = a.conf.API.RequestIDHeader
			srv := server.NewHTTPServer([]server.Controller{
				controllers.NewConsoleController(a.console, a.store, a.log),
				metrics.NewPrometheusController("/metrics", a.registry),
			}, middleware.WithLogger(a.log, opts))

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				a.log.WithField("addr", addr).Info("serving console")
				return srv.Serve(ctx, addr)
			})
			g.Go(func() error {
				// Pick up logins from other terminals without a restart.
				if err := a.store.Watch(ctx); err != nil && ctx.Err() == nil {
					a.log.WithError(err).Warn("session watch stopped")
				}
				return nil
			})
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default SERVE_ADDR)")
	return cmd
}
