package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ersonp/famitree/internal/infrastructure/httpapi"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serves the JSON API under /api, plus /healthz and /metrics.

Writes need the ` + httpapi.UserHeader + ` header naming an admin from users.yaml.
With the file backend, edits made to the data file by other processes are
picked up while serving.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")

	return cmd
}

func runServe(cmd *cobra.Command, addr string) error {
	ctx := cmd.Context()

	if !globalVerbose {
		gin.SetMode(gin.ReleaseMode)
	}

	return withInternalDeps(ctx, func(d *internalDeps) error {
		if addr == "" {
			addr = d.Config.Server.Addr
		}

		updateSize := func() {
			g := d.store.Graph()
			d.metrics.SetTreeSize(len(g.People()), len(g.Relationships()))
		}
		updateSize()
		unsubscribe := d.store.Subscribe(updateSize)
		defer unsubscribe()

		router := httpapi.NewRouter(httpapi.Deps{
			Store:         d.store,
			Auth:          d.Auth,
			Metrics:       d.metrics,
			Logger:        d.logger,
			ReminderLimit: d.Config.Reminders.Limit,
		})

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return httpapi.Serve(gctx, addr, router, d.logger)
		})
		if d.files != nil {
			g.Go(func() error {
				return d.files.Watch(gctx, func() {
					if err := d.store.Reload(gctx); err != nil {
						d.logger.Warn("reloading family tree", "path", d.files.Path(), "error", err)
					}
				})
			})
		}

		fmt.Printf("Serving famitree on %s\n", addr)
		return g.Wait()
	})
}
