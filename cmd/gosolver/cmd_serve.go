package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/njchilds90/gosolver/internal/config"
	"github.com/njchilds90/gosolver/internal/pipeline"
	"github.com/njchilds90/gosolver/internal/server"
	"github.com/njchilds90/gosolver/internal/tui"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr    string
		noWatch bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the solver page, JSON API and metrics over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg.Server
			if addr != "" {
				cfg.Addr = addr
			}
			if !cfg.Debug {
				gin.SetMode(gin.ReleaseMode)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(cfg, a.logger, a.metrics, a.speaker())
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return srv.Run(gctx) })
			if a.configPath != "" && !noWatch {
				g.Go(func() error {
					return config.Watch(gctx, a.configPath, a.reload(srv), func(err error) {
						a.logger.Warn("Config reload rejected", "path", a.configPath, "error", err)
					})
				})
			}
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload the config file when it changes")
	return cmd
}

// reload applies the settings a running server can change in place: the
// log level and the rate limit. Everything else needs a restart.
func (a *app) reload(srv *server.Server) func(config.Config) {
	return func(cfg config.Config) {
		a.logLevel.Set(cfg.Log.SlogLevel())
		srv.SetRateLimit(cfg.Server.RateLimit, cfg.Server.Burst)
		a.logger.Info("Config reloaded", "path", a.configPath, "level", cfg.Log.Level)
	}
}

func newInteractiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Edit both forms in a terminal UI",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.isTerminal() {
				return errors.New("interactive mode needs a terminal; use the linear or quadratic subcommands instead")
			}
			wb := pipeline.NewWorkbench(tui.Renderer(), a.pipelineOptions()...)
			defer wb.Close()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return tui.Run(ctx, wb, a.speaker())
		},
	}
}
