package cmd

import (
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/adalundhe/trailhead/core/api"
	"github.com/adalundhe/trailhead/core/config"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog REST API",
	Long: `Expose the catalog over HTTP. The config file is watched and
reloaded on change; address changes take effect on restart.

Examples:
  trailhead serve
  trailhead serve --addr :9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := newRuntime(ctx, false)
	if err != nil {
		return err
	}
	defer rt.close()

	rt.manager.OnChange(func(cfg *config.Config) {
		rt.logger.Info("serving with updated settings",
			slog.String("db", cfg.Database.Path),
			slog.String("addr", cfg.Server.Addr),
		)
	})
	if err := rt.manager.Watch(rt.logger); err != nil {
		rt.logger.Warn("config watch unavailable", slog.String("error", err.Error()))
	}

	addr := rt.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	server := api.NewServer(api.Config{
		Store:          rt.store,
		Addr:           addr,
		AllowedOrigins: rt.cfg.Server.AllowedOrigins,
		Logger:         rt.logger,
	})
	return server.Run(ctx)
}
