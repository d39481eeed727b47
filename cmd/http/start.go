package http

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/founders_backend/config"
	"github.com/Alijeyrad/founders_backend/internal/api/http"
	"github.com/Alijeyrad/founders_backend/pkg/logs"
)

func NewStartCommand() *cobra.Command {
	var stopTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the HTTP API server",
		Long: `Serve the application form, account and admin endpoints on server.port.
With database.migrations.auto_migrate set the schema is applied on startup.
SIGINT or SIGTERM drains in-flight requests and notification workers before
exiting.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			cfg, err := config.ReadConfig(cfgPath)
			if err != nil {
				return err
			}

			// Installed before fx so wiring logs use it too.
			logger, closeLogs := logs.New(cfg)
			defer closeLogs()
			slog.SetDefault(logger)

			return http.Start(cfg, stopTimeout)
		},
	}

	cmd.Flags().DurationVar(&stopTimeout, "shutdown-timeout", 30*time.Second, "maximum time to wait for graceful shutdown")
	return cmd
}
