package system

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

const migrateTimeout = 5 * time.Minute

func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the users and submissions tables",
		Long: `Apply the schema to the configured database. Tables, columns and indexes
are only ever added, so running it against an up-to-date database is a no-op.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readConfig(cmd)
			if err != nil {
				return err
			}
			client, err := openRepo(cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
			defer cancel()

			if err := client.Migrate(ctx); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			cmd.Printf("Schema is up to date (%s).\n", cfg.Database.Driver)
			return nil
		},
	}
}
