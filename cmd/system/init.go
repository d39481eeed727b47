package system

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/founders_backend/pkg/database"
)

func NewInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the application database if it does not exist",
		Long: `Connect to the postgres maintenance database and create database.name when it
is missing. SQLite files are created on first open, so this is a no-op there.
Run "system migrate" afterwards to create the tables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readConfig(cmd)
			if err != nil {
				return err
			}
			if err := database.InitializeDatabase(cfg); err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			cmd.Println("Database is ready.")
			return nil
		},
	}
}
