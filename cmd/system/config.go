package system

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/founders_backend/config"
	"github.com/Alijeyrad/founders_backend/internal/repo"
	"github.com/Alijeyrad/founders_backend/pkg/database"
)

func readConfig(cmd *cobra.Command) (*config.Config, error) {
	cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.ReadConfig(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return cfg, nil
}

func openRepo(cfg *config.Config) (*repo.Client, error) {
	drv, err := database.NewEntDriver(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return repo.NewClient(drv), nil
}
