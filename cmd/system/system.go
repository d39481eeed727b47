package system

import "github.com/spf13/cobra"

// NewSystemCommand groups one-off operational tasks: schema setup, the
// first admin account and CLI docs.
func NewSystemCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "system",
		Short: "Database setup, admin accounts and docs",
		Example: `  founders system init
  founders system create-admin --email hello@foundersmonday.com`,
	}
	cmd.AddCommand(
		NewInitCommand(),
		NewMigrateCommand(),
		NewCreateAdminCommand(),
		NewGenDocsCommand(),
	)
	return cmd
}
