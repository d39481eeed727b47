package http

import "github.com/spf13/cobra"

// NewHTTPCommand groups the commands that serve the public and admin API.
func NewHTTPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "http",
		Short:   "Serve the HTTP API",
		Example: "  founders http start --config /etc/founders/config.yaml",
	}
	cmd.AddCommand(NewStartCommand())
	return cmd
}
