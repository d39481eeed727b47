package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/Alijeyrad/founders_backend/cmd/http"
	systemcmd "github.com/Alijeyrad/founders_backend/cmd/system"
)

// version is stamped at build time with -ldflags "-X .../cmd.version=...".
var version = "dev"

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "founders",
		Short:   "Founders Monday application intake and member accounts",
		Version: version,
		Long: `founders runs the Founders Monday backend: the founder application form,
member registration and login, and the admin review API.

Configuration comes from --config (a YAML file, or a directory holding
config.yaml) and FOUNDERS_* environment variables.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "config.yaml", "config file or directory")

	root.AddCommand(
		httpcmd.NewHTTPCommand(),
		systemcmd.NewSystemCommand(),
	)
	return root
}

func Execute() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
