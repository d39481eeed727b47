package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func NewGenDocsCommand() *cobra.Command {
	var (
		outDir string
		format string
	)

	cmd := &cobra.Command{
		Use:   "gendocs",
		Short: "Generate CLI reference docs",
		Long: `Generate reference docs for every founders command.

Markdown goes to ./docs/cli by default; --format man writes section 1 man pages.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			abs, err := filepath.Abs(outDir)
			if err != nil {
				return fmt.Errorf("failed to resolve %q: %w", outDir, err)
			}
			if err := os.MkdirAll(abs, 0o755); err != nil {
				return fmt.Errorf("failed to create docs directory %q: %w", abs, err)
			}

			root := cmd.Root()
			root.DisableAutoGenTag = true

			switch format {
			case "markdown", "md":
				err = doc.GenMarkdownTree(root, abs)
			case "man":
				err = doc.GenManTree(root, &doc.GenManHeader{
					Title:   "FOUNDERS",
					Section: "1",
					Source:  "Founders Monday",
				}, abs)
			default:
				return fmt.Errorf("unknown format %q (want markdown or man)", format)
			}
			if err != nil {
				return fmt.Errorf("failed to generate CLI docs: %w", err)
			}

			fmt.Printf("CLI docs (%s) generated in %s\n", format, abs)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "outdir", "docs/cli", "output directory")
	cmd.Flags().StringVar(&format, "format", "markdown", "markdown or man")

	return cmd
}
