package cli

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/i-am-a-shish/Ashish-portfolio/internal/config"
	"github.com/i-am-a-shish/Ashish-portfolio/internal/content"
)

var contentFile string

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Personal portfolio site",
		Long: `portfolio serves a single-page personal portfolio: a boot banner, a
typewriter of role titles, a live clock and visitor counter, project and
experience sections and a contact form that opens the visitor's mail client.

Settings come from the environment; a .env file in the working directory is
loaded first.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&contentFile, "content", "", "portfolio YAML file (overrides PORTFOLIO_CONTENT)")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newPreviewCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			if version == "dev" || version == "" {
				version = "development"
			}
			if commit == "none" || commit == "" {
				commit = "local-build"
			}
			if date == "unknown" || date == "" {
				date = "local-build"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "portfolio %s (%s) built on %s\n", version, commit, date)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// loadConfig reads the environment and applies command-line overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if contentFile != "" {
		cfg.ContentFile = contentFile
	}
	return cfg, nil
}

// openContent returns the configured portfolio, falling back to the
// built-in one.
func openContent(cfg config.Config, logger *slog.Logger) (*content.Source, error) {
	if cfg.ContentFile == "" {
		pf, err := content.Default()
		if err != nil {
			return nil, err
		}
		return content.NewStaticSource(pf), nil
	}
	src, err := content.OpenFile(cfg.ContentFile, logger)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", cfg.ContentFile, err)
	}
	return src, nil
}

func stderrLogger(cfg config.Config) *slog.Logger {
	return cfg.NewLogger(os.Stderr)
}
