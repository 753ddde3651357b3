package cli

import (
	"github.com/spf13/cobra"

	"github.com/i-am-a-shish/Ashish-portfolio/internal/preview"
	"github.com/i-am-a-shish/Ashish-portfolio/internal/view"
)

func newPreviewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Play the portfolio view in the terminal",
		Long: `Mount one portfolio view in the terminal: the boot banner, then the header
clock and visitor counter, the role typewriter and the stat count-ups.

Keys: m toggles the menu, d toggles dark mode, q quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			src, err := openContent(cfg, stderrLogger(cfg))
			if err != nil {
				return err
			}
			pf := src.Current()
			opts := view.DefaultOptions(pf)
			opts.Location = cfg.Location()
			opts.VisitorSeed = cfg.VisitorSeed
			return preview.Run(pf, opts)
		},
	}
}
