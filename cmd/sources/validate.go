package sources

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/eventcrawl/cmd/common"
	"github.com/jonesrussell/eventcrawl/internal/scraper"
)

// newValidateCommand creates a new validate command
func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the source configuration",
		Long: `Load the source configuration and report entries whose type has
no registered scraper family.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.Build()
			if err != nil {
				return fmt.Errorf("failed to get dependencies: %w", err)
			}

			configs, err := deps.Loader.LoadSources()
			if err != nil {
				return fmt.Errorf("failed to load sources: %w", err)
			}

			registry := scraper.DefaultRegistry()
			invalid := 0
			for _, cfg := range configs {
				if _, resolveErr := registry.Resolve(cfg.Type); resolveErr != nil {
					invalid++
					common.PrintErrorf("%s: %v", cfg.Name, resolveErr)
				}
			}

			if invalid > 0 {
				return fmt.Errorf("%d source(s) have an unregistered type", invalid)
			}

			common.Printf("%d source(s) valid", len(configs))
			return nil
		},
	}
}
