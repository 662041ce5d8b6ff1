// Package ingest implements the command-line interface for running one
// ingestion batch across all configured sources.
package ingest

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/eventcrawl/cmd/common"
)

// Command creates the ingest command.
func Command() *cobra.Command {
	var only string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Run one ingestion batch",
		Long: `Scrape all enabled sources, normalize and deduplicate the
candidate events, resolve locations and organizers, and append the
survivors to the editorial queue.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.Build()
			if err != nil {
				return fmt.Errorf("failed to get dependencies: %w", err)
			}

			configs, err := deps.Loader.LoadSources()
			if err != nil {
				return fmt.Errorf("failed to load sources: %w", err)
			}

			if only != "" {
				filtered := configs[:0]
				for _, cfg := range configs {
					if cfg.Name == only {
						filtered = append(filtered, cfg)
					}
				}
				if len(filtered) == 0 {
					return fmt.Errorf("no source named %q", only)
				}
				configs = filtered
			}

			result, err := deps.Runner.Run(cmd.Context(), configs)
			if err != nil {
				return fmt.Errorf("ingestion failed: %w", err)
			}

			common.Printf("Scraped:    %d", result.Counts.Scraped)
			common.Printf("Added:      %d", result.Counts.Added)
			common.Printf("Duplicates: %d", result.Counts.Duplicates)
			common.Printf("Rejected:   %d", result.Counts.Rejected)
			common.Printf("Errors:     %d", result.Counts.Errors)

			for _, diag := range result.Diagnostics {
				common.PrintErrorf("[%s] %s: %s", diag.Kind, diag.Source, diag.Message)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&only, "source", "", "ingest a single source by name")

	return cmd
}
