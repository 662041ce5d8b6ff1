// Package sources implements the command-line interface for managing
// event sources. This file contains the implementation of the list
// command that displays all configured sources in a formatted table.
package sources

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/eventcrawl/cmd/common"
	internalsources "github.com/jonesrussell/eventcrawl/internal/sources"
)

// TableRenderer handles the display of source data in a table format
type TableRenderer struct{}

// RenderTable formats and displays the sources in a table format
func (r *TableRenderer) RenderTable(configs []internalsources.Config) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Name", "Type", "URL", "Enabled", "Rate Limit", "Auto-Publish"})

	for _, cfg := range configs {
		t.AppendRow(table.Row{
			cfg.Name,
			cfg.Type,
			cfg.URL,
			cfg.Enabled,
			cfg.Options.RateLimit,
			cfg.Options.TrustAutoPublish,
		})
	}

	t.Render()
}

// newListCommand creates a new list command
func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configured sources",
		Long:  `List all event sources configured in the system.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.Build()
			if err != nil {
				return fmt.Errorf("failed to get dependencies: %w", err)
			}

			configs, err := deps.Loader.LoadSources()
			if err != nil {
				return fmt.Errorf("failed to load sources: %w", err)
			}

			if len(configs) == 0 {
				deps.Logger.Info("No sources configured")
				return nil
			}

			renderer := &TableRenderer{}
			renderer.RenderTable(configs)
			return nil
		},
	}
}
