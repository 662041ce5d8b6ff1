// Package sources implements the command-line interface for managing
// event sources. It provides commands for listing and validating the
// configured sources.
package sources

import (
	"github.com/spf13/cobra"
)

// Command creates the sources command with its subcommands.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Manage event sources",
		Long:  `List and validate the sources events are ingested from.`,
	}

	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newValidateCommand())

	return cmd
}
