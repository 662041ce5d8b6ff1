// Package queuecmd implements the command-line interface for the
// editorial queue: listing pending items and deciding their fate.
package queuecmd

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/eventcrawl/cmd/common"
	"github.com/jonesrussell/eventcrawl/internal/domain"
)

// Command creates the queue command with its subcommands.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Manage the editorial queue",
		Long:  `List pending events and publish or reject them.`,
	}

	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newPublishCommand())
	cmd.AddCommand(newRejectCommand())
	cmd.AddCommand(newStatsCommand())

	return cmd
}

// renderItems displays the pending items in a table.
func renderItems(items []domain.PendingItem) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"ID", "Title", "Source", "Start", "Attention", "Enqueued"})

	for _, item := range items {
		start := ""
		if item.Event.HasStartTime() {
			start = item.Event.StartTime.Format(time.RFC3339)
		}
		t.AppendRow(table.Row{
			item.ID,
			item.Event.Title,
			item.Event.Source,
			start,
			item.NeedsAttention,
			item.EnqueuedAt.Format("2006-01-02 15:04"),
		})
	}

	t.Render()
}

// newListCommand creates a new list command
func newListCommand() *cobra.Command {
	var attention bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pending events",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.Build()
			if err != nil {
				return fmt.Errorf("failed to get dependencies: %w", err)
			}

			items, err := deps.Queue.List()
			if err != nil {
				return fmt.Errorf("failed to load queue: %w", err)
			}

			if attention {
				filtered := items[:0]
				for _, item := range items {
					if item.NeedsAttention {
						filtered = append(filtered, item)
					}
				}
				items = filtered
			}

			if len(items) == 0 {
				common.Printf("Queue is empty")
				return nil
			}

			renderItems(items)
			return nil
		},
	}

	cmd.Flags().BoolVar(&attention, "attention", false, "only show items flagged for attention")

	return cmd
}

// newPublishCommand creates a new publish command
func newPublishCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "publish <id>",
		Short: "Publish a pending event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.Build()
			if err != nil {
				return fmt.Errorf("failed to get dependencies: %w", err)
			}

			if err := deps.Queue.Publish(args[0]); err != nil {
				return fmt.Errorf("failed to publish: %w", err)
			}

			common.Printf("Published %s", args[0])
			return nil
		},
	}
}

// newRejectCommand creates a new reject command
func newRejectCommand() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "reject <id>",
		Short: "Reject a pending event",
		Long: `Reject a pending event. The rejection is remembered so recurring
submissions of the same event are dropped automatically.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.Build()
			if err != nil {
				return fmt.Errorf("failed to get dependencies: %w", err)
			}

			if err := deps.Queue.Reject(args[0], reason); err != nil {
				return fmt.Errorf("failed to reject: %w", err)
			}

			common.Printf("Rejected %s", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "optional rejection reason")

	return cmd
}

// newStatsCommand creates a new stats command
func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show queue statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.Build()
			if err != nil {
				return fmt.Errorf("failed to get dependencies: %w", err)
			}

			stats, err := deps.Queue.Stats()
			if err != nil {
				return fmt.Errorf("failed to collect stats: %w", err)
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendRows([]table.Row{
				{"Pending", stats.Pending},
				{"Needs attention", stats.NeedsAttention},
				{"Published", stats.Published},
				{"Rejected", stats.Rejected},
			})
			t.Render()
			return nil
		},
	}
}
