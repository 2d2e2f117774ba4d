package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// NewIngestCommand creates the ingest command
func NewIngestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Run one ingestion batch and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			return runIngest(cmd.Context(), configPath)
		},
	}
}

func runIngest(ctx context.Context, configPath string) error {
	app, err := newApplication(ctx, configPath)
	if err != nil {
		return err
	}
	defer app.cleanup()

	// Interrupts stop the batch at the next record boundary.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := app.ingest.Run(ctx)
	if stats != nil {
		fmt.Printf("fetched=%d updated=%d skipped=%d failed=%d\n",
			stats.Fetched, stats.Updated, stats.Skipped, stats.Failed)
	}
	return err
}
