package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewReindexCommand creates the reindex command
func NewReindexCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the search index from the canonical store",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")

			app, err := newApplication(cmd.Context(), configPath)
			if err != nil {
				return err
			}
			defer app.cleanup()

			indexed, err := app.ingest.Reindex(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("indexed %d movies\n", indexed)
			return nil
		},
	}
}
