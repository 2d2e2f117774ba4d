package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	// Define root command
	rootCmd := &cobra.Command{
		Use:   "flickfinder",
		Short: "Movie discovery service backed by a search index and a canonical store",
	}

	rootCmd.PersistentFlags().String("config", "", "path to configuration file")

	// Add subcommands
	rootCmd.AddCommand(
		NewServeCommand(),
		NewIngestCommand(),
		NewReindexCommand(),
		NewVersionCommand(),
	)

	return rootCmd
}
