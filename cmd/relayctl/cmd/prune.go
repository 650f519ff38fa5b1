package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	pruneDBPath    string
	pruneOlderThan time.Duration
)

// pruneCmd removes old alert lifecycle history
var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old alert lifecycle history",
	Long: `Remove alert history rows older than the given age.

Only closed lifecycle state is touched, the audit log is kept.

Examples:
  # Drop history older than 30 days (the default)
  relayctl prune

  # Keep a single week
  relayctl prune --older-than 168h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openDatabase(pruneDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		cutoff := time.Now().Add(-pruneOlderThan)
		PrintVerbose("Pruning alert history before %s", cutoff.Format(time.RFC3339))

		n, err := store.AlertHistory().DeleteBefore(context.Background(), cutoff)
		if err != nil {
			return fmt.Errorf("prune alert history: %w", err)
		}

		fmt.Printf("Removed %d alert history row(s)\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pruneCmd)

	pruneCmd.Flags().StringVar(&pruneDBPath, "db", defaultDBPath, "path to the routing database file")
	pruneCmd.Flags().DurationVar(&pruneOlderThan, "older-than", 30*24*time.Hour, "minimum age of rows to remove")
}
