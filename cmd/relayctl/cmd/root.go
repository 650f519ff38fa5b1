// Package cmd contains the CLI commands for alertrelay.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/good-yellow-bee/alertrelay/internal/storage"
)

const defaultDBPath = "data/alertrelay.db"

var (
	// Used for flags
	verbose bool
	output  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "relayctl",
	Short: "AlertRelay - operator tooling",
	Long: `relayctl is the operator companion for the AlertRelay daemon.

It inspects the routing database directly and talks to the daemon's
admin API for actions that go through the dispatch path.

Examples:
  # List configured contacts
  relayctl contact list

  # Show the most recent audit log entries
  relayctl logs --limit 20

  # Mint an admin API token
  relayctl token --username ops --role admin

  # Send a manual notification through the daemon
  relayctl notify --method SMS --content "maintenance starting" --group ops`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "output format (table, json)")
}

// GetOutput returns the output format.
func GetOutput() string {
	return output
}

// PrintVerbose prints a message only if verbose mode is enabled.
func PrintVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Printf(format+"\n", args...)
	}
}

// openDatabase opens the routing database.
func openDatabase(path string) (*storage.SQLiteStorage, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("database file not found: %s", path)
	}

	store := storage.NewSQLiteStorage(path)
	if err := store.Open(); err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return store, nil
}
