package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/good-yellow-bee/alertrelay/internal/models"
)

var (
	logsDBPath  string
	logsLimit   int
	logsAlertID string
)

// logsCmd shows the notification audit log
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the notification audit log",
	Long: `Show recent entries of the notification audit log, newest first.

Examples:
  # Show the last 20 entries
  relayctl logs --limit 20

  # Show every dispatch for one alert
  relayctl logs --alert AL123456`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openDatabase(logsDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()
		var (
			entries []models.MessageLogEntry
			total   int64
		)
		if logsAlertID != "" {
			entries, total, err = store.MessageLog().ListByAlert(ctx, logsAlertID, logsLimit, 0)
		} else {
			entries, total, err = store.MessageLog().List(ctx, logsLimit, 0)
		}
		if err != nil {
			return fmt.Errorf("list message log: %w", err)
		}

		if GetOutput() == "json" {
			data, _ := json.MarshalIndent(entries, "", "  ")
			fmt.Println(string(data))
			return nil
		}

		if len(entries) == 0 {
			fmt.Println("No log entries found.")
			return nil
		}

		fmt.Printf("\n%-20s  %-12s  %-20s  %-10s  %-6s  %s\n",
			"DATE", "ALERT", "HOST", "SEVERITY", "METHOD", "RECIPIENTS")
		fmt.Println(strings.Repeat("-", 100))

		for _, e := range entries {
			fmt.Printf("%-20s  %-12s  %-20s  %-10s  %-6s  %d\n",
				formatLogDate(e.Date),
				e.AlertID,
				e.Hostname,
				e.Severity,
				e.Method,
				len(e.Addresses),
			)
		}
		fmt.Printf("\nShowing %d of %d entrie(s)\n", len(entries), total)

		return nil
	},
}

// formatLogDate renders a unix-millisecond timestamp string for humans.
func formatLogDate(raw string) string {
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return raw
	}
	return time.UnixMilli(ms).Format("2006-01-02 15:04:05")
}

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().StringVar(&logsDBPath, "db", defaultDBPath, "path to the routing database file")
	logsCmd.Flags().IntVar(&logsLimit, "limit", 50, "maximum number of entries to show")
	logsCmd.Flags().StringVar(&logsAlertID, "alert", "", "only show entries for this alert id")
}
