package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	notifyServer   string
	notifyToken    string
	notifyMethod   string
	notifyTitle    string
	notifyContent  string
	notifyGroups   []string
	notifyContacts []string
)

// notifyCmd sends a manual notification through the daemon
var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Send a manual notification",
	Long: `Send a manual notification through the daemon's admin API.

The notification goes through the daemon's dispatch path, so it is rate
limited and audit logged like any alert-driven notification. An admin
token is required; pass it with --token or the ALERTRELAY_TOKEN
environment variable.

Examples:
  # Text the ops group
  relayctl notify --method SMS --content "maintenance starting at 22:00" --group ops

  # Email two specific contacts
  relayctl notify --method Email --title "Heads up" --content "details follow" \
    --contact alice --contact bob`,
	RunE: func(cmd *cobra.Command, args []string) error {
		token := notifyToken
		if token == "" {
			token = os.Getenv("ALERTRELAY_TOKEN")
		}
		if token == "" {
			return fmt.Errorf("an API token is required (--token or ALERTRELAY_TOKEN)")
		}

		payload, err := json.Marshal(map[string]any{
			"method":        notifyMethod,
			"title":         notifyTitle,
			"content":       notifyContent,
			"policy_groups": notifyGroups,
			"contacts":      notifyContacts,
		})
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}

		url := notifyServer + "/api/v1/notifications"
		req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		client := &http.Client{Timeout: 30 * time.Second}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("send request: %w", err)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("server returned %s: %s", resp.Status, bytes.TrimSpace(body))
		}

		PrintVerbose("response: %s", body)
		fmt.Println("Notification sent.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(notifyCmd)

	notifyCmd.Flags().StringVar(&notifyServer, "server", "http://localhost:8080", "daemon API base URL")
	notifyCmd.Flags().StringVar(&notifyToken, "token", "", "admin API token (defaults to ALERTRELAY_TOKEN)")
	notifyCmd.Flags().StringVar(&notifyMethod, "method", "SMS", "delivery method: SMS or Email")
	notifyCmd.Flags().StringVar(&notifyTitle, "title", "", "message title (required for Email)")
	notifyCmd.Flags().StringVar(&notifyContent, "content", "", "message content (required)")
	notifyCmd.Flags().StringArrayVar(&notifyGroups, "group", nil, "policy group to notify (repeatable)")
	notifyCmd.Flags().StringArrayVar(&notifyContacts, "contact", nil, "contact name to notify (repeatable)")
	notifyCmd.MarkFlagRequired("content")
}
