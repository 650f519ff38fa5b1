package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var contactDBPath string

// contactCmd represents the contact command group
var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Contact inspection commands",
	Long: `Commands for inspecting notification contacts.

These commands operate directly on the routing database file and are
intended for system administrators working on the daemon host.

Examples:
  # List all contacts
  relayctl contact list

  # List the members of one policy group
  relayctl contact list --group ops`,
}

var contactGroup string

// contactListCmd lists contacts
var contactListCmd = &cobra.Command{
	Use:   "list",
	Short: "List contacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openDatabase(contactDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()
		contacts, err := store.Contacts().List(ctx)
		if contactGroup != "" {
			contacts, err = store.Contacts().ContactsByGroup(ctx, contactGroup)
		}
		if err != nil {
			return fmt.Errorf("list contacts: %w", err)
		}

		if GetOutput() == "json" {
			data, _ := json.MarshalIndent(contacts, "", "  ")
			fmt.Println(string(data))
			return nil
		}

		if len(contacts) == 0 {
			fmt.Println("No contacts found.")
			return nil
		}

		fmt.Printf("\n%-6s  %-20s  %-16s  %-30s  %-10s  %s\n",
			"ID", "NAME", "PHONE", "EMAIL", "CHANNELS", "GROUPS")
		fmt.Println(strings.Repeat("-", 110))

		for _, c := range contacts {
			var channels []string
			if c.Active.SMS {
				channels = append(channels, "sms")
			}
			if c.Active.Email {
				channels = append(channels, "email")
			}
			fmt.Printf("%-6d  %-20s  %-16s  %-30s  %-10s  %s\n",
				c.ID,
				c.Name,
				c.Phone,
				c.Email,
				strings.Join(channels, ","),
				strings.Join(c.Groups, ","),
			)
		}
		fmt.Printf("\nTotal: %d contact(s)\n", len(contacts))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(contactCmd)
	contactCmd.AddCommand(contactListCmd)

	contactListCmd.Flags().StringVar(&contactDBPath, "db", defaultDBPath, "path to the routing database file")
	contactListCmd.Flags().StringVar(&contactGroup, "group", "", "only show members of this policy group")
}
