package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/good-yellow-bee/alertrelay/internal/api"
)

var (
	tokenUsername string
	tokenRole     string
	tokenTTL      time.Duration
)

// tokenCmd mints an admin API token
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an admin API token",
	Long: `Mint a signed JWT for the daemon's admin API.

The signing secret is read from the ALERTRELAY_JWT_SECRET environment
variable and must match the one the daemon runs with.

Available roles:
  - admin: full access, including mutations and manual notifications
  - viewer: read-only access

Example:
  relayctl token --username ops --role admin --ttl 24h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		secret := os.Getenv("ALERTRELAY_JWT_SECRET")
		if secret == "" {
			return fmt.Errorf("ALERTRELAY_JWT_SECRET environment variable is required")
		}

		switch tokenRole {
		case api.RoleAdmin, api.RoleViewer:
		default:
			return fmt.Errorf("role must be %q or %q", api.RoleAdmin, api.RoleViewer)
		}

		jwtService := api.NewJWTService(secret, tokenTTL)
		token, err := jwtService.GenerateToken(tokenUsername, tokenRole)
		if err != nil {
			return fmt.Errorf("generate token: %w", err)
		}

		fmt.Println(token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().StringVar(&tokenUsername, "username", "", "username embedded in the token (required)")
	tokenCmd.Flags().StringVar(&tokenRole, "role", api.RoleViewer, "role: admin or viewer")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	tokenCmd.MarkFlagRequired("username")
}
