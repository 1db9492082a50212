package main

import (
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"equipment-portal/pkg/config"
	"equipment-portal/pkg/constants"
	"equipment-portal/pkg/service"
)

// newTokenCmd signs an access token with the configured secret, for local
// testing without the identity provider.
func newTokenCmd() *cobra.Command {
	var (
		userID uint64
		role   string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID == 0 {
				return fmt.Errorf("--user is required")
			}
			if !slices.Contains(constants.Roles, role) {
				return fmt.Errorf("unknown role %q, want one of %v", role, constants.Roles)
			}
			cfg := config.New()
			if ttl <= 0 {
				ttl = cfg.JWT.AccessTokenTTL
			}
			token, err := service.NewJWTService(cfg.JWT.SecretKey, ttl).GenerateAccessToken(userID, role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().Uint64Var(&userID, "user", 0, "user id")
	cmd.Flags().StringVar(&role, "role", constants.RoleUser, "role: admin, handler, technician or user")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to JWT_ACCESS_TTL)")
	return cmd
}
