package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"jobmatch-backend/internal/shared/auth"
	"jobmatch-backend/internal/users"
)

func (c *cli) tokenCmd() *cobra.Command {
	var userID, role, email string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a session token for local testing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if strings.TrimSpace(userID) == "" {
				return errors.New("--user-id is required")
			}
			parsed, ok := users.ParseRole(role)
			if !ok {
				return fmt.Errorf("unknown role %q", role)
			}
			tokens, err := auth.NewTokens(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL, cfg.Env)
			if err != nil {
				return err
			}
			token, err := tokens.Sign(auth.Principal{UserID: userID, Role: string(parsed)}, email)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "subject of the token")
	cmd.Flags().StringVar(&role, "role", string(users.RoleCandidate), "CANDIDATE or HR")
	cmd.Flags().StringVar(&email, "email", "", "optional email claim")
	return cmd
}
