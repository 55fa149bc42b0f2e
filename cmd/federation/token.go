package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fizato/federation/pkg/middleware"
)

func tokenCommand() *cobra.Command {
	var (
		role     string
		memberID int64
	)
	cmd := &cobra.Command{
		Use:   "token <subject>",
		Short: "Issue an API token",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := mustConfig(cmd)

			if role != middleware.RoleAdmin && role != middleware.RoleMember {
				slog.Error("role must be admin or member", "role", role)
				os.Exit(1)
			}
			var member *int64
			if memberID > 0 {
				member = &memberID
			}

			token, err := middleware.IssueToken(cfg.JWTSecret, args[0], role, member, cfg.TokenTTL)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			fmt.Println(token)
		},
	}
	cmd.Flags().StringVar(&role, "role", middleware.RoleMember, "role claim: admin or member")
	cmd.Flags().Int64Var(&memberID, "member", 0, "member ID linked to the account")
	return cmd
}
