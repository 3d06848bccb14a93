package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Web console administration",
	}

	cmd.AddCommand(newAdminHashPasswordCmd())
	return cmd
}

func newAdminHashPasswordCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print the bcrypt hash for CONSOLE_ADMIN_PASSWORD_HASH",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = promptPassword(cmd, "Password: ")
			}
			if len(password) < 8 {
				return fmt.Errorf("password must have at least 8 characters")
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	return cmd
}
