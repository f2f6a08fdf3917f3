package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msomdec/zedny-portal/internal/service"
)

func newSeedAdminCmd(flags *rootFlags) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the admin account used by CREDENTIALS_SOURCE=db",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			setupLogger(cfg.SlogLevel())

			accounts, err := openAccounts(cmd.Context(), cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer accounts.Close()

			created, err := service.NewUserCredentials(accounts.Users(), cfg.BcryptCost).Seed(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "created account %s\n", email)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "account %s already exists\n", email)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", service.AdminEmail, "account email")
	cmd.Flags().StringVar(&password, "password", service.AdminPassword, "account password")
	return cmd
}
