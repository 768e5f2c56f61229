package commands

import (
	"github.com/spf13/cobra"

	"github.com/Elking123mi/vanelux-web/internal/core/domain"
	"github.com/Elking123mi/vanelux-web/internal/core/ports"
	"github.com/Elking123mi/vanelux-web/internal/infrastructure/store"
	"github.com/Elking123mi/vanelux-web/internal/report"
)

func newAccountCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Inspect and manage accounts",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(newAccountFindCmd(rt))
	cmd.AddCommand(newAccountListCmd(rt))
	cmd.AddCommand(newAccountUpsertCmd(rt))
	return cmd
}

func newAccountFindCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "find <username-or-email>",
		Short: "Show the active account a login identifier resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withStore(cmd.Context(), func(b *store.Backend) error {
				acc, err := b.Accounts.FindByLogin(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return report.New(cmd.OutOrStdout()).Account(acc)
			})
		},
	}
}

func newAccountListCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts of every status, optionally only those allowed into one app",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _ := cmd.Flags().GetString("app")
			limit, _ := cmd.Flags().GetInt("limit")

			return rt.withStore(cmd.Context(), func(b *store.Backend) error {
				accounts, err := b.Directory.ListAccounts(cmd.Context(), app, limit)
				if err != nil {
					return err
				}
				total, err := b.Directory.Count(cmd.Context())
				if err != nil {
					return err
				}
				return report.New(cmd.OutOrStdout()).Accounts(accounts, total)
			})
		},
	}
	cmd.Flags().String("app", "", "Only accounts allowed into this application")
	cmd.Flags().Int("limit", 0, "Maximum accounts to list (0 lists all)")
	return cmd
}

func newAccountUpsertCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upsert",
		Short: "Create an account, or reset the password, name, roles and apps of an existing email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			username, err := requireFlag(cmd, "username")
			if err != nil {
				return err
			}
			email, err := requireFlag(cmd, "email")
			if err != nil {
				return err
			}
			password, err := requireFlag(cmd, "password")
			if err != nil {
				return err
			}
			name, _ := cmd.Flags().GetString("name")
			roles, _ := cmd.Flags().GetStringSlice("role")
			apps, _ := cmd.Flags().GetStringSlice("app")
			status, _ := cmd.Flags().GetString("status")

			return rt.withStore(cmd.Context(), func(b *store.Backend) error {
				acc, err := rt.accountService(b).RegisterAccount(cmd.Context(), ports.RegisterAccountInput{
					Username:    username,
					Email:       email,
					Password:    password,
					FullName:    name,
					Roles:       roles,
					AllowedApps: apps,
					Status:      domain.AccountStatus(status),
				})
				if err != nil {
					return err
				}
				return report.New(cmd.OutOrStdout()).Account(acc)
			})
		},
	}

	cmd.Flags().String("username", "", "Login name (required)")
	cmd.Flags().String("email", "", "Email address; the upsert key (required)")
	cmd.Flags().String("password", "", "Plaintext password, hashed with bcrypt before storage (required)")
	cmd.Flags().String("name", "", "Full name")
	cmd.Flags().StringSlice("role", nil, "Role, repeatable")
	cmd.Flags().StringSlice("app", []string{domain.DefaultApp}, "Allowed application, repeatable")
	cmd.Flags().String("status", "", "Initial status for new accounts: active, suspended or disabled")
	return cmd
}
