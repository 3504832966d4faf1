package main

import (
	"github.com/spf13/cobra"

	"github.com/baharkarakas/authmonitor/internal/models"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List and manage user accounts",
	}
	cmd.AddCommand(newUsersListCmd(), newUsersCreateCmd(), newUsersUpdateCmd(), newUsersDeleteCmd())
	return cmd
}

func newUsersListCmd() *cobra.Command {
	var lf listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users, optionally filtered by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			c := a.dashboard()
			if err := printNotices(a.out, c.Mount(cmd.Context())); err != nil {
				return err
			}
			c.SetUserQuery(lf.query)
			c.GoToUserPage(lf.page)
			return printUsers(a.out, c.Users())
		},
	}
	lf.register(cmd)
	return cmd
}

func newUsersCreateCmd() *cobra.Command {
	var form models.Credentials
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			return printResult(a.out, a.dashboard().CreateUser(cmd.Context(), form))
		},
	}
	credentialFlags(cmd, &form)
	return cmd
}

func newUsersUpdateCmd() *cobra.Command {
	var form models.Credentials
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a user's name and password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			return printResult(a.out, a.dashboard().UpdateUser(cmd.Context(), args[0], form))
		},
	}
	credentialFlags(cmd, &form)
	return cmd
}

func newUsersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			return printResult(a.out, a.dashboard().DeleteUser(cmd.Context(), args[0]))
		},
	}
}
