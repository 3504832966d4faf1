package main

import (
	"github.com/spf13/cobra"

	"github.com/baharkarakas/authmonitor/internal/api/validate"
	"github.com/baharkarakas/authmonitor/internal/models"
	"github.com/baharkarakas/authmonitor/internal/notify"
	"github.com/baharkarakas/authmonitor/internal/remote"
)

func credentialFlags(cmd *cobra.Command, c *models.Credentials) {
	cmd.Flags().StringVarP(&c.Username, "username", "u", "", "account name")
	cmd.Flags().StringVarP(&c.Password, "password", "p", "", "account password")
}

func newLoginCmd() *cobra.Command {
	var creds models.Credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Check credentials against the remote API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			if err := checkCredentials(creds); err != nil {
				return err
			}
			if _, err := a.client.Login(cmd.Context(), creds); err != nil {
				return printNotices(a.out, []notify.Notice{notify.Error(remote.ErrorMessage(err, "request failed"))})
			}
			return printNotices(a.out, []notify.Notice{notify.Success("login successful")})
		},
	}
	credentialFlags(cmd, &creds)
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var creds models.Credentials
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account through the public register endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			if err := checkCredentials(creds); err != nil {
				return err
			}
			resp, err := a.client.Register(cmd.Context(), creds)
			if err != nil {
				return printNotices(a.out, []notify.Notice{notify.Error(remote.ErrorMessage(err, "request failed"))})
			}
			msg := resp.Message
			if msg == "" {
				msg = "registration successful"
			}
			return printNotices(a.out, []notify.Notice{notify.Success(msg)})
		},
	}
	credentialFlags(cmd, &creds)
	return cmd
}

func checkCredentials(c models.Credentials) error {
	if errs := validate.Credentials(c); len(errs) > 0 {
		return errs
	}
	return nil
}
