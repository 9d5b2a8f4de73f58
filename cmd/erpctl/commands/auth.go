package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OolalaDXB/outrenational/pkg/erpsdk"
)

func signupCmd() *cobra.Command {
	var req erpsdk.SignupRequest

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a tenant and its owner account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Password == "" {
				pw, err := promptSecret(cmd, "Owner password: ")
				if err != nil {
					return err
				}
				req.Password = pw
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()

			res, err := client.Signup(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created tenant %s (%s), owner %s\n", res.Slug, res.TenantID, res.UserID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.TenantName, "name", "", "company name")
	f.StringVar(&req.Slug, "slug", "", "tenant slug used at login")
	f.StringVar(&req.Country, "country", "", "ISO 3166 country code of the company")
	f.StringVar(&req.Currency, "currency", "", "ISO 4217 currency (default EUR)")
	f.StringVar(&req.OwnerEmail, "email", "", "owner email")
	f.StringVar(&req.OwnerName, "owner", "", "owner display name")
	f.StringVar(&req.Password, "password", "", "owner password (prompted when empty)")
	for _, name := range []string{"name", "slug", "country", "email"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func loginCmd() *cobra.Command {
	var req erpsdk.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session for later commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Password == "" {
				pw, err := promptSecret(cmd, "Password: ")
				if err != nil {
					return err
				}
				req.Password = pw
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()

			sess, err := client.Login(ctx, req)
			if err != nil {
				return err
			}
			if err := writeSession(sessionRecord(sess, serverURL)); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s as %s\n", req.Tenant, req.Email)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Tenant, "tenant", "", "tenant slug")
	f.StringVar(&req.Email, "email", "", "account email")
	f.StringVar(&req.Password, "password", "", "password (prompted when empty)")
	f.StringVar(&req.OTP, "otp", "", "current TOTP code when MFA is enabled")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the saved session and forget it",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession()
			if err != nil {
				return err
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()

			if err := sess.Revoke(ctx); err != nil {
				return err
			}
			return removeSession()
		},
	}
}
