package main

import (
	"fmt"

	"github.com/nikolayk812/storefront-cart/internal/auth"
	"github.com/spf13/cobra"
)

var (
	registerReq auth.RegisterRequest
	loginReq    auth.LoginRequest
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Demo account commands",
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log it in",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := env.auth.Register(cmd.Context(), registerReq)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "registered %s <%s> id=%s\n", user.Name, user.Email, user.ID)
		return nil
	},
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with email and password",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("email") {
			if email, ok, err := env.auth.RememberedEmail(cmd.Context()); err != nil {
				return err
			} else if ok {
				loginReq.Email = email
				loginReq.RememberMe = true
			}
		}

		user, err := env.auth.Login(cmd.Context(), loginReq)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s <%s>\n", user.Name, user.Email)
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the current user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return env.auth.Logout(cmd.Context())
	},
}

var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current user",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, ok, err := env.auth.CurrentUser(cmd.Context())
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "not logged in")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> phone=%s since=%s\n",
			user.Name, user.Email, user.Phone, user.CreatedAt.Format("2006-01-02"))
		return nil
	},
}

func init() {
	f := authRegisterCmd.Flags()
	f.StringVar(&registerReq.Name, "name", "", "full name")
	f.StringVar(&registerReq.Email, "email", "", "email address")
	f.StringVar(&registerReq.Phone, "phone", "", "phone number")
	f.StringVar(&registerReq.Password, "password", "", "password")
	f.StringVar(&registerReq.ConfirmPassword, "confirm-password", "", "password confirmation")
	f.BoolVar(&registerReq.AgreeTerms, "agree-terms", false, "agree to the terms and conditions")

	f = authLoginCmd.Flags()
	f.StringVar(&loginReq.Email, "email", "", "email address, defaults to the remembered one")
	f.StringVar(&loginReq.Password, "password", "", "password")
	f.BoolVar(&loginReq.RememberMe, "remember", false, "remember the email for the next login")

	authCmd.AddCommand(authRegisterCmd, authLoginCmd, authLogoutCmd, authWhoamiCmd)
}
