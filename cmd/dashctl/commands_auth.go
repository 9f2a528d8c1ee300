package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const passwordEnvVar = "DASH_PASSWORD"

var errNotLoggedIn = errors.New("not logged in")

func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx
}

// passwordOrEnv lets scripts keep the password out of the process arguments.
func passwordOrEnv(password string) (string, error) {
	if password != "" {
		return password, nil
	}
	if v := os.Getenv(passwordEnvVar); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("--password or %s is required", passwordEnvVar)
}

func newLoginCommand(a *app) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := passwordOrEnv(password)
			if err != nil {
				return err
			}
			a.store.Login(commandContext(cmd), username, pw)
			if err := a.report(); err != nil {
				return err
			}
			displayAppname(a.out, a.cfg.GetAppName())
			fmt.Fprintf(a.out, "logged in as %s\n", a.store.Snapshot().Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username")
	cmd.Flags().StringVar(&password, "password", "", "Password (default "+passwordEnvVar+")")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newSignupCommand(a *app) *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := passwordOrEnv(password)
			if err != nil {
				return err
			}
			a.store.Signup(commandContext(cmd), username, email, pw)
			return a.report()
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password (default "+passwordEnvVar+")")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.store.Snapshot().IsAuthenticated() {
				return errNotLoggedIn
			}
			if local {
				a.store.Logout()
				fmt.Fprintln(a.out, "stored session removed")
				return nil
			}
			a.store.EndSession(commandContext(cmd))
			return nil
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "Only forget the stored session, do not revoke it on the backend")
	return cmd
}

func newWhoamiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.store.Snapshot()
			if !s.IsAuthenticated() {
				return errNotLoggedIn
			}
			fmt.Fprintf(a.out, "username:  %s\n", s.Username)
			fmt.Fprintf(a.out, "superuser: %t\n", s.IsSuperuser)
			if !s.ExpiresAt.IsZero() {
				fmt.Fprintf(a.out, "expires:   %s\n", s.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}
