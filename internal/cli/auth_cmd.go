package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/shiftbook/internal/auth"
	"github.com/alexanderramin/shiftbook/internal/cli/formatter"
	"github.com/alexanderramin/shiftbook/internal/domain"
)

// promptCredentials fills in missing credentials interactively, or fails
// when prompting is not possible.
func promptCredentials(app *App, email, password *string) error {
	if *email != "" && *password != "" {
		return nil
	}
	if !app.interactive() {
		return fmt.Errorf("--email and --password are required when not running in a terminal")
	}
	return credentialsForm(email, password).Run()
}

func newSignUpCmd(app *App) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := promptCredentials(app, &email, &password); err != nil {
				return err
			}
			u, err := app.Session.SignUp(commandContext(cmd), email, password)
			if errors.Is(err, auth.ErrConfirmationPending) {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Account created. "+capitalizeFirst(err.Error())+"."))
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Signed up as "+u.Email))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password (at least 6 characters)")
	return cmd
}

func newLoginCmd(app *App) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := promptCredentials(app, &email, &password); err != nil {
				return err
			}
			u, err := app.Session.SignIn(commandContext(cmd), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Signed in as "+u.DisplayName()))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, ok := app.Session.Current(); !ok {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Not signed in."))
				return nil
			}
			if err := app.Session.SignOut(commandContext(cmd)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Signed out"))
			return nil
		},
	}
}

func newWhoAmICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := app.Session.RequireUser()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatUser(u, app.Backend))
			return nil
		},
	}
}

func newAccountCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage your profile and password",
	}
	cmd.AddCommand(newAccountProfileCmd(app), newAccountPasswordCmd(app))
	return cmd
}

func newAccountProfileCmd(app *App) *cobra.Command {
	var name, avatar string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update your display name or avatar URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := domain.Profile{Name: strings.TrimSpace(name), AvatarURL: strings.TrimSpace(avatar)}
			if p.Name == "" && p.AvatarURL == "" {
				return fmt.Errorf("nothing to update: pass --name or --avatar-url")
			}
			u, err := app.Session.UpdateProfile(commandContext(cmd), p)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Profile updated"))
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatUser(u, app.Backend))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&avatar, "avatar-url", "", "Avatar image URL")
	return cmd
}

func newAccountPasswordCmd(app *App) *cobra.Command {
	var current, next string
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change your password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if current == "" || next == "" {
				if !app.interactive() {
					return fmt.Errorf("--current and --new are required when not running in a terminal")
				}
				if err := passwordForm(&current, &next).Run(); err != nil {
					return err
				}
			}
			if err := app.Session.UpdatePassword(commandContext(cmd), current, next); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Password changed"))
			return nil
		},
	}
	cmd.Flags().StringVar(&current, "current", "", "Current password")
	cmd.Flags().StringVar(&next, "new", "", "New password (at least 6 characters)")
	return cmd
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
