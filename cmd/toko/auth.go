package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/toko/internal/cli"
	"github.com/Veraticus/toko/internal/common"
	"github.com/spf13/cobra"
)

const minPasswordLength = 6

func loginCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the store",
		Long: `Log in with your store account. The session is saved locally so later
commands can reach your cart, wishlist and orders.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			p := a.prompter()
			if strings.TrimSpace(email) == "" {
				if email, err = p.AskRequired(ctx, "Email:", ""); err != nil {
					return err
				}
			}
			password, err := p.AskPassword(ctx, "Password:")
			if err != nil {
				return err
			}
			if password == "" {
				return common.NewUserError("A password is required.", common.ErrInvalidInput)
			}

			manager, err := a.sessions(ctx)
			if err != nil {
				return err
			}

			sess, err := manager.Login(ctx, strings.TrimSpace(email), password)
			if errors.Is(err, common.ErrUnauthorized) {
				return common.NewUserError("Login failed: check your email and password.", err)
			}
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			name := sess.User.Name
			if name == "" {
				name = sess.User.Email
			}
			fmt.Fprintln(a.out, cli.FormatSuccess(fmt.Sprintf("Logged in as %s", name)))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (prompted when omitted)")

	return cmd
}

func registerCmd() *cobra.Command {
	var (
		name  string
		email string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a store account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			p := a.prompter()
			if strings.TrimSpace(name) == "" {
				if name, err = p.AskRequired(ctx, "Name:", ""); err != nil {
					return err
				}
			}
			if strings.TrimSpace(email) == "" {
				if email, err = p.AskRequired(ctx, "Email:", ""); err != nil {
					return err
				}
			}
			password, err := p.AskPassword(ctx, "Password:")
			if err != nil {
				return err
			}
			if len(password) < minPasswordLength {
				return common.NewUserError(
					fmt.Sprintf("Passwords must be at least %d characters.", minPasswordLength),
					common.ErrInvalidInput)
			}
			confirm, err := p.AskPassword(ctx, "Confirm password:")
			if err != nil {
				return err
			}
			if confirm != password {
				return common.NewUserError("Passwords do not match.", common.ErrInvalidInput)
			}

			if err := a.client.Register(ctx, strings.TrimSpace(name), strings.TrimSpace(email), password); err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}

			fmt.Fprintln(a.out, cli.FormatSuccess("Account created. Run 'toko login' to sign in."))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "your name (prompted when omitted)")
	cmd.Flags().StringVar(&email, "email", "", "account email (prompted when omitted)")

	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			manager, err := a.sessions(ctx)
			if err != nil {
				return err
			}

			err = manager.Logout(ctx)
			if errors.Is(err, common.ErrNoSession) {
				fmt.Fprintln(a.out, cli.FormatInfo("You are not logged in."))
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(a.out, cli.FormatSuccess("Logged out"))
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			client, sess, err := a.account(ctx)
			if err != nil {
				return err
			}

			user := sess.User
			if verify {
				me, err := client.Me(ctx)
				if err != nil {
					return a.accountError(ctx, err)
				}
				user = *me
			}

			lines := []string{
				fmt.Sprintf("%s %s", cli.BoldStyle.Render("Name: "), user.Name),
				fmt.Sprintf("%s %s", cli.BoldStyle.Render("Email:"), user.Email),
				fmt.Sprintf("%s %s", cli.BoldStyle.Render("Store:"), sess.BaseURL),
			}
			if sess.ExpiresAt != nil {
				remaining := sess.Remaining(time.Now()).Round(time.Minute)
				lines = append(lines, fmt.Sprintf("%s %s (in %s)",
					cli.BoldStyle.Render("Until:"), sess.ExpiresAt.Local().Format(time.DateTime), remaining))
			}

			fmt.Fprintln(a.out, cli.RenderBox(cli.UserIcon+" Account", strings.Join(lines, "\n")))
			return nil
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", false, "ask the store for the current profile")

	return cmd
}
