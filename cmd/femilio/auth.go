package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/crptmaveric/femilio-evidence/internal/errs"
	"github.com/crptmaveric/femilio-evidence/internal/model"
)

func loginCmd() *cobra.Command {
	var login, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		RunE: run(func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
			id, err := a.auth.Login(ctx, login, password)
			if errors.Is(err, errs.ErrUnauthorized) {
				return errors.New("invalid username or password")
			}
			if err != nil {
				return err
			}
			a.log.Info("signed in", zap.String("login", id.Login), zap.String("role", string(id.Role)))
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s %s (%s)\n", id.FirstName, id.LastName, id.Role)
			return nil
		}),
	}
	cmd.Flags().StringVar(&login, "login", "", "account login")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("login")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		RunE: run(func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
			if err := a.auth.Logout(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		}),
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: run(func(_ context.Context, a *app, cmd *cobra.Command, _ []string) error {
			id, err := currentUser(a)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s <%s> login=%s role=%s id=%d\n",
				id.FirstName, id.LastName, id.Email, id.Login, id.Role, id.ID)
			return nil
		}),
	}
}

func registerCmd() *cobra.Command {
	var firstName, lastName, login, email, password, role string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a doctor or admin account",
		RunE: run(func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
			u := &model.User{
				FirstName: firstName,
				LastName:  lastName,
				Login:     login,
				Email:     email,
				Password:  password,
				Role:      model.Role(role),
			}
			err := a.auth.Register(ctx, u)
			if errors.Is(err, errs.ErrAlreadyExists) {
				return errors.New("registration failed: login or email already taken")
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s account %s (id=%d)\n", u.Role, u.Login, u.ID)
			return nil
		}),
	}
	cmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&login, "login", "", "unique login")
	cmd.Flags().StringVar(&email, "email", "", "unique email")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.Flags().StringVar(&role, "role", string(model.RoleDoctor), "role: admin or doctor")
	for _, f := range []string{"first-name", "last-name", "login", "email", "password"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

// dashboardCmd routes by role the way the app's navigation does: admins land
// on the doctor list, doctors on the patient list.
func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the role-appropriate dashboard",
		RunE: run(func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
			id, err := currentUser(a)
			if err != nil {
				return err
			}
			if id.Role == model.RoleAdmin {
				return printDoctors(ctx, a, cmd)
			}
			return printPatients(ctx, a, cmd, "")
		}),
	}
}

func resetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop all data and recreate the schema",
		RunE: run(func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
			if !yes && !confirm(cmd, "Reset the database? This deletes all data.") {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			if err := a.auth.ResetAll(ctx); err != nil {
				return err
			}
			a.log.Warn("database reset")
			fmt.Fprintln(cmd.OutOrStdout(), "Database has been reset.")
			return nil
		}),
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "skip confirmation")
	return cmd
}

// confirm asks a yes/no question on stdin.
func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
