package main

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/crptmaveric/femilio-evidence/internal/repository"
)

func doctorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctors",
		Short: "List and edit doctor accounts",
	}
	cmd.AddCommand(doctorsListCmd(), doctorsEditCmd())
	return cmd
}

func doctorsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List doctor accounts",
		RunE: run(func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
			return printDoctors(ctx, a, cmd)
		}),
	}
}

func printDoctors(ctx context.Context, a *app, cmd *cobra.Command) error {
	doctors, err := a.doctors.List(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tLOGIN\tEMAIL")
	for _, d := range doctors {
		fmt.Fprintf(w, "%d\t%s %s\t%s\t%s\n", d.ID, d.FirstName, d.LastName, d.Login, d.Email)
	}
	return w.Flush()
}

func doctorsEditCmd() *cobra.Command {
	var firstName, lastName, login, email string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a doctor's profile fields",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("bad doctor id %q", args[0])
			}
			d, err := a.doctors.Get(ctx, id)
			if err != nil {
				return err
			}

			// Unset flags keep the stored value; password and role are not
			// editable from here.
			upd := repository.UserUpdate{
				FirstName: d.FirstName,
				LastName:  d.LastName,
				Login:     d.Login,
				Email:     d.Email,
			}
			if cmd.Flags().Changed("first-name") {
				upd.FirstName = firstName
			}
			if cmd.Flags().Changed("last-name") {
				upd.LastName = lastName
			}
			if cmd.Flags().Changed("login") {
				upd.Login = login
			}
			if cmd.Flags().Changed("email") {
				upd.Email = email
			}

			if err := a.doctors.Update(ctx, id, upd); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated doctor %d\n", id)
			return nil
		}),
	}
	cmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&login, "login", "", "unique login")
	cmd.Flags().StringVar(&email, "email", "", "unique email")
	return cmd
}
