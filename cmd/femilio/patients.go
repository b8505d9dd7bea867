package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/crptmaveric/femilio-evidence/internal/form"
	"github.com/crptmaveric/femilio-evidence/internal/model"
)

func patientsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patients",
		Short: "List, add, and edit patient records",
	}
	cmd.AddCommand(patientsListCmd(), patientsShowCmd(), patientsAddCmd(), patientsEditCmd())
	return cmd
}

func patientsListCmd() *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List patients, optionally filtered by name",
		RunE: run(func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
			return printPatients(ctx, a, cmd, search)
		}),
	}
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive name filter")
	return cmd
}

func printPatients(ctx context.Context, a *app, cmd *cobra.Command, search string) error {
	patients, err := a.patients.Search(ctx, search)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tBIRTH NO.\tADDRESS\tPHOTO")
	for _, p := range patients {
		photo := "-"
		if p.PhotoKey != "" {
			photo = "yes"
		}
		fmt.Fprintf(w, "%d\t%s %s\t%s\t%s\t%s\n", p.ID, p.FirstName, p.LastName, p.BirthNumber, p.Address, photo)
	}
	return w.Flush()
}

func patientsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one patient record",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "patient")
			if err != nil {
				return err
			}
			p, err := a.patients.Get(ctx, id)
			if err != nil {
				return err
			}
			addr := model.DecodeAddress(p.Address)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:         %s %s\n", p.FirstName, p.LastName)
			fmt.Fprintf(out, "Birth number: %s\n", p.BirthNumber)
			fmt.Fprintf(out, "Diagnosis:    %s\n", p.Diagnosis)
			fmt.Fprintf(out, "Street:       %s\n", addr.Street)
			fmt.Fprintf(out, "City:         %s\n", addr.City)
			fmt.Fprintf(out, "Postal code:  %s\n", addr.PostalCode)
			fmt.Fprintf(out, "Country:      %s\n", addr.Country)
			fmt.Fprintf(out, "Doctor ID:    %d\n", p.DoctorID)
			photo, err := a.patients.Photo(ctx, p.PhotoKey)
			if err != nil {
				return err
			}
			if photo == nil {
				fmt.Fprintln(out, "Photo:        none")
			} else {
				fmt.Fprintf(out, "Photo:        %d bytes (key %s)\n", len(photo), p.PhotoKey)
			}
			return nil
		}),
	}
}

// patientFlags is the flag set shared by the add and edit flows. Each flag
// maps onto one draft field update.
type patientFlags struct {
	firstName, lastName, diagnosis    string
	street, city, postalCode, country string
	birthNumber, photoPath            string
}

func (f *patientFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&f.lastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&f.diagnosis, "diagnosis", "", "diagnosis text")
	cmd.Flags().StringVar(&f.street, "street", "", "address: street")
	cmd.Flags().StringVar(&f.city, "city", "", "address: city")
	cmd.Flags().StringVar(&f.postalCode, "postal-code", "", "address: postal code")
	cmd.Flags().StringVar(&f.country, "country", "", "address: country")
	cmd.Flags().StringVar(&f.birthNumber, "birth-number", "", "birth number")
	cmd.Flags().StringVar(&f.photoPath, "photo", "", "path of a photo file to attach")
}

// apply reports each set flag to the draft as a field update, the same way
// the sub-forms report edits to the parent form.
func (f *patientFlags) apply(cmd *cobra.Command, d *form.Draft) error {
	updates := map[string]form.Update{
		"first-name":   {Field: form.FieldFirstName, Value: f.firstName},
		"last-name":    {Field: form.FieldLastName, Value: f.lastName},
		"diagnosis":    {Field: form.FieldDiagnosis, Value: f.diagnosis},
		"street":       {Field: form.FieldStreet, Value: f.street},
		"city":         {Field: form.FieldCity, Value: f.city},
		"postal-code":  {Field: form.FieldPostalCode, Value: f.postalCode},
		"country":      {Field: form.FieldCountry, Value: f.country},
		"birth-number": {Field: form.FieldBirthNumber, Value: f.birthNumber},
	}
	for name, u := range updates {
		if cmd.Flags().Changed(name) {
			d.Apply(u)
		}
	}
	if cmd.Flags().Changed("photo") {
		data, err := os.ReadFile(f.photoPath)
		if err != nil {
			return fmt.Errorf("read photo: %w", err)
		}
		d.SetCapturedImage(data)
	}
	return nil
}

func patientsAddCmd() *cobra.Command {
	var flags patientFlags
	var doctorID int64
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a patient record",
		RunE: run(func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
			docID := doctorID
			if !cmd.Flags().Changed("doctor-id") {
				id, err := currentUser(a)
				if err != nil {
					return err
				}
				docID = id.ID
			}

			if flags.firstName == "" || flags.lastName == "" || flags.birthNumber == "" {
				return errors.New("first name, last name, and birth number are required")
			}

			d := form.New(docID)
			if err := flags.apply(cmd, d); err != nil {
				return err
			}
			if !d.CanSave() {
				return errors.New("nothing to save")
			}

			id, err := a.patients.Save(ctx, d, nil)
			if err != nil {
				return err
			}
			a.log.Info("patient created", zap.Int64("id", id))
			fmt.Fprintf(cmd.OutOrStdout(), "Created patient %d\n", id)
			return nil
		}),
	}
	flags.register(cmd)
	cmd.Flags().Int64Var(&doctorID, "doctor-id", 0, "owning doctor (defaults to the signed-in user)")
	return cmd
}

func patientsEditCmd() *cobra.Command {
	var flags patientFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a patient record",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "patient")
			if err != nil {
				return err
			}
			p, err := a.patients.Get(ctx, id)
			if err != nil {
				return err
			}

			d := form.Load(p)
			if err := flags.apply(cmd, d); err != nil {
				return err
			}
			// Saving is only enabled while the draft differs from its
			// snapshot; re-applying stored values keeps it pristine.
			if !d.CanSave() {
				fmt.Fprintln(cmd.OutOrStdout(), "No changes.")
				return nil
			}

			if _, err := a.patients.Save(ctx, d, &id); err != nil {
				return err
			}
			a.log.Info("patient updated", zap.Int64("id", id))
			fmt.Fprintf(cmd.OutOrStdout(), "Updated patient %d\n", id)
			return nil
		}),
	}
	flags.register(cmd)
	return cmd
}

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad %s id %q", what, s)
	}
	return id, nil
}
