package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func galleryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "Manage a patient's photo gallery",
	}
	cmd.AddCommand(galleryListCmd(), galleryAddCmd(), galleryRemoveCmd())
	return cmd
}

func galleryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <patient-id>",
		Short: "List a patient's gallery photos",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "patient")
			if err != nil {
				return err
			}
			keys, err := a.patients.Gallery(ctx, id)
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No photos.")
				return nil
			}
			for i, key := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%d of %d: %s\n", i+1, len(keys), key)
			}
			return nil
		}),
	}
}

func galleryAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <patient-id> <photo-file>",
		Short: "Append a photo to a patient's gallery",
		Args:  cobra.ExactArgs(2),
		RunE: run(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "patient")
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read photo: %w", err)
			}
			key, err := a.patients.GalleryAdd(ctx, id, data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added photo %s\n", key)
			return nil
		}),
	}
}

func galleryRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <patient-id> <index>",
		Short: "Delete the gallery photo at a 1-based index",
		Args:  cobra.ExactArgs(2),
		RunE: run(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "patient")
			if err != nil {
				return err
			}
			index, err := strconv.Atoi(args[1])
			if err != nil || index < 1 {
				return fmt.Errorf("bad photo index %q", args[1])
			}
			if err := a.patients.GalleryRemove(ctx, id, index-1); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted.")
			return nil
		}),
	}
}
