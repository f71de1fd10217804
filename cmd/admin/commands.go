package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"petchef/internal/models"
	"petchef/internal/repository"
	"petchef/internal/service"

	"github.com/spf13/cobra"
)

// storageFunc opens the storage lazily so --help works without a database.
type storageFunc func() (*repository.Storage, error)

func newRootCmd(open storageFunc) *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "PetChef account maintenance",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newListUsersCmd(open),
		newShowUserCmd(open),
		newDeleteUserCmd(open),
		newResetPasswordCmd(open),
	)
	return root
}

func newListUsersCmd(open storageFunc) *cobra.Command {
	var (
		query  string
		limit  int
		offset int
	)
	cmd := &cobra.Command{
		Use:   "list-users",
		Short: "List users, optionally filtered by username substring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := open()
			if err != nil {
				return err
			}
			users, err := store.Users.Search(cmd.Context(), query, limit, offset)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tCREATED")
			for _, u := range users {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, u.CreatedAt.Format("2006-01-02"))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Username substring")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum rows (capped at 100)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Rows to skip")
	return cmd
}

func newShowUserCmd(open storageFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "show-user <id|username>",
		Short: "Show a user's profile and activity counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open()
			if err != nil {
				return err
			}
			user, err := resolveUser(cmd.Context(), store.Users, args[0])
			if err != nil {
				return err
			}
			profile, err := store.Users.GetProfile(cmd.Context(), user.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "id:        %d\n", profile.ID)
			fmt.Fprintf(out, "username:  %s\n", profile.Username)
			fmt.Fprintf(out, "email:     %s\n", profile.Email)
			fmt.Fprintf(out, "pets:      %d\n", profile.PetsCount)
			fmt.Fprintf(out, "recipes:   %d\n", profile.RecipesCount)
			fmt.Fprintf(out, "followers: %d\n", profile.FollowersCount)
			fmt.Fprintf(out, "following: %d\n", profile.FollowingCount)
			return nil
		},
	}
}

func newDeleteUserCmd(open storageFunc) *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "delete-user <id|username>",
		Short: "Delete a user together with their pets, recipes, comments and social edges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return errors.New("refusing to delete without --yes")
			}
			store, err := open()
			if err != nil {
				return err
			}
			user, err := resolveUser(cmd.Context(), store.Users, args[0])
			if err != nil {
				return err
			}
			if err := store.Users.Delete(cmd.Context(), user.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted user %s (ID: %d)\n", user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirm, "yes", false, "Confirm the deletion")
	return cmd
}

func newResetPasswordCmd(open storageFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password <id|username> <new-password>",
		Short: "Set a new password for a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open()
			if err != nil {
				return err
			}
			user, err := resolveUser(cmd.Context(), store.Users, args[0])
			if err != nil {
				return err
			}
			// The service applies the same password rules as registration.
			users := service.NewUserService(store.Users)
			if _, err := users.UpdateProfile(cmd.Context(), user.ID, models.UserUpdate{Password: &args[1]}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password reset for %s (ID: %d)\n", user.Username, user.ID)
			return nil
		},
	}
}

// resolveUser accepts a numeric ID or a username.
func resolveUser(ctx context.Context, users repository.UserRepository, arg string) (*models.User, error) {
	if id, err := strconv.ParseUint(arg, 10, 64); err == nil && id > 0 {
		return users.GetByID(ctx, uint(id))
	}
	return users.GetByUsername(ctx, arg)
}
