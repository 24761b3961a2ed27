package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quicksortapp/quicksort/internal/auth"
	"github.com/quicksortapp/quicksort/internal/cli"
)

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}

	cmd.AddCommand(usersCreateCmd())
	return cmd
}

func usersCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		RunE:  runUsersCreate,
	}

	cmd.Flags().String("username", "", "display name (required)")
	cmd.Flags().String("email", "", "email address (required)")
	cmd.Flags().String("password", "", "password (required)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func runUsersCreate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	username, _ := cmd.Flags().GetString("username")
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	authSvc := auth.NewService(store, viper.GetDuration("auth.session_ttl"))
	user, err := authSvc.Register(ctx, username, email, password)
	if err != nil {
		return err
	}

	cmd.Println(cli.SuccessStyle.Render("created user " + user.Username + " (" + user.ID + ")"))
	return nil
}
