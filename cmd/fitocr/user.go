package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"fitocr/models"
	"fitocr/pkg/config"
	"fitocr/pkg/store"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(newUserCreateCmd(), newUserPasswordCmd())
	return cmd
}

func newUserCreateCmd() *cobra.Command {
	var admin bool
	cmd := &cobra.Command{
		Use:   "create <username> <password>",
		Short: "Create a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(config.FromEnv())
			if err != nil {
				return err
			}
			defer st.Close()
			role := models.RoleUser
			if admin {
				role = models.RoleAdministrator
			}
			u, err := st.CreateUser(args[0], args[1], role)
			if errors.Is(err, store.ErrUserExists) {
				fmt.Fprintf(cmd.OutOrStdout(), "user %s already exists\n", args[0])
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s id=%d role=%s\n", u.Username, u.ID, role)
			return nil
		},
	}
	cmd.Flags().BoolVar(&admin, "admin", false, "grant the administrator role")
	return cmd
}

func newUserPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "password <username> <new-password>",
		Short: "Reset the password of a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(config.FromEnv())
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.SetPassword(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password updated for %s\n", args[0])
			return nil
		},
	}
}
