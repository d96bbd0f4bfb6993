package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fitocr/pkg/config"
	"fitocr/process/inspect"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database maintenance",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Print row counts and foreign keys of the workout tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			env := config.FromEnv()
			if env.DSN == "" {
				return fmt.Errorf("DB_DSN is not set")
			}
			return inspect.Run(cmd.Context(), cmd.OutOrStdout(), env.DSN)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the tables and seed the roles",
		RunE: func(cmd *cobra.Command, args []string) error {
			env := config.FromEnv()
			env.AutoMigrate = true
			st, err := openStore(env)
			if err != nil {
				return err
			}
			defer st.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "migration and seeding completed")
			return nil
		},
	})
	cmd.AddCommand(newDBResetCmd())
	return cmd
}

func newDBResetCmd() *cobra.Command {
	var (
		tables []string
		dryRun bool
		yes    bool
	)
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Truncate workout tables, then reseed the roles",
		RunE: func(cmd *cobra.Command, args []string) error {
			env := config.FromEnv()
			if env.DSN == "" {
				return fmt.Errorf("DB_DSN is not set")
			}
			if !dryRun && !yes {
				return fmt.Errorf("destructive operation: pass --yes to confirm")
			}
			if err := inspect.Reset(cmd.Context(), cmd.OutOrStdout(), env.DSN, tables, dryRun); err != nil {
				return err
			}
			if dryRun {
				return nil
			}
			st, err := openStore(env)
			if err != nil {
				return err
			}
			return st.Close()
		},
	}
	cmd.Flags().StringSliceVar(&tables, "tables", []string{"workouts", "screenshots"}, "tables to truncate")
	cmd.Flags().BoolVar(&dryRun, "dry-run", true, "print the statement only")
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the truncation")
	return cmd
}
