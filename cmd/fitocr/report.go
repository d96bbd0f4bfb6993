package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fitocr/pkg/config"
	"fitocr/process/report"
)

func newReportCmd() *cobra.Command {
	var (
		username string
		month    string
		list     bool
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the monthly workout summary of a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return fmt.Errorf("--user is required")
			}
			st, err := openStore(config.FromEnv())
			if err != nil {
				return err
			}
			defer st.Close()
			return report.RunReport(cmd.OutOrStdout(), st, username, month, list)
		},
	}
	cmd.Flags().StringVar(&username, "user", "", "username")
	cmd.Flags().StringVar(&month, "month", time.Now().Format("2006-01"), "month (YYYY-MM)")
	cmd.Flags().BoolVar(&list, "list", false, "list every workout of the month")
	return cmd
}
