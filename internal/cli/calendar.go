package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"flexplan/internal/views"
)

func calCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cal [YYYY-MM]",
		Short: "Show the month calendar with due dots and flexibility spans",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now().UTC()
			year, month := now.Year(), now.Month()
			if len(args) == 1 {
				parsed, err := time.Parse("2006-01", args[0])
				if err != nil {
					return fmt.Errorf("parse month: %w", err)
				}
				year, month = parsed.Year(), parsed.Month()
			}

			svc, _, closer, err := openService()
			if err != nil {
				return err
			}
			defer closer()

			placed, err := svc.Month(cmd.Context(), year, month)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), views.RenderMonth(placed, now))
			return nil
		},
	}
}
