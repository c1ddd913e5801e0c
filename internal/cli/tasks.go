package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"flexplan/internal/model"
	"flexplan/internal/service"
	"flexplan/internal/views"
)

func addCmd() *cobra.Command {
	var (
		due      string
		duration int
		flex     int
		color    string
		every    string
		interval int
		until    string
	)
	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Create a task; --every makes it a recurring series",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cfg, closer, err := openService()
			if err != nil {
				return err
			}
			defer closer()

			dueDate, err := time.ParseInLocation(model.DateLayout, due, time.UTC)
			if err != nil {
				return fmt.Errorf("parse --due: %w", err)
			}
			draft := service.Draft{
				Title:       joinArgs(args),
				Duration:    duration,
				DueDate:     dueDate,
				Flexibility: flex,
				Color:       color,
			}
			if draft.Color == "" {
				draft.Color = cfg.DefaultColor
			}
			if every != "" {
				draft.IsRecurring = true
				draft.RecurrencePattern = model.Pattern(every)
				draft.RecurrenceInterval = interval
				if until != "" {
					end, parseErr := time.ParseInLocation(model.DateLayout, until, time.UTC)
					if parseErr != nil {
						return fmt.Errorf("parse --until: %w", parseErr)
					}
					draft.RecurrenceEndDate = &end
				}
			}

			task, err := svc.Create(cmd.Context(), draft)
			var expErr *service.ExpansionError
			if errors.As(err, &expErr) {
				fmt.Fprintf(cmd.OutOrStdout(),
					"created %s, but expanding its series failed: %v\nrun `flexplan expand %s` to retry\n",
					expErr.Parent.ID, expErr.Err, expErr.Parent.ID)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s due %s\n", task.ID, task.DueDate.Format(model.DateLayout))
			return nil
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&duration, "duration", 30, "duration in minutes")
	cmd.Flags().IntVar(&flex, "flex", 0, "days the task may slip past its due date")
	cmd.Flags().StringVar(&color, "color", "", "display color (hex)")
	cmd.Flags().StringVar(&every, "every", "", "recurrence pattern: daily, weekly, monthly or yearly")
	cmd.Flags().IntVar(&interval, "interval", 1, "recurrence interval")
	cmd.Flags().StringVar(&until, "until", "", "recurrence end date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("due")
	return cmd
}

func listCmd() *cobra.Command {
	var fit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, one entry per recurring series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, closer, err := openService()
			if err != nil {
				return err
			}
			defer closer()

			var tasks []model.Task
			if fit > 0 {
				tasks, err = svc.FindFitting(cmd.Context(), fit)
			} else {
				tasks, err = svc.List(cmd.Context())
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), views.RenderList(tasks, time.Now()))
			return nil
		},
	}
	cmd.Flags().IntVar(&fit, "fit", 0, "only tasks that fit a free slot of this many minutes")
	return cmd
}

func doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done [id]",
		Short: "Mark a task complete",
		Args:  cobra.ExactArgs(1),
		RunE:  toggleRun(true),
	}
}

func reopenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reopen [id]",
		Short: "Mark a task incomplete again",
		Args:  cobra.ExactArgs(1),
		RunE:  toggleRun(false),
	}
}

func toggleRun(completed bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		svc, _, closer, err := openService()
		if err != nil {
			return err
		}
		defer closer()

		task, err := svc.Toggle(cmd.Context(), args[0], completed)
		if err != nil {
			return err
		}
		state := "open"
		if task.Completed {
			state = "done"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", task.ID, state)
		return nil
	}
}

func rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete a single task record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, closer, err := openService()
			if err != nil {
				return err
			}
			defer closer()

			if err := svc.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func expandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expand [parent-id]",
		Short: "Re-materialize the instances of a recurring task",
		Long: `Re-materialize the instances of a recurring task.

Instance creation can fail after the parent was already saved. This
command retries it; occurrences that already exist are left untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, closer, err := openService()
			if err != nil {
				return err
			}
			defer closer()

			n, err := svc.Reexpand(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "series has %d scheduled occurrences\n", n)
			return nil
		},
	}
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
