package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"flexplan/internal/views"
)

const guideMarkdown = `# flexplan

Tasks have a due date and a *flexibility window*: the number of days a
task may slip past its due date before it counts as overdue.

## Colors

- **green**: due date is still ahead
- **amber**: due today, or inside the flexibility window
- **red**: the window has closed

## Recurring tasks

` + "`add \"Water plants\" --due 2024-03-10 --every weekly --interval 2`" + `
creates a series: the parent plus up to 50 scheduled occurrences, one
every two weeks, until ` + "`--until`" + ` or one year out. Lists show only
the next occurrence of each series.

## Finding a task for a free slot

` + "`list --fit 15`" + ` shows open tasks that take 15 minutes or less.
`

func guideCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guide",
		Short: "Explain colors, flexibility windows and recurrence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), views.RenderMarkdown(guideMarkdown))
			return nil
		},
	}
}
