package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ersonp/famitree/internal/domain/services"
)

func newRemindersCmd() *cobra.Command {
	var (
		branch string
		all    bool
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "List upcoming birthdays and death anniversaries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(d *Deps) error {
				root := ""
				if !all {
					root = d.branchRoot(ctx, branch)
				}
				res, err := d.ReminderHandler.Handle(root, limit, time.Now())
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(os.Stdout, res)
				}
				printReminders(os.Stdout, "Birthdays", "turns", res.Birthdays)
				fmt.Println()
				printReminders(os.Stdout, "Death anniversaries", "years", res.Anniversaries)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&branch, "branch", "", "Limit to the descendants of this person (default: user's default_branch)")
	cmd.Flags().BoolVar(&all, "all", false, "Ignore the default branch")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Entries per list (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func printReminders(w io.Writer, title, yearsLabel string, reminders []services.Reminder) {
	fmt.Fprintf(w, "%s:\n", title)
	if len(reminders) == 0 {
		fmt.Fprintln(w, "  none")
		return
	}
	for _, r := range reminders {
		when := "today"
		switch {
		case r.DaysUntil == 1:
			when = "tomorrow"
		case r.DaysUntil > 1:
			when = fmt.Sprintf("in %d days", r.DaysUntil)
		}
		line := fmt.Sprintf("  %s  %-30s %s", r.Date.Format("02/01"), personLabel(r.Person), when)
		if r.Years > 0 {
			line += fmt.Sprintf(" (%s %d)", yearsLabel, r.Years)
		}
		fmt.Fprintln(w, line)
	}
}
