package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/eventboard/pkg/reminder"
	"github.com/matzehuels/eventboard/pkg/scheduler"
)

// remindersCommand groups the reminder queue subcommands.
func (c *CLI) remindersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reminders",
		Aliases: []string{"reminder"},
		Short:   "Inspect and deliver scheduled reminders",
	}

	cmd.AddCommand(c.remindersListCommand())
	cmd.AddCommand(c.remindersRunCommand())

	return cmd
}

// remindersListCommand creates the "reminders list" subcommand.
func (c *CLI) remindersListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List reminders that have not fired yet",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.openApp(ctx, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			jobs, err := a.queue.Pending(ctx)
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				printInfo("No reminders pending")
				return nil
			}

			es, err := a.board.List(ctx)
			if err != nil {
				return err
			}
			rows := make([][]string, len(jobs))
			for i, job := range jobs {
				title := StyleDim.Render("(deleted)")
				var p reminder.Payload
				if json.Unmarshal(job.Payload, &p) == nil {
					if ev, ok := es.Find(p.EventID); ok {
						title = ev.Title
					}
				}
				rows[i] = []string{shortID(job.ID), job.RunAt.Local().Format(time.DateTime), until(job.RunAt), title}
			}

			headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			fmt.Fprintln(stdout, table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("Job", "Runs at", "In", "Event").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == -1 {
						return headerStyle.Padding(0, 1)
					}
					return lipgloss.NewStyle().Padding(0, 1)
				}).
				Render())
			return nil
		},
	}
}

// remindersRunCommand creates the "reminders run" subcommand.
func (c *CLI) remindersRunCommand() *cobra.Command {
	var once bool
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Deliver due reminders",
		Long: `Deliver due reminders to every attendee's inbox.

Without --once the command keeps polling until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				interval = c.cfg.Reminder.Interval.Duration
			}
			return c.runReminders(cmd.Context(), once, interval)
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "deliver what is due now and exit")
	cmd.Flags().DurationVar(&interval, "interval", 0, "poll interval (default: config interval)")

	return cmd
}

func (c *CLI) runReminders(ctx context.Context, once bool, interval time.Duration) error {
	a, err := c.openApp(ctx, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	w := c.newWorker(a, interval)
	if !once {
		return w.Run(ctx)
	}

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, "Delivering due reminders...")
	spinner.Start()
	n, err := w.RunOnce(ctx)
	if err != nil {
		spinner.StopWithError("Claiming reminders failed after delivering %d", n)
		return err
	}
	spinner.Stop()
	prog.done("reminders delivered")

	if n == 0 {
		printInfo("No reminders due")
		return nil
	}
	printSuccess("Delivered %d reminder(s)", n)
	return nil
}

// newWorker returns a worker delivering reminders through the inbox.
func (c *CLI) newWorker(a *app, interval time.Duration) *scheduler.Worker {
	w := scheduler.NewWorker(a.queue, c.Logger, interval)
	w.Handle(reminder.JobName, reminder.Handler(a.board, c.messenger(a), c.Logger))
	return w
}

// until formats the time left before t, or "due" once it has passed.
func until(t time.Time) string {
	d := time.Until(t)
	if d <= 0 {
		return "due"
	}
	if d < time.Minute {
		return d.Round(time.Second).String()
	}
	return d.Round(time.Minute).String()
}
