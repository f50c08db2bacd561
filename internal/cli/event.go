package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/eventboard/pkg/board"
	"github.com/matzehuels/eventboard/pkg/errors"
	"github.com/matzehuels/eventboard/pkg/event"
)

// eventCommand groups the event subcommands.
func (c *CLI) eventCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "event",
		Aliases: []string{"events"},
		Short:   "Post, list, delete and RSVP to events",
	}

	cmd.AddCommand(c.eventAddCommand())
	cmd.AddCommand(c.eventListCommand())
	cmd.AddCommand(c.eventShowCommand())
	cmd.AddCommand(c.eventDeleteCommand())
	cmd.AddCommand(c.eventRSVPCommand())

	return cmd
}

// eventAddCommand creates the "event add" subcommand.
func (c *CLI) eventAddCommand() *cobra.Command {
	var ev event.Event

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Post a new event",
		Long: `Post a new event to the top of the board.

Titles MUST be unique. Dates look like 12/31/2000 or 2000-12-31; times like
01:00am ET, 7pm or 19:00. A reminder is sent to everyone attending shortly
before the start.`,
		Example: `  eventboard event add --title "Go meetup" --date 12/31/2030 \
    --start "07:00pm ET" --end "09:00pm ET" --link https://example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEventAdd(cmd.Context(), ev)
		},
	}

	cmd.Flags().StringVarP(&ev.Title, "title", "t", "", "event title (must be unique)")
	cmd.Flags().StringVarP(&ev.Date, "date", "d", "", "event date (ex. 12/31/2000)")
	cmd.Flags().StringVarP(&ev.StartTime, "start", "s", "", "start time (ex. 01:00am ET)")
	cmd.Flags().StringVarP(&ev.EndTime, "end", "e", "", "end time (ex. 02:00am ET)")
	cmd.Flags().StringVarP(&ev.Link, "link", "l", "", "link to the event page")
	cmd.Flags().StringVar(&ev.Description, "description", "", "what the event is about")
	for _, name := range []string{"title", "date", "start", "end"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func (c *CLI) runEventAdd(ctx context.Context, ev event.Event) error {
	a, err := c.openApp(ctx, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.board.CurrentUser(ctx); err != nil {
		return userRequired(err)
	}
	res, err := a.board.Create(ctx, ev)
	if err != nil {
		return err
	}

	printSuccess("Posted %s", StyleTitle.Render(res.Event.Title))
	printDetail("id %s", res.Event.ID)
	if res.ReminderErr != nil {
		printWarning("No reminder: %s", errors.UserMessage(res.ReminderErr))
	} else {
		printDetail("reminder at %s", res.Reminder.RunAt.Local().Format(time.RFC1123))
	}
	printNewline()
	printNextStep("RSVP", fmt.Sprintf("%s event rsvp %s", appName, shortID(res.Event.ID)))
	return nil
}

// eventListCommand creates the "event list" subcommand.
func (c *CLI) eventListCommand() *cobra.Command {
	var page, size int
	var all bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List events, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if size <= 0 {
				size = c.cfg.Board.PageSize
			}
			return c.runEventList(cmd.Context(), page-1, size, all)
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	cmd.Flags().IntVar(&size, "size", 0, "events per page (default: config page_size)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "list every event on one page")

	return cmd
}

func (c *CLI) runEventList(ctx context.Context, number, size int, all bool) error {
	a, err := c.openApp(ctx, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	es, err := a.board.List(ctx)
	if err != nil {
		return err
	}
	if len(es) == 0 {
		printInfo("No events yet")
		printNextStep("Post one", appName+" event add --help")
		return nil
	}
	if all {
		size = len(es)
	}
	p := board.Paginate(es, number, size)

	fmt.Fprintln(stdout, eventTable(p.Events, c.cfg.User, -1))
	printDetail("page %d of %d · %d events", p.Number+1, p.Pages, p.Total)
	if p.HasNext() {
		printNextStep("Next page", fmt.Sprintf("%s event list --page %d", appName, p.Number+2))
	}
	return nil
}

// eventTable renders events as a table. The row at cursor is highlighted;
// pass -1 for none.
func eventTable(es event.Events, user string, cursor int) string {
	rows := make([][]string, len(es))
	for i, ev := range es {
		mark := ""
		if ev.IsAttending(user) {
			mark = iconAttending
		}
		rows[i] = []string{shortID(ev.ID), ev.Title, ev.Date, ev.StartTime + " " + iconArrow + " " + ev.EndTime, fmt.Sprint(len(ev.Attending)), mark}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Title", "Date", "Time", "Going", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == -1:
				return headerStyle.Padding(0, 1)
			case row == cursor:
				return base.Foreground(colorCyan).Bold(true)
			case col == 0:
				return base.Foreground(colorDim)
			case col == 5:
				return base.Foreground(colorGreen)
			}
			return base
		}).
		Render()
}

// eventShowCommand creates the "event show" subcommand.
func (c *CLI) eventShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|title>",
		Short: "Show one event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.openApp(ctx, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			ev, err := findEvent(ctx, a.board, args[0])
			if err != nil {
				return err
			}
			printEvent(ev, c.cfg.User)
			return nil
		},
	}
}

// eventDeleteCommand creates the "event delete" subcommand.
func (c *CLI) eventDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id|title>",
		Aliases: []string{"rm"},
		Short:   "Delete an event",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.openApp(ctx, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := a.board.CurrentUser(ctx); err != nil {
				return userRequired(err)
			}
			ev, err := findEvent(ctx, a.board, args[0])
			if err != nil {
				return err
			}
			if err := a.board.Delete(ctx, ev.ID); err != nil {
				return err
			}
			printSuccess("Deleted %s", ev.Title)
			return nil
		},
	}
}

// eventRSVPCommand creates the "event rsvp" subcommand.
func (c *CLI) eventRSVPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rsvp <id|title>",
		Short: "Toggle your attendance of an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.openApp(ctx, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			user, err := a.board.CurrentUser(ctx)
			if err != nil {
				return userRequired(err)
			}
			ev, err := findEvent(ctx, a.board, args[0])
			if err != nil {
				return err
			}
			attending, err := a.board.ToggleRSVP(ctx, ev.ID, user)
			if err != nil {
				return err
			}
			if attending {
				printSuccess("You are attending %s", StyleTitle.Render(ev.Title))
				printDetail("you will get a reminder before it starts")
			} else {
				printInfo("You are no longer attending %s", ev.Title)
			}
			return nil
		},
	}
}

// findEvent resolves an ID, a unique ID prefix or an exact title.
func findEvent(ctx context.Context, b *board.Board, ref string) (event.Event, error) {
	es, err := b.List(ctx)
	if err != nil {
		return event.Event{}, err
	}
	if ev, ok := es.Find(ref); ok {
		return ev, nil
	}

	var matches event.Events
	for _, ev := range es {
		if strings.HasPrefix(ev.ID, ref) || strings.EqualFold(ev.Title, ref) {
			matches = append(matches, ev)
		}
	}
	switch len(matches) {
	case 0:
		return event.Event{}, errors.New(errors.ErrCodeEventNotFound, "no event matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return event.Event{}, errors.New(errors.ErrCodeInvalidInput, "%q matches %d events, use a longer id", ref, len(matches))
	}
}

// userRequired explains how to set the acting user.
func userRequired(err error) error {
	return errors.Wrap(errors.ErrCodeUnauthorized, err, "set a user with --user, %s or `user` in the config file", "EVENTBOARD_USER")
}
