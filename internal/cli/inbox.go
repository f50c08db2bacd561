package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// inboxCommand shows the private messages delivered to the current user.
func (c *CLI) inboxCommand() *cobra.Command {
	var last int

	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "Show your private messages, such as event reminders",
		Args:  cobra.NoArgs,
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
			msgs, err := a.inbox.Messages(ctx, user)
			if err != nil {
				return err
			}
			if len(msgs) == 0 {
				printInfo("No messages for %s", user)
				return nil
			}
			if last > 0 && len(msgs) > last {
				msgs = msgs[len(msgs)-last:]
			}

			// Newest first.
			for i := len(msgs) - 1; i >= 0; i-- {
				m := msgs[i]
				fmt.Fprintln(stdout, StyleTitle.Render(m.Subject)+"  "+StyleDim.Render(m.SentAt.Local().Format(time.DateTime)))
				fmt.Fprintln(stdout, "  "+m.Text)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&last, "last", "n", 0, "show only the n most recent messages")

	return cmd
}
