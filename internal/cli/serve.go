package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/eventboard/internal/server"
	"github.com/matzehuels/eventboard/pkg/identity"
)

// serveCommand runs the HTTP API and, unless disabled, the reminder worker
// in the same process.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		noWorker bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board over HTTP",
		Long: `Serve the board over HTTP.

The acting user of each request is read from the X-Username header. Due
reminders are delivered by a worker running alongside the server; pass
--no-worker when another process runs "eventboard reminders run".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, !noWorker)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: config addr)")
	cmd.Flags().BoolVar(&noWorker, "no-worker", false, "do not deliver reminders from this process")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, worker bool) error {
	// Requests carry their own user; the configured user is ignored.
	a, err := c.openApp(ctx, identity.Context{})
	if err != nil {
		return err
	}
	defer a.Close()

	loc, err := c.cfg.Location()
	if err != nil {
		return err
	}
	srv := server.New(server.Options{
		Board:    a.board,
		Inbox:    a.inbox,
		Layout:   c.cfg.LayoutOptions(),
		PageSize: c.cfg.Board.PageSize,
		Location: loc,
		Logger:   c.Logger,
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.ListenAndServe(ctx, addr) })
	if worker {
		w := c.newWorker(a, c.cfg.Reminder.Interval.Duration)
		g.Go(func() error { return w.Run(ctx) })
	} else {
		c.Logger.Info("reminder worker disabled")
	}

	start := time.Now()
	err = g.Wait()
	c.Logger.Debug("server exited", "uptime", time.Since(start).Round(time.Second))
	return err
}
