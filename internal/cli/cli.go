// Package cli implements the eventboard command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/matzehuels/eventboard/pkg/board"
	"github.com/matzehuels/eventboard/pkg/buildinfo"
	"github.com/matzehuels/eventboard/pkg/config"
	"github.com/matzehuels/eventboard/pkg/identity"
	"github.com/matzehuels/eventboard/pkg/kv"
	"github.com/matzehuels/eventboard/pkg/messaging"
	"github.com/matzehuels/eventboard/pkg/scheduler"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string // --config
	user       string // --user, overrides the configured user
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Eventboard is a community events board for the terminal",
		Long: `Eventboard keeps a board of community events. Post meetups, RSVP to
them, and get a private reminder shortly before they start. The board can be
browsed in the terminal, laid out in columns, or served over HTTP.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.loadConfig,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/eventboard/config.toml)")
	root.PersistentFlags().StringVarP(&c.user, "user", "u", "", "act as this user (default: config user)")

	// Register all subcommands
	root.AddCommand(c.eventCommand())
	root.AddCommand(c.boardCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.columnsCommand())
	root.AddCommand(c.inboxCommand())
	root.AddCommand(c.remindersCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// skipConfig annotates commands that run without a valid config.
const skipConfig = "eventboard/skip-config"

// loadConfig reads the config file and environment before any command runs.
func (c *CLI) loadConfig(cmd *cobra.Command, _ []string) error {
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	if cmd.Annotations[skipConfig] != "" {
		return nil
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.user != "" {
		cfg.User = c.user
	}
	c.cfg = cfg
	return nil
}

// =============================================================================
// Runtime wiring
// =============================================================================

// app bundles the services a command works with.
type app struct {
	store kv.Store
	board *board.Board
	queue scheduler.Queue
	inbox *messaging.Inbox
}

func (a *app) Close() error { return a.store.Close() }

// openApp connects to the configured store and builds the services on top.
func (c *CLI) openApp(ctx context.Context, ident identity.Provider) (*app, error) {
	store, rdb, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}

	var queue scheduler.Queue
	switch c.cfg.Reminder.Queue {
	case config.QueueRedis:
		queue = scheduler.NewRedisQueue(rdb, "")
	default:
		queue = scheduler.NewStoreQueue(store, "")
	}

	loc, err := c.cfg.Location()
	if err != nil {
		store.Close()
		return nil, err
	}
	if ident == nil {
		ident = identity.Static(c.cfg.User)
	}

	b := board.New(store, board.Options{
		Key:      c.cfg.Store.Key,
		Queue:    queue,
		Identity: ident,
		Location: loc,
		Lead:     c.cfg.Reminder.Lead.Duration,
		Logger:   c.Logger,
	})
	return &app{store: store, board: b, queue: queue, inbox: messaging.NewInbox(store)}, nil
}

// openStore opens the configured backend. For redis it also returns the
// client so the reminder queue can share the connection.
func (c *CLI) openStore(ctx context.Context) (kv.Store, *redis.Client, error) {
	opts, err := c.cfg.StoreOptions()
	if err != nil {
		return nil, nil, err
	}
	c.Logger.Debug("opening store", "backend", opts.Backend, "path", opts.Path)

	switch opts.Backend {
	case kv.BackendRedis, kv.BackendMongo:
		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Connecting to %s...", opts.Backend))
		spinner.Start()
		defer spinner.Stop()
	}

	if opts.Backend == kv.BackendRedis {
		rs, err := kv.NewRedisStore(ctx, kv.RedisConfig{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return kv.Instrument(rs, opts.Backend), rs.Client(), nil
	}

	store, err := kv.Open(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	return store, nil, nil
}

// messenger delivers to the inbox and logs each delivery.
func (c *CLI) messenger(a *app) messaging.Messenger {
	return messaging.Multi{a.inbox, messaging.LogMessenger{Logger: c.Logger}}
}
