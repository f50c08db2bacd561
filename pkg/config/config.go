// Package config loads eventboard settings.
//
// Settings come from three layers, later ones winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file, by default $XDG_CONFIG_HOME/eventboard/config.toml
//  3. EVENTBOARD_* environment variables, optionally read from a .env file
//
// A missing config file is not an error.
//
// # Example file
//
//	user = "alice"
//
//	[store]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[board]
//	columns = 3
//	order = "column-fill"
//	gap_x = "16px"
//
//	[reminder]
//	lead = "15m"
//	timezone = "America/New_York"
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/eventboard/pkg/board"
	"github.com/matzehuels/eventboard/pkg/columns"
	"github.com/matzehuels/eventboard/pkg/errors"
	"github.com/matzehuels/eventboard/pkg/kv"
	"github.com/matzehuels/eventboard/pkg/reminder"
	"github.com/matzehuels/eventboard/pkg/scheduler"
)

// AppName names the config and data directories.
const AppName = "eventboard"

// Queue backends for [ReminderConfig.Queue].
const (
	QueueStore = "store"
	QueueRedis = "redis"
)

// Config is the complete application configuration.
type Config struct {
	User     string         `toml:"user"`
	Store    StoreConfig    `toml:"store"`
	Board    BoardConfig    `toml:"board"`
	Reminder ReminderConfig `toml:"reminder"`
	Server   ServerConfig   `toml:"server"`
}

// StoreConfig selects and configures the kv backend.
type StoreConfig struct {
	Backend         string `toml:"backend"`
	Path            string `toml:"path"`
	Key             string `toml:"key"`
	RedisAddr       string `toml:"redis_addr"`
	RedisPassword   string `toml:"redis_password"`
	RedisDB         int    `toml:"redis_db"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// BoardConfig holds the default page and layout settings.
type BoardConfig struct {
	PageSize int    `toml:"page_size"`
	Columns  int    `toml:"columns"`
	Rows     int    `toml:"rows"` // 0 means unlimited
	Order    string `toml:"order"`
	GapX     string `toml:"gap_x"`
	GapY     string `toml:"gap_y"`
}

// ReminderConfig configures reminder scheduling and delivery.
type ReminderConfig struct {
	Lead     Duration `toml:"lead"`
	Timezone string   `toml:"timezone"`
	Queue    string   `toml:"queue"`
	Interval Duration `toml:"interval"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as "15m" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Backend: kv.BackendBolt,
			Key:     board.DefaultKey,
		},
		Board: BoardConfig{
			PageSize: board.DefaultPageSize,
			Columns:  board.DefaultColumns,
			Order:    columns.NameBalanced,
			GapX:     "16px",
			GapY:     "8px",
		},
		Reminder: ReminderConfig{
			Lead:     Duration{reminder.DefaultLead},
			Timezone: "UTC",
			Queue:    QueueStore,
			Interval: Duration{scheduler.DefaultInterval},
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Path returns the default config file path.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// DataDir returns the directory holding the local database.
func DataDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", AppName), nil
}

// LoadDotenv reads .env files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotenv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the file at path (Path() if empty) over the defaults and
// applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := Path()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	default:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return cfg, errors.New(errors.ErrCodeInvalidInput, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case kv.BackendMemory, kv.BackendBolt, kv.BackendRedis, kv.BackendMongo:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q", c.Store.Backend)
	}
	switch c.Reminder.Queue {
	case QueueStore:
	case QueueRedis:
		if c.Store.Backend != kv.BackendRedis {
			return errors.New(errors.ErrCodeInvalidInput, "reminder queue %q needs the redis store backend", QueueRedis)
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown reminder queue %q", c.Reminder.Queue)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.User != "" {
		if err := errors.ValidateUsername(c.User); err != nil {
			return err
		}
	}
	return nil
}

// Location returns the reminder time zone.
func (c Config) Location() (*time.Location, error) {
	if c.Reminder.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Reminder.Timezone)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "unknown time zone %q", c.Reminder.Timezone)
	}
	return loc, nil
}

// StoreOptions returns the kv.Open options. A bolt store without a path
// lives in DataDir.
func (c Config) StoreOptions() (kv.Options, error) {
	path := c.Store.Path
	if c.Store.Backend == kv.BackendBolt && path == "" {
		dir, err := DataDir()
		if err != nil {
			return kv.Options{}, err
		}
		path = filepath.Join(dir, kv.DefaultBoltFile)
	}
	return kv.Options{
		Backend:         c.Store.Backend,
		Path:            path,
		RedisAddr:       c.Store.RedisAddr,
		RedisPassword:   c.Store.RedisPassword,
		RedisDB:         c.Store.RedisDB,
		MongoURI:        c.Store.MongoURI,
		MongoDatabase:   c.Store.MongoDatabase,
		MongoCollection: c.Store.MongoCollection,
	}, nil
}

// LayoutOptions returns the board layout defaults.
func (c Config) LayoutOptions() board.LayoutOptions {
	return board.LayoutOptions{
		Columns: c.Board.Columns,
		Rows:    columns.Rows(c.Board.Rows),
		Order:   columns.ParseOrder(c.Board.Order),
		GapX:    columns.ParsePixels(c.Board.GapX),
		GapY:    columns.ParsePixels(c.Board.GapY),
	}
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	redacted := c
	if redacted.Store.RedisPassword != "" {
		redacted.Store.RedisPassword = "********"
	}
	return toml.NewEncoder(w).Encode(redacted)
}
