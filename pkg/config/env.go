package config

import (
	"strconv"
	"time"

	"github.com/matzehuels/eventboard/pkg/errors"
)

// Environment variables read by Load.
const (
	EnvUser          = "EVENTBOARD_USER"
	EnvStore         = "EVENTBOARD_STORE"
	EnvStorePath     = "EVENTBOARD_STORE_PATH"
	EnvRedisAddr     = "EVENTBOARD_REDIS_ADDR"
	EnvRedisPassword = "EVENTBOARD_REDIS_PASSWORD"
	EnvRedisDB       = "EVENTBOARD_REDIS_DB"
	EnvMongoURI      = "EVENTBOARD_MONGO_URI"
	EnvTimezone      = "EVENTBOARD_TIMEZONE"
	EnvReminderLead  = "EVENTBOARD_REMINDER_LEAD"
	EnvQueue         = "EVENTBOARD_QUEUE"
	EnvAddr          = "EVENTBOARD_ADDR"
)

type lookupFunc func(string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	strs := map[string]*string{
		EnvUser:          &cfg.User,
		EnvStore:         &cfg.Store.Backend,
		EnvStorePath:     &cfg.Store.Path,
		EnvRedisAddr:     &cfg.Store.RedisAddr,
		EnvRedisPassword: &cfg.Store.RedisPassword,
		EnvMongoURI:      &cfg.Store.MongoURI,
		EnvTimezone:      &cfg.Reminder.Timezone,
		EnvQueue:         &cfg.Reminder.Queue,
		EnvAddr:          &cfg.Server.Addr,
	}
	for name, dst := range strs {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup(EnvRedisDB); ok && v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", EnvRedisDB)
		}
		cfg.Store.RedisDB = db
	}
	if v, ok := lookup(EnvReminderLead); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", EnvReminderLead)
		}
		cfg.Reminder.Lead = Duration{d}
	}
	return nil
}
