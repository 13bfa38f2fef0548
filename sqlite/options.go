package sqlite

import "time"

const defaultBusyTimeout = 5 * time.Second

// Config defines SQLite connection behavior.
type Config struct {
	// BusyTimeout bounds how long a statement waits on a locked database.
	BusyTimeout time.Duration
	// DisableWAL keeps the default rollback journal. Mainly for tests that
	// need a single-file database.
	DisableWAL bool
}

func (c Config) withDefaults() Config {
	if c.BusyTimeout <= 0 {
		c.BusyTimeout = defaultBusyTimeout
	}

	return c
}

// Option configures the SQLite database.
type Option func(*Config)

// WithBusyTimeout sets the lock wait timeout.
func WithBusyTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.BusyTimeout = d
	}
}

// WithoutWAL disables write-ahead logging.
func WithoutWAL() Option {
	return func(c *Config) {
		c.DisableWAL = true
	}
}
