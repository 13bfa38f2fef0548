package httpapi

import (
	"context"
	"log/slog"
	"sync"
	"time"

	workshop "github.com/sammoha1198-bit/alsami-workshop-hosting"
)

const (
	defaultProbeInterval = 10 * time.Second
	defaultProbeTimeout  = 3 * time.Second
)

// Pinger is the probe the Monitor runs. *Client satisfies it.
type Pinger interface {
	Ping(ctx context.Context) (PingResponse, error)
}

// MonitorConfig defines probe behavior.
type MonitorConfig struct {
	Interval time.Duration
	Timeout  time.Duration
	Logger   *slog.Logger
}

func (c MonitorConfig) withDefaults() MonitorConfig {
	if c.Interval <= 0 {
		c.Interval = defaultProbeInterval
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultProbeTimeout
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}

	return c
}

// MonitorOption configures the Monitor.
type MonitorOption func(*MonitorConfig)

// WithProbeInterval sets the time between probes.
func WithProbeInterval(d time.Duration) MonitorOption {
	return func(c *MonitorConfig) {
		c.Interval = d
	}
}

// WithProbeTimeout bounds a single probe.
func WithProbeTimeout(d time.Duration) MonitorOption {
	return func(c *MonitorConfig) {
		c.Timeout = d
	}
}

// WithMonitorLogger sets the monitor logger.
func WithMonitorLogger(logger *slog.Logger) MonitorOption {
	return func(c *MonitorConfig) {
		c.Logger = logger
	}
}

// Monitor probes the server and exposes connectivity as an online flag plus
// a transition stream. Startup state is offline until the first probe
// succeeds, so saves made before that stay pending rather than racing an
// unverified connection.
type Monitor struct {
	pinger Pinger
	cfg    MonitorConfig

	mu     sync.Mutex
	online bool

	transitions chan bool
}

var _ workshop.Network = (*Monitor)(nil)

// NewMonitor constructs a Monitor over the given Pinger.
func NewMonitor(pinger Pinger, opts ...MonitorOption) *Monitor {
	if pinger == nil {
		panic("workshop httpapi: nil Pinger")
	}

	var cfg MonitorConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Monitor{
		pinger:      pinger,
		cfg:         cfg.withDefaults(),
		transitions: make(chan bool, 1),
	}
}

// Online reports the state observed by the most recent probe.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.online
}

// Transitions emits one event per connectivity change: true when the server
// becomes reachable, false when it stops responding.
func (m *Monitor) Transitions() <-chan bool {
	return m.transitions
}

// Run probes immediately and then on every interval tick until ctx is
// canceled. It returns ctx.Err().
func (m *Monitor) Run(ctx context.Context) error {
	if err := m.probe(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := m.probe(ctx); err != nil {
				return err
			}
		}
	}
}

func (m *Monitor) probe(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	_, err := m.pinger.Ping(probeCtx)
	cancel()

	online := err == nil

	m.mu.Lock()
	changed := online != m.online
	m.online = online
	m.mu.Unlock()

	if !changed {
		return nil
	}

	if online {
		m.cfg.Logger.Info("server reachable")
	} else {
		m.cfg.Logger.Warn("server unreachable", "error", err)
	}

	select {
	case m.transitions <- online:
	case <-ctx.Done():
		return ctx.Err()
	}

	return nil
}
