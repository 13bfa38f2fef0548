package workshop

import (
	"log/slog"
	"time"
)

const defaultBatchLimit = 100

// WriterConfig defines how the Writer assigns identity and reacts to saves.
type WriterConfig struct {
	Clock     Clock
	Generator IDGenerator
	Logger    *slog.Logger
	Trigger   SyncTrigger
}

func (c WriterConfig) withDefaults() WriterConfig {
	if c.Clock == nil {
		c.Clock = SystemClock{}
	}
	if c.Generator == nil {
		c.Generator = NewGenerator(c.Clock)
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}

	return c
}

// WriterOption configures Writer behavior.
type WriterOption func(*WriterConfig)

// WithWriterClock sets the Writer's time source.
func WithWriterClock(clock Clock) WriterOption {
	return func(c *WriterConfig) {
		c.Clock = clock
	}
}

// WithGenerator sets the record id generator.
func WithGenerator(gen IDGenerator) WriterOption {
	return func(c *WriterConfig) {
		c.Generator = gen
	}
}

// WithWriterLogger sets the Writer's logger.
func WithWriterLogger(logger *slog.Logger) WriterOption {
	return func(c *WriterConfig) {
		c.Logger = logger
	}
}

// WithSyncTrigger wires the fire-and-forget sync trigger invoked after an
// online save.
func WithSyncTrigger(trigger SyncTrigger) WriterOption {
	return func(c *WriterConfig) {
		c.Trigger = trigger
	}
}

// EngineConfig defines how the Engine batches and schedules sync passes.
type EngineConfig struct {
	// BatchLimit caps the entries snapshotted per pass.
	BatchLimit int
	// Clock is the source of syncTs confirmation timestamps.
	Clock Clock
	// Logger receives pass outcomes.
	Logger *slog.Logger
	// Transitions delivers connectivity changes to the Run loop; each
	// offline-to-online transition triggers exactly one pass.
	Transitions <-chan bool
	// PollInterval adds periodic passes to the Run loop when positive.
	PollInterval time.Duration
}

func (c EngineConfig) withDefaults() EngineConfig {
	if c.BatchLimit <= 0 {
		c.BatchLimit = defaultBatchLimit
	}
	if c.Clock == nil {
		c.Clock = SystemClock{}
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}

	return c
}

// EngineOption configures Engine behavior.
type EngineOption func(*EngineConfig)

// WithBatchLimit sets the number of entries delivered per pass.
func WithBatchLimit(limit int) EngineOption {
	return func(c *EngineConfig) {
		c.BatchLimit = limit
	}
}

// WithEngineClock sets the Engine's time source.
func WithEngineClock(clock Clock) EngineOption {
	return func(c *EngineConfig) {
		c.Clock = clock
	}
}

// WithEngineLogger sets the Engine's logger.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(c *EngineConfig) {
		c.Logger = logger
	}
}

// WithTransitions subscribes the Run loop to a connectivity signal.
func WithTransitions(transitions <-chan bool) EngineOption {
	return func(c *EngineConfig) {
		c.Transitions = transitions
	}
}

// WithPollInterval enables periodic passes in the Run loop.
func WithPollInterval(interval time.Duration) EngineOption {
	return func(c *EngineConfig) {
		c.PollInterval = interval
	}
}
