package workshop

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Engine delivers pending outbox entries to the remote endpoint and
// reconciles their status. Passes are serialized: each pass snapshots the
// oldest pending entries, submits them as one batch, and marks exactly that
// snapshot synced on a confirmed success. Delivery is at-least-once; a batch
// whose success response is lost is simply resent on the next pass, and the
// remote endpoint deduplicates by entry id.
type Engine struct {
	queue   Queue
	sender  BatchSender
	network Network
	cfg     EngineConfig

	passMu  sync.Mutex
	trigger chan struct{}
}

// NewEngine constructs an Engine with defaults and optional settings.
func NewEngine(queue Queue, sender BatchSender, network Network, opts ...EngineOption) *Engine {
	if queue == nil {
		panic("workshop: nil Queue")
	}
	if sender == nil {
		panic("workshop: nil BatchSender")
	}
	if network == nil {
		panic("workshop: nil Network")
	}

	var cfg EngineConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg = cfg.withDefaults()

	return &Engine{
		queue:   queue,
		sender:  sender,
		network: network,
		cfg:     cfg,
		trigger: make(chan struct{}, 1),
	}
}

// SyncOnce runs one sync pass and returns the number of entries delivered
// and confirmed. An unavailable network is not an error: the pass is a no-op
// returning zero. Any failure leaves every entry in the batch pending; the
// engine never marks an entry synced without a confirmed success response.
func (e *Engine) SyncOnce(ctx context.Context) (int, error) {
	if !e.network.Online() {
		return 0, nil
	}

	e.passMu.Lock()
	defer e.passMu.Unlock()

	pending, err := e.queue.ListPending(ctx, e.cfg.BatchLimit)
	if err != nil {
		return 0, fmt.Errorf("workshop: list pending: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	if err := e.sender.SendBatch(ctx, pending); err != nil {
		return 0, fmt.Errorf("workshop: deliver batch of %d: %w", len(pending), err)
	}

	ids := make([]string, len(pending))
	for i, entry := range pending {
		ids[i] = entry.ID
	}

	syncTS := Millis(e.cfg.Clock.Now())
	if err := e.queue.MarkSynced(ctx, ids, syncTS); err != nil {
		// The batch was delivered but stays flagged pending; the next pass
		// resends it and the remote endpoint deduplicates by id.
		return 0, fmt.Errorf("workshop: mark %d entries synced: %w", len(ids), err)
	}

	e.cfg.Logger.Debug("sync pass delivered", "count", len(ids), "sync_ts", syncTS)

	return len(ids), nil
}

// Drain runs passes until a pass delivers nothing, returning the total
// delivered. It stops on the first failure.
func (e *Engine) Drain(ctx context.Context) (int, error) {
	total := 0
	for {
		n, err := e.SyncOnce(ctx)
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, nil
		}
	}
}

// Notify schedules an asynchronous pass on the Run loop. Pending
// notifications coalesce; Notify never blocks.
func (e *Engine) Notify() {
	select {
	case e.trigger <- struct{}{}:
	default:
	}
}

// Run reacts to the configured triggers until ctx is canceled: one pass per
// offline-to-online transition, one per Notify, and one per poll interval
// tick when polling is enabled. Pass failures are logged and swallowed; they
// are expected while connectivity is flaky and the entries stay pending for
// the next trigger.
func (e *Engine) Run(ctx context.Context) error {
	var poll <-chan time.Time
	if e.cfg.PollInterval > 0 {
		ticker := time.NewTicker(e.cfg.PollInterval)
		defer ticker.Stop()
		poll = ticker.C
	}

	transitions := e.cfg.Transitions
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case online, ok := <-transitions:
			if !ok {
				transitions = nil
				continue
			}
			if online {
				e.pass(ctx, "network restored")
			}
		case <-e.trigger:
			e.pass(ctx, "post-save")
		case <-poll:
			e.pass(ctx, "poll")
		}
	}
}

func (e *Engine) pass(ctx context.Context, cause string) {
	n, err := e.SyncOnce(ctx)
	if err != nil {
		e.cfg.Logger.Warn("sync pass failed", "cause", cause, "err", err)
		return
	}
	if n > 0 {
		e.cfg.Logger.Info("synced", "cause", cause, "count", n)
	}
}
