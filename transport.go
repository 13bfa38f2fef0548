package workshop

import "context"

// BatchSender delivers one batch of outbox entries to the remote endpoint in
// a single request. A nil error means the whole batch was accepted; any
// error means nothing in the batch may be marked synced.
type BatchSender interface {
	// SendBatch submits the entries and returns an error on any failure.
	SendBatch(ctx context.Context, entries []Entry) error
}

// BatchSenderFunc adapts a function to BatchSender.
type BatchSenderFunc func(ctx context.Context, entries []Entry) error

// SendBatch implements BatchSender.
func (fn BatchSenderFunc) SendBatch(ctx context.Context, entries []Entry) error {
	return fn(ctx, entries)
}

// Network reports the current connectivity state. The httpapi Monitor is the
// production implementation; tests use StaticNetwork or NetworkFunc.
type Network interface {
	// Online reports whether the remote endpoint is currently reachable.
	Online() bool
}

// NetworkFunc adapts a function to Network.
type NetworkFunc func() bool

// Online implements Network.
func (fn NetworkFunc) Online() bool {
	return fn()
}

// StaticNetwork is a fixed connectivity state.
type StaticNetwork bool

// Online implements Network.
func (n StaticNetwork) Online() bool {
	return bool(n)
}

// SyncTrigger requests an asynchronous sync pass without waiting for it.
// The Engine implements it; the Writer uses it after an online save.
type SyncTrigger interface {
	// Notify schedules a pass. It never blocks.
	Notify()
}
