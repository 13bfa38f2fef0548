package workshop

import (
	"context"
	"fmt"
	"strings"
)

// SaveStatus reports how a save left the record with respect to sync.
type SaveStatus string

const (
	// StatusSynced means the network was available at save time and a sync
	// pass was triggered. It reflects availability at the moment of the
	// call, not the eventual delivery outcome.
	StatusSynced SaveStatus = "synced"
	// StatusPending means the record was stored locally and will be
	// delivered when connectivity returns.
	StatusPending SaveStatus = "pending"
)

// SaveResult is returned to the presentation layer after a save.
type SaveResult struct {
	Record Record
	Status SaveStatus
}

// Writer is the sole creation path for records. It assigns id and timestamp,
// writes the record durably, stages the outbox entry best-effort, and
// opportunistically triggers a sync pass.
type Writer struct {
	store   Store
	queue   Queue
	network Network
	cfg     WriterConfig
}

// NewWriter constructs a Writer with defaults and optional settings.
func NewWriter(store Store, queue Queue, network Network, opts ...WriterOption) *Writer {
	if store == nil {
		panic("workshop: nil Store")
	}
	if queue == nil {
		panic("workshop: nil Queue")
	}
	if network == nil {
		panic("workshop: nil Network")
	}

	var cfg WriterConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg = cfg.withDefaults()

	return &Writer{
		store:   store,
		queue:   queue,
		network: network,
		cfg:     cfg,
	}
}

// Save persists a new record built from the field map. The local write must
// succeed or the whole save fails; the outbox enqueue is best-effort and a
// failure there is logged, not surfaced. The returned status is "synced"
// when the network was available at the moment of the call.
func (w *Writer) Save(ctx context.Context, collection string, fields map[string]string) (SaveResult, error) {
	coll, ok := LookupCollection(collection)
	if !ok {
		return SaveResult{}, fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
	}
	if strings.TrimSpace(fields[coll.KeyField]) == "" {
		return SaveResult{}, fmt.Errorf("%w: %s (%s)", ErrMissingKey, coll.KeyField, collection)
	}

	id, err := w.cfg.Generator.New()
	if err != nil {
		return SaveResult{}, fmt.Errorf("workshop: save %s: %w", collection, err)
	}

	rec := Record{
		ID:         id,
		TS:         Millis(w.cfg.Clock.Now()),
		Collection: collection,
		Fields:     cloneFields(fields),
	}

	if err := w.store.Put(ctx, collection, rec); err != nil {
		return SaveResult{}, fmt.Errorf("workshop: save %s: %w", collection, err)
	}

	// The record is durable from here on. A missing outbox entry only means
	// the record is never auto-synced; losing the save would be worse.
	if err := w.enqueue(ctx, rec); err != nil {
		w.cfg.Logger.Warn("outbox enqueue failed; record saved locally",
			"collection", collection, "id", rec.ID, "err", err)
	}

	status := StatusPending
	if w.network.Online() {
		status = StatusSynced
		if w.cfg.Trigger != nil {
			w.cfg.Trigger.Notify()
		}
	}

	return SaveResult{Record: rec, Status: status}, nil
}

func (w *Writer) enqueue(ctx context.Context, rec Record) error {
	entry, err := NewEntry(rec)
	if err != nil {
		return err
	}

	return w.queue.Enqueue(ctx, entry)
}

func cloneFields(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for name, value := range fields {
		out[name] = value
	}

	return out
}
