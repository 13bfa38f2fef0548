package workshop

import (
	"encoding/json"
	"fmt"
)

// Entry is one outbox row: a full record snapshot awaiting delivery to the
// remote endpoint. Entries are append-only; Synced transitions false to true
// exactly once and entries are never deleted by the core.
type Entry struct {
	// ID equals the record id (1:1 with the record).
	ID string
	// Collection is the record's collection.
	Collection string
	// Payload is the flat JSON snapshot of the record at write time.
	Payload json.RawMessage
	// TS is the record's creation timestamp in unix milliseconds.
	TS int64
	// Synced reports whether delivery has been confirmed.
	Synced bool
	// SyncTS is the confirmation timestamp in unix milliseconds, zero while
	// the entry is pending.
	SyncTS int64
}

// NewEntry builds the outbox entry for a freshly written record.
func NewEntry(rec Record) (Entry, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return Entry{}, fmt.Errorf("workshop: snapshot record %q: %w", rec.ID, err)
	}

	return Entry{
		ID:         rec.ID,
		Collection: rec.Collection,
		Payload:    payload,
		TS:         rec.TS,
	}, nil
}

// Validate checks required fields and payload JSON validity.
func (e Entry) Validate() error {
	if e.ID == "" {
		return ErrIDRequired
	}
	if e.Collection == "" {
		return ErrCollectionRequired
	}
	if e.TS == 0 {
		return ErrTimestampRequired
	}
	if len(e.Payload) == 0 {
		return ErrPayloadRequired
	}
	if !json.Valid(e.Payload) {
		return ErrInvalidPayload
	}

	return nil
}
