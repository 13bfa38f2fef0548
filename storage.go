package workshop

import "context"

// Store is durable record storage partitioned into named collections. It is
// a pure storage primitive: implementations persist what they are given and
// apply no business rules.
type Store interface {
	// Put inserts or replaces a record by id within its collection. The
	// write either fully commits or fails with no partial state.
	Put(ctx context.Context, collection string, rec Record) error
	// GetAll returns every record in the collection, in any order.
	GetAll(ctx context.Context, collection string) ([]Record, error)
}

// KeyFinder is an optional Store fast path for indexed business-key lookups.
// The Aggregator uses it when available and falls back to a GetAll scan.
type KeyFinder interface {
	// FindByKey returns the collection's records whose business key equals key.
	FindByKey(ctx context.Context, collection, key string) ([]Record, error)
}

// Queue is the append-only outbox of locally committed writes awaiting
// delivery. Entries are flagged synced, never removed.
type Queue interface {
	// Enqueue appends a pending entry.
	Enqueue(ctx context.Context, entry Entry) error
	// ListPending returns up to limit unsynced entries, oldest ts first.
	ListPending(ctx context.Context, limit int) ([]Entry, error)
	// MarkSynced flags the given entries as delivered, as one atomic set
	// update. Already-synced entries are left untouched.
	MarkSynced(ctx context.Context, ids []string, syncTS int64) error
}

// PendingCounter provides a total count of pending entries.
type PendingCounter interface {
	// PendingCount returns the current number of unsynced entries.
	PendingCount(ctx context.Context) (int, error)
}
