// Package sqlite provides the SQLite-backed local store and sync queue.
//
// One database file holds both tables:
//   - records: the latest snapshot of every saved record, replace-by-id
//   - sync_queue: the append-only outbox consumed by the sync engine
//
// The connection runs in WAL mode with a busy timeout, so concurrent reads
// proceed while writes are serialized.
package sqlite
