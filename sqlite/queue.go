package sqlite

import (
	"context"
	"fmt"

	workshop "github.com/sammoha1198-bit/alsami-workshop-hosting"
)

const (
	markFixedArgs     = 1
	placeholderGrowth = 2
)

// Enqueue appends a validated entry to the sync queue.
func (d *DB) Enqueue(ctx context.Context, entry workshop.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	_, err := d.db.ExecContext(
		ctx,
		"INSERT INTO sync_queue (id, collection, payload, ts) VALUES (?, ?, ?, ?)",
		entry.ID,
		entry.Collection,
		string(entry.Payload),
		entry.TS,
	)
	if err != nil {
		return fmt.Errorf("workshop sqlite: enqueue %s: %w", entry.ID, err)
	}

	return nil
}

// ListPending returns up to limit unsynced entries, oldest first (ts, then id).
func (d *DB) ListPending(ctx context.Context, limit int) ([]workshop.Entry, error) {
	if limit <= 0 {
		return nil, workshop.ErrInvalidLimit
	}

	rows, err := d.db.QueryContext(
		ctx,
		"SELECT id, collection, payload, ts FROM sync_queue WHERE synced = 0 ORDER BY ts ASC, id ASC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("workshop sqlite: list pending: %w", err)
	}
	defer rows.Close()

	entries := make([]workshop.Entry, 0, limit)
	for rows.Next() {
		var (
			entry   workshop.Entry
			payload string
		)
		if err := rows.Scan(&entry.ID, &entry.Collection, &payload, &entry.TS); err != nil {
			return nil, fmt.Errorf("workshop sqlite: scan pending: %w", err)
		}
		entry.Payload = []byte(payload)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("workshop sqlite: pending rows: %w", err)
	}

	return entries, nil
}

// MarkSynced flips the given entries to synced in one statement. Already
// synced entries keep their original sync_ts.
func (d *DB) MarkSynced(ctx context.Context, ids []string, syncTS int64) error {
	if len(ids) == 0 {
		return nil
	}

	query := buildMarkQuery(len(ids))
	args := make([]any, 0, len(ids)+markFixedArgs)
	args = append(args, syncTS)
	for _, id := range ids {
		args = append(args, id)
	}

	if _, err := d.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("workshop sqlite: mark synced: %w", err)
	}

	return nil
}

// PendingCount returns the number of unsynced queue rows.
func (d *DB) PendingCount(ctx context.Context) (int, error) {
	var count int
	if err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sync_queue WHERE synced = 0").Scan(&count); err != nil {
		return 0, fmt.Errorf("workshop sqlite: pending count: %w", err)
	}

	return count, nil
}

func buildMarkQuery(count int) string {
	placeholders := makePlaceholders(count)

	return fmt.Sprintf("UPDATE sync_queue SET synced = 1, sync_ts = ? WHERE synced = 0 AND id IN (%s)", placeholders)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}

	buf := make([]byte, 0, count*placeholderGrowth)
	for i := 0; i < count; i++ {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, '?')
	}

	return string(buf)
}
