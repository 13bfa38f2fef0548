package sqlite

// records keeps one row per record id. Saves replace the row wholesale, so
// the table always holds the latest snapshot. bkey duplicates the business
// key field out of the document for indexed key lookups.
const recordsSchema = `CREATE TABLE IF NOT EXISTS records (
	collection TEXT NOT NULL,
	id TEXT NOT NULL,
	ts INTEGER NOT NULL,
	bkey TEXT NOT NULL DEFAULT '',
	doc TEXT NOT NULL,
	PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS idx_records_bkey ON records (collection, bkey);
CREATE INDEX IF NOT EXISTS idx_records_ts ON records (collection, ts);`

// sync_queue is append-only: rows are inserted at save time and flipped to
// synced after delivery, never deleted.
const queueSchema = `CREATE TABLE IF NOT EXISTS sync_queue (
	id TEXT NOT NULL PRIMARY KEY,
	collection TEXT NOT NULL,
	payload TEXT NOT NULL,
	ts INTEGER NOT NULL,
	synced INTEGER NOT NULL DEFAULT 0,
	sync_ts INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_queue_pending ON sync_queue (synced, ts, id);`

// Schema returns the DDL for both tables. Open applies it automatically;
// it is exported for callers managing migrations themselves.
func Schema() string {
	return recordsSchema + "\n" + queueSchema
}
