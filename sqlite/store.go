package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	workshop "github.com/sammoha1198-bit/alsami-workshop-hosting"
)

// DB is a SQLite database acting as both the local record store and the
// sync queue.
type DB struct {
	db  *sql.DB
	cfg Config
}

var _ workshop.Store = (*DB)(nil)
var _ workshop.KeyFinder = (*DB)(nil)
var _ workshop.Queue = (*DB)(nil)
var _ workshop.PendingCounter = (*DB)(nil)

// Open opens (creating if absent) the database at path, applies the
// connection pragmas and the schema, and returns a ready DB.
func Open(path string, opts ...Option) (*DB, error) {
	if path == "" {
		return nil, ErrPathRequired
	}

	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg = cfg.withDefaults()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("workshop sqlite: open %s: %w", path, err)
	}

	d := &DB{db: db, cfg: cfg}
	if err := d.setup(); err != nil {
		_ = db.Close()

		return nil, err
	}

	return d, nil
}

// New wraps an existing connection, applying pragmas and schema. The caller
// keeps ownership of db; Close on the returned DB closes it.
func New(db *sql.DB, opts ...Option) (*DB, error) {
	if db == nil {
		return nil, ErrDBRequired
	}

	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg = cfg.withDefaults()

	d := &DB{db: db, cfg: cfg}
	if err := d.setup(); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *DB) setup() error {
	if !d.cfg.DisableWAL {
		if _, err := d.db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			return fmt.Errorf("workshop sqlite: enable WAL: %w", err)
		}
	}
	if _, err := d.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d", d.cfg.BusyTimeout.Milliseconds())); err != nil {
		return fmt.Errorf("workshop sqlite: set busy timeout: %w", err)
	}
	if _, err := d.db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return fmt.Errorf("workshop sqlite: set synchronous: %w", err)
	}
	if _, err := d.db.Exec(Schema()); err != nil {
		return fmt.Errorf("workshop sqlite: apply schema: %w", err)
	}

	return nil
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Put stores the record under its id, replacing any prior row with the same
// id. The business key is denormalized into its own indexed column.
func (d *DB) Put(ctx context.Context, collection string, rec workshop.Record) error {
	if _, ok := workshop.LookupCollection(collection); !ok {
		return fmt.Errorf("%w: %q", workshop.ErrUnknownCollection, collection)
	}
	if rec.ID == "" {
		return workshop.ErrIDRequired
	}

	rec.Collection = collection
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("workshop sqlite: encode record %s: %w", rec.ID, err)
	}

	_, err = d.db.ExecContext(
		ctx,
		`INSERT INTO records (collection, id, ts, bkey, doc) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET ts = excluded.ts, bkey = excluded.bkey, doc = excluded.doc`,
		collection,
		rec.ID,
		rec.TS,
		rec.Key(),
		string(doc),
	)
	if err != nil {
		return fmt.Errorf("workshop sqlite: put %s/%s: %w", collection, rec.ID, err)
	}

	return nil
}

// GetAll returns every record in the collection ordered by ts, then id.
func (d *DB) GetAll(ctx context.Context, collection string) ([]workshop.Record, error) {
	return d.selectRecords(
		ctx,
		collection,
		"SELECT doc FROM records WHERE collection = ? ORDER BY ts ASC, id ASC",
		collection,
	)
}

// FindByKey returns the collection's records carrying the business key,
// ordered by ts, then id.
func (d *DB) FindByKey(ctx context.Context, collection, key string) ([]workshop.Record, error) {
	return d.selectRecords(
		ctx,
		collection,
		"SELECT doc FROM records WHERE collection = ? AND bkey = ? ORDER BY ts ASC, id ASC",
		collection,
		key,
	)
}

func (d *DB) selectRecords(ctx context.Context, collection, query string, args ...any) ([]workshop.Record, error) {
	if _, ok := workshop.LookupCollection(collection); !ok {
		return nil, fmt.Errorf("%w: %q", workshop.ErrUnknownCollection, collection)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("workshop sqlite: select %s: %w", collection, err)
	}
	defer rows.Close()

	var records []workshop.Record
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("workshop sqlite: scan %s: %w", collection, err)
		}

		var rec workshop.Record
		if err := json.Unmarshal([]byte(doc), &rec); err != nil {
			return nil, fmt.Errorf("workshop sqlite: decode record in %s: %w", collection, err)
		}
		rec.Collection = collection
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("workshop sqlite: rows %s: %w", collection, err)
	}

	return records, nil
}

// Counts returns the record count per collection, omitting empty ones.
func (d *DB) Counts(ctx context.Context) (map[string]int, error) {
	rows, err := d.db.QueryContext(ctx, "SELECT collection, COUNT(*) FROM records GROUP BY collection")
	if err != nil {
		return nil, fmt.Errorf("workshop sqlite: counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			collection string
			n          int
		)
		if err := rows.Scan(&collection, &n); err != nil {
			return nil, fmt.Errorf("workshop sqlite: counts scan: %w", err)
		}
		counts[collection] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("workshop sqlite: counts rows: %w", err)
	}

	return counts, nil
}
