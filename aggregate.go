package workshop

import (
	"context"
	"fmt"
	"sort"
)

// View is one latest-wins aggregation row: the most recent non-empty value
// per field across every record carrying the business key. Views are derived
// on every query and never persisted.
type View struct {
	Key    string
	Fields map[string]string
}

// Aggregator answers point lookups and time-range exports over the local
// Store. Reads are pure functions of store content; sync state is irrelevant.
type Aggregator struct {
	store Store
}

// NewAggregator constructs an Aggregator over the given store.
func NewAggregator(store Store) *Aggregator {
	if store == nil {
		panic("workshop: nil Store")
	}

	return &Aggregator{store: store}
}

// Lookup folds every record carrying the business key, across all
// collections, into one view. It returns ErrNotFound when no record in any
// collection carries the key.
func (a *Aggregator) Lookup(ctx context.Context, key string) (View, error) {
	var records []Record
	for _, coll := range registry {
		matches, err := a.findByKey(ctx, coll, key)
		if err != nil {
			return View{}, fmt.Errorf("workshop: lookup %q in %s: %w", key, coll.Name, err)
		}
		records = append(records, matches...)
	}
	if len(records) == 0 {
		return View{}, fmt.Errorf("workshop: %q: %w", key, ErrNotFound)
	}

	return mergeLatest(key, records), nil
}

// ExportRange folds the category's records with ts in the half-open window
// [from, to) into one view per business key. Records outside the window are
// excluded entirely. Row order is the first appearance of each key among the
// time-sorted input, which makes the output deterministic and stable.
func (a *Aggregator) ExportRange(ctx context.Context, cat Category, from, to int64) ([]View, error) {
	cols, err := cat.Collections()
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, name := range cols {
		all, err := a.store.GetAll(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("workshop: export %s: %w", cat, err)
		}
		for _, rec := range all {
			if rec.TS < from || rec.TS >= to {
				continue
			}
			if rec.Key() == "" {
				continue
			}
			records = append(records, rec)
		}
	}
	sortByTS(records)

	var order []string
	groups := make(map[string][]Record)
	for _, rec := range records {
		key := rec.Key()
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], rec)
	}

	views := make([]View, len(order))
	for i, key := range order {
		views[i] = mergeLatest(key, groups[key])
	}

	return views, nil
}

// History returns every record carrying the business key, grouped by
// collection and ordered newest first within each group. Collections with no
// matches are omitted; ErrNotFound when nothing matches anywhere.
func (a *Aggregator) History(ctx context.Context, key string) (map[string][]Record, error) {
	out := make(map[string][]Record)
	for _, coll := range registry {
		matches, err := a.findByKey(ctx, coll, key)
		if err != nil {
			return nil, fmt.Errorf("workshop: history %q in %s: %w", key, coll.Name, err)
		}
		if len(matches) == 0 {
			continue
		}
		sortByTS(matches)
		reverse(matches)
		out[coll.Name] = matches
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("workshop: %q: %w", key, ErrNotFound)
	}

	return out, nil
}

// Recent returns the collection's latest n records, newest first.
func (a *Aggregator) Recent(ctx context.Context, collection string, n int) ([]Record, error) {
	if _, ok := LookupCollection(collection); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
	}

	records, err := a.store.GetAll(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("workshop: recent %s: %w", collection, err)
	}
	sortByTS(records)
	reverse(records)
	if n >= 0 && len(records) > n {
		records = records[:n]
	}

	return records, nil
}

func (a *Aggregator) findByKey(ctx context.Context, coll Collection, key string) ([]Record, error) {
	if finder, ok := a.store.(KeyFinder); ok {
		return finder.FindByKey(ctx, coll.Name, key)
	}

	all, err := a.store.GetAll(ctx, coll.Name)
	if err != nil {
		return nil, err
	}

	var matches []Record
	for _, rec := range all {
		if rec.Fields[coll.KeyField] == key {
			matches = append(matches, rec)
		}
	}

	return matches, nil
}

// mergeLatest folds records in ascending ts order: a later non-empty value
// overwrites, an empty value never does. The fold is a pure function of the
// record set; insertion order does not matter.
func mergeLatest(key string, records []Record) View {
	sortByTS(records)
	fields := make(map[string]string)
	for _, rec := range records {
		for name, value := range rec.Fields {
			if value == "" {
				continue
			}
			fields[name] = value
		}
	}

	return View{Key: key, Fields: fields}
}

// sortByTS orders records by ascending ts, ties broken by id so the order is
// fixed for a given record set.
func sortByTS(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].TS != records[j].TS {
			return records[i].TS < records[j].TS
		}

		return records[i].ID < records[j].ID
	})
}

func reverse(records []Record) {
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
}
