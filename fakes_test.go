package workshop

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(ms int64) *fakeClock {
	return &fakeClock{now: time.UnixMilli(ms).UTC()}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) set(ms int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = time.UnixMilli(ms).UTC()
}

type seqGenerator struct {
	mu sync.Mutex
	n  int
}

func (g *seqGenerator) New() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%04d", g.n), nil
}

type failingGenerator struct{ err error }

func (g failingGenerator) New() (string, error) { return "", g.err }

// memStore is an in-memory Store without the KeyFinder fast path, so
// aggregator tests exercise the GetAll scan.
type memStore struct {
	mu      sync.Mutex
	records map[string]map[string]Record
	putErr  error
	getErr  error
	puts    []string // collection/id in call order
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]map[string]Record)}
}

func (s *memStore) Put(_ context.Context, collection string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	if s.records[collection] == nil {
		s.records[collection] = make(map[string]Record)
	}
	s.records[collection][rec.ID] = rec
	s.puts = append(s.puts, collection+"/"+rec.ID)
	return nil
}

func (s *memStore) GetAll(_ context.Context, collection string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	out := make([]Record, 0, len(s.records[collection]))
	for _, rec := range s.records[collection] {
		out = append(out, rec)
	}
	return out, nil
}

func (s *memStore) add(rec Record) {
	_ = s.Put(context.Background(), rec.Collection, rec)
}

type memQueue struct {
	mu         sync.Mutex
	entries    []Entry
	enqueueErr error
	listErr    error
	markErr    error
	markCalls  [][]string
}

func newMemQueue() *memQueue {
	return &memQueue{}
}

func (q *memQueue) Enqueue(_ context.Context, entry Entry) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.enqueueErr != nil {
		return q.enqueueErr
	}
	q.entries = append(q.entries, entry)
	return nil
}

func (q *memQueue) ListPending(_ context.Context, limit int) ([]Entry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.listErr != nil {
		return nil, q.listErr
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	var pending []Entry
	for _, e := range q.entries {
		if !e.Synced {
			pending = append(pending, e)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		if pending[i].TS != pending[j].TS {
			return pending[i].TS < pending[j].TS
		}
		return pending[i].ID < pending[j].ID
	})
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (q *memQueue) MarkSynced(_ context.Context, ids []string, syncTS int64) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.markErr != nil {
		return q.markErr
	}
	q.markCalls = append(q.markCalls, append([]string(nil), ids...))
	marked := make(map[string]bool, len(ids))
	for _, id := range ids {
		marked[id] = true
	}
	for i := range q.entries {
		if marked[q.entries[i].ID] && !q.entries[i].Synced {
			q.entries[i].Synced = true
			q.entries[i].SyncTS = syncTS
		}
	}
	return nil
}

func (q *memQueue) PendingCount(_ context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for _, e := range q.entries {
		if !e.Synced {
			n++
		}
	}
	return n, nil
}

func (q *memQueue) snapshot() []Entry {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Entry(nil), q.entries...)
}

type captureSender struct {
	mu      sync.Mutex
	batches [][]Entry
	err     error
	delay   time.Duration
	active  int
	maxSeen int
}

func (s *captureSender) SendBatch(_ context.Context, entries []Entry) error {
	s.mu.Lock()
	s.active++
	if s.active > s.maxSeen {
		s.maxSeen = s.active
	}
	delay := s.delay
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.active--
	if s.err != nil {
		return s.err
	}
	s.batches = append(s.batches, append([]Entry(nil), entries...))
	return nil
}

func (s *captureSender) sent() [][]Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]Entry(nil), s.batches...)
}

func mustRecord(collection, id string, ts int64, fields map[string]string) Record {
	return Record{ID: id, TS: ts, Collection: collection, Fields: fields}
}

func mustEntry(collection, id string, ts int64) Entry {
	entry, err := NewEntry(mustRecord(collection, id, ts, map[string]string{KeyField(collection): "K-" + id}))
	if err != nil {
		panic(err)
	}
	return entry
}
