package workshop

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"
)

func TestSyncOnceOfflineIsNoOp(t *testing.T) {
	queue := newMemQueue()
	queue.entries = []Entry{mustEntry(CollEngineSupply, "1_a", 1)}
	sender := &captureSender{}
	engine := NewEngine(queue, sender, StaticNetwork(false))

	n, err := engine.SyncOnce(context.Background())
	if err != nil {
		t.Fatalf("offline pass must not error: %v", err)
	}
	if n != 0 {
		t.Fatalf("offline pass must deliver zero, got %d", n)
	}
	if len(sender.sent()) != 0 {
		t.Fatal("offline pass must not submit anything")
	}
	if pending, _ := queue.PendingCount(context.Background()); pending != 1 {
		t.Fatal("offline pass must not mutate entries")
	}
}

func TestSyncOnceDeliversOldestWithinLimit(t *testing.T) {
	queue := newMemQueue()
	// Enqueue out of ts order; delivery must be oldest first.
	for _, ts := range []int64{500, 100, 300, 200, 400} {
		queue.entries = append(queue.entries, mustEntry(CollEngineSupply, strconv.FormatInt(ts, 10)+"_x", ts))
	}
	sender := &captureSender{}
	clock := newFakeClock(9000)
	engine := NewEngine(queue, sender, StaticNetwork(true),
		WithBatchLimit(3),
		WithEngineClock(clock),
	)

	n, err := engine.SyncOnce(context.Background())
	if err != nil {
		t.Fatalf("pass: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 delivered, got %d", n)
	}

	batches := sender.sent()
	if len(batches) != 1 {
		t.Fatalf("expected one batch request, got %d", len(batches))
	}
	got := []int64{batches[0][0].TS, batches[0][1].TS, batches[0][2].TS}
	if got[0] != 100 || got[1] != 200 || got[2] != 300 {
		t.Fatalf("batch not oldest-first: %v", got)
	}

	// Exactly the three oldest flipped, with the clock's confirmation time.
	synced := 0
	for _, e := range queue.snapshot() {
		if e.Synced {
			synced++
			if e.TS > 300 {
				t.Fatalf("entry ts=%d should still be pending", e.TS)
			}
			if e.SyncTS != 9000 {
				t.Fatalf("syncTs = %d, want 9000", e.SyncTS)
			}
		}
	}
	if synced != 3 {
		t.Fatalf("expected 3 synced, got %d", synced)
	}
	if pending, _ := queue.PendingCount(context.Background()); pending != 2 {
		t.Fatalf("expected 2 still pending, got %d", pending)
	}
}

func TestSyncOnceFailureLeavesBatchPending(t *testing.T) {
	queue := newMemQueue()
	queue.entries = []Entry{
		mustEntry(CollEngineSupply, "1_a", 1),
		mustEntry(CollEngineSupply, "2_b", 2),
	}
	sender := &captureSender{err: errors.New("http 503")}
	engine := NewEngine(queue, sender, StaticNetwork(true))

	n, err := engine.SyncOnce(context.Background())
	if err == nil {
		t.Fatal("expected delivery error")
	}
	if n != 0 {
		t.Fatalf("failed pass must deliver zero, got %d", n)
	}
	for _, e := range queue.snapshot() {
		if e.Synced || e.SyncTS != 0 {
			t.Fatalf("entry mutated after failure: %+v", e)
		}
	}
}

func TestSyncOnceEmptyQueue(t *testing.T) {
	engine := NewEngine(newMemQueue(), &captureSender{}, StaticNetwork(true))

	n, err := engine.SyncOnce(context.Background())
	if err != nil || n != 0 {
		t.Fatalf("empty queue pass = (%d, %v), want (0, nil)", n, err)
	}
}

func TestSyncOnceMarkFailureReturnsError(t *testing.T) {
	queue := newMemQueue()
	queue.entries = []Entry{mustEntry(CollEngineSupply, "1_a", 1)}
	queue.markErr = errors.New("storage gone")
	engine := NewEngine(queue, &captureSender{}, StaticNetwork(true))

	if _, err := engine.SyncOnce(context.Background()); !errors.Is(err, queue.markErr) {
		t.Fatalf("expected wrapped mark error, got %v", err)
	}
}

func TestOverlappingPassesDoNotDoubleSubmit(t *testing.T) {
	queue := newMemQueue()
	queue.entries = []Entry{mustEntry(CollEngineSupply, "1_a", 1)}
	sender := &captureSender{delay: 20 * time.Millisecond}
	engine := NewEngine(queue, sender, StaticNetwork(true))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = engine.SyncOnce(context.Background())
		}()
	}
	wg.Wait()

	if sender.maxSeen > 1 {
		t.Fatalf("passes overlapped on the wire: %d concurrent submits", sender.maxSeen)
	}
	if len(sender.sent()) != 1 {
		t.Fatalf("entry submitted %d times, want 1", len(sender.sent()))
	}
}

func TestDrainDeliversEverything(t *testing.T) {
	queue := newMemQueue()
	for ts := int64(1); ts <= 7; ts++ {
		queue.entries = append(queue.entries, mustEntry(CollEngineSupply, strconv.FormatInt(ts, 10)+"_d", ts))
	}
	sender := &captureSender{}
	engine := NewEngine(queue, sender, StaticNetwork(true), WithBatchLimit(3))

	total, err := engine.Drain(context.Background())
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if total != 7 {
		t.Fatalf("expected 7 delivered, got %d", total)
	}
	if batches := sender.sent(); len(batches) != 3 {
		t.Fatalf("expected 3 batches (3+3+1), got %d", len(batches))
	}
	if pending, _ := queue.PendingCount(context.Background()); pending != 0 {
		t.Fatalf("queue not drained: %d pending", pending)
	}
}

func TestRunPassesOnNetworkRestoredAndNotify(t *testing.T) {
	queue := newMemQueue()
	queue.entries = []Entry{mustEntry(CollEngineSupply, "1_a", 1)}
	sender := &captureSender{}

	var mu sync.Mutex
	online := false
	network := NetworkFunc(func() bool {
		mu.Lock()
		defer mu.Unlock()
		return online
	})

	transitions := make(chan bool, 1)
	engine := NewEngine(queue, sender, network, WithTransitions(transitions))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- engine.Run(ctx) }()

	// Going online delivers the pending entry.
	mu.Lock()
	online = true
	mu.Unlock()
	transitions <- true

	waitFor(t, func() bool {
		pending, _ := queue.PendingCount(context.Background())
		return pending == 0
	})

	// A post-save notification triggers another pass for the new entry.
	_ = queue.Enqueue(context.Background(), mustEntry(CollEngineSupply, "2_b", 2))
	engine.Notify()

	waitFor(t, func() bool {
		pending, _ := queue.PendingCount(context.Background())
		return pending == 0
	})

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("run should end with context.Canceled, got %v", err)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}
