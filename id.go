package workshop

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"
)

const (
	idSuffixBytes = 6
	idSeparator   = '_'

	clockSleepStep = 1 * time.Millisecond
	clockSleepMax  = 100 * time.Millisecond
)

// IDGenerator creates new record identifiers.
type IDGenerator interface {
	// New returns a new identifier.
	New() (string, error)
}

// Generator produces ids of the form "<unix-millis>_<random hex suffix>".
// The millisecond prefix keeps ids roughly time-ordered; the 48-bit random
// suffix makes collisions within one millisecond practically impossible.
// The generator is safe for concurrent use and never lets the millisecond
// prefix move backwards, even across wall-clock adjustments.
type Generator struct {
	mu     sync.Mutex
	clock  Clock
	rand   io.Reader
	lastMS int64
}

// NewGenerator creates a Generator using the provided clock.
func NewGenerator(clock Clock) *Generator {
	if clock == nil {
		clock = SystemClock{}
	}

	return &Generator{clock: clock, rand: rand.Reader}
}

// New creates a new record identifier.
func (g *Generator) New() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now().UnixMilli()
	if now < g.lastMS {
		now = g.waitForClock(now)
	}
	g.lastMS = now

	var suffix [idSuffixBytes]byte
	if _, err := io.ReadFull(g.rand, suffix[:]); err != nil {
		return "", fmt.Errorf("workshop: generate id: %w", err)
	}

	buf := make([]byte, 0, 20+1+idSuffixBytes*2)
	buf = strconv.AppendInt(buf, now, 10)
	buf = append(buf, idSeparator)
	buf = hex.AppendEncode(buf, suffix[:])

	return string(buf), nil
}

// waitForClock sleeps until the wall clock catches up to the last issued
// millisecond so id prefixes stay monotonic after a backward clock step.
func (g *Generator) waitForClock(now int64) int64 {
	for now < g.lastMS {
		drift := time.Duration(g.lastMS-now) * time.Millisecond
		if drift > clockSleepMax {
			drift = clockSleepMax
		}
		if drift <= 0 {
			drift = clockSleepStep
		}
		time.Sleep(drift)
		now = g.clock.Now().UnixMilli()
	}

	return now
}

// IDMillis extracts the millisecond prefix from an id. It returns 0 for
// ids that do not carry one.
func IDMillis(id string) int64 {
	for i := 0; i < len(id); i++ {
		if id[i] == idSeparator {
			ms, err := strconv.ParseInt(id[:i], 10, 64)
			if err != nil {
				return 0
			}

			return ms
		}
	}

	return 0
}
