package pipeline

import (
	"sync"
	"time"
)

// PairWindow is the maximum age difference between the even and odd message
// of a CPR pair. Pairs further apart are considered stale and never combined.
const PairWindow = 10 * time.Second

// cachedMessage is one stored position sub-message.
type cachedMessage struct {
	msg string
	ts  time.Time
}

// pairSlots holds the most recent even and odd position message of one
// aircraft. Slots are overwritten unconditionally by newer messages of the
// same parity and never merged.
type pairSlots struct {
	even *cachedMessage
	odd  *cachedMessage
}

// positionCache stores per-aircraft even/odd position messages for CPR
// pairing. Entries live for the capture session; the key space (24-bit
// addresses, a few thousand per session in practice) keeps it bounded without
// eviction.
type positionCache struct {
	mu      sync.Mutex
	entries map[string]*pairSlots
}

func newPositionCache() *positionCache {
	return &positionCache{entries: make(map[string]*pairSlots)}
}

// observe records a position message under its parity slot, last write wins.
func (c *positionCache) observe(icao string, oddFlag int, msg string, ts time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	slots, ok := c.entries[icao]
	if !ok {
		slots = &pairSlots{}
		c.entries[icao] = slots
	}
	stored := &cachedMessage{msg: msg, ts: ts}
	if oddFlag == 1 {
		slots.odd = stored
	} else {
		slots.even = stored
	}
}

// pair returns the stored even/odd messages for an aircraft when both slots
// are populated and within the staleness window.
func (c *positionCache) pair(icao string) (even, odd cachedMessage, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	slots := c.entries[icao]
	if slots == nil || slots.even == nil || slots.odd == nil {
		return cachedMessage{}, cachedMessage{}, false
	}
	gap := slots.even.ts.Sub(slots.odd.ts)
	if gap < 0 {
		gap = -gap
	}
	if gap >= PairWindow {
		return cachedMessage{}, cachedMessage{}, false
	}
	return *slots.even, *slots.odd, true
}

// size returns the number of aircraft tracked by the cache.
func (c *positionCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
