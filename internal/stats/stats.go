package stats

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Collector tracks per-session frame counters keyed by classification label
// (crc_fail, len_fail, df17, tc11, bds44, ...). Counters are monotonically
// increasing and reset only when a new Collector is created for a session.
type Collector struct {
	mu       sync.RWMutex
	counts   map[string]uint64
	started  time.Time
	lastSeen time.Time
}

// New creates a Collector for a capture session.
func New() *Collector {
	now := time.Now().UTC()
	return &Collector{
		counts:  make(map[string]uint64),
		started: now,
	}
}

// Inc increments the counter for a label.
func (c *Collector) Inc(label string) {
	c.mu.Lock()
	c.counts[label]++
	c.lastSeen = time.Now().UTC()
	c.mu.Unlock()
}

// Count returns the current value of one counter.
func (c *Collector) Count(label string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counts[label]
}

// Snapshot returns a copy of all counters. It does not reset them.
func (c *Collector) Snapshot() map[string]uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]uint64, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}

// Total returns the sum of all counters matching a label prefix, e.g.
// Total("df") for all accepted frames by downlink format.
func (c *Collector) Total(prefix string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var sum uint64
	for k, v := range c.counts {
		if strings.HasPrefix(k, prefix) {
			sum += v
		}
	}
	return sum
}

// String renders all counters sorted by label, one per line.
func (c *Collector) String() string {
	snap := c.Snapshot()

	labels := make([]string, 0, len(snap))
	for k := range snap {
		labels = append(labels, k)
	}
	sort.Strings(labels)

	var sb strings.Builder
	for _, label := range labels {
		fmt.Fprintf(&sb, "  %s: %d\n", label, snap[label])
	}
	return sb.String()
}

// Started returns the collector's creation time.
func (c *Collector) Started() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.started
}

// LastSeen returns the time of the most recent counted frame.
func (c *Collector) LastSeen() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastSeen
}
