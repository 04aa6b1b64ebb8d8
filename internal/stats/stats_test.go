package stats

import (
	"strings"
	"sync"
	"testing"
)

func TestCollector_Inc(t *testing.T) {
	c := New()
	c.Inc("df17")
	c.Inc("df17")
	c.Inc("crc_fail")

	if got := c.Count("df17"); got != 2 {
		t.Errorf("Count(df17) = %d, want 2", got)
	}
	if got := c.Count("crc_fail"); got != 1 {
		t.Errorf("Count(crc_fail) = %d, want 1", got)
	}
	if got := c.Count("missing"); got != 0 {
		t.Errorf("Count(missing) = %d, want 0", got)
	}
}

func TestCollector_Snapshot(t *testing.T) {
	c := New()
	c.Inc("df17")

	snap := c.Snapshot()
	if snap["df17"] != 1 {
		t.Errorf("Snapshot df17 = %d, want 1", snap["df17"])
	}

	// Mutating the snapshot must not touch the collector.
	snap["df17"] = 99
	if c.Count("df17") != 1 {
		t.Error("Snapshot should be a copy")
	}
}

func TestCollector_Total(t *testing.T) {
	c := New()
	c.Inc("df17")
	c.Inc("df17")
	c.Inc("df20")
	c.Inc("tc11")

	if got := c.Total("df"); got != 3 {
		t.Errorf("Total(df) = %d, want 3", got)
	}
	if got := c.Total("tc"); got != 1 {
		t.Errorf("Total(tc) = %d, want 1", got)
	}
}

func TestCollector_String(t *testing.T) {
	c := New()
	c.Inc("df20")
	c.Inc("df17")

	out := c.String()
	if !strings.Contains(out, "df17: 1") || !strings.Contains(out, "df20: 1") {
		t.Errorf("String() = %q", out)
	}
	// Sorted by label.
	if strings.Index(out, "df17") > strings.Index(out, "df20") {
		t.Errorf("Labels out of order: %q", out)
	}
}

func TestCollector_Concurrent(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Inc("df17")
			}
		}()
	}
	wg.Wait()

	if got := c.Count("df17"); got != 1000 {
		t.Errorf("Count(df17) = %d, want 1000", got)
	}
}
