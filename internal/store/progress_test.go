package store

import (
	"context"
	"testing"
	"time"
)

func TestMemoryProgressSetGetClear(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryProgress(time.Minute)

	if _, found, _ := m.Get(ctx, "u1"); found {
		t.Fatal("expected no progress initially")
	}

	p := Progress{Progress: 40, FileName: "a.csv", Message: "Processing a.csv..."}
	if err := m.Set(ctx, "u1", p); err != nil {
		t.Fatal(err)
	}
	got, found, _ := m.Get(ctx, "u1")
	if !found || got.Progress != 40 || got.FileName != "a.csv" {
		t.Fatalf("got %+v (found=%v)", got, found)
	}

	// Owners are isolated.
	if _, found, _ := m.Get(ctx, "u2"); found {
		t.Error("progress leaked across owners")
	}

	m.Clear(ctx, "u1")
	if _, found, _ := m.Get(ctx, "u1"); found {
		t.Error("expected cleared progress")
	}
}

func TestMemoryProgressTTLEviction(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryProgress(time.Minute)

	now := time.Now()
	m.now = func() time.Time { return now }

	m.Set(ctx, "u1", Progress{Progress: 10})
	if _, found, _ := m.Get(ctx, "u1"); !found {
		t.Fatal("expected entry before expiry")
	}

	now = now.Add(2 * time.Minute)
	if _, found, _ := m.Get(ctx, "u1"); found {
		t.Error("expected entry to be evicted after TTL")
	}

	// Sweep on Set removes other owners' stale entries too.
	m.Set(ctx, "u2", Progress{Progress: 5})
	m.mu.RLock()
	_, stale := m.entries["u1"]
	m.mu.RUnlock()
	if stale {
		t.Error("stale entry survived the sweep")
	}
}
