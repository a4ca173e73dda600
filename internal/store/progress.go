package store

import (
	"context"
	"sync"
	"time"
)

// Progress describes how far an owner's upload has gotten. Published by
// the importer after each batch so the frontend can poll it.
type Progress struct {
	Progress     int    `json:"progress"` // 0-100
	FileName     string `json:"fileName,omitempty"`
	Batch        int    `json:"batch,omitempty"`
	TotalBatches int    `json:"totalBatches,omitempty"`
	Message      string `json:"message"`
	Details      string `json:"details,omitempty"`
}

// ProgressStore is an injectable replacement for ambient process-wide
// upload state: one entry per owner, evicted after a TTL.
type ProgressStore interface {
	Set(ctx context.Context, owner string, p Progress) error
	Get(ctx context.Context, owner string) (Progress, bool, error)
	Clear(ctx context.Context, owner string) error
}

type progressEntry struct {
	p       Progress
	expires time.Time
}

// MemoryProgress is the in-process ProgressStore. Expired entries are
// dropped lazily on access and swept on Set.
type MemoryProgress struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]progressEntry
	now     func() time.Time
}

func NewMemoryProgress(ttl time.Duration) *MemoryProgress {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &MemoryProgress{
		ttl:     ttl,
		entries: make(map[string]progressEntry),
		now:     time.Now,
	}
}

func (m *MemoryProgress) Set(_ context.Context, owner string, p Progress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for k, e := range m.entries {
		if now.After(e.expires) {
			delete(m.entries, k)
		}
	}
	m.entries[owner] = progressEntry{p: p, expires: now.Add(m.ttl)}
	return nil
}

func (m *MemoryProgress) Get(_ context.Context, owner string) (Progress, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[owner]
	m.mu.RUnlock()
	if !ok {
		return Progress{}, false, nil
	}
	if m.now().After(e.expires) {
		m.mu.Lock()
		delete(m.entries, owner)
		m.mu.Unlock()
		return Progress{}, false, nil
	}
	return e.p, true, nil
}

func (m *MemoryProgress) Clear(_ context.Context, owner string) error {
	m.mu.Lock()
	delete(m.entries, owner)
	m.mu.Unlock()
	return nil
}
