package store

import (
	"context"
	"sort"
	"sync"

	"github.com/mcortez/admetrics/internal/models"
)

// MemoryStore keeps records in process memory, grouped by owner.
// Used in tests and for dev runs without a database file.
type MemoryStore struct {
	mu        sync.RWMutex
	campaigns map[string][]models.CampaignRecord
	business  map[string][]models.BusinessMetricRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		campaigns: make(map[string][]models.CampaignRecord),
		business:  make(map[string][]models.BusinessMetricRecord),
	}
}

func (s *MemoryStore) ReplaceCampaigns(_ context.Context, owner string, recs []models.CampaignRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns[owner] = append([]models.CampaignRecord(nil), recs...)
	return nil
}

func (s *MemoryStore) ReplaceBusiness(_ context.Context, owner string, recs []models.BusinessMetricRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.business[owner] = append([]models.BusinessMetricRecord(nil), recs...)
	return nil
}

func (s *MemoryStore) InsertCampaigns(_ context.Context, recs []models.CampaignRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range recs {
		s.campaigns[r.Owner] = append(s.campaigns[r.Owner], r)
	}
	return nil
}

func (s *MemoryStore) InsertBusiness(_ context.Context, recs []models.BusinessMetricRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range recs {
		s.business[r.Owner] = append(s.business[r.Owner], r)
	}
	return nil
}

func (s *MemoryStore) QueryCampaigns(_ context.Context, owner string, f Filter) ([]models.CampaignRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.CampaignRecord
	for _, r := range s.campaigns[owner] {
		if !f.matchDate(r.Date) {
			continue
		}
		if f.Platform != "" && r.Platform != f.Platform {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *MemoryStore) QueryBusiness(_ context.Context, owner string, f Filter) ([]models.BusinessMetricRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.BusinessMetricRecord
	for _, r := range s.business[owner] {
		if !f.matchDate(r.Date) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *MemoryStore) Counts(_ context.Context, owner string) (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.campaigns[owner]), len(s.business[owner]), nil
}

func (s *MemoryStore) Clear(_ context.Context, owner string) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	nc, nb := len(s.campaigns[owner]), len(s.business[owner])
	delete(s.campaigns, owner)
	delete(s.business, owner)
	return nc, nb, nil
}
