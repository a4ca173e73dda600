package analytics

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mcortez/admetrics/internal/models"
	"github.com/mcortez/admetrics/internal/store"
)

// Service fetches an owner's records and runs the engine. Filtering by
// date range and platform happens here, at the boundary, so the engine
// itself stays a pure function over record slices.
type Service struct {
	st store.RecordStore
}

func NewService(st store.RecordStore) *Service { return &Service{st: st} }

// ParseFilter reads startDate, endDate and platform query parameters.
// Dates are YYYY-MM-DD; a malformed value is an error rather than a
// silently empty filter.
func ParseFilter(v url.Values) (store.Filter, error) {
	var f store.Filter
	if s := strings.TrimSpace(v.Get("startDate")); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return f, fmt.Errorf("bad startDate %q (want YYYY-MM-DD)", s)
		}
		f.From = &t
	}
	if s := strings.TrimSpace(v.Get("endDate")); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return f, fmt.Errorf("bad endDate %q (want YYYY-MM-DD)", s)
		}
		f.To = &t
	}
	if p := strings.TrimSpace(v.Get("platform")); p != "" {
		if !models.ValidPlatform(p) {
			return f, fmt.Errorf("unknown platform %q (must be one of: %s)",
				p, strings.Join(models.Platforms(), ", "))
		}
		f.Platform = p
	}
	return f, nil
}

// Query aggregates the owner's records under the given filter.
// The business set shares the date range but not the platform filter.
func (s *Service) Query(ctx context.Context, owner string, f store.Filter) (models.AnalyticsResult, error) {
	campaigns, err := s.st.QueryCampaigns(ctx, owner, f)
	if err != nil {
		return models.AnalyticsResult{}, err
	}
	business, err := s.st.QueryBusiness(ctx, owner, store.Filter{From: f.From, To: f.To})
	if err != nil {
		return models.AnalyticsResult{}, err
	}
	return Aggregate(campaigns, business), nil
}

// Insights aggregates the owner's full record set and derives the
// insight list from it.
func (s *Service) Insights(ctx context.Context, owner string) ([]models.Insight, models.AnalyticsResult, error) {
	result, err := s.Query(ctx, owner, store.Filter{})
	if err != nil {
		return nil, models.AnalyticsResult{}, err
	}
	return GenerateInsights(result), result, nil
}
