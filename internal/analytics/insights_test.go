package analytics

import (
	"strings"
	"testing"

	"github.com/mcortez/admetrics/internal/models"
)

func result(summary models.Summary, byPlatform map[string]models.GroupMetrics, biz models.BusinessSummary) models.AnalyticsResult {
	if byPlatform == nil {
		byPlatform = map[string]models.GroupMetrics{}
	}
	return models.AnalyticsResult{
		Summary:         summary,
		ByPlatform:      byPlatform,
		ByTactic:        map[string]models.GroupMetrics{},
		TimeSeries:      []models.TimePoint{},
		BusinessMetrics: biz,
	}
}

func TestInsightsEmptyAnalytics(t *testing.T) {
	got := GenerateInsights(result(models.Summary{}, nil, models.BusinessSummary{}))
	if len(got) != 0 {
		t.Fatalf("expected no insights for empty analytics, got %v", got)
	}
}

func TestInsightsBestPlatform(t *testing.T) {
	r := result(
		models.Summary{ROI: 75, CTR: 2},
		map[string]models.GroupMetrics{
			models.PlatformGoogle:   {ROAS: 3.0},
			models.PlatformFacebook: {ROAS: 0.8},
		},
		models.BusinessSummary{},
	)
	got := GenerateInsights(r)
	if len(got) != 1 {
		t.Fatalf("insights = %v, want exactly the best-platform one", got)
	}
	if got[0].Type != models.InsightPerformance {
		t.Errorf("type = %q, want performance", got[0].Type)
	}
	if !strings.Contains(got[0].Message, "Google") || !strings.Contains(got[0].Message, "3.00x") {
		t.Errorf("message = %q", got[0].Message)
	}
}

func TestInsightsBestPlatformTieIsDeterministic(t *testing.T) {
	r := result(
		models.Summary{ROI: 75, CTR: 2},
		map[string]models.GroupMetrics{
			models.PlatformTikTok:   {ROAS: 2.0},
			models.PlatformFacebook: {ROAS: 2.0},
		},
		models.BusinessSummary{},
	)
	for i := 0; i < 10; i++ {
		got := GenerateInsights(r)
		if !strings.Contains(got[0].Message, models.PlatformFacebook) {
			t.Fatalf("tie not broken deterministically: %q", got[0].Message)
		}
	}
}

func TestInsightsROIBands(t *testing.T) {
	byP := map[string]models.GroupMetrics{models.PlatformGoogle: {ROAS: 1}}

	cases := []struct {
		roi      float64
		wantType string // "" means neither band
	}{
		{150, models.InsightSuccess},
		{100.5, models.InsightSuccess},
		{100, ""},
		{75, ""},
		{50, ""},
		{49.9, models.InsightWarning},
	}
	for _, c := range cases {
		got := GenerateInsights(result(models.Summary{ROI: c.roi, CTR: 5}, byP, models.BusinessSummary{}))
		var found string
		for _, in := range got {
			if in.Title == "Strong ROI Performance" || in.Title == "Low ROI Alert" {
				found = in.Type
			}
		}
		if found != c.wantType {
			t.Errorf("roi %v: insight type = %q, want %q", c.roi, found, c.wantType)
		}
	}
}

func TestInsightsRulesAreIndependent(t *testing.T) {
	// Low ROI, low CTR and high CAC all fire together; none suppresses
	// another.
	r := result(
		models.Summary{ROI: 10, CTR: 0.5, CAC: 50},
		map[string]models.GroupMetrics{models.PlatformGoogle: {ROAS: 0.5}},
		models.BusinessSummary{RevenuePerCustomer: 100},
	)
	got := GenerateInsights(r)
	if len(got) != 4 {
		t.Fatalf("insights = %d, want 4 (best platform + 3 warnings): %+v", len(got), got)
	}
	warnings := 0
	for _, in := range got {
		if in.Type == models.InsightWarning {
			warnings++
		}
	}
	if warnings != 3 {
		t.Errorf("warnings = %d, want 3", warnings)
	}
}

func TestInsightsCACThreshold(t *testing.T) {
	byP := map[string]models.GroupMetrics{models.PlatformGoogle: {ROAS: 1}}
	biz := models.BusinessSummary{RevenuePerCustomer: 100}

	// At exactly 30% no warning; above it, warning.
	got := GenerateInsights(result(models.Summary{ROI: 75, CTR: 5, CAC: 30}, byP, biz))
	for _, in := range got {
		if in.Title == "High Customer Acquisition Cost" {
			t.Errorf("CAC at threshold should not warn")
		}
	}
	got = GenerateInsights(result(models.Summary{ROI: 75, CTR: 5, CAC: 30.1}, byP, biz))
	found := false
	for _, in := range got {
		if in.Title == "High Customer Acquisition Cost" {
			found = true
		}
	}
	if !found {
		t.Error("expected CAC warning above threshold")
	}
}

func TestInsightsCACWarnsWhenRevenuePerCustomerIsZero(t *testing.T) {
	// Customers acquired at a cost but bringing in no revenue: any
	// positive CAC exceeds 30% of zero and must warn.
	byP := map[string]models.GroupMetrics{models.PlatformGoogle: {ROAS: 1}}
	got := GenerateInsights(result(
		models.Summary{ROI: 75, CTR: 5, CAC: 5},
		byP,
		models.BusinessSummary{RevenuePerCustomer: 0},
	))
	found := false
	for _, in := range got {
		if in.Title == "High Customer Acquisition Cost" {
			found = true
		}
	}
	if !found {
		t.Error("expected CAC warning when revenue per customer is zero")
	}
}
