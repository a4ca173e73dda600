package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/mcortez/admetrics/internal/models"
)

func approx(got, want float64) bool {
	return math.Abs(got-want) < 1e-9
}

func campaign(platform, tactic, date string, imp, clicks int, spend, revenue float64) models.CampaignRecord {
	d, _ := time.Parse(time.RFC3339, date)
	c := models.CampaignRecord{
		Owner:             "u1",
		Date:              d,
		Platform:          platform,
		Tactic:            tactic,
		Impressions:       imp,
		Clicks:            clicks,
		Spend:             spend,
		AttributedRevenue: revenue,
	}
	c.Finalize(time.Now())
	return c
}

func TestAggregateSummaryFromTotals(t *testing.T) {
	campaigns := []models.CampaignRecord{
		campaign(models.PlatformGoogle, "Search", "2024-01-01T00:00:00Z", 1000, 50, 100, 300),
		campaign(models.PlatformFacebook, "Social", "2024-01-01T00:00:00Z", 200, 10, 50, 40),
	}
	r := Aggregate(campaigns, nil)

	s := r.Summary
	if s.TotalSpend != 150 || s.TotalRevenue != 340 {
		t.Fatalf("totals = spend %v revenue %v, want 150/340", s.TotalSpend, s.TotalRevenue)
	}
	if !approx(s.ROAS, 340.0/150.0) {
		t.Errorf("roas = %v, want %v", s.ROAS, 340.0/150.0)
	}
	if !approx(s.ROI, (340.0-150.0)/150.0*100) {
		t.Errorf("roi = %v, want %v", s.ROI, (340.0-150.0)/150.0*100)
	}
	if !approx(s.CTR, 5) {
		t.Errorf("ctr = %v, want 5", s.CTR)
	}
	if !approx(r.ByPlatform[models.PlatformGoogle].ROAS, 3.0) {
		t.Errorf("google roas = %v, want 3.0", r.ByPlatform[models.PlatformGoogle].ROAS)
	}
	if !approx(r.ByPlatform[models.PlatformFacebook].ROAS, 0.8) {
		t.Errorf("facebook roas = %v, want 0.8", r.ByPlatform[models.PlatformFacebook].ROAS)
	}
}

func TestAggregateRatiosAreNotAveraged(t *testing.T) {
	// Two records with spend {0, 100} and revenue {0, 50}: the summary
	// ROAS is 50/100, computed from the sums, not an average of
	// per-record ratios.
	campaigns := []models.CampaignRecord{
		campaign(models.PlatformGoogle, "A", "2024-01-01T00:00:00Z", 0, 0, 0, 0),
		campaign(models.PlatformGoogle, "A", "2024-01-02T00:00:00Z", 0, 0, 100, 50),
	}
	r := Aggregate(campaigns, nil)
	if !approx(r.Summary.ROAS, 0.5) {
		t.Errorf("roas = %v, want 0.5", r.Summary.ROAS)
	}
}

func TestAggregateGroupingIsAPartition(t *testing.T) {
	campaigns := []models.CampaignRecord{
		campaign(models.PlatformGoogle, "Search", "2024-01-01T00:00:00Z", 10, 1, 1, 1),
		campaign(models.PlatformFacebook, "Social", "2024-01-02T00:00:00Z", 20, 2, 2, 2),
		campaign("Mystery", models.UnknownLabel, "2024-01-02T00:00:00Z", 30, 3, 3, 3),
	}
	r := Aggregate(campaigns, nil)

	// No record may be dropped: the groups' impression totals must sum
	// back to the overall total, for every dimension.
	sumPlatform := 0
	for _, g := range r.ByPlatform {
		sumPlatform += g.Impressions
	}
	sumTactic := 0
	for _, g := range r.ByTactic {
		sumTactic += g.Impressions
	}
	sumSeries := 0
	for _, p := range r.TimeSeries {
		sumSeries += p.Impressions
	}
	if sumPlatform != 60 || sumTactic != 60 || sumSeries != 60 {
		t.Errorf("partition sums = %d/%d/%d, want 60 each", sumPlatform, sumTactic, sumSeries)
	}

	// An out-of-enum platform still gets its own group.
	if _, ok := r.ByPlatform["Mystery"]; !ok {
		t.Error("record with unknown platform was dropped from byPlatform")
	}
	if _, ok := r.ByTactic[models.UnknownLabel]; !ok {
		t.Error("record with Unknown tactic was dropped from byTactic")
	}
}

func TestAggregateTimeSeriesMergesCalendarDays(t *testing.T) {
	campaigns := []models.CampaignRecord{
		campaign(models.PlatformGoogle, "A", "2024-01-01T08:00:00Z", 0, 0, 10, 0),
		campaign(models.PlatformGoogle, "A", "2024-01-01T20:00:00Z", 0, 0, 20, 0),
		campaign(models.PlatformGoogle, "A", "2023-12-31T23:00:00Z", 0, 0, 5, 0),
	}
	r := Aggregate(campaigns, nil)

	if len(r.TimeSeries) != 2 {
		t.Fatalf("buckets = %d, want 2", len(r.TimeSeries))
	}
	if r.TimeSeries[0].Date != "2023-12-31" || r.TimeSeries[1].Date != "2024-01-01" {
		t.Errorf("series not ascending by date: %v, %v", r.TimeSeries[0].Date, r.TimeSeries[1].Date)
	}
	if r.TimeSeries[1].Spend != 30 {
		t.Errorf("same-day records not merged: spend = %v, want 30", r.TimeSeries[1].Spend)
	}
}

func TestAggregateBusinessSummary(t *testing.T) {
	business := []models.BusinessMetricRecord{
		{Owner: "u1", TotalOrders: 10, NewCustomers: 5, TotalRevenue: 1000, GrossProfit: 200},
		{Owner: "u1", TotalOrders: 10, NewCustomers: 5, TotalRevenue: 1000, GrossProfit: 300},
	}
	r := Aggregate(nil, business)

	b := r.BusinessMetrics
	if b.TotalRevenue != 2000 || b.TotalOrders != 20 || b.TotalCustomers != 10 || b.TotalProfit != 500 {
		t.Fatalf("business totals = %+v", b)
	}
	if !approx(b.RevenuePerCustomer, 200) || !approx(b.OrderValue, 100) || !approx(b.ProfitMargin, 25) {
		t.Errorf("business ratios = %+v", b)
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	r := Aggregate(nil, nil)
	if r.Summary != (models.Summary{}) {
		t.Errorf("summary = %+v, want all zeros", r.Summary)
	}
	if len(r.ByPlatform) != 0 || len(r.ByTactic) != 0 || len(r.TimeSeries) != 0 {
		t.Errorf("expected empty collections, got %+v", r)
	}
	if r.ByPlatform == nil || r.TimeSeries == nil {
		t.Error("collections must be empty, not nil, for stable serialization")
	}
}

func TestAggregateCAC(t *testing.T) {
	campaigns := []models.CampaignRecord{
		campaign(models.PlatformGoogle, "A", "2024-01-01T00:00:00Z", 0, 0, 300, 0),
	}
	business := []models.BusinessMetricRecord{
		{Owner: "u1", NewCustomers: 10},
	}
	r := Aggregate(campaigns, business)
	if !approx(r.Summary.CAC, 30) {
		t.Errorf("cac = %v, want 30", r.Summary.CAC)
	}
}
