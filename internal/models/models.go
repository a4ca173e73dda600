package models

import (
	"time"

	"github.com/google/uuid"
)

// Accepted campaign platforms.
const (
	PlatformFacebook = "Facebook"
	PlatformGoogle   = "Google"
	PlatformTikTok   = "TikTok"
)

// UnknownLabel is the sentinel for absent tactic/state values.
const UnknownLabel = "Unknown"

// Platforms lists the accepted platform values in a fixed order.
func Platforms() []string {
	return []string{PlatformFacebook, PlatformGoogle, PlatformTikTok}
}

func ValidPlatform(p string) bool {
	switch p {
	case PlatformFacebook, PlatformGoogle, PlatformTikTok:
		return true
	}
	return false
}

// CampaignRecord is one day of activity for one campaign on one platform.
// Derived fields are set once by Finalize; records are immutable afterwards.
type CampaignRecord struct {
	ID                string    `json:"id"`
	Owner             string    `json:"owner"`
	Date              time.Time `json:"date"`
	Platform          string    `json:"platform"`
	Tactic            string    `json:"tactic"`
	State             string    `json:"state"`
	Campaign          string    `json:"campaign"`
	Impressions       int       `json:"impressions"`
	Clicks            int       `json:"clicks"`
	Spend             float64   `json:"spend"`
	AttributedRevenue float64   `json:"attributedRevenue"`
	CTR               float64   `json:"ctr"`
	CPC               float64   `json:"cpc"`
	ROAS              float64   `json:"roas"`
	ROI               float64   `json:"roi"`
	CreatedAt         time.Time `json:"createdAt"`
}

// BusinessMetricRecord is one day of store-level business metrics.
type BusinessMetricRecord struct {
	ID                 string    `json:"id"`
	Owner              string    `json:"owner"`
	Date               time.Time `json:"date"`
	TotalOrders        int       `json:"totalOrders"`
	NewOrders          int       `json:"newOrders"`
	NewCustomers       int       `json:"newCustomers"`
	TotalRevenue       float64   `json:"totalRevenue"`
	GrossProfit        float64   `json:"grossProfit"`
	COGS               float64   `json:"cogs"`
	RevenuePerCustomer float64   `json:"revenuePerCustomer"`
	ProfitMargin       float64   `json:"profitMargin"`
	OrderValue         float64   `json:"orderValue"`
	CreatedAt          time.Time `json:"createdAt"`
}

// Summary holds totals and ratio KPIs across the whole filtered set.
type Summary struct {
	TotalSpend        float64 `json:"totalSpend"`
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalImpressions  int     `json:"totalImpressions"`
	TotalClicks       int     `json:"totalClicks"`
	TotalNewCustomers int     `json:"totalNewCustomers"`
	ROAS              float64 `json:"roas"`
	ROI               float64 `json:"roi"`
	CTR               float64 `json:"ctr"`
	CPC               float64 `json:"cpc"`
	CAC               float64 `json:"cac"`
}

// GroupMetrics holds totals and ratio KPIs for one platform or tactic group.
type GroupMetrics struct {
	Spend       float64 `json:"spend"`
	Revenue     float64 `json:"revenue"`
	Impressions int     `json:"impressions"`
	Clicks      int     `json:"clicks"`
	ROAS        float64 `json:"roas"`
	ROI         float64 `json:"roi"`
	CTR         float64 `json:"ctr"`
	CPC         float64 `json:"cpc"`
}

// TimePoint is one calendar-day bucket of the time series.
type TimePoint struct {
	Date        string  `json:"date"`
	Spend       float64 `json:"spend"`
	Revenue     float64 `json:"revenue"`
	Impressions int     `json:"impressions"`
	Clicks      int     `json:"clicks"`
	ROAS        float64 `json:"roas"`
	ROI         float64 `json:"roi"`
	CTR         float64 `json:"ctr"`
	CPC         float64 `json:"cpc"`
}

// BusinessSummary holds business-metric totals and derived ratios.
type BusinessSummary struct {
	TotalRevenue       float64 `json:"totalRevenue"`
	TotalOrders        int     `json:"totalOrders"`
	TotalCustomers     int     `json:"totalCustomers"`
	TotalProfit        float64 `json:"totalProfit"`
	RevenuePerCustomer float64 `json:"revenuePerCustomer"`
	OrderValue         float64 `json:"orderValue"`
	ProfitMargin       float64 `json:"profitMargin"`
}

// AnalyticsResult is the aggregation output returned to the caller.
// It is computed on query, never persisted.
type AnalyticsResult struct {
	Summary         Summary                 `json:"summary"`
	ByPlatform      map[string]GroupMetrics `json:"byPlatform"`
	ByTactic        map[string]GroupMetrics `json:"byTactic"`
	TimeSeries      []TimePoint             `json:"timeSeries"`
	BusinessMetrics BusinessSummary         `json:"businessMetrics"`
}

// Insight types.
const (
	InsightPerformance = "performance"
	InsightSuccess     = "success"
	InsightWarning     = "warning"
)

// Insight is one human-readable finding derived from an AnalyticsResult.
type Insight struct {
	Type           string `json:"type"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	Recommendation string `json:"recommendation"`
}

// NewID returns a fresh record identifier.
func NewID() string { return uuid.NewString() }

// Day truncates a timestamp to its calendar date in UTC. Time-of-day is
// insignificant for bucketing and equality.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
