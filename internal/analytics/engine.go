// Package analytics turns validated record sets into aggregate KPIs,
// time series and rule-based insights. Everything here is pure: no
// I/O, no logging, and degenerate inputs produce zeroed results
// rather than errors.
package analytics

import (
	"sort"

	"github.com/mcortez/admetrics/internal/models"
)

// accum collects raw totals for one group; ratios are derived once at
// the end from the totals, never averaged across records.
type accum struct {
	spend       float64
	revenue     float64
	impressions int
	clicks      int
}

func (a *accum) add(c models.CampaignRecord) {
	a.spend += c.Spend
	a.revenue += c.AttributedRevenue
	a.impressions += c.Impressions
	a.clicks += c.Clicks
}

func (a accum) metrics() models.GroupMetrics {
	return models.GroupMetrics{
		Spend:       a.spend,
		Revenue:     a.revenue,
		Impressions: a.impressions,
		Clicks:      a.clicks,
		ROAS:        models.SafeDiv(a.revenue, a.spend),
		ROI:         models.SafeDiv(a.revenue-a.spend, a.spend) * 100,
		CTR:         models.SafeDiv(float64(a.clicks), float64(a.impressions)) * 100,
		CPC:         models.SafeDiv(a.spend, float64(a.clicks)),
	}
}

// Aggregate computes the full analytics result for one owner's
// (pre-filtered) records. Each dimension is a single linear pass.
// Empty input yields zeroed totals and empty collections. Records with
// unusual platform or tactic values still form groups under those raw
// values; nothing is dropped.
func Aggregate(campaigns []models.CampaignRecord, business []models.BusinessMetricRecord) models.AnalyticsResult {
	result := models.AnalyticsResult{
		ByPlatform: make(map[string]models.GroupMetrics),
		ByTactic:   make(map[string]models.GroupMetrics),
		TimeSeries: []models.TimePoint{},
	}

	// Summary totals.
	var total accum
	for _, c := range campaigns {
		total.add(c)
	}
	newCustomers := 0
	for _, b := range business {
		newCustomers += b.NewCustomers
	}
	result.Summary = models.Summary{
		TotalSpend:        total.spend,
		TotalRevenue:      total.revenue,
		TotalImpressions:  total.impressions,
		TotalClicks:       total.clicks,
		TotalNewCustomers: newCustomers,
		ROAS:              models.SafeDiv(total.revenue, total.spend),
		ROI:               models.SafeDiv(total.revenue-total.spend, total.spend) * 100,
		CTR:               models.SafeDiv(float64(total.clicks), float64(total.impressions)) * 100,
		CPC:               models.SafeDiv(total.spend, float64(total.clicks)),
		CAC:               models.SafeDiv(total.spend, float64(newCustomers)),
	}

	// Group by platform and tactic.
	byPlatform := make(map[string]*accum)
	byTactic := make(map[string]*accum)
	for _, c := range campaigns {
		p, ok := byPlatform[c.Platform]
		if !ok {
			p = &accum{}
			byPlatform[c.Platform] = p
		}
		p.add(c)

		t, ok := byTactic[c.Tactic]
		if !ok {
			t = &accum{}
			byTactic[c.Tactic] = t
		}
		t.add(c)
	}
	for k, a := range byPlatform {
		result.ByPlatform[k] = a.metrics()
	}
	for k, a := range byTactic {
		result.ByTactic[k] = a.metrics()
	}

	// Time series: bucket by calendar day, sorted ascending. Records on
	// the same day merge regardless of time-of-day.
	byDay := make(map[string]*accum)
	for _, c := range campaigns {
		day := models.Day(c.Date).Format("2006-01-02")
		a, ok := byDay[day]
		if !ok {
			a = &accum{}
			byDay[day] = a
		}
		a.add(c)
	}
	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		gm := byDay[day].metrics()
		result.TimeSeries = append(result.TimeSeries, models.TimePoint{
			Date:        day,
			Spend:       gm.Spend,
			Revenue:     gm.Revenue,
			Impressions: gm.Impressions,
			Clicks:      gm.Clicks,
			ROAS:        gm.ROAS,
			ROI:         gm.ROI,
			CTR:         gm.CTR,
			CPC:         gm.CPC,
		})
	}

	// Business metrics summary.
	var bizRevenue, bizProfit float64
	var bizOrders, bizCustomers int
	for _, b := range business {
		bizRevenue += b.TotalRevenue
		bizProfit += b.GrossProfit
		bizOrders += b.TotalOrders
		bizCustomers += b.NewCustomers
	}
	result.BusinessMetrics = models.BusinessSummary{
		TotalRevenue:       bizRevenue,
		TotalOrders:        bizOrders,
		TotalCustomers:     bizCustomers,
		TotalProfit:        bizProfit,
		RevenuePerCustomer: models.SafeDiv(bizRevenue, float64(bizCustomers)),
		OrderValue:         models.SafeDiv(bizRevenue, float64(bizOrders)),
		ProfitMargin:       models.SafeDiv(bizProfit, bizRevenue) * 100,
	}

	return result
}
