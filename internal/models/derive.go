package models

import "time"

// SafeDiv returns a/b, or 0 when the denominator is 0. Every derived
// ratio in the system goes through this guard so results are never
// NaN or Inf.
func SafeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// Finalize stamps an ID and computes the derived KPIs from the raw
// counters. Inputs are assumed validated; negative values pass through
// uncorrected.
func (c *CampaignRecord) Finalize(now time.Time) {
	if c.ID == "" {
		c.ID = NewID()
	}
	c.Date = Day(c.Date)
	if c.Tactic == "" {
		c.Tactic = UnknownLabel
	}
	if c.State == "" {
		c.State = UnknownLabel
	}
	c.CTR = SafeDiv(float64(c.Clicks), float64(c.Impressions)) * 100
	c.CPC = SafeDiv(c.Spend, float64(c.Clicks))
	c.ROAS = SafeDiv(c.AttributedRevenue, c.Spend)
	c.ROI = SafeDiv(c.AttributedRevenue-c.Spend, c.Spend) * 100
	c.CreatedAt = now
}

// Finalize stamps an ID and computes the derived business ratios.
func (b *BusinessMetricRecord) Finalize(now time.Time) {
	if b.ID == "" {
		b.ID = NewID()
	}
	b.Date = Day(b.Date)
	b.RevenuePerCustomer = SafeDiv(b.TotalRevenue, float64(b.NewCustomers))
	b.ProfitMargin = SafeDiv(b.GrossProfit, b.TotalRevenue) * 100
	b.OrderValue = SafeDiv(b.TotalRevenue, float64(b.TotalOrders))
	b.CreatedAt = now
}
