package ingest

import (
	"strings"

	"github.com/mcortez/admetrics/internal/models"
)

// Canonical campaign field names understood downstream.
const (
	FieldCampaignName      = "campaign_name"
	FieldDate              = "date"
	FieldSpend             = "spend"
	FieldImpressions       = "impressions"
	FieldClicks            = "clicks"
	FieldAttributedRevenue = "attributed_revenue"
	FieldPlatform          = "platform"
	FieldTactic            = "tactic"
	FieldState             = "state"
)

// Canonical business field names.
const (
	FieldTotalRevenue = "total_revenue"
	FieldTotalOrders  = "total_orders"
	FieldNewOrders    = "new_orders"
	FieldNewCustomers = "new_customers"
	FieldCOGS         = "cogs"
	FieldGrossProfit  = "gross_profit"
)

// Synonym tables are keyed by the canonicalized form of the variant
// (lower-cased, whitespace collapsed), so "Attributed  Revenue" and
// "attributed revenue" land on the same entry.
var campaignSynonyms = map[string]string{
	"campaign_name": FieldCampaignName,
	"campaign name": FieldCampaignName,
	"campaign":      FieldCampaignName,

	"date": FieldDate,

	"spend": FieldSpend,
	"cost":  FieldSpend,

	"impressions": FieldImpressions,
	"impression":  FieldImpressions,

	"clicks": FieldClicks,
	"click":  FieldClicks,

	"attributed_revenue": FieldAttributedRevenue,
	"attributed revenue": FieldAttributedRevenue,
	"revenue":            FieldAttributedRevenue,

	"platform": FieldPlatform,
	"tactic":   FieldTactic,
	"state":    FieldState,
}

var businessSynonyms = map[string]string{
	"date": FieldDate,

	"total_revenue": FieldTotalRevenue,
	"total revenue": FieldTotalRevenue,
	"revenue":       FieldTotalRevenue,

	"total_orders": FieldTotalOrders,
	"total orders": FieldTotalOrders,
	"# of orders":  FieldTotalOrders,
	"orders":       FieldTotalOrders,

	"new_orders":      FieldNewOrders,
	"new orders":      FieldNewOrders,
	"# of new orders": FieldNewOrders,

	"new_customers": FieldNewCustomers,
	"new customers": FieldNewCustomers,

	"cogs":               FieldCOGS,
	"cost of goods sold": FieldCOGS,

	"gross_profit": FieldGrossProfit,
	"gross profit": FieldGrossProfit,
}

// canonKey lower-cases a header and collapses internal whitespace.
func canonKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// underscoreKey lower-cases and replaces every non-alphanumeric rune
// with an underscore. Fallback rule for unmatched campaign headers.
func underscoreKey(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// NormalizeCampaignRow maps heterogeneous campaign headers onto the
// canonical field set. Unknown headers are kept under their
// underscore-normalized name; this fallback silently accepts unknown
// columns, leaving required-field enforcement to validation.
//
// When the row has no platform column, the platform is inferred by a
// case-insensitive substring match of the campaign name against the
// known platform names; no match leaves it unset.
func NormalizeCampaignRow(row Row) Row {
	out := make(Row, len(row))
	for key, value := range row {
		canonical, ok := campaignSynonyms[canonKey(key)]
		if !ok {
			canonical = underscoreKey(key)
		}
		out[canonical] = value
	}

	if out[FieldPlatform] == "" && out[FieldCampaignName] != "" {
		name := strings.ToLower(out[FieldCampaignName])
		for _, p := range models.Platforms() {
			if strings.Contains(name, strings.ToLower(p)) {
				out[FieldPlatform] = p
				break
			}
		}
	}
	return out
}

// NormalizeBusinessRow maps business-metric headers onto the canonical
// field set. Unknown headers fall back to their lower-cased form.
func NormalizeBusinessRow(row Row) Row {
	out := make(Row, len(row))
	for key, value := range row {
		canonical, ok := businessSynonyms[canonKey(key)]
		if !ok {
			canonical = strings.ToLower(key)
		}
		out[canonical] = value
	}
	return out
}
