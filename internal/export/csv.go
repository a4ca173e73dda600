// Package export renders persisted records as a flattened CSV view,
// one row per record, without going through the aggregation engine.
package export

import (
	"context"
	"strconv"
	"strings"

	"github.com/mcortez/admetrics/internal/store"
)

// Row type labels in the exported file.
const (
	TypeBusiness = "Business Metric"
	TypeCampaign = "Marketing Campaign"
)

// Headers is the fixed column order of the export. The names are
// chosen so that feeding the file back through the column normalizer
// reproduces the canonical fields (round-trip import).
var Headers = []string{
	"Type",
	"Date",
	"Total Orders",
	"New Orders",
	"New Customers",
	"Total Revenue",
	"Gross Profit",
	"COGS",
	"Campaign",
	"Platform",
	"Tactic",
	"State",
	"Impressions",
	"Clicks",
	"Spend",
	"Attributed Revenue",
	"CTR",
	"CPC",
}

// CSV builds the export for one owner: business rows first, then
// campaign rows, every field double-quoted.
func CSV(ctx context.Context, st store.RecordStore, owner string) (string, error) {
	business, err := st.QueryBusiness(ctx, owner, store.Filter{})
	if err != nil {
		return "", err
	}
	campaigns, err := st.QueryCampaigns(ctx, owner, store.Filter{})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	writeRow(&b, Headers)

	for _, m := range business {
		writeRow(&b, []string{
			TypeBusiness,
			m.Date.Format("2006-01-02"),
			strconv.Itoa(m.TotalOrders),
			strconv.Itoa(m.NewOrders),
			strconv.Itoa(m.NewCustomers),
			ftoa(m.TotalRevenue),
			ftoa(m.GrossProfit),
			ftoa(m.COGS),
			"", "", "", "", "", "", "", "", "", "",
		})
	}

	for _, c := range campaigns {
		writeRow(&b, []string{
			TypeCampaign,
			c.Date.Format("2006-01-02"),
			"", "", "", "", "", "",
			c.Campaign,
			c.Platform,
			c.Tactic,
			c.State,
			strconv.Itoa(c.Impressions),
			strconv.Itoa(c.Clicks),
			ftoa(c.Spend),
			ftoa(c.AttributedRevenue),
			ftoa(c.CTR),
			ftoa(c.CPC),
		})
	}

	return b.String(), nil
}

// writeRow quotes every field; embedded quotes are doubled per RFC 4180.
func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}

// ftoa uses the shortest representation that round-trips the float.
func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RecordsByType splits parsed export rows back into campaign and
// business row sets, keyed on the Type column. Useful for re-importing
// an exported file.
func RecordsByType(rows []map[string]string) (campaign, business []map[string]string) {
	for _, r := range rows {
		switch r["Type"] {
		case TypeCampaign:
			campaign = append(campaign, r)
		case TypeBusiness:
			business = append(business, r)
		}
	}
	return campaign, business
}
