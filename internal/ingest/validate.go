package ingest

import (
	"fmt"
	"strings"

	"github.com/mcortez/admetrics/internal/models"
)

var campaignRequired = []string{
	FieldCampaignName,
	FieldPlatform,
	FieldDate,
	FieldSpend,
	FieldImpressions,
	FieldClicks,
	FieldAttributedRevenue,
}

var businessRequired = []string{
	FieldDate,
	FieldTotalRevenue,
	FieldTotalOrders,
	FieldNewCustomers,
	FieldCOGS,
}

// ValidateCampaignRow checks a normalized campaign row for required
// fields and a legal platform value. Pure check; the row is not
// mutated. Every offending field is reported, not just the first.
func ValidateCampaignRow(row Row) error {
	missing := missingFields(row, campaignRequired)

	var invalid []string
	if p := row[FieldPlatform]; p != "" && !models.ValidPlatform(p) {
		invalid = append(invalid, fmt.Sprintf("invalid platform: %s (must be one of: %s)",
			p, strings.Join(models.Platforms(), ", ")))
	}

	if len(missing) == 0 && len(invalid) == 0 {
		return nil
	}
	return &ValidationError{Schema: "campaign", MissingFields: missing, InvalidValues: invalid}
}

// ValidateBusinessRow checks a normalized business-metric row for
// required fields.
func ValidateBusinessRow(row Row) error {
	missing := missingFields(row, businessRequired)
	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{Schema: "business", MissingFields: missing}
}

func missingFields(row Row, required []string) []string {
	var missing []string
	for _, f := range required {
		if row[f] == "" {
			missing = append(missing, f)
		}
	}
	return missing
}
