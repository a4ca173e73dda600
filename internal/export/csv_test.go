package export

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mcortez/admetrics/internal/ingest"
	"github.com/mcortez/admetrics/internal/models"
	"github.com/mcortez/admetrics/internal/store"
)

func seed(t *testing.T) store.RecordStore {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemoryStore()

	d, _ := time.Parse("2006-01-02", "2024-04-01")
	c := models.CampaignRecord{
		Owner:             "u1",
		Date:              d,
		Platform:          models.PlatformGoogle,
		Tactic:            "Search",
		State:             "Active",
		Campaign:          "brand \"quoted\"",
		Impressions:       1234,
		Clicks:            56,
		Spend:             78.9,
		AttributedRevenue: 210.42,
	}
	c.Finalize(time.Now())
	if err := st.InsertCampaigns(ctx, []models.CampaignRecord{c}); err != nil {
		t.Fatal(err)
	}

	b := models.BusinessMetricRecord{
		Owner:        "u1",
		Date:         d,
		TotalOrders:  120,
		NewOrders:    30,
		NewCustomers: 25,
		TotalRevenue: 4000.5,
		GrossProfit:  1000.25,
		COGS:         3000.25,
	}
	b.Finalize(time.Now())
	if err := st.InsertBusiness(ctx, []models.BusinessMetricRecord{b}); err != nil {
		t.Fatal(err)
	}
	return st
}

func TestCSVShapeAndQuoting(t *testing.T) {
	csv, err := CSV(context.Background(), seed(t), "u1")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want header + 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], `"Type","Date",`) {
		t.Errorf("header = %q", lines[0])
	}
	// Business rows come first.
	if !strings.HasPrefix(lines[1], `"`+TypeBusiness+`"`) {
		t.Errorf("first data row = %q, want business", lines[1])
	}
	// Every field is double-quoted; embedded quotes are doubled.
	if !strings.Contains(lines[2], `"brand ""quoted"""`) {
		t.Errorf("quote escaping broken: %q", lines[2])
	}
}

func TestCSVRoundTripThroughNormalizer(t *testing.T) {
	st := seed(t)
	csv, err := CSV(context.Background(), st, "u1")
	if err != nil {
		t.Fatal(err)
	}

	rows, err := ingest.ParseCSV("export.csv", []byte(csv))
	if err != nil {
		t.Fatal(err)
	}
	plain := make([]map[string]string, len(rows))
	for i, r := range rows {
		plain[i] = r
	}
	campaignRows, businessRows := RecordsByType(plain)
	if len(campaignRows) != 1 || len(businessRows) != 1 {
		t.Fatalf("split = %d/%d, want 1/1", len(campaignRows), len(businessRows))
	}

	camp := ingest.NormalizeCampaignRow(campaignRows[0])
	if err := ingest.ValidateCampaignRow(camp); err != nil {
		t.Fatalf("re-imported campaign row invalid: %v", err)
	}
	if camp[ingest.FieldCampaignName] != `brand "quoted"` {
		t.Errorf("campaign = %q", camp[ingest.FieldCampaignName])
	}
	if got, _ := strconv.ParseFloat(camp[ingest.FieldSpend], 64); got != 78.9 {
		t.Errorf("spend = %v, want 78.9", got)
	}
	if got, _ := strconv.ParseFloat(camp[ingest.FieldAttributedRevenue], 64); got != 210.42 {
		t.Errorf("attributed revenue = %v, want 210.42", got)
	}
	if camp[ingest.FieldImpressions] != "1234" || camp[ingest.FieldClicks] != "56" {
		t.Errorf("counters = %q/%q", camp[ingest.FieldImpressions], camp[ingest.FieldClicks])
	}

	biz := ingest.NormalizeBusinessRow(businessRows[0])
	if err := ingest.ValidateBusinessRow(biz); err != nil {
		t.Fatalf("re-imported business row invalid: %v", err)
	}
	if got, _ := strconv.ParseFloat(biz[ingest.FieldTotalRevenue], 64); got != 4000.5 {
		t.Errorf("total revenue = %v, want 4000.5", got)
	}
	if biz[ingest.FieldTotalOrders] != "120" || biz[ingest.FieldNewCustomers] != "25" {
		t.Errorf("counters = %q/%q", biz[ingest.FieldTotalOrders], biz[ingest.FieldNewCustomers])
	}
	if got, _ := strconv.ParseFloat(biz[ingest.FieldCOGS], 64); got != 3000.25 {
		t.Errorf("cogs = %v, want 3000.25", got)
	}
}
