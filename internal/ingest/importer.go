package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mcortez/admetrics/internal/models"
	"github.com/mcortez/admetrics/internal/store"
	"github.com/mcortez/admetrics/internal/telemetry"
)

// Upload limits, matching the HTTP surface.
const (
	MaxFileSize        = 10 << 20 // 10MB per file
	MaxCampaignFiles   = 5
	uploadBatchSize    = 100
	businessSourceFile = "business.csv"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
}

// File is an already-read upload: name plus raw bytes. The importer is
// agnostic about where the bytes came from (disk, multipart buffer).
type File struct {
	Name string
	Data []byte
}

// Counts reports how many records an import produced.
type Counts struct {
	Campaigns int `json:"campaigns"`
	Business  int `json:"businessMetrics"`
}

// Importer runs the parse -> normalize -> validate -> persist pipeline.
// Imports for the same owner are serialized with a per-owner lock so
// two concurrent runs cannot interleave their replace phases.
type Importer struct {
	st   store.RecordStore
	prog store.ProgressStore
	tel  *telemetry.Metrics
	log  *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewImporter(st store.RecordStore, prog store.ProgressStore, tel *telemetry.Metrics, log *slog.Logger) *Importer {
	return &Importer{st: st, prog: prog, tel: tel, log: log, locks: make(map[string]*sync.Mutex)}
}

func (im *Importer) ownerLock(owner string) *sync.Mutex {
	im.mu.Lock()
	defer im.mu.Unlock()
	l, ok := im.locks[owner]
	if !ok {
		l = &sync.Mutex{}
		im.locks[owner] = l
	}
	return l
}

// ImportDatasource loads business.csv plus one CSV per platform
// (Facebook.csv, Google.csv, TikTok.csv) from dir and atomically
// replaces all of the owner's existing records with the result. Any
// parse or validation failure aborts the whole run with the previous
// records left intact.
func (im *Importer) ImportDatasource(ctx context.Context, owner, dir string) (Counts, error) {
	l := im.ownerLock(owner)
	l.Lock()
	defer l.Unlock()

	start := time.Now()

	bizData, err := os.ReadFile(filepath.Join(dir, businessSourceFile))
	if err != nil {
		im.tel.Failure("read")
		return Counts{}, err
	}
	bizRecs, err := im.buildBusinessFile(owner, businessSourceFile, bizData)
	if err != nil {
		im.tel.Failure("validate")
		return Counts{}, err
	}

	var campRecs []models.CampaignRecord
	for _, platform := range models.Platforms() {
		name := platform + ".csv"
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			im.tel.Failure("read")
			return Counts{}, err
		}
		recs, err := im.buildCampaignFile(owner, name, data, platform)
		if err != nil {
			im.tel.Failure("validate")
			return Counts{}, err
		}
		campRecs = append(campRecs, recs...)
	}

	if err := im.st.ReplaceBusiness(ctx, owner, bizRecs); err != nil {
		im.tel.Failure("store")
		return Counts{}, &ImportError{File: businessSourceFile, Err: err}
	}
	if err := im.st.ReplaceCampaigns(ctx, owner, campRecs); err != nil {
		im.tel.Failure("store")
		return Counts{}, &ImportError{File: "campaigns", Err: err}
	}

	im.tel.AddRows("campaign", len(campRecs))
	im.tel.AddRows("business", len(bizRecs))
	im.tel.ObserveImport(time.Since(start).Seconds())
	im.log.Info("datasource import complete",
		slog.String("owner", owner),
		slog.Int("campaigns", len(campRecs)),
		slog.Int("business", len(bizRecs)))
	return Counts{Campaigns: len(campRecs), Business: len(bizRecs)}, nil
}

// ImportUpload processes user-supplied campaign and business files
// (CSV or XLSX) and appends the records to the owner's existing set.
// Each file is all-or-nothing: it is parsed and validated completely
// before any of its rows are stored. Campaign rows are inserted in
// batches with progress published after each batch.
func (im *Importer) ImportUpload(ctx context.Context, owner string, campaignFiles, businessFiles []File) (Counts, error) {
	l := im.ownerLock(owner)
	l.Lock()
	defer l.Unlock()

	if len(campaignFiles) == 0 && len(businessFiles) == 0 {
		return Counts{}, &ParseError{Msg: "no files uploaded"}
	}
	if len(campaignFiles) > MaxCampaignFiles {
		return Counts{}, &ParseError{Msg: fmt.Sprintf("too many campaign files: maximum %d allowed at once", MaxCampaignFiles)}
	}
	for _, f := range append(append([]File(nil), campaignFiles...), businessFiles...) {
		if len(f.Data) > MaxFileSize {
			return Counts{}, &ParseError{File: f.Name, Msg: "file too large: maximum size is 10MB"}
		}
	}

	start := time.Now()
	var total Counts

	for _, f := range campaignFiles {
		recs, err := im.buildCampaignFile(owner, f.Name, f.Data, "")
		if err != nil {
			im.tel.Failure("validate")
			return total, err
		}
		n, err := im.insertCampaignBatches(ctx, owner, f.Name, recs)
		total.Campaigns += n
		if err != nil {
			im.tel.Failure("store")
			return total, err
		}
		im.tel.AddRows("campaign", n)
	}

	for _, f := range businessFiles {
		recs, err := im.buildBusinessFile(owner, f.Name, f.Data)
		if err != nil {
			im.tel.Failure("validate")
			return total, err
		}
		if err := im.st.InsertBusiness(ctx, recs); err != nil {
			im.tel.Failure("store")
			return total, &ImportError{File: f.Name, RowsProcessed: total.Business, Err: err}
		}
		total.Business += len(recs)
		im.tel.AddRows("business", len(recs))
	}

	im.publish(ctx, owner, store.Progress{Progress: 100, Message: "Upload complete",
		Details: fmt.Sprintf("%d campaign rows, %d business rows", total.Campaigns, total.Business)})

	im.tel.ObserveImport(time.Since(start).Seconds())
	im.log.Info("upload complete",
		slog.String("owner", owner),
		slog.Int("campaigns", total.Campaigns),
		slog.Int("business", total.Business))
	return total, nil
}

func (im *Importer) insertCampaignBatches(ctx context.Context, owner, name string, recs []models.CampaignRecord) (int, error) {
	totalBatches := (len(recs) + uploadBatchSize - 1) / uploadBatchSize
	inserted := 0
	for i := 0; i < len(recs); i += uploadBatchSize {
		end := i + uploadBatchSize
		if end > len(recs) {
			end = len(recs)
		}
		if err := im.st.InsertCampaigns(ctx, recs[i:end]); err != nil {
			return inserted, &ImportError{File: name, RowsProcessed: inserted, Err: err}
		}
		inserted = end

		batch := i/uploadBatchSize + 1
		pct := batch * 100 / totalBatches
		im.publish(ctx, owner, store.Progress{
			Progress:     pct,
			FileName:     name,
			Batch:        batch,
			TotalBatches: totalBatches,
			Message:      fmt.Sprintf("Processing %s...", name),
			Details:      fmt.Sprintf("Batch %d/%d (%d%%)", batch, totalBatches, pct),
		})
	}
	return inserted, nil
}

func (im *Importer) publish(ctx context.Context, owner string, p store.Progress) {
	if im.prog == nil {
		return
	}
	if err := im.prog.Set(ctx, owner, p); err != nil {
		im.log.Warn("progress update failed", slog.String("owner", owner), slog.String("err", err.Error()))
	}
}

// ClearData removes all of the owner's records.
func (im *Importer) ClearData(ctx context.Context, owner string) (Counts, error) {
	l := im.ownerLock(owner)
	l.Lock()
	defer l.Unlock()

	nc, nb, err := im.st.Clear(ctx, owner)
	if err != nil {
		return Counts{}, err
	}
	return Counts{Campaigns: nc, Business: nb}, nil
}

// buildCampaignFile parses, normalizes, validates and finalizes every
// row of one campaign file. forcePlatform overrides the platform column
// for the per-platform datasource files.
func (im *Importer) buildCampaignFile(owner, name string, data []byte, forcePlatform string) ([]models.CampaignRecord, error) {
	rows, err := ParseFile(name, data)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	recs := make([]models.CampaignRecord, 0, len(rows))
	for i, raw := range rows {
		row := NormalizeCampaignRow(raw)
		if forcePlatform != "" {
			row[FieldPlatform] = forcePlatform
		}
		if err := ValidateCampaignRow(row); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", name, i+2, err)
		}
		date, err := parseDate(row[FieldDate])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", name, i+2, err)
		}
		rec := models.CampaignRecord{
			Owner:             owner,
			Date:              date,
			Platform:          row[FieldPlatform],
			Tactic:            orUnknown(row[FieldTactic]),
			State:             orUnknown(row[FieldState]),
			Campaign:          row[FieldCampaignName],
			Impressions:       atoi(row[FieldImpressions]),
			Clicks:            atoi(row[FieldClicks]),
			Spend:             atof(row[FieldSpend]),
			AttributedRevenue: atof(row[FieldAttributedRevenue]),
		}
		rec.Finalize(now)
		recs = append(recs, rec)
	}
	return recs, nil
}

func (im *Importer) buildBusinessFile(owner, name string, data []byte) ([]models.BusinessMetricRecord, error) {
	rows, err := ParseFile(name, data)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	recs := make([]models.BusinessMetricRecord, 0, len(rows))
	for i, raw := range rows {
		row := NormalizeBusinessRow(raw)
		if err := ValidateBusinessRow(row); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", name, i+2, err)
		}
		date, err := parseDate(row[FieldDate])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", name, i+2, err)
		}
		rec := models.BusinessMetricRecord{
			Owner:        owner,
			Date:         date,
			TotalOrders:  atoi(row[FieldTotalOrders]),
			NewOrders:    atoi(row[FieldNewOrders]),
			NewCustomers: atoi(row[FieldNewCustomers]),
			TotalRevenue: atof(row[FieldTotalRevenue]),
			GrossProfit:  atof(row[FieldGrossProfit]),
			COGS:         atof(row[FieldCOGS]),
		}
		rec.Finalize(now)
		recs = append(recs, rec)
	}
	return recs, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date: %q", s)
}

func orUnknown(s string) string {
	if s == "" {
		return models.UnknownLabel
	}
	return s
}

// Numeric parsing is tolerant: a malformed value counts as 0 rather
// than failing the row.
func atoi(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		f, ferr := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if ferr != nil {
			return 0
		}
		return int(f)
	}
	return v
}

func atof(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
