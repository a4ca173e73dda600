package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mcortez/admetrics/internal/models"
)

const dayFormat = "2006-01-02"

// SQLiteStore persists records in a single database file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and runs
// the schema migration.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) migrate() error {
	const schema = `
CREATE TABLE IF NOT EXISTS campaigns (
	id                 TEXT PRIMARY KEY,
	owner              TEXT NOT NULL,
	date               TEXT NOT NULL,
	platform           TEXT NOT NULL,
	tactic             TEXT NOT NULL,
	state              TEXT NOT NULL,
	campaign           TEXT NOT NULL,
	impressions        INTEGER NOT NULL DEFAULT 0,
	clicks             INTEGER NOT NULL DEFAULT 0,
	spend              REAL NOT NULL DEFAULT 0,
	attributed_revenue REAL NOT NULL DEFAULT 0,
	ctr                REAL NOT NULL DEFAULT 0,
	cpc                REAL NOT NULL DEFAULT 0,
	roas               REAL NOT NULL DEFAULT 0,
	roi                REAL NOT NULL DEFAULT 0,
	created_at         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_campaigns_owner_date ON campaigns(owner, date);
CREATE INDEX IF NOT EXISTS idx_campaigns_owner_platform ON campaigns(owner, platform);

CREATE TABLE IF NOT EXISTS business_metrics (
	id                   TEXT PRIMARY KEY,
	owner                TEXT NOT NULL,
	date                 TEXT NOT NULL,
	total_orders         INTEGER NOT NULL DEFAULT 0,
	new_orders           INTEGER NOT NULL DEFAULT 0,
	new_customers        INTEGER NOT NULL DEFAULT 0,
	total_revenue        REAL NOT NULL DEFAULT 0,
	gross_profit         REAL NOT NULL DEFAULT 0,
	cogs                 REAL NOT NULL DEFAULT 0,
	revenue_per_customer REAL NOT NULL DEFAULT 0,
	profit_margin        REAL NOT NULL DEFAULT 0,
	order_value          REAL NOT NULL DEFAULT 0,
	created_at           TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_business_owner_date ON business_metrics(owner, date);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ReplaceCampaigns(ctx context.Context, owner string, recs []models.CampaignRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM campaigns WHERE owner = ?`, owner); err != nil {
		return err
	}
	if err := insertCampaignsTx(ctx, tx, recs); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) ReplaceBusiness(ctx context.Context, owner string, recs []models.BusinessMetricRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM business_metrics WHERE owner = ?`, owner); err != nil {
		return err
	}
	if err := insertBusinessTx(ctx, tx, recs); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) InsertCampaigns(ctx context.Context, recs []models.CampaignRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := insertCampaignsTx(ctx, tx, recs); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) InsertBusiness(ctx context.Context, recs []models.BusinessMetricRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := insertBusinessTx(ctx, tx, recs); err != nil {
		return err
	}
	return tx.Commit()
}

func insertCampaignsTx(ctx context.Context, tx *sql.Tx, recs []models.CampaignRecord) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO campaigns
		(id, owner, date, platform, tactic, state, campaign,
		 impressions, clicks, spend, attributed_revenue,
		 ctr, cpc, roas, roi, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range recs {
		if _, err := stmt.ExecContext(ctx,
			r.ID, r.Owner, r.Date.Format(dayFormat), r.Platform, r.Tactic, r.State, r.Campaign,
			r.Impressions, r.Clicks, r.Spend, r.AttributedRevenue,
			r.CTR, r.CPC, r.ROAS, r.ROI, r.CreatedAt.UTC().Format(time.RFC3339)); err != nil {
			return err
		}
	}
	return nil
}

func insertBusinessTx(ctx context.Context, tx *sql.Tx, recs []models.BusinessMetricRecord) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO business_metrics
		(id, owner, date, total_orders, new_orders, new_customers,
		 total_revenue, gross_profit, cogs,
		 revenue_per_customer, profit_margin, order_value, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range recs {
		if _, err := stmt.ExecContext(ctx,
			r.ID, r.Owner, r.Date.Format(dayFormat), r.TotalOrders, r.NewOrders, r.NewCustomers,
			r.TotalRevenue, r.GrossProfit, r.COGS,
			r.RevenuePerCustomer, r.ProfitMargin, r.OrderValue, r.CreatedAt.UTC().Format(time.RFC3339)); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) QueryCampaigns(ctx context.Context, owner string, f Filter) ([]models.CampaignRecord, error) {
	q := `SELECT id, owner, date, platform, tactic, state, campaign,
		impressions, clicks, spend, attributed_revenue, ctr, cpc, roas, roi, created_at
		FROM campaigns WHERE owner = ?`
	args := []any{owner}
	if f.From != nil {
		q += ` AND date >= ?`
		args = append(args, models.Day(*f.From).Format(dayFormat))
	}
	if f.To != nil {
		q += ` AND date <= ?`
		args = append(args, models.Day(*f.To).Format(dayFormat))
	}
	if f.Platform != "" {
		q += ` AND platform = ?`
		args = append(args, f.Platform)
	}
	q += ` ORDER BY date ASC, created_at ASC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CampaignRecord
	for rows.Next() {
		var r models.CampaignRecord
		var date, created string
		if err := rows.Scan(&r.ID, &r.Owner, &date, &r.Platform, &r.Tactic, &r.State, &r.Campaign,
			&r.Impressions, &r.Clicks, &r.Spend, &r.AttributedRevenue,
			&r.CTR, &r.CPC, &r.ROAS, &r.ROI, &created); err != nil {
			return nil, err
		}
		r.Date, _ = time.ParseInLocation(dayFormat, date, time.UTC)
		r.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) QueryBusiness(ctx context.Context, owner string, f Filter) ([]models.BusinessMetricRecord, error) {
	q := `SELECT id, owner, date, total_orders, new_orders, new_customers,
		total_revenue, gross_profit, cogs, revenue_per_customer, profit_margin, order_value, created_at
		FROM business_metrics WHERE owner = ?`
	args := []any{owner}
	if f.From != nil {
		q += ` AND date >= ?`
		args = append(args, models.Day(*f.From).Format(dayFormat))
	}
	if f.To != nil {
		q += ` AND date <= ?`
		args = append(args, models.Day(*f.To).Format(dayFormat))
	}
	q += ` ORDER BY date ASC, created_at ASC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.BusinessMetricRecord
	for rows.Next() {
		var r models.BusinessMetricRecord
		var date, created string
		if err := rows.Scan(&r.ID, &r.Owner, &date, &r.TotalOrders, &r.NewOrders, &r.NewCustomers,
			&r.TotalRevenue, &r.GrossProfit, &r.COGS,
			&r.RevenuePerCustomer, &r.ProfitMargin, &r.OrderValue, &created); err != nil {
			return nil, err
		}
		r.Date, _ = time.ParseInLocation(dayFormat, date, time.UTC)
		r.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Counts(ctx context.Context, owner string) (int, int, error) {
	var nc, nb int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM campaigns WHERE owner = ?`, owner).Scan(&nc); err != nil {
		return 0, 0, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM business_metrics WHERE owner = ?`, owner).Scan(&nb); err != nil {
		return 0, 0, err
	}
	return nc, nb, nil
}

func (s *SQLiteStore) Clear(ctx context.Context, owner string) (int, int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback()

	resC, err := tx.ExecContext(ctx, `DELETE FROM campaigns WHERE owner = ?`, owner)
	if err != nil {
		return 0, 0, err
	}
	resB, err := tx.ExecContext(ctx, `DELETE FROM business_metrics WHERE owner = ?`, owner)
	if err != nil {
		return 0, 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}
	nc, _ := resC.RowsAffected()
	nb, _ := resB.RowsAffected()
	return int(nc), int(nb), nil
}
