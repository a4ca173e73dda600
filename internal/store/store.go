// Package store persists campaign and business-metric records, always
// scoped to one owning user.
package store

import (
	"context"
	"time"

	"github.com/mcortez/admetrics/internal/models"
)

// Filter narrows a query to an optional date range and platform.
// Zero values mean "no constraint".
type Filter struct {
	From     *time.Time
	To       *time.Time
	Platform string
}

func (f Filter) matchDate(d time.Time) bool {
	if f.From != nil && d.Before(models.Day(*f.From)) {
		return false
	}
	if f.To != nil && d.After(models.Day(*f.To)) {
		return false
	}
	return true
}

// RecordStore is the persistence boundary for the analytics core.
//
// Replace methods swap all of an owner's records of one kind for the
// given batch in a single atomic step; a failure leaves the previous
// records in place. Queries return records sorted ascending by date.
type RecordStore interface {
	ReplaceCampaigns(ctx context.Context, owner string, recs []models.CampaignRecord) error
	ReplaceBusiness(ctx context.Context, owner string, recs []models.BusinessMetricRecord) error
	InsertCampaigns(ctx context.Context, recs []models.CampaignRecord) error
	InsertBusiness(ctx context.Context, recs []models.BusinessMetricRecord) error
	QueryCampaigns(ctx context.Context, owner string, f Filter) ([]models.CampaignRecord, error)
	QueryBusiness(ctx context.Context, owner string, f Filter) ([]models.BusinessMetricRecord, error)
	Counts(ctx context.Context, owner string) (campaigns, business int, err error)
	Clear(ctx context.Context, owner string) (campaigns, business int, err error)
}
