package repository

import (
	"context"

	"github.com/deelflow/deelflow-api/models"
	"gorm.io/gorm"
)

// DashboardRepositoryImpl implements the DashboardRepository interface
type DashboardRepositoryImpl struct {
	db *gorm.DB
}

// NewDashboardRepository creates a new dashboard repository
func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &DashboardRepositoryImpl{db: db}
}

func (r *DashboardRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db
}

// Counts computes the headline totals in a single round of aggregate queries
func (r *DashboardRepositoryImpl) Counts(ctx context.Context) (*DashboardCounts, error) {
	db := r.getDB(ctx)
	out := &DashboardCounts{}

	if err := db.Model(&models.Property{}).Count(&out.TotalProperties).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Property{}).Where("status = ?", "active").Count(&out.ActiveListings).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Lead{}).Count(&out.TotalLeads).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Campaign{}).Where("status = ?", "active").Count(&out.ActiveCampaigns).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Deal{}).Where("status = ?", "pending").Count(&out.PendingDeals).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Deal{}).Where("status = ?", "closed").Count(&out.ClosedDeals).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Where("is_active = ?", true).Count(&out.TotalUsers).Error; err != nil {
		return nil, err
	}

	return out, nil
}

// LeadCountsByStatus groups leads by status
func (r *DashboardRepositoryImpl) LeadCountsByStatus(ctx context.Context) (map[string]int64, error) {
	return r.groupCounts(ctx, &models.Lead{}, "status")
}

// DealCountsByStatus groups deals by status
func (r *DashboardRepositoryImpl) DealCountsByStatus(ctx context.Context) (map[string]int64, error) {
	return r.groupCounts(ctx, &models.Deal{}, "status")
}

// CampaignCountsByChannel groups campaigns by channel
func (r *DashboardRepositoryImpl) CampaignCountsByChannel(ctx context.Context) (map[string]int64, error) {
	return r.groupCounts(ctx, &models.Campaign{}, "channel")
}

func (r *DashboardRepositoryImpl) groupCounts(ctx context.Context, model any, column string) (map[string]int64, error) {
	type row struct {
		Key   string
		Total int64
	}

	db := r.getDB(ctx)
	var rows []row
	err := db.Model(model).
		Select(column + " AS key, COUNT(*) AS total").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Total
	}
	return out, nil
}
