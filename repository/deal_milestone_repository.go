package repository

import (
	"context"

	"github.com/deelflow/deelflow-api/models"
	"gorm.io/gorm"
)

// DealMilestoneRepositoryImpl implements the DealMilestoneRepository interface
type DealMilestoneRepositoryImpl struct {
	*BaseRepository[models.DealMilestone, models.DealMilestoneFilter]
}

// NewDealMilestoneRepository creates a new deal milestone repository
func NewDealMilestoneRepository(db *gorm.DB) DealMilestoneRepository {
	return &DealMilestoneRepositoryImpl{
		BaseRepository: NewBaseRepository[models.DealMilestone, models.DealMilestoneFilter](db),
	}
}

// ByDealID retrieves all milestones of a deal ordered by due date
func (r *DealMilestoneRepositoryImpl) ByDealID(ctx context.Context, dealID uint) ([]*models.DealMilestone, error) {
	filter := models.DealMilestoneFilter{DealID: &dealID}
	return r.ByFilter(ctx, filter, "due_date ASC NULLS LAST, id ASC", 0, 0)
}

// ByFilter retrieves milestones based on filter criteria
func (r *DealMilestoneRepositoryImpl) ByFilter(ctx context.Context, filter models.DealMilestoneFilter, orderBy string, limit, offset int) ([]*models.DealMilestone, error) {
	db := r.getDB(ctx)

	var milestones []*models.DealMilestone
	query := r.applyFilter(db, filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&milestones).Error
	if err != nil {
		return nil, err
	}

	return milestones, nil
}

// Count returns the number of milestones matching the filter
func (r *DealMilestoneRepositoryImpl) Count(ctx context.Context, filter models.DealMilestoneFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.DealMilestone{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any milestone matching the filter exists
func (r *DealMilestoneRepositoryImpl) Exists(ctx context.Context, filter models.DealMilestoneFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *DealMilestoneRepositoryImpl) applyFilter(db *gorm.DB, filter models.DealMilestoneFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.DealID != nil {
		db = db.Where("deal_id = ?", *filter.DealID)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}

	return db
}
