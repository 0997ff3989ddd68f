package repository

import (
	"context"
	"errors"

	"github.com/deelflow/deelflow-api/models"
	"github.com/deelflow/deelflow-api/utils"
	"gorm.io/gorm"
)

// DealRepositoryImpl implements the DealRepository interface
type DealRepositoryImpl struct {
	*BaseRepository[models.Deal, models.DealFilter]
}

// NewDealRepository creates a new deal repository
func NewDealRepository(db *gorm.DB) DealRepository {
	return &DealRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Deal, models.DealFilter](db),
	}
}

// ByID retrieves a deal by ID with its milestones preloaded
func (r *DealRepositoryImpl) ByID(ctx context.Context, id uint) (*models.Deal, error) {
	db := r.getDB(ctx)

	var deal models.Deal
	err := db.Preload("Milestones").
		Last(&deal, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &deal, nil
}

// ByUUID retrieves a deal by UUID
func (r *DealRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Deal, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	filter := models.DealFilter{UUID: &parsedUUID}
	deals, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}

	if len(deals) == 0 {
		return nil, nil
	}

	return deals[0], nil
}

// UpdateStatus updates only the status of a deal
func (r *DealRepositoryImpl) UpdateStatus(ctx context.Context, id uint, status string) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Model(&models.Deal{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": utils.UTCNow(),
		}).Error

	return err
}

// ByFilter retrieves deals based on filter criteria
func (r *DealRepositoryImpl) ByFilter(ctx context.Context, filter models.DealFilter, orderBy string, limit, offset int) ([]*models.Deal, error) {
	db := r.getDB(ctx)

	var deals []*models.Deal
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

	query = query.Preload("Milestones")

	err := query.Find(&deals).Error
	if err != nil {
		return nil, err
	}

	return deals, nil
}

// Count returns the number of deals matching the filter
func (r *DealRepositoryImpl) Count(ctx context.Context, filter models.DealFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Deal{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any deal matching the filter exists
func (r *DealRepositoryImpl) Exists(ctx context.Context, filter models.DealFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *DealRepositoryImpl) applyFilter(db *gorm.DB, filter models.DealFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}
	if filter.DealType != nil {
		db = db.Where("deal_type = ?", *filter.DealType)
	}
	if filter.PropertyID != nil {
		db = db.Where("property_id = ?", *filter.PropertyID)
	}
	if filter.BuyerLeadID != nil {
		db = db.Where("buyer_lead_id = ?", *filter.BuyerLeadID)
	}
	if filter.SellerLeadID != nil {
		db = db.Where("seller_lead_id = ?", *filter.SellerLeadID)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}

	return db
}
