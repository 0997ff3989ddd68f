package repository

import (
	"context"
	"encoding/json"

	"github.com/deelflow/deelflow-api/models"
	"github.com/deelflow/deelflow-api/utils"
	"gorm.io/gorm"
)

// PropertyRepositoryImpl implements the PropertyRepository interface
type PropertyRepositoryImpl struct {
	*BaseRepository[models.Property, models.PropertyFilter]
}

// NewPropertyRepository creates a new property repository
func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &PropertyRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Property, models.PropertyFilter](db),
	}
}

// ByUUID retrieves a property by UUID
func (r *PropertyRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Property, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	filter := models.PropertyFilter{UUID: &parsedUUID}
	properties, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}

	if len(properties) == 0 {
		return nil, nil
	}

	return properties[0], nil
}

// UpdateAIAnalysis stores the AI valuation payload for a property
func (r *PropertyRepositoryImpl) UpdateAIAnalysis(ctx context.Context, id uint, analysis json.RawMessage) error {
	db := r.getDB(ctx)
	return db.Model(&models.Property{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"ai_analysis": analysis,
			"updated_at":  utils.UTCNow(),
		}).Error
}

// ByFilter retrieves properties based on filter criteria
func (r *PropertyRepositoryImpl) ByFilter(ctx context.Context, filter models.PropertyFilter, orderBy string, limit, offset int) ([]*models.Property, error) {
	db := r.getDB(ctx)

	var properties []*models.Property
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

	err := query.Find(&properties).Error
	if err != nil {
		return nil, err
	}

	return properties, nil
}

// Count returns the number of properties matching the filter
func (r *PropertyRepositoryImpl) Count(ctx context.Context, filter models.PropertyFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Property{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any property matching the filter exists
func (r *PropertyRepositoryImpl) Exists(ctx context.Context, filter models.PropertyFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *PropertyRepositoryImpl) applyFilter(db *gorm.DB, filter models.PropertyFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.City != nil {
		db = db.Where("city ILIKE ?", *filter.City)
	}
	if filter.State != nil {
		db = db.Where("state ILIKE ?", *filter.State)
	}
	if filter.Zipcode != nil {
		db = db.Where("zipcode = ?", *filter.Zipcode)
	}
	if filter.PropertyType != nil {
		db = db.Where("property_type = ?", *filter.PropertyType)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}
	if filter.MinPrice != nil {
		db = db.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		db = db.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}

	return db
}
