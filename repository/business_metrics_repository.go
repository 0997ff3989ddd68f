package repository

import (
	"context"
	"errors"
	"time"

	"github.com/deelflow/deelflow-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BusinessMetricsRepositoryImpl implements the BusinessMetricsRepository interface
type BusinessMetricsRepositoryImpl struct {
	db *gorm.DB
}

// NewBusinessMetricsRepository creates a new business metrics repository
func NewBusinessMetricsRepository(db *gorm.DB) BusinessMetricsRepository {
	return &BusinessMetricsRepositoryImpl{db: db}
}

func (r *BusinessMetricsRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db
}

// ByDate retrieves the snapshot for a single day
func (r *BusinessMetricsRepositoryImpl) ByDate(ctx context.Context, date time.Time) (*models.BusinessMetrics, error) {
	db := r.getDB(ctx)

	var metrics models.BusinessMetrics
	err := db.Where("metric_date = ?", date.Format("2006-01-02")).
		First(&metrics).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &metrics, nil
}

// Upsert inserts or refreshes the snapshot keyed by metric_date
func (r *BusinessMetricsRepositoryImpl) Upsert(ctx context.Context, metrics *models.BusinessMetrics) error {
	db := r.getDB(ctx)
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "metric_date"}},
		UpdateAll: true,
	}).Create(metrics).Error
}

// ListRange returns snapshots within [from, to] ordered by date
func (r *BusinessMetricsRepositoryImpl) ListRange(ctx context.Context, from, to time.Time) ([]*models.BusinessMetrics, error) {
	db := r.getDB(ctx)

	var out []*models.BusinessMetrics
	err := db.Where("metric_date BETWEEN ? AND ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("metric_date ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}

	return out, nil
}
