package repository

import (
	"context"
	"fmt"

	"github.com/deelflow/deelflow-api/models"
	"gorm.io/gorm"
)

// ActivityFeedRepositoryImpl implements the ActivityFeedRepository interface
type ActivityFeedRepositoryImpl struct {
	db *gorm.DB
}

// NewActivityFeedRepository creates a new activity feed repository
func NewActivityFeedRepository(db *gorm.DB) ActivityFeedRepository {
	return &ActivityFeedRepositoryImpl{db: db}
}

func (r *ActivityFeedRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db
}

// Save appends an entry to the feed
func (r *ActivityFeedRepositoryImpl) Save(ctx context.Context, entry *models.ActivityFeed) error {
	db := r.getDB(ctx)
	if err := db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to save activity entry: %w", err)
	}
	return nil
}

// ListRecent returns the newest feed entries
func (r *ActivityFeedRepositoryImpl) ListRecent(ctx context.Context, limit int) ([]*models.ActivityFeed, error) {
	db := r.getDB(ctx)

	var entries []*models.ActivityFeed
	query := db.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	err := query.Find(&entries).Error
	if err != nil {
		return nil, err
	}

	return entries, nil
}
