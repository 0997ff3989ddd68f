package models

import (
	"time"

	"github.com/deelflow/deelflow-api/utils"
	"gorm.io/gorm"
)

// ActivityFeed is a denormalized stream of recent workspace events shown
// on the dashboard
type ActivityFeed struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	UserID       *uint   `gorm:"index:idx_activity_feed_user_id" json:"user_id,omitempty"`
	ActivityType string  `gorm:"size:100;not null;index:idx_activity_feed_type" json:"activity_type"`
	Title        string  `gorm:"size:255;not null" json:"title"`
	Description  *string `gorm:"type:text" json:"description,omitempty"`

	Entity   *string `gorm:"size:100" json:"entity,omitempty"`
	EntityID *uint   `json:"entity_id,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_activity_feed_created_at" json:"created_at"`

	User *User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

// TableName returns the table name for the model
func (ActivityFeed) TableName() string {
	return "activity_feed"
}

// BeforeCreate is called before creating a new record
func (a *ActivityFeed) BeforeCreate(tx *gorm.DB) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = utils.UTCNow()
	}
	return nil
}
