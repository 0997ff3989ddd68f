package models

import (
	"time"

	"github.com/deelflow/deelflow-api/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DealMilestone is a dated checkpoint inside a deal's lifecycle
type DealMilestone struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	UUID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_deal_milestones_uuid" json:"uuid"`
	DealID uint      `gorm:"not null;index:idx_deal_milestones_deal_id" json:"deal_id"`

	Title       string     `gorm:"size:255;not null" json:"title"`
	Description *string    `gorm:"type:text" json:"description,omitempty"`
	Status      string     `gorm:"size:50;not null;default:'pending'" json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	Deal *Deal `gorm:"foreignKey:DealID;references:ID" json:"deal,omitempty"`
}

// TableName returns the table name for the model
func (DealMilestone) TableName() string {
	return "deal_milestones"
}

// BeforeCreate is called before creating a new record
func (m *DealMilestone) BeforeCreate(tx *gorm.DB) error {
	if m.UUID == uuid.Nil {
		m.UUID = uuid.New()
	}
	if m.Status == "" {
		m.Status = "pending"
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = utils.UTCNow()
	}
	m.UpdatedAt = m.CreatedAt
	return nil
}

// BeforeUpdate is called before updating a record
func (m *DealMilestone) BeforeUpdate(tx *gorm.DB) error {
	m.UpdatedAt = utils.UTCNow()
	return nil
}

// DealMilestoneFilter represents filter criteria for deal milestones
type DealMilestoneFilter struct {
	ID     *uint
	UUID   *uuid.UUID
	DealID *uint
	Status *string
}
