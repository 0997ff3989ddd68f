package models

import (
	"encoding/json"
	"time"

	"github.com/deelflow/deelflow-api/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lead represents a seller or buyer prospect
type Lead struct {
	ID    uint      `gorm:"primaryKey" json:"id"`
	UUID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_leads_uuid" json:"uuid"`
	Name  string    `gorm:"size:255;not null" json:"name"`
	Email *string   `gorm:"size:255;index:idx_leads_email" json:"email,omitempty"`
	Phone *string   `gorm:"size:50" json:"phone,omitempty"`

	Address *string `gorm:"size:255" json:"address,omitempty"`
	City    *string `gorm:"size:100;index:idx_leads_city" json:"city,omitempty"`
	State   *string `gorm:"size:100" json:"state,omitempty"`
	Zipcode *string `gorm:"size:20" json:"zipcode,omitempty"`

	Status          string  `gorm:"size:50;not null;default:'new';index:idx_leads_status" json:"status"`
	Source          string  `gorm:"size:100;not null;default:'manual';index:idx_leads_source" json:"source"`
	MotivationScore float64 `gorm:"default:0" json:"motivation_score"`

	PropertyCondition  *string `gorm:"size:100" json:"property_condition,omitempty"`
	FinancialSituation *string `gorm:"size:100" json:"financial_situation,omitempty"`
	TimelineUrgency    *string `gorm:"size:100" json:"timeline_urgency,omitempty"`
	NegotiationStyle   *string `gorm:"size:100" json:"negotiation_style,omitempty"`
	Notes              *string `gorm:"type:text" json:"notes,omitempty"`

	CampaignID *uint           `gorm:"index:idx_leads_campaign_id" json:"campaign_id,omitempty"`
	AIScore    json.RawMessage `gorm:"type:jsonb" json:"ai_score,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_leads_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	// Relations
	Campaign *Campaign `gorm:"foreignKey:CampaignID;references:ID" json:"campaign,omitempty"`
}

// TableName returns the table name for the model
func (Lead) TableName() string {
	return "leads"
}

// BeforeCreate is called before creating a new record
func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.UUID == uuid.Nil {
		l.UUID = uuid.New()
	}
	if l.Status == "" {
		l.Status = "new"
	}
	if l.Source == "" {
		l.Source = "manual"
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = utils.UTCNow()
	}
	l.UpdatedAt = l.CreatedAt
	return nil
}

// BeforeUpdate is called before updating a record
func (l *Lead) BeforeUpdate(tx *gorm.DB) error {
	l.UpdatedAt = utils.UTCNow()
	return nil
}

// LeadFilter represents filter criteria for leads
type LeadFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	Email         *string
	Status        *string
	Source        *string
	City          *string
	CampaignID    *uint
	MinMotivation *float64
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
