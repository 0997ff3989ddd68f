package models

import (
	"encoding/json"
	"time"

	"github.com/deelflow/deelflow-api/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Property represents a real-estate listing tracked by the CRM
type Property struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UUID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uk_properties_uuid" json:"uuid"`
	Address      string          `gorm:"size:255;not null" json:"address"`
	City         string          `gorm:"size:100;not null;index:idx_properties_city" json:"city"`
	State        string          `gorm:"size:100;not null;index:idx_properties_state" json:"state"`
	Zipcode      string          `gorm:"size:20;not null;index:idx_properties_zipcode" json:"zipcode"`
	PropertyType string          `gorm:"size:100;not null" json:"property_type"`
	Status       string          `gorm:"size:50;not null;default:'active';index:idx_properties_status" json:"status"`
	Price        decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"price"`

	// Optional numeric descriptors; absent when the client sent an empty
	// string (never coerced to zero).
	Bedrooms   *int     `json:"bedrooms,omitempty"`
	Bathrooms  *float64 `json:"bathrooms,omitempty"`
	SquareFeet *int     `json:"square_feet,omitempty"`
	LotSize    *float64 `json:"lot_size,omitempty"`
	YearBuilt  *int     `json:"year_built,omitempty"`

	Description *string        `gorm:"type:text" json:"description,omitempty"`
	Images      pq.StringArray `gorm:"type:text[]" json:"images"`

	// Investor numbers
	PurchasePrice  decimal.NullDecimal `gorm:"type:numeric(18,2)" json:"purchase_price"`
	ARV            decimal.NullDecimal `gorm:"type:numeric(18,2)" json:"arv"`
	RepairEstimate decimal.NullDecimal `gorm:"type:numeric(18,2)" json:"repair_estimate"`
	HoldingCosts   decimal.NullDecimal `gorm:"type:numeric(18,2)" json:"holding_costs"`
	AssignmentFee  decimal.NullDecimal `gorm:"type:numeric(18,2)" json:"assignment_fee"`

	AIAnalysis json.RawMessage `gorm:"type:jsonb" json:"ai_analysis,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_properties_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for the model
func (Property) TableName() string {
	return "properties"
}

// BeforeCreate is called before creating a new record
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	if p.Status == "" {
		p.Status = "active"
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = utils.UTCNow()
	}
	p.UpdatedAt = p.CreatedAt
	return nil
}

// BeforeUpdate is called before updating a record
func (p *Property) BeforeUpdate(tx *gorm.DB) error {
	p.UpdatedAt = utils.UTCNow()
	return nil
}

// PropertyFilter represents filter criteria for properties
type PropertyFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	City          *string
	State         *string
	Zipcode       *string
	PropertyType  *string
	Status        *string
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
