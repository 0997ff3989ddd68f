package models

import (
	"time"

	"github.com/deelflow/deelflow-api/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Deal represents a transaction in flight between a buyer lead, a seller
// lead, and a property
type Deal struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_deals_uuid" json:"uuid"`

	DealType string `gorm:"size:50;not null;default:'wholesale'" json:"deal_type"`
	Status   string `gorm:"size:50;not null;default:'pending';index:idx_deals_status" json:"status"`

	PropertyID   *uint `gorm:"index:idx_deals_property_id" json:"property_id,omitempty"`
	BuyerLeadID  *uint `gorm:"index:idx_deals_buyer_lead_id" json:"buyer_lead_id,omitempty"`
	SellerLeadID *uint `gorm:"index:idx_deals_seller_lead_id" json:"seller_lead_id,omitempty"`

	OfferPrice decimal.NullDecimal `gorm:"type:numeric(18,2)" json:"offer_price"`
	FinalPrice decimal.NullDecimal `gorm:"type:numeric(18,2)" json:"final_price"`
	Commission decimal.NullDecimal `gorm:"type:numeric(18,2)" json:"commission"`

	ClosingDate *time.Time `json:"closing_date,omitempty"`
	Notes       *string    `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_deals_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	// Relations
	Property   *Property       `gorm:"foreignKey:PropertyID;references:ID" json:"property,omitempty"`
	BuyerLead  *Lead           `gorm:"foreignKey:BuyerLeadID;references:ID" json:"buyer_lead,omitempty"`
	SellerLead *Lead           `gorm:"foreignKey:SellerLeadID;references:ID" json:"seller_lead,omitempty"`
	Milestones []DealMilestone `gorm:"foreignKey:DealID" json:"milestones,omitempty"`
}

// TableName returns the table name for the model
func (Deal) TableName() string {
	return "deals"
}

// BeforeCreate is called before creating a new record
func (d *Deal) BeforeCreate(tx *gorm.DB) error {
	if d.UUID == uuid.Nil {
		d.UUID = uuid.New()
	}
	if d.Status == "" {
		d.Status = "pending"
	}
	if d.DealType == "" {
		d.DealType = "wholesale"
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = utils.UTCNow()
	}
	d.UpdatedAt = d.CreatedAt
	return nil
}

// BeforeUpdate is called before updating a record
func (d *Deal) BeforeUpdate(tx *gorm.DB) error {
	d.UpdatedAt = utils.UTCNow()
	return nil
}

// DealFilter represents filter criteria for deals
type DealFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	Status        *string
	DealType      *string
	PropertyID    *uint
	BuyerLeadID   *uint
	SellerLeadID  *uint
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
