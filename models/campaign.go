// Package models contains domain entities and business models for the CRM system
package models

import (
	"time"

	"github.com/deelflow/deelflow-api/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Campaign represents a marketing outreach configuration with targeting,
// content, and schedule fields.
//
// Status is a free-form string set directly by client payloads; the server
// does not enforce a transition machine. GeographicScopeValues and
// DistressIndicators persist ordered string sequences in their serialized
// text form and are parsed back on read (empty sequence on corruption).
type Campaign struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UUID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_campaigns_uuid" json:"uuid"`
	Name         string    `gorm:"size:255;not null;index:idx_campaigns_name" json:"name"`
	CampaignType string    `gorm:"size:50;not null;default:'new'" json:"campaign_type"`
	Status       string    `gorm:"size:50;not null;default:'draft';index:idx_campaigns_status" json:"status"`

	// Channel is the single persisted scalar; clients may send a string or
	// a sequence, the first element wins on write.
	Channel string `gorm:"size:50;not null;default:'email'" json:"channel"`

	GeographicScopeType   string `gorm:"size:50;not null;default:'zip'" json:"geographic_scope_type"`
	GeographicScopeValues string `gorm:"type:text" json:"geographic_scope_values"`
	DistressIndicators    string `gorm:"type:text" json:"distress_indicators"`

	Budget        decimal.NullDecimal `gorm:"type:numeric(18,2)" json:"budget"`
	MinPrice      decimal.NullDecimal `gorm:"type:numeric(18,2)" json:"min_price"`
	MaxPrice      decimal.NullDecimal `gorm:"type:numeric(18,2)" json:"max_price"`
	MinimumEquity decimal.NullDecimal `gorm:"type:numeric(18,2)" json:"minimum_equity"`

	Location     *string `gorm:"size:255" json:"location,omitempty"`
	PropertyType *string `gorm:"size:100" json:"property_type,omitempty"`

	PropertyYearBuiltMin *int `json:"property_year_built_min,omitempty"`
	PropertyYearBuiltMax *int `json:"property_year_built_max,omitempty"`

	SubjectLine          *string `gorm:"size:255" json:"subject_line,omitempty"`
	EmailContent         *string `gorm:"type:text" json:"email_content,omitempty"`
	UseAIPersonalization bool    `gorm:"default:false" json:"use_ai_personalization"`

	ScheduledAt *time.Time `gorm:"index:idx_campaigns_scheduled_at" json:"scheduled_at,omitempty"`

	// Seller-finder bag: optional descriptive strings, not validated
	// against any schema.
	SellerCountry   *string `gorm:"size:100" json:"seller_country,omitempty"`
	SellerState     *string `gorm:"size:100" json:"seller_state,omitempty"`
	SellerCounties  *string `gorm:"size:255" json:"seller_counties,omitempty"`
	SellerCity      *string `gorm:"size:100" json:"seller_city,omitempty"`
	SellerDistricts *string `gorm:"size:255" json:"seller_districts,omitempty"`
	SellerParish    *string `gorm:"size:100" json:"seller_parish,omitempty"`

	// Buyer-finder bag: geographic plus demographic descriptors.
	BuyerCountry             *string `gorm:"size:100" json:"buyer_country,omitempty"`
	BuyerState               *string `gorm:"size:100" json:"buyer_state,omitempty"`
	BuyerCounties            *string `gorm:"size:255" json:"buyer_counties,omitempty"`
	BuyerCity                *string `gorm:"size:100" json:"buyer_city,omitempty"`
	BuyerDistricts           *string `gorm:"size:255" json:"buyer_districts,omitempty"`
	BuyerParish              *string `gorm:"size:100" json:"buyer_parish,omitempty"`
	BuyerAgeRange            *string `gorm:"size:50" json:"buyer_age_range,omitempty"`
	BuyerSalaryRange         *string `gorm:"size:50" json:"buyer_salary_range,omitempty"`
	BuyerMaritalStatus       *string `gorm:"size:50" json:"buyer_marital_status,omitempty"`
	BuyerEmploymentStatus    *string `gorm:"size:50" json:"buyer_employment_status,omitempty"`
	BuyerHomeOwnershipStatus *string `gorm:"size:50" json:"buyer_home_ownership_status,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_campaigns_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	// Relations
	Leads []Lead `gorm:"foreignKey:CampaignID" json:"leads,omitempty"`
}

// TableName returns the table name for the model
func (Campaign) TableName() string {
	return "campaigns"
}

// BeforeCreate is called before creating a new record
func (c *Campaign) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.Status == "" {
		c.Status = "draft"
	}
	if c.CampaignType == "" {
		c.CampaignType = "new"
	}
	if c.Channel == "" {
		c.Channel = utils.DefaultCampaignChannel
	}
	if c.GeographicScopeType == "" {
		c.GeographicScopeType = utils.DefaultGeographicScopeType
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	c.UpdatedAt = c.CreatedAt
	return nil
}

// BeforeUpdate is called before updating a record
func (c *Campaign) BeforeUpdate(tx *gorm.DB) error {
	c.UpdatedAt = utils.UTCNow()
	return nil
}

// CampaignFilter represents filter criteria for campaigns
type CampaignFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	Name          *string // contains match
	CampaignType  *string
	Status        *string
	Channel       *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
