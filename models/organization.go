package models

import (
	"time"

	"github.com/deelflow/deelflow-api/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organization groups users under a single tenant
type Organization struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_organizations_uuid" json:"uuid"`

	Name     string  `gorm:"size:255;not null" json:"name"`
	Slug     string  `gorm:"size:255;not null;uniqueIndex:uk_organizations_slug" json:"slug"`
	Website  *string `gorm:"size:255" json:"website,omitempty"`
	IsActive bool    `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	Users []User `gorm:"foreignKey:OrganizationID" json:"users,omitempty"`
}

// TableName returns the table name for the model
func (Organization) TableName() string {
	return "organizations"
}

// BeforeCreate is called before creating a new record
func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.UUID == uuid.Nil {
		o.UUID = uuid.New()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = utils.UTCNow()
	}
	o.UpdatedAt = o.CreatedAt
	return nil
}

// BeforeUpdate is called before updating a record
func (o *Organization) BeforeUpdate(tx *gorm.DB) error {
	o.UpdatedAt = utils.UTCNow()
	return nil
}
