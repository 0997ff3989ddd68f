package models

import (
	"time"

	"github.com/deelflow/deelflow-api/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an authenticated account in the CRM
type User struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_users_uuid" json:"uuid"`

	Email        string  `gorm:"size:255;not null;uniqueIndex:uk_users_email" json:"email"`
	PasswordHash string  `gorm:"size:255;not null" json:"-"`
	FirstName    string  `gorm:"size:100;not null" json:"first_name"`
	LastName     string  `gorm:"size:100;not null" json:"last_name"`
	Phone        *string `gorm:"size:50" json:"phone,omitempty"`

	IsActive   bool `gorm:"default:true;index:idx_users_is_active" json:"is_active"`
	IsVerified bool `gorm:"default:false" json:"is_verified"`

	RoleID         *uint `gorm:"index:idx_users_role_id" json:"role_id,omitempty"`
	OrganizationID *uint `gorm:"index:idx_users_organization_id" json:"organization_id,omitempty"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_users_created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	// Relations
	Role         *Role         `gorm:"foreignKey:RoleID;references:ID" json:"role,omitempty"`
	Organization *Organization `gorm:"foreignKey:OrganizationID;references:ID" json:"organization,omitempty"`
}

// TableName returns the table name for the model
func (User) TableName() string {
	return "users"
}

// BeforeCreate is called before creating a new record
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UUID == uuid.Nil {
		u.UUID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = utils.UTCNow()
	}
	u.UpdatedAt = u.CreatedAt
	return nil
}

// BeforeUpdate is called before updating a record
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = utils.UTCNow()
	return nil
}

// FullName returns the user's display name
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserFilter represents filter criteria for users
type UserFilter struct {
	ID             *uint
	UUID           *uuid.UUID
	Email          *string
	IsActive       *bool
	RoleID         *uint
	OrganizationID *uint
	CreatedAfter   *time.Time
	CreatedBefore  *time.Time
}
