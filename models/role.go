package models

import (
	"time"

	"github.com/deelflow/deelflow-api/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Built-in role names seeded at startup
const (
	RoleNameAdmin  = "admin"
	RoleNameMember = "member"
)

// Role is a named set of permissions assignable to users
type Role struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_roles_uuid" json:"uuid"`

	Name        string  `gorm:"size:100;not null;uniqueIndex:uk_roles_name" json:"name"`
	Description *string `gorm:"type:text" json:"description,omitempty"`
	IsSystem    bool    `gorm:"default:false" json:"is_system"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
	Users       []User       `gorm:"foreignKey:RoleID" json:"users,omitempty"`
}

// TableName returns the table name for the model
func (Role) TableName() string {
	return "roles"
}

// BeforeCreate is called before creating a new record
func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.UUID == uuid.Nil {
		r.UUID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = utils.UTCNow()
	}
	r.UpdatedAt = r.CreatedAt
	return nil
}

// BeforeUpdate is called before updating a record
func (r *Role) BeforeUpdate(tx *gorm.DB) error {
	r.UpdatedAt = utils.UTCNow()
	return nil
}

// Permission is a single grantable capability, identified by codename
type Permission struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Codename string  `gorm:"size:100;not null;uniqueIndex:uk_permissions_codename" json:"codename"`
	Name     string  `gorm:"size:255;not null" json:"name"`
	Category *string `gorm:"size:100" json:"category,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
}

// TableName returns the table name for the model
func (Permission) TableName() string {
	return "permissions"
}

// BeforeCreate is called before creating a new record
func (p *Permission) BeforeCreate(tx *gorm.DB) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = utils.UTCNow()
	}
	return nil
}

// RoleFilter represents filter criteria for roles
type RoleFilter struct {
	ID   *uint
	UUID *uuid.UUID
	Name *string
}
