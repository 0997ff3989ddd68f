package models

import (
	"time"

	"github.com/deelflow/deelflow-api/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserSession tracks refresh-token sessions per device
type UserSession struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	UUID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_user_sessions_uuid" json:"uuid"`
	UserID uint      `gorm:"not null;index:idx_user_sessions_user_id" json:"user_id"`

	RefreshToken string    `gorm:"size:512;not null;uniqueIndex:uk_user_sessions_refresh_token" json:"-"`
	ExpiresAt    time.Time `gorm:"not null;index:idx_user_sessions_expires_at" json:"expires_at"`
	IsActive     bool      `gorm:"default:true;index:idx_user_sessions_is_active" json:"is_active"`

	IPAddress *string `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent *string `gorm:"size:512" json:"user_agent,omitempty"`

	CreatedAt     time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	LastAccessed  time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"last_accessed"`
	InvalidatedAt *time.Time `json:"invalidated_at,omitempty"`

	User *User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

// TableName returns the table name for the model
func (UserSession) TableName() string {
	return "user_sessions"
}

// BeforeCreate is called before creating a new record
func (s *UserSession) BeforeCreate(tx *gorm.DB) error {
	if s.UUID == uuid.Nil {
		s.UUID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = utils.UTCNow()
	}
	if s.LastAccessed.IsZero() {
		s.LastAccessed = s.CreatedAt
	}
	return nil
}

// IsExpired reports whether the session is past its expiry
func (s *UserSession) IsExpired() bool {
	return utils.IsExpired(s.ExpiresAt)
}

// IsValid reports whether the session can still be used for refresh
func (s *UserSession) IsValid() bool {
	return s.IsActive && !s.IsExpired() && s.InvalidatedAt == nil
}

// UserSessionFilter represents filter criteria for sessions
type UserSessionFilter struct {
	ID           *uint
	UserID       *uint
	RefreshToken *string
	IsActive     *bool
}
