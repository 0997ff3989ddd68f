package models

import (
	"encoding/json"
	"time"

	"github.com/deelflow/deelflow-api/utils"
	"gorm.io/gorm"
)

// Audit log action constants
const (
	AuditActionLoginSuccess   = "login_success"
	AuditActionLoginFailed    = "login_failed"
	AuditActionLogout         = "logout"
	AuditActionTokenRefresh   = "token_refresh"
	AuditActionRecordCreated  = "record_created"
	AuditActionRecordUpdated  = "record_updated"
	AuditActionRecordDeleted  = "record_deleted"
	AuditActionExportRequest  = "export_requested"
	AuditActionAccessDenied   = "access_denied"
	AuditActionPasswordChange = "password_changed"
)

// AuditLog records security-relevant and mutating actions
type AuditLog struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID *uint  `gorm:"index:idx_audit_logs_user_id" json:"user_id,omitempty"`
	Action string `gorm:"size:100;not null;index:idx_audit_logs_action" json:"action"`

	Entity   *string `gorm:"size:100" json:"entity,omitempty"`
	EntityID *uint   `json:"entity_id,omitempty"`

	Description *string         `gorm:"type:text" json:"description,omitempty"`
	Metadata    json.RawMessage `gorm:"type:jsonb" json:"metadata,omitempty"`

	IPAddress *string `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent *string `gorm:"size:512" json:"user_agent,omitempty"`
	RequestID *string `gorm:"size:64" json:"request_id,omitempty"`

	Success bool `gorm:"default:true" json:"success"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_audit_logs_created_at" json:"created_at"`

	User *User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

// TableName returns the table name for the model
func (AuditLog) TableName() string {
	return "audit_logs"
}

// BeforeCreate is called before creating a new record
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = utils.UTCNow()
	}
	return nil
}

// AuditLogFilter represents filter criteria for audit logs
type AuditLogFilter struct {
	UserID        *uint
	Action        *string
	Entity        *string
	Success       *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
