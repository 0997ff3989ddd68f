// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/deelflow/deelflow-api/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Update(ctx context.Context, entity *T) error
	DeleteByID(ctx context.Context, id uint) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// CampaignRepository defines operations for marketing campaigns
type CampaignRepository interface {
	Repository[models.Campaign, models.CampaignFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Campaign, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	CountByStatus(ctx context.Context, status string) (int64, error)
}

// PropertyRepository defines operations for property listings
type PropertyRepository interface {
	Repository[models.Property, models.PropertyFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Property, error)
	UpdateAIAnalysis(ctx context.Context, id uint, analysis json.RawMessage) error
}

// LeadRepository defines operations for leads
type LeadRepository interface {
	Repository[models.Lead, models.LeadFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Lead, error)
	ByCampaignID(ctx context.Context, campaignID uint, limit, offset int) ([]*models.Lead, error)
	UpdateAIScore(ctx context.Context, id uint, score json.RawMessage, motivation float64) error
}

// DealRepository defines operations for deals
type DealRepository interface {
	Repository[models.Deal, models.DealFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Deal, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
}

// DealMilestoneRepository defines operations for deal milestones
type DealMilestoneRepository interface {
	Repository[models.DealMilestone, models.DealMilestoneFilter]
	ByDealID(ctx context.Context, dealID uint) ([]*models.DealMilestone, error)
}

// UserRepository defines operations for user accounts
type UserRepository interface {
	Repository[models.User, models.UserFilter]
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByUUID(ctx context.Context, uuid string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID uint, passwordHash string) error
	UpdateLastLogin(ctx context.Context, userID uint, at time.Time) error
}

// RoleRepository defines operations for roles and their permissions
type RoleRepository interface {
	Repository[models.Role, models.RoleFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Role, error)
	ByName(ctx context.Context, name string) (*models.Role, error)
	PermissionsByCodenames(ctx context.Context, codenames []string) ([]*models.Permission, error)
	ReplacePermissions(ctx context.Context, roleID uint, permissions []*models.Permission) error
	ListPermissions(ctx context.Context) ([]*models.Permission, error)
}

// UserSessionRepository defines operations for refresh-token sessions
type UserSessionRepository interface {
	Repository[models.UserSession, models.UserSessionFilter]
	ByRefreshToken(ctx context.Context, token string) (*models.UserSession, error)
	InvalidateSession(ctx context.Context, sessionID uint) error
	InvalidateAllUserSessions(ctx context.Context, userID uint) error
	CleanupExpiredSessions(ctx context.Context) error
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.AuditLog, error)
	ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error)
	ListFailedActions(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)
}

// ActivityFeedRepository defines operations for the dashboard activity stream
type ActivityFeedRepository interface {
	Save(ctx context.Context, entry *models.ActivityFeed) error
	ListRecent(ctx context.Context, limit int) ([]*models.ActivityFeed, error)
}

// BusinessMetricsRepository defines operations for daily KPI snapshots
type BusinessMetricsRepository interface {
	ByDate(ctx context.Context, date time.Time) (*models.BusinessMetrics, error)
	Upsert(ctx context.Context, metrics *models.BusinessMetrics) error
	ListRange(ctx context.Context, from, to time.Time) ([]*models.BusinessMetrics, error)
}

// DashboardRepository aggregates live counts for the dashboard endpoints
type DashboardRepository interface {
	Counts(ctx context.Context) (*DashboardCounts, error)
	LeadCountsByStatus(ctx context.Context) (map[string]int64, error)
	DealCountsByStatus(ctx context.Context) (map[string]int64, error)
	CampaignCountsByChannel(ctx context.Context) (map[string]int64, error)
}

// DashboardCounts holds the headline totals shown on the dashboard
type DashboardCounts struct {
	TotalProperties int64 `json:"total_properties"`
	ActiveListings  int64 `json:"active_listings"`
	TotalLeads      int64 `json:"total_leads"`
	ActiveCampaigns int64 `json:"active_campaigns"`
	PendingDeals    int64 `json:"pending_deals"`
	ClosedDeals     int64 `json:"closed_deals"`
	TotalUsers      int64 `json:"total_users"`
}
