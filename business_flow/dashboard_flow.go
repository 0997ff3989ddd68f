// Package businessflow contains the core business logic and use cases for dashboard and analytics workflows
package businessflow

import (
	"context"
	"encoding/json"
	"time"

	"github.com/deelflow/deelflow-api/app/dto"
	"github.com/deelflow/deelflow-api/config"
	"github.com/deelflow/deelflow-api/models"
	"github.com/deelflow/deelflow-api/repository"
	"github.com/deelflow/deelflow-api/utils"
	"github.com/redis/go-redis/v9"
)

// DashboardFlow handles dashboard aggregation and analytics reads
type DashboardFlow interface {
	GetOverview(ctx context.Context) (*dto.DashboardOverviewDTO, error)
	GetActivityFeed(ctx context.Context, limit int) ([]dto.ActivityEntryDTO, error)
	GetLeadAnalytics(ctx context.Context) (*dto.AnalyticsBreakdownDTO, error)
	GetDealAnalytics(ctx context.Context) (*dto.AnalyticsBreakdownDTO, error)
	GetCampaignAnalytics(ctx context.Context) (*dto.AnalyticsBreakdownDTO, error)
	GetMetricsRange(ctx context.Context, from, to time.Time) ([]dto.MetricsSnapshotDTO, error)
	SnapshotDailyMetrics(ctx context.Context) (*dto.MetricsSnapshotDTO, error)
}

// DashboardFlowImpl implements the dashboard business flow
type DashboardFlowImpl struct {
	dashboardRepo repository.DashboardRepository
	activityRepo  repository.ActivityFeedRepository
	metricsRepo   repository.BusinessMetricsRepository
	leadRepo      repository.LeadRepository
	cacheConfig   *config.CacheConfig
	rc            *redis.Client
}

// NewDashboardFlow creates a new dashboard flow instance
func NewDashboardFlow(
	dashboardRepo repository.DashboardRepository,
	activityRepo repository.ActivityFeedRepository,
	metricsRepo repository.BusinessMetricsRepository,
	leadRepo repository.LeadRepository,
	cacheConfig *config.CacheConfig,
	rc *redis.Client,
) DashboardFlow {
	return &DashboardFlowImpl{
		dashboardRepo: dashboardRepo,
		activityRepo:  activityRepo,
		metricsRepo:   metricsRepo,
		leadRepo:      leadRepo,
		cacheConfig:   cacheConfig,
		rc:            rc,
	}
}

// GetOverview returns the headline counts, served from cache when fresh
func (s *DashboardFlowImpl) GetOverview(ctx context.Context) (*dto.DashboardOverviewDTO, error) {
	cacheKey := s.cacheKey(utils.DashboardOverviewCacheKey)

	if s.rc != nil {
		if bs, err := s.rc.Get(ctx, cacheKey).Bytes(); err == nil && len(bs) > 0 {
			var cached dto.DashboardOverviewDTO
			if err := json.Unmarshal(bs, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	counts, err := s.dashboardRepo.Counts(ctx)
	if err != nil {
		return nil, NewBusinessError("DASHBOARD_OVERVIEW_FAILED", "Failed to load dashboard overview", err)
	}

	overview := &dto.DashboardOverviewDTO{
		TotalProperties: counts.TotalProperties,
		ActiveListings:  counts.ActiveListings,
		TotalLeads:      counts.TotalLeads,
		ActiveCampaigns: counts.ActiveCampaigns,
		PendingDeals:    counts.PendingDeals,
		ClosedDeals:     counts.ClosedDeals,
		TotalUsers:      counts.TotalUsers,
	}

	if s.rc != nil {
		if bs, err := json.Marshal(overview); err == nil {
			// Cache failures are not surfaced, the DB result stands on its own
			_ = s.rc.Set(ctx, cacheKey, bs, utils.DashboardOverviewCacheTTL).Err()
		}
	}

	return overview, nil
}

// GetActivityFeed returns the most recent workspace events
func (s *DashboardFlowImpl) GetActivityFeed(ctx context.Context, limit int) ([]dto.ActivityEntryDTO, error) {
	if limit <= 0 {
		limit = utils.DefaultPageLimit
	}
	if limit > utils.MaxPageLimit {
		limit = utils.MaxPageLimit
	}

	entries, err := s.activityRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, NewBusinessError("ACTIVITY_FEED_FAILED", "Failed to load activity feed", err)
	}

	items := make([]dto.ActivityEntryDTO, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.ActivityEntryDTO{
			ID:           e.ID,
			ActivityType: e.ActivityType,
			Title:        e.Title,
			Description:  e.Description,
			Entity:       e.Entity,
			EntityID:     e.EntityID,
			CreatedAt:    e.CreatedAt.Format(time.RFC3339),
		})
	}

	return items, nil
}

// GetLeadAnalytics returns lead counts grouped by status
func (s *DashboardFlowImpl) GetLeadAnalytics(ctx context.Context) (*dto.AnalyticsBreakdownDTO, error) {
	counts, err := s.dashboardRepo.LeadCountsByStatus(ctx)
	if err != nil {
		return nil, NewBusinessError("LEAD_ANALYTICS_FAILED", "Failed to load lead analytics", err)
	}

	return &dto.AnalyticsBreakdownDTO{Dimension: "status", Counts: counts}, nil
}

// GetDealAnalytics returns deal counts grouped by status
func (s *DashboardFlowImpl) GetDealAnalytics(ctx context.Context) (*dto.AnalyticsBreakdownDTO, error) {
	counts, err := s.dashboardRepo.DealCountsByStatus(ctx)
	if err != nil {
		return nil, NewBusinessError("DEAL_ANALYTICS_FAILED", "Failed to load deal analytics", err)
	}

	return &dto.AnalyticsBreakdownDTO{Dimension: "status", Counts: counts}, nil
}

// GetCampaignAnalytics returns campaign counts grouped by channel
func (s *DashboardFlowImpl) GetCampaignAnalytics(ctx context.Context) (*dto.AnalyticsBreakdownDTO, error) {
	counts, err := s.dashboardRepo.CampaignCountsByChannel(ctx)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_ANALYTICS_FAILED", "Failed to load campaign analytics", err)
	}

	return &dto.AnalyticsBreakdownDTO{Dimension: "channel", Counts: counts}, nil
}

// GetMetricsRange returns the stored daily KPI snapshots between two dates
func (s *DashboardFlowImpl) GetMetricsRange(ctx context.Context, from, to time.Time) ([]dto.MetricsSnapshotDTO, error) {
	rows, err := s.metricsRepo.ListRange(ctx, from, to)
	if err != nil {
		return nil, NewBusinessError("METRICS_RANGE_FAILED", "Failed to load metrics range", err)
	}

	items := make([]dto.MetricsSnapshotDTO, 0, len(rows))
	for _, m := range rows {
		items = append(items, toMetricsSnapshotDTO(m))
	}

	return items, nil
}

// SnapshotDailyMetrics computes today's KPI row from live counts and upserts it
func (s *DashboardFlowImpl) SnapshotDailyMetrics(ctx context.Context) (*dto.MetricsSnapshotDTO, error) {
	counts, err := s.dashboardRepo.Counts(ctx)
	if err != nil {
		return nil, NewBusinessError("METRICS_SNAPSHOT_FAILED", "Failed to compute metrics snapshot", err)
	}

	qualified := "qualified"
	qualifiedLeads, err := s.leadRepo.Count(ctx, models.LeadFilter{Status: &qualified})
	if err != nil {
		return nil, NewBusinessError("METRICS_SNAPSHOT_FAILED", "Failed to compute metrics snapshot", err)
	}

	conversionRate := 0.0
	if counts.TotalLeads > 0 {
		conversionRate = float64(qualifiedLeads) / float64(counts.TotalLeads) * 100
	}

	metrics := &models.BusinessMetrics{
		MetricDate:      utils.StartOfDay(utils.UTCNow()),
		TotalProperties: int(counts.TotalProperties),
		ActiveListings:  int(counts.ActiveListings),
		TotalLeads:      int(counts.TotalLeads),
		QualifiedLeads:  int(qualifiedLeads),
		ActiveCampaigns: int(counts.ActiveCampaigns),
		DealsInProgress: int(counts.PendingDeals),
		DealsClosed:     int(counts.ClosedDeals),
		ConversionRate:  conversionRate,
	}

	if err := s.metricsRepo.Upsert(ctx, metrics); err != nil {
		return nil, NewBusinessError("METRICS_SNAPSHOT_FAILED", "Failed to store metrics snapshot", err)
	}

	result := toMetricsSnapshotDTO(metrics)
	return &result, nil
}

func (s *DashboardFlowImpl) cacheKey(key string) string {
	if s.cacheConfig == nil {
		return key
	}
	return s.cacheConfig.RedisPrefix + key
}

func toMetricsSnapshotDTO(m *models.BusinessMetrics) dto.MetricsSnapshotDTO {
	return dto.MetricsSnapshotDTO{
		MetricDate:       m.MetricDate.Format("2006-01-02"),
		TotalProperties:  m.TotalProperties,
		ActiveListings:   m.ActiveListings,
		TotalLeads:       m.TotalLeads,
		QualifiedLeads:   m.QualifiedLeads,
		ActiveCampaigns:  m.ActiveCampaigns,
		DealsInProgress:  m.DealsInProgress,
		DealsClosed:      m.DealsClosed,
		MonthlyRevenue:   m.MonthlyRevenue.String(),
		ConversionRate:   m.ConversionRate,
		AvgDealCycleDays: m.AvgDealCycleDays,
	}
}
