package dto

// DashboardOverviewDTO is the headline stats payload for GET /api/dashboard/overview
type DashboardOverviewDTO struct {
	TotalProperties int64 `json:"total_properties"`
	ActiveListings  int64 `json:"active_listings"`
	TotalLeads      int64 `json:"total_leads"`
	ActiveCampaigns int64 `json:"active_campaigns"`
	PendingDeals    int64 `json:"pending_deals"`
	ClosedDeals     int64 `json:"closed_deals"`
	TotalUsers      int64 `json:"total_users"`
}

// ActivityEntryDTO is one row of the dashboard activity feed
type ActivityEntryDTO struct {
	ID           uint    `json:"id"`
	ActivityType string  `json:"activity_type"`
	Title        string  `json:"title"`
	Description  *string `json:"description,omitempty"`
	Entity       *string `json:"entity,omitempty"`
	EntityID     *uint   `json:"entity_id,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

// AnalyticsBreakdownDTO groups entity counts under a single dimension
type AnalyticsBreakdownDTO struct {
	Dimension string           `json:"dimension"`
	Counts    map[string]int64 `json:"counts"`
}

// MetricsSnapshotDTO is one daily KPI row for GET /api/analytics/metrics
type MetricsSnapshotDTO struct {
	MetricDate       string  `json:"metric_date"`
	TotalProperties  int     `json:"total_properties"`
	ActiveListings   int     `json:"active_listings"`
	TotalLeads       int     `json:"total_leads"`
	QualifiedLeads   int     `json:"qualified_leads"`
	ActiveCampaigns  int     `json:"active_campaigns"`
	DealsInProgress  int     `json:"deals_in_progress"`
	DealsClosed      int     `json:"deals_closed"`
	MonthlyRevenue   string  `json:"monthly_revenue"`
	ConversionRate   float64 `json:"conversion_rate"`
	AvgDealCycleDays float64 `json:"avg_deal_cycle_days"`
}
