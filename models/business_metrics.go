package models

import (
	"time"

	"github.com/deelflow/deelflow-api/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BusinessMetrics is a daily snapshot of workspace KPIs used by the
// dashboard and analytics endpoints
type BusinessMetrics struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	MetricDate time.Time `gorm:"type:date;not null;uniqueIndex:uk_business_metrics_date" json:"metric_date"`

	TotalProperties  int             `gorm:"default:0" json:"total_properties"`
	ActiveListings   int             `gorm:"default:0" json:"active_listings"`
	TotalLeads       int             `gorm:"default:0" json:"total_leads"`
	QualifiedLeads   int             `gorm:"default:0" json:"qualified_leads"`
	ActiveCampaigns  int             `gorm:"default:0" json:"active_campaigns"`
	DealsInProgress  int             `gorm:"default:0" json:"deals_in_progress"`
	DealsClosed      int             `gorm:"default:0" json:"deals_closed"`
	MonthlyRevenue   decimal.Decimal `gorm:"type:numeric(18,2);default:0" json:"monthly_revenue"`
	ConversionRate   float64         `gorm:"default:0" json:"conversion_rate"`
	AvgDealCycleDays float64         `gorm:"default:0" json:"avg_deal_cycle_days"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for the model
func (BusinessMetrics) TableName() string {
	return "business_metrics"
}

// BeforeCreate is called before creating a new record
func (b *BusinessMetrics) BeforeCreate(tx *gorm.DB) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = utils.UTCNow()
	}
	b.UpdatedAt = b.CreatedAt
	return nil
}

// BeforeUpdate is called before updating a record
func (b *BusinessMetrics) BeforeUpdate(tx *gorm.DB) error {
	b.UpdatedAt = utils.UTCNow()
	return nil
}
