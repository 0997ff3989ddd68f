package dto

import (
	"encoding/json"
	"fmt"
)

// ChannelValue accepts a channel that may arrive as a single string or an
// ordered sequence of strings. Responses always carry the sequence form.
type ChannelValue []string

// UnmarshalJSON accepts "email", ["email","sms"], or null
func (c *ChannelValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = nil
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*c = ChannelValue{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*c = ChannelValue(many)
		return nil
	}

	return fmt.Errorf("channel must be a string or an array of strings")
}

// GeographicScope is the nested targeting object accepted on campaign
// writes. Exactly one of the list keys is expected; when several are
// present the first in declaration order wins.
type GeographicScope struct {
	Type     string   `json:"type"`
	Counties []string `json:"counties,omitempty"`
	Cities   []string `json:"cities,omitempty"`
	States   []string `json:"states,omitempty"`
	Zipcodes []string `json:"zipcodes,omitempty"`
}

// CreateCampaignRequest is the payload for POST /api/campaigns.
// Money fields arrive as strings and are coerced server-side; empty
// strings become null.
type CreateCampaignRequest struct {
	Name         string       `json:"name" validate:"required,min=1,max=255"`
	CampaignType *string      `json:"campaign_type,omitempty" validate:"omitempty,max=50"`
	Status       *string      `json:"status,omitempty" validate:"omitempty,max=50"`
	Channel      ChannelValue `json:"channel,omitempty"`

	GeographicScope       *GeographicScope `json:"geographic_scope,omitempty"`
	GeographicScopeType   *string          `json:"geographic_scope_type,omitempty" validate:"omitempty,max=50"`
	GeographicScopeValues []string         `json:"geographic_scope_values,omitempty"`

	DistressIndicators []string `json:"distress_indicators,omitempty"`

	Budget        *string `json:"budget,omitempty"`
	MinPrice      *string `json:"min_price,omitempty"`
	MaxPrice      *string `json:"max_price,omitempty"`
	MinimumEquity *string `json:"minimum_equity,omitempty"`

	Location     *string `json:"location,omitempty" validate:"omitempty,max=255"`
	PropertyType *string `json:"property_type,omitempty" validate:"omitempty,max=100"`

	PropertyYearBuiltMin *string `json:"property_year_built_min,omitempty"`
	PropertyYearBuiltMax *string `json:"property_year_built_max,omitempty"`

	SubjectLine          *string `json:"subject_line,omitempty" validate:"omitempty,max=255"`
	EmailContent         *string `json:"email_content,omitempty"`
	UseAIPersonalization *bool   `json:"use_ai_personalization,omitempty"`

	ScheduledAt *string `json:"scheduled_at,omitempty"`

	SellerCountry   *string `json:"seller_country,omitempty"`
	SellerState     *string `json:"seller_state,omitempty"`
	SellerCounties  *string `json:"seller_counties,omitempty"`
	SellerCity      *string `json:"seller_city,omitempty"`
	SellerDistricts *string `json:"seller_districts,omitempty"`
	SellerParish    *string `json:"seller_parish,omitempty"`

	BuyerCountry             *string `json:"buyer_country,omitempty"`
	BuyerState               *string `json:"buyer_state,omitempty"`
	BuyerCounties            *string `json:"buyer_counties,omitempty"`
	BuyerCity                *string `json:"buyer_city,omitempty"`
	BuyerDistricts           *string `json:"buyer_districts,omitempty"`
	BuyerParish              *string `json:"buyer_parish,omitempty"`
	BuyerAgeRange            *string `json:"buyer_age_range,omitempty"`
	BuyerSalaryRange         *string `json:"buyer_salary_range,omitempty"`
	BuyerMaritalStatus       *string `json:"buyer_marital_status,omitempty"`
	BuyerEmploymentStatus    *string `json:"buyer_employment_status,omitempty"`
	BuyerHomeOwnershipStatus *string `json:"buyer_home_ownership_status,omitempty"`
}

// UpdateCampaignRequest is the payload for PUT /api/campaigns/:uuid.
// Absent fields keep their stored value.
type UpdateCampaignRequest struct {
	UUID string `json:"-" validate:"required,uuid"`

	Name         *string      `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	CampaignType *string      `json:"campaign_type,omitempty" validate:"omitempty,max=50"`
	Status       *string      `json:"status,omitempty" validate:"omitempty,max=50"`
	Channel      ChannelValue `json:"channel,omitempty"`

	GeographicScope       *GeographicScope `json:"geographic_scope,omitempty"`
	GeographicScopeType   *string          `json:"geographic_scope_type,omitempty" validate:"omitempty,max=50"`
	GeographicScopeValues []string         `json:"geographic_scope_values,omitempty"`

	DistressIndicators []string `json:"distress_indicators,omitempty"`

	Budget        *string `json:"budget,omitempty"`
	MinPrice      *string `json:"min_price,omitempty"`
	MaxPrice      *string `json:"max_price,omitempty"`
	MinimumEquity *string `json:"minimum_equity,omitempty"`

	Location     *string `json:"location,omitempty" validate:"omitempty,max=255"`
	PropertyType *string `json:"property_type,omitempty" validate:"omitempty,max=100"`

	PropertyYearBuiltMin *string `json:"property_year_built_min,omitempty"`
	PropertyYearBuiltMax *string `json:"property_year_built_max,omitempty"`

	SubjectLine          *string `json:"subject_line,omitempty" validate:"omitempty,max=255"`
	EmailContent         *string `json:"email_content,omitempty"`
	UseAIPersonalization *bool   `json:"use_ai_personalization,omitempty"`

	ScheduledAt *string `json:"scheduled_at,omitempty"`
}

// CampaignDTO is the read shape of a campaign. Channel and the two
// list-as-text columns always come back as sequences.
type CampaignDTO struct {
	ID           uint   `json:"id"`
	UUID         string `json:"uuid"`
	Name         string `json:"name"`
	CampaignType string `json:"campaign_type"`
	Status       string `json:"status"`

	Channel               []string `json:"channel"`
	GeographicScopeType   string   `json:"geographic_scope_type"`
	GeographicScopeValues []string `json:"geographic_scope_values"`
	DistressIndicators    []string `json:"distress_indicators"`

	Budget        *string `json:"budget"`
	MinPrice      *string `json:"min_price"`
	MaxPrice      *string `json:"max_price"`
	MinimumEquity *string `json:"minimum_equity"`

	Location     *string `json:"location,omitempty"`
	PropertyType *string `json:"property_type,omitempty"`

	PropertyYearBuiltMin *int `json:"property_year_built_min,omitempty"`
	PropertyYearBuiltMax *int `json:"property_year_built_max,omitempty"`

	SubjectLine          *string `json:"subject_line,omitempty"`
	EmailContent         *string `json:"email_content,omitempty"`
	UseAIPersonalization bool    `json:"use_ai_personalization"`

	ScheduledAt *string `json:"scheduled_at,omitempty"`

	SellerCountry   *string `json:"seller_country,omitempty"`
	SellerState     *string `json:"seller_state,omitempty"`
	SellerCounties  *string `json:"seller_counties,omitempty"`
	SellerCity      *string `json:"seller_city,omitempty"`
	SellerDistricts *string `json:"seller_districts,omitempty"`
	SellerParish    *string `json:"seller_parish,omitempty"`

	BuyerCountry             *string `json:"buyer_country,omitempty"`
	BuyerState               *string `json:"buyer_state,omitempty"`
	BuyerCounties            *string `json:"buyer_counties,omitempty"`
	BuyerCity                *string `json:"buyer_city,omitempty"`
	BuyerDistricts           *string `json:"buyer_districts,omitempty"`
	BuyerParish              *string `json:"buyer_parish,omitempty"`
	BuyerAgeRange            *string `json:"buyer_age_range,omitempty"`
	BuyerSalaryRange         *string `json:"buyer_salary_range,omitempty"`
	BuyerMaritalStatus       *string `json:"buyer_marital_status,omitempty"`
	BuyerEmploymentStatus    *string `json:"buyer_employment_status,omitempty"`
	BuyerHomeOwnershipStatus *string `json:"buyer_home_ownership_status,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ListCampaignsRequest captures query parameters for campaign listing
type ListCampaignsRequest struct {
	Status  *string `query:"status" validate:"omitempty,max=50"`
	Channel *string `query:"channel" validate:"omitempty,max=50"`
	Name    *string `query:"name" validate:"omitempty,max=255"`
	Limit   int     `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset  int     `query:"offset" validate:"omitempty,min=0"`
}

// CampaignPerformanceDTO is the response for GET /api/campaigns/:uuid/performance
type CampaignPerformanceDTO struct {
	UUID            string  `json:"uuid"`
	Name            string  `json:"name"`
	Status          string  `json:"status"`
	TotalLeads      int64   `json:"total_leads"`
	QualifiedLeads  int64   `json:"qualified_leads"`
	ConversionRate  float64 `json:"conversion_rate"`
	EmailsSent      int64   `json:"emails_sent"`
	EmailOpenRate   float64 `json:"email_open_rate"`
	ResponseRate    float64 `json:"response_rate"`
	CostPerLead     *string `json:"cost_per_lead"`
	BudgetRemaining *string `json:"budget_remaining"`
}
