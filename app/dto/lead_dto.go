package dto

import "encoding/json"

// CreateLeadRequest is the payload for POST /api/leads
type CreateLeadRequest struct {
	Name  string  `json:"name" validate:"required,min=1,max=255"`
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=50"`

	Address *string `json:"address,omitempty" validate:"omitempty,max=255"`
	City    *string `json:"city,omitempty" validate:"omitempty,max=100"`
	State   *string `json:"state,omitempty" validate:"omitempty,max=100"`
	Zipcode *string `json:"zipcode,omitempty" validate:"omitempty,max=20"`

	Status          *string  `json:"status,omitempty" validate:"omitempty,max=50"`
	Source          *string  `json:"source,omitempty" validate:"omitempty,max=100"`
	MotivationScore *float64 `json:"motivation_score,omitempty" validate:"omitempty,min=0,max=100"`

	PropertyCondition  *string `json:"property_condition,omitempty" validate:"omitempty,max=100"`
	FinancialSituation *string `json:"financial_situation,omitempty" validate:"omitempty,max=100"`
	TimelineUrgency    *string `json:"timeline_urgency,omitempty" validate:"omitempty,max=100"`
	NegotiationStyle   *string `json:"negotiation_style,omitempty" validate:"omitempty,max=100"`
	Notes              *string `json:"notes,omitempty"`

	CampaignID *uint `json:"campaign_id,omitempty"`
}

// UpdateLeadRequest is the payload for PUT /api/leads/:uuid
type UpdateLeadRequest struct {
	UUID string `json:"-" validate:"required,uuid"`

	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=50"`

	Address *string `json:"address,omitempty" validate:"omitempty,max=255"`
	City    *string `json:"city,omitempty" validate:"omitempty,max=100"`
	State   *string `json:"state,omitempty" validate:"omitempty,max=100"`
	Zipcode *string `json:"zipcode,omitempty" validate:"omitempty,max=20"`

	Status          *string  `json:"status,omitempty" validate:"omitempty,max=50"`
	Source          *string  `json:"source,omitempty" validate:"omitempty,max=100"`
	MotivationScore *float64 `json:"motivation_score,omitempty" validate:"omitempty,min=0,max=100"`

	PropertyCondition  *string `json:"property_condition,omitempty" validate:"omitempty,max=100"`
	FinancialSituation *string `json:"financial_situation,omitempty" validate:"omitempty,max=100"`
	TimelineUrgency    *string `json:"timeline_urgency,omitempty" validate:"omitempty,max=100"`
	NegotiationStyle   *string `json:"negotiation_style,omitempty" validate:"omitempty,max=100"`
	Notes              *string `json:"notes,omitempty"`

	CampaignID *uint `json:"campaign_id,omitempty"`
}

// LeadDTO is the read shape of a lead
type LeadDTO struct {
	ID    uint    `json:"id"`
	UUID  string  `json:"uuid"`
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`

	Address *string `json:"address,omitempty"`
	City    *string `json:"city,omitempty"`
	State   *string `json:"state,omitempty"`
	Zipcode *string `json:"zipcode,omitempty"`

	Status          string  `json:"status"`
	Source          string  `json:"source"`
	MotivationScore float64 `json:"motivation_score"`

	PropertyCondition  *string `json:"property_condition,omitempty"`
	FinancialSituation *string `json:"financial_situation,omitempty"`
	TimelineUrgency    *string `json:"timeline_urgency,omitempty"`
	NegotiationStyle   *string `json:"negotiation_style,omitempty"`
	Notes              *string `json:"notes,omitempty"`

	CampaignID *uint           `json:"campaign_id,omitempty"`
	AIScore    json.RawMessage `json:"ai_score,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ListLeadsRequest captures query parameters for lead listing
type ListLeadsRequest struct {
	Status        *string  `query:"status" validate:"omitempty,max=50"`
	Source        *string  `query:"source" validate:"omitempty,max=100"`
	City          *string  `query:"city" validate:"omitempty,max=100"`
	CampaignID    *uint    `query:"campaign_id"`
	MinMotivation *float64 `query:"min_motivation" validate:"omitempty,min=0,max=100"`
	Limit         int      `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset        int      `query:"offset" validate:"omitempty,min=0"`
}

// LeadAIScoreDTO is the response for POST /api/leads/:uuid/ai-score
type LeadAIScoreDTO struct {
	UUID            string          `json:"uuid"`
	MotivationScore float64         `json:"motivation_score"`
	AIScore         json.RawMessage `json:"ai_score"`
}
