package dto

// CreateDealRequest is the payload for POST /api/deals.
// Money fields arrive as strings and are coerced server-side; empty
// strings become null.
type CreateDealRequest struct {
	DealType string  `json:"deal_type" validate:"required,min=1,max=50"`
	Status   *string `json:"status,omitempty" validate:"omitempty,max=50"`

	PropertyID   *uint `json:"property_id" validate:"required"`
	BuyerLeadID  *uint `json:"buyer_lead_id" validate:"required"`
	SellerLeadID *uint `json:"seller_lead_id" validate:"required"`

	OfferPrice *string `json:"offer_price" validate:"required"`
	FinalPrice *string `json:"final_price,omitempty"`
	Commission *string `json:"commission,omitempty"`

	ClosingDate *string `json:"closing_date,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// UpdateDealRequest is the payload for PUT /api/deals/:uuid
type UpdateDealRequest struct {
	UUID string `json:"-" validate:"required,uuid"`

	DealType *string `json:"deal_type,omitempty" validate:"omitempty,min=1,max=50"`
	Status   *string `json:"status,omitempty" validate:"omitempty,max=50"`

	PropertyID   *uint `json:"property_id,omitempty"`
	BuyerLeadID  *uint `json:"buyer_lead_id,omitempty"`
	SellerLeadID *uint `json:"seller_lead_id,omitempty"`

	OfferPrice *string `json:"offer_price,omitempty"`
	FinalPrice *string `json:"final_price,omitempty"`
	Commission *string `json:"commission,omitempty"`

	ClosingDate *string `json:"closing_date,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// DealDTO is the read shape of a deal
type DealDTO struct {
	ID       uint   `json:"id"`
	UUID     string `json:"uuid"`
	DealType string `json:"deal_type"`
	Status   string `json:"status"`

	PropertyID   *uint `json:"property_id,omitempty"`
	BuyerLeadID  *uint `json:"buyer_lead_id,omitempty"`
	SellerLeadID *uint `json:"seller_lead_id,omitempty"`

	OfferPrice *string `json:"offer_price"`
	FinalPrice *string `json:"final_price"`
	Commission *string `json:"commission"`

	ClosingDate *string `json:"closing_date,omitempty"`
	Notes       *string `json:"notes,omitempty"`

	Milestones []DealMilestoneDTO `json:"milestones,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ListDealsRequest captures query parameters for deal listing
type ListDealsRequest struct {
	Status       *string `query:"status" validate:"omitempty,max=50"`
	DealType     *string `query:"deal_type" validate:"omitempty,max=50"`
	PropertyID   *uint   `query:"property_id"`
	BuyerLeadID  *uint   `query:"buyer_lead_id"`
	SellerLeadID *uint   `query:"seller_lead_id"`
	Limit        int     `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset       int     `query:"offset" validate:"omitempty,min=0"`
}

// CreateDealMilestoneRequest is the payload for POST /api/deals/:uuid/milestones
type CreateDealMilestoneRequest struct {
	DealUUID string `json:"-" validate:"required,uuid"`

	Title       string  `json:"title" validate:"required,min=1,max=255"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty" validate:"omitempty,max=50"`
	DueDate     *string `json:"due_date,omitempty"`
}

// UpdateDealMilestoneRequest is the payload for PUT /api/deals/:uuid/milestones/:id
type UpdateDealMilestoneRequest struct {
	DealUUID    string `json:"-" validate:"required,uuid"`
	MilestoneID uint   `json:"-" validate:"required"`

	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty" validate:"omitempty,max=50"`
	DueDate     *string `json:"due_date,omitempty"`
}

// DealMilestoneDTO is the read shape of a milestone
type DealMilestoneDTO struct {
	ID          uint    `json:"id"`
	UUID        string  `json:"uuid"`
	DealID      uint    `json:"deal_id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Status      string  `json:"status"`
	DueDate     *string `json:"due_date,omitempty"`
	CompletedAt *string `json:"completed_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
}
