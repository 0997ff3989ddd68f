package dto

import "encoding/json"

// CreatePropertyRequest is the payload for POST /api/properties.
// Numeric descriptors arrive as strings and are coerced server-side;
// empty strings become null, non-numeric strings fail the request.
type CreatePropertyRequest struct {
	Address      string `json:"address" validate:"required,min=1,max=255"`
	City         string `json:"city" validate:"required,min=1,max=100"`
	State        string `json:"state" validate:"required,min=1,max=100"`
	Zipcode      string `json:"zipcode" validate:"required,min=1,max=20"`
	PropertyType string `json:"property_type" validate:"required,min=1,max=100"`
	Status       *string `json:"status,omitempty" validate:"omitempty,max=50"`
	Price        string `json:"price" validate:"required"`

	Bedrooms   *string `json:"bedrooms,omitempty"`
	Bathrooms  *string `json:"bathrooms,omitempty"`
	SquareFeet *string `json:"square_feet,omitempty"`
	LotSize    *string `json:"lot_size,omitempty"`
	YearBuilt  *string `json:"year_built,omitempty"`

	Description *string  `json:"description,omitempty"`
	Images      []string `json:"images,omitempty"`

	PurchasePrice  *string `json:"purchase_price,omitempty"`
	ARV            *string `json:"arv,omitempty"`
	RepairEstimate *string `json:"repair_estimate,omitempty"`
	HoldingCosts   *string `json:"holding_costs,omitempty"`
	AssignmentFee  *string `json:"assignment_fee,omitempty"`
}

// UpdatePropertyRequest is the payload for PUT /api/properties/:uuid
type UpdatePropertyRequest struct {
	UUID string `json:"-" validate:"required,uuid"`

	Address      *string `json:"address,omitempty" validate:"omitempty,min=1,max=255"`
	City         *string `json:"city,omitempty" validate:"omitempty,min=1,max=100"`
	State        *string `json:"state,omitempty" validate:"omitempty,min=1,max=100"`
	Zipcode      *string `json:"zipcode,omitempty" validate:"omitempty,min=1,max=20"`
	PropertyType *string `json:"property_type,omitempty" validate:"omitempty,min=1,max=100"`
	Status       *string `json:"status,omitempty" validate:"omitempty,max=50"`
	Price        *string `json:"price,omitempty"`

	Bedrooms   *string `json:"bedrooms,omitempty"`
	Bathrooms  *string `json:"bathrooms,omitempty"`
	SquareFeet *string `json:"square_feet,omitempty"`
	LotSize    *string `json:"lot_size,omitempty"`
	YearBuilt  *string `json:"year_built,omitempty"`

	Description *string  `json:"description,omitempty"`
	Images      []string `json:"images,omitempty"`

	PurchasePrice  *string `json:"purchase_price,omitempty"`
	ARV            *string `json:"arv,omitempty"`
	RepairEstimate *string `json:"repair_estimate,omitempty"`
	HoldingCosts   *string `json:"holding_costs,omitempty"`
	AssignmentFee  *string `json:"assignment_fee,omitempty"`
}

// PropertyDTO is the read shape of a property
type PropertyDTO struct {
	ID           uint   `json:"id"`
	UUID         string `json:"uuid"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zipcode      string `json:"zipcode"`
	PropertyType string `json:"property_type"`
	Status       string `json:"status"`
	Price        string `json:"price"`

	Bedrooms   *int     `json:"bedrooms"`
	Bathrooms  *float64 `json:"bathrooms"`
	SquareFeet *int     `json:"square_feet"`
	LotSize    *float64 `json:"lot_size"`
	YearBuilt  *int     `json:"year_built"`

	Description *string  `json:"description,omitempty"`
	Images      []string `json:"images"`

	PurchasePrice  *string `json:"purchase_price"`
	ARV            *string `json:"arv"`
	RepairEstimate *string `json:"repair_estimate"`
	HoldingCosts   *string `json:"holding_costs"`
	AssignmentFee  *string `json:"assignment_fee"`

	AIAnalysis json.RawMessage `json:"ai_analysis,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ListPropertiesRequest captures query parameters for property listing
type ListPropertiesRequest struct {
	City         *string `query:"city" validate:"omitempty,max=100"`
	State        *string `query:"state" validate:"omitempty,max=100"`
	Zipcode      *string `query:"zipcode" validate:"omitempty,max=20"`
	PropertyType *string `query:"property_type" validate:"omitempty,max=100"`
	Status       *string `query:"status" validate:"omitempty,max=50"`
	MinPrice     *string `query:"min_price"`
	MaxPrice     *string `query:"max_price"`
	Limit        int     `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset       int     `query:"offset" validate:"omitempty,min=0"`
}
