// Package businessflow contains the core business logic and use cases for property workflows
package businessflow

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deelflow/deelflow-api/app/dto"
	"github.com/deelflow/deelflow-api/models"
	"github.com/deelflow/deelflow-api/repository"
	"github.com/deelflow/deelflow-api/utils"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PropertyFlow handles the property business logic
type PropertyFlow interface {
	CreateProperty(ctx context.Context, req *dto.CreatePropertyRequest, metadata *ClientMetadata) (*dto.PropertyDTO, error)
	GetProperty(ctx context.Context, uuid string) (*dto.PropertyDTO, error)
	ListProperties(ctx context.Context, req *dto.ListPropertiesRequest) (*dto.ListResponse, error)
	UpdateProperty(ctx context.Context, req *dto.UpdatePropertyRequest, metadata *ClientMetadata) (*dto.PropertyDTO, error)
	DeleteProperty(ctx context.Context, uuid string, metadata *ClientMetadata) error
	RunAIAnalysis(ctx context.Context, uuid string) (*dto.PropertyDTO, error)
}

// PropertyFlowImpl implements the property business flow
type PropertyFlowImpl struct {
	propertyRepo repository.PropertyRepository
	auditRepo    repository.AuditLogRepository
	activityRepo repository.ActivityFeedRepository
	db           *gorm.DB
}

// NewPropertyFlow creates a new property flow instance
func NewPropertyFlow(
	propertyRepo repository.PropertyRepository,
	auditRepo repository.AuditLogRepository,
	activityRepo repository.ActivityFeedRepository,
	db *gorm.DB,
) PropertyFlow {
	return &PropertyFlowImpl{
		propertyRepo: propertyRepo,
		auditRepo:    auditRepo,
		activityRepo: activityRepo,
		db:           db,
	}
}

// CreateProperty coerces the string-typed numeric fields and persists the listing
func (s *PropertyFlowImpl) CreateProperty(ctx context.Context, req *dto.CreatePropertyRequest, metadata *ClientMetadata) (*dto.PropertyDTO, error) {
	property, err := s.buildProperty(req)
	if err != nil {
		return nil, NewBusinessError("PROPERTY_VALIDATION_FAILED", "Property validation failed", err)
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.propertyRepo.Save(txCtx, property)
	})
	if err != nil {
		errMsg := fmt.Sprintf("Property creation failed: %s", err.Error())
		_ = s.createAuditLog(ctx, nil, models.AuditActionRecordCreated, errMsg, false, metadata)
		return nil, NewBusinessError("PROPERTY_CREATION_FAILED", "Property creation failed", err)
	}

	msg := fmt.Sprintf("Property created: %s", property.UUID.String())
	_ = s.createAuditLog(ctx, &property.ID, models.AuditActionRecordCreated, msg, true, metadata)
	s.recordActivity(ctx, "property_created", property.Address, property.ID)

	result := ToPropertyDTO(*property)
	return &result, nil
}

// GetProperty retrieves a property by UUID
func (s *PropertyFlowImpl) GetProperty(ctx context.Context, uuid string) (*dto.PropertyDTO, error) {
	property, err := s.propertyRepo.ByUUID(ctx, uuid)
	if err != nil {
		return nil, NewBusinessError("PROPERTY_LOOKUP_FAILED", "Failed to lookup property", err)
	}
	if property == nil {
		return nil, NewBusinessError("PROPERTY_NOT_FOUND", "Property not found", ErrPropertyNotFound)
	}

	result := ToPropertyDTO(*property)
	return &result, nil
}

// ListProperties retrieves properties matching the query filters
func (s *PropertyFlowImpl) ListProperties(ctx context.Context, req *dto.ListPropertiesRequest) (*dto.ListResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = utils.DefaultPageLimit
	}
	if limit > utils.MaxPageLimit {
		limit = utils.MaxPageLimit
	}

	filter := models.PropertyFilter{
		City:         req.City,
		State:        req.State,
		Zipcode:      req.Zipcode,
		PropertyType: req.PropertyType,
		Status:       req.Status,
	}

	minPrice, err := ParseOptionalDecimal(req.MinPrice)
	if err != nil {
		return nil, NewBusinessError("PROPERTY_VALIDATION_FAILED", "Invalid price filter", err)
	}
	if minPrice.Valid {
		filter.MinPrice = &minPrice.Decimal
	}
	maxPrice, err := ParseOptionalDecimal(req.MaxPrice)
	if err != nil {
		return nil, NewBusinessError("PROPERTY_VALIDATION_FAILED", "Invalid price filter", err)
	}
	if maxPrice.Valid {
		filter.MaxPrice = &maxPrice.Decimal
	}

	properties, err := s.propertyRepo.ByFilter(ctx, filter, "created_at DESC", limit, req.Offset)
	if err != nil {
		return nil, NewBusinessError("PROPERTY_LIST_FAILED", "Failed to list properties", err)
	}

	total, err := s.propertyRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("PROPERTY_LIST_FAILED", "Failed to count properties", err)
	}

	items := make([]dto.PropertyDTO, 0, len(properties))
	for _, p := range properties {
		items = append(items, ToPropertyDTO(*p))
	}

	return &dto.ListResponse{
		Items: items,
		Meta:  dto.ListMeta{Total: total, Limit: limit, Offset: req.Offset},
	}, nil
}

// UpdateProperty applies a partial update to a listing
func (s *PropertyFlowImpl) UpdateProperty(ctx context.Context, req *dto.UpdatePropertyRequest, metadata *ClientMetadata) (*dto.PropertyDTO, error) {
	property, err := s.propertyRepo.ByUUID(ctx, req.UUID)
	if err != nil {
		return nil, NewBusinessError("PROPERTY_LOOKUP_FAILED", "Failed to lookup property", err)
	}
	if property == nil {
		return nil, NewBusinessError("PROPERTY_NOT_FOUND", "Property not found", ErrPropertyNotFound)
	}

	if err := s.applyUpdate(property, req); err != nil {
		return nil, NewBusinessError("PROPERTY_VALIDATION_FAILED", "Property validation failed", err)
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.propertyRepo.Update(txCtx, property)
	})
	if err != nil {
		return nil, NewBusinessError("PROPERTY_UPDATE_FAILED", "Property update failed", err)
	}

	msg := fmt.Sprintf("Property updated: %s", property.UUID.String())
	_ = s.createAuditLog(ctx, &property.ID, models.AuditActionRecordUpdated, msg, true, metadata)

	result := ToPropertyDTO(*property)
	return &result, nil
}

// DeleteProperty removes a listing by UUID
func (s *PropertyFlowImpl) DeleteProperty(ctx context.Context, uuid string, metadata *ClientMetadata) error {
	property, err := s.propertyRepo.ByUUID(ctx, uuid)
	if err != nil {
		return NewBusinessError("PROPERTY_LOOKUP_FAILED", "Failed to lookup property", err)
	}
	if property == nil {
		return NewBusinessError("PROPERTY_NOT_FOUND", "Property not found", ErrPropertyNotFound)
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.propertyRepo.DeleteByID(txCtx, property.ID)
	})
	if err != nil {
		return NewBusinessError("PROPERTY_DELETE_FAILED", "Property deletion failed", err)
	}

	msg := fmt.Sprintf("Property deleted: %s", property.UUID.String())
	_ = s.createAuditLog(ctx, &property.ID, models.AuditActionRecordDeleted, msg, true, metadata)

	return nil
}

// RunAIAnalysis computes a deterministic valuation summary from the
// listing's own investor numbers and stores it on the row.
func (s *PropertyFlowImpl) RunAIAnalysis(ctx context.Context, uuid string) (*dto.PropertyDTO, error) {
	property, err := s.propertyRepo.ByUUID(ctx, uuid)
	if err != nil {
		return nil, NewBusinessError("PROPERTY_LOOKUP_FAILED", "Failed to lookup property", err)
	}
	if property == nil {
		return nil, NewBusinessError("PROPERTY_NOT_FOUND", "Property not found", ErrPropertyNotFound)
	}

	analysis := buildValuationAnalysis(property)
	payload, err := json.Marshal(analysis)
	if err != nil {
		return nil, NewBusinessError("PROPERTY_ANALYSIS_FAILED", "Failed to build analysis", err)
	}

	if err := s.propertyRepo.UpdateAIAnalysis(ctx, property.ID, payload); err != nil {
		return nil, NewBusinessError("PROPERTY_ANALYSIS_FAILED", "Failed to store analysis", err)
	}

	property.AIAnalysis = payload
	result := ToPropertyDTO(*property)
	return &result, nil
}

// buildValuationAnalysis derives spread and ROI figures when the
// underlying investor numbers are present
func buildValuationAnalysis(p *models.Property) map[string]any {
	out := map[string]any{
		"list_price":   p.Price.String(),
		"generated_at": utils.UTCNowRFC3339(),
	}

	if p.ARV.Valid && p.PurchasePrice.Valid {
		spread := p.ARV.Decimal.Sub(p.PurchasePrice.Decimal)
		if p.RepairEstimate.Valid {
			spread = spread.Sub(p.RepairEstimate.Decimal)
		}
		if p.HoldingCosts.Valid {
			spread = spread.Sub(p.HoldingCosts.Decimal)
		}
		out["projected_spread"] = spread.String()

		if !p.PurchasePrice.Decimal.IsZero() {
			roi := spread.Div(p.PurchasePrice.Decimal).Mul(decimal.NewFromInt(100)).Round(2)
			out["projected_roi_pct"] = roi.String()
		}
	}
	if p.AssignmentFee.Valid {
		out["assignment_fee"] = p.AssignmentFee.Decimal.String()
	}

	return out
}

// buildProperty maps a create payload into a property row
func (s *PropertyFlowImpl) buildProperty(req *dto.CreatePropertyRequest) (*models.Property, error) {
	price, err := ParseRequiredDecimal(req.Price)
	if err != nil {
		return nil, err
	}

	bedrooms, err := ParseOptionalInt(req.Bedrooms)
	if err != nil {
		return nil, err
	}
	bathrooms, err := ParseOptionalFloat(req.Bathrooms)
	if err != nil {
		return nil, err
	}
	squareFeet, err := ParseOptionalInt(req.SquareFeet)
	if err != nil {
		return nil, err
	}
	lotSize, err := ParseOptionalFloat(req.LotSize)
	if err != nil {
		return nil, err
	}
	yearBuilt, err := ParseOptionalInt(req.YearBuilt)
	if err != nil {
		return nil, err
	}

	purchasePrice, err := ParseOptionalDecimal(req.PurchasePrice)
	if err != nil {
		return nil, err
	}
	arv, err := ParseOptionalDecimal(req.ARV)
	if err != nil {
		return nil, err
	}
	repairEstimate, err := ParseOptionalDecimal(req.RepairEstimate)
	if err != nil {
		return nil, err
	}
	holdingCosts, err := ParseOptionalDecimal(req.HoldingCosts)
	if err != nil {
		return nil, err
	}
	assignmentFee, err := ParseOptionalDecimal(req.AssignmentFee)
	if err != nil {
		return nil, err
	}

	return &models.Property{
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		Zipcode:      req.Zipcode,
		PropertyType: req.PropertyType,
		Status:       utils.ValueOr(req.Status, "active"),
		Price:        price,

		Bedrooms:   bedrooms,
		Bathrooms:  bathrooms,
		SquareFeet: squareFeet,
		LotSize:    lotSize,
		YearBuilt:  yearBuilt,

		Description: req.Description,
		Images:      pq.StringArray(req.Images),

		PurchasePrice:  purchasePrice,
		ARV:            arv,
		RepairEstimate: repairEstimate,
		HoldingCosts:   holdingCosts,
		AssignmentFee:  assignmentFee,
	}, nil
}

// applyUpdate merges present payload fields into the stored row
func (s *PropertyFlowImpl) applyUpdate(property *models.Property, req *dto.UpdatePropertyRequest) error {
	if req.Address != nil {
		property.Address = *req.Address
	}
	if req.City != nil {
		property.City = *req.City
	}
	if req.State != nil {
		property.State = *req.State
	}
	if req.Zipcode != nil {
		property.Zipcode = *req.Zipcode
	}
	if req.PropertyType != nil {
		property.PropertyType = *req.PropertyType
	}
	if req.Status != nil {
		property.Status = *req.Status
	}
	if req.Price != nil {
		price, err := ParseRequiredDecimal(*req.Price)
		if err != nil {
			return err
		}
		property.Price = price
	}

	if req.Bedrooms != nil {
		v, err := ParseOptionalInt(req.Bedrooms)
		if err != nil {
			return err
		}
		property.Bedrooms = v
	}
	if req.Bathrooms != nil {
		v, err := ParseOptionalFloat(req.Bathrooms)
		if err != nil {
			return err
		}
		property.Bathrooms = v
	}
	if req.SquareFeet != nil {
		v, err := ParseOptionalInt(req.SquareFeet)
		if err != nil {
			return err
		}
		property.SquareFeet = v
	}
	if req.LotSize != nil {
		v, err := ParseOptionalFloat(req.LotSize)
		if err != nil {
			return err
		}
		property.LotSize = v
	}
	if req.YearBuilt != nil {
		v, err := ParseOptionalInt(req.YearBuilt)
		if err != nil {
			return err
		}
		property.YearBuilt = v
	}

	if req.Description != nil {
		property.Description = req.Description
	}
	if req.Images != nil {
		property.Images = pq.StringArray(req.Images)
	}

	if req.PurchasePrice != nil {
		v, err := ParseOptionalDecimal(req.PurchasePrice)
		if err != nil {
			return err
		}
		property.PurchasePrice = v
	}
	if req.ARV != nil {
		v, err := ParseOptionalDecimal(req.ARV)
		if err != nil {
			return err
		}
		property.ARV = v
	}
	if req.RepairEstimate != nil {
		v, err := ParseOptionalDecimal(req.RepairEstimate)
		if err != nil {
			return err
		}
		property.RepairEstimate = v
	}
	if req.HoldingCosts != nil {
		v, err := ParseOptionalDecimal(req.HoldingCosts)
		if err != nil {
			return err
		}
		property.HoldingCosts = v
	}
	if req.AssignmentFee != nil {
		v, err := ParseOptionalDecimal(req.AssignmentFee)
		if err != nil {
			return err
		}
		property.AssignmentFee = v
	}

	return nil
}

func (s *PropertyFlowImpl) createAuditLog(ctx context.Context, entityID *uint, action, description string, success bool, metadata *ClientMetadata) error {
	entity := "property"
	entry := &models.AuditLog{
		Action:      action,
		Entity:      &entity,
		EntityID:    entityID,
		Description: &description,
		Success:     success,
	}
	if metadata != nil {
		if metadata.IPAddress != "" {
			entry.IPAddress = &metadata.IPAddress
		}
		if metadata.UserAgent != "" {
			entry.UserAgent = &metadata.UserAgent
		}
		if metadata.RequestID != "" {
			entry.RequestID = &metadata.RequestID
		}
	}

	return s.auditRepo.Save(ctx, entry)
}

func (s *PropertyFlowImpl) recordActivity(ctx context.Context, activityType, title string, entityID uint) {
	entity := "property"
	_ = s.activityRepo.Save(ctx, &models.ActivityFeed{
		ActivityType: activityType,
		Title:        title,
		Entity:       &entity,
		EntityID:     &entityID,
		CreatedAt:    utils.UTCNow(),
	})
}
