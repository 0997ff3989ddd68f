// Package businessflow contains the core business logic and use cases for deal workflows
package businessflow

import (
	"context"
	"fmt"

	"github.com/deelflow/deelflow-api/app/dto"
	"github.com/deelflow/deelflow-api/models"
	"github.com/deelflow/deelflow-api/repository"
	"github.com/deelflow/deelflow-api/utils"
	"gorm.io/gorm"
)

// DealFlow handles the deal business logic
type DealFlow interface {
	CreateDeal(ctx context.Context, req *dto.CreateDealRequest, metadata *ClientMetadata) (*dto.DealDTO, error)
	GetDeal(ctx context.Context, uuid string) (*dto.DealDTO, error)
	ListDeals(ctx context.Context, req *dto.ListDealsRequest) (*dto.ListResponse, error)
	UpdateDeal(ctx context.Context, req *dto.UpdateDealRequest, metadata *ClientMetadata) (*dto.DealDTO, error)
	DeleteDeal(ctx context.Context, uuid string, metadata *ClientMetadata) error
	AddMilestone(ctx context.Context, req *dto.CreateDealMilestoneRequest, metadata *ClientMetadata) (*dto.DealMilestoneDTO, error)
	UpdateMilestone(ctx context.Context, req *dto.UpdateDealMilestoneRequest, metadata *ClientMetadata) (*dto.DealMilestoneDTO, error)
	ListMilestones(ctx context.Context, dealUUID string) ([]dto.DealMilestoneDTO, error)
}

// DealFlowImpl implements the deal business flow
type DealFlowImpl struct {
	dealRepo      repository.DealRepository
	milestoneRepo repository.DealMilestoneRepository
	propertyRepo  repository.PropertyRepository
	leadRepo      repository.LeadRepository
	auditRepo     repository.AuditLogRepository
	activityRepo  repository.ActivityFeedRepository
	db            *gorm.DB
}

// NewDealFlow creates a new deal flow instance
func NewDealFlow(
	dealRepo repository.DealRepository,
	milestoneRepo repository.DealMilestoneRepository,
	propertyRepo repository.PropertyRepository,
	leadRepo repository.LeadRepository,
	auditRepo repository.AuditLogRepository,
	activityRepo repository.ActivityFeedRepository,
	db *gorm.DB,
) DealFlow {
	return &DealFlowImpl{
		dealRepo:      dealRepo,
		milestoneRepo: milestoneRepo,
		propertyRepo:  propertyRepo,
		leadRepo:      leadRepo,
		auditRepo:     auditRepo,
		activityRepo:  activityRepo,
		db:            db,
	}
}

// CreateDeal persists a new deal, verifying the property and both lead
// references
func (s *DealFlowImpl) CreateDeal(ctx context.Context, req *dto.CreateDealRequest, metadata *ClientMetadata) (*dto.DealDTO, error) {
	if err := s.checkReferences(ctx, req.PropertyID, req.BuyerLeadID, req.SellerLeadID); err != nil {
		return nil, err
	}

	offerPrice, err := ParseOptionalDecimal(req.OfferPrice)
	if err != nil {
		return nil, NewBusinessError("DEAL_VALIDATION_FAILED", "Deal validation failed", err)
	}
	finalPrice, err := ParseOptionalDecimal(req.FinalPrice)
	if err != nil {
		return nil, NewBusinessError("DEAL_VALIDATION_FAILED", "Deal validation failed", err)
	}
	commission, err := ParseOptionalDecimal(req.Commission)
	if err != nil {
		return nil, NewBusinessError("DEAL_VALIDATION_FAILED", "Deal validation failed", err)
	}
	closingDate, err := ParseOptionalTime(req.ClosingDate)
	if err != nil {
		return nil, NewBusinessError("DEAL_VALIDATION_FAILED", "Deal validation failed", err)
	}

	deal := &models.Deal{
		DealType: req.DealType,
		Status:   utils.ValueOr(req.Status, "pending"),

		PropertyID:   req.PropertyID,
		BuyerLeadID:  req.BuyerLeadID,
		SellerLeadID: req.SellerLeadID,

		OfferPrice: offerPrice,
		FinalPrice: finalPrice,
		Commission: commission,

		ClosingDate: closingDate,
		Notes:       req.Notes,
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.dealRepo.Save(txCtx, deal)
	})
	if err != nil {
		errMsg := fmt.Sprintf("Deal creation failed: %s", err.Error())
		_ = s.createAuditLog(ctx, nil, models.AuditActionRecordCreated, errMsg, false, metadata)
		return nil, NewBusinessError("DEAL_CREATION_FAILED", "Deal creation failed", err)
	}

	msg := fmt.Sprintf("Deal created: %s", deal.UUID.String())
	_ = s.createAuditLog(ctx, &deal.ID, models.AuditActionRecordCreated, msg, true, metadata)
	s.recordActivity(ctx, "deal_created", fmt.Sprintf("%s deal %s", deal.DealType, deal.UUID.String()), deal.ID)

	result := ToDealDTO(*deal)
	return &result, nil
}

// GetDeal retrieves a deal by UUID with its milestones
func (s *DealFlowImpl) GetDeal(ctx context.Context, uuid string) (*dto.DealDTO, error) {
	deal, err := s.dealRepo.ByUUID(ctx, uuid)
	if err != nil {
		return nil, NewBusinessError("DEAL_LOOKUP_FAILED", "Failed to lookup deal", err)
	}
	if deal == nil {
		return nil, NewBusinessError("DEAL_NOT_FOUND", "Deal not found", ErrDealNotFound)
	}

	result := ToDealDTO(*deal)
	return &result, nil
}

// ListDeals retrieves deals matching the query filters
func (s *DealFlowImpl) ListDeals(ctx context.Context, req *dto.ListDealsRequest) (*dto.ListResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = utils.DefaultPageLimit
	}
	if limit > utils.MaxPageLimit {
		limit = utils.MaxPageLimit
	}

	filter := models.DealFilter{
		Status:       req.Status,
		DealType:     req.DealType,
		PropertyID:   req.PropertyID,
		BuyerLeadID:  req.BuyerLeadID,
		SellerLeadID: req.SellerLeadID,
	}

	deals, err := s.dealRepo.ByFilter(ctx, filter, "created_at DESC", limit, req.Offset)
	if err != nil {
		return nil, NewBusinessError("DEAL_LIST_FAILED", "Failed to list deals", err)
	}

	total, err := s.dealRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("DEAL_LIST_FAILED", "Failed to count deals", err)
	}

	items := make([]dto.DealDTO, 0, len(deals))
	for _, d := range deals {
		items = append(items, ToDealDTO(*d))
	}

	return &dto.ListResponse{
		Items: items,
		Meta:  dto.ListMeta{Total: total, Limit: limit, Offset: req.Offset},
	}, nil
}

// UpdateDeal applies a partial update to a deal
func (s *DealFlowImpl) UpdateDeal(ctx context.Context, req *dto.UpdateDealRequest, metadata *ClientMetadata) (*dto.DealDTO, error) {
	deal, err := s.dealRepo.ByUUID(ctx, req.UUID)
	if err != nil {
		return nil, NewBusinessError("DEAL_LOOKUP_FAILED", "Failed to lookup deal", err)
	}
	if deal == nil {
		return nil, NewBusinessError("DEAL_NOT_FOUND", "Deal not found", ErrDealNotFound)
	}

	if err := s.checkReferences(ctx, req.PropertyID, req.BuyerLeadID, req.SellerLeadID); err != nil {
		return nil, err
	}

	if req.DealType != nil {
		deal.DealType = *req.DealType
	}
	if req.Status != nil {
		deal.Status = *req.Status
	}
	if req.PropertyID != nil {
		deal.PropertyID = req.PropertyID
	}
	if req.BuyerLeadID != nil {
		deal.BuyerLeadID = req.BuyerLeadID
	}
	if req.SellerLeadID != nil {
		deal.SellerLeadID = req.SellerLeadID
	}
	if req.OfferPrice != nil {
		v, err := ParseOptionalDecimal(req.OfferPrice)
		if err != nil {
			return nil, NewBusinessError("DEAL_VALIDATION_FAILED", "Deal validation failed", err)
		}
		deal.OfferPrice = v
	}
	if req.FinalPrice != nil {
		v, err := ParseOptionalDecimal(req.FinalPrice)
		if err != nil {
			return nil, NewBusinessError("DEAL_VALIDATION_FAILED", "Deal validation failed", err)
		}
		deal.FinalPrice = v
	}
	if req.Commission != nil {
		v, err := ParseOptionalDecimal(req.Commission)
		if err != nil {
			return nil, NewBusinessError("DEAL_VALIDATION_FAILED", "Deal validation failed", err)
		}
		deal.Commission = v
	}
	if req.ClosingDate != nil {
		t, err := ParseOptionalTime(req.ClosingDate)
		if err != nil {
			return nil, NewBusinessError("DEAL_VALIDATION_FAILED", "Deal validation failed", err)
		}
		deal.ClosingDate = t
	}
	if req.Notes != nil {
		deal.Notes = req.Notes
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.dealRepo.Update(txCtx, deal)
	})
	if err != nil {
		return nil, NewBusinessError("DEAL_UPDATE_FAILED", "Deal update failed", err)
	}

	msg := fmt.Sprintf("Deal updated: %s", deal.UUID.String())
	_ = s.createAuditLog(ctx, &deal.ID, models.AuditActionRecordUpdated, msg, true, metadata)

	result := ToDealDTO(*deal)
	return &result, nil
}

// DeleteDeal removes a deal and its milestones
func (s *DealFlowImpl) DeleteDeal(ctx context.Context, uuid string, metadata *ClientMetadata) error {
	deal, err := s.dealRepo.ByUUID(ctx, uuid)
	if err != nil {
		return NewBusinessError("DEAL_LOOKUP_FAILED", "Failed to lookup deal", err)
	}
	if deal == nil {
		return NewBusinessError("DEAL_NOT_FOUND", "Deal not found", ErrDealNotFound)
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		milestones, err := s.milestoneRepo.ByDealID(txCtx, deal.ID)
		if err != nil {
			return err
		}
		for _, m := range milestones {
			if err := s.milestoneRepo.DeleteByID(txCtx, m.ID); err != nil {
				return err
			}
		}
		return s.dealRepo.DeleteByID(txCtx, deal.ID)
	})
	if err != nil {
		return NewBusinessError("DEAL_DELETE_FAILED", "Deal deletion failed", err)
	}

	msg := fmt.Sprintf("Deal deleted: %s", deal.UUID.String())
	_ = s.createAuditLog(ctx, &deal.ID, models.AuditActionRecordDeleted, msg, true, metadata)

	return nil
}

// AddMilestone attaches a milestone to a deal
func (s *DealFlowImpl) AddMilestone(ctx context.Context, req *dto.CreateDealMilestoneRequest, metadata *ClientMetadata) (*dto.DealMilestoneDTO, error) {
	deal, err := s.dealRepo.ByUUID(ctx, req.DealUUID)
	if err != nil {
		return nil, NewBusinessError("DEAL_LOOKUP_FAILED", "Failed to lookup deal", err)
	}
	if deal == nil {
		return nil, NewBusinessError("DEAL_NOT_FOUND", "Deal not found", ErrDealNotFound)
	}

	dueDate, err := ParseOptionalTime(req.DueDate)
	if err != nil {
		return nil, NewBusinessError("MILESTONE_VALIDATION_FAILED", "Milestone validation failed", err)
	}

	milestone := &models.DealMilestone{
		DealID:      deal.ID,
		Title:       req.Title,
		Description: req.Description,
		Status:      utils.ValueOr(req.Status, "pending"),
		DueDate:     dueDate,
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.milestoneRepo.Save(txCtx, milestone)
	})
	if err != nil {
		return nil, NewBusinessError("MILESTONE_CREATION_FAILED", "Milestone creation failed", err)
	}

	msg := fmt.Sprintf("Milestone added to deal %s: %s", deal.UUID.String(), milestone.Title)
	_ = s.createAuditLog(ctx, &deal.ID, models.AuditActionRecordUpdated, msg, true, metadata)

	result := ToDealMilestoneDTO(*milestone)
	return &result, nil
}

// UpdateMilestone applies a partial update to a milestone, stamping
// CompletedAt when the status transitions to completed
func (s *DealFlowImpl) UpdateMilestone(ctx context.Context, req *dto.UpdateDealMilestoneRequest, metadata *ClientMetadata) (*dto.DealMilestoneDTO, error) {
	deal, err := s.dealRepo.ByUUID(ctx, req.DealUUID)
	if err != nil {
		return nil, NewBusinessError("DEAL_LOOKUP_FAILED", "Failed to lookup deal", err)
	}
	if deal == nil {
		return nil, NewBusinessError("DEAL_NOT_FOUND", "Deal not found", ErrDealNotFound)
	}

	milestone, err := s.milestoneRepo.ByID(ctx, req.MilestoneID)
	if err != nil {
		return nil, NewBusinessError("MILESTONE_LOOKUP_FAILED", "Failed to lookup milestone", err)
	}
	if milestone == nil || milestone.DealID != deal.ID {
		return nil, NewBusinessError("MILESTONE_NOT_FOUND", "Milestone not found", ErrMilestoneNotFound)
	}

	if req.Title != nil {
		milestone.Title = *req.Title
	}
	if req.Description != nil {
		milestone.Description = req.Description
	}
	if req.Status != nil {
		milestone.Status = *req.Status
		if *req.Status == "completed" && milestone.CompletedAt == nil {
			milestone.CompletedAt = utils.UTCNowPtr()
		}
	}
	if req.DueDate != nil {
		t, err := ParseOptionalTime(req.DueDate)
		if err != nil {
			return nil, NewBusinessError("MILESTONE_VALIDATION_FAILED", "Milestone validation failed", err)
		}
		milestone.DueDate = t
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.milestoneRepo.Update(txCtx, milestone)
	})
	if err != nil {
		return nil, NewBusinessError("MILESTONE_UPDATE_FAILED", "Milestone update failed", err)
	}

	result := ToDealMilestoneDTO(*milestone)
	return &result, nil
}

// ListMilestones retrieves the milestones of a deal
func (s *DealFlowImpl) ListMilestones(ctx context.Context, dealUUID string) ([]dto.DealMilestoneDTO, error) {
	deal, err := s.dealRepo.ByUUID(ctx, dealUUID)
	if err != nil {
		return nil, NewBusinessError("DEAL_LOOKUP_FAILED", "Failed to lookup deal", err)
	}
	if deal == nil {
		return nil, NewBusinessError("DEAL_NOT_FOUND", "Deal not found", ErrDealNotFound)
	}

	milestones, err := s.milestoneRepo.ByDealID(ctx, deal.ID)
	if err != nil {
		return nil, NewBusinessError("MILESTONE_LIST_FAILED", "Failed to list milestones", err)
	}

	out := make([]dto.DealMilestoneDTO, 0, len(milestones))
	for _, m := range milestones {
		out = append(out, ToDealMilestoneDTO(*m))
	}

	return out, nil
}

func (s *DealFlowImpl) checkReferences(ctx context.Context, propertyID, buyerLeadID, sellerLeadID *uint) error {
	if propertyID != nil {
		property, err := s.propertyRepo.ByID(ctx, *propertyID)
		if err != nil {
			return NewBusinessError("PROPERTY_LOOKUP_FAILED", "Failed to lookup property", err)
		}
		if property == nil {
			return NewBusinessError("PROPERTY_NOT_FOUND", "Property not found", ErrPropertyNotFound)
		}
	}
	for _, leadID := range []*uint{buyerLeadID, sellerLeadID} {
		if leadID == nil {
			continue
		}
		lead, err := s.leadRepo.ByID(ctx, *leadID)
		if err != nil {
			return NewBusinessError("LEAD_LOOKUP_FAILED", "Failed to lookup lead", err)
		}
		if lead == nil {
			return NewBusinessError("LEAD_NOT_FOUND", "Lead not found", ErrLeadNotFound)
		}
	}
	return nil
}

func (s *DealFlowImpl) createAuditLog(ctx context.Context, entityID *uint, action, description string, success bool, metadata *ClientMetadata) error {
	entity := "deal"
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

func (s *DealFlowImpl) recordActivity(ctx context.Context, activityType, title string, entityID uint) {
	entity := "deal"
	_ = s.activityRepo.Save(ctx, &models.ActivityFeed{
		ActivityType: activityType,
		Title:        title,
		Entity:       &entity,
		EntityID:     &entityID,
		CreatedAt:    utils.UTCNow(),
	})
}
