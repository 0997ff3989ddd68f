// Package businessflow contains the core business logic and use cases for campaign workflows
package businessflow

import (
	"context"
	"fmt"

	"github.com/deelflow/deelflow-api/app/dto"
	"github.com/deelflow/deelflow-api/models"
	"github.com/deelflow/deelflow-api/repository"
	"github.com/deelflow/deelflow-api/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Estimated delivery figures used until a sending provider reports real
// numbers. The outreach volume assumes the standard 25-touch drip sequence.
const (
	estimatedTouchesPerLead = 25
	estimatedOpenRate       = 23.5
	estimatedResponseRate   = 4.2
)

// CampaignFlow handles the campaign business logic
type CampaignFlow interface {
	CreateCampaign(ctx context.Context, req *dto.CreateCampaignRequest, metadata *ClientMetadata) (*dto.CampaignDTO, error)
	GetCampaign(ctx context.Context, uuid string) (*dto.CampaignDTO, error)
	ListCampaigns(ctx context.Context, req *dto.ListCampaignsRequest) (*dto.ListResponse, error)
	UpdateCampaign(ctx context.Context, req *dto.UpdateCampaignRequest, metadata *ClientMetadata) (*dto.CampaignDTO, error)
	DeleteCampaign(ctx context.Context, uuid string, metadata *ClientMetadata) error
	GetCampaignPerformance(ctx context.Context, uuid string) (*dto.CampaignPerformanceDTO, error)
}

// CampaignFlowImpl implements the campaign business flow
type CampaignFlowImpl struct {
	campaignRepo repository.CampaignRepository
	leadRepo     repository.LeadRepository
	auditRepo    repository.AuditLogRepository
	activityRepo repository.ActivityFeedRepository
	db           *gorm.DB
}

// NewCampaignFlow creates a new campaign flow instance
func NewCampaignFlow(
	campaignRepo repository.CampaignRepository,
	leadRepo repository.LeadRepository,
	auditRepo repository.AuditLogRepository,
	activityRepo repository.ActivityFeedRepository,
	db *gorm.DB,
) CampaignFlow {
	return &CampaignFlowImpl{
		campaignRepo: campaignRepo,
		leadRepo:     leadRepo,
		auditRepo:    auditRepo,
		activityRepo: activityRepo,
		db:           db,
	}
}

// CreateCampaign normalizes the inbound payload and persists the campaign
func (s *CampaignFlowImpl) CreateCampaign(ctx context.Context, req *dto.CreateCampaignRequest, metadata *ClientMetadata) (*dto.CampaignDTO, error) {
	if req.Name == "" {
		return nil, NewBusinessError("CAMPAIGN_VALIDATION_FAILED", "Campaign validation failed", ErrCampaignNameRequired)
	}

	campaign, err := s.buildCampaign(req)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_VALIDATION_FAILED", "Campaign validation failed", err)
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.campaignRepo.Save(txCtx, campaign)
	})
	if err != nil {
		errMsg := fmt.Sprintf("Campaign creation failed: %s", err.Error())
		_ = s.createAuditLog(ctx, nil, models.AuditActionRecordCreated, errMsg, false, metadata)
		return nil, NewBusinessError("CAMPAIGN_CREATION_FAILED", "Campaign creation failed", err)
	}

	msg := fmt.Sprintf("Campaign created: %s", campaign.UUID.String())
	_ = s.createAuditLog(ctx, &campaign.ID, models.AuditActionRecordCreated, msg, true, metadata)
	s.recordActivity(ctx, "campaign_created", campaign.Name, campaign.ID)

	result := ToCampaignDTO(*campaign)
	return &result, nil
}

// GetCampaign retrieves a campaign by UUID in its read shape
func (s *CampaignFlowImpl) GetCampaign(ctx context.Context, uuid string) (*dto.CampaignDTO, error) {
	campaign, err := s.campaignRepo.ByUUID(ctx, uuid)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to lookup campaign", err)
	}
	if campaign == nil {
		return nil, NewBusinessError("CAMPAIGN_NOT_FOUND", "Campaign not found", ErrCampaignNotFound)
	}

	result := ToCampaignDTO(*campaign)
	return &result, nil
}

// ListCampaigns retrieves campaigns matching the query filters
func (s *CampaignFlowImpl) ListCampaigns(ctx context.Context, req *dto.ListCampaignsRequest) (*dto.ListResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = utils.DefaultPageLimit
	}
	if limit > utils.MaxPageLimit {
		limit = utils.MaxPageLimit
	}

	filter := models.CampaignFilter{
		Status:  req.Status,
		Channel: req.Channel,
		Name:    req.Name,
	}

	campaigns, err := s.campaignRepo.ByFilter(ctx, filter, "created_at DESC", limit, req.Offset)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LIST_FAILED", "Failed to list campaigns", err)
	}

	total, err := s.campaignRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LIST_FAILED", "Failed to count campaigns", err)
	}

	items := make([]dto.CampaignDTO, 0, len(campaigns))
	for _, c := range campaigns {
		items = append(items, ToCampaignDTO(*c))
	}

	return &dto.ListResponse{
		Items: items,
		Meta:  dto.ListMeta{Total: total, Limit: limit, Offset: req.Offset},
	}, nil
}

// UpdateCampaign applies a partial update, re-running normalization for
// any targeting fields present in the payload
func (s *CampaignFlowImpl) UpdateCampaign(ctx context.Context, req *dto.UpdateCampaignRequest, metadata *ClientMetadata) (*dto.CampaignDTO, error) {
	campaign, err := s.campaignRepo.ByUUID(ctx, req.UUID)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to lookup campaign", err)
	}
	if campaign == nil {
		return nil, NewBusinessError("CAMPAIGN_NOT_FOUND", "Campaign not found", ErrCampaignNotFound)
	}

	if err := s.applyUpdate(campaign, req); err != nil {
		return nil, NewBusinessError("CAMPAIGN_VALIDATION_FAILED", "Campaign validation failed", err)
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.campaignRepo.Update(txCtx, campaign)
	})
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_UPDATE_FAILED", "Campaign update failed", err)
	}

	msg := fmt.Sprintf("Campaign updated: %s", campaign.UUID.String())
	_ = s.createAuditLog(ctx, &campaign.ID, models.AuditActionRecordUpdated, msg, true, metadata)

	result := ToCampaignDTO(*campaign)
	return &result, nil
}

// DeleteCampaign removes a campaign by UUID
func (s *CampaignFlowImpl) DeleteCampaign(ctx context.Context, uuid string, metadata *ClientMetadata) error {
	campaign, err := s.campaignRepo.ByUUID(ctx, uuid)
	if err != nil {
		return NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to lookup campaign", err)
	}
	if campaign == nil {
		return NewBusinessError("CAMPAIGN_NOT_FOUND", "Campaign not found", ErrCampaignNotFound)
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.campaignRepo.DeleteByID(txCtx, campaign.ID)
	})
	if err != nil {
		return NewBusinessError("CAMPAIGN_DELETE_FAILED", "Campaign deletion failed", err)
	}

	msg := fmt.Sprintf("Campaign deleted: %s", campaign.UUID.String())
	_ = s.createAuditLog(ctx, &campaign.ID, models.AuditActionRecordDeleted, msg, true, metadata)

	return nil
}

// GetCampaignPerformance computes lead-derived performance numbers for a campaign
func (s *CampaignFlowImpl) GetCampaignPerformance(ctx context.Context, uuid string) (*dto.CampaignPerformanceDTO, error) {
	campaign, err := s.campaignRepo.ByUUID(ctx, uuid)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to lookup campaign", err)
	}
	if campaign == nil {
		return nil, NewBusinessError("CAMPAIGN_NOT_FOUND", "Campaign not found", ErrCampaignNotFound)
	}

	totalLeads, err := s.leadRepo.Count(ctx, models.LeadFilter{CampaignID: &campaign.ID})
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_PERFORMANCE_FAILED", "Failed to compute campaign performance", err)
	}

	qualified := "qualified"
	qualifiedLeads, err := s.leadRepo.Count(ctx, models.LeadFilter{CampaignID: &campaign.ID, Status: &qualified})
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_PERFORMANCE_FAILED", "Failed to compute campaign performance", err)
	}

	conversionRate := 0.0
	if totalLeads > 0 {
		conversionRate = float64(qualifiedLeads) / float64(totalLeads) * 100
	}

	var costPerLead *string
	if campaign.Budget.Valid && totalLeads > 0 {
		v := campaign.Budget.Decimal.Div(decimal.NewFromInt(totalLeads)).Round(2).String()
		costPerLead = &v
	}

	return &dto.CampaignPerformanceDTO{
		UUID:            campaign.UUID.String(),
		Name:            campaign.Name,
		Status:          campaign.Status,
		TotalLeads:      totalLeads,
		QualifiedLeads:  qualifiedLeads,
		ConversionRate:  conversionRate,
		EmailsSent:      totalLeads * estimatedTouchesPerLead,
		EmailOpenRate:   estimatedOpenRate,
		ResponseRate:    estimatedResponseRate,
		CostPerLead:     costPerLead,
		BudgetRemaining: FormatNullDecimal(campaign.Budget),
	}, nil
}

// buildCampaign maps a create payload into a campaign row, flattening
// targeting fields and coercing money strings
func (s *CampaignFlowImpl) buildCampaign(req *dto.CreateCampaignRequest) (*models.Campaign, error) {
	scopeType, scopeValues := ResolveGeographicScope(req.GeographicScope, req.GeographicScopeType, req.GeographicScopeValues)

	budget, err := ParseOptionalDecimal(req.Budget)
	if err != nil {
		return nil, err
	}
	minPrice, err := ParseOptionalDecimal(req.MinPrice)
	if err != nil {
		return nil, err
	}
	maxPrice, err := ParseOptionalDecimal(req.MaxPrice)
	if err != nil {
		return nil, err
	}
	minimumEquity, err := ParseOptionalDecimal(req.MinimumEquity)
	if err != nil {
		return nil, err
	}
	yearBuiltMin, err := ParseOptionalInt(req.PropertyYearBuiltMin)
	if err != nil {
		return nil, err
	}
	yearBuiltMax, err := ParseOptionalInt(req.PropertyYearBuiltMax)
	if err != nil {
		return nil, err
	}
	scheduledAt, err := ParseOptionalTime(req.ScheduledAt)
	if err != nil {
		return nil, err
	}

	campaign := &models.Campaign{
		Name:         req.Name,
		CampaignType: utils.ValueOr(req.CampaignType, "new"),
		Status:       utils.ValueOr(req.Status, "draft"),

		Channel:               ResolveChannel(req.Channel),
		GeographicScopeType:   scopeType,
		GeographicScopeValues: EncodeList(scopeValues),
		DistressIndicators:    EncodeList(req.DistressIndicators),

		Budget:        budget,
		MinPrice:      minPrice,
		MaxPrice:      maxPrice,
		MinimumEquity: minimumEquity,

		Location:     req.Location,
		PropertyType: req.PropertyType,

		PropertyYearBuiltMin: yearBuiltMin,
		PropertyYearBuiltMax: yearBuiltMax,

		SubjectLine:          req.SubjectLine,
		EmailContent:         req.EmailContent,
		UseAIPersonalization: utils.IsTrue(req.UseAIPersonalization),

		ScheduledAt: scheduledAt,

		SellerCountry:   req.SellerCountry,
		SellerState:     req.SellerState,
		SellerCounties:  req.SellerCounties,
		SellerCity:      req.SellerCity,
		SellerDistricts: req.SellerDistricts,
		SellerParish:    req.SellerParish,

		BuyerCountry:             req.BuyerCountry,
		BuyerState:               req.BuyerState,
		BuyerCounties:            req.BuyerCounties,
		BuyerCity:                req.BuyerCity,
		BuyerDistricts:           req.BuyerDistricts,
		BuyerParish:              req.BuyerParish,
		BuyerAgeRange:            req.BuyerAgeRange,
		BuyerSalaryRange:         req.BuyerSalaryRange,
		BuyerMaritalStatus:       req.BuyerMaritalStatus,
		BuyerEmploymentStatus:    req.BuyerEmploymentStatus,
		BuyerHomeOwnershipStatus: req.BuyerHomeOwnershipStatus,
	}

	return campaign, nil
}

// applyUpdate merges present payload fields into the stored row
func (s *CampaignFlowImpl) applyUpdate(campaign *models.Campaign, req *dto.UpdateCampaignRequest) error {
	if req.Name != nil {
		campaign.Name = *req.Name
	}
	if req.CampaignType != nil {
		campaign.CampaignType = *req.CampaignType
	}
	if req.Status != nil {
		campaign.Status = *req.Status
	}
	if req.Channel != nil {
		campaign.Channel = ResolveChannel(req.Channel)
	}

	// Targeting: a nested scope object or either flat field re-runs
	// resolution against the payload only.
	if req.GeographicScope != nil || req.GeographicScopeType != nil || req.GeographicScopeValues != nil {
		scopeType, scopeValues := ResolveGeographicScope(req.GeographicScope, req.GeographicScopeType, req.GeographicScopeValues)
		campaign.GeographicScopeType = scopeType
		campaign.GeographicScopeValues = EncodeList(scopeValues)
	}
	if req.DistressIndicators != nil {
		campaign.DistressIndicators = EncodeList(req.DistressIndicators)
	}

	if req.Budget != nil {
		v, err := ParseOptionalDecimal(req.Budget)
		if err != nil {
			return err
		}
		campaign.Budget = v
	}
	if req.MinPrice != nil {
		v, err := ParseOptionalDecimal(req.MinPrice)
		if err != nil {
			return err
		}
		campaign.MinPrice = v
	}
	if req.MaxPrice != nil {
		v, err := ParseOptionalDecimal(req.MaxPrice)
		if err != nil {
			return err
		}
		campaign.MaxPrice = v
	}
	if req.MinimumEquity != nil {
		v, err := ParseOptionalDecimal(req.MinimumEquity)
		if err != nil {
			return err
		}
		campaign.MinimumEquity = v
	}

	if req.Location != nil {
		campaign.Location = req.Location
	}
	if req.PropertyType != nil {
		campaign.PropertyType = req.PropertyType
	}
	if req.PropertyYearBuiltMin != nil {
		v, err := ParseOptionalInt(req.PropertyYearBuiltMin)
		if err != nil {
			return err
		}
		campaign.PropertyYearBuiltMin = v
	}
	if req.PropertyYearBuiltMax != nil {
		v, err := ParseOptionalInt(req.PropertyYearBuiltMax)
		if err != nil {
			return err
		}
		campaign.PropertyYearBuiltMax = v
	}
	if req.SubjectLine != nil {
		campaign.SubjectLine = req.SubjectLine
	}
	if req.EmailContent != nil {
		campaign.EmailContent = req.EmailContent
	}
	if req.UseAIPersonalization != nil {
		campaign.UseAIPersonalization = *req.UseAIPersonalization
	}
	if req.ScheduledAt != nil {
		t, err := ParseOptionalTime(req.ScheduledAt)
		if err != nil {
			return err
		}
		campaign.ScheduledAt = t
	}

	return nil
}

func (s *CampaignFlowImpl) createAuditLog(ctx context.Context, entityID *uint, action, description string, success bool, metadata *ClientMetadata) error {
	entity := "campaign"
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

func (s *CampaignFlowImpl) recordActivity(ctx context.Context, activityType, title string, entityID uint) {
	entity := "campaign"
	_ = s.activityRepo.Save(ctx, &models.ActivityFeed{
		ActivityType: activityType,
		Title:        title,
		Entity:       &entity,
		EntityID:     &entityID,
		CreatedAt:    utils.UTCNow(),
	})
}
