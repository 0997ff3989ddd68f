// Package businessflow contains the core business logic and use cases for lead workflows
package businessflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/deelflow/deelflow-api/app/dto"
	"github.com/deelflow/deelflow-api/models"
	"github.com/deelflow/deelflow-api/repository"
	"github.com/deelflow/deelflow-api/utils"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// LeadFlow handles the lead business logic
type LeadFlow interface {
	CreateLead(ctx context.Context, req *dto.CreateLeadRequest, metadata *ClientMetadata) (*dto.LeadDTO, error)
	GetLead(ctx context.Context, uuid string) (*dto.LeadDTO, error)
	ListLeads(ctx context.Context, req *dto.ListLeadsRequest) (*dto.ListResponse, error)
	UpdateLead(ctx context.Context, req *dto.UpdateLeadRequest, metadata *ClientMetadata) (*dto.LeadDTO, error)
	DeleteLead(ctx context.Context, uuid string, metadata *ClientMetadata) error
	ScoreLead(ctx context.Context, uuid string) (*dto.LeadAIScoreDTO, error)
	ExportLeads(ctx context.Context, req *dto.ListLeadsRequest, metadata *ClientMetadata) ([]byte, error)
}

// LeadFlowImpl implements the lead business flow
type LeadFlowImpl struct {
	leadRepo     repository.LeadRepository
	campaignRepo repository.CampaignRepository
	auditRepo    repository.AuditLogRepository
	activityRepo repository.ActivityFeedRepository
	db           *gorm.DB
}

// NewLeadFlow creates a new lead flow instance
func NewLeadFlow(
	leadRepo repository.LeadRepository,
	campaignRepo repository.CampaignRepository,
	auditRepo repository.AuditLogRepository,
	activityRepo repository.ActivityFeedRepository,
	db *gorm.DB,
) LeadFlow {
	return &LeadFlowImpl{
		leadRepo:     leadRepo,
		campaignRepo: campaignRepo,
		auditRepo:    auditRepo,
		activityRepo: activityRepo,
		db:           db,
	}
}

// CreateLead persists a new lead, verifying the campaign link if present
func (s *LeadFlowImpl) CreateLead(ctx context.Context, req *dto.CreateLeadRequest, metadata *ClientMetadata) (*dto.LeadDTO, error) {
	if req.CampaignID != nil {
		campaign, err := s.campaignRepo.ByID(ctx, *req.CampaignID)
		if err != nil {
			return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to lookup campaign", err)
		}
		if campaign == nil {
			return nil, NewBusinessError("CAMPAIGN_NOT_FOUND", "Campaign not found", ErrCampaignNotFound)
		}
	}

	lead := &models.Lead{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,

		Address: req.Address,
		City:    req.City,
		State:   req.State,
		Zipcode: req.Zipcode,

		Status:          utils.ValueOr(req.Status, "new"),
		Source:          utils.ValueOr(req.Source, "manual"),
		MotivationScore: utils.ValueOr(req.MotivationScore, 0),

		PropertyCondition:  req.PropertyCondition,
		FinancialSituation: req.FinancialSituation,
		TimelineUrgency:    req.TimelineUrgency,
		NegotiationStyle:   req.NegotiationStyle,
		Notes:              req.Notes,

		CampaignID: req.CampaignID,
	}

	err := repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.leadRepo.Save(txCtx, lead)
	})
	if err != nil {
		errMsg := fmt.Sprintf("Lead creation failed: %s", err.Error())
		_ = s.createAuditLog(ctx, nil, models.AuditActionRecordCreated, errMsg, false, metadata)
		return nil, NewBusinessError("LEAD_CREATION_FAILED", "Lead creation failed", err)
	}

	msg := fmt.Sprintf("Lead created: %s", lead.UUID.String())
	_ = s.createAuditLog(ctx, &lead.ID, models.AuditActionRecordCreated, msg, true, metadata)
	s.recordActivity(ctx, "lead_created", lead.Name, lead.ID)

	result := ToLeadDTO(*lead)
	return &result, nil
}

// GetLead retrieves a lead by UUID
func (s *LeadFlowImpl) GetLead(ctx context.Context, uuid string) (*dto.LeadDTO, error) {
	lead, err := s.leadRepo.ByUUID(ctx, uuid)
	if err != nil {
		return nil, NewBusinessError("LEAD_LOOKUP_FAILED", "Failed to lookup lead", err)
	}
	if lead == nil {
		return nil, NewBusinessError("LEAD_NOT_FOUND", "Lead not found", ErrLeadNotFound)
	}

	result := ToLeadDTO(*lead)
	return &result, nil
}

// ListLeads retrieves leads matching the query filters
func (s *LeadFlowImpl) ListLeads(ctx context.Context, req *dto.ListLeadsRequest) (*dto.ListResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = utils.DefaultPageLimit
	}
	if limit > utils.MaxPageLimit {
		limit = utils.MaxPageLimit
	}

	filter := s.buildFilter(req)

	leads, err := s.leadRepo.ByFilter(ctx, filter, "created_at DESC", limit, req.Offset)
	if err != nil {
		return nil, NewBusinessError("LEAD_LIST_FAILED", "Failed to list leads", err)
	}

	total, err := s.leadRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("LEAD_LIST_FAILED", "Failed to count leads", err)
	}

	items := make([]dto.LeadDTO, 0, len(leads))
	for _, l := range leads {
		items = append(items, ToLeadDTO(*l))
	}

	return &dto.ListResponse{
		Items: items,
		Meta:  dto.ListMeta{Total: total, Limit: limit, Offset: req.Offset},
	}, nil
}

// UpdateLead applies a partial update to a lead
func (s *LeadFlowImpl) UpdateLead(ctx context.Context, req *dto.UpdateLeadRequest, metadata *ClientMetadata) (*dto.LeadDTO, error) {
	lead, err := s.leadRepo.ByUUID(ctx, req.UUID)
	if err != nil {
		return nil, NewBusinessError("LEAD_LOOKUP_FAILED", "Failed to lookup lead", err)
	}
	if lead == nil {
		return nil, NewBusinessError("LEAD_NOT_FOUND", "Lead not found", ErrLeadNotFound)
	}

	if req.CampaignID != nil {
		campaign, err := s.campaignRepo.ByID(ctx, *req.CampaignID)
		if err != nil {
			return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to lookup campaign", err)
		}
		if campaign == nil {
			return nil, NewBusinessError("CAMPAIGN_NOT_FOUND", "Campaign not found", ErrCampaignNotFound)
		}
		lead.CampaignID = req.CampaignID
	}

	if req.Name != nil {
		lead.Name = *req.Name
	}
	if req.Email != nil {
		lead.Email = req.Email
	}
	if req.Phone != nil {
		lead.Phone = req.Phone
	}
	if req.Address != nil {
		lead.Address = req.Address
	}
	if req.City != nil {
		lead.City = req.City
	}
	if req.State != nil {
		lead.State = req.State
	}
	if req.Zipcode != nil {
		lead.Zipcode = req.Zipcode
	}
	if req.Status != nil {
		lead.Status = *req.Status
	}
	if req.Source != nil {
		lead.Source = *req.Source
	}
	if req.MotivationScore != nil {
		lead.MotivationScore = *req.MotivationScore
	}
	if req.PropertyCondition != nil {
		lead.PropertyCondition = req.PropertyCondition
	}
	if req.FinancialSituation != nil {
		lead.FinancialSituation = req.FinancialSituation
	}
	if req.TimelineUrgency != nil {
		lead.TimelineUrgency = req.TimelineUrgency
	}
	if req.NegotiationStyle != nil {
		lead.NegotiationStyle = req.NegotiationStyle
	}
	if req.Notes != nil {
		lead.Notes = req.Notes
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.leadRepo.Update(txCtx, lead)
	})
	if err != nil {
		return nil, NewBusinessError("LEAD_UPDATE_FAILED", "Lead update failed", err)
	}

	msg := fmt.Sprintf("Lead updated: %s", lead.UUID.String())
	_ = s.createAuditLog(ctx, &lead.ID, models.AuditActionRecordUpdated, msg, true, metadata)

	result := ToLeadDTO(*lead)
	return &result, nil
}

// DeleteLead removes a lead by UUID
func (s *LeadFlowImpl) DeleteLead(ctx context.Context, uuid string, metadata *ClientMetadata) error {
	lead, err := s.leadRepo.ByUUID(ctx, uuid)
	if err != nil {
		return NewBusinessError("LEAD_LOOKUP_FAILED", "Failed to lookup lead", err)
	}
	if lead == nil {
		return NewBusinessError("LEAD_NOT_FOUND", "Lead not found", ErrLeadNotFound)
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.leadRepo.DeleteByID(txCtx, lead.ID)
	})
	if err != nil {
		return NewBusinessError("LEAD_DELETE_FAILED", "Lead deletion failed", err)
	}

	msg := fmt.Sprintf("Lead deleted: %s", lead.UUID.String())
	_ = s.createAuditLog(ctx, &lead.ID, models.AuditActionRecordDeleted, msg, true, metadata)

	return nil
}

// ScoreLead derives a motivation score from the lead's qualitative
// fields and stores both the score and its breakdown
func (s *LeadFlowImpl) ScoreLead(ctx context.Context, uuid string) (*dto.LeadAIScoreDTO, error) {
	lead, err := s.leadRepo.ByUUID(ctx, uuid)
	if err != nil {
		return nil, NewBusinessError("LEAD_LOOKUP_FAILED", "Failed to lookup lead", err)
	}
	if lead == nil {
		return nil, NewBusinessError("LEAD_NOT_FOUND", "Lead not found", ErrLeadNotFound)
	}

	score, breakdown := scoreLeadFields(lead)
	payload, err := json.Marshal(breakdown)
	if err != nil {
		return nil, NewBusinessError("LEAD_SCORE_FAILED", "Failed to build score payload", err)
	}

	if err := s.leadRepo.UpdateAIScore(ctx, lead.ID, payload, score); err != nil {
		return nil, NewBusinessError("LEAD_SCORE_FAILED", "Failed to store lead score", err)
	}

	return &dto.LeadAIScoreDTO{
		UUID:            lead.UUID.String(),
		MotivationScore: score,
		AIScore:         payload,
	}, nil
}

// ExportLeads renders the filtered lead set as an xlsx workbook
func (s *LeadFlowImpl) ExportLeads(ctx context.Context, req *dto.ListLeadsRequest, metadata *ClientMetadata) ([]byte, error) {
	filter := s.buildFilter(req)

	leads, err := s.leadRepo.ByFilter(ctx, filter, "created_at DESC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("LEAD_EXPORT_FAILED", "Failed to load leads for export", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Leads"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Name", "Email", "Phone", "City", "State", "Zipcode", "Status", "Source", "Motivation Score", "Created At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for rowIdx, lead := range leads {
		values := []string{
			lead.Name,
			utils.ValueOr(lead.Email, ""),
			utils.ValueOr(lead.Phone, ""),
			utils.ValueOr(lead.City, ""),
			utils.ValueOr(lead.State, ""),
			utils.ValueOr(lead.Zipcode, ""),
			lead.Status,
			lead.Source,
			strconv.FormatFloat(lead.MotivationScore, 'f', 1, 64),
			lead.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, NewBusinessError("LEAD_EXPORT_FAILED", "Failed to render export", err)
	}

	msg := fmt.Sprintf("Exported %d leads", len(leads))
	_ = s.createAuditLog(ctx, nil, models.AuditActionExportRequest, msg, true, metadata)

	return buf.Bytes(), nil
}

func (s *LeadFlowImpl) buildFilter(req *dto.ListLeadsRequest) models.LeadFilter {
	return models.LeadFilter{
		Status:        req.Status,
		Source:        req.Source,
		City:          req.City,
		CampaignID:    req.CampaignID,
		MinMotivation: req.MinMotivation,
	}
}

// scoreLeadFields maps qualitative descriptors onto a 0-100 score.
// Weights: urgency 40, financial situation 30, property condition 30.
func scoreLeadFields(lead *models.Lead) (float64, map[string]any) {
	urgency := map[string]float64{
		"immediate": 40, "within_30_days": 32, "within_90_days": 22, "exploring": 10,
	}
	financial := map[string]float64{
		"distressed": 30, "behind_on_payments": 26, "breaking_even": 15, "stable": 8,
	}
	condition := map[string]float64{
		"poor": 30, "needs_repair": 24, "fair": 15, "good": 8, "excellent": 4,
	}

	urgencyPts := lookupScore(urgency, lead.TimelineUrgency, 12)
	financialPts := lookupScore(financial, lead.FinancialSituation, 10)
	conditionPts := lookupScore(condition, lead.PropertyCondition, 10)

	total := urgencyPts + financialPts + conditionPts
	breakdown := map[string]any{
		"timeline_urgency":    urgencyPts,
		"financial_situation": financialPts,
		"property_condition":  conditionPts,
		"total":               total,
		"scored_at":           utils.UTCNowRFC3339(),
	}

	return total, breakdown
}

func lookupScore(table map[string]float64, key *string, fallback float64) float64 {
	if key == nil {
		return fallback
	}
	if v, ok := table[*key]; ok {
		return v
	}
	return fallback
}

func (s *LeadFlowImpl) createAuditLog(ctx context.Context, entityID *uint, action, description string, success bool, metadata *ClientMetadata) error {
	entity := "lead"
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

func (s *LeadFlowImpl) recordActivity(ctx context.Context, activityType, title string, entityID uint) {
	entity := "lead"
	_ = s.activityRepo.Save(ctx, &models.ActivityFeed{
		ActivityType: activityType,
		Title:        title,
		Entity:       &entity,
		EntityID:     &entityID,
		CreatedAt:    utils.UTCNow(),
	})
}
