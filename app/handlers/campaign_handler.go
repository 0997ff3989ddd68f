// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"

	"github.com/deelflow/deelflow-api/app/dto"
	businessflow "github.com/deelflow/deelflow-api/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// CampaignHandlerInterface defines the contract for campaign handlers
type CampaignHandlerInterface interface {
	CreateCampaign(c fiber.Ctx) error
	GetCampaign(c fiber.Ctx) error
	ListCampaigns(c fiber.Ctx) error
	UpdateCampaign(c fiber.Ctx) error
	DeleteCampaign(c fiber.Ctx) error
	GetCampaignPerformance(c fiber.Ctx) error
}

// CampaignHandler handles campaign-related HTTP requests
type CampaignHandler struct {
	campaignFlow businessflow.CampaignFlow
	validator    *validator.Validate
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaignFlow businessflow.CampaignFlow) *CampaignHandler {
	return &CampaignHandler{
		campaignFlow: campaignFlow,
		validator:    validator.New(),
	}
}

// CreateCampaign handles POST /api/campaigns
func (h *CampaignHandler) CreateCampaign(c fiber.Ctx) error {
	var req dto.CreateCampaignRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return ValidationErrorResponse(c, err)
	}

	result, err := h.campaignFlow.CreateCampaign(createRequestContext(c), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsCampaignNameRequired(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Campaign name is required")
		}
		if businessflow.IsInvalidNumericValue(err) || businessflow.IsInvalidTimestamp(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Campaign validation failed")
		}

		log.Println("Campaign creation failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Campaign creation failed")
	}

	return SuccessResponse(c, fiber.StatusCreated, result)
}

// GetCampaign handles GET /api/campaigns/:uuid
func (h *CampaignHandler) GetCampaign(c fiber.Ctx) error {
	campaignUUID := c.Params("uuid")
	if campaignUUID == "" {
		return ErrorResponse(c, fiber.StatusBadRequest, "Campaign UUID is required")
	}

	result, err := h.campaignFlow.GetCampaign(createRequestContext(c), campaignUUID)
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Campaign not found")
		}

		log.Println("Campaign lookup failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Campaign lookup failed")
	}

	return SuccessResponse(c, fiber.StatusOK, result)
}

// ListCampaigns handles GET /api/campaigns
func (h *CampaignHandler) ListCampaigns(c fiber.Ctx) error {
	var req dto.ListCampaignsRequest
	if err := c.Bind().Query(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters")
	}

	if err := h.validator.Struct(&req); err != nil {
		return ValidationErrorResponse(c, err)
	}

	result, err := h.campaignFlow.ListCampaigns(createRequestContext(c), &req)
	if err != nil {
		log.Println("Campaign listing failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Campaign listing failed")
	}

	return SuccessResponse(c, fiber.StatusOK, result)
}

// UpdateCampaign handles PUT /api/campaigns/:uuid
func (h *CampaignHandler) UpdateCampaign(c fiber.Ctx) error {
	campaignUUID := c.Params("uuid")
	if campaignUUID == "" {
		return ErrorResponse(c, fiber.StatusBadRequest, "Campaign UUID is required")
	}

	var req dto.UpdateCampaignRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.UUID = campaignUUID

	if err := h.validator.Struct(&req); err != nil {
		return ValidationErrorResponse(c, err)
	}

	result, err := h.campaignFlow.UpdateCampaign(createRequestContext(c), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Campaign not found")
		}
		if businessflow.IsInvalidNumericValue(err) || businessflow.IsInvalidTimestamp(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Campaign validation failed")
		}

		log.Println("Campaign update failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Campaign update failed")
	}

	return SuccessResponse(c, fiber.StatusOK, result)
}

// DeleteCampaign handles DELETE /api/campaigns/:uuid
func (h *CampaignHandler) DeleteCampaign(c fiber.Ctx) error {
	campaignUUID := c.Params("uuid")
	if campaignUUID == "" {
		return ErrorResponse(c, fiber.StatusBadRequest, "Campaign UUID is required")
	}

	err := h.campaignFlow.DeleteCampaign(createRequestContext(c), campaignUUID, clientMetadata(c))
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Campaign not found")
		}

		log.Println("Campaign deletion failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Campaign deletion failed")
	}

	return SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": "Campaign deleted successfully"})
}

// GetCampaignPerformance handles GET /api/campaigns/:uuid/performance
func (h *CampaignHandler) GetCampaignPerformance(c fiber.Ctx) error {
	campaignUUID := c.Params("uuid")
	if campaignUUID == "" {
		return ErrorResponse(c, fiber.StatusBadRequest, "Campaign UUID is required")
	}

	result, err := h.campaignFlow.GetCampaignPerformance(createRequestContext(c), campaignUUID)
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Campaign not found")
		}

		log.Println("Campaign performance lookup failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Campaign performance lookup failed")
	}

	return SuccessResponse(c, fiber.StatusOK, result)
}
