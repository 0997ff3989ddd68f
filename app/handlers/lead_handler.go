// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"

	"github.com/deelflow/deelflow-api/app/dto"
	businessflow "github.com/deelflow/deelflow-api/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// LeadHandlerInterface defines the contract for lead handlers
type LeadHandlerInterface interface {
	CreateLead(c fiber.Ctx) error
	GetLead(c fiber.Ctx) error
	ListLeads(c fiber.Ctx) error
	UpdateLead(c fiber.Ctx) error
	DeleteLead(c fiber.Ctx) error
	ScoreLead(c fiber.Ctx) error
	ExportLeads(c fiber.Ctx) error
}

// LeadHandler handles lead-related HTTP requests
type LeadHandler struct {
	leadFlow  businessflow.LeadFlow
	validator *validator.Validate
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(leadFlow businessflow.LeadFlow) *LeadHandler {
	return &LeadHandler{
		leadFlow:  leadFlow,
		validator: validator.New(),
	}
}

// CreateLead handles POST /api/leads
func (h *LeadHandler) CreateLead(c fiber.Ctx) error {
	var req dto.CreateLeadRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return ValidationErrorResponse(c, err)
	}

	result, err := h.leadFlow.CreateLead(createRequestContext(c), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Campaign not found")
		}

		log.Println("Lead creation failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Lead creation failed")
	}

	return SuccessResponse(c, fiber.StatusCreated, result)
}

// GetLead handles GET /api/leads/:uuid
func (h *LeadHandler) GetLead(c fiber.Ctx) error {
	leadUUID := c.Params("uuid")
	if leadUUID == "" {
		return ErrorResponse(c, fiber.StatusBadRequest, "Lead UUID is required")
	}

	result, err := h.leadFlow.GetLead(createRequestContext(c), leadUUID)
	if err != nil {
		if businessflow.IsLeadNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Lead not found")
		}

		log.Println("Lead lookup failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Lead lookup failed")
	}

	return SuccessResponse(c, fiber.StatusOK, result)
}

// ListLeads handles GET /api/leads
func (h *LeadHandler) ListLeads(c fiber.Ctx) error {
	var req dto.ListLeadsRequest
	if err := c.Bind().Query(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters")
	}

	if err := h.validator.Struct(&req); err != nil {
		return ValidationErrorResponse(c, err)
	}

	result, err := h.leadFlow.ListLeads(createRequestContext(c), &req)
	if err != nil {
		log.Println("Lead listing failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Lead listing failed")
	}

	return SuccessResponse(c, fiber.StatusOK, result)
}

// UpdateLead handles PUT /api/leads/:uuid
func (h *LeadHandler) UpdateLead(c fiber.Ctx) error {
	leadUUID := c.Params("uuid")
	if leadUUID == "" {
		return ErrorResponse(c, fiber.StatusBadRequest, "Lead UUID is required")
	}

	var req dto.UpdateLeadRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.UUID = leadUUID

	if err := h.validator.Struct(&req); err != nil {
		return ValidationErrorResponse(c, err)
	}

	result, err := h.leadFlow.UpdateLead(createRequestContext(c), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsLeadNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Lead not found")
		}
		if businessflow.IsCampaignNotFound(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Campaign not found")
		}

		log.Println("Lead update failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Lead update failed")
	}

	return SuccessResponse(c, fiber.StatusOK, result)
}

// DeleteLead handles DELETE /api/leads/:uuid
func (h *LeadHandler) DeleteLead(c fiber.Ctx) error {
	leadUUID := c.Params("uuid")
	if leadUUID == "" {
		return ErrorResponse(c, fiber.StatusBadRequest, "Lead UUID is required")
	}

	err := h.leadFlow.DeleteLead(createRequestContext(c), leadUUID, clientMetadata(c))
	if err != nil {
		if businessflow.IsLeadNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Lead not found")
		}

		log.Println("Lead deletion failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Lead deletion failed")
	}

	return SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": "Lead deleted successfully"})
}

// ScoreLead handles POST /api/leads/:uuid/score
func (h *LeadHandler) ScoreLead(c fiber.Ctx) error {
	leadUUID := c.Params("uuid")
	if leadUUID == "" {
		return ErrorResponse(c, fiber.StatusBadRequest, "Lead UUID is required")
	}

	result, err := h.leadFlow.ScoreLead(createRequestContext(c), leadUUID)
	if err != nil {
		if businessflow.IsLeadNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Lead not found")
		}

		log.Println("Lead scoring failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Lead scoring failed")
	}

	return SuccessResponse(c, fiber.StatusOK, result)
}

// ExportLeads handles GET /api/leads/export, streaming an xlsx report
func (h *LeadHandler) ExportLeads(c fiber.Ctx) error {
	var req dto.ListLeadsRequest
	if err := c.Bind().Query(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters")
	}

	if err := h.validator.Struct(&req); err != nil {
		return ValidationErrorResponse(c, err)
	}

	report, err := h.leadFlow.ExportLeads(createRequestContext(c), &req, clientMetadata(c))
	if err != nil {
		log.Println("Lead export failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Lead export failed")
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", `attachment; filename="leads.xlsx"`)
	return c.Status(fiber.StatusOK).Send(report)
}
