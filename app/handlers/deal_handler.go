// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"
	"strconv"

	"github.com/deelflow/deelflow-api/app/dto"
	businessflow "github.com/deelflow/deelflow-api/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// DealHandlerInterface defines the contract for deal handlers
type DealHandlerInterface interface {
	CreateDeal(c fiber.Ctx) error
	GetDeal(c fiber.Ctx) error
	ListDeals(c fiber.Ctx) error
	UpdateDeal(c fiber.Ctx) error
	DeleteDeal(c fiber.Ctx) error
	AddMilestone(c fiber.Ctx) error
	UpdateMilestone(c fiber.Ctx) error
	ListMilestones(c fiber.Ctx) error
}

// DealHandler handles deal-related HTTP requests
type DealHandler struct {
	dealFlow  businessflow.DealFlow
	validator *validator.Validate
}

// NewDealHandler creates a new deal handler
func NewDealHandler(dealFlow businessflow.DealFlow) *DealHandler {
	return &DealHandler{
		dealFlow:  dealFlow,
		validator: validator.New(),
	}
}

// CreateDeal handles POST /api/deals
func (h *DealHandler) CreateDeal(c fiber.Ctx) error {
	var req dto.CreateDealRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return ValidationErrorResponse(c, err)
	}

	result, err := h.dealFlow.CreateDeal(createRequestContext(c), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsPropertyNotFound(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Property not found")
		}
		if businessflow.IsLeadNotFound(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Lead not found")
		}
		if businessflow.IsInvalidNumericValue(err) || businessflow.IsInvalidTimestamp(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Deal validation failed")
		}

		log.Println("Deal creation failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Deal creation failed")
	}

	return SuccessResponse(c, fiber.StatusCreated, result)
}

// GetDeal handles GET /api/deals/:uuid
func (h *DealHandler) GetDeal(c fiber.Ctx) error {
	dealUUID := c.Params("uuid")
	if dealUUID == "" {
		return ErrorResponse(c, fiber.StatusBadRequest, "Deal UUID is required")
	}

	result, err := h.dealFlow.GetDeal(createRequestContext(c), dealUUID)
	if err != nil {
		if businessflow.IsDealNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Deal not found")
		}

		log.Println("Deal lookup failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Deal lookup failed")
	}

	return SuccessResponse(c, fiber.StatusOK, result)
}

// ListDeals handles GET /api/deals
func (h *DealHandler) ListDeals(c fiber.Ctx) error {
	var req dto.ListDealsRequest
	if err := c.Bind().Query(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters")
	}

	if err := h.validator.Struct(&req); err != nil {
		return ValidationErrorResponse(c, err)
	}

	result, err := h.dealFlow.ListDeals(createRequestContext(c), &req)
	if err != nil {
		log.Println("Deal listing failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Deal listing failed")
	}

	return SuccessResponse(c, fiber.StatusOK, result)
}

// UpdateDeal handles PUT /api/deals/:uuid
func (h *DealHandler) UpdateDeal(c fiber.Ctx) error {
	dealUUID := c.Params("uuid")
	if dealUUID == "" {
		return ErrorResponse(c, fiber.StatusBadRequest, "Deal UUID is required")
	}

	var req dto.UpdateDealRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.UUID = dealUUID

	if err := h.validator.Struct(&req); err != nil {
		return ValidationErrorResponse(c, err)
	}

	result, err := h.dealFlow.UpdateDeal(createRequestContext(c), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsDealNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Deal not found")
		}
		if businessflow.IsInvalidNumericValue(err) || businessflow.IsInvalidTimestamp(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Deal validation failed")
		}

		log.Println("Deal update failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Deal update failed")
	}

	return SuccessResponse(c, fiber.StatusOK, result)
}

// DeleteDeal handles DELETE /api/deals/:uuid
func (h *DealHandler) DeleteDeal(c fiber.Ctx) error {
	dealUUID := c.Params("uuid")
	if dealUUID == "" {
		return ErrorResponse(c, fiber.StatusBadRequest, "Deal UUID is required")
	}

	err := h.dealFlow.DeleteDeal(createRequestContext(c), dealUUID, clientMetadata(c))
	if err != nil {
		if businessflow.IsDealNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Deal not found")
		}

		log.Println("Deal deletion failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Deal deletion failed")
	}

	return SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": "Deal deleted successfully"})
}

// AddMilestone handles POST /api/deals/:uuid/milestones
func (h *DealHandler) AddMilestone(c fiber.Ctx) error {
	dealUUID := c.Params("uuid")
	if dealUUID == "" {
		return ErrorResponse(c, fiber.StatusBadRequest, "Deal UUID is required")
	}

	var req dto.CreateDealMilestoneRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.DealUUID = dealUUID

	if err := h.validator.Struct(&req); err != nil {
		return ValidationErrorResponse(c, err)
	}

	result, err := h.dealFlow.AddMilestone(createRequestContext(c), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsDealNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Deal not found")
		}
		if businessflow.IsInvalidTimestamp(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Milestone validation failed")
		}

		log.Println("Milestone creation failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Milestone creation failed")
	}

	return SuccessResponse(c, fiber.StatusCreated, result)
}

// UpdateMilestone handles PUT /api/deals/:uuid/milestones/:id
func (h *DealHandler) UpdateMilestone(c fiber.Ctx) error {
	dealUUID := c.Params("uuid")
	if dealUUID == "" {
		return ErrorResponse(c, fiber.StatusBadRequest, "Deal UUID is required")
	}

	milestoneID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || milestoneID == 0 {
		return ErrorResponse(c, fiber.StatusBadRequest, "Milestone ID is invalid")
	}

	var req dto.UpdateDealMilestoneRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.DealUUID = dealUUID
	req.MilestoneID = uint(milestoneID)

	if err := h.validator.Struct(&req); err != nil {
		return ValidationErrorResponse(c, err)
	}

	result, err := h.dealFlow.UpdateMilestone(createRequestContext(c), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsDealNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Deal not found")
		}
		if businessflow.IsMilestoneNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Milestone not found")
		}
		if businessflow.IsInvalidTimestamp(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Milestone validation failed")
		}

		log.Println("Milestone update failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Milestone update failed")
	}

	return SuccessResponse(c, fiber.StatusOK, result)
}

// ListMilestones handles GET /api/deals/:uuid/milestones
func (h *DealHandler) ListMilestones(c fiber.Ctx) error {
	dealUUID := c.Params("uuid")
	if dealUUID == "" {
		return ErrorResponse(c, fiber.StatusBadRequest, "Deal UUID is required")
	}

	result, err := h.dealFlow.ListMilestones(createRequestContext(c), dealUUID)
	if err != nil {
		if businessflow.IsDealNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Deal not found")
		}

		log.Println("Milestone listing failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Milestone listing failed")
	}

	return SuccessResponse(c, fiber.StatusOK, result)
}
