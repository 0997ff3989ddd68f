// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"

	"github.com/deelflow/deelflow-api/app/dto"
	businessflow "github.com/deelflow/deelflow-api/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// PropertyHandlerInterface defines the contract for property handlers
type PropertyHandlerInterface interface {
	CreateProperty(c fiber.Ctx) error
	GetProperty(c fiber.Ctx) error
	ListProperties(c fiber.Ctx) error
	UpdateProperty(c fiber.Ctx) error
	DeleteProperty(c fiber.Ctx) error
	RunAIAnalysis(c fiber.Ctx) error
}

// PropertyHandler handles property-related HTTP requests
type PropertyHandler struct {
	propertyFlow businessflow.PropertyFlow
	validator    *validator.Validate
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(propertyFlow businessflow.PropertyFlow) *PropertyHandler {
	return &PropertyHandler{
		propertyFlow: propertyFlow,
		validator:    validator.New(),
	}
}

// CreateProperty handles POST /api/properties
func (h *PropertyHandler) CreateProperty(c fiber.Ctx) error {
	var req dto.CreatePropertyRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return ValidationErrorResponse(c, err)
	}

	result, err := h.propertyFlow.CreateProperty(createRequestContext(c), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsInvalidNumericValue(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Property validation failed")
		}

		log.Println("Property creation failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Property creation failed")
	}

	return SuccessResponse(c, fiber.StatusCreated, result)
}

// GetProperty handles GET /api/properties/:uuid
func (h *PropertyHandler) GetProperty(c fiber.Ctx) error {
	propertyUUID := c.Params("uuid")
	if propertyUUID == "" {
		return ErrorResponse(c, fiber.StatusBadRequest, "Property UUID is required")
	}

	result, err := h.propertyFlow.GetProperty(createRequestContext(c), propertyUUID)
	if err != nil {
		if businessflow.IsPropertyNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Property not found")
		}

		log.Println("Property lookup failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Property lookup failed")
	}

	return SuccessResponse(c, fiber.StatusOK, result)
}

// ListProperties handles GET /api/properties
func (h *PropertyHandler) ListProperties(c fiber.Ctx) error {
	var req dto.ListPropertiesRequest
	if err := c.Bind().Query(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters")
	}

	if err := h.validator.Struct(&req); err != nil {
		return ValidationErrorResponse(c, err)
	}

	result, err := h.propertyFlow.ListProperties(createRequestContext(c), &req)
	if err != nil {
		log.Println("Property listing failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Property listing failed")
	}

	return SuccessResponse(c, fiber.StatusOK, result)
}

// UpdateProperty handles PUT /api/properties/:uuid
func (h *PropertyHandler) UpdateProperty(c fiber.Ctx) error {
	propertyUUID := c.Params("uuid")
	if propertyUUID == "" {
		return ErrorResponse(c, fiber.StatusBadRequest, "Property UUID is required")
	}

	var req dto.UpdatePropertyRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.UUID = propertyUUID

	if err := h.validator.Struct(&req); err != nil {
		return ValidationErrorResponse(c, err)
	}

	result, err := h.propertyFlow.UpdateProperty(createRequestContext(c), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsPropertyNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Property not found")
		}
		if businessflow.IsInvalidNumericValue(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Property validation failed")
		}

		log.Println("Property update failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Property update failed")
	}

	return SuccessResponse(c, fiber.StatusOK, result)
}

// DeleteProperty handles DELETE /api/properties/:uuid
func (h *PropertyHandler) DeleteProperty(c fiber.Ctx) error {
	propertyUUID := c.Params("uuid")
	if propertyUUID == "" {
		return ErrorResponse(c, fiber.StatusBadRequest, "Property UUID is required")
	}

	err := h.propertyFlow.DeleteProperty(createRequestContext(c), propertyUUID, clientMetadata(c))
	if err != nil {
		if businessflow.IsPropertyNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Property not found")
		}

		log.Println("Property deletion failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Property deletion failed")
	}

	return SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": "Property deleted successfully"})
}

// RunAIAnalysis handles POST /api/properties/:uuid/analyze
func (h *PropertyHandler) RunAIAnalysis(c fiber.Ctx) error {
	propertyUUID := c.Params("uuid")
	if propertyUUID == "" {
		return ErrorResponse(c, fiber.StatusBadRequest, "Property UUID is required")
	}

	result, err := h.propertyFlow.RunAIAnalysis(createRequestContext(c), propertyUUID)
	if err != nil {
		if businessflow.IsPropertyNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Property not found")
		}

		log.Println("Property analysis failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Property analysis failed")
	}

	return SuccessResponse(c, fiber.StatusOK, result)
}
