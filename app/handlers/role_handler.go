// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"

	"github.com/deelflow/deelflow-api/app/dto"
	businessflow "github.com/deelflow/deelflow-api/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// RoleHandlerInterface defines the contract for role handlers
type RoleHandlerInterface interface {
	CreateRole(c fiber.Ctx) error
	GetRole(c fiber.Ctx) error
	ListRoles(c fiber.Ctx) error
	UpdateRole(c fiber.Ctx) error
	DeleteRole(c fiber.Ctx) error
	ListPermissions(c fiber.Ctx) error
}

// RoleHandler handles role management HTTP requests
type RoleHandler struct {
	roleFlow  businessflow.RoleFlow
	validator *validator.Validate
}

// NewRoleHandler creates a new role handler
func NewRoleHandler(roleFlow businessflow.RoleFlow) *RoleHandler {
	return &RoleHandler{
		roleFlow:  roleFlow,
		validator: validator.New(),
	}
}

// CreateRole handles POST /api/roles
func (h *RoleHandler) CreateRole(c fiber.Ctx) error {
	var req dto.CreateRoleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return ValidationErrorResponse(c, err)
	}

	result, err := h.roleFlow.CreateRole(createRequestContext(c), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsRoleNameTaken(err) {
			return ErrorResponse(c, fiber.StatusConflict, "Role name already exists")
		}

		log.Println("Role creation failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Role creation failed")
	}

	return SuccessResponse(c, fiber.StatusCreated, result)
}

// GetRole handles GET /api/roles/:uuid
func (h *RoleHandler) GetRole(c fiber.Ctx) error {
	roleUUID := c.Params("uuid")
	if roleUUID == "" {
		return ErrorResponse(c, fiber.StatusBadRequest, "Role UUID is required")
	}

	result, err := h.roleFlow.GetRole(createRequestContext(c), roleUUID)
	if err != nil {
		if businessflow.IsRoleNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Role not found")
		}

		log.Println("Role lookup failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Role lookup failed")
	}

	return SuccessResponse(c, fiber.StatusOK, result)
}

// ListRoles handles GET /api/roles
func (h *RoleHandler) ListRoles(c fiber.Ctx) error {
	result, err := h.roleFlow.ListRoles(createRequestContext(c))
	if err != nil {
		log.Println("Role listing failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Role listing failed")
	}

	return SuccessResponse(c, fiber.StatusOK, result)
}

// UpdateRole handles PUT /api/roles/:uuid
func (h *RoleHandler) UpdateRole(c fiber.Ctx) error {
	roleUUID := c.Params("uuid")
	if roleUUID == "" {
		return ErrorResponse(c, fiber.StatusBadRequest, "Role UUID is required")
	}

	var req dto.UpdateRoleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.UUID = roleUUID

	if err := h.validator.Struct(&req); err != nil {
		return ValidationErrorResponse(c, err)
	}

	result, err := h.roleFlow.UpdateRole(createRequestContext(c), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsRoleNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Role not found")
		}
		if businessflow.IsSystemRoleReadOnly(err) {
			return ErrorResponse(c, fiber.StatusForbidden, "System roles cannot be modified")
		}
		if businessflow.IsRoleNameTaken(err) {
			return ErrorResponse(c, fiber.StatusConflict, "Role name already exists")
		}

		log.Println("Role update failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Role update failed")
	}

	return SuccessResponse(c, fiber.StatusOK, result)
}

// DeleteRole handles DELETE /api/roles/:uuid
func (h *RoleHandler) DeleteRole(c fiber.Ctx) error {
	roleUUID := c.Params("uuid")
	if roleUUID == "" {
		return ErrorResponse(c, fiber.StatusBadRequest, "Role UUID is required")
	}

	err := h.roleFlow.DeleteRole(createRequestContext(c), roleUUID, clientMetadata(c))
	if err != nil {
		if businessflow.IsRoleNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Role not found")
		}
		if businessflow.IsSystemRoleReadOnly(err) {
			return ErrorResponse(c, fiber.StatusForbidden, "System roles cannot be deleted")
		}
		if businessflow.IsRoleInUse(err) {
			return ErrorResponse(c, fiber.StatusConflict, "Role is assigned to users")
		}

		log.Println("Role deletion failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Role deletion failed")
	}

	return SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": "Role deleted successfully"})
}

// ListPermissions handles GET /api/roles/permissions
func (h *RoleHandler) ListPermissions(c fiber.Ctx) error {
	result, err := h.roleFlow.ListPermissions(createRequestContext(c))
	if err != nil {
		log.Println("Permission listing failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Permission listing failed")
	}

	return SuccessResponse(c, fiber.StatusOK, result)
}
