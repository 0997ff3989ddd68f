// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"

	"github.com/deelflow/deelflow-api/app/dto"
	businessflow "github.com/deelflow/deelflow-api/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// UserHandlerInterface defines the contract for user handlers
type UserHandlerInterface interface {
	CreateUser(c fiber.Ctx) error
	GetUser(c fiber.Ctx) error
	ListUsers(c fiber.Ctx) error
	UpdateUser(c fiber.Ctx) error
	DeleteUser(c fiber.Ctx) error
}

// UserHandler handles user management HTTP requests
type UserHandler struct {
	userFlow  businessflow.UserFlow
	validator *validator.Validate
}

// NewUserHandler creates a new user handler
func NewUserHandler(userFlow businessflow.UserFlow) *UserHandler {
	return &UserHandler{
		userFlow:  userFlow,
		validator: validator.New(),
	}
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(c fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return ValidationErrorResponse(c, err)
	}

	result, err := h.userFlow.CreateUser(createRequestContext(c), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsEmailAlreadyExists(err) {
			return ErrorResponse(c, fiber.StatusConflict, "Email already exists")
		}
		if businessflow.IsRoleNotFound(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Role not found")
		}

		log.Println("User creation failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "User creation failed")
	}

	return SuccessResponse(c, fiber.StatusCreated, result)
}

// GetUser handles GET /api/users/:uuid
func (h *UserHandler) GetUser(c fiber.Ctx) error {
	userUUID := c.Params("uuid")
	if userUUID == "" {
		return ErrorResponse(c, fiber.StatusBadRequest, "User UUID is required")
	}

	result, err := h.userFlow.GetUser(createRequestContext(c), userUUID)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "User not found")
		}

		log.Println("User lookup failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "User lookup failed")
	}

	return SuccessResponse(c, fiber.StatusOK, result)
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(c fiber.Ctx) error {
	var req dto.ListUsersRequest
	if err := c.Bind().Query(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters")
	}

	if err := h.validator.Struct(&req); err != nil {
		return ValidationErrorResponse(c, err)
	}

	result, err := h.userFlow.ListUsers(createRequestContext(c), &req)
	if err != nil {
		log.Println("User listing failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "User listing failed")
	}

	return SuccessResponse(c, fiber.StatusOK, result)
}

// UpdateUser handles PUT /api/users/:uuid
func (h *UserHandler) UpdateUser(c fiber.Ctx) error {
	userUUID := c.Params("uuid")
	if userUUID == "" {
		return ErrorResponse(c, fiber.StatusBadRequest, "User UUID is required")
	}

	var req dto.UpdateUserRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.UUID = userUUID

	if err := h.validator.Struct(&req); err != nil {
		return ValidationErrorResponse(c, err)
	}

	result, err := h.userFlow.UpdateUser(createRequestContext(c), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "User not found")
		}
		if businessflow.IsRoleNotFound(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Role not found")
		}

		log.Println("User update failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "User update failed")
	}

	return SuccessResponse(c, fiber.StatusOK, result)
}

// DeleteUser handles DELETE /api/users/:uuid
func (h *UserHandler) DeleteUser(c fiber.Ctx) error {
	userUUID := c.Params("uuid")
	if userUUID == "" {
		return ErrorResponse(c, fiber.StatusBadRequest, "User UUID is required")
	}

	err := h.userFlow.DeleteUser(createRequestContext(c), userUUID, clientMetadata(c))
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "User not found")
		}

		log.Println("User deletion failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "User deletion failed")
	}

	return SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": "User deleted successfully"})
}
