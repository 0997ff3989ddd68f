// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"

	"github.com/deelflow/deelflow-api/app/dto"
	"github.com/deelflow/deelflow-api/app/middleware"
	businessflow "github.com/deelflow/deelflow-api/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// AuthHandlerInterface defines the contract for auth handlers
type AuthHandlerInterface interface {
	Register(c fiber.Ctx) error
	Login(c fiber.Ctx) error
	RefreshToken(c fiber.Ctx) error
	Logout(c fiber.Ctx) error
	Me(c fiber.Ctx) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authFlow  businessflow.AuthFlow
	validator *validator.Validate
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authFlow businessflow.AuthFlow) *AuthHandler {
	return &AuthHandler{
		authFlow:  authFlow,
		validator: validator.New(),
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return ValidationErrorResponse(c, err)
	}

	result, err := h.authFlow.Register(createRequestContext(c), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsEmailAlreadyExists(err) {
			return ErrorResponse(c, fiber.StatusConflict, "Email already exists")
		}

		log.Println("Registration failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Registration failed")
	}

	return SuccessResponse(c, fiber.StatusCreated, result)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return ValidationErrorResponse(c, err)
	}

	result, err := h.authFlow.Login(createRequestContext(c), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsUserNotFound(err) || businessflow.IsIncorrectPassword(err) {
			return ErrorResponse(c, fiber.StatusUnauthorized, "Invalid email or password")
		}
		if businessflow.IsAccountInactive(err) {
			return ErrorResponse(c, fiber.StatusUnauthorized, "Account is inactive")
		}

		log.Println("Login failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Login failed")
	}

	return SuccessResponse(c, fiber.StatusOK, result)
}

// RefreshToken handles POST /api/auth/refresh
func (h *AuthHandler) RefreshToken(c fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return ValidationErrorResponse(c, err)
	}

	result, err := h.authFlow.RefreshToken(createRequestContext(c), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsSessionNotFound(err) || businessflow.IsSessionInvalid(err) {
			return ErrorResponse(c, fiber.StatusUnauthorized, "Invalid refresh token")
		}
		if businessflow.IsSessionExpired(err) {
			return ErrorResponse(c, fiber.StatusUnauthorized, "Refresh token has expired")
		}
		if businessflow.IsUserNotFound(err) || businessflow.IsAccountInactive(err) {
			return ErrorResponse(c, fiber.StatusUnauthorized, "Account is not available")
		}

		log.Println("Token refresh failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Token refresh failed")
	}

	return SuccessResponse(c, fiber.StatusOK, result)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required")
	}

	var req dto.RefreshTokenRequest
	// The body is optional; without a token every session is invalidated
	_ = c.Bind().JSON(&req)

	err := h.authFlow.Logout(createRequestContext(c), userID, req.RefreshToken, clientMetadata(c))
	if err != nil {
		if businessflow.IsSessionNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Session not found")
		}

		log.Println("Logout failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Logout failed")
	}

	return SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": "Logged out successfully"})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required")
	}

	result, err := h.authFlow.Me(createRequestContext(c), userID)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "User not found")
		}

		log.Println("Profile lookup failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Profile lookup failed")
	}

	return SuccessResponse(c, fiber.StatusOK, result)
}
