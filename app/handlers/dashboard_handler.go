// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"
	"strconv"
	"time"

	businessflow "github.com/deelflow/deelflow-api/business_flow"
	"github.com/deelflow/deelflow-api/utils"
	"github.com/gofiber/fiber/v3"
)

// metricsDateLayout is the wire format for analytics date range parameters
const metricsDateLayout = "2006-01-02"

// DashboardHandlerInterface defines the contract for dashboard and analytics handlers
type DashboardHandlerInterface interface {
	GetOverview(c fiber.Ctx) error
	GetActivityFeed(c fiber.Ctx) error
	GetLeadAnalytics(c fiber.Ctx) error
	GetDealAnalytics(c fiber.Ctx) error
	GetCampaignAnalytics(c fiber.Ctx) error
	GetMetricsRange(c fiber.Ctx) error
	SnapshotDailyMetrics(c fiber.Ctx) error
}

// DashboardHandler handles dashboard and analytics HTTP requests
type DashboardHandler struct {
	dashboardFlow businessflow.DashboardFlow
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardFlow businessflow.DashboardFlow) *DashboardHandler {
	return &DashboardHandler{
		dashboardFlow: dashboardFlow,
	}
}

// GetOverview handles GET /api/dashboard/overview
func (h *DashboardHandler) GetOverview(c fiber.Ctx) error {
	result, err := h.dashboardFlow.GetOverview(createRequestContext(c))
	if err != nil {
		log.Println("Dashboard overview failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Dashboard overview failed")
	}

	return SuccessResponse(c, fiber.StatusOK, result)
}

// GetActivityFeed handles GET /api/dashboard/activity
func (h *DashboardHandler) GetActivityFeed(c fiber.Ctx) error {
	limit := utils.DefaultPageLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return ErrorResponse(c, fiber.StatusBadRequest, "Limit must be a positive integer")
		}
		limit = parsed
	}
	if limit > utils.MaxPageLimit {
		limit = utils.MaxPageLimit
	}

	result, err := h.dashboardFlow.GetActivityFeed(createRequestContext(c), limit)
	if err != nil {
		log.Println("Activity feed failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Activity feed failed")
	}

	return SuccessResponse(c, fiber.StatusOK, result)
}

// GetLeadAnalytics handles GET /api/analytics/leads
func (h *DashboardHandler) GetLeadAnalytics(c fiber.Ctx) error {
	result, err := h.dashboardFlow.GetLeadAnalytics(createRequestContext(c))
	if err != nil {
		log.Println("Lead analytics failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Lead analytics failed")
	}

	return SuccessResponse(c, fiber.StatusOK, result)
}

// GetDealAnalytics handles GET /api/analytics/deals
func (h *DashboardHandler) GetDealAnalytics(c fiber.Ctx) error {
	result, err := h.dashboardFlow.GetDealAnalytics(createRequestContext(c))
	if err != nil {
		log.Println("Deal analytics failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Deal analytics failed")
	}

	return SuccessResponse(c, fiber.StatusOK, result)
}

// GetCampaignAnalytics handles GET /api/analytics/campaigns
func (h *DashboardHandler) GetCampaignAnalytics(c fiber.Ctx) error {
	result, err := h.dashboardFlow.GetCampaignAnalytics(createRequestContext(c))
	if err != nil {
		log.Println("Campaign analytics failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Campaign analytics failed")
	}

	return SuccessResponse(c, fiber.StatusOK, result)
}

// GetMetricsRange handles GET /api/analytics/metrics
//
// Accepts ?from=YYYY-MM-DD&to=YYYY-MM-DD. Defaults to the trailing 30 days.
func (h *DashboardHandler) GetMetricsRange(c fiber.Ctx) error {
	to := utils.StartOfDay(utils.UTCNow())
	from := to.AddDate(0, 0, -30)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(metricsDateLayout, raw)
		if err != nil {
			return ErrorResponse(c, fiber.StatusBadRequest, "From date must be formatted as YYYY-MM-DD")
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(metricsDateLayout, raw)
		if err != nil {
			return ErrorResponse(c, fiber.StatusBadRequest, "To date must be formatted as YYYY-MM-DD")
		}
		to = parsed
	}
	if to.Before(from) {
		return ErrorResponse(c, fiber.StatusBadRequest, "To date must not precede from date")
	}

	result, err := h.dashboardFlow.GetMetricsRange(createRequestContext(c), from, to)
	if err != nil {
		log.Println("Metrics range failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Metrics range failed")
	}

	return SuccessResponse(c, fiber.StatusOK, result)
}

// SnapshotDailyMetrics handles POST /api/analytics/metrics/snapshot
func (h *DashboardHandler) SnapshotDailyMetrics(c fiber.Ctx) error {
	result, err := h.dashboardFlow.SnapshotDailyMetrics(createRequestContext(c))
	if err != nil {
		log.Println("Metrics snapshot failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Metrics snapshot failed")
	}

	return SuccessResponse(c, fiber.StatusCreated, result)
}
