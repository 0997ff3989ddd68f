// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	"github.com/deelflow/deelflow-api/app/dto"
	"github.com/deelflow/deelflow-api/app/handlers"
	"github.com/deelflow/deelflow-api/app/middleware"
	"github.com/deelflow/deelflow-api/config"
	"github.com/deelflow/deelflow-api/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// Handlers bundles every HTTP handler the router wires up
type Handlers struct {
	Auth      handlers.AuthHandlerInterface
	Campaign  handlers.CampaignHandlerInterface
	Property  handlers.PropertyHandlerInterface
	Lead      handlers.LeadHandlerInterface
	Deal      handlers.DealHandlerInterface
	User      handlers.UserHandlerInterface
	Role      handlers.RoleHandlerInterface
	Dashboard handlers.DashboardHandlerInterface
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app      *fiber.App
	cfg      *config.ProductionConfig
	handlers Handlers
	authMw   *middleware.AuthMiddleware
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(cfg *config.ProductionConfig, h Handlers, authMw *middleware.AuthMiddleware) Router {
	app := fiber.New(fiber.Config{
		AppName:      "DeelFlow API",
		ServerHeader: "DeelFlow",
		ErrorHandler: errorHandler,
		BodyLimit:    cfg.Server.BodyLimit,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ProxyHeader:  cfg.Server.ProxyHeader,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:      app,
		cfg:      cfg,
		handlers: h,
		authMw:   authMw,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	r.setupMiddleware()

	api := r.app.Group("/api")

	// Health check route (no rate limiting)
	api.Get("/health", r.healthCheck)

	// Prometheus scrape endpoint
	if r.cfg.Metrics.Enabled && r.cfg.Metrics.EnablePrometheus {
		r.app.Get(r.cfg.Metrics.PrometheusPath, adaptor.HTTPHandler(promhttp.Handler()))
	}

	// General rate limiting for all API routes
	api.Use(limiter.New(limiter.Config{
		Max:        r.cfg.Security.GlobalRateLimit,
		Expiration: r.cfg.Security.RateLimitWindow,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: rateLimitReached,
		Next: func(c fiber.Ctx) bool {
			// Skip rate limiting for health checks
			return c.Path() == "/api/health"
		},
	}))

	// Auth routes with stricter rate limiting
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:        r.cfg.Security.AuthRateLimit,
		Expiration: r.cfg.Security.RateLimitWindow,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: rateLimitReached,
	}))

	auth.Post("/register", r.handlers.Auth.Register)
	auth.Post("/login", r.handlers.Auth.Login)
	auth.Post("/refresh", r.handlers.Auth.RefreshToken)
	auth.Post("/logout", r.handlers.Auth.Logout, r.authMw.Authenticate())
	auth.Get("/me", r.handlers.Auth.Me, r.authMw.Authenticate())

	// Everything below requires an authenticated session
	authenticated := api.Group("", r.authMw.Authenticate())

	campaigns := authenticated.Group("/campaigns")
	campaigns.Post("/", r.handlers.Campaign.CreateCampaign)
	campaigns.Get("/", r.handlers.Campaign.ListCampaigns)
	campaigns.Get("/:uuid", r.handlers.Campaign.GetCampaign)
	campaigns.Put("/:uuid", r.handlers.Campaign.UpdateCampaign)
	campaigns.Delete("/:uuid", r.handlers.Campaign.DeleteCampaign)
	campaigns.Get("/:uuid/performance", r.handlers.Campaign.GetCampaignPerformance)

	properties := authenticated.Group("/properties")
	properties.Post("/", r.handlers.Property.CreateProperty)
	properties.Get("/", r.handlers.Property.ListProperties)
	properties.Get("/:uuid", r.handlers.Property.GetProperty)
	properties.Put("/:uuid", r.handlers.Property.UpdateProperty)
	properties.Delete("/:uuid", r.handlers.Property.DeleteProperty)
	properties.Post("/:uuid/analyze", r.handlers.Property.RunAIAnalysis)

	leads := authenticated.Group("/leads")
	leads.Post("/", r.handlers.Lead.CreateLead)
	leads.Get("/", r.handlers.Lead.ListLeads)
	leads.Get("/export", r.handlers.Lead.ExportLeads)
	leads.Get("/:uuid", r.handlers.Lead.GetLead)
	leads.Put("/:uuid", r.handlers.Lead.UpdateLead)
	leads.Delete("/:uuid", r.handlers.Lead.DeleteLead)
	leads.Post("/:uuid/score", r.handlers.Lead.ScoreLead)

	deals := authenticated.Group("/deals")
	deals.Post("/", r.handlers.Deal.CreateDeal)
	deals.Get("/", r.handlers.Deal.ListDeals)
	deals.Get("/:uuid", r.handlers.Deal.GetDeal)
	deals.Put("/:uuid", r.handlers.Deal.UpdateDeal)
	deals.Delete("/:uuid", r.handlers.Deal.DeleteDeal)
	deals.Post("/:uuid/milestones", r.handlers.Deal.AddMilestone)
	deals.Get("/:uuid/milestones", r.handlers.Deal.ListMilestones)
	deals.Put("/:uuid/milestones/:id", r.handlers.Deal.UpdateMilestone)

	users := authenticated.Group("/users")
	users.Post("/", r.handlers.User.CreateUser)
	users.Get("/", r.handlers.User.ListUsers)
	users.Get("/:uuid", r.handlers.User.GetUser)
	users.Put("/:uuid", r.handlers.User.UpdateUser)
	users.Delete("/:uuid", r.handlers.User.DeleteUser)

	roles := authenticated.Group("/roles")
	roles.Post("/", r.handlers.Role.CreateRole)
	roles.Get("/", r.handlers.Role.ListRoles)
	roles.Get("/permissions", r.handlers.Role.ListPermissions)
	roles.Get("/:uuid", r.handlers.Role.GetRole)
	roles.Put("/:uuid", r.handlers.Role.UpdateRole)
	roles.Delete("/:uuid", r.handlers.Role.DeleteRole)

	dashboard := authenticated.Group("/dashboard")
	dashboard.Get("/overview", r.handlers.Dashboard.GetOverview)
	dashboard.Get("/activity", r.handlers.Dashboard.GetActivityFeed)

	analytics := authenticated.Group("/analytics")
	analytics.Get("/leads", r.handlers.Dashboard.GetLeadAnalytics)
	analytics.Get("/deals", r.handlers.Dashboard.GetDealAnalytics)
	analytics.Get("/campaigns", r.handlers.Dashboard.GetCampaignAnalytics)
	analytics.Get("/metrics", r.handlers.Dashboard.GetMetricsRange)
	analytics.Post("/metrics/snapshot", r.handlers.Dashboard.SnapshotDailyMetrics)

	// Not found handler
	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	// Security headers middleware
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		HSTSExcludeSubdomains: false,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		XDNSPrefetchControl:   "off",
		XDownloadOptions:      "noopen",
		XPermittedCrossDomain: "none",
	}))

	// CORS middleware with production settings
	r.app.Use(cors.New(cors.Config{
		AllowOrigins:     r.cfg.Security.AllowedOrigins,
		AllowMethods:     r.cfg.Security.AllowedMethods,
		AllowHeaders:     r.cfg.Security.AllowedHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: r.cfg.Security.AllowCredentials,
		MaxAge:           r.cfg.Security.CORSMaxAge,
	}))

	// Compression middleware for performance
	if r.cfg.Server.EnableCompression {
		r.app.Use(compress.New(compress.Config{
			Level: compress.Level(r.cfg.Server.CompressionLevel),
			Next: func(c fiber.Ctx) bool {
				contentType := c.Get("Content-Type")
				return contentType == "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
			},
		}))
	}

	// Structured request logging
	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","protocol":"${protocol}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent},"referer":"${referer}"}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			// Skip logging for health checks in production
			return c.Path() == "/api/health"
		},
	}))

	// Prometheus request metrics
	if r.cfg.Metrics.Enabled {
		r.app.Use(middleware.Metrics())
	}

	// Recovery middleware with custom error handling
	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e any) {
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Health check endpoint
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.NewSuccessResponse(fiber.Map{
		"status":      "ok",
		"timestamp":   utils.UTCNow().Unix(),
		"service":     "deelflow-api",
		"version":     r.cfg.Deployment.Version,
		"environment": r.cfg.Deployment.Environment,
	}))
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.NewErrorResponse("The requested resource was not found"))
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("Error %d: %v (request_id=%v)", code, err, c.Locals("requestid"))

	return c.Status(code).JSON(dto.NewErrorResponse("An internal server error occurred"))
}

func rateLimitReached(c fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(dto.NewErrorResponse("Too many requests. Please try again later."))
}

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
