// Package main provides the main entry point for the DeelFlow real-estate CRM API
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deelflow/deelflow-api/app/handlers"
	"github.com/deelflow/deelflow-api/app/middleware"
	"github.com/deelflow/deelflow-api/app/router"
	"github.com/deelflow/deelflow-api/app/services"
	businessflow "github.com/deelflow/deelflow-api/business_flow"
	"github.com/deelflow/deelflow-api/config"
	"github.com/deelflow/deelflow-api/models"
	"github.com/deelflow/deelflow-api/repository"
	"github.com/deelflow/deelflow-api/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting DeelFlow application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	utils.ConfigureLogOutput(cfg.Logging.Output, utils.LogRotationSettings{
		FilePath:   cfg.Logging.FilePath,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAge,
		Compress:   cfg.Logging.Compress,
	})

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Redis client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled || cfg.Provider != "redis" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	// Override DB if provided in config
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// startSessionJanitor purges expired refresh-token sessions on an interval
func startSessionJanitor(parent context.Context, sessionRepo repository.UserSessionRepository, interval time.Duration) func() {
	janitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-janitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 30*time.Second)
				if err := sessionRepo.CleanupExpiredSessions(ctx); err != nil {
					log.Printf("Session cleanup failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// startMetricsSnapshotter records a daily KPI snapshot shortly after midnight UTC
func startMetricsSnapshotter(parent context.Context, dashboardFlow businessflow.DashboardFlow) func() {
	snapCtx, cancel := context.WithCancel(parent)
	go func() {
		for {
			now := utils.UTCNow()
			next := utils.StartOfDay(now).Add(24*time.Hour + 5*time.Minute)
			timer := time.NewTimer(next.Sub(now))
			select {
			case <-snapCtx.Done():
				timer.Stop()
				return
			case <-timer.C:
				ctx, c := context.WithTimeout(context.Background(), time.Minute)
				if _, err := dashboardFlow.SnapshotDailyMetrics(ctx); err != nil {
					log.Printf("Daily metrics snapshot failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		cancel := startCacheHealthMonitor(context.Background(), rc, 30*time.Second)
		stopFuncs = append(stopFuncs, cancel)
	}

	// Seed built-in roles and the permission catalogue
	if err := ensureDefaultRoles(db); err != nil {
		return nil, err
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewUserSessionRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	dealRepo := repository.NewDealRepository(db)
	milestoneRepo := repository.NewDealMilestoneRepository(db)
	activityRepo := repository.NewActivityFeedRepository(db)
	metricsRepo := repository.NewBusinessMetricsRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	// Initialize token service
	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.UseRSAKeys,
		cfg.JWT.PrivateKey,
		cfg.JWT.PublicKey,
		cfg.JWT.SecretKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	log.Printf("Token service initialized with issuer: %s, audience: %s", cfg.JWT.Issuer, cfg.JWT.Audience)

	// Initialize flows
	authFlow := businessflow.NewAuthFlow(userRepo, sessionRepo, roleRepo, auditRepo, tokenService, db)
	campaignFlow := businessflow.NewCampaignFlow(campaignRepo, leadRepo, auditRepo, activityRepo, db)
	propertyFlow := businessflow.NewPropertyFlow(propertyRepo, auditRepo, activityRepo, db)
	leadFlow := businessflow.NewLeadFlow(leadRepo, campaignRepo, auditRepo, activityRepo, db)
	dealFlow := businessflow.NewDealFlow(dealRepo, milestoneRepo, propertyRepo, leadRepo, auditRepo, activityRepo, db)
	userFlow := businessflow.NewUserFlow(userRepo, roleRepo, sessionRepo, auditRepo, db)
	roleFlow := businessflow.NewRoleFlow(roleRepo, userRepo, auditRepo, db)
	dashboardFlow := businessflow.NewDashboardFlow(dashboardRepo, activityRepo, metricsRepo, leadRepo, &cfg.Cache, rc)

	// Initialize handlers
	h := router.Handlers{
		Auth:      handlers.NewAuthHandler(authFlow),
		Campaign:  handlers.NewCampaignHandler(campaignFlow),
		Property:  handlers.NewPropertyHandler(propertyFlow),
		Lead:      handlers.NewLeadHandler(leadFlow),
		Deal:      handlers.NewDealHandler(dealFlow),
		User:      handlers.NewUserHandler(userFlow),
		Role:      handlers.NewRoleHandler(roleFlow),
		Dashboard: handlers.NewDashboardHandler(dashboardFlow),
	}

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Initialize router
	appRouter := router.NewFiberRouter(cfg, h, authMiddleware)

	// Background workers
	stopFuncs = append(stopFuncs,
		startSessionJanitor(context.Background(), sessionRepo, cfg.Security.SessionCleanupInterval),
		startMetricsSnapshotter(context.Background(), dashboardFlow),
	)

	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}

// defaultPermissions is the catalogue of grantable capabilities seeded at startup
var defaultPermissions = []models.Permission{
	{Codename: "campaigns.manage", Name: "Manage campaigns", Category: utils.ToPtr("campaigns")},
	{Codename: "campaigns.view", Name: "View campaigns", Category: utils.ToPtr("campaigns")},
	{Codename: "properties.manage", Name: "Manage properties", Category: utils.ToPtr("properties")},
	{Codename: "properties.view", Name: "View properties", Category: utils.ToPtr("properties")},
	{Codename: "leads.manage", Name: "Manage leads", Category: utils.ToPtr("leads")},
	{Codename: "leads.view", Name: "View leads", Category: utils.ToPtr("leads")},
	{Codename: "leads.export", Name: "Export leads", Category: utils.ToPtr("leads")},
	{Codename: "deals.manage", Name: "Manage deals", Category: utils.ToPtr("deals")},
	{Codename: "deals.view", Name: "View deals", Category: utils.ToPtr("deals")},
	{Codename: "users.manage", Name: "Manage users", Category: utils.ToPtr("admin")},
	{Codename: "roles.manage", Name: "Manage roles", Category: utils.ToPtr("admin")},
	{Codename: "dashboard.view", Name: "View dashboard", Category: utils.ToPtr("dashboard")},
	{Codename: "analytics.view", Name: "View analytics", Category: utils.ToPtr("dashboard")},
}

// memberPermissionCodenames is the subset granted to the built-in member role
var memberPermissionCodenames = []string{
	"campaigns.view", "properties.view", "leads.view", "deals.view", "dashboard.view",
}

// ensureDefaultRoles seeds the permission catalogue and the built-in admin and
// member roles. Existing rows are left untouched.
func ensureDefaultRoles(db *gorm.DB) error {
	roleRepo := repository.NewRoleRepository(db)
	ctx := context.Background()

	codenames := make([]string, 0, len(defaultPermissions))
	for _, p := range defaultPermissions {
		codenames = append(codenames, p.Codename)
	}

	existing, err := roleRepo.PermissionsByCodenames(ctx, codenames)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(existing))
	for _, p := range existing {
		known[p.Codename] = true
	}
	for i := range defaultPermissions {
		if known[defaultPermissions[i].Codename] {
			continue
		}
		p := defaultPermissions[i]
		if err := db.WithContext(ctx).Create(&p).Error; err != nil {
			return fmt.Errorf("failed to seed permission %s: %w", p.Codename, err)
		}
	}

	if err := ensureRole(ctx, roleRepo, models.RoleNameAdmin, "Full administrative access", codenames); err != nil {
		return err
	}
	return ensureRole(ctx, roleRepo, models.RoleNameMember, "Read-only member access", memberPermissionCodenames)
}

func ensureRole(ctx context.Context, roleRepo repository.RoleRepository, name, description string, permissionCodenames []string) error {
	role, err := roleRepo.ByName(ctx, name)
	if err != nil {
		return err
	}
	if role != nil {
		return nil
	}

	role = &models.Role{
		Name:        name,
		Description: utils.ToPtr(description),
		IsSystem:    true,
	}
	if err := roleRepo.Save(ctx, role); err != nil {
		return fmt.Errorf("failed to seed role %s: %w", name, err)
	}

	permissions, err := roleRepo.PermissionsByCodenames(ctx, permissionCodenames)
	if err != nil {
		return err
	}
	return roleRepo.ReplacePermissions(ctx, role.ID, permissions)
}
