package utils

import (
	"time"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// RefreshTokenTTL is the time-to-live for refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour

	// SessionTimeout is the default session timeout (24 hours)
	SessionTimeout = 24 * time.Hour
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Campaign constants
const (
	// DefaultCampaignChannel is the channel persisted when the client
	// supplies none or an empty sequence.
	DefaultCampaignChannel = "email"

	// DefaultGeographicScopeType is the scope type used when the client
	// supplies neither flat fields nor a nested geographic_scope object.
	DefaultGeographicScopeType = "zip"
)

// Cache key constants
const (
	// DashboardOverviewCacheKey caches the headline dashboard counts
	DashboardOverviewCacheKey = "dashboard:overview"

	// DashboardOverviewCacheTTL bounds staleness of the cached overview
	DashboardOverviewCacheTTL = 60 * time.Second
)

// Pagination constants
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)
