// Package testing provides test utilities and database setup for integration tests
package testing

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	mrand "math/rand"
	"time"

	"github.com/deelflow/deelflow-api/models"
	"github.com/deelflow/deelflow-api/utils"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestRole creates a role, optionally flagged as a system role
func (tf *TestFixtures) CreateTestRole(name string, isSystem bool) (*models.Role, error) {
	role := &models.Role{
		Name:        name,
		Description: utils.ToPtr(fmt.Sprintf("Test role %s", name)),
		IsSystem:    isSystem,
	}

	if err := tf.DB.DB.Create(role).Error; err != nil {
		return nil, fmt.Errorf("failed to create test role: %w", err)
	}
	return role, nil
}

// CreateTestUser creates an active user with a bcrypt-hashed password
func (tf *TestFixtures) CreateTestUser(roleID *uint) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("TestPass123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	suffix := mrand.Intn(10000000)
	user := &models.User{
		Email:        fmt.Sprintf("jane.doe.%d@example.com", suffix),
		PasswordHash: string(hashedPassword),
		FirstName:    "Jane",
		LastName:     "Doe",
		Phone:        utils.ToPtr(fmt.Sprintf("+1555%07d", suffix)),
		IsActive:     true,
		RoleID:       roleID,
	}

	if err := tf.DB.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create test user: %w", err)
	}
	return user, nil
}

// GenerateSecureToken returns a URL-safe random token
func GenerateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// CreateTestSession creates an active refresh-token session for a user
func (tf *TestFixtures) CreateTestSession(userID uint) (*models.UserSession, error) {
	refreshToken, err := GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate secure refresh token: %w", err)
	}

	session := &models.UserSession{
		UserID:       userID,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().UTC().Add(24 * time.Hour),
		IsActive:     true,
		IPAddress:    utils.ToPtr("127.0.0.1"),
		UserAgent:    utils.ToPtr("Test User Agent"),
	}

	if err := tf.DB.DB.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create test session: %w", err)
	}
	return session, nil
}

// CreateExpiredSession creates a session that expired an hour ago
func (tf *TestFixtures) CreateExpiredSession(userID uint) (*models.UserSession, error) {
	refreshToken, err := GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate secure refresh token: %w", err)
	}

	session := &models.UserSession{
		UserID:       userID,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().UTC().Add(-1 * time.Hour),
		IsActive:     true,
	}

	if err := tf.DB.DB.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create expired session: %w", err)
	}
	return session, nil
}

// CreateTestCampaign creates a campaign with a normalized channel and scope
func (tf *TestFixtures) CreateTestCampaign(name, channel string) (*models.Campaign, error) {
	campaign := &models.Campaign{
		Name:                  name,
		Channel:               channel,
		GeographicScopeType:   "city",
		GeographicScopeValues: `["Austin","Dallas"]`,
		Budget:                decimal.NullDecimal{Decimal: decimal.NewFromInt(5000), Valid: true},
	}

	if err := tf.DB.DB.Create(campaign).Error; err != nil {
		return nil, fmt.Errorf("failed to create test campaign: %w", err)
	}
	return campaign, nil
}

// CreateTestProperty creates an active property listing
func (tf *TestFixtures) CreateTestProperty() (*models.Property, error) {
	property := &models.Property{
		Address:      fmt.Sprintf("%d Test Street", mrand.Intn(9000)+100),
		City:         "Austin",
		State:        "TX",
		Zipcode:      "78701",
		PropertyType: "single_family",
		Price:        decimal.NewFromInt(250000),
		Bedrooms:     utils.ToPtr(3),
		Bathrooms:    utils.ToPtr(2.0),
	}

	if err := tf.DB.DB.Create(property).Error; err != nil {
		return nil, fmt.Errorf("failed to create test property: %w", err)
	}
	return property, nil
}

// CreateTestLead creates a lead, optionally attached to a campaign
func (tf *TestFixtures) CreateTestLead(campaignID *uint) (*models.Lead, error) {
	suffix := mrand.Intn(10000000)
	lead := &models.Lead{
		Name:       fmt.Sprintf("Test Lead %d", suffix),
		Email:      utils.ToPtr(fmt.Sprintf("lead.%d@example.com", suffix)),
		Phone:      utils.ToPtr(fmt.Sprintf("+1555%07d", suffix)),
		City:       utils.ToPtr("Austin"),
		State:      utils.ToPtr("TX"),
		CampaignID: campaignID,
	}

	if err := tf.DB.DB.Create(lead).Error; err != nil {
		return nil, fmt.Errorf("failed to create test lead: %w", err)
	}
	return lead, nil
}

// CreateTestDeal creates a pending wholesale deal linking a property to a
// buyer lead and a seller lead
func (tf *TestFixtures) CreateTestDeal(propertyID, buyerLeadID, sellerLeadID *uint) (*models.Deal, error) {
	deal := &models.Deal{
		PropertyID:   propertyID,
		BuyerLeadID:  buyerLeadID,
		SellerLeadID: sellerLeadID,
		OfferPrice:   decimal.NullDecimal{Decimal: decimal.NewFromInt(200000), Valid: true},
	}

	if err := tf.DB.DB.Create(deal).Error; err != nil {
		return nil, fmt.Errorf("failed to create test deal: %w", err)
	}
	return deal, nil
}

// CreateTestMilestone creates a pending milestone on a deal
func (tf *TestFixtures) CreateTestMilestone(dealID uint) (*models.DealMilestone, error) {
	milestone := &models.DealMilestone{
		DealID:  dealID,
		Title:   "Inspection scheduled",
		DueDate: utils.ToPtr(time.Now().UTC().Add(72 * time.Hour)),
	}

	if err := tf.DB.DB.Create(milestone).Error; err != nil {
		return nil, fmt.Errorf("failed to create test milestone: %w", err)
	}
	return milestone, nil
}

// CreateTestAuditLog creates an audit log entry
func (tf *TestFixtures) CreateTestAuditLog(userID *uint, action string, success bool) (*models.AuditLog, error) {
	description := fmt.Sprintf("Test %s action", action)

	audit := &models.AuditLog{
		UserID:      userID,
		Action:      action,
		Description: &description,
		Success:     success,
		IPAddress:   utils.ToPtr("127.0.0.1"),
		UserAgent:   utils.ToPtr("Test User Agent"),
	}

	if err := tf.DB.DB.Create(audit).Error; err != nil {
		return nil, fmt.Errorf("failed to create test audit log: %w", err)
	}
	return audit, nil
}
