// Package businessflow contains the core business logic and use cases for CRM workflows
package businessflow

import (
	"time"

	"github.com/deelflow/deelflow-api/app/dto"
	"github.com/deelflow/deelflow-api/models"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds all client-related information for audit logging and session tracking
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	RequestID  string            `json:"request_id,omitempty"`
	SessionID  string            `json:"session_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Additional: make(map[string]string),
	}
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// SetSessionID sets the session ID
func (cm *ClientMetadata) SetSessionID(sessionID string) {
	cm.SessionID = sessionID
}

// ToAuthUserDTO converts a user model to AuthUserDTO for authentication responses
func ToAuthUserDTO(user models.User) dto.AuthUserDTO {
	out := dto.AuthUserDTO{
		ID:         user.ID,
		UUID:       user.UUID.String(),
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Phone:      user.Phone,
		IsActive:   user.IsActive,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt.Format(time.RFC3339),
	}
	if user.Role != nil {
		out.Role = &user.Role.Name
	}

	return out
}

// ToUserDTO converts a user model to its full read shape
func ToUserDTO(user models.User) dto.UserDTO {
	out := dto.UserDTO{
		ID:          user.ID,
		UUID:        user.UUID.String(),
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Phone:       user.Phone,
		IsActive:    user.IsActive,
		IsVerified:  user.IsVerified,
		LastLoginAt: FormatOptionalTime(user.LastLoginAt),
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   user.UpdatedAt.Format(time.RFC3339),
	}
	if user.Role != nil {
		out.Role = &user.Role.Name
	}

	return out
}

// ToCampaignDTO converts a campaign row into its list-bearing read shape.
// The stored channel scalar comes back wrapped as a sequence and the two
// text columns are parsed back into slices, empty on corruption.
func ToCampaignDTO(c models.Campaign) dto.CampaignDTO {
	return dto.CampaignDTO{
		ID:           c.ID,
		UUID:         c.UUID.String(),
		Name:         c.Name,
		CampaignType: c.CampaignType,
		Status:       c.Status,

		Channel:               WrapChannel(c.Channel),
		GeographicScopeType:   c.GeographicScopeType,
		GeographicScopeValues: ParseListOrDefault(c.GeographicScopeValues, []string{}),
		DistressIndicators:    ParseListOrDefault(c.DistressIndicators, []string{}),

		Budget:        FormatNullDecimal(c.Budget),
		MinPrice:      FormatNullDecimal(c.MinPrice),
		MaxPrice:      FormatNullDecimal(c.MaxPrice),
		MinimumEquity: FormatNullDecimal(c.MinimumEquity),

		Location:     c.Location,
		PropertyType: c.PropertyType,

		PropertyYearBuiltMin: c.PropertyYearBuiltMin,
		PropertyYearBuiltMax: c.PropertyYearBuiltMax,

		SubjectLine:          c.SubjectLine,
		EmailContent:         c.EmailContent,
		UseAIPersonalization: c.UseAIPersonalization,

		ScheduledAt: FormatOptionalTime(c.ScheduledAt),

		SellerCountry:   c.SellerCountry,
		SellerState:     c.SellerState,
		SellerCounties:  c.SellerCounties,
		SellerCity:      c.SellerCity,
		SellerDistricts: c.SellerDistricts,
		SellerParish:    c.SellerParish,

		BuyerCountry:             c.BuyerCountry,
		BuyerState:               c.BuyerState,
		BuyerCounties:            c.BuyerCounties,
		BuyerCity:                c.BuyerCity,
		BuyerDistricts:           c.BuyerDistricts,
		BuyerParish:              c.BuyerParish,
		BuyerAgeRange:            c.BuyerAgeRange,
		BuyerSalaryRange:         c.BuyerSalaryRange,
		BuyerMaritalStatus:       c.BuyerMaritalStatus,
		BuyerEmploymentStatus:    c.BuyerEmploymentStatus,
		BuyerHomeOwnershipStatus: c.BuyerHomeOwnershipStatus,

		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}

// ToPropertyDTO converts a property row to its read shape
func ToPropertyDTO(p models.Property) dto.PropertyDTO {
	images := []string(p.Images)
	if images == nil {
		images = []string{}
	}

	return dto.PropertyDTO{
		ID:           p.ID,
		UUID:         p.UUID.String(),
		Address:      p.Address,
		City:         p.City,
		State:        p.State,
		Zipcode:      p.Zipcode,
		PropertyType: p.PropertyType,
		Status:       p.Status,
		Price:        p.Price.String(),

		Bedrooms:   p.Bedrooms,
		Bathrooms:  p.Bathrooms,
		SquareFeet: p.SquareFeet,
		LotSize:    p.LotSize,
		YearBuilt:  p.YearBuilt,

		Description: p.Description,
		Images:      images,

		PurchasePrice:  FormatNullDecimal(p.PurchasePrice),
		ARV:            FormatNullDecimal(p.ARV),
		RepairEstimate: FormatNullDecimal(p.RepairEstimate),
		HoldingCosts:   FormatNullDecimal(p.HoldingCosts),
		AssignmentFee:  FormatNullDecimal(p.AssignmentFee),

		AIAnalysis: p.AIAnalysis,

		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}

// ToLeadDTO converts a lead row to its read shape
func ToLeadDTO(l models.Lead) dto.LeadDTO {
	return dto.LeadDTO{
		ID:    l.ID,
		UUID:  l.UUID.String(),
		Name:  l.Name,
		Email: l.Email,
		Phone: l.Phone,

		Address: l.Address,
		City:    l.City,
		State:   l.State,
		Zipcode: l.Zipcode,

		Status:          l.Status,
		Source:          l.Source,
		MotivationScore: l.MotivationScore,

		PropertyCondition:  l.PropertyCondition,
		FinancialSituation: l.FinancialSituation,
		TimelineUrgency:    l.TimelineUrgency,
		NegotiationStyle:   l.NegotiationStyle,
		Notes:              l.Notes,

		CampaignID: l.CampaignID,
		AIScore:    l.AIScore,

		CreatedAt: l.CreatedAt.Format(time.RFC3339),
		UpdatedAt: l.UpdatedAt.Format(time.RFC3339),
	}
}

// ToDealDTO converts a deal row (with milestones) to its read shape
func ToDealDTO(d models.Deal) dto.DealDTO {
	out := dto.DealDTO{
		ID:       d.ID,
		UUID:     d.UUID.String(),
		DealType: d.DealType,
		Status:   d.Status,

		PropertyID:   d.PropertyID,
		BuyerLeadID:  d.BuyerLeadID,
		SellerLeadID: d.SellerLeadID,

		OfferPrice: FormatNullDecimal(d.OfferPrice),
		FinalPrice: FormatNullDecimal(d.FinalPrice),
		Commission: FormatNullDecimal(d.Commission),

		ClosingDate: FormatOptionalTime(d.ClosingDate),
		Notes:       d.Notes,

		CreatedAt: d.CreatedAt.Format(time.RFC3339),
		UpdatedAt: d.UpdatedAt.Format(time.RFC3339),
	}

	for _, m := range d.Milestones {
		out.Milestones = append(out.Milestones, ToDealMilestoneDTO(m))
	}

	return out
}

// ToDealMilestoneDTO converts a milestone row to its read shape
func ToDealMilestoneDTO(m models.DealMilestone) dto.DealMilestoneDTO {
	return dto.DealMilestoneDTO{
		ID:          m.ID,
		UUID:        m.UUID.String(),
		DealID:      m.DealID,
		Title:       m.Title,
		Description: m.Description,
		Status:      m.Status,
		DueDate:     FormatOptionalTime(m.DueDate),
		CompletedAt: FormatOptionalTime(m.CompletedAt),
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
	}
}

// ToRoleDTO converts a role row (with permissions) to its read shape
func ToRoleDTO(r models.Role) dto.RoleDTO {
	codenames := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		codenames = append(codenames, p.Codename)
	}

	return dto.RoleDTO{
		ID:          r.ID,
		UUID:        r.UUID.String(),
		Name:        r.Name,
		Description: r.Description,
		IsSystem:    r.IsSystem,
		Permissions: codenames,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   r.UpdatedAt.Format(time.RFC3339),
	}
}
