// Package businessflow contains the core business logic and use cases for authentication workflows
package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/deelflow/deelflow-api/app/dto"
	"github.com/deelflow/deelflow-api/app/services"
	"github.com/deelflow/deelflow-api/models"
	"github.com/deelflow/deelflow-api/repository"
	"github.com/deelflow/deelflow-api/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthFlow handles registration, login and token lifecycle operations
type AuthFlow interface {
	Register(ctx context.Context, req *dto.RegisterRequest, metadata *ClientMetadata) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.AuthResponse, error)
	Logout(ctx context.Context, userID uint, refreshToken string, metadata *ClientMetadata) error
	Me(ctx context.Context, userID uint) (*dto.UserDTO, error)
}

// AuthFlowImpl implements the auth business flow
type AuthFlowImpl struct {
	userRepo     repository.UserRepository
	sessionRepo  repository.UserSessionRepository
	roleRepo     repository.RoleRepository
	auditRepo    repository.AuditLogRepository
	tokenService services.TokenService
	db           *gorm.DB
}

// NewAuthFlow creates a new auth flow instance
func NewAuthFlow(
	userRepo repository.UserRepository,
	sessionRepo repository.UserSessionRepository,
	roleRepo repository.RoleRepository,
	auditRepo repository.AuditLogRepository,
	tokenService services.TokenService,
	db *gorm.DB,
) AuthFlow {
	return &AuthFlowImpl{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		roleRepo:     roleRepo,
		auditRepo:    auditRepo,
		tokenService: tokenService,
		db:           db,
	}
}

// Register creates a new user account and issues an initial token pair
func (af *AuthFlowImpl) Register(ctx context.Context, req *dto.RegisterRequest, metadata *ClientMetadata) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	resp, err := af.withAuthTransaction(ctx, func(txCtx context.Context) (*dto.AuthResponse, error) {
		existing, err := af.userRepo.ByEmail(txCtx, email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrEmailAlreadyExists
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}

		user := &models.User{
			Email:        email,
			PasswordHash: string(hashed),
			FirstName:    strings.TrimSpace(req.FirstName),
			LastName:     strings.TrimSpace(req.LastName),
			Phone:        req.Phone,
			IsActive:     true,
		}

		// New accounts get the default member role when one exists
		role, err := af.roleRepo.ByName(txCtx, models.RoleNameMember)
		if err != nil {
			return nil, err
		}
		if role != nil {
			user.RoleID = &role.ID
			user.Role = role
		}

		if err := af.userRepo.Save(txCtx, user); err != nil {
			return nil, err
		}

		session, accessToken, err := af.createSession(txCtx, user.ID, metadata)
		if err != nil {
			return nil, err
		}

		return &dto.AuthResponse{
			User:    ToAuthUserDTO(*user),
			Session: af.toSessionDTO(accessToken, session.RefreshToken),
		}, nil
	})

	if err != nil {
		errMsg := fmt.Sprintf("Registration failed for %s: %s", email, err.Error())
		_ = af.logAuthEvent(ctx, nil, models.AuditActionRecordCreated, errMsg, false, metadata)
		return nil, NewBusinessError("REGISTRATION_FAILED", "Registration failed", err)
	}

	msg := fmt.Sprintf("User registered: %d", resp.User.ID)
	_ = af.logAuthEvent(ctx, &resp.User.ID, models.AuditActionRecordCreated, msg, true, metadata)

	return resp, nil
}

// Login authenticates a user by email and password
func (af *AuthFlowImpl) Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user *models.User

	resp, err := af.withAuthTransaction(ctx, func(txCtx context.Context) (*dto.AuthResponse, error) {
		var err error
		user, err = af.userRepo.ByEmail(txCtx, email)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}

		if !user.IsActive {
			return nil, ErrAccountInactive
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			return nil, ErrIncorrectPassword
		}

		session, accessToken, err := af.createSession(txCtx, user.ID, metadata)
		if err != nil {
			return nil, err
		}

		if err := af.userRepo.UpdateLastLogin(txCtx, user.ID, utils.UTCNow()); err != nil {
			return nil, err
		}

		return &dto.AuthResponse{
			User:    ToAuthUserDTO(*user),
			Session: af.toSessionDTO(accessToken, session.RefreshToken),
		}, nil
	})

	if err != nil {
		var userID *uint
		if user != nil {
			userID = &user.ID
		}
		errMsg := fmt.Sprintf("Login failed for %s: %s", email, err.Error())
		_ = af.logAuthEvent(ctx, userID, models.AuditActionLoginFailed, errMsg, false, metadata)
		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", err)
	}

	msg := fmt.Sprintf("User logged in: %d", resp.User.ID)
	_ = af.logAuthEvent(ctx, &resp.User.ID, models.AuditActionLoginSuccess, msg, true, metadata)

	return resp, nil
}

// RefreshToken rotates the refresh-token session and issues a new token pair
func (af *AuthFlowImpl) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.AuthResponse, error) {
	resp, err := af.withAuthTransaction(ctx, func(txCtx context.Context) (*dto.AuthResponse, error) {
		session, err := af.sessionRepo.ByRefreshToken(txCtx, req.RefreshToken)
		if err != nil {
			return nil, err
		}
		if session == nil {
			return nil, ErrSessionNotFound
		}
		if session.IsExpired() {
			return nil, ErrSessionExpired
		}
		if !session.IsValid() {
			return nil, ErrSessionInvalid
		}

		user, err := af.userRepo.ByID(txCtx, session.UserID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
		if !user.IsActive {
			return nil, ErrAccountInactive
		}

		// Rotation: the presented token is retired before a fresh session
		// replaces it.
		if err := af.sessionRepo.InvalidateSession(txCtx, session.ID); err != nil {
			return nil, err
		}

		newSession, accessToken, err := af.createSession(txCtx, user.ID, metadata)
		if err != nil {
			return nil, err
		}

		return &dto.AuthResponse{
			User:    ToAuthUserDTO(*user),
			Session: af.toSessionDTO(accessToken, newSession.RefreshToken),
		}, nil
	})

	if err != nil {
		errMsg := fmt.Sprintf("Token refresh failed: %s", err.Error())
		_ = af.logAuthEvent(ctx, nil, models.AuditActionTokenRefresh, errMsg, false, metadata)
		return nil, NewBusinessError("TOKEN_REFRESH_FAILED", "Token refresh failed", err)
	}

	msg := fmt.Sprintf("Token refreshed: %d", resp.User.ID)
	_ = af.logAuthEvent(ctx, &resp.User.ID, models.AuditActionTokenRefresh, msg, true, metadata)

	return resp, nil
}

// Logout invalidates the presented refresh-token session, or every active
// session for the user when no token is supplied
func (af *AuthFlowImpl) Logout(ctx context.Context, userID uint, refreshToken string, metadata *ClientMetadata) error {
	err := repository.WithTransaction(ctx, af.db, func(txCtx context.Context) error {
		if refreshToken == "" {
			return af.sessionRepo.InvalidateAllUserSessions(txCtx, userID)
		}

		session, err := af.sessionRepo.ByRefreshToken(txCtx, refreshToken)
		if err != nil {
			return err
		}
		if session == nil || session.UserID != userID {
			return ErrSessionNotFound
		}

		return af.sessionRepo.InvalidateSession(txCtx, session.ID)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Logout failed: %s", err.Error())
		_ = af.logAuthEvent(ctx, &userID, models.AuditActionLogout, errMsg, false, metadata)
		return NewBusinessError("LOGOUT_FAILED", "Logout failed", err)
	}

	msg := fmt.Sprintf("User logged out: %d", userID)
	_ = af.logAuthEvent(ctx, &userID, models.AuditActionLogout, msg, true, metadata)

	return nil
}

// Me returns the authenticated user's profile
func (af *AuthFlowImpl) Me(ctx context.Context, userID uint) (*dto.UserDTO, error) {
	user, err := af.userRepo.ByID(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("USER_LOOKUP_FAILED", "Failed to lookup user", err)
	}
	if user == nil {
		return nil, NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
	}

	result := ToUserDTO(*user)
	return &result, nil
}

// createSession issues a token pair and persists the refresh side as a session row
func (af *AuthFlowImpl) createSession(ctx context.Context, userID uint, metadata *ClientMetadata) (*models.UserSession, string, error) {
	accessToken, refreshToken, err := af.tokenService.GenerateTokens(userID)
	if err != nil {
		return nil, "", err
	}

	session := &models.UserSession{
		UserID:       userID,
		RefreshToken: refreshToken,
		ExpiresAt:    utils.UTCNow().Add(utils.RefreshTokenTTL),
		IsActive:     true,
	}
	if metadata != nil {
		if metadata.IPAddress != "" {
			session.IPAddress = &metadata.IPAddress
		}
		if metadata.UserAgent != "" {
			session.UserAgent = &metadata.UserAgent
		}
	}

	if err := af.sessionRepo.Save(ctx, session); err != nil {
		return nil, "", err
	}

	return session, accessToken, nil
}

func (af *AuthFlowImpl) toSessionDTO(accessToken, refreshToken string) dto.SessionDTO {
	return dto.SessionDTO{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(af.tokenService.AccessTokenTTL().Seconds()),
	}
}

func (af *AuthFlowImpl) logAuthEvent(ctx context.Context, userID *uint, action, description string, success bool, metadata *ClientMetadata) error {
	entity := "user"
	entry := &models.AuditLog{
		UserID:      userID,
		Action:      action,
		Entity:      &entity,
		EntityID:    userID,
		Description: &description,
		Success:     success,
	}
	if metadata != nil {
		if metadata.IPAddress != "" {
			entry.IPAddress = &metadata.IPAddress
		}
		if metadata.UserAgent != "" {
			entry.UserAgent = &metadata.UserAgent
		}
		if metadata.RequestID != "" {
			entry.RequestID = &metadata.RequestID
		}
	}

	return af.auditRepo.Save(ctx, entry)
}

func (af *AuthFlowImpl) withAuthTransaction(ctx context.Context, fn func(context.Context) (*dto.AuthResponse, error)) (*dto.AuthResponse, error) {
	var result *dto.AuthResponse
	var fnErr error

	err := repository.WithTransaction(ctx, af.db, func(txCtx context.Context) error {
		result, fnErr = fn(txCtx)
		return fnErr
	})

	if err != nil {
		return nil, err
	}
	return result, fnErr
}
