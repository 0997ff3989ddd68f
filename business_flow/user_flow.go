// Package businessflow contains the core business logic and use cases for user management workflows
package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/deelflow/deelflow-api/app/dto"
	"github.com/deelflow/deelflow-api/models"
	"github.com/deelflow/deelflow-api/repository"
	"github.com/deelflow/deelflow-api/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserFlow handles user account management
type UserFlow interface {
	CreateUser(ctx context.Context, req *dto.CreateUserRequest, metadata *ClientMetadata) (*dto.UserDTO, error)
	GetUser(ctx context.Context, uuid string) (*dto.UserDTO, error)
	ListUsers(ctx context.Context, req *dto.ListUsersRequest) (*dto.ListResponse, error)
	UpdateUser(ctx context.Context, req *dto.UpdateUserRequest, metadata *ClientMetadata) (*dto.UserDTO, error)
	DeleteUser(ctx context.Context, uuid string, metadata *ClientMetadata) error
}

// UserFlowImpl implements the user business flow
type UserFlowImpl struct {
	userRepo    repository.UserRepository
	roleRepo    repository.RoleRepository
	sessionRepo repository.UserSessionRepository
	auditRepo   repository.AuditLogRepository
	db          *gorm.DB
}

// NewUserFlow creates a new user flow instance
func NewUserFlow(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	sessionRepo repository.UserSessionRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) UserFlow {
	return &UserFlowImpl{
		userRepo:    userRepo,
		roleRepo:    roleRepo,
		sessionRepo: sessionRepo,
		auditRepo:   auditRepo,
		db:          db,
	}
}

// CreateUser provisions a new account on behalf of an administrator
func (s *UserFlowImpl) CreateUser(ctx context.Context, req *dto.CreateUserRequest, metadata *ClientMetadata) (*dto.UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user *models.User

	err := repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		existing, err := s.userRepo.ByEmail(txCtx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrEmailAlreadyExists
		}

		if req.RoleID != nil {
			role, err := s.roleRepo.ByID(txCtx, *req.RoleID)
			if err != nil {
				return err
			}
			if role == nil {
				return ErrRoleNotFound
			}
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		user = &models.User{
			Email:        email,
			PasswordHash: string(hashed),
			FirstName:    strings.TrimSpace(req.FirstName),
			LastName:     strings.TrimSpace(req.LastName),
			Phone:        req.Phone,
			RoleID:       req.RoleID,
			IsActive:     req.IsActive == nil || *req.IsActive,
		}

		return s.userRepo.Save(txCtx, user)
	})

	if err != nil {
		return nil, NewBusinessError("USER_CREATION_FAILED", "User creation failed", err)
	}

	msg := fmt.Sprintf("User created: %s", user.Email)
	_ = s.createAuditLog(ctx, &user.ID, models.AuditActionRecordCreated, msg, true, metadata)

	result := ToUserDTO(*user)
	return &result, nil
}

// GetUser retrieves a user by UUID
func (s *UserFlowImpl) GetUser(ctx context.Context, uuid string) (*dto.UserDTO, error) {
	user, err := s.userRepo.ByUUID(ctx, uuid)
	if err != nil {
		return nil, NewBusinessError("USER_LOOKUP_FAILED", "Failed to lookup user", err)
	}
	if user == nil {
		return nil, NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
	}

	result := ToUserDTO(*user)
	return &result, nil
}

// ListUsers retrieves users matching the query filters
func (s *UserFlowImpl) ListUsers(ctx context.Context, req *dto.ListUsersRequest) (*dto.ListResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = utils.DefaultPageLimit
	}
	if limit > utils.MaxPageLimit {
		limit = utils.MaxPageLimit
	}

	filter := models.UserFilter{
		IsActive: req.IsActive,
		RoleID:   req.RoleID,
	}

	users, err := s.userRepo.ByFilter(ctx, filter, "created_at DESC", limit, req.Offset)
	if err != nil {
		return nil, NewBusinessError("USER_LIST_FAILED", "Failed to list users", err)
	}

	total, err := s.userRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("USER_LIST_FAILED", "Failed to count users", err)
	}

	items := make([]dto.UserDTO, 0, len(users))
	for _, u := range users {
		items = append(items, ToUserDTO(*u))
	}

	return &dto.ListResponse{
		Items: items,
		Meta:  dto.ListMeta{Total: total, Limit: limit, Offset: req.Offset},
	}, nil
}

// UpdateUser applies a partial update to an account
func (s *UserFlowImpl) UpdateUser(ctx context.Context, req *dto.UpdateUserRequest, metadata *ClientMetadata) (*dto.UserDTO, error) {
	var user *models.User

	err := repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		var err error
		user, err = s.userRepo.ByUUID(txCtx, req.UUID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}

		if req.FirstName != nil {
			user.FirstName = strings.TrimSpace(*req.FirstName)
		}
		if req.LastName != nil {
			user.LastName = strings.TrimSpace(*req.LastName)
		}
		if req.Phone != nil {
			user.Phone = req.Phone
		}
		if req.RoleID != nil {
			role, err := s.roleRepo.ByID(txCtx, *req.RoleID)
			if err != nil {
				return err
			}
			if role == nil {
				return ErrRoleNotFound
			}
			user.RoleID = req.RoleID
			user.Role = role
		}
		if req.IsActive != nil {
			user.IsActive = *req.IsActive
			// Deactivation kills every live session immediately
			if !user.IsActive {
				if err := s.sessionRepo.InvalidateAllUserSessions(txCtx, user.ID); err != nil {
					return err
				}
			}
		}

		return s.userRepo.Update(txCtx, user)
	})

	if err != nil {
		return nil, NewBusinessError("USER_UPDATE_FAILED", "User update failed", err)
	}

	msg := fmt.Sprintf("User updated: %s", user.Email)
	_ = s.createAuditLog(ctx, &user.ID, models.AuditActionRecordUpdated, msg, true, metadata)

	result := ToUserDTO(*user)
	return &result, nil
}

// DeleteUser removes an account and its sessions
func (s *UserFlowImpl) DeleteUser(ctx context.Context, uuid string, metadata *ClientMetadata) error {
	var user *models.User

	err := repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		var err error
		user, err = s.userRepo.ByUUID(txCtx, uuid)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}

		if err := s.sessionRepo.InvalidateAllUserSessions(txCtx, user.ID); err != nil {
			return err
		}

		return s.userRepo.DeleteByID(txCtx, user.ID)
	})

	if err != nil {
		return NewBusinessError("USER_DELETE_FAILED", "User deletion failed", err)
	}

	msg := fmt.Sprintf("User deleted: %s", user.Email)
	_ = s.createAuditLog(ctx, &user.ID, models.AuditActionRecordDeleted, msg, true, metadata)

	return nil
}

func (s *UserFlowImpl) createAuditLog(ctx context.Context, entityID *uint, action, description string, success bool, metadata *ClientMetadata) error {
	entity := "user"
	entry := &models.AuditLog{
		Action:      action,
		Entity:      &entity,
		EntityID:    entityID,
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

	return s.auditRepo.Save(ctx, entry)
}
