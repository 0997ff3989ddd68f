// Package businessflow contains the core business logic and use cases for role management workflows
package businessflow

import (
	"context"
	"fmt"

	"github.com/deelflow/deelflow-api/app/dto"
	"github.com/deelflow/deelflow-api/models"
	"github.com/deelflow/deelflow-api/repository"
	"gorm.io/gorm"
)

// RoleFlow handles role and permission management
type RoleFlow interface {
	CreateRole(ctx context.Context, req *dto.CreateRoleRequest, metadata *ClientMetadata) (*dto.RoleDTO, error)
	GetRole(ctx context.Context, uuid string) (*dto.RoleDTO, error)
	ListRoles(ctx context.Context) ([]dto.RoleDTO, error)
	UpdateRole(ctx context.Context, req *dto.UpdateRoleRequest, metadata *ClientMetadata) (*dto.RoleDTO, error)
	DeleteRole(ctx context.Context, uuid string, metadata *ClientMetadata) error
	ListPermissions(ctx context.Context) ([]dto.PermissionDTO, error)
}

// RoleFlowImpl implements the role business flow
type RoleFlowImpl struct {
	roleRepo  repository.RoleRepository
	userRepo  repository.UserRepository
	auditRepo repository.AuditLogRepository
	db        *gorm.DB
}

// NewRoleFlow creates a new role flow instance
func NewRoleFlow(
	roleRepo repository.RoleRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) RoleFlow {
	return &RoleFlowImpl{
		roleRepo:  roleRepo,
		userRepo:  userRepo,
		auditRepo: auditRepo,
		db:        db,
	}
}

// CreateRole creates a role and attaches the named permissions
func (s *RoleFlowImpl) CreateRole(ctx context.Context, req *dto.CreateRoleRequest, metadata *ClientMetadata) (*dto.RoleDTO, error) {
	role := &models.Role{
		Name:        req.Name,
		Description: req.Description,
	}

	err := repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		existing, err := s.roleRepo.ByName(txCtx, req.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrRoleNameTaken
		}

		if err := s.roleRepo.Save(txCtx, role); err != nil {
			return err
		}

		if len(req.Permissions) > 0 {
			permissions, err := s.roleRepo.PermissionsByCodenames(txCtx, req.Permissions)
			if err != nil {
				return err
			}
			if err := s.roleRepo.ReplacePermissions(txCtx, role.ID, permissions); err != nil {
				return err
			}
			for _, p := range permissions {
				role.Permissions = append(role.Permissions, *p)
			}
		}

		return nil
	})

	if err != nil {
		return nil, NewBusinessError("ROLE_CREATION_FAILED", "Role creation failed", err)
	}

	msg := fmt.Sprintf("Role created: %s", role.Name)
	_ = s.createAuditLog(ctx, &role.ID, models.AuditActionRecordCreated, msg, true, metadata)

	result := ToRoleDTO(*role)
	return &result, nil
}

// GetRole retrieves a role by UUID with its permissions
func (s *RoleFlowImpl) GetRole(ctx context.Context, uuid string) (*dto.RoleDTO, error) {
	role, err := s.roleRepo.ByUUID(ctx, uuid)
	if err != nil {
		return nil, NewBusinessError("ROLE_LOOKUP_FAILED", "Failed to lookup role", err)
	}
	if role == nil {
		return nil, NewBusinessError("ROLE_NOT_FOUND", "Role not found", ErrRoleNotFound)
	}

	result := ToRoleDTO(*role)
	return &result, nil
}

// ListRoles retrieves all roles
func (s *RoleFlowImpl) ListRoles(ctx context.Context) ([]dto.RoleDTO, error) {
	roles, err := s.roleRepo.ByFilter(ctx, models.RoleFilter{}, "name ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("ROLE_LIST_FAILED", "Failed to list roles", err)
	}

	items := make([]dto.RoleDTO, 0, len(roles))
	for _, r := range roles {
		items = append(items, ToRoleDTO(*r))
	}

	return items, nil
}

// UpdateRole applies a partial update, replacing the permission set when present
func (s *RoleFlowImpl) UpdateRole(ctx context.Context, req *dto.UpdateRoleRequest, metadata *ClientMetadata) (*dto.RoleDTO, error) {
	var role *models.Role

	err := repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		var err error
		role, err = s.roleRepo.ByUUID(txCtx, req.UUID)
		if err != nil {
			return err
		}
		if role == nil {
			return ErrRoleNotFound
		}
		if role.IsSystem {
			return ErrSystemRoleReadOnly
		}

		if req.Name != nil && *req.Name != role.Name {
			existing, err := s.roleRepo.ByName(txCtx, *req.Name)
			if err != nil {
				return err
			}
			if existing != nil {
				return ErrRoleNameTaken
			}
			role.Name = *req.Name
		}
		if req.Description != nil {
			role.Description = req.Description
		}

		if err := s.roleRepo.Update(txCtx, role); err != nil {
			return err
		}

		if req.Permissions != nil {
			permissions, err := s.roleRepo.PermissionsByCodenames(txCtx, req.Permissions)
			if err != nil {
				return err
			}
			if err := s.roleRepo.ReplacePermissions(txCtx, role.ID, permissions); err != nil {
				return err
			}
			role.Permissions = role.Permissions[:0]
			for _, p := range permissions {
				role.Permissions = append(role.Permissions, *p)
			}
		}

		return nil
	})

	if err != nil {
		return nil, NewBusinessError("ROLE_UPDATE_FAILED", "Role update failed", err)
	}

	msg := fmt.Sprintf("Role updated: %s", role.Name)
	_ = s.createAuditLog(ctx, &role.ID, models.AuditActionRecordUpdated, msg, true, metadata)

	result := ToRoleDTO(*role)
	return &result, nil
}

// DeleteRole removes a role unless it is a system role or still assigned
func (s *RoleFlowImpl) DeleteRole(ctx context.Context, uuid string, metadata *ClientMetadata) error {
	var role *models.Role

	err := repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		var err error
		role, err = s.roleRepo.ByUUID(txCtx, uuid)
		if err != nil {
			return err
		}
		if role == nil {
			return ErrRoleNotFound
		}
		if role.IsSystem {
			return ErrSystemRoleReadOnly
		}

		inUse, err := s.userRepo.Exists(txCtx, models.UserFilter{RoleID: &role.ID})
		if err != nil {
			return err
		}
		if inUse {
			return ErrRoleInUse
		}

		return s.roleRepo.DeleteByID(txCtx, role.ID)
	})

	if err != nil {
		return NewBusinessError("ROLE_DELETE_FAILED", "Role deletion failed", err)
	}

	msg := fmt.Sprintf("Role deleted: %s", role.Name)
	_ = s.createAuditLog(ctx, &role.ID, models.AuditActionRecordDeleted, msg, true, metadata)

	return nil
}

// ListPermissions retrieves the full permission catalogue
func (s *RoleFlowImpl) ListPermissions(ctx context.Context) ([]dto.PermissionDTO, error) {
	permissions, err := s.roleRepo.ListPermissions(ctx)
	if err != nil {
		return nil, NewBusinessError("PERMISSION_LIST_FAILED", "Failed to list permissions", err)
	}

	items := make([]dto.PermissionDTO, 0, len(permissions))
	for _, p := range permissions {
		items = append(items, dto.PermissionDTO{
			ID:       p.ID,
			Codename: p.Codename,
			Name:     p.Name,
			Category: p.Category,
		})
	}

	return items, nil
}

func (s *RoleFlowImpl) createAuditLog(ctx context.Context, entityID *uint, action, description string, success bool, metadata *ClientMetadata) error {
	entity := "role"
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
