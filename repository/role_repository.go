package repository

import (
	"context"
	"errors"

	"github.com/deelflow/deelflow-api/models"
	"github.com/deelflow/deelflow-api/utils"
	"gorm.io/gorm"
)

// RoleRepositoryImpl implements the RoleRepository interface
type RoleRepositoryImpl struct {
	*BaseRepository[models.Role, models.RoleFilter]
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &RoleRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Role, models.RoleFilter](db),
	}
}

// ByID retrieves a role by ID with permissions preloaded
func (r *RoleRepositoryImpl) ByID(ctx context.Context, id uint) (*models.Role, error) {
	db := r.getDB(ctx)

	var role models.Role
	err := db.Preload("Permissions").
		Last(&role, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &role, nil
}

// ByUUID retrieves a role by UUID
func (r *RoleRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Role, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	filter := models.RoleFilter{UUID: &parsedUUID}
	roles, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}

	if len(roles) == 0 {
		return nil, nil
	}

	return roles[0], nil
}

// ByName retrieves a role by its unique name
func (r *RoleRepositoryImpl) ByName(ctx context.Context, name string) (*models.Role, error) {
	filter := models.RoleFilter{Name: &name}
	roles, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}

	if len(roles) == 0 {
		return nil, nil
	}

	return roles[0], nil
}

// PermissionsByCodenames resolves permissions by their codename list
func (r *RoleRepositoryImpl) PermissionsByCodenames(ctx context.Context, codenames []string) ([]*models.Permission, error) {
	if len(codenames) == 0 {
		return nil, nil
	}

	db := r.getDB(ctx)

	var permissions []*models.Permission
	err := db.Where("codename IN ?", codenames).Find(&permissions).Error
	if err != nil {
		return nil, err
	}

	return permissions, nil
}

// ReplacePermissions clears the role's permission set and writes the new one.
// The clear and the insert are two sequential statements on the same
// connection; callers needing atomicity must wrap this in WithTransaction.
func (r *RoleRepositoryImpl) ReplacePermissions(ctx context.Context, roleID uint, permissions []*models.Permission) error {
	db := r.getDB(ctx)

	role := models.Role{ID: roleID}
	assoc := db.Model(&role).Association("Permissions")

	if err := assoc.Clear(); err != nil {
		return err
	}
	if len(permissions) == 0 {
		return nil
	}
	if err := assoc.Append(permissions); err != nil {
		return err
	}

	return db.Model(&models.Role{}).
		Where("id = ?", roleID).
		Update("updated_at", utils.UTCNow()).Error
}

// ListPermissions retrieves every registered permission
func (r *RoleRepositoryImpl) ListPermissions(ctx context.Context) ([]*models.Permission, error) {
	db := r.getDB(ctx)

	var permissions []*models.Permission
	err := db.Order("codename ASC").Find(&permissions).Error
	if err != nil {
		return nil, err
	}

	return permissions, nil
}

// ByFilter retrieves roles based on filter criteria
func (r *RoleRepositoryImpl) ByFilter(ctx context.Context, filter models.RoleFilter, orderBy string, limit, offset int) ([]*models.Role, error) {
	db := r.getDB(ctx)

	var roles []*models.Role
	query := r.applyFilter(db, filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	query = query.Preload("Permissions")

	err := query.Find(&roles).Error
	if err != nil {
		return nil, err
	}

	return roles, nil
}

// Count returns the number of roles matching the filter
func (r *RoleRepositoryImpl) Count(ctx context.Context, filter models.RoleFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Role{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any role matching the filter exists
func (r *RoleRepositoryImpl) Exists(ctx context.Context, filter models.RoleFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *RoleRepositoryImpl) applyFilter(db *gorm.DB, filter models.RoleFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.Name != nil {
		db = db.Where("name = ?", *filter.Name)
	}

	return db
}
