package dto

// CreateRoleRequest is the payload for POST /api/roles
type CreateRoleRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=100"`
	Description *string  `json:"description,omitempty"`
	Permissions []string `json:"permissions,omitempty" validate:"omitempty,dive,min=1,max=100"`
}

// UpdateRoleRequest is the payload for PUT /api/roles/:uuid
type UpdateRoleRequest struct {
	UUID string `json:"-" validate:"required,uuid"`

	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string  `json:"description,omitempty"`
	Permissions []string `json:"permissions,omitempty" validate:"omitempty,dive,min=1,max=100"`
}

// RoleDTO is the read shape of a role with its permission codenames
type RoleDTO struct {
	ID          uint     `json:"id"`
	UUID        string   `json:"uuid"`
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	IsSystem    bool     `json:"is_system"`
	Permissions []string `json:"permissions"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// PermissionDTO is the read shape of a grantable permission
type PermissionDTO struct {
	ID       uint    `json:"id"`
	Codename string  `json:"codename"`
	Name     string  `json:"name"`
	Category *string `json:"category,omitempty"`
}
