package dto

// CreateUserRequest is the payload for POST /api/users
type CreateUserRequest struct {
	Email     string  `json:"email" validate:"required,email,max=255"`
	Password  string  `json:"password" validate:"required,min=8,max=128"`
	FirstName string  `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string  `json:"last_name" validate:"required,min=1,max=100"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	RoleID    *uint   `json:"role_id,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

// UpdateUserRequest is the payload for PUT /api/users/:uuid
type UpdateUserRequest struct {
	UUID string `json:"-" validate:"required,uuid"`

	FirstName *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,min=1,max=100"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	RoleID    *uint   `json:"role_id,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

// UserDTO is the read shape of a user account
type UserDTO struct {
	ID          uint    `json:"id"`
	UUID        string  `json:"uuid"`
	Email       string  `json:"email"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Phone       *string `json:"phone,omitempty"`
	Role        *string `json:"role,omitempty"`
	IsActive    bool    `json:"is_active"`
	IsVerified  bool    `json:"is_verified"`
	LastLoginAt *string `json:"last_login_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// ListUsersRequest captures query parameters for user listing
type ListUsersRequest struct {
	IsActive *bool `query:"is_active"`
	RoleID   *uint `query:"role_id"`
	Limit    int   `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset   int   `query:"offset" validate:"omitempty,min=0"`
}
