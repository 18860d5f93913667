package user

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
}

// UpdateUserRequest represents the request body for updating a user
type UpdateUserRequest struct {
	Username       *string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	DefaultGroupID *string `json:"default_group_id,omitempty"`
}

// UserResponse represents the response for a single user
type UserResponse struct {
	ID             string  `json:"id"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	DefaultGroupID *string `json:"default_group_id,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

// ToResponse converts a User model to a UserResponse DTO
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		DefaultGroupID: u.DefaultGroupID,
		CreatedAt:      u.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
