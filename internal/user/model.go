package user

import "time"

// User represents a user in the system
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	DefaultGroupID *string   `json:"default_group_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
