package group

// CreateGroupRequest represents the request to create a new group
type CreateGroupRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// UpdateGroupRequest represents the request to rename a group
type UpdateGroupRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
}

// AddMemberRequest represents the request to add a user to the roster
type AddMemberRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// CreateSubGroupRequest represents the request to create a sub-group
type CreateSubGroupRequest struct {
	Name      string   `json:"name" validate:"required,min=1,max=100"`
	MemberIDs []string `json:"member_ids" validate:"required,min=1"`
}

// UpdateSubGroupRequest represents the request to update a sub-group
type UpdateSubGroupRequest struct {
	Name      *string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	MemberIDs []string `json:"member_ids,omitempty"`
}

// GroupResponse represents the response for a group
type GroupResponse struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	CreatedAt string              `json:"created_at"`
	Members   []*MemberResponse   `json:"members,omitempty"`
	SubGroups []*SubGroupResponse `json:"sub_groups,omitempty"`
}

// MemberResponse represents a roster member in a group response
type MemberResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	JoinedAt string `json:"joined_at"`
}

// SubGroupResponse represents a sub-group in a group response
type SubGroupResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	MemberIDs []string `json:"member_ids"`
	CreatedAt string   `json:"created_at"`
}

// ToResponse converts a Group model to a GroupResponse DTO
func (g *Group) ToResponse() *GroupResponse {
	return &GroupResponse{
		ID:        g.ID,
		Name:      g.Name,
		CreatedAt: g.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a GroupMember model to a MemberResponse DTO
func (m *GroupMember) ToResponse() *MemberResponse {
	return &MemberResponse{
		UserID:   m.UserID,
		Username: m.Username,
		Email:    m.Email,
		JoinedAt: m.JoinedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a SubGroup model to a SubGroupResponse DTO
func (sg *SubGroup) ToResponse() *SubGroupResponse {
	return &SubGroupResponse{
		ID:        sg.ID,
		Name:      sg.Name,
		MemberIDs: sg.MemberIDs,
		CreatedAt: sg.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
