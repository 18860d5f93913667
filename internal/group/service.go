package group

import (
	"context"
	"errors"
	"log/slog"
)

// Common errors
var (
	ErrGroupNotFound       = errors.New("group not found")
	ErrSubGroupNotFound    = errors.New("sub-group not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberAlreadyExists = errors.New("user is already a member of this group")
	ErrNotOnRoster         = errors.New("sub-group members must be on the group roster")
)

// Service handles group business logic
type Service struct {
	repo *Repository
}

// NewService creates a new group service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a new group with the creator on the roster
func (s *Service) Create(ctx context.Context, creatorID string, req *CreateGroupRequest) (*Group, error) {
	group, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.AddMember(ctx, group.ID, creatorID); err != nil {
		// TODO: Should rollback group creation in a transaction
		slog.Error("failed to add creator to new group", "group_id", group.ID, "error", err)
		return nil, err
	}

	return group, nil
}

// GetByID retrieves a group by its ID
func (s *Service) GetByID(ctx context.Context, id string) (*Group, error) {
	group, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

// GetByIDWithDetails retrieves a group with its roster and sub-groups
func (s *Service) GetByIDWithDetails(ctx context.Context, id string) (*Group, []*GroupMember, []*SubGroup, error) {
	group, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}

	members, err := s.repo.GetMembers(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}

	subGroups, err := s.repo.ListSubGroups(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}

	return group, members, subGroups, nil
}

// ListByUserID retrieves all groups for a user
func (s *Service) ListByUserID(ctx context.Context, userID string, page, perPage int) ([]*Group, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByUserID(ctx, userID, perPage, offset)
}

// Update renames an existing group
func (s *Service) Update(ctx context.Context, id string, req *UpdateGroupRequest) (*Group, error) {
	group, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

// Delete removes a group
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// AddMember adds a user to the group roster
func (s *Service) AddMember(ctx context.Context, groupID string, req *AddMemberRequest) (*GroupMember, error) {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	exists, err := s.repo.IsMember(ctx, groupID, req.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrMemberAlreadyExists
	}

	return s.repo.AddMember(ctx, groupID, req.UserID)
}

// GetMembers retrieves the group roster
func (s *Service) GetMembers(ctx context.Context, groupID string) ([]*GroupMember, error) {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	return s.repo.GetMembers(ctx, groupID)
}

// RemoveMember removes a user from the roster and any sub-groups
func (s *Service) RemoveMember(ctx context.Context, groupID, userID string) error {
	exists, err := s.repo.IsMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrMemberNotFound
	}

	return s.repo.RemoveMember(ctx, groupID, userID)
}

// CreateSubGroup creates a named subset of the roster. Every listed member
// must already be on the roster; sub-groups cannot reference other
// sub-groups, so member IDs are validated as user IDs here.
func (s *Service) CreateSubGroup(ctx context.Context, groupID string, req *CreateSubGroupRequest) (*SubGroup, error) {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	if err := s.validateRoster(ctx, groupID, req.MemberIDs); err != nil {
		return nil, err
	}

	return s.repo.CreateSubGroup(ctx, groupID, req)
}

// ListSubGroups retrieves all sub-groups of a group
func (s *Service) ListSubGroups(ctx context.Context, groupID string) ([]*SubGroup, error) {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	return s.repo.ListSubGroups(ctx, groupID)
}

// UpdateSubGroup renames a sub-group or replaces its member list
func (s *Service) UpdateSubGroup(ctx context.Context, groupID, subGroupID string, req *UpdateSubGroupRequest) (*SubGroup, error) {
	existing, err := s.repo.GetSubGroup(ctx, subGroupID)
	if err != nil {
		return nil, err
	}
	if existing == nil || existing.GroupID != groupID {
		return nil, ErrSubGroupNotFound
	}

	if req.MemberIDs != nil {
		if err := s.validateRoster(ctx, groupID, req.MemberIDs); err != nil {
			return nil, err
		}
	}

	return s.repo.UpdateSubGroup(ctx, subGroupID, req)
}

// DeleteSubGroup removes a sub-group
func (s *Service) DeleteSubGroup(ctx context.Context, groupID, subGroupID string) error {
	existing, err := s.repo.GetSubGroup(ctx, subGroupID)
	if err != nil {
		return err
	}
	if existing == nil || existing.GroupID != groupID {
		return ErrSubGroupNotFound
	}

	return s.repo.DeleteSubGroup(ctx, subGroupID)
}

// validateRoster checks that every ID is a roster member of the group.
func (s *Service) validateRoster(ctx context.Context, groupID string, userIDs []string) error {
	members, err := s.repo.GetMembers(ctx, groupID)
	if err != nil {
		return err
	}

	roster := make(map[string]bool, len(members))
	for _, m := range members {
		roster[m.UserID] = true
	}

	for _, id := range userIDs {
		if !roster[id] {
			return ErrNotOnRoster
		}
	}
	return nil
}
