package group

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Repository handles group data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new group repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new group into the database
func (r *Repository) Create(ctx context.Context, req *CreateGroupRequest) (*Group, error) {
	query := `
		INSERT INTO groups (id, name)
		VALUES ($1, $2)
		RETURNING id, name, created_at
	`

	group := &Group{}
	err := r.db.QueryRowContext(ctx, query, uuid.NewString(), req.Name).Scan(
		&group.ID,
		&group.Name,
		&group.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	return group, nil
}

// GetByID retrieves a group by its ID
func (r *Repository) GetByID(ctx context.Context, id string) (*Group, error) {
	query := `
		SELECT id, name, created_at
		FROM groups
		WHERE id = $1
	`

	group := &Group{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&group.ID,
		&group.Name,
		&group.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	return group, nil
}

// ListByUserID retrieves all groups a user belongs to
func (r *Repository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*Group, int, error) {
	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM groups g
		JOIN group_members gm ON g.id = gm.group_id
		WHERE gm.user_id = $1
	`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count groups: %w", err)
	}

	query := `
		SELECT g.id, g.name, g.created_at
		FROM groups g
		JOIN group_members gm ON g.id = gm.group_id
		WHERE gm.user_id = $1
		ORDER BY g.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		group := &Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}

	return groups, total, nil
}

// Update renames an existing group
func (r *Repository) Update(ctx context.Context, id string, req *UpdateGroupRequest) (*Group, error) {
	query := `
		UPDATE groups
		SET name = COALESCE($2, name)
		WHERE id = $1
		RETURNING id, name, created_at
	`

	group := &Group{}
	err := r.db.QueryRowContext(ctx, query, id, req.Name).Scan(
		&group.ID,
		&group.Name,
		&group.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update group: %w", err)
	}

	return group, nil
}

// Delete removes a group and, via cascading constraints, its roster,
// sub-groups and bills
func (r *Repository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return nil
}

// AddMember adds a user to the group roster
func (r *Repository) AddMember(ctx context.Context, groupID, userID string) (*GroupMember, error) {
	query := `
		INSERT INTO group_members (group_id, user_id)
		VALUES ($1, $2)
		RETURNING group_id, user_id, joined_at
	`

	member := &GroupMember{}
	err := r.db.QueryRowContext(ctx, query, groupID, userID).Scan(
		&member.GroupID,
		&member.UserID,
		&member.JoinedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return member, nil
}

// GetMembers retrieves the group roster with user details
func (r *Repository) GetMembers(ctx context.Context, groupID string) ([]*GroupMember, error) {
	query := `
		SELECT gm.group_id, gm.user_id, gm.joined_at, u.username, u.email
		FROM group_members gm
		JOIN users u ON gm.user_id = u.id
		WHERE gm.group_id = $1
		ORDER BY gm.joined_at, u.username
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []*GroupMember
	for rows.Next() {
		member := &GroupMember{}
		if err := rows.Scan(
			&member.GroupID,
			&member.UserID,
			&member.JoinedAt,
			&member.Username,
			&member.Email,
		); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}

	return members, nil
}

// IsMember reports whether the user is on the group roster
func (r *Repository) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)`
	if err := r.db.QueryRowContext(ctx, query, groupID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return exists, nil
}

// RemoveMember removes a user from the roster and from any sub-groups
func (r *Repository) RemoveMember(ctx context.Context, groupID, userID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	subQuery := `
		DELETE FROM subgroup_members
		WHERE user_id = $2
		  AND subgroup_id IN (SELECT id FROM subgroups WHERE group_id = $1)
	`
	if _, err := tx.ExecContext(ctx, subQuery, groupID, userID); err != nil {
		return fmt.Errorf("failed to remove member from sub-groups: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`,
		groupID, userID,
	); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return tx.Commit()
}

// CreateSubGroup inserts a sub-group and its member list
func (r *Repository) CreateSubGroup(ctx context.Context, groupID string, req *CreateSubGroupRequest) (*SubGroup, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	subGroup := &SubGroup{MemberIDs: req.MemberIDs}
	query := `
		INSERT INTO subgroups (id, group_id, name)
		VALUES ($1, $2, $3)
		RETURNING id, group_id, name, created_at
	`
	err = tx.QueryRowContext(ctx, query, uuid.NewString(), groupID, req.Name).Scan(
		&subGroup.ID,
		&subGroup.GroupID,
		&subGroup.Name,
		&subGroup.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sub-group: %w", err)
	}

	for _, userID := range req.MemberIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO subgroup_members (subgroup_id, user_id) VALUES ($1, $2)`,
			subGroup.ID, userID,
		); err != nil {
			return nil, fmt.Errorf("failed to add sub-group member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sub-group: %w", err)
	}

	return subGroup, nil
}

// GetSubGroup retrieves a single sub-group with its member IDs
func (r *Repository) GetSubGroup(ctx context.Context, subGroupID string) (*SubGroup, error) {
	query := `
		SELECT sg.id, sg.group_id, sg.name, sg.created_at,
		       COALESCE(array_agg(sgm.user_id) FILTER (WHERE sgm.user_id IS NOT NULL), '{}')
		FROM subgroups sg
		LEFT JOIN subgroup_members sgm ON sg.id = sgm.subgroup_id
		WHERE sg.id = $1
		GROUP BY sg.id
	`

	subGroup := &SubGroup{}
	err := r.db.QueryRowContext(ctx, query, subGroupID).Scan(
		&subGroup.ID,
		&subGroup.GroupID,
		&subGroup.Name,
		&subGroup.CreatedAt,
		pq.Array(&subGroup.MemberIDs),
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get sub-group: %w", err)
	}

	return subGroup, nil
}

// ListSubGroups retrieves all sub-groups of a group with their member IDs
func (r *Repository) ListSubGroups(ctx context.Context, groupID string) ([]*SubGroup, error) {
	query := `
		SELECT sg.id, sg.group_id, sg.name, sg.created_at,
		       COALESCE(array_agg(sgm.user_id) FILTER (WHERE sgm.user_id IS NOT NULL), '{}')
		FROM subgroups sg
		LEFT JOIN subgroup_members sgm ON sg.id = sgm.subgroup_id
		WHERE sg.group_id = $1
		GROUP BY sg.id
		ORDER BY sg.created_at
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sub-groups: %w", err)
	}
	defer rows.Close()

	var subGroups []*SubGroup
	for rows.Next() {
		subGroup := &SubGroup{}
		if err := rows.Scan(
			&subGroup.ID,
			&subGroup.GroupID,
			&subGroup.Name,
			&subGroup.CreatedAt,
			pq.Array(&subGroup.MemberIDs),
		); err != nil {
			return nil, fmt.Errorf("failed to scan sub-group: %w", err)
		}
		subGroups = append(subGroups, subGroup)
	}

	return subGroups, nil
}

// UpdateSubGroup renames a sub-group and/or replaces its member list
func (r *Repository) UpdateSubGroup(ctx context.Context, subGroupID string, req *UpdateSubGroupRequest) (*SubGroup, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE subgroups
		SET name = COALESCE($2, name)
		WHERE id = $1
		RETURNING id, group_id, name, created_at
	`

	subGroup := &SubGroup{}
	err = tx.QueryRowContext(ctx, query, subGroupID, req.Name).Scan(
		&subGroup.ID,
		&subGroup.GroupID,
		&subGroup.Name,
		&subGroup.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update sub-group: %w", err)
	}

	if req.MemberIDs != nil {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM subgroup_members WHERE subgroup_id = $1`, subGroupID,
		); err != nil {
			return nil, fmt.Errorf("failed to clear sub-group members: %w", err)
		}
		for _, userID := range req.MemberIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO subgroup_members (subgroup_id, user_id) VALUES ($1, $2)`,
				subGroupID, userID,
			); err != nil {
				return nil, fmt.Errorf("failed to add sub-group member: %w", err)
			}
		}
		subGroup.MemberIDs = req.MemberIDs
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sub-group update: %w", err)
	}

	if req.MemberIDs == nil {
		return r.GetSubGroup(ctx, subGroupID)
	}
	return subGroup, nil
}

// DeleteSubGroup removes a sub-group and its member list
func (r *Repository) DeleteSubGroup(ctx context.Context, subGroupID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM subgroups WHERE id = $1`, subGroupID); err != nil {
		return fmt.Errorf("failed to delete sub-group: %w", err)
	}
	return nil
}
