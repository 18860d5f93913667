package settlement

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tallyhq/tally/internal/bill"
	"github.com/tallyhq/tally/internal/group"
)

// Common errors
var (
	ErrGroupNotFound = errors.New("group not found")
	ErrBillNotFound  = errors.New("bill not found")
)

// Service assembles the snapshot the engine needs (roster, sub-groups and
// items) and runs the computation. It reads storage but never writes:
// debts are derived, not persisted.
type Service struct {
	groupRepo *group.Repository
	billRepo  *bill.Repository
}

// NewService creates a new settlement service
func NewService(groupRepo *group.Repository, billRepo *bill.Repository) *Service {
	return &Service{groupRepo: groupRepo, billRepo: billRepo}
}

// GroupDebts computes the transfers that settle a group's balances across
// all of its bills, or across a single bill when billID is non-nil.
func (s *Service) GroupDebts(ctx context.Context, groupID string, billID *string) (*DebtsResponse, error) {
	g, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}

	members, subGroups, names, err := s.loadParticipants(ctx, groupID)
	if err != nil {
		return nil, err
	}

	items, err := s.loadItems(ctx, groupID, billID)
	if err != nil {
		return nil, err
	}

	debts, err := CalculateDebts(items, members, subGroups)
	if err != nil {
		slog.Warn("debt calculation rejected snapshot", "group_id", groupID, "error", err)
		return nil, err
	}

	return toDebtsResponse(groupID, billID, debts, names), nil
}

// loadParticipants converts the stored roster and sub-groups into engine
// types. Roster order (join time) is the deterministic order the engine's
// output follows.
func (s *Service) loadParticipants(ctx context.Context, groupID string) ([]Member, []SubGroup, map[string]string, error) {
	roster, err := s.groupRepo.GetMembers(ctx, groupID)
	if err != nil {
		return nil, nil, nil, err
	}

	members := make([]Member, len(roster))
	names := make(map[string]string, len(roster))
	for i, m := range roster {
		members[i] = Member{ID: m.UserID, Name: m.Username}
		names[m.UserID] = m.Username
	}

	stored, err := s.groupRepo.ListSubGroups(ctx, groupID)
	if err != nil {
		return nil, nil, nil, err
	}

	subGroups := make([]SubGroup, len(stored))
	for i, sg := range stored {
		subGroups[i] = SubGroup{ID: sg.ID, Name: sg.Name, MemberIDs: sg.MemberIDs}
	}

	return members, subGroups, names, nil
}

func (s *Service) loadItems(ctx context.Context, groupID string, billID *string) ([]Item, error) {
	var stored []*bill.Item

	if billID != nil {
		b, err := s.billRepo.GetByID(ctx, *billID)
		if err != nil {
			return nil, err
		}
		if b == nil || b.GroupID != groupID {
			return nil, ErrBillNotFound
		}
		stored = b.Items
	} else {
		var err error
		stored, err = s.billRepo.ListItemsByGroup(ctx, groupID)
		if err != nil {
			return nil, err
		}
	}

	items := make([]Item, len(stored))
	for i, it := range stored {
		items[i] = Item{
			ID:          it.ID,
			Description: it.Description,
			Amount:      it.Amount,
			PaidBy:      it.PaidBy,
			AssignedTo:  it.AssignedTo,
		}
	}

	return items, nil
}
