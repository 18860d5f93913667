package bill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tallyhq/tally/internal/group"
)

// Common errors
var (
	ErrBillNotFound    = errors.New("bill not found")
	ErrItemNotFound    = errors.New("item not found")
	ErrGroupNotFound   = errors.New("group not found")
	ErrNoItems         = errors.New("bill must have items or raw markdown")
	ErrInvalidAmount   = errors.New("item amount must be positive")
	ErrTotalMismatch   = errors.New("items do not sum to the declared total")
	ErrUnknownPayer    = errors.New("payer must be on the group roster")
	ErrUnknownAssignee = errors.New("assignees must be roster members or sub-groups of the group")
)

// Service handles bill business logic
type Service struct {
	repo      *Repository
	groupRepo *group.Repository
}

// NewService creates a new bill service
func NewService(repo *Repository, groupRepo *group.Repository) *Service {
	return &Service{repo: repo, groupRepo: groupRepo}
}

// Parse previews a markdown bill without persisting anything.
func (s *Service) Parse(markdown string) ([]ParsedItem, error) {
	return ParseMarkdownTable(markdown)
}

// Create validates and persists a bill. Items arrive inline or as raw
// markdown; markdown items are attributed to the creator and left
// unassigned for later assignment. Amounts are validated positive here, at
// the ingestion boundary, and the declared total (when present) must match
// the item sum to the cent.
func (s *Service) Create(ctx context.Context, creatorID string, req *CreateBillRequest) (*Bill, error) {
	g, err := s.groupRepo.GetByID(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}

	items := make([]*Item, 0, len(req.Items))
	for _, ir := range req.Items {
		items = append(items, &Item{
			Description: ir.Description,
			Quantity:    ir.Quantity,
			Amount:      ir.Amount,
			PaidBy:      ir.PaidBy,
			AssignedTo:  ir.AssignedTo,
		})
	}

	if req.RawMarkdown != nil && len(items) == 0 {
		parsed, err := ParseMarkdownTable(*req.RawMarkdown)
		if err != nil {
			return nil, err
		}
		for _, p := range parsed {
			items = append(items, &Item{
				Description: p.Description,
				Quantity:    p.Quantity,
				Amount:      p.Amount,
				PaidBy:      creatorID,
				AssignedTo:  []string{},
			})
		}
	}

	if len(items) == 0 {
		return nil, ErrNoItems
	}

	var total int64
	for _, item := range items {
		if item.Amount <= 0 {
			return nil, fmt.Errorf("item %q: %w", item.Description, ErrInvalidAmount)
		}
		total += item.Amount
	}
	if req.TotalAmount != nil && *req.TotalAmount != total {
		return nil, fmt.Errorf("declared %d, items sum to %d: %w", *req.TotalAmount, total, ErrTotalMismatch)
	}

	if err := s.validateParticipants(ctx, req.GroupID, items); err != nil {
		return nil, err
	}

	bill := &Bill{
		GroupID:     req.GroupID,
		Title:       req.Title,
		RawMarkdown: req.RawMarkdown,
		TotalAmount: total,
		CreatedBy:   creatorID,
		Items:       items,
	}

	created, err := s.repo.Create(ctx, bill)
	if err != nil {
		slog.Error("failed to create bill", "group_id", req.GroupID, "error", err)
		return nil, err
	}

	slog.Info("bill created", "bill_id", created.ID, "group_id", created.GroupID, "items", len(created.Items), "total", created.TotalAmount)
	return created, nil
}

// GetByID retrieves a bill with its items
func (s *Service) GetByID(ctx context.Context, id string) (*Bill, error) {
	bill, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, ErrBillNotFound
	}
	return bill, nil
}

// ListByGroup retrieves all bills of a group
func (s *Service) ListByGroup(ctx context.Context, groupID string) ([]*Bill, error) {
	g, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}

	return s.repo.ListByGroup(ctx, groupID)
}

// UpdateItem re-assigns an item's payer and/or assignee list
func (s *Service) UpdateItem(ctx context.Context, billID, itemID string, req *UpdateItemRequest) (*Item, error) {
	bill, err := s.repo.GetByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, ErrBillNotFound
	}

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.BillID != billID {
		return nil, ErrItemNotFound
	}

	// Validate the would-be state of the item before writing it.
	candidate := &Item{PaidBy: item.PaidBy, AssignedTo: item.AssignedTo, Amount: item.Amount}
	if req.PaidBy != nil {
		candidate.PaidBy = *req.PaidBy
	}
	if req.AssignedTo != nil {
		candidate.AssignedTo = req.AssignedTo
	}
	if err := s.validateParticipants(ctx, bill.GroupID, []*Item{candidate}); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateItem(ctx, itemID, req); err != nil {
		return nil, err
	}

	return s.repo.GetItem(ctx, itemID)
}

// Delete removes a bill
func (s *Service) Delete(ctx context.Context, id string) error {
	bill, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if bill == nil {
		return ErrBillNotFound
	}

	return s.repo.Delete(ctx, id)
}

// validateParticipants checks every payer is a roster member and every
// assignee is a roster member or a sub-group of the bill's group.
func (s *Service) validateParticipants(ctx context.Context, groupID string, items []*Item) error {
	members, err := s.groupRepo.GetMembers(ctx, groupID)
	if err != nil {
		return err
	}
	subGroups, err := s.groupRepo.ListSubGroups(ctx, groupID)
	if err != nil {
		return err
	}

	roster := make(map[string]bool, len(members))
	for _, m := range members {
		roster[m.UserID] = true
	}
	subGroupIDs := make(map[string]bool, len(subGroups))
	for _, sg := range subGroups {
		subGroupIDs[sg.ID] = true
	}

	for _, item := range items {
		if !roster[item.PaidBy] {
			return fmt.Errorf("item %q paid by %q: %w", item.Description, item.PaidBy, ErrUnknownPayer)
		}
		for _, assignee := range item.AssignedTo {
			if !roster[assignee] && !subGroupIDs[assignee] {
				return fmt.Errorf("item %q assignee %q: %w", item.Description, assignee, ErrUnknownAssignee)
			}
		}
	}
	return nil
}
