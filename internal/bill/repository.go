package bill

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// Repository handles bill data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new bill repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a bill, its items and their assignee lists in one
// transaction. Assignee order is persisted: it determines which members
// receive the split remainder cents.
func (r *Repository) Create(ctx context.Context, bill *Bill) (*Bill, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	billQuery := `
		INSERT INTO bills (id, group_id, title, raw_markdown, total_amount, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	bill.ID = uuid.NewString()
	if err := tx.QueryRowContext(ctx, billQuery,
		bill.ID, bill.GroupID, bill.Title, bill.RawMarkdown, bill.TotalAmount, bill.CreatedBy,
	).Scan(&bill.ID, &bill.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create bill: %w", err)
	}

	for _, item := range bill.Items {
		item.ID = uuid.NewString()
		item.BillID = bill.ID
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO bill_items (id, bill_id, description, quantity, amount, paid_by)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			item.ID, bill.ID, item.Description, item.Quantity, item.Amount, item.PaidBy,
		); err != nil {
			return nil, fmt.Errorf("failed to create bill item: %w", err)
		}

		if err := insertAssignees(ctx, tx, item.ID, item.AssignedTo); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit bill: %w", err)
	}

	return bill, nil
}

func insertAssignees(ctx context.Context, tx *sql.Tx, itemID string, assignees []string) error {
	for pos, assigneeID := range assignees {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO bill_item_assignees (item_id, assignee_id, position) VALUES ($1, $2, $3)`,
			itemID, assigneeID, pos,
		); err != nil {
			return fmt.Errorf("failed to assign item: %w", err)
		}
	}
	return nil
}

// GetByID retrieves a bill with its items and assignee lists
func (r *Repository) GetByID(ctx context.Context, id string) (*Bill, error) {
	query := `
		SELECT id, group_id, title, raw_markdown, total_amount, created_by, created_at
		FROM bills
		WHERE id = $1
	`

	bill := &Bill{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&bill.ID,
		&bill.GroupID,
		&bill.Title,
		&bill.RawMarkdown,
		&bill.TotalAmount,
		&bill.CreatedBy,
		&bill.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	items, err := r.itemsWhere(ctx, `bi.bill_id = $1`, id)
	if err != nil {
		return nil, err
	}
	bill.Items = items

	return bill, nil
}

// ListByGroup retrieves all bills of a group, newest first, items included
func (r *Repository) ListByGroup(ctx context.Context, groupID string) ([]*Bill, error) {
	query := `
		SELECT id, group_id, title, raw_markdown, total_amount, created_by, created_at
		FROM bills
		WHERE group_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var bills []*Bill
	byID := map[string]*Bill{}
	for rows.Next() {
		bill := &Bill{}
		if err := rows.Scan(
			&bill.ID,
			&bill.GroupID,
			&bill.Title,
			&bill.RawMarkdown,
			&bill.TotalAmount,
			&bill.CreatedBy,
			&bill.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, bill)
		byID[bill.ID] = bill
	}

	items, err := r.itemsWhere(ctx, `b.group_id = $1`, groupID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if bill, ok := byID[item.BillID]; ok {
			bill.Items = append(bill.Items, item)
		}
	}

	return bills, nil
}

// ListItemsByGroup retrieves every item across a group's bills, oldest
// bill first, in stable item order. This is the snapshot the settlement
// engine consumes.
func (r *Repository) ListItemsByGroup(ctx context.Context, groupID string) ([]*Item, error) {
	return r.itemsWhere(ctx, `b.group_id = $1`, groupID)
}

// itemsWhere loads items joined to their bills under the given condition,
// then attaches assignees in persisted position order.
func (r *Repository) itemsWhere(ctx context.Context, cond string, arg interface{}) ([]*Item, error) {
	query := fmt.Sprintf(`
		SELECT bi.id, bi.bill_id, bi.description, bi.quantity, bi.amount, bi.paid_by
		FROM bill_items bi
		JOIN bills b ON bi.bill_id = b.id
		WHERE %s
		ORDER BY b.created_at, bi.id
	`, cond)

	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	byID := map[string]*Item{}
	for rows.Next() {
		item := &Item{AssignedTo: []string{}}
		if err := rows.Scan(
			&item.ID,
			&item.BillID,
			&item.Description,
			&item.Quantity,
			&item.Amount,
			&item.PaidBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
		byID[item.ID] = item
	}
	if len(items) == 0 {
		return items, nil
	}

	assigneeQuery := fmt.Sprintf(`
		SELECT bia.item_id, bia.assignee_id
		FROM bill_item_assignees bia
		JOIN bill_items bi ON bia.item_id = bi.id
		JOIN bills b ON bi.bill_id = b.id
		WHERE %s
		ORDER BY bia.item_id, bia.position
	`, cond)

	assigneeRows, err := r.db.QueryContext(ctx, assigneeQuery, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list item assignees: %w", err)
	}
	defer assigneeRows.Close()

	for assigneeRows.Next() {
		var itemID, assigneeID string
		if err := assigneeRows.Scan(&itemID, &assigneeID); err != nil {
			return nil, fmt.Errorf("failed to scan item assignee: %w", err)
		}
		if item, ok := byID[itemID]; ok {
			item.AssignedTo = append(item.AssignedTo, assigneeID)
		}
	}

	return items, nil
}

// GetItem retrieves a single item with its assignee list
func (r *Repository) GetItem(ctx context.Context, itemID string) (*Item, error) {
	items, err := r.itemsWhere(ctx, `bi.id = $1`, itemID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items[0], nil
}

// UpdateItem replaces an item's payer and/or assignee list
func (r *Repository) UpdateItem(ctx context.Context, itemID string, req *UpdateItemRequest) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if req.PaidBy != nil {
		if _, err := tx.ExecContext(ctx,
			`UPDATE bill_items SET paid_by = $2 WHERE id = $1`, itemID, *req.PaidBy,
		); err != nil {
			return fmt.Errorf("failed to update item payer: %w", err)
		}
	}

	if req.AssignedTo != nil {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM bill_item_assignees WHERE item_id = $1`, itemID,
		); err != nil {
			return fmt.Errorf("failed to clear item assignees: %w", err)
		}
		if err := insertAssignees(ctx, tx, itemID, req.AssignedTo); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Delete removes a bill and, via cascading constraints, its items and
// assignee lists
func (r *Repository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM bills WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	return nil
}
