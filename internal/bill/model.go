package bill

import "time"

// Bill represents an itemized bill belonging to a group. All amounts are
// integer cents.
type Bill struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"group_id"`
	Title       string    `json:"title"`
	RawMarkdown *string   `json:"raw_markdown,omitempty"`
	TotalAmount int64     `json:"total_amount"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`

	Items []*Item `json:"items,omitempty"`
}

// Item is one priced line on a bill. AssignedTo holds member and/or
// sub-group IDs sharing the cost; an item may remain unassigned between
// import and assignment, but unassigned items block debt computation.
type Item struct {
	ID          string   `json:"id"`
	BillID      string   `json:"bill_id"`
	Description string   `json:"description"`
	Quantity    *int     `json:"quantity,omitempty"`
	Amount      int64    `json:"amount"`
	PaidBy      string   `json:"paid_by"`
	AssignedTo  []string `json:"assigned_to"`
}
