package bill

import "github.com/tallyhq/tally/internal/currency"

// CreateItemRequest is one item on a bill creation request. Amount is in
// cents; assigned_to mixes member and sub-group IDs.
type CreateItemRequest struct {
	Description string   `json:"description" validate:"required"`
	Quantity    *int     `json:"quantity,omitempty"`
	Amount      int64    `json:"amount" validate:"required,gt=0"`
	PaidBy      string   `json:"paid_by" validate:"required"`
	AssignedTo  []string `json:"assigned_to"`
}

// CreateBillRequest represents the request to create a bill. Items can be
// given inline, or as raw markdown to be parsed server-side (in which case
// each parsed item is attributed to the creator and left unassigned).
// TotalAmount, when present, is validated against the item sum.
type CreateBillRequest struct {
	GroupID     string              `json:"group_id" validate:"required"`
	Title       string              `json:"title" validate:"required,min=1,max=200"`
	RawMarkdown *string             `json:"raw_markdown,omitempty"`
	Items       []CreateItemRequest `json:"items,omitempty"`
	TotalAmount *int64              `json:"total_amount,omitempty"`
}

// UpdateItemRequest re-assigns an item: who paid and who shares the cost.
type UpdateItemRequest struct {
	PaidBy     *string  `json:"paid_by,omitempty"`
	AssignedTo []string `json:"assigned_to,omitempty"`
}

// ParseRequest is the body for the markdown preview endpoint.
type ParseRequest struct {
	Markdown string `json:"markdown" validate:"required"`
}

// ItemResponse represents a bill item with a formatted amount
type ItemResponse struct {
	ID              string   `json:"id"`
	Description     string   `json:"description"`
	Quantity        *int     `json:"quantity,omitempty"`
	Amount          int64    `json:"amount"`
	AmountFormatted string   `json:"amount_formatted"`
	PaidBy          string   `json:"paid_by"`
	AssignedTo      []string `json:"assigned_to"`
}

// BillResponse represents a bill with its items
type BillResponse struct {
	ID             string          `json:"id"`
	GroupID        string          `json:"group_id"`
	Title          string          `json:"title"`
	TotalAmount    int64           `json:"total_amount"`
	TotalFormatted string          `json:"total_formatted"`
	CreatedBy      string          `json:"created_by"`
	CreatedAt      string          `json:"created_at"`
	Items          []*ItemResponse `json:"items,omitempty"`
}

// BillSummaryResponse represents a bill in list endpoints, without items
type BillSummaryResponse struct {
	ID             string `json:"id"`
	GroupID        string `json:"group_id"`
	Title          string `json:"title"`
	TotalAmount    int64  `json:"total_amount"`
	TotalFormatted string `json:"total_formatted"`
	ItemCount      int    `json:"item_count"`
	CreatedAt      string `json:"created_at"`
}

// ToResponse converts an Item model to an ItemResponse DTO
func (i *Item) ToResponse() *ItemResponse {
	return &ItemResponse{
		ID:              i.ID,
		Description:     i.Description,
		Quantity:        i.Quantity,
		Amount:          i.Amount,
		AmountFormatted: currency.FormatCents(i.Amount),
		PaidBy:          i.PaidBy,
		AssignedTo:      i.AssignedTo,
	}
}

// ToResponse converts a Bill model to a BillResponse DTO
func (b *Bill) ToResponse() *BillResponse {
	resp := &BillResponse{
		ID:             b.ID,
		GroupID:        b.GroupID,
		Title:          b.Title,
		TotalAmount:    b.TotalAmount,
		TotalFormatted: currency.FormatCents(b.TotalAmount),
		CreatedBy:      b.CreatedBy,
		CreatedAt:      b.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if len(b.Items) > 0 {
		resp.Items = make([]*ItemResponse, len(b.Items))
		for i, item := range b.Items {
			resp.Items[i] = item.ToResponse()
		}
	}
	return resp
}

// ToSummaryResponse converts a Bill model to a BillSummaryResponse DTO
func (b *Bill) ToSummaryResponse() *BillSummaryResponse {
	return &BillSummaryResponse{
		ID:             b.ID,
		GroupID:        b.GroupID,
		Title:          b.Title,
		TotalAmount:    b.TotalAmount,
		TotalFormatted: currency.FormatCents(b.TotalAmount),
		ItemCount:      len(b.Items),
		CreatedAt:      b.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
