package settlement

import "github.com/tallyhq/tally/internal/currency"

// DebtResponse represents one transfer in the API response
type DebtResponse struct {
	FromUserID      string `json:"from_user_id"`
	FromUsername    string `json:"from_username,omitempty"`
	ToUserID        string `json:"to_user_id"`
	ToUsername      string `json:"to_username,omitempty"`
	Amount          int64  `json:"amount"`
	AmountFormatted string `json:"amount_formatted"`
}

// DebtsResponse represents the computed settlement for a group snapshot
type DebtsResponse struct {
	GroupID        string          `json:"group_id"`
	BillID         *string         `json:"bill_id,omitempty"`
	Debts          []*DebtResponse `json:"debts"`
	TotalSettled   int64           `json:"total_settled"`
	TotalFormatted string          `json:"total_formatted"`
}

// toDebtsResponse converts engine output into the API shape, resolving
// member IDs to usernames where known.
func toDebtsResponse(groupID string, billID *string, debts []Debt, names map[string]string) *DebtsResponse {
	resp := &DebtsResponse{
		GroupID: groupID,
		BillID:  billID,
		Debts:   make([]*DebtResponse, len(debts)),
	}

	for i, d := range debts {
		resp.Debts[i] = &DebtResponse{
			FromUserID:      d.From,
			FromUsername:    names[d.From],
			ToUserID:        d.To,
			ToUsername:      names[d.To],
			Amount:          d.Amount,
			AmountFormatted: currency.FormatCents(d.Amount),
		}
		resp.TotalSettled += d.Amount
	}
	resp.TotalFormatted = currency.FormatCents(resp.TotalSettled)

	return resp
}
