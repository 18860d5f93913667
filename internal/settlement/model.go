package settlement

// Member is a leaf in the assignment graph: someone who can pay for items
// and be charged a share. IDs are opaque strings, stable within one
// settlement run.
type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SubGroup is a named subset of a group's members. A sub-group's ID may
// appear in an item's assignee list, standing in for all of its members.
// Member lists contain member IDs only; nesting sub-groups inside
// sub-groups is rejected by the engine.
type SubGroup struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	MemberIDs []string `json:"member_ids"`
}

// Item is one priced line on a bill. Amount is in integer cents and must be
// positive. AssignedTo is a mix of member and/or sub-group IDs sharing the
// cost; PaidBy is the member who fronted it.
type Item struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Amount      int64    `json:"amount"`
	PaidBy      string   `json:"paid_by"`
	AssignedTo  []string `json:"assigned_to"`
}

// Debt is a single directed transfer that settles part of the group's
// balances: From owes To the given positive amount of cents.
type Debt struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}
