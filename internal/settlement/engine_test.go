package settlement

import (
	"errors"
	"reflect"
	"testing"
)

func members(ids ...string) []Member {
	out := make([]Member, len(ids))
	for i, id := range ids {
		out[i] = Member{ID: id, Name: id}
	}
	return out
}

func TestCalculateDebts(t *testing.T) {
	tests := []struct {
		name      string
		items     []Item
		members   []Member
		subGroups []SubGroup
		wantErr   error
		want      []Debt
	}{
		{
			name: "lunch split three ways, remainder to first assignee",
			items: []Item{
				{Description: "Lunch", Amount: 1000, PaidBy: "A", AssignedTo: []string{"A", "B", "C"}},
			},
			members: members("A", "B", "C"),
			// splitCents(1000,3) = [334,333,333]; A nets 666, B and C owe 333 each.
			want: []Debt{
				{From: "B", To: "A", Amount: 333},
				{From: "C", To: "A", Amount: 333},
			},
		},
		{
			name: "small amount, remainder cent goes to first assignee in order",
			items: []Item{
				{Description: "Gum", Amount: 10, PaidBy: "A", AssignedTo: []string{"A", "B", "C"}},
			},
			members: members("A", "B", "C"),
			// shares [4,3,3]: A nets 6, B and C owe 3 each.
			want: []Debt{
				{From: "B", To: "A", Amount: 3},
				{From: "C", To: "A", Amount: 3},
			},
		},
		{
			name: "empty assignee list aborts the whole computation",
			items: []Item{
				{Description: "Lunch", Amount: 1000, PaidBy: "A", AssignedTo: []string{"A", "B"}},
				{Description: "Orphan", Amount: 500, PaidBy: "A", AssignedTo: []string{}},
			},
			members: members("A", "B"),
			wantErr: ErrMissingAssignees,
		},
		{
			name: "sub-group assignment resolves to identical balances as the explicit list",
			items: []Item{
				{Description: "Gas", Amount: 1000, PaidBy: "A", AssignedTo: []string{"drivers"}},
			},
			members: members("A", "B", "C"),
			subGroups: []SubGroup{
				{ID: "drivers", Name: "Drivers", MemberIDs: []string{"B", "C"}},
			},
			want: []Debt{
				{From: "B", To: "A", Amount: 500},
				{From: "C", To: "A", Amount: 500},
			},
		},
		{
			name: "member named both directly and via sub-group is charged one share",
			items: []Item{
				{Description: "Pizza", Amount: 900, PaidBy: "A", AssignedTo: []string{"B", "drivers"}},
			},
			members: members("A", "B", "C"),
			subGroups: []SubGroup{
				{ID: "drivers", Name: "Drivers", MemberIDs: []string{"B", "C"}},
			},
			// Expansion is {B, C}, not {B, B, C}: 450 each.
			want: []Debt{
				{From: "B", To: "A", Amount: 450},
				{From: "C", To: "A", Amount: 450},
			},
		},
		{
			name: "opposing items net before matching",
			items: []Item{
				{Description: "Dinner", Amount: 1000, PaidBy: "A", AssignedTo: []string{"B"}},
				{Description: "Taxi", Amount: 600, PaidBy: "B", AssignedTo: []string{"A"}},
			},
			members: members("A", "B"),
			// B owes 1000, A owes 600: a single 400 transfer, not two.
			want: []Debt{
				{From: "B", To: "A", Amount: 400},
			},
		},
		{
			name: "zero amount item rejected",
			items: []Item{
				{Description: "Freebie", Amount: 0, PaidBy: "A", AssignedTo: []string{"B"}},
			},
			members: members("A", "B"),
			wantErr: ErrInvalidAmount,
		},
		{
			name: "negative amount item rejected",
			items: []Item{
				{Description: "Refund", Amount: -250, PaidBy: "A", AssignedTo: []string{"B"}},
			},
			members: members("A", "B"),
			wantErr: ErrInvalidAmount,
		},
		{
			name: "sub-group containing a sub-group rejected",
			items: []Item{
				{Description: "Lunch", Amount: 1000, PaidBy: "A", AssignedTo: []string{"outer"}},
			},
			members: members("A", "B"),
			subGroups: []SubGroup{
				{ID: "inner", Name: "Inner", MemberIDs: []string{"B"}},
				{ID: "outer", Name: "Outer", MemberIDs: []string{"inner"}},
			},
			wantErr: ErrNestedSubGroup,
		},
		{
			name:    "no items settles to no debts",
			items:   []Item{},
			members: members("A", "B"),
			want:    []Debt{},
		},
		{
			name: "everyone even after symmetric items",
			items: []Item{
				{Description: "Round one", Amount: 500, PaidBy: "A", AssignedTo: []string{"A", "B"}},
				{Description: "Round two", Amount: 500, PaidBy: "B", AssignedTo: []string{"A", "B"}},
			},
			members: members("A", "B"),
			want:    []Debt{},
		},
		{
			name: "one debtor pays multiple creditors",
			items: []Item{
				{Description: "Hotel", Amount: 3000, PaidBy: "A", AssignedTo: []string{"C"}},
				{Description: "Flights", Amount: 2000, PaidBy: "B", AssignedTo: []string{"C"}},
			},
			members: members("A", "B", "C"),
			want: []Debt{
				{From: "C", To: "A", Amount: 3000},
				{From: "C", To: "B", Amount: 2000},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateDebts(tt.items, tt.members, tt.subGroups)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CalculateDebts() error = %v, want %v", err, tt.wantErr)
				}
				if got != nil {
					t.Fatalf("CalculateDebts() returned partial result %v alongside error", got)
				}
				return
			}

			if err != nil {
				t.Fatalf("CalculateDebts() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CalculateDebts() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestCalculateDebtsConservation checks that money is conserved: the debts
// emitted sum to the total net positive balance, which equals the total net
// negative balance in absolute value.
func TestCalculateDebtsConservation(t *testing.T) {
	items := []Item{
		{Description: "Groceries", Amount: 8437, PaidBy: "A", AssignedTo: []string{"A", "B", "C", "D"}},
		{Description: "Drinks", Amount: 2199, PaidBy: "B", AssignedTo: []string{"couple", "D"}},
		{Description: "Cab", Amount: 1750, PaidBy: "C", AssignedTo: []string{"A", "couple"}},
	}
	subGroups := []SubGroup{
		{ID: "couple", Name: "Couple", MemberIDs: []string{"A", "B"}},
	}

	debts, err := CalculateDebts(items, members("A", "B", "C", "D"), subGroups)
	if err != nil {
		t.Fatalf("CalculateDebts() unexpected error: %v", err)
	}

	// Balances worked out by hand:
	// Groceries splits [2110,2109,2109,2109] over A,B,C,D.
	// Drinks expands couple+D to [A,B,D] and splits [733,733,733].
	// Cab expands A+couple to [A,B] (A deduped) and splits [875,875].
	balances := map[string]int64{
		"A": 8437 - 2110 - 733 - 875,
		"B": 2199 - 2109 - 733 - 875,
		"C": 1750 - 2109,
		"D": -2109 - 733,
	}

	var totalSettled int64
	for _, d := range debts {
		if d.Amount <= 0 {
			t.Errorf("debt %+v has non-positive amount", d)
		}
		if d.From == d.To {
			t.Errorf("debt %+v pays self", d)
		}
		balances[d.From] += d.Amount
		balances[d.To] -= d.Amount
		totalSettled += d.Amount
	}

	// Applying every transfer must zero out everyone.
	for id, b := range balances {
		if b != 0 {
			t.Errorf("member %s left with balance %d after applying debts", id, b)
		}
	}

	// Total settled equals the total net positive balance (A is the only
	// creditor here).
	if want := int64(8437 - 2110 - 733 - 875); totalSettled != want {
		t.Errorf("total settled = %d, want %d", totalSettled, want)
	}
}

// TestCalculateDebtsDeterminism pins that identical input yields identical
// output, including transfer grouping.
func TestCalculateDebtsDeterminism(t *testing.T) {
	items := []Item{
		{Description: "Dinner", Amount: 5000, PaidBy: "A", AssignedTo: []string{"A", "B", "C", "D"}},
		{Description: "Bar", Amount: 3333, PaidBy: "B", AssignedTo: []string{"C", "D"}},
	}
	ms := members("A", "B", "C", "D")

	first, err := CalculateDebts(items, ms, nil)
	if err != nil {
		t.Fatalf("CalculateDebts() unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := CalculateDebts(items, ms, nil)
		if err != nil {
			t.Fatalf("CalculateDebts() unexpected error: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("CalculateDebts() not deterministic: %v vs %v", first, again)
		}
	}
}

// TestCalculateDebtsSubGroupEquivalence verifies that assigning to a
// sub-group and assigning to its explicit member list are interchangeable.
func TestCalculateDebtsSubGroupEquivalence(t *testing.T) {
	ms := members("A", "B", "C")
	subGroups := []SubGroup{
		{ID: "drivers", Name: "Drivers", MemberIDs: []string{"B", "C"}},
	}

	viaSubGroup, err := CalculateDebts([]Item{
		{Description: "Gas", Amount: 1001, PaidBy: "A", AssignedTo: []string{"drivers"}},
	}, ms, subGroups)
	if err != nil {
		t.Fatalf("CalculateDebts() unexpected error: %v", err)
	}

	explicit, err := CalculateDebts([]Item{
		{Description: "Gas", Amount: 1001, PaidBy: "A", AssignedTo: []string{"B", "C"}},
	}, ms, subGroups)
	if err != nil {
		t.Fatalf("CalculateDebts() unexpected error: %v", err)
	}

	if !reflect.DeepEqual(viaSubGroup, explicit) {
		t.Errorf("sub-group assignment %v != explicit assignment %v", viaSubGroup, explicit)
	}
}

// TestCalculateDebtsPayerOutsideMembers mirrors the reference behavior: a
// payer or assignee ID not present in members still participates, observed
// after the members input order.
func TestCalculateDebtsPayerOutsideMembers(t *testing.T) {
	debts, err := CalculateDebts([]Item{
		{Description: "Visit", Amount: 600, PaidBy: "guest", AssignedTo: []string{"A", "B"}},
	}, members("A", "B"), nil)
	if err != nil {
		t.Fatalf("CalculateDebts() unexpected error: %v", err)
	}

	want := []Debt{
		{From: "A", To: "guest", Amount: 300},
		{From: "B", To: "guest", Amount: 300},
	}
	if !reflect.DeepEqual(debts, want) {
		t.Errorf("CalculateDebts() = %v, want %v", debts, want)
	}
}

func TestExpandAssignees(t *testing.T) {
	subGroups := []SubGroup{
		{ID: "sg1", Name: "One", MemberIDs: []string{"B", "C"}},
		{ID: "sg2", Name: "Two", MemberIDs: []string{"C", "D"}},
	}

	tests := []struct {
		name      string
		assignees []string
		want      []string
	}{
		{"direct members pass through", []string{"A", "B"}, []string{"A", "B"}},
		{"sub-group expands in member-list order", []string{"sg1"}, []string{"B", "C"}},
		{"overlapping sub-groups dedupe", []string{"sg1", "sg2"}, []string{"B", "C", "D"}},
		{"direct then sub-group keeps first appearance", []string{"C", "sg1"}, []string{"C", "B"}},
		{"empty list expands to nothing", []string{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := expandAssignees(tt.assignees, subGroups)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expandAssignees(%v) = %v, want %v", tt.assignees, got, tt.want)
			}
		})
	}
}
