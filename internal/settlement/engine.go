// Package settlement computes who owes whom after a group's items have been
// paid for and assigned. The engine is a pure function over an input
// snapshot: it holds no state, performs no I/O, and is safe to call
// concurrently on disjoint inputs.
package settlement

import (
	"errors"
	"fmt"

	"github.com/tallyhq/tally/internal/currency"
)

// Common errors
var (
	// ErrMissingAssignees means an item's assignee list expanded to zero
	// members. The whole computation aborts; malformed items are never
	// silently skipped.
	ErrMissingAssignees = errors.New("item has no assignees")

	// ErrInvalidAmount means an item's amount is zero or negative. Amounts
	// are validated at ingestion, but the engine rejects them again rather
	// than trust its callers.
	ErrInvalidAmount = errors.New("item amount must be positive")

	// ErrNestedSubGroup means a sub-group's member list contains another
	// sub-group's ID. One level of nesting is the supported case; callers
	// must flatten anything deeper before invoking the engine.
	ErrNestedSubGroup = errors.New("sub-groups cannot contain other sub-groups")
)

// balances tracks signed cents per member ID (positive = is owed, negative
// = owes) together with the order IDs were first observed. The order is
// what makes the output deterministic: the debtor/creditor partition walks
// it, so transfer groupings depend only on the input, never on map
// iteration.
type balances struct {
	amounts map[string]int64
	order   []string
}

func newBalances(members []Member) *balances {
	b := &balances{amounts: make(map[string]int64, len(members))}
	for _, m := range members {
		b.touch(m.ID)
	}
	return b
}

func (b *balances) touch(id string) {
	if _, ok := b.amounts[id]; !ok {
		b.amounts[id] = 0
		b.order = append(b.order, id)
	}
}

func (b *balances) add(id string, delta int64) {
	b.touch(id)
	b.amounts[id] += delta
}

// CalculateDebts reduces a snapshot of priced, assigned items to the debts
// that settle every member's balance. For each item the payer is credited
// the full amount and each expanded assignee is debited an exact share via
// currency.SplitCents, so no cent is ever lost or invented: the sum of the
// output debts equals the total positive balance.
//
// The matching step is a greedy two-pointer walk over debtors and creditors
// in first-observed order (the members input order, then any IDs first seen
// while processing items). It is deterministic and linear but not globally
// transaction-minimal in adversarial orderings; the grouping is pinned by
// tests, so do not swap in a different heuristic.
func CalculateDebts(items []Item, members []Member, subGroups []SubGroup) ([]Debt, error) {
	if err := validateSubGroups(subGroups); err != nil {
		return nil, err
	}

	bal := newBalances(members)

	for _, item := range items {
		if item.Amount <= 0 {
			return nil, fmt.Errorf("item %q: %w", item.Description, ErrInvalidAmount)
		}

		assigneeIDs := expandAssignees(item.AssignedTo, subGroups)
		if len(assigneeIDs) == 0 {
			return nil, fmt.Errorf("item %q: %w", item.Description, ErrMissingAssignees)
		}

		shares, err := currency.SplitCents(item.Amount, len(assigneeIDs))
		if err != nil {
			return nil, fmt.Errorf("item %q: %w", item.Description, err)
		}

		// Payer fronted the full amount, regardless of whether they are
		// also an assignee; the debit below nets it out.
		bal.add(item.PaidBy, item.Amount)

		for i, memberID := range assigneeIDs {
			bal.add(memberID, -shares[i])
		}
	}

	return matchDebts(bal), nil
}

// validateSubGroups rejects sub-group member lists that reference another
// sub-group. Recursive semantics are undefined in this engine.
func validateSubGroups(subGroups []SubGroup) error {
	ids := make(map[string]bool, len(subGroups))
	for _, sg := range subGroups {
		ids[sg.ID] = true
	}
	for _, sg := range subGroups {
		for _, memberID := range sg.MemberIDs {
			if ids[memberID] {
				return fmt.Errorf("sub-group %q contains sub-group %q: %w", sg.Name, memberID, ErrNestedSubGroup)
			}
		}
	}
	return nil
}

// expandAssignees resolves each assignee entry to member IDs: a sub-group
// ID substitutes all of its members, anything else passes through as a
// member ID. The result is deduplicated in first-appearance order, so a
// member reachable both directly and via a sub-group is charged once.
func expandAssignees(assignees []string, subGroups []SubGroup) []string {
	byID := make(map[string]*SubGroup, len(subGroups))
	for i := range subGroups {
		byID[subGroups[i].ID] = &subGroups[i]
	}

	seen := make(map[string]bool)
	var memberIDs []string
	appendOnce := func(id string) {
		if !seen[id] {
			seen[id] = true
			memberIDs = append(memberIDs, id)
		}
	}

	for _, id := range assignees {
		if sg, ok := byID[id]; ok {
			for _, memberID := range sg.MemberIDs {
				appendOnce(memberID)
			}
		} else {
			appendOnce(id)
		}
	}

	return memberIDs
}

// entry is one side of the matching: a member and how much of their balance
// remains unsettled.
type entry struct {
	id     string
	amount int64
}

// matchDebts partitions members into debtors and creditors and greedily
// pairs them off front to front.
func matchDebts(bal *balances) []Debt {
	var debtors, creditors []entry
	for _, id := range bal.order {
		switch amount := bal.amounts[id]; {
		case amount < 0:
			debtors = append(debtors, entry{id: id, amount: -amount})
		case amount > 0:
			creditors = append(creditors, entry{id: id, amount: amount})
		}
		// Members at exactly zero never appear in the output.
	}

	debts := []Debt{}
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		amount := min(debtor.amount, creditor.amount)
		debts = append(debts, Debt{
			From:   debtor.id,
			To:     creditor.id,
			Amount: amount,
		})

		debtor.amount -= amount
		creditor.amount -= amount

		if debtor.amount == 0 {
			i++
		}
		if creditor.amount == 0 {
			j++
		}
	}

	return debts
}
