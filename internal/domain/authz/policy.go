// Package authz decides which actors may review or edit an expense. Review
// rights derive from a per-status capability table; the single exception is a
// department coordinator acting on their own claim while it is pending.
package authz

import (
	"context"

	"github.com/sedlabs/expense-claims/internal/domain/entity"
)

// AssignmentLookup answers whether an employee is the registered coordinator
// of a department. Backed by reference data the policy never mutates.
type AssignmentLookup interface {
	IsCoordinatorFor(ctx context.Context, coordinatorID, department string) (bool, error)
}

// reviewerByStatus maps each reviewable status to the one role allowed to
// act on it. Statuses absent from the table accept no reviewer at all, which
// is what makes review authority exclusive per state.
var reviewerByStatus = map[string]entity.Role{
	entity.StatusPending:             entity.RoleCoordinator,
	entity.StatusCoordinatorApproved: entity.RoleHR,
	entity.StatusHRApproved:          entity.RoleAccounts,
}

// Policy implements the review/edit authorization rules.
type Policy struct {
	assignments AssignmentLookup
}

// NewPolicy creates a policy backed by the given coordinator assignments.
func NewPolicy(assignments AssignmentLookup) *Policy {
	return &Policy{assignments: assignments}
}

// CanReview reports whether the actor may approve or reject the expense in
// its current status.
func (p *Policy) CanReview(ctx context.Context, actor entity.Actor, expense *entity.Expense) (bool, error) {
	// Administrators view but never approve or reject.
	if actor.Role == entity.RoleAdmin {
		return false, nil
	}

	if actor.Role == entity.RoleCoordinator && actor.ID == expense.OwnerID {
		// Self-approval is permitted strictly as the registered department
		// coordinator acting on their own pending claim.
		if expense.Status != entity.StatusPending {
			return false, nil
		}
		return p.assignments.IsCoordinatorFor(ctx, actor.ID, expense.Department)
	}

	required, ok := reviewerByStatus[expense.Status]
	if !ok || actor.Role != required {
		return false, nil
	}
	if expense.Status == entity.StatusPending && actor.ID == expense.OwnerID {
		return false, nil
	}
	return true, nil
}

// CanEdit reports whether the actor may edit and resubmit the expense. Only
// the owner may edit, and only while the claim sits in a rejected state.
func (p *Policy) CanEdit(actor entity.Actor, expense *entity.Expense) bool {
	return actor.ID == expense.OwnerID && expense.IsRejected()
}
