package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sedlabs/expense-claims/internal/domain/entity"
)

// mockAssignments answers coordinator-assignment lookups from a fixed set
type mockAssignments struct {
	assigned map[string]string // coordinator id -> department
}

func (m *mockAssignments) IsCoordinatorFor(_ context.Context, coordinatorID, department string) (bool, error) {
	return m.assigned[coordinatorID] == department, nil
}

func expense(owner, department, status string) *entity.Expense {
	return &entity.Expense{ID: 1, OwnerID: owner, Department: department, Status: status}
}

func TestCanReview_ByStatus(t *testing.T) {
	policy := NewPolicy(&mockAssignments{})
	ctx := context.Background()

	tests := []struct {
		name   string
		actor  entity.Actor
		status string
		want   bool
	}{
		{"coordinator on pending", entity.Actor{ID: "rev-1", Role: entity.RoleCoordinator}, entity.StatusPending, true},
		{"hr on pending", entity.Actor{ID: "hr-1", Role: entity.RoleHR}, entity.StatusPending, false},
		{"accounts on pending", entity.Actor{ID: "acc-1", Role: entity.RoleAccounts}, entity.StatusPending, false},
		{"hr on coordinator_approved", entity.Actor{ID: "hr-1", Role: entity.RoleHR}, entity.StatusCoordinatorApproved, true},
		{"coordinator on coordinator_approved", entity.Actor{ID: "rev-1", Role: entity.RoleCoordinator}, entity.StatusCoordinatorApproved, false},
		{"accounts on hr_approved", entity.Actor{ID: "acc-1", Role: entity.RoleAccounts}, entity.StatusHRApproved, true},
		{"hr on hr_approved", entity.Actor{ID: "hr-1", Role: entity.RoleHR}, entity.StatusHRApproved, false},
		{"coordinator on accounts_approved", entity.Actor{ID: "rev-1", Role: entity.RoleCoordinator}, entity.StatusAccountsApproved, false},
		{"accounts on coordinator_rejected", entity.Actor{ID: "acc-1", Role: entity.RoleAccounts}, entity.StatusCoordinatorRejected, false},
		{"employee on pending", entity.Actor{ID: "emp-1", Role: entity.RoleEmployee}, entity.StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := policy.CanReview(ctx, tt.actor, expense("owner-1", "civil", tt.status))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanReview_AdminNeverReviews(t *testing.T) {
	policy := NewPolicy(&mockAssignments{})
	admin := entity.Actor{ID: "admin-1", Role: entity.RoleAdmin}

	statuses := []string{
		entity.StatusPending, entity.StatusCoordinatorApproved, entity.StatusHRApproved,
		entity.StatusCoordinatorRejected, entity.StatusAccountsApproved,
	}
	for _, status := range statuses {
		got, err := policy.CanReview(context.Background(), admin, expense("owner-1", "civil", status))
		require.NoError(t, err)
		assert.False(t, got, "admin reviewed in status %s", status)
	}
}

func TestCanReview_CoordinatorNotOwnClaimUnlessAssigned(t *testing.T) {
	// Coordinator reviewing their own claim: only permitted as the registered
	// department coordinator, and only while pending.
	policy := NewPolicy(&mockAssignments{assigned: map[string]string{"coord-1": "civil"}})
	ctx := context.Background()
	self := entity.Actor{ID: "coord-1", Role: entity.RoleCoordinator}

	got, err := policy.CanReview(ctx, self, expense("coord-1", "civil", entity.StatusPending))
	require.NoError(t, err)
	assert.True(t, got, "registered coordinator may self-approve while pending")

	got, err = policy.CanReview(ctx, self, expense("coord-1", "mechanical", entity.StatusPending))
	require.NoError(t, err)
	assert.False(t, got, "not registered for this department")

	got, err = policy.CanReview(ctx, self, expense("coord-1", "civil", entity.StatusCoordinatorApproved))
	require.NoError(t, err)
	assert.False(t, got, "self-approval only applies while pending")
}

func TestCanReview_CoordinatorCannotReviewOwnPendingWithoutAssignment(t *testing.T) {
	policy := NewPolicy(&mockAssignments{})
	self := entity.Actor{ID: "coord-1", Role: entity.RoleCoordinator}

	got, err := policy.CanReview(context.Background(), self, expense("coord-1", "civil", entity.StatusPending))
	require.NoError(t, err)
	assert.False(t, got)
}

// At most one role may review at any given status.
func TestCanReview_Exclusive(t *testing.T) {
	policy := NewPolicy(&mockAssignments{})
	ctx := context.Background()

	statuses := []string{
		entity.StatusPending, entity.StatusCoordinatorApproved, entity.StatusCoordinatorRejected,
		entity.StatusHRApproved, entity.StatusHRRejected,
		entity.StatusAccountsApproved, entity.StatusAccountsRejected,
	}
	roles := []entity.Role{
		entity.RoleEmployee, entity.RoleCoordinator, entity.RoleHR, entity.RoleAccounts, entity.RoleAdmin,
	}

	for _, status := range statuses {
		authorized := 0
		for _, role := range roles {
			actor := entity.Actor{ID: "actor-1", Role: role}
			got, err := policy.CanReview(ctx, actor, expense("owner-1", "civil", status))
			require.NoError(t, err)
			if got {
				authorized++
			}
		}
		assert.LessOrEqual(t, authorized, 1, "status %s authorizes %d roles", status, authorized)
	}
}

func TestCanEdit(t *testing.T) {
	policy := NewPolicy(&mockAssignments{})
	owner := entity.Actor{ID: "owner-1", Role: entity.RoleEmployee}
	other := entity.Actor{ID: "other-1", Role: entity.RoleEmployee}

	tests := []struct {
		name   string
		actor  entity.Actor
		status string
		want   bool
	}{
		{"owner edits coordinator_rejected", owner, entity.StatusCoordinatorRejected, true},
		{"owner edits hr_rejected", owner, entity.StatusHRRejected, true},
		{"owner edits accounts_rejected", owner, entity.StatusAccountsRejected, true},
		{"owner cannot edit pending", owner, entity.StatusPending, false},
		{"owner cannot edit approved", owner, entity.StatusAccountsApproved, false},
		{"non-owner cannot edit rejected", other, entity.StatusHRRejected, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.CanEdit(tt.actor, expense("owner-1", "civil", tt.status)))
		})
	}
}
