package workflow

import (
	"errors"
	"testing"
)

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StatePending, false},
		{StateCoordinatorApproved, false},
		{StateHRApproved, false},
		{StateCoordinatorRejected, true},
		{StateHRRejected, true},
		{StateAccountsRejected, true},
		{StateAccountsApproved, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsTerminal(); got != tt.expected {
				t.Errorf("State.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected bool
	}{
		{"pending", StatePending, true},
		{"accounts approved", StateAccountsApproved, true},
		{"unknown token", State("approved"), false},
		{"empty", State(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.expected {
				t.Errorf("State.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNext_ApprovalChain(t *testing.T) {
	tests := []struct {
		name   string
		from   State
		action Action
		role   ReviewRole
		want   State
	}{
		{"coordinator approves pending", StatePending, ActionApprove, RoleCoordinator, StateCoordinatorApproved},
		{"coordinator rejects pending", StatePending, ActionReject, RoleCoordinator, StateCoordinatorRejected},
		{"hr approves", StateCoordinatorApproved, ActionApprove, RoleHR, StateHRApproved},
		{"hr rejects", StateCoordinatorApproved, ActionReject, RoleHR, StateHRRejected},
		{"accounts approves", StateHRApproved, ActionApprove, RoleAccounts, StateAccountsApproved},
		{"accounts rejects", StateHRApproved, ActionReject, RoleAccounts, StateAccountsRejected},
		{"resubmit after coordinator rejection", StateCoordinatorRejected, ActionResubmit, RoleOwner, StatePending},
		{"resubmit after hr rejection", StateHRRejected, ActionResubmit, RoleOwner, StatePending},
		{"resubmit after accounts rejection", StateAccountsRejected, ActionResubmit, RoleOwner, StatePending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(tt.from, tt.action, tt.role)
			if err != nil {
				t.Fatalf("Next() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Next() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Every (state, action, role) triple outside the transition table must fail
// with ErrInvalidTransition and resolve no state.
func TestNext_Closure(t *testing.T) {
	states := []State{
		StatePending, StateCoordinatorApproved, StateCoordinatorRejected,
		StateHRApproved, StateHRRejected, StateAccountsApproved, StateAccountsRejected,
	}
	actions := []Action{ActionApprove, ActionReject, ActionResubmit}
	roles := []ReviewRole{RoleCoordinator, RoleHR, RoleAccounts, RoleOwner}

	for _, from := range states {
		for _, action := range actions {
			required, defined := RequiredRole(from, action)
			for _, role := range roles {
				if defined && role == required {
					continue
				}
				if _, err := Next(from, action, role); !errors.Is(err, ErrInvalidTransition) {
					t.Errorf("Next(%s, %s, %s) error = %v, want ErrInvalidTransition", from, action, role, err)
				}
			}
		}
	}
}

func TestNext_TerminalStatesAcceptNoReview(t *testing.T) {
	for _, from := range []State{StateAccountsApproved, StateCoordinatorRejected, StateHRRejected, StateAccountsRejected} {
		for _, action := range []Action{ActionApprove, ActionReject} {
			for _, role := range []ReviewRole{RoleCoordinator, RoleHR, RoleAccounts} {
				if _, err := Next(from, action, role); !errors.Is(err, ErrInvalidTransition) {
					t.Errorf("Next(%s, %s, %s) error = %v, want ErrInvalidTransition", from, action, role, err)
				}
			}
		}
	}
}

func TestNext_InvalidState(t *testing.T) {
	if _, err := Next(State("draft"), ActionApprove, RoleCoordinator); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Next() error = %v, want ErrInvalidState", err)
	}
}

func TestNext_WrongRole(t *testing.T) {
	if _, err := Next(StatePending, ActionApprove, RoleHR); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Next() error = %v, want ErrInvalidTransition", err)
	}
}

func TestPermittedActions(t *testing.T) {
	permitted := PermittedActions(StatePending)
	if len(permitted) != 2 {
		t.Fatalf("PermittedActions(pending) = %v, want approve and reject", permitted)
	}
	if permitted[ActionApprove] != RoleCoordinator || permitted[ActionReject] != RoleCoordinator {
		t.Errorf("PermittedActions(pending) = %v, want coordinator for both", permitted)
	}

	if got := PermittedActions(StateAccountsApproved); len(got) != 0 {
		t.Errorf("PermittedActions(accounts_approved) = %v, want none", got)
	}
}

func TestState_IsRejected(t *testing.T) {
	rejected := []State{StateCoordinatorRejected, StateHRRejected, StateAccountsRejected}
	for _, s := range rejected {
		if !s.IsRejected() {
			t.Errorf("State(%s).IsRejected() = false, want true", s)
		}
	}
	if StateAccountsApproved.IsRejected() {
		t.Error("State(accounts_approved).IsRejected() = true, want false")
	}
	if StatePending.IsRejected() {
		t.Error("State(pending).IsRejected() = true, want false")
	}
}
