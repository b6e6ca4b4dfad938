package workflow

// State represents an expense's position in the approval lifecycle
type State string

const (
	StatePending             State = "pending"
	StateCoordinatorApproved State = "coordinator_approved"
	StateCoordinatorRejected State = "coordinator_rejected"
	StateHRApproved          State = "hr_approved"
	StateHRRejected          State = "hr_rejected"
	StateAccountsApproved    State = "accounts_approved"
	StateAccountsRejected    State = "accounts_rejected"
)

var validStates = map[State]bool{
	StatePending:             true,
	StateCoordinatorApproved: true,
	StateCoordinatorRejected: true,
	StateHRApproved:          true,
	StateHRRejected:          true,
	StateAccountsApproved:    true,
	StateAccountsRejected:    true,
}

// Terminal states for the approval chain. Rejected states re-enter pending
// only via an explicit resubmit, which is an owner action, not a review.
var terminalStates = map[State]bool{
	StateCoordinatorRejected: true,
	StateHRRejected:          true,
	StateAccountsRejected:    true,
	StateAccountsApproved:    true,
}

// IsTerminal returns true if no review transition leaves the state
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// IsRejected returns true for the three rejected states
func (s State) IsRejected() bool {
	switch s {
	case StateCoordinatorRejected, StateHRRejected, StateAccountsRejected:
		return true
	}
	return false
}

// IsValid returns true if the state is a valid workflow state
func (s State) IsValid() bool {
	return validStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}
