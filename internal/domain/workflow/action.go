package workflow

// Action represents a request that can cause a state transition
type Action string

const (
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionResubmit Action = "resubmit"
)

// String returns the string representation of the action
func (a Action) String() string {
	return string(a)
}

// ReviewRole names the capability class a transition requires. RoleOwner is
// not a review role: it marks transitions only the claim owner may trigger.
type ReviewRole string

const (
	RoleCoordinator ReviewRole = "coordinator"
	RoleHR          ReviewRole = "hr"
	RoleAccounts    ReviewRole = "accounts"
	RoleOwner       ReviewRole = "owner"
)
