package workflow

import "fmt"

// transitionKey identifies one row of the transition table
type transitionKey struct {
	from   State
	action Action
}

// transitionRule is the right-hand side of a table row
type transitionRule struct {
	role ReviewRole
	to   State
}

// The whole approval chain is one table. Adding a role or a stage is a table
// edit, not a new conditional.
var transitions = map[transitionKey]transitionRule{
	{StatePending, ActionApprove}:              {RoleCoordinator, StateCoordinatorApproved},
	{StatePending, ActionReject}:               {RoleCoordinator, StateCoordinatorRejected},
	{StateCoordinatorApproved, ActionApprove}:  {RoleHR, StateHRApproved},
	{StateCoordinatorApproved, ActionReject}:   {RoleHR, StateHRRejected},
	{StateHRApproved, ActionApprove}:           {RoleAccounts, StateAccountsApproved},
	{StateHRApproved, ActionReject}:            {RoleAccounts, StateAccountsRejected},
	{StateCoordinatorRejected, ActionResubmit}: {RoleOwner, StatePending},
	{StateHRRejected, ActionResubmit}:          {RoleOwner, StatePending},
	{StateAccountsRejected, ActionResubmit}:    {RoleOwner, StatePending},
}

// RequiredRole returns the role the table demands for (state, action), or
// false if the pair has no transition at all.
func RequiredRole(from State, action Action) (ReviewRole, bool) {
	rule, ok := transitions[transitionKey{from, action}]
	if !ok {
		return "", false
	}
	return rule.role, true
}

// Next validates and resolves a transition. It is pure: the caller persists
// the returned state or discards it wholesale on error.
func Next(from State, action Action, role ReviewRole) (State, error) {
	if !from.IsValid() {
		return "", fmt.Errorf("%w: %s", ErrInvalidState, from)
	}

	rule, ok := transitions[transitionKey{from, action}]
	if !ok {
		return "", fmt.Errorf("%w: cannot %s from state %s", ErrInvalidTransition, action, from)
	}
	if rule.role != role {
		return "", fmt.Errorf("%w: %s from state %s requires role %s", ErrInvalidTransition, action, from, rule.role)
	}

	return rule.to, nil
}

// PermittedActions returns the actions that have at least one transition out
// of the given state, with the role each requires.
func PermittedActions(from State) map[Action]ReviewRole {
	permitted := make(map[Action]ReviewRole)
	for key, rule := range transitions {
		if key.from == from {
			permitted[key.action] = rule.role
		}
	}
	return permitted
}
