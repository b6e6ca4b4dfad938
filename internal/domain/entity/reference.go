package entity

import "github.com/shopspring/decimal"

// AllowanceRate is reference data mapping (designation, scope) to a default
// per-day amount. The workflow looks rates up to pre-fill drafts but never
// mutates them; the submitter may override the amount per claim.
type AllowanceRate struct {
	ID            int64           `json:"id"`
	DesignationID string          `json:"designation_id"`
	Scope         string          `json:"scope"`
	PerDay        decimal.Decimal `json:"per_day"`
}

// CoordinatorAssignment registers an employee as the coordinator of a
// department. Consumed by the authorization policy to permit the
// self-approval exception.
type CoordinatorAssignment struct {
	ID            int64  `json:"id"`
	CoordinatorID string `json:"coordinator_id"`
	Department    string `json:"department"`
}
