package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense represents one claim submitted by one employee for one project.
// ClaimAmount is always derived from the line items, never hand-edited.
type Expense struct {
	ID          int64           `json:"id"`
	Reference   string          `json:"reference"`
	OwnerID     string          `json:"owner_id"`
	Department  string          `json:"department"`
	Project     string          `json:"project"`
	Status      string          `json:"status"`
	ClaimAmount decimal.Decimal `json:"claim_amount"`
	Travel      []TravelEntry   `json:"travel"`
	Allowances  []AllowanceRow  `json:"allowances"`
	Bills       []HotelFoodBill `json:"bills"`
	Receipts    ReceiptRefs     `json:"receipts"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TravelEntry is a single local-travel fare row.
type TravelEntry struct {
	ID        int64           `json:"id"`
	ExpenseID int64           `json:"expense_id"`
	Date      time.Time       `json:"date"`
	FromPlace string          `json:"from_place"`
	ToPlace   string          `json:"to_place"`
	Mode      string          `json:"mode"`
	Fare      decimal.Decimal `json:"fare"`
}

// Normalize applies entry-time rules. Transport provided by the organisation
// never carries a fare.
func (t *TravelEntry) Normalize() {
	if t.Mode == ModeSEDProvided {
		t.Fare = decimal.Zero
	}
}

// AllowanceRow is a per-day allowance span in one of the three categories
// (journey, return, stay). Days is derived from the inclusive date span and
// clamped to zero when ToDate precedes FromDate.
type AllowanceRow struct {
	ID        int64           `json:"id"`
	ExpenseID int64           `json:"expense_id"`
	Category  string          `json:"category"`
	FromDate  time.Time       `json:"from_date"`
	ToDate    time.Time       `json:"to_date"`
	Scope     string          `json:"scope"`
	Days      int             `json:"days"`
	PerDay    decimal.Decimal `json:"per_day"`
}

// HotelFoodBill is an itemized hotel or food bill row.
type HotelFoodBill struct {
	ID        int64           `json:"id"`
	ExpenseID int64           `json:"expense_id"`
	Kind      string          `json:"kind"`
	FromDate  time.Time       `json:"from_date"`
	ToDate    time.Time       `json:"to_date"`
	Sharing   string          `json:"sharing"`
	Location  string          `json:"location"`
	Amount    decimal.Decimal `json:"amount"`
}

// ReceiptRefs holds at most one stored receipt reference per category plus an
// optional special-approval document. Storage and retrieval of the files
// themselves is an external collaborator's concern.
type ReceiptRefs struct {
	Travel          string `json:"travel,omitempty"`
	Hotel           string `json:"hotel,omitempty"`
	Food            string `json:"food,omitempty"`
	SpecialApproval string `json:"special_approval,omitempty"`
}

// IsRejected returns true if the expense sits in one of the three rejected
// states, the only states in which the owner may edit.
func (e *Expense) IsRejected() bool {
	switch e.Status {
	case StatusCoordinatorRejected, StatusHRRejected, StatusAccountsRejected:
		return true
	}
	return false
}
