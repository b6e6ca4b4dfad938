package entity

// Status constants for Expense. These tokens are transmitted verbatim on the
// wire; adding or renaming one is a breaking change for reviewing clients.
const (
	StatusPending             = "pending"
	StatusCoordinatorApproved = "coordinator_approved"
	StatusCoordinatorRejected = "coordinator_rejected"
	StatusHRApproved          = "hr_approved"
	StatusHRRejected          = "hr_rejected"
	StatusAccountsApproved    = "accounts_approved"
	StatusAccountsRejected    = "accounts_rejected"
)

// History action tags for lifecycle events that are not review outcomes.
// Review outcomes reuse the resulting status token as the action tag.
const (
	ActionSubmitted   = "submitted"
	ActionResubmitted = "resubmitted"
)

// Transport mode constants for TravelEntry
const (
	// ModeSEDProvided marks transport arranged by the organisation; the fare
	// is forced to zero regardless of what the submitter entered.
	ModeSEDProvided = "SED Provided"
)

// Allowance row categories
const (
	AllowanceJourney = "journey"
	AllowanceReturn  = "return"
	AllowanceStay    = "stay"
)

// Bill kinds for HotelFoodBill
const (
	BillKindHotel = "hotel"
	BillKindFood  = "food"
)
