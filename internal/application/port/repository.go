package port

import (
	"context"

	"github.com/sedlabs/expense-claims/internal/domain/entity"
)

// ExpenseRepository defines persistence operations for Expense. Line items
// travel with their expense: Create and Update persist the expense row and
// every line-item collection together.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	GetByID(ctx context.Context, id int64) (*entity.Expense, error)
	GetByReference(ctx context.Context, reference string) (*entity.Expense, error)

	// Update replaces status, claim amount and all line-item collections in
	// one shot; callers wrap it in a transaction together with the history
	// append so the two are never observable separately.
	Update(ctx context.Context, expense *entity.Expense) error

	// UpdateStatus moves the expense from one status to another. The update
	// is conditional on the current status so concurrent reviews of the same
	// snapshot cannot both win; a stale transition fails with
	// workflow.ErrInvalidTransition.
	UpdateStatus(ctx context.Context, id int64, from, to string) error
	List(ctx context.Context, limit, offset int) ([]*entity.Expense, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Expense, error)
}

// HistoryRepository defines persistence operations for the review ledger.
// Append-only: there is no update or delete.
type HistoryRepository interface {
	Append(ctx context.Context, record *entity.HistoryRecord) error
	ListByExpense(ctx context.Context, expenseID int64) ([]entity.HistoryRecord, error)
}

// RateRepository defines read operations over allowance-rate reference data.
type RateRepository interface {
	Get(ctx context.Context, designationID, scope string) (*entity.AllowanceRate, error)
	ListByDesignation(ctx context.Context, designationID string) ([]entity.AllowanceRate, error)
}

// AssignmentRepository defines read operations over coordinator assignments.
type AssignmentRepository interface {
	IsCoordinatorFor(ctx context.Context, coordinatorID, department string) (bool, error)
	ListByDepartment(ctx context.Context, department string) ([]entity.CoordinatorAssignment, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
