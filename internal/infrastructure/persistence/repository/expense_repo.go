package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sedlabs/expense-claims/internal/application/port"
	"github.com/sedlabs/expense-claims/internal/domain/entity"
	"github.com/sedlabs/expense-claims/internal/domain/workflow"
	"github.com/sedlabs/expense-claims/internal/infrastructure/persistence/sqlite"
)

// ExpenseRepository implements port.ExpenseRepository over SQLite. Monetary
// amounts are stored as decimal strings and parsed on scan.
type ExpenseRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *sql.DB, logger *zap.Logger) port.ExpenseRepository {
	return &ExpenseRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts the expense row and every line-item collection
func (r *ExpenseRepository) Create(ctx context.Context, expense *entity.Expense) error {
	query := `
		INSERT INTO expenses (
			reference, owner_id, department, project, status, claim_amount,
			receipt_travel, receipt_hotel, receipt_food, receipt_special,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	exec := r.getExecutor(ctx)
	result, err := exec.ExecContext(ctx, query,
		expense.Reference,
		expense.OwnerID,
		expense.Department,
		expense.Project,
		expense.Status,
		expense.ClaimAmount.String(),
		expense.Receipts.Travel,
		expense.Receipts.Hotel,
		expense.Receipts.Food,
		expense.Receipts.SpecialApproval,
		expense.CreatedAt,
		expense.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create expense", zap.Error(err))
		return fmt.Errorf("failed to create expense: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	expense.ID = id

	return r.insertLineItems(ctx, expense)
}

// Update replaces status, claim amount, receipts and all line-item
// collections of an existing expense. Owner and project are never touched.
func (r *ExpenseRepository) Update(ctx context.Context, expense *entity.Expense) error {
	query := `
		UPDATE expenses SET
			status = ?, claim_amount = ?,
			receipt_travel = ?, receipt_hotel = ?, receipt_food = ?, receipt_special = ?,
			updated_at = ?
		WHERE id = ?
	`

	exec := r.getExecutor(ctx)
	if _, err := exec.ExecContext(ctx, query,
		expense.Status,
		expense.ClaimAmount.String(),
		expense.Receipts.Travel,
		expense.Receipts.Hotel,
		expense.Receipts.Food,
		expense.Receipts.SpecialApproval,
		expense.UpdatedAt,
		expense.ID,
	); err != nil {
		r.logger.Error("Failed to update expense", zap.Int64("id", expense.ID), zap.Error(err))
		return fmt.Errorf("failed to update expense: %w", err)
	}

	for _, table := range []string{"travel_entries", "allowance_rows", "hotel_food_bills"} {
		if _, err := exec.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE expense_id = ?", table), expense.ID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	return r.insertLineItems(ctx, expense)
}

// UpdateStatus moves an expense from one status to another. The WHERE clause
// carries the expected current status; zero affected rows means another
// review won the race and the transition is stale.
func (r *ExpenseRepository) UpdateStatus(ctx context.Context, id int64, from, to string) error {
	query := `UPDATE expenses SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = ?`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query, to, id, from)
	if err != nil {
		r.logger.Error("Failed to update status", zap.Int64("id", id), zap.String("status", to), zap.Error(err))
		return fmt.Errorf("failed to update status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: expense %d is no longer in status %s", workflow.ErrInvalidTransition, id, from)
	}
	return nil
}

// GetByID retrieves an expense with all line items, or nil if absent
func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*entity.Expense, error) {
	return r.getOne(ctx, "id = ?", id)
}

// GetByReference retrieves an expense by its public reference
func (r *ExpenseRepository) GetByReference(ctx context.Context, reference string) (*entity.Expense, error) {
	return r.getOne(ctx, "reference = ?", reference)
}

func (r *ExpenseRepository) getOne(ctx context.Context, where string, arg interface{}) (*entity.Expense, error) {
	query := `
		SELECT id, reference, owner_id, department, project, status, claim_amount,
			receipt_travel, receipt_hotel, receipt_food, receipt_special,
			created_at, updated_at
		FROM expenses
		WHERE ` + where

	expense, err := r.scanExpense(r.getExecutor(ctx).QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get expense", zap.Error(err))
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := r.loadLineItems(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// List retrieves expenses with pagination, newest first. Line items are
// loaded per expense; listings are small and paginated.
func (r *ExpenseRepository) List(ctx context.Context, limit, offset int) ([]*entity.Expense, error) {
	return r.list(ctx, "", nil, limit, offset)
}

// ListByOwner retrieves one employee's expenses with pagination
func (r *ExpenseRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Expense, error) {
	return r.list(ctx, "WHERE owner_id = ?", []interface{}{ownerID}, limit, offset)
}

func (r *ExpenseRepository) list(ctx context.Context, where string, args []interface{}, limit, offset int) ([]*entity.Expense, error) {
	query := fmt.Sprintf(`
		SELECT id, reference, owner_id, department, project, status, claim_amount,
			receipt_travel, receipt_hotel, receipt_food, receipt_special,
			created_at, updated_at
		FROM expenses
		%s
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, where)
	args = append(args, limit, offset)

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list expenses", zap.Error(err))
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*entity.Expense
	for rows.Next() {
		expense, err := r.scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, expense := range expenses {
		if err := r.loadLineItems(ctx, expense); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *ExpenseRepository) scanExpense(row rowScanner) (*entity.Expense, error) {
	var expense entity.Expense
	var claimAmount string

	err := row.Scan(
		&expense.ID,
		&expense.Reference,
		&expense.OwnerID,
		&expense.Department,
		&expense.Project,
		&expense.Status,
		&claimAmount,
		&expense.Receipts.Travel,
		&expense.Receipts.Hotel,
		&expense.Receipts.Food,
		&expense.Receipts.SpecialApproval,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	expense.ClaimAmount, err = decimal.NewFromString(claimAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid claim amount %q: %w", claimAmount, err)
	}
	return &expense, nil
}

func (r *ExpenseRepository) insertLineItems(ctx context.Context, expense *entity.Expense) error {
	exec := r.getExecutor(ctx)

	for i := range expense.Travel {
		t := &expense.Travel[i]
		t.ExpenseID = expense.ID
		result, err := exec.ExecContext(ctx, `
			INSERT INTO travel_entries (expense_id, travel_date, from_place, to_place, mode, fare)
			VALUES (?, ?, ?, ?, ?, ?)`,
			expense.ID, t.Date, t.FromPlace, t.ToPlace, t.Mode, t.Fare.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert travel entry: %w", err)
		}
		t.ID, _ = result.LastInsertId()
	}

	for i := range expense.Allowances {
		a := &expense.Allowances[i]
		a.ExpenseID = expense.ID
		result, err := exec.ExecContext(ctx, `
			INSERT INTO allowance_rows (expense_id, category, from_date, to_date, scope, days, per_day)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			expense.ID, a.Category, a.FromDate, a.ToDate, a.Scope, a.Days, a.PerDay.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert allowance row: %w", err)
		}
		a.ID, _ = result.LastInsertId()
	}

	for i := range expense.Bills {
		b := &expense.Bills[i]
		b.ExpenseID = expense.ID
		result, err := exec.ExecContext(ctx, `
			INSERT INTO hotel_food_bills (expense_id, kind, from_date, to_date, sharing, location, amount)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			expense.ID, b.Kind, b.FromDate, b.ToDate, b.Sharing, b.Location, b.Amount.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert bill: %w", err)
		}
		b.ID, _ = result.LastInsertId()
	}

	return nil
}

func (r *ExpenseRepository) loadLineItems(ctx context.Context, expense *entity.Expense) error {
	exec := r.getExecutor(ctx)

	rows, err := exec.QueryContext(ctx, `
		SELECT id, expense_id, travel_date, from_place, to_place, mode, fare
		FROM travel_entries WHERE expense_id = ? ORDER BY id`, expense.ID)
	if err != nil {
		return fmt.Errorf("failed to load travel entries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t entity.TravelEntry
		var fare string
		if err := rows.Scan(&t.ID, &t.ExpenseID, &t.Date, &t.FromPlace, &t.ToPlace, &t.Mode, &fare); err != nil {
			return fmt.Errorf("failed to scan travel entry: %w", err)
		}
		if t.Fare, err = decimal.NewFromString(fare); err != nil {
			return fmt.Errorf("invalid fare %q: %w", fare, err)
		}
		expense.Travel = append(expense.Travel, t)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = exec.QueryContext(ctx, `
		SELECT id, expense_id, category, from_date, to_date, scope, days, per_day
		FROM allowance_rows WHERE expense_id = ? ORDER BY id`, expense.ID)
	if err != nil {
		return fmt.Errorf("failed to load allowance rows: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a entity.AllowanceRow
		var perDay string
		if err := rows.Scan(&a.ID, &a.ExpenseID, &a.Category, &a.FromDate, &a.ToDate, &a.Scope, &a.Days, &perDay); err != nil {
			return fmt.Errorf("failed to scan allowance row: %w", err)
		}
		if a.PerDay, err = decimal.NewFromString(perDay); err != nil {
			return fmt.Errorf("invalid per-day amount %q: %w", perDay, err)
		}
		expense.Allowances = append(expense.Allowances, a)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = exec.QueryContext(ctx, `
		SELECT id, expense_id, kind, from_date, to_date, sharing, location, amount
		FROM hotel_food_bills WHERE expense_id = ? ORDER BY id`, expense.ID)
	if err != nil {
		return fmt.Errorf("failed to load bills: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var b entity.HotelFoodBill
		var amount string
		if err := rows.Scan(&b.ID, &b.ExpenseID, &b.Kind, &b.FromDate, &b.ToDate, &b.Sharing, &b.Location, &amount); err != nil {
			return fmt.Errorf("failed to scan bill: %w", err)
		}
		if b.Amount, err = decimal.NewFromString(amount); err != nil {
			return fmt.Errorf("invalid bill amount %q: %w", amount, err)
		}
		expense.Bills = append(expense.Bills, b)
	}
	return rows.Err()
}

// getExecutor returns the context transaction when present, the pool
// otherwise
func (r *ExpenseRepository) getExecutor(ctx context.Context) executor {
	if tx := sqlite.ExtractTx(ctx); tx != nil {
		return tx
	}
	return r.db
}

// executor interface covers both *sql.DB and *sql.Tx
type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Verify interface compliance
var _ port.ExpenseRepository = (*ExpenseRepository)(nil)
