package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/sedlabs/expense-claims/internal/application/port"
	"github.com/sedlabs/expense-claims/internal/domain/entity"
	"github.com/sedlabs/expense-claims/internal/infrastructure/persistence/sqlite"
)

// HistoryRepository implements port.HistoryRepository. The table is
// append-only: this type deliberately exposes no update or delete.
type HistoryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *sql.DB, logger *zap.Logger) port.HistoryRepository {
	return &HistoryRepository{
		db:     db,
		logger: logger,
	}
}

// Append inserts a new ledger record
func (r *HistoryRepository) Append(ctx context.Context, record *entity.HistoryRecord) error {
	query := `
		INSERT INTO history_records (
			expense_id, action, actor_id, actor_role, comment, timestamp
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		record.ExpenseID,
		record.Action,
		record.ActorID,
		record.ActorRole.String(),
		record.Comment,
		record.Timestamp,
	)
	if err != nil {
		r.logger.Error("Failed to append history record", zap.Error(err))
		return fmt.Errorf("failed to append history: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	record.ID = id
	return nil
}

// ListByExpense retrieves all ledger records for an expense ordered by
// timestamp. Deduplication happens at read time in the domain layer.
func (r *HistoryRepository) ListByExpense(ctx context.Context, expenseID int64) ([]entity.HistoryRecord, error) {
	query := `
		SELECT id, expense_id, action, actor_id, actor_role, comment, timestamp
		FROM history_records
		WHERE expense_id = ?
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, expenseID)
	if err != nil {
		r.logger.Error("Failed to list history", zap.Int64("expense_id", expenseID), zap.Error(err))
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var records []entity.HistoryRecord
	for rows.Next() {
		var record entity.HistoryRecord
		var role string
		err := rows.Scan(
			&record.ID,
			&record.ExpenseID,
			&record.Action,
			&record.ActorID,
			&role,
			&record.Comment,
			&record.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history record: %w", err)
		}
		record.ActorRole = entity.Role(role)
		records = append(records, record)
	}

	return records, rows.Err()
}

func (r *HistoryRepository) getExecutor(ctx context.Context) executor {
	if tx := sqlite.ExtractTx(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.HistoryRepository = (*HistoryRepository)(nil)
