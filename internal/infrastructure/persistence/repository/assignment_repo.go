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

// AssignmentRepository implements port.AssignmentRepository over the
// coordinator-assignment reference table.
type AssignmentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(db *sql.DB, logger *zap.Logger) port.AssignmentRepository {
	return &AssignmentRepository{
		db:     db,
		logger: logger,
	}
}

// IsCoordinatorFor reports whether the employee is the registered
// coordinator of the department
func (r *AssignmentRepository) IsCoordinatorFor(ctx context.Context, coordinatorID, department string) (bool, error) {
	query := `
		SELECT COUNT(1)
		FROM coordinator_assignments
		WHERE coordinator_id = ? AND department = ?
	`

	var count int
	err := r.getExecutor(ctx).QueryRowContext(ctx, query, coordinatorID, department).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to check coordinator assignment",
			zap.String("coordinator_id", coordinatorID),
			zap.String("department", department),
			zap.Error(err))
		return false, fmt.Errorf("failed to check assignment: %w", err)
	}
	return count > 0, nil
}

// ListByDepartment retrieves the assignments of a department
func (r *AssignmentRepository) ListByDepartment(ctx context.Context, department string) ([]entity.CoordinatorAssignment, error) {
	query := `
		SELECT id, coordinator_id, department
		FROM coordinator_assignments
		WHERE department = ?
		ORDER BY coordinator_id ASC
	`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, department)
	if err != nil {
		r.logger.Error("Failed to list assignments", zap.String("department", department), zap.Error(err))
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []entity.CoordinatorAssignment
	for rows.Next() {
		var a entity.CoordinatorAssignment
		if err := rows.Scan(&a.ID, &a.CoordinatorID, &a.Department); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func (r *AssignmentRepository) getExecutor(ctx context.Context) executor {
	if tx := sqlite.ExtractTx(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.AssignmentRepository = (*AssignmentRepository)(nil)
