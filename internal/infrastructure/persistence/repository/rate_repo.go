package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sedlabs/expense-claims/internal/application/port"
	"github.com/sedlabs/expense-claims/internal/domain/entity"
	"github.com/sedlabs/expense-claims/internal/infrastructure/persistence/sqlite"
)

// RateRepository implements port.RateRepository over the allowance-rate
// reference table.
type RateRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRateRepository creates a new rate repository
func NewRateRepository(db *sql.DB, logger *zap.Logger) port.RateRepository {
	return &RateRepository{
		db:     db,
		logger: logger,
	}
}

// Get retrieves the rate for a designation and scope, or nil if absent.
// Scope labels are matched exactly.
func (r *RateRepository) Get(ctx context.Context, designationID, scope string) (*entity.AllowanceRate, error) {
	query := `
		SELECT id, designation_id, scope, per_day
		FROM allowance_rates
		WHERE designation_id = ? AND scope = ?
	`

	rate, err := scanRate(r.getExecutor(ctx).QueryRowContext(ctx, query, designationID, scope))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get allowance rate",
			zap.String("designation_id", designationID),
			zap.String("scope", scope),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get rate: %w", err)
	}
	return rate, nil
}

// ListByDesignation retrieves every rate registered for a designation
func (r *RateRepository) ListByDesignation(ctx context.Context, designationID string) ([]entity.AllowanceRate, error) {
	query := `
		SELECT id, designation_id, scope, per_day
		FROM allowance_rates
		WHERE designation_id = ?
		ORDER BY scope ASC
	`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, designationID)
	if err != nil {
		r.logger.Error("Failed to list allowance rates", zap.String("designation_id", designationID), zap.Error(err))
		return nil, fmt.Errorf("failed to list rates: %w", err)
	}
	defer rows.Close()

	var rates []entity.AllowanceRate
	for rows.Next() {
		rate, err := scanRate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rate: %w", err)
		}
		rates = append(rates, *rate)
	}
	return rates, rows.Err()
}

func scanRate(row rowScanner) (*entity.AllowanceRate, error) {
	var rate entity.AllowanceRate
	var perDay string
	if err := row.Scan(&rate.ID, &rate.DesignationID, &rate.Scope, &perDay); err != nil {
		return nil, err
	}
	var err error
	if rate.PerDay, err = decimal.NewFromString(perDay); err != nil {
		return nil, fmt.Errorf("invalid per-day amount %q: %w", perDay, err)
	}
	return &rate, nil
}

func (r *RateRepository) getExecutor(ctx context.Context) executor {
	if tx := sqlite.ExtractTx(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.RateRepository = (*RateRepository)(nil)
