package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sedlabs/expense-claims/internal/application/port"
	"github.com/sedlabs/expense-claims/internal/domain/entity"
)

// RateService resolves default per-day allowance rates used to pre-fill
// drafts. The submitter may override the resolved amount per claim.
type RateService interface {
	// DefaultRate returns the default rate for a designation and scope; the
	// second return is false when no rate is registered for the pair.
	DefaultRate(ctx context.Context, designationID, scope string) (decimal.Decimal, bool, error)

	// RatesForDesignation returns every registered rate for a designation.
	RatesForDesignation(ctx context.Context, designationID string) ([]entity.AllowanceRate, error)
}

type rateServiceImpl struct {
	rateRepo port.RateRepository
	logger   Logger
}

// NewRateService creates a new RateService
func NewRateService(rateRepo port.RateRepository, logger Logger) RateService {
	return &rateServiceImpl{
		rateRepo: rateRepo,
		logger:   logger,
	}
}

func (s *rateServiceImpl) DefaultRate(ctx context.Context, designationID, scope string) (decimal.Decimal, bool, error) {
	rate, err := s.rateRepo.Get(ctx, designationID, scope)
	if err != nil {
		s.logger.Error("Failed to resolve allowance rate",
			"error", err,
			"designation_id", designationID,
			"scope", scope)
		return decimal.Zero, false, err
	}
	if rate == nil {
		return decimal.Zero, false, nil
	}
	return rate.PerDay, true, nil
}

func (s *rateServiceImpl) RatesForDesignation(ctx context.Context, designationID string) ([]entity.AllowanceRate, error) {
	rates, err := s.rateRepo.ListByDesignation(ctx, designationID)
	if err != nil {
		s.logger.Error("Failed to list allowance rates", "error", err, "designation_id", designationID)
		return nil, err
	}
	return rates, nil
}
