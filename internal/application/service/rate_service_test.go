package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sedlabs/expense-claims/internal/domain/entity"
)

type mockRateRepo struct {
	rates map[string]map[string]decimal.Decimal // designation -> scope -> rate
}

func (m *mockRateRepo) Get(_ context.Context, designationID, scope string) (*entity.AllowanceRate, error) {
	rate, ok := m.rates[designationID][scope]
	if !ok {
		return nil, nil
	}
	return &entity.AllowanceRate{DesignationID: designationID, Scope: scope, PerDay: rate}, nil
}

func (m *mockRateRepo) ListByDesignation(_ context.Context, designationID string) ([]entity.AllowanceRate, error) {
	var rates []entity.AllowanceRate
	for scope, rate := range m.rates[designationID] {
		rates = append(rates, entity.AllowanceRate{DesignationID: designationID, Scope: scope, PerDay: rate})
	}
	return rates, nil
}

func TestDefaultRate(t *testing.T) {
	svc := NewRateService(&mockRateRepo{
		rates: map[string]map[string]decimal.Decimal{
			"engineer": {"Site Allowance": decimal.NewFromInt(200)},
		},
	}, nopLogger{})

	rate, found, err := svc.DefaultRate(context.Background(), "engineer", "Site Allowance")
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, rate.Equal(decimal.NewFromInt(200)))

	// Exact-match lookup: unknown scope means the submitter supplies a rate
	// manually, not an error.
	_, found, err = svc.DefaultRate(context.Background(), "engineer", "site allowance")
	require.NoError(t, err)
	assert.False(t, found)
}
