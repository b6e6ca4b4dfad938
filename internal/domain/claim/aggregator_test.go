package claim

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sedlabs/expense-claims/internal/domain/entity"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDayCount(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want int
	}{
		{"single day", "2024-03-01", "2024-03-01", 1},
		{"inclusive span", "2024-03-01", "2024-03-03", 3},
		{"reversed dates clamp to zero", "2024-03-05", "2024-03-01", 0},
		{"month boundary", "2024-02-28", "2024-03-02", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DayCount(day(tt.from), day(tt.to)))
		})
	}
}

func TestAggregate_SingleTravelEntry(t *testing.T) {
	travel := []entity.TravelEntry{
		{Date: day("2024-03-01"), FromPlace: "Office", ToPlace: "Site", Mode: "Bus", Fare: decimal.NewFromInt(500)},
	}

	b := Aggregate(travel, nil, nil, nil)

	assert.True(t, b.Travel.Equal(decimal.NewFromInt(500)), "travel subtotal = %s", b.Travel)
	assert.True(t, b.Total.Equal(decimal.NewFromInt(500)), "total = %s", b.Total)
	assert.True(t, b.Hotel.IsZero())
	assert.True(t, b.Food.IsZero())
	assert.True(t, b.Allowance.IsZero())
}

func TestAggregate_SEDProvidedFareIsZero(t *testing.T) {
	travel := []entity.TravelEntry{
		{Date: day("2024-03-01"), Mode: entity.ModeSEDProvided, Fare: decimal.NewFromInt(900)},
		{Date: day("2024-03-02"), Mode: "Taxi", Fare: decimal.NewFromInt(150)},
	}

	b := Aggregate(travel, nil, nil, nil)

	assert.True(t, b.Travel.Equal(decimal.NewFromInt(150)), "SED-provided fare must not count, got %s", b.Travel)
}

func TestAggregate_SharedScopeAcrossCategories(t *testing.T) {
	// Two rows sharing one scope: 2 days + 3 days at 200/day = 1000
	allowances := []entity.AllowanceRow{
		{Category: entity.AllowanceJourney, FromDate: day("2024-03-01"), ToDate: day("2024-03-02"), Scope: "Site Allowance", PerDay: decimal.NewFromInt(200)},
		{Category: entity.AllowanceStay, FromDate: day("2024-03-03"), ToDate: day("2024-03-05"), Scope: "Site Allowance", PerDay: decimal.NewFromInt(200)},
	}

	b := Aggregate(nil, allowances, nil, ScopeRates(allowances))

	require.Len(t, b.Scopes, 1)
	assert.Equal(t, "Site Allowance", b.Scopes[0].Scope)
	assert.Equal(t, 5, b.Scopes[0].Days)
	assert.True(t, b.Scopes[0].Subtotal.Equal(decimal.NewFromInt(1000)), "subtotal = %s", b.Scopes[0].Subtotal)
	assert.True(t, b.Total.Equal(decimal.NewFromInt(1000)))
}

func TestAggregate_DistinctScopes(t *testing.T) {
	allowances := []entity.AllowanceRow{
		{Category: entity.AllowanceJourney, FromDate: day("2024-03-01"), ToDate: day("2024-03-01"), Scope: "Site Allowance", PerDay: decimal.NewFromInt(200)},
		{Category: entity.AllowanceReturn, FromDate: day("2024-03-02"), ToDate: day("2024-03-03"), Scope: "City Allowance", PerDay: decimal.NewFromInt(100)},
	}

	b := Aggregate(nil, allowances, nil, ScopeRates(allowances))

	require.Len(t, b.Scopes, 2)
	// 1*200 + 2*100
	assert.True(t, b.Allowance.Equal(decimal.NewFromInt(400)), "allowance = %s", b.Allowance)
}

func TestAggregate_ScopeLabelsMatchExactly(t *testing.T) {
	allowances := []entity.AllowanceRow{
		{Category: entity.AllowanceStay, FromDate: day("2024-03-01"), ToDate: day("2024-03-02"), Scope: "site allowance", PerDay: decimal.NewFromInt(200)},
	}
	// Rate map carries a differently-cased label; no rate is found and the
	// subtotal stays zero rather than silently matching.
	rates := map[string]decimal.Decimal{"Site Allowance": decimal.NewFromInt(200)}

	b := Aggregate(nil, allowances, nil, rates)

	require.Len(t, b.Scopes, 1)
	assert.True(t, b.Scopes[0].Subtotal.IsZero())
}

func TestAggregate_HotelAndFoodBills(t *testing.T) {
	bills := []entity.HotelFoodBill{
		{Kind: entity.BillKindHotel, FromDate: day("2024-03-01"), ToDate: day("2024-03-03"), Amount: decimal.NewFromInt(2400)},
		{Kind: entity.BillKindFood, FromDate: day("2024-03-01"), ToDate: day("2024-03-03"), Amount: decimal.NewFromFloat(351.50)},
		{Kind: entity.BillKindFood, FromDate: day("2024-03-04"), ToDate: day("2024-03-04"), Amount: decimal.NewFromFloat(148.50)},
	}

	b := Aggregate(nil, nil, bills, nil)

	assert.True(t, b.Hotel.Equal(decimal.NewFromInt(2400)))
	assert.True(t, b.Food.Equal(decimal.NewFromInt(500)))
	assert.True(t, b.Total.Equal(decimal.NewFromInt(2900)))
}

func TestAggregate_GrandTotalCombinesAllCategories(t *testing.T) {
	travel := []entity.TravelEntry{
		{Date: day("2024-03-01"), Mode: "Train", Fare: decimal.NewFromInt(300)},
	}
	allowances := []entity.AllowanceRow{
		{Category: entity.AllowanceJourney, FromDate: day("2024-03-01"), ToDate: day("2024-03-02"), Scope: "Site Allowance", PerDay: decimal.NewFromInt(250)},
	}
	bills := []entity.HotelFoodBill{
		{Kind: entity.BillKindHotel, Amount: decimal.NewFromInt(1200), FromDate: day("2024-03-01"), ToDate: day("2024-03-02")},
	}

	b := Aggregate(travel, allowances, bills, ScopeRates(allowances))

	// 300 + 1200 + 2*250
	assert.True(t, b.Total.Equal(decimal.NewFromInt(2000)), "total = %s", b.Total)
}

func TestAggregate_Deterministic(t *testing.T) {
	travel := []entity.TravelEntry{
		{Date: day("2024-03-01"), Mode: "Bus", Fare: decimal.NewFromFloat(123.45)},
	}
	allowances := []entity.AllowanceRow{
		{Category: entity.AllowanceStay, FromDate: day("2024-03-01"), ToDate: day("2024-03-04"), Scope: "Remote", PerDay: decimal.NewFromInt(175)},
		{Category: entity.AllowanceReturn, FromDate: day("2024-03-05"), ToDate: day("2024-03-05"), Scope: "Remote", PerDay: decimal.NewFromInt(175)},
	}
	rates := ScopeRates(allowances)

	first := Aggregate(travel, allowances, nil, rates)
	for i := 0; i < 50; i++ {
		again := Aggregate(travel, allowances, nil, rates)
		require.True(t, first.Total.Equal(again.Total), "run %d: %s != %s", i, first.Total, again.Total)
	}
}

func TestAggregate_EmptyInputs(t *testing.T) {
	b := Aggregate(nil, nil, nil, nil)
	assert.True(t, b.Total.IsZero())
	assert.False(t, b.Total.IsPositive())
}

func TestScopeRates_FirstRowWins(t *testing.T) {
	rows := []entity.AllowanceRow{
		{Scope: "Site Allowance", PerDay: decimal.NewFromInt(200)},
		{Scope: "Site Allowance", PerDay: decimal.NewFromInt(999)},
	}

	rates := ScopeRates(rows)

	require.Len(t, rates, 1)
	assert.True(t, rates["Site Allowance"].Equal(decimal.NewFromInt(200)))
}
