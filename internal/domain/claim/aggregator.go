// Package claim computes the authoritative claim amount of an expense from
// its line items. The aggregator is pure: identical inputs always yield the
// identical amount, and nothing here performs I/O.
package claim

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sedlabs/expense-claims/internal/domain/entity"
)

// ScopeSubtotal is the allowance contribution of one distinct scope label.
type ScopeSubtotal struct {
	Scope    string          `json:"scope"`
	Days     int             `json:"days"`
	PerDay   decimal.Decimal `json:"per_day"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Breakdown holds the category subtotals and the grand total.
type Breakdown struct {
	Travel    decimal.Decimal `json:"travel"`
	Hotel     decimal.Decimal `json:"hotel"`
	Food      decimal.Decimal `json:"food"`
	Allowance decimal.Decimal `json:"allowance"`
	Scopes    []ScopeSubtotal `json:"scopes"`
	Total     decimal.Decimal `json:"total"`
}

// DayCount returns the inclusive day span between from and to, clamped to
// zero when to precedes from. Both bounds are truncated to the day.
func DayCount(from, to time.Time) int {
	fromDay := from.Truncate(24 * time.Hour)
	toDay := to.Truncate(24 * time.Hour)
	if toDay.Before(fromDay) {
		return 0
	}
	return int(toDay.Sub(fromDay).Hours()/24) + 1
}

// ScopeRates derives the per-day rate map from the rows themselves: rows
// sharing a scope share the rate of the first row carrying it. Labels are
// matched exactly, no case-folding or trimming.
func ScopeRates(rows []entity.AllowanceRow) map[string]decimal.Decimal {
	rates := make(map[string]decimal.Decimal)
	for _, row := range rows {
		if _, ok := rates[row.Scope]; !ok {
			rates[row.Scope] = row.PerDay
		}
	}
	return rates
}

// Aggregate combines the line-item collections and a scope→rate map into
// category subtotals and one grand total.
func Aggregate(travel []entity.TravelEntry, allowances []entity.AllowanceRow, bills []entity.HotelFoodBill, rates map[string]decimal.Decimal) Breakdown {
	b := Breakdown{
		Travel: decimal.Zero,
		Hotel:  decimal.Zero,
		Food:   decimal.Zero,
	}

	for _, t := range travel {
		fare := t.Fare
		if t.Mode == entity.ModeSEDProvided {
			fare = decimal.Zero
		}
		b.Travel = b.Travel.Add(fare)
	}

	for _, bill := range bills {
		switch bill.Kind {
		case entity.BillKindHotel:
			b.Hotel = b.Hotel.Add(bill.Amount)
		case entity.BillKindFood:
			b.Food = b.Food.Add(bill.Amount)
		}
	}

	// Total days per distinct scope across journey+return+stay rows, then one
	// subtotal per scope at that scope's rate.
	dayTotals := make(map[string]int)
	var scopeOrder []string
	for _, row := range allowances {
		if _, seen := dayTotals[row.Scope]; !seen {
			scopeOrder = append(scopeOrder, row.Scope)
		}
		dayTotals[row.Scope] += DayCount(row.FromDate, row.ToDate)
	}
	sort.Strings(scopeOrder)

	allowanceTotal := decimal.Zero
	for _, scope := range scopeOrder {
		rate := rates[scope]
		subtotal := rate.Mul(decimal.NewFromInt(int64(dayTotals[scope])))
		b.Scopes = append(b.Scopes, ScopeSubtotal{
			Scope:    scope,
			Days:     dayTotals[scope],
			PerDay:   rate,
			Subtotal: subtotal,
		})
		allowanceTotal = allowanceTotal.Add(subtotal)
	}
	b.Allowance = allowanceTotal

	b.Total = b.Travel.Add(b.Hotel).Add(b.Food).Add(b.Allowance)
	return b
}
