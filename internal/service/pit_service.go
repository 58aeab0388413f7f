package service

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxEngine applies a progressive bracket schedule to taxable income.
// It is schedule-agnostic: any schedule passing ValidateSchedule works.
type TaxEngine struct{}

// NewTaxEngine creates a new TaxEngine.
func NewTaxEngine() *TaxEngine {
	return &TaxEngine{}
}

// ComputeTax computes exact marginal-rate tax on taxableIncome. For each
// bracket in ascending order, the portion of income in [min, min(max,
// income)) is taxed at the bracket's rate. The returned breakdown is
// contiguous and covers [0, taxableIncome] exactly; zero-rate brackets are
// included so a report always has at least one row. Negative taxable income
// is rejected; callers clamp upstream.
func (e *TaxEngine) ComputeTax(taxableIncome decimal.Decimal, brackets []TaxBracket) (decimal.Decimal, []BracketResult, error) {
	if taxableIncome.IsNegative() {
		return decimal.Zero, nil, fmt.Errorf("%w: negative taxable income %s", ErrInvalidInput, taxableIncome)
	}
	if err := ValidateSchedule(brackets); err != nil {
		return decimal.Zero, nil, err
	}

	total := decimal.Zero
	breakdown := make([]BracketResult, 0, len(brackets))

	for i, bracket := range brackets {
		// Past the income: nothing left to tax. The first bracket is always
		// emitted so zero income still yields one row.
		if i > 0 && taxableIncome.LessThanOrEqual(bracket.Min) {
			break
		}

		upper := taxableIncome
		if !bracket.Unbounded && bracket.Max.LessThan(taxableIncome) {
			upper = bracket.Max
		}

		portion := upper.Sub(bracket.Min)
		if portion.IsNegative() {
			portion = decimal.Zero
		}
		tax := portion.Mul(bracket.Rate)
		total = total.Add(tax)

		breakdown = append(breakdown, BracketResult{
			BracketMin:       bracket.Min,
			BracketMax:       bracket.Max,
			Rate:             bracket.Rate,
			TaxableInBracket: portion,
			TaxAmount:        tax,
			Unbounded:        bracket.Unbounded,
		})
	}

	return total, breakdown, nil
}
