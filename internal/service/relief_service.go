package service

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Statutory relief parameters. Rent relief is 20% of annual rent paid,
// capped at a fixed ceiling; pension, NHIS and NHF contributions pass
// through as-is.
var (
	rentReliefRate = decimal.RequireFromString("0.20")
	rentReliefCap  = decimal.NewFromInt(500_000)
)

// ReliefCalculator converts raw relief inputs into deductible amounts.
type ReliefCalculator struct{}

// NewReliefCalculator creates a new ReliefCalculator.
func NewReliefCalculator() *ReliefCalculator {
	return &ReliefCalculator{}
}

// ComputeReliefs applies the statutory caps to the relief input. Total
// reliefs are additionally capped at grossIncome so taxable income can
// never go negative. Negative inputs are rejected, not clamped.
func (c *ReliefCalculator) ComputeReliefs(input ReliefInput, grossIncome decimal.Decimal) (ReliefBreakdown, error) {
	for name, amount := range map[string]decimal.Decimal{
		"annualRent":          input.AnnualRent,
		"pensionContribution": input.PensionContribution,
		"nhisContribution":    input.NHISContribution,
		"nhfContribution":     input.NHFContribution,
	} {
		if amount.IsNegative() {
			return ReliefBreakdown{}, fmt.Errorf("%w: negative %s %s", ErrInvalidInput, name, amount)
		}
	}

	breakdown := ReliefBreakdown{
		RentRelief:       decimal.Min(input.AnnualRent.Mul(rentReliefRate), rentReliefCap),
		PensionDeduction: input.PensionContribution,
		NHISDeduction:    input.NHISContribution,
		NHFDeduction:     input.NHFContribution,
	}

	total := breakdown.RentRelief.
		Add(breakdown.PensionDeduction).
		Add(breakdown.NHISDeduction).
		Add(breakdown.NHFDeduction)
	breakdown.TotalReliefs = decimal.Min(total, grossIncome)

	return breakdown, nil
}

// ComputeRentRelief computes just the rent relief portion.
func (c *ReliefCalculator) ComputeRentRelief(annualRent decimal.Decimal) (decimal.Decimal, error) {
	if annualRent.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative annualRent %s", ErrInvalidInput, annualRent)
	}
	return decimal.Min(annualRent.Mul(rentReliefRate), rentReliefCap), nil
}
