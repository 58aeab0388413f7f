package service

import (
	"github.com/shopspring/decimal"
)

// TaxBracket is one marginal-rate band in a year's schedule. Brackets are
// half-open [Min, Max); the final bracket has Unbounded set and its Max is
// ignored.
type TaxBracket struct {
	Min       decimal.Decimal
	Max       decimal.Decimal
	Rate      decimal.Decimal
	Unbounded bool
}

// BracketResult is the tax computed within a single bracket. Results are
// contiguous, non-overlapping, and together cover [0, taxableIncome].
type BracketResult struct {
	BracketMin       decimal.Decimal `json:"bracketMin"`
	BracketMax       decimal.Decimal `json:"bracketMax"`
	Rate             decimal.Decimal `json:"rate"`
	TaxableInBracket decimal.Decimal `json:"taxableInBracket"`
	TaxAmount        decimal.Decimal `json:"taxAmount"`
	Unbounded        bool            `json:"unbounded,omitempty"`
}

// ReliefInput is the user-supplied relief information, independent of
// transaction data. All amounts must be non-negative.
type ReliefInput struct {
	AnnualRent          decimal.Decimal
	PensionContribution decimal.Decimal
	NHISContribution    decimal.Decimal
	NHFContribution     decimal.Decimal
}

// ReliefBreakdown is the deductible amounts after statutory caps.
type ReliefBreakdown struct {
	RentRelief       decimal.Decimal `json:"rentRelief"`
	PensionDeduction decimal.Decimal `json:"pensionDeduction"`
	NHISDeduction    decimal.Decimal `json:"nhisDeduction"`
	NHFDeduction     decimal.Decimal `json:"nhfDeduction"`
	TotalReliefs     decimal.Decimal `json:"totalReliefs"`
}

// TaxReport is the immutable result of one computation request.
// Invariants: TaxableIncome = max(0, TotalIncome - TotalReliefs) and
// PITAmount equals the sum of the breakdown's tax amounts.
type TaxReport struct {
	TaxYear int `json:"taxYear"`

	IncomeByCategory map[Category]decimal.Decimal `json:"incomeByCategory"`
	TotalIncome      decimal.Decimal              `json:"totalIncome"`

	Reliefs ReliefBreakdown `json:"reliefs"`

	TaxableIncome decimal.Decimal `json:"taxableIncome"`
	PITAmount     decimal.Decimal `json:"pitAmount"`
	Breakdown     []BracketResult `json:"breakdown"`
}
