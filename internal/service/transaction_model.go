package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Direction indicates which way money moved. Amounts are always
// non-negative; the direction carries the sign semantics.
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// Category classifies a transaction for tax purposes.
type Category string

const (
	CategoryEmployment    Category = "employment_income"
	CategoryFreelance     Category = "freelance_income"
	CategoryRental        Category = "rental_income"
	CategoryInvestment    Category = "investment_income"
	CategoryCrypto        Category = "crypto_income"
	CategoryInterest      Category = "interest_income"
	CategoryOtherIncome   Category = "other_income"
	CategoryExpense       Category = "expense"
	CategoryRentExpense   Category = "rent_expense"
	CategoryTransfer      Category = "transfer"
	CategoryUncategorized Category = "uncategorized"
)

// Contribution says how a category participates in report totals.
type Contribution int

const (
	// ContributionNone covers transfers and uncategorized lines; they never
	// count toward income or expense totals.
	ContributionNone Contribution = iota
	ContributionIncome
	ContributionExpense
)

// categoryContributions is the single source of truth for how each category
// maps onto the report. Aggregation and rendering must consult this table
// rather than carry their own category lists.
var categoryContributions = map[Category]Contribution{
	CategoryEmployment:    ContributionIncome,
	CategoryFreelance:     ContributionIncome,
	CategoryRental:        ContributionIncome,
	CategoryInvestment:    ContributionIncome,
	CategoryCrypto:        ContributionIncome,
	CategoryInterest:      ContributionIncome,
	CategoryOtherIncome:   ContributionIncome,
	CategoryExpense:       ContributionExpense,
	CategoryRentExpense:   ContributionExpense,
	CategoryTransfer:      ContributionNone,
	CategoryUncategorized: ContributionNone,
}

// incomeCategoryOrder fixes the iteration order for income totals so that
// reports are reproducible run to run.
var incomeCategoryOrder = []Category{
	CategoryEmployment,
	CategoryFreelance,
	CategoryRental,
	CategoryInvestment,
	CategoryCrypto,
	CategoryInterest,
	CategoryOtherIncome,
}

// Valid reports whether c is a member of the closed category enum.
func (c Category) Valid() bool {
	_, ok := categoryContributions[c]
	return ok
}

// IsIncome reports whether the category contributes to gross taxable income.
func (c Category) IsIncome() bool {
	return categoryContributions[c] == ContributionIncome
}

// IsExpense reports whether the category contributes to expense totals.
func (c Category) IsExpense() bool {
	return categoryContributions[c] == ContributionExpense
}

// IncomeCategories returns the income categories in report order.
func IncomeCategories() []Category {
	out := make([]Category, len(incomeCategoryOrder))
	copy(out, incomeCategoryOrder)
	return out
}

// ParsedTransaction is a statement line as produced by the parser, before
// classification.
type ParsedTransaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Direction   Direction
	Balance     decimal.Decimal
	Reference   string
}

// Transaction is the canonical financial movement everything downstream
// operates on. The classification gate sets Category, Confidence and
// NeedsReview; a manual review may set Category once more and clear
// NeedsReview. Nothing mutates a transaction after aggregation.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Direction   Direction       `json:"direction"`
	Category    Category        `json:"category"`
	Confidence  float64         `json:"confidence"`
	NeedsReview bool            `json:"needsReview"`
}

// ClassificationResult is one classifier answer for one transaction.
type ClassificationResult struct {
	Category   Category
	Confidence float64
	Method     string // "rules" or "ai"
}
