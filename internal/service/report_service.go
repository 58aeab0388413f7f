package service

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ReportService assembles tax reports from classified transactions.
type ReportService struct {
	reliefs   *ReliefCalculator
	engine    *TaxEngine
	schedules *ScheduleRegistry
}

// NewReportService creates a ReportService backed by the given schedule
// registry.
func NewReportService(schedules *ScheduleRegistry) *ReportService {
	return &ReportService{
		reliefs:   NewReliefCalculator(),
		engine:    NewTaxEngine(),
		schedules: schedules,
	}
}

// Aggregate computes the full tax report: category income totals from
// credit-direction transactions, reliefs, taxable income and the bracket
// breakdown. It is a pure function of its inputs — identical inputs yield
// identical reports — and every error is detected before the report is
// assembled, so callers see either a complete report or none.
//
// A nil transaction list is ErrEmptyInput; an empty list is a valid request
// producing an all-zero report. Debit-direction transactions in income
// categories are ignored rather than netted against income.
func (s *ReportService) Aggregate(transactions []Transaction, reliefs ReliefInput, taxYear int) (*TaxReport, error) {
	if transactions == nil {
		return nil, ErrEmptyInput
	}

	brackets, err := s.schedules.Lookup(taxYear)
	if err != nil {
		return nil, err
	}

	for i, tx := range transactions {
		if tx.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: negative amount %s at index %d", ErrInvalidInput, tx.Amount, i)
		}
		if !tx.Category.Valid() {
			return nil, fmt.Errorf("%w: unknown category %q at index %d", ErrInvalidInput, tx.Category, i)
		}
	}

	incomeByCategory := make(map[Category]decimal.Decimal, len(incomeCategoryOrder))
	for _, cat := range incomeCategoryOrder {
		incomeByCategory[cat] = decimal.Zero
	}
	for _, tx := range transactions {
		// Income is recognized on credit movements only.
		if tx.Category.IsIncome() && tx.Direction == DirectionCredit {
			incomeByCategory[tx.Category] = incomeByCategory[tx.Category].Add(tx.Amount)
		}
	}

	totalIncome := decimal.Zero
	for _, cat := range incomeCategoryOrder {
		totalIncome = totalIncome.Add(incomeByCategory[cat])
	}

	reliefBreakdown, err := s.reliefs.ComputeReliefs(reliefs, totalIncome)
	if err != nil {
		return nil, err
	}

	taxableIncome := totalIncome.Sub(reliefBreakdown.TotalReliefs)
	if taxableIncome.IsNegative() {
		taxableIncome = decimal.Zero
	}

	pitAmount, breakdown, err := s.engine.ComputeTax(taxableIncome, brackets)
	if err != nil {
		return nil, err
	}

	return &TaxReport{
		TaxYear:          taxYear,
		IncomeByCategory: incomeByCategory,
		TotalIncome:      totalIncome,
		Reliefs:          reliefBreakdown,
		TaxableIncome:    taxableIncome,
		PITAmount:        pitAmount,
		Breakdown:        breakdown,
	}, nil
}

// QuickPIT computes tax on a bare annual income with no reliefs applied.
func (s *ReportService) QuickPIT(annualIncome decimal.Decimal, taxYear int) (decimal.Decimal, []BracketResult, error) {
	if annualIncome.IsNegative() {
		return decimal.Zero, nil, fmt.Errorf("%w: negative annual income %s", ErrInvalidInput, annualIncome)
	}
	brackets, err := s.schedules.Lookup(taxYear)
	if err != nil {
		return decimal.Zero, nil, err
	}
	return s.engine.ComputeTax(annualIncome, brackets)
}
