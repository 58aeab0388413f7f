package service

import (
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// simpleScheduleYAML has a 0% band up to 300,000 and 7% above it, which
// makes hand-checking scenarios easy.
const simpleScheduleYAML = `
schedules:
  - year: 2026
    brackets:
      - { min: "0", max: "300000", rate: "0" }
      - { min: "300000", rate: "0.07" }
`

func newTestReportService(t *testing.T, yamlSrc string) *ReportService {
	t.Helper()
	registry, err := newRegistryFromYAML([]byte(yamlSrc))
	assert.NoError(t, err)
	return NewReportService(registry)
}

func creditTx(category Category, amount string) Transaction {
	return Transaction{
		ID:          uuid.Must(uuid.NewV4()),
		Date:        time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Description: "test line",
		Amount:      d(amount),
		Direction:   DirectionCredit,
		Category:    category,
		Confidence:  0.9,
	}
}

// -- Aggregate tests --

func TestAggregate_RentReliefScenario(t *testing.T) {
	svc := newTestReportService(t, simpleScheduleYAML)

	report, err := svc.Aggregate(
		[]Transaction{creditTx(CategoryEmployment, "500000")},
		ReliefInput{AnnualRent: d("1000000")},
		2026,
	)

	assert.NoError(t, err)
	assert.True(t, d("500000").Equal(report.TotalIncome))
	assert.True(t, d("200000").Equal(report.Reliefs.RentRelief))
	assert.True(t, d("300000").Equal(report.TaxableIncome))
	// Entirely within the zero-rate band.
	assert.True(t, report.PITAmount.IsZero())
}

func TestAggregate_EmptyListIsValid(t *testing.T) {
	svc := newTestReportService(t, simpleScheduleYAML)

	report, err := svc.Aggregate([]Transaction{}, ReliefInput{}, 2026)

	assert.NoError(t, err)
	assert.True(t, report.TotalIncome.IsZero())
	assert.True(t, report.PITAmount.IsZero())
	// Zero income still produces a breakdown row for rendering.
	assert.Len(t, report.Breakdown, 1)
}

func TestAggregate_NilListIsEmptyInput(t *testing.T) {
	svc := newTestReportService(t, simpleScheduleYAML)

	report, err := svc.Aggregate(nil, ReliefInput{}, 2026)

	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Nil(t, report)
}

func TestAggregate_UnknownTaxYear(t *testing.T) {
	svc := newTestReportService(t, simpleScheduleYAML)

	_, err := svc.Aggregate([]Transaction{}, ReliefInput{}, 2019)

	assert.ErrorIs(t, err, ErrUnknownTaxYear)
}

func TestAggregate_DebitIncomeIgnored(t *testing.T) {
	svc := newTestReportService(t, simpleScheduleYAML)

	debit := creditTx(CategoryEmployment, "100000")
	debit.Direction = DirectionDebit

	report, err := svc.Aggregate(
		[]Transaction{creditTx(CategoryEmployment, "400000"), debit},
		ReliefInput{},
		2026,
	)

	assert.NoError(t, err)
	// The debit is ignored, not netted.
	assert.True(t, d("400000").Equal(report.TotalIncome))
}

func TestAggregate_TransfersAndUncategorizedExcluded(t *testing.T) {
	svc := newTestReportService(t, simpleScheduleYAML)

	report, err := svc.Aggregate(
		[]Transaction{
			creditTx(CategoryEmployment, "250000"),
			creditTx(CategoryTransfer, "900000"),
			creditTx(CategoryUncategorized, "900000"),
			creditTx(CategoryExpense, "50000"),
		},
		ReliefInput{},
		2026,
	)

	assert.NoError(t, err)
	assert.True(t, d("250000").Equal(report.TotalIncome))
}

func TestAggregate_IncomeByCategoryTotals(t *testing.T) {
	svc := newTestReportService(t, simpleScheduleYAML)

	report, err := svc.Aggregate(
		[]Transaction{
			creditTx(CategoryEmployment, "100000"),
			creditTx(CategoryEmployment, "150000"),
			creditTx(CategoryCrypto, "75000"),
			creditTx(CategoryInterest, "1000.50"),
		},
		ReliefInput{},
		2026,
	)

	assert.NoError(t, err)
	assert.True(t, d("250000").Equal(report.IncomeByCategory[CategoryEmployment]))
	assert.True(t, d("75000").Equal(report.IncomeByCategory[CategoryCrypto]))
	assert.True(t, d("1000.50").Equal(report.IncomeByCategory[CategoryInterest]))
	assert.True(t, d("326000.50").Equal(report.TotalIncome))
}

func TestAggregate_TaxableIncomeNeverNegative(t *testing.T) {
	svc := newTestReportService(t, simpleScheduleYAML)

	report, err := svc.Aggregate(
		[]Transaction{creditTx(CategoryEmployment, "100000")},
		ReliefInput{AnnualRent: d("2500000"), PensionContribution: d("400000")},
		2026,
	)

	assert.NoError(t, err)
	assert.False(t, report.TaxableIncome.IsNegative())
	assert.True(t, report.TaxableIncome.IsZero())
}

func TestAggregate_NegativeAmountRejected(t *testing.T) {
	svc := newTestReportService(t, simpleScheduleYAML)

	bad := creditTx(CategoryEmployment, "100000")
	bad.Amount = d("-1")

	report, err := svc.Aggregate([]Transaction{bad}, ReliefInput{}, 2026)

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, report)
}

func TestAggregate_NegativeReliefRejected(t *testing.T) {
	svc := newTestReportService(t, simpleScheduleYAML)

	report, err := svc.Aggregate(
		[]Transaction{creditTx(CategoryEmployment, "100000")},
		ReliefInput{AnnualRent: d("-5")},
		2026,
	)

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, report)
}

func TestAggregate_PureFunction(t *testing.T) {
	svc := newTestReportService(t, simpleScheduleYAML)

	txs := []Transaction{
		creditTx(CategoryEmployment, "1200000"),
		creditTx(CategoryFreelance, "340000"),
	}
	reliefs := ReliefInput{AnnualRent: d("600000"), NHFContribution: d("20000")}

	first, err := svc.Aggregate(txs, reliefs, 2026)
	assert.NoError(t, err)
	second, err := svc.Aggregate(txs, reliefs, 2026)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAggregate_PITMatchesBreakdownSum(t *testing.T) {
	svc := newTestReportService(t, simpleScheduleYAML)

	report, err := svc.Aggregate(
		[]Transaction{creditTx(CategoryEmployment, "2000000")},
		ReliefInput{},
		2026,
	)
	assert.NoError(t, err)

	sum := decimal.Zero
	for _, row := range report.Breakdown {
		sum = sum.Add(row.TaxAmount)
	}
	assert.True(t, sum.Equal(report.PITAmount))
	// (2,000,000 - 300,000) * 0.07
	assert.True(t, d("119000").Equal(report.PITAmount))
}

// -- QuickPIT tests --

func TestQuickPIT(t *testing.T) {
	svc := newTestReportService(t, simpleScheduleYAML)

	pit, breakdown, err := svc.QuickPIT(d("1000000"), 2026)

	assert.NoError(t, err)
	assert.True(t, d("49000").Equal(pit))
	assert.Len(t, breakdown, 2)
}

func TestQuickPIT_NegativeIncome(t *testing.T) {
	svc := newTestReportService(t, simpleScheduleYAML)

	_, _, err := svc.QuickPIT(d("-100"), 2026)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestQuickPIT_UnknownYear(t *testing.T) {
	svc := newTestReportService(t, simpleScheduleYAML)

	_, _, err := svc.QuickPIT(d("100"), 1999)
	assert.ErrorIs(t, err, ErrUnknownTaxYear)
}
