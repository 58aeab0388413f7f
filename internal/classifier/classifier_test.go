package classifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ojimcy/taxsmart/internal/service"
)

func parsedTx(description string, direction service.Direction) service.ParsedTransaction {
	return service.ParsedTransaction{
		Date:        time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Description: description,
		Amount:      decimal.NewFromInt(100000),
		Direction:   direction,
	}
}

// -- Rule engine tests --

func TestRuleEngine_IncomePatterns(t *testing.T) {
	engine := NewRuleEngine()

	tests := []struct {
		description string
		direction   service.Direction
		category    service.Category
		confidence  float64
	}{
		{"MARCH SALARY ACME LTD", service.DirectionCredit, service.CategoryEmployment, 0.85},
		{"UPWORK ESCROW DISBURSEMENT", service.DirectionCredit, service.CategoryFreelance, 0.85},
		{"NIP/BINANCE P2P SETTLEMENT", service.DirectionCredit, service.CategoryCrypto, 0.85},
		{"RISEVEST PAYOUT Q1", service.DirectionCredit, service.CategoryInvestment, 0.85},
		{"INT CREDIT SAVINGS", service.DirectionCredit, service.CategoryInterest, 0.85},
		{"RENT RECEIVED FLAT 4B", service.DirectionCredit, service.CategoryRental, 0.85},
	}

	for _, test := range tests {
		result := engine.Classify(parsedTx(test.description, test.direction))
		assert.Equal(t, test.category, result.Category, test.description)
		assert.Equal(t, test.confidence, result.Confidence, test.description)
		assert.Equal(t, "rules", result.Method)
	}
}

func TestRuleEngine_ExpensePatterns(t *testing.T) {
	engine := NewRuleEngine()

	result := engine.Classify(parsedTx("RENT PAYMENT LEKKI PHASE 1", service.DirectionDebit))
	assert.Equal(t, service.CategoryRentExpense, result.Category)
	assert.Equal(t, 0.85, result.Confidence)

	result = engine.Classify(parsedTx("POS PURCHASE SHOPRITE", service.DirectionDebit))
	assert.Equal(t, service.CategoryExpense, result.Category)
	assert.Equal(t, 0.70, result.Confidence)
}

func TestRuleEngine_DirectionGatesPatterns(t *testing.T) {
	engine := NewRuleEngine()

	// A debit mentioning SALARY is not income.
	result := engine.Classify(parsedTx("SALARY ADVANCE REPAYMENT", service.DirectionDebit))
	assert.NotEqual(t, service.CategoryEmployment, result.Category)

	// A credit that only matches expense keywords stays unmatched.
	result = engine.Classify(parsedTx("POS REVERSAL", service.DirectionCredit))
	assert.Equal(t, service.CategoryUncategorized, result.Category)
}

func TestRuleEngine_Transfers(t *testing.T) {
	engine := NewRuleEngine()

	result := engine.Classify(parsedTx("NIP TRF JOHN DOE", service.DirectionDebit))
	assert.Equal(t, service.CategoryTransfer, result.Category)
	assert.Equal(t, 0.60, result.Confidence)

	// Credit transfers are ambiguous and stay uncategorized at low confidence.
	result = engine.Classify(parsedTx("TRANSFER FROM OKON", service.DirectionCredit))
	assert.Equal(t, service.CategoryUncategorized, result.Category)
	assert.Equal(t, 0.50, result.Confidence)
}

func TestRuleEngine_LongestPatternWins(t *testing.T) {
	engine := NewRuleEngine()

	// "RENT RECEIVED" must win over the bare transfer regex.
	result := engine.Classify(parsedTx("TRF RENT RECEIVED FLAT 2", service.DirectionCredit))
	assert.Equal(t, service.CategoryRental, result.Category)
}

func TestRuleEngine_NoMatch(t *testing.T) {
	engine := NewRuleEngine()

	result := engine.Classify(parsedTx("MISC NARRATION", service.DirectionCredit))
	assert.Equal(t, service.CategoryUncategorized, result.Category)
	assert.Equal(t, float64(0), result.Confidence)
}

// -- Hybrid classifier tests --

type MockBatchClassifier struct {
	mock.Mock
}

func (m *MockBatchClassifier) ClassifyBatch(ctx context.Context, transactions []service.ParsedTransaction) ([]service.ClassificationResult, error) {
	args := m.Called(ctx, transactions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.ClassificationResult), args.Error(1)
}

func TestClassifier_RulesOnly(t *testing.T) {
	c := New(nil, logrus.New())

	results := c.ClassifyBatch(context.Background(), []service.ParsedTransaction{
		parsedTx("MARCH SALARY", service.DirectionCredit),
		parsedTx("MISC", service.DirectionCredit),
	})

	assert.Len(t, results, 2)
	assert.Equal(t, service.CategoryEmployment, results[0].Category)
	assert.Equal(t, service.CategoryUncategorized, results[1].Category)
}

func TestClassifier_AIWinsWhenMoreConfident(t *testing.T) {
	transactions := []service.ParsedTransaction{
		parsedTx("MARCH SALARY", service.DirectionCredit),
		parsedTx("ODDLY NAMED INFLOW", service.DirectionCredit),
	}

	ai := &MockBatchClassifier{}
	ai.On("ClassifyBatch", mock.Anything, transactions).Return([]service.ClassificationResult{
		{Category: service.CategoryFreelance, Confidence: 0.60, Method: "ai"},
		{Category: service.CategoryOtherIncome, Confidence: 0.90, Method: "ai"},
	}, nil)

	c := New(ai, logrus.New())
	results := c.ClassifyBatch(context.Background(), transactions)

	// Rules matched SALARY at 0.85, beating the AI's 0.60.
	assert.Equal(t, service.CategoryEmployment, results[0].Category)
	assert.Equal(t, "rules", results[0].Method)

	// Rules had nothing for the second line, so the AI answer stands.
	assert.Equal(t, service.CategoryOtherIncome, results[1].Category)
	assert.Equal(t, "ai", results[1].Method)
	ai.AssertExpectations(t)
}

func TestClassifier_AIFailureFallsBackToRules(t *testing.T) {
	transactions := []service.ParsedTransaction{
		parsedTx("MARCH SALARY", service.DirectionCredit),
	}

	ai := &MockBatchClassifier{}
	ai.On("ClassifyBatch", mock.Anything, transactions).Return(nil, errors.New("quota exceeded"))

	c := New(ai, logrus.New())
	results := c.ClassifyBatch(context.Background(), transactions)

	assert.Len(t, results, 1)
	assert.Equal(t, service.CategoryEmployment, results[0].Category)
	assert.Equal(t, "rules", results[0].Method)
	ai.AssertExpectations(t)
}

func TestClassifier_EmptyBatchSkipsAI(t *testing.T) {
	ai := &MockBatchClassifier{}

	c := New(ai, logrus.New())
	results := c.ClassifyBatch(context.Background(), nil)

	assert.Empty(t, results)
	ai.AssertNotCalled(t, "ClassifyBatch")
}

// -- Model response parsing tests --

func TestParseResponse(t *testing.T) {
	raw := "```json\n" + `[
		{"index": 1, "category": "expense", "confidence": 0.8},
		{"index": 0, "category": "employment_income", "confidence": 0.95}
	]` + "\n```"

	results, err := parseResponse(raw, 2)
	assert.NoError(t, err)
	assert.Equal(t, service.CategoryEmployment, results[0].Category)
	assert.Equal(t, 0.95, results[0].Confidence)
	assert.Equal(t, service.CategoryExpense, results[1].Category)
	assert.Equal(t, "ai", results[0].Method)
}

func TestParseResponse_UnknownCategoryDemoted(t *testing.T) {
	raw := `[{"index": 0, "category": "lottery_winnings", "confidence": 0.9}]`

	results, err := parseResponse(raw, 1)
	assert.NoError(t, err)
	assert.Equal(t, service.CategoryUncategorized, results[0].Category)
	assert.Equal(t, float64(0), results[0].Confidence)
}

func TestParseResponse_ConfidenceClamped(t *testing.T) {
	raw := `[{"index": 0, "category": "expense", "confidence": 1.7}]`

	results, err := parseResponse(raw, 1)
	assert.NoError(t, err)
	assert.Equal(t, float64(1), results[0].Confidence)
}

func TestParseResponse_CountMismatch(t *testing.T) {
	raw := `[{"index": 0, "category": "expense", "confidence": 0.8}]`

	_, err := parseResponse(raw, 2)
	assert.Error(t, err)
}

func TestParseResponse_OutOfRangeIndex(t *testing.T) {
	raw := `[{"index": 5, "category": "expense", "confidence": 0.8}]`

	_, err := parseResponse(raw, 1)
	assert.Error(t, err)
}

func TestParseResponse_NotJSON(t *testing.T) {
	_, err := parseResponse("I could not classify these.", 1)
	assert.Error(t, err)
}
