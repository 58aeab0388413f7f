package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func makeParsed(n int) []ParsedTransaction {
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	parsed := make([]ParsedTransaction, n)
	for i := range parsed {
		parsed[i] = ParsedTransaction{
			Date:        date,
			Description: "SALARY MARCH",
			Amount:      d("250000"),
			Direction:   DirectionCredit,
		}
	}
	return parsed
}

// -- Gate tests --

func TestGate_ThresholdIsExclusive(t *testing.T) {
	svc := NewClassificationService(0.7)

	tests := []struct {
		name        string
		confidence  float64
		needsReview bool
	}{
		{name: "exactly at threshold is not flagged", confidence: 0.7, needsReview: false},
		{name: "just below threshold is flagged", confidence: 0.6999, needsReview: true},
		{name: "high confidence is not flagged", confidence: 0.95, needsReview: false},
		{name: "zero confidence is flagged", confidence: 0, needsReview: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs, err := svc.Gate(makeParsed(1), []ClassificationResult{
				{Category: CategoryEmployment, Confidence: tt.confidence, Method: "rules"},
			})

			assert.NoError(t, err)
			assert.Len(t, txs, 1)
			assert.Equal(t, tt.needsReview, txs[0].NeedsReview)
			assert.Equal(t, CategoryEmployment, txs[0].Category)
			assert.Equal(t, tt.confidence, txs[0].Confidence)
		})
	}
}

func TestGate_CopiesTransactionFields(t *testing.T) {
	svc := NewClassificationService(0.7)
	parsed := makeParsed(1)

	txs, err := svc.Gate(parsed, []ClassificationResult{
		{Category: CategoryEmployment, Confidence: 0.85, Method: "rules"},
	})

	assert.NoError(t, err)
	assert.Equal(t, parsed[0].Description, txs[0].Description)
	assert.True(t, parsed[0].Amount.Equal(txs[0].Amount))
	assert.Equal(t, parsed[0].Direction, txs[0].Direction)
	assert.Equal(t, parsed[0].Date, txs[0].Date)
	assert.False(t, txs[0].ID.IsNil())
}

func TestGate_ShapeMismatchCount(t *testing.T) {
	svc := NewClassificationService(0.7)

	_, err := svc.Gate(makeParsed(2), []ClassificationResult{
		{Category: CategoryEmployment, Confidence: 0.9},
	})

	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestGate_ShapeMismatchConfidenceRange(t *testing.T) {
	svc := NewClassificationService(0.7)

	for _, confidence := range []float64{-0.1, 1.1} {
		_, err := svc.Gate(makeParsed(1), []ClassificationResult{
			{Category: CategoryEmployment, Confidence: confidence},
		})
		assert.ErrorIs(t, err, ErrShapeMismatch)
	}
}

func TestGate_ShapeMismatchUnknownCategory(t *testing.T) {
	svc := NewClassificationService(0.7)

	_, err := svc.Gate(makeParsed(1), []ClassificationResult{
		{Category: Category("lottery_income"), Confidence: 0.9},
	})

	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestGate_EmptyInputs(t *testing.T) {
	svc := NewClassificationService(0.7)

	txs, err := svc.Gate([]ParsedTransaction{}, []ClassificationResult{})

	assert.NoError(t, err)
	assert.Empty(t, txs)
}

func TestNewClassificationService_DefaultsBadThreshold(t *testing.T) {
	assert.Equal(t, DefaultConfidenceThreshold, NewClassificationService(0).Threshold())
	assert.Equal(t, DefaultConfidenceThreshold, NewClassificationService(1.5).Threshold())
	assert.Equal(t, 0.6, NewClassificationService(0.6).Threshold())
}

// -- Override tests --

func TestOverride_ClearsReviewFlag(t *testing.T) {
	svc := NewClassificationService(0.7)

	txs, err := svc.Gate(makeParsed(1), []ClassificationResult{
		{Category: CategoryUncategorized, Confidence: 0.3},
	})
	assert.NoError(t, err)
	assert.True(t, txs[0].NeedsReview)

	reviewed, err := svc.Override(txs[0], CategoryFreelance)
	assert.NoError(t, err)
	assert.Equal(t, CategoryFreelance, reviewed.Category)
	assert.False(t, reviewed.NeedsReview)
}

func TestOverride_RejectsUnknownCategory(t *testing.T) {
	svc := NewClassificationService(0.7)

	_, err := svc.Override(Transaction{}, Category("nope"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}
