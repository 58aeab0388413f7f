package service

import (
	"fmt"

	"github.com/gofrs/uuid/v5"
)

// DefaultConfidenceThreshold is the review cutoff when none is configured.
const DefaultConfidenceThreshold = 0.7

// ClassificationService applies the confidence gate to classifier output.
type ClassificationService struct {
	threshold float64
}

// NewClassificationService creates a gate with the given review threshold.
// Out-of-range thresholds fall back to the default.
func NewClassificationService(threshold float64) *ClassificationService {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultConfidenceThreshold
	}
	return &ClassificationService{threshold: threshold}
}

// Threshold returns the configured review cutoff.
func (s *ClassificationService) Threshold() float64 {
	return s.threshold
}

// Gate attaches one classifier result to each parsed transaction and marks
// those below the confidence threshold for manual review. The cutoff is
// exclusive: a confidence exactly at the threshold is not flagged. Flagged
// transactions still count toward totals with the classifier's best guess
// until a reviewer overrides them. Gate is a pure transform apart from
// assigning fresh transaction IDs.
func (s *ClassificationService) Gate(parsed []ParsedTransaction, results []ClassificationResult) ([]Transaction, error) {
	if len(parsed) != len(results) {
		return nil, fmt.Errorf("%w: %d transactions, %d results", ErrShapeMismatch, len(parsed), len(results))
	}

	transactions := make([]Transaction, len(parsed))
	for i, p := range parsed {
		r := results[i]
		if r.Confidence < 0 || r.Confidence > 1 {
			return nil, fmt.Errorf("%w: confidence %v outside [0,1] at index %d", ErrShapeMismatch, r.Confidence, i)
		}
		if !r.Category.Valid() {
			return nil, fmt.Errorf("%w: unknown category %q at index %d", ErrShapeMismatch, r.Category, i)
		}

		transactions[i] = Transaction{
			ID:          uuid.Must(uuid.NewV4()),
			Date:        p.Date,
			Description: p.Description,
			Amount:      p.Amount,
			Direction:   p.Direction,
			Category:    r.Category,
			Confidence:  r.Confidence,
			NeedsReview: r.Confidence < s.threshold,
		}
	}

	return transactions, nil
}

// Override applies a manual category choice to a transaction. The reviewed
// category is authoritative: confidence no longer matters and the review
// flag is cleared.
func (s *ClassificationService) Override(tx Transaction, category Category) (Transaction, error) {
	if !category.Valid() {
		return Transaction{}, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, category)
	}
	tx.Category = category
	tx.Confidence = 1
	tx.NeedsReview = false
	return tx, nil
}
