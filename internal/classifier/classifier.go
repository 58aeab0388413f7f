package classifier

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ojimcy/taxsmart/internal/service"
)

// BatchClassifier produces one classification per transaction, in order.
type BatchClassifier interface {
	ClassifyBatch(ctx context.Context, transactions []service.ParsedTransaction) ([]service.ClassificationResult, error)
}

// Classifier runs the AI tier when configured and falls back to rules,
// both when the AI tier fails outright and per transaction when the AI
// answer is weaker than what the rules produce.
type Classifier struct {
	rules  *RuleEngine
	ai     BatchClassifier
	logger *logrus.Logger
}

// New creates a hybrid classifier. ai may be nil, in which case only the
// rule tier runs.
func New(ai BatchClassifier, logger *logrus.Logger) *Classifier {
	return &Classifier{
		rules:  NewRuleEngine(),
		ai:     ai,
		logger: logger,
	}
}

// ClassifyBatch never fails: the rule tier always has an answer. The
// returned slice is positionally aligned with the input.
func (c *Classifier) ClassifyBatch(ctx context.Context, transactions []service.ParsedTransaction) []service.ClassificationResult {
	results := make([]service.ClassificationResult, len(transactions))
	for i, tx := range transactions {
		results[i] = c.rules.Classify(tx)
	}

	if c.ai == nil || len(transactions) == 0 {
		return results
	}

	aiResults, err := c.ai.ClassifyBatch(ctx, transactions)
	if err != nil {
		c.logger.WithError(err).Warn("AI classification failed, keeping rule results")
		return results
	}

	for i := range results {
		if aiResults[i].Confidence > results[i].Confidence {
			results[i] = aiResults[i]
		}
	}
	return results
}
