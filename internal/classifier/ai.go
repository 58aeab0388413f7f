package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"github.com/ojimcy/taxsmart/internal/service"
)

// DefaultModelName is the Gemini model used for classification.
const DefaultModelName = "gemini-2.0-flash"

const maxRetryElapsed = 30 * time.Second

// GeminiClassifier asks a Gemini model to categorize a batch of
// transactions in a single prompt.
type GeminiClassifier struct {
	client *genai.Client
	model  string
	logger *logrus.Logger
}

// NewGeminiClassifier builds a classifier backed by the Gemini API.
func NewGeminiClassifier(ctx context.Context, apiKey string, logger *logrus.Logger) (*GeminiClassifier, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	return &GeminiClassifier{
		client: client,
		model:  DefaultModelName,
		logger: logger,
	}, nil
}

type aiResult struct {
	Index      int     `json:"index"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// ClassifyBatch sends the whole batch to the model and parses one result
// per transaction. Transient failures are retried with exponential backoff.
func (g *GeminiClassifier) ClassifyBatch(ctx context.Context, transactions []service.ParsedTransaction) ([]service.ClassificationResult, error) {
	prompt := buildPrompt(transactions)

	var raw string
	operation := func() error {
		resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
		if err != nil {
			return err
		}
		raw = resp.Text()
		return nil
	}

	policy := backoff.WithContext(backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(maxRetryElapsed),
	), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("generating classifications: %w", err)
	}

	results, err := parseResponse(raw, len(transactions))
	if err != nil {
		g.logger.WithField("response", raw).Warn("unparseable model response")
		return nil, err
	}

	return results, nil
}

func buildPrompt(transactions []service.ParsedTransaction) string {
	var sb strings.Builder
	sb.WriteString("Classify each Nigerian bank transaction into exactly one category from this list: ")
	for i, cat := range allCategories() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(string(cat))
	}
	sb.WriteString(".\n")
	sb.WriteString("Respond with a JSON array only, no prose, one object per transaction: ")
	sb.WriteString(`[{"index": 0, "category": "employment_income", "confidence": 0.95}, ...]` + "\n")
	sb.WriteString("Confidence is your certainty between 0 and 1.\n\nTransactions:\n")
	for i, tx := range transactions {
		fmt.Fprintf(&sb, "%d. [%s] %s | amount %s | %s\n",
			i, tx.Direction, tx.Description, tx.Amount.StringFixed(2), tx.Date.Format("2006-01-02"))
	}
	return sb.String()
}

func allCategories() []service.Category {
	return []service.Category{
		service.CategoryEmployment,
		service.CategoryFreelance,
		service.CategoryRental,
		service.CategoryInvestment,
		service.CategoryCrypto,
		service.CategoryInterest,
		service.CategoryOtherIncome,
		service.CategoryExpense,
		service.CategoryRentExpense,
		service.CategoryTransfer,
		service.CategoryUncategorized,
	}
}

// parseResponse decodes the model output, tolerating markdown code fences.
func parseResponse(raw string, want int) ([]service.ClassificationResult, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var decoded []aiResult
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return nil, fmt.Errorf("decoding model response: %w", err)
	}
	if len(decoded) != want {
		return nil, fmt.Errorf("model returned %d results, want %d", len(decoded), want)
	}

	results := make([]service.ClassificationResult, want)
	for _, item := range decoded {
		if item.Index < 0 || item.Index >= want {
			return nil, fmt.Errorf("model returned out of range index %d", item.Index)
		}
		category := service.Category(strings.ToLower(strings.TrimSpace(item.Category)))
		confidence := item.Confidence
		if !category.Valid() {
			category = service.CategoryUncategorized
			confidence = 0
		}
		if confidence < 0 {
			confidence = 0
		}
		if confidence > 1 {
			confidence = 1
		}
		results[item.Index] = service.ClassificationResult{
			Category:   category,
			Confidence: confidence,
			Method:     "ai",
		}
	}
	return results, nil
}
