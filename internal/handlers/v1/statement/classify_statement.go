package statement

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/ojimcy/taxsmart/internal/logging"
	"github.com/ojimcy/taxsmart/internal/operator/actions"
	"github.com/ojimcy/taxsmart/internal/service"
	"github.com/ojimcy/taxsmart/internal/storage/session"
)

// InlineTransaction is a caller-supplied statement line for classification
// without an upload session.
type InlineTransaction struct {
	Date        string `json:"date" required:"true" format:"date-time" doc:"RFC3339 transaction date"`
	Description string `json:"description" required:"true" doc:"Statement narration"`
	Amount      string `json:"amount" required:"true" doc:"Decimal amount, non-negative"`
	Direction   string `json:"direction" required:"true" enum:"credit,debit" doc:"Money movement direction"`
}

// ClassifyStatementBody is the request body for classifying transactions.
// Exactly one of uploadID and transactions must be provided.
type ClassifyStatementBody struct {
	UploadID     string              `json:"uploadID,omitempty" doc:"Session from a previous parse call"`
	Transactions []InlineTransaction `json:"transactions,omitempty" doc:"Inline transactions to classify without a session"`
}

// ClassifyStatementInput is the Huma input for classifying transactions.
type ClassifyStatementInput struct {
	Body ClassifyStatementBody
}

// ClassifyStatementResponseBody is the response body for classification.
type ClassifyStatementResponseBody struct {
	Transactions []Transaction `json:"transactions" doc:"Classified transactions"`
	ReviewCount  int           `json:"reviewCount" doc:"How many transactions need manual review"`
}

// ClassifyStatementOutput is the Huma output for classification.
type ClassifyStatementOutput struct {
	Body ClassifyStatementResponseBody
}

// batchClassifier produces one classification per transaction, in order.
type batchClassifier interface {
	ClassifyBatch(ctx context.Context, transactions []service.ParsedTransaction) []service.ClassificationResult
}

// ClassifyStatementHandler handles POST /v1/statement/classify.
type ClassifyStatementHandler struct {
	Sessions        session.ISessionReader
	Classifier      batchClassifier
	Classifications *service.ClassificationService
	Operator        actionProcessor
}

// NewClassifyStatementHandler creates a new ClassifyStatementHandler.
func NewClassifyStatementHandler(
	sessions session.ISessionReader,
	classifier batchClassifier,
	classifications *service.ClassificationService,
	op actionProcessor,
) *ClassifyStatementHandler {
	return &ClassifyStatementHandler{
		Sessions:        sessions,
		Classifier:      classifier,
		Classifications: classifications,
		Operator:        op,
	}
}

// Register registers the classify statement endpoint with the Huma API.
func (h *ClassifyStatementHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "classify-statement",
		Method:      http.MethodPost,
		Path:        "/v1/statement/classify",
		Summary:     "Classify transactions",
		Description: "Runs the classifier over parsed transactions and flags low-confidence results for review.",
		Tags:        []string{"Statements"},
	}, h.handle)
}

// parseInlineTransactions validates and converts caller-supplied lines.
func parseInlineTransactions(inline []InlineTransaction) ([]service.ParsedTransaction, error) {
	parsed := make([]service.ParsedTransaction, len(inline))
	for i, tx := range inline {
		date, err := time.Parse(time.RFC3339, tx.Date)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid transaction date", err)
		}
		amount, err := decimal.NewFromString(tx.Amount)
		if err != nil || amount.IsNegative() {
			return nil, huma.NewError(http.StatusBadRequest, "invalid transaction amount")
		}
		direction := service.Direction(tx.Direction)
		if direction != service.DirectionCredit && direction != service.DirectionDebit {
			return nil, huma.NewError(http.StatusBadRequest, "invalid transaction direction")
		}
		parsed[i] = service.ParsedTransaction{
			Date:        date,
			Description: tx.Description,
			Amount:      amount,
			Direction:   direction,
		}
	}
	return parsed, nil
}

func (h *ClassifyStatementHandler) handle(ctx context.Context, input *ClassifyStatementInput) (*ClassifyStatementOutput, error) {
	logData := logging.GetLogData(ctx)

	hasUpload := input.Body.UploadID != ""
	hasInline := len(input.Body.Transactions) > 0
	if hasUpload == hasInline {
		return nil, huma.NewError(http.StatusBadRequest, "provide exactly one of uploadID and transactions")
	}

	var parsed []service.ParsedTransaction
	var uploadID uuid.UUID

	if hasUpload {
		var err error
		uploadID, err = uuid.FromString(input.Body.UploadID)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid uploadID", err)
		}

		stored, err := h.Sessions.FindByID(ctx, uploadID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, huma.NewError(http.StatusNotFound, "upload session not found")
			}
			return nil, huma.NewError(http.StatusInternalServerError, "failed to load upload session", err)
		}

		parsed = make([]service.ParsedTransaction, len(stored.Transactions))
		for i, tx := range stored.Transactions {
			parsed[i] = service.ParsedTransaction{
				Date:        tx.Date,
				Description: tx.Description,
				Amount:      tx.Amount,
				Direction:   tx.Direction,
			}
		}
	} else {
		var err error
		parsed, err = parseInlineTransactions(input.Body.Transactions)
		if err != nil {
			return nil, err
		}
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("classifyMs")
	}
	results := h.Classifier.ClassifyBatch(ctx, parsed)
	if stopTimer != nil {
		stopTimer()
	}

	transactions, err := h.Classifications.Gate(parsed, results)
	if err != nil {
		return nil, huma.NewError(http.StatusBadGateway, "classifier output rejected", err)
	}

	if hasUpload {
		action := &actions.SaveClassifications{
			SessionID:    uploadID,
			Transactions: transactions,
		}
		if err := h.Operator.Process(ctx, action); err != nil {
			return nil, huma.NewError(http.StatusInternalServerError, "failed to save classifications", err)
		}
	}

	resp := ClassifyStatementResponseBody{
		Transactions: make([]Transaction, len(transactions)),
	}
	for i, tx := range transactions {
		resp.Transactions[i] = transactionToAPI(tx)
		if tx.NeedsReview {
			resp.ReviewCount++
		}
	}

	if logData != nil {
		logData.AddData("reviewCount", resp.ReviewCount)
	}

	return &ClassifyStatementOutput{Body: resp}, nil
}
