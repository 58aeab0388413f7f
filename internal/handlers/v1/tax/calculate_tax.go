package tax

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
	"github.com/ojimcy/taxsmart/internal/service"
	"github.com/ojimcy/taxsmart/internal/storage/session"
)

// ClassifiedTransaction is a caller-supplied transaction for computing tax
// without an upload session.
type ClassifiedTransaction struct {
	Date        string `json:"date,omitempty" format:"date-time" doc:"RFC3339 transaction date"`
	Description string `json:"description,omitempty" doc:"Statement narration"`
	Amount      string `json:"amount" required:"true" doc:"Decimal amount, non-negative"`
	Direction   string `json:"direction" required:"true" enum:"credit,debit" doc:"Money movement direction"`
	Category    string `json:"category" required:"true" doc:"Tax category"`
}

// CalculateTaxBody is the request body for a full tax computation.
// Exactly one of uploadID and transactions must be provided.
type CalculateTaxBody struct {
	TaxYear      int                     `json:"taxYear" required:"true" doc:"Tax year to compute under"`
	UploadID     string                  `json:"uploadID,omitempty" doc:"Session holding classified transactions"`
	Transactions []ClassifiedTransaction `json:"transactions,omitempty" doc:"Inline classified transactions"`
	Reliefs      ReliefsBody             `json:"reliefs,omitempty" doc:"Relief inputs"`
}

// CalculateTaxInput is the Huma input for a tax computation.
type CalculateTaxInput struct {
	Body CalculateTaxBody
}

// CalculateTaxOutput is the Huma output for a tax computation.
type CalculateTaxOutput struct {
	Body TaxReport
}

// reportAggregator is the interface for tax report computation.
type reportAggregator interface {
	Aggregate(transactions []service.Transaction, reliefs service.ReliefInput, taxYear int) (*service.TaxReport, error)
}

// CalculateTaxHandler handles POST /v1/tax/calculate.
type CalculateTaxHandler struct {
	Report   reportAggregator
	Sessions session.ISessionReader
}

// NewCalculateTaxHandler creates a new CalculateTaxHandler.
func NewCalculateTaxHandler(report reportAggregator, sessions session.ISessionReader) *CalculateTaxHandler {
	return &CalculateTaxHandler{
		Report:   report,
		Sessions: sessions,
	}
}

// Register registers the calculate tax endpoint with the Huma API.
func (h *CalculateTaxHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "calculate-tax",
		Method:      http.MethodPost,
		Path:        "/v1/tax/calculate",
		Summary:     "Calculate personal income tax",
		Description: "Aggregates classified transactions, applies reliefs and computes PIT under the year's schedule.",
		Tags:        []string{"Tax"},
	}, h.handle)
}

// parseClassifiedTransactions validates and converts inline transactions.
func parseClassifiedTransactions(inline []ClassifiedTransaction) ([]service.Transaction, error) {
	transactions := make([]service.Transaction, len(inline))
	for i, tx := range inline {
		amount, err := decimal.NewFromString(tx.Amount)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid transaction amount", err)
		}
		direction := service.Direction(tx.Direction)
		if direction != service.DirectionCredit && direction != service.DirectionDebit {
			return nil, huma.NewError(http.StatusBadRequest, "invalid transaction direction")
		}

		var date time.Time
		if tx.Date != "" {
			date, err = time.Parse(time.RFC3339, tx.Date)
			if err != nil {
				return nil, huma.NewError(http.StatusBadRequest, "invalid transaction date", err)
			}
		}

		transactions[i] = service.Transaction{
			ID:          uuid.Must(uuid.NewV4()),
			Date:        date,
			Description: tx.Description,
			Amount:      amount,
			Direction:   direction,
			Category:    service.Category(tx.Category),
			Confidence:  1,
		}
	}
	return transactions, nil
}

func (h *CalculateTaxHandler) handle(ctx context.Context, input *CalculateTaxInput) (*CalculateTaxOutput, error) {
	logData := logging.GetLogData(ctx)

	hasUpload := input.Body.UploadID != ""
	hasInline := len(input.Body.Transactions) > 0
	if hasUpload && hasInline {
		return nil, huma.NewError(http.StatusBadRequest, "provide only one of uploadID and transactions")
	}

	var transactions []service.Transaction
	if hasUpload {
		uploadID, err := uuid.FromString(input.Body.UploadID)
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
		transactions = stored.Transactions
	} else {
		var err error
		transactions, err = parseClassifiedTransactions(input.Body.Transactions)
		if err != nil {
			return nil, err
		}
	}

	reliefs, err := parseReliefs(input.Body.Reliefs)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("aggregateMs")
	}
	report, err := h.Report.Aggregate(transactions, reliefs, input.Body.TaxYear)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, mapServiceError(err)
	}

	if logData != nil {
		logData.AddData("taxYear", report.TaxYear)
		logData.AddData("transactionCount", len(transactions))
	}

	return &CalculateTaxOutput{Body: reportToAPI(report)}, nil
}
