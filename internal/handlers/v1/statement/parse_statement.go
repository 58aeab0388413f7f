package statement

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/ojimcy/taxsmart/internal/logging"
	"github.com/ojimcy/taxsmart/internal/operator/actions"
	"github.com/ojimcy/taxsmart/internal/parser"
	"github.com/ojimcy/taxsmart/internal/service"
)

// actionProcessor enqueues an action on the operator pool and waits for it.
type actionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// ParseStatementInput is the Huma input for uploading a bank statement.
type ParseStatementInput struct {
	RawBody huma.MultipartFormFiles[ParseStatementFormData]
}

// ParseStatementFormData is the multipart payload for a statement upload.
type ParseStatementFormData struct {
	File huma.FormFile `form:"file" contentType:"text/csv,application/vnd.ms-excel,text/plain,application/octet-stream" required:"true"`
}

// ParseStatementResponseBody is the response body for a statement upload.
type ParseStatementResponseBody struct {
	UploadID     string              `json:"uploadID" doc:"Session handle for classify and review calls"`
	BankFormat   string              `json:"bankFormat" doc:"Detected statement format"`
	Transactions []ParsedTransaction `json:"transactions" doc:"Statement lines extracted from the upload"`
}

// ParseStatementOutput is the Huma output for a statement upload.
type ParseStatementOutput struct {
	Body ParseStatementResponseBody
}

// ParseStatementHandler handles POST /v1/statement/parse.
type ParseStatementHandler struct {
	Operator actionProcessor
}

// NewParseStatementHandler creates a new ParseStatementHandler.
func NewParseStatementHandler(op actionProcessor) *ParseStatementHandler {
	return &ParseStatementHandler{Operator: op}
}

// Register registers the parse statement endpoint with the Huma API.
func (h *ParseStatementHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "parse-statement",
		Method:      http.MethodPost,
		Path:        "/v1/statement/parse",
		Summary:     "Parse bank statement",
		Description: "Extracts transactions from an uploaded CSV bank statement and opens an upload session.",
		Tags:        []string{"Statements"},
	}, h.handle)
}

func (h *ParseStatementHandler) handle(ctx context.Context, input *ParseStatementInput) (*ParseStatementOutput, error) {
	logData := logging.GetLogData(ctx)

	formData := input.RawBody.Data()
	if !formData.File.IsSet {
		return nil, huma.NewError(http.StatusBadRequest, "missing statement file")
	}

	parsed, bankFormat, err := parser.Parse(formData.File, formData.File.Filename)
	if err != nil {
		if errors.Is(err, parser.ErrUnsupportedFormat) {
			return nil, huma.NewError(http.StatusUnsupportedMediaType, "unsupported statement format", err)
		}
		return nil, huma.NewError(http.StatusBadRequest, "failed to parse statement", err)
	}

	if logData != nil {
		logData.AddData("bankFormat", string(bankFormat))
		logData.AddData("transactionCount", len(parsed))
	}

	// The session stores the lines unclassified; the classify call fills in
	// categories and fresh IDs.
	uploadID := uuid.Must(uuid.NewV4())
	stored := make([]service.Transaction, len(parsed))
	for i, p := range parsed {
		stored[i] = service.Transaction{
			ID:          uuid.Must(uuid.NewV4()),
			Date:        p.Date,
			Description: p.Description,
			Amount:      p.Amount,
			Direction:   p.Direction,
			Category:    service.CategoryUncategorized,
			NeedsReview: true,
		}
	}

	action := &actions.CreateUploadSession{
		ID:           uploadID,
		Filename:     formData.File.Filename,
		BankFormat:   string(bankFormat),
		Transactions: stored,
	}
	if err := h.Operator.Process(ctx, action); err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to create upload session", err)
	}

	resp := ParseStatementResponseBody{
		UploadID:     uploadID.String(),
		BankFormat:   string(bankFormat),
		Transactions: make([]ParsedTransaction, len(parsed)),
	}
	for i, p := range parsed {
		resp.Transactions[i] = parsedToAPI(p)
	}

	return &ParseStatementOutput{Body: resp}, nil
}
