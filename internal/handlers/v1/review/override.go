package review

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/ojimcy/taxsmart/internal/operator/actions"
	"github.com/ojimcy/taxsmart/internal/service"
)

// actionProcessor enqueues an action on the operator pool and waits for it.
type actionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// Override is one manual category decision.
type Override struct {
	TransactionID string `json:"transactionID" required:"true" doc:"Transaction UUID from the classify response"`
	Category      string `json:"category" required:"true" doc:"Category chosen by the reviewer"`
}

// OverrideBody is the request body for applying review overrides.
type OverrideBody struct {
	UploadID  string     `json:"uploadID" required:"true" doc:"Session from a previous parse call"`
	Overrides []Override `json:"overrides" required:"true" minItems:"1" doc:"Manual category decisions"`
}

// OverrideInput is the Huma input for applying review overrides.
type OverrideInput struct {
	Body OverrideBody
}

// OverrideResponseBody is the response body after applying overrides.
type OverrideResponseBody struct {
	Transactions []ReviewedTransaction `json:"transactions" doc:"Full transaction set after the overrides"`
	ReviewCount  int                   `json:"reviewCount" doc:"Transactions still needing review"`
}

// ReviewedTransaction is the API response model after review.
type ReviewedTransaction struct {
	ID          string  `json:"id" doc:"Transaction UUID"`
	Date        string  `json:"date" doc:"RFC3339 transaction date"`
	Description string  `json:"description" doc:"Statement narration"`
	Amount      string  `json:"amount" doc:"Decimal amount"`
	Direction   string  `json:"direction" doc:"Money movement direction"`
	Category    string  `json:"category" doc:"Category after review"`
	Confidence  float64 `json:"confidence" doc:"Classifier confidence, 1 after an override"`
	NeedsReview bool    `json:"needsReview" doc:"True when the transaction still needs review"`
}

// OverrideOutput is the Huma output for applying overrides.
type OverrideOutput struct {
	Body OverrideResponseBody
}

// OverrideHandler handles POST /v1/review/override.
type OverrideHandler struct {
	Classifications *service.ClassificationService
	Operator        actionProcessor
}

// NewOverrideHandler creates a new OverrideHandler.
func NewOverrideHandler(classifications *service.ClassificationService, op actionProcessor) *OverrideHandler {
	return &OverrideHandler{
		Classifications: classifications,
		Operator:        op,
	}
}

// Register registers the review override endpoint with the Huma API.
func (h *OverrideHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "review-override",
		Method:      http.MethodPost,
		Path:        "/v1/review/override",
		Summary:     "Apply review overrides",
		Description: "Sets reviewer-chosen categories on flagged transactions and clears their review flags.",
		Tags:        []string{"Review"},
	}, h.handle)
}

// parseOverrides validates the override list into a lookup map.
func parseOverrides(overrides []Override) (map[uuid.UUID]service.Category, error) {
	parsed := make(map[uuid.UUID]service.Category, len(overrides))
	for _, o := range overrides {
		id, err := uuid.FromString(o.TransactionID)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid transactionID", err)
		}
		category := service.Category(o.Category)
		if !category.Valid() {
			return nil, huma.NewError(http.StatusBadRequest, "unknown category "+o.Category)
		}
		if _, dup := parsed[id]; dup {
			return nil, huma.NewError(http.StatusBadRequest, "duplicate override for transaction "+o.TransactionID)
		}
		parsed[id] = category
	}
	return parsed, nil
}

func (h *OverrideHandler) handle(ctx context.Context, input *OverrideInput) (*OverrideOutput, error) {
	uploadID, err := uuid.FromString(input.Body.UploadID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid uploadID", err)
	}

	overrides, err := parseOverrides(input.Body.Overrides)
	if err != nil {
		return nil, err
	}

	action := &actions.ApplyReviewOverrides{
		SessionID:       uploadID,
		Overrides:       overrides,
		Classifications: h.Classifications,
	}
	if err := h.Operator.Process(ctx, action); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, huma.NewError(http.StatusNotFound, "upload session not found")
		case errors.Is(err, service.ErrInvalidInput):
			return nil, huma.NewError(http.StatusBadRequest, "invalid overrides", err)
		default:
			return nil, huma.NewError(http.StatusInternalServerError, "failed to apply overrides", err)
		}
	}

	resp := OverrideResponseBody{
		Transactions: make([]ReviewedTransaction, len(action.Applied)),
	}
	for i, tx := range action.Applied {
		resp.Transactions[i] = ReviewedTransaction{
			ID:          tx.ID.String(),
			Date:        tx.Date.Format(time.RFC3339),
			Description: tx.Description,
			Amount:      tx.Amount.String(),
			Direction:   string(tx.Direction),
			Category:    string(tx.Category),
			Confidence:  tx.Confidence,
			NeedsReview: tx.NeedsReview,
		}
		if tx.NeedsReview {
			resp.ReviewCount++
		}
	}

	return &OverrideOutput{Body: resp}, nil
}
