package tax

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/ojimcy/taxsmart/internal/service"
)

// QuickPITBody is the request body for a quick PIT estimate.
type QuickPITBody struct {
	AnnualIncome string `json:"annualIncome" required:"true" doc:"Decimal gross annual income"`
	TaxYear      int    `json:"taxYear" required:"true" doc:"Tax year to compute under"`
}

// QuickPITInput is the Huma input for a quick PIT estimate.
type QuickPITInput struct {
	Body QuickPITBody
}

// QuickPITResponseBody is the response body for a quick PIT estimate.
type QuickPITResponseBody struct {
	AnnualIncome  string          `json:"annualIncome" doc:"Income the estimate was computed from"`
	TaxYear       int             `json:"taxYear" doc:"Tax year the schedule belongs to"`
	PITAmount     string          `json:"pitAmount" doc:"Personal income tax owed"`
	EffectiveRate string          `json:"effectiveRate" doc:"PIT as a fraction of income"`
	Breakdown     []BracketResult `json:"breakdown" doc:"Per-bracket contributions"`
}

// QuickPITOutput is the Huma output for a quick PIT estimate.
type QuickPITOutput struct {
	Body QuickPITResponseBody
}

// quickEstimator is the interface for schedule-only PIT estimates.
type quickEstimator interface {
	QuickPIT(annualIncome decimal.Decimal, taxYear int) (decimal.Decimal, []service.BracketResult, error)
}

// QuickPITHandler handles POST /v1/tax/quick-pit.
type QuickPITHandler struct {
	Report quickEstimator
}

// NewQuickPITHandler creates a new QuickPITHandler.
func NewQuickPITHandler(report quickEstimator) *QuickPITHandler {
	return &QuickPITHandler{Report: report}
}

// Register registers the quick PIT endpoint with the Huma API.
func (h *QuickPITHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "quick-pit",
		Method:      http.MethodPost,
		Path:        "/v1/tax/quick-pit",
		Summary:     "Quick PIT estimate",
		Description: "Computes PIT directly from a gross annual income figure, without transactions or reliefs.",
		Tags:        []string{"Tax"},
	}, h.handle)
}

func (h *QuickPITHandler) handle(ctx context.Context, input *QuickPITInput) (*QuickPITOutput, error) {
	annualIncome, err := decimal.NewFromString(input.Body.AnnualIncome)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid annualIncome", err)
	}

	pit, breakdown, err := h.Report.QuickPIT(annualIncome, input.Body.TaxYear)
	if err != nil {
		return nil, mapServiceError(err)
	}

	effectiveRate := decimal.Zero
	if annualIncome.IsPositive() {
		effectiveRate = pit.Div(annualIncome).Round(6)
	}

	return &QuickPITOutput{
		Body: QuickPITResponseBody{
			AnnualIncome:  annualIncome.String(),
			TaxYear:       input.Body.TaxYear,
			PITAmount:     pit.String(),
			EffectiveRate: effectiveRate.String(),
			Breakdown:     bracketsToAPI(breakdown),
		},
	}, nil
}
