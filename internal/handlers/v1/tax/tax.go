package tax

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/ojimcy/taxsmart/internal/service"
)

// ReliefsBody is the caller-supplied relief inputs, all optional.
type ReliefsBody struct {
	AnnualRent          string `json:"annualRent,omitempty" doc:"Decimal annual rent paid"`
	PensionContribution string `json:"pensionContribution,omitempty" doc:"Decimal pension contributions"`
	NHISContribution    string `json:"nhisContribution,omitempty" doc:"Decimal NHIS contributions"`
	NHFContribution     string `json:"nhfContribution,omitempty" doc:"Decimal NHF contributions"`
}

// ReliefBreakdown is the API response model for applied reliefs.
type ReliefBreakdown struct {
	RentRelief       string `json:"rentRelief" doc:"Rent relief after the statutory cap"`
	PensionDeduction string `json:"pensionDeduction" doc:"Pension deduction"`
	NHISDeduction    string `json:"nhisDeduction" doc:"NHIS deduction"`
	NHFDeduction     string `json:"nhfDeduction" doc:"NHF deduction"`
	TotalReliefs     string `json:"totalReliefs" doc:"Total reliefs, capped at gross income"`
}

// BracketResult is the API response model for one bracket's share of tax.
type BracketResult struct {
	BracketMin       string `json:"bracketMin" doc:"Bracket lower bound, inclusive"`
	BracketMax       string `json:"bracketMax,omitempty" doc:"Bracket upper bound, exclusive; absent on the top bracket"`
	Rate             string `json:"rate" doc:"Marginal rate as a decimal fraction"`
	TaxableInBracket string `json:"taxableInBracket" doc:"Income taxed at this rate"`
	TaxAmount        string `json:"taxAmount" doc:"Tax owed from this bracket"`
}

// TaxReport is the API response model for a full computation.
type TaxReport struct {
	TaxYear          int               `json:"taxYear" doc:"Tax year the schedule belongs to"`
	IncomeByCategory map[string]string `json:"incomeByCategory" doc:"Credit totals per income category"`
	TotalIncome      string            `json:"totalIncome" doc:"Gross income across categories"`
	Reliefs          ReliefBreakdown   `json:"reliefs" doc:"Applied reliefs"`
	TaxableIncome    string            `json:"taxableIncome" doc:"Income after reliefs, never negative"`
	PITAmount        string            `json:"pitAmount" doc:"Personal income tax owed"`
	Breakdown        []BracketResult   `json:"breakdown" doc:"Per-bracket contributions"`
}

// parseReliefs converts the optional relief strings into decimals. Empty
// fields mean zero.
func parseReliefs(body ReliefsBody) (service.ReliefInput, error) {
	var input service.ReliefInput
	fields := []struct {
		raw  string
		dest *decimal.Decimal
		name string
	}{
		{body.AnnualRent, &input.AnnualRent, "annualRent"},
		{body.PensionContribution, &input.PensionContribution, "pensionContribution"},
		{body.NHISContribution, &input.NHISContribution, "nhisContribution"},
		{body.NHFContribution, &input.NHFContribution, "nhfContribution"},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		value, err := decimal.NewFromString(f.raw)
		if err != nil {
			return service.ReliefInput{}, huma.NewError(http.StatusBadRequest, "invalid "+f.name, err)
		}
		*f.dest = value
	}
	return input, nil
}

func reportToAPI(report *service.TaxReport) TaxReport {
	out := TaxReport{
		TaxYear:          report.TaxYear,
		IncomeByCategory: make(map[string]string, len(report.IncomeByCategory)),
		TotalIncome:      report.TotalIncome.String(),
		Reliefs: ReliefBreakdown{
			RentRelief:       report.Reliefs.RentRelief.String(),
			PensionDeduction: report.Reliefs.PensionDeduction.String(),
			NHISDeduction:    report.Reliefs.NHISDeduction.String(),
			NHFDeduction:     report.Reliefs.NHFDeduction.String(),
			TotalReliefs:     report.Reliefs.TotalReliefs.String(),
		},
		TaxableIncome: report.TaxableIncome.String(),
		PITAmount:     report.PITAmount.String(),
		Breakdown:     bracketsToAPI(report.Breakdown),
	}
	for category, total := range report.IncomeByCategory {
		out.IncomeByCategory[string(category)] = total.String()
	}
	return out
}

func bracketsToAPI(breakdown []service.BracketResult) []BracketResult {
	out := make([]BracketResult, len(breakdown))
	for i, b := range breakdown {
		out[i] = BracketResult{
			BracketMin:       b.BracketMin.String(),
			Rate:             b.Rate.String(),
			TaxableInBracket: b.TaxableInBracket.String(),
			TaxAmount:        b.TaxAmount.String(),
		}
		if !b.Unbounded {
			out[i].BracketMax = b.BracketMax.String()
		}
	}
	return out
}

// mapServiceError translates computation errors onto HTTP statuses.
func mapServiceError(err error) huma.StatusError {
	switch {
	case errors.Is(err, service.ErrUnknownTaxYear):
		return huma.NewError(http.StatusNotFound, "no tax schedule for that year", err)
	case errors.Is(err, service.ErrEmptyInput), errors.Is(err, service.ErrInvalidInput):
		return huma.NewError(http.StatusBadRequest, "invalid computation input", err)
	case errors.Is(err, service.ErrShapeMismatch):
		return huma.NewError(http.StatusBadGateway, "classification results rejected", err)
	default:
		return huma.NewError(http.StatusInternalServerError, "tax computation failed", err)
	}
}
