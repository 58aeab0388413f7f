package statement

import (
	"time"

	"github.com/ojimcy/taxsmart/internal/service"
)

// Transaction is the API response model for a classified transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID          string  `json:"id" doc:"Transaction UUID"`
	Date        string  `json:"date" doc:"RFC3339 transaction date"`
	Description string  `json:"description" doc:"Statement narration"`
	Amount      string  `json:"amount" doc:"Decimal amount, always non-negative"`
	Direction   string  `json:"direction" enum:"credit,debit" doc:"Money movement direction"`
	Category    string  `json:"category" doc:"Assigned tax category"`
	Confidence  float64 `json:"confidence" minimum:"0" maximum:"1" doc:"Classifier confidence"`
	NeedsReview bool    `json:"needsReview" doc:"True when the classification needs a manual look"`
}

// ParsedTransaction is the API response model for a statement line before
// classification.
type ParsedTransaction struct {
	Date        string `json:"date" doc:"RFC3339 transaction date"`
	Description string `json:"description" doc:"Statement narration"`
	Amount      string `json:"amount" doc:"Decimal amount, always non-negative"`
	Direction   string `json:"direction" enum:"credit,debit" doc:"Money movement direction"`
	Balance     string `json:"balance,omitempty" doc:"Running balance when the statement provides one"`
	Reference   string `json:"reference,omitempty" doc:"Bank reference when present"`
}

func transactionToAPI(tx service.Transaction) Transaction {
	return Transaction{
		ID:          tx.ID.String(),
		Date:        tx.Date.Format(time.RFC3339),
		Description: tx.Description,
		Amount:      tx.Amount.String(),
		Direction:   string(tx.Direction),
		Category:    string(tx.Category),
		Confidence:  tx.Confidence,
		NeedsReview: tx.NeedsReview,
	}
}

func parsedToAPI(tx service.ParsedTransaction) ParsedTransaction {
	out := ParsedTransaction{
		Date:        tx.Date.Format(time.RFC3339),
		Description: tx.Description,
		Amount:      tx.Amount.String(),
		Direction:   string(tx.Direction),
		Reference:   tx.Reference,
	}
	if !tx.Balance.IsZero() {
		out.Balance = tx.Balance.String()
	}
	return out
}
