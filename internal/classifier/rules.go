package classifier

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ojimcy/taxsmart/internal/service"
)

// RuleEngine classifies transactions by pattern-matching their narration.
// It is fully deterministic and always produces an answer, which makes it
// the fallback tier when the AI classifier is unavailable or unsure.
type RuleEngine struct {
	incomePatterns  map[string]service.Category
	expensePatterns map[string]service.Category
	incomeOrder     []string
	expenseOrder    []string
	transferPattern *regexp.Regexp
}

// NewRuleEngine creates a rule-based classifier with the built-in Nigerian
// bank narration patterns.
func NewRuleEngine() *RuleEngine {
	engine := &RuleEngine{
		incomePatterns: map[string]service.Category{
			// Employment
			"SALARY":       service.CategoryEmployment,
			"PAY":          service.CategoryEmployment,
			"WAGES":        service.CategoryEmployment,
			"PAYROLL":      service.CategoryEmployment,
			"REMUNERATION": service.CategoryEmployment,

			// Freelance platforms
			"UPWORK":     service.CategoryFreelance,
			"FIVERR":     service.CategoryFreelance,
			"PAYONEER":   service.CategoryFreelance,
			"WISE":       service.CategoryFreelance,
			"TOPTAL":     service.CategoryFreelance,
			"FREELANCER": service.CategoryFreelance,
			"CONTRA":     service.CategoryFreelance,

			// Crypto exchanges
			"BINANCE":     service.CategoryCrypto,
			"LUNO":        service.CategoryCrypto,
			"QUIDAX":      service.CategoryCrypto,
			"PAXFUL":      service.CategoryCrypto,
			"COINBASE":    service.CategoryCrypto,
			"KRAKEN":      service.CategoryCrypto,
			"BYBIT":       service.CategoryCrypto,
			"KUCOIN":      service.CategoryCrypto,
			"ROQQU":       service.CategoryCrypto,
			"PATRICIA":    service.CategoryCrypto,
			"BUSHA":       service.CategoryCrypto,
			"YELLOW CARD": service.CategoryCrypto,
			"NOONES":      service.CategoryCrypto,

			// Investment platforms
			"DIVIDEND":          service.CategoryInvestment,
			"INVESTMENT RETURN": service.CategoryInvestment,
			"BAMBOO":            service.CategoryInvestment,
			"RISEVEST":          service.CategoryInvestment,
			"TROVE":             service.CategoryInvestment,
			"CHAKA":             service.CategoryInvestment,

			// Interest
			"INTEREST":   service.CategoryInterest,
			"INT CREDIT": service.CategoryInterest,

			// Rental
			"RENT RECEIVED": service.CategoryRental,
			"TENANT":        service.CategoryRental,
			"RENTAL INCOME": service.CategoryRental,
		},
		expensePatterns: map[string]service.Category{
			"RENT PAYMENT":  service.CategoryRentExpense,
			"LANDLORD":      service.CategoryRentExpense,
			"HOUSE RENT":    service.CategoryRentExpense,
			"ACCOMMODATION": service.CategoryRentExpense,
		},
		transferPattern: regexp.MustCompile(`(?i)(NIP|TRANSFER|TRF)`),
	}
	engine.incomeOrder = sortedPatterns(engine.incomePatterns)
	engine.expenseOrder = sortedPatterns(engine.expensePatterns)
	return engine
}

// sortedPatterns returns patterns longest first so e.g. "RENT RECEIVED"
// wins over a shorter partial match.
func sortedPatterns(patterns map[string]service.Category) []string {
	keys := make([]string, 0, len(patterns))
	for k := range patterns {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

var generalExpenseKeywords = []string{"POS", "ATM", "WITHDRAWAL", "TRANSFER", "PAYMENT", "PURCHASE"}

// Classify maps one transaction onto a category with a confidence score.
func (r *RuleEngine) Classify(tx service.ParsedTransaction) service.ClassificationResult {
	upperDesc := strings.ToUpper(tx.Description)

	if tx.Direction == service.DirectionCredit {
		for _, pattern := range r.incomeOrder {
			if strings.Contains(upperDesc, pattern) {
				return service.ClassificationResult{
					Category:   r.incomePatterns[pattern],
					Confidence: 0.85,
					Method:     "rules",
				}
			}
		}
	}

	if tx.Direction == service.DirectionDebit {
		for _, pattern := range r.expenseOrder {
			if strings.Contains(upperDesc, pattern) {
				return service.ClassificationResult{
					Category:   r.expensePatterns[pattern],
					Confidence: 0.85,
					Method:     "rules",
				}
			}
		}

		for _, keyword := range generalExpenseKeywords {
			if strings.Contains(upperDesc, keyword) {
				return service.ClassificationResult{
					Category:   service.CategoryExpense,
					Confidence: 0.70,
					Method:     "rules",
				}
			}
		}
	}

	// Bare transfers: a credit transfer could be anything, a debit transfer
	// is most likely money moved between own accounts.
	if r.transferPattern.MatchString(tx.Description) {
		if tx.Direction == service.DirectionCredit {
			return service.ClassificationResult{
				Category:   service.CategoryUncategorized,
				Confidence: 0.50,
				Method:     "rules",
			}
		}
		return service.ClassificationResult{
			Category:   service.CategoryTransfer,
			Confidence: 0.60,
			Method:     "rules",
		}
	}

	return service.ClassificationResult{
		Category:   service.CategoryUncategorized,
		Confidence: 0,
		Method:     "rules",
	}
}
