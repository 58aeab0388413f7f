package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ojimcy/taxsmart/internal/service"
)

// CSVParser parses bank statement CSV exports. Nigerian banks each use
// their own column layout; the format is detected from the header row.
type CSVParser struct{}

// NewCSVParser creates a new CSVParser.
func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

// Parse reads the whole CSV and returns the extracted transactions plus the
// detected bank format. Rows that cannot be interpreted are skipped rather
// than failing the whole statement.
func (p *CSVParser) Parse(reader io.Reader) ([]service.ParsedTransaction, BankFormat, error) {
	csvReader := csv.NewReader(reader)
	csvReader.LazyQuotes = true
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrParse, err)
	}
	if len(records) < 2 {
		return nil, "", fmt.Errorf("%w: statement has no data rows", ErrParse)
	}

	headers := records[0]
	format := detectFormat(headers)
	idx := headerIndex(headers)

	var transactions []service.ParsedTransaction
	for _, record := range records[1:] {
		tx, ok := parseRecord(record, idx, format)
		if ok && !tx.Amount.IsZero() {
			transactions = append(transactions, tx)
		}
	}

	return transactions, format, nil
}

func detectFormat(headers []string) BankFormat {
	headerStr := strings.ToUpper(strings.Join(headers, " "))

	switch {
	case strings.Contains(headerStr, "NARRATION") && strings.Contains(headerStr, "TRANS DATE"):
		return FormatGTBank
	case strings.Contains(headerStr, "WITHDRAWALS") && strings.Contains(headerStr, "LODGEMENTS"):
		return FormatAccess
	case strings.Contains(headerStr, "MONEY OUT") && strings.Contains(headerStr, "MONEY IN"):
		return FormatUBA
	case strings.Contains(headerStr, "DEBIT AMOUNT") && strings.Contains(headerStr, "CREDIT AMOUNT"):
		return FormatFirstBank
	default:
		return FormatGeneric
	}
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToUpper(strings.TrimSpace(h))] = i
	}
	return idx
}

// columnSets maps each bank format onto its date/description/debit/credit
// column names. The generic format tries all known aliases.
type columnSet struct {
	date        []string
	description []string
	debit       []string
	credit      []string
}

var formatColumns = map[BankFormat]columnSet{
	FormatGTBank: {
		date:        []string{"TRANS DATE", "DATE"},
		description: []string{"NARRATION", "DESCRIPTION"},
		debit:       []string{"DEBIT"},
		credit:      []string{"CREDIT"},
	},
	FormatAccess: {
		date:        []string{"TRANSACTION DATE"},
		description: []string{"NARRATION"},
		debit:       []string{"WITHDRAWALS"},
		credit:      []string{"LODGEMENTS"},
	},
	FormatUBA: {
		date:        []string{"DATE"},
		description: []string{"DESCRIPTION"},
		debit:       []string{"MONEY OUT"},
		credit:      []string{"MONEY IN"},
	},
	FormatFirstBank: {
		date:        []string{"VALUE DATE"},
		description: []string{"REFERENCE", "DESCRIPTION"},
		debit:       []string{"DEBIT AMOUNT"},
		credit:      []string{"CREDIT AMOUNT"},
	},
	FormatGeneric: {
		date:        []string{"DATE", "TRANS DATE", "TRANSACTION DATE", "VALUE DATE", "POST DATE"},
		description: []string{"DESCRIPTION", "NARRATION", "REMARKS", "REFERENCE", "DETAILS"},
		debit:       []string{"DEBIT", "WITHDRAWALS", "MONEY OUT", "DEBIT AMOUNT", "DR"},
		credit:      []string{"CREDIT", "LODGEMENTS", "MONEY IN", "CREDIT AMOUNT", "CR"},
	},
}

func parseRecord(record []string, idx map[string]int, format BankFormat) (service.ParsedTransaction, bool) {
	cols := formatColumns[format]
	tx := service.ParsedTransaction{}

	field := func(names []string) string {
		for _, name := range names {
			if i, ok := idx[name]; ok && i < len(record) {
				if value := strings.TrimSpace(record[i]); value != "" {
					return value
				}
			}
		}
		return ""
	}

	tx.Date = parseDate(field(cols.date))
	tx.Description = field(cols.description)

	if amount, ok := parseAmount(field(cols.debit)); ok && amount.IsPositive() {
		tx.Amount = amount
		tx.Direction = service.DirectionDebit
	}
	if amount, ok := parseAmount(field(cols.credit)); ok && amount.IsPositive() {
		tx.Amount = amount
		tx.Direction = service.DirectionCredit
	}

	// Single signed amount column: negative means money out.
	if tx.Amount.IsZero() {
		if amount, ok := parseAmount(field([]string{"AMOUNT"})); ok {
			if amount.IsNegative() {
				tx.Amount = amount.Neg()
				tx.Direction = service.DirectionDebit
			} else {
				tx.Amount = amount
				tx.Direction = service.DirectionCredit
			}
		}
	}

	if i, ok := idx["BALANCE"]; ok && i < len(record) {
		if balance, ok := parseAmount(record[i]); ok {
			tx.Balance = balance
		}
	}

	return tx, tx.Direction != ""
}

var dateFormats = []string{
	"02-Jan-2006",
	"02/01/2006",
	"2006-01-02",
	"01/02/2006",
	"02-01-2006",
	"2/1/2006",
	"02 Jan 2006",
	"Jan 02, 2006",
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parseAmount cleans currency symbols, NGN markers, commas and whitespace,
// and treats parentheses as a negative sign.
func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return decimal.Zero, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = strings.Trim(s, "()")
		negative = true
	}

	cleaner := strings.NewReplacer("₦", "", "NGN", "", ",", "", " ", "")
	s = cleaner.Replace(s)

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, true
}
