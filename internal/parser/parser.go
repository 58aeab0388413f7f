// Package parser extracts transaction rows from uploaded bank statements.
package parser

import (
	"errors"
	"io"
	"strings"

	"github.com/ojimcy/taxsmart/internal/service"
)

var (
	// ErrUnsupportedFormat means the upload is not a statement format we
	// can parse (currently CSV only).
	ErrUnsupportedFormat = errors.New("unsupported statement format")

	// ErrParse means the statement looked like a supported format but its
	// contents could not be extracted.
	ErrParse = errors.New("failed to parse statement")
)

// BankFormat identifies the statement layout detected from CSV headers.
type BankFormat string

const (
	FormatGTBank    BankFormat = "gtbank"
	FormatAccess    BankFormat = "access"
	FormatFirstBank BankFormat = "firstbank"
	FormatUBA       BankFormat = "uba"
	FormatGeneric   BankFormat = "generic"
)

// Parse extracts transactions from an uploaded statement, dispatching on
// the filename extension. PDF statements are not supported yet.
func Parse(reader io.Reader, filename string) ([]service.ParsedTransaction, BankFormat, error) {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".csv"):
		return NewCSVParser().Parse(reader)
	default:
		return nil, "", ErrUnsupportedFormat
	}
}
