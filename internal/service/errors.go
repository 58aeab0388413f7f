package service

import "errors"

// Sentinel errors for the computation pipeline. Handlers map these onto
// HTTP statuses; everything else surfaces as an internal error.
var (
	// ErrShapeMismatch means the classifier returned a malformed result set:
	// wrong count, or a confidence outside [0,1].
	ErrShapeMismatch = errors.New("classifier output does not match transaction input")

	// ErrInvalidInput means a relief input or transaction amount was negative.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyInput means the transaction list was missing entirely.
	// A present-but-empty list is valid and produces an all-zero report.
	ErrEmptyInput = errors.New("no transaction list provided")

	// ErrUnknownTaxYear means no bracket schedule is registered for the
	// requested year. There is no fallback schedule.
	ErrUnknownTaxYear = errors.New("no bracket schedule registered for tax year")
)
