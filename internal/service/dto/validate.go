package dto

import (
	"github.com/fleshka4/amm-validator/internal/amm"
	"github.com/fleshka4/amm-validator/internal/apperrors"
	"github.com/fleshka4/amm-validator/internal/cell"
)

// ValidateRequest represents a request to judge one transaction.
type ValidateRequest struct {
	Tx cell.Transaction
}

// Verdict is the outcome of a validation. A rejection is a verdict, not an error.
type Verdict struct {
	Accepted  bool
	Operation amm.Operation
	Orders    int

	Code   apperrors.Code
	Kind   apperrors.Kind
	Reason string
}
