package validate

import (
	"github.com/pkg/errors"

	"github.com/fleshka4/amm-validator/internal/apperrors"
	"github.com/fleshka4/amm-validator/internal/service/dto"
)

const (
	// MaxRecords bounds inputs and outputs of a single transaction.
	MaxRecords = 1024
	// MaxBatchSize bounds the number of transactions judged in one call.
	MaxBatchSize = 64
)

// ValidateRequestValidate checks a request is worth handing to the validator.
func ValidateRequestValidate(req dto.ValidateRequest) error {
	if len(req.Tx.Outputs) == 0 {
		return errors.Wrap(apperrors.ErrInvalidArgument, "transaction has no outputs")
	}
	if len(req.Tx.Inputs) > MaxRecords || len(req.Tx.Outputs) > MaxRecords {
		return errors.Wrapf(apperrors.ErrInvalidArgument, "transaction exceeds %d records", MaxRecords)
	}
	return nil
}

// BatchValidate checks the size of a batch.
func BatchValidate(reqs []dto.ValidateRequest) error {
	if len(reqs) == 0 {
		return errors.Wrap(apperrors.ErrInvalidArgument, "batch cannot be empty")
	}
	if len(reqs) > MaxBatchSize {
		return errors.Wrapf(apperrors.ErrInvalidArgument, "batch of %d exceeds %d", len(reqs), MaxBatchSize)
	}
	return nil
}
