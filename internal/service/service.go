package service

//go:generate mockgen -source=service.go -destination=mock/service.go -package=mock

import (
	"context"

	"go.uber.org/zap"

	"github.com/fleshka4/amm-validator/internal/amm"
	"github.com/fleshka4/amm-validator/internal/cell"
	"github.com/fleshka4/amm-validator/internal/service/dto"
)

// Service represents interface for business logic.
type Service interface {
	Validate(ctx context.Context, req dto.ValidateRequest) (*dto.Verdict, error)
	ValidateBatch(ctx context.Context, reqs []dto.ValidateRequest) ([]*dto.Verdict, error)
}

// Validator judges a single transaction.
type Validator interface {
	Inspect(tx cell.Transaction) (amm.Report, error)
}

// ValidatorService represents struct for business logic.
type ValidatorService struct {
	validator Validator
	log       *zap.Logger
}

// NewValidatorService creates ValidatorService.
func NewValidatorService(v Validator, log *zap.Logger) *ValidatorService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ValidatorService{validator: v, log: log}
}
