package service

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/fleshka4/amm-validator/internal/apperrors"
	"github.com/fleshka4/amm-validator/internal/service/dto"
	"github.com/fleshka4/amm-validator/internal/service/validate"
)

// ErrInternal is returned when the validator fails without a rejection code.
var ErrInternal = errors.New("internal validator failure")

// Validate judges one transaction. Rejections come back as a verdict with a
// nil error; errors are reserved for bad requests and cancellation.
func (s *ValidatorService) Validate(ctx context.Context, req dto.ValidateRequest) (*dto.Verdict, error) {
	if err := validate.ValidateRequestValidate(req); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "ctx.Err")
	}

	report, err := s.validator.Inspect(req.Tx)
	if err != nil {
		rej, ok := apperrors.AsRejection(err)
		if !ok {
			s.log.Error("validator failed without a rejection", zap.Error(err))
			return nil, errors.Wrap(ErrInternal, err.Error())
		}

		s.log.Info("transaction rejected",
			zap.Uint8("code", uint8(rej.Code())),
			zap.Stringer("kind", rej.Kind()),
			zap.String("reason", err.Error()),
		)
		return &dto.Verdict{
			Code:   rej.Code(),
			Kind:   rej.Kind(),
			Reason: err.Error(),
		}, nil
	}

	s.log.Info("transaction accepted",
		zap.Stringer("operation", report.Operation),
		zap.Int("orders", len(report.Settlements)),
		zap.String("ckb_reserve", report.After.CKBReserve.Dec()),
		zap.String("sudt_reserve", report.After.SUDTReserve.Dec()),
		zap.String("total_liquidity", report.After.TotalLiquidity.Dec()),
	)
	return &dto.Verdict{
		Accepted:  true,
		Operation: report.Operation,
		Orders:    len(report.Settlements),
	}, nil
}

// ValidateBatch judges independent transactions concurrently. Verdicts keep
// the request order; any request-level error fails the whole batch.
func (s *ValidatorService) ValidateBatch(ctx context.Context, reqs []dto.ValidateRequest) ([]*dto.Verdict, error) {
	if err := validate.BatchValidate(reqs); err != nil {
		return nil, err
	}

	type verdictResult struct {
		idx     int
		verdict *dto.Verdict
		err     error
	}

	var wg sync.WaitGroup
	ch := make(chan verdictResult, len(reqs))

	wg.Add(len(reqs))
	for i, req := range reqs {
		go func() {
			defer wg.Done()

			v, err := s.Validate(ctx, req)
			ch <- verdictResult{idx: i, verdict: v, err: errors.Wrapf(err, "transaction %d", i)}
		}()
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var (
		verdicts    = make([]*dto.Verdict, len(reqs))
		combinedErr error
	)
	for result := range ch {
		if result.err != nil {
			combinedErr = multierr.Append(combinedErr, result.err)
			continue
		}
		verdicts[result.idx] = result.verdict
	}

	if combinedErr != nil {
		return nil, errors.Wrap(combinedErr, "failed to validate batch")
	}
	return verdicts, nil
}
