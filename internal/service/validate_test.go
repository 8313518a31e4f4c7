package service

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fleshka4/amm-validator/internal/amm"
	"github.com/fleshka4/amm-validator/internal/apperrors"
	"github.com/fleshka4/amm-validator/internal/cell"
	"github.com/fleshka4/amm-validator/internal/service/dto"
	"github.com/fleshka4/amm-validator/internal/service/mock"
)

func validRequest(capacity uint64) dto.ValidateRequest {
	return dto.ValidateRequest{Tx: cell.Transaction{
		Inputs:  []cell.Record{{Capacity: capacity}},
		Outputs: []cell.Record{{Capacity: capacity}},
	}}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("accepted", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		validator := mock.NewMockValidator(ctrl)
		core, logs := observer.New(zap.InfoLevel)
		service := NewValidatorService(validator, zap.New(core))

		req := validRequest(1)
		validator.EXPECT().
			Inspect(req.Tx).
			Return(amm.Report{
				Operation:   amm.OperationBatch,
				Settlements: make([]amm.Settlement, 2),
			}, nil)

		verdict, err := service.Validate(context.Background(), req)
		require.NoError(t, err)
		require.True(t, verdict.Accepted)
		require.Equal(t, amm.OperationBatch, verdict.Operation)
		require.Equal(t, 2, verdict.Orders)

		entries := logs.FilterMessage("transaction accepted").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "batch", entries[0].ContextMap()["operation"])
	})

	t.Run("rejected", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		validator := mock.NewMockValidator(ctrl)
		core, logs := observer.New(zap.InfoLevel)
		service := NewValidatorService(validator, zap.New(core))

		validator.EXPECT().
			Inspect(gomock.Any()).
			Return(amm.Report{}, errors.Wrap(apperrors.ErrInvalidMinCKBGot, "burn order at input 3"))

		verdict, err := service.Validate(context.Background(), validRequest(1))
		require.NoError(t, err)
		require.False(t, verdict.Accepted)
		require.Equal(t, apperrors.CodeInvalidMinCKBGot, verdict.Code)
		require.Equal(t, apperrors.KindSlippage, verdict.Kind)
		require.Contains(t, verdict.Reason, "burn order at input 3")

		entries := logs.FilterMessage("transaction rejected").All()
		require.Len(t, entries, 1)
		assert.Equal(t, uint8(apperrors.CodeInvalidMinCKBGot), entries[0].ContextMap()["code"])
	})

	t.Run("validator failure", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		validator := mock.NewMockValidator(ctrl)
		service := NewValidatorService(validator, nil)

		validator.EXPECT().
			Inspect(gomock.Any()).
			Return(amm.Report{}, errors.New("boom"))

		verdict, err := service.Validate(context.Background(), validRequest(1))
		require.ErrorIs(t, err, ErrInternal)
		require.Nil(t, verdict)
	})

	t.Run("invalid argument", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		service := NewValidatorService(mock.NewMockValidator(ctrl), nil)

		verdict, err := service.Validate(context.Background(), dto.ValidateRequest{})
		require.ErrorIs(t, err, apperrors.ErrInvalidArgument)
		require.Nil(t, verdict)
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		service := NewValidatorService(mock.NewMockValidator(ctrl), nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		verdict, err := service.Validate(ctx, validRequest(1))
		require.ErrorIs(t, err, context.Canceled)
		require.Nil(t, verdict)
	})
}

func TestValidateBatch(t *testing.T) {
	t.Parallel()

	t.Run("keeps request order", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		validator := mock.NewMockValidator(ctrl)
		service := NewValidatorService(validator, nil)

		reqs := []dto.ValidateRequest{validRequest(1), validRequest(2), validRequest(3)}
		validator.EXPECT().Inspect(reqs[0].Tx).Return(amm.Report{Operation: amm.OperationBootstrap}, nil)
		validator.EXPECT().Inspect(reqs[1].Tx).Return(amm.Report{}, apperrors.ErrSellSUDTFailed)
		validator.EXPECT().Inspect(reqs[2].Tx).Return(amm.Report{Operation: amm.OperationInitialMint}, nil)

		verdicts, err := service.ValidateBatch(context.Background(), reqs)
		require.NoError(t, err)
		require.Len(t, verdicts, 3)

		assert.Equal(t, amm.OperationBootstrap, verdicts[0].Operation)
		assert.False(t, verdicts[1].Accepted)
		assert.Equal(t, apperrors.CodeSellSUDTFailed, verdicts[1].Code)
		assert.Equal(t, amm.OperationInitialMint, verdicts[2].Operation)
	})

	t.Run("request error fails the batch", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		validator := mock.NewMockValidator(ctrl)
		service := NewValidatorService(validator, nil)

		validator.EXPECT().Inspect(gomock.Any()).Return(amm.Report{}, nil)

		verdicts, err := service.ValidateBatch(context.Background(), []dto.ValidateRequest{validRequest(1), {}})
		require.ErrorIs(t, err, apperrors.ErrInvalidArgument)
		require.Contains(t, err.Error(), "transaction 1")
		require.Nil(t, verdicts)
	})

	t.Run("empty batch", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		service := NewValidatorService(mock.NewMockValidator(ctrl), nil)

		_, err := service.ValidateBatch(context.Background(), nil)
		require.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	})
}
