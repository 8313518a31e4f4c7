package validate

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleshka4/amm-validator/internal/apperrors"
	"github.com/fleshka4/amm-validator/internal/cell"
	"github.com/fleshka4/amm-validator/internal/service/dto"
)

func TestValidateRequestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     dto.ValidateRequest
		wantErr assert.ErrorAssertionFunc
	}{
		{
			name:    "valid request",
			req:     createValidRequest(),
			wantErr: assert.NoError,
		},
		{
			name: "creation without inputs is still judged",
			req: dto.ValidateRequest{Tx: cell.Transaction{
				Outputs: make([]cell.Record, 2),
			}},
			wantErr: assert.NoError,
		},
		{
			name:    "empty transaction",
			req:     dto.ValidateRequest{},
			wantErr: assert.Error,
		},
		{
			name: "no outputs",
			req: dto.ValidateRequest{Tx: cell.Transaction{
				Inputs: make([]cell.Record, 3),
			}},
			wantErr: assert.Error,
		},
		{
			name: "too many inputs",
			req: dto.ValidateRequest{Tx: cell.Transaction{
				Inputs:  make([]cell.Record, MaxRecords+1),
				Outputs: make([]cell.Record, 3),
			}},
			wantErr: assert.Error,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateRequestValidate(tt.req)
			tt.wantErr(t, err)
			if err != nil {
				require.True(t, errors.Is(err, apperrors.ErrInvalidArgument))
			}
		})
	}
}

func TestBatchValidate(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		require.ErrorIs(t, BatchValidate(nil), apperrors.ErrInvalidArgument)
	})

	t.Run("at the limit", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, BatchValidate(make([]dto.ValidateRequest, MaxBatchSize)))
	})

	t.Run("over the limit", func(t *testing.T) {
		t.Parallel()

		require.ErrorIs(t, BatchValidate(make([]dto.ValidateRequest, MaxBatchSize+1)), apperrors.ErrInvalidArgument)
	})
}

func createValidRequest() dto.ValidateRequest {
	return dto.ValidateRequest{Tx: cell.Transaction{
		Inputs:    make([]cell.Record, 4),
		Outputs:   make([]cell.Record, 4),
		Witnesses: [][]byte{cell.EncodeSwapCount(1)},
	}}
}
