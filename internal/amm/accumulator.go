package amm

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/fleshka4/amm-validator/internal/apperrors"
	"github.com/fleshka4/amm-validator/internal/cell"
	"github.com/fleshka4/amm-validator/internal/dexmath"
)

// Accumulator is the running pool state threaded through a batch fold.
// It is passed and returned by value.
type Accumulator struct {
	CKBReserve     uint256.Int
	SUDTReserve    uint256.Int
	TotalLiquidity uint256.Int
}

func accumulatorFrom(d cell.InfoData) Accumulator {
	return Accumulator{
		CKBReserve:     d.CKBReserve,
		SUDTReserve:    d.SUDTReserve,
		TotalLiquidity: d.TotalLiquidity,
	}
}

// Empty reports whether the pool holds nothing.
func (a Accumulator) Empty() bool {
	return a.CKBReserve.IsZero() && a.SUDTReserve.IsZero() && a.TotalLiquidity.IsZero()
}

// Delta is what a single order moves. In amounts are added to the pool and Out
// amounts removed from it.
type Delta struct {
	CKBIn   uint256.Int
	CKBOut  uint256.Int
	SUDTIn  uint256.Int
	SUDTOut uint256.Int
	Minted  uint256.Int
	Burned  uint256.Int
}

// Apply returns the state after d. Reserves never wrap: any step leaving the
// 128-bit range fails.
func (a Accumulator) Apply(d Delta) (Accumulator, error) {
	var err error
	if a.CKBReserve, err = shift(a.CKBReserve, d.CKBIn, d.CKBOut); err != nil {
		return Accumulator{}, errors.Wrap(err, "ckb reserve")
	}
	if a.SUDTReserve, err = shift(a.SUDTReserve, d.SUDTIn, d.SUDTOut); err != nil {
		return Accumulator{}, errors.Wrap(err, "sudt reserve")
	}
	if a.TotalLiquidity, err = shift(a.TotalLiquidity, d.Minted, d.Burned); err != nil {
		return Accumulator{}, errors.Wrap(err, "total liquidity")
	}
	return a, nil
}

func shift(v, in, out uint256.Int) (uint256.Int, error) {
	v, err := dexmath.Add128(v, in)
	if err != nil {
		return uint256.Int{}, errors.Wrap(apperrors.ErrReserveOverflow, err.Error())
	}
	v, err = dexmath.Sub128(v, out)
	if err != nil {
		return uint256.Int{}, errors.Wrap(apperrors.ErrReserveOverflow, err.Error())
	}
	return v, nil
}
