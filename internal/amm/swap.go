package amm

import (
	"github.com/pkg/errors"

	"github.com/fleshka4/amm-validator/internal/apperrors"
	"github.com/fleshka4/amm-validator/internal/cell"
	"github.com/fleshka4/amm-validator/internal/dexmath"
)

func verifySwap(v *View, p Params, o Order, acc Accumulator) (Delta, error) {
	if !v.OwnedBy(o.Result, o.Swap.UserLockHash) {
		return Delta{}, errors.Wrapf(apperrors.ErrInvalidOutputLockHash, "swap result %d", o.Position)
	}

	switch o.Kind {
	case OrderSellCKB:
		return verifySellCKB(v, p, o, acc)
	case OrderBuyCKB:
		return verifyBuyCKB(v, o, acc)
	default:
		return Delta{}, errors.Wrapf(apperrors.ErrUnknownLiquidity, "%s is not a swap", o.Kind)
	}
}

// verifySellCKB checks a native-to-token swap.
func verifySellCKB(v *View, p Params, o Order, acc Accumulator) (Delta, error) {
	ckbPaid, err := dexmath.SubU64(o.Record.Capacity, p.OrderCapacity)
	if err != nil || ckbPaid == 0 {
		return Delta{}, errors.Wrapf(apperrors.ErrRequestCapacityEqSUDTCapacity,
			"order capacity %d", o.Record.Capacity)
	}
	if o.Swap.SUDTTypeHash != v.reserveTypeHash {
		return Delta{}, errors.Wrap(apperrors.ErrSUDTTypeHashMismatch, "order asks for a foreign token")
	}
	if h, ok := v.TypeHashOf(o.Result); !ok || h != o.Swap.SUDTTypeHash {
		return Delta{}, errors.Wrap(apperrors.ErrInvalidOutputTypeHash, "swap result must carry the pool token")
	}
	if o.Record.Capacity <= o.Result.Capacity || o.Record.Capacity-o.Result.Capacity != ckbPaid {
		return Delta{}, errors.Wrapf(apperrors.ErrInvalidSwapOutputCapacity,
			"order %d, result %d, paid %d", o.Record.Capacity, o.Result.Capacity, ckbPaid)
	}

	sudtGot, err := cell.DecodeBalance(o.Result.Data)
	if err != nil {
		return Delta{}, errors.Wrap(err, "swap result balance")
	}
	if sudtGot.Lt(&o.Swap.MinAmountOut) {
		return Delta{}, errors.Wrapf(apperrors.ErrSwapAmountLessThanMin,
			"got %s, min %s", sudtGot.Dec(), o.Swap.MinAmountOut.Dec())
	}

	want, err := dexmath.SwapCounterAmount(sudtGot, acc.SUDTReserve, acc.CKBReserve)
	paid := dexmath.U128(ckbPaid)
	if err != nil || !want.Eq(&paid) {
		return Delta{}, errors.Wrapf(apperrors.ErrSellSUDTFailed, "paid %d for %s", ckbPaid, sudtGot.Dec())
	}

	return Delta{CKBOut: paid, SUDTIn: sudtGot}, nil
}

// verifyBuyCKB checks a token-to-native swap.
func verifyBuyCKB(v *View, o Order, acc Accumulator) (Delta, error) {
	if o.Amount.IsZero() {
		return Delta{}, apperrors.ErrSwapInputSUDTAmountEqZero
	}
	if !v.IsPoolToken(o.Record) {
		return Delta{}, errors.Wrap(apperrors.ErrSUDTTypeHashMismatch, "order pays a foreign token")
	}
	if o.Result.Type != nil {
		return Delta{}, errors.Wrap(apperrors.ErrInvalidOutputTypeHash, "swap result must be plain native token")
	}
	if len(o.Result.Data) != 0 {
		return Delta{}, errors.Wrapf(apperrors.ErrInvalidSwapOutputData, "%d bytes", len(o.Result.Data))
	}

	got, err := dexmath.SubU64(o.Result.Capacity, o.Record.Capacity)
	if err != nil {
		return Delta{}, errors.Wrapf(apperrors.ErrInvalidSwapOutputCapacity,
			"result %d below order %d", o.Result.Capacity, o.Record.Capacity)
	}
	ckbGot := dexmath.U128(got)
	if ckbGot.Lt(&o.Swap.MinAmountOut) {
		return Delta{}, errors.Wrapf(apperrors.ErrSwapAmountLessThanMin,
			"got %d, min %s", got, o.Swap.MinAmountOut.Dec())
	}

	want, err := dexmath.SwapCounterAmount(ckbGot, acc.CKBReserve, acc.SUDTReserve)
	if err != nil || !want.Eq(&o.Amount) {
		return Delta{}, errors.Wrapf(apperrors.ErrBuySUDTFailed, "paid %s for %d", o.Amount.Dec(), got)
	}

	return Delta{CKBIn: ckbGot, SUDTOut: o.Amount}, nil
}
