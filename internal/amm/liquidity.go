package amm

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/fleshka4/amm-validator/internal/apperrors"
	"github.com/fleshka4/amm-validator/internal/cell"
	"github.com/fleshka4/amm-validator/internal/dexmath"
)

func verifyLiquidity(v *View, p Params, o Order, acc Accumulator) (Delta, error) {
	switch o.Kind {
	case OrderMintCKBChange, OrderMintSUDTChange:
		return verifyMint(v, p, o, acc)
	case OrderBurn:
		return verifyBurn(v, o, acc)
	default:
		return Delta{}, errors.Wrapf(apperrors.ErrUnknownLiquidity, "%s is not a liquidity order", o.Kind)
	}
}

// mintedLiquidity checks the liquidity token result shared by every mint.
func mintedLiquidity(v *View, o Order) (uint256.Int, error) {
	if !v.IsLiquidityToken(o.Result) {
		return uint256.Int{}, errors.Wrapf(apperrors.ErrLiquiditySUDTTypeHashMismatch, "result %d", o.Position)
	}
	if !v.OwnedBy(o.Result, o.Liquidity.UserLockHash) {
		return uint256.Int{}, errors.Wrapf(apperrors.ErrUserLockHashMismatch, "result %d", o.Position)
	}
	lp, err := cell.DecodeBalance(o.Result.Data)
	if err != nil {
		return uint256.Int{}, errors.Wrap(err, "liquidity result balance")
	}
	return lp, nil
}

// verifyInitialMint checks the geometric-mean mint that seeds an empty pool.
// It is the only formula without the +1 bias.
func verifyInitialMint(v *View, p Params, acc Accumulator) (Order, Delta, error) {
	if !acc.Empty() {
		return Order{}, Delta{}, errors.Wrap(apperrors.ErrInvalidInfoInData, "pool without liquidity still holds reserves")
	}

	rec, err := v.OrderAt(firstOrderIndex)
	if err != nil {
		return Order{}, Delta{}, err
	}
	args, err := decodeLiquidityOrder(v, p, rec)
	if err != nil {
		return Order{}, Delta{}, err
	}
	sudtIn, err := cell.DecodeBalance(rec.Data)
	if err != nil {
		return Order{}, Delta{}, errors.Wrap(err, "initial order balance")
	}
	result, err := v.ResultFor(firstOrderIndex)
	if err != nil {
		return Order{}, Delta{}, err
	}

	o := Order{
		Kind:      OrderInitialMint,
		Position:  firstOrderIndex,
		Record:    rec,
		Liquidity: args,
		Amount:    sudtIn,
		Result:    result,
	}

	lp, err := mintedLiquidity(v, o)
	if err != nil {
		return Order{}, Delta{}, err
	}
	ckb, err := dexmath.SubU64(rec.Capacity, p.OrderCapacity)
	if err != nil {
		return Order{}, Delta{}, errors.Wrapf(apperrors.ErrInvalidCKBAmount, "order capacity %d", rec.Capacity)
	}
	ckbIn := dexmath.U128(ckb)

	want, err := dexmath.GeometricMean(ckbIn, sudtIn)
	if err != nil {
		return Order{}, Delta{}, errors.Wrap(apperrors.ErrMintInitialLiquidityFailed, err.Error())
	}
	if want.IsZero() {
		return Order{}, Delta{}, errors.Wrap(apperrors.ErrMintInitialLiquidityFailed, "zero liquidity")
	}
	if !want.Eq(&lp) {
		return Order{}, Delta{}, errors.Wrapf(apperrors.ErrMintInitialLiquidityFailed,
			"minted %s, want %s", lp.Dec(), want.Dec())
	}

	return o, Delta{CKBIn: ckbIn, SUDTIn: sudtIn, Minted: lp}, nil
}

func verifyMint(v *View, p Params, o Order, acc Accumulator) (Delta, error) {
	lp, err := mintedLiquidity(v, o)
	if err != nil {
		return Delta{}, err
	}

	var ckbIn, sudtIn uint256.Int
	change := o.Companion

	switch o.Kind {
	case OrderMintCKBChange:
		if change.Type != nil || !v.OwnedBy(change, o.Liquidity.UserLockHash) {
			return Delta{}, errors.Wrap(apperrors.ErrInvalidChangeCell, "native change must be plain and owned by the user")
		}

		sudtIn = o.Amount
		ckb, err := dexmath.SubU64(o.Record.Capacity, p.OrderCapacity)
		if err == nil {
			ckb, err = dexmath.SubU64(ckb, change.Capacity)
		}
		if err != nil {
			return Delta{}, errors.Wrapf(apperrors.ErrInvalidCKBAmount,
				"order %d, change %d", o.Record.Capacity, change.Capacity)
		}
		ckbIn = dexmath.U128(ckb)

		if want, err := dexmath.BiasedRatio(sudtIn, acc.CKBReserve, acc.SUDTReserve); err != nil || !want.Eq(&ckbIn) {
			return Delta{}, errors.Wrapf(apperrors.ErrLiquidityPoolTokenDiff, "ckb injected %d", ckb)
		}
		if floor := o.Liquidity.MinAmount0; floor.IsZero() || ckbIn.Lt(&floor) {
			return Delta{}, errors.Wrapf(apperrors.ErrInvalidMinCKBInject, "injected %d, min %s", ckb, floor.Dec())
		}
		if want, err := dexmath.BiasedRatio(sudtIn, acc.TotalLiquidity, acc.SUDTReserve); err != nil || !want.Eq(&lp) {
			return Delta{}, errors.Wrapf(apperrors.ErrSUDTInjectAmountDiff, "minted %s", lp.Dec())
		}

	case OrderMintSUDTChange:
		if !v.IsPoolToken(change) {
			return Delta{}, errors.Wrap(apperrors.ErrSUDTTypeHashMismatch, "token change")
		}
		if !v.OwnedBy(change, o.Liquidity.UserLockHash) {
			return Delta{}, errors.Wrap(apperrors.ErrUserLockHashMismatch, "token change")
		}

		refund, err := cell.DecodeBalancePrefix(change.Data)
		if err != nil {
			return Delta{}, errors.Wrap(err, "token change balance")
		}
		if sudtIn, err = dexmath.Sub128(o.Amount, refund); err != nil {
			return Delta{}, errors.Wrapf(apperrors.ErrInvalidChangeCell,
				"refund %s exceeds deposit %s", refund.Dec(), o.Amount.Dec())
		}
		ckb, err := dexmath.SubU64(o.Record.Capacity, 2*p.OrderCapacity)
		if err != nil {
			return Delta{}, errors.Wrapf(apperrors.ErrInvalidCKBAmount, "order capacity %d", o.Record.Capacity)
		}
		ckbIn = dexmath.U128(ckb)

		if want, err := dexmath.BiasedRatio(ckbIn, acc.SUDTReserve, acc.CKBReserve); err != nil || !want.Eq(&sudtIn) {
			return Delta{}, errors.Wrapf(apperrors.ErrLiquidityPoolTokenDiff, "sudt injected %s", sudtIn.Dec())
		}
		if floor := o.Liquidity.MinAmount1; floor.IsZero() || sudtIn.Lt(&floor) {
			return Delta{}, errors.Wrapf(apperrors.ErrInvalidMinSUDTInject, "injected %s, min %s", sudtIn.Dec(), floor.Dec())
		}
		if want, err := dexmath.BiasedRatio(ckbIn, acc.TotalLiquidity, acc.CKBReserve); err != nil || !want.Eq(&lp) {
			return Delta{}, errors.Wrapf(apperrors.ErrCKBInjectAmountDiff, "minted %s", lp.Dec())
		}
	}

	return Delta{CKBIn: ckbIn, SUDTIn: sudtIn, Minted: lp}, nil
}

func verifyBurn(v *View, o Order, acc Accumulator) (Delta, error) {
	burned := o.Amount
	if burned.IsZero() || acc.TotalLiquidity.IsZero() {
		return Delta{}, errors.Wrap(apperrors.ErrBurnLiquidityFailed, "nothing to burn")
	}

	sudtOut, ckbOut := o.Result, o.Companion
	if len(sudtOut.Data) < cell.BalanceLen {
		return Delta{}, errors.Wrapf(apperrors.ErrSUDTCellDataLenTooShort, "%d bytes", len(sudtOut.Data))
	}
	if len(ckbOut.Data) != 0 {
		return Delta{}, errors.Wrapf(apperrors.ErrCKBCellDataIsNotEmpty, "%d bytes", len(ckbOut.Data))
	}
	if !v.IsPoolToken(sudtOut) {
		return Delta{}, errors.Wrap(apperrors.ErrSUDTTypeHashMismatch, "token payout")
	}
	if !v.OwnedBy(sudtOut, o.Liquidity.UserLockHash) {
		return Delta{}, apperrors.ErrSUDTOutLockHashMismatch
	}
	if !v.OwnedBy(ckbOut, o.Liquidity.UserLockHash) {
		return Delta{}, apperrors.ErrCKBOutLockHashMismatch
	}

	ckbGot, err := dexmath.Add128(dexmath.U128(sudtOut.Capacity), dexmath.U128(ckbOut.Capacity))
	if err == nil {
		ckbGot, err = dexmath.Sub128(ckbGot, dexmath.U128(o.Record.Capacity))
	}
	if err != nil {
		return Delta{}, errors.Wrapf(apperrors.ErrInvalidCKBAmount,
			"payouts %d+%d below order %d", sudtOut.Capacity, ckbOut.Capacity, o.Record.Capacity)
	}

	sudtGot, err := cell.DecodeBalancePrefix(sudtOut.Data)
	if err != nil {
		return Delta{}, errors.Wrap(err, "token payout balance")
	}

	if floor := o.Liquidity.MinAmount0; floor.IsZero() || ckbGot.Lt(&floor) {
		return Delta{}, errors.Wrapf(apperrors.ErrInvalidMinCKBGot, "got %s, min %s", ckbGot.Dec(), floor.Dec())
	}
	if floor := o.Liquidity.MinAmount1; sudtGot.Lt(&floor) {
		return Delta{}, errors.Wrapf(apperrors.ErrInvalidMinSUDTGot, "got %s, min %s", sudtGot.Dec(), floor.Dec())
	}

	if want, err := dexmath.BiasedRatio(acc.CKBReserve, burned, acc.TotalLiquidity); err != nil || !want.Eq(&ckbGot) {
		return Delta{}, errors.Wrapf(apperrors.ErrCKBGotAmountDiff, "got %s for %s", ckbGot.Dec(), burned.Dec())
	}
	if want, err := dexmath.BiasedRatio(acc.SUDTReserve, burned, acc.TotalLiquidity); err != nil || !want.Eq(&sudtGot) {
		return Delta{}, errors.Wrapf(apperrors.ErrSUDTGotAmountDiff, "got %s for %s", sudtGot.Dec(), burned.Dec())
	}

	return Delta{CKBOut: ckbGot, SUDTOut: sudtGot, Burned: burned}, nil
}
