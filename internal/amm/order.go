package amm

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/fleshka4/amm-validator/internal/apperrors"
	"github.com/fleshka4/amm-validator/internal/cell"
)

// OrderKind is decided once per order and selects its verifier.
type OrderKind uint8

const (
	OrderUnknown OrderKind = iota
	// OrderSellCKB pays native token for the pool token.
	OrderSellCKB
	// OrderBuyCKB pays the pool token for native token.
	OrderBuyCKB
	// OrderMintCKBChange mints liquidity and refunds excess native token.
	OrderMintCKBChange
	// OrderMintSUDTChange mints liquidity and refunds excess pool token.
	OrderMintSUDTChange
	// OrderBurn redeems liquidity for both reserves.
	OrderBurn
	// OrderInitialMint seeds an empty pool.
	OrderInitialMint
)

func (k OrderKind) String() string {
	switch k {
	case OrderSellCKB:
		return "sell_ckb"
	case OrderBuyCKB:
		return "buy_ckb"
	case OrderMintCKBChange:
		return "mint_ckb_change"
	case OrderMintSUDTChange:
		return "mint_sudt_change"
	case OrderBurn:
		return "burn"
	case OrderInitialMint:
		return "initial_mint"
	default:
		return "unknown"
	}
}

// IsSwap reports whether the kind settles through the swap verifier.
func (k OrderKind) IsSwap() bool {
	return k == OrderSellCKB || k == OrderBuyCKB
}

// Order is a consumed order together with its decoded args and linked results.
type Order struct {
	Kind     OrderKind
	Position int
	Record   cell.Record

	Swap      cell.SwapOrderArgs
	Liquidity cell.LiquidityOrderArgs

	// Amount is the token balance the order carries; zero for OrderSellCKB.
	Amount uint256.Int

	// Result is the swap proceeds, the minted liquidity or the burn's token payout.
	Result cell.Record
	// Companion is the mint change record or the burn's native payout.
	Companion cell.Record
}

func checkVersion(got, want uint8) error {
	if got != want {
		return errors.Wrapf(apperrors.ErrVersionDiff, "order version %d, want %d", got, want)
	}
	return nil
}

// classifySwap resolves the swap order at input position pos. Orders without a
// type carry native token only and sell it.
func classifySwap(v *View, p Params, pos int) (Order, error) {
	rec, err := v.OrderAt(pos)
	if err != nil {
		return Order{}, err
	}
	args, err := cell.DecodeSwapOrderArgs(rec.Lock.Args)
	if err != nil {
		return Order{}, errors.Wrap(err, "swap order args")
	}
	if err := checkVersion(args.Version, p.InfoVersion); err != nil {
		return Order{}, err
	}
	result, err := v.ResultFor(pos)
	if err != nil {
		return Order{}, err
	}

	o := Order{
		Kind:     OrderSellCKB,
		Position: pos,
		Record:   rec,
		Swap:     args,
		Result:   result,
	}
	if rec.Type != nil {
		o.Kind = OrderBuyCKB
		if o.Amount, err = cell.DecodeBalance(rec.Data); err != nil {
			return Order{}, errors.Wrap(err, "swap order balance")
		}
	}
	return o, nil
}

// classifyLiquidity resolves the liquidity order at input position pos by the
// asset class the order itself carries: the liquidity token means burn, the
// pool token means mint.
func classifyLiquidity(v *View, p Params, pos int) (Order, error) {
	rec, err := v.OrderAt(pos)
	if err != nil {
		return Order{}, err
	}
	args, err := decodeLiquidityOrder(v, p, rec)
	if err != nil {
		return Order{}, err
	}
	amount, err := cell.DecodeBalance(rec.Data)
	if err != nil {
		return Order{}, errors.Wrap(err, "liquidity order balance")
	}
	first, second, err := v.ResultPairFor(pos)
	if err != nil {
		return Order{}, err
	}

	o := Order{
		Position:  pos,
		Record:    rec,
		Liquidity: args,
		Amount:    amount,
		Result:    first,
		Companion: second,
	}

	switch {
	case v.IsLiquidityToken(rec):
		o.Kind = OrderBurn
	case v.IsPoolToken(rec):
		switch n := len(second.Data); {
		case n == 0:
			o.Kind = OrderMintCKBChange
		case n >= cell.BalanceLen:
			o.Kind = OrderMintSUDTChange
		default:
			return Order{}, errors.Wrapf(apperrors.ErrInvalidChangeCell, "change data of %d bytes", n)
		}
	default:
		return Order{}, errors.Wrapf(apperrors.ErrUnknownLiquidity, "order at input %d", pos)
	}
	return o, nil
}

func decodeLiquidityOrder(v *View, p Params, rec cell.Record) (cell.LiquidityOrderArgs, error) {
	args, err := cell.DecodeLiquidityOrderArgs(rec.Lock.Args)
	if err != nil {
		return cell.LiquidityOrderArgs{}, errors.Wrap(err, "liquidity order args")
	}
	if err := checkVersion(args.Version, p.InfoVersion); err != nil {
		return cell.LiquidityOrderArgs{}, err
	}
	if args.InfoTypeHash != v.infoTypeHash {
		return cell.LiquidityOrderArgs{}, errors.Wrapf(apperrors.ErrLiquidityArgsInfoTypeHashMismatch,
			"order names pool %x", args.InfoTypeHash[:4])
	}
	return args, nil
}
