package amm

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/fleshka4/amm-validator/internal/apperrors"
	"github.com/fleshka4/amm-validator/internal/cell"
)

// View is a steady-state transaction resolved into named roles. It is built
// once per validation and never mutated afterwards.
type View struct {
	tx     cell.Transaction
	hasher cell.Hasher

	swapCount int

	snapshotIn  cell.InfoData
	snapshotOut cell.InfoData
	reserveIn   uint256.Int
	reserveOut  uint256.Int

	infoTypeHash    cell.Hash
	reserveTypeHash cell.Hash
}

func newView(tx cell.Transaction, p Params, h cell.Hasher) (*View, error) {
	if len(tx.Inputs) < firstOrderIndex || len(tx.Outputs) < firstOrderIndex {
		return nil, errors.Wrapf(apperrors.ErrIndexOutOfBound,
			"need snapshot, reserve and matcher records, got %d inputs and %d outputs",
			len(tx.Inputs), len(tx.Outputs))
	}
	if !tx.Inputs[snapshotIndex].HasCodeHash(p.InfoTypeCodeHash) ||
		!tx.Outputs[snapshotIndex].HasCodeHash(p.InfoTypeCodeHash) {
		return nil, errors.Wrap(apperrors.ErrIndexOutOfBound, "snapshot must sit at position 0")
	}

	swaps, err := cell.DecodeSwapCount(tx.Witnesses)
	if err != nil {
		return nil, err
	}
	if firstOrderIndex+swaps > len(tx.Inputs) {
		return nil, errors.Wrapf(apperrors.ErrIndexOutOfBound,
			"%d swap orders declared, %d order inputs present", swaps, len(tx.Inputs)-firstOrderIndex)
	}

	v := &View{
		tx:        tx,
		hasher:    h,
		swapCount: swaps,
	}

	if v.snapshotIn, err = cell.DecodeInfoData(tx.Inputs[snapshotIndex].Data); err != nil {
		return nil, errors.Wrap(err, "input snapshot")
	}
	if v.snapshotOut, err = cell.DecodeInfoData(tx.Outputs[snapshotIndex].Data); err != nil {
		return nil, errors.Wrap(err, "output snapshot")
	}
	if v.reserveIn, err = cell.DecodeBalance(tx.Inputs[reserveIndex].Data); err != nil {
		return nil, errors.Wrap(err, "input reserve")
	}
	if v.reserveOut, err = cell.DecodeBalance(tx.Outputs[reserveIndex].Data); err != nil {
		return nil, errors.Wrap(err, "output reserve")
	}

	v.infoTypeHash, _ = cell.TypeHash(h, tx.Inputs[snapshotIndex])

	var ok bool
	if v.reserveTypeHash, ok = cell.TypeHash(h, tx.Inputs[reserveIndex]); !ok {
		return nil, errors.Wrap(apperrors.ErrMissingTypeScript, "input reserve")
	}
	if tx.Outputs[reserveIndex].Type == nil {
		return nil, errors.Wrap(apperrors.ErrMissingTypeScript, "output reserve")
	}

	return v, nil
}

// Snapshot returns the consumed and produced snapshot records.
func (v *View) Snapshot() (in, out cell.Record) {
	return v.tx.Inputs[snapshotIndex], v.tx.Outputs[snapshotIndex]
}

// Reserve returns the consumed and produced reserve records.
func (v *View) Reserve() (in, out cell.Record) {
	return v.tx.Inputs[reserveIndex], v.tx.Outputs[reserveIndex]
}

// SwapCount is the number of swap orders leading the order section.
func (v *View) SwapCount() int {
	return v.swapCount
}

// LiquidityCount is the number of mint and burn orders after the swaps.
func (v *View) LiquidityCount() int {
	return len(v.tx.Inputs) - v.liquidityBase()
}

func (v *View) liquidityBase() int {
	return firstOrderIndex + v.swapCount
}

// OrderAt returns the consumed order at input position pos.
func (v *View) OrderAt(pos int) (cell.Record, error) {
	if pos < firstOrderIndex || pos >= len(v.tx.Inputs) {
		return cell.Record{}, errors.Wrapf(apperrors.ErrIndexOutOfBound, "order input %d", pos)
	}
	return v.tx.Inputs[pos], nil
}

func (v *View) outputAt(pos int) (cell.Record, error) {
	if pos < 0 || pos >= len(v.tx.Outputs) {
		return cell.Record{}, errors.Wrapf(apperrors.ErrIndexOutOfBound, "output %d", pos)
	}
	return v.tx.Outputs[pos], nil
}

// SwapPosition returns the input position of the k-th swap order. Its result
// sits at the same output position.
func (v *View) SwapPosition(k int) int {
	return firstOrderIndex + k
}

// LiquidityPosition returns the input position of the k-th liquidity order.
func (v *View) LiquidityPosition(k int) int {
	return v.liquidityBase() + k
}

// ResultFor returns the single result of a swap order.
func (v *View) ResultFor(pos int) (cell.Record, error) {
	return v.outputAt(pos)
}

// ResultPairFor returns the two results of the liquidity order at input
// position pos. Liquidity results are laid out two per order from the first
// liquidity position onwards.
func (v *View) ResultPairFor(pos int) (first, second cell.Record, err error) {
	base := v.liquidityBase()
	r := base + 2*(pos-base)

	if first, err = v.outputAt(r); err != nil {
		return cell.Record{}, cell.Record{}, err
	}
	if second, err = v.outputAt(r + 1); err != nil {
		return cell.Record{}, cell.Record{}, err
	}
	return first, second, nil
}

// OwnedBy reports whether the record's lock hashes to user.
func (v *View) OwnedBy(r cell.Record, user cell.Hash) bool {
	return cell.ScriptHash(v.hasher, r.Lock) == user
}

// TypeHashOf returns the record's type hash and whether it has a type.
func (v *View) TypeHashOf(r cell.Record) (cell.Hash, bool) {
	return cell.TypeHash(v.hasher, r)
}

// IsLiquidityToken reports whether the record carries the pool's liquidity token.
func (v *View) IsLiquidityToken(r cell.Record) bool {
	h, ok := v.TypeHashOf(r)
	return ok && h.Prefix20() == v.snapshotIn.LiquiditySUDTTypeHash
}

// IsPoolToken reports whether the record carries the reserve's token.
func (v *View) IsPoolToken(r cell.Record) bool {
	h, ok := v.TypeHashOf(r)
	return ok && h == v.reserveTypeHash
}
