// Package amm decides whether a transaction is a legal pool transition:
// bootstrap, initial mint, or a batch of swaps, mints and burns folded against
// one reserve snapshot.
package amm

import (
	"github.com/pkg/errors"

	"github.com/fleshka4/amm-validator/internal/apperrors"
	"github.com/fleshka4/amm-validator/internal/cell"
	"github.com/fleshka4/amm-validator/internal/dexmath"
)

// Operation names the kind of transition that was accepted.
type Operation uint8

const (
	OperationUnknown Operation = iota
	OperationBootstrap
	OperationInitialMint
	OperationBatch
)

func (o Operation) String() string {
	switch o {
	case OperationBootstrap:
		return "bootstrap"
	case OperationInitialMint:
		return "initial_mint"
	case OperationBatch:
		return "batch"
	default:
		return "unknown"
	}
}

// Settlement records what one order moved.
type Settlement struct {
	Position int
	Kind     OrderKind
	Delta    Delta
}

// Report describes an accepted transition.
type Report struct {
	Operation   Operation
	Before      Accumulator
	After       Accumulator
	Settlements []Settlement
}

// Validator is a pure predicate over transactions. It holds no mutable state
// and is safe for concurrent use.
type Validator struct {
	params Params
	hasher cell.Hasher
}

// Option configures a Validator.
type Option func(*Validator)

// WithHasher replaces the default blake2b hasher.
func WithHasher(h cell.Hasher) Option {
	return func(v *Validator) {
		v.hasher = h
	}
}

// NewValidator creates a Validator for the given protocol constants.
func NewValidator(p Params, opts ...Option) *Validator {
	v := &Validator{
		params: p,
		hasher: cell.Blake2b256{},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate returns nil if tx is a legal transition, or an error carrying an
// apperrors rejection code.
func (v *Validator) Validate(tx cell.Transaction) error {
	_, err := v.Inspect(tx)
	return err
}

// Inspect validates tx and reports what it settles.
func (v *Validator) Inspect(tx cell.Transaction) (Report, error) {
	in, out := v.countSnapshots(tx)

	if in == 0 && out == 1 {
		data, err := verifyCreation(tx, v.params, v.hasher)
		if err != nil {
			return Report{}, errors.Wrap(err, "bootstrap")
		}
		return Report{Operation: OperationBootstrap, After: accumulatorFrom(data)}, nil
	}
	if in != 1 || out != 1 {
		return Report{}, errors.Wrapf(apperrors.ErrMoreThanOneLiquidityPool, "%d snapshots in, %d out", in, out)
	}

	view, err := newView(tx, v.params, v.hasher)
	if err != nil {
		return Report{}, err
	}
	if err := v.verifyPoolLock(view); err != nil {
		return Report{}, err
	}
	if err := v.verifyInputReserve(view); err != nil {
		return Report{}, err
	}

	r := Report{Before: accumulatorFrom(view.snapshotIn)}
	if r.Before.TotalLiquidity.IsZero() {
		err = v.foldInitial(view, &r)
	} else {
		err = v.foldBatch(view, &r)
	}
	if err != nil {
		return Report{}, err
	}

	if err := v.reconcile(view, r.Before, r.After); err != nil {
		return Report{}, err
	}
	return r, nil
}

func (v *Validator) countSnapshots(tx cell.Transaction) (in, out int) {
	for _, r := range tx.Inputs {
		if r.HasCodeHash(v.params.InfoTypeCodeHash) {
			in++
		}
	}
	for _, r := range tx.Outputs {
		if r.HasCodeHash(v.params.InfoTypeCodeHash) {
			out++
		}
	}
	return in, out
}

// verifyPoolLock checks the consumed snapshot and reserve are held by the
// pool's own info lock, and the produced pair keeps the same identity.
func (v *Validator) verifyPoolLock(view *View) error {
	infoIn, infoOut := view.Snapshot()
	reserveIn, reserveOut := view.Reserve()

	if infoIn.Lock.CodeHash != v.params.InfoLockCodeHash {
		return errors.Wrap(apperrors.ErrInvalidInfoLockCount, "snapshot is not held by the info lock")
	}
	lockHash := cell.ScriptHash(v.hasher, infoIn.Lock)
	if cell.ScriptHash(v.hasher, reserveIn.Lock) != lockHash {
		return apperrors.ErrInfoPoolLockHashMismatch
	}

	group := 0
	for _, r := range view.tx.Inputs {
		if cell.ScriptHash(v.hasher, r.Lock) == lockHash {
			group++
		}
	}
	if group != 2 {
		return errors.Wrapf(apperrors.ErrInvalidInfoLockCount, "%d inputs use the pool lock", group)
	}
	if err := verifyInfoLockArgs(v.hasher, infoIn.Lock.Args, view.reserveTypeHash, view.infoTypeHash); err != nil {
		return err
	}

	switch {
	case !infoOut.Type.Equal(*infoIn.Type):
		return errors.Wrap(apperrors.ErrPoolIdentityChanged, "snapshot type")
	case !reserveOut.Type.Equal(*reserveIn.Type):
		return errors.Wrap(apperrors.ErrPoolIdentityChanged, "reserve type")
	case !infoOut.Lock.Equal(infoIn.Lock) || !reserveOut.Lock.Equal(infoIn.Lock):
		return errors.Wrap(apperrors.ErrPoolIdentityChanged, "pool lock")
	case view.snapshotOut.LiquiditySUDTTypeHash != view.snapshotIn.LiquiditySUDTTypeHash:
		return errors.Wrap(apperrors.ErrPoolIdentityChanged, "liquidity token class")
	}
	return nil
}

// verifyInputReserve checks the consumed reserve record agrees with the
// consumed snapshot.
func (v *Validator) verifyInputReserve(view *View) error {
	reserveIn, _ := view.Reserve()

	want, err := dexmath.Add128(dexmath.U128(v.params.PoolBaseCapacity), view.snapshotIn.CKBReserve)
	got := dexmath.U128(reserveIn.Capacity)
	if err != nil || !got.Eq(&want) {
		return errors.Wrapf(apperrors.ErrCKBReserveAmountDiff, "reserve capacity %d", reserveIn.Capacity)
	}
	if !view.reserveIn.Eq(&view.snapshotIn.SUDTReserve) {
		return errors.Wrapf(apperrors.ErrSUDTReserveAmountDiff, "reserve balance %s", view.reserveIn.Dec())
	}
	return nil
}

// foldInitial settles the single order allowed against an empty pool.
func (v *Validator) foldInitial(view *View, r *Report) error {
	if view.SwapCount() != 0 || len(view.tx.Inputs) != firstOrderIndex+1 || len(view.tx.Outputs) != firstOrderIndex+1 {
		return errors.Wrapf(apperrors.ErrInvalidInitialLiquidityTx,
			"%d inputs, %d outputs, %d swaps", len(view.tx.Inputs), len(view.tx.Outputs), view.SwapCount())
	}

	o, d, err := verifyInitialMint(view, v.params, r.Before)
	if err != nil {
		return errors.Wrap(err, "initial mint")
	}
	if r.After, err = r.Before.Apply(d); err != nil {
		return err
	}

	r.Operation = OperationInitialMint
	r.Settlements = []Settlement{{Position: o.Position, Kind: o.Kind, Delta: d}}
	return nil
}

// foldBatch settles swaps then liquidity orders in input order. Each order is
// priced against the reserves left by the ones before it.
func (v *Validator) foldBatch(view *View, r *Report) error {
	acc := r.Before
	settlements := make([]Settlement, 0, view.SwapCount()+view.LiquidityCount())

	step := func(o Order) error {
		verify := verifyLiquidity
		if o.Kind.IsSwap() {
			verify = verifySwap
		}

		d, err := verify(view, v.params, o, acc)
		if err != nil {
			return errors.Wrapf(err, "%s order at input %d", o.Kind, o.Position)
		}
		if acc, err = acc.Apply(d); err != nil {
			return errors.Wrapf(err, "%s order at input %d", o.Kind, o.Position)
		}
		settlements = append(settlements, Settlement{Position: o.Position, Kind: o.Kind, Delta: d})
		return nil
	}

	for k := 0; k < view.SwapCount(); k++ {
		o, err := classifySwap(view, v.params, view.SwapPosition(k))
		if err != nil {
			return errors.Wrapf(err, "swap order at input %d", view.SwapPosition(k))
		}
		if err := step(o); err != nil {
			return err
		}
	}
	for k := 0; k < view.LiquidityCount(); k++ {
		o, err := classifyLiquidity(view, v.params, view.LiquidityPosition(k))
		if err != nil {
			return errors.Wrapf(err, "liquidity order at input %d", view.LiquidityPosition(k))
		}
		if err := step(o); err != nil {
			return err
		}
	}

	r.Operation = OperationBatch
	r.After = acc
	r.Settlements = settlements
	return nil
}

// reconcile checks the produced snapshot and reserve against the folded state.
func (v *Validator) reconcile(view *View, before, after Accumulator) error {
	_, infoOut := view.Snapshot()
	reserveIn, reserveOut := view.Reserve()
	snap := view.snapshotOut

	if infoOut.Capacity != v.params.InfoCapacity {
		return errors.Wrapf(apperrors.ErrInfoCapacityDiff, "capacity %d", infoOut.Capacity)
	}
	if !snap.CKBReserve.Eq(&after.CKBReserve) {
		return errors.Wrapf(apperrors.ErrInvalidCKBReserve, "snapshot %s, settled %s",
			snap.CKBReserve.Dec(), after.CKBReserve.Dec())
	}
	if !snap.SUDTReserve.Eq(&after.SUDTReserve) {
		return errors.Wrapf(apperrors.ErrInvalidSUDTReserve, "snapshot %s, settled %s",
			snap.SUDTReserve.Dec(), after.SUDTReserve.Dec())
	}
	if !snap.TotalLiquidity.Eq(&after.TotalLiquidity) {
		return errors.Wrapf(apperrors.ErrInvalidTotalLiquidity, "snapshot %s, settled %s",
			snap.TotalLiquidity.Dec(), after.TotalLiquidity.Dec())
	}

	wantCap, err := dexmath.Add128(dexmath.U128(reserveIn.Capacity), after.CKBReserve)
	if err == nil {
		wantCap, err = dexmath.Sub128(wantCap, before.CKBReserve)
	}
	gotCap := dexmath.U128(reserveOut.Capacity)
	if err != nil || !gotCap.Eq(&wantCap) {
		return errors.Wrapf(apperrors.ErrInvalidOutputPoolCapacity, "reserve capacity %d", reserveOut.Capacity)
	}

	wantBalance, err := dexmath.Add128(view.reserveIn, after.SUDTReserve)
	if err == nil {
		wantBalance, err = dexmath.Sub128(wantBalance, before.SUDTReserve)
	}
	if err != nil || !view.reserveOut.Eq(&wantBalance) || !view.reserveOut.Eq(&snap.SUDTReserve) {
		return errors.Wrapf(apperrors.ErrInvalidOutputPoolData, "reserve balance %s", view.reserveOut.Dec())
	}
	return nil
}
