package amm

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/fleshka4/amm-validator/internal/apperrors"
	"github.com/fleshka4/amm-validator/internal/cell"
)

// verifyCreation checks a transaction producing a new pool. The snapshot is
// bound to one consumed outpoint, and the snapshot/reserve pair to each other
// through the info lock args.
func verifyCreation(tx cell.Transaction, p Params, h cell.Hasher) (cell.InfoData, error) {
	if len(tx.Outputs) <= reserveIndex {
		return cell.InfoData{}, errors.Wrapf(apperrors.ErrIndexOutOfBound, "%d outputs", len(tx.Outputs))
	}
	info, reserve := tx.Outputs[snapshotIndex], tx.Outputs[reserveIndex]
	if !info.HasCodeHash(p.InfoTypeCodeHash) {
		return cell.InfoData{}, errors.Wrap(apperrors.ErrInvalidTypeID, "snapshot must be produced at position 0")
	}

	if err := verifyTypeID(tx, h); err != nil {
		return cell.InfoData{}, err
	}

	lockCount := 0
	for _, out := range tx.Outputs {
		if out.Lock.CodeHash == p.InfoLockCodeHash {
			lockCount++
		}
	}
	if lockCount != 2 {
		return cell.InfoData{}, errors.Wrapf(apperrors.ErrInvalidInfoLockCount, "%d outputs use the info lock", lockCount)
	}

	reserveTypeHash, ok := cell.TypeHash(h, reserve)
	if !ok {
		return cell.InfoData{}, errors.Wrap(apperrors.ErrMissingTypeScript, "output reserve")
	}
	infoTypeHash, _ := cell.TypeHash(h, info)
	if err := verifyInfoLockArgs(h, info.Lock.Args, reserveTypeHash, infoTypeHash); err != nil {
		return cell.InfoData{}, err
	}
	if cell.ScriptHash(h, info.Lock) != cell.ScriptHash(h, reserve.Lock) {
		return cell.InfoData{}, apperrors.ErrInfoPoolLockHashMismatch
	}
	if len(reserve.Data) < cell.BalanceLen {
		return cell.InfoData{}, errors.Wrapf(apperrors.ErrCellDataLenTooShort, "%d bytes", len(reserve.Data))
	}

	data, err := cell.DecodeInfoData(info.Data)
	if err != nil {
		return cell.InfoData{}, errors.Wrap(err, "created snapshot")
	}
	if !accumulatorFrom(data).Empty() {
		return cell.InfoData{}, errors.Wrap(apperrors.ErrInvalidInfoData, "new pool must start empty")
	}
	if info.Capacity != p.InfoCapacity {
		return cell.InfoData{}, errors.Wrapf(apperrors.ErrInfoCapacityDiff, "capacity %d", info.Capacity)
	}

	return data, nil
}

// verifyTypeID checks that the snapshot type args commit to the first consumed
// outpoint and that no other output shares the resulting type.
func verifyTypeID(tx cell.Transaction, h cell.Hasher) error {
	if len(tx.Inputs) == 0 {
		return errors.Wrap(apperrors.ErrInvalidTypeID, "creation consumes nothing")
	}

	typ := tx.Outputs[snapshotIndex].Type
	if len(typ.Args) != cell.HashLen {
		return errors.Wrapf(apperrors.ErrInvalidInfoTypeArgsLen, "%d bytes", len(typ.Args))
	}

	id := cell.TypeID(h, tx.Inputs[0].OutPoint, snapshotIndex)
	if !bytes.Equal(typ.Args, id[:]) {
		return errors.Wrap(apperrors.ErrInvalidTypeID, "type args do not match first input")
	}

	same := 0
	for _, out := range tx.Outputs {
		if out.Type != nil && out.Type.Equal(*typ) {
			same++
		}
	}
	if same != 1 {
		return errors.Wrapf(apperrors.ErrInvalidTypeID, "%d outputs share the pool type", same)
	}
	return nil
}

// verifyInfoLockArgs checks the 64-byte info lock args:
// hash("ckb" || reserve type hash) followed by the snapshot type hash.
func verifyInfoLockArgs(h cell.Hasher, args []byte, reserveTypeHash, infoTypeHash cell.Hash) error {
	if len(args) != cell.InfoLockArgsLen {
		return errors.Wrapf(apperrors.ErrMalformedLength, "info lock args: want %d bytes, got %d",
			cell.InfoLockArgsLen, len(args))
	}

	front := cell.InfoLockFrontHalf(h, reserveTypeHash)
	if !bytes.Equal(args[:cell.HashLen], front[:]) {
		return apperrors.ErrInfoLockArgsFrontHalfMismatch
	}
	if !bytes.Equal(args[cell.HashLen:], infoTypeHash[:]) {
		return apperrors.ErrInfoLockArgsSecondHalfMismatch
	}
	return nil
}
