package amm

import "github.com/fleshka4/amm-validator/internal/cell"

// Protocol defaults, in shannons.
const (
	DefaultInfoCapacity     uint64 = 25_000_000_000
	DefaultPoolBaseCapacity uint64 = 18_600_000_000
	DefaultOrderCapacity    uint64 = 14_200_000_000
	DefaultInfoVersion      uint8  = 1
)

// Positional convention shared by inputs and outputs.
const (
	snapshotIndex   = 0
	reserveIndex    = 1
	matcherIndex    = 2
	firstOrderIndex = matcherIndex + 1
)

// Params are the protocol constants a validator checks against.
type Params struct {
	// InfoCapacity is the fixed capacity of every snapshot record.
	InfoCapacity uint64
	// PoolBaseCapacity is the reserve record capacity when ckb_reserve is zero.
	PoolBaseCapacity uint64
	// OrderCapacity is held back from each order to pay for its result record.
	OrderCapacity uint64
	InfoVersion   uint8

	// InfoTypeCodeHash identifies snapshot records by their type script code.
	InfoTypeCodeHash cell.Hash
	// InfoLockCodeHash identifies the lock shared by a pool's snapshot and reserve.
	InfoLockCodeHash cell.Hash
}

// DefaultParams returns mainnet-style constants with the given script code hashes.
func DefaultParams(infoType, infoLock cell.Hash) Params {
	return Params{
		InfoCapacity:     DefaultInfoCapacity,
		PoolBaseCapacity: DefaultPoolBaseCapacity,
		OrderCapacity:    DefaultOrderCapacity,
		InfoVersion:      DefaultInfoVersion,
		InfoTypeCodeHash: infoType,
		InfoLockCodeHash: infoLock,
	}
}
