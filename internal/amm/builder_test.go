package amm

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/fleshka4/amm-validator/internal/cell"
)

var (
	infoTypeCode  = cell.Hash{0x11}
	infoLockCode  = cell.Hash{0x22}
	sudtTypeCode  = cell.Hash{0x33}
	orderLockCode = cell.Hash{0x44}
	userLockCode  = cell.Hash{0x55}
)

func u128(v uint64) uint256.Int {
	return uint256.Int{v, 0, 0, 0}
}

// fixture builds records for one pool with consistent hashes.
type fixture struct {
	t      *testing.T
	h      cell.Hasher
	params Params

	genesis cell.OutPoint

	infoType      cell.Script
	reserveType   cell.Script
	liquidityType cell.Script
	poolLock      cell.Script
	userLock      cell.Script
	matcherLock   cell.Script

	infoTypeHash cell.Hash
	userHash     cell.Hash
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		t:       t,
		h:       cell.Blake2b256{},
		params:  DefaultParams(infoTypeCode, infoLockCode),
		genesis: cell.OutPoint{TxHash: cell.Hash{0x42}, Index: 7},
	}

	id := cell.TypeID(f.h, f.genesis, 0)
	f.infoType = cell.Script{CodeHash: infoTypeCode, HashType: 1, Args: id[:]}
	f.infoTypeHash = cell.ScriptHash(f.h, f.infoType)

	f.reserveType = cell.Script{CodeHash: sudtTypeCode, HashType: 1, Args: []byte("token owner")}
	f.liquidityType = cell.Script{CodeHash: sudtTypeCode, HashType: 1, Args: f.infoTypeHash[:]}
	f.poolLock = f.infoLock(f.reserveType, f.infoTypeHash)

	f.userLock = cell.Script{CodeHash: userLockCode, HashType: 1, Args: []byte("alice")}
	f.userHash = cell.ScriptHash(f.h, f.userLock)
	f.matcherLock = cell.Script{CodeHash: userLockCode, HashType: 1, Args: []byte("matcher")}

	return f
}

func (f *fixture) infoLock(reserveType cell.Script, infoTypeHash cell.Hash) cell.Script {
	front := cell.InfoLockFrontHalf(f.h, cell.ScriptHash(f.h, reserveType))
	args := append(append([]byte{}, front[:]...), infoTypeHash[:]...)
	return cell.Script{CodeHash: infoLockCode, HashType: 1, Args: args}
}

func (f *fixture) validator() *Validator {
	return NewValidator(f.params)
}

func (f *fixture) liquidityClass() [20]byte {
	return cell.ScriptHash(f.h, f.liquidityType).Prefix20()
}

func (f *fixture) balance(v uint64) []byte {
	b, err := cell.EncodeBalance(u128(v))
	require.NoError(f.t, err)
	return b
}

func ptr(s cell.Script) *cell.Script {
	return &s
}

func (f *fixture) snapshot(ckb, sudt, total uint64) cell.Record {
	data, err := cell.InfoData{
		CKBReserve:            u128(ckb),
		SUDTReserve:           u128(sudt),
		TotalLiquidity:        u128(total),
		LiquiditySUDTTypeHash: f.liquidityClass(),
	}.Encode()
	require.NoError(f.t, err)

	return cell.Record{
		OutPoint: cell.OutPoint{TxHash: cell.Hash{0x01}},
		Capacity: f.params.InfoCapacity,
		Data:     data,
		Lock:     f.poolLock,
		Type:     ptr(f.infoType),
	}
}

func (f *fixture) reserve(ckb, sudt uint64) cell.Record {
	return cell.Record{
		OutPoint: cell.OutPoint{TxHash: cell.Hash{0x01}, Index: 1},
		Capacity: f.params.PoolBaseCapacity + ckb,
		Data:     f.balance(sudt),
		Lock:     f.poolLock,
		Type:     ptr(f.reserveType),
	}
}

func (f *fixture) matcher() cell.Record {
	return cell.Record{Capacity: 1_000_000_000, Lock: f.matcherLock}
}

func (f *fixture) swapArgs(minOut uint64) []byte {
	args, err := cell.SwapOrderArgs{
		UserLockHash: f.userHash,
		Version:      f.params.InfoVersion,
		MinAmountOut: u128(minOut),
		SUDTTypeHash: cell.ScriptHash(f.h, f.reserveType),
	}.Encode()
	require.NoError(f.t, err)
	return args
}

// sellOrder pays ckbPaid native token for the pool token.
func (f *fixture) sellOrder(ckbPaid, minOut uint64) cell.Record {
	return cell.Record{
		Capacity: f.params.OrderCapacity + ckbPaid,
		Lock:     cell.Script{CodeHash: orderLockCode, HashType: 1, Args: f.swapArgs(minOut)},
	}
}

// buyOrder pays sudtPaid pool tokens for native token.
func (f *fixture) buyOrder(sudtPaid, minOut uint64) cell.Record {
	return cell.Record{
		Capacity: f.params.OrderCapacity,
		Data:     f.balance(sudtPaid),
		Lock:     cell.Script{CodeHash: orderLockCode, HashType: 1, Args: f.swapArgs(minOut)},
		Type:     ptr(f.reserveType),
	}
}

func (f *fixture) liquidityArgs(min0, min1 uint64) []byte {
	args, err := cell.LiquidityOrderArgs{
		UserLockHash: f.userHash,
		Version:      f.params.InfoVersion,
		MinAmount0:   u128(min0),
		MinAmount1:   u128(min1),
		InfoTypeHash: f.infoTypeHash,
	}.Encode()
	require.NoError(f.t, err)
	return args
}

// mintOrder deposits sudt pool tokens and the capacity above the order reserve.
func (f *fixture) mintOrder(capacity, sudt, min0, min1 uint64) cell.Record {
	return cell.Record{
		Capacity: capacity,
		Data:     f.balance(sudt),
		Lock:     cell.Script{CodeHash: orderLockCode, HashType: 1, Args: f.liquidityArgs(min0, min1)},
		Type:     ptr(f.reserveType),
	}
}

// burnOrder redeems liquidity tokens.
func (f *fixture) burnOrder(capacity, liquidity, min0, min1 uint64) cell.Record {
	return cell.Record{
		Capacity: capacity,
		Data:     f.balance(liquidity),
		Lock:     cell.Script{CodeHash: orderLockCode, HashType: 1, Args: f.liquidityArgs(min0, min1)},
		Type:     ptr(f.liquidityType),
	}
}

func (f *fixture) sudtOut(capacity, amount uint64) cell.Record {
	return cell.Record{Capacity: capacity, Data: f.balance(amount), Lock: f.userLock, Type: ptr(f.reserveType)}
}

func (f *fixture) liquidityOut(capacity, amount uint64) cell.Record {
	return cell.Record{Capacity: capacity, Data: f.balance(amount), Lock: f.userLock, Type: ptr(f.liquidityType)}
}

func (f *fixture) ckbOut(capacity uint64) cell.Record {
	return cell.Record{Capacity: capacity, Lock: f.userLock}
}

func tx(swaps int, inputs, outputs []cell.Record) cell.Transaction {
	return cell.Transaction{
		Inputs:    inputs,
		Outputs:   outputs,
		Witnesses: [][]byte{cell.EncodeSwapCount(swaps)},
	}
}
