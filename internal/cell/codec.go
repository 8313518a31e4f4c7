package cell

import (
	"encoding/binary"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/fleshka4/amm-validator/internal/apperrors"
)

// Payload widths.
const (
	BalanceLen            = 16
	InfoDataLen           = 3*BalanceLen + 20
	LiquidityOrderArgsLen = HashLen + 1 + 2*BalanceLen + HashLen + 8 + BalanceLen
	SwapOrderArgsLen      = HashLen + 1 + BalanceLen + HashLen + 8 + BalanceLen
	SwapCountLen          = 8
	InfoLockArgsLen       = 2 * HashLen
)

// InfoData is the snapshot payload.
type InfoData struct {
	CKBReserve            uint256.Int
	SUDTReserve           uint256.Int
	TotalLiquidity        uint256.Int
	LiquiditySUDTTypeHash [20]byte
}

// LiquidityOrderArgs are the lock args of a mint or burn order.
type LiquidityOrderArgs struct {
	UserLockHash Hash
	Version      uint8
	// MinAmount0 bounds the native side: injected on mint, received on burn.
	MinAmount0 uint256.Int
	// MinAmount1 bounds the token side.
	MinAmount1   uint256.Int
	InfoTypeHash Hash
	Tips         uint64
	TipsSUDT     uint256.Int
}

// SwapOrderArgs are the lock args of a swap order.
type SwapOrderArgs struct {
	UserLockHash Hash
	Version      uint8
	MinAmountOut uint256.Int
	SUDTTypeHash Hash
	Tips         uint64
	TipsSUDT     uint256.Int
}

func malformed(what string, want, got int) error {
	return errors.Wrapf(apperrors.ErrMalformedLength, "%s: want %d bytes, got %d", what, want, got)
}

func getU128(b []byte) uint256.Int {
	return uint256.Int{
		binary.LittleEndian.Uint64(b[0:8]),
		binary.LittleEndian.Uint64(b[8:16]),
		0,
		0,
	}
}

func putU128(b []byte, v uint256.Int) error {
	if v[2] != 0 || v[3] != 0 {
		return errors.Errorf("value %s exceeds 128 bits", v.Dec())
	}
	binary.LittleEndian.PutUint64(b[0:8], v[0])
	binary.LittleEndian.PutUint64(b[8:16], v[1])
	return nil
}

func getHash(b []byte) Hash {
	var h Hash
	copy(h[:], b[:HashLen])
	return h
}

// DecodeBalance reads a balance payload of exactly 16 bytes.
func DecodeBalance(data []byte) (uint256.Int, error) {
	if len(data) != BalanceLen {
		return uint256.Int{}, malformed("balance", BalanceLen, len(data))
	}
	return getU128(data), nil
}

// DecodeBalancePrefix reads the balance from the first 16 bytes of a payload
// that may carry trailing data.
func DecodeBalancePrefix(data []byte) (uint256.Int, error) {
	if len(data) < BalanceLen {
		return uint256.Int{}, malformed("balance prefix", BalanceLen, len(data))
	}
	return getU128(data), nil
}

// EncodeBalance writes a 16-byte balance payload.
func EncodeBalance(v uint256.Int) ([]byte, error) {
	out := make([]byte, BalanceLen)
	if err := putU128(out, v); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeInfoData reads a 68-byte snapshot payload.
func DecodeInfoData(data []byte) (InfoData, error) {
	if len(data) != InfoDataLen {
		return InfoData{}, malformed("info data", InfoDataLen, len(data))
	}

	d := InfoData{
		CKBReserve:     getU128(data[0:16]),
		SUDTReserve:    getU128(data[16:32]),
		TotalLiquidity: getU128(data[32:48]),
	}
	copy(d.LiquiditySUDTTypeHash[:], data[48:68])
	return d, nil
}

// Encode writes the snapshot payload.
func (d InfoData) Encode() ([]byte, error) {
	out := make([]byte, InfoDataLen)
	for i, v := range []uint256.Int{d.CKBReserve, d.SUDTReserve, d.TotalLiquidity} {
		if err := putU128(out[i*BalanceLen:], v); err != nil {
			return nil, errors.Wrap(err, "info data")
		}
	}
	copy(out[48:], d.LiquiditySUDTTypeHash[:])
	return out, nil
}

// DecodeLiquidityOrderArgs reads mint/burn order args.
func DecodeLiquidityOrderArgs(args []byte) (LiquidityOrderArgs, error) {
	if len(args) != LiquidityOrderArgsLen {
		return LiquidityOrderArgs{}, malformed("liquidity order args", LiquidityOrderArgsLen, len(args))
	}

	return LiquidityOrderArgs{
		UserLockHash: getHash(args[0:32]),
		Version:      args[32],
		MinAmount0:   getU128(args[33:49]),
		MinAmount1:   getU128(args[49:65]),
		InfoTypeHash: getHash(args[65:97]),
		Tips:         binary.LittleEndian.Uint64(args[97:105]),
		TipsSUDT:     getU128(args[105:121]),
	}, nil
}

// Encode writes the order args.
func (a LiquidityOrderArgs) Encode() ([]byte, error) {
	out := make([]byte, LiquidityOrderArgsLen)
	copy(out[0:32], a.UserLockHash[:])
	out[32] = a.Version
	if err := putU128(out[33:49], a.MinAmount0); err != nil {
		return nil, errors.Wrap(err, "min amount 0")
	}
	if err := putU128(out[49:65], a.MinAmount1); err != nil {
		return nil, errors.Wrap(err, "min amount 1")
	}
	copy(out[65:97], a.InfoTypeHash[:])
	binary.LittleEndian.PutUint64(out[97:105], a.Tips)
	if err := putU128(out[105:121], a.TipsSUDT); err != nil {
		return nil, errors.Wrap(err, "tips sudt")
	}
	return out, nil
}

// DecodeSwapOrderArgs reads swap order args.
func DecodeSwapOrderArgs(args []byte) (SwapOrderArgs, error) {
	if len(args) != SwapOrderArgsLen {
		return SwapOrderArgs{}, malformed("swap order args", SwapOrderArgsLen, len(args))
	}

	return SwapOrderArgs{
		UserLockHash: getHash(args[0:32]),
		Version:      args[32],
		MinAmountOut: getU128(args[33:49]),
		SUDTTypeHash: getHash(args[49:81]),
		Tips:         binary.LittleEndian.Uint64(args[81:89]),
		TipsSUDT:     getU128(args[89:105]),
	}, nil
}

// Encode writes the order args.
func (a SwapOrderArgs) Encode() ([]byte, error) {
	out := make([]byte, SwapOrderArgsLen)
	copy(out[0:32], a.UserLockHash[:])
	out[32] = a.Version
	if err := putU128(out[33:49], a.MinAmountOut); err != nil {
		return nil, errors.Wrap(err, "min amount out")
	}
	copy(out[49:81], a.SUDTTypeHash[:])
	binary.LittleEndian.PutUint64(out[81:89], a.Tips)
	if err := putU128(out[89:105], a.TipsSUDT); err != nil {
		return nil, errors.Wrap(err, "tips sudt")
	}
	return out, nil
}

// DecodeSwapCount reads the number of swap orders from the first witness.
// An absent or empty witness means no swaps.
func DecodeSwapCount(witnesses [][]byte) (int, error) {
	if len(witnesses) == 0 || len(witnesses[0]) == 0 {
		return 0, nil
	}
	w := witnesses[0]
	if len(w) != SwapCountLen {
		return 0, malformed("swap count witness", SwapCountLen, len(w))
	}

	n := binary.LittleEndian.Uint64(w)
	if n > uint64(^uint32(0)) {
		return 0, errors.Wrapf(apperrors.ErrIndexOutOfBound, "swap count %d", n)
	}
	return int(n), nil
}

// EncodeSwapCount writes the swap count witness.
func EncodeSwapCount(n int) []byte {
	out := make([]byte, SwapCountLen)
	binary.LittleEndian.PutUint64(out, uint64(n))
	return out
}
