package dexmath

import "github.com/holiman/uint256"

// MaxU128 is the largest value a balance field can hold.
var MaxU128 = func() uint256.Int {
	var m uint256.Int
	m.Lsh(uint256.NewInt(1), 128)
	m.SubUint64(&m, 1)
	return m
}()

// U128 lifts a native-token amount into the 128-bit domain.
func U128(v uint64) uint256.Int {
	return uint256.Int{v, 0, 0, 0}
}

// Add128 returns a+b, or ErrOverflow if the sum leaves the 128-bit range.
func Add128(a, b uint256.Int) (uint256.Int, error) {
	var z uint256.Int
	if _, overflow := z.AddOverflow(&a, &b); overflow || z.Gt(&MaxU128) {
		return uint256.Int{}, ErrOverflow
	}
	return z, nil
}

// Sub128 returns a-b, or ErrUnderflow if b > a.
func Sub128(a, b uint256.Int) (uint256.Int, error) {
	var z uint256.Int
	if _, underflow := z.SubOverflow(&a, &b); underflow {
		return uint256.Int{}, ErrUnderflow
	}
	return z, nil
}

// SubU64 returns a-b for native-token amounts.
func SubU64(a, b uint64) (uint64, error) {
	if b > a {
		return 0, ErrUnderflow
	}
	return a - b, nil
}
