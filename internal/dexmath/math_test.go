package dexmath

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func u(v uint64) uint256.Int {
	return U128(v)
}

func TestBiasedRatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		a, b, d uint256.Int
		want    uint64
		wantErr error
	}{
		{name: "exact division still biased", a: u(50), b: u(100), d: u(100), want: 51},
		{name: "truncated", a: u(1), b: u(1), d: u(3), want: 1},
		{name: "zero denominator", a: u(1), b: u(1), d: u(0), wantErr: ErrDivisionByZero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := BiasedRatio(tt.a, tt.b, tt.d)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, u(tt.want), got)
		})
	}
}

func TestBiasedRatio_LargeProduct(t *testing.T) {
	t.Parallel()

	// (2^62 * 2^62) / 2^60 + 1 = 2^64 + 1, which no longer fits a uint64.
	got, err := BiasedRatio(u(1<<62), u(1<<62), u(1<<60))
	require.NoError(t, err)

	want := new(big.Int).Lsh(big.NewInt(1), 64)
	want.Add(want, big.NewInt(1))
	require.Equal(t, want, got.ToBig())
}

func TestBiasedRatio_Overflow(t *testing.T) {
	t.Parallel()

	_, err := BiasedRatio(MaxU128, MaxU128, u(1))
	require.ErrorIs(t, err, ErrOverflow)
}

func TestBiasedRatio_NeverBelowExact(t *testing.T) {
	t.Parallel()

	for a := uint64(1); a < 40; a++ {
		for b := uint64(1); b < 40; b += 3 {
			for d := uint64(1); d < 40; d += 7 {
				got, err := BiasedRatio(u(a), u(b), u(d))
				require.NoError(t, err)
				// got*d must strictly exceed a*b.
				require.Greater(t, got.Uint64()*d, a*b)
			}
		}
	}
}

func TestSwapCounterAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  uint64
		want uint64
	}{
		{name: "lowest sudt for 70", got: 224, want: 70},
		{name: "highest sudt for 70", got: 234, want: 70},
		{name: "one below range", got: 223, want: 69},
		{name: "one above range", got: 235, want: 71},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			paid, err := SwapCounterAmount(u(tt.got), u(100), u(100))
			require.NoError(t, err)
			require.Equal(t, tt.want, paid.Uint64())
		})
	}
}

func TestSwapCounterAmount_EmptyPool(t *testing.T) {
	t.Parallel()

	_, err := SwapCounterAmount(u(0), u(0), u(100))
	require.ErrorIs(t, err, ErrDivisionByZero)
}

func TestGeometricMean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b, want uint64
	}{
		{50, 50, 50},
		{2, 8, 4},
		{3, 5, 3},
		{0, 10, 0},
	}

	for _, tt := range tests {
		got, err := GeometricMean(u(tt.a), u(tt.b))
		require.NoError(t, err)
		require.Equal(t, tt.want, got.Uint64(), "sqrt(%d*%d)", tt.a, tt.b)
	}

	got, err := GeometricMean(MaxU128, MaxU128)
	require.NoError(t, err)
	require.Equal(t, MaxU128, got)
}

func TestAdd128Sub128(t *testing.T) {
	t.Parallel()

	sum, err := Add128(u(40), u(2))
	require.NoError(t, err)
	require.Equal(t, u(42), sum)

	_, err = Add128(MaxU128, u(1))
	require.ErrorIs(t, err, ErrOverflow)

	diff, err := Sub128(u(42), u(2))
	require.NoError(t, err)
	require.Equal(t, u(40), diff)

	_, err = Sub128(u(1), u(2))
	require.ErrorIs(t, err, ErrUnderflow)

	_, err = SubU64(1, 2)
	require.ErrorIs(t, err, ErrUnderflow)
}
