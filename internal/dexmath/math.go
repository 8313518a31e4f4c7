package dexmath

import (
	"math/big"
	"sync"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

var (
	// Fee constants.
	feeMul = big.NewInt(997)
	feeDen = big.NewInt(1000)

	one = big.NewInt(1)

	defaultMath = newMathService()
)

var (
	// ErrDivisionByZero is returned when a ratio is taken against an empty reserve.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrOverflow is returned when a result does not fit into 128 bits.
	ErrOverflow = errors.New("u128 overflow")

	// ErrUnderflow is returned when a subtraction would go below zero.
	ErrUnderflow = errors.New("u128 underflow")
)

type mathTmp struct {
	a *big.Int
	b *big.Int
	c *big.Int
}

type mathService struct {
	pool *sync.Pool
}

func newMathService() *mathService {
	return &mathService{
		pool: &sync.Pool{
			New: func() any {
				return &mathTmp{
					a: new(big.Int),
					b: new(big.Int),
					c: new(big.Int),
				}
			},
		},
	}
}

func setBig(dst *big.Int, x *uint256.Int) *big.Int {
	b := x.Bytes32()
	return dst.SetBytes(b[:])
}

// fromBig writes src into out, failing if it exceeds 128 bits.
func fromBig(out *uint256.Int, src *big.Int) error {
	if src.BitLen() > 128 {
		return ErrOverflow
	}
	out.SetFromBig(src)
	return nil
}

func (m *mathService) biasedRatioInto(out, a, b, d *uint256.Int) error {
	if d.IsZero() {
		return ErrDivisionByZero
	}

	t := m.pool.Get().(*mathTmp)
	defer m.pool.Put(t)

	// num := a * b.
	t.a.Mul(setBig(t.a, a), setBig(t.b, b))

	// out = num / d + 1.
	t.a.Quo(t.a, setBig(t.c, d))
	t.a.Add(t.a, one)

	return fromBig(out, t.a)
}

func (m *mathService) swapCounterAmountInto(out, got, gotReserve, paidReserve *uint256.Int) error {
	t := m.pool.Get().(*mathTmp)
	defer m.pool.Put(t)

	// gotFee := got * 997.
	t.a.Mul(setBig(t.a, got), feeMul)

	// den := gotReserve * 1000 + gotFee.
	t.c.Mul(setBig(t.c, gotReserve), feeDen)
	t.c.Add(t.c, t.a)
	if t.c.Sign() == 0 {
		return ErrDivisionByZero
	}

	// num := gotFee * paidReserve.
	t.b.Mul(t.a, setBig(t.b, paidReserve))

	// out = num / den + 1.
	t.b.Quo(t.b, t.c)
	t.b.Add(t.b, one)

	return fromBig(out, t.b)
}

func (m *mathService) geometricMeanInto(out, a, b *uint256.Int) error {
	t := m.pool.Get().(*mathTmp)
	defer m.pool.Put(t)

	t.a.Mul(setBig(t.a, a), setBig(t.b, b))
	t.a.Sqrt(t.a)

	return fromBig(out, t.a)
}

// BiasedRatio returns floor(a*b/d) + 1, the pool-favoring rounding used by every
// proportional check. The product is taken in arbitrary precision.
func BiasedRatio(a, b, d uint256.Int) (uint256.Int, error) {
	var out uint256.Int
	err := defaultMath.biasedRatioInto(&out, &a, &b, &d)
	return out, err
}

// SwapCounterAmount returns the amount the counterparty must pay for got units
// leaving the pool, with the 0.3% fee (997/1000) and the +1 bias:
//
//	got*997*paidReserve / (gotReserve*1000 + got*997) + 1
func SwapCounterAmount(got, gotReserve, paidReserve uint256.Int) (uint256.Int, error) {
	var out uint256.Int
	err := defaultMath.swapCounterAmountInto(&out, &got, &gotReserve, &paidReserve)
	return out, err
}

// GeometricMean returns floor(sqrt(a*b)).
func GeometricMean(a, b uint256.Int) (uint256.Int, error) {
	var out uint256.Int
	err := defaultMath.geometricMeanInto(&out, &a, &b)
	return out, err
}
