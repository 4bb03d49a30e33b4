package ledger

import (
	"math"
	"math/bits"
)

// bpsDenominator is the basis-point scale: 10000 bps = 1.0x.
const bpsDenominator = 10000

// checkedAdd returns a+b, or ErrOverflow if the sum would wrap uint64.
func checkedAdd(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, ErrOverflow
	}
	return a + b, nil
}

// mulDivBps computes amount * bps / 10000 with a 128-bit intermediate
// product. Returns ErrOverflow if the quotient does not fit in uint64.
func mulDivBps(amount uint64, bps uint16) (uint64, error) {
	hi, lo := bits.Mul64(amount, uint64(bps))
	if hi >= bpsDenominator {
		return 0, ErrOverflow
	}
	quo, _ := bits.Div64(hi, lo, bpsDenominator)
	return quo, nil
}
