package savgol

import "math/big"

// gramKey identifies one evaluation of the Gram polynomial: abscissa x,
// polynomial index k, derivative order s. The half-width m is fixed per
// table.
type gramKey struct {
	x, k, s int
}

// gramTable memoizes Gram polynomial evaluations for a fixed half-width m.
// All arithmetic is exact rational; rounding happens once, when the final
// convolution weights are converted to float64.
type gramTable struct {
	m     int
	cache map[gramKey]*big.Rat
}

func newGramTable(m int) *gramTable {
	return &gramTable{m: m, cache: make(map[gramKey]*big.Rat)}
}

// poly evaluates the s-th derivative of the Gram polynomial of index k at
// integer abscissa x over the points -m..m.
func (t *gramTable) poly(x, k, s int) *big.Rat {
	if k <= 0 {
		if k == 0 && s == 0 {
			return big.NewRat(1, 1)
		}
		return new(big.Rat)
	}
	key := gramKey{x, k, s}
	if r, ok := t.cache[key]; ok {
		return r
	}

	// r1 = x*P(x,k-1,s) + s*P(x,k-1,s-1), scaled by (4k-2)/(k*(2m-k+1))
	r1 := new(big.Rat).Mul(big.NewRat(int64(x), 1), t.poly(x, k-1, s))
	if s != 0 {
		r1.Add(r1, new(big.Rat).Mul(big.NewRat(int64(s), 1), t.poly(x, k-1, s-1)))
	}
	r1.Mul(r1, big.NewRat(int64(4*k-2), int64(k*(2*t.m-k+1))))

	// r2 = P(x,k-2,s), scaled by ((k-1)*(2m+k))/(k*(2m-k+1))
	r2 := new(big.Rat).Mul(
		big.NewRat(int64((k-1)*(2*t.m+k)), int64(k*(2*t.m-k+1))),
		t.poly(x, k-2, s),
	)

	r := r1.Sub(r1, r2)
	t.cache[key] = r
	return r
}

// genFact computes the generalized factorial a*(a-1)*...*(a-b+1) as an
// exact rational.
func genFact(a, b int) *big.Rat {
	r := big.NewRat(1, 1)
	for j := a - b + 1; j <= a; j++ {
		r.Mul(r, big.NewRat(int64(j), 1))
	}
	return r
}

// weight computes the convolution weight of the sample at offset i for
// evaluating the s-th derivative at offset p, with a fit of the given
// degree over 2m+1 points.
func (t *gramTable) weight(i, p, degree, s int) *big.Rat {
	sum := new(big.Rat)
	for k := 0; k <= degree; k++ {
		c := big.NewRat(int64(2*k+1), 1)
		c.Mul(c, genFact(2*t.m, k))
		c.Quo(c, genFact(2*t.m+k+1, k+1))
		c.Mul(c, t.poly(i, k, 0))
		c.Mul(c, t.poly(p, k, s))
		sum.Add(sum, c)
	}
	return sum
}
