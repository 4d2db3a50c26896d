// Package scalar implements GF(p) arithmetic for small primes, the ground
// field Albert's build engine computes over.
package scalar

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/tuneinsight/lattigo/v6/ring"
)

// Elem is a value of GF(p), always held in [0, p).
type Elem uint16

// MaxPrime bounds the field size the engine will accept, matching the
// original implementation's compile-time PRIME_BOUND.
const MaxPrime = 251

var (
	ErrNotPrime    = errors.New("scalar: field characteristic must be prime")
	ErrPrimeBound  = fmt.Errorf("scalar: prime must be at most %d", MaxPrime)
	ErrDivideByZero = errors.New("scalar: division by zero")
)

// Field is GF(p) for a fixed prime p, with a precomputed inverse table.
//
// Every Elem produced by a Field method lies in [0, p); this is the
// "scalar closure" invariant the build engine relies on throughout.
type Field struct {
	prime   Elem
	inverse []Elem // inverse[x] is the multiplicative inverse of x, for x in [1,p).
}

// New builds GF(p), rejecting non-prime or out-of-range p.
//
// The inverse table is built by trial search, exactly as the original
// Scalar_arithmetic.c's S_init does: for each x in [1,p) scan y in [1,p)
// for x*y == 1 (mod p). This is deliberately not Fermat's-little-theorem
// exponentiation (which would also work) because p is always small enough
// that the trial search is instant and the table only needs building once
// per SetField call.
func New(p uint64) (*Field, error) {
	if p > MaxPrime {
		return nil, ErrPrimeBound
	}

	b := new(big.Int).SetUint64(p)
	if p < 2 || !b.ProbablyPrime(20) {
		return nil, ErrNotPrime
	}

	f := &Field{
		prime:   Elem(p),
		inverse: make([]Elem, p),
	}

	for x := Elem(1); x < f.prime; x++ {
		for y := Elem(1); y < f.prime; y++ {
			if Elem((uint32(x)*uint32(y))%uint32(f.prime)) == 1 {
				f.inverse[x] = y
				break
			}
		}
	}

	return f, nil
}

// Prime returns p.
func (f *Field) Prime() uint64 { return uint64(f.prime) }

// Zero, One and MinusOne are the distinguished elements 0, 1 and p-1.
func (f *Field) Zero() Elem     { return 0 }
func (f *Field) One() Elem      { return 1 }
func (f *Field) MinusOne() Elem { return f.prime - 1 }

// Neg returns p - x mod p.
func (f *Field) Neg(x Elem) Elem {
	if x == 0 {
		return 0
	}
	return f.prime - x
}

// Add returns (x+y) mod p.
func (f *Field) Add(x, y Elem) Elem {
	s := uint32(x) + uint32(y)
	if s >= uint32(f.prime) {
		s -= uint32(f.prime)
	}
	return Elem(s)
}

// Sub returns (x-y) mod p.
func (f *Field) Sub(x, y Elem) Elem {
	return f.Add(x, f.Neg(y))
}

// Mul returns (x*y) mod p.
func (f *Field) Mul(x, y Elem) Elem {
	return Elem((uint32(x) * uint32(y)) % uint32(f.prime))
}

// Inv returns the multiplicative inverse of x, x != 0.
func (f *Field) Inv(x Elem) (Elem, error) {
	if x == 0 {
		return 0, ErrDivideByZero
	}
	return f.inverse[x], nil
}

// Div returns x / y = x * Inv(y).
func (f *Field) Div(x, y Elem) (Elem, error) {
	yInv, err := f.Inv(y)
	if err != nil {
		return 0, err
	}
	return f.Mul(x, yInv), nil
}

// FromInt reduces a signed coefficient (as accepted by the polynomial
// grammar's coefficient range) into GF(p), handling negative values.
func (f *Field) FromInt(c int32) Elem {
	m := int32(f.prime)
	r := c % m
	if r < 0 {
		r += m
	}
	return Elem(r)
}

// Generator returns a multiplicative generator of GF(p)*, a diagnostic
// value for callers that want to display a primitive root (e.g. a "view
// field" command); it plays no role in any build-path computation, which
// stays on the brute-force inverse table above.
func (f *Field) Generator() (uint64, error) {
	g, _, err := ring.PrimitiveRoot(uint64(f.prime), nil)
	if err != nil {
		return 0, err
	}
	return g, nil
}
