// Package multtable implements the multiplication table and the sparse
// algebraic-element arithmetic (Alg_element, §4.9) built on top of it.
package multtable

import (
	"sort"

	"github.com/dpjacobs/albert/basis"
	"github.com/dpjacobs/albert/scalar"
)

// AlgElement is a sparse finite linear combination of basis elements:
// basis index -> nonzero coefficient. No entry ever has a zero coefficient
// or the Zero basis index; every method here enforces that as a
// postcondition via stripZeros.
type AlgElement struct {
	terms map[basis.Index]scalar.Elem
}

// Term is one (basis, coefficient) pair of an AlgElement, used for ordered
// iteration and display.
type Term struct {
	Basis basis.Index
	Coef  scalar.Elem
}

// NewAlgElement returns the zero element.
func NewAlgElement() *AlgElement {
	return &AlgElement{terms: make(map[basis.Index]scalar.Elem)}
}

func (p *AlgElement) stripZeros() {
	for b, c := range p.terms {
		if b == basis.Zero || c == 0 {
			delete(p.terms, b)
		}
	}
}

// IsZero reports whether every coefficient of p is zero.
func (p *AlgElement) IsZero() bool {
	for b, c := range p.terms {
		if b != basis.Zero && c != 0 {
			return false
		}
	}
	return true
}

// SetTerm overwrites the coefficient of basis index b to c (0 deletes it).
// Used by the extractor to install a freshly-resolved dependency.
func (p *AlgElement) SetTerm(b basis.Index, c scalar.Elem) {
	if b == basis.Zero || c == 0 {
		delete(p.terms, b)
		return
	}
	p.terms[b] = c
}

// ScalarMult multiplies every coefficient of p by x in GF(p); x == 0 clears
// p entirely.
func (p *AlgElement) ScalarMult(f *scalar.Field, x scalar.Elem) {
	if x == f.One() {
		return
	}
	if x == f.Zero() {
		p.terms = make(map[basis.Index]scalar.Elem)
		return
	}
	for b, c := range p.terms {
		p.terms[b] = f.Mul(x, c)
	}
	p.stripZeros()
}

// AddAssign performs p += other (spec's AddAE(other, p)): a two-finger
// merge over basis-index-sorted entries, conceptually; in Go this is a
// straightforward map merge with GF(p) addition, since the order terms are
// visited in does not affect the (order-independent) result.
func (p *AlgElement) AddAssign(f *scalar.Field, other *AlgElement) {
	for b, c := range other.terms {
		if c == 0 {
			continue
		}
		p.terms[b] = f.Add(p.terms[b], c)
	}
	p.stripZeros()
}

// AddScaled performs p += x * other.
func (p *AlgElement) AddScaled(f *scalar.Field, x scalar.Elem, other *AlgElement) {
	if x == f.Zero() {
		return
	}
	for b, c := range other.terms {
		if c == 0 {
			continue
		}
		p.terms[b] = f.Add(p.terms[b], f.Mul(x, c))
	}
	p.stripZeros()
}

// Entries returns p's (basis, coefficient) terms in ascending basis-index
// order: deterministic for display and for tests, even though the algebra
// itself treats AlgElement as an unordered sum.
func (p *AlgElement) Entries() []Term {
	out := make([]Term, 0, len(p.terms))
	for b, c := range p.terms {
		out = append(out, Term{Basis: b, Coef: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Basis < out[j].Basis })
	return out
}

// Equal reports whether p and q hold exactly the same nonzero terms.
func (p *AlgElement) Equal(q *AlgElement) bool {
	if len(p.terms) != len(q.terms) {
		return false
	}
	for b, c := range p.terms {
		if q.terms[b] != c {
			return false
		}
	}
	return true
}

// Copy returns an independent copy of p.
func (p *AlgElement) Copy() *AlgElement {
	q := NewAlgElement()
	for b, c := range p.terms {
		q.terms[b] = c
	}
	return q
}

// FromTerm returns the single-term element coef*basis.
func FromTerm(b basis.Index, coef scalar.Elem) *AlgElement {
	p := NewAlgElement()
	p.SetTerm(b, coef)
	return p
}
