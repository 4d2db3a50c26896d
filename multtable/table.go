package multtable

import (
	"fmt"

	"github.com/dpjacobs/albert/basis"
	"github.com/dpjacobs/albert/scalar"
)

// Table is the multiplication table: for each ordered pair (i,j) of basis
// indices, the product b_i . b_j as a sparse linear combination of basis
// indices. Entries are filled exactly once, by the extractor, during the
// degree at which deg(i)+deg(j) first becomes reachable.
type Table struct {
	entries map[basis.Pair]*AlgElement
}

// NewTable returns an empty multiplication table.
func NewTable() *Table {
	return &Table{entries: make(map[basis.Pair]*AlgElement)}
}

// Lookup returns the product b_i . b_j, if it has been filled.
func (mt *Table) Lookup(i, j basis.Index) (*AlgElement, bool) {
	e, ok := mt.entries[basis.Pair{Left: i, Right: j}]
	return e, ok
}

// Set installs the product b_i . b_j = elem. Called exactly once per pair,
// by the extractor.
func (mt *Table) Set(i, j basis.Index, elem *AlgElement) {
	mt.entries[basis.Pair{Left: i, Right: j}] = elem
}

// Has reports whether (i,j) has been filled.
func (mt *Table) Has(i, j basis.Index) bool {
	_, ok := mt.entries[basis.Pair{Left: i, Right: j}]
	return ok
}

// Reset empties the table (generators/identities/field change).
func (mt *Table) Reset() {
	mt.entries = make(map[basis.Pair]*AlgElement)
}

// Len returns the number of filled pairs.
func (mt *Table) Len() int { return len(mt.entries) }

// Range calls yield once per filled (pair, element) entry, in no
// particular order, stopping early if yield returns false.
func (mt *Table) Range(yield func(basis.Pair, *AlgElement) bool) {
	for p, e := range mt.entries {
		if !yield(p, e) {
			return
		}
	}
}

// ErrUnresolvedProduct is returned when LeftTap/Mult need a product that
// has not been filled yet; by the induction the build driver relies on
// (products at degree d need only basis/products of degree < d) this
// should never happen for a well-formed build and indicates an internal
// invariant violation upstream.
type ErrUnresolvedProduct struct {
	Left, Right basis.Index
}

func (e *ErrUnresolvedProduct) Error() string {
	return fmt.Sprintf("multtable: product (%d,%d) has not been computed yet", e.Left, e.Right)
}

// Mult2Basis accumulates coef * (b . other) into acc, using the
// multiplication table.
func Mult2Basis(f *scalar.Field, mt *Table, b, other basis.Index, coef scalar.Elem, acc *AlgElement) error {
	entry, ok := mt.Lookup(b, other)
	if !ok {
		return &ErrUnresolvedProduct{Left: b, Right: other}
	}
	acc.AddScaled(f, coef, entry)
	return nil
}

// LeftTap computes acc += x*b . p1, i.e. for every nonzero term (b_i, c_i)
// of p1, accumulates (x*c_i) * M[b,b_i] into acc. Iteration order is
// ascending basis index of p1 (Entries already sorts); the result does not
// depend on order.
func LeftTap(f *scalar.Field, mt *Table, x scalar.Elem, b basis.Index, p1 *AlgElement, acc *AlgElement) error {
	if x == f.Zero() || p1.IsZero() {
		return nil
	}
	for _, t := range p1.Entries() {
		if t.Coef == 0 {
			continue
		}
		if err := Mult2Basis(f, mt, b, t.Basis, f.Mul(x, t.Coef), acc); err != nil {
			return err
		}
	}
	acc.stripZeros()
	return nil
}

// Mult computes acc += p1*p2, iterating p1's terms and invoking LeftTap
// for each.
func Mult(f *scalar.Field, mt *Table, p1, p2 *AlgElement, acc *AlgElement) error {
	if p1.IsZero() || p2.IsZero() {
		return nil
	}
	for _, t := range p1.Entries() {
		if t.Coef == 0 {
			continue
		}
		if err := LeftTap(f, mt, t.Coef, t.Basis, p2, acc); err != nil {
			return err
		}
	}
	acc.stripZeros()
	return nil
}
