// Package basis implements Albert's basis table: the ordered registry of
// basis elements, each either a bare generator or the product that
// introduced it.
package basis

import (
	"errors"
	"fmt"

	"github.com/dpjacobs/albert/mdegree"
)

// Index identifies a basis element. Index 0 is the reserved "zero" sentinel
// and is never assigned to a real element.
type Index uint32

// Zero is the reserved sentinel basis index meaning "no element" / the zero
// vector, never a valid entry in an Alg_element.
const Zero Index = 0

// Pair is an ordered pair of basis indices: the atomic unit of a formal
// product b_i . b_j in the (possibly nonassociative, noncommutative)
// algebra being built.
type Pair struct {
	Left, Right Index
}

// Element is one basis vector: its type, degree, and either a generator
// slot (degree 1) or the factor pair that introduced it.
type Element struct {
	Index      Index
	Type       mdegree.Name
	Degree     uint16
	IsGenerator bool
	Slot       int // valid iff IsGenerator
	Left, Right Index // valid iff !IsGenerator
}

var ErrFactorNotSmaller = errors.New("basis: factor index is not smaller than the new element")

type degreeSpan struct {
	begin, end Index
}

// Table is the ordered registry of basis elements. Indices are assigned in
// strictly increasing order starting at 1 and are never reused.
type Table struct {
	elements    []Element // elements[0] is an unused placeholder for Zero.
	degreeSpans map[uint16]degreeSpan
	byType      map[mdegree.Name][]Index
}

// NewTable returns an empty basis table.
func NewTable() *Table {
	return &Table{
		elements:    []Element{{}}, // index 0 placeholder.
		degreeSpans: make(map[uint16]degreeSpan),
		byType:      make(map[mdegree.Name][]Index),
	}
}

// OfType returns every basis index registered under type name n, in
// ascending order; used by the equation generator to enumerate candidate
// substitutions for an identity variable.
func (t *Table) OfType(n mdegree.Name) []Index {
	return t.byType[n]
}

// NextIndex returns the index that will be assigned to the next entered
// element (spec's GetNextBasisTobeFilled).
func (t *Table) NextIndex() Index {
	return Index(len(t.elements))
}

// Len returns the number of real basis elements (excluding the Zero
// sentinel), i.e. the current dimension.
func (t *Table) Len() int {
	return len(t.elements) - 1
}

// EnterGenerator registers a degree-1 basis element for generator slot
// `slot`, of type name n, and returns its new index.
func (t *Table) EnterGenerator(slot int, n mdegree.Name) Index {
	idx := t.NextIndex()
	t.elements = append(t.elements, Element{
		Index:       idx,
		Type:        n,
		Degree:      1,
		IsGenerator: true,
		Slot:        slot,
	})
	t.extendDegreeSpan(1, idx)
	t.byType[n] = append(t.byType[n], idx)
	return idx
}

// EnterProduct registers a new basis element introduced by the product
// left*right, of type name n, and returns its new index. left and right
// must already exist; an out-of-range factor is an internal invariant
// failure, not user error. The new element's degree is the sum of its
// factors' degrees.
func (t *Table) EnterProduct(left, right Index, n mdegree.Name) (Index, error) {
	if left == Zero || int(left) >= len(t.elements) || right == Zero || int(right) >= len(t.elements) {
		return 0, fmt.Errorf("basis: factor out of range: (%d,%d)", left, right)
	}

	idx := t.NextIndex()
	if left >= idx || right >= idx {
		return 0, ErrFactorNotSmaller
	}

	d := t.elements[left].Degree + t.elements[right].Degree

	t.elements = append(t.elements, Element{
		Index:  idx,
		Type:   n,
		Degree: d,
		Left:   left,
		Right:  right,
	})
	t.extendDegreeSpan(d, idx)
	t.byType[n] = append(t.byType[n], idx)
	return idx, nil
}

func (t *Table) extendDegreeSpan(d uint16, idx Index) {
	span, ok := t.degreeSpans[d]
	if !ok {
		t.degreeSpans[d] = degreeSpan{begin: idx, end: idx}
		return
	}
	span.end = idx
	t.degreeSpans[d] = span
}

// Element returns the stored record for index i.
func (t *Table) Element(i Index) Element {
	return t.elements[i]
}

// Degree returns the degree of basis element i.
func (t *Table) Degree(i Index) uint16 {
	return t.elements[i].Degree
}

// BasisStart returns the smallest basis index of degree d, or Zero if no
// basis element of that degree exists.
func (t *Table) BasisStart(d uint16) Index {
	span, ok := t.degreeSpans[d]
	if !ok {
		return Zero
	}
	return span.begin
}

// BasisEnd returns the largest basis index of degree d, or Zero if no
// basis element of that degree exists.
func (t *Table) BasisEnd(d uint16) Index {
	span, ok := t.degreeSpans[d]
	if !ok {
		return Zero
	}
	return span.end
}

// HasDegree reports whether any basis element of degree d exists. An
// algebra can be nilpotent at some degree and still need a well-defined
// "no elements" answer for degrees past it.
func (t *Table) HasDegree(d uint16) bool {
	_, ok := t.degreeSpans[d]
	return ok
}

// All returns every basis element in index order (excluding Zero), for
// view_basis-style reporting.
func (t *Table) All() []Element {
	return append([]Element(nil), t.elements[1:]...)
}
