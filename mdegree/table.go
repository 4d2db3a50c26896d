// Package mdegree implements Albert's type table: interning of generator
// multidegree vectors into small integer Names, and the deterministic
// traversal over types of a given degree that the build driver relies on.
package mdegree

import (
	"errors"
	"fmt"
	"strings"
)

// MaxGenerators bounds the number of generator slots (letters a..z).
const MaxGenerators = 26

// Vector is a multidegree: one nonnegative count per generator slot.
type Vector []uint16

// Degree returns the sum of the vector's entries.
func (v Vector) Degree() uint16 {
	var d uint16
	for _, c := range v {
		d += c
	}
	return d
}

// LessEq reports whether v is componentwise <= other; used both to prune
// the equation generator's substitutions and to check a polynomial's
// multidegree against a target type (§9 Open Question: the check is
// per-term, not per-polynomial).
func (v Vector) LessEq(other Vector) bool {
	if len(v) != len(other) {
		return false
	}
	for i := range v {
		if v[i] > other[i] {
			return false
		}
	}
	return true
}

func (v Vector) key() string {
	var b strings.Builder
	for i, c := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", c)
	}
	return b.String()
}

func (v Vector) clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Name is the interned identifier of a Vector.
type Name int32

// NoName is the sentinel returned when no further type exists (e.g. at the
// end of a same-degree traversal).
const NoName Name = -1

var (
	ErrTooManyGenerators = fmt.Errorf("mdegree: at most %d generator slots supported", MaxGenerators)
)

type record struct {
	vector             Vector
	degree             uint16
	nextSameDegree     Name
	beginBasis         uint32
	endBasis           uint32
	basisRangeAssigned bool
}

// Table owns the interned vector<->Name mapping for one target multidegree,
// plus the deterministic per-degree traversal order.
type Table struct {
	target        Vector
	targetDegree  uint16
	targetName    Name
	records       []record
	byKey         map[string]Name
	firstOfDegree map[uint16]Name
}

// NewTable builds the type table for a target multidegree: every vector V
// with V <= target (componentwise) and 1 <= |V| <= |target| is interned,
// one degree at a time, so names within a degree are contiguous and the
// same-degree traversal order is reproducible across runs.
func NewTable(target Vector) (*Table, error) {
	if len(target) > MaxGenerators {
		return nil, ErrTooManyGenerators
	}

	t := &Table{
		target:        target.clone(),
		targetDegree:  target.Degree(),
		byKey:         make(map[string]Name),
		firstOfDegree: make(map[uint16]Name),
	}

	for d := uint16(1); d <= t.targetDegree; d++ {
		vectors := enumerate(t.target, d)

		var prev Name = NoName
		for _, v := range vectors {
			n := t.intern(v, d)
			if prev == NoName {
				t.firstOfDegree[d] = n
			} else {
				t.records[prev].nextSameDegree = n
			}
			prev = n
		}
		if prev != NoName {
			t.records[prev].nextSameDegree = NoName
		} else {
			t.firstOfDegree[d] = NoName
		}
	}

	name, ok := t.TypeToName(t.target)
	if !ok {
		// The target vector itself always has degree targetDegree and is
		// therefore always enumerated above; this would be an internal
		// invariant violation.
		return nil, errors.New("mdegree: target vector missing from its own type table")
	}
	t.targetName = name

	return t, nil
}

func (t *Table) intern(v Vector, d uint16) Name {
	if n, ok := t.byKey[v.key()]; ok {
		return n
	}
	n := Name(len(t.records))
	t.records = append(t.records, record{vector: v.clone(), degree: d, nextSameDegree: NoName})
	t.byKey[v.key()] = n
	return n
}

// enumerate returns, in descending lexicographic order (slot 0 varies slowest and
// takes its largest feasible value first), every vector of degree d that is
// componentwise <= target. The order only needs to be deterministic, not
// any particular one; see spec's traversal-order note.
func enumerate(target Vector, d uint16) []Vector {
	L := len(target)

	suffixMax := make([]uint16, L+1)
	for i := L - 1; i >= 0; i-- {
		suffixMax[i] = suffixMax[i+1] + target[i]
	}

	var results []Vector
	acc := make(Vector, L)

	var rec func(slot int, remaining uint16)
	rec = func(slot int, remaining uint16) {
		if slot == L {
			if remaining == 0 {
				out := make(Vector, L)
				copy(out, acc)
				results = append(results, out)
			}
			return
		}

		maxHere := target[slot]
		if remaining < maxHere {
			maxHere = remaining
		}

		var minHere uint16
		if remaining > suffixMax[slot+1] {
			minHere = remaining - suffixMax[slot+1]
		}

		for v := maxHere; ; v-- {
			acc[slot] = v
			rec(slot+1, remaining-v)
			if v == minHere {
				break
			}
		}
	}
	rec(0, d)

	return results
}

// FirstTypeDegree returns the first Name of degree d in traversal order, or
// NoName if no type of that degree exists.
func (t *Table) FirstTypeDegree(d uint16) Name {
	if n, ok := t.firstOfDegree[d]; ok {
		return n
	}
	return NoName
}

// NextTypeSameDegree returns the Name following n in its degree's traversal
// order, or NoName if n was the last.
func (t *Table) NextTypeSameDegree(n Name) Name {
	if int(n) < 0 || int(n) >= len(t.records) {
		return NoName
	}
	return t.records[n].nextSameDegree
}

// NameToVector returns the multidegree interned under n.
func (t *Table) NameToVector(n Name) Vector {
	return t.records[n].vector
}

// DegreeOfName returns the degree of the type named n.
func (t *Table) DegreeOfName(n Name) uint16 {
	return t.records[n].degree
}

// TypeToName looks up the Name interned for vector v, if any.
func (t *Table) TypeToName(v Vector) (Name, bool) {
	n, ok := t.byKey[v.key()]
	return n, ok
}

// UpdateTypeTable stamps the basis-index range realising type n. An empty
// range (begin > end, or both zero) records that no basis elements were
// introduced for this type (possible for a nilpotent algebra).
func (t *Table) UpdateTypeTable(n Name, begin, end uint32) {
	t.records[n].beginBasis = begin
	t.records[n].endBasis = end
	t.records[n].basisRangeAssigned = true
}

// BasisRange returns the basis range stamped by UpdateTypeTable for n.
func (t *Table) BasisRange(n Name) (begin, end uint32, ok bool) {
	r := t.records[n]
	return r.beginBasis, r.endBasis, r.basisRangeAssigned
}

// TypeDecompositions returns every ordered pair of type names (n1, n2) whose
// vectors sum to n's vector, one pair per valid split of n's degree into
// d1+d2 with d1, d2 >= 1. A product b1.b2 can realise type n only if
// (Type(b1), Type(b2)) is one of these pairs: raw degree alone is not
// enough, since two types can share a degree without summing to n.
func (t *Table) TypeDecompositions(n Name) [][2]Name {
	target := t.records[n].vector
	d := t.records[n].degree

	var out [][2]Name
	for d1 := uint16(1); d1 < d; d1++ {
		for n1 := t.FirstTypeDegree(d1); n1 != NoName; n1 = t.NextTypeSameDegree(n1) {
			v1 := t.records[n1].vector
			v2 := make(Vector, len(v1))
			ok := true
			for i := range v1 {
				if v1[i] > target[i] {
					ok = false
					break
				}
				v2[i] = target[i] - v1[i]
			}
			if !ok {
				continue
			}
			n2, found := t.TypeToName(v2)
			if !found {
				continue
			}
			out = append(out, [2]Name{n1, n2})
		}
	}
	return out
}

// TargetVector returns the target multidegree this table was built for.
func (t *Table) TargetVector() Vector { return t.target.clone() }

// TargetDegree returns the degree of the target multidegree.
func (t *Table) TargetDegree() uint16 { return t.targetDegree }

// TargetName returns the Name of the target multidegree itself.
func (t *Table) TargetName() Name { return t.targetName }

// NumGenerators returns the number of generator slots (len(target)).
func (t *Table) NumGenerators() int { return len(t.target) }
