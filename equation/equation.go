// Package equation implements the equation generator: for one identity and
// one target multidegree type, it enumerates every substitution of basis
// elements for the identity's variables whose combined multidegree equals
// the target, and expands each substitution into a linear equation over
// basis-pair unknowns.
package equation

import (
	"sort"

	"github.com/dpjacobs/albert/basis"
	"github.com/dpjacobs/albert/scalar"
)

// BasisPairTerm is one nonzero coefficient attached to an ordered unknown
// of the matrix being built: the formal product b_left . b_right.
type BasisPairTerm struct {
	Left, Right basis.Index
	Coef        scalar.Elem
}

// Equation is one row of the system: a sum of coefficients times basis-pair
// unknowns, implicitly equal to zero. Terms are kept sorted by (Left,Right)
// so the matrix builder can binary-search them against its column map.
type Equation struct {
	Terms []BasisPairTerm
}

// Set is the ordered collection of equations produced by one
// GenerateEquations call. Order matches enumeration order; the matrix
// builder and reducer do not depend on it.
type Set struct {
	Equations []Equation
}

// Len reports how many nonempty equations the set holds.
func (s *Set) Len() int { return len(s.Equations) }

func newEquation(terms map[basis.Pair]scalar.Elem) Equation {
	eq := Equation{Terms: make([]BasisPairTerm, 0, len(terms))}
	for pair, c := range terms {
		if c == 0 {
			continue
		}
		eq.Terms = append(eq.Terms, BasisPairTerm{Left: pair.Left, Right: pair.Right, Coef: c})
	}
	sort.Slice(eq.Terms, func(i, j int) bool {
		if eq.Terms[i].Left != eq.Terms[j].Left {
			return eq.Terms[i].Left < eq.Terms[j].Left
		}
		return eq.Terms[i].Right < eq.Terms[j].Right
	})
	return eq
}
