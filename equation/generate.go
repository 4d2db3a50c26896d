package equation

import (
	"fmt"

	"github.com/dpjacobs/albert/basis"
	"github.com/dpjacobs/albert/mdegree"
	"github.com/dpjacobs/albert/multtable"
	"github.com/dpjacobs/albert/polyterm"
	"github.com/dpjacobs/albert/scalar"
)

// GenerateEquations enumerates every basis substitution for id's variables
// whose combined multidegree equals target's vector, and returns one
// equation per substitution whose expansion is not identically zero.
//
// A substitution may assign any existing basis element to a variable, not
// only a degree-1 generator: the only requirement is that the assigned
// elements' multidegrees, weighted by each variable's multiplicity in id,
// sum exactly to target's vector. This lets a degree-k identity generate
// equations at any target degree d >= k by "spreading" the extra degree
// across the variables.
func GenerateEquations(f *scalar.Field, mt *mdegree.Table, bt *basis.Table, mult *multtable.Table, id *polyterm.Identity, target mdegree.Name) (Set, error) {
	vars := id.Variables()
	multiplicity := make(map[byte]uint16, len(vars))
	for _, v := range vars {
		multiplicity[v] = id.VariableMultiplicity(v)
	}

	var set Set
	err := enumerateAssignments(mt, bt, vars, multiplicity, mt.NameToVector(target), func(assignment map[byte]basis.Index) error {
		combined := make(map[basis.Pair]scalar.Elem)
		for _, term := range id.Terms {
			pairTerms, err := evalRoot(f, mult, assignment, term.Tree)
			if err != nil {
				return err
			}
			if pairTerms == nil {
				continue // one term's product vanished; the other terms may not.
			}
			coef := f.FromInt(term.Coef)
			for pair, c := range pairTerms {
				combined[pair] = f.Add(combined[pair], f.Mul(coef, c))
			}
		}
		if eq := newEquation(combined); len(eq.Terms) > 0 {
			set.Equations = append(set.Equations, eq)
		}
		return nil
	})
	if err != nil {
		return Set{}, err
	}
	return set, nil
}

// enumerateAssignments walks every variable-to-basis-index assignment whose
// multidegree sum equals target, calling emit once per complete assignment.
// emit must not retain the map it is given: the same map is mutated and
// reused across calls.
func enumerateAssignments(mt *mdegree.Table, bt *basis.Table, vars []byte, multiplicity map[byte]uint16, target mdegree.Vector, emit func(map[byte]basis.Index) error) error {
	assignment := make(map[byte]basis.Index, len(vars))

	var rec func(i int, remaining mdegree.Vector) error
	rec = func(i int, remaining mdegree.Vector) error {
		if i == len(vars) {
			if vectorIsZero(remaining) {
				return emit(assignment)
			}
			return nil
		}

		v := vars[i]
		m := multiplicity[v]
		maxDegree := remaining.Degree() / m

		for d := uint16(1); d <= maxDegree; d++ {
			for n := mt.FirstTypeDegree(d); n != mdegree.NoName; n = mt.NextTypeSameDegree(n) {
				scaled := vectorScale(mt.NameToVector(n), m)
				if !scaled.LessEq(remaining) {
					continue
				}
				for _, idx := range bt.OfType(n) {
					assignment[v] = idx
					if err := rec(i+1, vectorSub(remaining, scaled)); err != nil {
						return err
					}
				}
			}
		}
		delete(assignment, v)
		return nil
	}

	return rec(0, target)
}

func vectorScale(v mdegree.Vector, m uint16) mdegree.Vector {
	out := make(mdegree.Vector, len(v))
	for i, c := range v {
		out[i] = c * m
	}
	return out
}

func vectorSub(a, b mdegree.Vector) mdegree.Vector {
	out := make(mdegree.Vector, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

func vectorIsZero(v mdegree.Vector) bool {
	for _, c := range v {
		if c != 0 {
			return false
		}
	}
	return true
}

// evalNode resolves node into an Alg_element, using the multiplication
// table for every internal node. Safe for any node whose substituted
// degree is strictly less than the target degree currently being solved
// for, which by construction is every node except the identity term's
// root (see evalRoot).
func evalNode(f *scalar.Field, mt *multtable.Table, assignment map[byte]basis.Index, node *polyterm.Node) (*multtable.AlgElement, error) {
	if node.IsLeaf() {
		idx, ok := assignment[node.Letter()]
		if !ok {
			return nil, fmt.Errorf("equation: no basis assignment for variable %q", node.Letter())
		}
		return multtable.FromTerm(idx, 1), nil
	}

	left, err := evalNode(f, mt, assignment, node.Left())
	if err != nil {
		return nil, err
	}
	right, err := evalNode(f, mt, assignment, node.Right())
	if err != nil {
		return nil, err
	}

	acc := multtable.NewAlgElement()
	if err := multtable.Mult(f, mt, left, right, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// evalRoot resolves a term's whole tree for one substitution. Its two
// children have degree strictly less than the target degree and resolve
// through the multiplication table via evalNode; the root itself has
// degree exactly equal to the target, so the table has no entry for it
// yet (that entry is what this equation helps solve for). Instead the
// root combines its two Alg_elements by direct bilinear expansion into
// basis-pair terms: the unknowns of the matrix being built.
//
// Returns nil, nil if either side vanished (no contribution from this
// term, not necessarily from the whole identity).
func evalRoot(f *scalar.Field, mt *multtable.Table, assignment map[byte]basis.Index, root *polyterm.Node) (map[basis.Pair]scalar.Elem, error) {
	left, err := evalNode(f, mt, assignment, root.Left())
	if err != nil {
		return nil, err
	}
	right, err := evalNode(f, mt, assignment, root.Right())
	if err != nil {
		return nil, err
	}
	if left.IsZero() || right.IsZero() {
		return nil, nil
	}

	out := make(map[basis.Pair]scalar.Elem)
	for _, lt := range left.Entries() {
		for _, rt := range right.Entries() {
			p := basis.Pair{Left: lt.Basis, Right: rt.Basis}
			out[p] = f.Add(out[p], f.Mul(lt.Coef, rt.Coef))
		}
	}
	return out, nil
}
