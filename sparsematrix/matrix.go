// Package sparsematrix implements the sparse linear system the equation
// generator feeds into: building a column-sorted sparse matrix from an
// equation.Set, and reducing it to reduced row-echelon form over GF(p).
package sparsematrix

import (
	"fmt"
	"sort"

	"github.com/dpjacobs/albert/basis"
	"github.com/dpjacobs/albert/equation"
	"github.com/dpjacobs/albert/mdegree"
	"github.com/dpjacobs/albert/scalar"
)

// Cell is one nonzero entry of a sparse row.
type Cell struct {
	Column int
	Value  scalar.Elem
}

// Row is a column-sorted sparse row; no duplicate columns, no zero values.
type Row struct {
	Cells []Cell
}

// Matrix is the sparse system built from one equation.Set: one row per
// nonempty equation, one column per distinct basis pair referenced.
type Matrix struct {
	Rows []*Row
	Cols int
}

// ColumnMap maps column index to the basis pair it stands for, sorted
// lexicographically by (Left, Right) so column lookup is a binary search.
type ColumnMap struct {
	pairs []basis.Pair
}

// Len returns the number of columns.
func (c *ColumnMap) Len() int { return len(c.pairs) }

// Pair returns the basis pair assigned to column col.
func (c *ColumnMap) Pair(col int) basis.Pair { return c.pairs[col] }

// IndexOf returns the column assigned to pair p, if any.
func (c *ColumnMap) IndexOf(p basis.Pair) (int, bool) {
	return c.indexOf(p)
}

func (c *ColumnMap) indexOf(p basis.Pair) (int, bool) {
	i := sort.Search(len(c.pairs), func(i int) bool {
		return !pairLess(c.pairs[i], p)
	})
	if i < len(c.pairs) && c.pairs[i] == p {
		return i, true
	}
	return 0, false
}

func pairLess(a, b basis.Pair) bool {
	if a.Left != b.Left {
		return a.Left < b.Left
	}
	return a.Right < b.Right
}

// BuildMatrix runs the two-pass build: a presence scan over every basis pair
// referenced by eqs, then column assignment by enumerating target's type
// decompositions (n1, n2) and, within each, the Cartesian product of
// bt.OfType(n1) and bt.OfType(n2). Type decompositions are not themselves
// visited in (Left, Right) order, so the resulting columns are sorted
// explicitly before the column map is used for lookups.
func BuildMatrix(eqs equation.Set, target mdegree.Name, mt *mdegree.Table, bt *basis.Table) (*Matrix, *ColumnMap, error) {
	present := make(map[basis.Pair]bool)
	for _, eq := range eqs.Equations {
		for _, term := range eq.Terms {
			present[basis.Pair{Left: term.Left, Right: term.Right}] = true
		}
	}

	cm := &ColumnMap{}
	for _, split := range mt.TypeDecompositions(target) {
		for _, left := range bt.OfType(split[0]) {
			for _, right := range bt.OfType(split[1]) {
				p := basis.Pair{Left: left, Right: right}
				if present[p] {
					cm.pairs = append(cm.pairs, p)
				}
			}
		}
	}
	sort.Slice(cm.pairs, func(i, j int) bool { return pairLess(cm.pairs[i], cm.pairs[j]) })

	m := &Matrix{Cols: len(cm.pairs)}
	for _, eq := range eqs.Equations {
		if len(eq.Terms) == 0 {
			continue
		}
		row := &Row{Cells: make([]Cell, 0, len(eq.Terms))}
		for _, term := range eq.Terms {
			col, ok := cm.IndexOf(basis.Pair{Left: term.Left, Right: term.Right})
			if !ok {
				return nil, nil, fmt.Errorf("sparsematrix: basis pair (%d,%d) missing from column map", term.Left, term.Right)
			}
			row.Cells = append(row.Cells, Cell{Column: col, Value: term.Coef})
		}
		m.Rows = append(m.Rows, row)
	}

	return m, cm, nil
}
