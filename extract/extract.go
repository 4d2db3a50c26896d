// Package extract implements the extractor: turning a reduced sparse
// matrix back into new basis elements and multiplication-table entries.
package extract

import (
	"fmt"

	"github.com/dpjacobs/albert/basis"
	"github.com/dpjacobs/albert/mdegree"
	"github.com/dpjacobs/albert/multtable"
	"github.com/dpjacobs/albert/scalar"
	"github.com/dpjacobs/albert/sparsematrix"
)

// ErrInvariantViolation reports a pivot row referencing a column that was
// neither resolved as a new basis element nor itself a pivot: the
// identities did not pin down a well-formed multiplication for this type,
// which is a build-engine invariant failure, not a user-input error.
type ErrInvariantViolation struct {
	Column int
	Pair   basis.Pair
}

func (e *ErrInvariantViolation) Error() string {
	return fmt.Sprintf("extract: pivot row references unresolved column %d (pair %v)", e.Column, e.Pair)
}

// Extract consumes m after m.Reduce has produced rank, installs a new
// basis element for every free basis pair at type n, and fills the
// multiplication table for every basis pair the matrix referenced. A
// pair is free if either it never appeared in any equation at all (no
// identity constrains it, so BuildMatrix never gave it a column) or it
// has a column that is not a pivot. Pivot pairs map instead to the
// dependent combination their row expresses (walking the row
// rightward, accumulating -coef * M[pair] for each free column it
// references). Pairs are visited by walking n's type decompositions, but
// since EnterProduct always assigns the next consecutive index regardless
// of visit order, the returned range still covers every element installed
// during this call. An empty range (begin == end == basis.Zero) means
// every pair was pinned down as a pivot and no new basis element was
// introduced for type n.
func Extract(f *scalar.Field, m *sparsematrix.Matrix, cm *sparsematrix.ColumnMap, rank int, n mdegree.Name, mdt *mdegree.Table, bt *basis.Table, mt *multtable.Table) (begin, end basis.Index, err error) {
	pivotColumn := make(map[int]bool, rank)
	for r := 0; r < rank; r++ {
		row := m.Rows[r]
		if len(row.Cells) == 0 {
			continue
		}
		pivotColumn[row.Cells[0].Column] = true
	}

	resolved := make(map[int]*multtable.AlgElement, cm.Len()-len(pivotColumn))
	begin, end = basis.Zero, basis.Zero

	installFree := func(pair basis.Pair, col int) error {
		idx, err := bt.EnterProduct(pair.Left, pair.Right, n)
		if err != nil {
			return err
		}
		if begin == basis.Zero {
			begin = idx
		}
		end = idx

		elem := multtable.FromTerm(idx, f.One())
		mt.Set(pair.Left, pair.Right, elem)
		if col >= 0 {
			resolved[col] = elem
		}
		return nil
	}

	for _, split := range mdt.TypeDecompositions(n) {
		for _, left := range bt.OfType(split[0]) {
			for _, right := range bt.OfType(split[1]) {
				pair := basis.Pair{Left: left, Right: right}
				col, inMatrix := cm.IndexOf(pair)
				if inMatrix && pivotColumn[col] {
					continue
				}
				if !inMatrix {
					col = -1
				}
				if err := installFree(pair, col); err != nil {
					return 0, 0, err
				}
			}
		}
	}

	for r := 0; r < rank; r++ {
		row := m.Rows[r]
		if len(row.Cells) == 0 {
			continue
		}
		pair := cm.Pair(row.Cells[0].Column)

		dependent := multtable.NewAlgElement()
		for _, cell := range row.Cells[1:] {
			elem, ok := resolved[cell.Column]
			if !ok {
				return 0, 0, &ErrInvariantViolation{Column: cell.Column, Pair: cm.Pair(cell.Column)}
			}
			dependent.AddScaled(f, f.Neg(cell.Value), elem)
		}
		mt.Set(pair.Left, pair.Right, dependent)
	}

	return begin, end, nil
}
