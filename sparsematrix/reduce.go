package sparsematrix

import (
	"sort"

	"github.com/dpjacobs/albert/scalar"
)

// Reduce carries m to reduced row-echelon form over GF(p) in place, by a
// left-to-right pivot sweep, and returns its rank. Row elimination is a
// two-finger merge of column-sorted sparse rows; row swaps are pointer
// exchanges in m.Rows, never a data copy.
func (m *Matrix) Reduce(f *scalar.Field) int {
	r := 0
	for c := 0; c < m.Cols && r < len(m.Rows); c++ {
		pivot := -1
		for i := r; i < len(m.Rows); i++ {
			if leadingColumn(m.Rows[i]) == c {
				pivot = i
				break
			}
		}
		if pivot == -1 {
			continue
		}
		m.Rows[r], m.Rows[pivot] = m.Rows[pivot], m.Rows[r]

		pivotRow := m.Rows[r]
		if inv, _ := f.Inv(pivotRow.Cells[0].Value); inv != f.One() {
			scaleRow(f, pivotRow, inv)
		}

		for k, row := range m.Rows {
			if k == r {
				continue
			}
			factor, ok := columnValue(row, c)
			if !ok {
				continue
			}
			m.Rows[k] = subtractScaled(f, row, pivotRow, factor)
		}
		r++
	}
	return r
}

func leadingColumn(row *Row) int {
	if len(row.Cells) == 0 {
		return -1
	}
	return row.Cells[0].Column
}

// columnValue reports row's value at column c, if any, by binary search
// (row.Cells is column-sorted). Used to eliminate column c from every row
// that references it, above the pivot row as well as below, which is what
// distinguishes reduced row-echelon form from plain echelon form.
func columnValue(row *Row, c int) (scalar.Elem, bool) {
	i := sort.Search(len(row.Cells), func(i int) bool { return row.Cells[i].Column >= c })
	if i < len(row.Cells) && row.Cells[i].Column == c {
		return row.Cells[i].Value, true
	}
	return 0, false
}

func scaleRow(f *scalar.Field, row *Row, x scalar.Elem) {
	for i := range row.Cells {
		row.Cells[i].Value = f.Mul(row.Cells[i].Value, x)
	}
}

// subtractScaled returns row - factor*pivot, computed as a merge of two
// column-sorted sparse rows; zero results are dropped.
func subtractScaled(f *scalar.Field, row, pivot *Row, factor scalar.Elem) *Row {
	out := &Row{Cells: make([]Cell, 0, len(row.Cells)+len(pivot.Cells))}

	i, j := 0, 0
	for i < len(row.Cells) && j < len(pivot.Cells) {
		switch {
		case row.Cells[i].Column < pivot.Cells[j].Column:
			out.Cells = append(out.Cells, row.Cells[i])
			i++
		case row.Cells[i].Column > pivot.Cells[j].Column:
			if v := f.Neg(f.Mul(factor, pivot.Cells[j].Value)); v != 0 {
				out.Cells = append(out.Cells, Cell{Column: pivot.Cells[j].Column, Value: v})
			}
			j++
		default:
			if v := f.Sub(row.Cells[i].Value, f.Mul(factor, pivot.Cells[j].Value)); v != 0 {
				out.Cells = append(out.Cells, Cell{Column: row.Cells[i].Column, Value: v})
			}
			i++
			j++
		}
	}
	for ; i < len(row.Cells); i++ {
		out.Cells = append(out.Cells, row.Cells[i])
	}
	for ; j < len(pivot.Cells); j++ {
		if v := f.Neg(f.Mul(factor, pivot.Cells[j].Value)); v != 0 {
			out.Cells = append(out.Cells, Cell{Column: pivot.Cells[j].Column, Value: v})
		}
	}
	return out
}
