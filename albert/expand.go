package albert

import (
	"fmt"

	"github.com/dpjacobs/albert/mdegree"
	"github.com/dpjacobs/albert/multtable"
	"github.com/dpjacobs/albert/polyterm"
)

// Expand reduces p to its normal form in the already-built algebra: each
// leaf letter is bound to the generator of the same letter (set by
// SetGenerators), and every product, including the term's root, is
// resolved through the multiplication table. Unlike the equation
// generator's evalRoot, Expand never treats the root specially — it is
// only ever called against degrees the engine has already built, so the
// root's product is expected to already be in the table. A polynomial whose
// multidegree is not componentwise within the generators' target is
// rejected with ErrInvalidInput; a product missing from the table (e.g.
// before Build has completed) surfaces as multtable.ErrUnresolvedProduct.
func (e *Engine) Expand(p *polyterm.Identity) (*multtable.AlgElement, error) {
	if e.basis == nil || e.mult == nil {
		return nil, fmt.Errorf("%w: engine has not been built yet", ErrInvalidInput)
	}
	if e.types != nil {
		vec := make(mdegree.Vector, e.types.NumGenerators())
		for slot, g := range e.generators {
			vec[slot] = p.VariableMultiplicity(g.Letter)
		}
		if !vec.LessEq(e.types.TargetVector()) {
			return nil, fmt.Errorf("%w: polynomial type %v exceeds the target type %v", ErrInvalidInput, vec, e.types.TargetVector())
		}
	}

	result := multtable.NewAlgElement()
	for _, term := range p.Terms {
		elem, err := e.evalTerm(term.Tree)
		if err != nil {
			return nil, err
		}
		coef := e.field.FromInt(term.Coef)
		result.AddScaled(e.field, coef, elem)
	}
	return result, nil
}

func (e *Engine) evalTerm(node *polyterm.Node) (*multtable.AlgElement, error) {
	if node.IsLeaf() {
		idx, ok := e.genIdx[node.Letter()]
		if !ok {
			return nil, fmt.Errorf("%w: no generator bound to letter %q", ErrInvalidInput, node.Letter())
		}
		return multtable.FromTerm(idx, e.field.One()), nil
	}

	left, err := e.evalTerm(node.Left())
	if err != nil {
		return nil, err
	}
	right, err := e.evalTerm(node.Right())
	if err != nil {
		return nil, err
	}

	acc := multtable.NewAlgElement()
	if err := multtable.Mult(e.field, e.mult, left, right, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// IsIdentity reports whether p reduces to zero in the built algebra.
func (e *Engine) IsIdentity(p *polyterm.Identity) (bool, error) {
	result, err := e.Expand(p)
	if err != nil {
		return false, err
	}
	return result.IsZero(), nil
}
