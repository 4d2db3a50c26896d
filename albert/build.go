package albert

import (
	"context"
	"fmt"
	"time"

	"github.com/dpjacobs/albert/basis"
	"github.com/dpjacobs/albert/equation"
	"github.com/dpjacobs/albert/extract"
	"github.com/dpjacobs/albert/mdegree"
	"github.com/dpjacobs/albert/sparsematrix"
)

// Build constructs the basis and multiplication tables degree by degree, up
// to the generators' target multidegree, running the equation generator,
// matrix builder, reducer, and extractor for each type in turn. Cancellation
// is checked via ctx.Err() between identities, between types, and between
// degrees; on cancellation the engine is reset and ErrInterrupted is
// returned, so no half-built state is ever observable.
func (e *Engine) Build(ctx context.Context) (Status, error) {
	if e.field == nil {
		return StatusInterrupted, ErrNoField
	}
	if e.types == nil {
		return StatusInterrupted, ErrNoGenerators
	}

	ctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	defer func() { e.cancel = nil; cancel() }()

	e.resetBuiltState()

	if err := e.installDegree1(ctx); err != nil {
		return e.failBuild(err)
	}

	target := e.types.TargetDegree()
	for d := uint16(2); d <= target; d++ {
		start := time.Now()
		if err := ctx.Err(); err != nil {
			return e.failBuild(ErrInterrupted)
		}

		for n := e.types.FirstTypeDegree(d); n != mdegree.NoName; n = e.types.NextTypeSameDegree(n) {
			if err := ctx.Err(); err != nil {
				return e.failBuild(ErrInterrupted)
			}
			if err := e.processType(ctx, n); err != nil {
				return e.failBuild(err)
			}
		}

		e.log().Info("degree complete",
			"degree", d,
			"dimension", e.basis.Len(),
			"elapsed", time.Since(start))
	}

	return StatusOK, nil
}

// failBuild resets the engine's built state (spec's policy: no half-built
// tables survive a failed or cancelled build) and classifies err into the
// engine's public sentinel errors.
func (e *Engine) failBuild(err error) (Status, error) {
	e.resetBuiltState()

	if violation, ok := err.(*extract.ErrInvariantViolation); ok {
		return StatusInterrupted, fmt.Errorf("%w: %v", ErrInvariantViolation, violation)
	}
	if err == ErrInterrupted {
		return StatusInterrupted, ErrInterrupted
	}
	return StatusInterrupted, fmt.Errorf("albert: build failed: %w", err)
}

// installDegree1 registers one basis element per generator slot, of the
// degree-1 type whose vector is the unit vector for that slot, matching the
// original driver's InstallDegree1.
func (e *Engine) installDegree1(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return ErrInterrupted
	}

	e.genIdx = make(map[byte]basis.Index, len(e.generators))
	for slot, g := range e.generators {
		vec := make(mdegree.Vector, len(e.generators))
		vec[slot] = 1
		name, ok := e.types.TypeToName(vec)
		if !ok {
			return fmt.Errorf("albert: no degree-1 type interned for generator slot %d", slot)
		}
		idx := e.basis.EnterGenerator(slot, name)
		e.genIdx[g.Letter] = idx
		e.types.UpdateTypeTable(name, uint32(idx), uint32(idx))
	}
	return nil
}

func (e *Engine) processType(ctx context.Context, n mdegree.Name) error {
	eqs, err := e.generateAll(ctx, n)
	if err != nil {
		return err
	}

	m, cm, err := sparsematrix.BuildMatrix(eqs, n, e.types, e.basis)
	if err != nil {
		return err
	}

	rank := m.Reduce(e.field)

	begin, end, err := extract.Extract(e.field, m, cm, rank, n, e.types, e.basis, e.mult)
	if err != nil {
		return err
	}
	e.types.UpdateTypeTable(n, uint32(begin), uint32(end))

	e.log().Debug("type processed",
		"type", e.types.NameToVector(n),
		"rows", len(m.Rows),
		"cols", m.Cols,
		"rank", rank)

	return nil
}

func (e *Engine) generateAll(ctx context.Context, n mdegree.Name) (equation.Set, error) {
	var all equation.Set
	for _, entry := range e.identities.All() {
		if err := ctx.Err(); err != nil {
			return equation.Set{}, ErrInterrupted
		}
		if entry.Identity.Degree() > e.types.DegreeOfName(n) {
			continue
		}
		set, err := equation.GenerateEquations(e.field, e.types, e.basis, e.mult, entry.Identity, n)
		if err != nil {
			return equation.Set{}, err
		}
		all.Equations = append(all.Equations, set.Equations...)
	}
	return all, nil
}

// Cancel cancels the context the in-progress Build call is running under,
// for callers that installed a signal handler before calling Build and want
// a single method to wire it to rather than threading a context.CancelFunc
// through themselves. A no-op if no Build call is in flight.
func (e *Engine) Cancel() {
	if e.cancel != nil {
		e.cancel()
	}
}
