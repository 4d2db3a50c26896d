// Package albert ties the build engine's pieces — scalar arithmetic, the
// type table, the basis and multiplication tables, the equation generator,
// the sparse matrix builder and reducer, and the extractor — into a single
// Engine value with the command surface a REPL or test would drive it
// through: set the field, declare generators, add identities, build up to
// the generators' target multidegree, then query the result.
package albert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dpjacobs/albert/basis"
	"github.com/dpjacobs/albert/mdegree"
	"github.com/dpjacobs/albert/multtable"
	"github.com/dpjacobs/albert/polyterm"
	"github.com/dpjacobs/albert/scalar"
)

// MaxPrime bounds the field characteristic an Engine will accept.
const MaxPrime = scalar.MaxPrime

// MaxGenerators bounds the number of generator slots an Engine will accept.
const MaxGenerators = mdegree.MaxGenerators

// MaxDegree bounds the target multidegree's total degree: past this point
// the basis and equation counts grow too quickly for the sparse row
// reduction to stay tractable on a single machine.
const MaxDegree = 15

var (
	// ErrInvalidInput reports a caller error rejected before any state
	// change: a non-homogeneous identity, a prime or generator count out
	// of bounds, a target degree past MaxDegree, or an incompatible
	// polynomial passed to IsIdentity/Expand.
	ErrInvalidInput = errors.New("albert: invalid input")

	// ErrInterrupted is returned by Build when the context is cancelled at
	// one of its checkpoints. The engine is reset before this is returned,
	// so no half-built state is ever observable.
	ErrInterrupted = errors.New("albert: build interrupted")

	// ErrInvariantViolation wraps extract.ErrInvariantViolation: a pivot
	// row referenced a column the identities never pinned down. This is a
	// build-engine bug, not a user-input error, and is never recovered
	// from; Build resets state before returning it.
	ErrInvariantViolation = errors.New("albert: build invariant violated")

	// ErrNoField is returned by SetGenerators and Build when no field has
	// been configured yet.
	ErrNoField = errors.New("albert: no field configured, call SetField first")

	// ErrNoGenerators is returned by Build when no generators have been
	// configured yet.
	ErrNoGenerators = errors.New("albert: no generators configured, call SetGenerators first")
)

// GeneratorSpec names one generator slot: its display letter and its
// multiplicity (how many times it may appear, weighted, in the target
// multidegree — spec's generator-count vector, one entry per slot here
// instead of a bare []uint16 so Expand can bind each leaf letter of a
// polynomial to the generator of the same letter).
type GeneratorSpec struct {
	Letter       byte
	Multiplicity uint16
}

// Status is the outcome of a Build call.
type Status int

const (
	StatusOK Status = iota
	StatusInterrupted
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// Engine owns one algebra build: a field, a set of generators, a list of
// identities, and the tables the build produces. Not safe for concurrent
// use by multiple goroutines; spec's build engine was never designed for
// fine-grained locking and this port does not add it.
type Engine struct {
	logger *slog.Logger

	field      *scalar.Field
	generators []GeneratorSpec
	identities *polyterm.IdentityList

	types  *mdegree.Table
	basis  *basis.Table
	mult   *multtable.Table
	genIdx map[byte]basis.Index // letter -> degree-1 basis index, filled by installDegree1

	cancel context.CancelFunc // set while a Build call is in flight, for Cancel
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithLogger attaches a structured logger Build reports progress through.
// Without this option, Build logs nothing (a nil *slog.Logger is treated as
// silent, not a panic).
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine returns an Engine with no field and no generators configured
// yet; SetField and SetGenerators must be called before Build.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		identities: polyterm.NewIdentityList(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func (e *Engine) log() *slog.Logger {
	if e.logger == nil {
		return discardLogger
	}
	return e.logger
}

// SetField configures the ground field GF(p), rejecting p outside
// [2, MaxPrime] or non-prime. Changing the field resets the generators,
// identities, and every built table: the tables were computed over the old
// field's arithmetic and cannot be reinterpreted.
func (e *Engine) SetField(p uint64) error {
	f, err := scalar.New(p)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	e.field = f
	e.resetBuiltState()
	e.generators = nil
	e.types = nil
	e.identities.RemoveAll()
	return nil
}

// Field returns the currently configured field, or nil if none has been set.
func (e *Engine) Field() *scalar.Field { return e.field }

// SetGenerators declares the generator slots and their multiplicities,
// rejecting duplicate letters, a slot count above MaxGenerators, or a
// target degree (the sum of multiplicities) above MaxDegree. Requires a
// field to already be configured. Resets the basis, multiplication, and
// type tables: a generator change invalidates everything built so far.
func (e *Engine) SetGenerators(gens []GeneratorSpec) error {
	if e.field == nil {
		return ErrNoField
	}
	if len(gens) == 0 || len(gens) > MaxGenerators {
		return fmt.Errorf("%w: generator count must be in [1, %d]", ErrInvalidInput, MaxGenerators)
	}

	seen := make(map[byte]bool, len(gens))
	target := make(mdegree.Vector, len(gens))
	var totalDegree uint16
	for i, g := range gens {
		if g.Letter < 'a' || g.Letter > 'z' {
			return fmt.Errorf("%w: generator letter %q out of range", ErrInvalidInput, g.Letter)
		}
		if seen[g.Letter] {
			return fmt.Errorf("%w: duplicate generator letter %q", ErrInvalidInput, g.Letter)
		}
		if g.Multiplicity == 0 {
			return fmt.Errorf("%w: generator %q has zero multiplicity", ErrInvalidInput, g.Letter)
		}
		seen[g.Letter] = true
		target[i] = g.Multiplicity
		totalDegree += g.Multiplicity
	}
	if totalDegree > MaxDegree {
		return fmt.Errorf("%w: target degree %d exceeds MaxDegree %d", ErrInvalidInput, totalDegree, MaxDegree)
	}

	types, err := mdegree.NewTable(target)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	e.generators = append([]GeneratorSpec(nil), gens...)
	e.types = types
	e.resetBuiltState()
	return nil
}

// resetBuiltState discards the basis table, multiplication table, and every
// type's stamped basis range, while keeping the interned type vocabulary
// itself (rebuilt fresh from the same target vector, so names stay stable
// across repeated builds with the same generators).
func (e *Engine) resetBuiltState() {
	e.basis = basis.NewTable()
	e.mult = multtable.NewTable()
	e.genIdx = nil
	if e.types != nil {
		// NewTable is deterministic in its target vector, so this yields
		// the exact same Name assignments with every basisRangeAssigned
		// flag cleared; the error is unreachable since e.types already
		// validated the same vector once.
		fresh, _ := mdegree.NewTable(e.types.TargetVector())
		e.types = fresh
	}
}

// Reset clears every built table (basis, multiplication, type ranges) while
// keeping the configured field, generators, and identities, so a caller can
// rebuild from scratch (e.g. after a cancelled Build).
func (e *Engine) Reset() {
	e.resetBuiltState()
}

// AddIdentity appends id to the engine's identity list and returns its
// stable 1-based index. Resets every built table.
func (e *Engine) AddIdentity(id *polyterm.Identity) int {
	e.resetBuiltState()
	return e.identities.Add(id)
}

// RemoveIdentity drops the identity at 1-based index k. Resets every built
// table.
func (e *Engine) RemoveIdentity(k int) error {
	if err := e.identities.Remove(k); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	e.resetBuiltState()
	return nil
}

// RemoveAllIdentities empties the identity list and resets every built
// table.
func (e *Engine) RemoveAllIdentities() {
	e.identities.RemoveAll()
	e.resetBuiltState()
}

// Basis returns every basis element built so far, in index order.
func (e *Engine) Basis() []basis.Element {
	if e.basis == nil {
		return nil
	}
	return e.basis.All()
}

// MultEntries calls yield once per filled multiplication-table entry,
// stopping early if yield returns false.
func (e *Engine) MultEntries(yield func(basis.Pair, *multtable.AlgElement) bool) {
	if e.mult == nil {
		return
	}
	e.mult.Range(yield)
}
