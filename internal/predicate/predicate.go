// Package predicate is the Boolean-predicate layer of the synthesis
// engine (spec.md §4.1). It compiles parse trees into Boolean functions
// over the 2N unprimed/primed indices maintained by varindex.Index,
// combines them via the standard Boolean connectives, and provides the
// quantification, cofactor, substitution, evaluation, and enumeration
// primitives the fixpoint engine and strategy builder are built on.
//
// The predicate representation itself -- sharing, garbage collection,
// variable reordering -- is delegated to github.com/dalzilio/rudd, a
// Go binary decision diagram library and a black-box collaborator per
// spec.md §1. Manager wraps *rudd.BDD; Predicate wraps a rudd.Node handle
// in a scoped container that must be released on every exit path (the
// "manual reference counting on predicates" redesign note in spec.md §9).
package predicate

import (
	"github.com/dalzilio/rudd"

	"github.com/dathath/gr1c-go/internal/varindex"
)

// Manager owns the BDD instance backing every Predicate it produces. A
// synthesis run uses exactly one Manager, mirroring the process-wide BDD
// manager singleton described in spec.md §5.
type Manager struct {
	bdd          *rudd.BDD
	idx          *varindex.Index
	primeSwap    *rudd.Replacer
	reorderDepth int
	live         int // count of acquired, not-yet-released predicates; diagnostic only
}

// NewManager allocates a BDD manager sized for idx's full 2N-variable
// space (unprimed and primed copies of every environment and system
// variable), and precomputes the primed/unprimed swap SubstitutePrimed
// applies (spec.md §4.1 "substitute_primed").
func NewManager(idx *varindex.Index) (*Manager, error) {
	b, err := rudd.New(idx.Width())
	if err != nil {
		return nil, wrapf("NewManager", "allocate BDD manager for %d variables: %w", idx.Width(), err)
	}
	oldvars, newvars := primeSwapIndices(idx)
	swap, err := rudd.NewReplacer(oldvars, newvars)
	if err != nil {
		return nil, wrapf("NewManager", "build primed-variable swap: %w", err)
	}
	return &Manager{bdd: b, idx: idx, primeSwap: swap}, nil
}

// primeSwapIndices builds the old/new index pairs for the involution that
// exchanges every unprimed variable with its primed counterpart, in index
// order for determinism.
func primeSwapIndices(idx *varindex.Index) (oldvars, newvars []int) {
	pm := idx.PrimeMap()
	oldvars = make([]int, 0, 2*len(pm))
	newvars = make([]int, 0, 2*len(pm))
	for unprimed := 0; unprimed < len(pm); unprimed++ {
		primed := pm[unprimed]
		oldvars = append(oldvars, unprimed, primed)
		newvars = append(newvars, primed, unprimed)
	}
	return oldvars, newvars
}

// Index returns the variable index this manager was built from.
func (m *Manager) Index() *varindex.Index { return m.idx }

// Predicate is an opaque handle to a Boolean function over the 2N indexed
// variables (spec.md §3 "Predicate (Boolean function)"). Every Predicate
// must be paired with exactly one Release call on all exit paths,
// including error paths.
type Predicate struct {
	mgr      *Manager
	node     rudd.Node
	released bool
}

func (m *Manager) wrap(n rudd.Node) *Predicate {
	m.live++
	return &Predicate{mgr: m, node: n}
}

// Release returns the handle to the manager. Releasing an already-released
// predicate is a no-op, so defer p.Release() is always safe.
func (p *Predicate) Release() {
	if p == nil || p.released {
		return
	}
	p.released = true
	p.mgr.live--
}

// True and False return the constant predicates.
func (m *Manager) True() *Predicate  { return m.wrap(m.bdd.True()) }
func (m *Manager) False() *Predicate { return m.wrap(m.bdd.False()) }

// Ref returns a new handle sharing the same underlying node as p, so the
// caller can release its own copy independently of others (e.g. when a
// predicate computed in one scope is also stashed in a longer-lived level
// ladder, per spec.md §3 "Lifecycles").
func (p *Predicate) Ref() *Predicate { return p.mgr.wrap(p.node) }

// And, Or, Not, Implies, and Iff are the standard Boolean combinators
// (spec.md §4.1); each returns a new Predicate owned by the caller.
func (p *Predicate) And(q *Predicate) *Predicate {
	return p.mgr.wrap(p.mgr.bdd.And(p.node, q.node))
}

func (p *Predicate) Or(q *Predicate) *Predicate {
	return p.mgr.wrap(p.mgr.bdd.Or(p.node, q.node))
}

func (p *Predicate) Not() *Predicate {
	return p.mgr.wrap(p.mgr.bdd.Not(p.node))
}

func (p *Predicate) Implies(q *Predicate) *Predicate {
	return p.mgr.wrap(p.mgr.bdd.Imp(p.node, q.node))
}

func (p *Predicate) Iff(q *Predicate) *Predicate {
	return p.mgr.wrap(p.mgr.bdd.Biimp(p.node, q.node))
}

// AndAll conjoins a slice of predicates, returning True() for an empty
// slice. None of the input predicates are released; the caller retains
// ownership of each.
func (m *Manager) AndAll(ps []*Predicate) *Predicate {
	out := m.True()
	for _, p := range ps {
		next := out.And(p)
		out.Release()
		out = next
	}
	return out
}

// Equal reports whether p and q denote the same Boolean function. Used by
// the fixpoint engine's level-set termination check (spec.md §4.3,
// "Y[i][k+1] ≡ Y[i][k]").
func (p *Predicate) Equal(q *Predicate) bool {
	return p.node == q.node
}

// varsetFor builds the conjunction-of-positive-literals cube rudd uses to
// represent a quantification mask or variable set, for the given unprimed
// or primed indices.
func (m *Manager) varsetFor(indices []int) rudd.Node {
	set := m.bdd.True()
	for _, i := range indices {
		set = m.bdd.And(set, m.bdd.Ithvar(i))
	}
	return set
}

// Exists existentially abstracts the variables named by mask (a list of
// variable indices, typically from varindex.Index's *Mask helpers).
func (p *Predicate) Exists(mask []int) *Predicate {
	set := p.mgr.varsetFor(mask)
	return p.mgr.wrap(p.mgr.bdd.Exist(p.node, set))
}

// Forall universally abstracts the variables named by mask.
func (p *Predicate) Forall(mask []int) *Predicate {
	set := p.mgr.varsetFor(mask)
	return p.mgr.wrap(p.mgr.bdd.ForAll(p.node, set))
}

// literalCube builds the rudd restrict-style cube for a predicate.Cube:
// a conjunction of Ithvar(i) for positions fixed to One, NIthvar(i) for
// positions fixed to Zero, skipping don't-care positions.
func (m *Manager) literalCube(c Cube) rudd.Node {
	lit := m.bdd.True()
	for i, v := range c {
		switch v {
		case One:
			lit = m.bdd.And(lit, m.bdd.Ithvar(i))
		case Zero:
			lit = m.bdd.And(lit, m.bdd.NIthvar(i))
		case DontCare:
			// not constrained
		}
	}
	return lit
}

// Cofactor restricts p by the variables cube constrains (spec.md §4.1).
// Positions left as DontCare in cube are not restricted.
func (p *Predicate) Cofactor(cube Cube) *Predicate {
	lit := p.mgr.literalCube(cube)
	return p.mgr.wrap(p.mgr.bdd.Restrict(p.node, lit))
}

// SubstitutePrimed swaps each unprimed index with its primed counterpart,
// pointwise, via the Manager's precomputed primeSwap Replacer
// (spec.md §4.1, §9).
func (p *Predicate) SubstitutePrimed() *Predicate {
	return p.mgr.wrap(p.mgr.bdd.Replace(p.node, p.mgr.primeSwap))
}

// Eval point-evaluates p at cube, which must constrain every index p
// depends on (spec.md §4.1). The numeric floating-point terminal
// threshold the original BDD backend exposed is abstracted away entirely;
// this always returns an exact Boolean.
func (p *Predicate) Eval(cube Cube) bool {
	lit := p.mgr.literalCube(cube)
	r := p.mgr.bdd.Restrict(p.node, lit)
	return r == p.mgr.bdd.True()
}

// Size estimates p's structural complexity as a cheap diagnostic for
// progress logging (see SPEC_FULL.md §4.1 supplement): it is the number of
// distinct per-variable cofactors discovered while walking every index.
// BDD nodes are canonical, so a rudd.Node value stands for exactly one
// Boolean function; counting distinct values visited this way is not the
// manager's own internal shared-node count, only a deterministic proxy
// for it, since this package has no primitive that reports that count
// directly (see package doc).
func (p *Predicate) Size() int {
	seen := map[rudd.Node]bool{}
	p.mgr.countNodes(p.node, 0, seen)
	return len(seen)
}

func (m *Manager) countNodes(n rudd.Node, i int, seen map[rudd.Node]bool) {
	if seen[n] {
		return
	}
	seen[n] = true
	if i == m.idx.Width() {
		return
	}
	hi := m.bdd.Restrict(n, m.bdd.Ithvar(i))
	lo := m.bdd.Restrict(n, m.bdd.NIthvar(i))
	m.countNodes(hi, i+1, seen)
	m.countNodes(lo, i+1, seen)
}

// SuspendReordering and EnableReordering bracket cube enumeration and
// first-cube extraction per spec.md §5's reordering discipline. rudd is a
// static variable-order BDD port (see other_examples' buddy.go tables
// implementation, which has no reorder machinery) and exposes no dynamic
// reordering to suspend, so these are a documented no-op that only keeps
// the nesting-safe bookkeeping alive -- harmless against this backend, and
// ready to do real work again if a future BDD backend adds reordering.
// EnableReordering must be called exactly once for every SuspendReordering
// call, including on error paths.
func (m *Manager) SuspendReordering() {
	m.reorderDepth++
}

// EnableReordering undoes one SuspendReordering call.
func (m *Manager) EnableReordering() {
	if m.reorderDepth == 0 {
		return
	}
	m.reorderDepth--
}

// EnumerateCubes iterates over the cubes comprising p, calling visit for
// each. It walks every variable index in order, cofactoring p on that
// variable and collapsing a run into a single don't-care position once
// neither branch depends on it, so don't-cares are preserved in the
// emitted cubes rather than expanded into every concrete assignment.
// Reordering is suspended for the duration of the iteration and
// re-enabled on completion or early exit (spec.md §4.1), including when
// visit returns false to stop early or when p has no satisfying cubes.
func (p *Predicate) EnumerateCubes(visit func(Cube) bool) {
	p.mgr.SuspendReordering()
	defer p.mgr.EnableReordering()

	width := p.mgr.idx.Width()
	cube := make(Cube, width)
	for i := range cube {
		cube[i] = DontCare
	}
	p.mgr.enumerate(p.node, 0, cube, visit)
}

func (m *Manager) enumerate(n rudd.Node, i int, cube Cube, visit func(Cube) bool) bool {
	if n == m.bdd.False() {
		return true
	}
	if i == m.idx.Width() {
		return visit(append(Cube(nil), cube...))
	}
	hi := m.bdd.Restrict(n, m.bdd.Ithvar(i))
	lo := m.bdd.Restrict(n, m.bdd.NIthvar(i))
	if hi == lo {
		cube[i] = DontCare
		return m.enumerate(hi, i+1, cube, visit)
	}
	cube[i] = One
	if !m.enumerate(hi, i+1, cube, visit) {
		return false
	}
	cube[i] = Zero
	return m.enumerate(lo, i+1, cube, visit)
}

// FirstCube returns one satisfying cube of p (the BDD layer's
// "first cube", spec.md §4.5), deterministic with respect to BDD variable
// order, and false if p is unsatisfiable. It greedily cofactors toward the
// One branch at each index when that branch is satisfiable, else the Zero
// branch, else (when neither branch depends on the variable) either one,
// leaving that position don't-care. Reordering is suspended around the
// extraction for the same reason as EnumerateCubes.
func (p *Predicate) FirstCube() (Cube, bool) {
	if p.IsFalse() {
		return nil, false
	}
	p.mgr.SuspendReordering()
	defer p.mgr.EnableReordering()

	width := p.mgr.idx.Width()
	cube := make(Cube, width)
	n := p.node
	for i := 0; i < width; i++ {
		hi := p.mgr.bdd.Restrict(n, p.mgr.bdd.Ithvar(i))
		lo := p.mgr.bdd.Restrict(n, p.mgr.bdd.NIthvar(i))
		switch {
		case hi == lo:
			cube[i] = DontCare
			n = hi
		case hi != p.mgr.bdd.False():
			cube[i] = One
			n = hi
		default:
			cube[i] = Zero
			n = lo
		}
	}
	return cube, true
}

// IsFalse and IsTrue test against the manager's constants, used by the
// realizability check and the strategy builder's empty-candidate
// fallbacks (spec.md §4.5).
func (p *Predicate) IsFalse() bool { return p.node == p.mgr.bdd.False() }
func (p *Predicate) IsTrue() bool  { return p.node == p.mgr.bdd.True() }

// Err returns any sticky allocation or internal error the BDD layer has
// recorded, or nil. The BuDDy-derived backend this package wraps signals
// unrecoverable failures (running out of nodes, a corrupt variable map)
// by setting an internal error field rather than returning one from every
// call, following the C library's error-by-side-channel convention; the
// fixpoint engine polls this between rounds so such a failure surfaces as
// a FixpointError instead of silently producing a wrong answer.
func (m *Manager) Err() error {
	return m.bdd.Error()
}
