// Package strategy implements the strategy builder (spec.md §4.5): forward
// exploration from the enumerated initial states, tracking each state's
// goal-tracking mode, that turns the winning set and level-set ladders
// produced by package fixpoint into a strategy automaton.
package strategy

import (
	"github.com/dathath/gr1c-go/internal/automaton"
	"github.com/dathath/gr1c-go/internal/diagnostics"
	"github.com/dathath/gr1c-go/internal/oddball"
	"github.com/dathath/gr1c-go/internal/predicate"
	"github.com/dathath/gr1c-go/internal/realizability"
	"github.com/dathath/gr1c-go/internal/varindex"
)

// workItem is a pending stack entry: a node awaiting mode advancement and
// transition enumeration, identified by the mode it was pushed under
// (loop_mode in spec.md §4.5) and its concrete state vector.
type workItem struct {
	mode  int
	state automaton.State
}

// Builder holds everything the forward exploration needs: the transition
// relations, the winning set, and the per-sys-goal level ladders. None of
// the predicates it holds are owned by Builder; the caller keeps them
// alive (and releases them) for the duration of Build.
type Builder struct {
	idx      *varindex.Index
	envTrans *predicate.Predicate
	sysTrans *predicate.Predicate
	w        *predicate.Predicate
	y        [][]*predicate.Predicate
	log      *diagnostics.Log
}

// Build runs the strategy builder to completion and returns the resulting
// automaton store. envInit, sysInit, envTrans, sysTrans, w, and every
// predicate in y are borrowed; Build releases none of them. log may be nil.
func Build(idx *varindex.Index, envTrans, sysTrans, envInit, sysInit, w *predicate.Predicate, y [][]*predicate.Predicate, regime realizability.Regime, log *diagnostics.Log) (*automaton.Store, error) {
	b := &Builder{idx: idx, envTrans: envTrans, sysTrans: sysTrans, w: w, y: y, log: log}

	initStates, err := b.initialStates(envInit, sysInit, regime)
	if err != nil {
		return nil, err
	}

	store := automaton.NewStore()
	stack := make([]workItem, 0, len(initStates))
	for _, st := range initStates {
		store.Insert(0, st)
		stack = append(stack, workItem{mode: 0, state: st})
	}

	for len(stack) > 0 {
		next := make([]workItem, 0, len(stack))
		for len(stack) > 0 {
			item := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if err := b.commitAndExpand(item, store, &next); err != nil {
				return nil, err
			}
		}
		stack = next
	}

	if b.log != nil {
		b.log.Infof("strategy", "built automaton with %d nodes", store.Size())
	}
	return store, nil
}

// initialStates enumerates every concrete state vector satisfying
// env_init && sys_init (AllSysInit) or env_init && sys_init && W
// (ExistSysInit), expanding don't-care cubes via the oddball odometer.
func (b *Builder) initialStates(envInit, sysInit *predicate.Predicate, regime realizability.Regime) ([]automaton.State, error) {
	init := envInit.And(sysInit)
	defer init.Release()

	pred := init
	if regime == realizability.ExistSysInit {
		pred = init.And(b.w)
		defer pred.Release()
	}

	n := b.idx.N()
	seen := map[string]bool{}
	var states []automaton.State
	pred.EnumerateCubes(func(c predicate.Cube) bool {
		sub := make(predicate.Cube, n)
		copy(sub, c[:n])
		for _, expanded := range oddball.ExpandAll(sub) {
			st := cubeToState(expanded)
			key := st.String()
			if !seen[key] {
				seen[key] = true
				states = append(states, st)
			}
		}
		return true
	})
	return states, nil
}

// commitAndExpand performs mode advancement and the three-case strategy
// commit (spec.md §4.5) for one popped work item, then enumerates its
// transitions if the committed node isn't already expanded.
func (b *Builder) commitAndExpand(item workItem, store *automaton.Store, next *[]workItem) error {
	mode, j, err := b.advanceMode(item.mode, item.state)
	if err != nil {
		return err
	}

	if node, ok := store.Find(mode, item.state); ok {
		if len(node.Out) > 0 {
			return nil
		}
		return b.expandNode(node, mode, j, store, next)
	}

	if oldNode, ok := store.Find(item.mode, item.state); ok && item.mode != mode {
		newNode := store.Insert(mode, item.state)
		store.Delete(oldNode, newNode)
		return b.expandNode(newNode, mode, j, store, next)
	}

	newNode := store.Insert(mode, item.state)
	return b.expandNode(newNode, mode, j, store, next)
}

// advanceMode finds the smallest j with eval(Y[mode][j], state) = true,
// rotating mode starting from loopMode through every sys goal at most once.
func (b *Builder) advanceMode(loopMode int, state automaton.State) (mode, j int, err error) {
	numGoals := len(b.y)
	cube := stateToCube(b.idx, state)
	mode = loopMode
	for i := 0; i < numGoals; i++ {
		ladder := b.y[mode]
		for jj, level := range ladder {
			if level.Eval(cube) {
				return mode, jj, nil
			}
		}
		mode = (mode + 1) % numGoals
	}
	return 0, 0, &InvariantViolation{Reason: "state " + state.String() + " outside W after a full mode rotation"}
}

// expandNode enumerates every admissible environment successor move from
// node's state, builds the step-closer candidate for each, picks a system
// successor, and wires the resulting edge (spec.md §4.5 "Transition
// enumeration").
func (b *Builder) expandNode(node *automaton.Node, mode, j int, store *automaton.Store, next *[]workItem) error {
	moves, err := b.envMoves(node.State)
	if err != nil {
		return err
	}

	target := j
	if j > 0 {
		target = j - 1
	}
	yTarget := b.y[mode][target]

	for _, mv := range moves {
		succState, err := b.stepCloser(node.State, mv, yTarget)
		if err != nil {
			return err
		}

		nextMode := mode
		if j == 1 {
			nextMode = (mode + 1) % len(b.y)
		}

		succNode, existed := store.Find(nextMode, succState)
		if !existed {
			succNode = store.Insert(nextMode, succState)
			*next = append(*next, workItem{mode: nextMode, state: succState})
		}
		store.AppendEdge(node, succNode)
	}
	return nil
}

// envMoves enumerates the distinct admissible environment successors from
// state: the concrete expansions of the env' positions of envTrans
// cofactored by state. A specification with zero environment variables
// yields exactly one (empty) move, so every node still gets exactly one
// outgoing edge per system response.
func (b *Builder) envMoves(state automaton.State) ([]predicate.Cube, error) {
	stateCube := stateToCube(b.idx, state)
	cofactored := b.envTrans.Cofactor(stateCube)
	defer cofactored.Release()

	if cofactored.IsFalse() {
		return nil, &InvariantViolation{Reason: "no admissible environment move from state " + state.String()}
	}

	n := b.idx.N()
	numEnv := b.idx.NumEnv()
	width := b.idx.Width()

	seen := map[string]bool{}
	var moves []predicate.Cube
	cofactored.EnumerateCubes(func(c predicate.Cube) bool {
		sub := make(predicate.Cube, numEnv)
		copy(sub, c[n:n+numEnv])
		for _, expanded := range oddball.ExpandAll(sub) {
			full := predicate.NewCube(width)
			copy(full[n:n+numEnv], expanded)
			key := cubeKey(expanded)
			if !seen[key] {
				seen[key] = true
				moves = append(moves, full)
			}
		}
		return true
	})
	return moves, nil
}

// stepCloser builds the step-closer candidate for one environment move and
// returns the chosen system successor's full state vector, falling back to
// "stay in W" and finally declaring a fatal losing state per spec.md §4.5.
func (b *Builder) stepCloser(state automaton.State, envMove predicate.Cube, yTarget *predicate.Predicate) (automaton.State, error) {
	restrict := combineCube(b.idx, state, envMove)

	wPrimed := b.w.SubstitutePrimed()
	defer wPrimed.Release()

	fallback := b.sysTrans.And(wPrimed)
	defer fallback.Release()

	targetPrimed := yTarget.SubstitutePrimed()
	defer targetPrimed.Release()

	cand := fallback.And(targetPrimed)
	defer cand.Release()

	cof := cand.Cofactor(restrict)
	defer cof.Release()

	if !cof.IsFalse() {
		return pickSysSuccessor(b.idx, cof)
	}

	cof2 := fallback.Cofactor(restrict)
	defer cof2.Release()
	if cof2.IsFalse() {
		return nil, &InvariantViolation{Reason: "unexpected losing state: no successor keeps W from " + state.String()}
	}
	return pickSysSuccessor(b.idx, cof2)
}

// pickSysSuccessor extracts the successor state vector (e', s') from the
// primed half of p's first cube, defaulting any residual don't-care
// position to false -- deterministic with respect to BDD variable order
// (spec.md §4.5).
func pickSysSuccessor(idx *varindex.Index, p *predicate.Predicate) (automaton.State, error) {
	cube, ok := p.FirstCube()
	if !ok {
		return nil, &InvariantViolation{Reason: "no satisfying cube for a required successor"}
	}
	n := idx.N()
	state := make(automaton.State, n)
	for i := 0; i < n; i++ {
		state[i] = cube[n+i] == predicate.One
	}
	return state, nil
}

func stateToCube(idx *varindex.Index, state automaton.State) predicate.Cube {
	c := predicate.NewCube(idx.Width())
	for i, v := range state {
		if v {
			c[i] = predicate.One
		} else {
			c[i] = predicate.Zero
		}
	}
	return c
}

// combineCube builds the restrict cube fixing the unprimed state and the
// primed environment move, leaving the primed system variables free so the
// step-closer candidate can still be cofactored down to a system choice.
func combineCube(idx *varindex.Index, state automaton.State, envMove predicate.Cube) predicate.Cube {
	c := stateToCube(idx, state)
	for _, i := range idx.EnvMaskPrimed() {
		c[i] = envMove[i]
	}
	return c
}

func cubeToState(c predicate.Cube) automaton.State {
	st := make(automaton.State, len(c))
	for i, v := range c {
		st[i] = v == predicate.One
	}
	return st
}

func cubeKey(c predicate.Cube) string {
	b := make([]byte, len(c))
	for i, v := range c {
		b[i] = byte(v) + 2
	}
	return string(b)
}
