package strategy

import (
	"testing"

	"github.com/dathath/gr1c-go/internal/automaton"
	"github.com/dathath/gr1c-go/internal/cpre"
	"github.com/dathath/gr1c-go/internal/fixpoint"
	"github.com/dathath/gr1c-go/internal/predicate"
	"github.com/dathath/gr1c-go/internal/realizability"
	"github.com/dathath/gr1c-go/internal/varindex"
)

// TestBuildS1TrivialTrue exercises boundary scenario S1 (spec.md §8): no
// env vars, one sys var a, everything true, sys_goals = [a]. Expect a
// two-node strategy, (0,[0]) and (0,[1]), each with exactly one outgoing
// edge (no env vars means exactly one environment move per node).
func TestBuildS1TrivialTrue(t *testing.T) {
	idx, err := varindex.New(nil, []string{"a"})
	if err != nil {
		t.Fatalf("varindex.New: %v", err)
	}
	mgr, err := predicate.NewManager(idx)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	envTrans := mgr.True()
	defer envTrans.Release()
	sysTrans := mgr.True()
	defer sysTrans.Release()
	op := cpre.New(idx, envTrans, sysTrans)

	sysGoal, err := mgr.Compile(predicate.Variable("a", false))
	if err != nil {
		t.Fatalf("compile sys goal: %v", err)
	}
	defer sysGoal.Release()

	result, err := fixpoint.Compute(mgr, op, []*predicate.Predicate{sysGoal}, nil, nil)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	defer result.Release()

	envInit := mgr.True()
	defer envInit.Release()
	sysInit := mgr.True()
	defer sysInit.Release()

	w, ok := realizability.Check(idx, realizability.AllSysInit, envInit, sysInit, result.W)
	if !ok {
		t.Fatalf("expected realizable")
	}
	defer w.Release()

	store, err := Build(idx, envTrans, sysTrans, envInit, sysInit, w, result.Y, realizability.AllSysInit, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if store.Size() != 2 {
		t.Fatalf("expected 2 strategy nodes, got %d", store.Size())
	}
	for _, expect := range []automaton.State{{false}, {true}} {
		n, ok := store.Find(0, expect)
		if !ok {
			t.Fatalf("expected a node for state %v", expect)
		}
		if len(n.Out) != 1 {
			t.Errorf("expected exactly one outgoing edge for state %v (no env vars), got %d", expect, len(n.Out))
		}
	}
}

// TestBuildNoEnvVarsSingleEdgePerNode generalizes the S1 determinism check
// (spec.md §9's "get_env_moves emits one move when the odometer has
// nothing to expand") to two sys vars, two sys goals, and a nontrivial
// initial condition (transitions stay true).
func TestBuildNoEnvVarsSingleEdgePerNode(t *testing.T) {
	idx, err := varindex.New(nil, []string{"a", "b"})
	if err != nil {
		t.Fatalf("varindex.New: %v", err)
	}
	mgr, err := predicate.NewManager(idx)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	envTrans := mgr.True()
	defer envTrans.Release()
	sysTrans := mgr.True()
	defer sysTrans.Release()
	op := cpre.New(idx, envTrans, sysTrans)

	goalA, err := mgr.Compile(predicate.Variable("a", false))
	if err != nil {
		t.Fatalf("compile goal a: %v", err)
	}
	defer goalA.Release()
	goalB, err := mgr.Compile(predicate.Variable("b", false))
	if err != nil {
		t.Fatalf("compile goal b: %v", err)
	}
	defer goalB.Release()

	result, err := fixpoint.Compute(mgr, op, []*predicate.Predicate{goalA, goalB}, nil, nil)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	defer result.Release()

	notA, err := mgr.Compile(predicate.Not(predicate.Variable("a", false)))
	if err != nil {
		t.Fatalf("compile !a: %v", err)
	}
	defer notA.Release()
	notB, err := mgr.Compile(predicate.Not(predicate.Variable("b", false)))
	if err != nil {
		t.Fatalf("compile !b: %v", err)
	}
	defer notB.Release()
	sysInit := notA.And(notB)
	defer sysInit.Release()
	envInit := mgr.True()
	defer envInit.Release()

	w, ok := realizability.Check(idx, realizability.AllSysInit, envInit, sysInit, result.W)
	if !ok {
		t.Fatalf("expected realizable")
	}
	defer w.Release()

	store, err := Build(idx, envTrans, sysTrans, envInit, sysInit, w, result.Y, realizability.AllSysInit, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, n := range store.Nodes() {
		if len(n.Out) != 1 {
			t.Errorf("node %v: expected exactly one outgoing edge with no env vars, got %d", n.State, len(n.Out))
		}
	}
}

// TestBuildS4EnvGoalEscapeRespectsSysTrans exercises boundary scenario S4
// (spec.md §8): one env var e, one sys var s, sys_trans = s' <-> e. Every
// strategy edge must be a transition sysTrans actually allows.
func TestBuildS4EnvGoalEscapeRespectsSysTrans(t *testing.T) {
	idx, err := varindex.New([]string{"e"}, []string{"s"})
	if err != nil {
		t.Fatalf("varindex.New: %v", err)
	}
	mgr, err := predicate.NewManager(idx)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	envTrans := mgr.True()
	defer envTrans.Release()

	sysTransTree := predicate.Iff(predicate.Variable("s", true), predicate.Variable("e", false))
	sysTrans, err := mgr.Compile(sysTransTree)
	if err != nil {
		t.Fatalf("compile sys_trans: %v", err)
	}
	defer sysTrans.Release()

	op := cpre.New(idx, envTrans, sysTrans)

	sysGoal, err := mgr.Compile(predicate.Variable("s", false))
	if err != nil {
		t.Fatalf("compile sys goal: %v", err)
	}
	defer sysGoal.Release()
	envGoal, err := mgr.Compile(predicate.Variable("e", false))
	if err != nil {
		t.Fatalf("compile env goal: %v", err)
	}
	defer envGoal.Release()

	result, err := fixpoint.Compute(mgr, op, []*predicate.Predicate{sysGoal}, []*predicate.Predicate{envGoal}, nil)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	defer result.Release()

	envInit := mgr.True()
	defer envInit.Release()
	sysInit := mgr.True()
	defer sysInit.Release()

	w, ok := realizability.Check(idx, realizability.AllSysInit, envInit, sysInit, result.W)
	if !ok {
		t.Fatalf("expected realizable")
	}
	defer w.Release()

	store, err := Build(idx, envTrans, sysTrans, envInit, sysInit, w, result.Y, realizability.AllSysInit, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if store.Size() == 0 {
		t.Fatalf("expected a non-empty strategy")
	}

	byID := map[int]*automaton.Node{}
	for _, n := range store.Nodes() {
		byID[n.ID] = n
	}
	n := idx.N()
	for _, src := range byID {
		for _, outID := range src.Out {
			dst := byID[outID]
			cube := predicate.NewCube(idx.Width())
			for i, v := range src.State {
				if v {
					cube[i] = predicate.One
				} else {
					cube[i] = predicate.Zero
				}
			}
			for i, v := range dst.State {
				if v {
					cube[n+i] = predicate.One
				} else {
					cube[n+i] = predicate.Zero
				}
			}
			if !sysTrans.Eval(cube) {
				t.Errorf("edge %v -> %v violates sys_trans", src.State, dst.State)
			}
		}
	}
}
