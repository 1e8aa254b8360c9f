package synthesis

import (
	"testing"

	"github.com/dathath/gr1c-go/internal/predicate"
	"github.com/dathath/gr1c-go/internal/realizability"
)

// TestSynthesizeS1TrivialTrue exercises boundary scenario S1 end to end
// through the public entry point.
func TestSynthesizeS1TrivialTrue(t *testing.T) {
	spec := &Specification{
		SysVars:  []string{"a"},
		SysGoals: []*predicate.Tree{predicate.Variable("a", false)},
	}
	result, err := Synthesize(spec)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if !result.Realizable {
		t.Fatalf("expected realizable")
	}
	if result.Store.Size() != 2 {
		t.Fatalf("expected 2 strategy nodes, got %d", result.Store.Size())
	}
}

// TestSynthesizeS2Unrealizable exercises boundary scenario S2: sys_init
// requires a, but sys_trans forces a to stay false forever, so no state
// satisfying sys_init is ever winning for the goal "a".
func TestSynthesizeS2Unrealizable(t *testing.T) {
	spec := &Specification{
		SysVars:  []string{"a"},
		SysInit:  predicate.Variable("a", false),
		SysTrans: []*predicate.Tree{predicate.Not(predicate.Variable("a", true))},
		SysGoals: []*predicate.Tree{predicate.Variable("a", false)},
	}
	result, err := Synthesize(spec)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if result.Realizable {
		t.Fatalf("expected unrealizable")
	}
	if result.Store != nil {
		t.Errorf("expected no strategy store when unrealizable")
	}
	if result.Unrealizable == nil {
		t.Errorf("expected a populated Unrealizable verdict")
	}
}

// TestSynthesizeS3TwoGoalAlternation exercises boundary scenario S3: two
// independent sys goals with no transition constraints, so the builder's
// mode-advancement ladder must rotate between both goals rather than
// stalling on the first.
func TestSynthesizeS3TwoGoalAlternation(t *testing.T) {
	spec := &Specification{
		SysVars: []string{"a", "b"},
		SysGoals: []*predicate.Tree{
			predicate.Variable("a", false),
			predicate.Variable("b", false),
		},
	}
	result, err := Synthesize(spec)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if !result.Realizable {
		t.Fatalf("expected realizable")
	}
	if result.Store.Size() == 0 {
		t.Fatalf("expected a non-empty strategy automaton")
	}
	sawMode1 := false
	for _, n := range result.Store.Nodes() {
		if n.Mode == 1 {
			sawMode1 = true
		}
	}
	if !sawMode1 {
		t.Errorf("expected the strategy to reach mode 1 (second sys goal)")
	}
}

func TestSynthesizeZeroSysGoalsRejected(t *testing.T) {
	spec := &Specification{SysVars: []string{"a"}}
	if _, err := Synthesize(spec); err == nil {
		t.Fatalf("expected an error for zero system goals")
	}
}

// TestSynthesizeExistRegime exercises the ExistSysInit regime through the
// public entry point.
func TestSynthesizeExistRegime(t *testing.T) {
	spec := &Specification{
		EnvVars:  []string{"e"},
		SysVars:  []string{"a"},
		SysGoals: []*predicate.Tree{predicate.Variable("a", false)},
		Regime:   realizability.ExistSysInit,
	}
	result, err := Synthesize(spec)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if !result.Realizable {
		t.Fatalf("expected realizable")
	}
}
