package predicate

import (
	"testing"

	"github.com/dathath/gr1c-go/internal/varindex"
)

func newTestManager(t *testing.T) (*Manager, *varindex.Index) {
	t.Helper()
	idx, err := varindex.New([]string{"e"}, []string{"a", "b"})
	if err != nil {
		t.Fatalf("varindex.New: %v", err)
	}
	m, err := NewManager(idx)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m, idx
}

func TestCompileConstants(t *testing.T) {
	m, _ := newTestManager(t)
	tt, err := m.Compile(Const(true))
	if err != nil {
		t.Fatalf("Compile(true): %v", err)
	}
	defer tt.Release()
	if !tt.IsTrue() {
		t.Errorf("expected True() predicate")
	}

	ff, err := m.Compile(Const(false))
	if err != nil {
		t.Fatalf("Compile(false): %v", err)
	}
	defer ff.Release()
	if !ff.IsFalse() {
		t.Errorf("expected False() predicate")
	}
}

func TestCompileUnknownVariable(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.Compile(Variable("nope", false))
	if err == nil {
		t.Fatalf("expected PredicateError for unknown variable")
	}
}

func TestCompileMalformedTree(t *testing.T) {
	m, _ := newTestManager(t)
	if _, err := m.Compile(And(Variable("a", false), nil)); err == nil {
		t.Fatalf("expected error for missing operand")
	}
	if _, err := m.Compile(Not(nil)); err == nil {
		t.Fatalf("expected error for missing not operand")
	}
}

func TestAndOrNotEval(t *testing.T) {
	m, idx := newTestManager(t)
	a, err := m.Compile(Variable("a", false))
	if err != nil {
		t.Fatalf("compile a: %v", err)
	}
	defer a.Release()
	b, err := m.Compile(Variable("b", false))
	if err != nil {
		t.Fatalf("compile b: %v", err)
	}
	defer b.Release()

	and := a.And(b)
	defer and.Release()

	width := idx.Width()
	cube := make(Cube, width)
	for i := range cube {
		cube[i] = DontCare
	}
	cube[idx.Unprimed("a")] = One
	cube[idx.Unprimed("b")] = One
	if !and.Eval(cube) {
		t.Errorf("expected a&&b true at a=1,b=1")
	}
	cube[idx.Unprimed("b")] = Zero
	if and.Eval(cube) {
		t.Errorf("expected a&&b false at a=1,b=0")
	}

	or := a.Or(b)
	defer or.Release()
	if !or.Eval(cube) {
		t.Errorf("expected a||b true at a=1,b=0")
	}
	notB := b.Not()
	defer notB.Release()
	if !notB.Eval(cube) {
		t.Errorf("expected !b true at b=0")
	}
}

func TestSubstitutePrimed(t *testing.T) {
	m, idx := newTestManager(t)
	aPrime, err := m.Compile(Variable("a", true))
	if err != nil {
		t.Fatalf("compile a': %v", err)
	}
	defer aPrime.Release()

	sub := aPrime.SubstitutePrimed()
	defer sub.Release()

	width := idx.Width()
	cube := make(Cube, width)
	for i := range cube {
		cube[i] = DontCare
	}
	cube[idx.Unprimed("a")] = One
	if !sub.Eval(cube) {
		t.Errorf("expected substitute_primed(a') to equal a, true when a=1")
	}
}

func TestExistsForall(t *testing.T) {
	m, idx := newTestManager(t)
	a, _ := m.Compile(Variable("a", false))
	defer a.Release()
	b, _ := m.Compile(Variable("b", false))
	defer b.Release()
	and := a.And(b)
	defer and.Release()

	exA := and.Exists([]int{idx.Unprimed("a")})
	defer exA.Release()

	width := idx.Width()
	cube := make(Cube, width)
	for i := range cube {
		cube[i] = DontCare
	}
	cube[idx.Unprimed("b")] = One
	if !exA.Eval(cube) {
		t.Errorf("expected exists(a, a&&b) to hold whenever b=1")
	}

	allA := and.Forall([]int{idx.Unprimed("a")})
	defer allA.Release()
	if !allA.IsFalse() {
		t.Errorf("expected forall(a, a&&b) to be false")
	}
}

func TestCofactor(t *testing.T) {
	m, idx := newTestManager(t)
	a, _ := m.Compile(Variable("a", false))
	defer a.Release()
	b, _ := m.Compile(Variable("b", false))
	defer b.Release()
	and := a.And(b)
	defer and.Release()

	width := idx.Width()
	fixA := make(Cube, width)
	for i := range fixA {
		fixA[i] = DontCare
	}
	fixA[idx.Unprimed("a")] = One

	cof := and.Cofactor(fixA)
	defer cof.Release()
	if !cof.Equal(b) {
		t.Errorf("expected cofactor(a&&b, a=1) to equal b")
	}
}
