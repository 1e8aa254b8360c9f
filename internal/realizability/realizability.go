// Package realizability implements the two realizability regimes of
// spec.md §4.4.
package realizability

import (
	"github.com/dathath/gr1c-go/internal/predicate"
	"github.com/dathath/gr1c-go/internal/varindex"
)

// Regime selects how the initial-condition predicates are related to the
// winning set.
type Regime int

const (
	// AllSysInit: realizable iff every state satisfying both initial
	// predicates is winning.
	AllSysInit Regime = iota
	// ExistSysInit: realizable iff every admissible environment initial
	// valuation has some winning system initial valuation.
	ExistSysInit
)

func (r Regime) String() string {
	switch r {
	case AllSysInit:
		return "all-sys-init"
	case ExistSysInit:
		return "exist-sys-init"
	default:
		return "unknown"
	}
}

// Check decides realizability per spec.md §4.4. On realizable, it returns
// a new handle on w (the caller must Release it independently of w) and
// true; on unrealizable, nil and false. None of envInit, sysInit, or w are
// consumed.
func Check(idx *varindex.Index, regime Regime, envInit, sysInit, w *predicate.Predicate) (*predicate.Predicate, bool) {
	switch regime {
	case AllSysInit:
		return checkAllSysInit(envInit, sysInit, w)
	default:
		return checkExistSysInit(idx, envInit, sysInit, w)
	}
}

// checkAllSysInit implements: env_init && sys_init => W.
func checkAllSysInit(envInit, sysInit, w *predicate.Predicate) (*predicate.Predicate, bool) {
	init := envInit.And(sysInit)
	defer init.Release()

	imp := init.Implies(w)
	defer imp.Release()

	if !imp.IsTrue() {
		return nil, false
	}
	return w.Ref(), true
}

// checkExistSysInit implements:
//
//	forall_env ( !env_init || exists_sys ( sys_init && W ) ) == true
func checkExistSysInit(idx *varindex.Index, envInit, sysInit, w *predicate.Predicate) (*predicate.Predicate, bool) {
	inner := sysInit.And(w)
	defer inner.Release()

	exSys := inner.Exists(idx.SysMask())
	defer exSys.Release()

	notEnvInit := envInit.Not()
	defer notEnvInit.Release()

	disj := notEnvInit.Or(exSys)
	defer disj.Release()

	forallEnv := disj.Forall(idx.EnvMask())
	defer forallEnv.Release()

	if !forallEnv.IsTrue() {
		return nil, false
	}
	return w.Ref(), true
}
