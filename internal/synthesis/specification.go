package synthesis

import (
	"github.com/dathath/gr1c-go/internal/automaton"
	"github.com/dathath/gr1c-go/internal/cpre"
	"github.com/dathath/gr1c-go/internal/diagnostics"
	"github.com/dathath/gr1c-go/internal/fixpoint"
	"github.com/dathath/gr1c-go/internal/predicate"
	"github.com/dathath/gr1c-go/internal/realizability"
	"github.com/dathath/gr1c-go/internal/strategy"
	"github.com/dathath/gr1c-go/internal/varindex"
)

// Specification is the explicit value spec.md §9 asks for in place of the
// source's process-wide mutable specification slots: every field the
// fixpoint engine and strategy builder need, gathered up front instead of
// read through package-level state.
type Specification struct {
	EnvVars, SysVars   []string
	EnvInit, SysInit   *predicate.Tree
	EnvTrans, SysTrans []*predicate.Tree // AND-merged sequences of conjuncts (spec.md §6)
	EnvGoals, SysGoals []*predicate.Tree
	Regime             realizability.Regime
	Verbose            bool
}

// Result is everything Synthesize produces: the verdict and, when
// realizable, the strategy automaton and the diagnostic log accumulated
// along the way. Log is never nil. Store is nil when Realizable is false;
// Unrealizable is nil when Realizable is true.
type Result struct {
	Realizable   bool
	Store        *automaton.Store
	Unrealizable *Unrealizable
	Log          *diagnostics.Log
}

// Synthesize runs the full pipeline: compile the specification's
// predicate trees, build the CPre operator, evaluate the GR(1) fixpoint,
// check realizability, and -- if realizable -- build the strategy
// automaton. Every intermediate predicate handle is released before
// return on every path, including errors.
func Synthesize(spec *Specification) (*Result, error) {
	log := diagnostics.NewLog()
	if spec.Verbose {
		log.Infof("synthesis", "%d env vars, %d sys vars, %d sys goals, %d env goals",
			len(spec.EnvVars), len(spec.SysVars), len(spec.SysGoals), len(spec.EnvGoals))
	}

	if len(spec.SysGoals) == 0 {
		return nil, newParseError("Synthesize", "specification declares zero system goals")
	}

	idx, err := varindex.New(spec.EnvVars, spec.SysVars)
	if err != nil {
		return nil, newParseError("Synthesize", "build variable index: %w", err)
	}

	mgr, err := predicate.NewManager(idx)
	if err != nil {
		return nil, err
	}

	compiled, err := compileAll(mgr, spec)
	if err != nil {
		compiled.release()
		return nil, err
	}

	op := cpre.New(idx, compiled.envTrans, compiled.sysTrans)
	var fpLog *diagnostics.Log // fixpoint progress is logged only when verbose
	if spec.Verbose {
		fpLog = log
	}
	fpResult, err := fixpoint.Compute(mgr, op, compiled.sysGoals, compiled.envGoals, fpLog)
	if err != nil {
		compiled.release()
		return nil, err
	}

	w, ok := realizability.Check(idx, spec.Regime, compiled.envInit, compiled.sysInit, fpResult.W)
	if !ok {
		log.Infof("synthesis", "unrealizable under regime %s", spec.Regime)
		fpResult.Release()
		compiled.release()
		return &Result{
			Realizable:   false,
			Unrealizable: &Unrealizable{Regime: spec.Regime.String()},
			Log:          log,
		}, nil
	}

	store, err := strategy.Build(idx, compiled.envTrans, compiled.sysTrans, compiled.envInit, compiled.sysInit, w, fpResult.Y, spec.Regime, log)
	w.Release()
	fpResult.Release()
	compiled.release()
	if err != nil {
		return nil, err
	}

	log.Infof("synthesis", "realizable; strategy has %d nodes", store.Size())
	return &Result{Realizable: true, Store: store, Log: log}, nil
}

// compiledSpec holds every predicate Synthesize compiles from spec's parse
// trees, so it can be released as a unit on any exit path.
type compiledSpec struct {
	envInit, sysInit   *predicate.Predicate
	envTrans, sysTrans *predicate.Predicate
	envGoals, sysGoals []*predicate.Predicate
}

func (c *compiledSpec) release() {
	if c == nil {
		return
	}
	c.envInit.Release()
	c.sysInit.Release()
	c.envTrans.Release()
	c.sysTrans.Release()
	for _, g := range c.envGoals {
		g.Release()
	}
	for _, g := range c.sysGoals {
		g.Release()
	}
}

func compileAll(mgr *predicate.Manager, spec *Specification) (*compiledSpec, error) {
	c := &compiledSpec{}
	var err error

	if c.envInit, err = compileOrTrue(mgr, spec.EnvInit); err != nil {
		return c, err
	}
	if c.sysInit, err = compileOrTrue(mgr, spec.SysInit); err != nil {
		return c, err
	}
	if c.envTrans, err = mgr.Compile(predicate.AndAll(spec.EnvTrans)); err != nil {
		return c, err
	}
	if c.sysTrans, err = mgr.Compile(predicate.AndAll(spec.SysTrans)); err != nil {
		return c, err
	}
	for _, tree := range spec.EnvGoals {
		g, err := mgr.Compile(tree)
		if err != nil {
			return c, err
		}
		c.envGoals = append(c.envGoals, g)
	}
	for _, tree := range spec.SysGoals {
		g, err := mgr.Compile(tree)
		if err != nil {
			return c, err
		}
		c.sysGoals = append(c.sysGoals, g)
	}
	return c, nil
}

func compileOrTrue(mgr *predicate.Manager, tree *predicate.Tree) (*predicate.Predicate, error) {
	if tree == nil {
		return mgr.True(), nil
	}
	return mgr.Compile(tree)
}
