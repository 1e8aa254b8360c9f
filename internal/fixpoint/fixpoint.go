// Package fixpoint evaluates the nested GR(1) mu-calculus formula
// (spec.md §4.3): the winning set W and, per system goal, the attractor
// level-set ladder preserved for strategy extraction.
package fixpoint

import (
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/dathath/gr1c-go/internal/cpre"
	"github.com/dathath/gr1c-go/internal/diagnostics"
	"github.com/dathath/gr1c-go/internal/predicate"
)

// Result is the fixpoint engine's two observable products (spec.md §4.3):
// the winning set W, and for each system goal i, the ladder
// Y[i][0..L_i-1].
type Result struct {
	W *predicate.Predicate
	Y [][]*predicate.Predicate
}

// Release releases W and every predicate retained in every ladder.
// Level ladders live until the strategy is complete (spec.md §3); once
// strategy extraction has consumed them, the caller releases the Result.
func (r *Result) Release() {
	if r == nil {
		return
	}
	r.W.Release()
	releaseLadders(r.Y)
}

func releaseLadders(ladders [][]*predicate.Predicate) {
	for _, ladder := range ladders {
		for _, y := range ladder {
			y.Release()
		}
	}
}

// Compute evaluates:
//
//	W = nu Z. AND_i  mu Y.  OR_j  nu X.  (sysGoal_i && CPre(Z)) || CPre(Y) || (!envGoal_j && CPre(X))
//
// in the standard nested order: outer greatest fixpoint over Z, middle
// least fixpoint over Y per system goal, innermost greatest fixpoint over
// X per environment goal. If envGoals is empty, a single trivial env goal
// (true) is synthesized first, reducing to the standard one-pair GR(1)
// case ("Initial env goal handling", spec.md §4.3). log may be nil.
func Compute(mgr *predicate.Manager, op *cpre.Operator, sysGoals, envGoals []*predicate.Predicate, log *diagnostics.Log) (*Result, error) {
	if len(sysGoals) == 0 {
		return nil, wrapf("Compute", "no system goals supplied")
	}
	if len(envGoals) == 0 {
		trivial := mgr.True()
		defer trivial.Release()
		envGoals = []*predicate.Predicate{trivial}
	}

	z := mgr.True()
	var ladders [][]*predicate.Predicate
	for round := 0; ; round++ {
		newLadders, conj, err := outerRound(mgr, op, sysGoals, envGoals, z, log, round)
		if err != nil {
			z.Release()
			releaseLadders(ladders)
			releaseLadders(newLadders)
			return nil, err
		}
		if log != nil {
			log.LogRound(diagnostics.INFO, "fixpoint.outer", round, "Z size estimate "+strconv.Itoa(conj.Size())+" (distinct cofactors)")
		}

		converged := conj.Equal(z)
		releaseLadders(ladders)
		ladders = newLadders
		z.Release()
		z = conj

		if fe := mgr.Err(); fe != nil {
			z.Release()
			releaseLadders(ladders)
			return nil, wrapf("Compute", "BDD layer failure at outer round %d: %w", round, fe)
		}
		if converged {
			break
		}
	}

	return &Result{W: z, Y: ladders}, nil
}

// outerRound computes, for the given approximation z of W, every sys
// goal's level-set ladder and their conjunction (the next Z candidate).
//
// The sys-goal term in both the ladder base case and the innermost GFP is
// sysGoal_i ∧ CPre(Z), not sysGoal_i ∧ Z: the spec.md §4.3 display formula
// has CPre(Z) in that slot, and only that version closes correctly under
// repeated rounds (CPre(W) = W forces the bare-Z reading to accept a state
// as winning just because it currently satisfies the goal, even when no
// move keeps it recurring -- boundary scenario S2 depends on this).
func outerRound(mgr *predicate.Manager, op *cpre.Operator, sysGoals, envGoals []*predicate.Predicate, z *predicate.Predicate, log *diagnostics.Log, round int) ([][]*predicate.Predicate, *predicate.Predicate, error) {
	cpreZ := op.CPre(z)
	defer cpreZ.Release()

	ladders := make([][]*predicate.Predicate, len(sysGoals))
	conj := mgr.True()
	for i, sysGoal := range sysGoals {
		ladder, yFinal, err := levelSet(mgr, op, sysGoal, envGoals, cpreZ, log, round, i)
		if err != nil {
			conj.Release()
			ladders[i] = ladder
			return ladders, nil, err
		}
		ladders[i] = ladder
		next := conj.And(yFinal)
		conj.Release()
		conj = next
	}
	return ladders, conj, nil
}

// levelSet computes the middle least fixpoint for one system goal:
// Y[0] = sysGoal && z; Y[k+1] = Y[k] || OR_j X_{i,j,k}; stop and drop the
// duplicate tail once Y[k+1] == Y[k] (spec.md §4.3).
func levelSet(mgr *predicate.Manager, op *cpre.Operator, sysGoal *predicate.Predicate, envGoals []*predicate.Predicate, z *predicate.Predicate, log *diagnostics.Log, round, goalIndex int) ([]*predicate.Predicate, *predicate.Predicate, error) {
	y := sysGoal.And(z)
	ladder := []*predicate.Predicate{y}

	for level := 0; ; level++ {
		disj, err := envDisjunction(mgr, op, sysGoal, z, y, envGoals, goalIndex, level)
		if err != nil {
			return ladder, nil, err
		}
		next := y.Or(disj)
		disj.Release()

		if next.Equal(y) {
			next.Release()
			break
		}
		ladder = append(ladder, next)
		y = next
	}

	if log != nil {
		log.LogRound(diagnostics.INFO, "fixpoint.middle", round,
			"sys-goal "+strconv.Itoa(goalIndex)+" ladder settled with L="+strconv.Itoa(len(ladder)))
	}
	return ladder, y, nil
}

// envDisjunction computes OR_j X_{i,j,k} across every environment goal.
// Each X_{i,j,k} is independent of the others, but the engine is
// specified as single-threaded and synchronous (spec.md §5) over a
// process-wide BDD manager singleton; errgroup.Group's SetLimit(1) gives
// us structured cancel-on-first-error semantics (one inner GFP's
// FixpointError aborts the rest) while still only ever running one
// goroutine against the shared manager at a time.
func envDisjunction(mgr *predicate.Manager, op *cpre.Operator, sysGoal, z, y *predicate.Predicate, envGoals []*predicate.Predicate, goalIndex, level int) (*predicate.Predicate, error) {
	results := make([]*predicate.Predicate, len(envGoals))
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(1)
	for j := range envGoals {
		j := j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			x, err := innerGFP(mgr, op, sysGoal, z, y, envGoals[j])
			if err != nil {
				return err
			}
			results[j] = x
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, r := range results {
			r.Release()
		}
		return nil, wrapf("envDisjunction", "sys-goal %d level %d: %w", goalIndex, level, err)
	}

	disj := mgr.False()
	for _, x := range results {
		next := disj.Or(x)
		disj.Release()
		x.Release()
		disj = next
	}
	return disj, nil
}

// innerGFP computes the innermost greatest fixpoint for one (sys goal,
// env goal, level) triple:
//
//	X = nu X. (sysGoal && z) || CPre(y) || (!envGoal && CPre(X))
func innerGFP(mgr *predicate.Manager, op *cpre.Operator, sysGoal, z, y, envGoal *predicate.Predicate) (*predicate.Predicate, error) {
	base := sysGoal.And(z)
	defer base.Release()
	cpreY := op.CPre(y)
	defer cpreY.Release()
	notEnv := envGoal.Not()
	defer notEnv.Release()

	x := mgr.True()
	for {
		cpreX := op.CPre(x)
		term3 := notEnv.And(cpreX)
		cpreX.Release()

		partial := base.Or(cpreY)
		next := partial.Or(term3)
		partial.Release()
		term3.Release()

		if fe := mgr.Err(); fe != nil {
			next.Release()
			x.Release()
			return nil, wrapf("innerGFP", "BDD layer failure: %w", fe)
		}

		if next.Equal(x) {
			x.Release()
			return next, nil
		}
		x.Release()
		x = next
	}
}
