// Package cpre implements the controllable-predecessor modal operator
// (spec.md §4.2): CPre(C) holds at state s iff for every environment move
// e' admissible from s under the environment transition relation, there
// exists a system move s' consistent with the system transition relation
// such that (e', s') satisfies C.
package cpre

import (
	"github.com/dathath/gr1c-go/internal/predicate"
	"github.com/dathath/gr1c-go/internal/varindex"
)

// Operator computes CPre relative to a fixed pair of transition
// predicates. One Operator is built per synthesis run and reused across
// every fixpoint iteration.
type Operator struct {
	idx      *varindex.Index
	envTrans *predicate.Predicate // T_e, over env/env'
	sysTrans *predicate.Predicate // T_s, over env/sys/env'/sys'
}

// New builds a CPre operator. envTrans and sysTrans are borrowed, not
// owned: Operator never releases them, so the caller must keep them alive
// (and release them itself) for as long as the operator is used.
func New(idx *varindex.Index, envTrans, sysTrans *predicate.Predicate) *Operator {
	return &Operator{idx: idx, envTrans: envTrans, sysTrans: sysTrans}
}

// CPre computes CPre(c) = forall_env' (T_e => exists_sys' (T_s && c')),
// where c' = substitute_primed(c). c is not released; the result is a new
// predicate owned by the caller.
//
// Invariants guaranteed by construction (spec.md §4.2): monotone in c;
// CPre(true) = true since exists_sys'(T_s) is implied whenever some system
// move exists; CPre(c1 || c2) ⊇ CPre(c1) || CPre(c2) follows from
// universal quantification distributing over disjunction only in one
// direction.
func (op *Operator) CPre(c *predicate.Predicate) *predicate.Predicate {
	cPrimed := c.SubstitutePrimed()
	defer cPrimed.Release()

	inner := op.sysTrans.And(cPrimed)
	defer inner.Release()

	exSys := inner.Exists(op.idx.SysMaskPrimed())
	defer exSys.Release()

	imp := op.envTrans.Implies(exSys)
	defer imp.Release()

	return imp.Forall(op.idx.EnvMaskPrimed())
}
