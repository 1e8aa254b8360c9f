package specio

import (
	"encoding/json"
	"io"

	"github.com/dathath/gr1c-go/internal/predicate"
	"github.com/dathath/gr1c-go/internal/realizability"
	"github.com/dathath/gr1c-go/internal/synthesis"
)

// tree is the JSON encoding of the seven predicate.Tree node kinds
// spec.md §6 requires the predicate layer to accept.
type tree struct {
	Kind   string `json:"kind"`
	Value  bool   `json:"value,omitempty"`
	Name   string `json:"name,omitempty"`
	Primed bool   `json:"primed,omitempty"`
	Left   *tree  `json:"left,omitempty"`
	Right  *tree  `json:"right,omitempty"`
}

// document is the JSON encoding of the six well-typed input items of
// spec.md §6, plus the realizability regime and verbosity flag SPEC_FULL
// §4.9/§4.10 add as a CLI-facing supplement.
type document struct {
	EnvVars  []string `json:"env_vars"`
	SysVars  []string `json:"sys_vars"`
	EnvInit  *tree    `json:"env_init,omitempty"`
	SysInit  *tree    `json:"sys_init,omitempty"`
	EnvTrans []*tree  `json:"env_trans,omitempty"`
	SysTrans []*tree  `json:"sys_trans,omitempty"`
	EnvGoals []*tree  `json:"env_goals,omitempty"`
	SysGoals []*tree  `json:"sys_goals,omitempty"`
	Regime   string   `json:"regime,omitempty"`
	Verbose  bool     `json:"verbose,omitempty"`
}

// Decode reads a JSON-encoded specification document from r and converts
// it into a synthesis.Specification. Regime defaults to AllSysInit when
// absent or unrecognized.
func Decode(r io.Reader) (*synthesis.Specification, error) {
	var doc document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, wrapf("Decode", "decode JSON specification: %w", err)
	}

	envInit, err := toTree(doc.EnvInit)
	if err != nil {
		return nil, wrapf("Decode", "env_init: %w", err)
	}
	sysInit, err := toTree(doc.SysInit)
	if err != nil {
		return nil, wrapf("Decode", "sys_init: %w", err)
	}
	envTrans, err := toTrees(doc.EnvTrans)
	if err != nil {
		return nil, wrapf("Decode", "env_trans: %w", err)
	}
	sysTrans, err := toTrees(doc.SysTrans)
	if err != nil {
		return nil, wrapf("Decode", "sys_trans: %w", err)
	}
	envGoals, err := toTrees(doc.EnvGoals)
	if err != nil {
		return nil, wrapf("Decode", "env_goals: %w", err)
	}
	sysGoals, err := toTrees(doc.SysGoals)
	if err != nil {
		return nil, wrapf("Decode", "sys_goals: %w", err)
	}

	return &synthesis.Specification{
		EnvVars:  doc.EnvVars,
		SysVars:  doc.SysVars,
		EnvInit:  envInit,
		SysInit:  sysInit,
		EnvTrans: envTrans,
		SysTrans: sysTrans,
		EnvGoals: envGoals,
		SysGoals: sysGoals,
		Regime:   parseRegime(doc.Regime),
		Verbose:  doc.Verbose,
	}, nil
}

func parseRegime(s string) realizability.Regime {
	if s == "exist" {
		return realizability.ExistSysInit
	}
	return realizability.AllSysInit
}

func toTrees(in []*tree) ([]*predicate.Tree, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]*predicate.Tree, len(in))
	for i, t := range in {
		converted, err := toTree(t)
		if err != nil {
			return nil, err
		}
		out[i] = converted
	}
	return out, nil
}

func toTree(t *tree) (*predicate.Tree, error) {
	if t == nil {
		return nil, nil
	}
	switch t.Kind {
	case "const":
		return predicate.Const(t.Value), nil
	case "var":
		if t.Name == "" {
			return nil, wrapf("toTree", "var: missing name")
		}
		return predicate.Variable(t.Name, t.Primed), nil
	case "not":
		x, err := requireOperand("not", t.Left)
		if err != nil {
			return nil, err
		}
		return predicate.Not(x), nil
	case "and", "or", "implies", "iff":
		x, err := requireOperand(t.Kind, t.Left)
		if err != nil {
			return nil, err
		}
		y, err := requireOperand(t.Kind, t.Right)
		if err != nil {
			return nil, err
		}
		switch t.Kind {
		case "and":
			return predicate.And(x, y), nil
		case "or":
			return predicate.Or(x, y), nil
		case "implies":
			return predicate.Implies(x, y), nil
		default:
			return predicate.Iff(x, y), nil
		}
	default:
		return nil, wrapf("toTree", "unrecognized node kind %q", t.Kind)
	}
}

func requireOperand(kind string, t *tree) (*predicate.Tree, error) {
	if t == nil {
		return nil, wrapf("toTree", "%s: missing operand", kind)
	}
	return toTree(t)
}
