package predicate

// Compile flattens a parse tree into a Predicate, resolving variable
// references to indices via idx (spec.md §4.1). It fails with a
// PredicateError-wrapped *Error if the tree references an unknown
// variable name or is otherwise malformed (e.g. a combinator missing an
// operand).
func (m *Manager) Compile(tree *Tree) (*Predicate, error) {
	if tree == nil {
		return nil, wrapf("Compile", "nil parse tree")
	}
	switch tree.Kind {
	case KindConstant:
		if tree.Value {
			return m.True(), nil
		}
		return m.False(), nil

	case KindVariable:
		i, ok := lookupSafely(m, tree.Name, tree.Primed)
		if !ok {
			return nil, wrapf("Compile", "unknown variable %q", tree.Name)
		}
		return m.wrap(m.bdd.Ithvar(i)), nil

	case KindNot:
		if tree.Left == nil {
			return nil, wrapf("Compile", "not: missing operand")
		}
		x, err := m.Compile(tree.Left)
		if err != nil {
			return nil, err
		}
		defer x.Release()
		return x.Not(), nil

	case KindAnd, KindOr, KindImplies, KindIff:
		if tree.Left == nil || tree.Right == nil {
			return nil, wrapf("Compile", "%s: missing operand", kindName(tree.Kind))
		}
		x, err := m.Compile(tree.Left)
		if err != nil {
			return nil, err
		}
		defer x.Release()
		y, err := m.Compile(tree.Right)
		if err != nil {
			return nil, err
		}
		defer y.Release()
		switch tree.Kind {
		case KindAnd:
			return x.And(y), nil
		case KindOr:
			return x.Or(y), nil
		case KindImplies:
			return x.Implies(y), nil
		default: // KindIff
			return x.Iff(y), nil
		}

	default:
		return nil, wrapf("Compile", "unrecognized node kind %d", tree.Kind)
	}
}

func lookupSafely(m *Manager, name string, primed bool) (int, bool) {
	i, ok := m.idx.Lookup(name)
	if !ok {
		return 0, false
	}
	if primed {
		return i + m.idx.N(), true
	}
	return i, true
}

func kindName(k Kind) string {
	switch k {
	case KindAnd:
		return "and"
	case KindOr:
		return "or"
	case KindImplies:
		return "implies"
	case KindIff:
		return "iff"
	default:
		return "?"
	}
}
