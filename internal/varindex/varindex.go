// Package varindex maintains the global ordering of Boolean state
// variables used throughout the synthesis engine: environment variables
// first, then system variables, each followed by its primed (next-step)
// copy in a mirrored second half of the index space.
//
// The source this engine is modeled after keeps a single global variable
// list and, when it needs "all variables", temporarily splices the system
// list onto the tail of the environment list and restores the split
// afterward -- a scoped mutation masquerading as a data structure. Index
// instead exposes an immutable concatenation view (All) that never
// mutates either underlying slice.
package varindex

import "fmt"

// Index is the ordered env-then-sys variable list together with the
// unprimed/primed index assignment described in spec.md §3 ("Boolean
// variable", "Cube"). Layout for a cube of length 2N:
//
//	[0, |env|)          env (unprimed)
//	[|env|, N)          sys (unprimed)
//	[N, N+|env|)        env' (primed)
//	[N+|env|, 2N)       sys' (primed)
type Index struct {
	env []string
	sys []string
	pos map[string]int // name -> unprimed index, for both env and sys names
}

// New builds an Index from ordered environment and system variable name
// lists. Names must be unique across both lists.
func New(envVars, sysVars []string) (*Index, error) {
	idx := &Index{
		env: append([]string(nil), envVars...),
		sys: append([]string(nil), sysVars...),
		pos: make(map[string]int, len(envVars)+len(sysVars)),
	}
	for i, name := range idx.env {
		if _, dup := idx.pos[name]; dup {
			return nil, fmt.Errorf("varindex: duplicate variable name %q", name)
		}
		idx.pos[name] = i
	}
	offset := len(idx.env)
	for i, name := range idx.sys {
		if _, dup := idx.pos[name]; dup {
			return nil, fmt.Errorf("varindex: duplicate variable name %q", name)
		}
		idx.pos[name] = offset + i
	}
	return idx, nil
}

// NumEnv returns the number of environment variables.
func (idx *Index) NumEnv() int { return len(idx.env) }

// NumSys returns the number of system variables.
func (idx *Index) NumSys() int { return len(idx.sys) }

// N returns the total number of (unprimed) state variables, |env|+|sys|.
func (idx *Index) N() int { return len(idx.env) + len(idx.sys) }

// EnvVars returns the environment variable names in order. The returned
// slice is owned by the caller; Index never mutates its own copy.
func (idx *Index) EnvVars() []string { return append([]string(nil), idx.env...) }

// SysVars returns the system variable names in order.
func (idx *Index) SysVars() []string { return append([]string(nil), idx.sys...) }

// All returns the concatenation of env then sys variable names, without
// mutating either underlying slice (see package doc).
func (idx *Index) All() []string {
	all := make([]string, 0, idx.N())
	all = append(all, idx.env...)
	all = append(all, idx.sys...)
	return all
}

// Lookup resolves a variable name to its unprimed index. ok is false if
// the name is not part of this index.
func (idx *Index) Lookup(name string) (i int, ok bool) {
	i, ok = idx.pos[name]
	return i, ok
}

// Unprimed returns the unprimed index for a variable name; it panics if
// the name is unknown, since callers are expected to have validated names
// against the compiled specification already (see predicate.Error for the
// user-facing version of this check).
func (idx *Index) Unprimed(name string) int {
	i, ok := idx.pos[name]
	if !ok {
		panic(fmt.Sprintf("varindex: unknown variable %q", name))
	}
	return i
}

// Primed returns the primed index for a variable name: Unprimed(name) + N.
func (idx *Index) Primed(name string) int {
	return idx.Unprimed(name) + idx.N()
}

// EnvMask returns the unprimed indices of all environment variables.
func (idx *Index) EnvMask() []int {
	out := make([]int, len(idx.env))
	for i := range idx.env {
		out[i] = i
	}
	return out
}

// EnvMaskPrimed returns the primed indices of all environment variables.
func (idx *Index) EnvMaskPrimed() []int {
	n := idx.N()
	out := make([]int, len(idx.env))
	for i := range idx.env {
		out[i] = n + i
	}
	return out
}

// SysMask returns the unprimed indices of all system variables.
func (idx *Index) SysMask() []int {
	out := make([]int, len(idx.sys))
	for i := range idx.sys {
		out[i] = len(idx.env) + i
	}
	return out
}

// SysMaskPrimed returns the primed indices of all system variables.
func (idx *Index) SysMaskPrimed() []int {
	n := idx.N()
	out := make([]int, len(idx.sys))
	for i := range idx.sys {
		out[i] = n + len(idx.env) + i
	}
	return out
}

// PrimeMap returns the pairing of every unprimed index [0,N) to its
// primed counterpart [N,2N), suitable for driving a BDD variable-swap
// (substitute_primed, spec.md §4.1). The returned map is keyed by
// unprimed index.
func (idx *Index) PrimeMap() map[int]int {
	n := idx.N()
	m := make(map[int]int, n)
	for i := 0; i < n; i++ {
		m[i] = i + n
	}
	return m
}

// Width returns the total number of indexed variables counting both
// unprimed and primed copies, i.e. 2N -- the length of a Cube.
func (idx *Index) Width() int { return 2 * idx.N() }
