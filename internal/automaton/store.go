// Package automaton implements the strategy automaton store (spec.md
// §4.6, §4.7): a doubly-keyed node store, keyed by (mode, state), with
// outgoing transition lists.
//
// The source this engine is modeled after keeps the strategy as a
// singly-linked list of nodes with pointer-threaded in-edges, occasionally
// rewired when a node is replaced. Per spec.md §9's redesign note, Store
// is instead a map keyed by (mode, state-hash) with an auxiliary adjacency
// list, so node replacement rewires integer ids rather than performing
// cross-node pointer surgery.
package automaton

import (
	"fmt"
	"io"
	"sort"
)

// State is a concrete state vector: N Booleans, positionally indexed,
// environment part first (spec.md §3). It never contains don't-care
// entries by the time it reaches the automaton store.
type State []bool

// String renders a state vector as "[1,0,1]".
func (s State) String() string {
	b := make([]byte, 0, 2+2*len(s))
	b = append(b, '[')
	for i, v := range s {
		if i > 0 {
			b = append(b, ',')
		}
		if v {
			b = append(b, '1')
		} else {
			b = append(b, '0')
		}
	}
	b = append(b, ']')
	return string(b)
}

func (s State) key() string {
	b := make([]byte, len(s))
	for i, v := range s {
		if v {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
	}
	return string(b)
}

// NodeKey is the uniqueness key of spec.md §3: no two strategy nodes
// share the same (mode, state) pair.
type NodeKey struct {
	Mode  int
	State string
}

// Node is a strategy node: (mode, state, out-edges), per spec.md §3. Out
// holds the ids of other nodes in the same Store, one per enumerated
// environment move, in the order transitions were appended.
type Node struct {
	ID    int
	Mode  int
	State State
	Out   []int
}

// Store is a set of strategy nodes (spec.md §4.6/§4.7). At most one node
// per (mode, state); every edge endpoint resides in the store.
type Store struct {
	nodes   map[int]*Node
	byKey   map[NodeKey]int
	inEdges map[int]map[int]bool // target id -> set of source ids with an edge to it
	nextID  int
}

// NewStore returns an empty strategy automaton store.
func NewStore() *Store {
	return &Store{
		nodes:   make(map[int]*Node),
		byKey:   make(map[NodeKey]int),
		inEdges: make(map[int]map[int]bool),
	}
}

func keyOf(mode int, state State) NodeKey {
	return NodeKey{Mode: mode, State: state.key()}
}

// Insert adds a new node for (mode, state) and returns it, or returns the
// existing node if one with this key is already present.
func (s *Store) Insert(mode int, state State) *Node {
	k := keyOf(mode, state)
	if id, ok := s.byKey[k]; ok {
		return s.nodes[id]
	}
	id := s.nextID
	s.nextID++
	n := &Node{ID: id, Mode: mode, State: append(State(nil), state...)}
	s.nodes[id] = n
	s.byKey[k] = id
	s.inEdges[id] = make(map[int]bool)
	return n
}

// Find looks up the node for (mode, state), if any.
func (s *Store) Find(mode int, state State) (*Node, bool) {
	id, ok := s.byKey[keyOf(mode, state)]
	if !ok {
		return nil, false
	}
	return s.nodes[id], true
}

// AppendEdge records an outgoing transition from -> to.
func (s *Store) AppendEdge(from, to *Node) {
	from.Out = append(from.Out, to.ID)
	s.inEdges[to.ID][from.ID] = true
}

// Delete removes n from the store. If replacement is non-nil, every edge
// that targeted n is rewritten to target replacement instead -- the
// delete-then-insert-then-rewire step of the strategy builder's third
// commit case (spec.md §4.5). If replacement is nil, in-edges that
// targeted n are simply dropped.
func (s *Store) Delete(n *Node, replacement *Node) {
	id := n.ID
	for srcID := range s.inEdges[id] {
		src, ok := s.nodes[srcID]
		if !ok {
			continue
		}
		newOut := make([]int, 0, len(src.Out))
		for _, out := range src.Out {
			if out == id {
				if replacement != nil {
					newOut = append(newOut, replacement.ID)
					s.inEdges[replacement.ID][srcID] = true
				}
				continue
			}
			newOut = append(newOut, out)
		}
		src.Out = newOut
	}
	delete(s.inEdges, id)
	delete(s.nodes, id)
	delete(s.byKey, keyOf(n.Mode, n.State))
}

// Size returns the number of nodes currently in the store.
func (s *Store) Size() int { return len(s.nodes) }

// Nodes returns every node in the store, ordered by insertion id for
// reproducible iteration (used by Dump and by strategy-coverage tests).
func (s *Store) Nodes() []*Node {
	ids := make([]int, 0, len(s.nodes))
	for id := range s.nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]*Node, len(ids))
	for i, id := range ids {
		out[i] = s.nodes[id]
	}
	return out
}

// Dump writes the automaton in the textual node-list form of spec.md §6:
// one line per node, "(mode, state_vector, [successor_ids...])".
func (s *Store) Dump(w io.Writer) error {
	for _, n := range s.Nodes() {
		if _, err := fmt.Fprintf(w, "(%d, %s, %v)\n", n.Mode, n.State, n.Out); err != nil {
			return err
		}
	}
	return nil
}

// Destroy releases every node and edge list in one pass (spec.md §5).
func (s *Store) Destroy() {
	s.nodes = make(map[int]*Node)
	s.byKey = make(map[NodeKey]int)
	s.inEdges = make(map[int]map[int]bool)
	s.nextID = 0
}
