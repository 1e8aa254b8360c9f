package predicate

// Value is one of the three states a Cube position can hold.
type Value int8

const (
	Zero     Value = 0
	One      Value = 1
	DontCare Value = -1
)

// Cube is the universal representation described in spec.md §3: an
// ordered tuple of length 2N over {0, 1, don't-care}, used interchangeably
// as a point-evaluation input, a quantification mask, and a cofactor key.
// Index layout matches varindex.Index: [0,|env|) env, [|env|,N) sys,
// [N,N+|env|) env', [N+|env|,2N) sys'.
type Cube []Value

// NewCube returns a cube of the given width with every position set to
// don't-care.
func NewCube(width int) Cube {
	c := make(Cube, width)
	for i := range c {
		c[i] = DontCare
	}
	return c
}

// Clone returns an independent copy of the cube.
func (c Cube) Clone() Cube {
	out := make(Cube, len(c))
	copy(out, c)
	return out
}

// Set returns a copy of the cube with position i set to v.
func (c Cube) Set(i int, v Value) Cube {
	out := c.Clone()
	out[i] = v
	return out
}

// DontCarePositions returns the indices of the cube that are don't-care.
func (c Cube) DontCarePositions() []int {
	var out []int
	for i, v := range c {
		if v == DontCare {
			out = append(out, i)
		}
	}
	return out
}

// IsConcrete reports whether the cube has no don't-care positions.
func (c Cube) IsConcrete() bool {
	for _, v := range c {
		if v == DontCare {
			return false
		}
	}
	return true
}
