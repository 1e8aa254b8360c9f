// Package oddball implements the cube "don't care" odometer used to
// expand a BDD don't-care cube into the full concrete Cartesian product it
// represents (spec.md §4.5, §9 "Cube don't care odometer"). The source
// this engine is modeled after calls this increment_cube; the exact
// enumeration discipline -- initialize every don't-care position to 0,
// then repeatedly increment little-endian across only those positions --
// is preserved verbatim because concrete order matters for reproducibility
// in tests (see spec.md S6's seed-driven assertions).
package oddball

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/dathath/gr1c-go/internal/predicate"
)

// Odometer enumerates the concrete expansions of a cube's don't-care
// positions in little-endian order over those positions, leaving all
// other positions fixed at the base cube's value. The odometer's counter
// is a fixed-width bit vector over the don't-care positions, one bit per
// position: bit i set means that position currently reads One.
type Odometer struct {
	base      predicate.Cube
	positions []int
	counter   *bitset.BitSet
	first     bool
	done      bool
}

// New returns an odometer over the don't-care positions of base. The base
// cube is not modified.
func New(base predicate.Cube) *Odometer {
	positions := base.DontCarePositions()
	return &Odometer{
		base:      base.Clone(),
		positions: positions,
		counter:   bitset.New(uint(len(positions))),
		first:     true,
	}
}

// Next returns the next concrete cube and true, or a nil cube and false
// once every expansion of the don't-care positions has been emitted. A
// cube with no don't-care positions yields exactly one expansion: itself.
func (o *Odometer) Next() (predicate.Cube, bool) {
	if o.done {
		return nil, false
	}
	if o.first {
		o.first = false
		return o.materialize(), true
	}
	for i := 0; i < len(o.positions); i++ {
		u := uint(i)
		if !o.counter.Test(u) {
			o.counter.Set(u)
			return o.materialize(), true
		}
		o.counter.Clear(u)
	}
	o.done = true
	return nil, false
}

// Remaining reports (conservatively) whether another expansion is
// available without consuming it.
func (o *Odometer) Remaining() bool { return !o.done }

func (o *Odometer) materialize() predicate.Cube {
	out := o.base.Clone()
	for i, pos := range o.positions {
		v := predicate.Zero
		if o.counter.Test(uint(i)) {
			v = predicate.One
		}
		out[pos] = v
	}
	return out
}

// ExpandAll drains the odometer, returning every concrete cube it
// produces. Intended for small don't-care counts (state-vector
// enumeration, environment-move enumeration); large widths should drive
// Next directly to stay lazy.
func ExpandAll(base predicate.Cube) []predicate.Cube {
	o := New(base)
	var out []predicate.Cube
	for {
		c, ok := o.Next()
		if !ok {
			break
		}
		out = append(out, c)
	}
	return out
}
