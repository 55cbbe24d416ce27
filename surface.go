package manhattan

import (
	"github.com/kochsurf/manhattan/eval"
)

// surfaceScale is the global scale of the Manhattan surface. The folded
// geometry is authored on a unit cube and scaled down as the final step.
const surfaceScale = 0.7

// Surface returns the signed distance field of the Manhattan surface.
//
// All geometry is authored inside the fundamental domain of the cube's
// 48-element symmetry group: points are folded by taking coordinate
// absolute values and sorting the components ascending, so a single
// notch description covers every face of the cube. The repeating row
// of second-iteration cubies is produced by tiling the plane of a face
// with period 2/3 and clipping the tiled piece back to a bounding slab.
// Tiling is what yields apparent infinite self-similar recursion from
// one bounded-cost evaluation.
//
// The returned field never overestimates the distance to the surface,
// making it safe to sphere-trace.
func (bld *Builder) Surface() eval.SDF3 {
	const (
		third = 1.0 / 3.0
		ninth = 1.0 / 9.0
	)
	// Outer cube, half extent 1.
	body := bld.NewBox(2, 2, 2, 0)
	// First-iteration cubie centered on the face, half extent 1/3.
	cubie := bld.Translate(bld.NewBox(2*third, 2*third, 2*third, 0), 0, 0, 4*third)
	// Second-iteration cubies tiled across the face with period 2/3,
	// clipped to a slab so the row does not extend past the cube.
	row := bld.Tile(bld.Translate(bld.NewBox(2*ninth, 2*ninth, 2*ninth, 0), 0, 0, 10*ninth), 2*third, 2*third, 0)
	row = bld.Intersection(row, bld.NewBox(2, 2, 4, 0))
	// Second-iteration cubies on the sides and tip of the first-iteration cubie.
	side := bld.Translate(bld.NewBox(2*ninth, 2*ninth, 2*ninth, 0), 0, 4*ninth, 4*third)
	tip := bld.Translate(bld.NewBox(2*ninth, 2*ninth, 2*ninth, 0), 0, 0, 16*ninth)

	s := bld.Union(body, cubie, row, side, tip)
	s = bld.CoordSort(s)
	s = bld.Symmetry(s, true, true, true)
	return bld.Scale(s, surfaceScale)
}
