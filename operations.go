package manhattan

import (
	"fmt"

	"github.com/soypat/glgl/math/ms3"

	"github.com/kochsurf/manhattan/eval"
)

// OpUnion is the result of the [Builder.Union] operation. Prefer using
// [Builder.Union] to using this type directly.
type OpUnion struct {
	// joined contains 2 or more SDFs.
	// OpUnion methods will panic if joined has less than 2 elements.
	joined []eval.SDF3
}

// Union joins the shapes of several SDFs into one. Is exact.
// Union aggregates nested Union results into its own.
func (bld *Builder) Union(shapes ...eval.SDF3) eval.SDF3 {
	if len(shapes) < 2 {
		panic("need at least 2 arguments to Union")
	}
	var U OpUnion
	for i, s := range shapes {
		if s == nil {
			bld.nilsdf(fmt.Sprintf("nil arg[%d] to Union", i))
		}
		if subU, ok := s.(*OpUnion); ok {
			// Discard nested union elements and join their elements.
			U.joined = append(U.joined, subU.joined...)
		} else {
			U.joined = append(U.joined, s)
		}
	}
	return &U
}

// Bounds returns the union of all joined SDF bounds. Implements [eval.SDF3].
func (u *OpUnion) Bounds() ms3.Box {
	u.mustValidate()
	bb := u.joined[0].Bounds()
	for _, s := range u.joined[1:] {
		bb = bb.Union(s.Bounds())
	}
	return bb
}

func (u *OpUnion) mustValidate() {
	if len(u.joined) < 2 {
		panic("OpUnion must have at least 2 elements. please prefer using Builder.Union over OpUnion")
	}
}

// Intersection is the SDF intersection of a ^ b. Does not produce an exact SDF.
func (bld *Builder) Intersection(a, b eval.SDF3) eval.SDF3 {
	if a == nil || b == nil {
		bld.nilsdf("Intersection")
	}
	return &intersect{s1: a, s2: b}
}

type intersect struct {
	s1, s2 eval.SDF3 // Performs s1 ^ s2.
}

func (u *intersect) Bounds() ms3.Box {
	return u.s1.Bounds().Intersect(u.s2.Bounds())
}

// Translate moves the SDF s in the given direction (dirX, dirY, dirZ) and returns the result.
func (bld *Builder) Translate(s eval.SDF3, dirX, dirY, dirZ float32) eval.SDF3 {
	if s == nil {
		bld.nilsdf("Translate")
	}
	return &translate{s: s, p: ms3.Vec{X: dirX, Y: dirY, Z: dirZ}}
}

type translate struct {
	s eval.SDF3
	p ms3.Vec
}

func (u *translate) Bounds() ms3.Box {
	return u.s.Bounds().Add(u.p)
}

// Scale scales the SDF s by the given scale factor, maintaining field correctness
// by scaling resulting distances back up by the same factor.
func (bld *Builder) Scale(s eval.SDF3, scaleFactor float32) eval.SDF3 {
	if scaleFactor <= 0 {
		bld.shapeErrorf("zero or negative scale factor")
	}
	return &scale{s: s, scale: scaleFactor}
}

type scale struct {
	s     eval.SDF3
	scale float32
}

func (u *scale) Bounds() ms3.Box {
	b := u.s.Bounds()
	return b.Scale(ms3.Vec{X: u.scale, Y: u.scale, Z: u.scale})
}

// Symmetry reflects the SDF around one or more cartesian planes.
func (bld *Builder) Symmetry(s eval.SDF3, mirrorX, mirrorY, mirrorZ bool) eval.SDF3 {
	if !mirrorX && !mirrorY && !mirrorZ {
		bld.shapeErrorf("ineffective symmetry")
	}
	return &symmetry{s: s, x: mirrorX, y: mirrorY, z: mirrorZ}
}

type symmetry struct {
	s       eval.SDF3
	x, y, z bool
}

func (u *symmetry) Bounds() ms3.Box {
	box := u.s.Bounds()
	if u.x {
		box.Min.X = minf(box.Min.X, -box.Max.X)
	}
	if u.y {
		box.Min.Y = minf(box.Min.Y, -box.Max.Y)
	}
	if u.z {
		box.Min.Z = minf(box.Min.Z, -box.Max.Z)
	}
	return box
}

// CoordSort evaluates the SDF with the point's coordinates reordered in
// ascending order. Together with [Builder.Symmetry] over all three axes this
// folds space into the fundamental domain of the full 48-element cubic
// symmetry group with two operations instead of explicit reflections
// across every symmetry plane. The wrapped SDF must itself be symmetric
// under coordinate exchange within the folded domain for the result
// to be a sound distance bound.
func (bld *Builder) CoordSort(s eval.SDF3) eval.SDF3 {
	if s == nil {
		bld.nilsdf("CoordSort")
	}
	return &coordSort{s: s}
}

type coordSort struct {
	s eval.SDF3
}

func (u *coordSort) Bounds() ms3.Box {
	// Coordinate exchange permutes the bounding box corners; a cube over
	// the largest extent covers all permutations.
	box := u.s.Bounds()
	ext := maxf(ms3.AbsElem(box.Min).Max(), ms3.AbsElem(box.Max).Max())
	return ms3.NewCenteredBox(ms3.Vec{}, ms3.Vec{X: 2 * ext, Y: 2 * ext, Z: 2 * ext})
}

// Tile repeats the SDF over a periodic lattice with the argument periods.
// A zero period component leaves the corresponding axis untouched.
// Tiles are centered so the wrapped SDF is evaluated at the origin of each cell.
// The wrapped SDF must not escape its cell or the result is an unsound
// distance bound; clip the result with [Builder.Intersection] to bound
// the tiled extent.
func (bld *Builder) Tile(s eval.SDF3, periodX, periodY, periodZ float32) eval.SDF3 {
	if s == nil {
		bld.nilsdf("Tile")
	}
	if periodX < 0 || periodY < 0 || periodZ < 0 || (periodX == 0 && periodY == 0 && periodZ == 0) {
		bld.shapeErrorf("invalid tile period")
	}
	return &tile{s: s, period: ms3.Vec{X: periodX, Y: periodY, Z: periodZ}}
}

type tile struct {
	s      eval.SDF3
	period ms3.Vec
}

func (u *tile) Bounds() ms3.Box {
	box := u.s.Bounds()
	if u.period.X > 0 {
		box.Min.X, box.Max.X = -largenum, largenum
	}
	if u.period.Y > 0 {
		box.Min.Y, box.Max.Y = -largenum, largenum
	}
	if u.period.Z > 0 {
		box.Min.Z, box.Max.Z = -largenum, largenum
	}
	return box
}
