// Package manhattan constructs the signed distance field of the
// Manhattan surface, also known as the 3D quadratic Koch surface
// (Type 1). The surface is homeomorphic to a 2-sphere yet has
// fractal dimension log(13)/log(3) ≈ 2.33.
//
// The field is assembled from a small set of composable pieces:
// a box primitive and combinators for union, intersection,
// translation, scaling, axis folding, coordinate sorting and
// periodic tiling. Cubic symmetry folding together with tiling is
// what lets a finite, constant-cost evaluation stand in for
// unbounded recursive subdivision of the surface.
package manhattan

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

const largenum = 1e20

// Builder wraps primitive and combinator construction logic.
// Provides error handling strategies with panics or error accumulation during shape generation.
type Builder struct {
	// NoPanic causes invalid shape parameters to accumulate
	// into the error returned by Err instead of panicking.
	NoPanic   bool
	accumErrs []error
}

// Err returns errors accumulated during shape construction when NoPanic is set.
func (bld *Builder) Err() error {
	if len(bld.accumErrs) == 0 {
		return nil
	}
	return errors.Join(bld.accumErrs...)
}

func (bld *Builder) shapeErrorf(msg string, args ...any) {
	if !bld.NoPanic {
		panic(fmt.Sprintf(msg, args...))
	}
	bld.accumErrs = append(bld.accumErrs, fmt.Errorf(msg, args...))
}

func (*Builder) nilsdf(msg string) {
	panic("nil SDF argument: " + msg)
}

func minf(a, b float32) float32 {
	return math32.Min(a, b)
}

func maxf(a, b float32) float32 {
	return math32.Max(a, b)
}

func absf(a float32) float32 {
	return math32.Abs(a)
}
