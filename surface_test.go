package manhattan_test

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"

	"github.com/kochsurf/manhattan"
	"github.com/kochsurf/manhattan/eval"
)

type fieldTester struct {
	vp   eval.VecPool
	pos  []ms3.Vec
	dist []float32
}

func (ft *fieldTester) eval(t *testing.T, s eval.SDF3, p ms3.Vec) float32 {
	t.Helper()
	ft.pos = append(ft.pos[:0], p)
	ft.dist = append(ft.dist[:0], 0)
	err := s.Evaluate(ft.pos, ft.dist, &ft.vp)
	if err != nil {
		t.Fatalf("evaluating field at %+v: %v", p, err)
	}
	if err := ft.vp.AssertAllReleased(); err != nil {
		t.Fatal(err)
	}
	return ft.dist[0]
}

// signPermutations returns the 48 images of p under the cube's symmetry
// group: all coordinate permutations combined with all sign flips.
func signPermutations(p ms3.Vec) []ms3.Vec {
	a := p.Array()
	perms := [][3]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	out := make([]ms3.Vec, 0, 48)
	for _, pm := range perms {
		for signs := 0; signs < 8; signs++ {
			v := [3]float32{a[pm[0]], a[pm[1]], a[pm[2]]}
			for ax := 0; ax < 3; ax++ {
				if signs&(1<<ax) != 0 {
					v[ax] = -v[ax]
				}
			}
			out = append(out, ms3.Vec{X: v[0], Y: v[1], Z: v[2]})
		}
	}
	return out
}

func TestSurfaceCubicSymmetry(t *testing.T) {
	var bld manhattan.Builder
	s := bld.Surface()
	var ft fieldTester
	// Fixed points with three distinct components of equal sign; rounding
	// differences between permutations show up here first.
	pts := []ms3.Vec{
		{X: -1.1429446, Y: -0.47737122, Z: -0.72776735},
		{X: 0.33339, Y: 1.00001, Z: 0.66661},
	}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		pts = append(pts, ms3.Vec{
			X: rng.Float32()*4 - 2,
			Y: rng.Float32()*4 - 2,
			Z: rng.Float32()*4 - 2,
		})
	}
	for _, p := range pts {
		want := ft.eval(t, s, p)
		for _, q := range signPermutations(p) {
			got := ft.eval(t, s, q)
			if got != want {
				t.Fatalf("symmetry broken: d(%+v)=%v but d(%+v)=%v", p, want, q, got)
			}
		}
	}
}

func TestSurfaceInterior(t *testing.T) {
	var bld manhattan.Builder
	s := bld.Surface()
	var ft fieldTester
	// The center lies a full folded cube half-extent from the surface.
	d := ft.eval(t, s, ms3.Vec{})
	if math32.Abs(d+0.7) > 1e-6 {
		t.Errorf("center distance = %v, want -0.7", d)
	}
	if math32.Abs(d) == 0 {
		t.Error("center distance has zero magnitude")
	}
}

func TestSurfaceAxisDistance(t *testing.T) {
	var bld manhattan.Builder
	s := bld.Surface()
	var ft fieldTester
	// On the +z axis the nearest feature is the tip cubie ending at
	// 0.7*(16/9 + 1/9) from the center.
	const tipZ = 0.7 * 17.0 / 9.0
	d := ft.eval(t, s, ms3.Vec{Z: 2})
	want := 2 - float32(tipZ)
	if math32.Abs(d-want) > 1e-5 {
		t.Errorf("axis distance at (0,0,2) = %v, want %v", d, want)
	}
}

// The marcher steps by the field value, so the field must never
// overestimate the distance to the surface. A 1-Lipschitz bound over
// random pairs catches overestimation introduced by any combinator.
func TestSurfaceLipschitzBound(t *testing.T) {
	var bld manhattan.Builder
	s := bld.Surface()
	var ft fieldTester
	rng := rand.New(rand.NewSource(7))
	const tol = 1e-4
	for i := 0; i < 500; i++ {
		p := ms3.Vec{
			X: rng.Float32()*6 - 3,
			Y: rng.Float32()*6 - 3,
			Z: rng.Float32()*6 - 3,
		}
		q := ms3.Add(p, ms3.Vec{
			X: rng.Float32()*2 - 1,
			Y: rng.Float32()*2 - 1,
			Z: rng.Float32()*2 - 1,
		})
		dp := ft.eval(t, s, p)
		dq := ft.eval(t, s, q)
		sep := ms3.Norm(ms3.Sub(p, q))
		if math32.Abs(dp-dq) > sep+tol {
			t.Fatalf("field not 1-Lipschitz: |d(%+v)-d(%+v)| = %v > separation %v", p, q, math32.Abs(dp-dq), sep)
		}
	}
}

func TestTilePeriodicity(t *testing.T) {
	var bld manhattan.Builder
	tiled := bld.Tile(bld.NewBox(0.2, 0.2, 0.2, 0), 1, 1, 0)
	var ft fieldTester
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 50; i++ {
		p := ms3.Vec{
			X: rng.Float32()*2 - 1,
			Y: rng.Float32()*2 - 1,
			Z: rng.Float32()*2 - 1,
		}
		want := ft.eval(t, tiled, p)
		for _, shift := range []ms3.Vec{{X: 1}, {Y: -2}, {X: 3, Y: 1}} {
			got := ft.eval(t, tiled, ms3.Add(p, shift))
			if math32.Abs(got-want) > 1e-6 {
				t.Fatalf("tiled field not periodic: d(p)=%v d(p+%+v)=%v", want, shift, got)
			}
		}
	}
	// The zero period component leaves z untiled.
	near := ft.eval(t, tiled, ms3.Vec{Z: 0.5})
	far := ft.eval(t, tiled, ms3.Vec{Z: 1.5})
	if math32.Abs(far-near-1) > 1e-6 {
		t.Errorf("z axis should not repeat: d(z=0.5)=%v d(z=1.5)=%v", near, far)
	}
}

func TestCoordSortPermutationInvariance(t *testing.T) {
	var bld manhattan.Builder
	s := bld.CoordSort(bld.Translate(bld.NewBox(0.4, 0.6, 0.8, 0), 0.1, 0.2, 0.3))
	var ft fieldTester
	p := ms3.Vec{X: 0.9, Y: -0.2, Z: 0.5}
	want := ft.eval(t, s, p)
	perms := []ms3.Vec{
		{X: p.Y, Y: p.X, Z: p.Z},
		{X: p.Z, Y: p.Y, Z: p.X},
		{X: p.Z, Y: p.X, Z: p.Y},
	}
	for _, q := range perms {
		if got := ft.eval(t, s, q); got != want {
			t.Errorf("coordinate sort not permutation invariant: d(%+v)=%v want %v", q, got, want)
		}
	}
}

func TestBoxDistanceExact(t *testing.T) {
	var bld manhattan.Builder
	b := bld.NewBox(2, 2, 2, 0)
	var ft fieldTester
	cases := []struct {
		p    ms3.Vec
		want float32
	}{
		{p: ms3.Vec{X: 2}, want: 1},
		{p: ms3.Vec{X: 2, Y: 2}, want: math32.Sqrt2},
		{p: ms3.Vec{}, want: -1},
		{p: ms3.Vec{X: 0.5}, want: -0.5},
	}
	for _, tc := range cases {
		got := ft.eval(t, b, tc.p)
		if math32.Abs(got-tc.want) > 1e-6 {
			t.Errorf("box distance at %+v = %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestBuilderErrorAccumulation(t *testing.T) {
	bld := manhattan.Builder{NoPanic: true}
	bld.NewBox(-1, 1, 1, 0)
	bld.NewSphere(0)
	if err := bld.Err(); err == nil {
		t.Error("expected accumulated construction errors")
	}
	defer func() {
		if recover() == nil {
			t.Error("expected panic from builder without NoPanic")
		}
	}()
	var panicky manhattan.Builder
	panicky.NewBox(-1, 1, 1, 0)
}
