package eval_test

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"

	"github.com/kochsurf/manhattan"
	"github.com/kochsurf/manhattan/eval"
)

func TestVecPoolAcquireRelease(t *testing.T) {
	var vp eval.VecPool
	a := vp.Float.Acquire(16)
	if len(a) != 16 {
		t.Fatalf("acquired buffer length %d, want 16", len(a))
	}
	if err := vp.AssertAllReleased(); err == nil {
		t.Error("expected leak detection while buffer held")
	}
	b := vp.Float.Acquire(8)
	if &a[0] == &b[0] {
		t.Error("second acquire returned buffer already in use")
	}
	if err := vp.Float.Release(a); err != nil {
		t.Fatal(err)
	}
	if err := vp.Float.Release(b); err != nil {
		t.Fatal(err)
	}
	if err := vp.AssertAllReleased(); err != nil {
		t.Fatal(err)
	}
	// Released buffers are reused.
	c := vp.Float.Acquire(8)
	if &c[0] != &a[0] && &c[0] != &b[0] {
		t.Error("expected reuse of a released buffer")
	}
	if err := vp.Float.Release(c); err != nil {
		t.Fatal(err)
	}
	if err := vp.Float.Release(make([]float32, 4)); err == nil {
		t.Error("expected error releasing foreign buffer")
	}
}

func TestGetVecPool(t *testing.T) {
	var vp eval.VecPool
	got, err := eval.GetVecPool(&vp)
	if err != nil || got != &vp {
		t.Fatalf("GetVecPool(&vp) = %v, %v", got, err)
	}
	_, err = eval.GetVecPool(42)
	if err == nil {
		t.Error("expected error extracting pool from unrelated userData")
	}
}

func TestNormalsCentralDiffSphere(t *testing.T) {
	var bld manhattan.Builder
	s := bld.NewSphere(1)
	var vp eval.VecPool
	pos := []ms3.Vec{
		{X: 1},
		{Y: -1},
		{X: 0.577350, Y: 0.577350, Z: 0.577350},
	}
	normals := make([]ms3.Vec, len(pos))
	err := eval.NormalsCentralDiff(s, pos, normals, 2e-3, &vp)
	if err != nil {
		t.Fatal(err)
	}
	if err := vp.AssertAllReleased(); err != nil {
		t.Fatal(err)
	}
	for i, p := range pos {
		want := ms3.Unit(p) // Sphere normals point radially outward.
		got := ms3.Unit(normals[i])
		if ms3.Norm(ms3.Sub(got, want)) > 1e-3 {
			t.Errorf("normal at %+v = %+v, want %+v", p, got, want)
		}
		if math32.Abs(ms3.Norm(got)-1) > 1e-3 {
			t.Errorf("normal at %+v not unit length", p)
		}
	}
}
