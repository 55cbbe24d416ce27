package render

import (
	"github.com/soypat/glgl/math/ms1"
	"github.com/soypat/glgl/math/ms3"

	"github.com/kochsurf/manhattan/eval"
)

const (
	// miss marks rays that exhausted either the travel or the step budget
	// without striking the surface. The two cases are deliberately not
	// distinguished.
	miss = -1

	hitEpsilon     = 0.01
	maxTravel      = 10.0
	maxMarchSteps  = 1000
	shadowSteps    = 32
	shadowStepMin  = 0.005
	shadowStepMax  = 0.1
	shadowSharpK   = 64.0
	shadowMinStart = 0.01
)

// march sphere-traces rays with common origin ro along unit directions
// rd, storing the marched distance of each ray in t, or the miss
// sentinel. Rays advance in lockstep by the field value at their tip so
// the whole batch is one field evaluation per step; rays that hit or
// miss retire from the batch. Since the field never overestimates true
// distance, t is non-decreasing and a ray cannot step through the surface.
func (w *worker) march(sdf eval.SDF3, ro ms3.Vec, rd []ms3.Vec, t []float32) error {
	n := len(rd)
	active := w.idx[:0]
	for i := 0; i < n; i++ {
		t[i] = 0
		active = append(active, i)
	}
	pos := w.vp.V3.Acquire(n)
	dist := w.vp.Float.Acquire(n)
	defer w.vp.V3.Release(pos)
	defer w.vp.Float.Release(dist)
	for step := 0; step < maxMarchSteps && len(active) > 0; step++ {
		for k, i := range active {
			pos[k] = ms3.Add(ro, ms3.Scale(t[i], rd[i]))
		}
		err := sdf.Evaluate(pos[:len(active)], dist[:len(active)], &w.vp)
		if err != nil {
			return err
		}
		keep := active[:0]
		for k, i := range active {
			h := dist[k]
			if h < hitEpsilon {
				continue // Hit. t[i] is final.
			}
			t[i] += h
			if t[i] >= maxTravel {
				t[i] = miss
				continue
			}
			keep = append(keep, i)
		}
		active = keep
	}
	// Step budget exhausted; same sentinel as running out of travel.
	for _, i := range active {
		t[i] = miss
	}
	w.idx = active[:0]
	return nil
}

// softShadows estimates a penumbra factor in [0.1, 1] for each surface
// point in pos along the light direction dir: 1 is fully lit. A fixed
// 32-step march keeps a running minimum of k·h/t; clamping the step
// bounds minimum progress, guaranteeing termination, and maximum step,
// keeping thin features from being skipped. The final floor keeps
// shadows from going fully black.
func (w *worker) softShadows(sdf eval.SDF3, pos []ms3.Vec, dir ms3.Vec, mint, k float32, res []float32) error {
	n := len(pos)
	if n == 0 {
		return nil
	}
	aux := w.vp.V3.Acquire(n)
	tt := w.vp.Float.Acquire(n)
	dist := w.vp.Float.Acquire(n)
	defer w.vp.V3.Release(aux)
	defer w.vp.Float.Release(tt)
	defer w.vp.Float.Release(dist)
	for i := range res[:n] {
		res[i] = 1
		tt[i] = mint
	}
	for step := 0; step < shadowSteps; step++ {
		for i, p := range pos {
			aux[i] = ms3.Add(p, ms3.Scale(tt[i], dir))
		}
		err := sdf.Evaluate(aux, dist, &w.vp)
		if err != nil {
			return err
		}
		for i, h := range dist {
			res[i] = min(res[i], k*h/tt[i])
			tt[i] += ms1.Clamp(h, shadowStepMin, shadowStepMax)
		}
	}
	for i, r := range res[:n] {
		res[i] = blend(0.1, ms1.Clamp(r, 0, 1))
	}
	return nil
}
