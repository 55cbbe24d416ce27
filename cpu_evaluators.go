package manhattan

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"

	"github.com/kochsurf/manhattan/eval"
)

// minReduce takes element-wise minimum of arguments and stores to first argument.
func minReduce(d1AndDst, d2 []float32) {
	for i := range d1AndDst {
		d1AndDst[i] = math32.Min(d1AndDst[i], d2[i])
	}
}

func (u *sphere) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	if err := eval.ValidateBuffers(len(pos), len(dist)); err != nil {
		return err
	}
	r := u.r
	for i, p := range pos {
		dist[i] = ms3.Norm(p) - r
	}
	return nil
}

func (b *box) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	if err := eval.ValidateBuffers(len(pos), len(dist)); err != nil {
		return err
	}
	d := ms3.Scale(0.5, b.dims)
	r := b.round
	for i, p := range pos {
		q := ms3.AddScalar(r, ms3.Sub(ms3.AbsElem(p), d))
		dist[i] = ms3.Norm(ms3.MaxElem(q, ms3.Vec{})) + minf(maxf(q.X, maxf(q.Y, q.Z)), 0.0) - r
	}
	return nil
}

func (u *OpUnion) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	u.mustValidate()
	err := u.joined[0].Evaluate(pos, dist, userData)
	if err != nil {
		return err
	}
	vp, err := eval.GetVecPool(userData)
	if err != nil {
		return err
	}
	auxdist := vp.Float.Acquire(len(dist))
	defer vp.Float.Release(auxdist)
	for _, s := range u.joined[1:] {
		err = s.Evaluate(pos, auxdist, userData)
		if err != nil {
			return err
		}
		minReduce(dist, auxdist)
	}
	return nil
}

func (u *intersect) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	err := u.s1.Evaluate(pos, dist, userData)
	if err != nil {
		return err
	}
	vp, err := eval.GetVecPool(userData)
	if err != nil {
		return err
	}
	auxdist := vp.Float.Acquire(len(dist))
	defer vp.Float.Release(auxdist)
	err = u.s2.Evaluate(pos, auxdist, userData)
	if err != nil {
		return err
	}
	for i, d := range dist {
		dist[i] = maxf(d, auxdist[i])
	}
	return nil
}

func (t *translate) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	vp, err := eval.GetVecPool(userData)
	if err != nil {
		return err
	}
	transformed := vp.V3.Acquire(len(pos))
	defer vp.V3.Release(transformed)
	for i, p := range pos {
		transformed[i] = ms3.Sub(p, t.p)
	}
	return t.s.Evaluate(transformed, dist, userData)
}

func (s *scale) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	vp, err := eval.GetVecPool(userData)
	if err != nil {
		return err
	}
	scaled := vp.V3.Acquire(len(pos))
	defer vp.V3.Release(scaled)
	factor := s.scale
	factorInv := 1. / s.scale
	for i, p := range pos {
		scaled[i] = ms3.Scale(factorInv, p)
	}
	err = s.s.Evaluate(scaled, dist, userData)
	if err != nil {
		return err
	}
	for i := range dist {
		dist[i] *= factor
	}
	return nil
}

func (s *symmetry) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	vp, err := eval.GetVecPool(userData)
	if err != nil {
		return err
	}
	transformed := vp.V3.Acquire(len(pos))
	defer vp.V3.Release(transformed)
	copy(transformed, pos)
	for i, p := range transformed {
		if s.x {
			transformed[i].X = absf(p.X)
		}
		if s.y {
			transformed[i].Y = absf(p.Y)
		}
		if s.z {
			transformed[i].Z = absf(p.Z)
		}
	}
	return s.s.Evaluate(transformed, dist, userData)
}

func (u *coordSort) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	vp, err := eval.GetVecPool(userData)
	if err != nil {
		return err
	}
	transformed := vp.V3.Acquire(len(pos))
	defer vp.V3.Release(transformed)
	for i, p := range pos {
		// The median is selected by comparison so each output component
		// is one of the inputs bit for bit and the sort commutes exactly
		// with coordinate permutations.
		mi := minf(minf(p.X, p.Y), p.Z)
		md := maxf(minf(p.X, p.Y), minf(maxf(p.X, p.Y), p.Z))
		ma := maxf(maxf(p.X, p.Y), p.Z)
		transformed[i] = ms3.Vec{X: mi, Y: md, Z: ma}
	}
	return u.s.Evaluate(transformed, dist, userData)
}

func (u *tile) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	vp, err := eval.GetVecPool(userData)
	if err != nil {
		return err
	}
	transformed := vp.V3.Acquire(len(pos))
	defer vp.V3.Release(transformed)
	per := u.period
	for i, p := range pos {
		transformed[i] = ms3.Vec{
			X: tile1(p.X, per.X),
			Y: tile1(p.Y, per.Y),
			Z: tile1(p.Z, per.Z),
		}
	}
	return u.s.Evaluate(transformed, dist, userData)
}

// tile1 folds x into the cell [-period/2, period/2) centered on the
// nearest multiple of period. Uses the non-negative remainder so the
// fold is continuous across negative coordinates.
func tile1(x, period float32) float32 {
	if period == 0 {
		return x
	}
	x -= 0.5 * period
	m := x - period*math32.Floor(x/period)
	return m - 0.5*period
}
