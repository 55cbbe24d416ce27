package render

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

const (
	// focalLength is the distance from the eye to the image plane in
	// units of camera basis vectors. Larger values narrow the field of view.
	focalLength = 2.5
	// aspectStretch is the fixed horizontal stretch applied to normalized
	// pixel coordinates. Kept constant regardless of output resolution.
	aspectStretch = 1.33
)

// OrbitPosition returns the camera eye position at time t in seconds.
// The eye follows a Lissajous-style orbit around the surface. The x/z
// and y angular rates are incommensurate so the path never exactly
// repeats, though it remains deterministic and continuous.
func OrbitPosition(t float32) ms3.Vec {
	base := ms3.Vec{X: 0, Y: 1, Z: 0}
	amp := ms3.Vec{X: 2.5, Y: 1.0, Z: 2.5}
	rate := ms3.Vec{X: 0.25, Y: 0.13, Z: 0.25}
	orbit := ms3.Vec{
		X: amp.X * math32.Sin(rate.X*t),
		Y: amp.Y * math32.Cos(rate.Y*t),
		Z: amp.Z * math32.Cos(rate.Z*t),
	}
	return ms3.Add(base, ms3.Scale(1.1, orbit))
}

// Camera holds an eye position with an orthonormal basis aimed at a target.
type Camera struct {
	Eye     ms3.Vec
	right   ms3.Vec
	up      ms3.Vec
	forward ms3.Vec
}

// LookAt builds a camera at eye aimed at target with world up (0,1,0).
// Degenerate when the view direction is vertical; the orbit never is.
func LookAt(eye, target ms3.Vec) Camera {
	ww := ms3.Unit(ms3.Sub(target, eye))
	uu := ms3.Unit(ms3.Cross(ms3.Vec{Y: 1}, ww))
	vv := ms3.Unit(ms3.Cross(ww, uu))
	return Camera{Eye: eye, right: uu, up: vv, forward: ww}
}

// RayDirection returns the unit view ray direction through the
// normalized screen coordinate (px, py), both in [-1,1] with py up.
func (c Camera) RayDirection(px, py float32) ms3.Vec {
	d := ms3.Add(ms3.Scale(px*aspectStretch, c.right), ms3.Scale(py, c.up))
	d = ms3.Add(d, ms3.Scale(focalLength, c.forward))
	return ms3.Unit(d)
}
