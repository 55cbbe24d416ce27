package render

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

// lightDirection is the single fixed directional light of the scene.
var lightDirection = ms3.Unit(ms3.Vec{X: 1, Y: 0.9, Z: 0.3})

// blend floors value at t, rescaling the remainder so inputs in [0,1]
// map to [t,1]. Negative results are clipped to zero.
func blend(t, value float32) float32 {
	return math32.Max(0, t+(1-t)*value)
}

// hitRecord packs a march result for the shader. T < 0 is the miss
// sentinel. Occlusion is a cheap stand-in for ambient occlusion and
// Material selects the palette hue; every surface point currently
// shares one material.
type hitRecord struct {
	T         float32
	Occlusion float32
	Material  float32
}

func classify(t float32) hitRecord {
	if t == miss {
		return hitRecord{T: -1, Occlusion: -1, Material: -1}
	}
	return hitRecord{T: math32.Abs(t), Occlusion: 0, Material: 0.25}
}

// background is the vertical sky gradient used when a ray misses,
// keyed on the vertical component of the ray direction.
func background(rdY float32) ms3.Vec {
	warm := ms3.Scale(0.5, ms3.Vec{X: 0.3, Y: 0.2, Z: 0.1})
	sky := ms3.Vec{X: 0.7, Y: 0.9, Z: 1}
	return mix3(warm, sky, blend(0.5, rdY))
}

// shade computes the lit linear color at a hit point with unit normal
// nor and penumbra factor shadow. Four additive terms: key light,
// sky bounce, back fill and ambient, modulated by the palette color.
func shade(rec hitRecord, nor ms3.Vec, shadow float32) ms3.Vec {
	incident := ms3.Dot(nor, lightDirection)
	occlusion := rec.Occlusion
	lin := ms3.Scale(1.00*blend(0.1, incident)*shadow, ms3.Vec{X: 1.1, Y: 0.85, Z: 0.6})
	lin = ms3.Add(lin, ms3.Scale(0.50*blend(0.5, nor.Y)*occlusion, ms3.Vec{X: 0.1, Y: 0.2, Z: 0.4}))
	lin = ms3.Add(lin, ms3.Scale(0.50*blend(0.4, -incident)*blend(0.5, occlusion), ms3.Vec{X: 1, Y: 1, Z: 1}))
	lin = ms3.Add(lin, ms3.Scale(0.25*occlusion, ms3.Vec{X: 0.15, Y: 0.17, Z: 0.2}))
	return ms3.MulElem(palette(rec.Material), lin)
}

// palette is a 3-phase cosine palette producing a smooth hue cycle
// over the material parameter.
func palette(m float32) ms3.Vec {
	return ms3.Vec{
		X: 0.5 + 0.5*math32.Cos(0+2*m),
		Y: 0.5 + 0.5*math32.Cos(1+2*m),
		Z: 0.5 + 0.5*math32.Cos(2+2*m),
	}
}

// gammaEncode applies the fixed display gamma curve to a linear color.
func gammaEncode(c ms3.Vec) ms3.Vec {
	const invGamma = 0.4545
	return ms3.Vec{
		X: math32.Pow(c.X, invGamma),
		Y: math32.Pow(c.Y, invGamma),
		Z: math32.Pow(c.Z, invGamma),
	}
}

func mix3(x, y ms3.Vec, a float32) ms3.Vec {
	return ms3.InterpElem(x, y, ms3.Vec{X: a, Y: a, Z: a})
}
