// Package render turns the Manhattan surface distance field into shaded
// images: an orbiting camera, a lockstep sphere-tracing marcher, soft
// shadows, finite-difference normals and a cosine-palette shader,
// driven row-parallel across CPU workers.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/soypat/glgl/math/ms1"
	"github.com/soypat/glgl/math/ms3"
	xdraw "golang.org/x/image/draw"

	"github.com/kochsurf/manhattan/eval"
)

// Config parametrizes a [Renderer]. Zero values select defaults where noted.
type Config struct {
	Width  int
	Height int
	// SuperSample renders at an integer multiple of the output resolution
	// and downsamples with a Catmull-Rom kernel. 0 and 1 disable.
	SuperSample int
	// Workers caps concurrent row-rendering goroutines. Defaults to [runtime.NumCPU].
	Workers int
}

// Renderer renders frames of the surface as seen from the orbiting
// camera. Safe for sequential reuse across frames; each frame spreads
// its rows over workers with independent scratch buffers.
type Renderer struct {
	sdf eval.SDF3
	cfg Config
}

// New validates cfg and creates a Renderer for the argument field.
func New(sdf eval.SDF3, cfg Config) (*Renderer, error) {
	if sdf == nil {
		return nil, errors.New("nil SDF")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid resolution %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.SuperSample < 0 {
		return nil, errors.New("negative supersample factor")
	}
	if cfg.SuperSample == 0 {
		cfg.SuperSample = 1
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Renderer{sdf: sdf, cfg: cfg}, nil
}

// Frame renders the surface at elapsed time t in seconds.
func (r *Renderer) Frame(t float32) (*image.RGBA, error) {
	ss := r.cfg.SuperSample
	width, height := r.cfg.Width*ss, r.cfg.Height*ss
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	cam := LookAt(OrbitPosition(t), ms3.Vec{})

	workers := min(r.cfg.Workers, height)
	var nextRow atomic.Int64
	var wg sync.WaitGroup
	errs := make([]error, workers)
	wg.Add(workers)
	for wi := 0; wi < workers; wi++ {
		go func(wi int) {
			defer wg.Done()
			wk := newWorker(width)
			for {
				y := int(nextRow.Add(1)) - 1
				if y >= height {
					return
				}
				if err := wk.renderRow(r.sdf, cam, img, y, width, height); err != nil {
					errs[wi] = fmt.Errorf("row %d: %w", y, err)
					return
				}
			}
		}(wi)
	}
	wg.Wait()
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if ss > 1 {
		dst := image.NewRGBA(image.Rect(0, 0, r.cfg.Width, r.cfg.Height))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
		img = dst
	}
	return img, nil
}

// worker owns the scratch state of one rendering goroutine.
type worker struct {
	vp  eval.VecPool
	idx []int
	rd  []ms3.Vec
	t   []float32
}

func newWorker(width int) *worker {
	return &worker{
		idx: make([]int, 0, width),
		rd:  make([]ms3.Vec, width),
		t:   make([]float32, width),
	}
}

// renderRow evaluates one pixel row: view rays, primary march, then
// normals and shadows over the hit subset, and writes shaded colors.
func (w *worker) renderRow(sdf eval.SDF3, cam Camera, img *image.RGBA, y, width, height int) error {
	// Pixel centers normalized to [-1,1]² with py up.
	py := 1 - 2*(float32(y)+0.5)/float32(height)
	rd := w.rd[:width]
	t := w.t[:width]
	for x := 0; x < width; x++ {
		px := -1 + 2*(float32(x)+0.5)/float32(width)
		rd[x] = cam.RayDirection(px, py)
	}
	if err := w.march(sdf, cam.Eye, rd, t); err != nil {
		return err
	}
	hits := w.idx[:0]
	for x := range t {
		if t[x] != miss {
			hits = append(hits, x)
		}
	}
	var hpos, nor []ms3.Vec
	var shadow []float32
	if len(hits) > 0 {
		n := len(hits)
		hpos = w.vp.V3.Acquire(n)
		nor = w.vp.V3.Acquire(n)
		shadow = w.vp.Float.Acquire(n)
		defer w.vp.V3.Release(hpos)
		defer w.vp.V3.Release(nor)
		defer w.vp.Float.Release(shadow)
		for k, x := range hits {
			hpos[k] = ms3.Add(cam.Eye, ms3.Scale(t[x], rd[x]))
		}
		err := eval.NormalsCentralDiff(sdf, hpos, nor, 2*normalEpsilon, &w.vp)
		if err != nil {
			return err
		}
		for k, n := range nor {
			nor[k] = ms3.Unit(n)
		}
		err = w.softShadows(sdf, hpos, lightDirection, shadowMinStart, shadowSharpK, shadow)
		if err != nil {
			return err
		}
	}
	k := 0
	for x := 0; x < width; x++ {
		var col ms3.Vec
		if t[x] != miss {
			col = shade(classify(t[x]), nor[k], shadow[k])
			k++
		} else {
			col = background(rd[x].Y)
		}
		col = gammaEncode(col)
		img.SetRGBA(x, y, color.RGBA{
			R: uint8(255*ms1.Clamp(col.X, 0, 1) + 0.5),
			G: uint8(255*ms1.Clamp(col.Y, 0, 1) + 0.5),
			B: uint8(255*ms1.Clamp(col.Z, 0, 1) + 0.5),
			A: 255,
		})
	}
	w.idx = hits[:0]
	return nil
}

// normalEpsilon is the per-axis central difference offset for normal
// estimation at hit points.
const normalEpsilon = 0.001
