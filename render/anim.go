package render

import (
	"fmt"
	"image"
	colorpalette "image/color/palette"
	"image/draw"
	"image/gif"
	"io"

	"github.com/chewxy/math32"
)

// AnimationConfig describes a rendered camera-orbit animation.
type AnimationConfig struct {
	// Start is the elapsed time of the first frame in seconds.
	Start float32
	// FrameStep is the time advanced between frames in seconds.
	FrameStep float32
	Frames    int
	// Delay between GIF frames in 100ths of a second.
	Delay int
	// Progress, when non-nil, receives one line per rendered frame.
	Progress io.Writer
}

// Animation renders cfg.Frames frames stepping the clock by
// cfg.FrameStep and assembles them into a looping GIF. Frames are
// quantized to the Plan 9 palette with Floyd-Steinberg dithering.
func (r *Renderer) Animation(cfg AnimationConfig) (*gif.GIF, error) {
	if cfg.Frames <= 0 {
		return nil, fmt.Errorf("invalid frame count %d", cfg.Frames)
	}
	if cfg.Delay < 0 {
		return nil, fmt.Errorf("negative frame delay %d", cfg.Delay)
	}
	if math32.IsNaN(cfg.FrameStep) || math32.IsInf(cfg.FrameStep, 0) {
		return nil, fmt.Errorf("non-finite frame step %v", cfg.FrameStep)
	}
	out := &gif.GIF{
		Image:     make([]*image.Paletted, 0, cfg.Frames),
		Delay:     make([]int, 0, cfg.Frames),
		LoopCount: 0,
	}
	for f := 0; f < cfg.Frames; f++ {
		t := cfg.Start + float32(f)*cfg.FrameStep
		img, err := r.Frame(t)
		if err != nil {
			return nil, fmt.Errorf("frame %d of %d: %w", f+1, cfg.Frames, err)
		}
		pal := image.NewPaletted(img.Bounds(), colorpalette.Plan9)
		draw.FloydSteinberg.Draw(pal, img.Bounds(), img, image.Point{})
		out.Image = append(out.Image, pal)
		out.Delay = append(out.Delay, cfg.Delay)
		if cfg.Progress != nil {
			fmt.Fprintf(cfg.Progress, "frame %d/%d t=%.2fs\n", f+1, cfg.Frames, t)
		}
	}
	return out, nil
}
