// Command manhattan renders the Manhattan surface, also known as the 3D
// quadratic Koch surface, to a PNG still or an animated GIF of the
// orbiting camera.
package main

import (
	"flag"
	"fmt"
	"image/gif"
	"image/png"
	"io"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/kochsurf/manhattan"
	"github.com/kochsurf/manhattan/render"
)

func main() {
	var (
		width      = flag.Int("width", 640, "output width in pixels")
		height     = flag.Int("height", 480, "output height in pixels")
		frames     = flag.Int("frames", 1, "frame count; more than 1 writes an animated GIF")
		fps        = flag.Float64("fps", 20, "animation frames per second")
		start      = flag.Float64("t", 0, "elapsed time of the first frame in seconds")
		ss         = flag.Int("ss", 1, "supersampling factor for anti-aliasing")
		workers    = flag.Int("workers", 0, "row rendering goroutines, 0 uses all CPUs")
		out        = flag.String("o", "", "output filename, defaults to manhattan.png or manhattan.gif")
		quiet      = flag.Bool("quiet", false, "suppress progress output")
		cpuprofile = flag.String("cpuprofile", "", "write CPU profile to file")
	)
	flag.Parse()
	if *frames > 1 && *fps <= 0 {
		log.Fatalf("invalid fps %v, must be positive", *fps)
	}
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("creating profile file: ", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("starting profile: ", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			f.Close()
		}()
	}

	bld := manhattan.Builder{NoPanic: true}
	sdf := bld.Surface()
	if err := bld.Err(); err != nil {
		log.Fatal("building surface: ", err)
	}
	renderer, err := render.New(sdf, render.Config{
		Width:       *width,
		Height:      *height,
		SuperSample: *ss,
		Workers:     *workers,
	})
	if err != nil {
		log.Fatal(err)
	}

	animated := *frames > 1
	filename := *out
	if filename == "" {
		filename = "manhattan.png"
		if animated {
			filename = "manhattan.gif"
		}
	}
	fp, err := os.Create(filename)
	if err != nil {
		log.Fatal("creating output: ", err)
	}
	defer fp.Close()

	var progress io.Writer
	if !*quiet {
		progress = os.Stdout
	}
	watch := time.Now()
	if animated {
		anim, err := renderer.Animation(render.AnimationConfig{
			Start:     float32(*start),
			FrameStep: float32(1 / *fps),
			Frames:    *frames,
			Delay:     int(100 / *fps),
			Progress:  progress,
		})
		if err != nil {
			log.Fatal("rendering animation: ", err)
		}
		err = gif.EncodeAll(fp, anim)
		if err != nil {
			log.Fatal("encoding GIF: ", err)
		}
	} else {
		img, err := renderer.Frame(float32(*start))
		if err != nil {
			log.Fatal("rendering frame: ", err)
		}
		err = png.Encode(fp, img)
		if err != nil {
			log.Fatal("encoding PNG: ", err)
		}
	}
	if !*quiet {
		fmt.Println("wrote", filename, "in", time.Since(watch).Round(time.Millisecond))
	}
}
