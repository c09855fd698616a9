// Command padrender runs one pattern offline against a manual clock and writes
// every frame as a PNG, e.g. for turning into a video with ffmpeg.
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"slices"
	"time"

	"go-padlight/animation"
	"go-padlight/config"
	"go-padlight/patterns"
	"go-padlight/snapshot"
)

func main() {
	pattern := flag.String("pattern", "ripple", "pattern to render")
	x := flag.Int("x", 3, "trigger column")
	y := flag.Int("y", 3, "trigger row")
	seconds := flag.Float64("duration", 1, "pattern duration in seconds")
	tail := flag.Float64("tail", 0.5, "seconds to keep rendering after the duration")
	color := flag.String("color", "", "pattern color (default from config)")
	fps := flag.Int("fps", 30, "frames per second")
	out := flag.String("out", "frames", "output directory")
	cell := flag.Int("cell", 48, "pad size in pixels")
	seed := flag.Uint64("seed", 1, "random seed")
	flag.Parse()

	if err := run(*pattern, *x, *y, *seconds, *tail, *color, *fps, *out, *cell, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "padrender: %v\n", err)
		os.Exit(1)
	}
}

func run(pattern string, x, y int, seconds, tail float64, color string, fps int, out string, cell int, seed uint64) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if color == "" {
		color = cfg.Color
	}
	if fps <= 0 {
		return fmt.Errorf("fps must be positive")
	}

	catalog := patterns.Catalog()
	if _, ok := catalog[pattern]; !ok {
		ids := make([]string, 0, len(catalog))
		for id := range catalog {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		return fmt.Errorf("unknown pattern %q (have %v)", pattern, ids)
	}

	if err := os.MkdirAll(out, 0755); err != nil {
		return err
	}

	// frames show true colors whatever the device palette is
	cfg.Device.Palette = config.PaletteRGB
	colors, err := cfg.Vocabulary()
	if err != nil {
		return err
	}

	clock := animation.NewManualClock(time.Unix(0, 0))
	var engine *animation.Engine
	rec, err := snapshot.NewRecorder(snapshot.Options{
		Dir:     out,
		Cell:    cell,
		Caption: func() time.Duration { return engine.Now() },
	})
	if err != nil {
		return err
	}

	engine = animation.New(animation.Options{
		Clock:    clock,
		Colors:   colors,
		Visual:   rec,
		Catalog:  catalog,
		Rand:     rand.New(rand.NewPCG(seed, seed)),
		Defaults: cfg.Fades.Defaults(),
		Color:    color,
	})
	engine.Trigger(pattern, x, y, seconds)

	frame := time.Second / time.Duration(fps)
	total := time.Duration((seconds + tail) * float64(time.Second))
	for t := time.Duration(0); t <= total; t += frame {
		engine.Tick()
		clock.Advance(frame)
		if err := rec.Err(); err != nil {
			return err
		}
	}

	fmt.Printf("wrote %d frames to %s\n", rec.Frames(), out)
	return nil
}
