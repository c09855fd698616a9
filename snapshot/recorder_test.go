package snapshot

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go-padlight/animation"
)

func rgbAt(t *testing.T, r *Recorder, pos animation.Position) [3]uint32 {
	t.Helper()
	p := r.Center(pos)
	cr, cg, cb, _ := r.Image().At(p.X, p.Y).RGBA()
	return [3]uint32{cr >> 8, cg >> 8, cb >> 8}
}

func TestRecorderDrawsLitAndDarkPads(t *testing.T) {
	r, err := NewRecorder(Options{Cell: 20})
	if err != nil {
		t.Fatal(err)
	}

	r.SetVisualColor("#ff0000", animation.Position{X: 0, Y: 0})
	r.SetVisualColor("#00ff00", animation.Position{X: 7, Y: animation.ControlRow})
	r.SetVisualColor("off", animation.Position{X: 1, Y: 0})
	r.FlushVisual()

	if got := rgbAt(t, r, animation.Position{X: 0, Y: 0}); got != [3]uint32{255, 0, 0} {
		t.Errorf("lit pad = %v", got)
	}
	if got := rgbAt(t, r, animation.Position{X: 7, Y: animation.ControlRow}); got != [3]uint32{0, 255, 0} {
		t.Errorf("control pad = %v", got)
	}
	dark := rgbAt(t, r, animation.Position{X: 1, Y: 0})
	if dark[0] > 80 || dark[1] > 80 || dark[2] > 80 {
		t.Errorf("off pad = %v", dark)
	}
	if r.Frames() != 1 {
		t.Errorf("frames = %d", r.Frames())
	}
}

func TestRecorderSavesNumberedFrames(t *testing.T) {
	dir := t.TempDir()
	var now time.Duration
	r, err := NewRecorder(Options{
		Dir:     dir,
		Cell:    16,
		Caption: func() time.Duration { return now },
	})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		now += 100 * time.Millisecond
		r.FlushVisual()
	}
	if err := r.Err(); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"frame00001.png", "frame00002.png", "frame00003.png"} {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
		if _, err := png.Decode(f); err != nil {
			t.Errorf("%s is not a PNG: %v", name, err)
		}
		f.Close()
	}
}

func TestRecorderSaveErrorKept(t *testing.T) {
	r, err := NewRecorder(Options{Dir: filepath.Join(t.TempDir(), "missing", "dir"), Cell: 8})
	if err != nil {
		t.Fatal(err)
	}
	r.FlushVisual()
	r.FlushVisual()
	if r.Err() == nil {
		t.Fatal("expected a save error")
	}
	if r.Frames() != 2 {
		t.Errorf("frames = %d, drawing should continue", r.Frames())
	}
}

func TestRecorderEncodePNG(t *testing.T) {
	r, err := NewRecorder(Options{Cell: 8})
	if err != nil {
		t.Fatal(err)
	}
	r.FlushVisual()

	var buf bytes.Buffer
	if err := r.EncodePNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != r.Image().Bounds() {
		t.Errorf("bounds %v, want %v", img.Bounds(), r.Image().Bounds())
	}
}
