// Package snapshot renders the pad grid offscreen and saves PNG frames.
package snapshot

import (
	"fmt"
	"image"
	"io"
	"path/filepath"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font/gofont/goregular"

	"go-padlight/animation"
	"go-padlight/debug"
)

const rows = animation.ControlRow + 1

// Options configures a Recorder
type Options struct {
	Dir     string               // frames are written as Dir/frame00001.png; empty = keep in memory only
	Cell    int                  // pad size in pixels, default 48
	Caption func() time.Duration // when set, each frame is labelled with this time
}

// Recorder is a visual sink that draws every flushed frame with gg
type Recorder struct {
	opts  Options
	dc    *gg.Context
	cells [rows][animation.GridSize]string

	cell, gap, margin float64
	frames            int
	err               error
}

// NewRecorder creates a recorder. The caption font is parsed once here
func NewRecorder(opts Options) (*Recorder, error) {
	if opts.Cell <= 0 {
		opts.Cell = 48
	}
	cell := float64(opts.Cell)
	r := &Recorder{
		opts:   opts,
		cell:   cell,
		gap:    cell / 8,
		margin: cell / 2,
	}

	w := 2*r.margin + animation.GridSize*cell + (animation.GridSize-1)*r.gap
	h := r.gridTop() + animation.GridSize*cell + (animation.GridSize-1)*r.gap + r.margin
	if opts.Caption != nil {
		h += cell / 2
	}
	r.dc = gg.NewContext(int(w), int(h))

	if opts.Caption != nil {
		font, err := truetype.Parse(goregular.TTF)
		if err != nil {
			return nil, fmt.Errorf("parse caption font: %w", err)
		}
		r.dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: cell / 3}))
	}
	return r, nil
}

func (r *Recorder) SetVisualColor(token string, pos animation.Position) {
	if !pos.Valid() {
		return
	}
	r.cells[pos.Y][pos.X] = token
}

// FlushVisual draws the frame and saves it when a directory is set.
// The first save error stops further saves and is kept for Err
func (r *Recorder) FlushVisual() {
	r.draw()
	r.frames++
	if r.opts.Dir == "" || r.err != nil {
		return
	}
	path := filepath.Join(r.opts.Dir, fmt.Sprintf("frame%05d.png", r.frames))
	if err := r.dc.SavePNG(path); err != nil {
		r.err = fmt.Errorf("save frame %d: %w", r.frames, err)
		debug.Log("snapshot", "%v", r.err)
	}
}

// Frames returns the number of frames drawn
func (r *Recorder) Frames() int {
	return r.frames
}

// Err returns the first save error
func (r *Recorder) Err() error {
	return r.err
}

// Image returns the last drawn frame
func (r *Recorder) Image() image.Image {
	return r.dc.Image()
}

// EncodePNG writes the last drawn frame to w
func (r *Recorder) EncodePNG(w io.Writer) error {
	return r.dc.EncodePNG(w)
}

// Center returns the pixel at the middle of pos in a frame
func (r *Recorder) Center(pos animation.Position) image.Point {
	x, y := r.origin(pos)
	return image.Pt(int(x+r.cell/2), int(y+r.cell/2))
}

func (r *Recorder) gridTop() float64 {
	return r.margin + r.cell + r.cell/2
}

// origin is the top left corner of pos
func (r *Recorder) origin(pos animation.Position) (float64, float64) {
	x := r.margin + float64(pos.X)*(r.cell+r.gap)
	if pos.Y >= animation.ControlRow {
		return x, r.margin
	}
	return x, r.gridTop() + float64(pos.Y)*(r.cell+r.gap)
}

func (r *Recorder) draw() {
	dc := r.dc
	dc.SetRGB(0.08, 0.08, 0.09)
	dc.Clear()

	for y := 0; y < rows; y++ {
		for x := 0; x < animation.GridSize; x++ {
			pos := animation.Position{X: x, Y: y}
			ox, oy := r.origin(pos)
			if y == animation.ControlRow {
				// round buttons on the control strip
				dc.DrawCircle(ox+r.cell/2, oy+r.cell/2, r.cell/2-1)
			} else {
				dc.DrawRoundedRectangle(ox, oy, r.cell, r.cell, r.cell/8)
			}
			setPadColor(dc, r.cells[y][x])
			dc.Fill()
		}
	}

	if r.opts.Caption != nil {
		dc.SetRGB(0.7, 0.7, 0.7)
		label := fmt.Sprintf("%6.3fs", r.opts.Caption().Seconds())
		dc.DrawString(label, r.margin, float64(dc.Height())-r.margin/2)
	}
}

func setPadColor(dc *gg.Context, token string) {
	c, err := colorful.Hex(token)
	if err != nil {
		// off, or never written
		dc.SetRGB(0.18, 0.18, 0.2)
		return
	}
	dc.SetRGB(c.R, c.G, c.B)
}
