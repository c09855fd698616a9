package animation

import (
	"math/rand/v2"
	"time"
)

type dropColumn struct {
	delay time.Duration
	speed time.Duration // time per row
	row   int           // last row lit, -1 before the first
}

// ColumnDrop lights a falling drop in every column, each with its own start delay
// and fall speed
type ColumnDrop struct {
	fades   *Fades
	color   string
	start   time.Duration
	columns [GridSize]dropColumn
}

// NewColumnDrop randomizes per-column delay and speed so every drop lands within total
func NewColumnDrop(fades *Fades, start, total time.Duration, color string, rng *rand.Rand) *ColumnDrop {
	if total < GridSize*time.Millisecond {
		total = GridSize * time.Millisecond
	}
	d := &ColumnDrop{
		fades: fades,
		color: color,
		start: start,
	}
	for i := range d.columns {
		delay := time.Duration(float64(total/2) * rng.Float64())
		fall := total - delay
		speed := time.Duration(float64(fall/GridSize) * (0.6 + 0.4*rng.Float64()))
		d.columns[i] = dropColumn{
			delay: delay,
			speed: max(speed, time.Millisecond),
			row:   -1,
		}
	}
	return d
}

// Tick lights each column's new row once, the first tick it is reached
func (d *ColumnDrop) Tick(now time.Duration) bool {
	elapsed := now - d.start
	done := true

	for x := range d.columns {
		c := &d.columns[x]
		if elapsed < c.delay {
			done = false
			continue
		}

		row := int((elapsed - c.delay) / c.speed)
		if row != c.row {
			c.row = row
			if row < GridSize {
				d.fades.Add(Position{X: x, Y: row}, d.color, 3*c.speed, ModeStandard)
			}
		}
		if row < GridSize {
			done = false
		}
	}
	return done
}
