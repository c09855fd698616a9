package palette

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Launchpad X palette - approximate RGB values for key velocities
var launchpadX = []struct {
	velocity uint8
	rgb      colorful.Color
}{
	{0, rgb8(0, 0, 0)},
	{5, rgb8(255, 0, 0)},
	{6, rgb8(255, 80, 80)},
	{7, rgb8(180, 60, 60)},
	{9, rgb8(255, 100, 0)},
	{11, rgb8(180, 80, 40)},
	{13, rgb8(255, 200, 0)},
	{17, rgb8(0, 180, 0)},
	{19, rgb8(0, 100, 0)},
	{21, rgb8(0, 255, 0)},
	{37, rgb8(0, 200, 200)},
	{43, rgb8(40, 60, 120)},
	{45, rgb8(0, 100, 255)},
	{47, rgb8(80, 150, 255)},
	{49, rgb8(150, 0, 200)},
	{53, rgb8(255, 80, 180)},
	{78, rgb8(100, 100, 255)},
	{84, rgb8(255, 150, 50)},
	{87, rgb8(150, 255, 100)},
	{97, rgb8(180, 180, 60)},
	{119, rgb8(255, 255, 255)},
}

// NearestVelocity finds the Launchpad X palette velocity closest to c in Lab space
func NearestVelocity(c colorful.Color) uint8 {
	best := uint8(0)
	bestDist := math.MaxFloat64
	for _, p := range launchpadX {
		if d := c.DistanceLab(p.rgb); d < bestDist {
			bestDist = d
			best = p.velocity
		}
	}
	return best
}

// NearestVelocityRGB is NearestVelocity for 8-bit channels
func NearestVelocityRGB(rgb [3]uint8) uint8 {
	return NearestVelocity(rgb8(rgb[0], rgb[1], rgb[2]))
}

func rgb8(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}
