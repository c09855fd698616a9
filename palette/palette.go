// Package palette resolves named colors to the three brightness tiers the
// fade engine steps through, for both the screen and the pad device.
package palette

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Tier is a brightness step of a named color
type Tier int

const (
	Full Tier = iota
	Medium
	Low
)

// OffName is the color name that turns a cell off
const OffName = "off"

// Kind selects how device codes are derived
type Kind int

const (
	KindLegacy Kind = iota // red/green LED pairs: velocity = 16*green + red + 12
	KindRGB                // Launchpad X velocity palette
)

// Shade is one tier of a color as seen by each sink
type Shade struct {
	Token string // screen token, "#rrggbb" or "off"
	Code  uint8  // device velocity
}

// Off is written to both sinks when a cell goes dark
var Off = Shade{Token: OffName, Code: 0}

// Color is a resolved named color
type Color struct {
	Name  string
	Tiers [3]Shade
}

// Shade returns the shade for tier t
func (c *Color) Shade(t Tier) Shade {
	return c.Tiers[t]
}

type base struct {
	rgb    colorful.Color
	levels [2]uint8 // legacy red, green LED levels 0-3
}

// Tier brightness as a blend factor toward black
var tierDim = [3]float64{0, 0.45, 0.75}

var builtin = map[string]struct {
	hex    string
	levels [2]uint8
}{
	"red":    {"#ff0000", [2]uint8{3, 0}},
	"green":  {"#00ff00", [2]uint8{0, 3}},
	"amber":  {"#ffbf00", [2]uint8{3, 3}},
	"yellow": {"#ffff00", [2]uint8{2, 3}},
	"orange": {"#ff7f00", [2]uint8{3, 2}},
	// Extensions for RGB devices. Legacy levels are derived from RGB
	"blue":   {"#0064ff", [2]uint8{}},
	"cyan":   {"#00c8c8", [2]uint8{}},
	"purple": {"#9600c8", [2]uint8{}},
	"pink":   {"#ff50b4", [2]uint8{}},
	"white":  {"#ffffff", [2]uint8{}},
}

// Vocabulary maps color names to tiers. Lookups are cached after first resolution.
// Not safe for concurrent use; it is owned by the engine goroutine
type Vocabulary struct {
	kind  Kind
	bases map[string]base
	cache map[string]*Color // nil entry = known-unknown
}

// New returns the builtin vocabulary encoded for kind
func New(kind Kind) *Vocabulary {
	v := &Vocabulary{
		kind:  kind,
		bases: make(map[string]base, len(builtin)),
		cache: make(map[string]*Color),
	}
	for name, b := range builtin {
		c, _ := colorful.Hex(b.hex)
		levels := b.levels
		if levels == [2]uint8{} {
			levels = levelsFromRGB(c)
		}
		v.bases[name] = base{rgb: c, levels: levels}
	}
	return v
}

// Kind reports the device encoding of the vocabulary
func (v *Vocabulary) Kind() Kind {
	return v.kind
}

// Define adds or replaces a named color from a hex string
func (v *Vocabulary) Define(name, hex string) error {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fmt.Errorf("color %q: %w", name, err)
	}
	name = strings.ToLower(name)
	v.bases[name] = base{rgb: c, levels: levelsFromRGB(c)}
	delete(v.cache, name)
	return nil
}

// Lookup resolves name. Unknown names (and "off") report ok=false
func (v *Vocabulary) Lookup(name string) (*Color, bool) {
	if c, ok := v.cache[name]; ok {
		return c, c != nil
	}

	b, ok := v.bases[strings.ToLower(name)]
	if !ok {
		v.cache[name] = nil
		return nil, false
	}

	c := &Color{Name: name}
	for t := Full; t <= Low; t++ {
		rgb := b.rgb.BlendRgb(colorful.Color{}, tierDim[t]).Clamped()
		c.Tiers[t] = Shade{Token: rgb.Hex(), Code: v.code(b, rgb, t)}
	}
	v.cache[name] = c
	return c, true
}

// Names returns every known color name
func (v *Vocabulary) Names() []string {
	names := make([]string, 0, len(v.bases))
	for n := range v.bases {
		names = append(names, n)
	}
	return names
}

func (v *Vocabulary) code(b base, rgb colorful.Color, t Tier) uint8 {
	if v.kind == KindRGB {
		return NearestVelocity(rgb)
	}
	r, g := scaleLevel(b.levels[0], t), scaleLevel(b.levels[1], t)
	return LegacyVelocity(r, g)
}

// LegacyVelocity encodes red/green LED levels (0-3) with the copy+clear flags set
func LegacyVelocity(red, green uint8) uint8 {
	return green<<4 | red | 0x0C
}

// scaleLevel steps an LED level down one third per tier, keeping lit LEDs lit
func scaleLevel(level uint8, t Tier) uint8 {
	if level == 0 {
		return 0
	}
	switch t {
	case Medium:
		return uint8(math.Round(float64(level) * 2 / 3))
	case Low:
		return uint8(math.Ceil(float64(level) / 3))
	}
	return level
}

func levelsFromRGB(c colorful.Color) [2]uint8 {
	c = c.Clamped()
	return [2]uint8{uint8(math.Round(c.R * 3)), uint8(math.Round(c.G * 3))}
}
