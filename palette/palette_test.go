package palette

import "testing"

func TestLegacyTiers(t *testing.T) {
	v := New(KindLegacy)

	tests := []struct {
		name string
		want [3]uint8
	}{
		{"red", [3]uint8{0x0F, 0x0E, 0x0D}},
		{"green", [3]uint8{0x3C, 0x2C, 0x1C}},
		{"amber", [3]uint8{0x3F, 0x2E, 0x1D}},
	}

	for _, tt := range tests {
		c, ok := v.Lookup(tt.name)
		if !ok {
			t.Fatalf("%s: not found", tt.name)
		}
		for tier, want := range tt.want {
			if got := c.Tiers[tier].Code; got != want {
				t.Errorf("%s tier %d: code 0x%02X, want 0x%02X", tt.name, tier, got, want)
			}
		}
	}
}

func TestTokensDimByTier(t *testing.T) {
	v := New(KindLegacy)
	c, _ := v.Lookup("red")

	if c.Shade(Full).Token != "#ff0000" {
		t.Errorf("full token = %s", c.Shade(Full).Token)
	}
	if c.Shade(Medium).Token == c.Shade(Full).Token || c.Shade(Low).Token == c.Shade(Medium).Token {
		t.Errorf("tiers should differ: %+v", c.Tiers)
	}
}

func TestUnknownAndOff(t *testing.T) {
	v := New(KindLegacy)
	if _, ok := v.Lookup("chartreuse"); ok {
		t.Error("unknown color resolved")
	}
	// negative results are cached
	if _, ok := v.Lookup("chartreuse"); ok {
		t.Error("unknown color resolved on second lookup")
	}
	if _, ok := v.Lookup(OffName); ok {
		t.Error("off should not resolve to tiers")
	}
}

func TestLookupIsCached(t *testing.T) {
	v := New(KindRGB)
	a, _ := v.Lookup("blue")
	b, _ := v.Lookup("blue")
	if a != b {
		t.Error("expected cached pointer")
	}
}

func TestDefineOverridesCache(t *testing.T) {
	v := New(KindLegacy)
	v.Lookup("red")
	if err := v.Define("red", "#00ff00"); err != nil {
		t.Fatal(err)
	}
	c, _ := v.Lookup("red")
	if c.Shade(Full).Code != 0x3C {
		t.Errorf("redefined red code = 0x%02X", c.Shade(Full).Code)
	}
	if err := v.Define("bad", "nothex"); err == nil {
		t.Error("expected hex parse error")
	}
}

func TestNearestVelocity(t *testing.T) {
	tests := []struct {
		rgb  [3]uint8
		want uint8
	}{
		{[3]uint8{255, 0, 0}, 5},
		{[3]uint8{0, 255, 0}, 21},
		{[3]uint8{0, 0, 0}, 0},
		{[3]uint8{255, 255, 255}, 119},
	}
	for _, tt := range tests {
		if got := NearestVelocityRGB(tt.rgb); got != tt.want {
			t.Errorf("NearestVelocityRGB(%v) = %d, want %d", tt.rgb, got, tt.want)
		}
	}
}
