package linemesh

import (
	"image/color"
	"math"
	"testing"
)

func colorApprox(a, b Color) bool {
	const eps = 1.0 / 255
	return math.Abs(a.R-b.R) <= eps && math.Abs(a.G-b.G) <= eps &&
		math.Abs(a.B-b.B) <= eps && math.Abs(a.A-b.A) <= eps
}

func TestHex(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#f00", RGB(1, 0, 0), false},
		{"0f08", RGBA(0, 1, 0, 8.0/15), false},
		{"#0000ff", RGB(0, 0, 1), false},
		{"#ffffff80", RGBA(1, 1, 1, 128.0/255), false},
		{"", Color{}, true},
		{"#12345", Color{}, true},
		{"#gg0000", Color{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Hex(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Hex(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && !colorApprox(got, tt.want) {
				t.Errorf("Hex(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestColorText(t *testing.T) {
	c := RGBA(1, 0.5, 0, 1)
	text, err := c.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	if string(text) != "#ff8000ff" {
		t.Errorf("MarshalText() = %q, want #ff8000ff", text)
	}

	var back Color
	if err := back.UnmarshalText(text); err != nil {
		t.Fatal(err)
	}
	if !colorApprox(back, c) {
		t.Errorf("UnmarshalText() = %v, want %v", back, c)
	}
	if err := back.UnmarshalText([]byte("nope")); err == nil {
		t.Error("UnmarshalText(nope) error = nil")
	}
}

func TestFromColor(t *testing.T) {
	got := FromColor(color.NRGBA{R: 255, G: 0, B: 255, A: 255})
	if !colorApprox(got, RGB(1, 0, 1)) {
		t.Errorf("FromColor() = %v, want magenta", got)
	}
}

func TestPackColor(t *testing.T) {
	tests := []struct {
		name string
		c    Color
		want [2]float32
	}{
		{"black", Black, [2]float32{0, 255}},
		{"white", White, [2]float32{255*256 + 255, 255*256 + 255}},
		{"transparent", Transparent, [2]float32{0, 0}},
		{"half red", RGBA(1, 0, 0, 0.5), [2]float32{128 * 256, 128}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := packColor(tt.c)
			if got != tt.want {
				t.Errorf("packColor(%v) = %v, want %v", tt.c, got, tt.want)
			}
			if back := unpackColor(got); !colorApprox(back, tt.c.Premultiply()) {
				t.Errorf("unpackColor() = %v, want %v", back, tt.c.Premultiply())
			}
		})
	}
}

func TestColorLerp(t *testing.T) {
	got := Black.Lerp(White, 0.25)
	if !colorApprox(got, RGB(0.25, 0.25, 0.25)) {
		t.Errorf("Lerp() = %v, want 25%% gray", got)
	}
}
