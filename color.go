package linemesh

import (
	"fmt"
	"image/color"
	"math"
)

// Color is a straight-alpha color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// RGBA creates a color from RGBA components.
func RGBA(r, g, b, a float64) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// FromColor converts a standard color.Color.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
		A: float64(n.A) / 255,
	}
}

// Hex parses "#RGB", "#RGBA", "#RRGGBB" or "#RRGGBBAA" (the '#' is
// optional).
func Hex(hex string) (Color, error) {
	s := hex
	if s != "" && s[0] == '#' {
		s = s[1:]
	}

	var ch [4]uint32
	ch[3] = 255
	switch len(s) {
	case 3, 4:
		for i := range len(s) {
			v, ok := parseHex(s[i : i+1])
			if !ok {
				return Color{}, fmt.Errorf("linemesh: invalid color %q", hex)
			}
			ch[i] = v * 17
		}
	case 6, 8:
		for i := range len(s) / 2 {
			v, ok := parseHex(s[2*i : 2*i+2])
			if !ok {
				return Color{}, fmt.Errorf("linemesh: invalid color %q", hex)
			}
			ch[i] = v
		}
	default:
		return Color{}, fmt.Errorf("linemesh: invalid color %q", hex)
	}

	return Color{
		R: float64(ch[0]) / 255,
		G: float64(ch[1]) / 255,
		B: float64(ch[2]) / 255,
		A: float64(ch[3]) / 255,
	}, nil
}

func parseHex(s string) (uint32, bool) {
	var val uint32
	for i := 0; i < len(s); i++ {
		c := s[i]
		val *= 16
		switch {
		case '0' <= c && c <= '9':
			val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			val += uint32(c - 'A' + 10)
		default:
			return 0, false
		}
	}
	return val, true
}

// String returns the color as "#rrggbbaa".
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", to8(c.R), to8(c.G), to8(c.B), to8(c.A))
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using Hex.
func (c *Color) UnmarshalText(text []byte) error {
	v, err := Hex(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Premultiply returns the color with RGB multiplied by alpha.
func (c Color) Premultiply() Color {
	return Color{R: c.R * c.A, G: c.G * c.A, B: c.B * c.A, A: c.A}
}

// Lerp performs linear interpolation between two colors.
func (c Color) Lerp(other Color, t float64) Color {
	return Color{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// packColor packs a premultiplied color into two floats holding two
// 8-bit channels each: (r*256 + g, b*256 + a).
func packColor(c Color) [2]float32 {
	p := c.Premultiply()
	return [2]float32{
		packUint8Pair(to8(p.R), to8(p.G)),
		packUint8Pair(to8(p.B), to8(p.A)),
	}
}

// unpackColor reverses packColor. The result stays premultiplied.
func unpackColor(v [2]float32) Color {
	r, g := unpackUint8Pair(v[0])
	b, a := unpackUint8Pair(v[1])
	return Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}
}

func packUint8Pair(a, b uint8) float32 {
	return float32(a)*256 + float32(b)
}

func unpackUint8Pair(v float32) (uint8, uint8) {
	n := uint32(v)
	return uint8(n >> 8), uint8(n)
}

// to8 converts a [0, 1] component to a byte.
func to8(x float64) uint8 {
	return uint8(math.Round(max(0, min(1, x)) * 255))
}

// Common colors.
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Transparent = RGBA(0, 0, 0, 0)
)
