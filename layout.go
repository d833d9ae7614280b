package linemesh

import "fmt"

// LineCap specifies the shape of line endpoints.
type LineCap int

const (
	// LineCapButt ends the line exactly at the endpoint.
	LineCapButt LineCap = iota
	// LineCapRound ends the line with a half circle of radius width/2.
	LineCapRound
	// LineCapSquare extends the line by width/2 beyond the endpoint.
	LineCapSquare
)

// String returns the style name of the cap ("butt", "round", "square").
func (c LineCap) String() string {
	switch c {
	case LineCapButt:
		return "butt"
	case LineCapRound:
		return "round"
	case LineCapSquare:
		return "square"
	default:
		return fmt.Sprintf("LineCap(%d)", int(c))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c LineCap) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *LineCap) UnmarshalText(text []byte) error {
	switch string(text) {
	case "butt":
		*c = LineCapButt
	case "round":
		*c = LineCapRound
	case "square":
		*c = LineCapSquare
	default:
		return fmt.Errorf("%w: line-cap %q", ErrInvalidLayout, text)
	}
	return nil
}

// LineJoin specifies the shape of line joins.
type LineJoin int

const (
	// LineJoinMiter extends the outer edges until they meet.
	LineJoinMiter LineJoin = iota
	// LineJoinBevel cuts the corner with a straight edge.
	LineJoinBevel
	// LineJoinRound fills the corner with a circular fan.
	LineJoinRound
)

// String returns the style name of the join ("miter", "bevel", "round").
func (j LineJoin) String() string {
	switch j {
	case LineJoinMiter:
		return "miter"
	case LineJoinBevel:
		return "bevel"
	case LineJoinRound:
		return "round"
	default:
		return fmt.Sprintf("LineJoin(%d)", int(j))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (j LineJoin) MarshalText() ([]byte, error) {
	return []byte(j.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (j *LineJoin) UnmarshalText(text []byte) error {
	switch string(text) {
	case "miter":
		*j = LineJoinMiter
	case "bevel":
		*j = LineJoinBevel
	case "round":
		*j = LineJoinRound
	default:
		return fmt.Errorf("%w: line-join %q", ErrInvalidLayout, text)
	}
	return nil
}

// Layout is the evaluated layout-property snapshot shared by every layer
// drawing from one bucket.
type Layout struct {
	// Cap is the shape of line endpoints. Default: LineCapButt
	Cap LineCap `toml:"cap"`

	// Join is the shape of line joins. Default: LineJoinMiter
	Join LineJoin `toml:"join"`

	// MiterLimit is the miter length, in multiples of the half width, above
	// which miter joins become bevels. Default: 2
	MiterLimit float64 `toml:"miter-limit"`

	// RoundLimit is the miter length below which round joins are drawn as
	// miters. Default: 1.05
	RoundLimit float64 `toml:"round-limit"`

	// WidthScale multiplies every evaluated line width. Default: 1
	WidthScale float64 `toml:"width-scale"`
}

// DefaultLayout returns the default layout of a line layer.
func DefaultLayout() Layout {
	return Layout{
		Cap:        LineCapButt,
		Join:       LineJoinMiter,
		MiterLimit: 2,
		RoundLimit: 1.05,
		WidthScale: 1,
	}
}

// WithCap returns a copy of the Layout with the given cap style.
func (l Layout) WithCap(lineCap LineCap) Layout {
	l.Cap = lineCap
	return l
}

// WithJoin returns a copy of the Layout with the given join style.
func (l Layout) WithJoin(join LineJoin) Layout {
	l.Join = join
	return l
}

// WithMiterLimit returns a copy of the Layout with the given miter limit.
func (l Layout) WithMiterLimit(limit float64) Layout {
	l.MiterLimit = limit
	return l
}

// WithRoundLimit returns a copy of the Layout with the given round limit.
func (l Layout) WithRoundLimit(limit float64) Layout {
	l.RoundLimit = limit
	return l
}

// WithWidthScale returns a copy of the Layout with the given width scale.
func (l Layout) WithWidthScale(scale float64) Layout {
	l.WidthScale = scale
	return l
}

// Validate reports whether the layout can be tessellated.
func (l Layout) Validate() error {
	switch {
	case l.Cap < LineCapButt || l.Cap > LineCapSquare:
		return fmt.Errorf("%w: %v", ErrInvalidLayout, l.Cap)
	case l.Join < LineJoinMiter || l.Join > LineJoinRound:
		return fmt.Errorf("%w: %v", ErrInvalidLayout, l.Join)
	case l.MiterLimit <= 0:
		return fmt.Errorf("%w: miter-limit %v", ErrInvalidLayout, l.MiterLimit)
	case l.RoundLimit <= 0:
		return fmt.Errorf("%w: round-limit %v", ErrInvalidLayout, l.RoundLimit)
	case l.WidthScale <= 0:
		return fmt.Errorf("%w: width-scale %v", ErrInvalidLayout, l.WidthScale)
	}
	return nil
}

// normalized replaces out-of-range fields with their defaults.
func (l Layout) normalized() Layout {
	d := DefaultLayout()
	if l.Cap < LineCapButt || l.Cap > LineCapSquare {
		l.Cap = d.Cap
	}
	if l.Join < LineJoinMiter || l.Join > LineJoinRound {
		l.Join = d.Join
	}
	if l.MiterLimit <= 0 {
		l.MiterLimit = d.MiterLimit
	}
	if l.RoundLimit <= 0 {
		l.RoundLimit = d.RoundLimit
	}
	if l.WidthScale <= 0 {
		l.WidthScale = d.WidthScale
	}
	return l
}
