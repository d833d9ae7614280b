package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/linemesh"
)

// config is the TOML style file read with -config.
//
//	[layout]
//	cap = "round"
//	join = "round"
//
//	[[layer]]
//	id = "road"
//	color = "#ff8800"
//	width = 2.0
//	width-property = "lanes"
type config struct {
	Layout linemesh.Layout `toml:"layout"`
	Layers []layerConfig   `toml:"layer"`
}

// layerConfig describes one layer. A "-property" key names a feature
// property that overrides the constant for each feature; the constant is
// the fallback when the property is missing.
type layerConfig struct {
	ID string `toml:"id"`

	Color         *linemesh.Color `toml:"color"`
	ColorProperty string          `toml:"color-property"`

	Opacity         *float32 `toml:"opacity"`
	OpacityProperty string   `toml:"opacity-property"`

	Width         *float32 `toml:"width"`
	WidthProperty string   `toml:"width-property"`

	GapWidth         float32 `toml:"gap-width"`
	GapWidthProperty string  `toml:"gap-width-property"`

	Offset         float32 `toml:"offset"`
	OffsetProperty string  `toml:"offset-property"`

	Blur         float32 `toml:"blur"`
	BlurProperty string  `toml:"blur-property"`

	Translate [2]float32 `toml:"translate"`
	Dash      []float64  `toml:"dash"`
}

func defaultConfig() config {
	return config{
		Layout: linemesh.DefaultLayout(),
		Layers: []layerConfig{{ID: "line"}},
	}
}

func loadConfig(path string) (config, error) {
	if path == "" {
		return defaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return config{}, err
	}
	return parseConfig(data)
}

func parseConfig(data []byte) (config, error) {
	cfg := config{Layout: linemesh.DefaultLayout()}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Layout.Validate(); err != nil {
		return config{}, err
	}
	if len(cfg.Layers) == 0 {
		cfg.Layers = defaultConfig().Layers
	}
	for i, l := range cfg.Layers {
		if l.ID == "" {
			return config{}, fmt.Errorf("parse config: layer %d has no id", i)
		}
	}
	return cfg, nil
}

// lineLayers converts the layer tables to line layers.
func (c config) lineLayers() []linemesh.LineLayer {
	layers := make([]linemesh.LineLayer, len(c.Layers))
	for i, l := range c.Layers {
		layers[i] = linemesh.LineLayer{ID: l.ID, Paint: l.paint()}
	}
	return layers
}

func (l layerConfig) paint() linemesh.LinePaint {
	p := linemesh.DefaultLinePaint()

	color := linemesh.Black
	if l.Color != nil {
		color = *l.Color
	}
	p.Color = colorProperty(l.ColorProperty, color)

	opacity := float32(1)
	if l.Opacity != nil {
		opacity = *l.Opacity
	}
	p.Opacity = numberProperty(l.OpacityProperty, opacity)

	width := float32(1)
	if l.Width != nil {
		width = *l.Width
	}
	p.Width = numberProperty(l.WidthProperty, width)

	p.GapWidth = numberProperty(l.GapWidthProperty, l.GapWidth)
	p.Offset = numberProperty(l.OffsetProperty, l.Offset)
	p.Blur = numberProperty(l.BlurProperty, l.Blur)
	p.Translate = l.Translate
	p.DashArray = l.Dash
	return p
}

// numberProperty reads a numeric feature property, or returns the
// constant fallback when key is empty.
func numberProperty(key string, fallback float32) linemesh.PropertyValue[float32] {
	if key == "" {
		return linemesh.Constant(fallback)
	}
	return linemesh.Source(func(f linemesh.Feature) float32 {
		v, _ := f.Value(key)
		switch n := v.(type) {
		case float64:
			return float32(n)
		case float32:
			return n
		case int:
			return float32(n)
		case int64:
			return float32(n)
		default:
			return fallback
		}
	})
}

// colorProperty reads a hex color feature property, or returns the
// constant fallback when key is empty.
func colorProperty(key string, fallback linemesh.Color) linemesh.PropertyValue[linemesh.Color] {
	if key == "" {
		return linemesh.Constant(fallback)
	}
	return linemesh.Source(func(f linemesh.Feature) linemesh.Color {
		v, _ := f.Value(key)
		s, ok := v.(string)
		if !ok {
			return fallback
		}
		c, err := linemesh.Hex(s)
		if err != nil {
			return fallback
		}
		return c
	})
}
