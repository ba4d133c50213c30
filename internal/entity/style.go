package entity

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Named colors used by the default templates.
var (
	RoyalBlue = Color{R: 0.254902, G: 0.411765, B: 0.882353, A: 1}
	Yellow    = Color{R: 1, G: 1, B: 0, A: 1}
	Black     = Color{R: 0, G: 0, B: 0, A: 1}
)

// StyleTemplates bundles the three default style templates, one per geometry
// family. The host application may mutate them between loads; the pipeline
// only ever copies them onto new entities.
type StyleTemplates struct {
	Point   *Entity
	Line    *Entity
	Polygon *Entity
}

// DefaultStyles returns a fresh template bundle with the stock styling:
// royal-blue markers, yellow strokes, translucent yellow fill.
func DefaultStyles() *StyleTemplates {
	marker := RoyalBlue
	stroke := Yellow
	outlineColor := Yellow
	pixelSize := 8.0
	strokeWidth := 2.0
	outline := true
	fill := Yellow
	fill.A = 100.0 / 255.0
	return &StyleTemplates{
		Point: &Entity{
			Point: &PointGraphics{
				Color:     &marker,
				PixelSize: &pixelSize,
			},
		},
		Line: &Entity{
			Polyline: &PolylineGraphics{
				Color: &stroke,
				Width: &strokeWidth,
			},
		},
		Polygon: &Entity{
			Polygon: &PolygonGraphics{
				Fill:         &fill,
				Outline:      &outline,
				OutlineColor: &outlineColor,
			},
		},
	}
}

type styleFile struct {
	Point   *PointGraphics    `yaml:"point"`
	Line    *PolylineGraphics `yaml:"line"`
	Polygon *PolygonGraphics  `yaml:"polygon"`
}

// LoadStyles reads a YAML style bundle and overlays it on the defaults, so a
// file may customize a single family and inherit the rest.
func LoadStyles(path string) (*StyleTemplates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "style: read file")
	}
	var f styleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "style: decode yaml")
	}

	tpl := DefaultStyles()
	if f.Point != nil {
		mergePoint(f.Point, tpl.Point.Point)
		tpl.Point.Point = f.Point
	}
	if f.Line != nil {
		mergePolyline(f.Line, tpl.Line.Polyline)
		tpl.Line.Polyline = f.Line
	}
	if f.Polygon != nil {
		mergePolygon(f.Polygon, tpl.Polygon.Polygon)
		tpl.Polygon.Polygon = f.Polygon
	}
	return tpl, nil
}
