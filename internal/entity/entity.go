package entity

import (
	"encoding/json"

	"github.com/sells-group/geoscene/internal/crs"
)

// Color is a normalized RGBA color, components in [0, 1].
type Color struct {
	R float64 `json:"r" yaml:"r"`
	G float64 `json:"g" yaml:"g"`
	B float64 `json:"b" yaml:"b"`
	A float64 `json:"a" yaml:"a"`
}

// PointGraphics styles a single-position entity.
type PointGraphics struct {
	Color        *Color   `json:"color,omitempty" yaml:"color"`
	PixelSize    *float64 `json:"pixel_size,omitempty" yaml:"pixel_size"`
	OutlineColor *Color   `json:"outline_color,omitempty" yaml:"outline_color"`
	OutlineWidth *float64 `json:"outline_width,omitempty" yaml:"outline_width"`
}

// PolylineGraphics styles a vertex-path entity.
type PolylineGraphics struct {
	Color *Color   `json:"color,omitempty" yaml:"color"`
	Width *float64 `json:"width,omitempty" yaml:"width"`
}

// PolygonGraphics styles a ring entity.
type PolygonGraphics struct {
	Fill         *Color `json:"fill,omitempty" yaml:"fill"`
	Outline      *bool  `json:"outline,omitempty" yaml:"outline"`
	OutlineColor *Color `json:"outline_color,omitempty" yaml:"outline_color"`
}

// Entity is the renderer-agnostic representation of one geographic feature or
// geometry instance. The ingestion pipeline sets Position or Positions exactly
// once and never reassigns either afterwards.
type Entity struct {
	ID         string          `json:"id"`
	Name       string          `json:"name,omitempty"`
	Properties map[string]any  `json:"properties,omitempty"`
	Source     json.RawMessage `json:"-"`

	Position  *crs.Cartesian3  `json:"position,omitempty"`
	Positions []crs.Cartesian3 `json:"positions,omitempty"`

	Point    *PointGraphics    `json:"point,omitempty" yaml:"point"`
	Polyline *PolylineGraphics `json:"polyline,omitempty" yaml:"polyline"`
	Polygon  *PolygonGraphics  `json:"polygon,omitempty" yaml:"polygon"`
}

// MergeStyle overlays a style template onto the entity. Fields already set on
// the entity win; template values are deep-copied so later edits to the
// template never reach entities created from it.
func (e *Entity) MergeStyle(tpl *Entity) {
	if tpl == nil {
		return
	}
	if tpl.Point != nil {
		if e.Point == nil {
			e.Point = &PointGraphics{}
		}
		mergePoint(e.Point, tpl.Point)
	}
	if tpl.Polyline != nil {
		if e.Polyline == nil {
			e.Polyline = &PolylineGraphics{}
		}
		mergePolyline(e.Polyline, tpl.Polyline)
	}
	if tpl.Polygon != nil {
		if e.Polygon == nil {
			e.Polygon = &PolygonGraphics{}
		}
		mergePolygon(e.Polygon, tpl.Polygon)
	}
}

func mergePoint(dst, src *PointGraphics) {
	if dst.Color == nil {
		dst.Color = cloneColor(src.Color)
	}
	if dst.PixelSize == nil {
		dst.PixelSize = cloneFloat(src.PixelSize)
	}
	if dst.OutlineColor == nil {
		dst.OutlineColor = cloneColor(src.OutlineColor)
	}
	if dst.OutlineWidth == nil {
		dst.OutlineWidth = cloneFloat(src.OutlineWidth)
	}
}

func mergePolyline(dst, src *PolylineGraphics) {
	if dst.Color == nil {
		dst.Color = cloneColor(src.Color)
	}
	if dst.Width == nil {
		dst.Width = cloneFloat(src.Width)
	}
}

func mergePolygon(dst, src *PolygonGraphics) {
	if dst.Fill == nil {
		dst.Fill = cloneColor(src.Fill)
	}
	if dst.Outline == nil {
		dst.Outline = cloneBool(src.Outline)
	}
	if dst.OutlineColor == nil {
		dst.OutlineColor = cloneColor(src.OutlineColor)
	}
}

func cloneColor(c *Color) *Color {
	if c == nil {
		return nil
	}
	dup := *c
	return &dup
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	dup := *f
	return &dup
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	dup := *b
	return &dup
}
