package shapefile

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
)

// Convert reads a shapefile and renders it as a GeoJSON FeatureCollection.
// DBF attributes become feature properties; points, polylines and polygons
// map to Point, MultiLineString and Polygon geometries. Unsupported shape
// types are skipped with a warning.
func Convert(path string) ([]byte, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "shapefile: open")
	}
	defer func() { _ = reader.Close() }()

	log := zap.L().With(zap.String("component", "shapefile"))

	fieldNames := make([]string, 0, len(reader.Fields()))
	for _, f := range reader.Fields() {
		fieldNames = append(fieldNames, strings.TrimRight(f.String(), "\x00"))
	}

	var features []map[string]any
	for reader.Next() {
		n, shape := reader.Shape()
		if shape == nil {
			continue
		}

		geometry := shapeToGeometry(shape)
		if geometry == nil {
			log.Warn("skipping unsupported shape", zap.Int("record", n))
			continue
		}

		props := make(map[string]any, len(fieldNames))
		for i, name := range fieldNames {
			props[name] = decodeAttribute(reader.Attribute(i))
		}

		features = append(features, map[string]any{
			"type":       "Feature",
			"geometry":   geometry,
			"properties": props,
		})
	}

	data, err := json.Marshal(map[string]any{
		"type":     "FeatureCollection",
		"features": features,
	})
	if err != nil {
		return nil, eris.Wrap(err, "shapefile: encode FeatureCollection")
	}

	log.Info("shapefile converted", zap.String("path", path), zap.Int("features", len(features)))
	return data, nil
}

func shapeToGeometry(s shp.Shape) map[string]any {
	switch shape := s.(type) {
	case *shp.Point:
		return map[string]any{
			"type":        "Point",
			"coordinates": []float64{shape.X, shape.Y},
		}
	case *shp.PolyLine:
		return map[string]any{
			"type":        "MultiLineString",
			"coordinates": partsToRings(shape.NumParts, shape.Parts, shape.Points),
		}
	case *shp.Polygon:
		return map[string]any{
			"type":        "Polygon",
			"coordinates": partsToRings(shape.NumParts, shape.Parts, shape.Points),
		}
	default:
		return nil
	}
}

func partsToRings(numParts int32, parts []int32, points []shp.Point) [][][]float64 {
	rings := make([][][]float64, 0, numParts)
	for i := int32(0); i < numParts; i++ {
		start := parts[i]
		end := int32(len(points))
		if i+1 < numParts {
			end = parts[i+1]
		}
		ring := make([][]float64, 0, end-start)
		for j := start; j < end; j++ {
			ring = append(ring, []float64{points[j].X, points[j].Y})
		}
		rings = append(rings, ring)
	}
	return rings
}

// decodeAttribute trims a DBF attribute and, when it is not valid UTF-8,
// reinterprets it as Latin-1, the usual DBF encoding.
func decodeAttribute(raw string) string {
	s := strings.TrimRight(strings.TrimSpace(raw), "\x00")
	if utf8.ValidString(s) {
		return s
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().String(s)
	if err != nil {
		return s
	}
	return decoded
}
