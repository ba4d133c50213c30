package export

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	geomjson "github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/geoscene/internal/entity"
)

// Entities carry Earth-fixed Cartesian positions, so exported geometries use
// XYZ coordinates with the geocentric SRID.
const sridGeocentric = 4978

// Geometry converts an entity's positions to a go-geom geometry. A
// single-position entity becomes a Point, a vertex path becomes a LineString
// wrapping the path (ring entities included; rings are paths here). Entities
// without positions return nil.
func Geometry(e *entity.Entity) geom.T {
	switch {
	case e.Position != nil:
		p := e.Position
		return geom.NewPointFlat(geom.XYZ, []float64{p.X, p.Y, p.Z}).SetSRID(sridGeocentric)

	case e.Positions != nil:
		flat := make([]float64, 0, len(e.Positions)*3)
		for _, p := range e.Positions {
			flat = append(flat, p.X, p.Y, p.Z)
		}
		return geom.NewLineStringFlat(geom.XYZ, flat).SetSRID(sridGeocentric)

	default:
		return nil
	}
}

// EWKB encodes an entity's geometry as little-endian EWKB. Positionless
// entities yield nil, nil.
func EWKB(e *entity.Entity) ([]byte, error) {
	g := Geometry(e)
	if g == nil {
		return nil, nil
	}
	data, err := ewkb.Marshal(g, ewkb.NDR)
	if err != nil {
		return nil, eris.Wrap(err, "export: encode EWKB")
	}
	return data, nil
}

type featureJSON struct {
	Type       string             `json:"type"`
	ID         string             `json:"id,omitempty"`
	Geometry   *geomjson.Geometry `json:"geometry"`
	Properties map[string]any     `json:"properties,omitempty"`
}

type collectionJSON struct {
	Type     string        `json:"type"`
	Features []featureJSON `json:"features"`
}

// GeoJSON encodes a set of entities as a GeoJSON FeatureCollection, carrying
// each entity's id and properties. Positionless entities become features with
// a null geometry.
func GeoJSON(entities []*entity.Entity) ([]byte, error) {
	fc := collectionJSON{
		Type:     "FeatureCollection",
		Features: make([]featureJSON, 0, len(entities)),
	}
	for _, e := range entities {
		f := featureJSON{
			Type:       "Feature",
			ID:         e.ID,
			Properties: e.Properties,
		}
		if g := Geometry(e); g != nil {
			enc, err := geomjson.Encode(g)
			if err != nil {
				return nil, eris.Wrapf(err, "export: encode geometry for %s", e.ID)
			}
			f.Geometry = enc
		}
		fc.Features = append(fc.Features, f)
	}
	data, err := json.Marshal(fc)
	if err != nil {
		return nil, eris.Wrap(err, "export: encode GeoJSON")
	}
	return data, nil
}
