package geojson

import "github.com/rotisserie/eris"

// Sentinel errors for structurally invalid documents. Callers match with
// eris.Is after unwrapping whatever context was added along the way.
var (
	ErrUnsupportedDocumentType = eris.New("geojson: unsupported document type")
	ErrUnknownGeometryType     = eris.New("geojson: unknown geometry type")
	ErrMissingGeometry         = eris.New("geojson: feature has no geometry member")
)

// Kind identifies a GeoJSON object variant. The raw "type" string is parsed
// into a Kind exactly once, so downstream dispatch switches exhaustively over
// known variants instead of re-checking strings.
type Kind int

const (
	KindFeature Kind = iota
	KindFeatureCollection
	KindGeometryCollection
	KindPoint
	KindMultiPoint
	KindLineString
	KindMultiLineString
	KindPolygon
	KindMultiPolygon
)

var kindNames = map[Kind]string{
	KindFeature:            "Feature",
	KindFeatureCollection:  "FeatureCollection",
	KindGeometryCollection: "GeometryCollection",
	KindPoint:              "Point",
	KindMultiPoint:         "MultiPoint",
	KindLineString:         "LineString",
	KindMultiLineString:    "MultiLineString",
	KindPolygon:            "Polygon",
	KindMultiPolygon:       "MultiPolygon",
}

var namesToKind = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = k
	}
	return m
}()

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Kind(?)"
}

// IsGeometry reports whether the kind is one of the six geometry kinds or a
// GeometryCollection. Feature and FeatureCollection are container kinds.
func (k Kind) IsGeometry() bool {
	switch k {
	case KindGeometryCollection, KindPoint, KindMultiPoint, KindLineString,
		KindMultiLineString, KindPolygon, KindMultiPolygon:
		return true
	}
	return false
}

// ParseKind maps a raw GeoJSON "type" value to its Kind. Matching is
// case-sensitive per the GeoJSON specification; no aliases.
func ParseKind(s string) (Kind, error) {
	k, ok := namesToKind[s]
	if !ok {
		return 0, eris.Wrapf(ErrUnsupportedDocumentType, "type %q", s)
	}
	return k, nil
}

// ParseGeometryKind is ParseKind restricted to geometry kinds, for the
// "geometry"/"geometries" members where a container kind is never legal.
func ParseGeometryKind(s string) (Kind, error) {
	k, ok := namesToKind[s]
	if !ok || !k.IsGeometry() {
		return 0, eris.Wrapf(ErrUnknownGeometryType, "type %q", s)
	}
	return k, nil
}
