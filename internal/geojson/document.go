package geojson

import (
	"encoding/json"
	"strconv"

	"github.com/rotisserie/eris"
)

// CRS describes the coordinate reference system member of a document.
// A present-but-null crs and a crs without properties are kept as-is so the
// resolution step can reject them; parsing never interprets CRS contents.
type CRS struct {
	Null       bool
	Type       string
	Properties *CRSProperties
}

// CRSProperties holds the properties of a name- or link-typed CRS member.
type CRSProperties struct {
	Name string `json:"name"`
	Href string `json:"href"`
	Type string `json:"type"`
}

// Document is a parsed GeoJSON object. Exactly one coordinate field is
// populated, matching Kind; container kinds populate Geometry, Geometries or
// Features instead. Raw preserves the original fragment for introspection.
type Document struct {
	Kind Kind
	Raw  json.RawMessage

	// Feature members. HasGeometry distinguishes a null geometry (placeholder
	// feature) from an absent geometry member (structural error).
	ID          string
	HasID       bool
	HasGeometry bool
	Geometry    *Document
	Properties  map[string]any

	// Only meaningful on the document root.
	CRS *CRS

	Geometries []*Document
	Features   []*Document

	PointCoords        []float64
	LineCoords         [][]float64
	PolygonCoords      [][][]float64
	MultiPolygonCoords [][][][]float64
}

// Parse decodes a GeoJSON document from raw bytes, resolving the "type" tag of
// every nested object up front. It validates only what dispatch depends on:
// recognized type strings and, for features, the presence of a geometry member.
func Parse(data []byte) (*Document, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, eris.Wrap(err, "geojson: decode document")
	}
	return parseObject(data, fields)
}

func parseObject(raw json.RawMessage, fields map[string]json.RawMessage) (*Document, error) {
	typeRaw, ok := fields["type"]
	if !ok {
		return nil, eris.Wrap(ErrUnsupportedDocumentType, "missing type member")
	}
	var typeName string
	if err := json.Unmarshal(typeRaw, &typeName); err != nil {
		return nil, eris.Wrap(err, "geojson: decode type member")
	}
	kind, err := ParseKind(typeName)
	if err != nil {
		return nil, err
	}

	doc := &Document{Kind: kind, Raw: raw}

	if crsRaw, ok := fields["crs"]; ok {
		crs, err := parseCRS(crsRaw)
		if err != nil {
			return nil, err
		}
		doc.CRS = crs
	}

	switch kind {
	case KindFeature:
		return doc, parseFeature(doc, fields)
	case KindFeatureCollection:
		return doc, parseMany(fields["features"], &doc.Features, "features")
	case KindGeometryCollection:
		return doc, parseMany(fields["geometries"], &doc.Geometries, "geometries")
	default:
		return doc, parseCoordinates(doc, fields["coordinates"])
	}
}

func parseFeature(doc *Document, fields map[string]json.RawMessage) error {
	geomRaw, ok := fields["geometry"]
	if !ok {
		return eris.Wrap(ErrMissingGeometry, "feature")
	}
	doc.HasGeometry = true
	if !isJSONNull(geomRaw) {
		geom, err := Parse(geomRaw)
		if err != nil {
			return err
		}
		if !geom.Kind.IsGeometry() {
			return eris.Wrapf(ErrUnknownGeometryType, "type %q", geom.Kind)
		}
		doc.Geometry = geom
	}

	if idRaw, ok := fields["id"]; ok && !isJSONNull(idRaw) {
		id, err := parseID(idRaw)
		if err != nil {
			return err
		}
		doc.ID = id
		doc.HasID = true
	}

	if propsRaw, ok := fields["properties"]; ok && !isJSONNull(propsRaw) {
		if err := json.Unmarshal(propsRaw, &doc.Properties); err != nil {
			return eris.Wrap(err, "geojson: decode feature properties")
		}
	}
	return nil
}

func parseMany(raw json.RawMessage, out *[]*Document, member string) error {
	if raw == nil || isJSONNull(raw) {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return eris.Wrapf(err, "geojson: decode %s member", member)
	}
	docs := make([]*Document, 0, len(elems))
	for _, elem := range elems {
		doc, err := Parse(elem)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}
	*out = docs
	return nil
}

func parseCoordinates(doc *Document, raw json.RawMessage) error {
	if raw == nil || isJSONNull(raw) {
		return nil
	}

	var err error
	switch doc.Kind {
	case KindPoint:
		err = json.Unmarshal(raw, &doc.PointCoords)
	case KindMultiPoint, KindLineString:
		err = json.Unmarshal(raw, &doc.LineCoords)
	case KindMultiLineString, KindPolygon:
		err = json.Unmarshal(raw, &doc.PolygonCoords)
	case KindMultiPolygon:
		err = json.Unmarshal(raw, &doc.MultiPolygonCoords)
	}
	if err != nil {
		return eris.Wrapf(err, "geojson: decode %s coordinates", doc.Kind)
	}
	return nil
}

func parseCRS(raw json.RawMessage) (*CRS, error) {
	if isJSONNull(raw) {
		return &CRS{Null: true}, nil
	}
	var body struct {
		Type       string         `json:"type"`
		Properties *CRSProperties `json:"properties"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, eris.Wrap(err, "geojson: decode crs member")
	}
	return &CRS{Type: body.Type, Properties: body.Properties}, nil
}

// parseID accepts string or numeric feature ids; numbers are rendered in
// their shortest decimal form so "abc" and 42 live in the same key space.
func parseID(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", eris.Wrap(err, "geojson: decode feature id")
	}
	return strconv.FormatFloat(n, 'f', -1, 64), nil
}

func isJSONNull(raw json.RawMessage) bool {
	for _, c := range raw {
		switch c {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return c == 'n'
	}
	return false
}
