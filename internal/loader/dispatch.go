package loader

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/geoscene/internal/crs"
	"github.com/sells-group/geoscene/internal/entity"
	"github.com/sells-group/geoscene/internal/geojson"
)

// run carries the per-load state through the recursive dispatch: the resolved
// transform is fixed for the whole document, no per-geometry overrides.
type run struct {
	store     *entity.Store
	styles    *entity.StyleTemplates
	transform crs.Transform
}

// dispatch routes a document by kind. Bare geometries are legal at the root,
// so every geometry kind dispatches directly as well.
func (r *run) dispatch(doc *geojson.Document) error {
	switch doc.Kind {
	case geojson.KindFeature:
		return r.feature(doc)
	case geojson.KindFeatureCollection:
		for _, f := range doc.Features {
			if err := r.feature(f); err != nil {
				return err
			}
		}
		return nil
	default:
		return r.geometry(doc, doc)
	}
}

// feature decodes one feature. A null geometry yields a single positionless,
// unstyled placeholder entity so attribute-only features still materialize.
func (r *run) feature(f *geojson.Document) error {
	if !f.HasGeometry {
		return eris.Wrap(geojson.ErrMissingGeometry, "feature")
	}
	if f.Geometry == nil {
		r.newEntity(f)
		return nil
	}
	return r.geometry(f, f.Geometry)
}

// geometry decodes one geometry object. node is the identity source: the
// enclosing feature when there is one, otherwise the geometry itself.
func (r *run) geometry(node, geom *geojson.Document) error {
	switch geom.Kind {
	case geojson.KindPoint:
		r.point(node, geom.PointCoords)
	case geojson.KindMultiPoint:
		for _, coord := range geom.LineCoords {
			r.point(node, coord)
		}
	case geojson.KindLineString:
		r.polyline(node, geom.LineCoords)
	case geojson.KindMultiLineString:
		for _, line := range geom.PolygonCoords {
			r.polyline(node, line)
		}
	case geojson.KindPolygon:
		r.polygon(node, geom.PolygonCoords)
	case geojson.KindMultiPolygon:
		for _, rings := range geom.MultiPolygonCoords {
			r.polygon(node, rings)
		}
	case geojson.KindGeometryCollection:
		for _, g := range geom.Geometries {
			if err := r.geometry(node, g); err != nil {
				return err
			}
		}
	default:
		// Container kinds cannot appear here; Parse rejects them as geometry.
		return eris.Wrapf(geojson.ErrUnknownGeometryType, "type %q", geom.Kind)
	}
	return nil
}

// point produces one single-position entity. A degenerate point with no
// coordinates still produces an entity, just without a position.
func (r *run) point(node *geojson.Document, coord []float64) {
	e := r.newEntity(node)
	e.MergeStyle(r.styles.Point)
	if len(coord) > 0 {
		pos := r.transform(coord)
		e.Position = &pos
	}
}

// polyline produces one vertex-path entity, preserving coordinate order.
func (r *run) polyline(node *geojson.Document, coords [][]float64) {
	e := r.newEntity(node)
	e.MergeStyle(r.styles.Line)
	e.Positions = r.positions(coords)
}

// polygon produces one ring entity from the outer ring. Interior rings
// (holes) are not supported and are discarded.
func (r *run) polygon(node *geojson.Document, rings [][][]float64) {
	e := r.newEntity(node)
	e.MergeStyle(r.styles.Polygon)
	if len(rings) > 0 {
		e.Positions = r.positions(rings[0])
	}
}

func (r *run) positions(coords [][]float64) []crs.Cartesian3 {
	out := make([]crs.Cartesian3, len(coords))
	for i, coord := range coords {
		out[i] = r.transform(coord)
	}
	return out
}

// newEntity creates the entity for a node, copying feature properties and
// deriving a display name from them.
func (r *run) newEntity(node *geojson.Document) *entity.Entity {
	e := r.store.GetOrCreate(r.resolveID(node))
	e.Source = node.Raw
	if node.Kind == geojson.KindFeature {
		e.Properties = node.Properties
		e.Name = displayName(node.Properties)
	}
	return e
}
