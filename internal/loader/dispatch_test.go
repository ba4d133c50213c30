package loader

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/geoscene/internal/crs"
	"github.com/sells-group/geoscene/internal/entity"
	"github.com/sells-group/geoscene/internal/geojson"
)

func loadEntities(t *testing.T, raw string) []*entity.Entity {
	t.Helper()
	l := newTestLoader()
	require.NoError(t, l.LoadData(context.Background(), []byte(raw), "test"))
	return l.Store().All()
}

func TestLoadBarePoint(t *testing.T) {
	entities := loadEntities(t, `{"type":"Point","coordinates":[-75.0,40.0]}`)

	require.Len(t, entities, 1)
	e := entities[0]
	require.NotNil(t, e.Position)
	assert.Equal(t, crs.WGS84Degrees([]float64{-75, 40}), *e.Position)
	require.NotNil(t, e.Point)
	assert.Equal(t, entity.RoyalBlue, *e.Point.Color)
	assert.Nil(t, e.Positions)
	assert.NotEmpty(t, e.ID)
}

func TestLoadMultiPoint(t *testing.T) {
	entities := loadEntities(t, `{"type":"MultiPoint","coordinates":[[1,2],[3,4],[5,6]]}`)

	require.Len(t, entities, 3)
	for i, e := range entities {
		require.NotNil(t, e.Position, "entity %d", i)
		require.NotNil(t, e.Point, "entity %d", i)
	}
	assert.Equal(t, crs.WGS84Degrees([]float64{1, 2}), *entities[0].Position)
	assert.Equal(t, crs.WGS84Degrees([]float64{5, 6}), *entities[2].Position)
}

func TestLoadLineString(t *testing.T) {
	entities := loadEntities(t, `{"type":"LineString","coordinates":[[0,0],[1,1,500],[2,2]]}`)

	require.Len(t, entities, 1)
	e := entities[0]
	assert.Nil(t, e.Position)
	require.Len(t, e.Positions, 3)
	assert.Equal(t, crs.WGS84Degrees([]float64{1, 1, 500}), e.Positions[1])
	require.NotNil(t, e.Polyline)
	assert.Equal(t, 2.0, *e.Polyline.Width)
}

func TestLoadMultiLineString(t *testing.T) {
	entities := loadEntities(t, `{"type":"MultiLineString","coordinates":[[[0,0],[1,1]],[[2,2],[3,3],[4,4]]]}`)

	require.Len(t, entities, 2)
	assert.Len(t, entities[0].Positions, 2)
	assert.Len(t, entities[1].Positions, 3)
	require.NotNil(t, entities[1].Polyline)
}

func TestLoadPolygonOuterRingOnly(t *testing.T) {
	entities := loadEntities(t, `{"type":"Polygon","coordinates":[
		[[0,0],[10,0],[10,10],[0,10],[0,0]],
		[[2,2],[4,2],[4,4],[2,4],[2,2]]
	]}`)

	require.Len(t, entities, 1)
	e := entities[0]
	// Interior rings are unsupported; only the outer ring's vertices survive.
	assert.Len(t, e.Positions, 5)
	assert.Equal(t, crs.WGS84Degrees([]float64{10, 10}), e.Positions[2])
	require.NotNil(t, e.Polygon)
	assert.True(t, *e.Polygon.Outline)
}

func TestLoadMultiPolygonOneEntityPerPolygon(t *testing.T) {
	entities := loadEntities(t, `{"type":"MultiPolygon","coordinates":[
		[[[0,0],[1,0],[1,1],[0,0]], [[0.2,0.2],[0.4,0.2],[0.2,0.4],[0.2,0.2]]],
		[[[5,5],[6,5],[6,6],[5,6],[5,5]]]
	]}`)

	require.Len(t, entities, 2)
	assert.Len(t, entities[0].Positions, 4)
	assert.Len(t, entities[1].Positions, 5)
	for _, e := range entities {
		require.NotNil(t, e.Polygon)
	}
}

func TestLoadFeatureCollectionOrderAndCounts(t *testing.T) {
	entities := loadEntities(t, `{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "id": "pt", "geometry": {"type": "Point", "coordinates": [1,2]}},
			{"type": "Feature", "id": "mp", "geometry": {"type": "MultiPoint", "coordinates": [[3,4],[5,6]]}},
			{"type": "Feature", "id": "ln", "geometry": {"type": "LineString", "coordinates": [[0,0],[1,1]]}}
		]
	}`)

	// Point -> 1, MultiPoint -> 2, LineString -> 1; array order preserved.
	require.Len(t, entities, 4)
	assert.Equal(t, "pt", entities[0].ID)
	assert.Equal(t, "mp", entities[1].ID)
	assert.Equal(t, "mp_2", entities[2].ID)
	assert.Equal(t, "ln", entities[3].ID)
}

func TestLoadFeatureNullGeometry(t *testing.T) {
	entities := loadEntities(t, `{"type":"Feature","id":"empty","geometry":null,"properties":{"flag":true}}`)

	require.Len(t, entities, 1)
	e := entities[0]
	assert.Equal(t, "empty", e.ID)
	assert.Nil(t, e.Position)
	assert.Nil(t, e.Positions)
	assert.Nil(t, e.Point)
	assert.Nil(t, e.Polyline)
	assert.Nil(t, e.Polygon)
	assert.Equal(t, true, e.Properties["flag"])
}

func TestLoadGeometryCollection(t *testing.T) {
	entities := loadEntities(t, `{
		"type": "GeometryCollection",
		"geometries": [
			{"type": "Point", "coordinates": [1,2]},
			{"type": "GeometryCollection", "geometries": [
				{"type": "LineString", "coordinates": [[0,0],[1,1]]}
			]}
		]
	}`)

	require.Len(t, entities, 2)
	assert.NotNil(t, entities[0].Position)
	assert.Len(t, entities[1].Positions, 2)
}

func TestLoadFeatureWithGeometryCollectionSharesIdentity(t *testing.T) {
	entities := loadEntities(t, `{
		"type": "Feature", "id": "combo",
		"geometry": {
			"type": "GeometryCollection",
			"geometries": [
				{"type": "Point", "coordinates": [1,2]},
				{"type": "Point", "coordinates": [3,4]}
			]
		},
		"properties": {"name": "combo site"}
	}`)

	require.Len(t, entities, 2)
	assert.Equal(t, "combo", entities[0].ID)
	assert.Equal(t, "combo_2", entities[1].ID)
	assert.Equal(t, "combo site", entities[0].Name)
	assert.Equal(t, "combo site", entities[1].Name)
}

func TestLoadDegenerateGeometries(t *testing.T) {
	t.Run("point without coordinates still yields an entity", func(t *testing.T) {
		entities := loadEntities(t, `{"type":"Point","coordinates":[]}`)
		require.Len(t, entities, 1)
		assert.Nil(t, entities[0].Position)
		assert.NotNil(t, entities[0].Point)
	})

	t.Run("empty multipoint yields no entities", func(t *testing.T) {
		entities := loadEntities(t, `{"type":"MultiPoint","coordinates":[]}`)
		assert.Empty(t, entities)
	})

	t.Run("empty linestring yields one entity with no positions", func(t *testing.T) {
		entities := loadEntities(t, `{"type":"LineString","coordinates":[]}`)
		require.Len(t, entities, 1)
		assert.Empty(t, entities[0].Positions)
	})

	t.Run("polygon without rings yields one entity with no positions", func(t *testing.T) {
		entities := loadEntities(t, `{"type":"Polygon","coordinates":[]}`)
		require.Len(t, entities, 1)
		assert.Empty(t, entities[0].Positions)
	})

	t.Run("empty multipolygon yields no entities", func(t *testing.T) {
		entities := loadEntities(t, `{"type":"MultiPolygon","coordinates":[]}`)
		assert.Empty(t, entities)
	})
}

func TestLoadFeatureMissingGeometryMidDispatch(t *testing.T) {
	l := newTestLoader()
	err := l.LoadData(context.Background(), []byte(`{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "geometry": {"type": "Point", "coordinates": [1,2]}},
			{"type": "Point", "coordinates": [3,4]}
		]
	}`), "test")

	// The second element is not a feature; dispatch fails after the first
	// entity was created and there is no rollback.
	assert.True(t, eris.Is(err, geojson.ErrMissingGeometry))
	assert.Equal(t, StateFailed, l.State())
	assert.Equal(t, 1, l.Store().Len())
}

func TestLoadEntitySourceFragment(t *testing.T) {
	entities := loadEntities(t, `{
		"type": "Feature", "id": "f1",
		"geometry": {"type": "Point", "coordinates": [1,2]},
		"properties": {"kind": "site"}
	}`)

	require.Len(t, entities, 1)
	// The entity keeps the feature fragment, not the bare geometry.
	assert.Contains(t, string(entities[0].Source), `"properties"`)
}

func TestLoadCoordinateOrderPreserved(t *testing.T) {
	entities := loadEntities(t, `{"type":"LineString","coordinates":[[3,3],[1,1],[2,2],[1,1]]}`)

	require.Len(t, entities, 1)
	want := []crs.Cartesian3{
		crs.WGS84Degrees([]float64{3, 3}),
		crs.WGS84Degrees([]float64{1, 1}),
		crs.WGS84Degrees([]float64{2, 2}),
		crs.WGS84Degrees([]float64{1, 1}),
	}
	assert.Equal(t, want, entities[0].Positions)
}
