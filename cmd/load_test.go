package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/geoscene/internal/config"
	"github.com/sells-group/geoscene/internal/crs"
	"github.com/sells-group/geoscene/internal/entity"
	"github.com/sells-group/geoscene/internal/loader"
)

func TestLoadOneFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.geojson")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "id": "a", "geometry": {"type": "Point", "coordinates": [1,2]}},
			{"type": "Feature", "id": "b", "geometry": {"type": "LineString", "coordinates": [[0,0],[1,1]]}}
		]
	}`), 0o644))

	store := entity.NewStore()
	l := loader.New(store, crs.NewRegistry(), nil)
	require.NoError(t, loadOne(context.Background(), l, path))
	assert.Equal(t, 2, store.Len())
}

func TestLoadOneMissingFile(t *testing.T) {
	l := loader.New(entity.NewStore(), crs.NewRegistry(), nil)
	err := loadOne(context.Background(), l, filepath.Join(t.TempDir(), "nope.geojson"))
	assert.Error(t, err)
}

func TestResolveStylesDefault(t *testing.T) {
	cfg = &config.Config{}
	styles, err := resolveStyles("")
	require.NoError(t, err)
	assert.NotNil(t, styles.Point)
	assert.NotNil(t, styles.Line)
	assert.NotNil(t, styles.Polygon)
}

func TestDescribeEntity(t *testing.T) {
	pos := crs.Cartesian3{X: 1}
	assert.Equal(t, "point", describeEntity(&entity.Entity{Position: &pos}))
	assert.Equal(t, "path(2)", describeEntity(&entity.Entity{Positions: []crs.Cartesian3{{}, {}}}))
	assert.Equal(t, "placeholder", describeEntity(&entity.Entity{}))
}

func TestPrintResults(t *testing.T) {
	store := entity.NewStore()
	e := store.GetOrCreate("a")
	pos := crs.Cartesian3{X: 1, Y: 2, Z: 3}
	e.Position = &pos

	newCmd := func() (*cobra.Command, *bytes.Buffer) {
		var buf bytes.Buffer
		c := &cobra.Command{}
		c.SetOut(&buf)
		return c, &buf
	}

	t.Run("summary", func(t *testing.T) {
		loadFormat = "summary"
		c, buf := newCmd()
		require.NoError(t, printResults(c, []string{"in.geojson"}, []*entity.Store{store}))
		assert.Contains(t, buf.String(), "in.geojson: 1 entities")
		assert.Contains(t, buf.String(), "a point")
	})

	t.Run("geojson", func(t *testing.T) {
		loadFormat = "geojson"
		c, buf := newCmd()
		require.NoError(t, printResults(c, []string{"in.geojson"}, []*entity.Store{store}))
		assert.Contains(t, buf.String(), `"FeatureCollection"`)
	})

	t.Run("wkb", func(t *testing.T) {
		loadFormat = "wkb"
		c, buf := newCmd()
		require.NoError(t, printResults(c, []string{"in.geojson"}, []*entity.Store{store}))
		assert.NotEmpty(t, buf.String())
	})

	t.Run("unknown format", func(t *testing.T) {
		loadFormat = "nope"
		c, _ := newCmd()
		assert.Error(t, printResults(c, []string{"in.geojson"}, []*entity.Store{store}))
	})
}
