package shapefile

import (
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/geoscene/internal/geojson"
)

func writePointShapefile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sites.shp")

	w, err := shp.Create(path, shp.POINT)
	require.NoError(t, err)
	w.SetFields([]shp.Field{shp.StringField("NAME", 25)})

	points := []shp.Point{{X: -75, Y: 40}, {X: -74, Y: 41}}
	names := []string{"alpha", "beta"}
	for i := range points {
		w.Write(&points[i])
		w.WriteAttribute(i, 0, names[i])
	}
	w.Close()
	return path
}

func TestConvertPoints(t *testing.T) {
	data, err := Convert(writePointShapefile(t))
	require.NoError(t, err)

	doc, err := geojson.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, geojson.KindFeatureCollection, doc.Kind)
	require.Len(t, doc.Features, 2)

	first := doc.Features[0]
	require.NotNil(t, first.Geometry)
	assert.Equal(t, geojson.KindPoint, first.Geometry.Kind)
	assert.Equal(t, []float64{-75, 40}, first.Geometry.PointCoords)
	assert.Equal(t, "alpha", first.Properties["NAME"])
}

func TestConvertMissingFile(t *testing.T) {
	_, err := Convert(filepath.Join(t.TempDir(), "nope.shp"))
	assert.Error(t, err)
}

func TestPartsToRings(t *testing.T) {
	points := []shp.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1},
		{X: 5, Y: 5}, {X: 6, Y: 5},
	}
	rings := partsToRings(2, []int32{0, 3}, points)

	require.Len(t, rings, 2)
	assert.Equal(t, [][]float64{{0, 0}, {1, 0}, {1, 1}}, rings[0])
	assert.Equal(t, [][]float64{{5, 5}, {6, 5}}, rings[1])
}

func TestDecodeAttribute(t *testing.T) {
	assert.Equal(t, "plain", decodeAttribute("  plain \x00"))
	// 0xE9 is é in Latin-1 and invalid as a lone UTF-8 byte.
	assert.Equal(t, "café", decodeAttribute("caf\xe9"))
}
