package geoimport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
fixtures:
  - shapefile: tracts.shp
    id_field: GEOID
    name_field: NAME
    out: tracts.json
`), 0o644))

	m, err := LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, m.Fixtures, 1)
	assert.Equal(t, "tracts.shp", m.Fixtures[0].Shapefile)
	assert.Equal(t, "GEOID", m.Fixtures[0].IDField)
}

func TestLoadManifest_Invalid(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("fixtures: []\n"), 0o644))
	_, err := LoadManifest(empty)
	assert.Error(t, err)

	missing := filepath.Join(dir, "missing.yaml")
	require.NoError(t, os.WriteFile(missing, []byte(`
fixtures:
  - shapefile: a.shp
    out: a.json
`), 0o644))
	_, err = LoadManifest(missing)
	assert.Error(t, err, "id_field is required")
}

func TestPolygonToMultiPolygon(t *testing.T) {
	poly := (*shp.Polygon)(shp.NewPolyLine([][]shp.Point{
		{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0}},
	}))

	mp := polygonToMultiPolygon(poly)
	require.NotNil(t, mp)
	assert.Equal(t, 1, mp.NumPolygons())
	assert.Equal(t, 4326, mp.SRID())
}

func TestPolygonToMultiPolygon_Empty(t *testing.T) {
	assert.Nil(t, polygonToMultiPolygon(nil))
	assert.Nil(t, polygonToMultiPolygon(&shp.Polygon{}))
}

func TestConvert_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	shpPath := filepath.Join(dir, "hoods.shp")

	w, err := shp.Create(shpPath, shp.POLYGON)
	require.NoError(t, err)
	require.NoError(t, w.SetFields([]shp.Field{
		shp.StringField("GEOID", 20),
		shp.StringField("NAME", 30),
	}))

	poly := (*shp.Polygon)(shp.NewPolyLine([][]shp.Point{
		{{X: -122.5, Y: 37.7}, {X: -122.3, Y: 37.7}, {X: -122.3, Y: 37.8}, {X: -122.5, Y: 37.8}, {X: -122.5, Y: 37.7}},
	}))
	w.Write(poly)
	require.NoError(t, w.WriteAttribute(0, 0, "06075010100"))
	require.NoError(t, w.WriteAttribute(0, 1, "Alpha"))
	w.Close()

	records, err := Convert(Fixture{
		Shapefile: shpPath,
		IDField:   "GEOID",
		NameField: "NAME",
	})
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "06075010100", records[0].GeoID)
	assert.Equal(t, "Alpha", records[0].Name)
	assert.Nil(t, records[0].Score)
	assert.False(t, records[0].IsFiltered)

	var g struct {
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(records[0].Geometry, &g))
	assert.Equal(t, "MultiPolygon", g.Type)
}

func TestRun_WritesOutput(t *testing.T) {
	dir := t.TempDir()
	shpPath := filepath.Join(dir, "hoods.shp")
	outPath := filepath.Join(dir, "hoods.json")

	w, err := shp.Create(shpPath, shp.POLYGON)
	require.NoError(t, err)
	require.NoError(t, w.SetFields([]shp.Field{shp.StringField("GEOID", 20)}))
	poly := (*shp.Polygon)(shp.NewPolyLine([][]shp.Point{
		{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 0}},
	}))
	w.Write(poly)
	require.NoError(t, w.WriteAttribute(0, 0, "n1"))
	w.Close()

	m := &Manifest{Fixtures: []Fixture{{Shapefile: shpPath, IDField: "GEOID", Out: outPath}}}
	require.NoError(t, Run(m))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var records []map[string]any
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "n1", records[0]["geo_id"])
}
