package geoimport

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/settlesavvy/settlemap-cli/internal/model"
)

// Convert reads a polygon shapefile and returns neighborhood records
// shaped like the score endpoint output, scores left undefined.
// Records with a missing ID attribute or an unsupported shape are
// skipped rather than failing the batch.
func Convert(fixture Fixture) ([]model.NeighborhoodScore, error) {
	reader, err := shp.Open(fixture.Shapefile)
	if err != nil {
		return nil, eris.Wrapf(err, "geoimport: open shapefile %s", fixture.Shapefile)
	}
	defer func() { _ = reader.Close() }()

	// Build field name -> index map.
	fields := reader.Fields()
	fieldIdx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToLower(name)] = i
	}

	idIdx, ok := fieldIdx[strings.ToLower(fixture.IDField)]
	if !ok {
		return nil, eris.Errorf("geoimport: id field %q not in shapefile", fixture.IDField)
	}
	nameIdx, hasName := fieldIdx[strings.ToLower(fixture.NameField)]

	var out []model.NeighborhoodScore
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()

		geoID := attribute(reader, idIdx)
		if geoID == "" {
			skipped++
			continue
		}

		poly, ok := shape.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}
		mp := polygonToMultiPolygon(poly)
		if mp == nil {
			skipped++
			continue
		}

		geomJSON, err := geojson.Marshal(mp)
		if err != nil {
			return nil, eris.Wrapf(err, "geoimport: encode geometry for %s", geoID)
		}

		name := ""
		if hasName {
			name = attribute(reader, nameIdx)
		}

		out = append(out, model.NeighborhoodScore{
			GeoID:    geoID,
			Name:     name,
			Geometry: json.RawMessage(geomJSON),
		})
	}

	if skipped > 0 {
		zap.L().Debug("geoimport: skipped shapefile records",
			zap.String("shapefile", fixture.Shapefile),
			zap.Int("skipped", skipped),
		)
	}

	return out, nil
}

// Run converts every fixture in the manifest and writes each output
// file as a JSON array.
func Run(m *Manifest) error {
	for _, fixture := range m.Fixtures {
		records, err := Convert(fixture)
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return eris.Wrap(err, "geoimport: marshal fixture output")
		}
		if err := os.WriteFile(fixture.Out, data, 0o644); err != nil {
			return eris.Wrapf(err, "geoimport: write %s", fixture.Out)
		}

		zap.L().Info("geoimport: fixture written",
			zap.String("out", fixture.Out),
			zap.Int("neighborhoods", len(records)),
		)
	}
	return nil
}

func attribute(reader *shp.Reader, idx int) string {
	return strings.TrimSpace(strings.TrimRight(reader.Attribute(idx), "\x00"))
}

// polygonToMultiPolygon converts a shapefile Polygon to a geom.MultiPolygon.
func polygonToMultiPolygon(p *shp.Polygon) *geom.MultiPolygon {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("geoimport: skipping malformed ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("geoimport: skipping malformed polygon part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}
