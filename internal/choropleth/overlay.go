package choropleth

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/settlesavvy/settlemap-cli/internal/model"
)

// BuildOverlay projects a score result set into a renderable GeoJSON
// feature collection. Each feature carries the identity, score, and
// filtered flag the interaction handlers need, plus the precomputed
// style of its bin. An empty result set yields no overlay at all
// (nil, nil): rendering a bare base map is a valid state, not an
// error.
func BuildOverlay(scores []model.NeighborhoodScore) (*geojson.FeatureCollection, error) {
	if len(scores) == 0 {
		return nil, nil
	}

	features := make([]*geojson.Feature, 0, len(scores))
	for _, n := range scores {
		var g geom.T
		if err := geojson.Unmarshal(n.Geometry, &g); err != nil {
			return nil, eris.Wrapf(err, "choropleth: decode geometry for %s", n.GeoID)
		}

		bin := Classify(n.Score, n.IsFiltered)
		style := bin.Style()

		props := map[string]any{
			"geo_id":      n.GeoID,
			"name":        n.Name,
			"is_filtered": n.IsFiltered,
			"bin":         bin.Label(),
			"style":       style,
		}
		if n.Score != nil {
			props["score"] = *n.Score
		}

		features = append(features, &geojson.Feature{
			ID:         n.GeoID,
			Geometry:   g,
			Properties: props,
		})
	}

	return &geojson.FeatureCollection{Features: features}, nil
}
