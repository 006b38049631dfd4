package model

import "encoding/json"

// NeighborhoodScore is one entry of a map's score result set. Score is
// a pointer because the backend may omit it for neighborhoods it could
// not score; the documented domain is 0-100 but nothing here enforces
// that. Geometry is kept raw (GeoJSON Polygon or MultiPolygon) and only
// decoded where geometry actually matters.
type NeighborhoodScore struct {
	GeoID      string          `json:"geo_id"`
	Name       string          `json:"name"`
	Score      *float64        `json:"score"`
	IsFiltered bool            `json:"is_filtered"`
	Geometry   json.RawMessage `json:"geometry"`
}
