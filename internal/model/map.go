// Package model defines the wire-level entities exchanged with the
// settlesavvy scoring API.
package model

import "time"

// Zoom bounds accepted by the API. Creation allows a slightly wider
// range than stored maps because the web form lets users over-zoom
// before the first save.
const (
	MinZoom       = 1.0
	MaxZoom       = 18.0
	MaxZoomCreate = 20.0
)

// GeoPoint is a GeoJSON Point as emitted by the API. Coordinates are
// longitude, latitude order.
type GeoPoint struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// Lng returns the longitude component.
func (p GeoPoint) Lng() float64 { return p.Coordinates[0] }

// Lat returns the latitude component.
func (p GeoPoint) Lat() float64 { return p.Coordinates[1] }

// Map is a user-owned scored map: a geographic viewport plus the factor
// configuration attached to it server-side.
type Map struct {
	MapID        string    `json:"map_id"`
	Name         string    `json:"name"`
	CreatedStamp time.Time `json:"created_stamp"`
	LastUpdated  time.Time `json:"last_updated"`
	CenterPoint  *GeoPoint `json:"center_point,omitempty"`
	ZoomLevel    float64   `json:"zoom_level"`
	CreatedBy    *int      `json:"created_by,omitempty"`
}

// CreateMapRequest is the POST maps/ payload. Latitude and longitude
// are write-only on the API side; the server folds them into
// center_point.
type CreateMapRequest struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	ZoomLevel float64  `json:"zoom_level"`
}

// UpdateMapRequest is the PATCH maps/{id}/ payload. Absent fields are
// omitted entirely, never sent as null, so the server keeps the prior
// values.
type UpdateMapRequest struct {
	Name      *string  `json:"name,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	ZoomLevel *float64 `json:"zoom_level,omitempty"`
}

// ZoomInRange reports whether z is a valid zoom level up to max.
func ZoomInRange(z, max float64) bool {
	return z >= MinZoom && z <= max
}
