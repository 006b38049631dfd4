package choropleth

import (
	"sync"

	"github.com/settlesavvy/settlemap-cli/internal/model"
)

// Fallback view applied when a map has no center point, so the camera
// is always in a valid state (continental US).
const (
	FallbackLat  = 37.8
	FallbackLng  = -96.9
	FallbackZoom = 10.0
)

// Camera tracks the current view center and zoom. SyncView re-applies
// externally supplied parameters immediately; stale camera state is
// never acceptable.
type Camera struct {
	mu   sync.RWMutex
	lat  float64
	lng  float64
	zoom float64
}

// NewCamera returns a camera at the fallback view.
func NewCamera() *Camera {
	return &Camera{lat: FallbackLat, lng: FallbackLng, zoom: FallbackZoom}
}

// SyncView applies the supplied center and zoom. A nil center falls
// back to the default view; a zero zoom falls back to the default
// zoom.
func (c *Camera) SyncView(center *model.GeoPoint, zoom float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if center != nil {
		c.lat = center.Lat()
		c.lng = center.Lng()
	} else {
		c.lat = FallbackLat
		c.lng = FallbackLng
	}

	if zoom != 0 {
		c.zoom = zoom
	} else {
		c.zoom = FallbackZoom
	}
}

// View returns the current latitude, longitude, and zoom.
func (c *Camera) View() (lat, lng, zoom float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lat, c.lng, c.zoom
}
