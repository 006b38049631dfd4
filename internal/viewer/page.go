package viewer

import (
	_ "embed"
	"net/http"
)

//go:embed page.html
var pageHTML []byte

// handleIndex serves the Leaflet viewer page. The page drives the map
// entirely through the /api routes.
func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(pageHTML)
}
