package viewer

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/settlesavvy/settlemap-cli/internal/choropleth"
	"github.com/settlesavvy/settlemap-cli/internal/viewdata"
)

// warmConcurrency bounds parallel overlay builds during warm-up.
const warmConcurrency = 4

// Warm prefetches and caches overlays for every map visible to the
// current session, so the first page load after startup is served from
// cache. Individual map failures are logged and skipped; Warm only
// fails when the map list itself cannot be fetched.
func (s *Server) Warm(ctx context.Context) error {
	maps, err := s.api.ListMaps(ctx)
	if err != nil {
		return eris.Wrap(err, "viewer: list maps for warm-up")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(warmConcurrency)

	for _, m := range maps {
		m := m
		g.Go(func() error {
			detail, err := viewdata.FetchMapDetail(s.api, m.MapID)(ctx)
			if err != nil {
				zap.L().Warn("viewer: warm-up fetch failed",
					zap.String("map_id", m.MapID), zap.Error(err))
				return nil
			}
			fc, err := choropleth.BuildOverlay(detail.Scores)
			if err != nil || fc == nil {
				return nil
			}
			data, err := json.Marshal(fc)
			if err != nil {
				return nil
			}
			s.cache.Put(m.MapID, data)
			s.snapshot(ctx, detail.Map, data)
			zap.L().Debug("viewer: warmed overlay", zap.String("map_id", m.MapID))
			return nil
		})
	}

	return g.Wait()
}
