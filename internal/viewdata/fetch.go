package viewdata

import (
	"context"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/settlesavvy/settlemap-cli/internal/model"
	"github.com/settlesavvy/settlemap-cli/pkg/settleapi"
)

// MapDetail is the payload of a map detail screen: the map record plus
// its neighborhood score result set.
type MapDetail struct {
	Map    model.Map
	Scores []model.NeighborhoodScore
}

// FetchMapDetail returns the dependent fetch for a detail screen. The
// score fetch is issued only after the map fetch succeeds: the scores'
// display context (name, center) comes from the map record, so a
// failed map read makes the score read pointless.
func FetchMapDetail(api settleapi.Client, mapID string) func(ctx context.Context) (MapDetail, error) {
	return func(ctx context.Context) (MapDetail, error) {
		m, err := api.GetMap(ctx, mapID)
		if err != nil {
			return MapDetail{}, err
		}

		scores, err := api.GetScores(ctx, mapID)
		if err != nil {
			return MapDetail{}, err
		}

		return MapDetail{Map: *m, Scores: scores}, nil
	}
}

// FetchMapList returns the fetch for the listing screen, sorted by map
// name with locale-aware, case-insensitive collation.
func FetchMapList(api settleapi.Client) func(ctx context.Context) ([]model.Map, error) {
	return func(ctx context.Context) ([]model.Map, error) {
		maps, err := api.ListMaps(ctx)
		if err != nil {
			return nil, err
		}

		coll := collate.New(language.English, collate.IgnoreCase)
		sort.SliceStable(maps, func(i, j int) bool {
			return coll.CompareString(maps[i].Name, maps[j].Name) < 0
		})
		return maps, nil
	}
}
