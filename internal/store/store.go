// Package store persists map snapshots locally so a previously viewed
// map can be rendered while the scoring API is unreachable.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/settlesavvy/settlemap-cli/internal/model"
)

// ErrNoSnapshot is returned when no snapshot exists for a map.
var ErrNoSnapshot = errors.New("store: no snapshot")

// Snapshot is one cached view of a map: the map record plus the
// rendered overlay at fetch time. Overlay is nil when the map had no
// scored neighborhoods.
type Snapshot struct {
	ID        string          `json:"id"`
	MapID     string          `json:"map_id"`
	Map       model.Map       `json:"map"`
	Overlay   json.RawMessage `json:"overlay,omitempty"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// Store defines the snapshot persistence interface.
type Store interface {
	SaveSnapshot(ctx context.Context, m model.Map, overlay json.RawMessage) (*Snapshot, error)
	GetLatest(ctx context.Context, mapID string) (*Snapshot, error)
	ListSnapshots(ctx context.Context) ([]Snapshot, error)
	Prune(ctx context.Context, olderThan time.Duration) (int, error)

	Migrate(ctx context.Context) error
	Close() error
}
