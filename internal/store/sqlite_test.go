package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/settlesavvy/settlemap-cli/internal/model"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testMap(id, name string) model.Map {
	return model.Map{
		MapID: id, Name: name, ZoomLevel: 12,
		CenterPoint: &model.GeoPoint{Type: "Point", Coordinates: [2]float64{-122.4, 37.7}},
	}
}

func TestSaveAndGetLatest(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	overlay := json.RawMessage(`{"type":"FeatureCollection","features":[]}`)
	snap, err := s.SaveSnapshot(ctx, testMap("m1", "Riverside"), overlay)
	require.NoError(t, err)
	assert.NotEmpty(t, snap.ID)

	got, err := s.GetLatest(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "Riverside", got.Map.Name)
	assert.JSONEq(t, string(overlay), string(got.Overlay))
	require.NotNil(t, got.Map.CenterPoint)
	assert.InDelta(t, 37.7, got.Map.CenterPoint.Lat(), 0.001)
}

func TestGetLatest_NoSnapshot(t *testing.T) {
	s := testStore(t)

	_, err := s.GetLatest(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestGetLatest_ReturnsNewest(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.SaveSnapshot(ctx, testMap("m1", "Old Name"), nil)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	_, err = s.SaveSnapshot(ctx, testMap("m1", "New Name"), nil)
	require.NoError(t, err)

	got, err := s.GetLatest(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.Map.Name)
}

func TestSaveSnapshot_NilOverlay(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.SaveSnapshot(ctx, testMap("m1", "Empty"), nil)
	require.NoError(t, err)

	got, err := s.GetLatest(ctx, "m1")
	require.NoError(t, err)
	assert.Nil(t, got.Overlay)
}

func TestListSnapshots_OnePerMap(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.SaveSnapshot(ctx, testMap("m1", "One"), nil)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	_, err = s.SaveSnapshot(ctx, testMap("m1", "One again"), nil)
	require.NoError(t, err)
	_, err = s.SaveSnapshot(ctx, testMap("m2", "Two"), nil)
	require.NoError(t, err)

	snaps, err := s.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	names := map[string]string{}
	for _, snap := range snaps {
		names[snap.MapID] = snap.Map.Name
		assert.False(t, snap.FetchedAt.IsZero())
	}
	assert.Equal(t, "One again", names["m1"])
	assert.Equal(t, "Two", names["m2"])
}

func TestPrune(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.SaveSnapshot(ctx, testMap("m1", "Keep"), nil)
	require.NoError(t, err)

	// Nothing is older than an hour yet.
	n, err := s.Prune(ctx, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, n)

	// Everything is older than a negative cutoff in the future.
	n, err = s.Prune(ctx, -time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.GetLatest(ctx, "m1")
	assert.ErrorIs(t, err, ErrNoSnapshot)
}
