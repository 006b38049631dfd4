package settleapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/settlesavvy/settlemap-cli/internal/model"
)

func TestListMaps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/maps/", r.URL.Path)
		assert.Equal(t, "Token tok-1", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"map_id":"m1","name":"Riverside","zoom_level":12,
			 "center_point":{"type":"Point","coordinates":[-122.4,37.7]},
			 "created_stamp":"2026-01-02T03:04:05Z","last_updated":"2026-01-02T03:04:05Z"}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithTokenSource(func() (string, bool) { return "tok-1", true }))

	maps, err := c.ListMaps(context.Background())
	require.NoError(t, err)
	require.Len(t, maps, 1)
	assert.Equal(t, "Riverside", maps[0].Name)
	require.NotNil(t, maps[0].CenterPoint)
	assert.InDelta(t, -122.4, maps[0].CenterPoint.Lng(), 0.001)
	assert.InDelta(t, 37.7, maps[0].CenterPoint.Lat(), 0.001)
}

func TestGetMap_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Not found."}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.GetMap(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnauthorized_InvokesHookAndOmitsHeaderWithoutSession(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Invalid token."}`))
	}))
	defer srv.Close()

	hookCalls := 0
	c := NewClient(srv.URL,
		WithTokenSource(func() (string, bool) { return "", false }),
		WithUnauthorizedHook(func() { hookCalls++ }),
	)

	_, err := c.ListMaps(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, hookCalls)
	assert.Empty(t, gotAuth)
}

func TestCreateMap_SendsPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/maps/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req model.CreateMapRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Downtown", req.Name)
		require.NotNil(t, req.Latitude)
		assert.InDelta(t, 37.7, *req.Latitude, 0.001)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"map_id":"new-1","name":"Downtown","zoom_level":13}`))
	}))
	defer srv.Close()

	lat, lng := 37.7, -122.4
	c := NewClient(srv.URL)
	m, err := c.CreateMap(context.Background(), model.CreateMapRequest{
		Name: "Downtown", Latitude: &lat, Longitude: &lng, ZoomLevel: 13,
	})
	require.NoError(t, err)
	assert.Equal(t, "new-1", m.MapID)
}

func TestUpdateMap_PatchOmitsAbsentFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/maps/m1/", r.URL.Path)

		var raw map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Contains(t, raw, "name")
		assert.NotContains(t, raw, "zoom_level")
		assert.NotContains(t, raw, "latitude")
		assert.NotContains(t, raw, "longitude")

		_, _ = w.Write([]byte(`{"map_id":"m1","name":"Renamed","zoom_level":12}`))
	}))
	defer srv.Close()

	name := "Renamed"
	c := NewClient(srv.URL)
	m, err := c.UpdateMap(context.Background(), "m1", model.UpdateMapRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", m.Name)
}

func TestGetScores(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/m1/scores/", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"geo_id":"n1","name":"Alpha","score":85,"is_filtered":false,
			 "geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}},
			{"geo_id":"n2","name":"Beta","score":55,"is_filtered":true,
			 "geometry":{"type":"Polygon","coordinates":[[[2,2],[3,2],[3,3],[2,2]]]}}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	scores, err := c.GetScores(context.Background(), "m1")
	require.NoError(t, err)
	require.Len(t, scores, 2)
	require.NotNil(t, scores[0].Score)
	assert.InDelta(t, 85, *scores[0].Score, 0.001)
	assert.True(t, scores[1].IsFiltered)
	assert.NotEmpty(t, scores[1].Geometry)
}

func TestValidationRejected_DetailVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"latitude":["Latitude must be between -90 and 90"]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.CreateMap(context.Background(), model.CreateMapRequest{Name: "x", ZoomLevel: 12})
	require.Error(t, err)
	assert.Equal(t, "latitude: Latitude must be between -90 and 90", Detail(err))
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login/", r.URL.Path)
		var creds model.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "ada", creds.Username)

		_, _ = w.Write([]byte(`{"token":"tok-9","user":{"id":1,"username":"ada"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	resp, err := c.Login(context.Background(), model.Credentials{Username: "ada", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "tok-9", resp.Token)
	assert.Equal(t, "ada", resp.User.Username)
}

func TestDeleteMap_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	assert.NoError(t, c.DeleteMap(context.Background(), "m1"))
}

func TestParseDetail_Shapes(t *testing.T) {
	assert.Equal(t, "Not found.", parseDetail([]byte(`{"detail":"Not found."}`)))
	assert.Equal(t, "name: required", parseDetail([]byte(`{"name":["required"]}`)))
	assert.Equal(t, "", parseDetail([]byte(`not json`)))
	assert.Equal(t, "", parseDetail(nil))
}
