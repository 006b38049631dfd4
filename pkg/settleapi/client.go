// Package settleapi provides a client for the settlesavvy scoring API:
// map CRUD, neighborhood score retrieval, factor configuration, and
// token authentication.
package settleapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/settlesavvy/settlemap-cli/internal/model"
)

// Client defines the scoring API operations.
type Client interface {
	// Maps
	ListMaps(ctx context.Context) ([]model.Map, error)
	GetMap(ctx context.Context, id string) (*model.Map, error)
	CreateMap(ctx context.Context, req model.CreateMapRequest) (*model.Map, error)
	UpdateMap(ctx context.Context, id string, req model.UpdateMapRequest) (*model.Map, error)
	DeleteMap(ctx context.Context, id string) error
	GetScores(ctx context.Context, id string) ([]model.NeighborhoodScore, error)

	// Factor configuration
	ListFactors(ctx context.Context) ([]model.Factor, error)
	ListMapFactors(ctx context.Context, mapID string) ([]model.MapFactor, error)
	CreateMapFactor(ctx context.Context, req model.CreateMapFactorRequest) (*model.MapFactor, error)
	UpdateMapFactor(ctx context.Context, id string, req model.UpdateMapFactorRequest) (*model.MapFactor, error)
	DeleteMapFactor(ctx context.Context, id string) error
	CalculateScores(ctx context.Context, mapFactorID string) error

	// Auth
	Login(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error)
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
}

// TokenSource supplies the current session token, if any.
type TokenSource func() (string, bool)

// Option configures the client.
type Option func(*httpClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithTokenSource sets the session token provider. Requests carry the
// token in an Authorization header whenever one is available.
func WithTokenSource(ts TokenSource) Option {
	return func(c *httpClient) {
		c.tokens = ts
	}
}

// WithUnauthorizedHook registers a callback invoked once per
// unauthorized response, before the error is returned to the caller.
// The hook is where the session gets cleared, regardless of which
// screen triggered the request; the screen that receives the error
// performs the login navigation.
func WithUnauthorizedHook(fn func()) Option {
	return func(c *httpClient) {
		c.onUnauthorized = fn
	}
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(perSec float64) Option {
	return func(c *httpClient) {
		if perSec > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSec), 1)
		}
	}
}

type httpClient struct {
	baseURL        string
	http           *http.Client
	tokens         TokenSource
	onUnauthorized func()
	limiter        *rate.Limiter
}

// NewClient creates a scoring API client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) Client {
	c := &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do executes one request. Fetch errors are terminal: there is no
// automatic retry, the caller decides whether to re-trigger a load.
func (c *httpClient) do(ctx context.Context, method, path string, payload, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "settleapi: rate limit wait")
		}
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return eris.Wrap(err, "settleapi: marshal request")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+path, body)
	if err != nil {
		return eris.Wrap(err, "settleapi: create request")
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token, ok := c.tokens(); ok {
			req.Header.Set("Authorization", "Token "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrapf(err, "settleapi: %s %s", method, path)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "settleapi: read response body")
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		return classifyStatus(resp.StatusCode, respBody)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return eris.Wrap(err, "settleapi: unmarshal response")
		}
	}
	return nil
}

func (c *httpClient) ListMaps(ctx context.Context) ([]model.Map, error) {
	var maps []model.Map
	if err := c.do(ctx, http.MethodGet, "maps/", nil, &maps); err != nil {
		return nil, err
	}
	return maps, nil
}

func (c *httpClient) GetMap(ctx context.Context, id string) (*model.Map, error) {
	var m model.Map
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("maps/%s/", id), nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *httpClient) CreateMap(ctx context.Context, req model.CreateMapRequest) (*model.Map, error) {
	var m model.Map
	if err := c.do(ctx, http.MethodPost, "maps/", req, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *httpClient) UpdateMap(ctx context.Context, id string, req model.UpdateMapRequest) (*model.Map, error) {
	var m model.Map
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("maps/%s/", id), req, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *httpClient) DeleteMap(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("maps/%s/", id), nil, nil)
}

func (c *httpClient) GetScores(ctx context.Context, id string) ([]model.NeighborhoodScore, error) {
	var scores []model.NeighborhoodScore
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("maps/%s/scores/", id), nil, &scores); err != nil {
		return nil, err
	}
	return scores, nil
}

func (c *httpClient) ListFactors(ctx context.Context) ([]model.Factor, error) {
	var factors []model.Factor
	if err := c.do(ctx, http.MethodGet, "factors/", nil, &factors); err != nil {
		return nil, err
	}
	return factors, nil
}

func (c *httpClient) ListMapFactors(ctx context.Context, mapID string) ([]model.MapFactor, error) {
	var mfs []model.MapFactor
	if err := c.do(ctx, http.MethodGet, "map-factors/?map="+mapID, nil, &mfs); err != nil {
		return nil, err
	}
	return mfs, nil
}

func (c *httpClient) CreateMapFactor(ctx context.Context, req model.CreateMapFactorRequest) (*model.MapFactor, error) {
	var mf model.MapFactor
	if err := c.do(ctx, http.MethodPost, "map-factors/", req, &mf); err != nil {
		return nil, err
	}
	return &mf, nil
}

func (c *httpClient) UpdateMapFactor(ctx context.Context, id string, req model.UpdateMapFactorRequest) (*model.MapFactor, error) {
	var mf model.MapFactor
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("map-factors/%s/", id), req, &mf); err != nil {
		return nil, err
	}
	return &mf, nil
}

func (c *httpClient) DeleteMapFactor(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("map-factors/%s/", id), nil, nil)
}

func (c *httpClient) CalculateScores(ctx context.Context, mapFactorID string) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("map-factors/%s/calculate_scores/", mapFactorID), nil, nil)
}

func (c *httpClient) Login(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "auth/login/", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *httpClient) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "auth/register/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
