package model

import "time"

// Factor is a catalog entry the scoring backend knows how to evaluate.
type Factor struct {
	FactorID               int    `json:"factor_id"`
	Name                   string `json:"name"`
	Description            string `json:"description"`
	Source                 string `json:"source"`
	DefaultScoringStrategy string `json:"default_scoring_strategy"`
}

// MapFactor binds a factor to a map with a weight and strategy
// configuration. Tipping points are opaque thresholds consumed by the
// scoring service; this client never orders or interprets them.
type MapFactor struct {
	MapFactorID     string    `json:"map_factor_id"`
	Map             string    `json:"map"`
	Factor          int       `json:"factor"`
	FactorName      string    `json:"factor_name"`
	Weight          float64   `json:"weight"`
	ScoringStrategy string    `json:"scoring_strategy"`
	FilterStrategy  string    `json:"filter_strategy"`
	ScoreTipping1   *float64  `json:"score_tipping_1"`
	ScoreTipping2   *float64  `json:"score_tipping_2"`
	FilterTipping1  *float64  `json:"filter_tipping_1"`
	FilterTipping2  *float64  `json:"filter_tipping_2"`
	CreatedStamp    time.Time `json:"created_stamp"`
}

// CreateMapFactorRequest is the POST map-factors/ payload.
type CreateMapFactorRequest struct {
	Map             string   `json:"map"`
	Factor          int      `json:"factor"`
	Weight          float64  `json:"weight"`
	ScoringStrategy string   `json:"scoring_strategy"`
	FilterStrategy  string   `json:"filter_strategy"`
	ScoreTipping1   *float64 `json:"score_tipping_1,omitempty"`
	ScoreTipping2   *float64 `json:"score_tipping_2,omitempty"`
	FilterTipping1  *float64 `json:"filter_tipping_1,omitempty"`
	FilterTipping2  *float64 `json:"filter_tipping_2,omitempty"`
}

// UpdateMapFactorRequest is the PATCH map-factors/{id}/ payload.
// Absent fields are omitted, never null.
type UpdateMapFactorRequest struct {
	Weight          *float64 `json:"weight,omitempty"`
	ScoringStrategy *string  `json:"scoring_strategy,omitempty"`
	FilterStrategy  *string  `json:"filter_strategy,omitempty"`
	ScoreTipping1   *float64 `json:"score_tipping_1,omitempty"`
	ScoreTipping2   *float64 `json:"score_tipping_2,omitempty"`
	FilterTipping1  *float64 `json:"filter_tipping_1,omitempty"`
	FilterTipping2  *float64 `json:"filter_tipping_2,omitempty"`
}
