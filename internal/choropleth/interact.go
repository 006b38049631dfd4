package choropleth

import (
	"fmt"
	"sync"
)

// unnamedLabel replaces an empty neighborhood name in tooltips and
// popups.
const unnamedLabel = "Unnamed Area"

// notAvailable is the placeholder for an undefined score.
const notAvailable = "N/A"

// FeatureInfo is the interaction-relevant slice of an overlay feature.
type FeatureInfo struct {
	GeoID      string
	Name       string
	Score      *float64
	IsFiltered bool
}

// Popup is the persistent info box opened by a click.
type Popup struct {
	Title     string
	ScoreText string
	Filtered  bool
}

// Interaction is a local reducer over {no-popup, popup(feature)}.
// Popups are mutually exclusive: opening one closes any other.
type Interaction struct {
	mu    sync.Mutex
	popup *Popup
}

// NewInteraction returns an interaction state with no popup open.
func NewInteraction() *Interaction {
	return &Interaction{}
}

// Hover returns the transient tooltip label for a feature.
func (i *Interaction) Hover(f FeatureInfo) string {
	if f.Name == "" {
		return unnamedLabel
	}
	return f.Name
}

// Click opens the popup for a feature, replacing any open popup, and
// returns it.
func (i *Interaction) Click(f FeatureInfo) Popup {
	title := f.Name
	if title == "" {
		title = unnamedLabel
	}

	p := Popup{
		Title:     title,
		ScoreText: FormatScore(f.Score),
		Filtered:  f.IsFiltered,
	}

	i.mu.Lock()
	i.popup = &p
	i.mu.Unlock()
	return p
}

// Dismiss closes the open popup, if any.
func (i *Interaction) Dismiss() {
	i.mu.Lock()
	i.popup = nil
	i.mu.Unlock()
}

// Popup returns the open popup, if one exists.
func (i *Interaction) Popup() (Popup, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.popup == nil {
		return Popup{}, false
	}
	return *i.popup, true
}

// FormatScore renders a score to one decimal place, or the
// not-available placeholder when undefined.
func FormatScore(score *float64) string {
	if score == nil {
		return notAvailable
	}
	return fmt.Sprintf("%.1f", *score)
}
