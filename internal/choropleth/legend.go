package choropleth

import "sync"

// LegendEntry is one row of the legend.
type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// LegendEntries enumerates all six bins in display order, colors
// matching the classification table exactly.
func LegendEntries() []LegendEntry {
	return []LegendEntry{
		{Label: "80-100 (Very High)", Color: binFills[BinVeryHigh]},
		{Label: "60-79 (High)", Color: binFills[BinHigh]},
		{Label: "40-59 (Medium)", Color: binFills[BinMedium]},
		{Label: "20-39 (Low)", Color: binFills[BinLow]},
		{Label: "0-19 (Very Low)", Color: binFills[BinVeryLow]},
		{Label: "No Data or Filtered", Color: binFills[BinNeutral]},
	}
}

// Legend holds the legend visibility flag: visible by default, flipped
// only by an explicit user toggle.
type Legend struct {
	mu     sync.Mutex
	hidden bool
}

// NewLegend returns a visible legend.
func NewLegend() *Legend {
	return &Legend{}
}

// Visible reports the current visibility.
func (l *Legend) Visible() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.hidden
}

// Toggle flips visibility and returns the new value.
func (l *Legend) Toggle() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hidden = !l.hidden
	return !l.hidden
}
