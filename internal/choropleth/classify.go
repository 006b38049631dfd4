// Package choropleth turns a map's scored neighborhoods into a
// color-classified overlay: score binning, GeoJSON feature building,
// camera state, legend, and the hover/click interaction reducer. It
// renders already-computed scores; it never talks to the network.
package choropleth

// Bin is a color class for a scored neighborhood.
type Bin int

// Bins in ascending severity order. BinNeutral is the no-data class
// for filtered neighborhoods and undefined scores.
const (
	BinNeutral Bin = iota
	BinVeryLow
	BinLow
	BinMedium
	BinHigh
	BinVeryHigh
)

// Classify assigns a score to its bin. Filtered neighborhoods and
// undefined scores are always Neutral, whatever the score value says.
// Boundary values belong to the higher bin, so Classify is total over
// the real line.
func Classify(score *float64, filtered bool) Bin {
	if filtered || score == nil {
		return BinNeutral
	}
	s := *score
	switch {
	case s >= 80:
		return BinVeryHigh
	case s >= 60:
		return BinHigh
	case s >= 40:
		return BinMedium
	case s >= 20:
		return BinLow
	default:
		return BinVeryLow
	}
}

// Style is the fixed fill and stroke styling of a bin. Neutral is
// visually de-emphasized through a lower fill opacity.
type Style struct {
	FillColor   string  `json:"fillColor"`
	FillOpacity float64 `json:"fillOpacity"`
	Color       string  `json:"color"`
	Weight      int     `json:"weight"`
	Opacity     float64 `json:"opacity"`
}

const (
	strokeColor   = "#666666"
	strokeWeight  = 1
	strokeOpacity = 0.7

	scoredFillOpacity  = 0.7
	neutralFillOpacity = 0.4
)

var binFills = map[Bin]string{
	BinVeryHigh: "#1a9850",
	BinHigh:     "#91cf60",
	BinMedium:   "#ffffbf",
	BinLow:      "#fc8d59",
	BinVeryLow:  "#d73027",
	BinNeutral:  "#cccccc",
}

// Style returns the bin's fixed rendering style.
func (b Bin) Style() Style {
	fillOpacity := scoredFillOpacity
	if b == BinNeutral {
		fillOpacity = neutralFillOpacity
	}
	return Style{
		FillColor:   binFills[b],
		FillOpacity: fillOpacity,
		Color:       strokeColor,
		Weight:      strokeWeight,
		Opacity:     strokeOpacity,
	}
}

// Label returns the bin's short display name.
func (b Bin) Label() string {
	switch b {
	case BinVeryHigh:
		return "Very High"
	case BinHigh:
		return "High"
	case BinMedium:
		return "Medium"
	case BinLow:
		return "Low"
	case BinVeryLow:
		return "Very Low"
	default:
		return "No Data"
	}
}
