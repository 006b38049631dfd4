package choropleth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func score(v float64) *float64 { return &v }

func TestClassify_Bins(t *testing.T) {
	tests := []struct {
		name     string
		score    *float64
		filtered bool
		want     Bin
	}{
		{"very high", score(95), false, BinVeryHigh},
		{"high", score(70), false, BinHigh},
		{"medium", score(50), false, BinMedium},
		{"low", score(30), false, BinLow},
		{"very low", score(10), false, BinVeryLow},
		{"zero", score(0), false, BinVeryLow},
		{"negative still very low", score(-5), false, BinVeryLow},
		{"above 100 still very high", score(150), false, BinVeryHigh},
		{"undefined score", nil, false, BinNeutral},
		{"filtered overrides score", score(95), true, BinNeutral},
		{"filtered with nil score", nil, true, BinNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.score, tt.filtered))
		})
	}
}

func TestClassify_BoundariesBelongToHigherBin(t *testing.T) {
	assert.Equal(t, BinVeryHigh, Classify(score(80), false))
	assert.Equal(t, BinHigh, Classify(score(60), false))
	assert.Equal(t, BinMedium, Classify(score(40), false))
	assert.Equal(t, BinLow, Classify(score(20), false))

	assert.Equal(t, BinHigh, Classify(score(79.999), false))
	assert.Equal(t, BinMedium, Classify(score(59.999), false))
	assert.Equal(t, BinLow, Classify(score(39.999), false))
	assert.Equal(t, BinVeryLow, Classify(score(19.999), false))
}

func TestClassify_MonotoneInScore(t *testing.T) {
	prev := BinVeryLow
	for s := 0.0; s <= 100; s += 0.5 {
		v := s
		bin := Classify(&v, false)
		assert.GreaterOrEqual(t, bin, prev, "bin regressed at score %v", s)
		prev = bin
	}
}

func TestStyle_NeutralDeEmphasized(t *testing.T) {
	neutral := BinNeutral.Style()
	scored := BinVeryHigh.Style()

	assert.Less(t, neutral.FillOpacity, scored.FillOpacity)
	assert.Equal(t, "#cccccc", neutral.FillColor)
	assert.Equal(t, "#1a9850", scored.FillColor)

	// Stroke is identical across bins.
	for _, b := range []Bin{BinNeutral, BinVeryLow, BinLow, BinMedium, BinHigh, BinVeryHigh} {
		st := b.Style()
		assert.Equal(t, "#666666", st.Color)
		assert.Equal(t, 1, st.Weight)
		assert.InDelta(t, 0.7, st.Opacity, 0.001)
	}
}

func TestStyle_FillsDistinct(t *testing.T) {
	seen := map[string]Bin{}
	for _, b := range []Bin{BinNeutral, BinVeryLow, BinLow, BinMedium, BinHigh, BinVeryHigh} {
		fill := b.Style().FillColor
		_, dup := seen[fill]
		assert.False(t, dup, "fill %s reused", fill)
		seen[fill] = b
	}
}
