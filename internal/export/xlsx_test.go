package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/settlesavvy/settlemap-cli/internal/model"
)

func score(v float64) *float64 { return &v }

func TestWriteScoresXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.xlsx")

	m := model.Map{MapID: "m1", Name: "Riverside"}
	scores := []model.NeighborhoodScore{
		{GeoID: "n1", Name: "Alpha", Score: score(85)},
		{GeoID: "n2", Name: "Beta", Score: score(55), IsFiltered: true},
		{GeoID: "n3", Name: "Gamma"},
	}

	require.NoError(t, WriteScoresXLSX(path, m, scores))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	sheet, ok := f.Sheet["Riverside"]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 4)

	assert.Equal(t, "geo_id", sheet.Rows[0].Cells[0].String())

	assert.Equal(t, "n1", sheet.Rows[1].Cells[0].String())
	assert.Equal(t, "85.0", sheet.Rows[1].Cells[2].String())
	assert.Equal(t, "Very High", sheet.Rows[1].Cells[3].String())

	// Filtered neighborhoods land in the neutral bin whatever the score.
	assert.Equal(t, "No Data", sheet.Rows[2].Cells[3].String())

	// Undefined scores use the placeholder.
	assert.Equal(t, "N/A", sheet.Rows[3].Cells[2].String())
}

func TestWriteScoresXLSX_LongMapName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.xlsx")

	m := model.Map{Name: "A name well beyond the thirty-one character sheet limit"}
	require.NoError(t, WriteScoresXLSX(path, m, nil))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	_, ok := f.Sheet["Scores"]
	assert.True(t, ok)
}
