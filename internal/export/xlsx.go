// Package export writes a map's score result set to spreadsheet form.
package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/settlesavvy/settlemap-cli/internal/choropleth"
	"github.com/settlesavvy/settlemap-cli/internal/model"
)

var header = []string{"geo_id", "name", "score", "bin", "filtered"}

// WriteScoresXLSX writes one workbook with a single sheet named after
// the map, one row per neighborhood. Scores use the same one-decimal
// formatting and bin labels as the rendered overlay.
func WriteScoresXLSX(path string, m model.Map, scores []model.NeighborhoodScore) error {
	f := xlsx.NewFile()

	sheetName := m.Name
	if sheetName == "" || len(sheetName) > 31 {
		// Sheet names are capped at 31 chars by the format.
		sheetName = "Scores"
	}
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	headerRow := sheet.AddRow()
	for _, h := range header {
		headerRow.AddCell().Value = h
	}

	for _, n := range scores {
		bin := choropleth.Classify(n.Score, n.IsFiltered)

		row := sheet.AddRow()
		row.AddCell().Value = n.GeoID
		row.AddCell().Value = n.Name
		row.AddCell().Value = choropleth.FormatScore(n.Score)
		row.AddCell().Value = bin.Label()
		row.AddCell().SetBool(n.IsFiltered)
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}
