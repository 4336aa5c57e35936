// Package cutlist exports a rendered sheet as a spreadsheet the print shop
// can check against while cutting: one sheet with the order summary and one
// row per magnet with its page, cell and pixel position.
package cutlist

import (
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/magnetsheet/pkg/sheet"
)

// Sheet names in the workbook.
const (
	OrderSheet      = "Order"
	PlacementsSheet = "Placements"
)

var placementHeader = []any{"#", "Source", "Copy", "Page", "Row", "Col", "X (px)", "Y (px)", "Status"}

// Write writes the cut list of s as an .xlsx workbook.
func Write(w io.Writer, s *sheet.Sheet, generated time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", OrderSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(PlacementsSheet); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := writeOrder(f, s, generated, bold); err != nil {
		return err
	}
	if err := writePlacements(f, s, bold); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

func writeOrder(f *excelize.File, s *sheet.Sheet, generated time.Time, bold int) error {
	skipped := len(s.Diagnostics)
	rows := [][]any{
		{"Order", s.Info.OrderNumber},
		{"Customer", s.Info.CustomerName},
		{"Phone", s.Info.Phone},
		{"Declared magnets", s.Info.TotalMagnets},
		{"Laid out", s.Magnets()},
		{"Printed", s.Magnets() - skipped},
		{"Skipped", skipped},
		{"Pages", len(s.Pages)},
		{"Magnet size (px)", s.Geometry.Magnet},
		{"DPI", s.Geometry.DPI},
		{"Generated", generated.Format(time.DateTime)},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(OrderSheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetColStyle(OrderSheet, "A", bold); err != nil {
		return err
	}
	return f.SetColWidth(OrderSheet, "A", "B", 22)
}

func writePlacements(f *excelize.File, s *sheet.Sheet, bold int) error {
	if err := f.SetSheetRow(PlacementsSheet, "A1", &placementHeader); err != nil {
		return err
	}
	if err := f.SetRowStyle(PlacementsSheet, 1, 1, bold); err != nil {
		return err
	}

	for i, p := range s.Placements() {
		status := "ok"
		if p.Skipped {
			status = "skipped"
		}
		// Positions are shown 1-based, the way the pages are numbered.
		row := []any{p.Index + 1, p.SourceID, p.Copy, p.Page + 1, p.Row + 1, p.Col + 1, p.X, p.Y, status}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(PlacementsSheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SetColWidth(PlacementsSheet, "B", "B", 38)
}
