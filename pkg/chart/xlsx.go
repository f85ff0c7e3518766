package chart

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// totalMarker in a value cell marks the row as a total category.
const totalMarker = "total"

// decodeXLSX reads a model from the first sheet of a workbook.
//
// Each row is one category: column A holds the label, the remaining columns
// hold stacked values. A value cell reading "total" marks a total category.
// When the first row contains text where values are expected it is a header,
// and its A1 cell becomes the chart title.
func decodeXLSX(r io.Reader) (*Model, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Model{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}

	m := &Model{}
	for i, row := range rows {
		if blankRow(row) {
			continue
		}
		c, err := parseRow(row)
		if err != nil {
			if i == 0 {
				m.Title = strings.TrimSpace(row[0])
				continue
			}
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		m.Categories = append(m.Categories, c)
	}
	return m, nil
}

func parseRow(row []string) (Category, error) {
	c := Category{Label: strings.TrimSpace(row[0])}
	for j, cell := range row[1:] {
		cell = strings.TrimSpace(cell)
		switch {
		case cell == "":
		case strings.EqualFold(cell, totalMarker):
			c.Total = true
		default:
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				col, _ := excelize.ColumnNumberToName(j + 2)
				return Category{}, fmt.Errorf("column %s: %q is not a number", col, cell)
			}
			c.Values = append(c.Values, v)
		}
	}
	return c, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// encodeXLSX writes m as a single-sheet workbook in the layout decodeXLSX reads.
func encodeXLSX(w io.Writer, m *Model) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	// A1 stays blank for untitled charts; the "Values" cell alone marks the
	// header row.
	if err := f.SetSheetRow(sheet, "A1", &[]any{m.Title, "Values"}); err != nil {
		return err
	}
	for i, c := range m.Categories {
		row := []any{c.Label}
		if c.Total {
			row = append(row, totalMarker)
		}
		for _, v := range c.Values {
			row = append(row, v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}
