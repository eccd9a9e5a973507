package medication

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const catalogSheet = "Catalog"

// CatalogHeader is the column order for catalog import and export files.
var CatalogHeader = []string{"ID", "Name", "Spec", "Unit", "Price", "Category", "Stock"}

// ParseCatalog reads medication rows from an xlsx stream. The first sheet is
// used; the first row is treated as a header and skipped. Fully empty rows
// are ignored.
func ParseCatalog(r io.Reader) ([]*Medication, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("catalog file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read catalog rows: %w", err)
	}

	var items []*Medication
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if isEmptyRow(row) {
			continue
		}
		m, err := parseCatalogRow(row)
		if err != nil {
			return nil, fmt.Errorf("catalog row %d: %w", i+1, err)
		}
		items = append(items, m)
	}
	return items, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parseCatalogRow(row []string) (*Medication, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	m := &Medication{
		ID:       cell(0),
		Name:     cell(1),
		Spec:     cell(2),
		Unit:     cell(3),
		Category: cell(5),
	}
	if v := cell(4); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid price %q", v)
		}
		m.Price = price
	}
	if v := cell(6); v != "" {
		stock, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid stock %q", v)
		}
		m.Stock = stock
	}
	return m, nil
}

// GenerateCatalog renders medications as an xlsx file with the standard
// header row. An empty slice yields a valid header-only file, which doubles
// as the import template.
func GenerateCatalog(items []*Medication) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(catalogSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for col, header := range CatalogHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell %d: %w", col+1, err)
		}
		if err := f.SetCellValue(catalogSheet, cell, header); err != nil {
			return nil, fmt.Errorf("set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(catalogSheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("style header cell %s: %w", cell, err)
		}
	}

	for i, m := range items {
		values := []interface{}{m.ID, m.Name, m.Spec, m.Unit, m.Price, m.Category, m.Stock}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(catalogSheet, cell, v); err != nil {
				return nil, fmt.Errorf("set data cell %s: %w", cell, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write catalog file: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateCatalogTemplate returns a header-only xlsx for bulk import.
func GenerateCatalogTemplate() ([]byte, error) {
	return GenerateCatalog(nil)
}
