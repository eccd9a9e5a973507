package medication

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestCatalogRoundTrip(t *testing.T) {
	in := []*Medication{
		{ID: "M001", Name: "Amoxicillin Capsules", Spec: "0.25g*24", Unit: "box", Price: 15.8, Category: "antibiotic", Stock: 500},
		{ID: "M004", Name: "Calcium Gluconate Oral Solution", Spec: "10ml*10", Unit: "box", Price: 18, Category: "supplement", Stock: 12},
	}

	data, err := GenerateCatalog(in)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	out, err := ParseCatalog(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("expected %d rows, got %d", len(in), len(out))
	}
	for i := range in {
		if *out[i] != *in[i] {
			t.Errorf("row %d mismatch: got %+v, want %+v", i, out[i], in[i])
		}
	}
}

func TestGenerateCatalogTemplate(t *testing.T) {
	data, err := GenerateCatalogTemplate()
	if err != nil {
		t.Fatalf("generate template: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open template: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(catalogSheet)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("template must contain only the header row, got %d rows", len(rows))
	}
	for i, want := range CatalogHeader {
		if rows[0][i] != want {
			t.Errorf("header column %d: got %q, want %q", i, rows[0][i], want)
		}
	}

	items, err := ParseCatalog(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("parse template: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("template must parse to zero rows, got %d", len(items))
	}
}

func TestParseCatalog_SkipsEmptyRows(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetList()[0]
	for col, h := range CatalogHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			t.Fatalf("set header: %v", err)
		}
	}
	// Row 2 left blank, row 3 has data.
	if err := f.SetCellValue(sheet, "A3", "M002"); err != nil {
		t.Fatalf("set cell: %v", err)
	}
	if err := f.SetCellValue(sheet, "B3", "Ibuprofen Sustained-Release Capsules"); err != nil {
		t.Fatalf("set cell: %v", err)
	}
	if err := f.SetCellValue(sheet, "G3", 45); err != nil {
		t.Fatalf("set cell: %v", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}

	items, err := ParseCatalog(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 row, got %d", len(items))
	}
	if items[0].ID != "M002" || items[0].Stock != 45 {
		t.Errorf("row mismatch: %+v", items[0])
	}
}

func TestParseCatalog_InvalidStock(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetList()[0]
	if err := f.SetCellValue(sheet, "A1", "ID"); err != nil {
		t.Fatalf("set header: %v", err)
	}
	if err := f.SetCellValue(sheet, "A2", "M001"); err != nil {
		t.Fatalf("set cell: %v", err)
	}
	if err := f.SetCellValue(sheet, "B2", "Amoxicillin Capsules"); err != nil {
		t.Fatalf("set cell: %v", err)
	}
	if err := f.SetCellValue(sheet, "G2", "plenty"); err != nil {
		t.Fatalf("set cell: %v", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := ParseCatalog(bytes.NewReader(buf.Bytes())); err == nil {
		t.Fatal("expected error for non-numeric stock")
	}
}
