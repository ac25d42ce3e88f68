package writer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/AnnieYe17/Material-Procurement-Intelligent-Data-Center/internal/data"
	"github.com/AnnieYe17/Material-Procurement-Intelligent-Data-Center/internal/ocr"
)

func TestCSVToExcel(t *testing.T) {
	// Arrange: write a small CSV the same way the pipeline does
	tempDir := t.TempDir()
	csvPath := filepath.Join(tempDir, "procurement.csv")
	xlsxPath := filepath.Join(tempDir, "procurement.xlsx")

	cw := NewCSVWriter(data.MapCSVRecord, data.GetCSVHeader)
	defer cw.Close()

	price := 3.8
	records := []data.ProcurementRecord{
		{ItemName: "灯带", Specification: "灯带3.4米", UnitPrice: &price, Currency: "CNY", SourceText: "灯带3.4米 3.8元", Confidence: 0.85},
		{ItemName: "插座", Currency: "CNY", SourceText: "插座 10个", Confidence: 0.65},
	}
	if err := cw.WriteToFile(records, csvPath); err != nil {
		t.Fatalf("writing CSV fixture: %v", err)
	}

	// Act
	if err := CSVToExcel(csvPath, xlsxPath); err != nil {
		t.Fatalf("CSVToExcel failed: %v", err)
	}

	// Assert
	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "采购明细" {
		t.Errorf("expected single sheet 采购明细, got %v", sheets)
	}

	header, err := f.GetCellValue("采购明细", "A1")
	if err != nil {
		t.Fatalf("reading A1: %v", err)
	}
	if header != "item_name" {
		t.Errorf("expected header item_name in A1, got %q", header)
	}

	item, err := f.GetCellValue("采购明细", "A2")
	if err != nil {
		t.Fatalf("reading A2: %v", err)
	}
	if item != "灯带" {
		t.Errorf("expected 灯带 in A2, got %q", item)
	}

	rows, err := f.GetRows("采购明细")
	if err != nil {
		t.Fatalf("reading rows: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("expected header + 2 rows, got %d", len(rows))
	}
}

func TestCSVToExcel_MissingCSV(t *testing.T) {
	err := CSVToExcel(filepath.Join(t.TempDir(), "nope.csv"), filepath.Join(t.TempDir(), "out.xlsx"))
	if err == nil {
		t.Errorf("expected error for missing CSV, got none")
	}
}

func TestWriteJSON(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "out", "ocr_test.json")

	docs := []*ocr.Document{
		{
			Image:   "chat.png",
			Path:    "input_images/chat.png",
			RawText: "灯带3.4米\n3.8元",
			Items: []ocr.Item{
				{Text: "灯带3.4米", Conf: 0.92},
				{Text: "3.8元", Conf: 0.88},
			},
		},
	}

	if err := WriteJSON(docs, path); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	content := string(raw)
	// Chinese must survive as UTF-8, not \u escapes
	for _, want := range []string{`"image": "chat.png"`, "灯带3.4米", `"conf": 0.92`} {
		if !strings.Contains(content, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, content)
		}
	}
}
