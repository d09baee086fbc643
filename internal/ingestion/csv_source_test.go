package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCSVDirSource_LoadConcatenatesDayFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "snapshot_20240102_a.csv",
		"sku_id,name,brand,category,top_category,current_price,list_price\n"+
			"p1,Yerba,Taragüi,Yerbas,Almacén,100,120\n")
	writeFile(t, dir, "snapshot_20240102_b.csv",
		"sku_id,name,brand,category,top_category,current_price,list_price\n"+
			"p2,Leche,SanCor,Lácteos,Lácteos,50,50\n")
	writeFile(t, dir, "snapshot_20240101.csv",
		"sku_id,name,brand,category,top_category,current_price,list_price\n"+
			"old,Old,X,Y,Z,1,1\n")

	src := NewCSVDirSource(dir)
	rows, err := src.Load(context.Background(), "2024-01-02")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].ProductID != "p1" || rows[1].ProductID != "p2" {
		t.Errorf("unexpected rows: %+v", rows)
	}
	if rows[0].Brand != "Taragüi" || rows[1].Category != "Lácteos" {
		t.Errorf("non-ASCII fields mangled: %+v", rows)
	}
}

func TestCSVDirSource_LoadEmptyWhenNoFiles(t *testing.T) {
	src := NewCSVDirSource(t.TempDir())
	rows, err := src.Load(context.Background(), "2024-01-02")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}

func TestCSVDirSource_SkipsBrokenFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "snapshot_20240102_ok.csv",
		"sku_id,name,brand,category,top_category,current_price,list_price\n"+
			"p1,A,B,C,D,10,10\n")
	writeFile(t, dir, "snapshot_20240102_broken.csv", "not,a\nvalid header at all\n")

	src := NewCSVDirSource(dir)
	rows, err := src.Load(context.Background(), "2024-01-02")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].ProductID != "p1" {
		t.Errorf("expected only the valid file's row, got %+v", rows)
	}
}

func TestCSVDirSource_ListDates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "snapshot_20240103.csv", "sku_id\np\n")
	writeFile(t, dir, "snapshot_20240101_a.csv", "sku_id\np\n")
	writeFile(t, dir, "snapshot_20240101_b.csv", "sku_id\np\n")

	src := NewCSVDirSource(dir)
	dates, err := src.ListDates()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"2024-01-01", "2024-01-03"}
	if !reflect.DeepEqual(dates, want) {
		t.Errorf("expected %v, got %v", want, dates)
	}
}

func TestParseRawCSV_HeaderMappingAnyOrder(t *testing.T) {
	input := "current_price,sku_id,name\n99.5,p1,Pan\n"
	rows, err := ParseRawCSV(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].ProductID != "p1" || rows[0].CurrentPrice != "99.5" || rows[0].Name != "Pan" {
		t.Errorf("header mapping wrong: %+v", rows[0])
	}
	if rows[0].Brand != "" || rows[0].Date != "" {
		t.Errorf("absent columns should be empty strings: %+v", rows[0])
	}
}

func TestParseRawCSV_StripsBOM(t *testing.T) {
	input := "\uFEFFsku_id,current_price\np1,10\n"
	rows, err := ParseRawCSV(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].ProductID != "p1" {
		t.Errorf("BOM header not handled: %+v", rows)
	}
}

func TestParseRawCSV_RejectsMissingIDColumn(t *testing.T) {
	if _, err := ParseRawCSV(strings.NewReader("name,price\nPan,10\n")); err == nil {
		t.Error("expected error for header without sku_id")
	}
}

func TestParseRawCSV_RaggedRowTolerated(t *testing.T) {
	input := "sku_id,name,current_price\np1,Pan\n"
	rows, err := ParseRawCSV(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if rows[0].CurrentPrice != "" {
		t.Errorf("short row's missing field should read empty, got %q", rows[0].CurrentPrice)
	}
}
