package ingest

import (
	"errors"
	"testing"
)

func TestParseCSV(t *testing.T) {
	data := []byte("date,campaign,spend\n2024-01-01,\"Brand, Search\",100.5\n2024-01-02,Generic,0\n")
	rows, err := ParseCSV("test.csv", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0]["campaign"] != "Brand, Search" {
		t.Errorf("quoted field = %q, want %q", rows[0]["campaign"], "Brand, Search")
	}
	if rows[1]["spend"] != "0" {
		t.Errorf("spend = %q, want 0", rows[1]["spend"])
	}
}

func TestParseCSVHeaderOnly(t *testing.T) {
	_, err := ParseCSV("test.csv", []byte("date,campaign,spend\n"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

func TestParseCSVEmpty(t *testing.T) {
	_, err := ParseCSV("test.csv", nil)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

func TestParseCSVSkipsBlankLines(t *testing.T) {
	rows, err := ParseCSV("test.csv", []byte("a,b\n1,2\n\n3,4\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("rows = %d, want 2", len(rows))
	}
}

func TestParseCSVShortRowPadsEmpty(t *testing.T) {
	rows, err := ParseCSV("test.csv", []byte("a,b,c\n1,2\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0]["c"] != "" {
		t.Errorf("short row field = %q, want empty", rows[0]["c"])
	}
}

func TestParseFileUnsupportedExtension(t *testing.T) {
	_, err := ParseFile("data.json", []byte("{}"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}
