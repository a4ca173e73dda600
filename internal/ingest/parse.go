package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one parsed data row: raw column name -> string value.
// Parsing is schema-agnostic; normalization and validation happen later.
type Row map[string]string

// ParseFile dispatches on the file extension. CSV and Excel workbooks
// are supported.
func ParseFile(name string, data []byte) ([]Row, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".csv":
		return ParseCSV(name, data)
	case ".xlsx", ".xls":
		return ParseXLSX(name, data)
	default:
		return nil, &ParseError{File: name, Msg: fmt.Sprintf("unsupported file format: %s", ext)}
	}
}

// ParseCSV reads a comma-delimited file with a required header row.
// Quoted fields are stripped by the reader; short rows pad with "".
func ParseCSV(name string, data []byte) ([]Row, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // tolerate ragged rows
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, &ParseError{File: name, Msg: "file must have at least a header and one data row"}
	}
	if err != nil {
		return nil, &ParseError{File: name, Msg: err.Error()}
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []Row
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{File: name, Msg: err.Error()}
		}
		if blank(rec) {
			continue
		}
		row := make(Row, len(header))
		for i, h := range header {
			if h == "" {
				continue
			}
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, &ParseError{File: name, Msg: "file must have at least a header and one data row"}
	}
	return rows, nil
}

// ParseXLSX reads the first sheet of a workbook, first row as header.
func ParseXLSX(name string, data []byte) ([]Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{File: name, Msg: err.Error()}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{File: name, Msg: "workbook has no sheets"}
	}
	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &ParseError{File: name, Msg: err.Error()}
	}
	if len(all) < 2 {
		return nil, &ParseError{File: name, Msg: "sheet must have at least a header and one data row"}
	}

	header := all[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	var rows []Row
	for _, rec := range all[1:] {
		if blank(rec) {
			continue
		}
		row := make(Row, len(header))
		for i, h := range header {
			if h == "" {
				continue
			}
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, &ParseError{File: name, Msg: "sheet must have at least a header and one data row"}
	}
	return rows, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
