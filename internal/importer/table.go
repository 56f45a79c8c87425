package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is a parsed spreadsheet: the detected column names in file order
// and one map per data row. Missing cells and absent columns read as "".
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// Recognized import columns, in template order. Only title is required.
var importColumns = []string{
	"title", "original_title", "poster_url", "banner_url", "synopsis",
	"year", "country", "content_type", "genres", "rating", "episodes",
	"duration", "cast", "crew", "streaming_platforms", "tags",
}

var ErrUnsupportedFormat = errors.New("unsupported file format: expected .csv, .xlsx or .xlsm")

// ParseFile dispatches on the filename suffix alone; the body is not
// sniffed.
func ParseFile(r io.Reader, filename string) (*Table, error) {
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".csv"):
		return ParseCSV(r)
	case strings.HasSuffix(name, ".xlsx"), strings.HasSuffix(name, ".xlsm"):
		return ParseXLSX(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func ParseCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	columns := normalizeHeader(header)

	table := &Table{Columns: columns}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(table.Rows)+2, err)
		}
		table.Rows = append(table.Rows, rowMap(columns, record))
	}

	if len(table.Rows) == 0 {
		return nil, errors.New("file contains no data rows")
	}
	return table, nil
}

func ParseXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, errors.New("file contains no data rows")
	}

	columns := normalizeHeader(rows[0])
	table := &Table{Columns: columns}
	for _, record := range rows[1:] {
		table.Rows = append(table.Rows, rowMap(columns, record))
	}
	return table, nil
}

func normalizeHeader(header []string) []string {
	columns := make([]string, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.ToLower(name))
		name = strings.TrimSuffix(name, " *") // template marks required columns
		columns[i] = name
	}
	return columns
}

func rowMap(columns []string, record []string) map[string]string {
	row := make(map[string]string, len(columns))
	for i, value := range record {
		if i < len(columns) && columns[i] != "" {
			row[columns[i]] = strings.TrimSpace(value)
		}
	}
	return row
}
