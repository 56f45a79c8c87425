package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// TemplateColumn describes one column of the import template.
type TemplateColumn struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
	Hint     string `json:"hint"`
}

// TemplateColumns returns the import template columns in file order.
func TemplateColumns() []TemplateColumn {
	return []TemplateColumn{
		{Name: "title", Required: true, Hint: "display title"},
		{Name: "original_title", Hint: "title in the original language"},
		{Name: "poster_url", Hint: "image url"},
		{Name: "banner_url", Hint: "image url"},
		{Name: "synopsis", Hint: "short description"},
		{Name: "year", Hint: "release year, e.g. 2021"},
		{Name: "country", Hint: "country of origin"},
		{Name: "content_type", Hint: "drama | movie | series | anime"},
		{Name: "genres", Hint: "comma separated, e.g. romance, comedy"},
		{Name: "rating", Hint: "0 to 10"},
		{Name: "episodes", Hint: "episode count"},
		{Name: "duration", Hint: "minutes per episode"},
		{Name: "cast", Hint: `json array or comma separated names`},
		{Name: "crew", Hint: `json array or comma separated names`},
		{Name: "streaming_platforms", Hint: "comma separated"},
		{Name: "tags", Hint: "comma separated"},
	}
}

// templateSamples are the example rows shipped with the template.
func templateSamples() [][]string {
	return [][]string{
		{
			"Crash Landing on You", "사랑의 불시착", "", "",
			"A paragliding mishap drops an heiress across the border.",
			"2019", "South Korea", "drama", "romance, comedy", "8.7", "16", "70",
			"Hyun Bin, Son Ye-jin", "Lee Jeong-hyo", "Netflix", "military, cross-border",
		},
		{
			"Spirited Away", "千と千尋の神隠し", "", "",
			"A girl wanders into a world of spirits.",
			"2001", "Japan", "movie", "fantasy, adventure", "8.6", "", "125",
			"Rumi Hiiragi", "Hayao Miyazaki", "", "ghibli",
		},
	}
}

// columnNames splits the template columns by the required flag.
func columnNames(required bool) []string {
	names := []string{}
	for _, col := range TemplateColumns() {
		if col.Required == required {
			names = append(names, col.Name)
		}
	}
	return names
}

func templateHeader() []string {
	cols := TemplateColumns()
	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = col.Name
		if col.Required {
			header[i] += " *"
		}
	}
	return header
}

// TemplateCSV renders the import template as CSV bytes.
func TemplateCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(templateHeader()); err != nil {
		return nil, fmt.Errorf("write template header: %w", err)
	}
	for _, row := range templateSamples() {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write template row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush template: %w", err)
	}
	return buf.Bytes(), nil
}

// TemplateXLSX renders the import template as a single-sheet workbook.
func TemplateXLSX() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	header := templateHeader()
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &cells); err != nil {
		return nil, fmt.Errorf("write template header: %w", err)
	}

	for i, row := range templateSamples() {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("template cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, axis, &cells); err != nil {
			return nil, fmt.Errorf("write template row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	return buf.Bytes(), nil
}
