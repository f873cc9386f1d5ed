package decode

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedType is returned when the declared extension is not one of
// the supported tabular formats
var ErrUnsupportedType = errors.New("unsupported file type: please upload a CSV or Excel file")

// RawRow maps a column name, as reported by the decoder, to the raw cell
// value. Absent cells have no key. All supported decoders surface cell
// values as strings; numeric coercion is the normalizer's job.
type RawRow map[string]string

// Decoder turns raw uploaded bytes into an ordered sequence of loosely
// typed rows. No schema is enforced; any columns may be present or absent.
type Decoder struct{}

// NewDecoder creates a tabular decoder
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes file bytes according to the declared extension. The first
// row of the sheet is taken as the header; every following row becomes one
// RawRow keyed by the header names.
func (d *Decoder) Decode(data []byte, ext string) ([]RawRow, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "csv":
		return d.decodeCSV(data)
	case "xlsx":
		return d.decodeXLSX(data)
	case "xls":
		return d.decodeXLS(data)
	default:
		return nil, ErrUnsupportedType
	}
}

func (d *Decoder) decodeCSV(data []byte) ([]RawRow, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return tabulate(records), nil
}

func (d *Decoder) decodeXLSX(data []byte) ([]RawRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return tabulate(records), nil
}

func (d *Decoder) decodeXLS(data []byte) ([]RawRow, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to parse Excel file: %w", err)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, nil
	}

	records := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			records = append(records, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol()+1)
		for j := 0; j <= row.LastCol(); j++ {
			cells = append(cells, row.Col(j))
		}
		records = append(records, cells)
	}
	return tabulate(records), nil
}

// tabulate maps sheet records onto the header row, like a header-aware CSV
// parse: record[j] lands under header[j], cells past the header are dropped,
// short rows simply omit the trailing keys.
func tabulate(records [][]string) []RawRow {
	if len(records) == 0 {
		return nil
	}

	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		header[i] = strings.TrimSpace(name)
	}

	rows := make([]RawRow, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(RawRow, len(header))
		for j, cell := range record {
			if j >= len(header) || header[j] == "" {
				continue
			}
			row[header[j]] = cell
		}
		rows = append(rows, row)
	}
	return rows
}
