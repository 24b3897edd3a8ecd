// Package dataset reads food records from spreadsheet and CSV sources.
//
// Rows are positional: food, kana, city, prefecture, specialty, lat, lng.
// No header row is assumed; a header is dropped like any other row whose
// coordinates do not parse.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"prefslots/internal/models"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Column positions of a data row.
const (
	colFood = iota
	colKana
	colCity
	colPrefecture
	colSpecialty
	colLat
	colLng

	columnCount
)

// Supported CSV encodings.
const (
	EncodingUTF8     = "utf-8"
	EncodingShiftJIS = "shift-jis"
)

// Options selects what to read from a source.
type Options struct {
	// Sheet is the worksheet to read; empty means the first sheet.
	Sheet string
	// Encoding applies to CSV input only.
	Encoding string
}

// Stats counts rows seen while parsing.
type Stats struct {
	Rows    int
	Valid   int
	Dropped int
}

// Load reads and validates every row of the file at path. The format is chosen by extension.
func Load(path string, opts Options) ([]models.Record, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("dataset: failed to open file: %w", err)
	}
	defer f.Close()

	var rows [][]string
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		rows, err = ReadWorkbook(f, opts.Sheet)
	case ".csv":
		rows, err = ReadCSV(f, opts.Encoding)
	default:
		err = fmt.Errorf("unsupported file type %q", ext)
	}
	if err != nil {
		return nil, Stats{}, fmt.Errorf("dataset: %s: %w", filepath.Base(path), err)
	}

	records, stats := ParseRows(rows)
	return records, stats, nil
}

// ReadWorkbook returns the raw rows of a sheet, the first one when sheet is empty.
func ReadWorkbook(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, fmt.Errorf("no sheets found in workbook")
		}
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found", sheet)
	}

	// Raw values keep full coordinate precision whatever number format the cells carry.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}
	return rows, nil
}

// ReadCSV returns the raw rows of a CSV stream in the given encoding.
func ReadCSV(r io.Reader, encoding string) ([][]string, error) {
	switch strings.ToLower(strings.ReplaceAll(encoding, "_", "-")) {
	case "", EncodingUTF8, "utf8":
	case EncodingShiftJIS, "sjis", "cp932":
		r = transform.NewReader(r, japanese.ShiftJIS.NewDecoder())
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\uFEFF")
	}
	return rows, nil
}

// ParseRows maps positional rows to records and drops the invalid ones.
func ParseRows(rows [][]string) ([]models.Record, Stats) {
	stats := Stats{Rows: len(rows)}
	records := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		r, ok := parseRow(row)
		if !ok {
			stats.Dropped++
			continue
		}
		records = append(records, r)
	}
	stats.Valid = len(records)
	return records, stats
}

func parseRow(row []string) (models.Record, bool) {
	if len(row) < columnCount {
		return models.Record{}, false
	}

	lat, ok := parseCoordinate(row[colLat])
	if !ok {
		return models.Record{}, false
	}
	lng, ok := parseCoordinate(row[colLng])
	if !ok {
		return models.Record{}, false
	}

	r := models.Record{
		Food:       normalize(row[colFood]),
		Kana:       normalize(row[colKana]),
		City:       normalize(row[colCity]),
		Prefecture: normalize(row[colPrefecture]),
		Specialty:  normalize(row[colSpecialty]),
		Latitude:   lat,
		Longitude:  lng,
	}
	return r, r.Valid()
}

func parseCoordinate(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// normalize trims surrounding whitespace and composes the name to NFC so that
// decomposed kana from different sources group under the same key.
func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
