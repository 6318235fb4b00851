package catalog

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/matzehuels/stellarmap/pkg/errors"
	"github.com/matzehuels/stellarmap/pkg/star"
)

// File formats accepted by ReadFile.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FileFormat returns the catalog format implied by path's extension, or ""
// when the extension is not a file catalog.
func FileFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	return ""
}

// ReadFile loads a CSV, JSON or YAML catalog into memory.
func ReadFile(path string) (*Memory, error) {
	format := FileFormat(path)
	if format == "" {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported catalog file %q (want .csv, .json, .yaml)", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, unavailable(err, format, "read %s", path)
	}

	var stars []star.Record
	switch format {
	case FormatCSV:
		stars, err = ParseCSV(bytes.NewReader(data))
	case FormatJSON:
		stars, err = ParseJSON(data)
	case FormatYAML:
		stars, err = ParseYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	m := NewMemory(stars)
	m.name = format
	return m, nil
}

// ParseJSON decodes a JSON array of star records.
func ParseJSON(data []byte) ([]star.Record, error) {
	var stars []star.Record
	if err := json.Unmarshal(data, &stars); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse json catalog")
	}
	return stars, nil
}

// ParseYAML decodes a YAML sequence of star records.
func ParseYAML(data []byte) ([]star.Record, error) {
	var stars []star.Record
	if err := yaml.Unmarshal(data, &stars); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse yaml catalog")
	}
	return stars, nil
}

// =============================================================================
// CSV
// =============================================================================

type column int

const (
	colID column = iota
	colName
	colX
	colY
	colZ
	colSpectral
	colRadius
	colMass
	colLuminosity
	colTemperature
	colSystem
	numColumns
)

// csvAliases lists accepted header names per column, most preferred first.
// Headers are compared after lower-casing and dropping everything but
// letters and digits, so "Luminosity (Solar)" matches "luminositysolar".
// The system coordinates win over the component's own so that components
// of a multi-star system share the system's position.
var csvAliases = [numColumns][]string{
	colID:          {"id", "starid"},
	colName:        {"name", "starname"},
	colX:           {"x", "systemx", "starx"},
	colY:           {"y", "systemy", "stary"},
	colZ:           {"z", "systemz", "starz"},
	colSpectral:    {"spectral", "spectraltype", "spectralclass", "spec"},
	colRadius:      {"radius", "radiussolar"},
	colMass:        {"mass", "masssolar"},
	colLuminosity:  {"luminosity", "luminositysolar", "lum"},
	colTemperature: {"temperature", "temperaturek", "temp"},
	colSystem:      {"system", "systemname"},
}

func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimPrefix(h, "\ufeff")) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func mapColumns(header []string) ([numColumns]int, error) {
	var idx [numColumns]int
	pos := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := pos[normalizeHeader(h)]; !dup {
			pos[normalizeHeader(h)] = i
		}
	}
	for c := range numColumns {
		idx[c] = -1
		for _, alias := range csvAliases[c] {
			if i, ok := pos[alias]; ok {
				idx[c] = i
				break
			}
		}
	}
	for _, c := range []column{colName, colX, colY, colZ} {
		if idx[c] < 0 {
			return idx, errors.New(errors.ErrCodeInvalidFormat,
				"csv catalog: missing %q column (header: %s)", csvAliases[c][0], strings.Join(header, ","))
		}
	}
	return idx, nil
}

// ParseCSV reads a catalog with a header row. Columns are matched by name;
// name, x, y and z are required, everything else is optional. Empty, "None"
// and "null" numeric cells read as zero.
func ParseCSV(r io.Reader) ([]star.Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if stderrors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "csv catalog header")
	}
	idx, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var stars []star.Record
	for {
		row, err := cr.Read()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "csv catalog")
		}
		line, _ := cr.FieldPos(0)

		rec, err := csvRecord(row, idx)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "csv catalog line %d", line)
		}
		stars = append(stars, rec)
	}
	return stars, nil
}

func csvRecord(row []string, idx [numColumns]int) (star.Record, error) {
	cell := func(c column) string {
		if idx[c] < 0 || idx[c] >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx[c]])
	}

	var firstErr error
	num := func(c column) float64 {
		v, err := parseNumber(cell(c))
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("column %s: %w", csvAliases[c][0], err)
		}
		return v
	}

	rec := star.Record{
		ID:          cell(colID),
		Name:        cell(colName),
		X:           num(colX),
		Y:           num(colY),
		Z:           num(colZ),
		Spectral:    cell(colSpectral),
		Radius:      num(colRadius),
		Mass:        num(colMass),
		Luminosity:  num(colLuminosity),
		Temperature: num(colTemperature),
		System:      cell(colSystem),
	}
	return rec, firstErr
}

func parseNumber(s string) (float64, error) {
	switch strings.ToLower(s) {
	case "", "none", "null":
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
