// Package seqinfo holds the per-series metadata the heuristic classifier
// consumes, and loaders for the formats it arrives in: the dicominfo.tsv
// table written by heudiconv's DICOM indexing pass, or a JSON/YAML list.
package seqinfo

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for files that are neither TSV nor JSON/YAML.
var ErrUnsupportedFormat = errors.New("unsupported series info format")

// Record describes one imaging series. Zero dimensions mean unknown.
type Record struct {
	SeriesID          string  `json:"series_id" yaml:"series_id"`
	ProtocolName      string  `json:"protocol_name" yaml:"protocol_name"`
	SeriesDescription string  `json:"series_description,omitempty" yaml:"series_description,omitempty"`
	SeriesUID         string  `json:"series_uid,omitempty" yaml:"series_uid,omitempty"`
	DcmDirName        string  `json:"dcm_dir_name,omitempty" yaml:"dcm_dir_name,omitempty"`
	ExampleFile       string  `json:"example_dcm_file,omitempty" yaml:"example_dcm_file,omitempty"`
	SeriesFiles       int     `json:"series_files,omitempty" yaml:"series_files,omitempty"`
	Dim1              int     `json:"dim1" yaml:"dim1"`
	Dim2              int     `json:"dim2" yaml:"dim2"`
	Dim3              int     `json:"dim3" yaml:"dim3"`
	Dim4              int     `json:"dim4" yaml:"dim4"`
	TR                float64 `json:"TR,omitempty" yaml:"TR,omitempty"`
	TE                float64 `json:"TE,omitempty" yaml:"TE,omitempty"`
}

// Decode parses series records, choosing the format from name's extension.
func Decode(name string, data []byte) ([]Record, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".tsv":
		return ParseTSV(bytes.NewReader(data))
	case ".json", ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// ParseYAML parses a YAML (or JSON) list of records.
func ParseYAML(data []byte) ([]Record, error) {
	var records []Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse series info: %w", err)
	}
	for i, r := range records {
		if r.SeriesID == "" {
			return nil, fmt.Errorf("series info entry %d: missing series_id", i)
		}
	}
	return records, nil
}

// ParseTSV parses a heudiconv dicominfo.tsv table. Columns are located by
// header name; series_id and protocol_name are required.
func ParseTSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{"series_id", "protocol_name"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	records := []Record{}
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		get := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		rec := Record{
			SeriesID:          get("series_id"),
			ProtocolName:      get("protocol_name"),
			SeriesDescription: get("series_description"),
			SeriesUID:         get("series_uid"),
			DcmDirName:        get("dcm_dir_name"),
			ExampleFile:       get("example_dcm_file"),
		}
		if rec.SeriesID == "" {
			continue
		}

		ints := []struct {
			col string
			dst *int
		}{
			{"series_files", &rec.SeriesFiles},
			{"dim1", &rec.Dim1},
			{"dim2", &rec.Dim2},
			{"dim3", &rec.Dim3},
			{"dim4", &rec.Dim4},
		}
		for _, f := range ints {
			if *f.dst, err = parseInt(get(f.col)); err != nil {
				return nil, fmt.Errorf("line %d: column %s: %w", line, f.col, err)
			}
		}
		if rec.TR, err = parseFloat(get("TR")); err != nil {
			return nil, fmt.Errorf("line %d: column TR: %w", line, err)
		}
		if rec.TE, err = parseFloat(get("TE")); err != nil {
			return nil, fmt.Errorf("line %d: column TE: %w", line, err)
		}

		records = append(records, rec)
	}
	return records, nil
}

// parseInt treats empty cells and pandas-style missing markers as zero.
func parseInt(s string) (int, error) {
	if isMissing(s) {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func parseFloat(s string) (float64, error) {
	if isMissing(s) {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func isMissing(s string) bool {
	switch strings.ToLower(s) {
	case "", "-", "nan", "none", "n/a":
		return true
	}
	return false
}
