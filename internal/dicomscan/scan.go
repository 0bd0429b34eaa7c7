// Package dicomscan builds series metadata records from a directory of DICOM
// files, standing in for the converter's own indexing pass.
package dicomscan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/deepprep/bidsify/internal/seqinfo"
)

// Header is the subset of a DICOM file's attributes used to group and
// describe series.
type Header struct {
	Path              string
	SeriesUID         string
	SeriesNumber      string
	ProtocolName      string
	SeriesDescription string
	AcquisitionNumber string
	Rows              int
	Columns           int
	TR                float64
	TE                float64
}

// Result is the outcome of scanning a directory.
type Result struct {
	// Records holds one entry per series, ordered by series number
	Records []seqinfo.Record

	// Files is the number of regular files visited
	Files int

	// Skipped lists files that could not be parsed as DICOM
	Skipped []string
}

// Scanner reads DICOM headers below a directory.
type Scanner struct{}

// NewScanner creates a new Scanner.
func NewScanner() *Scanner {
	return &Scanner{}
}

// Scan walks dir on the local disk, parses every regular file as DICOM
// (pixel data skipped), and groups the headers into series records. Files
// that fail to parse are recorded in Result.Skipped. The walk is read-only
// and does not go through fsops.
func (s *Scanner) Scan(dir string) (*Result, error) {
	return s.ScanFS(os.DirFS(dir), dir)
}

// ScanFS scans fsys the same way as Scan. Recorded paths are joined onto dir.
func (s *Scanner) ScanFS(fsys fs.FS, dir string) (*Result, error) {
	result := &Result{Skipped: []string{}}
	var headers []Header

	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		result.Files++

		path := filepath.Join(dir, filepath.FromSlash(name))
		h, err := readHeader(fsys, name, path)
		if err != nil {
			result.Skipped = append(result.Skipped, path)
			return nil
		}
		headers = append(headers, h)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	result.Records = Group(headers)
	return result, nil
}

func readHeader(fsys fs.FS, name, path string) (Header, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return Header{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Header{}, err
	}

	dataset, err := dicom.Parse(f, info.Size(), nil, dicom.SkipPixelData())
	if err != nil {
		return Header{}, err
	}
	return headerOf(dataset, path)
}

// ReadHeader parses one file's header without loading pixel data.
func ReadHeader(path string) (Header, error) {
	dataset, err := dicom.ParseFile(path, nil, dicom.SkipPixelData())
	if err != nil {
		return Header{}, err
	}
	return headerOf(dataset, path)
}

func headerOf(dataset dicom.Dataset, path string) (Header, error) {
	h := Header{
		Path:              path,
		SeriesUID:         stringValue(dataset, tag.SeriesInstanceUID),
		SeriesNumber:      stringValue(dataset, tag.SeriesNumber),
		ProtocolName:      stringValue(dataset, tag.ProtocolName),
		SeriesDescription: stringValue(dataset, tag.SeriesDescription),
		AcquisitionNumber: stringValue(dataset, tag.AcquisitionNumber),
		Rows:              intValue(dataset, tag.Rows),
		Columns:           intValue(dataset, tag.Columns),
	}
	h.TR, _ = strconv.ParseFloat(stringValue(dataset, tag.RepetitionTime), 64)
	h.TE, _ = strconv.ParseFloat(stringValue(dataset, tag.EchoTime), 64)

	if h.SeriesUID == "" {
		return Header{}, fmt.Errorf("%s: no SeriesInstanceUID", path)
	}
	return h, nil
}

func stringValue(dataset dicom.Dataset, t tag.Tag) string {
	elem, err := dataset.FindElementByTag(t)
	if err != nil || elem.Value.ValueType() != dicom.Strings {
		return ""
	}
	values, ok := elem.Value.GetValue().([]string)
	if !ok || len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

func intValue(dataset dicom.Dataset, t tag.Tag) int {
	elem, err := dataset.FindElementByTag(t)
	if err != nil || elem.Value.ValueType() != dicom.Ints {
		return 0
	}
	values, ok := elem.Value.GetValue().([]int)
	if !ok || len(values) == 0 {
		return 0
	}
	return values[0]
}

// Group folds per-file headers into one record per SeriesInstanceUID.
//
// series_id is "<SeriesNumber>-<ProtocolName>". dim4 is the number of
// distinct acquisition numbers (at least 1) and dim3 the files per volume.
func Group(headers []Header) []seqinfo.Record {
	type series struct {
		first        Header
		files        []string
		acquisitions map[string]bool
	}

	bySeries := make(map[string]*series)
	var order []string
	for _, h := range headers {
		s, ok := bySeries[h.SeriesUID]
		if !ok {
			s = &series{first: h, acquisitions: make(map[string]bool)}
			bySeries[h.SeriesUID] = s
			order = append(order, h.SeriesUID)
		}
		s.files = append(s.files, h.Path)
		if h.AcquisitionNumber != "" {
			s.acquisitions[h.AcquisitionNumber] = true
		}
	}

	records := make([]seqinfo.Record, 0, len(order))
	for _, uid := range order {
		s := bySeries[uid]
		sort.Strings(s.files)

		dim4 := len(s.acquisitions)
		if dim4 == 0 {
			dim4 = 1
		}
		protocol := s.first.ProtocolName
		if protocol == "" {
			protocol = s.first.SeriesDescription
		}

		records = append(records, seqinfo.Record{
			SeriesID:          s.first.SeriesNumber + "-" + protocol,
			ProtocolName:      protocol,
			SeriesDescription: s.first.SeriesDescription,
			SeriesUID:         uid,
			DcmDirName:        filepath.Base(filepath.Dir(s.files[0])),
			ExampleFile:       filepath.Base(s.files[0]),
			SeriesFiles:       len(s.files),
			Dim1:              s.first.Rows,
			Dim2:              s.first.Columns,
			Dim3:              len(s.files) / dim4,
			Dim4:              dim4,
			TR:                s.first.TR,
			TE:                s.first.TE,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		ni, errI := strconv.Atoi(seriesNumber(records[i].SeriesID))
		nj, errJ := strconv.Atoi(seriesNumber(records[j].SeriesID))
		if errI != nil || errJ != nil {
			return errI == nil && errJ != nil
		}
		return ni < nj
	})
	return records
}

func seriesNumber(seriesID string) string {
	n, _, _ := strings.Cut(seriesID, "-")
	return n
}
