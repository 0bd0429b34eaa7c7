package dicomscan

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestGroup(t *testing.T) {
	headers := []Header{
		{Path: "/dcm/bold/f2.dcm", SeriesUID: "1.2.3", SeriesNumber: "3", ProtocolName: "rest_bold", AcquisitionNumber: "2", Rows: 64, Columns: 64, TR: 2000},
		{Path: "/dcm/t1/a.dcm", SeriesUID: "1.2.9", SeriesNumber: "2", ProtocolName: "t1_mprage", Rows: 256, Columns: 256},
		{Path: "/dcm/bold/f1.dcm", SeriesUID: "1.2.3", SeriesNumber: "3", ProtocolName: "rest_bold", AcquisitionNumber: "1", Rows: 64, Columns: 64, TR: 2000},
		{Path: "/dcm/t1/b.dcm", SeriesUID: "1.2.9", SeriesNumber: "2", ProtocolName: "t1_mprage", Rows: 256, Columns: 256},
		{Path: "/dcm/bold/f3.dcm", SeriesUID: "1.2.3", SeriesNumber: "3", ProtocolName: "rest_bold", AcquisitionNumber: "3", Rows: 64, Columns: 64, TR: 2000},
		{Path: "/dcm/bold/f4.dcm", SeriesUID: "1.2.3", SeriesNumber: "3", ProtocolName: "rest_bold", AcquisitionNumber: "3", Rows: 64, Columns: 64, TR: 2000},
	}

	records := Group(headers)
	if len(records) != 2 {
		t.Fatalf("expected 2 series, got %d", len(records))
	}

	t1 := records[0]
	if t1.SeriesID != "2-t1_mprage" {
		t.Errorf("first series = %q, want 2-t1_mprage (ordered by series number)", t1.SeriesID)
	}
	if t1.Dim4 != 1 || t1.Dim3 != 2 || t1.SeriesFiles != 2 {
		t.Errorf("t1 dims = dim3 %d dim4 %d files %d", t1.Dim3, t1.Dim4, t1.SeriesFiles)
	}
	if t1.ExampleFile != "a.dcm" || t1.DcmDirName != "t1" {
		t.Errorf("t1 example = %s/%s", t1.DcmDirName, t1.ExampleFile)
	}

	bold := records[1]
	if bold.Dim4 != 3 || bold.Dim3 != 1 {
		t.Errorf("bold dims = dim3 %d dim4 %d, want 1 and 3", bold.Dim3, bold.Dim4)
	}
	if bold.Dim1 != 64 || bold.Dim2 != 64 || bold.TR != 2000 {
		t.Errorf("bold header fields = %+v", bold)
	}
	if bold.SeriesUID != "1.2.3" {
		t.Errorf("SeriesUID = %q", bold.SeriesUID)
	}
}

func TestGroup_FallsBackToSeriesDescription(t *testing.T) {
	records := Group([]Header{
		{Path: "/x/1.dcm", SeriesUID: "9", SeriesNumber: "10", SeriesDescription: "fieldmap_AP"},
	})
	if len(records) != 1 || records[0].ProtocolName != "fieldmap_AP" || records[0].SeriesID != "10-fieldmap_AP" {
		t.Errorf("records = %+v", records)
	}
}

func TestGroup_NumericSeriesOrder(t *testing.T) {
	records := Group([]Header{
		{Path: "/x/a", SeriesUID: "a", SeriesNumber: "10", ProtocolName: "p"},
		{Path: "/x/b", SeriesUID: "b", SeriesNumber: "9", ProtocolName: "p"},
		{Path: "/x/c", SeriesUID: "c", SeriesNumber: "", ProtocolName: "p"},
	})

	got := []string{records[0].SeriesID, records[1].SeriesID, records[2].SeriesID}
	want := []string{"9-p", "10-p", "-p"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestGroup_Empty(t *testing.T) {
	if records := Group(nil); len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestScan_SkipsNonDICOM(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"notes.txt", filepath.Join("sub", "README")} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir failed: %v", err)
		}
		if err := os.WriteFile(path, []byte("not a dicom file"), 0644); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	result, err := NewScanner().Scan(dir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if result.Files != 2 {
		t.Errorf("Files = %d, want 2", result.Files)
	}
	if len(result.Skipped) != 2 {
		t.Errorf("Skipped = %v, want both files", result.Skipped)
	}
	if len(result.Records) != 0 {
		t.Errorf("Records = %+v, want none", result.Records)
	}
}

func TestScanFS_RecordsPathsUnderDir(t *testing.T) {
	fsys := fstest.MapFS{
		"README":          {Data: []byte("not a dicom file")},
		"run1/notes.txt":  {Data: []byte("still not dicom")},
		"run1/empty.dcm":  {Data: nil},
		"run2/.keep/file": {Data: []byte("x")},
	}

	result, err := NewScanner().ScanFS(fsys, "/raw")
	if err != nil {
		t.Fatalf("ScanFS failed: %v", err)
	}
	if result.Files != 4 {
		t.Errorf("Files = %d, want 4", result.Files)
	}

	want := []string{
		filepath.Join("/raw", "README"),
		filepath.Join("/raw", "run1", "empty.dcm"),
		filepath.Join("/raw", "run1", "notes.txt"),
		filepath.Join("/raw", "run2", ".keep", "file"),
	}
	if len(result.Skipped) != len(want) {
		t.Fatalf("Skipped = %v, want %v", result.Skipped, want)
	}
	for i := range want {
		if result.Skipped[i] != want[i] {
			t.Errorf("Skipped[%d] = %q, want %q", i, result.Skipped[i], want[i])
		}
	}
}

func TestScan_MissingDirectory(t *testing.T) {
	if _, err := NewScanner().Scan(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}
