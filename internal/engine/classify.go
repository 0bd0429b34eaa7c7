package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/deepprep/bidsify/internal/bidsid"
	"github.com/deepprep/bidsify/internal/heuristic"
	"github.com/deepprep/bidsify/internal/seqinfo"
)

// Classify loads series metadata, assigns each series to an output key and
// optionally writes the resulting heuristic document.
func (e *Engine) Classify(ctx context.Context, req *ClassifyRequest) (*ClassifyResult, error) {
	if (req.Subject == "") != (req.Session == "") {
		return nil, fmt.Errorf("%w: subject and session must be given together", ErrValidation)
	}

	result := &ClassifyResult{}
	if err := e.loadRecords(req, result); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rules, err := e.loadRules(req.RulesPath)
	if err != nil {
		return nil, err
	}

	result.Info = rules.Classify(result.Records)
	result.Document = result.Info.Document(rules.IntendedFor)

	if req.Subject != "" {
		rendered, err := renderPaths(result.Info, req.Subject, req.Session)
		if err != nil {
			return nil, err
		}
		result.Rendered = rendered
	}

	if req.OutPath != "" {
		data, err := json.MarshalIndent(result.Document, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode heuristic: %w", err)
		}
		out, err := filepath.Abs(req.OutPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		if err := e.fs.AtomicWrite(out, append(data, '\n'), 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", out, err)
		}
		result.Written = out
	}

	return result, nil
}

func (e *Engine) loadRecords(req *ClassifyRequest, result *ClassifyResult) error {
	switch {
	case req.SeqInfoPath != "":
		data, err := e.fs.ReadFile(req.SeqInfoPath)
		if err != nil {
			return fmt.Errorf("failed to read series info: %w", err)
		}
		records, err := seqinfo.Decode(req.SeqInfoPath, data)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", req.SeqInfoPath, err)
		}
		result.Source = req.SeqInfoPath
		result.Records = records

	case req.DicomDir != "":
		if e.scanner == nil {
			return fmt.Errorf("%w: no DICOM scanner configured", ErrValidation)
		}
		isDir, err := e.fs.IsDir(req.DicomDir)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", req.DicomDir, err)
		}
		if !isDir {
			return fmt.Errorf("%w: %s is not a directory", ErrValidation, req.DicomDir)
		}
		scan, err := e.scanner.Scan(req.DicomDir)
		if err != nil {
			return err
		}
		result.Source = req.DicomDir
		result.Records = scan.Records
		result.Skipped = scan.Skipped

	default:
		return ErrNoSeriesSource
	}

	if result.Records == nil {
		result.Records = []seqinfo.Record{}
	}
	return nil
}

func (e *Engine) loadRules(path string) (*heuristic.RuleSet, error) {
	if path == "" {
		return heuristic.Default()
	}
	data, err := e.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules: %w", err)
	}
	rules, err := heuristic.Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}

// renderPaths expands every key's template for each selected series. Items
// are numbered from 1 within a key.
func renderPaths(info *heuristic.Info, subject, session string) ([]RenderedPath, error) {
	sub := subjectLabel(subject)
	ses := sessionLabel(session)

	rendered := []RenderedPath{}
	for _, k := range info.Keys {
		for i, sel := range info.Selections[k.Name] {
			path, err := k.Render(sub, ses, i+1)
			if err != nil {
				return nil, fmt.Errorf("key %s: %w", k.Name, err)
			}
			rendered = append(rendered, RenderedPath{Key: k.Name, SeriesID: sel.Item, Path: path})
		}
	}
	return rendered, nil
}

// subjectLabel turns "1", "01" or "sub-1" into "01". Other labels pass through.
func subjectLabel(s string) string {
	if id, ok := bidsid.SubjectID(s); ok {
		return id
	}
	return s
}

// sessionLabel turns "1", "01" or "ses-1" into "ses-01".
func sessionLabel(s string) string {
	if id, ok := bidsid.ParseSession(s); ok {
		return bidsid.SessionDir(id)
	}
	if bidsid.IsNumeric(s) {
		return bidsid.SessionDir(s)
	}
	return bidsid.SessionPrefix + s
}
