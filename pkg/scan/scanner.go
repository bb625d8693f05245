package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sdejongh/dupfinder/pkg/compare"
	"github.com/sdejongh/dupfinder/pkg/logging"
	"github.com/sdejongh/dupfinder/pkg/models"
	"github.com/sdejongh/dupfinder/pkg/output"
	"github.com/sdejongh/dupfinder/pkg/storage"
)

// ErrReferenceNotOpen is returned by Step when no scan is in progress
var ErrReferenceNotOpen = errors.New("reference file is not open")

// Scanner finds directory entries whose content is identical to a reference file.
// A Scanner runs one scan at a time and is not safe for concurrent use.
type Scanner struct {
	backend    storage.Backend
	comparator compare.Comparator
	filter     *Filter
	formatter  output.Formatter
	logger     logging.Logger
	operation  *models.ScanOperation

	// Per-scan state, reset by Run
	state     State
	reference storage.File
	report    *models.ScanReport
}

// NewScanner creates a new scanner for operation
func NewScanner(
	backend storage.Backend,
	comparator compare.Comparator,
	formatter output.Formatter,
	logger logging.Logger,
	operation *models.ScanOperation,
) *Scanner {
	return &Scanner{
		backend:    backend,
		comparator: comparator,
		filter:     NewFilter(operation.Exclude),
		formatter:  formatter,
		logger:     logger.WithFields(logging.Fields{"operation_id": operation.ID}),
		operation:  operation,
		state:      StateInit,
	}
}

// State returns the current lifecycle state
func (s *Scanner) State() State {
	return s.state
}

// Run opens the reference file and the directory, compares every eligible
// entry and returns the report.
//
// The returned error is non-nil only when the scan could not start; the
// report then has StatusFailed and no matches. Per-entry failures are
// recorded in the report and do not stop the scan. Cancelling ctx stops
// the scan before the next entry, never in the middle of a comparison.
func (s *Scanner) Run(ctx context.Context) (*models.ScanReport, error) {
	op := s.operation
	s.report = &models.ScanReport{
		OperationID:   op.ID,
		DirPath:       op.DirPath,
		ReferencePath: op.ReferencePath,
		StartTime:     time.Now(),
		Status:        StatusFor(StateFailed),
	}
	s.state = StateInit

	s.logger.Info(ctx, "Starting duplicate scan", logging.Fields{
		"dir":        op.DirPath,
		"reference":  op.ReferencePath,
		"chunk_size": op.ChunkSize,
		"comparator": s.comparator.Name(),
	})

	if err := s.begin(ctx); err != nil {
		return s.fail(ctx, err)
	}

	dir, err := s.backend.OpenDir(ctx, op.DirPath)
	if err != nil {
		s.closeReference(ctx)
		return s.fail(ctx, models.NewScanError(models.KindFatalOpen, op.DirPath, err))
	}
	s.setState(ctx, StateDirectoryOpened)

	s.setState(ctx, StateEnumerating)
	var iterErr error
	stopped := ctx.Err() != nil
	if !stopped {
		iterErr = dir.Iterate(ctx, func(entry storage.Entry) error {
			result := s.Step(ctx, entry)
			switch result.Action {
			case ActionStop:
				stopped = true
				return storage.SkipAll
			case ActionError:
				return result.Err
			}
			return nil
		})
	}

	s.closeReference(ctx)
	if err := dir.Close(); err != nil {
		s.logger.Warn(ctx, "Failed to close directory", logging.Fields{"dir": op.DirPath, "error": err.Error()})
	}

	switch {
	case errors.Is(iterErr, context.Canceled), errors.Is(iterErr, context.DeadlineExceeded):
		s.setState(ctx, StateCancelled)
	case iterErr != nil:
		return s.fail(ctx, models.NewScanError(models.KindRead, op.DirPath, iterErr))
	case stopped:
		s.setState(ctx, StateCancelled)
	default:
		s.setState(ctx, StateDone)
	}

	return s.finish(ctx), nil
}

// begin opens the reference file. It must succeed before Step is used.
func (s *Scanner) begin(ctx context.Context) error {
	if s.report == nil {
		s.report = &models.ScanReport{
			OperationID:   s.operation.ID,
			DirPath:       s.operation.DirPath,
			ReferencePath: s.operation.ReferencePath,
			StartTime:     time.Now(),
		}
	}

	ref, err := s.backend.Open(ctx, s.operation.ReferencePath)
	if err != nil {
		return models.NewScanError(models.KindFatalOpen, s.operation.ReferencePath, err)
	}
	s.reference = ref
	s.setState(ctx, StateReferenceOpened)
	return nil
}

// Step processes one directory entry: filter, build the candidate path,
// open, compare and report. The candidate is closed before Step returns.
// Per-entry failures yield Continue with the failure recorded in the result.
func (s *Scanner) Step(ctx context.Context, entry storage.Entry) StepResult {
	if s.reference == nil {
		return Fail(ErrReferenceNotOpen)
	}
	if err := ctx.Err(); err != nil {
		s.logger.Info(ctx, "Scan interrupted", logging.Fields{"position": entry.Position})
		return Stop()
	}

	stats := &s.report.Stats
	stats.EntriesSeen++

	s.setState(ctx, StateFiltering)
	if reason := s.filter.Check(entry); reason != Eligible {
		switch reason {
		case SkipHidden:
			stats.SkippedHidden++
		case SkipNotRegular:
			stats.SkippedNotRegular++
		case SkipExcluded:
			stats.SkippedExcluded++
		}
		s.logger.Debug(ctx, "Entry skipped", logging.Fields{"name": entry.Name, "type": string(entry.Type), "reason": string(reason)})
		s.progress(output.ProgressUpdate{
			Type:     output.UpdateSkipped,
			Name:     entry.Name,
			Position: entry.Position,
			Skip:     string(reason),
		})
		s.setState(ctx, StateEnumerating)
		return StepResult{Action: ActionContinue, Skip: reason}
	}

	s.setState(ctx, StateBuildingPath)
	path, err := CandidatePath(s.operation.DirPath, entry.Name)
	if err != nil {
		return s.entryFailed(ctx, entry, "", models.KindPath, err)
	}

	s.setState(ctx, StateOpeningCandidate)
	candidate, err := s.backend.Open(ctx, path)
	if err != nil {
		return s.entryFailed(ctx, entry, path, models.KindCandidateOpen, err)
	}

	return s.compareCandidate(ctx, entry, path, candidate)
}

// compareCandidate owns candidate and closes it on every return path
func (s *Scanner) compareCandidate(ctx context.Context, entry storage.Entry, path string, candidate storage.File) (result StepResult) {
	defer func() {
		s.setState(ctx, StateClosingCandidate)
		if err := candidate.Close(); err != nil {
			s.logger.Warn(ctx, "Failed to close candidate", logging.Fields{"path": path, "error": err.Error()})
		}
		s.setState(ctx, StateEnumerating)
	}()

	s.setState(ctx, StateComparing)
	s.progress(output.ProgressUpdate{
		Type:     output.UpdateCompareStart,
		Name:     entry.Name,
		Path:     path,
		Position: entry.Position,
	})

	if _, err := s.reference.Seek(0, io.SeekStart); err != nil {
		return s.entryFailed(ctx, entry, path, models.KindRead, fmt.Errorf("rewind reference: %w", err))
	}

	cmp := s.comparator.Compare(s.reference, candidate)
	s.report.Stats.BytesCompared += cmp.BytesCompared

	s.setState(ctx, StateReporting)
	if cmp.Outcome == compare.ReadError {
		return s.entryFailed(ctx, entry, path, models.KindRead, cmp.Err)
	}

	s.report.Stats.FilesCompared++
	s.logger.Debug(ctx, "Comparison finished", logging.Fields{
		"path":    path,
		"outcome": string(cmp.Outcome),
		"reason":  cmp.Reason,
		"chunks":  cmp.Chunks,
	})
	s.progress(output.ProgressUpdate{
		Type:     output.UpdateCompareDone,
		Name:     entry.Name,
		Path:     path,
		Position: entry.Position,
		Outcome:  string(cmp.Outcome),
	})

	if cmp.Outcome == compare.Identical {
		match := models.Match{
			ReferencePath: s.operation.ReferencePath,
			CandidatePath: path,
			Size:          cmp.BytesCompared,
			FoundAt:       time.Now(),
		}
		s.report.AddMatch(match)
		s.logger.Info(ctx, "Duplicate found", logging.Fields{
			"reference": match.ReferencePath,
			"candidate": match.CandidatePath,
			"size":      match.Size,
		})
		s.progress(output.ProgressUpdate{
			Type:     output.UpdateMatch,
			Name:     entry.Name,
			Path:     path,
			Position: entry.Position,
			Match:    &match,
		})
	}

	return StepResult{Action: ActionContinue, Path: path, Outcome: cmp.Outcome}
}

// entryFailed records a non-fatal error for entry and continues the scan
func (s *Scanner) entryFailed(ctx context.Context, entry storage.Entry, path string, kind models.ErrorKind, err error) StepResult {
	scanErr := models.NewScanError(kind, path, err)
	if path == "" {
		scanErr.Path = entry.Name
	}

	entryErr := models.EntryError{
		Name:      entry.Name,
		Path:      path,
		Kind:      kind,
		Error:     err.Error(),
		Timestamp: time.Now(),
	}
	s.report.AddError(entryErr)

	s.logger.Error(ctx, "Entry failed", err, logging.Fields{
		"name": entry.Name,
		"path": path,
		"kind": string(kind),
	})
	s.progress(output.ProgressUpdate{
		Type:       output.UpdateEntryError,
		Name:       entry.Name,
		Path:       path,
		Position:   entry.Position,
		EntryError: &entryErr,
	})

	if s.state != StateComparing && s.state != StateReporting {
		s.setState(ctx, StateEnumerating)
	}

	result := StepResult{Action: ActionContinue, Path: path, EntryErr: scanErr}
	if kind == models.KindRead {
		result.Outcome = compare.ReadError
	}
	return result
}

// closeReference releases the reference handle if it is open
func (s *Scanner) closeReference(ctx context.Context) {
	if s.reference == nil {
		return
	}
	if err := s.reference.Close(); err != nil {
		s.logger.Warn(ctx, "Failed to close reference file", logging.Fields{"path": s.operation.ReferencePath, "error": err.Error()})
	}
	s.reference = nil
}

func (s *Scanner) fail(ctx context.Context, err error) (*models.ScanReport, error) {
	s.setState(ctx, StateFailed)
	s.logger.Error(ctx, "Scan failed", err, nil)
	if s.formatter != nil {
		s.formatter.Error(err)
	}
	return s.finish(ctx), err
}

func (s *Scanner) finish(ctx context.Context) *models.ScanReport {
	report := s.report
	report.Status = StatusFor(s.state)
	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)

	s.logger.Info(ctx, "Scan finished", logging.Fields{
		"status":   string(report.Status),
		"matches":  report.Stats.FilesMatched,
		"errors":   report.Stats.FilesErrored,
		"compared": report.Stats.FilesCompared,
		"duration": report.Duration.String(),
	})

	if s.formatter != nil {
		s.formatter.Complete(report)
	}
	return report
}

func (s *Scanner) progress(update output.ProgressUpdate) {
	if s.formatter == nil {
		return
	}
	update.Stats = s.report.Stats
	s.formatter.Progress(update)
}

func (s *Scanner) setState(ctx context.Context, next State) {
	if next.lifecycle() {
		s.logger.Debug(ctx, "State transition", logging.Fields{"from": s.state.String(), "to": next.String()})
	}
	s.state = next
}
