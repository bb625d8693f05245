package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies scan failures.
// Kinds are strings so they read naturally in logs and JSON reports.
type ErrorKind string

const (
	// KindFatalOpen means the reference file or target directory could not be opened.
	// It aborts the scan.
	KindFatalOpen ErrorKind = "fatal_open"
	// KindPath means a candidate path could not be built for an entry
	KindPath ErrorKind = "path"
	// KindCandidateOpen means a candidate file could not be opened
	KindCandidateOpen ErrorKind = "candidate_open"
	// KindRead means a read failed while comparing
	KindRead ErrorKind = "read"
)

// Fatal reports whether errors of this kind abort the whole scan
func (k ErrorKind) Fatal() bool {
	return k == KindFatalOpen
}

// ScanError is an error raised while scanning, tagged with its kind and the path involved
type ScanError struct {
	Kind ErrorKind
	Path string
	Err  error
}

// NewScanError wraps err with a kind and path
func NewScanError(kind ErrorKind, path string, err error) *ScanError {
	return &ScanError{Kind: kind, Path: path, Err: err}
}

func (e *ScanError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err carries a fatal scan error
func IsFatal(err error) bool {
	var se *ScanError
	if errors.As(err, &se) {
		return se.Kind.Fatal()
	}
	return false
}
