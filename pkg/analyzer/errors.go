package analyzer

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTarget    = errors.New("not a directory")
	ErrAnalyzerNotFound = errors.New("analyzer not found")
)

// ErrorKind classifies why a run failed.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindInvalidTarget
	KindAnalyzerNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidTarget:
		return "invalid_target"
	case KindAnalyzerNotFound:
		return "analyzer_not_found"
	default:
		return "runtime"
	}
}

// Error is returned by Runner.Run for every failed run.
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidTarget:
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// classify wraps err in an *Error, picking the kind from its chain.
func classify(path string, err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	kind := KindRuntime
	switch {
	case errors.Is(err, ErrInvalidTarget):
		kind = KindInvalidTarget
	case errors.Is(err, ErrAnalyzerNotFound):
		kind = KindAnalyzerNotFound
	}
	return &Error{Kind: kind, Path: path, Err: err}
}
