package graph

import (
	"errors"
	"fmt"
)

// Common sentinel errors for graph construction
var (
	ErrEmptyGraph = errors.New("empty edge list, graph size undefined")
	ErrBadNodeID  = errors.New("node id must be a non-negative integer")
	ErrBadWeight  = errors.New("edge weight must be a non-negative finite number")
	ErrBadRecord  = errors.New("malformed edge record")
)

// ParseError reports a malformed line in an edge-list file.
type ParseError struct {
	Line  int    // 1-based line number
	Field string // offending field, if known
	Cause error  // underlying sentinel or strconv error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("parse edge list line %d (field %s): %v", e.Line, e.Field, e.Cause)
	}
	return fmt.Sprintf("parse edge list line %d: %v", e.Line, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *ParseError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}
