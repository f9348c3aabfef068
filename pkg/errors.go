package segmenter

import (
	"errors"
	"fmt"
)

var (
	// ErrPhaseOrder is returned when a segmentation step runs out of order.
	ErrPhaseOrder = errors.New("segmentation phase out of order")
	// ErrMissingOutput is returned when a required input or output is not configured.
	ErrMissingOutput = errors.New("missing input or output file in configuration")
)

// ErrOpenFile represents an error when opening a file.
type ErrOpenFile struct {
	Filename string
	Err      error
}

func (e *ErrOpenFile) Error() string {
	return fmt.Sprintf("error opening file %q: %v", e.Filename, e.Err)
}

func (e *ErrOpenFile) Unwrap() error { return e.Err }

// ErrWindowIndex represents a reference to a sub-event that does not exist.
type ErrWindowIndex struct {
	Index int
	Count int
}

func (e *ErrWindowIndex) Error() string {
	return fmt.Sprintf("window %d out of range, event has %d sub-events", e.Index, e.Count)
}

// ErrDecodeEvent represents a malformed input record.
type ErrDecodeEvent struct {
	Line int
	Err  error
}

func (e *ErrDecodeEvent) Error() string {
	return fmt.Sprintf("error decoding event at line %d: %v", e.Line, e.Err)
}

func (e *ErrDecodeEvent) Unwrap() error { return e.Err }
