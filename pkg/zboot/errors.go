package zboot

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInputOpen indicates the input image could not be opened for reading
	ErrInputOpen = errors.New("zboot: cannot open input")
	// ErrOutputOpen indicates the output file could not be created
	ErrOutputOpen = errors.New("zboot: cannot open output")
	// ErrSeek indicates the input could not be positioned at the payload offset
	ErrSeek = errors.New("zboot: cannot seek to payload")
	// ErrShortRead indicates the input ended before the declared payload size
	ErrShortRead = errors.New("zboot: short read of payload")
	// ErrWrite indicates the payload could not be written in full
	ErrWrite = errors.New("zboot: error writing payload")
)

// OpError records a failed payload copy step and the underlying I/O error.
// errors.Is matches it against its Kind.
type OpError struct {
	Op     string
	Offset int64
	Kind   error
	Err    error
}

func (e *OpError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s at offset %d: %v", e.Op, e.Offset, e.Kind)
	}
	return fmt.Sprintf("%s at offset %d: %v: %v", e.Op, e.Offset, e.Kind, e.Err)
}

// Is reports whether target is the kind of this error.
func (e *OpError) Is(target error) bool { return target == e.Kind }

func (e *OpError) Unwrap() error { return e.Err }
