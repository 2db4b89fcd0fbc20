package patch

import "fmt"

// ApplyFail indicates that a patch does not apply to the source it was
// given: a hunk's preimage did not match, a binary delta failed its
// reverse-check, a deletion patch left content behind, and so on. Apart from
// DecodeError, which reports a malformed compressed or delta payload, it is
// the only error variant that reflects a property of the input data rather
// than a programming error or a transient resource failure.
//
// Users can test if an error is an ApplyFail with errors.Is and an empty
// instance:
//
//	if errors.Is(err, &ApplyFail{}) {
//	    // handle the rejection
//	}
type ApplyFail struct {
	msg string

	// HunkIndex is the zero-based index of the hunk that failed to apply,
	// within the Delta's Hunks slice. It is -1 if the failure is not
	// associated with a specific hunk.
	HunkIndex int

	// Line is the one-indexed line number in the image where a hunk's
	// preimage failed to match: the first mismatching line, or the anchor
	// line when the preimage runs past the end of the image. It is zero if
	// the failure has no associated line.
	Line int
}

func newApplyFail(msg string) *ApplyFail {
	return &ApplyFail{msg: msg, HunkIndex: -1}
}

func (e *ApplyFail) Error() string {
	switch {
	case e.HunkIndex >= 0 && e.Line > 0:
		return fmt.Sprintf("apply: hunk %d: line %d: %s", e.HunkIndex+1, e.Line, e.msg)
	case e.Line > 0:
		return fmt.Sprintf("apply: line %d: %s", e.Line, e.msg)
	default:
		return fmt.Sprintf("apply: %s", e.msg)
	}
}

// Is implements error matching for ApplyFail. Passing an empty instance
// always returns true, so errors.Is(err, &ApplyFail{}) detects any
// ApplyFail regardless of message or location.
func (e *ApplyFail) Is(other error) bool {
	o, ok := other.(*ApplyFail)
	if !ok {
		return false
	}
	return o.msg == "" || o.msg == e.msg
}

// InternalBug indicates that an invariant the package relies on was
// violated: a negative or out-of-range line index, an out-of-range splice,
// a hunk line with no data. It means the caller handed the
// package data it had already promised to validate, not that the source
// buffer failed to accept the patch.
type InternalBug struct {
	msg string
}

func newInternalBug(format string, args ...interface{}) *InternalBug {
	return &InternalBug{msg: fmt.Sprintf(format, args...)}
}

func (e *InternalBug) Error() string {
	return "internal bug: " + e.msg
}

// OutOfMemory indicates that an allocation needed to apply a patch failed.
// No function in this package returns it: a failed allocation in Go panics
// rather than returning an error.
type OutOfMemory struct {
	msg string
}

func (e *OutOfMemory) Error() string {
	return "out of memory: " + e.msg
}

// DecodeError indicates that the inflate primitive or the delta decoder
// rejected its input: a truncated zlib stream, a bad checksum, a bad delta
// opcode. An inflated length that does not match what the patch declared
// is reported as an ApplyFail, not a DecodeError.
type DecodeError struct {
	err error
}

func newDecodeError(err error) *DecodeError {
	return &DecodeError{err: err}
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode: %v", e.err)
}

func (e *DecodeError) Unwrap() error {
	return e.err
}

// ErrPreimageNotFound is returned by a PreimageReader when the requested
// path does not exist. ReadPreimage re-classifies it as an ApplyFail: a
// missing preimage is a patch-level failure, not a transport failure.
var ErrPreimageNotFound = fmt.Errorf("preimage not found")
