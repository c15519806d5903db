package wire

import "github.com/fpgad-project/fpgad-go/pkg/fpgaerr"

// Status represents a response status code.
type Status uint8

const (
	// StatusOK indicates the operation completed successfully.
	StatusOK Status = 0

	// StatusInvalidArguments indicates the caller's input was rejected.
	StatusInvalidArguments Status = 1

	// StatusIOError indicates a filesystem operation failed.
	StatusIOError Status = 2

	// StatusFailed covers every other failure, including post-write
	// verification mismatches.
	StatusFailed Status = 3
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusInvalidArguments:
		return "INVALID_ARGUMENTS"
	case StatusIOError:
		return "IO_ERROR"
	case StatusFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// IsSuccess returns true if the status indicates success.
func (s Status) IsSuccess() bool {
	return s == StatusOK
}

// IsError returns true if the status indicates an error.
func (s Status) IsError() bool {
	return s != StatusOK
}

// StatusFromError maps an internal error to its boundary status code:
// Argument errors become StatusInvalidArguments, filesystem errors
// become StatusIOError, everything else becomes StatusFailed.
func StatusFromError(err error) Status {
	if err == nil {
		return StatusOK
	}
	kind := fpgaerr.KindOf(err)
	switch {
	case kind == fpgaerr.KindArgument:
		return StatusInvalidArguments
	case kind.IsIO():
		return StatusIOError
	default:
		return StatusFailed
	}
}
