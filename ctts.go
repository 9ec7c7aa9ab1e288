// Package ctts is the root package of the concatenative text-to-speech
// engine. It holds only the shared error taxonomy; the pipeline itself
// lives in the store, textnorm, pt, segment, dsp, prosody, concat,
// stretch, wavio, builder and engine packages.
package ctts

import "fmt"

// Code identifies a class of failure, mirroring the engine's original
// closed set of error conditions.
type Code int

const (
	// CodeInvalidArg marks a bad argument passed by the caller.
	CodeInvalidArg Code = iota + 1
	// CodeFileNotFound marks a missing input file.
	CodeFileNotFound
	// CodeFileRead marks a failure reading an existing file.
	CodeFileRead
	// CodeFileWrite marks a failure writing an output file.
	CodeFileWrite
	// CodeInvalidFormat marks malformed on-disk data.
	CodeInvalidFormat
	// CodeOutOfMemory marks an allocation failure, kept for parity with
	// the original error table even though Go's allocator panics rather
	// than returning this.
	CodeOutOfMemory
	// CodeInvalidWAV marks a WAV file that isn't mono/stereo 16-bit PCM.
	CodeInvalidWAV
	// CodeVersion marks a database built with an incompatible version.
	CodeVersion
)

var codeMessages = map[Code]string{
	CodeInvalidArg:    "invalid argument",
	CodeFileNotFound:  "file not found",
	CodeFileRead:      "file read error",
	CodeFileWrite:     "file write error",
	CodeInvalidFormat: "invalid format",
	CodeOutOfMemory:   "out of memory",
	CodeInvalidWAV:    "invalid WAV file",
	CodeVersion:       "version mismatch",
}

func (c Code) String() string {
	if m, ok := codeMessages[c]; ok {
		return m
	}
	return "unknown error"
}

// Error is the engine's error type: a stable Code plus context, wrapping
// an optional underlying cause.
type Error struct {
	Code    Code
	Context string
	Err     error
}

func (e *Error) Error() string {
	if e.Context != "" {
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Code, e.Context, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Code, e.Context)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ctts.NewError(code, "")) match on Code alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewError builds an *Error with the given code and context string.
func NewError(code Code, context string) *Error {
	return &Error{Code: code, Context: context}
}

// WrapError builds an *Error with the given code, context, and
// underlying cause.
func WrapError(code Code, context string, err error) *Error {
	return &Error{Code: code, Context: context, Err: err}
}
