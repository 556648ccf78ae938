// Package swferr defines the closed status/error-code taxonomy shared by
// every layer of the container parser: the elastic buffer, the
// decompression adapters, and the parser itself.
//
// Positive codes are statuses, not failures (NeedMoreData in particular
// is the normal way the framer asks its caller for another chunk).
// Negative codes are terminal: once a component returns one, the parser
// that owns it is not expected to make further progress.
package swferr

import "fmt"

// Code is a value from the closed status/error enumeration.
type Code int

const (
	// OK means at least one tag was parsed or a decoder made progress.
	OK Code = 0
	// NeedMoreData means only input was consumed; call Feed again with
	// more bytes.
	NeedMoreData Code = 1
	// Finished means the end-of-stream tag was observed.
	Finished Code = 2

	// Invalid means malformed bytes were detected by the framer or a
	// decompressor.
	Invalid Code = -1
	// Unimplemented marks a path that is recognized but not yet built.
	Unimplemented Code = -2
	// Unknown covers a decoder status this module doesn't recognize.
	Unknown Code = -3
	// InternalError marks a broken invariant in this module, not in the
	// input stream.
	InternalError Code = -4
	// NoMem means an allocation was refused.
	NoMem Code = -5
	// Recompile means a feature (e.g. a decoder variant) was disabled
	// at build time.
	Recompile Code = -6
)

// String renders the code the way log lines and test failures want it.
func (c Code) String() string {
	switch c {
	case OK:
		return "OK"
	case NeedMoreData:
		return "NEED_MORE_DATA"
	case Finished:
		return "FINISHED"
	case Invalid:
		return "INVALID"
	case Unimplemented:
		return "UNIMPLEMENTED"
	case Unknown:
		return "UNKNOWN"
	case InternalError:
		return "INTERNAL_ERROR"
	case NoMem:
		return "NOMEM"
	case Recompile:
		return "RECOMPILE"
	default:
		return fmt.Sprintf("Code(%d)", int(c))
	}
}

// Negative reports whether c is one of the terminal error codes, as
// opposed to one of the three positive statuses.
func (c Code) Negative() bool {
	return c < 0
}

// Error is the descriptor carried by a parser, a buffer, or a decoder:
// a code from the closed enumeration plus a human-readable, usually
// static, message locating the failure.
type Error struct {
	Code    Code
	Message string
}

// New builds an Error with a static message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Errorf builds an Error with a formatted message.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Error implements the standard error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Copy moves src's code and message into dst, the way an inner
// component (buffer, decoder) hands its descriptor up to the parser
// that owns it. A nil src clears dst to OK.
func Copy(dst *Error, src *Error) {
	if src == nil {
		dst.Code = OK
		dst.Message = ""
		return
	}
	dst.Code = src.Code
	dst.Message = src.Message
}

// As extracts a *Error from a standard error, for callers that hold a
// *Error as a plain `error` value and want the underlying code.
func As(err error) (*Error, bool) {
	e, ok := err.(*Error)
	return e, ok
}
