package resp3

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// ErrMore is returned by Reader.Read in place of a value when the reader
// was constructed with WithPending and the underlying Source does not yet
// hold enough bytes to complete the current frame. Callers should feed more
// bytes to the Source and retry the read; per spec.md §9 no partial-frame
// state survives the retry, so the Source must still hold the frame's
// leading bytes on the next call.
var ErrMore = errors.New("resp3: more input needed")

// EndOfInputError reports that the input stream ended while a frame or
// sub-field was still expected, and the reader was not configured with
// WithPending. It unwraps to its cause, which for every error Reader.Read
// returns is io.ErrUnexpectedEOF, so errors.Is(err, io.ErrUnexpectedEOF)
// holds; errors.Is(err, io.EOF) does not.
type EndOfInputError struct {
	Label string
	cause error
}

func (e *EndOfInputError) Error() string {
	return fmt.Sprintf("resp3: end of input while expecting %s", e.Label)
}

// Unwrap exposes the underlying cause.
func (e *EndOfInputError) Unwrap() error { return e.cause }

func endOfInput(label string, cause error) error {
	if cause == nil {
		cause = io.ErrUnexpectedEOF
	}
	return errors.WithStack(&EndOfInputError{Label: label, cause: cause})
}

// UnexpectedError reports that bytes were present but did not match the
// grammar expected for Label (wrong type code, malformed lexeme, bad
// boolean byte, bare LF in a simple string, and so on).
type UnexpectedError struct {
	Label string
	Value []byte
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("resp3: unexpected %s: %q", e.Label, e.Value)
}

func unexpected(label string, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)
	return errors.WithStack(&UnexpectedError{Label: label, Value: cp})
}

// ReaderError reports an invariant violation that is not input grammar:
// overflow of a bounded scanner's maxlen, a missing push sink, or a
// recursion-depth guard tripping.
type ReaderError struct {
	msg string
}

func (e *ReaderError) Error() string { return "resp3: " + e.msg }

func readerError(format string, args ...interface{}) error {
	return errors.WithStack(&ReaderError{msg: fmt.Sprintf(format, args...)})
}
