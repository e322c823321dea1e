package storyboard

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidEnum            = errors.New("invalid enum")
	ErrInvalidObjectType      = errors.New("invalid object type")
	ErrInvalidSection         = errors.New("invalid section")
	ErrMultipleSection        = errors.New("multiple section")
	ErrSubCommandNotSupported = errors.New("sub-command not supported")
	ErrWrongArgumentCount     = errors.New("wrong argument count")
	ErrInvalidArgument        = errors.New("invalid argument")
)

// Error is a parse failure tied to a source line. Kind is one of the Err*
// sentinels so callers can match with errors.Is.
type Error struct {
	Line int
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func errorf(line int, kind error, format string, args ...any) error {
	return &Error{Line: line, Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Warning is an advisory note about input that parsed but may not play back
// as the author expects.
type Warning struct {
	Line    int
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s", w.Line, w.Message)
}
