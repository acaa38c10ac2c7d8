package perfile

import (
	"errors"
	"fmt"

	"github.com/yaklabco/hypocrite/pkg/location"
)

// ErrParse matches every *ParseError via errors.Is.
var ErrParse = errors.New("parse error")

// ParseError reports malformed input. The message always embeds the
// location it refers to; Coord repeats it in structured form.
type ParseError struct {
	Coord   location.Coordinate
	Message string

	// Err is an optional underlying cause.
	Err error
}

// Errorf builds a ParseError located at coord.
func Errorf(coord location.Coordinate, format string, args ...any) *ParseError {
	return &ParseError{Coord: coord, Message: fmt.Sprintf(format, args...)}
}

func (e *ParseError) Error() string {
	return e.Message
}

// Wrapf builds a ParseError located at coord that wraps err.
func Wrapf(coord location.Coordinate, err error, format string, args ...any) *ParseError {
	return &ParseError{Coord: coord, Message: fmt.Sprintf(format, args...), Err: err}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrParse) match any ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
