// Package location provides source coordinates used to trace generated
// output back to the input files it came from.
package location

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrPathMismatch is returned when two coordinates from different files are
// combined into a range.
var ErrPathMismatch = errors.New("coordinates refer to different paths")

// Coordinate identifies a single 1-based line in a file.
// The zero value means "no coordinate".
type Coordinate struct {
	Path string
	Line int
}

// At is a convenience constructor for a Coordinate.
func At(path string, line int) Coordinate {
	return Coordinate{Path: path, Line: line}
}

// IsValid returns true if the coordinate refers to a real line.
func (c Coordinate) IsValid() bool {
	return c.Line > 0
}

// Add returns the coordinate n lines after c.
func (c Coordinate) Add(n int) Coordinate {
	return Coordinate{Path: c.Path, Line: c.Line + n}
}

// Sub returns the coordinate n lines before c.
func (c Coordinate) Sub(n int) Coordinate {
	return Coordinate{Path: c.Path, Line: c.Line - n}
}

// Range returns the range spanning c and other, in either order.
func (c Coordinate) Range(other Coordinate) (CoordinateRange, error) {
	if c.Path != other.Path {
		return CoordinateRange{}, fmt.Errorf("range %s to %s: %w", c, other, ErrPathMismatch)
	}

	return NewRange(c.Path, c.Line, other.Line), nil
}

// MustRange is like Range but panics on mismatched paths. It is intended
// for coordinates known to come from the same parse.
func (c Coordinate) MustRange(other Coordinate) CoordinateRange {
	r, err := c.Range(other)
	if err != nil {
		panic(err)
	}
	return r
}

// String renders the coordinate as "path:line".
func (c Coordinate) String() string {
	return c.Path + ":" + strconv.Itoa(c.Line)
}

// Directive renders the C preprocessor line marker for this coordinate.
func (c Coordinate) Directive() string {
	return fmt.Sprintf("#line %d \"%s\"", c.Line, c.Path)
}

// CoordinateRange identifies an inclusive run of lines in a single file.
type CoordinateRange struct {
	Path  string
	Start int
	End   int
}

// NewRange builds a range, ordering start and end.
func NewRange(path string, start, end int) CoordinateRange {
	if end < start {
		start, end = end, start
	}
	return CoordinateRange{Path: path, Start: start, End: end}
}

// StartCoord returns the first coordinate of the range.
func (r CoordinateRange) StartCoord() Coordinate {
	return Coordinate{Path: r.Path, Line: r.Start}
}

// EndCoord returns the last coordinate of the range.
func (r CoordinateRange) EndCoord() Coordinate {
	return Coordinate{Path: r.Path, Line: r.End}
}

// Contains returns true if c lies within the range.
func (r CoordinateRange) Contains(c Coordinate) bool {
	return c.Path == r.Path && c.Line >= r.Start && c.Line <= r.End
}

// String renders the range as "path:start" or "path:start-end".
func (r CoordinateRange) String() string {
	if r.Start == r.End {
		return r.Path + ":" + strconv.Itoa(r.Start)
	}
	return r.Path + ":" + strconv.Itoa(r.Start) + "-" + strconv.Itoa(r.End)
}
