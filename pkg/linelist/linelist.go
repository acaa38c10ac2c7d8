// Package linelist holds sequences of text lines tagged with the source
// coordinates they came from, and writes them out with #line markers so
// compilers and debuggers can map generated code back to its origin.
package linelist

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"path/filepath"

	"github.com/yaklabco/hypocrite/pkg/location"
)

// Entry is a single line of text. A zero Coord marks a synthetic line with
// no source location.
type Entry struct {
	Coord location.Coordinate
	Text  string
}

// LineList is an append-only sequence of entries.
// The zero value is an empty list ready to use.
type LineList struct {
	entries []Entry
}

// New returns a list holding the given entries.
func New(entries ...Entry) *LineList {
	return &LineList{entries: append([]Entry(nil), entries...)}
}

// FromStrings returns a list of unlocated lines.
func FromStrings(lines []string) *LineList {
	l := &LineList{}
	l.ExtendStrings(lines)
	return l
}

// Len returns the number of lines.
func (l *LineList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// Text returns the text of line i.
func (l *LineList) Text(i int) string {
	return l.entries[i].Text
}

// Entry returns line i with its coordinate.
func (l *LineList) Entry(i int) Entry {
	return l.entries[i]
}

// Slice returns the text of lines [i, j).
func (l *LineList) Slice(i, j int) []string {
	out := make([]string, 0, j-i)
	for _, e := range l.entries[i:j] {
		out = append(out, e.Text)
	}
	return out
}

// Texts returns the text of every line, in order.
func (l *LineList) Texts() []string {
	return l.Slice(0, l.Len())
}

// Lines iterates over the text of every line.
func (l *LineList) Lines() iter.Seq[string] {
	return func(yield func(string) bool) {
		if l == nil {
			return
		}
		for _, e := range l.entries {
			if !yield(e.Text) {
				return
			}
		}
	}
}

// All iterates over every line together with its coordinate.
func (l *LineList) All() iter.Seq2[location.Coordinate, string] {
	return func(yield func(location.Coordinate, string) bool) {
		if l == nil {
			return
		}
		for _, e := range l.entries {
			if !yield(e.Coord, e.Text) {
				return
			}
		}
	}
}

// Append adds one line. Pass a zero coordinate for a synthetic line.
func (l *LineList) Append(text string, coord location.Coordinate) {
	l.entries = append(l.entries, Entry{Coord: coord, Text: text})
}

// Extend appends lines. If coord is valid, successive lines receive
// successive coordinates starting at coord.
func (l *LineList) Extend(lines []string, coord location.Coordinate) {
	for _, text := range lines {
		l.Append(text, coord)
		if coord.IsValid() {
			coord = coord.Add(1)
		}
	}
}

// ExtendStrings appends unlocated lines.
func (l *LineList) ExtendStrings(lines []string) {
	l.Extend(lines, location.Coordinate{})
}

// Concat returns a new list holding l's entries followed by other's.
func (l *LineList) Concat(other *LineList) *LineList {
	out := &LineList{entries: make([]Entry, 0, l.Len()+other.Len())}
	if l != nil {
		out.entries = append(out.entries, l.entries...)
	}
	out.ConcatInPlace(other)
	return out
}

// ConcatInPlace appends other's entries to l.
func (l *LineList) ConcatInPlace(other *LineList) {
	if other == nil {
		return
	}
	l.entries = append(l.entries, other.entries...)
}

// Output writes the list to w, one line per entry, inserting #line markers
// wherever the source mapping is not contiguous. outPath names the file
// being written; its base name is used when synthetic lines need the
// numbering reset to the output file itself.
func (l *LineList) Output(w io.Writer, outPath string) error {
	fname := filepath.Base(outPath)
	bw := bufio.NewWriter(w)

	line := 1
	var last location.Coordinate

	for _, e := range l.entries {
		switch {
		case !e.Coord.IsValid():
			if last.IsValid() {
				line++
				if _, err := fmt.Fprintf(bw, "#line %d \"%s\"\n", line, fname); err != nil {
					return fmt.Errorf("write line marker: %w", err)
				}
			}
		case !last.IsValid() || last.Add(1) != e.Coord:
			if _, err := bw.WriteString(e.Coord.Directive() + "\n"); err != nil {
				return fmt.Errorf("write line marker: %w", err)
			}
			line++
		}

		if _, err := bw.WriteString(e.Text + "\n"); err != nil {
			return fmt.Errorf("write line: %w", err)
		}
		line++
		last = e.Coord
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}
