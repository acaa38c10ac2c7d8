package perfile

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/yaklabco/hypocrite/pkg/linelist"
	"github.com/yaklabco/hypocrite/pkg/location"
)

// maxLineLength bounds a single input line.
const maxLineLength = 1 << 20

// Parser reads "%directive" files for one grammar.
// A Parser holds no per-file state and may be shared.
type Parser[T any] struct {
	grammar *Grammar[T]
}

// NewParser returns a parser for the given grammar.
func NewParser[T any](grammar *Grammar[T]) *Parser[T] {
	return &Parser[T]{grammar: grammar}
}

// Grammar returns the grammar the parser recognizes.
func (p *Parser[T]) Grammar() *Grammar[T] {
	return p.grammar
}

// Parse reads r to the end and returns the result built by the directive
// handlers. path is used in coordinates and error messages.
func (p *Parser[T]) Parse(r io.Reader, path string) (*T, error) {
	values := new(T)
	p.grammar.seed(values)

	st := &state[T]{grammar: p.grammar, values: values}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	for scanner.Scan() {
		st.lines++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if err := st.parseLine(location.At(path, st.lines), line); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := st.finish(path); err != nil {
		return nil, err
	}
	return values, nil
}

// ParseString is a convenience wrapper around Parse.
func (p *Parser[T]) ParseString(text, path string) (*T, error) {
	return p.Parse(strings.NewReader(text), path)
}

// lineResult tells the line driver whether a directive line is complete.
type lineResult int

const (
	lineReady lineResult = iota
	lineNeedsMore
)

// state is the line assembly state for one parse.
type state[T any] struct {
	grammar *Grammar[T]
	values  *T

	// deferred is the open multi-line directive; buf collects its body.
	deferred Continuation
	buf      *linelist.LineList

	// Text before an unterminated block comment.
	commentPfx string
	inComment  bool

	// Text of a line ending in a backslash.
	continued    string
	hasContinued bool

	// start is the first line of a directive folded across several
	// lines. Zero when not folding.
	start location.Coordinate

	lines int
}

func (s *state[T]) markStart(coord location.Coordinate) {
	if !s.start.IsValid() {
		s.start = coord
	}
}

// directive folds comments and continuations into a single directive
// line and tokenizes it. It returns lineNeedsMore until a complete
// directive has been assembled.
func (s *state[T]) directive(coord location.Coordinate, line string) (location.Coordinate, []Token, lineResult, error) {
	if s.hasContinued {
		line = s.continued + " " + line
		s.continued, s.hasContinued = "", false
	}

	if s.inComment {
		end := strings.Index(line, "*/")
		if end < 0 {
			return coord, nil, lineNeedsMore, nil
		}
		line = s.commentPfx + " " + line[end+2:]
		s.commentPfx, s.inComment = "", false
	}

	for {
		block := strings.Index(line, "/*")
		single := strings.Index(line, "//")
		if block < 0 && single < 0 {
			break
		}

		if single >= 0 && (block < 0 || single < block) {
			line = line[:single]
			break
		}

		end := strings.Index(line[block+2:], "*/")
		if end < 0 {
			s.commentPfx, s.inComment = line[:block], true
			s.markStart(coord)
			return coord, nil, lineNeedsMore, nil
		}
		line = line[:block] + " " + line[block+2+end+2:]
	}

	line = strings.TrimSpace(line)
	if line == "" {
		// A line that folded down to nothing starts no directive.
		s.start = location.Coordinate{}
		return coord, nil, lineNeedsMore, nil
	}

	if strings.HasSuffix(line, `\`) {
		s.continued, s.hasContinued = line[:len(line)-1], true
		s.markStart(coord)
		return coord, nil, lineNeedsMore, nil
	}

	if s.start.IsValid() {
		coord = s.start
		s.start = location.Coordinate{}
	}

	if line[0] != '%' {
		return coord, nil, lineReady, Errorf(coord, "invalid directive at %s", coord)
	}

	toks, err := Tokenize(line[1:], coord)
	if err != nil {
		return coord, nil, lineReady, err
	}
	return coord, toks, lineReady, nil
}

// parseLine handles one raw input line.
func (s *state[T]) parseLine(coord location.Coordinate, line string) error {
	if s.deferred == nil {
		start, toks, result, err := s.directive(coord, line)
		if err != nil || result == lineNeedsMore {
			return err
		}

		if len(toks) == 0 || toks[0].Kind != TokWord {
			return Errorf(start, "invalid directive at %s", start)
		}
		d, ok := s.grammar.Lookup(toks[0].Value)
		if !ok {
			return Errorf(start, "unknown directive %%%s at %s", toks[0].Value, start)
		}

		next, err := d.Begin(s.values, start, toks[1:])
		if err != nil {
			return err
		}
		s.setDeferred(next)
		return nil
	}

	if s.inComment || s.hasContinued || strings.HasPrefix(strings.TrimLeftFunc(line, unicode.IsSpace), "%") {
		end, toks, result, err := s.directive(coord, line)
		if err != nil || result == lineNeedsMore {
			return err
		}

		if len(toks) == 0 || toks[0] != CharToken('}') {
			return Errorf(end, "invalid directive at %s", end)
		}

		next, err := s.deferred(Closing{Coord: end, Body: s.buf, Tokens: toks[1:]})
		if err != nil {
			return err
		}
		s.setDeferred(next)
		return nil
	}

	s.buf.Append(line, coord)
	return nil
}

func (s *state[T]) setDeferred(next Continuation) {
	s.deferred = next
	if next != nil {
		s.buf = &linelist.LineList{}
	} else {
		s.buf = nil
	}
}

// finish reports anything left open at end of file.
func (s *state[T]) finish(path string) error {
	if s.hasContinued {
		return Errorf(s.start, "trailing directive continuation at end of file; starts at %s", s.start)
	}
	if s.inComment {
		return Errorf(s.start, "unclosed comment at end of file; starts at %s", s.start)
	}

	if s.deferred != nil {
		eof := location.At(path, s.lines)
		if _, err := s.deferred(Closing{Coord: eof, Body: s.buf, EOF: true}); err != nil {
			return err
		}
		return Errorf(eof, "unclosed directive at end of file")
	}

	return nil
}
