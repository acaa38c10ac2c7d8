package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/hypocrite/pkg/perfile"
)

// contextLines is the number of source lines shown on each side of the
// line an error points at.
const contextLines = 1

// FormatParseError formats a parse error for terminal output. When source
// holds the content of the file the error points into, the surrounding
// lines are shown with a caret under the offending one.
func (s *Styles) FormatParseError(perr *perfile.ParseError, source []byte) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("  %s  %s  %s\n",
		s.FilePath.Render(perr.Coord.String()),
		s.Error.Render("error"),
		s.Message.Render(perr.Message),
	))

	if source != nil {
		builder.WriteString(s.FormatSourceContext(source, perr.Coord.Line))
	}

	return builder.String()
}

// FormatSourceContext renders the lines around line (1-based) with a line
// number gutter. It returns "" when line is outside the source.
func (s *Styles) FormatSourceContext(source []byte, line int) string {
	lines := strings.Split(strings.TrimSuffix(string(source), "\n"), "\n")
	if line < 1 || line > len(lines) {
		return ""
	}

	first := max(1, line-contextLines)
	last := min(len(lines), line+contextLines)
	width := len(fmt.Sprint(last))

	const indent = "    "

	var builder strings.Builder
	for n := first; n <= last; n++ {
		text := strings.TrimSuffix(lines[n-1], "\r")

		marker := " "
		if n == line {
			marker = s.Caret.Render(">")
		}
		builder.WriteString(fmt.Sprintf("%s%s %s %s\n",
			indent, marker,
			s.Gutter.Render(fmt.Sprintf("%*d |", width, n)),
			s.SourceLine.Render(text),
		))

		if n == line {
			// Reuse the line's own indentation so tabs line up.
			lead := text[:len(text)-len(strings.TrimLeft(text, " \t"))]
			builder.WriteString(fmt.Sprintf("%s  %s %s%s\n",
				indent,
				s.Gutter.Render(strings.Repeat(" ", width)+" |"),
				lead,
				s.Caret.Render("^"),
			))
		}
	}

	return builder.String()
}

// FormatError formats any other error as a single line.
func (s *Styles) FormatError(err error) string {
	return s.Error.Render("error:") + " " + s.Message.Render(err.Error()) + "\n"
}

// FormatWarning formats a warning as a single line.
func (s *Styles) FormatWarning(msg string) string {
	return s.Warning.Render("warning:") + " " + s.Message.Render(msg) + "\n"
}
