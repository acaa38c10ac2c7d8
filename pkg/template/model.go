package template

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	texttemplate "text/template"

	"github.com/yaklabco/hypocrite/pkg/linelist"
	"github.com/yaklabco/hypocrite/pkg/location"
	"github.com/yaklabco/hypocrite/pkg/perfile"
)

// ErrUndefinedVariable is returned when a section refers to a variable that
// was not supplied to Render.
var ErrUndefinedVariable = errors.New("undefined template variable")

// substRE matches "{{ name }}" in section bodies.
var substRE = regexp.MustCompile(`\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`)

// replaceMarker starts a body line, in column 0, that splices a variable's
// lines in place of itself.
const replaceMarker = "#replace"

// Element is one piece of a template's output structure.
type Element interface {
	// Range is where the element was declared.
	Range() location.CoordinateRange

	// Lines returns the element's contribution given the sections
	// accumulated so far.
	Lines(rc *RenderContext) *linelist.LineList

	fmt.Stringer
}

// InsertSection inserts the accumulated content of a named section.
type InsertSection struct {
	Declared location.CoordinateRange
	Section  string
}

func (e *InsertSection) Range() location.CoordinateRange { return e.Declared }

func (e *InsertSection) Lines(rc *RenderContext) *linelist.LineList {
	return rc.Section(e.Section)
}

func (e *InsertSection) String() string { return "insert " + e.Section }

// Literal emits fixed lines.
type Literal struct {
	Declared location.CoordinateRange
	Code     *linelist.LineList
}

func (e *Literal) Range() location.CoordinateRange { return e.Declared }

func (e *Literal) Lines(*RenderContext) *linelist.LineList { return e.Code }

func (e *Literal) String() string {
	return "literal (" + strconv.Itoa(e.Code.Len()) + " lines)"
}

// Define is a named expression rendered with text/template before the
// sections are expanded. Its result is bound as a variable.
type Define struct {
	Declared location.CoordinateRange
	Name     string
	Source   string

	tmpl *texttemplate.Template
}

// funcs are available to every define body.
//
//nolint:gochecknoglobals // read-only function table
var funcs = texttemplate.FuncMap{
	"upper": strings.ToUpper,
	"bit": func(i int) string {
		return fmt.Sprintf("0x%08x", uint64(1)<<uint(i))
	},
}

// NewDefine compiles a define body.
func NewDefine(declared location.CoordinateRange, name string, body *linelist.LineList) (*Define, error) {
	source := strings.Join(body.Texts(), "\n")

	tmpl, err := texttemplate.New(name).Funcs(funcs).Parse(source)
	if err != nil {
		return nil, perfile.Errorf(declared.StartCoord(), "invalid %%define %s at %s: %v", name, declared, err)
	}

	return &Define{Declared: declared, Name: name, Source: source, tmpl: tmpl}, nil
}

// Render executes the define. Single-line output is returned as a string;
// output spanning several lines is returned as []string without the empty
// element a trailing newline would leave.
func (d *Define) Render(vars map[string]any) (any, error) {
	var buf strings.Builder
	if err := d.tmpl.Execute(&buf, vars); err != nil {
		return nil, perfile.Wrapf(d.Declared.StartCoord(), err, "render %%define %s at %s: %v", d.Name, d.Declared, err)
	}

	out := buf.String()
	if !strings.Contains(out, "\n") {
		return out, nil
	}

	lines := strings.Split(out, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}

// Section is a named body expanded once per Render and accumulated in the
// RenderContext. It is skipped when any of Requires is not supplied.
type Section struct {
	Declared location.CoordinateRange
	Name     string
	Requires []string
	Body     *linelist.LineList
}

// Render expands the section body. The boolean is false when the section
// was skipped because a required variable is missing.
func (s *Section) Render(vars map[string]any) (*linelist.LineList, bool, error) {
	for _, req := range s.Requires {
		if _, ok := vars[req]; !ok {
			return nil, false, nil
		}
	}

	result := &linelist.LineList{}
	for coord, text := range s.Body.All() {
		if fields := strings.Fields(text); strings.HasPrefix(text, replaceMarker) && fields[0] == replaceMarker {
			if len(fields) < 2 {
				return nil, false, perfile.Errorf(coord, "missing variable in %s at %s", replaceMarker, coord)
			}
			if err := s.splice(result, fields[1], vars, coord); err != nil {
				return nil, false, err
			}
			continue
		}

		line, err := s.substitute(text, vars, coord)
		if err != nil {
			return nil, false, err
		}
		result.Append(line, coord)
	}

	return result, true, nil
}

func (s *Section) splice(dst *linelist.LineList, name string, vars map[string]any, coord location.Coordinate) error {
	value, ok := vars[name]
	if !ok {
		return s.undefined(name, coord)
	}

	switch v := value.(type) {
	case *linelist.LineList:
		dst.ConcatInPlace(v)
	case []string:
		dst.ExtendStrings(v)
	case string:
		if v != "" {
			dst.Append(v, location.Coordinate{})
		}
	case nil:
	default:
		dst.Append(fmt.Sprint(v), location.Coordinate{})
	}
	return nil
}

func (s *Section) substitute(text string, vars map[string]any, coord location.Coordinate) (string, error) {
	matches := substRE.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text, nil
	}

	var (
		buf  strings.Builder
		last int
	)
	for _, m := range matches {
		name := text[m[2]:m[3]]
		value, ok := vars[name]
		if !ok {
			return "", s.undefined(name, coord)
		}
		buf.WriteString(text[last:m[0]])
		buf.WriteString(fmt.Sprint(value))
		last = m[1]
	}
	buf.WriteString(text[last:])

	return buf.String(), nil
}

func (s *Section) undefined(name string, coord location.Coordinate) error {
	return perfile.Wrapf(coord, ErrUndefinedVariable, "undefined variable %q in section %s at %s", name, s.Name, coord)
}
