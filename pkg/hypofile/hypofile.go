// Package hypofile parses hypocrite input files and renders them into C
// test programs.
//
// An input file is a sequence of comments and "%" directives:
//
//	%target "file.c"
//	%preamble { ... %}
//	%mock TYPE NAME(TYPE ARG, ...)
//	%test NAME [(FIXTURE, !FIXTURE, ...)] { ... %}
//	%fixture [TYPE] NAME { ... %} [teardown { ... %}]
package hypofile

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"slices"

	"github.com/yaklabco/hypocrite/pkg/fsutil"
	"github.com/yaklabco/hypocrite/pkg/linelist"
	"github.com/yaklabco/hypocrite/pkg/perfile"
	"github.com/yaklabco/hypocrite/pkg/template"
)

// Template names used by Render.
const (
	TemplateTest     = "test.c"
	TemplateMock     = "mock.c"
	TemplateMockVoid = "mock-void.c"
	TemplateFixture  = "fixture.c"
	TemplateMaster   = "master.c"
)

// Templates provides parsed templates by name. *template.Cache implements it.
type Templates interface {
	Get(name string) (*template.Template, error)
}

// File is a parsed input file.
type File struct {
	// Path is the path the file was read from.
	Path string

	// Target is the C source file included by the generated program.
	// Empty when the input has no %target directive.
	Target string

	Preambles []*Preamble

	// Tests are kept in declaration order.
	Tests []*Test

	Mocks    map[string]*Mock
	Fixtures map[string]*Fixture
}

// Parse reads an input file from r. Path is used in error messages and
// "#line" directives.
func Parse(ctx context.Context, r io.Reader, path string) (*File, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("parse %s: %w", path, ctx.Err())
	default:
	}

	values, err := perfile.NewParser(Grammar()).Parse(r, path)
	if err != nil {
		return nil, err
	}

	file := &File{
		Path:      path,
		Target:    values.Target,
		Preambles: values.Preambles,
		Tests:     values.Tests,
		Mocks:     values.Mocks,
		Fixtures:  values.Fixtures,
	}

	if err := file.checkFixtures(); err != nil {
		return nil, err
	}

	return file, nil
}

// ParseFile reads and parses the input file at path.
func ParseFile(ctx context.Context, path string) (*File, error) {
	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return Parse(ctx, bytes.NewReader(content), path)
}

// checkFixtures reports the first test referring to an undeclared fixture.
func (f *File) checkFixtures() error {
	for _, test := range f.Tests {
		if _, err := f.injections(test); err != nil {
			return err
		}
	}
	return nil
}

func (f *File) injections(test *Test) ([]FixtureInjection, error) {
	result := make([]FixtureInjection, 0, len(test.Fixtures))
	for _, ref := range test.Fixtures {
		fix, ok := f.Fixtures[ref.Name]
		if !ok {
			return nil, perfile.Errorf(test.Range.StartCoord(),
				"unknown fixture %q used by %%test %s at %s", ref.Name, test.Name, test.Range)
		}
		result = append(result, FixtureInjection{Fixture: fix, Inject: ref.Inject})
	}
	return result, nil
}

// Render assembles the complete test program. testName is the base name
// of the generated file, reported by the program as it runs.
//
// Preambles are emitted first, then tests in declaration order, then mocks
// and fixtures sorted by name, all collected into the sections laid out by
// the master template.
func (f *File) Render(templates Templates, testName string) (*linelist.LineList, error) {
	rc := template.NewRenderContext()

	for _, p := range f.Preambles {
		rc.Section("preamble").ConcatInPlace(p.Code)
	}

	for _, test := range f.Tests {
		fixtures, err := f.injections(test)
		if err != nil {
			return nil, err
		}
		err = renderInto(templates, TemplateTest, rc, map[string]any{
			"name":     test.Name,
			"code":     test.Code,
			"fixtures": fixtures,
		})
		if err != nil {
			return nil, err
		}
	}

	for _, name := range sortedKeys(f.Mocks) {
		mock := f.Mocks[name]
		tmpl := TemplateMock
		if mock.IsVoid() {
			tmpl = TemplateMockVoid
		}
		err := renderInto(templates, tmpl, rc, map[string]any{
			"name":        mock.Name,
			"return_type": mock.ReturnType,
			"args":        mock.Args,
		})
		if err != nil {
			return nil, err
		}
	}

	for _, name := range sortedKeys(f.Fixtures) {
		fix := f.Fixtures[name]
		vars := map[string]any{
			"name": fix.Name,
			"code": fix.Code,
		}
		if fix.ReturnType != "" {
			vars["return_type"] = fix.ReturnType
		}
		if fix.Teardown != nil {
			vars["teardown"] = fix.Teardown
		}
		if err := renderInto(templates, TemplateFixture, rc, vars); err != nil {
			return nil, err
		}
	}

	master := map[string]any{
		"source":     filepath.Base(f.Path),
		"test_fname": testName,
	}
	if f.Target != "" {
		master["target"] = f.Target
	}
	if err := renderInto(templates, TemplateMaster, rc, master); err != nil {
		return nil, err
	}

	return rc.Output, nil
}

func renderInto(templates Templates, name string, rc *template.RenderContext, vars map[string]any) error {
	tmpl, err := templates.Get(name)
	if err != nil {
		return err
	}
	if _, err := tmpl.Render(rc, vars); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
