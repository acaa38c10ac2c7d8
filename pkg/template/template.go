// Package template implements the section templates used to assemble
// generated C test programs.
//
// A template file uses the same "%directive" syntax as input files:
//
//	%insert NAME              insert the accumulated section NAME
//	%literal { ... %}         emit fixed lines
//	%define NAME { ... %}     bind NAME to a text/template expansion
//	%section NAME [(V, ...)] { ... %}
//	                          contribute to section NAME when all V are set
//
// Section bodies support "{{ var }}" substitution and "#replace var" lines,
// which splice in a multi-line value. "#replace" must start in column 0; an
// indented one is ordinary text.
package template

import (
	"io"
	"maps"
	"slices"

	"github.com/yaklabco/hypocrite/pkg/linelist"
	"github.com/yaklabco/hypocrite/pkg/perfile"
)

// Template is a parsed template file.
type Template struct {
	Name      string
	Structure []Element
	Defines   []*Define
	Sections  []*Section
}

// Parse reads a template file.
func Parse(r io.Reader, name string) (*Template, error) {
	values, err := perfile.NewParser(Grammar()).Parse(r, name)
	if err != nil {
		return nil, err
	}

	return &Template{
		Name:      name,
		Structure: values.Structure,
		Defines:   values.Defines,
		Sections:  values.Sections,
	}, nil
}

// Render expands the template into rc and returns rc.Output. Defines are
// evaluated first, in order, and bound into a copy of vars. Sections are
// then expanded and accumulated into rc. Finally the structure is appended
// to rc.Output, reading sections as accumulated at that point.
func (t *Template) Render(rc *RenderContext, vars map[string]any) (*linelist.LineList, error) {
	bound := make(map[string]any, len(vars)+len(t.Defines))
	maps.Copy(bound, vars)

	for _, d := range t.Defines {
		value, err := d.Render(bound)
		if err != nil {
			return nil, err
		}
		bound[d.Name] = value
	}

	for _, s := range t.Sections {
		lines, ok, err := s.Render(bound)
		if err != nil {
			return nil, err
		}
		if ok {
			rc.Section(s.Name).ConcatInPlace(lines)
		}
	}

	for _, elem := range t.Structure {
		rc.Output.ConcatInPlace(elem.Lines(rc))
	}

	return rc.Output, nil
}

// Define returns the define with the given name.
func (t *Template) Define(name string) (*Define, bool) {
	i := slices.IndexFunc(t.Defines, func(d *Define) bool { return d.Name == name })
	if i < 0 {
		return nil, false
	}
	return t.Defines[i], true
}

// Section returns the section with the given name.
func (t *Template) Section(name string) (*Section, bool) {
	i := slices.IndexFunc(t.Sections, func(s *Section) bool { return s.Name == name })
	if i < 0 {
		return nil, false
	}
	return t.Sections[i], true
}

// RenderContext accumulates output across the renders that make up one
// generated file.
type RenderContext struct {
	Output *linelist.LineList

	sections map[string]*linelist.LineList
}

// NewRenderContext returns an empty context.
func NewRenderContext() *RenderContext {
	return &RenderContext{
		Output:   &linelist.LineList{},
		sections: make(map[string]*linelist.LineList),
	}
}

// Section returns the accumulated lines for name, creating an empty entry
// on first use.
func (rc *RenderContext) Section(name string) *linelist.LineList {
	l, ok := rc.sections[name]
	if !ok {
		l = &linelist.LineList{}
		rc.sections[name] = l
	}
	return l
}

// SectionNames returns the names of all sections touched so far, sorted.
func (rc *RenderContext) SectionNames() []string {
	return slices.Sorted(maps.Keys(rc.sections))
}
