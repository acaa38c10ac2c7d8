package template

import (
	"sync"

	"github.com/yaklabco/hypocrite/pkg/location"
	"github.com/yaklabco/hypocrite/pkg/perfile"
)

// Values is the result of parsing a template file.
type Values struct {
	Structure []Element
	Defines   []*Define
	Sections  []*Section
}

// putDefine stores d, replacing an earlier define of the same name in place.
func (v *Values) putDefine(d *Define) {
	for i, existing := range v.Defines {
		if existing.Name == d.Name {
			v.Defines[i] = d
			return
		}
	}
	v.Defines = append(v.Defines, d)
}

func (v *Values) putSection(s *Section) {
	for i, existing := range v.Sections {
		if existing.Name == s.Name {
			v.Sections[i] = s
			return
		}
	}
	v.Sections = append(v.Sections, s)
}

//nolint:gochecknoglobals // grammar is built once and read-only afterwards
var (
	grammarOnce sync.Once
	grammar     *perfile.Grammar[Values]
)

// Grammar returns the template directive grammar.
func Grammar() *perfile.Grammar[Values] {
	grammarOnce.Do(func() {
		grammar = perfile.NewGrammar[Values]("template").MustRegister(
			perfile.Directive[Values]{
				Name:    "insert",
				Key:     "structure",
				Init:    func(v *Values) { v.Structure = []Element{} },
				Begin:   insertDirective,
				Summary: "insert an accumulated section",
			},
			perfile.Directive[Values]{
				Name:    "literal",
				Begin:   literalDirective,
				Summary: "emit fixed lines",
			},
			perfile.Directive[Values]{
				Name:    "define",
				Key:     "defines",
				Init:    func(v *Values) { v.Defines = []*Define{} },
				Begin:   defineDirective,
				Summary: "bind a variable to a text/template expansion",
			},
			perfile.Directive[Values]{
				Name:    "section",
				Key:     "sections",
				Init:    func(v *Values) { v.Sections = []*Section{} },
				Begin:   sectionDirective,
				Summary: "contribute lines to a named section",
			},
		)
	})
	return grammar
}

func insertDirective(v *Values, start location.Coordinate, toks []perfile.Token) (perfile.Continuation, error) {
	if len(toks) != 1 || !toks[0].IsWord() {
		return nil, perfile.Errorf(start, "invalid %%insert directive at %s", start)
	}

	v.Structure = append(v.Structure, &InsertSection{
		Declared: start.MustRange(start),
		Section:  toks[0].Value,
	})
	return nil, nil
}

func literalDirective(v *Values, start location.Coordinate, toks []perfile.Token) (perfile.Continuation, error) {
	if !perfile.IsOpenBrace(toks) {
		return nil, perfile.Errorf(start, "invalid %%literal directive at %s", start)
	}

	return func(c perfile.Closing) (perfile.Continuation, error) {
		if err := perfile.CheckClose(c, "literal", start); err != nil {
			return nil, err
		}
		v.Structure = append(v.Structure, &Literal{
			Declared: start.MustRange(c.Coord),
			Code:     c.Body,
		})
		return nil, nil
	}, nil
}

func defineDirective(v *Values, start location.Coordinate, toks []perfile.Token) (perfile.Continuation, error) {
	if len(toks) != 2 || !toks[0].IsWord() || toks[1] != perfile.CharToken('{') {
		return nil, perfile.Errorf(start, "invalid %%define directive at %s", start)
	}
	name := toks[0].Value

	return func(c perfile.Closing) (perfile.Continuation, error) {
		if err := perfile.CheckClose(c, "define", start); err != nil {
			return nil, err
		}
		d, err := NewDefine(start.MustRange(c.Coord), name, c.Body)
		if err != nil {
			return nil, err
		}
		v.putDefine(d)
		return nil, nil
	}, nil
}

func sectionDirective(v *Values, start location.Coordinate, toks []perfile.Token) (perfile.Continuation, error) {
	invalid := perfile.Errorf(start, "invalid %%section directive at %s", start)

	if len(toks) < 2 || !toks[0].IsWord() || toks[len(toks)-1] != perfile.CharToken('{') {
		return nil, invalid
	}
	name := toks[0].Value

	var requires []string
	if len(toks) > 2 {
		if len(toks) < 4 || toks[1] != perfile.CharToken('(') || toks[len(toks)-2] != perfile.CharToken(')') {
			return nil, invalid
		}
		for _, split := range perfile.SplitTokens(toks[2:len(toks)-2], perfile.CharToken(',')) {
			if len(split.Tokens) != 1 || !split.Tokens[0].IsWord() {
				return nil, invalid
			}
			requires = append(requires, split.Tokens[0].Value)
		}
	}

	return func(c perfile.Closing) (perfile.Continuation, error) {
		if err := perfile.CheckClose(c, "section", start); err != nil {
			return nil, err
		}
		v.putSection(&Section{
			Declared: start.MustRange(c.Coord),
			Name:     name,
			Requires: requires,
			Body:     c.Body,
		})
		return nil, nil
	}, nil
}
