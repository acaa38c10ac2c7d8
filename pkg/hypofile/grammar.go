package hypofile

import (
	"strings"
	"sync"

	"github.com/yaklabco/hypocrite/pkg/location"
	"github.com/yaklabco/hypocrite/pkg/perfile"
)

//nolint:gochecknoglobals // delimiter tokens are constants in all but name
var (
	tokOpenParen  = perfile.CharToken('(')
	tokCloseParen = perfile.CharToken(')')
	tokComma      = perfile.CharToken(',')
	tokOpenBrace  = perfile.CharToken('{')
	tokStar       = perfile.CharToken('*')
	tokBang       = perfile.CharToken('!')
	tokVoid       = perfile.WordToken("void")
	tokTeardown   = perfile.WordToken("teardown")
)

//nolint:gochecknoglobals // grammar is built once and read-only afterwards
var (
	grammarOnce sync.Once
	grammar     *perfile.Grammar[Values]
)

// Grammar returns the input file directive grammar.
func Grammar() *perfile.Grammar[Values] {
	grammarOnce.Do(func() {
		grammar = perfile.NewGrammar[Values]("hypocrite").MustRegister(
			perfile.Directive[Values]{
				Name:    "target",
				Key:     "target",
				Begin:   targetDirective,
				Summary: "name the C source file under test",
			},
			perfile.Directive[Values]{
				Name:    "preamble",
				Key:     "preamble",
				Init:    func(v *Values) { v.Preambles = []*Preamble{} },
				Begin:   preambleDirective,
				Summary: "code emitted before the generated tests",
			},
			perfile.Directive[Values]{
				Name:    "mock",
				Key:     "mocks",
				Init:    func(v *Values) { v.Mocks = make(map[string]*Mock) },
				Begin:   mockDirective,
				Summary: "replace a function with a recording stub",
			},
			perfile.Directive[Values]{
				Name:    "test",
				Key:     "tests",
				Init:    func(v *Values) { v.Tests = []*Test{} },
				Begin:   testDirective,
				Summary: "a test function, optionally using fixtures",
			},
			perfile.Directive[Values]{
				Name:    "fixture",
				Key:     "fixtures",
				Init:    func(v *Values) { v.Fixtures = make(map[string]*Fixture) },
				Begin:   fixtureDirective,
				Summary: "setup code, optionally followed by a teardown block",
			},
		)
	})
	return grammar
}

func targetDirective(v *Values, start location.Coordinate, toks []perfile.Token) (perfile.Continuation, error) {
	if len(toks) != 1 || toks[0].Kind != perfile.TokString || toks[0].Value == "" {
		return nil, perfile.Errorf(start, "invalid %%target directive at %s", start)
	}

	v.Target = toks[0].Value
	return nil, nil
}

func preambleDirective(v *Values, start location.Coordinate, toks []perfile.Token) (perfile.Continuation, error) {
	if !perfile.IsOpenBrace(toks) {
		return nil, perfile.Errorf(start, "invalid %%preamble directive at %s", start)
	}

	return func(c perfile.Closing) (perfile.Continuation, error) {
		if err := perfile.CheckClose(c, "preamble", start); err != nil {
			return nil, err
		}
		v.Preambles = append(v.Preambles, &Preamble{
			Range: start.MustRange(c.Coord),
			Code:  c.Body,
		})
		return nil, nil
	}, nil
}

func mockDirective(v *Values, start location.Coordinate, toks []perfile.Token) (perfile.Continuation, error) {
	invalid := perfile.Errorf(start, "invalid %%mock directive at %s", start)

	splits := perfile.SplitTokens(toks, tokOpenParen, tokComma, tokCloseParen)

	typeToks, name := typeAndName(splits[0].Tokens)
	if len(typeToks) == 0 || !name.IsWord() || splits[0].Delim != tokOpenParen {
		return nil, invalid
	}
	returnType, err := makeType(typeToks, "mock", start)
	if err != nil {
		return nil, err
	}

	args := []MockArg{}
	closed := false
	for _, split := range splits[1:] {
		if closed {
			if len(split.Tokens) != 0 || !split.Delim.IsZero() {
				return nil, perfile.Errorf(start, "unexpected tokens after %%mock directive at %s", start)
			}
			continue
		}
		if split.Delim.IsZero() {
			return nil, perfile.Errorf(start, "premature end of arguments in %%mock directive at %s", start)
		}

		argType, argName := typeAndName(split.Tokens)
		if split.Delim == tokCloseParen {
			closed = true
			// "()" and "(void)" both declare no arguments.
			if len(args) == 0 && len(argType) == 0 && (argName.IsZero() || argName == tokVoid) {
				continue
			}
		}
		if len(argType) == 0 || !argName.IsWord() || split.Delim == tokOpenParen {
			return nil, invalid
		}

		typ, err := makeType(argType, "mock", start)
		if err != nil {
			return nil, err
		}
		args = append(args, MockArg{Type: typ, Name: argName.Value})
	}

	v.Mocks[name.Value] = &Mock{
		Range:      start.MustRange(start),
		Name:       name.Value,
		ReturnType: returnType,
		Args:       args,
	}
	return nil, nil
}

func testDirective(v *Values, start location.Coordinate, toks []perfile.Token) (perfile.Continuation, error) {
	invalid := perfile.Errorf(start, "invalid %%test directive at %s", start)

	if len(toks) < 2 || !toks[0].IsWord() || toks[len(toks)-1] != tokOpenBrace {
		return nil, invalid
	}
	name := toks[0].Value

	var fixtures []FixtureRef
	if len(toks) > 2 {
		if len(toks) < 4 || toks[1] != tokOpenParen || toks[len(toks)-2] != tokCloseParen {
			return nil, invalid
		}

		badSpec := perfile.Errorf(start, "invalid fixture specification in %%test directive at %s", start)
		for _, split := range perfile.SplitTokens(toks[2:len(toks)-2], tokComma) {
			spec := split.Tokens
			if len(spec) < 1 || len(spec) > 2 {
				return nil, badSpec
			}
			inject := true
			if spec[0] == tokBang {
				inject = false
				spec = spec[1:]
			}
			if len(spec) != 1 || !spec[0].IsWord() {
				return nil, badSpec
			}
			fixtures = append(fixtures, FixtureRef{Name: spec[0].Value, Inject: inject})
		}
	}

	return func(c perfile.Closing) (perfile.Continuation, error) {
		if err := perfile.CheckClose(c, "test", start); err != nil {
			return nil, err
		}
		v.putTest(&Test{
			Range:    start.MustRange(c.Coord),
			Name:     name,
			Code:     c.Body,
			Fixtures: fixtures,
		})
		return nil, nil
	}, nil
}

func fixtureDirective(v *Values, start location.Coordinate, toks []perfile.Token) (perfile.Continuation, error) {
	splits := perfile.SplitTokens(toks, tokOpenBrace)

	typeToks, name := typeAndName(splits[0].Tokens)
	if splits[0].Delim.IsZero() {
		return nil, perfile.Errorf(start, "premature end of arguments in %%fixture directive at %s", start)
	}
	if !name.IsWord() {
		return nil, perfile.Errorf(start, "invalid %%fixture directive at %s", start)
	}
	if len(splits) > 2 || len(splits[1].Tokens) != 0 {
		return nil, perfile.Errorf(start, "unexpected tokens after %%fixture directive at %s", start)
	}

	var returnType string
	if len(typeToks) != 0 && (len(typeToks) != 1 || typeToks[0] != tokVoid) {
		var err error
		if returnType, err = makeType(typeToks, "fixture", start); err != nil {
			return nil, err
		}
	}

	fix := &Fixture{Name: name.Value, ReturnType: returnType}
	store := func(end location.Coordinate) {
		fix.Range = start.MustRange(end)
		v.Fixtures[fix.Name] = fix
	}

	return func(c perfile.Closing) (perfile.Continuation, error) {
		if c.EOF {
			return nil, perfile.Errorf(start, "unclosed %%fixture directive at end of file; starts at %s", start)
		}
		fix.Code = c.Body

		if len(c.Tokens) == 0 {
			store(c.Coord)
			return nil, nil
		}
		if len(c.Tokens) != 2 || c.Tokens[0] != tokTeardown || c.Tokens[1] != tokOpenBrace {
			return nil, perfile.Errorf(c.Coord, "invalid %%teardown directive at %s", c.Coord)
		}

		teardownStart := c.Coord
		return func(c perfile.Closing) (perfile.Continuation, error) {
			if err := perfile.CheckClose(c, "teardown", teardownStart); err != nil {
				return nil, err
			}
			fix.Teardown = c.Body
			store(c.Coord)
			return nil, nil
		}, nil
	}, nil
}

// typeAndName splits a declaration into its type tokens and the trailing
// name token. The name is the zero token when toks is empty.
func typeAndName(toks []perfile.Token) ([]perfile.Token, perfile.Token) {
	if len(toks) == 0 {
		return nil, perfile.Token{}
	}
	return toks[:len(toks)-1], toks[len(toks)-1]
}

// makeType joins type tokens into a C type string. Only words and '*' are
// accepted; consecutive stars are kept together, as in "char **".
func makeType(toks []perfile.Token, directive string, coord location.Coordinate) (string, error) {
	parts := make([]string, 0, len(toks))

	var last perfile.Token
	for _, tok := range toks {
		if tok.Kind != perfile.TokWord && tok != tokStar {
			return "", perfile.Errorf(coord, "invalid %%%s directive at %s", directive, coord)
		}

		if last.Kind == perfile.TokChar && tok.Kind == perfile.TokChar {
			parts[len(parts)-1] += tok.Value
		} else {
			parts = append(parts, tok.Value)
		}
		last = tok
	}

	return strings.Join(parts, " "), nil
}
