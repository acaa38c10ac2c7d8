package perfile

import (
	"strings"
	"unicode"

	"github.com/yaklabco/hypocrite/pkg/location"
)

// Tokenize splits one logical directive line, without its leading '%',
// into tokens. Words and strings may abut: `see"what"` is a word followed
// by a string. An unterminated string is a parse error.
func Tokenize(text string, coord location.Coordinate) ([]Token, error) {
	var (
		toks  []Token
		buf   strings.Builder
		state = TokNone
	)

	flush := func() {
		toks = append(toks, Token{Kind: state, Value: buf.String()})
		buf.Reset()
		state = TokNone
	}

	for _, r := range text {
		switch state {
		case TokString:
			if r == '"' {
				flush()
			} else {
				buf.WriteRune(r)
			}
			continue

		case TokWord:
			if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
				buf.WriteRune(r)
				continue
			}
			flush()
		}

		switch {
		case unicode.IsSpace(r):
		case r == '"':
			state = TokString
		case r == '_' || unicode.IsLetter(r):
			state = TokWord
			buf.WriteRune(r)
		default:
			toks = append(toks, CharToken(r))
		}
	}

	switch state {
	case TokString:
		return nil, Errorf(coord, "unclosed string encountered at %s", coord)
	case TokWord:
		flush()
	}

	return toks, nil
}
