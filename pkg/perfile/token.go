package perfile

import "strconv"

// TokenKind classifies a directive token.
type TokenKind uint8

// Token kinds. The zero kind marks "no token".
const (
	TokNone   TokenKind = iota
	TokWord             // identifier: letter or '_' followed by letters, digits, '_'
	TokChar             // any other single non-space character
	TokString           // double-quoted text, quotes removed, no escapes
)

// String returns the kind name.
func (k TokenKind) String() string {
	switch k {
	case TokNone:
		return "None"
	case TokWord:
		return "Word"
	case TokChar:
		return "Char"
	case TokString:
		return "String"
	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Token is a classified piece of directive text. Tokens compare by value,
// so literal matching such as tok == CharToken('{') works directly.
type Token struct {
	Kind  TokenKind
	Value string
}

// WordToken returns a word token.
func WordToken(value string) Token { return Token{Kind: TokWord, Value: value} }

// CharToken returns a single-character token.
func CharToken(r rune) Token { return Token{Kind: TokChar, Value: string(r)} }

// StringToken returns a string token.
func StringToken(value string) Token { return Token{Kind: TokString, Value: value} }

// IsZero reports whether t is the zero token.
func (t Token) IsZero() bool {
	return t.Kind == TokNone
}

// IsWord reports whether t is a non-empty word.
func (t Token) IsWord() bool {
	return t.Kind == TokWord && t.Value != ""
}

// String renders the token for diagnostics.
func (t Token) String() string {
	switch t.Kind {
	case TokString:
		return strconv.Quote(t.Value)
	case TokNone:
		return "<none>"
	default:
		return t.Value
	}
}

// Split is one run of tokens produced by SplitTokens, along with the
// delimiter that ended it. The final run has a zero Delim.
type Split struct {
	Tokens []Token
	Delim  Token
}

// SplitTokens splits toks at each token found in delims, in the manner of
// strings.Split: n delimiters always produce n+1 runs, some possibly empty.
func SplitTokens(toks []Token, delims ...Token) []Split {
	var (
		out   []Split
		stack []Token
	)

	for _, tok := range toks {
		if isDelim(tok, delims) {
			out = append(out, Split{Tokens: stack, Delim: tok})
			stack = nil
			continue
		}
		stack = append(stack, tok)
	}

	return append(out, Split{Tokens: stack})
}

func isDelim(tok Token, delims []Token) bool {
	for _, d := range delims {
		if tok == d {
			return true
		}
	}
	return false
}
