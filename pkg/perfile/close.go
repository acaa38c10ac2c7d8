package perfile

import "github.com/yaklabco/hypocrite/pkg/location"

// CheckClose validates the close of a simple block directive: the file must
// not have ended inside the block and nothing may follow the "}".
func CheckClose(c Closing, name string, start location.Coordinate) error {
	if c.EOF {
		return Errorf(start, "unclosed %%%s directive at end of file; starts at %s", name, start)
	}
	if len(c.Tokens) != 0 {
		return Errorf(c.Coord, "invalid end of %%%s directive at %s", name, c.Coord)
	}
	return nil
}

// IsOpenBrace reports whether toks is exactly "{".
func IsOpenBrace(toks []Token) bool {
	return len(toks) == 1 && toks[0] == CharToken('{')
}
