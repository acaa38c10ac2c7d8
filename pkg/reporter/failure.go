package reporter

import (
	"context"
	"errors"
	"io"

	"github.com/yaklabco/hypocrite/internal/ui/pretty"
	"github.com/yaklabco/hypocrite/pkg/fsutil"
	"github.com/yaklabco/hypocrite/pkg/perfile"
)

// WriteFailure writes the error from generating input. When showContext
// is set, parse errors located in input are followed by the offending
// source line and its neighbours.
func WriteFailure(ctx context.Context, w io.Writer, styles *pretty.Styles, input string, err error, showContext bool) error {
	var perr *perfile.ParseError
	if !errors.As(err, &perr) {
		_, werr := io.WriteString(w, styles.FormatError(err))
		return werr
	}

	var source []byte
	if showContext && perr.Coord.Path == input {
		// The header alone is still useful if the input has gone away.
		source, _, _ = fsutil.ReadFile(ctx, input)
	}
	_, werr := io.WriteString(w, styles.FormatParseError(perr, source))
	return werr
}
