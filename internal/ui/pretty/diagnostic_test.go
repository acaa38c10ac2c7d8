package pretty_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/hypocrite/internal/ui/pretty"
	"github.com/yaklabco/hypocrite/pkg/location"
	"github.com/yaklabco/hypocrite/pkg/perfile"
)

const source = "%preamble {\n#include <stdio.h>\n%}\n%test (bad) {\n\tx = 1;\n%}\n"

func TestFormatParseError(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	coord := location.Coordinate{Path: "widget.hypo", Line: 4}
	perr := perfile.Errorf(coord, "invalid %%test directive at %s", coord)

	got := styles.FormatParseError(perr, []byte(source))
	want := "" +
		"  widget.hypo:4  error  invalid %test directive at widget.hypo:4\n" +
		"      3 | %}\n" +
		"    > 4 | %test (bad) {\n" +
		"        | ^\n" +
		"      5 | \tx = 1;\n"
	assert.Equal(t, want, got)
}

func TestFormatParseError_NoSource(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	perr := perfile.Errorf(location.Coordinate{Path: "master.c", Line: 9}, "boom")

	assert.Equal(t, "  master.c:9  error  boom\n", styles.FormatParseError(perr, nil))
}

func TestFormatSourceContext(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	tests := []struct {
		name string
		line int
		want string
	}{
		{
			name: "first line",
			line: 1,
			want: "    > 1 | %preamble {\n" +
				"        | ^\n" +
				"      2 | #include <stdio.h>\n",
		},
		{
			name: "indented line keeps tabs",
			line: 5,
			want: "      4 | %test (bad) {\n" +
				"    > 5 | \tx = 1;\n" +
				"        | \t^\n" +
				"      6 | %}\n",
		},
		{name: "past the end", line: 7, want: ""},
		{name: "zero", line: 0, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, styles.FormatSourceContext([]byte(source), tt.line))
		})
	}
}

func TestFormatSourceContext_TabsMatchCaret(t *testing.T) {
	t.Parallel()

	for _, color := range []bool{false, true} {
		got := pretty.NewStyles(color).FormatSourceContext([]byte(source), 5)
		assert.Contains(t, got, "\tx = 1;", "color=%v", color)
		assert.NotContains(t, got, "    x = 1;", "color=%v", color)
	}
}

func TestFormatError(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	assert.Equal(t, "error: no such file\n", styles.FormatError(errors.New("no such file")))
	assert.Equal(t, "warning: careful\n", styles.FormatWarning("careful"))
}
