package linelist_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hypocrite/pkg/linelist"
	"github.com/yaklabco/hypocrite/pkg/location"
)

func TestLineList_AppendAndExtend(t *testing.T) {
	t.Parallel()

	l := &linelist.LineList{}
	l.Append("one", location.At("f", 3))
	l.Extend([]string{"two", "three"}, location.At("f", 10))
	l.ExtendStrings([]string{"four"})

	require.Equal(t, 4, l.Len())
	assert.Equal(t, []string{"one", "two", "three", "four"}, l.Texts())
	assert.Equal(t, []string{"two", "three"}, l.Slice(1, 3))
	assert.Equal(t, "three", l.Text(2))

	var coords []location.Coordinate
	for coord := range l.All() {
		coords = append(coords, coord)
	}
	assert.Equal(t, []location.Coordinate{
		location.At("f", 3),
		location.At("f", 10),
		location.At("f", 11),
		{},
	}, coords)
}

func TestLineList_Lines(t *testing.T) {
	t.Parallel()

	l := linelist.FromStrings([]string{"a", "b", "c"})

	var got []string
	for text := range l.Lines() {
		got = append(got, text)
		if text == "b" {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestLineList_Concat(t *testing.T) {
	t.Parallel()

	a := linelist.New(linelist.Entry{Coord: location.At("f", 1), Text: "a"})
	b := linelist.FromStrings([]string{"b", "c"})

	joined := a.Concat(b)
	assert.Equal(t, []string{"a", "b", "c"}, joined.Texts())
	assert.Equal(t, 1, a.Len(), "concat must not modify the receiver")

	a.ConcatInPlace(b)
	a.ConcatInPlace(nil)
	assert.Equal(t, []string{"a", "b", "c"}, a.Texts())
	assert.Equal(t, location.At("f", 1), a.Entry(0).Coord)

	var empty *linelist.LineList
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, []string{"b", "c"}, empty.Concat(b).Texts())
}

func TestLineList_Output(t *testing.T) {
	t.Parallel()

	at := location.At

	tests := []struct {
		name     string
		entries  []linelist.Entry
		expected string
	}{
		{
			name:     "empty",
			expected: "",
		},
		{
			name: "unlocated only",
			entries: []linelist.Entry{
				{Text: "x"},
				{Text: "y"},
			},
			expected: "x\ny\n",
		},
		{
			name: "contiguous run needs one marker",
			entries: []linelist.Entry{
				{Coord: at("p", 1), Text: "a"},
				{Coord: at("p", 2), Text: "b"},
				{Coord: at("p", 3), Text: "c"},
			},
			expected: "#line 1 \"p\"\na\nb\nc\n",
		},
		{
			name: "line jump",
			entries: []linelist.Entry{
				{Coord: at("p", 1), Text: "a"},
				{Coord: at("p", 3), Text: "b"},
			},
			expected: "#line 1 \"p\"\na\n#line 3 \"p\"\nb\n",
		},
		{
			name: "path change",
			entries: []linelist.Entry{
				{Coord: at("p", 1), Text: "a"},
				{Coord: at("q", 2), Text: "b"},
			},
			expected: "#line 1 \"p\"\na\n#line 2 \"q\"\nb\n",
		},
		{
			name: "located then unlocated then located",
			entries: []linelist.Entry{
				{Coord: at("p", 5), Text: "a"},
				{Text: "b"},
				{Coord: at("p", 6), Text: "c"},
			},
			expected: "#line 5 \"p\"\na\n#line 4 \"out.c\"\nb\n#line 6 \"p\"\nc\n",
		},
		{
			name: "unlocated then located",
			entries: []linelist.Entry{
				{Text: "x"},
				{Coord: at("p", 1), Text: "a"},
			},
			expected: "x\n#line 1 \"p\"\na\n",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			var buf strings.Builder
			err := linelist.New(testCase.entries...).Output(&buf, "some/dir/out.c")
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, buf.String())
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestLineList_OutputWriteError(t *testing.T) {
	t.Parallel()

	l := linelist.FromStrings([]string{"a"})
	err := l.Output(failingWriter{}, "out.c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
