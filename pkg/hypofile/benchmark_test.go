package hypofile_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/yaklabco/hypocrite/pkg/hypofile"
	"github.com/yaklabco/hypocrite/pkg/template"
)

// largeInput builds an input with n tests, each using two of n/10 mocks and
// one fixture.
func largeInput(n int) string {
	var builder strings.Builder
	builder.WriteString("%preamble {\n#include <stdlib.h>\n%}\n\n")

	mocks := max(1, n/10)
	for i := range mocks {
		fmt.Fprintf(&builder, "%%mock int dep_%d(int a, const char *b)\n", i)
	}
	builder.WriteString("\n%fixture struct ctx * ctx {\n  return calloc(1, 64);\n%} teardown {\n  free(ctx);\n%}\n\n")

	for i := range n {
		fmt.Fprintf(&builder, "%%test case_%d (ctx) {\n  hypo_assert(dep_%d(%d, \"x\") == 0);\n  hypo_assert(dep_%d(0, NULL) == 0);\n%%}\n\n",
			i, i%mocks, i, (i+1)%mocks)
	}
	return builder.String()
}

func BenchmarkParse(b *testing.B) {
	input := largeInput(200)
	ctx := context.Background()

	b.ReportAllocs()
	b.SetBytes(int64(len(input)))
	for b.Loop() {
		if _, err := hypofile.Parse(ctx, strings.NewReader(input), "bench.hypo"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRender(b *testing.B) {
	file, err := hypofile.Parse(context.Background(), strings.NewReader(largeInput(200)), "bench.hypo")
	if err != nil {
		b.Fatal(err)
	}
	templates := template.Default()

	b.ReportAllocs()
	for b.Loop() {
		lines, err := file.Render(templates, "bench")
		if err != nil {
			b.Fatal(err)
		}
		if err := lines.Output(io.Discard, "bench.c"); err != nil {
			b.Fatal(err)
		}
	}
}
