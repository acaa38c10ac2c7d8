package runner_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/hypocrite/pkg/runner"
)

func TestCollisions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		files     []string
		outputDir string
		want      []runner.Collision
	}{
		{
			name:  "distinct names",
			files: []string{"a/widget.hypo", "a/gadget.hypo", "b/sprocket.hypo"},
		},
		{
			name:  "same base name in two directories",
			files: []string{"a/widget.hypo", "b/gadget.hypo", "b/widget.hypo"},
			want: []runner.Collision{
				{Output: "widget.c", Inputs: []string{"a/widget.hypo", "b/widget.hypo"}},
			},
		},
		{
			name:      "shared output directory",
			files:     []string{"a/widget.hypo", "b/widget.hypo", "c/widget.hypo", "a/gadget.hypo", "b/gadget.hypo"},
			outputDir: "gen",
			want: []runner.Collision{
				{
					Output: filepath.Join("gen", "widget.c"),
					Inputs: []string{"a/widget.hypo", "b/widget.hypo", "c/widget.hypo"},
				},
				{
					Output: filepath.Join("gen", "gadget.c"),
					Inputs: []string{"a/gadget.hypo", "b/gadget.hypo"},
				},
			},
		},
		{
			name:  "extension does not matter",
			files: []string{"a/widget.hypo", "b/widget.test"},
			want: []runner.Collision{
				{Output: "widget.c", Inputs: []string{"a/widget.hypo", "b/widget.test"}},
			},
		},
		{name: "no files"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, runner.Collisions(tt.files, tt.outputDir))
		})
	}
}
