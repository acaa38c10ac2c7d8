package runner

import (
	"path/filepath"
	"slices"

	"github.com/yaklabco/hypocrite/pkg/generator"
)

// Collision is a set of inputs that derive the same output path.
type Collision struct {
	Output string
	Inputs []string
}

// Collisions reports the inputs in files whose derived outputs under
// outputDir coincide. Run writes such outputs concurrently and the last
// writer wins. Collisions are ordered by the first input of each.
func Collisions(files []string, outputDir string) []Collision {
	byOutput := make(map[string][]string, len(files))
	var order []string
	for _, file := range files {
		output := filepath.Clean(generator.OutputPath(file, outputDir))
		if _, seen := byOutput[output]; !seen {
			order = append(order, output)
		}
		byOutput[output] = append(byOutput[output], file)
	}

	var collisions []Collision
	for _, output := range order {
		if inputs := byOutput[output]; len(inputs) > 1 {
			collisions = append(collisions, Collision{Output: output, Inputs: slices.Clone(inputs)})
		}
	}
	return collisions
}
