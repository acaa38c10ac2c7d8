package hypofile

import (
	"github.com/yaklabco/hypocrite/pkg/linelist"
	"github.com/yaklabco/hypocrite/pkg/location"
)

// Preamble is literal code emitted near the top of the generated file.
type Preamble struct {
	Range location.CoordinateRange
	Code  *linelist.LineList
}

// FixtureRef names a fixture used by a test. Inject is false when the
// reference was written "!name": the fixture runs but its value is not
// passed to the test function.
type FixtureRef struct {
	Name   string
	Inject bool
}

// Test is one "%test" block.
type Test struct {
	Range    location.CoordinateRange
	Name     string
	Code     *linelist.LineList
	Fixtures []FixtureRef
}

// MockArg is one argument of a mocked function.
type MockArg struct {
	Type string
	Name string
}

// Mock declares a function to be replaced by a recording stub.
type Mock struct {
	Range      location.CoordinateRange
	Name       string
	ReturnType string
	Args       []MockArg
}

// IsVoid reports whether the mocked function returns nothing.
func (m *Mock) IsVoid() bool {
	return m.ReturnType == "void"
}

// Fixture is setup code run before a test, with optional teardown code run
// after it. ReturnType is empty for fixtures that produce no value.
type Fixture struct {
	Range      location.CoordinateRange
	Name       string
	ReturnType string
	Code       *linelist.LineList
	Teardown   *linelist.LineList
}

// FixtureInjection is a resolved fixture reference, as handed to the test
// template.
type FixtureInjection struct {
	Fixture *Fixture
	Inject  bool
}

// Values is the result of parsing an input file.
type Values struct {
	Target    string
	Preambles []*Preamble
	Tests     []*Test
	Mocks     map[string]*Mock
	Fixtures  map[string]*Fixture
}

// putTest stores t. A test redeclared under the same name keeps its
// original position.
func (v *Values) putTest(t *Test) {
	for i, existing := range v.Tests {
		if existing.Name == t.Name {
			v.Tests[i] = t
			return
		}
	}
	v.Tests = append(v.Tests, t)
}
