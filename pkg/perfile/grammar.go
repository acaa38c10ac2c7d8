package perfile

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/yaklabco/hypocrite/pkg/linelist"
	"github.com/yaklabco/hypocrite/pkg/location"
)

// Handler begins a directive. It receives the parse result being built, the
// coordinate the directive starts at and the tokens following the directive
// name. Single-line directives return a nil Continuation; multi-line
// directives return the Continuation that will receive their body.
type Handler[T any] func(values *T, start location.Coordinate, toks []Token) (Continuation, error)

// Continuation receives the close of a multi-line directive. Returning a
// non-nil Continuation chains into another body, as a fixture does with its
// teardown block.
type Continuation func(c Closing) (Continuation, error)

// Closing describes the end of a directive body.
type Closing struct {
	// Coord is where the closing "%}" was found, or the last line of the
	// file when EOF is set.
	Coord location.Coordinate

	// Body holds the lines accumulated since the directive opened.
	Body *linelist.LineList

	// Tokens follow the "}" of the closing directive.
	Tokens []Token

	// EOF is set when the file ended with the directive still open.
	// Handlers should report their own "unclosed" error.
	EOF bool
}

// Directive describes one "%name" directive in a grammar.
type Directive[T any] struct {
	// Name is the keyword following '%'.
	Name string

	// Key names the result slot the directive fills, for listings.
	// Empty when the directive only modifies another directive's slot.
	Key string

	// Init seeds the directive's slot in a fresh result. Nil means the
	// directive has no slot of its own.
	Init func(values *T)

	// Begin handles the directive line.
	Begin Handler[T]

	// Summary is a one-line description used in listings.
	Summary string
}

// Grammar is a registry of directives sharing one result type.
type Grammar[T any] struct {
	name string

	mu     sync.RWMutex
	byName map[string]Directive[T]
}

// NewGrammar creates an empty grammar.
func NewGrammar[T any](name string) *Grammar[T] {
	return &Grammar[T]{
		name:   name,
		byName: make(map[string]Directive[T]),
	}
}

// Name returns the grammar name.
func (g *Grammar[T]) Name() string {
	return g.name
}

// Register adds a directive. Names must be unique within a grammar.
func (g *Grammar[T]) Register(d Directive[T]) error {
	if d.Name == "" {
		return errors.New("directive name is required")
	}
	if d.Begin == nil {
		return fmt.Errorf("directive %%%s: handler is required", d.Name)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.byName[d.Name]; exists {
		return fmt.Errorf("directive %%%s already registered in %s grammar", d.Name, g.name)
	}
	g.byName[d.Name] = d
	return nil
}

// MustRegister registers directives, panicking on error. It is meant for
// statically constructed grammars.
func (g *Grammar[T]) MustRegister(ds ...Directive[T]) *Grammar[T] {
	for _, d := range ds {
		if err := g.Register(d); err != nil {
			panic(err)
		}
	}
	return g
}

// Lookup returns the directive registered under name.
func (g *Grammar[T]) Lookup(name string) (Directive[T], bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	d, ok := g.byName[name]
	return d, ok
}

// Directives returns all directives sorted by name.
func (g *Grammar[T]) Directives() []Directive[T] {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result := make([]Directive[T], 0, len(g.byName))
	for _, d := range g.byName {
		result = append(result, d)
	}

	slices.SortFunc(result, func(a, b Directive[T]) int {
		return cmp.Compare(a.Name, b.Name)
	})

	return result
}

// seed initializes every directive slot of a fresh result.
func (g *Grammar[T]) seed(values *T) {
	for _, d := range g.Directives() {
		if d.Init != nil {
			d.Init(values)
		}
	}
}
