package template

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ErrTemplateNotFound is returned when no template source exists for a name.
var ErrTemplateNotFound = errors.New("template not found")

//go:embed templates/*.c
var embedded embed.FS

// Embedded returns the built-in template sources.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Layered returns a file system that looks names up in each layer in turn.
// It lets a user directory override individual built-in templates.
func Layered(layers ...fs.FS) fs.FS {
	return layeredFS(layers)
}

// WithOverrideDir layers dir over the built-in templates. An empty dir
// returns the built-in templates unchanged.
func WithOverrideDir(dir string) fs.FS {
	if dir == "" {
		return Embedded()
	}
	return Layered(os.DirFS(dir), Embedded())
}

type layeredFS []fs.FS

func (l layeredFS) Open(name string) (fs.File, error) {
	for _, layer := range l {
		f, err := layer.Open(name)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// Cache loads templates by name and keeps them for the life of the cache.
// It is safe for concurrent use; each template is parsed at most once.
type Cache struct {
	fsys fs.FS

	mu    sync.RWMutex
	tmpls map[string]*Template
	loads singleflight.Group
}

// NewCache returns a cache reading template sources from fsys.
func NewCache(fsys fs.FS) *Cache {
	return &Cache{
		fsys:  fsys,
		tmpls: make(map[string]*Template),
	}
}

//nolint:gochecknoglobals // process-wide cache of the built-in templates
var (
	defaultOnce  sync.Once
	defaultCache *Cache
)

// Default returns the process-wide cache of built-in templates.
func Default() *Cache {
	defaultOnce.Do(func() {
		defaultCache = NewCache(Embedded())
	})
	return defaultCache
}

// Get returns the parsed template called name.
func (c *Cache) Get(name string) (*Template, error) {
	c.mu.RLock()
	tmpl, ok := c.tmpls[name]
	c.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	v, err, _ := c.loads.Do(name, func() (any, error) {
		c.mu.RLock()
		tmpl, ok := c.tmpls[name]
		c.mu.RUnlock()
		if ok {
			return tmpl, nil
		}

		tmpl, err := c.load(name)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.tmpls[name] = tmpl
		c.mu.Unlock()
		return tmpl, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Template), nil
}

func (c *Cache) load(name string) (*Template, error) {
	f, err := c.fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
		}
		return nil, fmt.Errorf("open template %s: %w", name, err)
	}
	defer f.Close()

	return Parse(f, name)
}

// Source returns the raw text of the template called name.
func (c *Cache) Source(name string) ([]byte, error) {
	data, err := fs.ReadFile(c.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
		}
		return nil, fmt.Errorf("read template %s: %w", name, err)
	}
	return data, nil
}

// Names lists the available templates, sorted.
func (c *Cache) Names() ([]string, error) {
	layers := []fs.FS{c.fsys}
	if l, ok := c.fsys.(layeredFS); ok {
		layers = l
	}

	var names []string
	for _, layer := range layers {
		matches, err := fs.Glob(layer, "*.c")
		if err != nil {
			return nil, fmt.Errorf("list templates: %w", err)
		}
		names = append(names, matches...)
	}

	slices.Sort(names)
	return slices.Compact(names), nil
}

// Loaded reports how many templates have been parsed so far.
func (c *Cache) Loaded() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tmpls)
}
