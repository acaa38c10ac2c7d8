package template_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hypocrite/pkg/template"
)

var builtins = []string{"fixture.c", "master.c", "mock-void.c", "mock.c", "test.c"}

func TestCache_Builtins(t *testing.T) {
	t.Parallel()

	cache := template.NewCache(template.Embedded())

	names, err := cache.Names()
	require.NoError(t, err)
	assert.Equal(t, builtins, names)

	for _, name := range builtins {
		tmpl, err := cache.Get(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, tmpl.Name)
	}
	assert.Equal(t, len(builtins), cache.Loaded())

	master, err := cache.Get("master.c")
	require.NoError(t, err)
	for _, section := range []string{"master_header", "master_include", "master_main"} {
		_, ok := master.Section(section)
		assert.True(t, ok, section)
	}
}

func TestCache_GetReturnsSameTemplate(t *testing.T) {
	t.Parallel()

	cache := template.NewCache(template.Embedded())

	first, err := cache.Get("test.c")
	require.NoError(t, err)
	second, err := cache.Get("test.c")
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestCache_ConcurrentGet(t *testing.T) {
	t.Parallel()

	cache := template.NewCache(template.Embedded())

	const workers = 16
	results := make([]*template.Template, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tmpl, err := cache.Get("mock.c")
			assert.NoError(t, err)
			results[i] = tmpl
		}()
	}
	wg.Wait()

	for _, tmpl := range results {
		assert.Same(t, results[0], tmpl)
	}
	assert.Equal(t, 1, cache.Loaded())
}

func TestCache_NotFound(t *testing.T) {
	t.Parallel()

	cache := template.NewCache(template.Embedded())

	_, err := cache.Get("nope.c")
	require.ErrorIs(t, err, template.ErrTemplateNotFound)

	_, err = cache.Source("nope.c")
	require.ErrorIs(t, err, template.ErrTemplateNotFound)
}

func TestCache_ParseErrorIsNotCached(t *testing.T) {
	t.Parallel()

	cache := template.NewCache(fstest.MapFS{
		"bad.c": &fstest.MapFile{Data: []byte("%bogus\n")},
	})

	_, err := cache.Get("bad.c")
	require.Error(t, err)
	assert.Equal(t, 0, cache.Loaded())
}

func TestCache_Layered(t *testing.T) {
	t.Parallel()

	override := fstest.MapFS{
		"test.c":  &fstest.MapFile{Data: []byte("%literal {\noverridden\n%}\n")},
		"extra.c": &fstest.MapFile{Data: []byte("%insert extra\n")},
	}
	cache := template.NewCache(template.Layered(override, template.Embedded()))

	tmpl, err := cache.Get("test.c")
	require.NoError(t, err)
	require.Len(t, tmpl.Structure, 1)
	assert.Equal(t, "literal (1 lines)", tmpl.Structure[0].String())

	_, err = cache.Get("master.c")
	require.NoError(t, err, "names missing from the override fall through")

	names, err := cache.Names()
	require.NoError(t, err)
	assert.Equal(t, append([]string{"extra.c"}, builtins...), names)
}

func TestWithOverrideDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fixture.c"), []byte("%insert x\n"), 0o644))

	cache := template.NewCache(template.WithOverrideDir(dir))
	src, err := cache.Source("fixture.c")
	require.NoError(t, err)
	assert.Equal(t, "%insert x\n", string(src))

	src, err = template.NewCache(template.WithOverrideDir("")).Source("fixture.c")
	require.NoError(t, err)
	assert.Contains(t, string(src), "%section fixture_setup")
}

func TestDefault(t *testing.T) {
	t.Parallel()

	assert.Same(t, template.Default(), template.Default())
}
