package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dhamidi/flatcss/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestLoadDefaults(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "src"), 0755))

	p, err := LoadFrom(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "src"), p.SrcDir)
	assert.Equal(t, filepath.Join(root, "out"), p.OutDir)
	assert.Equal(t, []string{".css"}, p.Config.Extensions)
	assert.False(t, p.Config.StrictAtRules)
}

func TestLoadConfigFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ConfigFile), `{"src": "styles", "out": "dist", "extensions": [".ncss"], "strictAtRules": true}`)
	require.NoError(t, os.Mkdir(filepath.Join(root, "styles"), 0755))

	p, err := LoadFrom(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "styles"), p.SrcDir)
	assert.Equal(t, filepath.Join(root, "dist"), p.OutDir)
	assert.Equal(t, []string{".ncss"}, p.Config.Extensions)
	assert.True(t, p.Config.StrictAtRules)
}

func TestLoadErrors(t *testing.T) {
	root := t.TempDir()
	_, err := LoadFrom(root)
	assert.Error(t, err, "missing source directory")

	writeFile(t, filepath.Join(root, ConfigFile), `{"src": `)
	_, err = LoadFrom(root)
	assert.ErrorContains(t, err, "parse flatcss.json")
}

func TestSources(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "b.css"), "")
	writeFile(t, filepath.Join(root, "src", "a", "c.CSS"), "")
	writeFile(t, filepath.Join(root, "src", "notes.txt"), "")
	writeFile(t, filepath.Join(root, "src", ".cache", "x.css"), "")

	p, err := LoadFrom(root)
	require.NoError(t, err)

	sources, err := p.Sources()
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "src", "a", "c.CSS"),
		filepath.Join(root, "src", "b.css"),
	}, sources)
}

func TestSourcesSkipsNestedOutDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ConfigFile), `{"src": ".", "out": "dist"}`)
	writeFile(t, filepath.Join(root, "main.css"), ".a { b: c; }")
	writeFile(t, filepath.Join(root, "dist", "main.css"), ".a {\n  b: c;\n}\n")

	p, err := LoadFrom(root)
	require.NoError(t, err)

	sources, err := p.Sources()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "main.css")}, sources)
}

func TestBuild(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "button.css"), ".button { color: red; &:hover { color: blue; } }")
	writeFile(t, filepath.Join(root, "src", "nested", "card.css"), ".card { .title { font-weight: bold; } }")
	writeFile(t, filepath.Join(root, "src", "broken.css"), ".x {\n  color red;\n}")

	p, err := LoadFrom(root)
	require.NoError(t, err)

	result, err := p.Build()
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "out", "button.css"),
		filepath.Join(root, "out", "nested", "card.css"),
	}, result.Written)

	assert.Equal(t, ".button {\n  color: red;\n}\n\n.button:hover {\n  color: blue;\n}\n",
		readFile(t, filepath.Join(root, "out", "button.css")))
	assert.Equal(t, ".card .title {\n  font-weight: bold;\n}\n",
		readFile(t, filepath.Join(root, "out", "nested", "card.css")))

	require.Len(t, result.Errors, 1)
	fileErr := result.Errors[0]
	assert.Equal(t, filepath.Join(root, "src", "broken.css"), fileErr.Path)

	var perr *parser.ParseError
	require.True(t, errors.As(fileErr, &perr))
	assert.Equal(t, 2, perr.Pos.Line)
	assert.Equal(t, 3, perr.Pos.Column)
	assert.Equal(t, fileErr.Path, perr.File)

	_, err = os.Stat(filepath.Join(root, "out", "broken.css"))
	assert.True(t, os.IsNotExist(err))
}

func TestBuildStrictAtRules(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ConfigFile), `{"strictAtRules": true}`)
	writeFile(t, filepath.Join(root, "src", "a.css"), "@custom x { .a { b: c; } }")

	p, err := LoadFrom(root)
	require.NoError(t, err)

	result, err := p.Build()
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)

	var perr *parser.ParseError
	require.True(t, errors.As(result.Errors[0], &perr))
	assert.Equal(t, parser.ErrUnknownAtRule, perr.Kind)
}

func TestOutputPathOutsideSource(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "src"), 0755))
	p, err := LoadFrom(root)
	require.NoError(t, err)

	_, err = p.OutputPath(filepath.Join(root, "other.css"))
	assert.Error(t, err)
}

func TestWatcherScan(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src", "a.css")
	writeFile(t, src, ".a { &.b { c: d; } }")

	p, err := LoadFrom(root)
	require.NoError(t, err)

	var built []string
	w := NewWatcher(p, time.Hour)
	w.OnBuild = func(path string, err error) {
		assert.NoError(t, err)
		built = append(built, path)
	}

	w.scan()
	out := filepath.Join(root, "out", "a.css")
	assert.Equal(t, ".a.b {\n  c: d;\n}\n", readFile(t, out))
	assert.Equal(t, []string{src}, built)

	w.scan()
	assert.Len(t, built, 1, "unchanged file is not rebuilt")

	writeFile(t, src, ".a { c: e; }")
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(src, later, later))
	w.scan()
	assert.Len(t, built, 2)
	assert.Equal(t, ".a {\n  c: e;\n}\n", readFile(t, out))

	require.NoError(t, os.Remove(src))
	w.scan()
	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err), "output of deleted source is removed")
}

func TestWatcherStartStop(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "a.css"), ".a { b: c; }")

	p, err := LoadFrom(root)
	require.NoError(t, err)

	done := make(chan string, 1)
	w := NewWatcher(p, time.Hour)
	w.OnBuild = func(path string, err error) {
		done <- path
	}
	w.Start()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not build on start")
	}
	w.Stop()

	assert.FileExists(t, filepath.Join(root, "out", "a.css"))
}
