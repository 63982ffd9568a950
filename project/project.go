package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dhamidi/flatcss/format"
	"github.com/dhamidi/flatcss/parser"
	"github.com/tliron/commonlog"
)

// ConfigFile is the name of the project configuration file.
const ConfigFile = "flatcss.json"

var log = commonlog.GetLogger("flatcss.project")

// Config is the contents of flatcss.json. Relative directories are
// resolved against the project root.
type Config struct {
	Src           string   `json:"src"`
	Out           string   `json:"out"`
	Extensions    []string `json:"extensions"`
	StrictAtRules bool     `json:"strictAtRules"`
}

func DefaultConfig() Config {
	return Config{
		Src:        "src",
		Out:        "out",
		Extensions: []string{".css"},
	}
}

// Project is a tree of nested stylesheets under SrcDir whose flat
// versions are written to the same relative paths under OutDir.
type Project struct {
	RootDir string
	SrcDir  string
	OutDir  string
	Config  Config
}

// FileError is a build failure for a single source file.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// BuildResult lists the outputs written and the sources that failed.
type BuildResult struct {
	Written []string
	Errors  []*FileError
}

// Load reads the project in the current directory.
func Load() (*Project, error) {
	return LoadFrom(".")
}

// LoadFrom reads flatcss.json in rootDir, falling back to DefaultConfig
// when the file does not exist.
func LoadFrom(rootDir string) (*Project, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filepath.Join(rootDir, ConfigFile))
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", ConfigFile, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read %s: %w", ConfigFile, err)
	}

	if cfg.Src == "" {
		cfg.Src = "src"
	}
	if cfg.Out == "" {
		cfg.Out = "out"
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".css"}
	}

	p := &Project{
		RootDir: rootDir,
		SrcDir:  resolve(rootDir, cfg.Src),
		OutDir:  resolve(rootDir, cfg.Out),
		Config:  cfg,
	}

	info, err := os.Stat(p.SrcDir)
	if err != nil {
		return nil, fmt.Errorf("read source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source %s is not a directory", p.SrcDir)
	}
	return p, nil
}

func resolve(root, dir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(root, dir)
}

// Sources returns every source file under SrcDir, sorted. Hidden
// directories and the output directory are skipped.
func (p *Project) Sources() ([]string, error) {
	var files []string

	err := filepath.WalkDir(p.SrcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != p.SrcDir && (strings.HasPrefix(d.Name(), ".") || path == p.OutDir) {
				return filepath.SkipDir
			}
			return nil
		}
		if p.isSource(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan sources in %s: %w", p.SrcDir, err)
	}

	sort.Strings(files)
	return files, nil
}

func (p *Project) isSource(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range p.Config.Extensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// OutputPath maps a source file to its output file.
func (p *Project) OutputPath(src string) (string, error) {
	rel, err := filepath.Rel(p.SrcDir, src)
	if err != nil {
		return "", fmt.Errorf("relative path of %s: %w", src, err)
	}
	if strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside %s", src, p.SrcDir)
	}
	return filepath.Join(p.OutDir, rel), nil
}

// ParserOptions returns the parser options for a source file.
func (p *Project) ParserOptions(src string) []parser.Option {
	opts := []parser.Option{parser.WithFile(src)}
	if p.Config.StrictAtRules {
		opts = append(opts, parser.WithStrictAtRules())
	}
	return opts
}

// BuildFile flattens one source and writes its output, returning the
// output path.
func (p *Project) BuildFile(src string) (string, error) {
	source, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	out, err := p.OutputPath(src)
	if err != nil {
		return "", err
	}
	flat, err := format.FlattenCSS(source, p.ParserOptions(src)...)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return "", fmt.Errorf("create %s: %w", filepath.Dir(out), err)
	}
	if err := os.WriteFile(out, flat, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	log.Debugf("wrote %s", out)
	return out, nil
}

// Build flattens every source. A failing file is recorded in the result
// and does not stop the others; the returned error is only set when the
// sources cannot be listed.
func (p *Project) Build() (*BuildResult, error) {
	sources, err := p.Sources()
	if err != nil {
		return nil, err
	}

	result := &BuildResult{}
	for _, src := range sources {
		out, err := p.BuildFile(src)
		if err != nil {
			log.Errorf("build %s: %s", src, err)
			result.Errors = append(result.Errors, &FileError{Path: src, Err: err})
			continue
		}
		result.Written = append(result.Written, out)
	}
	log.Infof("built %d of %d stylesheets", len(result.Written), len(sources))
	return result, nil
}
