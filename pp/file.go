package pp

import (
	"context"
	"fmt"
	"path"

	"github.com/viant/afs"
	"github.com/varick/cfront/source"
)

// IncludeKind distinguishes the two forms of #include.
type IncludeKind int

const (
	// IncludeQuoted is `#include "name"`, searched relative to the
	// including file first.
	IncludeQuoted IncludeKind = iota
	// IncludeAngled is `#include <name>`, searched in the include
	// directories only.
	IncludeAngled
)

// File is a loaded source file reachable by inclusion.
type File struct {
	Contents *source.FileContents
	// ParentDir resolves quoted includes relative to this file.
	ParentDir string
}

// IncludeLoader resolves and loads included files, caching by resolved path
// so that a file included twice shares its contents.
type IncludeLoader struct {
	fs          afs.Service
	includeDirs []string
	cache       map[string]*File
}

// NewIncludeLoader creates a loader searching includeDirs for includes. When
// fs is nil the default local service is used.
func NewIncludeLoader(fs afs.Service, includeDirs []string) *IncludeLoader {
	if fs == nil {
		fs = afs.New()
	}
	return &IncludeLoader{
		fs:          fs,
		includeDirs: includeDirs,
		cache:       map[string]*File{},
	}
}

// LoadMain loads the main translation unit file at location.
func (l *IncludeLoader) LoadMain(ctx context.Context, location string) (*File, error) {
	file, err := l.loadPath(ctx, path.Clean(location))
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, fmt.Errorf("pp: file '%s' not found", location)
	}
	return file, nil
}

// Load resolves an include name against the search path, returning the file
// and its resolved path, or a nil file when nothing matched. parentDir is
// the directory of the including file.
func (l *IncludeLoader) Load(ctx context.Context, name string, kind IncludeKind, parentDir string) (*File, string, error) {
	if kind == IncludeQuoted {
		resolved := path.Clean(path.Join(parentDir, name))
		file, err := l.loadPath(ctx, resolved)
		if err != nil {
			return nil, "", err
		}
		if file != nil {
			return file, resolved, nil
		}
	}

	for _, dir := range l.includeDirs {
		resolved := path.Clean(path.Join(dir, name))
		file, err := l.loadPath(ctx, resolved)
		if err != nil {
			return nil, "", err
		}
		if file != nil {
			return file, resolved, nil
		}
	}

	return nil, "", nil
}

func (l *IncludeLoader) loadPath(ctx context.Context, location string) (*File, error) {
	if file, ok := l.cache[location]; ok {
		return file, nil
	}

	exists, err := l.fs.Exists(ctx, location)
	if err != nil || !exists {
		return nil, err
	}

	data, err := l.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("pp: failed to read '%s': %w", location, err)
	}

	file := &File{
		Contents:  source.NewFileContents(string(data)),
		ParentDir: path.Dir(location),
	}
	l.cache[location] = file
	return file, nil
}
