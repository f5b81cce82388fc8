package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/specialistvlad/cecplan/internal/config"
	"github.com/specialistvlad/cecplan/internal/fsutil"
)

// extensions returns the file extensions a loader is registered for.
func (a *App) extensions() []string {
	out := make([]string, 0, len(a.loaders))
	for ext := range a.loaders {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// expand turns file and directory arguments into the list of configuration
// files to process, in argument order and without repeats.
func (a *App) expand(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, p := range paths {
		found, err := fsutil.FindFiles(p, a.extensions()...)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		for _, f := range found {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no configuration files found in %s (expected %s)",
			strings.Join(paths, ", "), strings.Join(a.extensions(), ", "))
	}
	return files, nil
}

// load reads one configuration file with the loader matching its extension.
func (a *App) load(ctx context.Context, path string) (*config.Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	loader, ok := a.loaders[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported file type %q, expected one of %s", ext, strings.Join(a.extensions(), ", "))
	}
	return loader.Load(ctx, path)
}
