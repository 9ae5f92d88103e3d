package server

import (
	"encoding/json"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"jsonview/internal/errors"
	"jsonview/internal/log"

	"github.com/gobwas/glob"
)

// CompilePatterns compiles include globs. '/' is the separator, so "*.json"
// matches a base name and "data/**.json" matches below data/.
func CompilePatterns(include []string) ([]glob.Glob, error) {
	patterns := make([]glob.Glob, 0, len(include))
	for _, p := range include {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, errors.NewConfigError("invalid include pattern "+p, "server.include", errors.InvalidConfig, err)
		}
		patterns = append(patterns, g)
	}
	return patterns, nil
}

func matches(patterns []glob.Glob, rel string) bool {
	base := path.Base(rel)
	for _, g := range patterns {
		if g.Match(rel) || g.Match(base) {
			return true
		}
	}
	return false
}

// Generate walks root and returns the slash separated paths of every file
// matching patterns, sorted. Hidden entries and the manifest file itself
// are left out.
func Generate(root, manifest string, patterns []glob.Glob) ([]string, error) {
	names := []string{}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == manifest || !matches(patterns, rel) {
			return nil
		}
		names = append(names, rel)
		return nil
	})
	if err != nil {
		return nil, errors.NewFileError("cannot scan directory", root, errors.FileOperationFailed, err)
	}

	sort.Strings(names)
	return names, nil
}

// Manifest caches the generated manifest of a directory until Invalidate
// is called.
type Manifest struct {
	root     string
	name     string
	patterns []glob.Glob

	mu    sync.RWMutex
	names []string
	valid bool
}

// NewManifest creates a manifest for root. name is the manifest's path
// relative to root.
func NewManifest(root, name string, include []string) (*Manifest, error) {
	patterns, err := CompilePatterns(include)
	if err != nil {
		return nil, err
	}
	return &Manifest{root: root, name: name, patterns: patterns}, nil
}

// Name returns the manifest path relative to the root.
func (m *Manifest) Name() string {
	return m.name
}

// Names returns the current file list, regenerating it if needed.
func (m *Manifest) Names() ([]string, error) {
	m.mu.RLock()
	if m.valid {
		names := m.names
		m.mu.RUnlock()
		return names, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.valid {
		return m.names, nil
	}

	names, err := Generate(m.root, m.name, m.patterns)
	if err != nil {
		return nil, err
	}
	log.LogWithFields(log.F("directory", m.root), log.F("count", len(names))).Debug("Manifest generated")
	m.names = names
	m.valid = true
	return names, nil
}

// Invalidate drops the cached list.
func (m *Manifest) Invalidate() {
	m.mu.Lock()
	m.valid = false
	m.mu.Unlock()
}

// Bytes returns the manifest encoded as a JSON array.
func (m *Manifest) Bytes() ([]byte, error) {
	names, err := m.Names()
	if err != nil {
		return nil, err
	}
	return json.Marshal(names)
}

// Write generates the manifest and stores it at its path under the root.
// It returns the file written.
func (m *Manifest) Write() (string, error) {
	m.Invalidate()
	data, err := m.Bytes()
	if err != nil {
		return "", err
	}

	target := filepath.Join(m.root, filepath.FromSlash(m.name))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", errors.NewFileError("cannot create manifest directory", target, errors.FileOperationFailed, err)
	}
	if err := os.WriteFile(target, append(data, '\n'), 0644); err != nil {
		return "", errors.NewFileError("cannot write manifest", target, errors.FileOperationFailed, err)
	}
	return target, nil
}
