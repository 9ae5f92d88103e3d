package testutils

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

// CreateTestFilesWithContent creates test files with specific content.
// Names may contain slashes; parent directories are created.
func CreateTestFilesWithContent(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		err := os.WriteFile(p, []byte(content), 0644)
		require.NoError(t, err)
	}
}

// DefaultFiles is a small site: a manifest, one good file and one that is
// not valid JSON.
func DefaultFiles() map[string]string {
	return map[string]string{
		"files.json":    `["a.json","broken.json","nested/c.json"]`,
		"a.json":        `{"x":1}`,
		"broken.json":   `{"x":`,
		"nested/c.json": `[true,null,"s"]`,
	}
}

// CreateTestFilesWithDefault writes DefaultFiles into dir.
func CreateTestFilesWithDefault(t *testing.T, dir string) {
	CreateTestFilesWithContent(t, dir, DefaultFiles())
}

// FixtureServer serves a fixed set of files and answers 404 for anything
// else. It records the paths it was asked for.
type FixtureServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []string
}

// NewFixtureServer starts a server for files, keyed by path without the
// leading slash. It is closed when the test ends.
func NewFixtureServer(t *testing.T, files map[string]string) *FixtureServer {
	t.Helper()
	fs := &FixtureServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/")
		fs.mu.Lock()
		fs.requests = append(fs.requests, name)
		fs.mu.Unlock()

		body, ok := files[name]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(fs.Close)
	return fs
}

// Requests returns the paths requested so far.
func (fs *FixtureServer) Requests() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]string(nil), fs.requests...)
}

// StripANSI removes ANSI escape sequences from a string
func StripANSI(str string) string {
	return ansi.Strip(str)
}
