package browser

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"jsonview/internal/document"
	"jsonview/internal/errors"
	"jsonview/internal/fetch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession(t *testing.T) {
	s := NewSession()

	doc, ok := s.Current()
	assert.False(t, ok)
	assert.Nil(t, doc)
	assert.Equal(t, "", s.CurrentName())

	a := &document.Document{Name: "a.json", Text: "{}"}
	s.Commit(a)
	doc, ok = s.Current()
	assert.True(t, ok)
	assert.Same(t, a, doc)
	assert.Equal(t, "a.json", s.CurrentName())

	// nil never clears the selection
	s.Commit(nil)
	assert.Equal(t, "a.json", s.CurrentName())
}

func TestSessionConcurrentAccess(t *testing.T) {
	s := NewSession()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Commit(&document.Document{Name: "a.json"})
		}()
		go func() {
			defer wg.Done()
			_ = s.CurrentName()
		}()
	}
	wg.Wait()
	assert.Equal(t, "a.json", s.CurrentName())
}

func newDirFixture(t *testing.T) *fetch.DirSource {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.json"), []byte(`{"x":1}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "nested", "b.json"), []byte(`[1,2,3]`), 0644))
	src, err := fetch.NewDirSource(root)
	require.NoError(t, err)
	return src
}

func TestDownload(t *testing.T) {
	src := newDirFixture(t)
	out := filepath.Join(t.TempDir(), "downloads")
	d := NewDownloader(src, out, CollisionRename)

	saved, err := d.Download(context.Background(), "a.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "a.json"), saved.Path)
	assert.Equal(t, int64(7), saved.Bytes)
	assert.False(t, saved.Skipped)

	content, err := os.ReadFile(saved.Path)
	require.NoError(t, err)
	assert.Equal(t, `{"x":1}`, string(content))

	// Nested names are saved under their last segment
	saved, err = d.Download(context.Background(), "nested/b.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "b.json"), saved.Path)

	// No temp files are left behind
	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestDownloadCollisions(t *testing.T) {
	src := newDirFixture(t)

	t.Run("rename", func(t *testing.T) {
		out := t.TempDir()
		d := NewDownloader(src, out, CollisionRename)
		for _, want := range []string{"a.json", "a (1).json", "a (2).json"} {
			saved, err := d.Download(context.Background(), "a.json")
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(out, want), saved.Path)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		out := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(out, "a.json"), []byte("old"), 0644))

		saved, err := NewDownloader(src, out, CollisionOverwrite).Download(context.Background(), "a.json")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(out, "a.json"), saved.Path)

		content, err := os.ReadFile(saved.Path)
		require.NoError(t, err)
		assert.Equal(t, `{"x":1}`, string(content))
	})

	t.Run("skip", func(t *testing.T) {
		out := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(out, "a.json"), []byte("old"), 0644))

		saved, err := NewDownloader(src, out, CollisionSkip).Download(context.Background(), "a.json")
		require.NoError(t, err)
		assert.True(t, saved.Skipped)

		content, err := os.ReadFile(filepath.Join(out, "a.json"))
		require.NoError(t, err)
		assert.Equal(t, "old", string(content))
	})
}

func TestDownloadErrors(t *testing.T) {
	src := newDirFixture(t)
	out := t.TempDir()
	d := NewDownloader(src, out, "")

	_, err := d.Download(context.Background(), "missing.json")
	require.Error(t, err)
	assert.Equal(t, errors.DownloadFailed, errors.KindOf(err))

	for _, name := range []string{"", "..", "/"} {
		_, err = d.Download(context.Background(), name)
		assert.True(t, errors.IsInvalidPath(err), "name %q", name)
	}

	// Failed downloads leave nothing behind
	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDownloadCurrent(t *testing.T) {
	src := newDirFixture(t)
	out := t.TempDir()
	d := NewDownloader(src, out, CollisionRename)
	s := NewSession()

	// Nothing selected: no action, no error
	saved, err := d.DownloadCurrent(context.Background(), s)
	require.NoError(t, err)
	assert.Nil(t, saved)
	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)

	s.Commit(&document.Document{Name: "a.json"})
	saved, err = d.DownloadCurrent(context.Background(), s)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, filepath.Join(out, "a.json"), saved.Path)
}
