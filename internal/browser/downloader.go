package browser

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"jsonview/internal/errors"
	"jsonview/internal/fetch"
	"jsonview/internal/log"
)

// Collision strategies for a download whose target already exists.
const (
	CollisionRename    = "rename"
	CollisionOverwrite = "overwrite"
	CollisionSkip      = "skip"
)

// Saved describes a finished download.
type Saved struct {
	Name    string
	Path    string
	Bytes   int64
	Skipped bool
}

// Downloader saves resources from a source to a local directory, using the
// last segment of the resource name as the file name.
type Downloader struct {
	source    fetch.Source
	dir       string
	collision string
}

// NewDownloader creates a downloader writing into dir.
func NewDownloader(source fetch.Source, dir, collision string) *Downloader {
	if collision == "" {
		collision = CollisionRename
	}
	return &Downloader{source: source, dir: dir, collision: collision}
}

// Download saves name into the download directory.
func (d *Downloader) Download(ctx context.Context, name string) (*Saved, error) {
	base := path.Base(strings.TrimSuffix(name, "/"))
	if name == "" || base == "." || base == "/" || base == ".." {
		return nil, errors.NewFileError("invalid file name", name, errors.InvalidPath, nil)
	}

	target, skip, err := d.target(base)
	if err != nil {
		return nil, err
	}
	if skip {
		log.LogWithFields(log.F("file", name), log.F("path", target)).Info("Download skipped, file exists")
		return &Saved{Name: name, Path: target, Skipped: true}, nil
	}

	body, err := d.source.Open(ctx, name)
	if err != nil {
		return nil, errors.NewFileError("download failed", name, errors.DownloadFailed, err)
	}
	defer body.Close()

	n, err := writeFile(d.dir, target, body)
	if err != nil {
		return nil, errors.NewFileError("cannot save download", target, errors.FileOperationFailed, err)
	}

	log.LogWithFields(log.F("file", name), log.F("path", target), log.F("bytes", n)).Info("Downloaded file")
	return &Saved{Name: name, Path: target, Bytes: n}, nil
}

// Selection is anything that knows the current file name; Session is one.
type Selection interface {
	CurrentName() string
}

// DownloadCurrent saves the selection's current file. With nothing selected
// it does nothing and returns nil, nil.
func (d *Downloader) DownloadCurrent(ctx context.Context, s Selection) (*Saved, error) {
	name := s.CurrentName()
	if name == "" {
		return nil, nil
	}
	return d.Download(ctx, name)
}

// target picks the destination path for base according to the collision
// strategy.
func (d *Downloader) target(base string) (string, bool, error) {
	p := filepath.Join(d.dir, base)
	if _, err := os.Stat(p); os.IsNotExist(err) {
		return p, false, nil
	} else if err != nil {
		return "", false, errors.NewFileError("cannot access download target", p, errors.FileOperationFailed, err)
	}

	switch d.collision {
	case CollisionOverwrite:
		return p, false, nil
	case CollisionSkip:
		return p, true, nil
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for i := 1; ; i++ {
		candidate := filepath.Join(d.dir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, false, nil
		}
	}
}

// writeFile copies r into a temp file in dir and renames it over target.
func writeFile(dir, target string, r io.Reader) (int64, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(dir, ".jsonview-*")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return 0, err
	}
	return n, os.Rename(tmp.Name(), target)
}
