// Package fetch reads the manifest and the files it lists from a source,
// either an HTTP base URL or a local directory.
package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"jsonview/internal/errors"
)

// Source opens resources by the name they are listed under.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Locate returns where name would be read from, for display.
	Locate(name string) string
}

// NewSource returns an HTTPSource for http(s) bases and a DirSource for
// everything else. A zero timeout disables the per-request deadline.
func NewSource(base string, timeout time.Duration) (Source, error) {
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		return NewHTTPSource(base, &http.Client{Timeout: timeout})
	}
	return NewDirSource(base)
}

// HTTPSource fetches resources relative to a base URL with plain GETs.
type HTTPSource struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPSource parses base and treats its path as a directory.
func NewHTTPSource(base string, client *http.Client) (*HTTPSource, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, errors.NewConfigError("invalid base url", base, errors.InvalidConfig, err)
	}
	if u.Host == "" {
		return nil, errors.NewConfigError("base url has no host", base, errors.InvalidConfig, nil)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
		u.RawPath = ""
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{base: u, client: client}, nil
}

// Locate resolves name against the base. The name is a path, never a full
// URL; characters like '#' or '?' are escaped.
func (s *HTTPSource) Locate(name string) string {
	return s.base.ResolveReference(&url.URL{Path: strings.TrimPrefix(name, "/")}).String()
}

// Open issues a GET for name. Non-2xx answers become a StatusError.
func (s *HTTPSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	target := s.Locate(name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, errors.NewStatusError(resp.StatusCode, resp.Status, target)
	}
	return resp.Body, nil
}

// DirSource reads resources from a directory. Names may contain slashes
// but must stay inside the root.
type DirSource struct {
	root string
}

// NewDirSource checks that root is a directory.
func NewDirSource(root string) (*DirSource, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.NewFileError("cannot access source directory", root, errors.FileNotFound, err)
	}
	if !info.IsDir() {
		return nil, errors.NewFileError("source is not a directory", root, errors.InvalidPath, nil)
	}
	return &DirSource{root: root}, nil
}

// Root returns the directory the source reads from.
func (s *DirSource) Root() string {
	return s.root
}

// Locate returns the local path for name, or the bare name when it would
// escape the root.
func (s *DirSource) Locate(name string) string {
	p, err := s.resolve(name)
	if err != nil {
		return name
	}
	return p
}

// Open opens the file for name.
func (s *DirSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileError("file not found", name, errors.FileNotFound, nil)
		}
		return nil, err
	}
	if info, err := f.Stat(); err == nil && info.IsDir() {
		f.Close()
		return nil, errors.NewFileError("is a directory", name, errors.InvalidPath, nil)
	}
	return f, nil
}

func (s *DirSource) resolve(name string) (string, error) {
	clean := path.Clean(strings.TrimPrefix(name, "/"))
	local := filepath.FromSlash(clean)
	if name == "" || !filepath.IsLocal(local) {
		return "", errors.NewFileError("invalid file name", name, errors.InvalidPath, nil)
	}
	return filepath.Join(s.root, local), nil
}
