package fetch

import (
	"context"
	"encoding/json"
	"io"

	"jsonview/internal/document"
	"jsonview/internal/errors"
	"jsonview/internal/log"
)

// Client loads the manifest and documents from a Source.
type Client struct {
	source   Source
	manifest string
	indent   int
}

// NewClient creates a client reading manifest from source and formatting
// documents with indent spaces.
func NewClient(source Source, manifest string, indent int) *Client {
	return &Client{source: source, manifest: manifest, indent: indent}
}

// Source returns the underlying source, shared with the downloader.
func (c *Client) Source() Source {
	return c.source
}

// Manifest fetches the manifest and decodes it as an ordered list of file
// names. The body must hold exactly one JSON array of strings; anything else
// is returned as a list load error.
func (c *Client) Manifest(ctx context.Context) ([]string, error) {
	log.LogWithFields(log.F("manifest", c.source.Locate(c.manifest))).Debug("Fetching manifest")

	body, err := c.source.Open(ctx, c.manifest)
	if err != nil {
		return nil, errors.NewListLoadError(c.manifest, err)
	}
	defer body.Close()

	dec := json.NewDecoder(body)
	var names []string
	if err := dec.Decode(&names); err != nil {
		if err == io.EOF {
			err = errors.New("empty manifest")
		}
		return nil, errors.NewListLoadError(c.manifest, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.NewListLoadError(c.manifest, errors.New("invalid character after top-level value"))
	}
	// [] decodes to an empty slice, null leaves it nil
	if names == nil {
		return nil, errors.NewListLoadError(c.manifest, errors.New("manifest is null, want an array of file names"))
	}

	return names, nil
}

// Document fetches name and decodes it. Any failure is returned as a file
// load error naming the file.
func (c *Client) Document(ctx context.Context, name string) (*document.Document, error) {
	log.LogWithFields(log.F("file", c.source.Locate(name))).Debug("Fetching file")

	body, err := c.source.Open(ctx, name)
	if err != nil {
		return nil, errors.NewFileLoadError(name, err)
	}
	defer body.Close()

	doc, err := document.Decode(name, body, c.indent)
	if err != nil {
		return nil, errors.NewFileLoadError(name, err)
	}
	return doc, nil
}
