package components

import (
	"fmt"
	"strings"
	"testing"

	"jsonview/internal/document"
	"jsonview/internal/errors"
	"jsonview/pkg/testutils"

	"github.com/stretchr/testify/assert"
)

func TestContentViewEmpty(t *testing.T) {
	c := NewContentView(false, "")
	c.SetSize(40, 10)

	assert.False(t, c.HeaderVisible())
	assert.Equal(t, "", c.Header())
	assert.Contains(t, testutils.StripANSI(c.View()), "Select a file to view its contents")
}

func TestContentViewDocument(t *testing.T) {
	c := NewContentView(false, "")
	c.SetSize(40, 10)

	c.SetDocument(&document.Document{Name: "a.json", Text: "{\n  \"x\": 1\n}"})
	assert.True(t, c.HeaderVisible())
	assert.Equal(t, "a.json", testutils.StripANSI(c.Header()))
	assert.Equal(t, "{\n  \"x\": 1\n}", c.Text())
	assert.Contains(t, testutils.StripANSI(c.View()), `"x": 1`)
}

func TestContentViewHighlight(t *testing.T) {
	c := NewContentView(true, "monokai")
	c.SetSize(40, 10)
	c.SetDocument(&document.Document{Name: "a.json", Text: "{\n  \"x\": 1\n}"})

	// the plain text is kept even when the view is colored
	assert.Equal(t, "{\n  \"x\": 1\n}", c.Text())
	assert.Contains(t, testutils.StripANSI(c.View()), `"x": 1`)
}

func TestContentViewError(t *testing.T) {
	c := NewContentView(false, "")
	c.SetSize(60, 10)
	c.SetDocument(&document.Document{Name: "a.json", Text: "{}"})

	le := errors.NewFileLoadError("b.json", errors.NewStatusError(404, "404 Not Found", "http://x/b.json"))
	c.SetError(le)

	out := testutils.StripANSI(c.View())
	assert.Contains(t, out, "Error loading b.json")
	assert.Contains(t, out, "unexpected status 404 Not Found")
	assert.Same(t, le, c.Failure())

	// the header still names the last file that loaded
	assert.Equal(t, "a.json", c.HeaderName())

	c.SetDocument(&document.Document{Name: "c.json", Text: "[]"})
	assert.Nil(t, c.Failure())
	assert.NotContains(t, testutils.StripANSI(c.View()), "Error loading")
}

func TestContentViewScroll(t *testing.T) {
	c := NewContentView(false, "")
	c.SetSize(40, 3)

	lines := make([]string, 20)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	c.SetDocument(&document.Document{Name: "long.json", Text: strings.Join(lines, "\n")})
	assert.Equal(t, 0, c.Offset())

	c.ScrollDown(2)
	assert.Equal(t, 2, c.Offset())
	c.GotoBottom()
	assert.Equal(t, 17, c.Offset())
	c.GotoTop()
	assert.Equal(t, 0, c.Offset())

	// a new document starts at the top
	c.ScrollDown(5)
	c.SetDocument(&document.Document{Name: "long.json", Text: strings.Join(lines, "\n")})
	assert.Equal(t, 0, c.Offset())
}

func TestStatusBar(t *testing.T) {
	s := NewStatusBar()
	assert.Equal(t, "", s.View())

	s.SetLoading(true)
	s.SetLoading(true)
	s.SetText("Loading a.json…")
	assert.True(t, s.Loading())
	assert.Contains(t, testutils.StripANSI(s.View()), "Loading a.json…")

	s.SetLoading(false)
	assert.True(t, s.Loading())
	s.SetLoading(false)
	s.SetLoading(false)
	assert.False(t, s.Loading())

	s.SetSuccess("Saved a.json")
	assert.Equal(t, "Saved a.json", testutils.StripANSI(s.View()))
	s.SetErrorText("Download failed")
	assert.Equal(t, "Download failed", s.Text())
}
