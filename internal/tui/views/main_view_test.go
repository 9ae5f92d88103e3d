package views

import (
	"testing"

	"jsonview/internal/tui/common"
	"jsonview/pkg/testutils"
	"jsonview/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock model for testing
type mockModel struct {
	width    int
	height   int
	focus    common.Focus
	list     string
	header   string
	content  string
	status   string
	showHelp bool
}

func (m *mockModel) Title() string        { return "jsonview · http://example.test/" }
func (m *mockModel) Width() int           { return m.width }
func (m *mockModel) Height() int          { return m.height }
func (m *mockModel) Focus() common.Focus  { return m.focus }
func (m *mockModel) ListView() string     { return m.list }
func (m *mockModel) HeaderView() string   { return m.header }
func (m *mockModel) ContentView() string  { return m.content }
func (m *mockModel) StatusView() string   { return m.status }
func (m *mockModel) HelpView() string     { return "enter open • q quit" }
func (m *mockModel) ShowHelp() bool       { return m.showHelp }
func (m *mockModel) FullHelpView() string { return "Quick keys reference" }

func TestRenderMainView(t *testing.T) {
	tests := []struct {
		name     string
		model    *mockModel
		contains []string // Strings that should be present in the output
		excludes []string // Strings that should not be present in the output
	}{
		{
			name: "before first load",
			model: &mockModel{
				width:   80,
				height:  20,
				list:    "No files found",
				content: "Select a file to view its contents",
			},
			contains: []string{
				"jsonview · http://example.test/",
				"No files found",
				"Select a file to view its contents",
				"enter open • q quit",
			},
			excludes: []string{
				"Quick keys reference",
			},
		},
		{
			name: "file loaded",
			model: &mockModel{
				width:   80,
				height:  20,
				list:    "> a.json  ⤓",
				header:  "a.json",
				content: "{\n  \"x\": 1\n}",
				status:  "Loaded a.json (7 B)",
			},
			contains: []string{
				"> a.json",
				`"x": 1`,
				"Loaded a.json (7 B)",
			},
		},
		{
			name: "help screen",
			model: &mockModel{
				width:    80,
				height:   20,
				content:  "hidden body",
				showHelp: true,
			},
			contains: []string{
				"Quick keys reference",
			},
			excludes: []string{
				"hidden body",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := testutils.StripANSI(RenderMainView(tt.model))
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestLayout(t *testing.T) {
	l := NewLayout(100, 30)
	assert.Equal(t, 35, l.ListWidth)
	assert.Equal(t, 65, l.ContentWidth)
	assert.Equal(t, 33, l.ListInnerWidth)
	assert.Equal(t, 25, l.ListInnerHeight)
	assert.Equal(t, 24, l.ContentInnerHeight)

	// narrow terminals keep a usable list
	l = NewLayout(50, 20)
	assert.Equal(t, MinListWidth, l.ListWidth)
	assert.Equal(t, 26, l.ContentWidth)

	x, y, ok := NewLayout(100, 30).InList(1, 2)
	assert.True(t, ok)
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)

	_, _, ok = NewLayout(100, 30).InList(0, 2)
	assert.False(t, ok)
	_, _, ok = NewLayout(100, 30).InList(40, 5)
	assert.False(t, ok)
	assert.True(t, NewLayout(100, 30).InContent(40, 5))
}

func TestRenderHelp(t *testing.T) {
	keys := types.DefaultKeyMap()

	md := HelpMarkdown(keys)
	assert.Contains(t, md, "| `enter` | open |")
	assert.Contains(t, md, "| `D` | download current |")
	assert.Contains(t, md, "| `r` | reload list |")

	out, err := RenderHelp(keys, 60, "notty")
	require.NoError(t, err)
	out = testutils.StripANSI(out)
	assert.Contains(t, out, "download current")
	assert.Contains(t, out, "Navigation")
}
