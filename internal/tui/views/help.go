package views

import (
	"fmt"
	"strings"

	"jsonview/pkg/types"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/glamour"
)

// HelpMarkdown lists every binding as a markdown table.
func HelpMarkdown(keys types.KeyMap) string {
	var sb strings.Builder
	sb.WriteString("# Keys\n\n")

	sections := []string{"Navigation", "Files", "General"}
	for i, group := range keys.FullHelp() {
		fmt.Fprintf(&sb, "## %s\n\n| Key | Action |\n| --- | --- |\n", sections[i])
		for _, b := range group {
			writeBinding(&sb, b)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Click a name to open it, click `⤓` to download it.\n")
	return sb.String()
}

func writeBinding(sb *strings.Builder, b key.Binding) {
	h := b.Help()
	fmt.Fprintf(sb, "| `%s` | %s |\n", h.Key, h.Desc)
}

// RenderHelp renders the key reference with glamour. style is a glamour
// standard style such as "dark", "light" or "notty".
func RenderHelp(keys types.KeyMap, width int, style string) (string, error) {
	if style == "" {
		style = "dark"
	}
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(HelpMarkdown(keys))
}
