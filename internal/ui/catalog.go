// Package ui renders perso's terminal output: the tool catalog and the
// embedded prompts.
package ui

import (
	"fmt"
	"sort"
	"strings"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/muesli/reflow/wordwrap"
)

// RenderToolCatalog lists tools with their parameters. Unless full is set
// only the first paragraph of each description is shown, which keeps the
// inline prompts out of the listing.
func RenderToolCatalog(title string, tools []mcpgo.Tool, width int, full bool) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(title) + "\n\n")

	if len(tools) == 0 {
		b.WriteString(FaintStyle.Render("(no tools registered)") + "\n")
		return b.String()
	}

	for _, tool := range tools {
		b.WriteString(NameStyle.Render(tool.Name))
		if params := formatParams(tool.InputSchema); params != "" {
			b.WriteString(" " + FaintStyle.Render(params))
		}
		b.WriteString("\n")

		desc := tool.Description
		if !full {
			desc = firstParagraph(desc)
		}
		b.WriteString(indent(wrapText(desc, width-2), "  ") + "\n\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// formatParams renders "(name type, ...)", required parameters first, then
// optional ones marked with "?".
func formatParams(schema mcpgo.ToolInputSchema) string {
	if len(schema.Properties) == 0 {
		return ""
	}

	required := make(map[string]bool, len(schema.Required))
	var parts []string
	for _, name := range schema.Required {
		required[name] = true
		parts = append(parts, name+" "+propertyType(schema.Properties[name]))
	}
	for _, name := range sortedKeys(schema.Properties) {
		if !required[name] {
			parts = append(parts, name+"? "+propertyType(schema.Properties[name]))
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func propertyType(prop any) string {
	if m, ok := prop.(map[string]any); ok {
		if t, ok := m["type"].(string); ok {
			return t
		}
	}
	return "any"
}

func firstParagraph(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.Index(text, "\n"); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}
	return text
}

// wrapText wraps each line of text to width, keeping blank lines.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, " ")
		if line == "" {
			lines[i] = ""
			continue
		}
		lines[i] = wordwrap.String(line, width)
	}
	return strings.Join(lines, "\n")
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Status renders a one-line success or error message.
func Status(err error, success string) string {
	if err != nil {
		return ErrorStyle.Render(fmt.Sprintf("Error: %v", err))
	}
	return OkStyle.Render(success)
}
