package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/aretw0/arbor/pkg/registry"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() (func(string) (string, error), error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return nil, fmt.Errorf("creating markdown renderer: %w", err)
	}
	return r.Render, nil
}

// CatalogMarkdown lists node types and their ports as markdown.
func CatalogMarkdown(manifests []registry.Manifest) string {
	var sb strings.Builder
	sb.WriteString("# Node types\n")
	for _, m := range manifests {
		sb.WriteString(fmt.Sprintf("\n## %s\n\n*%s*", m.Type, m.Kind))
		if m.Description != "" {
			sb.WriteString(" · " + m.Description)
		}
		sb.WriteString("\n")
		if len(m.Ports) == 0 {
			continue
		}
		sb.WriteString("\n| Port | Required | Default | Description |\n|---|---|---|---|\n")
		for _, p := range m.Ports {
			required := ""
			if p.Required {
				required = "yes"
			}
			sb.WriteString(fmt.Sprintf("| `%s` | %s | %s | %s |\n", p.Name, required, p.Default, p.Description))
		}
	}
	return sb.String()
}

// PrintCatalog writes the catalog to w, rendered for the terminal when w is one.
func PrintCatalog(w io.Writer, manifests []registry.Manifest) error {
	md := CatalogMarkdown(manifests)
	if IsTerminal(w) {
		render, err := NewRenderer()
		if err != nil {
			return err
		}
		if md, err = render(md); err != nil {
			return fmt.Errorf("rendering catalog: %w", err)
		}
	}
	_, err := io.WriteString(w, md)
	return err
}
