package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/arbor/internal/validator"
	"github.com/aretw0/arbor/pkg/bt"
	"github.com/aretw0/arbor/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart of a built tree from its node states.
// It applies shapes per node kind:
// - Control: [/Trapezoid\]
// - Decorator: [[Subroutine]]
// - Condition: {Rhombus}
// - Action: [Rectangle]
// and colors every node that is not IDLE with its status class.
func GenerateMermaid(states []bt.NodeState) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, s := range states {
		id := fmt.Sprintf("n%d", s.UID)
		sb.WriteString(fmt.Sprintf("    %s\n", shape(id, s.Kind, label(s.Name, s.Type))))
		if s.Parent >= 0 {
			sb.WriteString(fmt.Sprintf("    n%d --> %s\n", s.Parent, id))
		}
	}

	// Status overlay
	sb.WriteString("\n    %% Status Styles\n")
	// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
	sb.WriteString("    classDef running fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
	sb.WriteString("    classDef success fill:#c8e6c9,stroke:#2e7d32,stroke-width:2px,color:#000;\n")
	sb.WriteString("    classDef failure fill:#ffcdd2,stroke:#c62828,stroke-width:2px,color:#000;\n")
	for _, s := range states {
		if s.Status == domain.StatusIdle {
			continue
		}
		sb.WriteString(fmt.Sprintf("    class n%d %s;\n", s.UID, strings.ToLower(s.Status.String())))
	}

	return sb.String()
}

// GenerateDocumentMermaid draws every tree of a document as a subgraph. SubTree
// nodes get a dotted edge to the root of the tree they include. Node kinds come
// from catalog; with a nil catalog they are guessed from the child count.
func GenerateDocumentMermaid(doc *domain.Document, catalog validator.Catalog) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var jumps []string
	for _, tree := range doc.Trees {
		prefix := sanitizeMermaidID(tree.ID)
		sb.WriteString(fmt.Sprintf("    subgraph %s[\"%s\"]\n", prefix, escape(tree.ID)))

		index := 0
		var visit func(n domain.NodeSpec, parent string)
		visit = func(n domain.NodeSpec, parent string) {
			id := fmt.Sprintf("%s_%d", prefix, index)
			index++
			sb.WriteString(fmt.Sprintf("        %s\n", shape(id, specKind(catalog, n), label(n.DisplayName(), n.Type))))
			if parent != "" {
				sb.WriteString(fmt.Sprintf("        %s --> %s\n", parent, id))
			}
			if n.Type == domain.SubTreeType {
				target := n.Ports["id"]
				jumps = append(jumps, fmt.Sprintf("    %s -. \"%s\" .-> %s_0\n", id, escape(target), sanitizeMermaidID(target)))
			}
			for _, c := range n.Children {
				visit(c, id)
			}
		}
		visit(tree.Root, "")
		sb.WriteString("    end\n")
	}

	for _, j := range jumps {
		sb.WriteString(j)
	}
	return sb.String()
}

func specKind(catalog validator.Catalog, n domain.NodeSpec) bt.Kind {
	if catalog != nil {
		if kind, _, ok := catalog.Describe(n.Type); ok {
			return kind
		}
	}
	switch {
	case n.Type == domain.SubTreeType:
		return bt.KindDecorator
	case len(n.Children) > 1:
		return bt.KindControl
	case len(n.Children) == 1:
		return bt.KindDecorator
	}
	return bt.KindAction
}

func shape(id string, kind bt.Kind, text string) string {
	opener, closer := "[", "]"
	switch kind {
	case bt.KindControl:
		opener, closer = "[/", "\\]"
	case bt.KindDecorator:
		opener, closer = "[[", "]]"
	case bt.KindCondition:
		opener, closer = "{", "}"
	}
	return fmt.Sprintf("%s%s\"%s\"%s", id, opener, text, closer)
}

func label(name, typeID string) string {
	if name == "" || name == typeID {
		return escape(typeID)
	}
	return fmt.Sprintf("%s<br/><i>%s</i>", escape(name), escape(typeID))
}

// escape swaps double quotes, which would end a Mermaid label.
func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
