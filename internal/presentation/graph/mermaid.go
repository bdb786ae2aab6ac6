// Package graph renders generation histories as Mermaid flowcharts.
//
// Each entry in the log becomes a node, derivation links become edges,
// and the cursor entry is highlighted. The output pastes directly into
// any Mermaid-aware viewer.
package graph

import (
	"fmt"
	"strings"

	"github.com/scenesmith/scenesmith/pkg/domain"
)

const maxLabelLen = 28

// RenderHistory produces Mermaid flowchart syntax for an entity's
// generation log. Image entries render as rectangles, derived models as
// subroutine boxes. Entries are numbered in chronological order.
func RenderHistory(entityName string, h *domain.GenerationHistory) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if entityName != "" {
		fmt.Fprintf(&sb, "    %%%% generation history of %s\n", entityName)
	}

	if h == nil || len(h.Entries) == 0 {
		sb.WriteString("    empty[\"no generations yet\"]\n")
		return sb.String()
	}

	for i, entry := range h.Entries {
		id := nodeID(entry.ID)

		opener, closer := "[", "]"
		if entry.Kind == domain.AssetModel {
			opener, closer = "[[", "]]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, label(i, entry), closer)

		if entry.DerivedFrom != "" {
			fmt.Fprintf(&sb, "    %s --> %s\n", nodeID(entry.DerivedFrom), id)
		}
	}

	// Highlight the cursor entry.
	sb.WriteString("\n    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:3px,color:#000;\n")
	if h.CurrentID != "" {
		fmt.Fprintf(&sb, "    class %s current;\n", nodeID(h.CurrentID))
	}

	return sb.String()
}

// label builds the node text: chronological index, asset kind, and a
// truncated prompt or file reference.
func label(index int, entry domain.GenerationEntry) string {
	detail := entry.Prompt
	if detail == "" {
		detail = entry.FileURL
	}
	if len(detail) > maxLabelLen {
		detail = detail[:maxLabelLen-3] + "..."
	}
	// Mermaid labels cannot carry double quotes.
	detail = strings.ReplaceAll(detail, "\"", "'")

	if detail == "" {
		return fmt.Sprintf("#%d %s", index+1, entry.Kind)
	}
	return fmt.Sprintf("#%d %s<br/>%s", index+1, entry.Kind, detail)
}

// nodeID maps an entry ID onto Mermaid's identifier alphabet.
func nodeID(id string) string {
	var sb strings.Builder
	sb.WriteString("e_")
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}
