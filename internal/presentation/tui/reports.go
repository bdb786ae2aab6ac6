package tui

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/scenesmith/scenesmith/pkg/domain"
	"github.com/scenesmith/scenesmith/pkg/ports"
)

// Markdown report builders for the CLI surfaces. The output goes through
// the glamour renderer on terminals and is readable as-is when piped.

// ProjectMarkdown builds the inspection report for a project document.
func ProjectMarkdown(p *domain.Project) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Project %s\n\n", displayName(p.Name))
	fmt.Fprintf(&sb, "Document version %s · %d entities\n\n", p.Version, len(p.Entities))

	if len(p.Entities) > 0 {
		sb.WriteString("| Entity | Kind | UUID | Generations | Attached to |\n")
		sb.WriteString("|---|---|---|---|---|\n")
		for _, rec := range p.Entities {
			fmt.Fprintf(&sb, "| %s | %s | `%s` | %s | %s |\n",
				displayName(rec.Name), rec.Kind, shortUUID(rec.UUID),
				historyCell(rec.History), attachmentCell(p, rec))
		}
		sb.WriteString("\n")
	}

	var blobs []string
	if len(p.Environment) > 0 {
		blobs = append(blobs, "environment")
	}
	if len(p.RenderSettings) > 0 {
		blobs = append(blobs, "render settings")
	}
	if len(p.Timeline) > 0 {
		blobs = append(blobs, "timeline")
	}
	if len(blobs) > 0 {
		fmt.Fprintf(&sb, "Carries opaque %s state.\n", strings.Join(blobs, ", "))
	}
	return sb.String()
}

// HistoryMarkdown builds the chronological report of an entity's
// generation log. The current entry is marked; derivation sources are
// referenced by their chronological number.
func HistoryMarkdown(entityName string, h *domain.GenerationHistory) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Generation history of %s\n\n", displayName(entityName))

	if h == nil || len(h.Entries) == 0 {
		sb.WriteString("No generations yet.\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "%d entries, cursor at %d.\n\n", h.Len(), h.CurrentIndex()+1)
	sb.WriteString("| # | | Type | Entry | Source | File |\n")
	sb.WriteString("|---|---|---|---|---|---|\n")
	for i, e := range h.Entries {
		marker := ""
		if e.ID == h.CurrentID {
			marker = "▶"
		}
		fmt.Fprintf(&sb, "| %d | %s | %s | `%s` | %s | %s |\n",
			i+1, marker, e.Kind, e.ID, sourceCell(h, e), e.FileURL)
	}
	return sb.String()
}

// PresetMarkdown builds the inspection report for a catalog preset.
func PresetMarkdown(p *ports.Preset) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Preset %s\n\n", p.ID)
	fmt.Fprintf(&sb, "- **Name**: %s\n", displayName(p.Name))
	fmt.Fprintf(&sb, "- **Kind**: %s\n", p.Kind)
	if p.FileURL != "" {
		fmt.Fprintf(&sb, "- **Asset**: %s\n", p.FileURL)
	}
	if len(p.Tags) > 0 {
		fmt.Fprintf(&sb, "- **Tags**: %s\n", strings.Join(p.Tags, ", "))
	}
	t := p.Transform
	fmt.Fprintf(&sb, "- **Placement**: pos %s, rot %s, scale %s\n",
		vec(t.Position), vec(t.Rotation), vec(t.Scale))
	if p.Description != "" {
		fmt.Fprintf(&sb, "\n%s\n", p.Description)
	}
	return sb.String()
}

func displayName(name string) string {
	if name == "" {
		return "(unnamed)"
	}
	return name
}

func shortUUID(id uuid.UUID) string {
	return id.String()[:8]
}

func vec(v domain.Vec3) string {
	return fmt.Sprintf("(%.2g, %.2g, %.2g)", v.X, v.Y, v.Z)
}

func historyCell(h *domain.GenerationHistory) string {
	if h == nil || h.Len() == 0 {
		return "—"
	}
	return fmt.Sprintf("%d (current %d/%d)", h.Len(), h.CurrentIndex()+1, h.Len())
}

func attachmentCell(p *domain.Project, rec domain.EntityRecord) string {
	switch {
	case rec.Bone != nil:
		return fmt.Sprintf("%s · bone %s", peerName(p, rec.Bone.CharacterID), rec.Bone.Bone)
	case rec.Parent != uuid.Nil:
		return peerName(p, rec.Parent)
	}
	return "—"
}

func peerName(p *domain.Project, id uuid.UUID) string {
	for _, rec := range p.Entities {
		if rec.UUID == id {
			return displayName(rec.Name)
		}
	}
	return shortUUID(id)
}

func sourceCell(h *domain.GenerationHistory, e domain.GenerationEntry) string {
	if e.DerivedFrom == "" {
		if e.Prompt != "" {
			return fmt.Sprintf("%q", e.Prompt)
		}
		return "—"
	}
	if i := h.IndexOf(e.DerivedFrom); i >= 0 {
		return fmt.Sprintf("from #%d", i+1)
	}
	return fmt.Sprintf("from `%s`", e.DerivedFrom)
}
