package tui_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/scenesmith/scenesmith/internal/presentation/tui"
	"github.com/scenesmith/scenesmith/pkg/domain"
	"github.com/scenesmith/scenesmith/pkg/ports"
)

func TestProjectMarkdown(t *testing.T) {
	character := uuid.New()
	prop := uuid.New()

	h := &domain.GenerationHistory{}
	h.AppendImage("a lantern", "blob:img-1", domain.ImageParams{})

	p := domain.NewProject("tavern")
	p.Environment = map[string]any{"skybox": "dusk"}
	p.Entities = []domain.EntityRecord{
		{UUID: character, Kind: domain.KindCharacter, Name: "innkeeper", Transform: domain.IdentityTransform()},
		{
			UUID: prop, Kind: domain.KindGenerative, Name: "lantern",
			Transform: domain.IdentityTransform(),
			Bone:      &domain.BoneAttachment{CharacterID: character, Bone: "hand_l"},
			History:   h,
		},
	}

	out := tui.ProjectMarkdown(p)

	checks := []string{
		"# Project tavern",
		"2 entities",
		"| innkeeper | character |",
		"1 (current 1/1)",
		"innkeeper · bone hand_l",
		"opaque environment state",
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestProjectMarkdown_UnknownParentFallsBackToUUID(t *testing.T) {
	parent := uuid.New()
	p := domain.NewProject("")
	p.Entities = []domain.EntityRecord{
		{UUID: uuid.New(), Kind: domain.KindShape, Transform: domain.IdentityTransform(), Parent: parent},
	}

	out := tui.ProjectMarkdown(p)
	if !strings.Contains(out, "# Project (unnamed)") {
		t.Errorf("unnamed project placeholder missing:\n%s", out)
	}
	if !strings.Contains(out, parent.String()[:8]) {
		t.Errorf("dangling parent should show its short uuid:\n%s", out)
	}
}

func TestHistoryMarkdown(t *testing.T) {
	h := &domain.GenerationHistory{}
	img := h.AppendImage("a crate", "blob:img-1", domain.ImageParams{})
	if _, err := h.AppendModel("blob:mdl-1", img.ID); err != nil {
		t.Fatalf("append model: %v", err)
	}
	h.StepTo(img.ID)

	out := tui.HistoryMarkdown("crate", h)

	checks := []string{
		"# Generation history of crate",
		"2 entries, cursor at 1.",
		`"a crate"`,
		"from #1",
		"| 1 | ▶ | image |",
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestHistoryMarkdown_Empty(t *testing.T) {
	out := tui.HistoryMarkdown("fresh", nil)
	if !strings.Contains(out, "No generations yet.") {
		t.Errorf("empty placeholder missing:\n%s", out)
	}
}

func TestPresetMarkdown(t *testing.T) {
	out := tui.PresetMarkdown(&ports.Preset{
		ID:          "props/barrel",
		Name:        "Oak Barrel",
		Description: "A weathered oak barrel.",
		Kind:        domain.KindGenerative,
		FileURL:     "mem://library/barrel.glb",
		Tags:        []string{"prop", "container"},
		Transform:   domain.IdentityTransform(),
	})

	checks := []string{
		"# Preset props/barrel",
		"**Name**: Oak Barrel",
		"**Tags**: prop, container",
		"mem://library/barrel.glb",
		"scale (1, 1, 1)",
		"A weathered oak barrel.",
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
