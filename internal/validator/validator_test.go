package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenesmith/scenesmith/pkg/domain"
)

func record(kind domain.EntityKind, name string) domain.EntityRecord {
	return domain.EntityRecord{
		UUID:      uuid.New(),
		Kind:      kind,
		Name:      name,
		Transform: domain.IdentityTransform(),
	}
}

func codes(findings []Finding) []string {
	out := make([]string, len(findings))
	for i, f := range findings {
		out[i] = f.Code
	}
	return out
}

func TestValidate_SoundDocument(t *testing.T) {
	character := record(domain.KindCharacter, "hero")
	sword := record(domain.KindGenerative, "sword")
	sword.Bone = &domain.BoneAttachment{CharacterID: character.UUID, Bone: "hand_r"}

	h := &domain.GenerationHistory{}
	img := h.AppendImage("a longsword", "blob:sword.png", domain.ImageParams{})
	_, err := h.AppendModel("blob:sword.glb", img.ID)
	require.NoError(t, err)
	sword.History = h

	crate := record(domain.KindShape, "crate")
	crate.Parent = character.UUID

	project := domain.NewProject("arena")
	project.Entities = []domain.EntityRecord{character, sword, crate}

	findings := Validate(project)
	assert.Empty(t, findings)
	assert.False(t, HasErrors(findings))
}

func TestValidate_NilDocument(t *testing.T) {
	findings := Validate(nil)
	require.Len(t, findings, 1)
	assert.Equal(t, CodeEmptyDocument, findings[0].Code)
	assert.True(t, HasErrors(findings))
}

func TestValidate_MissingVersionIsWarning(t *testing.T) {
	project := &domain.Project{Entities: []domain.EntityRecord{record(domain.KindShape, "box")}}

	findings := Validate(project)
	require.Len(t, findings, 1)
	assert.Equal(t, CodeNoVersion, findings[0].Code)
	assert.Equal(t, SeverityWarning, findings[0].Severity)
	assert.False(t, HasErrors(findings))
}

func TestValidate_DuplicateUUID(t *testing.T) {
	a := record(domain.KindShape, "first")
	b := a
	b.Name = "second"

	project := domain.NewProject("dup")
	project.Entities = []domain.EntityRecord{a, b}

	findings := Validate(project)
	assert.Contains(t, codes(findings), CodeDuplicateUUID)
}

func TestValidate_RecordInvariantsSurface(t *testing.T) {
	// Shape entities cannot carry a generation history; the bad entry log
	// also trips the history check.
	bad := record(domain.KindShape, "impossible")
	bad.History = &domain.GenerationHistory{CurrentID: "missing"}

	unidentified := domain.EntityRecord{Kind: domain.KindShape, Transform: domain.IdentityTransform()}

	project := domain.NewProject("broken")
	project.Entities = []domain.EntityRecord{bad, unidentified}

	findings := Validate(project)
	got := codes(findings)
	assert.Contains(t, got, CodeRecordInvalid)
	// Both records are individually invalid.
	count := 0
	for _, c := range got {
		if c == CodeRecordInvalid {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestValidate_ReferenceResolution(t *testing.T) {
	orphan := record(domain.KindShape, "orphan")
	orphan.Parent = uuid.New() // never added

	narcissist := record(domain.KindShape, "self")
	narcissist.Parent = narcissist.UUID

	floating := record(domain.KindGenerative, "floating")
	floating.Bone = &domain.BoneAttachment{CharacterID: uuid.New(), Bone: "head"}

	shape := record(domain.KindShape, "table")
	misattached := record(domain.KindGenerative, "cup")
	misattached.Bone = &domain.BoneAttachment{CharacterID: shape.UUID, Bone: "leg"}

	project := domain.NewProject("refs")
	project.Entities = []domain.EntityRecord{orphan, narcissist, floating, shape, misattached}

	got := codes(Validate(project))
	assert.Contains(t, got, CodeMissingParent)
	assert.Contains(t, got, CodeSelfParent)
	assert.Contains(t, got, CodeMissingBoneTarget)
	assert.Contains(t, got, CodeBoneTargetNotCharacter)
	assert.NotContains(t, got, CodeParentCycle, "self-parent should not double-report as a cycle")
}

func TestValidate_ParentCycle(t *testing.T) {
	a := record(domain.KindShape, "a")
	b := record(domain.KindShape, "b")
	c := record(domain.KindShape, "c")
	a.Parent = b.UUID
	b.Parent = c.UUID
	c.Parent = a.UUID

	// d hangs off the cycle but is not part of it.
	d := record(domain.KindShape, "d")
	d.Parent = a.UUID

	project := domain.NewProject("loop")
	project.Entities = []domain.EntityRecord{a, b, c, d}

	findings := Validate(project)
	cycles := 0
	for _, f := range findings {
		if f.Code == CodeParentCycle {
			cycles++
		}
	}
	assert.Equal(t, 1, cycles, "one finding per cycle")
}

func TestFinding_String(t *testing.T) {
	id := uuid.New()
	f := Finding{Severity: SeverityError, Code: CodeMissingParent, Entity: id, Message: "gone"}
	assert.Contains(t, f.String(), id.String())
	assert.Contains(t, f.String(), "missing_parent")

	doc := Finding{Severity: SeverityWarning, Code: CodeNoVersion, Message: "no stamp"}
	assert.NotContains(t, doc.String(), "entity")
}
