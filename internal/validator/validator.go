// Package validator runs integrity checks over exported project
// documents.
//
// Per-record invariants live on domain.EntityRecord.Validate; this
// package adds the cross-entity checks that need the whole document
// (reference resolution, kind of referenced targets, parent cycles) and
// reports everything as typed findings instead of a single error, so the
// CLI can print a full report in one pass.
package validator

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/scenesmith/scenesmith/pkg/domain"
)

// Severity grades a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding codes, stable for machine consumption.
const (
	CodeEmptyDocument          = "empty_document"
	CodeNoVersion              = "no_version"
	CodeDuplicateUUID          = "duplicate_uuid"
	CodeRecordInvalid          = "record_invalid"
	CodeMissingParent          = "missing_parent"
	CodeSelfParent             = "self_parent"
	CodeMissingBoneTarget      = "missing_bone_target"
	CodeBoneTargetNotCharacter = "bone_target_not_character"
	CodeParentCycle            = "parent_cycle"
)

// Finding is one integrity problem in a document.
type Finding struct {
	Severity Severity  `json:"severity"`
	Code     string    `json:"code"`
	Entity   uuid.UUID `json:"entityId,omitzero"`
	Message  string    `json:"message"`
}

func (f Finding) String() string {
	if f.Entity == uuid.Nil {
		return fmt.Sprintf("%s[%s] %s", f.Severity, f.Code, f.Message)
	}
	return fmt.Sprintf("%s[%s] entity %s: %s", f.Severity, f.Code, f.Entity, f.Message)
}

// HasErrors reports whether any finding is error-grade.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate inspects a project document and returns every finding, in
// document order. An empty result means the document is sound.
func Validate(project *domain.Project) []Finding {
	if project == nil {
		return []Finding{{
			Severity: SeverityError,
			Code:     CodeEmptyDocument,
			Message:  "no document",
		}}
	}

	var findings []Finding
	report := func(sev Severity, code string, entity uuid.UUID, format string, args ...any) {
		findings = append(findings, Finding{
			Severity: sev,
			Code:     code,
			Entity:   entity,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	if project.Version == "" {
		report(SeverityWarning, CodeNoVersion, uuid.Nil, "document carries no version stamp")
	}

	// 1. Index records by UUID; the first occurrence wins, duplicates
	// are flagged and skipped from reference resolution.
	index := make(map[uuid.UUID]*domain.EntityRecord, len(project.Entities))
	for i := range project.Entities {
		record := &project.Entities[i]
		if record.UUID == uuid.Nil {
			continue // flagged below through record.Validate
		}
		if _, dup := index[record.UUID]; dup {
			report(SeverityError, CodeDuplicateUUID, record.UUID,
				"uuid also used by an earlier record")
			continue
		}
		index[record.UUID] = record
	}

	// 2. Record-local invariants (kinds, UUID presence, exclusivity,
	// history structure, derivation links).
	for i := range project.Entities {
		record := &project.Entities[i]
		if err := record.Validate(); err != nil {
			report(SeverityError, CodeRecordInvalid, record.UUID, "%v", err)
		}
	}

	// 3. Reference resolution.
	for i := range project.Entities {
		record := &project.Entities[i]

		if record.Parent != uuid.Nil {
			switch {
			case record.Parent == record.UUID:
				report(SeverityError, CodeSelfParent, record.UUID, "entity is its own parent")
			default:
				if _, ok := index[record.Parent]; !ok {
					report(SeverityError, CodeMissingParent, record.UUID,
						"parent %s is not in the document", record.Parent)
				}
			}
		}

		if record.Bone != nil && record.Bone.CharacterID != uuid.Nil {
			target, ok := index[record.Bone.CharacterID]
			switch {
			case !ok:
				report(SeverityError, CodeMissingBoneTarget, record.UUID,
					"bone target %s is not in the document", record.Bone.CharacterID)
			case !target.Kind.HasSkeleton():
				report(SeverityError, CodeBoneTargetNotCharacter, record.UUID,
					"bone %q targets a %s entity", record.Bone.Bone, target.Kind)
			}
		}
	}

	// 4. Parent chains must terminate. Each record has at most one
	// outgoing edge, so walking the chain with a state map finds loops
	// without recursion.
	findings = append(findings, findCycles(project, index)...)

	return findings
}

type chainState int

const (
	chainUnvisited chainState = iota
	chainWalking
	chainClean
	chainCyclic
)

func parentEdge(record *domain.EntityRecord) uuid.UUID {
	if record.Parent != uuid.Nil {
		return record.Parent
	}
	if record.Bone != nil {
		return record.Bone.CharacterID
	}
	return uuid.Nil
}

func findCycles(project *domain.Project, index map[uuid.UUID]*domain.EntityRecord) []Finding {
	var findings []Finding
	state := make(map[uuid.UUID]chainState, len(index))

	for i := range project.Entities {
		start := project.Entities[i].UUID
		if start == uuid.Nil || state[start] != chainUnvisited {
			continue
		}

		var path []uuid.UUID
		verdict := chainClean

		cur := start
		for {
			switch state[cur] {
			case chainClean:
			case chainCyclic:
				verdict = chainCyclic
			case chainWalking:
				// The chain re-entered itself within this walk.
				verdict = chainCyclic
				findings = append(findings, Finding{
					Severity: SeverityError,
					Code:     CodeParentCycle,
					Entity:   cur,
					Message:  "parent chain loops back to this entity",
				})
			default:
				state[cur] = chainWalking
				path = append(path, cur)

				next := parentEdge(index[cur])
				if next == cur {
					// Self-parenting is reported separately.
					verdict = chainCyclic
				} else if next != uuid.Nil {
					if _, ok := index[next]; ok {
						cur = next
						continue
					}
				}
			}
			break
		}

		for _, id := range path {
			state[id] = verdict
		}
	}

	return findings
}
