// Package types provides type definitions for structured data used throughout the resume-studio system.
package types

import (
	"encoding/json"
	"fmt"
)

// ModAction is the verb of a resume modification.
type ModAction string

// Modification actions.
const (
	ActionAdd     ModAction = "add"
	ActionUpdate  ModAction = "update"
	ActionDelete  ModAction = "delete"
	ActionReplace ModAction = "replace"
	ActionMove    ModAction = "move"
)

// ModTarget is the part of the document a modification addresses.
type ModTarget string

// Modification targets.
const (
	TargetPersonalInfo ModTarget = "personalInfo"
	TargetSection      ModTarget = "section"
	TargetItem         ModTarget = "item"
	TargetBullet       ModTarget = "bullet"
)

// ResumeModification is one typed instruction to alter a resume document,
// as emitted by the generation service. Index fields are pointers so a
// missing index is distinguishable from index zero; a missing required index
// makes that single operation a no-op. Value stays raw until the applier
// decodes it against the (target, action, field) it is used for. Unknown
// extra fields on the wire are ignored.
type ResumeModification struct {
	Action       ModAction       `json:"action"`
	Target       ModTarget       `json:"target"`
	Path         string          `json:"path,omitempty"`
	SectionIndex *int            `json:"sectionIndex,omitempty"`
	ItemIndex    *int            `json:"itemIndex,omitempty"`
	BulletIndex  *int            `json:"bulletIndex,omitempty"`
	ToIndex      *int            `json:"toIndex,omitempty"`
	Field        string          `json:"field,omitempty"`
	Value        json.RawMessage `json:"value,omitempty"`
	NewSection   *ResumeSection  `json:"newSection,omitempty"`
}

// ParseModificationBatch decodes a wire batch: a JSON array of modification
// objects. A malformed batch is a hard parse failure; malformed individual
// operations surface later, as per-operation no-ops during apply.
func ParseModificationBatch(data []byte) ([]ResumeModification, error) {
	var mods []ResumeModification
	if err := json.Unmarshal(data, &mods); err != nil {
		return nil, fmt.Errorf("failed to parse modification batch: %w", err)
	}
	return mods, nil
}

// String renders a compact description for logs.
func (m ResumeModification) String() string {
	s := fmt.Sprintf("%s %s", m.Action, m.Target)
	if m.SectionIndex != nil {
		s += fmt.Sprintf(" section=%d", *m.SectionIndex)
	}
	if m.ItemIndex != nil {
		s += fmt.Sprintf(" item=%d", *m.ItemIndex)
	}
	if m.BulletIndex != nil {
		s += fmt.Sprintf(" bullet=%d", *m.BulletIndex)
	}
	if m.ToIndex != nil {
		s += fmt.Sprintf(" to=%d", *m.ToIndex)
	}
	if m.Field != "" {
		s += " field=" + m.Field
	}
	return s
}
