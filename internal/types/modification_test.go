// Package types provides type definitions for structured data used throughout the resume-studio system.
package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModificationBatch(t *testing.T) {
	input := `[
		{"action": "update", "target": "personalInfo", "field": "title", "value": "Staff Engineer"},
		{"action": "move", "target": "section", "sectionIndex": 2, "toIndex": 0},
		{"action": "update", "target": "item", "sectionIndex": 1, "itemIndex": 0,
		 "field": "bullets", "value": [{"text": "A"}, "B"], "confidence": 0.9}
	]`

	mods, err := ParseModificationBatch([]byte(input))
	require.NoError(t, err)
	require.Len(t, mods, 3)

	assert.Equal(t, ActionUpdate, mods[0].Action)
	assert.Equal(t, TargetPersonalInfo, mods[0].Target)
	assert.Equal(t, "title", mods[0].Field)
	assert.Nil(t, mods[0].SectionIndex)

	require.NotNil(t, mods[1].SectionIndex)
	require.NotNil(t, mods[1].ToIndex)
	assert.Equal(t, 2, *mods[1].SectionIndex)
	assert.Equal(t, 0, *mods[1].ToIndex)

	// Unknown extra fields ("confidence") are ignored; value stays raw.
	assert.Equal(t, TargetItem, mods[2].Target)
	assert.JSONEq(t, `[{"text":"A"},"B"]`, string(mods[2].Value))
}

func TestParseModificationBatch_RejectsNonArray(t *testing.T) {
	_, err := ParseModificationBatch([]byte(`{"action":"add"}`))
	assert.Error(t, err)
}

func TestResumeModification_IndexZeroIsDistinctFromMissing(t *testing.T) {
	var mod ResumeModification
	err := json.Unmarshal([]byte(`{"action":"delete","target":"section","sectionIndex":0}`), &mod)
	require.NoError(t, err)
	require.NotNil(t, mod.SectionIndex)
	assert.Equal(t, 0, *mod.SectionIndex)

	var bare ResumeModification
	err = json.Unmarshal([]byte(`{"action":"delete","target":"section"}`), &bare)
	require.NoError(t, err)
	assert.Nil(t, bare.SectionIndex)
}

func TestResumeModification_String(t *testing.T) {
	idx, to := 2, 0
	mod := ResumeModification{Action: ActionMove, Target: TargetSection, SectionIndex: &idx, ToIndex: &to}
	assert.Equal(t, "move section section=2 to=0", mod.String())
}
