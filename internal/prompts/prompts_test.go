package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChatEdit_PinsWireShape(t *testing.T) {
	prompt := ChatEdit(`{"personalInfo":{"name":"Ada"},"sections":[]}`, "make the summary punchier")

	assert.Contains(t, prompt, `"action": "add|update|delete|replace|move"`)
	assert.Contains(t, prompt, `"target": "personalInfo|section|item|bullet"`)
	assert.Contains(t, prompt, "make the summary punchier")
	assert.Contains(t, prompt, "Return ONLY the JSON array")
}

func TestAnalysis_IncludesBothDocuments(t *testing.T) {
	prompt := Analysis(`{"resume":true}`, "We need a Go engineer.")
	assert.Contains(t, prompt, `{"resume":true}`)
	assert.Contains(t, prompt, "We need a Go engineer.")
	assert.Contains(t, prompt, `"matchScore"`)
}

func TestCoverLetter_DefaultTone(t *testing.T) {
	prompt := CoverLetter("{}", "posting", "")
	assert.Contains(t, prompt, "professional and direct")

	custom := CoverLetter("{}", "posting", "warm and curious")
	assert.Contains(t, custom, "warm and curious")
}

func TestSkillMap_Contract(t *testing.T) {
	prompt := SkillMap("{}", "posting")
	assert.Contains(t, prompt, `"matched"`)
	assert.Contains(t, prompt, `"partial"`)
	assert.Contains(t, prompt, `"missing"`)
}
