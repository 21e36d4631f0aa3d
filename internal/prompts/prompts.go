// Package prompts builds the prompts sent to the text-generation service.
// Each builder pins the exact output contract the caller parses, so prompt
// and parser stay in one place per feature.
package prompts

import (
	"fmt"
	"strings"
)

// Analysis builds the prompt for scoring a resume against a job posting.
func Analysis(resumeJSON, jobPosting string) string {
	var sb strings.Builder
	sb.WriteString("You are an expert resume reviewer. Compare the resume below against the job posting ")
	sb.WriteString("and produce a concise analysis.\n\n")
	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n")
	sb.WriteString(`{
  "matchScore": number,        // 0-100 overall fit
  "strengths": ["string"],     // what already aligns with the posting
  "gaps": ["string"],          // missing or weak areas
  "suggestions": ["string"]    // concrete, actionable improvements
}`)
	sb.WriteString("\n\nIMPORTANT:\n")
	sb.WriteString("- Base every point on the provided texts, do not invent experience.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation.\n\n")
	writeBlock(&sb, "Resume (JSON)", resumeJSON)
	writeBlock(&sb, "Job posting", jobPosting)
	return sb.String()
}

// Rewrite builds the prompt for generating a tailored resume document.
// The output contract is a full ResumeData object.
func Rewrite(resumeJSON, jobPosting string) string {
	var sb strings.Builder
	sb.WriteString("You are an expert resume writer. Rewrite the resume below so it targets the job posting, ")
	sb.WriteString("keeping every claim truthful to the original content.\n\n")
	sb.WriteString("Return ONLY valid JSON with this exact structure:\n")
	sb.WriteString(`{
  "personalInfo": {"name": "string", "title": "string", "email": "string", "phone": "string", "location": "string", "linkedin": "string", "website": "string"},
  "sections": [
    {"type": "summary|experience|education|skills|projects|certifications", "title": "string",
     "content": "string OR array of {title, subtitle, date, description, bullets: [string]}"}
  ]
}`)
	sb.WriteString("\n\nIMPORTANT:\n")
	sb.WriteString("- Keep section order sensible: summary first, then experience.\n")
	sb.WriteString("- Bullets are plain strings, never objects.\n")
	sb.WriteString("- Return ONLY the JSON object.\n\n")
	writeBlock(&sb, "Resume (JSON)", resumeJSON)
	writeBlock(&sb, "Job posting", jobPosting)
	return sb.String()
}

// CoverLetter builds the prompt for a cover letter draft.
func CoverLetter(resumeJSON, jobPosting, tone string) string {
	if tone == "" {
		tone = "professional and direct"
	}

	var sb strings.Builder
	sb.WriteString("You are an expert career writer. Draft a one-page cover letter for the candidate below, ")
	fmt.Fprintf(&sb, "in a %s tone, addressed to the company in the job posting.\n\n", tone)
	sb.WriteString("Rules:\n")
	sb.WriteString("- Three to four short paragraphs, no salutation placeholders like [Hiring Manager].\n")
	sb.WriteString("- Reference at most three concrete achievements from the resume.\n")
	sb.WriteString("- Return plain text only, no JSON, no markdown headers.\n\n")
	writeBlock(&sb, "Resume (JSON)", resumeJSON)
	writeBlock(&sb, "Job posting", jobPosting)
	return sb.String()
}

// SkillMap builds the prompt for a skill-gap map between resume and posting.
func SkillMap(resumeJSON, jobPosting string) string {
	var sb strings.Builder
	sb.WriteString("You are an expert career coach. Build a skill-gap map comparing the candidate's resume ")
	sb.WriteString("with the job posting's requirements.\n\n")
	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n")
	sb.WriteString(`{
  "matched": [{"skill": "string", "evidence": "string"}],
  "partial": [{"skill": "string", "evidence": "string", "gap": "string"}],
  "missing": [{"skill": "string", "suggestion": "string"}]
}`)
	sb.WriteString("\n\nIMPORTANT:\n")
	sb.WriteString("- Evidence must quote or closely paraphrase the resume.\n")
	sb.WriteString("- Return ONLY the JSON object.\n\n")
	writeBlock(&sb, "Resume (JSON)", resumeJSON)
	writeBlock(&sb, "Job posting", jobPosting)
	return sb.String()
}

// ChatEdit builds the prompt that turns a free-text instruction into a
// structured modification batch. The JSON contract here must match the
// ResumeModification wire shape exactly; the applier silently skips
// anything malformed, so precision in this prompt is what keeps edit
// batches effective.
func ChatEdit(resumeJSON, instruction string) string {
	var sb strings.Builder
	sb.WriteString("You are a resume editing assistant. Convert the user's instruction into a JSON array of ")
	sb.WriteString("modification operations against the resume below.\n\n")
	sb.WriteString("Each operation has this shape:\n")
	sb.WriteString(`{
  "action": "add|update|delete|replace|move",
  "target": "personalInfo|section|item|bullet",
  "sectionIndex": number,   // required for section/item/bullet targets (except section add)
  "itemIndex": number,      // required for item/bullet targets (except item add)
  "bulletIndex": number,    // required for bullet update/delete/move/replace
  "toIndex": number,        // required for move
  "field": "string",        // required for update
  "value": any,             // string for field updates, array for bullets, object for replace
  "newSection": object      // required for section add/replace
}`)
	sb.WriteString("\n\nRules:\n")
	sb.WriteString("- Indices refer to positions in the resume JSON below, in its current order.\n")
	sb.WriteString("- Bullets are plain strings.\n")
	sb.WriteString("- Emit the smallest set of operations that fulfils the instruction.\n")
	sb.WriteString("- Return ONLY the JSON array, no markdown, no commentary.\n\n")
	writeBlock(&sb, "Resume (JSON)", resumeJSON)
	writeBlock(&sb, "Instruction", instruction)
	return sb.String()
}

func writeBlock(sb *strings.Builder, label, content string) {
	fmt.Fprintf(sb, "%s:\n\"\"\"\n%s\n\"\"\"\n\n", label, content)
}
