// Package types provides type definitions for structured data used throughout the resume-studio system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Known section type identifiers. Section.Type is an open string on the wire;
// these constants cover the types the layout classifier recognizes.
const (
	SectionSummary        = "summary"
	SectionExperience     = "experience"
	SectionEducation      = "education"
	SectionSkills         = "skills"
	SectionProjects       = "projects"
	SectionCertifications = "certifications"
	SectionLanguages      = "languages"
	SectionInterests      = "interests"
	SectionAwards         = "awards"
)

// Column name constants for ResumeSection.PreferredColumn.
const (
	ColumnSidebar = "sidebar"
	ColumnMain    = "main"
)

// PersonalInfo holds the contact header of a resume. All fields except Name
// are optional; blank fields are omitted from rendering.
type PersonalInfo struct {
	Name     string `json:"name"`
	Title    string `json:"title,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
}

// ContentKind discriminates the two shapes a section body can take.
type ContentKind string

// Content kinds for SectionContent.
const (
	// ContentText is a narrative section body (a single paragraph).
	ContentText ContentKind = "text"
	// ContentItems is an itemized section body (ordered entries).
	ContentItems ContentKind = "items"
)

// SectionContent is a tagged union over the wire shape `string | []ResumeItem`.
// Exactly one of Text or Items is meaningful, selected by Kind. Consumers
// switch on Kind rather than sniffing the value.
type SectionContent struct {
	Kind  ContentKind
	Text  string
	Items []ResumeItem
}

// TextContent builds a narrative section body.
func TextContent(text string) SectionContent {
	return SectionContent{Kind: ContentText, Text: text}
}

// ItemsContent builds an itemized section body.
func ItemsContent(items ...ResumeItem) SectionContent {
	return SectionContent{Kind: ContentItems, Items: items}
}

// MarshalJSON emits the wire shape: a JSON string for narrative content,
// a JSON array for itemized content.
func (c SectionContent) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case ContentItems:
		if c.Items == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(c.Items)
	default:
		return json.Marshal(c.Text)
	}
}

// UnmarshalJSON accepts either a JSON string or a JSON array of items.
// null decodes as empty narrative content.
func (c *SectionContent) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case trimmed == "null":
		*c = TextContent("")
		return nil
	case strings.HasPrefix(trimmed, "\""):
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return fmt.Errorf("failed to parse section content string: %w", err)
		}
		*c = TextContent(text)
		return nil
	case strings.HasPrefix(trimmed, "["):
		var items []ResumeItem
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("failed to parse section content items: %w", err)
		}
		*c = SectionContent{Kind: ContentItems, Items: items}
		return nil
	default:
		return fmt.Errorf("section content must be a string or an array, got: %s", snippet(trimmed))
	}
}

// IsEmpty reports whether the content carries nothing renderable.
func (c SectionContent) IsEmpty() bool {
	switch c.Kind {
	case ContentItems:
		for _, item := range c.Items {
			if !item.IsEmpty() {
				return false
			}
		}
		return true
	default:
		return strings.TrimSpace(c.Text) == ""
	}
}

// ResumeSection is one titled block of a resume.
type ResumeSection struct {
	Type            string         `json:"type"`
	Title           string         `json:"title"`
	Content         SectionContent `json:"content"`
	PreferredColumn string         `json:"preferredColumn,omitempty"`
}

// IsEmpty reports whether the section has no renderable content.
// Renderability is a derived view; empty sections stay in the data.
func (s ResumeSection) IsEmpty() bool {
	return s.Content.IsEmpty()
}

// ResumeItem is one entry of an itemized section (a job, a degree, a project).
type ResumeItem struct {
	Title       string     `json:"title"`
	Subtitle    string     `json:"subtitle,omitempty"`
	Date        string     `json:"date,omitempty"`
	Description string     `json:"description,omitempty"`
	Bullets     BulletList `json:"bullets,omitempty"`
}

// IsEmpty reports whether the item has no non-blank field and no non-blank bullet.
func (i ResumeItem) IsEmpty() bool {
	if strings.TrimSpace(i.Title) != "" ||
		strings.TrimSpace(i.Subtitle) != "" ||
		strings.TrimSpace(i.Date) != "" ||
		strings.TrimSpace(i.Description) != "" {
		return false
	}
	for _, b := range i.Bullets {
		if strings.TrimSpace(b) != "" {
			return false
		}
	}
	return true
}

// BulletList is a list of bullet strings. Upstream generation services
// sometimes emit `{"text": "..."}` wrapper objects instead of plain strings;
// decoding normalizes every entry to a string.
type BulletList []string

// UnmarshalJSON decodes a JSON array whose entries are strings, `{text}`
// wrappers, or arbitrary scalars coerced to their string form.
func (b *BulletList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("bullets must be an array: %w", err)
	}

	out := make([]string, 0, len(raw))
	for _, entry := range raw {
		var v any
		if err := json.Unmarshal(entry, &v); err != nil {
			return fmt.Errorf("failed to parse bullet entry: %w", err)
		}
		out = append(out, NormalizeBullet(v))
	}
	*b = out
	return nil
}

// NormalizeBullet coerces a decoded JSON value to a bullet string.
// `{"text": "..."}` wrappers are unwrapped; other values use their
// default string form.
func NormalizeBullet(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if text, ok := val["text"].(string); ok {
			return text
		}
		return ""
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}

// ResumeData is the complete resume document: contact header plus an ordered
// list of sections. Section order is display order and is significant.
type ResumeData struct {
	PersonalInfo PersonalInfo    `json:"personalInfo"`
	Sections     []ResumeSection `json:"sections"`
}

// ParseResumeData decodes a persisted resume blob. The only structural trust
// check is that both personalInfo and sections keys are present; everything
// else is taken as stored.
func ParseResumeData(data []byte) (*ResumeData, error) {
	var probe struct {
		PersonalInfo *json.RawMessage `json:"personalInfo"`
		Sections     *json.RawMessage `json:"sections"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse resume data: %w", err)
	}
	if probe.PersonalInfo == nil {
		return nil, fmt.Errorf("resume data missing personalInfo")
	}
	if probe.Sections == nil {
		return nil, fmt.Errorf("resume data missing sections")
	}

	var rd ResumeData
	if err := json.Unmarshal(data, &rd); err != nil {
		return nil, fmt.Errorf("failed to parse resume data: %w", err)
	}
	return &rd, nil
}

// Clone returns a deep copy. Snapshots returned by the mutation applier must
// not alias nested slices of prior versions.
func (d ResumeData) Clone() ResumeData {
	out := ResumeData{
		PersonalInfo: d.PersonalInfo,
		Sections:     make([]ResumeSection, len(d.Sections)),
	}
	for i, s := range d.Sections {
		out.Sections[i] = s.Clone()
	}
	return out
}

// Clone returns a deep copy of the section.
func (s ResumeSection) Clone() ResumeSection {
	out := s
	if s.Content.Kind == ContentItems {
		items := make([]ResumeItem, len(s.Content.Items))
		for i, item := range s.Content.Items {
			items[i] = item.Clone()
		}
		out.Content = SectionContent{Kind: ContentItems, Items: items}
	}
	return out
}

// Clone returns a deep copy of the item.
func (i ResumeItem) Clone() ResumeItem {
	out := i
	if i.Bullets != nil {
		out.Bullets = append(BulletList(nil), i.Bullets...)
	}
	return out
}

// snippet truncates a value for inclusion in error messages.
func snippet(s string) string {
	const max = 40
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
