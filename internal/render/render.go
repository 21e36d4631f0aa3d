// Package render projects a resume document and variant into a deterministic
// presentational tree, the single input for HTML/PDF export and snapshots.
package render

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-studio/internal/layout"
	"github.com/jonathan/resume-studio/internal/types"
)

// Document is the rendered tree for one resume: a header block plus ordered
// section blocks, split across columns when the variant calls for it.
// Rendering is pure: the same ResumeData, variant and theme always produce a
// structurally equal Document, which export retries and caching rely on.
type Document struct {
	Variant      types.VariantID
	Theme        types.Theme
	Layout       types.LayoutMode
	SidebarRatio int
	Header       HeaderBlock
	Sidebar      []SectionBlock
	Main         []SectionBlock
}

// HeaderBlock is the contact header of the rendered document.
type HeaderBlock struct {
	Name     string
	Title    string
	Contacts []ContactField
}

// ContactField is one non-blank contact entry, in fixed priority order.
type ContactField struct {
	Kind  string
	Value string
}

// Contact field kinds, in render priority order.
const (
	ContactEmail    = "email"
	ContactPhone    = "phone"
	ContactLocation = "location"
	ContactLinkedIn = "linkedin"
	ContactWebsite  = "website"
)

// SectionBlock is one rendered section: narrative text or ordered entries.
type SectionBlock struct {
	Type      string
	Title     string
	Narrative string
	Entries   []EntryBlock
}

// EntryBlock is one rendered item within an itemized section.
type EntryBlock struct {
	Title       string
	Subtitle    string
	Date        string
	Description string
	Bullets     []string
}

// Render builds the presentational tree for a resume. Non-renderable
// sections and items are filtered per the emptiness rule before layout; the
// underlying ResumeData is never modified. Split layout applies only when
// the variant's style is split AND the balancer yields a non-empty sidebar;
// otherwise every section renders in the main column.
func Render(data *types.ResumeData, variant types.VariantID, theme types.Theme) (*Document, error) {
	if data == nil {
		return nil, fmt.Errorf("resume data is nil")
	}

	renderable := RenderableSections(data.Sections)

	doc := &Document{
		Variant: variant,
		Theme:   theme,
		Layout:  types.LayoutSingle,
		Header:  renderHeader(data.PersonalInfo),
	}

	if variant.Style().Layout == types.LayoutSplit {
		split := layout.BalanceSections(renderable)
		if len(split.Sidebar) > 0 {
			doc.Layout = types.LayoutSplit
			doc.SidebarRatio = layout.SidebarRatio(data, variant)
			doc.Sidebar = renderSections(split.Sidebar)
			doc.Main = renderSections(split.Main)
			return doc, nil
		}
	}

	doc.Main = renderSections(renderable)
	return doc, nil
}

// RenderableSections filters out sections with no renderable content,
// preserving order. The input slice is not modified.
func RenderableSections(sections []types.ResumeSection) []types.ResumeSection {
	out := make([]types.ResumeSection, 0, len(sections))
	for _, section := range sections {
		if !section.IsEmpty() {
			out = append(out, section)
		}
	}
	return out
}

// renderHeader builds the header block, keeping only non-blank contact
// fields in the fixed priority order email, phone, location, linkedin,
// website.
func renderHeader(info types.PersonalInfo) HeaderBlock {
	header := HeaderBlock{
		Name:  strings.TrimSpace(info.Name),
		Title: strings.TrimSpace(info.Title),
	}

	ordered := []ContactField{
		{Kind: ContactEmail, Value: info.Email},
		{Kind: ContactPhone, Value: info.Phone},
		{Kind: ContactLocation, Value: info.Location},
		{Kind: ContactLinkedIn, Value: info.LinkedIn},
		{Kind: ContactWebsite, Value: info.Website},
	}
	for _, field := range ordered {
		if strings.TrimSpace(field.Value) != "" {
			field.Value = strings.TrimSpace(field.Value)
			header.Contacts = append(header.Contacts, field)
		}
	}
	return header
}

func renderSections(sections []types.ResumeSection) []SectionBlock {
	blocks := make([]SectionBlock, 0, len(sections))
	for _, section := range sections {
		blocks = append(blocks, renderSection(section))
	}
	return blocks
}

// renderSection projects one section. Items and bullets keep array order;
// only empty items and blank bullets are dropped.
func renderSection(section types.ResumeSection) SectionBlock {
	block := SectionBlock{
		Type:  section.Type,
		Title: section.Title,
	}

	switch section.Content.Kind {
	case types.ContentItems:
		for _, item := range section.Content.Items {
			if item.IsEmpty() {
				continue
			}
			entry := EntryBlock{
				Title:       item.Title,
				Subtitle:    item.Subtitle,
				Date:        item.Date,
				Description: item.Description,
			}
			for _, bullet := range item.Bullets {
				if strings.TrimSpace(bullet) != "" {
					entry.Bullets = append(entry.Bullets, bullet)
				}
			}
			block.Entries = append(block.Entries, entry)
		}
	default:
		block.Narrative = section.Content.Text
	}

	return block
}
