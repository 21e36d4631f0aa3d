package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-studio/internal/types"
)

func sampleResume() *types.ResumeData {
	return &types.ResumeData{
		PersonalInfo: types.PersonalInfo{
			Name:     "Ada Lovelace",
			Title:    "Software Engineer",
			Email:    "ada@example.com",
			LinkedIn: "linkedin.com/in/ada",
		},
		Sections: []types.ResumeSection{
			{
				Type:    types.SectionSummary,
				Title:   "Summary",
				Content: types.TextContent("Engineer with a decade of experience."),
			},
			{
				Type:  types.SectionExperience,
				Title: "Experience",
				Content: types.ItemsContent(
					types.ResumeItem{
						Title:    "Staff Engineer",
						Subtitle: "Analytical Engines Ltd",
						Date:     "2019 - Present",
						Bullets:  types.BulletList{"Designed the difference engine", "  ", "Led a team of five"},
					},
					types.ResumeItem{}, // empty, must be filtered
				),
			},
			{
				Type:    types.SectionSkills,
				Title:   "Skills",
				Content: types.TextContent("Go, SQL, Distributed systems"),
			},
			{
				Type:    types.SectionProjects,
				Title:   "Projects",
				Content: types.TextContent("   "), // empty, must be filtered
			},
		},
	}
}

func TestRender_Deterministic(t *testing.T) {
	data := sampleResume()

	first, err := Render(data, types.VariantTailored, types.ThemeLight)
	require.NoError(t, err)
	second, err := Render(data, types.VariantTailored, types.ThemeLight)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRender_FiltersEmptySectionsAndItems(t *testing.T) {
	data := sampleResume()

	doc, err := Render(data, types.VariantClassic, types.ThemeLight)
	require.NoError(t, err)

	titles := make([]string, 0, len(doc.Main))
	for _, block := range doc.Main {
		titles = append(titles, block.Title)
	}
	assert.Equal(t, []string{"Summary", "Experience", "Skills"}, titles)

	// The empty experience item and the blank bullet are dropped.
	require.Len(t, doc.Main[1].Entries, 1)
	assert.Equal(t, []string{"Designed the difference engine", "Led a team of five"}, doc.Main[1].Entries[0].Bullets)

	// Filtering is a view: the underlying data keeps the empty section.
	assert.Len(t, data.Sections, 4)
}

func TestRender_ContactFieldOrder(t *testing.T) {
	data := sampleResume()
	data.PersonalInfo.Website = "ada.dev"
	data.PersonalInfo.Phone = "" // blank stays out

	doc, err := Render(data, types.VariantClassic, types.ThemeLight)
	require.NoError(t, err)

	kinds := make([]string, 0, len(doc.Header.Contacts))
	for _, field := range doc.Header.Contacts {
		kinds = append(kinds, field.Kind)
	}
	assert.Equal(t, []string{ContactEmail, ContactLinkedIn, ContactWebsite}, kinds)
}

func TestRender_SplitLayout(t *testing.T) {
	doc, err := Render(sampleResume(), types.VariantTailored, types.ThemeLight)
	require.NoError(t, err)

	assert.Equal(t, types.LayoutSplit, doc.Layout)
	assert.NotZero(t, doc.SidebarRatio)
	require.Len(t, doc.Sidebar, 2) // short summary + skills
	assert.Equal(t, "Summary", doc.Sidebar[0].Title)
	assert.Equal(t, "Skills", doc.Sidebar[1].Title)
	require.Len(t, doc.Main, 1)
	assert.Equal(t, "Experience", doc.Main[0].Title)
}

func TestRender_SingleVariantShortCircuits(t *testing.T) {
	// Even though the balancer would produce a sidebar for this data, a
	// single-column variant never splits.
	doc, err := Render(sampleResume(), types.VariantMinimal, types.ThemeLight)
	require.NoError(t, err)

	assert.Equal(t, types.LayoutSingle, doc.Layout)
	assert.Empty(t, doc.Sidebar)
	assert.Zero(t, doc.SidebarRatio)
}

func TestRender_EmptySidebarFallsBackToSingle(t *testing.T) {
	data := &types.ResumeData{
		PersonalInfo: types.PersonalInfo{Name: "Ada"},
		Sections: []types.ResumeSection{
			{
				Type:    types.SectionExperience,
				Title:   "Experience",
				Content: types.ItemsContent(types.ResumeItem{Title: "Engineer"}),
			},
		},
	}

	doc, err := Render(data, types.VariantTailored, types.ThemeLight)
	require.NoError(t, err)
	assert.Equal(t, types.LayoutSingle, doc.Layout)
	assert.Empty(t, doc.Sidebar)
	require.Len(t, doc.Main, 1)
}

func TestRender_NilData(t *testing.T) {
	_, err := Render(nil, types.VariantClassic, types.ThemeLight)
	assert.Error(t, err)
}

func TestHTML_ContainsDocumentContent(t *testing.T) {
	doc, err := Render(sampleResume(), types.VariantTailored, types.ThemeDark)
	require.NoError(t, err)

	html, err := HTML(doc)
	require.NoError(t, err)

	page := string(html)
	assert.Contains(t, page, "Ada Lovelace")
	assert.Contains(t, page, "Designed the difference engine")
	assert.Contains(t, page, `class="sidebar"`)
	assert.Contains(t, page, types.VariantTailored.Style().Accent)
	assert.Contains(t, page, types.ThemePalette(types.ThemeDark).Background)
}

func TestHTML_Deterministic(t *testing.T) {
	doc, err := Render(sampleResume(), types.VariantModern, types.ThemeLight)
	require.NoError(t, err)

	first, err := HTML(doc)
	require.NoError(t, err)
	second, err := HTML(doc)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
