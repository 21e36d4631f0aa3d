// Package layout partitions resume sections across columns for split
// templates and resolves column widths.
package layout

import (
	"strings"

	"github.com/jonathan/resume-studio/internal/types"
)

// shortSummaryMax is the estimated bulk below which a summary section counts
// as a short enumerable block and defaults to the sidebar.
const shortSummaryMax = 220

// sidebarTypes are section types that default to the sidebar when no
// preferred column is set: short, enumerable, contact-adjacent content.
var sidebarTypes = map[string]bool{
	types.SectionSkills:         true,
	types.SectionLanguages:      true,
	types.SectionCertifications: true,
	types.SectionInterests:      true,
	types.SectionAwards:         true,
	"contact":                   true,
}

// Split is the result of balancing sections across a sidebar and a main
// column. Both slices preserve the relative order of the input list. An
// empty Sidebar signals the caller to fall back to single-column layout;
// the balancer never decides layout mode itself.
type Split struct {
	Sidebar []types.ResumeSection
	Main    []types.ResumeSection
}

// BalanceSections partitions an ordered list of renderable sections into
// sidebar and main columns. Every input section lands in exactly one column.
// An explicit PreferredColumn hint wins; otherwise the section type decides.
// The partition is stable: sections are never reordered within a column,
// because users visually anchor on section position.
func BalanceSections(sections []types.ResumeSection) Split {
	split := Split{
		Sidebar: make([]types.ResumeSection, 0, len(sections)),
		Main:    make([]types.ResumeSection, 0, len(sections)),
	}

	for _, section := range sections {
		if assignColumn(section) == types.ColumnSidebar {
			split.Sidebar = append(split.Sidebar, section)
		} else {
			split.Main = append(split.Main, section)
		}
	}

	return split
}

// assignColumn resolves the column for a single section.
func assignColumn(section types.ResumeSection) string {
	switch section.PreferredColumn {
	case types.ColumnSidebar, types.ColumnMain:
		return section.PreferredColumn
	}

	sectionType := strings.ToLower(strings.TrimSpace(section.Type))
	if sidebarTypes[sectionType] {
		return types.ColumnSidebar
	}
	if sectionType == types.SectionSummary && EstimateBulk(section) <= shortSummaryMax {
		return types.ColumnSidebar
	}
	return types.ColumnMain
}

// EstimateBulk approximates the vertical extent of a section as a character
// count with a fixed per-line overhead for titles, items and bullets.
// Layout is computed, not measured; this estimate is the only sizing input.
func EstimateBulk(section types.ResumeSection) int {
	const lineOverhead = 20

	bulk := len(section.Title) + lineOverhead

	switch section.Content.Kind {
	case types.ContentItems:
		for _, item := range section.Content.Items {
			bulk += len(item.Title) + len(item.Subtitle) + len(item.Date) + lineOverhead
			if item.Description != "" {
				bulk += len(item.Description) + lineOverhead
			}
			for _, bullet := range item.Bullets {
				bulk += len(bullet) + lineOverhead
			}
		}
	default:
		bulk += len(section.Content.Text)
	}

	return bulk
}
