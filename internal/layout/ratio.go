package layout

import (
	"github.com/jonathan/resume-studio/internal/types"
)

// Sidebar width bounds, as percentages of page width.
const (
	minSidebarRatio = 28
	maxSidebarRatio = 35
)

// SidebarRatio returns the sidebar width percentage for a resume rendered
// with the given variant; main width is 100 minus the result. The value is a
// pure function of the variant's default nudged by content shape: a sidebar
// carrying an outsized share of the estimated bulk gets a slightly wider
// column. Single-column variants return 0.
func SidebarRatio(data *types.ResumeData, variant types.VariantID) int {
	style := variant.Style()
	if style.Layout != types.LayoutSplit {
		return 0
	}

	ratio := style.SidebarRatio
	if data == nil {
		return clampRatio(ratio)
	}

	split := BalanceSections(data.Sections)
	sidebarBulk := 0
	for _, section := range split.Sidebar {
		sidebarBulk += EstimateBulk(section)
	}
	mainBulk := 0
	for _, section := range split.Main {
		mainBulk += EstimateBulk(section)
	}

	total := sidebarBulk + mainBulk
	if total > 0 {
		share := float64(sidebarBulk) / float64(total)
		if share > 0.45 {
			ratio += 2
		} else if share < 0.15 {
			ratio -= 2
		}
	}

	return clampRatio(ratio)
}

func clampRatio(ratio int) int {
	if ratio < minSidebarRatio {
		return minSidebarRatio
	}
	if ratio > maxSidebarRatio {
		return maxSidebarRatio
	}
	return ratio
}
