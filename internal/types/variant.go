// Package types provides type definitions for structured data used throughout the resume-studio system.
package types

// VariantID names a visual resume template. Variants are presentation-only;
// they never alter ResumeData.
type VariantID string

// Built-in template variants.
const (
	VariantTailored  VariantID = "tailored"
	VariantModern    VariantID = "modern"
	VariantBold      VariantID = "bold"
	VariantClassic   VariantID = "classic"
	VariantMinimal   VariantID = "minimal"
	VariantExecutive VariantID = "executive"
)

// DefaultVariant is used when a stored resume carries no variant.
const DefaultVariant = VariantTailored

// Theme selects the light or dark color palette.
type Theme string

// Supported themes.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// LayoutMode is the column arrangement a variant renders with.
type LayoutMode string

// Layout modes.
const (
	// LayoutSingle stacks all sections in one column.
	LayoutSingle LayoutMode = "single"
	// LayoutSplit renders a sidebar column next to the main column.
	LayoutSplit LayoutMode = "split"
)

// Style is the resolved presentation rules for a variant: typography, accent
// color, and the column layout it targets. SidebarRatio is the default
// sidebar width percentage for split variants.
type Style struct {
	Layout       LayoutMode
	SidebarRatio int
	Accent       string
	FontFamily   string
	HeadingFont  string
}

var variantStyles = map[VariantID]Style{
	VariantTailored: {
		Layout:       LayoutSplit,
		SidebarRatio: 32,
		Accent:       "#2563eb",
		FontFamily:   "Inter, sans-serif",
		HeadingFont:  "Inter, sans-serif",
	},
	VariantModern: {
		Layout:       LayoutSplit,
		SidebarRatio: 30,
		Accent:       "#0d9488",
		FontFamily:   "Inter, sans-serif",
		HeadingFont:  "Space Grotesk, sans-serif",
	},
	VariantBold: {
		Layout:       LayoutSplit,
		SidebarRatio: 35,
		Accent:       "#dc2626",
		FontFamily:   "Archivo, sans-serif",
		HeadingFont:  "Archivo Black, sans-serif",
	},
	VariantClassic: {
		Layout:       LayoutSingle,
		SidebarRatio: 0,
		Accent:       "#1f2937",
		FontFamily:   "Georgia, serif",
		HeadingFont:  "Georgia, serif",
	},
	VariantMinimal: {
		Layout:       LayoutSingle,
		SidebarRatio: 0,
		Accent:       "#374151",
		FontFamily:   "Helvetica, sans-serif",
		HeadingFont:  "Helvetica, sans-serif",
	},
	VariantExecutive: {
		Layout:       LayoutSplit,
		SidebarRatio: 28,
		Accent:       "#92400e",
		FontFamily:   "Source Serif Pro, serif",
		HeadingFont:  "Source Serif Pro, serif",
	},
}

// Style returns the presentation rules for the variant. Unknown variants
// resolve to the classic style so stale stored variant IDs stay renderable.
func (v VariantID) Style() Style {
	if style, ok := variantStyles[v]; ok {
		return style
	}
	return variantStyles[VariantClassic]
}

// Known reports whether the variant is a registered template.
func (v VariantID) Known() bool {
	_, ok := variantStyles[v]
	return ok
}

// Variants returns the registered variant IDs in a fixed order.
func Variants() []VariantID {
	return []VariantID{
		VariantTailored,
		VariantModern,
		VariantBold,
		VariantClassic,
		VariantMinimal,
		VariantExecutive,
	}
}

// Palette holds theme-dependent colors shared by all variants.
type Palette struct {
	Background        string
	SidebarBackground string
	Text              string
	MutedText         string
}

// ThemePalette resolves the color palette for a theme. Anything other than
// dark resolves to light.
func ThemePalette(theme Theme) Palette {
	if theme == ThemeDark {
		return Palette{
			Background:        "#111827",
			SidebarBackground: "#1f2937",
			Text:              "#f9fafb",
			MutedText:         "#9ca3af",
		}
	}
	return Palette{
		Background:        "#ffffff",
		SidebarBackground: "#f3f4f6",
		Text:              "#111827",
		MutedText:         "#6b7280",
	}
}
