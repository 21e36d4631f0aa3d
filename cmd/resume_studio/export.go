package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-studio/internal/export"
	"github.com/jonathan/resume-studio/internal/render"
	"github.com/jonathan/resume-studio/internal/types"
)

var (
	exportInput   string
	exportOutput  string
	exportVariant string
	exportTheme   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render a resume JSON file to PDF",
	Long:  `Read a resume document from a JSON file, render it with the selected variant and theme, and write an A4 PDF. Requires Chrome/Chromium.`,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportInput, "input", "i", "", "Path to resume JSON file (required)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "resume.pdf", "Output PDF path")
	exportCmd.Flags().StringVar(&exportVariant, "variant", string(types.DefaultVariant), "Template variant")
	exportCmd.Flags().StringVar(&exportTheme, "theme", string(types.ThemeLight), "Color theme (light or dark)")
	_ = exportCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	raw, err := os.ReadFile(exportInput)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}

	data, err := types.ParseResumeData(raw)
	if err != nil {
		return fmt.Errorf("invalid resume data: %w", err)
	}

	variant := types.VariantID(exportVariant)
	if !variant.Known() {
		return fmt.Errorf("unknown variant: %s", exportVariant)
	}
	theme := types.Theme(exportTheme)
	if theme != types.ThemeLight && theme != types.ThemeDark {
		return fmt.Errorf("unknown theme: %s", exportTheme)
	}

	doc, err := render.Render(data, variant, theme)
	if err != nil {
		return fmt.Errorf("failed to render document: %w", err)
	}

	pdf, err := export.NewPDFExporter().Export(context.Background(), doc)
	if err != nil {
		return fmt.Errorf("failed to export PDF: %w", err)
	}

	if err := os.WriteFile(exportOutput, pdf, 0o644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	fmt.Printf("Wrote %s (%d bytes)\n", exportOutput, len(pdf))
	return nil
}
