// Package export renders the HTML projection of a resume to PDF using a
// headless browser. Requires Chrome/Chromium to be installed on the system.
package export

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/resume-studio/internal/render"
)

// DefaultTimeout bounds a single PDF render, including browser startup.
const DefaultTimeout = 60 * time.Second

// A4 paper size in inches (210mm x 297mm).
const (
	paperWidthInches  = 8.27
	paperHeightInches = 11.69
)

// PDFExporter renders documents to A4 PDF bytes via headless Chrome.
type PDFExporter struct {
	Timeout time.Duration
	Verbose bool
}

// NewPDFExporter returns an exporter with the default timeout.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{Timeout: DefaultTimeout}
}

// Export renders a document to PDF. The document projection is
// deterministic, so a failed export can be retried with identical input.
func (e *PDFExporter) Export(ctx context.Context, doc *render.Document) ([]byte, error) {
	html, err := render.HTML(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTML: %w", err)
	}
	return e.ExportHTML(ctx, string(html))
}

// ExportHTML renders already-built HTML to PDF bytes.
func (e *PDFExporter) ExportHTML(ctx context.Context, html string) ([]byte, error) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if p := os.Getenv("CHROME_PATH"); p != "" {
		opts = append(opts, chromedp.ExecPath(p))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, timeout)
	defer cancelTimeout()

	// Chrome will not navigate to a data: URL with PrintToPDF reliably,
	// so serve the page from a temporary file.
	tmpDir, err := os.MkdirTemp("", "resume-studio-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write HTML: %w", err)
	}

	if e.Verbose {
		log.Printf("[EXPORT] Rendering %d bytes of HTML to PDF", len(html))
	}

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidthInches).
				WithPaperHeight(paperHeightInches).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("browser rendering failed: %w", err)
	}

	if e.Verbose {
		log.Printf("[EXPORT] PDF generated: %d bytes", len(pdf))
	}

	return pdf, nil
}
