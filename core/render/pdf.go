// PDF output lays out a scrape result as a styled PDF using gofpdf: title, source,
// statistics, then headings, paragraphs and links.

package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/webscrape/core"
)

// PDFRenderer renders scrape results as a PDF document.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render converts the result into PDF bytes.
func (r *PDFRenderer) Render(result *core.ScrapeResult) ([]byte, error) {
	if result == nil {
		return nil, errNilResult
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	// Core fonts are cp1252; translate so accented text survives.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	sc := result.StructuredContent
	if sc.Title != "" {
		pdf.SetFont("Helvetica", "B", 18)
		pdf.MultiCell(0, 8, tr(sc.Title), "", "L", false)
		pdf.Ln(4)
	}

	// Source URL and statistics.
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.MultiCell(0, 5, tr("Source: "+result.URL), "", "L", false)
	pdf.MultiCell(0, 5, fmt.Sprintf("Fetched: %s", result.Timestamp.UTC().Format(time.RFC3339)), "", "L", false)
	pdf.MultiCell(0, 5, fmt.Sprintf("%d words, %d characters", result.WordCount, result.TextLength), "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)

	if len(sc.Headings) > 0 {
		renderSection(pdf, "Headings")
		for _, h := range sc.Headings {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.MultiCell(0, 6, tr(h), "", "L", false)
		}
		pdf.Ln(4)
	}

	if len(sc.Paragraphs) > 0 {
		renderSection(pdf, "Content")
		pdf.SetFont("Helvetica", "", 10)
		for _, p := range sc.Paragraphs {
			pdf.MultiCell(0, 5, tr(p), "", "L", false)
			pdf.Ln(2)
		}
		pdf.Ln(2)
	}

	if len(sc.Links) > 0 {
		renderSection(pdf, "Links")
		pdf.SetFont("Helvetica", "", 10)
		for _, l := range sc.Links {
			pdf.MultiCell(0, 5, tr("• "+l), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// renderSection writes a section heading.
func renderSection(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.MultiCell(0, 8, text, "", "L", false)
	pdf.Ln(2)
}
