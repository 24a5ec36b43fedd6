// Package report renders task listings to PDF.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/akyairhashvil/taskwatch/internal/config"
	"github.com/akyairhashvil/taskwatch/internal/models"
	"github.com/akyairhashvil/taskwatch/internal/util"
)

// Section is the undone and done listing of one task type.
type Section struct {
	Type   string
	Undone []models.Task
	Done   []models.Task
}

const (
	nameWidth = 110
	rowHeight = 6
)

// FileName is the file a report generated at now is saved under.
func FileName(now time.Time) string {
	return fmt.Sprintf("%s_report_%s.pdf", config.AppName, now.Format("20060102_150405"))
}

// WritePDF renders the sections to w.
func WritePDF(w io.Writer, title string, sections []Section) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(title))
	pdf.Ln(12)

	failed := 0
	for _, s := range sections {
		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(0, 10, tr(s.Type))
		pdf.Ln(9)

		writeList(pdf, tr, "Running", s.Undone)
		writeList(pdf, tr, "Finished", s.Done)
		for _, t := range s.Done {
			if !t.State.Succeeded() {
				failed++
			}
		}
		pdf.Ln(4)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Finished without success: %d", failed))
	pdf.Ln(10)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return pdf.Output(w)
}

func writeList(pdf *fpdf.Fpdf, tr func(string) string, heading string, ts []models.Task) {
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("%s (%d)", heading, len(ts)))
	pdf.Ln(7)

	pdf.SetFont("Arial", "", 10)
	if len(ts) == 0 {
		pdf.Cell(0, rowHeight, "  - none")
		pdf.Ln(rowHeight)
		return
	}
	for _, t := range ts {
		pdf.CellFormat(15, rowHeight, fmt.Sprintf("%d", t.ID), "", 0, "R", false, 0, "")
		pdf.CellFormat(28, rowHeight, string(t.State), "", 0, "L", false, 0, "")
		pdf.CellFormat(17, rowHeight, fmt.Sprintf("%.0f%%", t.Progress), "", 0, "R", false, 0, "")
		pdf.CellFormat(nameWidth, rowHeight, tr(util.SingleLine(t.Name)), "", 1, "L", false, 0, "")
		if t.Error != "" {
			pdf.SetTextColor(180, 0, 0)
			pdf.CellFormat(60, rowHeight, "", "", 0, "", false, 0, "")
			pdf.MultiCell(nameWidth, rowHeight, tr(t.Error), "", "L", false)
			pdf.SetTextColor(0, 0, 0)
		}
	}
}

// Save writes a report into dir and returns its path.
func Save(dir string, now time.Time, title string, sections []Section) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, FileName(now))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := WritePDF(f, title, sections); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	return path, f.Close()
}
