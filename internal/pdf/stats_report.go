package pdf

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf"

	"taskmanager/internal/models"
)

// Generator renders task statistics as a PDF document.
type Generator interface {
	RenderStats(w io.Writer, data StatsReportData) error
}

// StatsReportGenerator is the gofpdf implementation of Generator.
type StatsReportGenerator struct {
	FontPath string // TTF with Unicode glyphs; empty means the Helvetica core font
	fontName string
}

type StatsReportData struct {
	Stats       models.TaskStats
	GeneratedAt time.Time
}

func NewStatsReportGenerator(fontPath string) *StatsReportGenerator {
	fontName := "Helvetica"
	if fontPath != "" {
		fontName = "DejaVu"
	}
	return &StatsReportGenerator{FontPath: fontPath, fontName: fontName}
}

func (g *StatsReportGenerator) RenderStats(w io.Writer, data StatsReportData) error {
	if err := g.build(data).Output(w); err != nil {
		return fmt.Errorf("render stats pdf: %w", err)
	}
	return nil
}

func (g *StatsReportGenerator) build(data StatsReportData) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Task statistics", false)
	pdf.SetAuthor("taskmanager", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	g.addUTF8Font(pdf)

	// footer must be set before the first page so every page gets one
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	// ===== header
	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "TASK STATISTICS", "", 1, "C", false, 0, "")
	pdf.SetFont(g.fontName, "", 12)
	pdf.CellFormat(0, 7, "as of "+data.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"), "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	// ===== totals
	g.sectionTitle(pdf, "Summary")
	g.kvLine(pdf, "Total tasks", fmt.Sprintf("%d", data.Stats.TotalTasks))
	g.kvLine(pdf, "Overdue tasks", fmt.Sprintf("%d", data.Stats.OverdueTasks))
	pdf.Ln(2)
	g.hr(pdf)

	// ===== per status
	g.sectionTitle(pdf, "By status")
	statuses := make([]string, 0, len(data.Stats.StatusCounts))
	for s := range data.Stats.StatusCounts {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)
	if len(statuses) == 0 {
		pdf.SetFont(g.fontName, "", 11)
		pdf.CellFormat(0, 6, "No tasks yet.", "", 1, "L", false, 0, "")
	}
	for _, s := range statuses {
		g.kvLine(pdf, s, fmt.Sprintf("%d", data.Stats.StatusCounts[s]))
	}
	return pdf
}

// ===== helpers =====

func (g *StatsReportGenerator) addUTF8Font(pdf *gofpdf.Fpdf) {
	if g.FontPath == "" {
		return
	}
	pdf.AddUTF8Font(g.fontName, "", g.FontPath)
	pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
}

func (g *StatsReportGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *StatsReportGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *StatsReportGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}
