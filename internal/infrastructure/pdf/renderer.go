// Package pdf renders printable record summaries and inspects uploaded PDFs.
package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/procureflow/registry/internal/domain/entity"
)

const (
	title       = "ProcureFlow PMS"
	placeholder = "---"
	fontFamily  = "Helvetica"

	labelX = 15.0
	valueX = 65.0
	rowGap = 8.0

	// baselines past pageBottom continue on a new page at pageTop
	pageTop    = 20.0
	pageBottom = 280.0
)

type rgb struct{ r, g, b int }

var (
	colorBand  = rgb{30, 41, 59}
	colorWhite = rgb{255, 255, 255}
	colorRule  = rgb{226, 232, 240}
	colorMuted = rgb{100, 116, 139}
)

// Renderer implements port.DocumentRenderer with fpdf
type Renderer struct {
	printer *message.Printer
	loc     *time.Location
	bottom  float64
	logger  *zap.Logger
}

// NewRenderer creates a new Renderer. Timestamps are printed in loc; nil
// means UTC.
func NewRenderer(loc *time.Location, logger *zap.Logger) *Renderer {
	if loc == nil {
		loc = time.UTC
	}
	return &Renderer{
		printer: message.NewPrinter(language.English),
		loc:     loc,
		bottom:  pageBottom,
		logger:  logger,
	}
}

// page tracks the cursor while writing one document
type page struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	y      float64
	bottom float64
}

// ensure starts a new page when a block of height h would not fit
func (p *page) ensure(h float64) {
	if p.y+h > p.bottom {
		p.pdf.AddPage()
		p.y = pageTop
	}
}

func (p *page) color(c rgb)              { p.pdf.SetTextColor(c.r, c.g, c.b) }
func (p *page) text(x float64, s string) { p.pdf.Text(x, p.y, p.tr(s)) }

func (p *page) heading(s string) {
	p.ensure(2 * rowGap)
	p.pdf.SetFont(fontFamily, "B", 14)
	p.text(10, s)
	p.pdf.SetDrawColor(colorRule.r, colorRule.g, colorRule.b)
	p.pdf.Line(10, p.y+2, 200, p.y+2)
}

func (p *page) row(label, value string) {
	if value == "" {
		value = placeholder
	}
	p.ensure(0)
	p.pdf.SetFont(fontFamily, "B", 10)
	p.text(labelX, label)
	p.pdf.SetFont(fontFamily, "", 10)
	p.text(valueX, value)
	p.y += rowGap
}

// RenderRecord writes the printable summary of rec, continuing onto further
// pages when the content runs past the bottom margin
func (r *Renderer) RenderRecord(rec entity.Record) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(fmt.Sprintf("Procurement Registry %d", rec.RecordID), true)
	doc.SetCreator(title, true)
	doc.AddPage()

	p := &page{pdf: doc, tr: doc.UnicodeTranslatorFromDescriptor(""), bottom: r.bottom}

	doc.SetFillColor(colorBand.r, colorBand.g, colorBand.b)
	doc.Rect(0, 0, 210, 40, "F")
	p.color(colorWhite)
	doc.SetFont(fontFamily, "B", 24)
	p.y = 20
	p.text(10, title)
	doc.SetFont(fontFamily, "", 10)
	p.y = 30
	p.text(10, fmt.Sprintf("REGISTRY ID: #%d", rec.RecordID))
	p.text(140, "LAST UPDATED: "+r.timestamp(rec.LastUpdated))

	p.color(colorBand)
	p.y = 50
	p.heading("Registry Summary")
	p.y = 60
	p.row("Supplier / Payee:", rec.SupplierName)
	p.row("Category:", string(rec.Category))
	p.row("PR Number:", orNA(rec.PRNumber))
	p.row("PR Amount:", r.Money(rec.Amount))
	p.row("PO Number:", orNA(rec.PONumber))
	p.row("PO Amount:", r.Money(rec.POAmount))
	p.row("Status:", string(rec.Status))
	p.row("Requested By:", rec.CreatedBy)
	p.row("Date Requested:", rec.DateRequested)

	if rec.Category.HasEventDetails() {
		p.y += 5
		p.ensure(2 * rowGap)
		doc.SetFont(fontFamily, "B", 10)
		p.text(10, "Event Details")
		p.y += rowGap
		p.row("Event Date:", rec.EventDate)
		p.row("Venue:", rec.VenueLocation)
		p.row("Total Servings:", rec.Servings)
		p.row("Schedule:", Schedule(rec.MealSchedule))
	}

	p.y += 10
	p.heading("Compliance Checklist")
	p.y += 10
	for _, slot := range entity.DocumentSlots() {
		p.ensure(0)
		entry := rec.Documents.Entry(slot)
		mark, style := "[ ]", ""
		if entry.Checked {
			mark, style = "[X]", "B"
		}
		doc.SetFont(fontFamily, style, 9)
		p.text(15, mark)
		p.text(25, slot.Label())
		if entry.File != nil {
			p.color(colorMuted)
			p.text(105, fmt.Sprintf("(File: %s)", entry.File.Name))
			p.color(colorBand)
		}
		p.y += rowGap
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		r.logger.Error("Failed to render PDF", zap.Int("record_id", rec.RecordID), zap.Error(err))
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Money formats a peso amount as "PHP 1,234.50"; zero prints the placeholder
func (r *Renderer) Money(v float64) string {
	if v == 0 {
		return placeholder
	}
	return r.printer.Sprintf("PHP %.2f", v)
}

// Schedule lists the selected meals, or "None selected"
func Schedule(m *entity.MealSchedule) string {
	if m == nil {
		return "None selected"
	}
	labels := m.Labels()
	if len(labels) == 0 {
		return "None selected"
	}
	return strings.Join(labels, ", ")
}

func (r *Renderer) timestamp(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.In(r.loc).Format("2006-01-02 15:04")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
