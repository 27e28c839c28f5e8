// Package pdfgen renders the printable service protocol handed to customers
// when they pick up their bike.
package pdfgen

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf"

	"github.com/litovianka/bike-service/internal/domain/customers"
	"github.com/litovianka/bike-service/internal/domain/orders"
	"github.com/litovianka/bike-service/internal/pkg/logger"
)

const (
	leftMargin    = 48.0
	topMargin     = 48.0
	titleFontSize = 18.0
	bodyFontSize  = 11.0

	// wrapWidth is how many characters fit one body line.
	wrapWidth     = 95
	issueMaxLines = 8
	workMaxLines  = 10

	// checklistBreakMargin starts a new page when a checklist row would land
	// closer than this to the bottom edge. footerBreakMargin does the same
	// for the closing lines.
	checklistBreakMargin = 90.0
	footerBreakMargin    = 120.0

	timestampFormat = "02.01.2006 15:04"
	dateFormat      = "02.01.2006"

	notSet      = "nezadané"
	notFinished = "nedokončené"
)

// protocolRenderer draws the protocol with gofpdf. Slovak text needs the
// cp1250 code page, which the core Helvetica font is remapped to.
type protocolRenderer struct {
	logger logger.Logger
}

// NewProtocolRenderer creates a ProtocolRenderer producing A4 PDFs
func NewProtocolRenderer(logger logger.Logger) (orders.ProtocolRenderer, error) {
	return &protocolRenderer{logger: logger}, nil
}

// Render produces the protocol PDF bytes for the order and its owner
func (r *protocolRenderer) Render(order *orders.ServiceOrder, bike *customers.Bike, customer *customers.Customer) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)

	page := &protocolPage{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor("cp1250"),
	}
	page.width, page.height = pdf.GetPageSize()
	page.newPage()

	customerName := customer.FullName
	if customerName == "" {
		customerName = customer.Email
	}

	pdf.SetFont("Helvetica", "B", titleFontSize)
	page.rightAligned("Servisný protokol")
	page.advance(26)

	pdf.SetFont("Helvetica", "", bodyFontSize)
	page.line(fmt.Sprintf("Servis: #%s", order.Code()), 16)
	page.line(fmt.Sprintf("Zákazník: %s", customerName), 14)
	page.line(fmt.Sprintf("Email: %s", customer.Email), 14)
	if customer.PhoneNumber != "" {
		page.line(fmt.Sprintf("Telefón: %s", customer.PhoneNumber), 14)
	}
	page.line(fmt.Sprintf("Bicykel: %s", bike.Label()), 14)
	page.line(fmt.Sprintf("Sériové číslo: %s", fallback(bike.SerialNumber, notSet)), 18)

	page.heading("Stav a termíny")
	page.line(fmt.Sprintf("Stav: %s", order.Status.Label()), 14)
	page.line(fmt.Sprintf("Vytvorené: %s", order.CreatedAt.Format(timestampFormat)), 14)

	promised := ""
	if order.PromisedDate != nil {
		promised = order.PromisedDate.Format(dateFormat)
	}
	page.line(fmt.Sprintf("Sľúbený termín: %s", fallback(promised, notSet)), 14)

	completed := ""
	if order.CompletedAt != nil {
		completed = order.CompletedAt.Format(timestampFormat)
	}
	page.line(fmt.Sprintf("Dokončené: %s", fallback(completed, notFinished)), 14)
	page.line(fmt.Sprintf("Cena: %s €", order.PriceString()), 18)

	page.heading("Nahlásená vada")
	page.wrapped(order.IssueDescription, issueMaxLines)

	page.heading("Čo sa urobilo")
	page.wrapped(order.WorkDone, workMaxLines)

	page.heading("Checklist")
	for _, item := range orders.ChecklistItems() {
		mark := "neoznačené"
		if order.Checklist[item.Key] {
			mark = "OK"
		}
		page.line(fmt.Sprintf("%s: %s", item.Label, mark), 13)

		if page.bottomDistance() < checklistBreakMargin {
			page.newPage()
			pdf.SetFont("Helvetica", "", bodyFontSize)
		}
	}

	page.advance(18)
	if page.bottomDistance() < footerBreakMargin {
		page.newPage()
	}

	pdf.SetFont("Helvetica", "", bodyFontSize)
	page.line("Ďakujeme, že ste navštívili náš servis BlackBike.", 16)
	page.line("Tešíme sa na vašu ďalšiu návštevu.", 0)

	var buffer bytes.Buffer
	if err := pdf.Output(&buffer); err != nil {
		return nil, fmt.Errorf("failed to render protocol pdf: %w", err)
	}

	r.logger.Info("Rendered protocol for order ", order.ID, " (", buffer.Len(), " bytes)")
	return buffer.Bytes(), nil
}

// protocolPage tracks the cursor while drawing, measured from the top edge.
type protocolPage struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	y      float64
	width  float64
	height float64
}

func (p *protocolPage) newPage() {
	p.pdf.AddPage()
	p.y = topMargin
}

func (p *protocolPage) advance(step float64) {
	p.y += step
}

func (p *protocolPage) bottomDistance() float64 {
	return p.height - p.y
}

func (p *protocolPage) line(value string, step float64) {
	p.pdf.Text(leftMargin, p.y, p.tr(value))
	p.y += step
}

func (p *protocolPage) rightAligned(value string) {
	encoded := p.tr(value)
	p.pdf.Text(p.width-leftMargin-p.pdf.GetStringWidth(encoded), p.y, encoded)
}

func (p *protocolPage) heading(value string) {
	p.pdf.SetFont("Helvetica", "B", bodyFontSize)
	p.line(value, 14)
	p.pdf.SetFont("Helvetica", "", bodyFontSize)
}

// wrapped draws a free-text block capped at maxLines, printing "nezadané"
// when there is nothing to show.
func (p *protocolPage) wrapped(text string, maxLines int) {
	lines := wrapText(text, wrapWidth)
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	for _, line := range lines {
		p.line(line, 13)
	}
	if strings.TrimSpace(text) == "" {
		p.line(notSet, 13)
	}
	p.advance(10)
}

func fallback(value, alternative string) string {
	if value == "" {
		return alternative
	}
	return value
}

// wrapText breaks text into lines of at most maxChars characters on word
// boundaries. A word longer than the limit gets a line of its own.
func wrapText(text string, maxChars int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := ""
	for _, word := range words {
		if current == "" {
			current = word
			continue
		}
		if utf8.RuneCountInString(current)+1+utf8.RuneCountInString(word) <= maxChars {
			current = current + " " + word
		} else {
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
