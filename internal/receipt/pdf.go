package receipt

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/jung-kurt/gofpdf"
	"github.com/withsutham/SE-KPS-68-2/internal/booking"
)

// PDFOptions tunes the confirmation document.
type PDFOptions struct {
	// FontPath points at a UTF-8 TrueType font with Thai glyphs. Without one
	// the document falls back to Helvetica in cp1252: service names become
	// their ids and other non Latin-1 text is replaced.
	FontPath    string
	PromptPayID string
	SpaName     string
}

type writer struct {
	pdf     *gofpdf.Fpdf
	family  string
	unicode bool
	// translate encodes text for the core fonts; nil with a UTF-8 font.
	translate func(string) string
}

func newWriter(pdf *gofpdf.Fpdf, fontPath string) *writer {
	if fontPath != "" {
		pdf.AddUTF8Font("body", "", fontPath)
		return &writer{pdf: pdf, family: "body", unicode: true}
	}
	return &writer{pdf: pdf, family: "Helvetica", translate: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (w *writer) font(style string, size float64) {
	if w.unicode {
		// UTF-8 fonts are registered without style variants.
		style = ""
	}
	w.pdf.SetFont(w.family, style, size)
}

func (w *writer) text(s string) string {
	if w.unicode {
		return s
	}
	return w.translate(latin1(s))
}

func (w *writer) serviceName(line booking.Line) string {
	if w.unicode || representable(line.Name) {
		return line.Name
	}
	if line.ServiceID == "" {
		return "-"
	}
	return line.ServiceID
}

func (w *writer) duration(label string) string {
	if w.unicode || representable(label) {
		return label
	}
	return fmt.Sprintf("%d min", booking.DurationMinutes(label))
}

func (w *writer) price(line booking.Line) string {
	if w.unicode || representable(line.PriceLabel) {
		return line.PriceLabel
	}
	return fmt.Sprintf("%d THB", line.Price)
}

func (w *writer) clock(slot string) string {
	if w.unicode {
		return slot
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(slot), "น."))
}

func (w *writer) notes(notes string) string {
	if w.unicode || representable(notes) {
		return notes
	}
	return "(provided; needs a Thai font to display)"
}

func (w *writer) line(label, value string) {
	w.pdf.Cell(0, 7, w.text(fmt.Sprintf("%s: %s", label, value)))
	w.pdf.Ln(6)
}

func (w *writer) section(title string) {
	w.font("B", 13)
	w.pdf.SetFillColor(240, 240, 240)
	w.pdf.CellFormat(0, 9, w.text(title), "", 1, "L", true, 0, "")
	w.pdf.Ln(2)
	w.font("", 11)
}

func representable(s string) bool {
	for _, r := range s {
		if r > unicode.MaxLatin1 {
			return false
		}
	}
	return true
}

func latin1(s string) string {
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxLatin1 {
			return '?'
		}
		return r
	}, s)
}

// RenderConfirmationPDF lays a submitted booking out on a single A4 page with
// the deposit QR beside the summary.
func RenderConfirmationPDF(conf booking.Confirmation, opts PDFOptions) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(false, 0)

	w := newWriter(pdf, opts.FontPath)
	pdf.AddPage()

	spaName := opts.SpaName
	if spaName == "" {
		spaName = "Spa Booking"
	}

	w.font("B", 20)
	pdf.Cell(0, 12, w.text(spaName+" - Booking Confirmation"))
	pdf.Ln(16)
	pdf.SetDrawColor(220, 220, 220)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(6)

	yStart := pdf.GetY()
	pdf.SetFillColor(245, 245, 245)
	pdf.Rect(15, yStart, 120, 50, "F")
	pdf.SetXY(20, yStart+5)
	w.font("B", 13)
	pdf.Cell(0, 8, "BOOKING SUMMARY")
	pdf.Ln(9)
	w.font("", 11)
	pdf.SetX(20)
	w.line("Reference", conf.Reference)
	pdf.SetX(20)
	w.line("Status", conf.Status)
	pdf.SetX(20)
	w.line("Date", conf.Date.Format("2006-01-02"))
	pdf.SetX(20)
	w.line("Time", w.clock(conf.Time))
	pdf.SetX(20)
	w.line("Duration", fmt.Sprintf("%d min", conf.TotalMinutes))

	png, err := DepositQRCode(DepositPayload(opts.PromptPayID, conf.DepositAmount, conf.Reference), DefaultQRSize)
	if err != nil {
		return nil, err
	}
	pdf.RegisterImageOptionsReader("deposit-qr", gofpdf.ImageOptions{ImageType: "png"}, bytes.NewReader(png))
	pdf.ImageOptions("deposit-qr", 145, yStart+3, 45, 0, false, gofpdf.ImageOptions{ImageType: "png"}, 0, "")

	pdf.SetY(yStart + 58)

	w.section("SERVICES")
	for i, line := range conf.Lines {
		pdf.Cell(0, 7, w.text(fmt.Sprintf("%d. %s (%s) %s", i+1, w.serviceName(line), w.duration(line.Duration), w.price(line))))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	w.section("CUSTOMER")
	w.line("Name", strings.TrimSpace(conf.Contact.FirstName+" "+conf.Contact.LastName))
	w.line("Email", conf.Contact.Email)
	w.line("Phone", conf.Contact.Phone)
	if conf.Notes != "" {
		pdf.MultiCell(0, 7, w.text("Notes: "+w.notes(conf.Notes)), "", "", false)
	}
	pdf.Ln(4)

	w.section("PAYMENT")
	w.line("Total", fmt.Sprintf("%d THB", conf.TotalPrice))
	w.line("Deposit (20%)", fmt.Sprintf("%d THB", conf.DepositAmount))
	w.line("Balance due at spa", fmt.Sprintf("%d THB", conf.TotalPrice-conf.DepositAmount))

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(15, 285, 195, 285)
	pdf.SetY(287)
	w.font("I", 9)
	pdf.CellFormat(0, 6, w.text("Submitted "+conf.SubmittedAt.Format("2006-01-02 15:04 MST")), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("receipt: render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
