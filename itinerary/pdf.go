package itinerary

import (
	"bytes"
	"fmt"
	"strings"

	"aventra/models"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

const qrImageName = "share-qr"

// RenderPDF prints a trip summary with a QR code pointing at shareURL.
func RenderPDF(it *models.GeneratedItinerary, shareURL string) ([]byte, error) {
	if it == nil {
		return nil, fmt.Errorf("render pdf: %w", ErrNotFound)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(it.Name), false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, tr(it.Name))
	pdf.Ln(12)

	meta := it.Metadata
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, tr(fmt.Sprintf("Trip type: %s", meta.TripType)))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Duration: %d days", meta.DurationDays))
	pdf.Ln(6)
	pdf.Cell(0, 7, tr(fmt.Sprintf("Budget: %s %s", meta.TotalBudget.Total, meta.TotalBudget.Currency)))
	pdf.Ln(6)
	b := meta.TotalBudget.Breakdown
	pdf.Cell(0, 7, fmt.Sprintf("Accommodation %.2f / Transportation %.2f / Activities %.2f / Food %.2f",
		b.Accommodation, b.Transportation, b.Activities, b.Food))
	pdf.Ln(10)

	if shareURL != "" {
		qrPNG, err := qrcode.Encode(shareURL, qrcode.Medium, 256)
		if err != nil {
			return nil, fmt.Errorf("generate qr code: %w", err)
		}
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(qrImageName, opts, bytes.NewReader(qrPNG))
		pdf.ImageOptions(qrImageName, 160, 10, 35, 35, false, opts, 0, shareURL)
	}

	for _, day := range it.Itinerary {
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 8, tr(fmt.Sprintf("Day %d  %s", day.DayNumber, day.Date)))
		pdf.Ln(8)
		pdf.SetFont("Arial", "I", 10)
		pdf.Cell(0, 6, tr(fmt.Sprintf("%s, %.0f-%.0f", day.Weather.Conditions,
			day.Weather.Temperature.Min, day.Weather.Temperature.Max)))
		pdf.Ln(7)

		pdf.SetFont("Arial", "", 10)
		for _, block := range day.TimeBlocks {
			pdf.MultiCell(0, 5, tr(blockLine(block)), "", "L", false)
		}
		pdf.Ln(4)
	}

	recs := it.Recommendations
	if len(recs.Accommodations)+len(recs.Dining)+len(recs.Transportation) > 0 {
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 8, "Recommendations")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 10)
		for _, a := range recs.Accommodations {
			pdf.MultiCell(0, 5, tr(fmt.Sprintf("Stay: %s (%s)", a.Name, a.PriceRange)), "", "L", false)
		}
		for _, d := range recs.Dining {
			pdf.MultiCell(0, 5, tr(fmt.Sprintf("Eat: %s, %s", d.Name, d.Cuisine)), "", "L", false)
		}
		for _, t := range recs.Transportation {
			pdf.MultiCell(0, 5, tr(fmt.Sprintf("Move: %s %s", t.Mode, t.Details)), "", "L", false)
		}
		pdf.Ln(4)
	}

	info := it.EssentialInfo
	if len(info.Documents)+len(info.EmergencyContacts) > 0 {
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 8, "Essential info")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 10)
		if len(info.Documents) > 0 {
			pdf.MultiCell(0, 5, tr("Documents: "+strings.Join(info.Documents, ", ")), "", "L", false)
		}
		for _, c := range info.EmergencyContacts {
			pdf.MultiCell(0, 5, tr(fmt.Sprintf("%s: %s", c.Type, c.Number)), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func blockLine(b models.TimeBlock) string {
	span := fmt.Sprintf("%s-%s", b.StartTime, b.EndTime)
	switch {
	case b.Activity != nil:
		return fmt.Sprintf("%s  %s @ %s", span, b.Activity.Title, b.Activity.Location.Name)
	case b.Travel != nil:
		return fmt.Sprintf("%s  %s: %s", span, b.Travel.Mode, b.Travel.Details)
	}
	return fmt.Sprintf("%s  %s", span, b.Type)
}
