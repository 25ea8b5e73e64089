package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageWidth      = 190.0
	barChartHeight = 50.0
	cardHeight     = 18.0
)

// PDFRenderer renders a Document into a paginated PDF with a branded
// header/footer, summary cards, detail tables and simplified charts.
type PDFRenderer struct {
	brand string
}

// NewPDFRenderer constructs a PDF renderer.
func NewPDFRenderer(brand string) *PDFRenderer {
	if brand == "" {
		brand = "ODTrack Academia"
	}
	return &PDFRenderer{brand: brand}
}

// Render creates the PDF document bytes.
func (r *PDFRenderer) Render(doc Document) ([]byte, error) {
	if len(doc.Sections) == 0 && len(doc.Summary) == 0 {
		return nil, fmt.Errorf("pdf requires summary cards or sections")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		footer := fmt.Sprintf("%s | Page %d", r.brand, pdf.PageNo())
		pdf.CellFormat(0, 10, footer, "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, r.brand, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 8, strings.ToUpper(doc.Title), "", 1, "C", false, 0, "")

	generatedAt := doc.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now().UTC()
	}
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated on: %s", generatedAt.UTC().Format("2006-01-02 15:04:05")), "", 1, "C", false, 0, "")

	for _, field := range doc.Metadata {
		pdf.CellFormat(0, 5, fmt.Sprintf("%s: %s", field.Key, field.Value), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	if len(doc.Summary) > 0 {
		r.drawSummaryCards(pdf, doc.Summary)
	}

	for _, section := range doc.Sections {
		r.drawSection(pdf, section)
	}

	if doc.BarChart != nil && len(doc.BarChart.Points) > 0 {
		r.drawBarChart(pdf, *doc.BarChart)
	}
	if doc.PieChart != nil && len(doc.PieChart.Points) > 0 {
		r.drawPieLegend(pdf, *doc.PieChart)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) drawSummaryCards(pdf *gofpdf.Fpdf, cards []Card) {
	perRow := len(cards)
	if perRow > 4 {
		perRow = 4
	}
	cardWidth := pageWidth / float64(perRow)
	for i, card := range cards {
		if i > 0 && i%perRow == 0 {
			pdf.Ln(cardHeight)
		}
		x := pdf.GetX()
		y := pdf.GetY()
		pdf.Rect(x, y, cardWidth-2, cardHeight, "D")
		pdf.SetFont("Arial", "", 8)
		pdf.SetXY(x, y+3)
		pdf.CellFormat(cardWidth-2, 4, card.Label, "", 0, "C", false, 0, "")
		pdf.SetFont("Arial", "B", 12)
		pdf.SetXY(x, y+9)
		pdf.CellFormat(cardWidth-2, 6, card.Value, "", 0, "C", false, 0, "")
		pdf.SetXY(x+cardWidth, y)
	}
	pdf.Ln(cardHeight + 6)
}

func (r *PDFRenderer) drawSection(pdf *gofpdf.Fpdf, section Section) {
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 8, section.Title, "", 1, "L", false, 0, "")

	if len(section.Headers) == 0 {
		return
	}
	colWidth := pageWidth / float64(len(section.Headers))

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, header := range section.Headers {
		pdf.CellFormat(colWidth, 7, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range section.Rows {
		for i := range section.Headers {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			pdf.CellFormat(colWidth, 6, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

// drawBarChart draws proportional bars; each bar height is
// value/maxValue * barChartHeight.
func (r *PDFRenderer) drawBarChart(pdf *gofpdf.Fpdf, chart Chart) {
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 8, chart.Title, "", 1, "L", false, 0, "")

	var maxValue float64
	for _, point := range chart.Points {
		if point.Value > maxValue {
			maxValue = point.Value
		}
	}
	if maxValue <= 0 {
		return
	}

	barWidth := pageWidth / float64(len(chart.Points))
	baseY := pdf.GetY() + barChartHeight
	x := pdf.GetX()
	pdf.SetFillColor(63, 81, 181)
	pdf.SetFont("Arial", "", 7)
	for _, point := range chart.Points {
		height := point.Value / maxValue * barChartHeight
		pdf.Rect(x+2, baseY-height, barWidth-4, height, "F")
		pdf.SetXY(x, baseY+1)
		pdf.CellFormat(barWidth, 4, point.Label, "", 0, "C", false, 0, "")
		pdf.SetXY(x, baseY-height-4)
		pdf.CellFormat(barWidth, 4, fmt.Sprintf("%.1f", point.Value), "", 0, "C", false, 0, "")
		x += barWidth
	}
	pdf.SetXY(10, baseY+8)
}

// drawPieLegend renders pie segments as labelled legend rows with
// percentage = value/total * 100.
func (r *PDFRenderer) drawPieLegend(pdf *gofpdf.Fpdf, chart Chart) {
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 8, chart.Title, "", 1, "L", false, 0, "")

	var total float64
	for _, point := range chart.Points {
		total += point.Value
	}
	if total <= 0 {
		return
	}

	colors := [][3]int{
		{63, 81, 181}, {0, 150, 136}, {255, 152, 0}, {233, 30, 99},
		{76, 175, 80}, {96, 125, 139}, {121, 85, 72},
	}
	pdf.SetFont("Arial", "", 9)
	for i, point := range chart.Points {
		color := colors[i%len(colors)]
		x := pdf.GetX()
		y := pdf.GetY()
		pdf.SetFillColor(color[0], color[1], color[2])
		pdf.Rect(x, y+1, 4, 4, "F")
		pdf.SetX(x + 6)
		pct := point.Value / total * 100
		pdf.CellFormat(0, 6, fmt.Sprintf("%s - %.2f (%.1f%%)", point.Label, point.Value, pct), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
}
