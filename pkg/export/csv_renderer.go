package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"
)

// CSVRenderer renders a Document into a sectioned CSV encoding: metadata
// header lines, then a titled block per section. Commas inside values are
// replaced with semicolons so rows stay unambiguous for naive consumers.
type CSVRenderer struct{}

// NewCSVRenderer builds a CSV renderer.
func NewCSVRenderer() *CSVRenderer {
	return &CSVRenderer{}
}

// Render produces CSV encoded bytes for the document.
func (r *CSVRenderer) Render(doc Document) ([]byte, error) {
	if len(doc.Sections) == 0 {
		return nil, fmt.Errorf("csv requires at least one section")
	}

	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	if err := writer.Write([]string{sanitizeValue(doc.Title)}); err != nil {
		return nil, fmt.Errorf("write csv title: %w", err)
	}
	generatedAt := doc.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now().UTC()
	}
	if err := writer.Write([]string{"Generated At", generatedAt.UTC().Format(time.RFC3339)}); err != nil {
		return nil, fmt.Errorf("write csv generated-at: %w", err)
	}
	for _, field := range doc.Metadata {
		if err := writer.Write([]string{sanitizeValue(field.Key), sanitizeValue(field.Value)}); err != nil {
			return nil, fmt.Errorf("write csv metadata: %w", err)
		}
	}

	if len(doc.Summary) > 0 {
		writer.Write([]string{}) //nolint:errcheck
		if err := writer.Write([]string{"Summary"}); err != nil {
			return nil, fmt.Errorf("write csv summary header: %w", err)
		}
		for _, card := range doc.Summary {
			if err := writer.Write([]string{sanitizeValue(card.Label), sanitizeValue(card.Value)}); err != nil {
				return nil, fmt.Errorf("write csv summary row: %w", err)
			}
		}
	}

	for _, section := range doc.Sections {
		writer.Write([]string{}) //nolint:errcheck
		if err := writer.Write([]string{sanitizeValue(section.Title)}); err != nil {
			return nil, fmt.Errorf("write csv section title: %w", err)
		}
		if err := writer.Write(sanitizeRow(section.Headers)); err != nil {
			return nil, fmt.Errorf("write csv section headers: %w", err)
		}
		for _, row := range section.Rows {
			if err := writer.Write(sanitizeRow(row)); err != nil {
				return nil, fmt.Errorf("write csv row: %w", err)
			}
		}
	}

	for _, chart := range []*Chart{doc.BarChart, doc.PieChart} {
		if chart == nil {
			continue
		}
		writer.Write([]string{}) //nolint:errcheck
		if err := writer.Write([]string{sanitizeValue(chart.Title)}); err != nil {
			return nil, fmt.Errorf("write csv chart title: %w", err)
		}
		total := chartTotal(chart)
		for _, point := range chart.Points {
			record := []string{sanitizeValue(point.Label), fmt.Sprintf("%.2f", point.Value)}
			if total > 0 {
				record = append(record, fmt.Sprintf("%.1f%%", point.Value/total*100))
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("write csv chart row: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func sanitizeRow(row []string) []string {
	out := make([]string, len(row))
	for i, value := range row {
		out[i] = sanitizeValue(value)
	}
	return out
}

func sanitizeValue(value string) string {
	return strings.ReplaceAll(value, ",", ";")
}

func chartTotal(chart *Chart) float64 {
	var total float64
	for _, point := range chart.Points {
		total += point.Value
	}
	return total
}
