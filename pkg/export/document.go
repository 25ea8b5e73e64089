package export

import "time"

// Field is an ordered metadata key/value line.
type Field struct {
	Key   string
	Value string
}

// Card is a headline figure shown in the report summary block.
type Card struct {
	Label string
	Value string
}

// Point is one labelled chart value.
type Point struct {
	Label string
	Value float64
}

// Chart is a labelled series rendered as a bar chart or pie legend.
type Chart struct {
	Title  string
	Points []Point
}

// Section is one titled table inside a report document.
type Section struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Document is the renderer-neutral report representation assembled by the
// report builder and consumed by the CSV and PDF renderers.
type Document struct {
	Title       string
	GeneratedAt time.Time
	Metadata    []Field
	Summary     []Card
	Sections    []Section
	BarChart    *Chart
	PieChart    *Chart
}
