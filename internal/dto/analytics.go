package dto

import (
	"time"

	"github.com/odtrack/analytics-api/internal/models"
)

// queryDateLayouts are accepted for start/end query parameters, tried in
// order.
var queryDateLayouts = []string{time.RFC3339, "2006-01-02"}

// DateRangeQuery captures the period query parameters shared by analytics
// endpoints.
type DateRangeQuery struct {
	Start string `form:"start" binding:"required"`
	End   string `form:"end" binding:"required"`
}

// Range parses the query values into a date range. A date-only end bound is
// extended to the end of that day.
func (q DateRangeQuery) Range() (models.DateRange, error) {
	start, _, err := parseQueryDate(q.Start)
	if err != nil {
		return models.DateRange{}, err
	}
	end, endLayout, err := parseQueryDate(q.End)
	if err != nil {
		return models.DateRange{}, err
	}
	if endLayout == "2006-01-02" {
		end = end.Add(24*time.Hour - time.Nanosecond)
	}
	return models.DateRange{Start: start, End: end}, nil
}

func parseQueryDate(value string) (time.Time, string, error) {
	var lastErr error
	for _, layout := range queryDateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.UTC(), layout, nil
		}
		lastErr = err
	}
	return time.Time{}, "", lastErr
}
