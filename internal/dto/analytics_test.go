package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateRangeQueryParsesRFC3339(t *testing.T) {
	q := DateRangeQuery{Start: "2026-01-01T08:30:00Z", End: "2026-02-01T17:00:00+05:30"}

	rng, err := q.Range()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 1, 8, 30, 0, 0, time.UTC), rng.Start)
	assert.Equal(t, time.Date(2026, 2, 1, 11, 30, 0, 0, time.UTC), rng.End)
}

func TestDateRangeQueryExtendsDateOnlyEnd(t *testing.T) {
	q := DateRangeQuery{Start: "2026-01-01", End: "2026-01-31"}

	rng, err := q.Range()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), rng.Start)
	// The whole last day is included.
	assert.Equal(t, time.Date(2026, 1, 31, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC), rng.End)
}

func TestDateRangeQueryRejectsGarbage(t *testing.T) {
	q := DateRangeQuery{Start: "last tuesday", End: "2026-01-31"}
	_, err := q.Range()
	require.Error(t, err)
}
