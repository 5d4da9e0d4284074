package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftoledo/fiberbudget/internal/store"
)

// sampleHistory is two records in insertion order; renderings must flip
// them newest-first.
func sampleHistory() []store.Calculation {
	return []store.Calculation{
		{
			ID:            1,
			ProjectName:   "Link-A",
			Distance:      12.34,
			SplitterLoss1: 3.5,
			Splitters1:    2,
			FusionSplices: 4,
			FinalSignal:   -3.868,
			CalculatedAt:  time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
			CalculatedBy:  "admin",
		},
		{
			ID:            2,
			ProjectName:   "Link-B <new>",
			Distance:      2.5,
			SplitterLoss1: 7,
			Splitters1:    1,
			FinalSignal:   4.5,
			CalculatedAt:  time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC),
			CalculatedBy:  "", // renders as N/A
		},
	}
}

func TestWriteHistory(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, sampleHistory(), false))

	goldie.New(t).Assert(t, "history", buf.Bytes())
}

func TestWriteHistory_WithIDs(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, sampleHistory(), true))

	goldie.New(t).Assert(t, "history_ids", buf.Bytes())
}

func TestWriteHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, nil, false))

	goldie.New(t).Assert(t, "history_empty", buf.Bytes())
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	err := WriteHTML(&buf, sampleHistory(), time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	// Project names are escaped, replacing the original's manual
	// sanitisation.
	assert.Contains(t, buf.String(), "Link-B &lt;new&gt;")
	assert.NotContains(t, buf.String(), "<new>")

	goldie.New(t).Assert(t, "report_html", buf.Bytes())
}

func TestWriteHTML_EmptyHistoryRefused(t *testing.T) {
	var buf bytes.Buffer
	err := WriteHTML(&buf, nil, time.Now())
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestNewestFirst_DoesNotMutateInput(t *testing.T) {
	calcs := sampleHistory()
	_ = newestFirst(calcs)
	assert.Equal(t, int64(1), calcs[0].ID, "input slice order must be preserved")
}
