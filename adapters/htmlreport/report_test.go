package htmlreport

import (
	"bytes"
	"context"
	"testing"

	"astriql/domain/readout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func report() *readout.HistogramReport {
	return &readout.HistogramReport{
		SourcePath: "astri_000_41_001_00001_R_000009_002_1002.lv0",
		Fields:     []string{"PDM01HI", "PDM02HI", "PDM03HI"},
		Labels:     readout.Labels{XLabel: "ADC", YLabel: "Counts"},
		Summary: readout.Summary{
			EntryCount:    12,
			FilteredCount: 9,
			Moments:       &readout.Moments{Mean: 4, StdDev: 2.2608},
			Histogram: readout.Histogram{
				Edges:  []float64{0, 2.5, 5, 7.5, 10},
				Counts: []int{3, 2, 3, 1},
			},
		},
	}
}

func TestRenderHistogramPage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(800, 500).RenderHistogram(context.Background(), &buf, report()))

	page := buf.String()
	assert.Contains(t, page, "<svg")
	assert.Contains(t, page, "<li>Entries = 12</li>")
	assert.Contains(t, page, "<li>RMS = 2.3</li>")
	assert.Contains(t, page, "<title>PDM01HI, PDM02HI, PDM03HI</title>")
	assert.NotContains(t, page, "Bin content")
}

func TestRenderHistogramPageAllZeroCounts(t *testing.T) {
	r := report()
	r.Summary.Moments = nil
	r.Summary.Histogram.Counts = []int{0, 0, 0, 0}

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(640, 400).RenderHistogram(context.Background(), &buf, r))
	assert.Contains(t, buf.String(), "Mean = n/a")
}

func TestRenderHistogramPageRejectsEmptyHistogram(t *testing.T) {
	err := NewRenderer(640, 400).RenderHistogram(context.Background(), &bytes.Buffer{}, &readout.HistogramReport{})
	assert.Error(t, err)
}

func TestSummaryMarkdown(t *testing.T) {
	md := SummaryMarkdown(report())
	assert.Contains(t, md, "- Mean = 4.0\n")
	assert.Contains(t, md, "`PDM01HI` .. `PDM03HI` (3 modules)")
}

func TestSummaryMarkdownProfileTable(t *testing.T) {
	r := report()
	r.Profile = &readout.Profile{Min: 1, Q25: 2, Median: 4, Q75: 5, Max: 9}

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(640, 400).RenderHistogram(context.Background(), &buf, r))
	assert.Contains(t, buf.String(), "<table>")
	assert.Contains(t, SummaryMarkdown(r), "| 1.0 | 2.0 | 4.0 | 5.0 | 9.0 | 0 |")
}

func TestBinPointsUseLowEdges(t *testing.T) {
	xs, ys, top := binPoints(report().Summary.Histogram)
	assert.Equal(t, []float64{0, 2.5, 5, 7.5}, xs)
	assert.Equal(t, []float64{3, 2, 3, 1}, ys)
	assert.Equal(t, 3.0, top)

	_, _, top = binPoints(readout.Histogram{Edges: []float64{0, 1}, Counts: []int{0}})
	assert.Equal(t, 1.0, top)
}
