package plot

import (
	"bytes"
	"context"
	"testing"

	"astriql/domain/readout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func histogramReport() *readout.HistogramReport {
	return &readout.HistogramReport{
		Fields: []string{"PDM01HI"},
		Labels: readout.Labels{Title: "HI", XLabel: "ADC", YLabel: "Counts"},
		Summary: readout.Summary{
			EntryCount: 9,
			Moments:    &readout.Moments{Mean: 4, StdDev: 2.26},
			TargetBin:  1,
			Histogram: readout.Histogram{
				Edges:  []float64{0, 2.5, 5, 7.5, 10},
				Counts: []int{3, 2, 3, 1},
			},
			SelectedBinContent: 3,
		},
	}
}

func TestRenderHistogramPNG(t *testing.T) {
	r, err := NewRenderer(FormatPNG, 4, 3)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.RenderHistogram(context.Background(), &buf, histogramReport()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestRenderHistogramSVG(t *testing.T) {
	r, err := NewRenderer(FormatSVG, 4, 3)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.RenderHistogram(context.Background(), &buf, histogramReport()))
	assert.Contains(t, buf.String(), "<svg")
	assert.Contains(t, buf.String(), "Entries = 9")
}

func TestHistogramPlotRejectsEmptyHistogram(t *testing.T) {
	_, err := HistogramPlot(&readout.HistogramReport{})
	assert.Error(t, err)
}

func TestNewRendererRejectsUnknownFormat(t *testing.T) {
	_, err := NewRenderer("bmp", 4, 3)
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatSVG, FormatFromPath("out/histo.SVG"))
	assert.Equal(t, FormatPNG, FormatFromPath("histo.png"))
	assert.Equal(t, FormatPNG, FormatFromPath("histo"))
}

func TestRenderTemporal(t *testing.T) {
	series := readout.TemporalSeries{
		Field:      "PDM03HI",
		SubChannel: 2,
		Times:      []float64{100, 101, 102},
		RowNumbers: []int{1, 2, 3},
		Values:     []float64{900, 950, 920},
	}
	tp, err := series.TimeProbe(2)
	require.NoError(t, err)
	rp, err := series.RowProbe(3)
	require.NoError(t, err)

	report := &readout.TemporalReport{
		TimeField: "TIME_S",
		Series:    series,
		TimeProbe: tp,
		RowProbe:  rp,
		Labels:    readout.Labels{YLabel: "HI"},
	}
	r, err := NewRenderer(FormatPNG, 6, 3)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.RenderTemporal(context.Background(), &buf, report))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestRenderTemporalEmpty(t *testing.T) {
	r, err := NewRenderer(FormatPNG, 6, 3)
	require.NoError(t, err)
	err = r.RenderTemporal(context.Background(), &bytes.Buffer{}, &readout.TemporalReport{})
	assert.Error(t, err)
}

func TestProbeText(t *testing.T) {
	assert.Equal(t, "HI value [101] = 950", ProbeText("HI", readout.Probe{Index: 2, X: 101, Y: 950}))
	assert.Equal(t, "T value [7] = 28.4375", ProbeText("T", readout.Probe{Index: 7, X: 7, Y: 28.4375}))
}
