// Package plot renders readout reports as static PNG or SVG figures.
package plot

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"astriql/domain/readout"
	"astriql/internal/errors"
	"astriql/ports"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Supported output formats
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

var (
	barColor   = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	probeColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// Renderer draws histogram and temporal figures with gonum/plot
type Renderer struct {
	Format string
	Width  vg.Length
	Height vg.Length
}

// NewRenderer creates a renderer for the given format and size in inches
func NewRenderer(format string, widthIn, heightIn float64) (*Renderer, error) {
	format = strings.ToLower(format)
	if format != FormatPNG && format != FormatSVG {
		return nil, errors.ValidationError(fmt.Sprintf("unsupported image format %q", format))
	}
	return &Renderer{
		Format: format,
		Width:  vg.Length(widthIn) * vg.Inch,
		Height: vg.Length(heightIn) * vg.Inch,
	}, nil
}

// FormatFromPath picks the output format from a file extension, defaulting to png
func FormatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return FormatSVG
	}
	return FormatPNG
}

// RenderHistogram draws the histogram bars with the summary block as legend
func (r *Renderer) RenderHistogram(ctx context.Context, w io.Writer, report *readout.HistogramReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := HistogramPlot(report)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(r.Width, r.Height, r.Format)
	if err != nil {
		return errors.InternalError(fmt.Sprintf("histogram canvas: %v", err))
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.IOError("failed to write histogram image", err)
	}
	return nil
}

// HistogramPlot builds the histogram figure without encoding it
func HistogramPlot(report *readout.HistogramReport) (*plot.Plot, error) {
	h := report.Summary.Histogram
	if h.Bins() == 0 {
		return nil, errors.ValidationError("histogram has no bins")
	}

	bins := make([]plotter.HistogramBin, h.Bins())
	for i, c := range h.Counts {
		bins[i] = plotter.HistogramBin{Min: h.Edges[i], Max: h.Edges[i+1], Weight: float64(c)}
	}
	bars := &plotter.Histogram{
		Bins:      bins,
		Width:     h.Width(0),
		FillColor: barColor,
		LineStyle: plotter.DefaultLineStyle,
	}

	p := plot.New()
	p.Title.Text = report.Labels.Title
	p.X.Label.Text = report.Labels.XLabel
	p.Y.Label.Text = report.Labels.YLabel
	p.X.Min, p.X.Max = h.Edges[0], h.Edges[len(h.Edges)-1]
	p.Add(plotter.NewGrid(), bars)

	p.Legend.Top = true
	for _, line := range report.Summary.Annotations() {
		p.Legend.Add(line)
	}
	return p, nil
}

// RenderTemporal draws the time panel and the row-counter panel side by side
func (r *Renderer) RenderTemporal(ctx context.Context, w io.Writer, report *readout.TemporalReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := report.Series
	if s.Len() == 0 {
		return errors.New(errors.CodeNoData, "temporal series is empty")
	}

	timeXY := make(plotter.XYs, s.Len())
	rowXY := make(plotter.XYs, s.Len())
	for i, v := range s.Values {
		timeXY[i] = plotter.XY{X: s.Times[i], Y: v}
		rowXY[i] = plotter.XY{X: float64(s.RowNumbers[i]), Y: v}
	}

	left, err := panel(report.Labels, report.TimeField, timeXY, report.TimeProbe)
	if err != nil {
		return err
	}
	right, err := panel(report.Labels, "ROW COUNTER", rowXY, report.RowProbe)
	if err != nil {
		return err
	}

	c, err := draw.NewFormattedCanvas(r.Width, r.Height, r.Format)
	if err != nil {
		return errors.InternalError(fmt.Sprintf("temporal canvas: %v", err))
	}
	plots := [][]*plot.Plot{{left, right}}
	tiles := draw.Tiles{Rows: 1, Cols: 2, PadX: vg.Millimeter * 5, PadTop: vg.Millimeter * 2, PadBottom: vg.Millimeter * 2}
	canvases := plot.Align(plots, tiles, draw.New(c))
	for j, p := range plots[0] {
		p.Draw(canvases[0][j])
	}

	if _, err := c.WriteTo(w); err != nil {
		return errors.IOError("failed to write temporal image", err)
	}
	return nil
}

func panel(labels readout.Labels, xLabel string, xys plotter.XYs, probe readout.Probe) (*plot.Plot, error) {
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, errors.FormatError("temporal line", err)
	}
	marker, err := plotter.NewScatter(plotter.XYs{{X: probe.X, Y: probe.Y}})
	if err != nil {
		return nil, errors.FormatError("temporal probe", err)
	}
	marker.GlyphStyle.Color = probeColor
	marker.GlyphStyle.Shape = draw.CircleGlyph{}
	marker.GlyphStyle.Radius = vg.Points(4)

	p := plot.New()
	p.Title.Text = labels.Title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = labels.YLabel
	p.Add(plotter.NewGrid(), line, marker)
	p.Legend.Top = true
	p.Legend.Add(ProbeText(labels.YLabel, probe), marker)
	return p, nil
}

// ProbeText formats the annotation of a probed point with the raw values
func ProbeText(yLabel string, probe readout.Probe) string {
	return fmt.Sprintf("%s value [%g] = %g", yLabel, probe.X, probe.Y)
}

var (
	_ ports.HistogramRenderer = (*Renderer)(nil)
	_ ports.TemporalRenderer  = (*Renderer)(nil)
)
