// Package htmlreport writes the interactive-style histogram page as a static HTML document.
package htmlreport

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"strings"

	"astriql/domain/readout"
	"astriql/internal/errors"
	"astriql/ports"

	"github.com/gomarkdown/markdown"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// DefaultFileName is used when no output path is given
const DefaultFileName = "ASTRIQL_histo.html"

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
.summary { margin-top: 1em; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="chart">{{.Chart}}</div>
<div class="summary">{{.Summary}}</div>
<p><small>run {{.RunID}} &middot; {{.Source}}</small></p>
</body>
</html>
`

var lineColor = drawing.Color{R: 31, G: 119, B: 180, A: 255}

// Renderer produces an HTML page with an SVG histogram and a markdown summary
type Renderer struct {
	Width  int
	Height int

	page *template.Template
}

type pageData struct {
	Title   string
	Chart   template.HTML
	Summary template.HTML
	RunID   string
	Source  string
}

// NewRenderer creates a renderer drawing a chart of width x height pixels
func NewRenderer(width, height int) *Renderer {
	return &Renderer{
		Width:  width,
		Height: height,
		page:   template.Must(template.New("histogram").Parse(pageTemplate)),
	}
}

// RenderHistogram implements ports.HistogramRenderer
func (r *Renderer) RenderHistogram(ctx context.Context, w io.Writer, report *readout.HistogramReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	svg, err := r.chartSVG(report)
	if err != nil {
		return err
	}
	title := report.Labels.Title
	if title == "" {
		title = strings.Join(report.Fields, ", ")
	}
	data := pageData{
		Title:   title,
		Chart:   template.HTML(svg),
		Summary: template.HTML(markdown.ToHTML([]byte(SummaryMarkdown(report)), nil, nil)),
		RunID:   report.RunID.String(),
		Source:  report.SourcePath,
	}
	if err := r.page.Execute(w, data); err != nil {
		return errors.IOError("failed to write histogram page", err)
	}
	return nil
}

// binPoints places each bin count at the bin low edge; top is at least 1
func binPoints(h readout.Histogram) (xs, ys []float64, top float64) {
	xs = make([]float64, h.Bins())
	ys = make([]float64, h.Bins())
	top = 1
	for i, c := range h.Counts {
		xs[i] = h.Edges[i]
		ys[i] = float64(c)
		if ys[i] > top {
			top = ys[i]
		}
	}
	return xs, ys, top
}

// chartSVG draws the bin points joined by a line and marked with dots
func (r *Renderer) chartSVG(report *readout.HistogramReport) ([]byte, error) {
	h := report.Summary.Histogram
	if h.Bins() == 0 {
		return nil, errors.ValidationError("histogram has no bins")
	}
	xs, ys, top := binPoints(h)

	ch := chart.Chart{
		Width:      r.Width,
		Height:     r.Height,
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 16, Right: 12, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  report.Labels.XLabel,
			Range: &chart.ContinuousRange{Min: h.Edges[0], Max: h.Edges[len(h.Edges)-1]},
		},
		YAxis: chart.YAxis{
			Name:  report.Labels.YLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "counts",
				XValues: xs,
				YValues: ys,
				Style:   chart.Style{StrokeColor: lineColor, StrokeWidth: 2},
			},
			chart.ContinuousSeries{
				Name:    "bins",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: drawing.ColorTransparent,
					DotWidth:    4,
					DotColor:    lineColor,
				},
			},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.SVG, &buf); err != nil {
		return nil, errors.InternalError(fmt.Sprintf("histogram chart: %v", err))
	}
	return buf.Bytes(), nil
}

// SummaryMarkdown returns the summary block as a markdown list
func SummaryMarkdown(report *readout.HistogramReport) string {
	var b strings.Builder
	b.WriteString("### Summary\n\n")
	for _, line := range report.Summary.Annotations() {
		fmt.Fprintf(&b, "- %s\n", line)
	}
	if len(report.Fields) == 1 {
		fmt.Fprintf(&b, "- Field = `%s`\n", report.Fields[0])
	} else if len(report.Fields) > 1 {
		fmt.Fprintf(&b, "- Fields = `%s` .. `%s` (%d modules)\n", report.Fields[0], report.Fields[len(report.Fields)-1], len(report.Fields))
	}
	if p := report.Profile; p != nil {
		b.WriteString("\n| min | q25 | median | q75 | max | outliers |\n|---|---|---|---|---|---|\n")
		fmt.Fprintf(&b, "| %.1f | %.1f | %.1f | %.1f | %.1f | %d |\n", p.Min, p.Q25, p.Median, p.Q75, p.Max, p.Outliers)
	}
	return b.String()
}

var _ ports.HistogramRenderer = (*Renderer)(nil)
