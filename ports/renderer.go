package ports

import (
	"context"
	"io"

	"astriql/domain/readout"
)

// HistogramRenderer draws the histogram view
type HistogramRenderer interface {
	RenderHistogram(ctx context.Context, w io.Writer, report *readout.HistogramReport) error
}

// TemporalRenderer draws the paired time/row-counter view
type TemporalRenderer interface {
	RenderTemporal(ctx context.Context, w io.Writer, report *readout.TemporalReport) error
}

// HistogramExporter writes the histogram table to a file
type HistogramExporter interface {
	ExportHistogram(ctx context.Context, path string, report *readout.HistogramReport) error
}
