package extraction

import (
	"context"
	"fmt"

	"astriql/domain/core"
	"astriql/domain/readout"
	"astriql/ports"
)

// DefaultTimeField is the per-event time column of ASTRI DL0 files
const DefaultTimeField = "TIME_S"

// TemporalOptions control the temporal extraction
type TemporalOptions struct {
	MaxRows    int
	SubChannel int
}

// ExtractTemporal follows one sub-channel of a field over the events together with the
// event time and the 1-based row counter.
func ExtractTemporal(ctx context.Context, src ports.TableSourcePort, field, timeField string, opts TemporalOptions) (readout.TemporalSeries, error) {
	if opts.MaxRows < 0 {
		return readout.TemporalSeries{}, core.NewValidationError("maxevt", fmt.Sprintf("must be >= 0, got %d", opts.MaxRows))
	}
	data, err := src.Column(ctx, field)
	if err != nil {
		return readout.TemporalSeries{}, fmt.Errorf("read field %s: %w", field, err)
	}
	times, err := src.Column(ctx, timeField)
	if err != nil {
		return readout.TemporalSeries{}, fmt.Errorf("read time field %s: %w", timeField, err)
	}
	return TemporalFromColumns(data, times, opts)
}

// TemporalFromColumns builds the series from already fetched columns
func TemporalFromColumns(data, times readout.Column, opts TemporalOptions) (readout.TemporalSeries, error) {
	data = data.Head(opts.MaxRows)
	times = times.Head(opts.MaxRows)

	if times.IsArray() {
		return readout.TemporalSeries{}, core.NewMalformedError(times.Name, "time field must be scalar")
	}
	if times.Len() < data.Len() {
		return readout.TemporalSeries{}, core.NewMalformedError(times.Name,
			fmt.Sprintf("has %d rows, field %s has %d", times.Len(), data.Name, data.Len()))
	}
	switch {
	case data.IsArray() && (opts.SubChannel < 1 || opts.SubChannel > data.Width()):
		return readout.TemporalSeries{}, fmt.Errorf("field %s: %w", data.Name, core.NewSubChannelError(opts.SubChannel, data.Width()))
	case !data.IsArray() && opts.SubChannel != 0:
		return readout.TemporalSeries{}, fmt.Errorf("field %s: %w", data.Name, core.NewSubChannelError(opts.SubChannel, 0))
	}

	n := data.Len()
	series := readout.TemporalSeries{
		Field:      data.Name,
		SubChannel: opts.SubChannel,
		Times:      make([]float64, n),
		RowNumbers: make([]int, n),
		Values:     make([]float64, n),
	}
	for i, row := range data.Rows {
		v := row.Value()
		if row.IsArray() {
			var err error
			if v, err = row.Element(opts.SubChannel); err != nil {
				return readout.TemporalSeries{}, err
			}
		}
		series.Values[i] = v
		series.Times[i] = times.Rows[i].Value()
		series.RowNumbers[i] = i + 1
	}
	return series, nil
}
