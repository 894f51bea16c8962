package readout

import (
	"fmt"

	"astriql/domain/core"
)

// TemporalSeries is one sub-channel of one field followed over the events
type TemporalSeries struct {
	Field      string    `json:"field"`
	SubChannel int       `json:"sub_channel"`
	Times      []float64 `json:"times"`
	RowNumbers []int     `json:"row_numbers"`
	Values     []float64 `json:"values"`
}

// Len returns the number of events
func (s TemporalSeries) Len() int { return len(s.Values) }

// Probe is one (x, y) point picked out of a series
type Probe struct {
	Index int     `json:"index"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// TimeProbe returns the point at 1-based index on the time axis
func (s TemporalSeries) TimeProbe(index int) (Probe, error) {
	if err := s.checkIndex(index); err != nil {
		return Probe{}, err
	}
	return Probe{Index: index, X: s.Times[index-1], Y: s.Values[index-1]}, nil
}

// RowProbe returns the point at 1-based index on the row-counter axis
func (s TemporalSeries) RowProbe(index int) (Probe, error) {
	if err := s.checkIndex(index); err != nil {
		return Probe{}, err
	}
	return Probe{Index: index, X: float64(s.RowNumbers[index-1]), Y: s.Values[index-1]}, nil
}

func (s TemporalSeries) checkIndex(index int) error {
	if index < 1 || index > len(s.Values) {
		return fmt.Errorf("%w: %d not in [1, %d]", core.ErrSampleIndexOutOfRange, index, len(s.Values))
	}
	return nil
}

// Labels are the optional plot labels
type Labels struct {
	Title  string `json:"title,omitempty"`
	XLabel string `json:"x_label,omitempty"`
	YLabel string `json:"y_label,omitempty"`
}
