package aggregation

import (
	"fmt"

	"astriql/domain/core"
	"astriql/domain/readout"

	"github.com/montanaflynn/stats"
)

// AggregateOptions describe the histogram to build
type AggregateOptions struct {
	Bins int
	Min  float64
	Max  float64
	// TargetBin is the 1-based bin whose content is reported
	TargetBin int
	// NoTargetBin skips the bin selection; TargetBin must then be 0
	NoTargetBin bool
}

// Validate checks the options before any data is read
func (o AggregateOptions) Validate() error {
	if o.Bins <= 0 {
		return fmt.Errorf("%w: %d", core.ErrInvalidBinCount, o.Bins)
	}
	if !(o.Min < o.Max) {
		return fmt.Errorf("%w: min %v must be below max %v", core.ErrInvalidRange, o.Min, o.Max)
	}
	if o.NoTargetBin {
		if o.TargetBin != 0 {
			return fmt.Errorf("%w: %d given with no bin selection", core.ErrBinOutOfRange, o.TargetBin)
		}
		return nil
	}
	if o.TargetBin < 1 || o.TargetBin > o.Bins {
		return fmt.Errorf("%w: %d not in [1, %d]", core.ErrBinOutOfRange, o.TargetBin, o.Bins)
	}
	return nil
}

// Aggregate computes the summary of a population.
// EntryCount counts Total; histogram, mean and standard deviation use Filtered only.
func Aggregate(pop readout.Population, opts AggregateOptions) (*readout.Summary, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	summary := &readout.Summary{
		EntryCount:    len(pop.Total),
		FilteredCount: len(pop.Filtered),
		TargetBin:     opts.TargetBin,
		Histogram:     NewHistogram(pop.Filtered, opts.Bins, opts.Min, opts.Max),
	}
	if !opts.NoTargetBin {
		summary.SelectedBinContent = summary.Histogram.Counts[opts.TargetBin-1]
	}

	moments, err := Moments(pop.Filtered)
	switch {
	case core.IsNoDataError(err):
	case err != nil:
		return nil, err
	default:
		summary.Moments = moments
	}
	return summary, nil
}

// Moments returns the mean and population standard deviation, or core.ErrNoData
func Moments(samples []float64) (*readout.Moments, error) {
	if len(samples) == 0 {
		return nil, core.ErrNoData
	}
	mean, err := stats.Mean(samples)
	if err != nil {
		return nil, fmt.Errorf("mean: %w", err)
	}
	stdDev, err := stats.StandardDeviationPopulation(samples)
	if err != nil {
		return nil, fmt.Errorf("standard deviation: %w", err)
	}
	return &readout.Moments{Mean: mean, StdDev: stdDev}, nil
}
