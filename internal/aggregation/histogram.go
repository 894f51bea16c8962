package aggregation

import (
	"sort"

	"astriql/domain/readout"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// NewHistogram bins samples into equal-width bins over [min, max].
// Bins are half-open except the last, which also takes samples equal to max.
// Samples outside the range are dropped.
func NewHistogram(samples []float64, bins int, min, max float64) readout.Histogram {
	edges := floats.Span(make([]float64, bins+1), min, max)

	inRange := make([]float64, 0, len(samples))
	atMax := 0
	for _, v := range samples {
		switch {
		case v >= min && v < max:
			inRange = append(inRange, v)
		case v == max:
			atMax++
		}
	}
	sort.Float64s(inRange)

	weights := stat.Histogram(nil, edges, inRange, nil)
	counts := make([]int, bins)
	for i, w := range weights {
		counts[i] = int(w)
	}
	counts[bins-1] += atMax

	return readout.Histogram{Edges: edges, Counts: counts}
}
