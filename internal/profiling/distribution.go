package profiling

import (
	"math"

	"astriql/domain/core"
	"astriql/domain/readout"

	"github.com/montanaflynn/stats"
)

// DistributionAnalyzer handles distribution shape analysis
type DistributionAnalyzer struct{}

// NewDistributionAnalyzer creates a new distribution analyzer
func NewDistributionAnalyzer() *DistributionAnalyzer {
	return &DistributionAnalyzer{}
}

// AnalyzeDistribution profiles the samples; an empty slice gives core.ErrNoData
func (da *DistributionAnalyzer) AnalyzeDistribution(data []float64) (*readout.Profile, error) {
	if len(data) == 0 {
		return nil, core.ErrNoData
	}

	mean, err := stats.Mean(data)
	if err != nil {
		return nil, err
	}
	stdDev, err := stats.StandardDeviationPopulation(data)
	if err != nil {
		return nil, err
	}
	min, err := stats.Min(data)
	if err != nil {
		return nil, err
	}
	max, err := stats.Max(data)
	if err != nil {
		return nil, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return nil, err
	}

	// Quartiles for IQR-based outlier detection
	q25, err := stats.Percentile(data, 25)
	if err != nil {
		return nil, err
	}
	q75, err := stats.Percentile(data, 75)
	if err != nil {
		return nil, err
	}

	return &readout.Profile{
		Min:      min,
		Max:      max,
		Median:   median,
		Q25:      q25,
		Q75:      q75,
		Skewness: calculateSkewness(data, mean, stdDev),
		Kurtosis: calculateKurtosis(data, mean, stdDev),
		Outliers: detectOutliers(data, q25, q75),
	}, nil
}

// calculateSkewness computes sample skewness using the adjusted Fisher-Pearson coefficient
func calculateSkewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	sumCubedDeviations := 0.0
	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumCubedDeviations += deviation * deviation * deviation
	}

	skewness := sumCubedDeviations / n
	return skewness * math.Sqrt(n*(n-1)) / (n - 2)
}

// calculateKurtosis computes the excess kurtosis
func calculateKurtosis(data []float64, mean, stdDev float64) float64 {
	if len(data) < 4 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	sumFourthDeviations := 0.0
	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumFourthDeviations += deviation * deviation * deviation * deviation
	}
	return sumFourthDeviations/n - 3
}

// detectOutliers counts samples outside 1.5 IQR of the quartiles
func detectOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lowerBound := q25 - 1.5*iqr
	upperBound := q75 + 1.5*iqr

	outlierCount := 0
	for _, x := range data {
		if x < lowerBound || x > upperBound {
			outlierCount++
		}
	}
	return outlierCount
}
