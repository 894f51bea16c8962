package readout

import (
	"fmt"
	"math"
	"strconv"

	"astriql/domain/core"
)

// Histogram is a fixed-bin histogram; Edges has one more entry than Counts
type Histogram struct {
	Edges  []float64 `json:"edges"`
	Counts []int     `json:"counts"`
}

// Bins returns the number of bins
func (h Histogram) Bins() int { return len(h.Counts) }

// Width returns the width of bin i (0-based)
func (h Histogram) Width(i int) float64 { return h.Edges[i+1] - h.Edges[i] }

// Total returns the number of samples that landed in a bin
func (h Histogram) Total() int {
	n := 0
	for _, c := range h.Counts {
		n += c
	}
	return n
}

// Moments are the mean and population standard deviation of the filtered samples
type Moments struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Summary is the aggregator output.
// EntryCount counts the unfiltered population; everything else uses the filtered one.
type Summary struct {
	EntryCount         int       `json:"entry_count"`
	FilteredCount      int       `json:"filtered_count"`
	Moments            *Moments  `json:"moments,omitempty"`
	TargetBin          int       `json:"target_bin,omitempty"`
	SelectedBinContent int       `json:"selected_bin_content"`
	Histogram          Histogram `json:"histogram"`
}

// HasData reports whether any sample passed the filter
func (s *Summary) HasData() bool { return s.Moments != nil }

// MeanStdDev returns core.ErrNoData when the filtered population was empty
func (s *Summary) MeanStdDev() (float64, float64, error) {
	if s.Moments == nil {
		return 0, 0, core.ErrNoData
	}
	return s.Moments.Mean, s.Moments.StdDev, nil
}

// HasTargetBin reports whether a bin was selected
func (s *Summary) HasTargetBin() bool { return s.TargetBin > 0 }

// Annotations returns the text block drawn next to the histogram.
// Mean and RMS are rounded to one decimal; "n/a" is shown when no sample passed the filter.
func (s *Summary) Annotations() []string {
	mean, rms := "n/a", "n/a"
	if m, sd, err := s.MeanStdDev(); err == nil {
		mean, rms = formatOneDecimal(m), formatOneDecimal(sd)
	}
	lines := []string{
		fmt.Sprintf("Entries = %d", s.EntryCount),
		"Mean = " + mean,
		"RMS = " + rms,
	}
	if s.HasTargetBin() {
		lines = append(lines, fmt.Sprintf("Bin content [%d] = %d", s.TargetBin, s.SelectedBinContent))
	}
	return lines
}

func formatOneDecimal(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', 1, 64)
}
