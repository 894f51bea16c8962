package readout

import (
	"time"

	"astriql/domain/core"
)

// HistogramReport is everything a renderer needs for the histogram view
type HistogramReport struct {
	RunID       core.RunID  `json:"run_id"`
	SourcePath  string      `json:"source_path"`
	Fields      []string    `json:"fields"`
	SubChannel  int         `json:"sub_channel"`
	Filter      RangeFilter `json:"filter"`
	Summary     Summary     `json:"summary"`
	Profile     *Profile    `json:"profile,omitempty"`
	Labels      Labels      `json:"labels"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// TemporalReport is everything a renderer needs for the temporal view
type TemporalReport struct {
	RunID       core.RunID     `json:"run_id"`
	SourcePath  string         `json:"source_path"`
	TimeField   string         `json:"time_field"`
	Series      TemporalSeries `json:"series"`
	TimeProbe   Probe          `json:"time_probe"`
	RowProbe    Probe          `json:"row_probe"`
	Labels      Labels         `json:"labels"`
	GeneratedAt time.Time      `json:"generated_at"`
}
