package testkit

import (
	"fmt"
	"math/rand"

	"astriql/domain/readout"
)

// CameraGeneratorConfig configures the synthetic DL0 table generator
type CameraGeneratorConfig struct {
	Modules        int     `json:"modules"`
	Pixels         int     `json:"pixels"`
	TempSensors    int     `json:"temp_sensors"`
	Events         int     `json:"events"`
	Pedestal       float64 `json:"pedestal"`
	PedestalSigma  float64 `json:"pedestal_sigma"`
	SignalFraction float64 `json:"signal_fraction"`
	SignalMean     float64 `json:"signal_mean"`
	BaseTemp       float64 `json:"base_temp"`
	StartTime      float64 `json:"start_time"`
	EventPeriod    float64 `json:"event_period"`
	Seed           int64   `json:"seed"`
}

// DefaultCameraConfig mirrors the ASTRI camera layout: 37 PDMs, 64 pixels, 16 sensors
func DefaultCameraConfig() CameraGeneratorConfig {
	return CameraGeneratorConfig{
		Modules:        37,
		Pixels:         64,
		TempSensors:    16,
		Events:         200,
		Pedestal:       900,
		PedestalSigma:  25,
		SignalFraction: 0.1,
		SignalMean:     1200,
		BaseTemp:       28,
		StartTime:      1441886400,
		EventPeriod:    0.01,
		Seed:           42,
	}
}

// CameraGenerator fills a MemorySource with PDMnnHI, PDMnnLG, PDMnnT and TIME_S columns
type CameraGenerator struct {
	config CameraGeneratorConfig
	rng    *rand.Rand
}

// NewCameraGenerator creates a new generator
func NewCameraGenerator(config CameraGeneratorConfig) *CameraGenerator {
	return &CameraGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate builds the table
func (g *CameraGenerator) Generate() (*MemorySource, error) {
	src := NewMemorySource()
	c := g.config

	times := make([]float64, c.Events)
	for i := range times {
		times[i] = c.StartTime + float64(i)*c.EventPeriod
	}
	src.AddScalars("TIME_S", times...)

	for m := 1; m <= c.Modules; m++ {
		hi := make([]readout.Row, c.Events)
		lg := make([]readout.Row, c.Events)
		temps := make([]readout.Row, c.Events)
		for ev := 0; ev < c.Events; ev++ {
			hi[ev] = readout.Array(g.adcCounts(1)...)
			lg[ev] = readout.Array(g.adcCounts(0.1)...)
			temps[ev] = readout.Array(g.temperatures(m, ev)...)
		}
		for suffix, rows := range map[string][]readout.Row{"HI": hi, "LG": lg, "T": temps} {
			if err := src.AddColumn(fmt.Sprintf("PDM%02d%s", m, suffix), rows...); err != nil {
				return nil, err
			}
		}
	}
	return src, nil
}

func (g *CameraGenerator) adcCounts(gain float64) []float64 {
	c := g.config
	counts := make([]float64, c.Pixels)
	for p := range counts {
		v := c.Pedestal + g.rng.NormFloat64()*c.PedestalSigma
		if g.rng.Float64() < c.SignalFraction {
			v += (c.SignalMean - c.Pedestal) * gain * g.rng.ExpFloat64()
		}
		if v < 0 {
			v = 0
		}
		counts[p] = float64(int64(v))
	}
	return counts
}

func (g *CameraGenerator) temperatures(module, event int) []float64 {
	c := g.config
	temps := make([]float64, c.TempSensors)
	drift := 0.002 * float64(event)
	for s := range temps {
		temps[s] = c.BaseTemp + 0.1*float64(module%5) + drift + g.rng.NormFloat64()*0.05
	}
	return temps
}
