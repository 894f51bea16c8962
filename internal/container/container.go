package container

import (
	"fmt"
	"path/filepath"

	"astriql/adapters/excel"
	"astriql/adapters/htmlreport"
	"astriql/adapters/plot"
	"astriql/app"
	"astriql/internal"
	"astriql/internal/config"
	"astriql/internal/extraction"
	"astriql/ports"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	Opener   ports.SourceOpener
	Selector *extraction.FieldSelector

	// Services
	Histograms *app.HistogramService
	Temporal   *app.TemporalService
}

// New creates a new dependency injection container reading files from disk
func New(cfg *config.Config) (*Container, error) {
	return NewWithOpener(cfg, app.FileSourceOpener)
}

// NewWithOpener creates a container with a custom table source
func NewWithOpener(cfg *config.Config, opener ports.SourceOpener) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if opener == nil {
		return nil, fmt.Errorf("source opener cannot be nil")
	}

	c := &Container{
		Config:   cfg,
		Logger:   internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level)),
		Opener:   opener,
		Selector: extraction.NewFieldSelector(cfg.Camera.ModulePrefix, cfg.Camera.ModuleCount),
	}
	c.Histograms = app.NewHistogramService(c.Opener, c.Selector, cfg.Engine.Workers, c.Logger)
	c.Temporal = app.NewTemporalService(c.Opener, c.Selector, cfg.Camera.TimeField, c.Logger)

	c.Logger.Debug("[Container] %d modules with prefix %s, %d worker(s)",
		cfg.Camera.ModuleCount, cfg.Camera.ModulePrefix, cfg.Engine.Workers)
	return c, nil
}

// OutputPath resolves an output file name against the configured output directory
func (c *Container) OutputPath(name string) string {
	if filepath.IsAbs(name) || filepath.Dir(name) != "." {
		return name
	}
	return filepath.Join(c.Config.Output.Dir, name)
}

// ImageRenderer returns the gonum/plot renderer for the format implied by path
func (c *Container) ImageRenderer(path string) (*plot.Renderer, error) {
	return plot.NewRenderer(plot.FormatFromPath(path), c.Config.Output.WidthIn, c.Config.Output.HeightIn)
}

// HTMLRenderer returns the HTML histogram renderer sized from the plot settings at 96 dpi
func (c *Container) HTMLRenderer() *htmlreport.Renderer {
	return htmlreport.NewRenderer(int(c.Config.Output.WidthIn*96), int(c.Config.Output.HeightIn*96))
}

// Exporter returns the xlsx histogram exporter
func (c *Container) Exporter() ports.HistogramExporter {
	return excel.NewHistogramWriter()
}
