package app

import (
	"context"
	"fmt"
	"time"

	"astriql/domain/core"
	"astriql/domain/readout"
	"astriql/internal"
	"astriql/internal/aggregation"
	"astriql/internal/errors"
	"astriql/internal/extraction"
	"astriql/internal/profiling"
	"astriql/ports"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// HistogramService runs the histogram quick-look: select, extract, aggregate
type HistogramService struct {
	opener   ports.SourceOpener
	selector *extraction.FieldSelector
	profiler *profiling.DistributionAnalyzer
	workers  int
	logger   *internal.Logger
}

// HistogramRequest holds the parsed command-line inputs of a histogram run
type HistogramRequest struct {
	Path       string `validate:"required"`
	Module     int    `validate:"min=0"`
	Param      string `validate:"required"`
	SubChannel int    `validate:"min=0"`
	Bins       int    `validate:"min=1"`
	Min        float64
	Max        float64
	MaxRows    int `validate:"min=0"`
	TargetBin  int `validate:"min=0"`
	// NoTargetBin is set by views that report no bin content
	NoTargetBin bool
	Labels      readout.Labels
}

func (r HistogramRequest) extractOptions() extraction.ExtractOptions {
	return extraction.ExtractOptions{
		MaxRows:    r.MaxRows,
		SubChannel: r.SubChannel,
		Filter:     readout.RangeFilter{Min: r.Min, Max: r.Max},
	}
}

func (r HistogramRequest) aggregateOptions() aggregation.AggregateOptions {
	return aggregation.AggregateOptions{Bins: r.Bins, Min: r.Min, Max: r.Max, TargetBin: r.TargetBin, NoTargetBin: r.NoTargetBin}
}

// NewHistogramService creates a histogram service
func NewHistogramService(opener ports.SourceOpener, selector *extraction.FieldSelector, workers int, logger *internal.Logger) *HistogramService {
	return &HistogramService{
		opener:   opener,
		selector: selector,
		profiler: profiling.NewDistributionAnalyzer(),
		workers:  workers,
		logger:   logger,
	}
}

// Run validates the request, reads the selected fields and builds the report.
// Invalid inputs are rejected before the file is opened.
func (s *HistogramService) Run(ctx context.Context, req HistogramRequest) (*readout.HistogramReport, error) {
	startTime := time.Now()

	if err := validate.Struct(req); err != nil {
		return nil, errors.WithCode(errors.CodeValidationError, err)
	}
	if err := req.aggregateOptions().Validate(); err != nil {
		return nil, errors.WithCode(errors.CodeValidationError, err)
	}
	fields, err := s.selector.Resolve(req.Module, req.Param)
	if err != nil {
		return nil, errors.WithCode(errors.CodeValidationError, err)
	}

	runID := core.NewRunID()
	s.logger.Info("[HistogramService] Run %s: %d field(s) from %s", runID, len(fields), req.Path)

	src, err := s.opener.Open(ctx, req.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", req.Path)
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			s.logger.Warn("[HistogramService] Close %s: %v", req.Path, cerr)
		}
	}()

	pop, err := extraction.ExtractModules(ctx, src, fields, req.extractOptions(), s.workers)
	if err != nil {
		return nil, classify(err, "extraction failed")
	}
	s.logger.Debug("[HistogramService] Extracted %d samples, %d in range", len(pop.Total), len(pop.Filtered))

	summary, err := aggregation.Aggregate(pop, req.aggregateOptions())
	if err != nil {
		return nil, classify(err, "aggregation failed")
	}
	if !summary.HasData() {
		s.logger.Warn("[HistogramService] No sample of %s passed the range filter", req.Param)
	}

	report := &readout.HistogramReport{
		RunID:       runID,
		SourcePath:  req.Path,
		Fields:      fields,
		SubChannel:  req.SubChannel,
		Filter:      readout.RangeFilter{Min: req.Min, Max: req.Max},
		Summary:     *summary,
		Labels:      histogramLabels(req),
		GeneratedAt: time.Now(),
	}
	if profile, err := s.profiler.AnalyzeDistribution(pop.Filtered); err == nil {
		report.Profile = profile
	}

	s.logger.Info("[HistogramService] Run %s finished in %.2fms", runID, float64(time.Since(startTime).Nanoseconds())/1e6)
	return report, nil
}

func histogramLabels(req HistogramRequest) readout.Labels {
	labels := req.Labels
	if labels.Title == "" {
		labels.Title = req.Param
		if req.SubChannel > 0 {
			labels.Title = fmt.Sprintf("%s [%d]", req.Param, req.SubChannel)
		}
	}
	if labels.XLabel == "" {
		labels.XLabel = req.Param
	}
	if labels.YLabel == "" {
		labels.YLabel = "Entries"
	}
	return labels
}

// classify attaches an error code matching the domain sentinel in the chain
func classify(err error, message string) error {
	switch {
	case errors.IsAppError(err):
		return errors.Wrap(err, message)
	case core.IsNotFoundError(err):
		return errors.Wrap(errors.WithCode(errors.CodeNotFound, err), message)
	case core.IsValidationError(err):
		return errors.Wrap(errors.WithCode(errors.CodeValidationError, err), message)
	case core.IsFormatError(err):
		return errors.Wrap(errors.WithCode(errors.CodeFormatError, err), message)
	case core.IsNoDataError(err):
		return errors.Wrap(errors.WithCode(errors.CodeNoData, err), message)
	default:
		return errors.Wrap(err, message)
	}
}
